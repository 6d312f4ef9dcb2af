package lookbook

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Scene is the top-level object that owns the node tree, input state, active
// tweens and draw stats.
type Scene struct {
	root  *Node
	debug bool
	log   *zap.Logger

	// Background fill applied before drawing the tree. Zero alpha skips it.
	ClearColor Color

	tweens []*TweenGroup

	// Input state
	handlers    handlerRegistry
	captured    *Node
	pointer     pointerState
	hitBuf      []*Node
	injectQueue []syntheticEvent
	readPointer func() pointerSample
	script      *ScriptRunner

	// ScreenshotDir receives captures queued with Screenshot.
	ScreenshotDir   string
	screenshotQueue []string

	stats debugStats
}

// NewScene creates a new scene with a pre-created root container.
func NewScene(log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:          root,
		log:           log,
		readPointer:   readEbitenPointer,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Update refreshes transforms, advances tweens and per-node updates, then
// processes input.
func (s *Scene) Update() {
	dt := 1.0 / float64(ebiten.TPS())
	s.step(dt)
}

func (s *Scene) step(dt float64) {
	// Hit testing needs accurate world transforms this frame.
	refreshTree(s.root)

	s.advanceTweens(float32(dt))
	runNodeUpdates(s.root, dt)
	if s.script != nil {
		s.script.step(s)
	}
	s.processInput()

	// Input handlers may have moved nodes; keep Draw and the next hit test
	// consistent.
	refreshTree(s.root)
}

// Animate registers a tween group that the scene advances every Update until
// it reports Done.
func (s *Scene) Animate(g *TweenGroup) {
	if g == nil {
		return
	}
	s.tweens = append(s.tweens, g)
}

func (s *Scene) advanceTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
}

func runNodeUpdates(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for _, child := range n.children {
		runNodeUpdates(child, dt)
	}
}

// Draw renders the tree to screen in painter order.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.stats = debugStats{}
	s.drawNode(screen, s.root)

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.debugLog(s.stats)
	}
	s.flushScreenshots(screen)
}

// SetDebugMode enables or disables debug mode. When enabled, attaching
// disposed nodes anywhere under this scene's root panics and per-frame draw
// stats are logged at debug level. Other scenes are unaffected.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.root.debugTree = enabled
}
