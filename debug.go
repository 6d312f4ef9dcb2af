package lookbook

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	drawTime  time.Duration
	nodeCount int
	drawCalls int
}

// debugLog logs draw stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.log.Debug("frame",
		zap.Duration("draw", stats.drawTime),
		zap.Int("nodes", stats.nodeCount),
		zap.Int("draw_calls", stats.drawCalls),
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("lookbook debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// newStatsWidget creates a text node that shows FPS, TPS and the product
// count, refreshed about twice a second.
func newStatsWidget(face text.Face, count func() int) *Node {
	node := NewText("stats_widget", "", face)
	node.ZIndex = 10000
	node.Color = Color{R: 0.2, G: 0.8, B: 0.3, A: 1}

	var since float64
	node.OnUpdate = func(dt float64) {
		since += dt
		if since < 0.5 && node.Text != "" {
			return
		}
		since = 0
		node.Text = fmt.Sprintf("FPS %.1f  TPS %.1f  products %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), count())
	}
	return node
}
