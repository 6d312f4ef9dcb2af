package lookbook

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// --- Pointer state ---

type pointerState struct {
	down      bool
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	button    MouseButton // button captured at press time
}

// pointerSample is one frame of raw pointer input.
type pointerSample struct {
	x, y    float64
	pressed bool
	button  MouseButton
	wheelY  float64
	mods    KeyModifiers
	// holdButtons keeps the current button state; set on injected wheel
	// ticks, which carry no button information.
	holdButtons bool
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type handlerRegistry struct {
	pointerDown []pointerHandler
	pointerUp   []pointerHandler
	pointerMove []pointerHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removePointerHandler(h.reg.pointerDown, h.id)
	case EventPointerUp:
		h.reg.pointerUp = removePointerHandler(h.reg.pointerUp, h.id)
	case EventPointerMove:
		h.reg.pointerMove = removePointerHandler(h.reg.pointerMove, h.id)
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (s *Scene) register(list *[]pointerHandler, event EventType, fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	*list = append(*list, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: event}
}

// OnPointerDown registers a scene-level callback for pointer down events.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return s.register(&s.handlers.pointerDown, EventPointerDown, fn)
}

// OnPointerUp registers a scene-level callback for pointer up events. It
// fires wherever the pointer is released, over a node or not.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return s.register(&s.handlers.pointerUp, EventPointerUp, fn)
}

// OnPointerMove registers a scene-level callback for pointer move events.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return s.register(&s.handlers.pointerMove, EventPointerMove, fn)
}

// CapturePointer routes all pointer events to the given node until release.
func (s *Scene) CapturePointer(node *Node) {
	s.captured = node
}

// ReleasePointer stops routing pointer events to a captured node.
func (s *Scene) ReleasePointer() {
	s.captured = nil
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise sprites use their Width x Height box.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Type != NodeTypeSprite || (n.Width == 0 && n.Height == 0) {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectInteractable walks the tree in painter order, appending interactable
// nodes to buf. Skips Visible=false or Interactable=false subtrees.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Type == NodeTypeSprite {
		buf = append(buf, n)
	}
	for _, child := range sortedChildrenOf(n) {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])

	// Reverse painter order: topmost visual node first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// readEbitenPointer samples the mouse for this frame.
func readEbitenPointer() pointerSample {
	mx, my := ebiten.CursorPosition()
	sample := pointerSample{x: float64(mx), y: float64(my), mods: readModifiers()}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		sample.pressed = true
		switch {
		case left:
			sample.button = MouseButtonLeft
		case right:
			sample.button = MouseButtonRight
		default:
			sample.button = MouseButtonMiddle
		}
	}
	_, sample.wheelY = ebiten.Wheel()
	return sample
}

// processInput handles one frame of pointer input. An injected event, if
// queued, replaces real input for the frame. The pointer state machine runs
// before the wheel so moves and releases are not held back while scrolling.
func (s *Scene) processInput() {
	sample, ok := s.popInjected()
	if !ok {
		sample = s.readPointer()
	}
	if sample.holdButtons {
		sample.pressed = s.pointer.down
		sample.button = s.pointer.button
	}
	s.processPointer(sample.x, sample.y, sample.pressed, sample.button, sample.mods)
	if sample.wheelY != 0 {
		s.processWheel(sample.x, sample.y, sample.wheelY, sample.mods)
	}
}

// processPointer runs the pointer state machine.
func (s *Scene) processPointer(wx, wy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointer

	var target *Node
	if s.captured != nil {
		target = s.captured
	} else {
		target = s.hitTest(wx, wy)
	}

	if target != ps.hoverNode {
		if ps.hoverNode != nil && !ps.hoverNode.IsDisposed() {
			s.fire(EventPointerLeave, ps.hoverNode, wx, wy, button, ps.down, mods)
		}
		if target != nil {
			s.fire(EventPointerEnter, target, wx, wy, button, ps.down, mods)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		// Just pressed: capture button for the duration of this interaction.
		ps.down = true
		ps.button = button
		ps.lastX = wx
		ps.lastY = wy
		ps.hitNode = target
		s.fire(EventPointerDown, target, wx, wy, button, true, mods)

	case !pressed && ps.down:
		if ps.hitNode != nil && ps.hitNode == target && !target.IsDisposed() {
			s.fire(EventClick, target, wx, wy, ps.button, false, mods)
		}
		s.fire(EventPointerUp, target, wx, wy, ps.button, false, mods)

		// Auto-release capture.
		s.captured = nil
		ps.down = false
		ps.hitNode = nil

	case wx != ps.lastX || wy != ps.lastY:
		btn := button
		if ps.down {
			btn = ps.button
		}
		s.fire(EventPointerMove, target, wx, wy, btn, ps.down, mods)
		ps.lastX = wx
		ps.lastY = wy
	}
}

// processWheel dispatches a wheel tick to the topmost node under the pointer,
// bubbling up to the nearest ancestor that has an OnWheel callback.
func (s *Scene) processWheel(wx, wy, deltaY float64, mods KeyModifiers) {
	for n := s.hitTest(wx, wy); n != nil; n = n.Parent {
		if n.OnWheel != nil {
			n.OnWheel(WheelContext{
				Node: n, UserData: n.UserData,
				GlobalX: wx, GlobalY: wy, DeltaY: deltaY, Modifiers: mods,
			})
			return
		}
	}
}

// --- Event dispatch ---

func (s *Scene) fire(event EventType, node *Node, wx, wy float64, button MouseButton, pressed bool, mods KeyModifiers) {
	var lx, ly float64
	var userData any
	if node != nil {
		lx, ly = node.WorldToLocal(wx, wy)
		userData = node.UserData
	}
	ctx := PointerContext{
		Node: node, UserData: userData,
		GlobalX: wx, GlobalY: wy, LocalX: lx, LocalY: ly,
		Button: button, Pressed: pressed, Modifiers: mods,
	}

	// Scene-level handlers first. Iterate over a copy: a handler may remove
	// itself or register others.
	var scoped []pointerHandler
	switch event {
	case EventPointerDown:
		scoped = s.handlers.pointerDown
	case EventPointerUp:
		scoped = s.handlers.pointerUp
	case EventPointerMove:
		scoped = s.handlers.pointerMove
	}
	if len(scoped) > 0 {
		for _, h := range append([]pointerHandler(nil), scoped...) {
			h.fn(ctx)
		}
	}

	if node == nil || node.IsDisposed() {
		return
	}
	var fn func(PointerContext)
	switch event {
	case EventPointerDown:
		fn = node.OnPointerDown
	case EventPointerUp:
		fn = node.OnPointerUp
	case EventPointerMove:
		fn = node.OnPointerMove
	case EventClick:
		fn = node.OnClick
	case EventPointerEnter:
		fn = node.OnPointerEnter
	case EventPointerLeave:
		fn = node.OnPointerLeave
	}
	if fn != nil {
		fn(ctx)
	}
}
