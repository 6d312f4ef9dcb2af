package lookbook

import (
	"go.uber.org/zap"
)

// dragSession is one press-move-release gesture on a product. It owns the
// scene-level handlers that track the pointer while the gesture lasts.
type dragSession struct {
	id     string
	offset Vec2
	move   CallbackHandle
	up     CallbackHandle
}

func (d *dragSession) close() {
	d.move.Remove()
	d.up.Remove()
}

// Controller turns pointer and wheel input on overlay elements into store
// updates, patching the elements directly instead of re-rendering.
type Controller struct {
	store   *Store
	overlay *Overlay
	scene   *Scene
	log     *zap.Logger

	session *dragSession
}

// NewController wires itself as the overlay's binder.
func NewController(store *Store, overlay *Overlay, scene *Scene, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{store: store, overlay: overlay, scene: scene, log: log}
	overlay.SetBinder(c.Bind)
	return c
}

// Bind attaches drag and zoom handlers to a product element's body.
func (c *Controller) Bind(id string, elem *Node) {
	elem.OnPointerDown = func(ctx PointerContext) {
		if ctx.Button != MouseButtonLeft {
			return
		}
		px, py := c.overlay.ToLocal(ctx.GlobalX, ctx.GlobalY)
		c.BeginDrag(id, px, py)
	}
	elem.OnWheel = func(ctx WheelContext) {
		c.Zoom(id, ctx.DeltaY)
	}
}

// BeginDrag starts dragging product id from the overlay-local pointer
// position (px, py). The offset between pointer and product center is kept
// for the whole gesture so the grab point does not snap to the center.
func (c *Controller) BeginDrag(id string, px, py float64) bool {
	p, ok := c.store.Find(id)
	if !ok {
		return false
	}
	if c.session != nil {
		c.EndDrag()
	}

	s := &dragSession{
		id:     id,
		offset: Vec2{X: px, Y: py}.Sub(p.Position),
	}
	s.move = c.scene.OnPointerMove(func(ctx PointerContext) {
		if !ctx.Pressed {
			return
		}
		x, y := c.overlay.ToLocal(ctx.GlobalX, ctx.GlobalY)
		c.MoveDrag(x, y)
	})
	s.up = c.scene.OnPointerUp(func(PointerContext) {
		c.EndDrag()
	})
	c.session = s

	c.raise()
	c.log.Debug("drag start", zap.String("id", id),
		zap.Float64("offset_x", s.offset.X), zap.Float64("offset_y", s.offset.Y))
	return true
}

// MoveDrag moves the dragged product so that its center sits at the pointer
// minus the grab offset. No-op when idle.
func (c *Controller) MoveDrag(px, py float64) {
	s := c.session
	if s == nil {
		return
	}
	x, y := px-s.offset.X, py-s.offset.Y
	if !c.store.UpdatePosition(s.id, x, y) {
		// Removed mid-gesture.
		c.EndDrag()
		return
	}
	c.overlay.PatchPosition(s.id, x, y)
}

// EndDrag returns to idle, restores default stacking and drops the session's
// handlers. No-op when idle.
func (c *Controller) EndDrag() {
	s := c.session
	if s == nil {
		return
	}
	c.session = nil
	s.close()
	c.scene.ReleasePointer()
	c.overlay.SetStacking(s.id, baseZIndex)
	if p, ok := c.store.Find(s.id); ok {
		c.log.Debug("drag end", zap.String("id", s.id),
			zap.Float64("x", p.Position.X), zap.Float64("y", p.Position.Y))
	}
}

// Reattach re-applies the drag stacking and pointer capture to the element
// of the product being dragged. A render replaces every element, so the app
// calls it after each one. No-op when idle.
func (c *Controller) Reattach() {
	if c.session != nil {
		c.raise()
	}
}

// raise lifts the dragged element above its siblings and captures the
// pointer on it, so hover and click state follow the product even when the
// pointer outruns it.
func (c *Controller) raise() {
	id := c.session.id
	c.overlay.SetStacking(id, dragZIndex)
	if elem := c.overlay.Element(id); elem != nil {
		c.scene.CapturePointer(elem)
	}
}

// Dragging returns the id being dragged, if any.
func (c *Controller) Dragging() (string, bool) {
	if c.session == nil {
		return "", false
	}
	return c.session.id, true
}

// Zoom applies one wheel tick to product id: up grows by ScaleStep, down
// shrinks, clamped to [ScaleMin, ScaleMax]. Works whether or not a drag is
// in progress.
func (c *Controller) Zoom(id string, wheelY float64) (float64, bool) {
	p, ok := c.store.Find(id)
	if !ok || wheelY == 0 {
		return p.Scale, ok
	}
	scale, _ := c.store.UpdateScale(id, stepScale(p.Scale, wheelY))
	c.overlay.PatchScale(id, scale)
	return scale, true
}
