package lookbook

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenTrack drives a single float64 field.
type tweenTrack struct {
	tween *gween.Tween
	dst   *float64
}

// TweenGroup animates several fields of one node in lockstep. Build one with
// TweenColor or TweenAlpha and pass it to Scene.Animate, which drops it once
// Done. A disposed target ends the group on the next Update.
type TweenGroup struct {
	target *Node
	tracks []tweenTrack
	Done   bool

	// OnDone runs once, on the Update that finishes the last track. It does
	// not run for a group ended by Stop or by disposal.
	OnDone func()
}

func newTweenGroup(target *Node) *TweenGroup {
	return &TweenGroup{target: target}
}

func (g *TweenGroup) track(dst *float64, to float64, seconds float32, fn ease.TweenFunc) {
	g.tracks = append(g.tracks, tweenTrack{
		tween: gween.New(float32(*dst), float32(to), seconds, fn),
		dst:   dst,
	})
}

// Update advances every track by dt seconds and writes the values back.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target.IsDisposed() {
		g.Done = true
		return
	}

	finished := true
	for _, tr := range g.tracks {
		v, done := tr.tween.Update(dt)
		*tr.dst = float64(v)
		finished = finished && done
	}
	g.target.MarkDirty()

	if finished {
		g.Done = true
		if g.OnDone != nil {
			g.OnDone()
		}
	}
}

// Stop ends the group where it is.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// TweenColor fades node.Color to c.
func TweenColor(node *Node, c Color, seconds float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node)
	g.track(&node.Color.R, c.R, seconds, fn)
	g.track(&node.Color.G, c.G, seconds, fn)
	g.track(&node.Color.B, c.B, seconds, fn)
	g.track(&node.Color.A, c.A, seconds, fn)
	return g
}

// TweenAlpha fades node.Alpha, and with it the whole subtree, to a.
func TweenAlpha(node *Node, a float64, seconds float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(node)
	g.track(&node.Alpha, a, seconds, fn)
	return g
}
