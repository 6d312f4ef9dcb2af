package lookbook

import "github.com/hajimehoshi/ebiten/v2"

// localGeoM is the node's matrix in its parent's space: the pivot moves to
// the origin, the node scales about it, then lands at (X, Y). A product
// element's pivot is its center, so X, Y is where the center sits.
func localGeoM(n *Node) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-n.PivotX, -n.PivotY)
	g.Scale(n.ScaleX, n.ScaleY)
	g.Translate(n.X, n.Y)
	return g
}

// refreshWorld recomputes world matrices and inherited alpha below n. Clean
// nodes under a clean parent keep their cached values.
func refreshWorld(n *Node, parent ebiten.GeoM, parentAlpha float64, parentChanged bool) {
	changed := n.transformDirty || parentChanged
	if changed {
		g := localGeoM(n)
		g.Concat(parent)
		n.world = g
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		refreshWorld(child, n.world, n.worldAlpha, changed)
	}
}

// refreshTree brings every world matrix under root up to date.
func refreshTree(root *Node) {
	refreshWorld(root, ebiten.GeoM{}, 1, false)
}

// SetPosition moves the node's pivot to (x, y) in parent space.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.transformDirty = true
}

// SetScale sets the scale applied about the pivot.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.transformDirty = true
}

// SetUniformScale is SetScale(s, s).
func (n *Node) SetUniformScale(s float64) {
	n.SetScale(s, s)
}

// SetPivot sets the local point that X, Y refer to.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.transformDirty = true
}

// SetAlpha sets the node's own opacity; children inherit it multiplicatively.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty forces the world matrix to be rebuilt on the next refresh.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldToLocal maps a screen point into the node's local space. A node
// scaled to zero has no inverse and returns the point unchanged.
func (n *Node) WorldToLocal(wx, wy float64) (float64, float64) {
	inv := n.world
	if !inv.IsInvertible() {
		return wx, wy
	}
	inv.Invert()
	return inv.Apply(wx, wy)
}

// LocalToWorld maps a local point to screen space.
func (n *Node) LocalToWorld(lx, ly float64) (float64, float64) {
	return n.world.Apply(lx, ly)
}
