package lookbook

import (
	"cmp"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// HitShape is used for custom hit testing regions in local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Pressed   bool // pointer button held (meaningful for move events)
	Modifiers KeyModifiers
}

// WheelContext carries wheel event data. DeltaY is positive when scrolling up.
type WheelContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	DeltaY    float64
	Modifiers KeyModifiers
}

// nodeIDCounter is a plain counter; the scene runs on one goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. A single flat struct is used for all node
// types.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y   float64
	ScaleX float64
	ScaleY float64
	PivotX float64
	PivotY float64

	world          ebiten.GeoM
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool

	// Ordering
	ZIndex int

	// Metadata
	UserData any

	// Sprite fields (NodeTypeSprite). Image is fitted inside Width x Height
	// preserving aspect ratio; a nil Image fills the box with Color.
	Image  *ebiten.Image
	Width  float64
	Height float64
	Color  Color

	// Text fields (NodeTypeText)
	Text string
	Face text.Face

	// Hit testing
	HitShape HitShape

	// Per-node callbacks (nil by default)
	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnPointerMove  func(PointerContext)
	OnClick        func(PointerContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)
	OnWheel        func(WheelContext)

	// OnUpdate runs once per Scene.Update with the frame delta in seconds.
	OnUpdate func(dt float64)

	disposed       bool
	debugTree      bool // set on a scene root in debug mode
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node of the given size. img may be nil for a
// solid color box.
func NewSprite(name string, img *ebiten.Image, width, height float64) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Image: img, Width: width, Height: height}
	nodeDefaults(n)
	return n
}

// NewText creates a text node with the given content and face.
func NewText(name, content string, face text.Face) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content, Face: face}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("lookbook: cannot add nil child")
	}
	if n.inDebugTree() {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("lookbook: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// inDebugTree reports whether n hangs under a scene root in debug mode.
func (n *Node) inDebugTree() bool {
	for n.Parent != nil {
		n = n.Parent
	}
	return n.debugTree
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("lookbook: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// DisposeChildren disposes every child of n.
func (n *Node) DisposeChildren() {
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = n.children[:0]
	n.sortedChildren = n.sortedChildren[:0]
	n.childrenSorted = true
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Callbacks are dropped.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.Image = nil
	n.UserData = nil
	n.clearHandlers()
}

// clearHandlers drops every callback. A re-rendered overlay element starts
// unbound until the binder runs again.
func (n *Node) clearHandlers() {
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnPointerMove = nil
	n.OnClick = nil
	n.OnPointerEnter = nil
	n.OnPointerLeave = nil
	n.OnWheel = nil
	n.OnUpdate = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// sortedChildrenOf returns n's children in ZIndex order; equal ZIndex keeps
// insertion order, so a later product draws above an earlier one.
func sortedChildrenOf(n *Node) []*Node {
	if n.childrenSorted && len(n.sortedChildren) == len(n.children) {
		return n.sortedChildren
	}
	n.sortedChildren = append(n.sortedChildren[:0], n.children...)
	slices.SortStableFunc(n.sortedChildren, func(a, b *Node) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	n.childrenSorted = true
	return n.sortedChildren
}
