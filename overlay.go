package lookbook

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// EmptyOverlayText is the hint shown over the model when nothing is placed.
const EmptyOverlayText = "Paste a product image URL to get started"

// Stacking orders for overlay elements.
const (
	baseZIndex = 1
	dragZIndex = 1000
)

const (
	DefaultElementSize = 100
	removeControlSize  = 22
)

// Binder attaches interaction handlers to a freshly built overlay element.
type Binder func(id string, elem *Node)

// OverlayConfig describes the overlay container.
type OverlayConfig struct {
	// Bounds is the container rectangle in screen space. Product positions
	// are relative to its top-left corner.
	Bounds      Rect
	ElementSize float64
	Model       *ebiten.Image // background; nil draws a plain panel
	RemoveIcon  *ebiten.Image // nil draws a plain red square
}

// Overlay projects products into positioned, scaled elements over the model
// image.
type Overlay struct {
	root       *Node
	background *Node
	layer      *Node
	hint       *Node

	cfg      OverlayConfig
	images   *ImageCache
	elements map[string]*Node
	refs     map[string]string // product id -> image ref

	binder   Binder
	onRemove func(id string)
}

// NewOverlay builds the container, background, product layer and hint.
func NewOverlay(cfg OverlayConfig, images *ImageCache, face text.Face) *Overlay {
	if cfg.ElementSize <= 0 {
		cfg.ElementSize = DefaultElementSize
	}
	root := NewContainer("overlay")
	root.SetPosition(cfg.Bounds.X, cfg.Bounds.Y)
	root.Interactable = true

	bg := NewSprite("overlay_model", cfg.Model, cfg.Bounds.Width, cfg.Bounds.Height)
	if cfg.Model == nil {
		bg.Color = Color{R: 0.95, G: 0.96, B: 0.97, A: 1}
	}
	root.AddChild(bg)

	layer := NewContainer("overlay_products")
	layer.Interactable = true
	layer.ZIndex = 1
	root.AddChild(layer)

	hint := NewText("overlay_hint", EmptyOverlayText, face)
	hint.Color = Color{R: 0.29, G: 0.33, B: 0.39, A: 1}
	hint.ZIndex = 2
	if face != nil {
		hint.SetPosition((cfg.Bounds.Width-measure(EmptyOverlayText, face))/2, cfg.Bounds.Height-40)
	}
	root.AddChild(hint)

	return &Overlay{
		root:       root,
		background: bg,
		layer:      layer,
		hint:       hint,
		cfg:        cfg,
		images:     images,
		elements:   make(map[string]*Node),
		refs:       make(map[string]string),
	}
}

// Node returns the overlay container.
func (o *Overlay) Node() *Node {
	return o.root
}

// SetBinder sets the function that wires interaction onto each element after
// a render.
func (o *Overlay) SetBinder(b Binder) {
	o.binder = b
}

// SetOnRemove sets the callback fired by an element's removal control.
func (o *Overlay) SetOnRemove(fn func(id string)) {
	o.onRemove = fn
}

// Render rebuilds every element from products. Previous elements are
// disposed along with their handlers, so the binder runs again on each new
// element; callers must not hold element pointers across a render.
func (o *Overlay) Render(products []Product) {
	o.layer.DisposeChildren()
	clear(o.elements)
	clear(o.refs)

	for _, p := range products {
		elem := o.buildElement(p)
		o.layer.AddChild(elem)
		o.elements[p.ID] = elem
		o.refs[p.ID] = p.ImageURL
	}
	o.hint.Visible = len(products) == 0

	if o.binder == nil {
		return
	}
	for _, p := range products {
		o.binder(p.ID, o.elements[p.ID])
	}
}

func (o *Overlay) buildElement(p Product) *Node {
	size := o.cfg.ElementSize
	elem := NewSprite("product:"+p.ID, nil, size, size)
	elem.SetPivot(size/2, size/2)
	elem.SetPosition(p.Position.X, p.Position.Y)
	elem.SetUniformScale(p.Scale)
	elem.ZIndex = baseZIndex
	elem.Interactable = true
	elem.UserData = p.ID
	o.applyTexture(elem, p.ImageURL)

	id := p.ID
	r := float64(removeControlSize) / 2
	remove := NewSprite("product_remove", o.cfg.RemoveIcon, removeControlSize, removeControlSize)
	remove.SetPosition(size-r, -r)
	remove.Interactable = true
	remove.HitShape = HitCircle{CenterX: r, CenterY: r, Radius: r}
	remove.UserData = id
	if o.cfg.RemoveIcon == nil {
		remove.Color = Color{R: 0.94, G: 0.27, B: 0.27, A: 1}
	}
	remove.OnClick = func(PointerContext) {
		if o.onRemove != nil {
			o.onRemove(id)
		}
	}
	elem.AddChild(remove)
	return elem
}

func (o *Overlay) applyTexture(elem *Node, ref string) {
	tex, state := o.images.Lookup(ref)
	switch state {
	case ImageReady:
		elem.Image = tex
		elem.Color = ColorWhite
	case ImageFailed:
		elem.Image = o.images.OverlayFallback()
		elem.Color = ColorWhite
	default:
		elem.Image = nil
		elem.Color = Color{R: 0.9, G: 0.91, B: 0.92, A: 0.8}
	}
}

// RefreshImages swaps loaded or failed textures into existing elements
// without a rebuild.
func (o *Overlay) RefreshImages(refs []string) {
	if len(refs) == 0 {
		return
	}
	changed := make(map[string]bool, len(refs))
	for _, r := range refs {
		changed[r] = true
	}
	for id, ref := range o.refs {
		if changed[ref] {
			o.applyTexture(o.elements[id], ref)
		}
	}
}

// Element returns the rendered element for id, or nil.
func (o *Overlay) Element(id string) *Node {
	return o.elements[id]
}

// Len returns the number of rendered elements.
func (o *Overlay) Len() int {
	return len(o.elements)
}

// HintVisible reports whether the empty-state hint is shown.
func (o *Overlay) HintVisible() bool {
	return o.hint.Visible
}

// PatchPosition moves an element without a rebuild.
func (o *Overlay) PatchPosition(id string, x, y float64) {
	if elem := o.elements[id]; elem != nil {
		elem.SetPosition(x, y)
	}
}

// PatchScale rescales an element without a rebuild.
func (o *Overlay) PatchScale(id string, scale float64) {
	if elem := o.elements[id]; elem != nil {
		elem.SetUniformScale(scale)
	}
}

// SetStacking changes an element's stacking order among its siblings.
func (o *Overlay) SetStacking(id string, z int) {
	if elem := o.elements[id]; elem != nil {
		elem.SetZIndex(z)
	}
}

// ToLocal converts a screen point into overlay coordinates.
func (o *Overlay) ToLocal(wx, wy float64) (float64, float64) {
	return o.root.WorldToLocal(wx, wy)
}
