package lookbook

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// EmptyListText is shown when there are no products.
const EmptyListText = "No products added yet"

// ListEntry is one row of the product summary.
type ListEntry struct {
	ID       string
	Type     string
	ImageURL string
}

// ListView is the summary projection of the store.
type ListView struct {
	Empty   bool
	Count   int
	Entries []ListEntry
}

// BuildList projects products into a summary view. It does not retain or
// modify its input.
func BuildList(products []Product) ListView {
	if len(products) == 0 {
		return ListView{Empty: true}
	}
	view := ListView{Count: len(products), Entries: make([]ListEntry, len(products))}
	for i, p := range products {
		view.Entries[i] = ListEntry{ID: p.ID, Type: p.Type, ImageURL: p.ImageURL}
	}
	return view
}

const (
	listThumbSize = 48
	listRowHeight = 58
	listPadding   = 12
)

// ListPanel draws a ListView into the scene.
type ListPanel struct {
	root   *Node
	header *Node
	rows   *Node
	width  float64
	images *ImageCache
	fonts  *Fonts

	thumbs  map[string][]*Node // image ref -> thumbnail nodes
	onRetry func(ref string)
}

// NewListPanel creates a panel anchored at bounds.
func NewListPanel(bounds Rect, images *ImageCache, fonts *Fonts) *ListPanel {
	root := NewContainer("list")
	root.SetPosition(bounds.X, bounds.Y)
	root.Interactable = true

	bg := NewSprite("list_bg", nil, bounds.Width, bounds.Height)
	bg.Color = Color{R: 1, G: 1, B: 1, A: 1}
	root.AddChild(bg)

	header := NewText("list_header", "", fonts.Title)
	header.SetPosition(listPadding, listPadding)
	header.Color = Color{R: 0.07, G: 0.09, B: 0.15, A: 1}
	root.AddChild(header)

	rows := NewContainer("list_rows")
	rows.SetPosition(listPadding, listPadding+lineHeight(fonts.Title)+8)
	rows.Interactable = true
	root.AddChild(rows)

	return &ListPanel{
		root:   root,
		header: header,
		rows:   rows,
		width:  bounds.Width,
		images: images,
		fonts:  fonts,
		thumbs: make(map[string][]*Node),
	}
}

// Node returns the panel root.
func (l *ListPanel) Node() *Node {
	return l.root
}

// Rows returns the number of rendered rows, the empty placeholder included.
func (l *ListPanel) Rows() int {
	return l.rows.NumChildren()
}

// Render rebuilds the rows from view.
func (l *ListPanel) Render(view ListView) {
	l.header.Text = fmt.Sprintf("Products (%d)", view.Count)
	l.rows.DisposeChildren()
	clear(l.thumbs)

	if view.Empty {
		empty := NewText("list_empty", EmptyListText, l.fonts.Body)
		empty.Color = Color{R: 0.42, G: 0.45, B: 0.5, A: 1}
		l.rows.AddChild(empty)
		return
	}

	textW := l.width - 2*listPadding - listThumbSize - 10
	for i, e := range view.Entries {
		row := NewContainer("list_row:" + e.ID)
		row.SetPosition(0, float64(i)*listRowHeight)
		row.UserData = e.ID
		row.Interactable = true

		thumb := NewSprite("list_thumb", l.thumbnail(e.ImageURL), listThumbSize, listThumbSize)
		thumb.Color = thumbTint(thumb.Image)
		thumb.Interactable = true
		thumb.OnClick = func(PointerContext) { l.retry(e.ImageURL) }
		row.AddChild(thumb)
		l.thumbs[e.ImageURL] = append(l.thumbs[e.ImageURL], thumb)

		typ := NewText("list_type", ellipsize(e.Type, l.fonts.Body, textW), l.fonts.Body)
		typ.SetPosition(listThumbSize+10, 6)
		typ.Color = Color{R: 0.07, G: 0.09, B: 0.15, A: 1}
		row.AddChild(typ)

		ref := NewText("list_url", ellipsize(e.ImageURL, l.fonts.Small, textW), l.fonts.Small)
		ref.SetPosition(listThumbSize+10, 28)
		ref.Color = Color{R: 0.42, G: 0.45, B: 0.5, A: 1}
		row.AddChild(ref)

		l.rows.AddChild(row)
	}
}

// SetOnRetry registers fn to run after a failed image is requested again
// from its thumbnail.
func (l *ListPanel) SetOnRetry(fn func(ref string)) {
	l.onRetry = fn
}

// retry reloads ref when its thumbnail shows the failure placeholder.
// Thumbnails in any other state ignore clicks.
func (l *ListPanel) retry(ref string) {
	if _, state := l.images.Lookup(ref); state != ImageFailed {
		return
	}
	l.images.Retry(ref)
	l.RefreshImages([]string{ref})
	if l.onRetry != nil {
		l.onRetry(ref)
	}
}

// RefreshImages swaps newly loaded textures into existing thumbnails.
func (l *ListPanel) RefreshImages(refs []string) {
	for _, ref := range refs {
		for _, thumb := range l.thumbs[ref] {
			thumb.Image = l.thumbnail(ref)
			thumb.Color = thumbTint(thumb.Image)
		}
	}
}

// thumbnail resolves the texture for ref: the image once ready, the "?"
// placeholder after a failure (click it to retry), nil (a grey box) while
// pending.
func (l *ListPanel) thumbnail(ref string) *ebiten.Image {
	tex, state := l.images.Lookup(ref)
	switch state {
	case ImageReady:
		return tex
	case ImageFailed:
		return l.images.ThumbFallback()
	default:
		return nil
	}
}

// thumbTint is white for textures and light grey for the pending box.
func thumbTint(img *ebiten.Image) Color {
	if img == nil {
		return Color{R: 0.9, G: 0.91, B: 0.92, A: 1}
	}
	return ColorWhite
}
