package lookbook

import "math"

// Scale bounds and the per-tick zoom step.
const (
	ScaleMin     = 0.3
	ScaleMax     = 3.0
	ScaleStep    = 0.1
	DefaultScale = 1.0
)

// DefaultOrigin is where new products are placed, in overlay coordinates.
var DefaultOrigin = Vec2{X: 150, Y: 150}

// Product is a user-placed overlay item.
type Product struct {
	ID       string
	ImageURL string
	Type     string
	// Position is the element center in overlay-local coordinates.
	Position Vec2
	Scale    float64
}

// Store is the ordered collection of products and the sole source of truth
// for them. Renderers only ever see snapshots.
type Store struct {
	products []Product
	newID    IDGenerator
	origin   Vec2
}

// NewStore creates an empty store. New products start at origin.
func NewStore(gen IDGenerator, origin Vec2) *Store {
	return &Store{newID: gen, origin: origin}
}

// Add appends a product with the default position and scale. An empty
// imageURL is a no-op and reports false.
func (s *Store) Add(imageURL, typ string) (Product, bool) {
	if imageURL == "" {
		return Product{}, false
	}
	id := s.newID()
	for s.index(id) >= 0 {
		id = s.newID()
	}
	p := Product{
		ID:       id,
		ImageURL: imageURL,
		Type:     typ,
		Position: s.origin,
		Scale:    DefaultScale,
	}
	s.products = append(s.products, p)
	return p, true
}

// Remove deletes the product with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return true
}

// Clear removes every product.
func (s *Store) Clear() {
	s.products = s.products[:0]
}

// Find returns the product with the given id.
func (s *Store) Find(id string) (Product, bool) {
	i := s.index(id)
	if i < 0 {
		return Product{}, false
	}
	return s.products[i], true
}

// UpdatePosition moves a product. Positions are not bounded.
func (s *Store) UpdatePosition(id string, x, y float64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.products[i].Position = Vec2{X: x, Y: y}
	return true
}

// UpdateScale sets a product's scale clamped to [ScaleMin, ScaleMax] and
// returns the stored value.
func (s *Store) UpdateScale(id string, scale float64) (float64, bool) {
	i := s.index(id)
	if i < 0 {
		return 0, false
	}
	scale = ClampScale(scale)
	s.products[i].Scale = scale
	return scale, true
}

// Products returns a snapshot of the products in insertion order.
func (s *Store) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len returns the number of products.
func (s *Store) Len() int {
	return len(s.products)
}

func (s *Store) index(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// ClampScale bounds v to [ScaleMin, ScaleMax]. NaN maps to DefaultScale.
func ClampScale(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultScale
	}
	return math.Max(ScaleMin, math.Min(ScaleMax, v))
}

// stepScale applies one zoom tick in the direction of delta and rounds to two
// decimals so repeated ticks land on exact tenths.
func stepScale(current, delta float64) float64 {
	switch {
	case delta > 0:
		current += ScaleStep
	case delta < 0:
		current -= ScaleStep
	}
	return ClampScale(math.Round(current*100) / 100)
}
