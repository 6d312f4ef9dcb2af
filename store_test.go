package lookbook

import (
	"math"
	"testing"
)

func TestStoreAddDefaults(t *testing.T) {
	s := NewStore(seqIDs("p1"), DefaultOrigin)
	p, ok := s.Add("https://example.com/shirt.png", "top")
	if !ok {
		t.Fatal("Add returned false")
	}
	want := Product{ID: "p1", ImageURL: "https://example.com/shirt.png", Type: "top", Position: Vec2{150, 150}, Scale: 1}
	if p != want {
		t.Errorf("Add = %+v, want %+v", p, want)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStoreAddEmptyURL(t *testing.T) {
	s := NewStore(seqIDs(), DefaultOrigin)
	if _, ok := s.Add("", "top"); ok {
		t.Error("Add with empty URL should report false")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestStoreAddRegeneratesDuplicateID(t *testing.T) {
	s := NewStore(seqIDs("a", "a", "a", "b"), DefaultOrigin)
	first, _ := s.Add("u1", "top")
	second, _ := s.Add("u2", "top")
	if first.ID != "a" || second.ID != "b" {
		t.Errorf("ids = %q, %q, want a, b", first.ID, second.ID)
	}
}

func TestStoreIDsUnique(t *testing.T) {
	gen, err := Snowflake(1)
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(gen, DefaultOrigin)
	for i := 0; i < 500; i++ {
		s.Add("u", "top")
	}
	seen := make(map[string]bool)
	for _, p := range s.Products() {
		if seen[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(seqIDs("a", "b", "c"), DefaultOrigin)
	s.Add("u1", "top")
	s.Add("u2", "shoes")
	s.Add("u3", "hat")

	if !s.Remove("b") {
		t.Fatal("Remove(b) = false")
	}
	got := s.Products()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("after remove = %+v, want [a c] in order", got)
	}
}

func TestStoreRemoveMissing(t *testing.T) {
	s := NewStore(seqIDs("a"), DefaultOrigin)
	s.Add("u1", "top")
	before := s.Products()
	if s.Remove("nope") {
		t.Error("Remove of a missing id should report false")
	}
	after := s.Products()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("store changed: %+v -> %+v", before, after)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(seqIDs("a", "b"), DefaultOrigin)
	s.Add("u1", "top")
	s.Add("u2", "top")
	s.Clear()
	if s.Len() != 0 || len(s.Products()) != 0 {
		t.Errorf("Len = %d after Clear", s.Len())
	}
	// The store stays usable.
	if _, ok := s.Add("u3", "top"); !ok || s.Len() != 1 {
		t.Error("Add after Clear failed")
	}
}

func TestStoreProductsIsSnapshot(t *testing.T) {
	s := NewStore(seqIDs("a"), DefaultOrigin)
	s.Add("u1", "top")
	snap := s.Products()
	snap[0].Scale = 99
	if p, _ := s.Find("a"); p.Scale != 1 {
		t.Errorf("mutating snapshot changed store: scale = %v", p.Scale)
	}
}

func TestStoreUpdatePositionUnbounded(t *testing.T) {
	s := NewStore(seqIDs("a"), DefaultOrigin)
	s.Add("u1", "top")
	if !s.UpdatePosition("a", -500, 12000) {
		t.Fatal("UpdatePosition = false")
	}
	p, _ := s.Find("a")
	if p.Position != (Vec2{-500, 12000}) {
		t.Errorf("Position = %v", p.Position)
	}
	if s.UpdatePosition("missing", 1, 1) {
		t.Error("UpdatePosition on missing id should report false")
	}
}

func TestStoreUpdateScaleClamped(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 1.7, 1.7},
		{"lower bound", 0.3, 0.3},
		{"below", 0.05, 0.3},
		{"upper bound", 3, 3},
		{"above", 12, 3},
		{"negative", -1, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(seqIDs("a"), DefaultOrigin)
			s.Add("u1", "top")
			got, ok := s.UpdateScale("a", tt.in)
			if !ok || got != tt.want {
				t.Errorf("UpdateScale(%v) = %v, %v, want %v", tt.in, got, ok, tt.want)
			}
			if p, _ := s.Find("a"); p.Scale != tt.want {
				t.Errorf("stored scale = %v, want %v", p.Scale, tt.want)
			}
		})
	}
}

func TestClampScaleNaN(t *testing.T) {
	if got := ClampScale(math.NaN()); got != DefaultScale {
		t.Errorf("ClampScale(NaN) = %v, want %v", got, DefaultScale)
	}
}

func TestStepScale(t *testing.T) {
	tests := []struct {
		name           string
		current, delta float64
		want           float64
	}{
		{"up", 1, 1, 1.1},
		{"down", 1, -1, 0.9},
		{"zero delta", 1.3, 0, 1.3},
		{"clamp high", 3, 1, 3},
		{"clamp low", 0.3, -1, 0.3},
		{"large delta is one step", 1, 120, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stepScale(tt.current, tt.delta); got != tt.want {
				t.Errorf("stepScale(%v, %v) = %v, want %v", tt.current, tt.delta, got, tt.want)
			}
		})
	}
}

func TestStepScaleRepeatedTicksLandOnTenths(t *testing.T) {
	s := 1.0
	for i := 0; i < 10; i++ {
		s = stepScale(s, 1)
	}
	if s != 2 {
		t.Errorf("ten ticks up from 1 = %v, want 2", s)
	}
	for i := 0; i < 30; i++ {
		s = stepScale(s, 1)
	}
	if s != ScaleMax {
		t.Errorf("scale = %v, want %v", s, ScaleMax)
	}
	for i := 0; i < 40; i++ {
		s = stepScale(s, -1)
	}
	if s != ScaleMin {
		t.Errorf("scale = %v, want %v", s, ScaleMin)
	}
}
