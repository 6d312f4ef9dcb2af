package lookbook

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts holds the faces used by the panels and controls.
type Fonts struct {
	Title *text.GoTextFace
	Body  *text.GoTextFace
	Small *text.GoTextFace
}

// LoadFonts parses the bundled Go fonts into faces.
func LoadFonts() (*Fonts, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, errors.Wrap(err, "parse regular font")
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, errors.Wrap(err, "parse bold font")
	}
	return &Fonts{
		Title: &text.GoTextFace{Source: bold, Size: 18},
		Body:  &text.GoTextFace{Source: regular, Size: 14},
		Small: &text.GoTextFace{Source: regular, Size: 11},
	}, nil
}

// lineHeight returns the distance between baselines for face.
func lineHeight(face text.Face) float64 {
	m := face.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// measure returns the rendered width of a single line.
func measure(s string, face text.Face) float64 {
	w, _ := text.Measure(s, face, lineHeight(face))
	return w
}

// ellipsize shortens s with a trailing "..." so that it fits in maxWidth.
func ellipsize(s string, face text.Face, maxWidth float64) string {
	if face == nil || measure(s, face) <= maxWidth {
		return s
	}
	const dots = "..."
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + dots
		if measure(candidate, face) <= maxWidth {
			return candidate
		}
	}
	return dots
}
