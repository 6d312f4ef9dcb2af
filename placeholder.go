package lookbook

import (
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Placeholder sizes for failed thumbnails and overlay elements.
const (
	thumbPlaceholderSize   = 48
	overlayPlaceholderSize = 100
)

var labelFont = sync.OnceValue(func() *truetype.Font {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil
	}
	return f
})

// labelFace returns a Go Regular face at size points, or nil if the
// embedded font failed to parse; gg then keeps its built-in bitmap face.
func labelFace(size float64) font.Face {
	f := labelFont()
	if f == nil {
		return nil
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// placeholderImage draws a light grey tile with a centered grey label.
func placeholderImage(size int, label string) image.Image {
	dc := gg.NewContext(size, size)
	dc.SetHexColor("#e5e7eb")
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()
	if face := labelFace(float64(size) / 4); face != nil {
		dc.SetFontFace(face)
	}
	dc.SetHexColor("#9ca3af")
	dc.DrawStringAnchored(label, float64(size)/2, float64(size)/2, 0.5, 0.5)
	return dc.Image()
}

// thumbPlaceholder is the list fallback shown when an image fails to load.
func thumbPlaceholder() image.Image {
	return placeholderImage(thumbPlaceholderSize, "?")
}

// overlayPlaceholder is the overlay fallback shown when an image fails to load.
func overlayPlaceholder() image.Image {
	return placeholderImage(overlayPlaceholderSize, "Error")
}

// modelSilhouette draws a neutral mannequin used when no model image is
// configured.
func modelSilhouette(w, h int) image.Image {
	fw, fh := float64(w), float64(h)
	dc := gg.NewContext(w, h)
	dc.SetHexColor("#f3f4f6")
	dc.Clear()

	cx := fw / 2
	dc.SetHexColor("#d1d5db")
	// Head and neck.
	dc.DrawCircle(cx, fh*0.14, fh*0.07)
	dc.Fill()
	dc.DrawRectangle(cx-fw*0.03, fh*0.2, fw*0.06, fh*0.05)
	dc.Fill()
	// Torso.
	dc.DrawRoundedRectangle(cx-fw*0.18, fh*0.25, fw*0.36, fh*0.35, fw*0.05)
	dc.Fill()
	// Arms.
	dc.DrawRoundedRectangle(cx-fw*0.27, fh*0.26, fw*0.08, fh*0.32, fw*0.04)
	dc.Fill()
	dc.DrawRoundedRectangle(cx+fw*0.19, fh*0.26, fw*0.08, fh*0.32, fw*0.04)
	dc.Fill()
	// Legs.
	dc.DrawRoundedRectangle(cx-fw*0.15, fh*0.6, fw*0.13, fh*0.36, fw*0.04)
	dc.Fill()
	dc.DrawRoundedRectangle(cx+fw*0.02, fh*0.6, fw*0.13, fh*0.36, fw*0.04)
	dc.Fill()
	return dc.Image()
}

// removeIcon draws the round red removal control with a white cross.
func removeIcon(size int) image.Image {
	s := float64(size)
	dc := gg.NewContext(size, size)
	dc.SetHexColor("#ef4444")
	dc.DrawCircle(s/2, s/2, s/2)
	dc.Fill()
	dc.SetHexColor("#ffffff")
	dc.SetLineWidth(s / 8)
	dc.SetLineCapRound()
	pad := s * 0.32
	dc.DrawLine(pad, pad, s-pad, s-pad)
	dc.DrawLine(s-pad, pad, pad, s-pad)
	dc.Stroke()
	return dc.Image()
}
