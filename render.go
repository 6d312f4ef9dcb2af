package lookbook

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// drawNode walks the tree depth-first in ZIndex order and draws visible
// sprites and text. World transforms are refreshed by Scene.Update.
func (s *Scene) drawNode(dst *ebiten.Image, n *Node) {
	if !n.Visible || n.worldAlpha <= 0 {
		return
	}
	switch n.Type {
	case NodeTypeSprite:
		s.drawSprite(dst, n)
	case NodeTypeText:
		s.drawText(dst, n)
	}
	s.stats.nodeCount++
	for _, child := range sortedChildrenOf(n) {
		s.drawNode(dst, child)
	}
}

// fitContain returns the scale and offset that fit a srcW x srcH image inside
// a boxW x boxH box, centered, preserving aspect ratio.
func fitContain(srcW, srcH, boxW, boxH float64) (scale, offX, offY float64) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, 0
	}
	scale = boxW / srcW
	if sy := boxH / srcH; sy < scale {
		scale = sy
	}
	offX = (boxW - srcW*scale) / 2
	offY = (boxH - srcH*scale) / 2
	return scale, offX, offY
}

func (s *Scene) drawSprite(dst *ebiten.Image, n *Node) {
	if n.Width <= 0 || n.Height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	img := n.Image
	if img == nil {
		op.GeoM.Scale(n.Width, n.Height)
		img = WhitePixel
	} else {
		b := img.Bounds()
		scale, offX, offY := fitContain(float64(b.Dx()), float64(b.Dy()), n.Width, n.Height)
		if scale == 0 {
			return
		}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(offX, offY)
	}
	op.GeoM.Concat(n.world)
	op.ColorScale = n.Color.colorScale(n.worldAlpha)
	dst.DrawImage(img, op)
	s.stats.drawCalls++
}

func (s *Scene) drawText(dst *ebiten.Image, n *Node) {
	if n.Face == nil || n.Text == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM = n.world
	op.ColorScale = n.Color.colorScale(n.worldAlpha)
	text.Draw(dst, n.Text, n.Face, op)
	s.stats.drawCalls++
}
