package export

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/qrstudio/qrstudio/internal/logo"
	"github.com/qrstudio/qrstudio/internal/render"
	"github.com/qrstudio/qrstudio/internal/shape"
)

// rasterize draws the full plan into an RGBA image at the given scale. PNG
// and PDF both embed this output.
func rasterize(plan *render.Plan, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	edge := int(math.Round(float64(plan.CanvasSize()) * scale))
	if edge < 1 {
		return nil, fmt.Errorf("export: canvas collapsed to %d pixels", edge)
	}

	dc := gg.NewContext(edge, edge)
	if plan.Background.A > 0 {
		dc.SetColor(plan.Background)
		dc.Clear()
	}

	cell := float64(plan.ModuleScale) * scale
	off := float64(plan.Margin) * cell

	for _, c := range plan.Cells {
		if c.Reserved || c.LogoExcluded {
			continue
		}
		if c.Kind == render.KindBackground && !plan.DrawBackgroundCells {
			continue
		}
		box := shape.Rect{X: off + float64(c.X)*cell, Y: off + float64(c.Y)*cell, W: cell, H: cell}
		var prim shape.Primitive
		switch c.Kind {
		case render.KindPinned, render.KindBackground:
			prim = box
		default:
			prim = shape.Module(plan.ModuleShape, box)
		}
		dc.SetColor(c.Fill)
		fillPrimitive(dc, prim)
	}

	for _, eye := range plan.Eyes {
		frameBox := shape.Rect{
			X: off + float64(eye.OriginX)*cell,
			Y: off + float64(eye.OriginY)*cell,
			W: 7 * cell, H: 7 * cell,
		}
		dc.SetColor(eye.FrameColor)
		fillPrimitive(dc, shape.EyeFrame(eye.FrameShape, frameBox))

		ballBox := shape.Rect{
			X: frameBox.X + 2*cell,
			Y: frameBox.Y + 2*cell,
			W: 3 * cell, H: 3 * cell,
		}
		dc.SetColor(eye.BallColor)
		fillPrimitive(dc, shape.Eyeball(eye.BallShape, ballBox))
	}

	canvas := float64(edge)
	for _, ov := range plan.Overlays {
		px := int(math.Round(ov.Size * canvas))
		if px < 1 {
			continue
		}
		img, err := logo.Prepare(ov.Raw, ov.Shape, px, ov.Backdrop)
		if err != nil {
			return nil, err
		}
		x := int(math.Round(ov.CX*canvas - float64(px)/2))
		y := int(math.Round(ov.CY*canvas - float64(px)/2))
		dc.DrawImage(img, x, y)
	}

	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("export: unexpected canvas image type %T", dc.Image())
	}
	return out, nil
}

// fillPrimitive traces p into the context path and fills it. Rings use the
// even-odd rule so the inner region stays open.
func fillPrimitive(dc *gg.Context, p shape.Primitive) {
	if ring, ok := p.(shape.Ring); ok {
		tracePrimitive(dc, ring.Outer)
		dc.NewSubPath()
		tracePrimitive(dc, ring.Inner)
		dc.SetFillRuleEvenOdd()
		dc.Fill()
		dc.SetFillRuleWinding()
		return
	}
	tracePrimitive(dc, p)
	dc.Fill()
}

func tracePrimitive(dc *gg.Context, p shape.Primitive) {
	switch v := p.(type) {
	case shape.Rect:
		dc.DrawRectangle(v.X, v.Y, v.W, v.H)
	case shape.Circle:
		dc.DrawCircle(v.CX, v.CY, v.R)
	case shape.RoundedRect:
		dc.DrawRoundedRectangle(v.X, v.Y, v.W, v.H, v.Radius)
	case shape.Polygon:
		if len(v.Points) == 0 {
			return
		}
		dc.MoveTo(v.Points[0].X, v.Points[0].Y)
		for _, pt := range v.Points[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
	}
}
