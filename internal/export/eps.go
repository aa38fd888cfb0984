package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"
	"time"

	"github.com/qrstudio/qrstudio/internal/logo"
	"github.com/qrstudio/qrstudio/internal/render"
	"github.com/qrstudio/qrstudio/internal/shape"
)

type epsExporter struct{}

func (*epsExporter) Format() Format { return FormatEPS }

// Export writes Encapsulated PostScript. Geometry is emitted in plan units
// with the PostScript y axis flipped; the DPI option only affects the pixel
// density of embedded logo rasters.
func (*epsExporter) Export(w io.Writer, plan *render.Plan, opts Options) error {
	dpi := opts.DPI
	if dpi == 0 {
		dpi = 72
	}
	edge := plan.CanvasSize()

	var b strings.Builder
	b.WriteString("%!PS-Adobe-3.0 EPSF-3.0\n")
	fmt.Fprintf(&b, "%%%%BoundingBox: 0 0 %d %d\n", edge, edge)
	fmt.Fprintf(&b, "%%%%CreationDate: %s\n", time.Now().UTC().Format(time.RFC3339))
	b.WriteString("%%EndComments\n")

	fe := float64(edge)
	if plan.Background.A > 0 {
		setColor(&b, plan.Background)
		fmt.Fprintf(&b, "newpath 0 0 moveto %d 0 lineto %d %d lineto 0 %d lineto closepath fill\n",
			edge, edge, edge, edge)
	}

	cell := float64(plan.ModuleScale)
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
		setColor(&b, c.Fill)
		fillPS(&b, prim, fe)
	}

	for _, eye := range plan.Eyes {
		frameBox := shape.Rect{
			X: off + float64(eye.OriginX)*cell,
			Y: off + float64(eye.OriginY)*cell,
			W: 7 * cell, H: 7 * cell,
		}
		setColor(&b, eye.FrameColor)
		fillPS(&b, shape.EyeFrame(eye.FrameShape, frameBox), fe)

		ballBox := shape.Rect{
			X: frameBox.X + 2*cell,
			Y: frameBox.Y + 2*cell,
			W: 3 * cell, H: 3 * cell,
		}
		setColor(&b, eye.BallColor)
		fillPS(&b, shape.Eyeball(eye.BallShape, ballBox), fe)
	}

	for _, ov := range plan.Overlays {
		if err := emitOverlay(&b, plan, ov, fe, dpi); err != nil {
			return err
		}
	}

	b.WriteString("showpage\n%%EOF\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return &IOError{Format: FormatEPS, Err: err}
	}
	return nil
}

func setColor(b *strings.Builder, c color.RGBA) {
	fmt.Fprintf(b, "%.4f %.4f %.4f setrgbcolor\n",
		float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// fillPS emits one filled primitive. The edge parameter flips y so plan
// coordinates (top-left origin) land in PostScript space (bottom-left).
func fillPS(b *strings.Builder, p shape.Primitive, edge float64) {
	if ring, ok := p.(shape.Ring); ok {
		b.WriteString("newpath\n")
		tracePS(b, ring.Outer, edge)
		tracePS(b, ring.Inner, edge)
		b.WriteString("eofill\n")
		return
	}
	b.WriteString("newpath\n")
	tracePS(b, p, edge)
	b.WriteString("fill\n")
}

func tracePS(b *strings.Builder, p shape.Primitive, edge float64) {
	switch v := p.(type) {
	case shape.Rect:
		y := edge - v.Y - v.H
		fmt.Fprintf(b, "%.3f %.3f moveto %.3f %.3f lineto %.3f %.3f lineto %.3f %.3f lineto closepath\n",
			v.X, y, v.X+v.W, y, v.X+v.W, y+v.H, v.X, y+v.H)
	case shape.Circle:
		fmt.Fprintf(b, "%.3f %.3f %.3f 0 360 arc closepath\n", v.CX, edge-v.CY, v.R)
	case shape.RoundedRect:
		// Rounded corners via arct between the edge midpoints.
		y := edge - v.Y - v.H
		r := v.Radius
		fmt.Fprintf(b, "%.3f %.3f moveto\n", v.X+v.W/2, y)
		fmt.Fprintf(b, "%.3f %.3f %.3f %.3f %.3f arct\n", v.X+v.W, y, v.X+v.W, y+v.H/2, r)
		fmt.Fprintf(b, "%.3f %.3f %.3f %.3f %.3f arct\n", v.X+v.W, y+v.H, v.X+v.W/2, y+v.H, r)
		fmt.Fprintf(b, "%.3f %.3f %.3f %.3f %.3f arct\n", v.X, y+v.H, v.X, y+v.H/2, r)
		fmt.Fprintf(b, "%.3f %.3f %.3f %.3f %.3f arct\n", v.X, y, v.X+v.W/2, y, r)
		b.WriteString("closepath\n")
	case shape.Polygon:
		for i, pt := range v.Points {
			op := "lineto"
			if i == 0 {
				op = "moveto"
			}
			fmt.Fprintf(b, "%.3f %.3f %s\n", pt.X, edge-pt.Y, op)
		}
		b.WriteString("closepath\n")
	}
}

// emitOverlay embeds a logo as an inline colorimage. PostScript has no alpha
// channel, so the raster is flattened over the plan background first.
func emitOverlay(b *strings.Builder, plan *render.Plan, ov render.Overlay, edge float64, dpi int) error {
	w := ov.Size * edge
	px := int(math.Round(w * float64(dpi) / 72))
	if px < 1 {
		return nil
	}
	img, err := logo.Prepare(ov.Raw, ov.Shape, px, ov.Backdrop)
	if err != nil {
		return err
	}

	bg := plan.Background
	if bg.A == 0 {
		bg = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}

	x := ov.CX*edge - w/2
	y := edge - (ov.CY*edge + w/2)
	fmt.Fprintf(b, "gsave\n%.3f %.3f translate\n%.3f %.3f scale\n", x, y, w, w)
	fmt.Fprintf(b, "/picstr %d string def\n", px*3)
	fmt.Fprintf(b, "%d %d 8 [%d 0 0 -%d 0 %d]\n", px, px, px, px, px)
	b.WriteString("{currentfile picstr readhexstring pop} false 3 colorimage\n")
	writeHexPixels(b, img, bg, px)
	b.WriteString("grestore\n")
	return nil
}

func writeHexPixels(b *strings.Builder, img image.Image, bg color.RGBA, px int) {
	const perLine = 32
	n := 0
	for y := 0; y < px; y++ {
		for x := 0; x < px; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			c := flatten(r, g, bl, a, bg)
			fmt.Fprintf(b, "%02x%02x%02x", c.R, c.G, c.B)
			n++
			if n%perLine == 0 {
				b.WriteByte('\n')
			}
		}
	}
	if n%perLine != 0 {
		b.WriteByte('\n')
	}
}

// flatten composites a premultiplied 16-bit pixel over an opaque background.
func flatten(r, g, b, a uint32, bg color.RGBA) color.RGBA {
	if a == 0 {
		return bg
	}
	inv := 0xFFFF - a
	return color.RGBA{
		R: uint8((r + uint32(bg.R)*0x101*inv/0xFFFF) >> 8),
		G: uint8((g + uint32(bg.G)*0x101*inv/0xFFFF) >> 8),
		B: uint8((b + uint32(bg.B)*0x101*inv/0xFFFF) >> 8),
		A: 0xFF,
	}
}
