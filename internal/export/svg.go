package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/qrstudio/qrstudio/internal/logo"
	"github.com/qrstudio/qrstudio/internal/render"
	"github.com/qrstudio/qrstudio/internal/shape"
	"github.com/qrstudio/qrstudio/internal/style"
)

type svgExporter struct{}

func (*svgExporter) Format() Format { return FormatSVG }

// errWriter records the first write failure so the svg canvas, which does not
// surface writer errors, still reports them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}

func (*svgExporter) Export(w io.Writer, plan *render.Plan, opts Options) error {
	ew := &errWriter{w: w}
	canvas := svgo.New(ew)

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	edge := int(math.Round(float64(plan.CanvasSize()) * scale))
	canvas.Start(edge, edge)
	if plan.Background.A > 0 {
		canvas.Rect(0, 0, edge, edge, fill(plan.Background))
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
		canvas.Path(pathData(prim), fill(c.Fill))
	}

	for _, eye := range plan.Eyes {
		frameBox := shape.Rect{
			X: off + float64(eye.OriginX)*cell,
			Y: off + float64(eye.OriginY)*cell,
			W: 7 * cell, H: 7 * cell,
		}
		canvas.Path(pathData(shape.EyeFrame(eye.FrameShape, frameBox)),
			fill(eye.FrameColor)+";fill-rule:evenodd")

		ballBox := shape.Rect{
			X: frameBox.X + 2*cell,
			Y: frameBox.Y + 2*cell,
			W: 3 * cell, H: 3 * cell,
		}
		canvas.Path(pathData(shape.Eyeball(eye.BallShape, ballBox)), fill(eye.BallColor))
	}

	for _, ov := range plan.Overlays {
		px := int(math.Round(ov.Size * float64(edge)))
		if px < 1 {
			continue
		}
		img, err := logo.Prepare(ov.Raw, ov.Shape, px, ov.Backdrop)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return &IOError{Format: FormatSVG, Err: err}
		}
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
		x := int(math.Round(ov.CX*float64(edge) - float64(px)/2))
		y := int(math.Round(ov.CY*float64(edge) - float64(px)/2))
		canvas.Image(x, y, px, px, uri)
	}

	canvas.End()
	if ew.err != nil {
		return &IOError{Format: FormatSVG, Err: ew.err}
	}
	return nil
}

func fill(c color.RGBA) string {
	s := fmt.Sprintf("fill:%s", style.HexColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}))
	if c.A != 0xFF {
		s += fmt.Sprintf(";fill-opacity:%.3f", float64(c.A)/255)
	}
	return s
}

// pathData serializes a primitive as SVG path data. Rings concatenate both
// contours and rely on the even-odd fill rule set on the element.
func pathData(p shape.Primitive) string {
	var b strings.Builder
	appendPath(&b, p)
	return b.String()
}

func appendPath(b *strings.Builder, p shape.Primitive) {
	switch v := p.(type) {
	case shape.Rect:
		fmt.Fprintf(b, "M%s,%s h%s v%s h%s Z",
			num(v.X), num(v.Y), num(v.W), num(v.H), num(-v.W))
	case shape.Circle:
		d := 2 * v.R
		fmt.Fprintf(b, "M%s,%s a%s,%s 0 1,0 %s,0 a%s,%s 0 1,0 %s,0 Z",
			num(v.CX-v.R), num(v.CY), num(v.R), num(v.R), num(d), num(v.R), num(v.R), num(-d))
	case shape.RoundedRect:
		r := v.Radius
		fmt.Fprintf(b, "M%s,%s h%s a%s,%s 0 0,1 %s,%s v%s a%s,%s 0 0,1 %s,%s h%s a%s,%s 0 0,1 %s,%s v%s a%s,%s 0 0,1 %s,%s Z",
			num(v.X+r), num(v.Y),
			num(v.W-2*r),
			num(r), num(r), num(r), num(r),
			num(v.H-2*r),
			num(r), num(r), num(-r), num(r),
			num(-(v.W-2*r)),
			num(r), num(r), num(-r), num(-r),
			num(-(v.H-2*r)),
			num(r), num(r), num(r), num(-r))
	case shape.Polygon:
		for i, pt := range v.Points {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(b, "%s%s,%s ", cmd, num(pt.X), num(pt.Y))
		}
		b.WriteString("Z")
	case shape.Ring:
		appendPath(b, v.Outer)
		b.WriteString(" ")
		appendPath(b, v.Inner)
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
