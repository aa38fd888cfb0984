package logo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/qrstudio/qrstudio/internal/style"
)

// ErrBadImage marks overlay bytes that decode as neither raster nor SVG.
var ErrBadImage = errors.New("logo: image is not PNG, JPEG or SVG")

// backdropPadRatio is the share of the panel kept as padding around the logo
// when a backdrop is drawn.
const backdropPadRatio = 0.07

// Prepare decodes raw overlay bytes and produces a square raster of px×px
// pixels ready for compositing: center-cropped, resampled with Catmull-Rom,
// clipped to the requested shape and optionally placed on a solid backdrop
// panel.
func Prepare(raw []byte, shape style.LogoShape, px int, backdrop *color.RGBA) (image.Image, error) {
	if px <= 0 {
		return nil, fmt.Errorf("logo: target size %d", px)
	}

	inner := px
	if backdrop != nil {
		inner = px - int(2*backdropPadRatio*float64(px))
		if inner < 1 {
			inner = 1
		}
	}

	src, err := decode(raw, inner)
	if err != nil {
		return nil, err
	}

	scaled := squareScale(src, inner)
	if shape == style.LogoCircle {
		scaled = circleClip(scaled)
	}
	if backdrop == nil {
		return scaled, nil
	}

	dc := gg.NewContext(px, px)
	dc.SetColor(*backdrop)
	if shape == style.LogoCircle {
		dc.DrawCircle(float64(px)/2, float64(px)/2, float64(px)/2)
	} else {
		dc.DrawRoundedRectangle(0, 0, float64(px), float64(px), float64(px)*0.12)
	}
	dc.Fill()
	off := float64(px-inner) / 2
	dc.DrawImage(scaled, int(off), int(off))
	return dc.Image(), nil
}

// decode sniffs raw for SVG markup and falls back to the registered raster
// decoders. SVG is rasterized straight at the target size so small icons do
// not get upscaled.
func decode(raw []byte, px int) (image.Image, error) {
	if looksLikeSVG(raw) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("logo: parse svg: %w", err)
		}
		img := image.NewRGBA(image.Rect(0, 0, px, px))
		icon.SetTarget(0, 0, float64(px), float64(px))
		scanner := rasterx.NewScannerGV(px, px, img, img.Bounds())
		icon.Draw(rasterx.NewDasher(px, px, scanner), 1.0)
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return img, nil
}

func looksLikeSVG(raw []byte) bool {
	head := bytes.TrimSpace(raw)
	if len(head) == 0 || head[0] != '<' {
		return false
	}
	limit := len(head)
	if limit > 512 {
		limit = 512
	}
	return bytes.Contains(head[:limit], []byte("<svg"))
}

// squareScale center-crops src to a square and resamples it to px×px.
func squareScale(src image.Image, px int) *image.RGBA {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	cropped := imaging.CropCenter(src, side, side)

	dst := image.NewRGBA(image.Rect(0, 0, px, px))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)
	return dst
}

// circleClip zeroes everything outside the inscribed circle.
func circleClip(src *image.RGBA) *image.RGBA {
	px := src.Bounds().Dx()
	dc := gg.NewContext(px, px)
	dc.DrawCircle(float64(px)/2, float64(px)/2, float64(px)/2)
	dc.Clip()
	dc.DrawImage(src, 0, 0)
	out, ok := dc.Image().(*image.RGBA)
	if !ok {
		clone := image.NewRGBA(image.Rect(0, 0, px, px))
		draw.Draw(clone, clone.Bounds(), dc.Image(), image.Point{}, draw.Src)
		return clone
	}
	return out
}
