package export

import (
	"fmt"
	"image/png"
	"io"
	"strings"

	"github.com/qrstudio/qrstudio/internal/render"
)

type pngExporter struct{}

func (*pngExporter) Format() Format { return FormatPNG }

func pngCompression(name string) (png.CompressionLevel, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return 0, fmt.Errorf("unknown compression %q, want default, speed, best or none", name)
	}
}

func (*pngExporter) Export(w io.Writer, plan *render.Plan, opts Options) error {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if opts.DPI > 0 {
		// DPI rescales the raster relative to the 72-unit baseline.
		scale *= float64(opts.DPI) / 72
	}
	img, err := rasterize(plan, scale)
	if err != nil {
		return err
	}
	level, err := pngCompression(opts.Compression)
	if err != nil {
		return &UnsupportedCombinationError{Format: FormatPNG, Option: "compression", Reason: err.Error()}
	}
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(w, img); err != nil {
		return &IOError{Format: FormatPNG, Err: err}
	}
	return nil
}
