// Package export serializes render plans into the supported output formats.
// Every exporter draws the same plan primitives, so geometry and colors stay
// identical across raster and vector backends.
package export

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/qrstudio/qrstudio/internal/render"
)

// Format identifies an output encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatEPS Format = "eps"
	// FormatAll expands to every concrete format in one call.
	FormatAll Format = "all"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG, FormatPDF, FormatEPS, FormatAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q, want png, svg, pdf, eps or all", s)
	}
}

// PDF page sizes accepted by Options.PageSize.
var pageSizes = map[string]bool{"a3": true, "a4": true, "a5": true, "letter": true}

// Options tunes a single export. The zero value asks for defaults; fields
// only meaningful for some formats are rejected elsewhere instead of being
// silently ignored.
type Options struct {
	// DPI is the raster density for PNG output and for logo rasterization
	// inside EPS. Zero means 72.
	DPI int `json:"dpi"`
	// Compression selects the PNG compression level: "", "default", "speed",
	// "best" or "none".
	Compression string `json:"compression"`
	// Scale multiplies the plan's module scale for raster output. Zero means 1.
	Scale float64 `json:"scale"`
	// PageSize is the PDF page: "a3", "a4", "a5" or "letter" (default "a4").
	PageSize string `json:"page_size"`
	// Orientation is "portrait" (default) or "landscape".
	Orientation string `json:"orientation"`
	// Title and Author become PDF document metadata.
	Title  string `json:"title"`
	Author string `json:"author"`
	// PositionMM places the image's top-left corner on the PDF page; nil
	// centers it.
	PositionMM *[2]float64 `json:"position_mm"`
	// SizeMM is the image edge on the PDF page in millimeters; zero picks a
	// size that fits the page with a margin.
	SizeMM float64 `json:"size_mm"`
}

// UnsupportedCombinationError rejects an option that has no meaning for the
// requested format.
type UnsupportedCombinationError struct {
	Format Format
	Option string
	Reason string
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("export %s: option %s: %s", e.Format, e.Option, e.Reason)
}

// IOError wraps a failure while writing serialized output.
type IOError struct {
	Format Format
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("export %s: write: %v", e.Format, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Exporter serializes a plan into one format.
type Exporter interface {
	Format() Format
	Export(w io.Writer, plan *render.Plan, opts Options) error
}

// Registry holds the available exporters and enforces the canvas size limit.
type Registry struct {
	exporters       map[Format]Exporter
	maxCanvasPixels int
}

// NewRegistry builds a registry with all built-in exporters. maxCanvasPixels
// caps the raster canvas area; zero disables the cap.
func NewRegistry(maxCanvasPixels int) *Registry {
	r := &Registry{
		exporters:       make(map[Format]Exporter),
		maxCanvasPixels: maxCanvasPixels,
	}
	for _, e := range []Exporter{&pngExporter{}, &svgExporter{}, &pdfExporter{}, &epsExporter{}} {
		r.exporters[e.Format()] = e
	}
	return r
}

// Formats returns the concrete formats in sorted order.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.exporters))
	for f := range r.exporters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Export serializes plan into format, validating options first.
func (r *Registry) Export(w io.Writer, plan *render.Plan, format Format, opts Options) error {
	e, ok := r.exporters[format]
	if !ok {
		return fmt.Errorf("export: no exporter for format %q", format)
	}
	if err := r.validate(format, plan, opts); err != nil {
		return err
	}
	return e.Export(w, plan, opts)
}

// ExportAll serializes plan into every concrete format. Options that only
// apply to some formats are passed through to those and dropped for the rest,
// so a PDF title does not break the PNG leg.
func (r *Registry) ExportAll(plan *render.Plan, opts Options) (map[Format][]byte, error) {
	out := make(map[Format][]byte, len(r.exporters))
	for _, f := range r.Formats() {
		var buf bytes.Buffer
		if err := r.Export(&buf, plan, f, restrict(f, opts)); err != nil {
			return nil, err
		}
		out[f] = buf.Bytes()
	}
	return out, nil
}

// restrict keeps only the options the format understands.
func restrict(format Format, opts Options) Options {
	var kept Options
	switch format {
	case FormatPNG:
		kept.DPI = opts.DPI
		kept.Compression = opts.Compression
		kept.Scale = opts.Scale
	case FormatSVG:
		kept.Scale = opts.Scale
	case FormatPDF:
		kept.DPI = opts.DPI
		kept.Scale = opts.Scale
		kept.PageSize = opts.PageSize
		kept.Orientation = opts.Orientation
		kept.Title = opts.Title
		kept.Author = opts.Author
		kept.PositionMM = opts.PositionMM
		kept.SizeMM = opts.SizeMM
	case FormatEPS:
		kept.DPI = opts.DPI
	}
	return kept
}

func (r *Registry) validate(format Format, plan *render.Plan, opts Options) error {
	if opts.DPI < 0 {
		return &UnsupportedCombinationError{Format: format, Option: "dpi", Reason: "must be positive"}
	}
	if opts.Scale < 0 {
		return &UnsupportedCombinationError{Format: format, Option: "scale", Reason: "must be positive"}
	}

	if format != FormatPNG {
		if opts.Compression != "" {
			return &UnsupportedCombinationError{Format: format, Option: "compression", Reason: "only meaningful for png"}
		}
		if opts.Scale != 0 && format == FormatEPS {
			return &UnsupportedCombinationError{Format: format, Option: "scale", Reason: "eps geometry is sized by the bounding box"}
		}
	} else if opts.Compression != "" {
		if _, err := pngCompression(opts.Compression); err != nil {
			return &UnsupportedCombinationError{Format: format, Option: "compression", Reason: err.Error()}
		}
	}

	if format != FormatPDF {
		for _, f := range []struct {
			name string
			set  bool
		}{
			{"page_size", opts.PageSize != ""},
			{"orientation", opts.Orientation != ""},
			{"title", opts.Title != ""},
			{"author", opts.Author != ""},
			{"position_mm", opts.PositionMM != nil},
			{"size_mm", opts.SizeMM != 0},
		} {
			if f.set {
				return &UnsupportedCombinationError{Format: format, Option: f.name, Reason: "only meaningful for pdf"}
			}
		}
	} else {
		if opts.PageSize != "" && !pageSizes[strings.ToLower(opts.PageSize)] {
			return &UnsupportedCombinationError{Format: format, Option: "page_size", Reason: fmt.Sprintf("unknown page size %q", opts.PageSize)}
		}
		switch strings.ToLower(opts.Orientation) {
		case "", "portrait", "landscape":
		default:
			return &UnsupportedCombinationError{Format: format, Option: "orientation", Reason: fmt.Sprintf("unknown orientation %q", opts.Orientation)}
		}
		if opts.SizeMM < 0 {
			return &UnsupportedCombinationError{Format: format, Option: "size_mm", Reason: "must be positive"}
		}
	}

	if format == FormatSVG && opts.DPI != 0 {
		return &UnsupportedCombinationError{Format: format, Option: "dpi", Reason: "vector output has no raster density"}
	}
	if format == FormatEPS && opts.DPI != 0 && (opts.DPI < 36 || opts.DPI > 2400) {
		return &UnsupportedCombinationError{Format: format, Option: "dpi", Reason: "must be in [36, 2400]"}
	}

	if r.maxCanvasPixels > 0 && (format == FormatPNG || format == FormatPDF) {
		scale := opts.Scale
		if scale == 0 {
			scale = 1
		}
		if opts.DPI > 0 {
			scale *= float64(opts.DPI) / 72
		}
		edge := int(float64(plan.CanvasSize()) * scale)
		if edge*edge > r.maxCanvasPixels {
			return &UnsupportedCombinationError{
				Format: format, Option: "scale",
				Reason: fmt.Sprintf("canvas %d×%d exceeds the %d-pixel limit", edge, edge, r.maxCanvasPixels),
			}
		}
	}
	return nil
}
