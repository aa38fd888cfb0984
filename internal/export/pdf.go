package export

import (
	"bytes"
	"image/png"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/qrstudio/qrstudio/internal/render"
)

type pdfExporter struct{}

func (*pdfExporter) Format() Format { return FormatPDF }

// pageMarginMM keeps the default image clear of printer-hostile edges.
const pageMarginMM = 20.0

func (*pdfExporter) Export(w io.Writer, plan *render.Plan, opts Options) error {
	page := strings.ToLower(opts.PageSize)
	if page == "" {
		page = "a4"
	}
	orient := "P"
	if strings.ToLower(opts.Orientation) == "landscape" {
		orient = "L"
	}

	// The page embeds a raster of the plan, so the print result matches the
	// PNG output exactly.
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if opts.DPI > 0 {
		scale *= float64(opts.DPI) / 72
	}
	img, err := rasterize(plan, scale)
	if err != nil {
		return err
	}
	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return &IOError{Format: FormatPDF, Err: err}
	}

	pdf := fpdf.New(orient, "mm", strings.ToUpper(page), "")
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	pdf.AddPage()

	pw, ph := pdf.GetPageSize()
	size := opts.SizeMM
	if size == 0 {
		size = pw - 2*pageMarginMM
		if ph-2*pageMarginMM < size {
			size = ph - 2*pageMarginMM
		}
	}
	x := (pw - size) / 2
	y := (ph - size) / 2
	if opts.PositionMM != nil {
		x, y = opts.PositionMM[0], opts.PositionMM[1]
	}

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("plan", imgOpts, bytes.NewReader(raster.Bytes()))
	pdf.ImageOptions("plan", x, y, size, size, false, imgOpts, 0, "")

	if opts.Title != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(x, y+size+6)
		pdf.CellFormat(size, 8, opts.Title, "", 0, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return &IOError{Format: FormatPDF, Err: err}
	}
	return nil
}
