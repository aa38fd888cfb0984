// Package qrmatrix adapts the external QR encoder into the immutable module
// grid consumed by the render pipeline. The encoder stays a black box: we hand
// it a payload and an error-correction level and capture the boolean matrix it
// would have written to an image.
package qrmatrix

import (
	"errors"
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
)

// Level is the QR error-correction tier. Higher tiers tolerate more obscured
// modules (for example by an embedded logo) while still decoding.
type Level int

const (
	LevelLow Level = iota // ~7% recoverable
	LevelMedium
	LevelQuartile
	LevelHigh // ~30% recoverable
)

// RecoverableFraction returns the fraction of modules that may be obscured at
// this level and still decode.
func (l Level) RecoverableFraction() float64 {
	switch l {
	case LevelLow:
		return 0.07
	case LevelMedium:
		return 0.15
	case LevelQuartile:
		return 0.25
	case LevelHigh:
		return 0.30
	}
	return 0
}

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelMedium:
		return "M"
	case LevelQuartile:
		return "Q"
	case LevelHigh:
		return "H"
	}
	return "?"
}

// ParseLevel maps the single-letter form (L/M/Q/H) to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "L", "l":
		return LevelLow, nil
	case "M", "m", "":
		return LevelMedium, nil
	case "Q", "q":
		return LevelQuartile, nil
	case "H", "h":
		return LevelHigh, nil
	}
	return 0, fmt.Errorf("unknown error correction level %q", s)
}

const (
	// MinSize is the smallest QR symbol (version 1).
	MinSize = 21
	// finderSpan is the fixed extent of each finder pattern in modules.
	finderSpan = 7
	// timingIndex is the row and column holding the timing pattern.
	timingIndex = 6
)

// ErrEmptyPayload is returned when there is nothing to encode.
var ErrEmptyPayload = errors.New("payload cannot be empty")

// Matrix is the boolean module grid plus the structural masks the renderer
// needs. It is immutable after construction.
type Matrix struct {
	size  int
	cells []bool
	level Level
}

// FromPayload runs the external encoder and captures its module grid.
func FromPayload(payload string, level Level) (*Matrix, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	qrc, err := qrcode.NewWith(payload, ecOption(level))
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	cw := &captureWriter{level: level}
	if err := qrc.Save(cw); err != nil {
		return nil, fmt.Errorf("capture matrix: %w", err)
	}
	return cw.matrix, nil
}

// FromBitmap builds a Matrix directly from a boolean grid. Intended for tests
// and callers that already hold an encoded symbol.
func FromBitmap(cells [][]bool, level Level) (*Matrix, error) {
	size := len(cells)
	if size < MinSize || size%2 == 0 {
		return nil, fmt.Errorf("invalid matrix size %d: must be odd and >= %d", size, MinSize)
	}
	m := &Matrix{size: size, cells: make([]bool, size*size), level: level}
	for y, row := range cells {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), size)
		}
		copy(m.cells[y*size:(y+1)*size], row)
	}
	return m, nil
}

// Size returns the symbol dimension in modules.
func (m *Matrix) Size() int { return m.size }

// Level returns the error-correction level the symbol was encoded with.
func (m *Matrix) Level() Level { return m.level }

// At reports whether the module at (x, y) is dark.
func (m *Matrix) At(x, y int) bool {
	return m.cells[y*m.size+x]
}

// FinderAt reports whether (x, y) lies inside one of the three fixed 7x7
// finder regions. Their positions are mandated by the QR specification, so
// they are derived from geometry rather than the encoder.
func (m *Matrix) FinderAt(x, y int) bool {
	n := m.size
	if x < finderSpan && y < finderSpan {
		return true
	}
	if x >= n-finderSpan && y < finderSpan {
		return true
	}
	return x < finderSpan && y >= n-finderSpan
}

// TimingAt reports whether (x, y) belongs to a timing pattern: row 6 or
// column 6, between the finder regions.
func (m *Matrix) TimingAt(x, y int) bool {
	if m.FinderAt(x, y) {
		return false
	}
	return x == timingIndex || y == timingIndex
}

// alignmentCoords[v] lists the alignment pattern center coordinates of
// version v, per the symbol structure tables. Versions 0 and 1 carry none.
var alignmentCoords = [][]int{
	{}, {},
	{6, 18}, {6, 22}, {6, 26}, {6, 30}, {6, 34},
	{6, 22, 38}, {6, 24, 42}, {6, 26, 46}, {6, 28, 50},
	{6, 30, 54}, {6, 32, 58}, {6, 34, 62},
	{6, 26, 46, 66}, {6, 26, 48, 70}, {6, 26, 50, 74},
	{6, 30, 54, 78}, {6, 30, 56, 82}, {6, 30, 58, 86}, {6, 34, 62, 90},
	{6, 28, 50, 72, 94}, {6, 26, 50, 74, 98}, {6, 30, 54, 78, 102},
	{6, 28, 54, 80, 106}, {6, 32, 58, 84, 110}, {6, 30, 58, 86, 114},
	{6, 34, 62, 90, 118},
	{6, 26, 50, 74, 98, 122}, {6, 30, 54, 78, 102, 126},
	{6, 26, 52, 78, 104, 130}, {6, 30, 56, 82, 108, 134},
	{6, 34, 60, 86, 112, 138}, {6, 30, 58, 86, 114, 142},
	{6, 34, 62, 90, 118, 146},
	{6, 30, 54, 78, 102, 126, 150}, {6, 24, 50, 76, 102, 128, 154},
	{6, 28, 54, 80, 106, 132, 158}, {6, 32, 58, 84, 110, 136, 162},
	{6, 26, 54, 82, 110, 138, 166}, {6, 30, 58, 86, 114, 142, 170},
}

// AlignmentAt reports whether (x, y) lies inside a 5x5 alignment pattern.
// Centers follow the per-version coordinate table; the three candidates that
// would collide with finder regions are never placed.
func (m *Matrix) AlignmentAt(x, y int) bool {
	version := (m.size - 17) / 4
	if version < 2 || version >= len(alignmentCoords) {
		return false
	}
	coords := alignmentCoords[version]
	last := coords[len(coords)-1]
	for _, cy := range coords {
		if y < cy-2 || y > cy+2 {
			continue
		}
		for _, cx := range coords {
			if (cx == 6 && cy == 6) || (cx == 6 && cy == last) || (cx == last && cy == 6) {
				continue
			}
			if x >= cx-2 && x <= cx+2 {
				return true
			}
		}
	}
	return false
}

// ReservedAt reports whether (x, y) carries structural geometry (finder,
// timing or alignment) rather than data.
func (m *Matrix) ReservedAt(x, y int) bool {
	return m.FinderAt(x, y) || m.TimingAt(x, y) || m.AlignmentAt(x, y)
}

// FinderOrigins returns the top-left cell of each finder region in a fixed
// order: top-left, top-right, bottom-left.
func (m *Matrix) FinderOrigins() [3][2]int {
	n := m.size
	return [3][2]int{
		{0, 0},
		{n - finderSpan, 0},
		{0, n - finderSpan},
	}
}

// FinderSpan returns the extent of a finder region in modules.
func FinderSpan() int { return finderSpan }

// ecOption maps a Level onto the encoder's error-correction option.
func ecOption(l Level) qrcode.EncodeOption {
	switch l {
	case LevelLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case LevelQuartile:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case LevelHigh:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	}
}

// captureWriter implements qrcode.Writer so the encoder hands us its matrix
// instead of rendering an image.
type captureWriter struct {
	level  Level
	matrix *Matrix
}

func (w *captureWriter) Write(mat qrcode.Matrix) error {
	size := mat.Width()
	if mat.Height() != size {
		return fmt.Errorf("non-square matrix %dx%d", mat.Width(), mat.Height())
	}
	m := &Matrix{size: size, cells: make([]bool, size*size), level: w.level}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if v.IsSet() {
			m.cells[y*size+x] = true
		}
	})
	w.matrix = m
	return nil
}

func (w *captureWriter) Close() error { return nil }
