// Package logo sizes and places overlay images on top of a code. Placement
// is budgeted against the error-correction level: overlays may consume at
// most 60% of the theoretically recoverable area, measured on the linear
// dimension, so scanners keep real-world headroom for print damage.
package logo

import (
	"fmt"
	"image/color"
	"math"

	"github.com/qrstudio/qrstudio/internal/qrmatrix"
	"github.com/qrstudio/qrstudio/internal/style"
)

// budgetFactor is the share of the recoverable capacity an overlay may use.
const budgetFactor = 0.6

// ringGapFactor is the minimum center distance between adjacent ring
// overlays, as a multiple of the overlay edge.
const ringGapFactor = 1.05

// MaxRelativeSize returns the largest allowed overlay edge, as a fraction of
// the canvas edge, for the given error-correction level. An overlay of edge s
// covers s² of the canvas; capping the edge at budgetFactor·√recoverable caps
// the covered area at budgetFactor²·recoverable.
func MaxRelativeSize(level qrmatrix.Level) float64 {
	return budgetFactor * math.Sqrt(level.RecoverableFraction())
}

// TooLargeError reports an overlay that exceeds the error-correction budget.
type TooLargeError struct {
	Requested float64
	Max       float64
	Level     qrmatrix.Level
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("logo: relative size %.3f exceeds %.3f allowed at level %s",
		e.Requested, e.Max, e.Level)
}

// RingLayoutError reports a ring whose overlays would overlap each other or
// leave the canvas.
type RingLayoutError struct {
	Count  int
	Radius float64
	Size   float64
	Reason string
}

func (e *RingLayoutError) Error() string {
	return fmt.Sprintf("logo: ring of %d overlays (radius %.3f, size %.3f): %s",
		e.Count, e.Radius, e.Size, e.Reason)
}

// ObstructionError reports an overlay that would cover structural geometry
// the decoder depends on.
type ObstructionError struct {
	Size   float64
	Reason string
}

func (e *ObstructionError) Error() string {
	return fmt.Sprintf("logo: overlay of size %.3f %s", e.Size, e.Reason)
}

// Placement is one overlay region in normalized canvas coordinates, with the
// raw image bytes that will fill it.
type Placement struct {
	CX, CY   float64
	Size     float64
	Circular bool
	Raw      []byte
	// Backdrop is the panel color behind this overlay, when one is set.
	Backdrop *color.RGBA
}

// Contains reports whether the normalized point (x, y) falls inside the
// placement region.
func (p Placement) Contains(x, y float64) bool {
	if p.Circular {
		return math.Hypot(x-p.CX, y-p.CY) <= p.Size/2
	}
	h := p.Size / 2
	return x >= p.CX-h && x <= p.CX+h && y >= p.CY-h && y <= p.CY+h
}

// Placements resolves a logo configuration into concrete overlay regions,
// enforcing the error-correction budget and ring geometry. A nil logo yields
// no placements.
func Placements(l *style.Logo, level qrmatrix.Level) ([]Placement, error) {
	if l == nil {
		return nil, nil
	}
	max := MaxRelativeSize(level)
	circular := l.Shape == style.LogoCircle

	if l.Ring == nil {
		if l.RelativeSize > max {
			return nil, &TooLargeError{Requested: l.RelativeSize, Max: max, Level: level}
		}
		return []Placement{{
			CX: 0.5, CY: 0.5,
			Size:     l.RelativeSize,
			Circular: circular,
			Raw:      l.Image,
			Backdrop: l.Backdrop,
		}}, nil
	}

	n := len(l.Ring.Images)
	size := l.RelativeSize
	radius := l.Ring.Radius

	// Aggregate budget: n overlays of edge s cover n·s², the same area as a
	// single overlay of edge √n·s.
	effective := math.Sqrt(float64(n)) * size
	if effective > max {
		return nil, &TooLargeError{Requested: effective, Max: max, Level: level}
	}
	if chord := 2 * radius * math.Sin(math.Pi/float64(n)); chord < size*ringGapFactor {
		return nil, &RingLayoutError{Count: n, Radius: radius, Size: size,
			Reason: "overlays would overlap, increase the radius or shrink them"}
	}
	if radius+size/2 > 0.5 {
		return nil, &RingLayoutError{Count: n, Radius: radius, Size: size,
			Reason: "overlays extend past the canvas edge"}
	}

	placements := make([]Placement, 0, n)
	for k := 0; k < n; k++ {
		backdrop := l.Backdrop
		if k < len(l.Ring.Backdrops) && l.Ring.Backdrops[k] != nil {
			backdrop = l.Ring.Backdrops[k]
		}
		a := -math.Pi/2 + 2*math.Pi*float64(k)/float64(n)
		placements = append(placements, Placement{
			CX:       0.5 + radius*math.Cos(a),
			CY:       0.5 + radius*math.Sin(a),
			Size:     size,
			Circular: circular,
			Raw:      l.Ring.Images[k],
			Backdrop: backdrop,
		})
	}
	return placements, nil
}
