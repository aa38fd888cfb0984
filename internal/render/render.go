// Package render builds the intermediate drawing plan for a styled code: one
// instruction per matrix cell, three finder-pattern regions and any logo
// overlays, with every color already resolved. Exporters consume the plan
// without touching the matrix or the style again, so all backends draw the
// same picture.
package render

import (
	"fmt"
	"image/color"

	"github.com/qrstudio/qrstudio/internal/colormask"
	"github.com/qrstudio/qrstudio/internal/logo"
	"github.com/qrstudio/qrstudio/internal/qrmatrix"
	"github.com/qrstudio/qrstudio/internal/style"
)

// CellKind says how a single cell is drawn.
type CellKind uint8

const (
	// KindBackground is a light cell, painted only when the plan asks for
	// background cells.
	KindBackground CellKind = iota
	// KindModule is a dark cell drawn with the configured module shape.
	KindModule
	// KindPinned is a dark timing cell, always drawn as a full square so the
	// alternating track stays scannable under decorative shapes.
	KindPinned
)

// Cell is one drawing instruction. Reserved cells belong to a finder pattern
// and are rendered exclusively by the eye pass; LogoExcluded cells sit under
// an overlay and are skipped entirely.
type Cell struct {
	X, Y         int
	Kind         CellKind
	Reserved     bool
	LogoExcluded bool
	Fill         color.RGBA
}

// Eye is one finder pattern: a hollow frame and a solid eyeball, placed at
// the module origin of its 7×7 region.
type Eye struct {
	OriginX, OriginY int
	FrameShape       style.EyeShape
	BallShape        style.EyeShape
	FrameColor       color.RGBA
	BallColor        color.RGBA
}

// Overlay is a resolved logo placement plus its compositing options.
type Overlay struct {
	logo.Placement
	Backdrop *color.RGBA
	Shape    style.LogoShape
}

// Plan is the complete, deterministic drawing description of one styled code.
type Plan struct {
	// Size is the matrix side in modules.
	Size        int
	ModuleScale int
	Margin      int
	Background  color.RGBA
	// DrawBackgroundCells paints light cells with their mask color instead of
	// leaving the canvas background visible.
	DrawBackgroundCells bool
	ModuleShape         style.ModuleShape
	Cells               []Cell
	Eyes                [3]Eye
	Overlays            []Overlay
}

// CanvasSize returns the canvas edge in pixels or user units.
func (p *Plan) CanvasSize() int {
	return (p.Size + 2*p.Margin) * p.ModuleScale
}

// InternalInvariantError reports a broken construction invariant. Seeing one
// is a bug in this package, never a caller mistake.
type InternalInvariantError struct {
	Msg string
}

func (e *InternalInvariantError) Error() string {
	return "render: invariant violated: " + e.Msg
}

// Build resolves matrix and style into a plan. The same inputs always yield
// an identical plan.
func Build(m *qrmatrix.Matrix, cfg style.Config) (*Plan, error) {
	placements, err := logo.Placements(cfg.Logo, m.Level())
	if err != nil {
		return nil, err
	}

	size := m.Size()
	total := float64(size + 2*cfg.Margin)

	if err := checkFinderClearance(m, cfg.Margin, total, placements); err != nil {
		return nil, err
	}

	plan := &Plan{
		Size:                size,
		ModuleScale:         cfg.ModuleScale,
		Margin:              cfg.Margin,
		Background:          cfg.Mask.Background(),
		DrawBackgroundCells: cfg.DrawBackgroundCells,
		ModuleShape:         cfg.ModuleShape,
		Cells:               make([]Cell, 0, size*size),
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cell := Cell{X: x, Y: y}
			p := colormask.Point{
				X: (float64(cfg.Margin+x) + 0.5) / total,
				Y: (float64(cfg.Margin+y) + 0.5) / total,
			}
			switch {
			case m.FinderAt(x, y):
				cell.Reserved = true
			case covered(placements, p):
				cell.LogoExcluded = true
			case m.At(x, y):
				cell.Kind = KindModule
				if m.TimingAt(x, y) || m.AlignmentAt(x, y) {
					cell.Kind = KindPinned
				}
				cell.Fill = cfg.Mask.ColorAt(p, true)
			default:
				cell.Fill = cfg.Mask.ColorAt(p, false)
			}
			plan.Cells = append(plan.Cells, cell)
		}
	}

	if len(plan.Cells) != size*size {
		return nil, &InternalInvariantError{Msg: fmt.Sprintf("%d cells for a %d×%d matrix", len(plan.Cells), size, size)}
	}

	span := float64(qrmatrix.FinderSpan())
	for i, origin := range m.FinderOrigins() {
		center := colormask.Point{
			X: (float64(cfg.Margin+origin[0]) + span/2) / total,
			Y: (float64(cfg.Margin+origin[1]) + span/2) / total,
		}
		c := cfg.Mask.ColorAt(center, true)
		if cfg.EyeColor != nil {
			c = *cfg.EyeColor
		}
		plan.Eyes[i] = Eye{
			OriginX:    origin[0],
			OriginY:    origin[1],
			FrameShape: cfg.EyeFrame,
			BallShape:  cfg.Eyeball,
			FrameColor: c,
			BallColor:  c,
		}
	}

	for _, p := range placements {
		var shape style.LogoShape
		if cfg.Logo != nil {
			shape = cfg.Logo.Shape
		}
		plan.Overlays = append(plan.Overlays, Overlay{Placement: p, Backdrop: p.Backdrop, Shape: shape})
	}
	return plan, nil
}

func covered(placements []logo.Placement, p colormask.Point) bool {
	for _, pl := range placements {
		if pl.Contains(p.X, p.Y) {
			return true
		}
	}
	return false
}

// checkFinderClearance rejects overlays that would intrude on a finder
// pattern. Center logos never can at the sizes the budget allows; wide rings
// might.
func checkFinderClearance(m *qrmatrix.Matrix, margin int, total float64, placements []logo.Placement) error {
	if len(placements) == 0 {
		return nil
	}
	span := float64(qrmatrix.FinderSpan())
	for _, origin := range m.FinderOrigins() {
		x0 := float64(margin+origin[0]) / total
		y0 := float64(margin+origin[1]) / total
		x1 := x0 + span/total
		y1 := y0 + span/total
		for _, p := range placements {
			h := p.Size / 2
			if p.CX+h > x0 && p.CX-h < x1 && p.CY+h > y0 && p.CY-h < y1 {
				return &logo.ObstructionError{
					Size:   p.Size,
					Reason: "would cover a finder pattern",
				}
			}
		}
	}
	return nil
}
