// Package shape turns module and finder-pattern styles into backend-neutral
// fill primitives. Every exporter interprets the same primitives, so raster
// and vector output agree on geometry by construction.
package shape

import (
	"math"

	"github.com/qrstudio/qrstudio/internal/style"
)

// Point is a canvas coordinate in pixels (raster) or user units (vector).
type Point struct {
	X, Y float64
}

// Primitive is a closed filled region. The concrete types below are the only
// implementations.
type Primitive interface {
	primitive()
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Circle is a disk centered at (CX, CY).
type Circle struct {
	CX, CY, R float64
}

// Polygon is a closed polygon; the last point connects back to the first.
type Polygon struct {
	Points []Point
}

// RoundedRect is a rectangle with quarter-circle corners of the given radius.
type RoundedRect struct {
	X, Y, W, H, Radius float64
}

// Ring is Outer minus Inner, filled with the even-odd rule.
type Ring struct {
	Outer, Inner Primitive
}

func (Rect) primitive()        {}
func (Circle) primitive()      {}
func (Polygon) primitive()     {}
func (RoundedRect) primitive() {}
func (Ring) primitive()        {}

// Geometry ratios. The dot radius and rounded inset keep adjacent modules
// visually separated without opening gaps a scanner would misread.
const (
	dotRadiusRatio   = 0.7
	roundInsetRatio  = 0.05
	roundCornerRatio = 0.30
	starOuterRatio   = 0.95
	starInnerRatio   = 0.45
	triInsetRatio    = 0.05
	// frameCarveRatio is the inner cut of a finder frame: a 7-module frame
	// keeps a 1-module wall, leaving a 5/7 opening.
	frameCarveRatio = 5.0 / 7.0
)

// Module returns the primitive for a single data module inside box.
func Module(s style.ModuleShape, box Rect) Primitive {
	cx := box.X + box.W/2
	cy := box.Y + box.H/2
	half := box.W / 2

	switch s {
	case style.ModuleDot:
		return Circle{CX: cx, CY: cy, R: half * dotRadiusRatio}
	case style.ModuleRound:
		inset := box.W * roundInsetRatio
		w := box.W - 2*inset
		return RoundedRect{
			X: box.X + inset, Y: box.Y + inset,
			W: w, H: box.H - 2*inset,
			Radius: w * roundCornerRatio,
		}
	case style.ModuleDiamond:
		return Polygon{Points: []Point{
			{cx, box.Y},
			{box.X + box.W, cy},
			{cx, box.Y + box.H},
			{box.X, cy},
		}}
	case style.ModuleTriangle:
		inset := box.W * triInsetRatio
		return Polygon{Points: []Point{
			{cx, box.Y + inset},
			{box.X + box.W - inset, box.Y + box.H - inset},
			{box.X + inset, box.Y + box.H - inset},
		}}
	case style.ModuleStar:
		return star(cx, cy, half*starOuterRatio)
	default:
		return box
	}
}

// star builds a five-pointed star with one point facing up.
func star(cx, cy, outer float64) Polygon {
	inner := outer * starInnerRatio
	pts := make([]Point, 0, 10)
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, Point{
			X: cx + r*math.Cos(a),
			Y: cy + r*math.Sin(a),
		})
	}
	return Polygon{Points: pts}
}

// EyeFrame returns the hollow outer ring of a finder pattern spanning box.
func EyeFrame(s style.EyeShape, box Rect) Primitive {
	inner := carve(box, frameCarveRatio)
	switch s {
	case style.EyeCircle:
		return Ring{
			Outer: Circle{CX: box.X + box.W/2, CY: box.Y + box.H/2, R: box.W / 2},
			Inner: Circle{CX: inner.X + inner.W/2, CY: inner.Y + inner.H/2, R: inner.W / 2},
		}
	case style.EyeRounded:
		return Ring{
			Outer: RoundedRect{X: box.X, Y: box.Y, W: box.W, H: box.H, Radius: box.W * 0.25},
			Inner: RoundedRect{X: inner.X, Y: inner.Y, W: inner.W, H: inner.H, Radius: inner.W * 0.25},
		}
	case style.EyeDiamond:
		return Ring{
			Outer: diamond(box),
			Inner: diamond(inner),
		}
	default:
		return Ring{Outer: box, Inner: inner}
	}
}

// Eyeball returns the solid center of a finder pattern spanning box.
func Eyeball(s style.EyeShape, box Rect) Primitive {
	switch s {
	case style.EyeCircle:
		return Circle{CX: box.X + box.W/2, CY: box.Y + box.H/2, R: box.W / 2}
	case style.EyeRounded:
		return RoundedRect{X: box.X, Y: box.Y, W: box.W, H: box.H, Radius: box.W * 0.25}
	case style.EyeDiamond:
		return diamond(box)
	default:
		return box
	}
}

// carve returns box shrunk to ratio of its size, centered.
func carve(box Rect, ratio float64) Rect {
	w := box.W * ratio
	h := box.H * ratio
	return Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w, H: h,
	}
}

func diamond(box Rect) Polygon {
	cx := box.X + box.W/2
	cy := box.Y + box.H/2
	return Polygon{Points: []Point{
		{cx, box.Y},
		{box.X + box.W, cy},
		{cx, box.Y + box.H},
		{box.X, cy},
	}}
}

// Bounds returns the axis-aligned bounding box of p.
func Bounds(p Primitive) Rect {
	switch v := p.(type) {
	case Rect:
		return v
	case Circle:
		return Rect{X: v.CX - v.R, Y: v.CY - v.R, W: 2 * v.R, H: 2 * v.R}
	case RoundedRect:
		return Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}
	case Polygon:
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, pt := range v.Points {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
		return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	case Ring:
		return Bounds(v.Outer)
	}
	return Rect{}
}
