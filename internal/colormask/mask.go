// Package colormask resolves the fill color for a canvas position. Masks are
// pure functions over normalized [0,1]x[0,1] coordinates so raster and vector
// backends evaluate identical colors.
package colormask

import (
	"image/color"
	"math"
)

// Point is a position in normalized canvas space.
type Point struct {
	X, Y float64
}

// Mask maps a normalized coordinate to a color. Background positions always
// resolve to the mask's background color no matter the mask kind: gradients
// outside the data pattern would distract without aiding the scan.
type Mask interface {
	ColorAt(p Point, foreground bool) color.RGBA
	Background() color.RGBA
}

// Solid fills every foreground position with FG and every background position
// with BG.
type Solid struct {
	FG, BG color.RGBA
}

func (s Solid) ColorAt(_ Point, foreground bool) color.RGBA {
	if foreground {
		return s.FG
	}
	return s.BG
}

func (s Solid) Background() color.RGBA { return s.BG }

// Linear interpolates From to To along the Start->End vector. Positions are
// projected onto that vector and the projection is clamped to [0,1], so the
// exact Start position yields From and the exact End position yields To.
type Linear struct {
	Start, End Point
	From, To   color.RGBA
	BG         color.RGBA
}

func (l Linear) ColorAt(p Point, foreground bool) color.RGBA {
	if !foreground {
		return l.BG
	}
	dx := l.End.X - l.Start.X
	dy := l.End.Y - l.Start.Y
	den := dx*dx + dy*dy
	if den == 0 {
		return l.From
	}
	t := ((p.X-l.Start.X)*dx + (p.Y-l.Start.Y)*dy) / den
	return Lerp(l.From, l.To, clamp01(t))
}

func (l Linear) Background() color.RGBA { return l.BG }

// Radial interpolates From at Center to To at the farthest canvas corner,
// by Euclidean distance normalized against that maximum corner distance.
type Radial struct {
	Center   Point
	From, To color.RGBA
	BG       color.RGBA
}

func (r Radial) ColorAt(p Point, foreground bool) color.RGBA {
	if !foreground {
		return r.BG
	}
	max := r.maxCornerDistance()
	if max == 0 {
		return r.From
	}
	d := math.Hypot(p.X-r.Center.X, p.Y-r.Center.Y)
	return Lerp(r.From, r.To, clamp01(d/max))
}

func (r Radial) Background() color.RGBA { return r.BG }

func (r Radial) maxCornerDistance() float64 {
	corners := [4]Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	var max float64
	for _, c := range corners {
		if d := math.Hypot(c.X-r.Center.X, c.Y-r.Center.Y); d > max {
			max = d
		}
	}
	return max
}

// Lerp interpolates each RGBA channel linearly, clamping t to [0, 1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
		A: lerp8(a.A, b.A, t),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
