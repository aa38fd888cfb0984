package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/internal/style"
)

func TestModulePrimitivesStayInsideBox(t *testing.T) {
	t.Parallel()

	box := Rect{X: 10, Y: 20, W: 16, H: 16}
	shapes := []style.ModuleShape{
		style.ModuleSquare, style.ModuleDot, style.ModuleRound,
		style.ModuleDiamond, style.ModuleStar, style.ModuleTriangle,
	}
	for _, s := range shapes {
		p := Module(s, box)
		b := Bounds(p)
		assert.GreaterOrEqual(t, b.X, box.X-1e-9, "%s left", s)
		assert.GreaterOrEqual(t, b.Y, box.Y-1e-9, "%s top", s)
		assert.LessOrEqual(t, b.X+b.W, box.X+box.W+1e-9, "%s right", s)
		assert.LessOrEqual(t, b.Y+b.H, box.Y+box.H+1e-9, "%s bottom", s)
	}
}

func TestModuleSquareFillsBox(t *testing.T) {
	t.Parallel()

	box := Rect{X: 0, Y: 0, W: 8, H: 8}
	p := Module(style.ModuleSquare, box)
	assert.Equal(t, Primitive(box), p)
}

func TestModuleDotRadius(t *testing.T) {
	t.Parallel()

	p := Module(style.ModuleDot, Rect{X: 0, Y: 0, W: 10, H: 10})
	c, ok := p.(Circle)
	require.True(t, ok)
	assert.InDelta(t, 5.0, c.CX, 1e-9)
	assert.InDelta(t, 5.0, c.CY, 1e-9)
	assert.InDelta(t, 3.5, c.R, 1e-9)
}

func TestModuleStarHasTenVertices(t *testing.T) {
	t.Parallel()

	p := Module(style.ModuleStar, Rect{X: 0, Y: 0, W: 10, H: 10})
	poly, ok := p.(Polygon)
	require.True(t, ok)
	require.Len(t, poly.Points, 10)

	// First vertex is the upward point.
	assert.InDelta(t, 5.0, poly.Points[0].X, 1e-9)
	assert.Less(t, poly.Points[0].Y, 5.0)
}

func TestEyeFrameCarvesFiveSeventh(t *testing.T) {
	t.Parallel()

	box := Rect{X: 0, Y: 0, W: 70, H: 70}
	for _, s := range []style.EyeShape{style.EyeSquare, style.EyeRounded, style.EyeCircle, style.EyeDiamond} {
		p := EyeFrame(s, box)
		ring, ok := p.(Ring)
		require.True(t, ok, "%s", s)

		outer := Bounds(ring.Outer)
		inner := Bounds(ring.Inner)
		assert.InDelta(t, 70.0, outer.W, 1e-9, "%s outer", s)
		assert.InDelta(t, 50.0, inner.W, 1e-9, "%s inner", s)
		// Inner opening is centered.
		assert.InDelta(t, 10.0, inner.X, 1e-9, "%s inner x", s)
		assert.InDelta(t, 10.0, inner.Y, 1e-9, "%s inner y", s)
	}
}

func TestEyeballShapes(t *testing.T) {
	t.Parallel()

	box := Rect{X: 20, Y: 20, W: 30, H: 30}

	c, ok := Eyeball(style.EyeCircle, box).(Circle)
	require.True(t, ok)
	assert.InDelta(t, 35.0, c.CX, 1e-9)
	assert.InDelta(t, 15.0, c.R, 1e-9)

	_, ok = Eyeball(style.EyeSquare, box).(Rect)
	assert.True(t, ok)

	rr, ok := Eyeball(style.EyeRounded, box).(RoundedRect)
	require.True(t, ok)
	assert.Greater(t, rr.Radius, 0.0)

	d, ok := Eyeball(style.EyeDiamond, box).(Polygon)
	require.True(t, ok)
	assert.Len(t, d.Points, 4)
}

func TestBoundsRing(t *testing.T) {
	t.Parallel()

	r := Ring{
		Outer: Circle{CX: 5, CY: 5, R: 5},
		Inner: Circle{CX: 5, CY: 5, R: 3},
	}
	b := Bounds(r)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 10, H: 10}, b)
}
