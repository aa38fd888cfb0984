package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/internal/colormask"
	"github.com/qrstudio/qrstudio/internal/logo"
	"github.com/qrstudio/qrstudio/internal/qrmatrix"
	"github.com/qrstudio/qrstudio/internal/style"
)

func mustMatrix(t *testing.T, level qrmatrix.Level) *qrmatrix.Matrix {
	t.Helper()
	m, err := qrmatrix.FromPayload("https://example.com", level)
	require.NoError(t, err)
	return m
}

func defaultConfig(t *testing.T) style.Config {
	t.Helper()
	cfg, err := style.Resolve(style.Options{})
	require.NoError(t, err)
	return cfg
}

func TestBuildOneInstructionPerCell(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelMedium)
	plan, err := Build(m, defaultConfig(t))
	require.NoError(t, err)

	size := m.Size()
	require.Len(t, plan.Cells, size*size)

	seen := make(map[[2]int]bool, size*size)
	for _, c := range plan.Cells {
		key := [2]int{c.X, c.Y}
		assert.False(t, seen[key], "duplicate instruction for (%d,%d)", c.X, c.Y)
		seen[key] = true
	}
}

func TestBuildReservedCellsCarryNoModule(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelMedium)
	plan, err := Build(m, defaultConfig(t))
	require.NoError(t, err)

	for _, c := range plan.Cells {
		if m.FinderAt(c.X, c.Y) {
			assert.True(t, c.Reserved, "(%d,%d)", c.X, c.Y)
			assert.Equal(t, KindBackground, c.Kind, "(%d,%d)", c.X, c.Y)
		} else {
			assert.False(t, c.Reserved, "(%d,%d)", c.X, c.Y)
		}
	}
}

func TestBuildPinsTimingCells(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelMedium)
	cfg := defaultConfig(t)
	cfg.ModuleShape = style.ModuleStar
	plan, err := Build(m, cfg)
	require.NoError(t, err)

	var pinned int
	for _, c := range plan.Cells {
		if c.Kind == KindPinned {
			pinned++
			assert.True(t, m.TimingAt(c.X, c.Y), "(%d,%d)", c.X, c.Y)
		}
	}
	assert.Greater(t, pinned, 0)
}

func TestBuildPinsAlignmentCells(t *testing.T) {
	t.Parallel()

	// Version 5 symbol: alignment pattern centered at (30,30).
	bits := make([][]bool, 37)
	for i := range bits {
		bits[i] = make([]bool, 37)
	}
	for _, c := range [][2]int{{30, 30}, {28, 28}, {32, 32}, {29, 31}} {
		bits[c[1]][c[0]] = true
	}
	m, err := qrmatrix.FromBitmap(bits, qrmatrix.LevelHigh)
	require.NoError(t, err)

	cfg := defaultConfig(t)
	cfg.ModuleShape = style.ModuleStar
	plan, err := Build(m, cfg)
	require.NoError(t, err)

	for _, c := range plan.Cells {
		if !m.At(c.X, c.Y) || c.Reserved {
			continue
		}
		if m.AlignmentAt(c.X, c.Y) {
			assert.Equal(t, KindPinned, c.Kind, "(%d,%d)", c.X, c.Y)
		}
	}
	// The corner alignment cell keeps its square rendition.
	idx := 32*37 + 32
	require.Equal(t, 32, plan.Cells[idx].X)
	require.Equal(t, 32, plan.Cells[idx].Y)
	assert.Equal(t, KindPinned, plan.Cells[idx].Kind)
}

func TestBuildIdempotent(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelQuartile)
	cfg, err := style.Resolve(style.Options{Preset: "ocean", ModuleShape: "star"})
	require.NoError(t, err)

	a, err := Build(m, cfg)
	require.NoError(t, err)
	b, err := Build(m, cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildGradientBoundaries(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelMedium)
	from := color.RGBA{R: 0xFF, A: 0xFF}
	to := color.RGBA{B: 0xFF, A: 0xFF}
	cfg := defaultConfig(t)
	cfg.Mask = colormask.Linear{
		Start: colormask.Point{X: 0, Y: 0},
		End:   colormask.Point{X: 1, Y: 1},
		From:  from, To: to,
		BG: color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
	}

	plan, err := Build(m, cfg)
	require.NoError(t, err)

	// Colors vary along the diagonal and every fill is a blend of the two
	// endpoints.
	colors := make(map[color.RGBA]bool)
	for _, c := range plan.Cells {
		if c.Kind == KindBackground || c.Reserved {
			continue
		}
		colors[c.Fill] = true
		assert.Zero(t, c.Fill.G, "(%d,%d)", c.X, c.Y)
		assert.Equal(t, uint8(0xFF), c.Fill.A)
	}
	assert.Greater(t, len(colors), 5)
}

func TestBuildEyeColorOverride(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelMedium)
	cfg := defaultConfig(t)
	eye := color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF}
	cfg.EyeColor = &eye
	cfg.EyeFrame = style.EyeCircle
	cfg.Eyeball = style.EyeDiamond

	plan, err := Build(m, cfg)
	require.NoError(t, err)

	origins := m.FinderOrigins()
	for i, e := range plan.Eyes {
		assert.Equal(t, origins[i][0], e.OriginX)
		assert.Equal(t, origins[i][1], e.OriginY)
		assert.Equal(t, eye, e.FrameColor)
		assert.Equal(t, eye, e.BallColor)
		assert.Equal(t, style.EyeCircle, e.FrameShape)
		assert.Equal(t, style.EyeDiamond, e.BallShape)
	}
}

func TestBuildLogoExclusion(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelHigh)
	cfg := defaultConfig(t)
	cfg.Logo = &style.Logo{Image: []byte("img"), RelativeSize: 0.20, Shape: style.LogoSquare}

	plan, err := Build(m, cfg)
	require.NoError(t, err)
	require.Len(t, plan.Overlays, 1)

	var excluded int
	for _, c := range plan.Cells {
		if c.LogoExcluded {
			excluded++
			assert.Equal(t, KindBackground, c.Kind)
			assert.False(t, c.Reserved)
		}
	}
	assert.Greater(t, excluded, 0)

	// Excluded cells form a block around the center.
	mid := m.Size() / 2
	for _, c := range plan.Cells {
		if c.X == mid && c.Y == mid {
			assert.True(t, c.LogoExcluded)
		}
	}
}

func TestBuildLogoBudgetEnforced(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, qrmatrix.LevelHigh)
	cfg := defaultConfig(t)
	cfg.Logo = &style.Logo{Image: []byte("img"), RelativeSize: 0.40}

	_, err := Build(m, cfg)
	var tle *logo.TooLargeError
	require.ErrorAs(t, err, &tle)

	cfg.Logo.RelativeSize = 0.10
	_, err = Build(m, cfg)
	assert.NoError(t, err)
}

func TestBuildRejectsRingOverFinder(t *testing.T) {
	t.Parallel()

	bits := make([][]bool, 21)
	for i := range bits {
		bits[i] = make([]bool, 21)
	}
	m, err := qrmatrix.FromBitmap(bits, qrmatrix.LevelHigh)
	require.NoError(t, err)

	cfg := defaultConfig(t)
	cfg.Margin = 0
	// Eight small overlays on a wide ring: one lands diagonally on the
	// top-right finder of a 21-module matrix.
	imgs := make([][]byte, 8)
	for i := range imgs {
		imgs[i] = []byte{byte(i)}
	}
	cfg.Logo = &style.Logo{
		RelativeSize: 0.07,
		Ring:         &style.Ring{Images: imgs, Radius: 0.45},
	}

	_, err = Build(m, cfg)
	var oe *logo.ObstructionError
	require.ErrorAs(t, err, &oe)
	assert.Contains(t, oe.Reason, "finder")
	assert.NotContains(t, err.Error(), "ring")
}

func TestCanvasSize(t *testing.T) {
	t.Parallel()

	p := &Plan{Size: 25, Margin: 4, ModuleScale: 10}
	assert.Equal(t, 330, p.CanvasSize())
}
