package logo

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrstudio/qrstudio/internal/qrmatrix"
	"github.com/qrstudio/qrstudio/internal/style"
)

func TestMaxRelativeSizeByLevel(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.1587, MaxRelativeSize(qrmatrix.LevelLow), 1e-3)
	assert.InDelta(t, 0.2324, MaxRelativeSize(qrmatrix.LevelMedium), 1e-3)
	assert.InDelta(t, 0.3000, MaxRelativeSize(qrmatrix.LevelQuartile), 1e-3)
	assert.InDelta(t, 0.3286, MaxRelativeSize(qrmatrix.LevelHigh), 1e-3)
}

func TestPlacementsBudget(t *testing.T) {
	t.Parallel()

	l := &style.Logo{Image: []byte("img"), RelativeSize: 0.40, Shape: style.LogoSquare}
	_, err := Placements(l, qrmatrix.LevelHigh)
	var tle *TooLargeError
	require.ErrorAs(t, err, &tle)
	assert.InDelta(t, 0.40, tle.Requested, 1e-9)
	assert.Equal(t, qrmatrix.LevelHigh, tle.Level)

	for _, rs := range []float64{0.10, 0.20} {
		l.RelativeSize = rs
		ps, err := Placements(l, qrmatrix.LevelHigh)
		require.NoError(t, err, "size %.2f", rs)
		require.Len(t, ps, 1)
		assert.InDelta(t, 0.5, ps[0].CX, 1e-9)
		assert.InDelta(t, 0.5, ps[0].CY, 1e-9)
		assert.InDelta(t, rs, ps[0].Size, 1e-9)
	}

	// The same 0.20 overlay blows the budget at the lowest level.
	l.RelativeSize = 0.20
	_, err = Placements(l, qrmatrix.LevelLow)
	assert.ErrorAs(t, err, &tle)
}

func TestPlacementsNilLogo(t *testing.T) {
	t.Parallel()

	ps, err := Placements(nil, qrmatrix.LevelMedium)
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestRingPlacementGeometry(t *testing.T) {
	t.Parallel()

	imgs := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	l := &style.Logo{
		RelativeSize: 0.10,
		Shape:        style.LogoCircle,
		Ring:         &style.Ring{Images: imgs, Radius: 0.35},
	}
	ps, err := Placements(l, qrmatrix.LevelHigh)
	require.NoError(t, err)
	require.Len(t, ps, 4)

	// First overlay sits at 12 o'clock, then clockwise quarters.
	assert.InDelta(t, 0.5, ps[0].CX, 1e-9)
	assert.InDelta(t, 0.15, ps[0].CY, 1e-9)
	assert.InDelta(t, 0.85, ps[1].CX, 1e-9)
	assert.InDelta(t, 0.5, ps[1].CY, 1e-9)

	for i, p := range ps {
		assert.True(t, p.Circular, "overlay %d", i)
		assert.Equal(t, imgs[i], p.Raw, "overlay %d", i)
	}
}

func TestRingPerOverlayBackdrops(t *testing.T) {
	t.Parallel()

	blue := color.RGBA{B: 0xFF, A: 0xFF}
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	imgs := [][]byte{{1}, {2}, {3}}
	l := &style.Logo{
		RelativeSize: 0.10,
		Backdrop:     &white,
		Ring: &style.Ring{
			Images:    imgs,
			Backdrops: []*color.RGBA{&blue, nil, nil},
			Radius:    0.35,
		},
	}
	ps, err := Placements(l, qrmatrix.LevelHigh)
	require.NoError(t, err)
	require.Len(t, ps, 3)

	require.NotNil(t, ps[0].Backdrop)
	assert.Equal(t, blue, *ps[0].Backdrop)
	// Overlays without their own color fall back to the shared backdrop.
	require.NotNil(t, ps[1].Backdrop)
	assert.Equal(t, white, *ps[1].Backdrop)
	require.NotNil(t, ps[2].Backdrop)
	assert.Equal(t, white, *ps[2].Backdrop)
}

func TestRingRejectsOverlapAndOverflow(t *testing.T) {
	t.Parallel()

	imgs := make([][]byte, 8)
	for i := range imgs {
		imgs[i] = []byte{byte(i)}
	}

	var rle *RingLayoutError
	_, err := Placements(&style.Logo{
		RelativeSize: 0.10,
		Ring:         &style.Ring{Images: imgs, Radius: 0.10},
	}, qrmatrix.LevelHigh)
	require.ErrorAs(t, err, &rle)
	assert.Contains(t, rle.Reason, "overlap")

	_, err = Placements(&style.Logo{
		RelativeSize: 0.10,
		Ring:         &style.Ring{Images: imgs[:2], Radius: 0.48},
	}, qrmatrix.LevelHigh)
	require.ErrorAs(t, err, &rle)
	assert.Contains(t, rle.Reason, "canvas edge")
}

func TestRingAggregateBudget(t *testing.T) {
	t.Parallel()

	// Four 0.18 overlays cover as much as a single 0.36 overlay, which is
	// over the level-H cap even though each icon alone would fit.
	imgs := [][]byte{{1}, {2}, {3}, {4}}
	_, err := Placements(&style.Logo{
		RelativeSize: 0.18,
		Ring:         &style.Ring{Images: imgs, Radius: 0.30},
	}, qrmatrix.LevelHigh)
	var tle *TooLargeError
	require.ErrorAs(t, err, &tle)
	assert.InDelta(t, 0.36, tle.Requested, 1e-9)
}

func TestPlacementContains(t *testing.T) {
	t.Parallel()

	sq := Placement{CX: 0.5, CY: 0.5, Size: 0.2}
	assert.True(t, sq.Contains(0.5, 0.5))
	assert.True(t, sq.Contains(0.41, 0.59))
	assert.False(t, sq.Contains(0.39, 0.5))

	ci := Placement{CX: 0.5, CY: 0.5, Size: 0.2, Circular: true}
	assert.True(t, ci.Contains(0.5, 0.59))
	// Square corner is outside the inscribed circle.
	assert.False(t, ci.Contains(0.41, 0.41))
}

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareRasterSquare(t *testing.T) {
	t.Parallel()

	raw := pngBytes(t, 60, 40, color.RGBA{R: 0xFF, A: 0xFF})
	img, err := Prepare(raw, style.LogoSquare, 32, nil)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 32, b.Dx())
	assert.Equal(t, 32, b.Dy())

	r, _, _, a := img.At(16, 16).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestPrepareCircleClipsCorners(t *testing.T) {
	t.Parallel()

	raw := pngBytes(t, 50, 50, color.RGBA{B: 0xFF, A: 0xFF})
	img, err := Prepare(raw, style.LogoCircle, 40, nil)
	require.NoError(t, err)

	_, _, _, corner := img.At(0, 0).RGBA()
	assert.Zero(t, corner)
	_, _, b, center := img.At(20, 20).RGBA()
	assert.Equal(t, uint32(0xFFFF), b)
	assert.Equal(t, uint32(0xFFFF), center)
}

func TestPrepareBackdropPanel(t *testing.T) {
	t.Parallel()

	raw := pngBytes(t, 20, 20, color.RGBA{G: 0xFF, A: 0xFF})
	panel := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	img, err := Prepare(raw, style.LogoSquare, 48, &panel)
	require.NoError(t, err)

	// Padding band around the logo carries the backdrop color.
	r, g, b, _ := img.At(24, 1).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF), g)
	assert.Equal(t, uint32(0xFFFF), b)
}

func TestPrepareSVG(t *testing.T) {
	t.Parallel()

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10"><rect width="10" height="10" fill="#00FF00"/></svg>`)
	img, err := Prepare(svg, style.LogoSquare, 24, nil)
	require.NoError(t, err)
	assert.Equal(t, 24, img.Bounds().Dx())

	_, g, _, _ := img.At(12, 12).RGBA()
	assert.Equal(t, uint32(0xFFFF), g)
}

func TestPrepareRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Prepare([]byte("definitely not an image"), style.LogoSquare, 24, nil)
	assert.ErrorIs(t, err, ErrBadImage)
}
