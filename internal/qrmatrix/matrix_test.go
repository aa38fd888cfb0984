package qrmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"L", LevelLow}, {"l", LevelLow},
		{"M", LevelMedium}, {"", LevelMedium},
		{"Q", LevelQuartile}, {"q", LevelQuartile},
		{"H", LevelHigh}, {"h", LevelHigh},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("x")
	assert.Error(t, err)
}

func TestRecoverableFraction(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.07, LevelLow.RecoverableFraction(), 1e-9)
	assert.InDelta(t, 0.15, LevelMedium.RecoverableFraction(), 1e-9)
	assert.InDelta(t, 0.25, LevelQuartile.RecoverableFraction(), 1e-9)
	assert.InDelta(t, 0.30, LevelHigh.RecoverableFraction(), 1e-9)
}

func TestFromPayload(t *testing.T) {
	t.Parallel()

	m, err := FromPayload("https://example.com", LevelMedium)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, m.Size(), MinSize)
	assert.Equal(t, 1, m.Size()%2, "symbol side must be odd")
	assert.Equal(t, LevelMedium, m.Level())
}

func TestFromPayloadAllLevels(t *testing.T) {
	t.Parallel()

	for _, level := range []Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh} {
		m, err := FromPayload("https://example.com", level)
		require.NoError(t, err, level)
		assert.Equal(t, level, m.Level(), level)
		assert.GreaterOrEqual(t, m.Size(), MinSize, level)
	}
}

func TestFromPayloadEmpty(t *testing.T) {
	t.Parallel()

	_, err := FromPayload("", LevelLow)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestHigherLevelNeverShrinksSymbol(t *testing.T) {
	t.Parallel()

	low, err := FromPayload("https://example.com/some/longer/path", LevelLow)
	require.NoError(t, err)
	high, err := FromPayload("https://example.com/some/longer/path", LevelHigh)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, high.Size(), low.Size())
}

func TestFromBitmapValidation(t *testing.T) {
	t.Parallel()

	_, err := FromBitmap(make([][]bool, 20), LevelLow)
	assert.Error(t, err)

	ragged := make([][]bool, 21)
	for i := range ragged {
		ragged[i] = make([]bool, 21)
	}
	ragged[3] = make([]bool, 19)
	_, err = FromBitmap(ragged, LevelLow)
	assert.Error(t, err)

	ok := make([][]bool, 21)
	for i := range ok {
		ok[i] = make([]bool, 21)
	}
	ok[10][10] = true
	m, err := FromBitmap(ok, LevelQuartile)
	require.NoError(t, err)
	assert.True(t, m.At(10, 10))
	assert.False(t, m.At(0, 8))
}

func TestFinderRegions(t *testing.T) {
	t.Parallel()

	m, err := FromPayload("finder test", LevelMedium)
	require.NoError(t, err)
	size := m.Size()

	origins := m.FinderOrigins()
	assert.Equal(t, [2]int{0, 0}, origins[0])
	assert.Equal(t, [2]int{size - FinderSpan(), 0}, origins[1])
	assert.Equal(t, [2]int{0, size - FinderSpan()}, origins[2])

	// Corners belong to finders, the fourth corner does not.
	assert.True(t, m.FinderAt(0, 0))
	assert.True(t, m.FinderAt(size-1, 0))
	assert.True(t, m.FinderAt(0, size-1))
	assert.False(t, m.FinderAt(size-1, size-1))

	// Finder regions span exactly 3×49 cells.
	var count int
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if m.FinderAt(x, y) {
				count++
			}
		}
	}
	assert.Equal(t, 3*FinderSpan()*FinderSpan(), count)
}

func TestTimingTrack(t *testing.T) {
	t.Parallel()

	m, err := FromPayload("timing test", LevelLow)
	require.NoError(t, err)
	size := m.Size()

	// Timing cells live on row/column 6, strictly between the finders.
	assert.True(t, m.TimingAt(8, 6))
	assert.True(t, m.TimingAt(6, 8))
	assert.False(t, m.TimingAt(0, 6), "inside a finder")
	assert.False(t, m.TimingAt(8, 8))

	// The track alternates starting dark at the finder edge.
	for x := 8; x < size-8; x++ {
		assert.Equal(t, x%2 == 0, m.At(x, 6), "timing cell %d", x)
	}
}

func TestAlignmentRegions(t *testing.T) {
	t.Parallel()

	// Version 1 has no alignment patterns.
	bits := make([][]bool, 21)
	for i := range bits {
		bits[i] = make([]bool, 21)
	}
	v1, err := FromBitmap(bits, LevelLow)
	require.NoError(t, err)
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			assert.False(t, v1.AlignmentAt(x, y), "(%d,%d)", x, y)
		}
	}

	// Version 5 (37 modules) places a single pattern centered at (30,30);
	// the candidates at (6,6), (6,30) and (30,6) collide with finders.
	bits = make([][]bool, 37)
	for i := range bits {
		bits[i] = make([]bool, 37)
	}
	v5, err := FromBitmap(bits, LevelHigh)
	require.NoError(t, err)

	assert.True(t, v5.AlignmentAt(30, 30))
	assert.True(t, v5.AlignmentAt(28, 28))
	assert.True(t, v5.AlignmentAt(32, 32))
	assert.False(t, v5.AlignmentAt(27, 30))
	assert.False(t, v5.AlignmentAt(30, 33))
	assert.False(t, v5.AlignmentAt(6, 30))
	assert.False(t, v5.AlignmentAt(30, 6))
	assert.False(t, v5.AlignmentAt(6, 6))

	var count int
	for y := 0; y < 37; y++ {
		for x := 0; x < 37; x++ {
			if v5.AlignmentAt(x, y) {
				count++
			}
		}
	}
	assert.Equal(t, 25, count)

	// Version 7 (45 modules) keeps the non-colliding (6,22)/(22,6) patterns.
	bits = make([][]bool, 45)
	for i := range bits {
		bits[i] = make([]bool, 45)
	}
	v7, err := FromBitmap(bits, LevelMedium)
	require.NoError(t, err)
	assert.True(t, v7.AlignmentAt(6, 22))
	assert.True(t, v7.AlignmentAt(22, 6))
	assert.True(t, v7.AlignmentAt(22, 22))
	assert.True(t, v7.AlignmentAt(38, 38))
	assert.False(t, v7.AlignmentAt(6, 38))
	assert.False(t, v7.AlignmentAt(38, 6))
	assert.False(t, v7.AlignmentAt(6, 6))
}

func TestReservedCoversStructuralCells(t *testing.T) {
	t.Parallel()

	m, err := FromPayload("reserved", LevelMedium)
	require.NoError(t, err)

	for y := 0; y < m.Size(); y++ {
		for x := 0; x < m.Size(); x++ {
			want := m.FinderAt(x, y) || m.TimingAt(x, y) || m.AlignmentAt(x, y)
			assert.Equal(t, want, m.ReservedAt(x, y), "(%d,%d)", x, y)
		}
	}
}
