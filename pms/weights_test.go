package pms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func testImageGradient(rows, cols, channels int) *Image {
	im := NewImage(rows, cols, channels)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px := im.At(y, x)
			for ch := 0; ch < channels; ch++ {
				px[ch] = uint8((x*7 + y*13 + ch*31) % 256)
			}
		}
	}
	return im
}

func TestPrecomputeWeights_CenterIsOne(t *testing.T) {
	im := testImageGradient(12, 14, 3)
	w := precomputeWeights(im, 3, 10, 25)

	patchW := 7
	for _, pt := range [][2]int{{5, 6}, {3, 3}, {8, 10}} {
		table := w.table(pt[0], pt[1])
		require.Equal(t, float32(1), table[3*patchW+3], "center sample has zero color and zero spatial distance")
	}
}

func TestPrecomputeWeights_PositiveInsideZeroOutside(t *testing.T) {
	im := testImageGradient(10, 10, 3)
	w := precomputeWeights(im, 3, 10, 25)
	patchW := 7

	// Fully interior center: every window sample lands in the image.
	table := w.table(5, 5)
	for i, v := range table {
		require.Greater(t, v, float32(0), "interior window index %d", i)
		require.LessOrEqual(t, v, float32(1))
	}

	// Corner center: samples above and left of the image stay zero.
	table = w.table(0, 0)
	for wy := 0; wy < patchW; wy++ {
		for wx := 0; wx < patchW; wx++ {
			v := table[wy*patchW+wx]
			if wy < 3 || wx < 3 {
				require.Equal(t, float32(0), v, "window (%d,%d) is outside the image", wy, wx)
			} else {
				require.Greater(t, v, float32(0))
			}
		}
	}
}

func TestPrecomputeWeights_ProximityFalloff(t *testing.T) {
	// On a constant image the color term is 1 everywhere, so weights must
	// decay with spatial distance alone.
	im := NewImage(9, 9, 3)
	for i := range im.Pix {
		im.Pix[i] = 100
	}
	w := precomputeWeights(im, 3, 10, 25)
	patchW := 7

	table := w.table(4, 4)
	center := table[3*patchW+3]
	near := table[3*patchW+4]
	far := table[0*patchW+0]
	require.Equal(t, float32(1), center)
	require.Greater(t, near, far)
	require.Greater(t, far, float32(0))
}

func TestWeightTables_CheckFinite(t *testing.T) {
	im := testImageGradient(8, 8, 3)
	w := precomputeWeights(im, 2, 10, 25)
	require.NoError(t, w.checkFinite())

	w.w[17] = float32(math.NaN())
	err := w.checkFinite()
	require.Error(t, err)
	require.Equal(t, ErrNonFinite, ErrorCodeOf(err))
}
