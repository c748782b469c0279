package pms

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrossCheck_AgreementWithinOne(t *testing.T) {
	dispL := NewDispMap(1, 6)
	dispR := NewDispMap(1, 6)
	for x := 0; x < 6; x++ {
		dispL.Set(0, x, 2)
		dispR.Set(0, x, 2)
	}
	// One disagreeing right pixel invalidates the left pixels projecting
	// onto it.
	dispR.Set(0, 1, 5)

	validL, validR, err := CrossCheck(dispL, dispR)
	require.NoError(t, err)

	for x := 2; x < 6; x++ {
		if x-2 == 1 {
			require.False(t, validL.At(0, x))
		} else {
			require.True(t, validL.At(0, x), "x=%d", x)
		}
	}
	// Right pixel 1 projects to x=6 which is out of range, clamped to the
	// row width and treated as never valid.
	require.False(t, validR.At(0, 1))
}

func TestCrossCheck_ProjectionAtWidthNeverValidates(t *testing.T) {
	dispL := NewDispMap(1, 4)
	dispR := NewDispMap(1, 4)

	// d = -4 projects x=0 to column 4 == width; inherited clamp keeps the
	// bound inclusive, so the pixel cannot validate.
	dispL.Set(0, 0, -4)
	validL, _, err := CrossCheck(dispL, dispR)
	require.NoError(t, err)
	require.False(t, validL.At(0, 0))
}

func TestCrossCheck_ValidPixelsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	dispL := NewDispMap(5, 20)
	dispR := NewDispMap(5, 20)
	for i := range dispL.Data {
		dispL.Data[i] = float32(rng.Intn(6))
		dispR.Data[i] = float32(rng.Intn(6))
	}

	validL, _, err := CrossCheck(dispL, dispR)
	require.NoError(t, err)

	for y := 0; y < 5; y++ {
		for x := 0; x < 20; x++ {
			if !validL.At(y, x) {
				continue
			}
			d := dispL.At(y, x)
			xr := int(float32(x) - d)
			if xr < 0 {
				xr = 0 // projections past the left edge clamp to column 0
			}
			require.GreaterOrEqual(t, xr, 0)
			require.Less(t, xr, 20)
			diff := d - dispR.At(y, xr)
			require.LessOrEqual(t, float64(diff), 1.0)
			require.GreaterOrEqual(t, float64(diff), -1.0)
		}
	}
}

func TestWeightedMedianFilter_UniformWeights(t *testing.T) {
	cfg, err := ConfigInit(16)
	require.NoError(t, err)
	cfg.PatchRadius = 1
	s := testSolver(3, 3, cfg)

	disp := NewDispMap(3, 3)
	vals := []float32{9, 2, 7, 4, 1, 6, 3, 8, 5}
	copy(disp.Data, vals)

	w := make([]float32, 9)
	for i := range w {
		w[i] = 1
	}
	valid := NewMask(3, 3)
	for i := range valid.Data {
		valid.Data[i] = true
	}

	// Nine samples of weight 1: the half-total crossing is the fifth in
	// ascending order, and the output averages samples four and five.
	s.weightedMedianFilter(1, 1, disp, w, valid, true)
	require.Equal(t, float32(4.5), disp.At(1, 1))
}

func TestWeightedMedianFilter_SkipsInvalidNeighbors(t *testing.T) {
	cfg, err := ConfigInit(16)
	require.NoError(t, err)
	cfg.PatchRadius = 1
	s := testSolver(3, 3, cfg)

	disp := NewDispMap(3, 3)
	for i := range disp.Data {
		disp.Data[i] = 9 // outliers
	}
	disp.Set(0, 0, 2)
	disp.Set(0, 1, 2)
	disp.Set(0, 2, 2)

	valid := NewMask(3, 3)
	valid.Data[0] = true
	valid.Data[1] = true
	valid.Data[2] = true

	w := make([]float32, 9)
	for i := range w {
		w[i] = 1
	}

	// Only the three valid samples participate: median is 2.
	s.weightedMedianFilter(1, 1, disp, w, valid, false)
	require.Equal(t, float32(2), disp.At(1, 1))
}

func TestFillHole_PrefersLowerDisparity(t *testing.T) {
	cfg, err := ConfigInit(16)
	require.NoError(t, err)
	s := testSolver(1, 5, cfg)

	f := newPlaneField(1, 5)
	for x := 0; x < 5; x++ {
		f.planes[x] = planeFromNormal(0, 0, 1, 0, x, float32(x+1))
	}

	valid := NewMask(1, 5)
	valid.Data[0] = true // d = 1
	valid.Data[4] = true // d = 5

	s.fillHole(0, 2, valid, f)
	require.Equal(t, float32(1), f.planes[2].DisparityAt(0, 2), "left neighbor carries the lower disparity")

	// With only a right valid neighbor, it wins regardless of value.
	valid.Data[0] = false
	f.planes[1] = planeFromNormal(0, 0, 1, 0, 1, 2)
	s.fillHole(0, 1, valid, f)
	require.Equal(t, float32(5), f.planes[1].DisparityAt(0, 1))
}

func TestFillHole_NoValidNeighborsLeavesPlane(t *testing.T) {
	cfg, err := ConfigInit(16)
	require.NoError(t, err)
	s := testSolver(1, 3, cfg)

	f := newPlaneField(1, 3)
	for x := 0; x < 3; x++ {
		f.planes[x] = planeFromNormal(0, 0, 1, 0, x, float32(x))
	}
	valid := NewMask(1, 3)

	s.fillHole(0, 1, valid, f)
	require.Equal(t, float32(1), f.planes[1].DisparityAt(0, 1))
}

func TestPostProcess_ValidPixelsAreFixedPoint(t *testing.T) {
	cfg, err := ConfigInit(6)
	require.NoError(t, err)
	cfg.PatchRadius = 2

	im := testImageGradient(14, 18, 3)
	wL := precomputeWeights(im, 2, cfg.GammaColor, cfg.GammaProximity)
	wR := precomputeWeights(im, 2, cfg.GammaColor, cfg.GammaProximity)

	s := &solver{rows: 14, cols: 18, cfg: cfg, rng: rand.New(rand.NewSource(9))}
	fL := newPlaneField(14, 18)
	fR := newPlaneField(14, 18)
	for y := 0; y < 14; y++ {
		for x := 0; x < 18; x++ {
			fL.planes[y*18+x] = randomPlane(s.rng, y, x, 6, true)
			fR.planes[y*18+x] = randomPlane(s.rng, y, x, 6, true)
		}
	}

	d1L, d1R := NewDispMap(14, 18), NewDispMap(14, 18)
	d2L, d2R := NewDispMap(14, 18), NewDispMap(14, 18)
	s.postProcess(fL, fR, wL, wR, d1L, d1R)
	s.postProcess(fL, fR, wL, wR, d2L, d2R)

	v1L, _, err := CrossCheck(d1L, d1R)
	require.NoError(t, err)
	v2L, _, err := CrossCheck(d2L, d2R)
	require.NoError(t, err)

	for i := range d1L.Data {
		if v1L.Data[i] && v2L.Data[i] {
			require.Equal(t, d1L.Data[i], d2L.Data[i])
		}
	}
}
