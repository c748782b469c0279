package pms

import "math/bits"

// Census window footprint: 7 rows by 9 columns around the center, 63
// neighbor comparisons packed into a uint64 signature.
const (
	censusVPad = 3
	censusHPad = 4
)

// censusTransform computes per-pixel census signatures of a grayscale
// image: bit i is set iff neighbor i (row-major over the clipped window)
// is strictly brighter than the center. Border pixels clip the window, so
// their signatures use fewer bits.
func censusTransform(im *Image) []uint64 {
	census := make([]uint64, im.Rows*im.Cols)

	for yc := 0; yc < im.Rows; yc++ {
		row := im.Row(yc)
		for xc := 0; xc < im.Cols; xc++ {
			y0, y1 := yc-censusVPad, yc+censusVPad
			if y0 < 0 {
				y0 = 0
			}
			if y1 > im.Rows-1 {
				y1 = im.Rows - 1
			}
			x0, x1 := xc-censusHPad, xc+censusHPad
			if x0 < 0 {
				x0 = 0
			}
			if x1 > im.Cols-1 {
				x1 = im.Cols - 1
			}

			center := row[xc]
			var feature uint64
			idx := 0
			for y := y0; y <= y1; y++ {
				sam := im.Row(y)
				for x := x0; x <= x1; x++ {
					if sam[x] > center {
						feature |= 1 << idx
					}
					idx++
				}
			}
			census[yc*im.Cols+xc] = feature
		}
	}
	return census
}

// CensusVolume builds a disparity-space image from a grayscale pair by
// Hamming distance between census signatures. sign is -1 when im is the
// left view and +1 when it is the right. The horizontal lookup wraps
// around the row, (x + sign*d + W) mod W, mirroring upstream; callers
// wanting clamped borders should build their own volume.
func CensusVolume(im, oth *Image, ndisps, sign int) (*CostVolume, error) {
	if im == nil || oth == nil {
		return nil, newError(ErrBadParam, "pms: nil image")
	}
	if im.Channels != 1 || oth.Channels != 1 {
		return nil, newError(ErrBadParam, "pms: census expects grayscale images")
	}
	if im.Rows != oth.Rows || im.Cols != oth.Cols {
		return nil, newError(ErrShapeMismatch, "pms: census image sizes disagree")
	}
	if ndisps <= 0 {
		return nil, newError(ErrBadConfig, "pms: ndisps must be positive")
	}

	censusL := censusTransform(im)
	censusR := censusTransform(oth)

	dsi := NewCostVolume(im.Rows, im.Cols, ndisps)
	cols := im.Cols
	for y := 0; y < im.Rows; y++ {
		for x := 0; x < cols; x++ {
			cL := censusL[y*cols+x]
			costs := dsi.At(y, x)
			for d := 0; d < ndisps; d++ {
				xm := ((x+sign*d)%cols + cols) % cols
				costs[d] = float32(bits.OnesCount64(cL ^ censusR[y*cols+xm]))
			}
		}
	}
	return dsi, nil
}

// WinnerTakesAll fills disp with the per-pixel argmin disparity of the
// volume, ignoring planes entirely. Useful as a baseline for a volume.
func WinnerTakesAll(dsi *CostVolume, disp *DispMap) error {
	if dsi == nil || disp == nil {
		return newError(ErrBadParam, "pms: nil argument")
	}
	if dsi.Rows != disp.Rows || dsi.Cols != disp.Cols {
		return newError(ErrShapeMismatch, "pms: volume and map sizes disagree")
	}
	for y := 0; y < dsi.Rows; y++ {
		for x := 0; x < dsi.Cols; x++ {
			costs := dsi.At(y, x)
			minIdx := 0
			for k := 1; k < len(costs); k++ {
				if costs[k] < costs[minIdx] {
					minIdx = k
				}
			}
			disp.Set(y, x, float32(minIdx))
		}
	}
	return nil
}
