package pms

import "sort"

// Mask is a per-pixel boolean raster, true where the cross-check passed.
type Mask struct {
	Rows int
	Cols int
	Data []bool
}

// NewMask allocates an all-false rows x cols mask.
func NewMask(rows, cols int) *Mask {
	return &Mask{Rows: rows, Cols: cols, Data: make([]bool, rows*cols)}
}

// At returns the validity of pixel (y, x).
func (m *Mask) At(y, x int) bool { return m.Data[y*m.Cols+x] }

// materialize writes each pixel's own plane evaluated at its own
// coordinate into disp.
func (s *solver) materialize(f *planeField, disp *DispMap) {
	for y := 0; y < s.rows; y++ {
		row := disp.Row(y)
		for x := 0; x < s.cols; x++ {
			row[x] = f.planes[y*s.cols+x].DisparityAt(y, x)
		}
	}
}

// CrossCheck marks each pixel valid iff both views agree on its disparity
// within one pixel. The projected column clamps to [0, Cols] inclusive,
// mirroring upstream; a projection landing at Cols has no sample to agree
// with and never validates.
func CrossCheck(dispL, dispR *DispMap) (validL, validR *Mask, err error) {
	if dispL == nil || dispR == nil {
		return nil, nil, newError(ErrBadParam, "pms: nil disparity map")
	}
	if dispL.Rows != dispR.Rows || dispL.Cols != dispR.Cols {
		return nil, nil, newError(ErrShapeMismatch, "pms: disparity map sizes disagree")
	}

	rows, cols := dispL.Rows, dispL.Cols
	validL = NewMask(rows, cols)
	validR = NewMask(rows, cols)

	clampProj := func(v float32) int {
		if v < 0 {
			v = 0
		}
		if v > float32(cols) {
			v = float32(cols)
		}
		return int(v)
	}

	for y := 0; y < rows; y++ {
		rowL := dispL.Row(y)
		rowR := dispR.Row(y)
		for x := 0; x < cols; x++ {
			xR := clampProj(float32(x) - rowL[x])
			if xR < cols {
				diff := rowL[x] - rowR[xR]
				validL.Data[y*cols+x] = -1 <= diff && diff <= 1
			}

			xL := clampProj(float32(x) + rowR[x])
			if xL < cols {
				diff := rowR[x] - rowL[xL]
				validR.Data[y*cols+x] = -1 <= diff && diff <= 1
			}
		}
	}
	return validL, validR, nil
}

// fillHole replaces the plane of invalid pixel (y, x) with that of the
// nearest valid pixel to its left or right on the same row, preferring
// the one whose disparity at (y, x) is lower (ties to the left). With no
// valid neighbor on either side the plane is left alone.
func (s *solver) fillHole(y, x int, valid *Mask, f *planeField) {
	xL, xR := x-1, x+1
	for xL >= 0 && !valid.At(y, xL) {
		xL--
	}
	for xR < s.cols && !valid.At(y, xR) {
		xR++
	}

	best := x
	if xL >= 0 {
		best = xL
	}
	if xR < s.cols {
		if best == xL {
			dL := f.planes[y*s.cols+xL].DisparityAt(y, x)
			dR := f.planes[y*s.cols+xR].DisparityAt(y, x)
			if dR < dL {
				best = xR
			}
		} else {
			best = xR
		}
	}
	f.planes[y*s.cols+x] = f.planes[y*s.cols+best]
}

type dispWeight struct {
	d, w float32
}

// weightedMedianFilter rewrites disp at invalid pixel (yc, xc) with the
// weighted median of the disparities in its support window. Pairs sort by
// disparity then weight; the output is the midpoint of the two samples
// around the half-total-weight crossing.
func (s *solver) weightedMedianFilter(yc, xc int, disp *DispMap, w []float32, valid *Mask, useInvalid bool) {
	r := s.cfg.PatchRadius
	patchW := 2*r + 1

	y0, y1 := yc-r, yc+r
	if y0 < 0 {
		y0 = 0
	}
	if y1 > s.rows-1 {
		y1 = s.rows - 1
	}
	x0, x1 := xc-r, xc+r
	if x0 < 0 {
		x0 = 0
	}
	if x1 > s.cols-1 {
		x1 = s.cols - 1
	}

	pairs := make([]dispWeight, 0, patchW*patchW)
	for y := y0; y <= y1; y++ {
		row := disp.Row(y)
		for x := x0; x <= x1; x++ {
			if useInvalid || valid.At(y, x) {
				pairs = append(pairs, dispWeight{
					d: row[x],
					w: w[(y-yc+r)*patchW+(x-xc+r)],
				})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].d != pairs[j].d {
			return pairs[i].d < pairs[j].d
		}
		return pairs[i].w < pairs[j].w
	})

	var wsum float32
	for _, p := range pairs {
		wsum += p.w
	}

	var acc float32
	for i, p := range pairs {
		acc += p.w
		if acc >= wsum/2 {
			if i > 0 {
				disp.Set(yc, xc, (pairs[i-1].d+p.d)/2)
			} else {
				disp.Set(yc, xc, p.d)
			}
			break
		}
	}
}

// postProcess materializes both disparity maps and, when enabled,
// cross-checks them and repairs invalid pixels by weighted median
// filtering (optionally after scanline hole filling of the plane fields).
func (s *solver) postProcess(fL, fR *planeField, wL, wR *weightTables, dispL, dispR *DispMap) {
	s.materialize(fL, dispL)
	s.materialize(fR, dispR)
	if !s.cfg.PostProcessing {
		return
	}

	if s.cfg.HoleFilling {
		validL, validR, _ := CrossCheck(dispL, dispR)
		for y := 0; y < s.rows; y++ {
			for x := 0; x < s.cols; x++ {
				if !validL.At(y, x) {
					s.fillHole(y, x, validL, fL)
				}
				if !validR.At(y, x) {
					s.fillHole(y, x, validR, fR)
				}
			}
		}
	}

	for round := 0; round < s.cfg.MedianRounds; round++ {
		s.materialize(fL, dispL)
		s.materialize(fR, dispR)
		validL, validR, _ := CrossCheck(dispL, dispR)

		useInvalid := true
		if round+1 == s.cfg.MedianRounds && !s.cfg.UseInvalidOnLastRound {
			useInvalid = false
		}

		for y := 0; y < s.rows; y++ {
			for x := 0; x < s.cols; x++ {
				if !validL.At(y, x) {
					s.weightedMedianFilter(y, x, dispL, wL.table(y, x), validL, useInvalid)
				}
				if !validR.At(y, x) {
					s.weightedMedianFilter(y, x, dispR, wR.table(y, x), validR, useInvalid)
				}
			}
		}
	}
}
