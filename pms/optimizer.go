package pms

import "math/rand"

// solver carries the per-run state shared by the optimizer stages: image
// shape, validated config, the seeded sampler and the improvement counter.
type solver struct {
	rows, cols int
	cfg        Config
	rng        *rand.Rand
	improve    int
}

// planeField is one view's per-pixel plane hypotheses plus the running
// best cost of each. bestCost[i] always equals the matching cost of
// planes[i] at its own pixel, except transiently after a view-propagation
// write from the other view's pass.
type planeField struct {
	planes   []Plane
	bestCost []float32
}

func newPlaneField(rows, cols int) *planeField {
	return &planeField{
		planes:   make([]Plane, rows*cols),
		bestCost: make([]float32, rows*cols),
	}
}

// viewData bundles everything the optimizer reads or mutates for one
// view: the plane field, the view's cost volume, the raw images (current
// first), the support weights, and the view sign used to project into the
// other view.
type viewData struct {
	field *planeField
	dsi   *CostVolume
	im    *Image
	oth   *Image
	w     *weightTables
	sign  int
}

// planeCost evaluates a candidate plane at (yc, xc) under the configured
// functional: volume-indexed by default, photometric against the other
// view when PhotometricCost is set.
func (s *solver) planeCost(v *viewData, yc, xc int, p Plane) float32 {
	w := v.w.table(yc, xc)
	if s.cfg.PhotometricCost {
		return s.planeCostImage(yc, xc, p, v.im, v.oth, w, v.sign)
	}
	return s.planeCostVolume(yc, xc, p, v.dsi, w)
}

// randomInit draws an independent plane per pixel (uniform disparity;
// uniform normalized normal in general mode) and seeds the best costs.
func (s *solver) randomInit(v *viewData) {
	f := v.field
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			f.planes[y*s.cols+x] = randomPlane(s.rng, y, x, s.cfg.NDisps, s.cfg.FrontoParallelOnly)
		}
	}
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			i := y*s.cols + x
			f.bestCost[i] = s.planeCost(v, y, x, f.planes[i])
		}
	}
}

// improveGuess re-evaluates pixel (y, x) under a candidate plane and keeps
// the candidate on strict improvement.
func (s *solver) improveGuess(y, x int, v *viewData, try Plane) {
	i := y*s.cols + x
	cost := s.planeCost(v, y, x, try)
	if cost < v.field.bestCost[i] {
		s.improve++
		v.field.bestCost[i] = cost
		v.field.planes[i] = try
	}
}

// processView runs one optimizer pass over the current view: for every
// pixel in scan order, spatial propagation from the four neighbors, a
// halving-radius random search, and propagation of the reparametrized
// plane into the other view. Even iterations sweep top-left to
// bottom-right; odd iterations sweep the reverse. The neighbor set is the
// fixed 4-connected one; diagonal flow emerges from the alternating scan
// direction across iterations.
func (s *solver) processView(cur, oth *viewData, iter int) {
	ystart, yend, ystep := 0, s.rows, 1
	xstart, xend, xstep := 0, s.cols, 1
	if iter%2 != 0 {
		ystart, yend, ystep = s.rows-1, -1, -1
		xstart, xend, xstep = s.cols-1, -1, -1
	}

	dy := [4]int{0, -1, 0, +1}
	dx := [4]int{-1, 0, +1, 0}
	dmax := s.cfg.NDisps - 1
	f := cur.field

	for y := ystart; y != yend; y += ystep {
		for x := xstart; x != xend; x += xstep {
			i := y*s.cols + x

			// Spatial propagation.
			for dir := 0; dir < 4; dir++ {
				qy := y + dy[dir]
				qx := x + dx[dir]
				if 0 <= qy && qy < s.rows && 0 <= qx && qx < s.cols {
					s.improveGuess(y, x, cur, f.planes[qy*s.cols+qx])
				}
			}

			// Random search with halving radii.
			radiusZ := float32(s.cfg.NDisps) / 2
			radiusN := float32(1)
			for radiusZ >= 0.1 {
				try := f.planes[i].randomSearch(s.rng, y, x, radiusZ, radiusN, dmax, s.cfg.FrontoParallelOnly)
				s.improveGuess(y, x, cur, try)
				radiusZ /= 2
				radiusN /= 2
			}

			// View propagation.
			try, qy, qx := f.planes[i].reparametrize(y, x, cur.sign)
			if 0 <= qx && qx < s.cols {
				s.improveGuess(qy, qx, oth, try)
			}
		}
	}
}
