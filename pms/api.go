package pms

import "math/rand"

// Run estimates dense disparity maps for a rectified pair. imL/imR are the
// color views, dsiL/dsiR their matching-cost volumes (any non-negative
// builder; see CensusVolume), and dispL/dispR the output maps. With
// PhotometricCost set the volumes may both be nil. All inputs are
// validated before any compute starts; on error the outputs are left
// unspecified. Run holds no state beyond the context's improvement
// counter, and the volumes and images are only read.
func (c *Context) Run(imL, imR *Image, dsiL, dsiR *CostVolume, dispL, dispR *DispMap) error {
	if c == nil {
		return newError(ErrBadParam, "pms: nil context")
	}
	if imL == nil || imR == nil || dispL == nil || dispR == nil {
		return newError(ErrBadParam, "pms: nil argument")
	}
	if imL.Channels != imR.Channels || (imL.Channels != 1 && imL.Channels != 3) {
		return newError(ErrBadParam, "pms: images must share a channel count of 1 or 3")
	}

	rows, cols := imL.Rows, imL.Cols
	if rows <= 0 || cols <= 0 {
		return newError(ErrBadParam, "pms: empty image")
	}
	if imR.Rows != rows || imR.Cols != cols {
		return newError(ErrShapeMismatch, "pms: image sizes disagree")
	}
	if dsiL == nil || dsiR == nil {
		if !c.cfg.PhotometricCost || dsiL != dsiR {
			return newError(ErrBadParam, "pms: nil cost volume")
		}
	} else {
		if dsiL.Rows != rows || dsiL.Cols != cols || dsiR.Rows != rows || dsiR.Cols != cols {
			return newError(ErrShapeMismatch, "pms: volume sizes disagree with images")
		}
		if dsiL.NDisps != c.cfg.NDisps || dsiR.NDisps != c.cfg.NDisps {
			return newError(ErrShapeMismatch, "pms: volume disparity count disagrees with config")
		}
	}
	if dispL.Rows != rows || dispL.Cols != cols || dispR.Rows != rows || dispR.Cols != cols {
		return newError(ErrShapeMismatch, "pms: disparity map sizes disagree with images")
	}
	minDim := rows
	if cols < minDim {
		minDim = cols
	}
	if 2*c.cfg.PatchRadius >= minDim {
		return newError(ErrBadConfig, "pms: patch radius too large for image")
	}

	seed := int64(c.cfg.RNGSeed)
	if seed == 0 {
		seed = rand.Int63()
	}

	s := &solver{
		rows: rows,
		cols: cols,
		cfg:  c.cfg,
		rng:  rand.New(rand.NewSource(seed)),
	}

	wL := precomputeWeights(imL, c.cfg.PatchRadius, c.cfg.GammaColor, c.cfg.GammaProximity)
	wR := precomputeWeights(imR, c.cfg.PatchRadius, c.cfg.GammaColor, c.cfg.GammaProximity)
	if err := wL.checkFinite(); err != nil {
		return err
	}
	if err := wR.checkFinite(); err != nil {
		return err
	}

	left := &viewData{
		field: newPlaneField(rows, cols),
		dsi:   dsiL,
		im:    imL,
		oth:   imR,
		w:     wL,
		sign:  -1,
	}
	right := &viewData{
		field: newPlaneField(rows, cols),
		dsi:   dsiR,
		im:    imR,
		oth:   imL,
		w:     wR,
		sign:  +1,
	}

	s.randomInit(left)
	s.randomInit(right)

	totalPasses := float32(c.cfg.MaxIters * 2)
	for iter := 0; iter < c.cfg.MaxIters; iter++ {
		s.processView(left, right, iter)
		if c.cfg.ProgressCallback != nil {
			c.cfg.ProgressCallback(float32(iter*2+1) / totalPasses)
		}

		s.processView(right, left, iter)
		if c.cfg.ProgressCallback != nil {
			c.cfg.ProgressCallback(float32(iter*2+2) / totalPasses)
		}
	}

	if c.cfg.PlaneRefinement {
		s.refinePlanes(left)
		s.refinePlanes(right)
	}

	s.postProcess(left.field, right.field, wL, wR, dispL, dispR)

	c.improveCount = s.improve
	return nil
}
