package pms

// planeCostVolume aggregates the volume cost of a candidate plane over the
// support window centered at (yc, xc). Window samples outside the image
// contribute nothing; in-bounds samples whose plane disparity rounds
// outside [0, dmax] contribute the bad-plane penalty unweighted.
func (s *solver) planeCostVolume(yc, xc int, p Plane, dsi *CostVolume, w []float32) float32 {
	r := s.cfg.PatchRadius
	patchW := 2*r + 1
	dmax := s.cfg.NDisps - 1

	var cost float32
	for y := yc - r; y <= yc+r; y++ {
		if y < 0 || y >= s.rows {
			continue
		}
		for x := xc - r; x <= xc+r; x++ {
			if x < 0 || x >= s.cols {
				continue
			}
			d := int(p.A*float32(x) + p.B*float32(y) + p.C + 0.5)
			if d < 0 || d > dmax {
				cost += s.cfg.BadPlanePenalty
			} else {
				cost += w[(y-yc+r)*patchW+(x-xc+r)] * dsi.At(y, x)[d]
			}
		}
	}
	return cost
}

// planeCostImage aggregates a photometric plane cost directly against the
// other view: each window sample projects by its real-valued plane
// disparity and compares L1 color against two horizontal taps of the other
// image. The tap weights wL = xR - x', wR = 1 - wL mirror upstream even
// though they swap the natural left/right reading; both stay in [0, 1].
func (s *solver) planeCostImage(yc, xc int, p Plane, im, oth *Image, w []float32, sign int) float32 {
	r := s.cfg.PatchRadius
	patchW := 2*r + 1
	dmax := s.cfg.NDisps - 1

	var cost float32
	for y := yc - r; y <= yc+r; y++ {
		if y < 0 || y >= s.rows {
			continue
		}
		for x := xc - r; x <= xc+r; x++ {
			if x < 0 || x >= s.cols {
				continue
			}
			d := p.A*float32(x) + p.B*float32(y) + p.C
			if d < 0 || d > float32(dmax) {
				cost += s.cfg.BadPlanePenalty
				continue
			}

			xm := float32(x) + float32(sign)*d
			if xm < 0 {
				xm = 0
			}
			if xm > float32(s.cols-1) {
				xm = float32(s.cols - 1)
			}
			xmL := int(xm)
			xmR := int(xm + 0.5)
			wL := float32(xmR) - xm
			wR := 1 - wL

			pix := im.At(y, x)
			tapL := oth.At(y, xmL)
			tapR := oth.At(y, xmR)
			var costL, costR float32
			for ch := 0; ch < im.Channels; ch++ {
				dl := float32(pix[ch]) - float32(tapL[ch])
				if dl < 0 {
					dl = -dl
				}
				dr := float32(pix[ch]) - float32(tapR[ch])
				if dr < 0 {
					dr = -dr
				}
				costL += dl
				costR += dr
			}

			cost += w[(y-yc+r)*patchW+(x-xc+r)] * (wL*costL + wR*costR)
		}
	}
	return cost
}
