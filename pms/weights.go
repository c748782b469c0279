package pms

import (
	"math"
	"runtime"
	"sync"
)

// weightTables holds one adaptive support table per pixel: patchW*patchW
// float32 weights, row-major over the window, zero at positions that fall
// outside the image. Read-only once built.
type weightTables struct {
	rows, cols int
	patchW     int
	w          []float32
}

// table returns the borrowed window table of pixel (y, x).
func (t *weightTables) table(y, x int) []float32 {
	pp := t.patchW * t.patchW
	i := (y*t.cols + x) * pp
	return t.w[i : i+pp : i+pp]
}

// precomputeWeights builds the per-pixel bilateral support tables for one
// view: exp(-L1 color distance / gammaColor) times a shared proximity
// factor exp(-Euclidean pixel distance / gammaProximity). Rows are
// distributed over the available CPUs.
func precomputeWeights(im *Image, radius int, gammaColor, gammaProximity float32) *weightTables {
	patchW := 2*radius + 1
	pp := patchW * patchW
	t := &weightTables{
		rows:   im.Rows,
		cols:   im.Cols,
		patchW: patchW,
		w:      make([]float32, im.Rows*im.Cols*pp),
	}

	// The proximity factor depends only on the window offset.
	prox := make([]float32, pp)
	for y := 0; y < patchW; y++ {
		for x := 0; x < patchW; x++ {
			dy := float64(y - radius)
			dx := float64(x - radius)
			dist := math.Sqrt(dy*dy + dx*dx)
			prox[y*patchW+x] = float32(math.Exp(-dist / float64(gammaProximity)))
		}
	}

	workers := runtime.NumCPU()
	if workers > im.Rows {
		workers = im.Rows
	}
	if workers < 1 {
		workers = 1
	}
	band := (im.Rows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < im.Rows; start += band {
		end := start + band
		if end > im.Rows {
			end = im.Rows
		}
		wg.Add(1)
		go func(yb, ye int) {
			defer wg.Done()
			for yc := yb; yc < ye; yc++ {
				for xc := 0; xc < im.Cols; xc++ {
					w := t.table(yc, xc)
					center := im.At(yc, xc)

					y0, y1 := yc-radius, yc+radius
					if y0 < 0 {
						y0 = 0
					}
					if y1 > im.Rows-1 {
						y1 = im.Rows - 1
					}
					x0, x1 := xc-radius, xc+radius
					if x0 < 0 {
						x0 = 0
					}
					if x1 > im.Cols-1 {
						x1 = im.Cols - 1
					}

					for y := y0; y <= y1; y++ {
						for x := x0; x <= x1; x++ {
							sample := im.At(y, x)
							var dist float32
							for ch := 0; ch < im.Channels; ch++ {
								d := float32(center[ch]) - float32(sample[ch])
								if d < 0 {
									d = -d
								}
								dist += d
							}
							k := (y-yc+radius)*patchW + (x - xc + radius)
							w[k] = float32(math.Exp(float64(-dist/gammaColor))) * prox[k]
						}
					}
				}
			}
		}(start, end)
	}
	wg.Wait()

	return t
}

// checkFinite scans the tables for NaNs introduced by pathological inputs.
func (t *weightTables) checkFinite() error {
	for _, v := range t.w {
		if v != v {
			return newError(ErrNonFinite, "pms: NaN in support weights")
		}
	}
	return nil
}
