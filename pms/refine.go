package pms

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// refinePlanes polishes each pixel's plane coefficients with a
// Nelder-Mead descent on the matching cost, keeping the result only on
// strict improvement. Runs in general (slanted) mode only: fronto-parallel
// candidates are integer constants the discrete search already
// enumerates.
func (s *solver) refinePlanes(v *viewData) {
	if s.cfg.FrontoParallelOnly {
		return
	}

	f := v.field
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			i := y*s.cols + x

			problem := optimize.Problem{
				Func: func(abc []float64) float64 {
					p := Plane{A: float32(abc[0]), B: float32(abc[1]), C: float32(abc[2])}
					return float64(s.planeCost(v, y, x, p))
				},
			}

			cur := f.planes[i]
			x0 := []float64{float64(cur.A), float64(cur.B), float64(cur.C)}
			result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
			if err != nil || result == nil {
				continue
			}

			a := float32(result.X[0])
			b := float32(result.X[1])
			c := float32(result.X[2])

			// Recover the geometric form: the surface normal of
			// d = a*x + b*y + c is proportional to (-a, -b, 1).
			norm := float32(math.Sqrt(float64(a*a + b*b + 1)))
			p := planeFromNormal(-a/norm, -b/norm, 1/norm, y, x, a*float32(x)+b*float32(y)+c)

			cost := s.planeCost(v, y, x, p)
			if cost < f.bestCost[i] {
				s.improve++
				f.planes[i] = p
				f.bestCost[i] = cost
			}
		}
	}
}
