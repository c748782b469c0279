package pms

import (
	"math"
	"math/rand"
)

// planeNZEps is the smallest admissible |nz|; flatter normals are clamped
// to keep the affine coefficients finite.
const planeNZEps = 0.001

// Plane is a per-pixel disparity plane held in both of its forms: the
// affine coefficients (A, B, C) with d(y, x) = A*x + B*y + C, and the unit
// normal (Nx, Ny, Nz) it was constructed from. Both are used in hot loops,
// so neither is derived lazily.
type Plane struct {
	A, B, C    float32
	Nx, Ny, Nz float32
}

// planeFromNormal builds a plane from a normal anchored at pixel (y, x)
// with disparity z. |nz| is clamped to planeNZEps preserving sign.
func planeFromNormal(nx, ny, nz float32, y, x int, z float32) Plane {
	if nz < planeNZEps && nz > -planeNZEps {
		if nz > 0 {
			nz = planeNZEps
		} else {
			nz = -planeNZEps
		}
	}
	return Plane{
		A:  -nx / nz,
		B:  -ny / nz,
		C:  (nx*float32(x) + ny*float32(y) + nz*z) / nz,
		Nx: nx,
		Ny: ny,
		Nz: nz,
	}
}

// DisparityAt evaluates the plane at pixel (y, x).
func (p Plane) DisparityAt(y, x int) float32 {
	return p.A*float32(x) + p.B*float32(y) + p.C
}

// reparametrize projects the plane into the other view. The projected
// anchor is qx = x + sign*d(y, x) on the same row; the normal carries over
// unchanged.
func (p Plane) reparametrize(y, x, sign int) (q Plane, qy, qx int) {
	z := p.DisparityAt(y, x)
	qx = int(float32(x) + float32(sign)*z)
	qy = y
	return planeFromNormal(p.Nx, p.Ny, p.Nz, qy, qx, z), qy, qx
}

// randomSearch draws a perturbed candidate around the plane at (y, x):
// the disparity moves by up to ±radiusZ (clamped to [0, dmax]) and each
// normal component by up to ±radiusN, with the perturbed normal
// renormalized (norm floored at 0.01). In fronto-parallel mode the normal
// snaps back to (0,0,1) and the disparity rounds to an integer.
func (p Plane) randomSearch(rng *rand.Rand, y, x int, radiusZ, radiusN float32, dmax int, fronto bool) Plane {
	nx := p.Nx + radiusN*signedUnit(rng)
	ny := p.Ny + radiusN*signedUnit(rng)
	nz := p.Nz + radiusN*signedUnit(rng)

	z := p.DisparityAt(y, x) + radiusZ*signedUnit(rng)
	if z < 0 {
		z = 0
	}
	if z > float32(dmax) {
		z = float32(dmax)
	}

	if fronto {
		z = float32(int(z + 0.5))
		return planeFromNormal(0, 0, 1, y, x, z)
	}

	norm := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if norm < 0.01 {
		norm = 0.01
	}
	return planeFromNormal(nx/norm, ny/norm, nz/norm, y, x, z)
}

// randomPlane draws an initialization plane for pixel (y, x): uniform
// disparity over the admissible range and, in general mode, a normal
// uniform in the signed unit cube then normalized.
func randomPlane(rng *rand.Rand, y, x, ndisps int, fronto bool) Plane {
	if fronto {
		z := float32(rng.Intn(ndisps))
		return planeFromNormal(0, 0, 1, y, x, z)
	}

	z := float32(ndisps-1) * float32(rng.Float64())
	nx := signedUnit(rng)
	ny := signedUnit(rng)
	nz := signedUnit(rng)
	norm := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if norm < 0.01 {
		norm = 0.01
	}
	return planeFromNormal(nx/norm, ny/norm, nz/norm, y, x, z)
}

// signedUnit draws uniformly from [-1, 1].
func signedUnit(rng *rand.Rand) float32 {
	return float32(2*rng.Float64() - 1)
}
