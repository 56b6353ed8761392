// Package rectify crops quadrilateral text regions into axis-aligned
// strips using a perspective warp.
package rectify

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/MeKo-Tech/textflow/internal/utils"
)

// Homography is a row-major 3x3 projective transform.
type Homography [9]float64

// ErrSingularTransform is returned when no projective transform exists
// for the given point correspondence.
var ErrSingularTransform = errors.New("rectify: singular perspective transform")

// residualTol bounds the accepted residual of the 8-unknown solve
// before falling back to the full 9-parameter formulation.
const residualTol = 1e-8

// PerspectiveTransform computes the homography mapping src[i] to
// dst[i]. It first solves the 8-unknown system with the bottom-right
// coefficient fixed at 1; if that solution's residual is too large it
// falls back to the smallest singular vector of the full 9-parameter
// normal matrix.
func PerspectiveTransform(src, dst [4]utils.Point) (Homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		r := 2 * i

		a.Set(r, 0, x)
		a.Set(r, 1, y)
		a.Set(r, 2, 1)
		a.Set(r, 6, -u*x)
		a.Set(r, 7, -u*y)
		b.SetVec(r, u)

		a.Set(r+1, 3, x)
		a.Set(r+1, 4, y)
		a.Set(r+1, 5, 1)
		a.Set(r+1, 6, -v*x)
		a.Set(r+1, 7, -v*y)
		b.SetVec(r+1, v)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err == nil {
		var resid mat.VecDense
		resid.MulVec(a, &sol)
		resid.SubVec(&resid, b)
		if mat.Norm(&resid, 2) < residualTol {
			return Homography{
				sol.AtVec(0), sol.AtVec(1), sol.AtVec(2),
				sol.AtVec(3), sol.AtVec(4), sol.AtVec(5),
				sol.AtVec(6), sol.AtVec(7), 1,
			}, nil
		}
	}

	return fullSolve(src, dst)
}

// fullSolve treats all 9 homography parameters as unknowns and takes
// the singular vector of AᵀA with the smallest singular value.
func fullSolve(src, dst [4]utils.Point) (Homography, error) {
	a9 := mat.NewDense(8, 9, nil)
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		r := 2 * i

		a9.Set(r, 0, x)
		a9.Set(r, 1, y)
		a9.Set(r, 2, 1)
		a9.Set(r, 6, -u*x)
		a9.Set(r, 7, -u*y)
		a9.Set(r, 8, -u)

		a9.Set(r+1, 3, x)
		a9.Set(r+1, 4, y)
		a9.Set(r+1, 5, 1)
		a9.Set(r+1, 6, -v*x)
		a9.Set(r+1, 7, -v*y)
		a9.Set(r+1, 8, -v)
	}

	var ata mat.Dense
	ata.Mul(a9.T(), a9)

	var svd mat.SVD
	if !svd.Factorize(&ata, mat.SVDFull) {
		return Homography{}, ErrSingularTransform
	}
	var u mat.Dense
	svd.UTo(&u)

	var h Homography
	for i := 0; i < 9; i++ {
		h[i] = u.At(i, 8)
	}
	return h, nil
}

// Apply maps a point through the transform in homogeneous coordinates.
func (h Homography) Apply(x, y float64) (float64, float64) {
	w := h[6]*x + h[7]*y + h[8]
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w
}

// Invert returns the inverse transform via the adjugate.
func (h Homography) Invert() (Homography, error) {
	det := h[0]*(h[4]*h[8]-h[5]*h[7]) -
		h[1]*(h[3]*h[8]-h[5]*h[6]) +
		h[2]*(h[3]*h[7]-h[4]*h[6])
	if det == 0 {
		return Homography{}, ErrSingularTransform
	}

	inv := Homography{
		h[4]*h[8] - h[5]*h[7],
		h[2]*h[7] - h[1]*h[8],
		h[1]*h[5] - h[2]*h[4],
		h[5]*h[6] - h[3]*h[8],
		h[0]*h[8] - h[2]*h[6],
		h[2]*h[3] - h[0]*h[5],
		h[3]*h[7] - h[4]*h[6],
		h[1]*h[6] - h[0]*h[7],
		h[0]*h[4] - h[1]*h[3],
	}
	for i := range inv {
		inv[i] /= det
	}
	return inv, nil
}
