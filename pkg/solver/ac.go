package solver

import (
	"math"
	"math/cmplx"
	"time"

	"github.com/rs/zerolog"

	"github.com/windyasd/lightsim2grid/pkg/gferr"
	"github.com/windyasd/lightsim2grid/pkg/matrix"
)

// RunAC drives the polar-coordinate Newton-Raphson iteration of spec.md
// §4.5 to convergence, writing the result into state. unknowns are angles
// at pv∪pq and voltage magnitudes at pq.
func RunAC(y *matrix.Y, s []complex128, v0 []complex128, pv, pq []int, slackSolverID, maxIter int, tol float64, state *State, log zerolog.Logger) error {
	k := y.Size()
	if len(v0) != k {
		return gferr.New(gferr.InputSizeMismatch, "V0 length %d != %d solver buses", len(v0), k)
	}

	angIdx := make([]int, 0, len(pv)+len(pq))
	angIdx = append(angIdx, pv...)
	angIdx = append(angIdx, pq...)
	vmagIdx := pq
	n1, n2 := len(angIdx), len(vmagIdx)

	theta := make([]float64, k)
	vmag := make([]float64, k)
	for i, vi := range v0 {
		theta[i] = cmplx.Phase(vi)
		vmag[i] = cmplx.Abs(vi)
	}

	start := time.Now()

	for iter := 0; iter < maxIter; iter++ {
		v := polarToRect(theta, vmag)
		f := mismatchVector(y, s, v, angIdx, vmagIdx)
		normInf := infNorm(f)

		log.Trace().Int("iter", iter).Float64("norm_inf", normInf).Msg("ac newton step")

		if normInf < tol {
			state.V = v
			state.Theta = theta
			state.VMag = vmag
			state.Converged = true
			state.Iterations = iter
			state.Elapsed = time.Since(start)
			log.Info().Int("iterations", iter).Float64("norm_inf", normInf).Msg("ac power flow converged")
			return nil
		}

		jac, err := buildJacobian(y, theta, vmag, angIdx, vmagIdx)
		if err != nil {
			return err
		}
		for idx, value := range f {
			jac.AddRHS(idx+1, -value)
		}

		if state.Jacobian != nil {
			state.Jacobian.Destroy()
		}
		state.Jacobian = jac

		delta, err := jac.Solve()
		if err != nil {
			state.Converged = false
			return gferr.Wrap(gferr.JacobianSingular, err, "iteration %d", iter)
		}

		for idx, bus := range angIdx {
			theta[bus] += delta[idx+1]
		}
		for idx, bus := range vmagIdx {
			vmag[bus] += delta[n1+idx+1]
		}
	}

	_ = n2
	state.Converged = false
	state.Elapsed = time.Since(start)
	return gferr.New(gferr.MaxIterExceeded, "did not converge in %d iterations", maxIter)
}

func polarToRect(theta, vmag []float64) []complex128 {
	v := make([]complex128, len(theta))
	for i := range v {
		v[i] = complex(vmag[i]*math.Cos(theta[i]), vmag[i]*math.Sin(theta[i]))
	}
	return v
}

// mismatchVector computes F = [Re(M) at angIdx; Im(M) at vmagIdx] where
// M = V ⊙ conj(Y·V) − S.
func mismatchVector(y *matrix.Y, s, v []complex128, angIdx, vmagIdx []int) []float64 {
	iy := y.MulVec(v)
	f := make([]float64, len(angIdx)+len(vmagIdx))
	for idx, i := range angIdx {
		m := v[i]*cmplx.Conj(iy[i]) - s[i]
		f[idx] = real(m)
	}
	for idx, i := range vmagIdx {
		m := v[i]*cmplx.Conj(iy[i]) - s[i]
		f[len(angIdx)+idx] = imag(m)
	}
	return f
}

func infNorm(f []float64) float64 {
	max := 0.0
	for _, v := range f {
		av := math.Abs(v)
		if av > max {
			max = av
		}
	}
	return max
}

// buildJacobian assembles the 4-block Jacobian J = [∂P/∂θ, ∂P/∂|V|;
// ∂Q/∂θ, ∂Q/∂|V|] restricted to pv∪pq rows/cols (θ block) and pq rows/cols
// (|V| block), using the standard closed-form polar power-flow
// derivatives. Only entries touching a stamped Y admittance are written,
// so the cost tracks network sparsity rather than K².
func buildJacobian(y *matrix.Y, theta, vmag []float64, angIdx, vmagIdx []int) (*matrix.RealSparse, error) {
	n1, n2 := len(angIdx), len(vmagIdx)
	jac, err := matrix.NewRealSparse(n1 + n2)
	if err != nil {
		return nil, err
	}

	angPos := make(map[int]int, n1)
	for idx, bus := range angIdx {
		angPos[bus] = idx
	}
	vmagPos := make(map[int]int, n2)
	for idx, bus := range vmagIdx {
		vmagPos[bus] = idx
	}

	// P-rows: i ranges over pv∪pq.
	for ri, i := range angIdx {
		row := y.Row(i)
		gii, bii := real(y.At(i, i)), imag(y.At(i, i))

		var pi, qi float64
		for k, yik := range row {
			gik, bik := real(yik), imag(yik)
			thetaik := theta[i] - theta[k]
			c, sn := math.Cos(thetaik), math.Sin(thetaik)
			pi += vmag[i] * vmag[k] * (gik*c + bik*sn)
			qi += vmag[i] * vmag[k] * (gik*sn - bik*c)
		}

		for k, yik := range row {
			if k == i {
				continue
			}
			gik, bik := real(yik), imag(yik)
			thetaik := theta[i] - theta[k]
			c, sn := math.Cos(thetaik), math.Sin(thetaik)

			if ck, ok := angPos[k]; ok {
				dPdThetaK := vmag[i] * vmag[k] * (gik*sn - bik*c)
				jac.AddElement(ri+1, ck+1, dPdThetaK)
			}
			if ck, ok := vmagPos[k]; ok {
				dPdVk := vmag[i] * (gik*c + bik*sn)
				jac.AddElement(ri+1, n1+ck+1, dPdVk)
			}
		}

		dPdThetaI := -qi - bii*vmag[i]*vmag[i]
		jac.AddElement(ri+1, ri+1, dPdThetaI)
		if ci, ok := vmagPos[i]; ok {
			dPdVi := pi/vmag[i] + gii*vmag[i]
			jac.AddElement(ri+1, n1+ci+1, dPdVi)
		}
	}

	// Q-rows: i ranges over pq only.
	for ri, i := range vmagIdx {
		row := y.Row(i)
		gii, bii := real(y.At(i, i)), imag(y.At(i, i))

		var pi, qi float64
		for k, yik := range row {
			gik, bik := real(yik), imag(yik)
			thetaik := theta[i] - theta[k]
			c, sn := math.Cos(thetaik), math.Sin(thetaik)
			pi += vmag[i] * vmag[k] * (gik*c + bik*sn)
			qi += vmag[i] * vmag[k] * (gik*sn - bik*c)
		}

		for k, yik := range row {
			if k == i {
				continue
			}
			gik, bik := real(yik), imag(yik)
			thetaik := theta[i] - theta[k]
			c, sn := math.Cos(thetaik), math.Sin(thetaik)

			if ck, ok := angPos[k]; ok {
				dQdThetaK := -vmag[i] * vmag[k] * (gik*c + bik*sn)
				jac.AddElement(n1+ri+1, ck+1, dQdThetaK)
			}
			if ck, ok := vmagPos[k]; ok {
				dQdVk := vmag[i] * (gik*sn - bik*c)
				jac.AddElement(n1+ri+1, n1+ck+1, dQdVk)
			}
		}

		dQdThetaI := pi - gii*vmag[i]*vmag[i]
		jac.AddElement(n1+ri+1, angPos[i]+1, dQdThetaI)
		dQdVi := qi/vmag[i] - bii*vmag[i]
		jac.AddElement(n1+ri+1, n1+ri+1, dQdVi)
	}

	return jac, nil
}
