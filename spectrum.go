package qsim

import (
	"math"
	"sort"
)

const (
	jacobiSweeps    = 64
	jacobiThreshold = 1e-26
)

/*
Eigenvalues returns the spectrum of ρ in ascending order. ρ = A + iB is
Hermitian, so the real symmetric matrix [[A, -B], [B, A]] carries every
eigenvalue of ρ twice; a cyclic Jacobi sweep diagonalises that embedding and
each pair is folded back into one value.
*/
func (reg *Register) Eigenvalues() []float64 {
	n := 2 * reg.dim
	a := make([]float64, n*n)

	for i := 0; i < reg.dim; i++ {
		for j := 0; j < reg.dim; j++ {
			v := reg.data[i*reg.dim+j]
			re, im := real(v), imag(v)
			a[i*n+j] = re
			a[(i+reg.dim)*n+j+reg.dim] = re
			a[i*n+j+reg.dim] = -im
			a[(i+reg.dim)*n+j] = im
		}
	}

	jacobi(a, n)

	doubled := make([]float64, n)
	for i := range doubled {
		doubled[i] = a[i*n+i]
	}
	sort.Float64s(doubled)

	out := make([]float64, reg.dim)
	for i := range out {
		out[i] = (doubled[2*i] + doubled[2*i+1]) / 2
	}
	return out
}

// jacobi drives the symmetric n × n matrix a towards diagonal form in place.
func jacobi(a []float64, n int) {
	for sweep := 0; sweep < jacobiSweeps; sweep++ {
		var off float64
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += a[p*n+q] * a[p*n+q]
			}
		}
		if off < jacobiThreshold {
			return
		}

		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				apq := a[p*n+q]
				if apq == 0 {
					continue
				}

				theta := (a[q*n+q] - a[p*n+p]) / (2 * apq)
				t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta < 0 {
					t = -t
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				for k := 0; k < n; k++ {
					akp, akq := a[k*n+p], a[k*n+q]
					a[k*n+p] = c*akp - s*akq
					a[k*n+q] = s*akp + c*akq
				}
				for k := 0; k < n; k++ {
					apk, aqk := a[p*n+k], a[q*n+k]
					a[p*n+k] = c*apk - s*aqk
					a[q*n+k] = s*apk + c*aqk
				}
			}
		}
	}
}

/*
VonNeumannEntropy is S(ρ) = -Tr(ρ log₂ ρ) in bits. It is 0 for any pure
state, whatever basis it is written in; Entropy only sees the diagonal.
*/
func (reg *Register) VonNeumannEntropy() float64 {
	var h float64
	for _, lambda := range reg.Eigenvalues() {
		if lambda > reg.tolerance {
			h -= lambda * math.Log2(lambda)
		}
	}
	return h
}

// EntanglementEntropy is the von Neumann entropy of the subsystem keep, with
// every other qubit traced out.
func (reg *Register) EntanglementEntropy(keep ...int) (float64, error) {
	reduced, err := reg.Reduce(keep...)
	if err != nil {
		return 0, err
	}
	return reduced.VonNeumannEntropy(), nil
}
