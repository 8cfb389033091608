package qsim

import (
	"fmt"
	"math/cmplx"
)

/*
layout precomputes the bit addressing of a set of target qubits. A k × k
operator over t targets (k = 2^t) addresses the register through a local
index: targets[0] is its most significant bit, targets[t-1] its least.
offsets[s] scatters local index s back onto the target bit positions, and
local[i] gathers the target bits of basis index i into a local index.
*/
type layout struct {
	k       int
	mask    int
	offsets []int
	local   []int
}

func newLayout(targets []int, dim int) layout {
	t := len(targets)
	l := layout{
		k:       1 << t,
		offsets: make([]int, 1<<t),
		local:   make([]int, dim),
	}

	for _, q := range targets {
		l.mask |= 1 << q
	}

	for s := range l.offsets {
		for pos, q := range targets {
			if (s>>(t-1-pos))&1 == 1 {
				l.offsets[s] |= 1 << q
			}
		}
	}

	for i := range l.local {
		for pos, q := range targets {
			l.local[i] |= ((i >> q) & 1) << (t - 1 - pos)
		}
	}

	return l
}

// leftMultiply returns M·ρ as a fresh buffer; in is only read.
func leftMultiply(l layout, m, in []complex128, dim int) []complex128 {
	out := make([]complex128, dim*dim)

	for i := 0; i < dim; i++ {
		li := l.local[i]
		base := i &^ l.mask
		row := out[i*dim : (i+1)*dim]

		for s := 0; s < l.k; s++ {
			c := m[li*l.k+s]
			if c == 0 {
				continue
			}
			r := base | l.offsets[s]
			src := in[r*dim : (r+1)*dim]
			for j := range row {
				row[j] += c * src[j]
			}
		}
	}

	return out
}

// rightMultiplyDagger returns ρ·M† as a fresh buffer; in is only read.
func rightMultiplyDagger(l layout, m, in []complex128, dim int) []complex128 {
	out := make([]complex128, dim*dim)

	for j := 0; j < dim; j++ {
		lj := l.local[j]
		base := j &^ l.mask

		for s := 0; s < l.k; s++ {
			c := cmplx.Conj(m[lj*l.k+s])
			if c == 0 {
				continue
			}
			col := base | l.offsets[s]
			for i := 0; i < dim; i++ {
				out[i*dim+j] += in[i*dim+col] * c
			}
		}
	}

	return out
}

// conjugate computes M·ρ·M† without touching the register.
func (reg *Register) conjugate(targets []int, m []complex128) []complex128 {
	l := newLayout(targets, reg.dim)
	return rightMultiplyDagger(l, m, leftMultiply(l, m, reg.data, reg.dim), reg.dim)
}

// validateTargets checks range and distinctness of a target list.
func (reg *Register) validateTargets(targets []int) error {
	if len(targets) == 0 {
		return fmt.Errorf("no target qubits: %w", ErrDimensionMismatch)
	}

	seen := 0
	for _, q := range targets {
		if err := reg.checkQubit(q); err != nil {
			return err
		}
		if seen&(1<<q) != 0 {
			return fmt.Errorf("qubit %d targeted twice: %w", q, ErrQubitIndexOutOfRange)
		}
		seen |= 1 << q
	}

	return nil
}

// validateOperator checks that m is a (2^t)² matrix for t targets.
func validateOperator(m []complex128, t int) error {
	k := 1 << t
	if len(m) != k*k {
		return fmt.Errorf(
			"%d-qubit operator needs %d entries, got %d: %w",
			t, k*k, len(m), ErrDimensionMismatch,
		)
	}
	return nil
}

// isUnitary checks M·M† = I entrywise within tol.
func isUnitary(m []complex128, k int, tol float64) bool {
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			var sum complex128
			for s := 0; s < k; s++ {
				sum += m[i*k+s] * cmplx.Conj(m[j*k+s])
			}
			if i == j {
				sum -= 1
			}
			if cmplx.Abs(sum) > tol {
				return false
			}
		}
	}
	return true
}

func matMul(a, b []complex128, k int) []complex128 {
	out := make([]complex128, k*k)
	for i := 0; i < k; i++ {
		for s := 0; s < k; s++ {
			c := a[i*k+s]
			if c == 0 {
				continue
			}
			for j := 0; j < k; j++ {
				out[i*k+j] += c * b[s*k+j]
			}
		}
	}
	return out
}

// matPow2 raises m to the power 2^p by repeated squaring.
func matPow2(m []complex128, k, p int) []complex128 {
	out := make([]complex128, len(m))
	copy(out, m)
	for ; p > 0; p-- {
		out = matMul(out, out, k)
	}
	return out
}

// log2Dim returns t for a k × k matrix with k = 2^t, or -1.
func log2Dim(entries int) int {
	for t := 0; t <= HardMaxQubits; t++ {
		k := 1 << t
		if k*k == entries {
			return t
		}
		if k*k > entries {
			break
		}
	}
	return -1
}
