package qsim

import (
	"fmt"
	"math"
	"strings"
)

// Basis selects the local rotation applied before a diagonal read.
type Basis int

const (
	BasisZ Basis = iota
	BasisX
	BasisY
)

func (b Basis) String() string {
	switch b {
	case BasisZ:
		return "z"
	case BasisX:
		return "x"
	case BasisY:
		return "y"
	default:
		return fmt.Sprintf("basis(%d)", int(b))
	}
}

func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "z":
		return BasisZ, nil
	case "x":
		return BasisX, nil
	case "y":
		return BasisY, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnsupportedBasis)
	}
}

// yRotation is H·S†, which maps the Y eigenstates |±i⟩ onto |0⟩ and |1⟩.
var yRotation = []complex128{
	invSqrt2, -1i * invSqrt2,
	invSqrt2, 1i * invSqrt2,
}

/*
Measure returns the outcome distribution in the given basis. Z reads the
diagonal of ρ directly. X and Y rotate every qubit of a clone first, so the
caller's register is never touched.
*/
func (reg *Register) Measure(basis Basis) ([]float64, error) {
	var rotation []complex128

	switch basis {
	case BasisZ:
		return reg.Probabilities(), nil
	case BasisX:
		rotation = Hadamard(0).Matrix
	case BasisY:
		rotation = yRotation
	default:
		return nil, fmt.Errorf("%v: %w", basis, ErrUnsupportedBasis)
	}

	rotated := reg.Clone()
	for q := 0; q < rotated.numQubits; q++ {
		rotated.data = rotated.conjugate([]int{q}, rotation)
	}

	return rotated.Probabilities(), nil
}

/*
Probabilities is the Z-basis distribution: ρ[i][i] is the squared magnitude
of basis state i's amplitude. Rounding can leave tiny negative values on the
diagonal; those are clamped to 0.
*/
func (reg *Register) Probabilities() []float64 {
	probs := make([]float64, reg.dim)
	for i := range probs {
		probs[i] = math.Max(0, real(reg.data[i*reg.dim+i]))
	}
	return probs
}

// Entropy is the Shannon entropy, in bits, of the Z-basis distribution.
func (reg *Register) Entropy() float64 {
	return shannon(reg.Probabilities())
}

func shannon(probs []float64) float64 {
	var h float64
	for _, p := range probs {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// QubitProbabilities returns the marginal [P(0), P(1)] of one qubit.
func (reg *Register) QubitProbabilities(q int) ([2]float64, error) {
	var out [2]float64
	if err := reg.checkQubit(q); err != nil {
		return out, err
	}

	for i, p := range reg.Probabilities() {
		out[(i>>q)&1] += p
	}
	return out, nil
}

/*
Reduce traces out every qubit not listed in keep and returns the reduced
density matrix as a new register. keep[r] becomes qubit r of the result.
*/
func (reg *Register) Reduce(keep ...int) (*Register, error) {
	if err := reg.validateTargets(keep); err != nil {
		return nil, err
	}

	// Reversed so keep[0] is the least significant bit of the local index.
	order := make([]int, len(keep))
	for i, q := range keep {
		order[len(keep)-1-i] = q
	}
	l := newLayout(order, reg.dim)

	dim := l.k
	out := &Register{
		numQubits: len(keep),
		dim:       dim,
		data:      make([]complex128, dim*dim),
		tolerance: reg.tolerance,
	}

	// Each environment configuration e pairs rows and columns that share it.
	for i := 0; i < reg.dim; i++ {
		env := i &^ l.mask
		li := l.local[i]
		for b := 0; b < dim; b++ {
			j := env | l.offsets[b]
			out.data[li*dim+b] += reg.data[i*reg.dim+j]
		}
	}

	return out, nil
}
