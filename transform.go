package qsim

import (
	"fmt"
	"math"

	"github.com/theapemachine/errnie"
)

func (reg *Register) checkRange(start, end int) error {
	if start < 0 || end > reg.numQubits || start > end {
		return fmt.Errorf(
			"range [%d, %d) on a %d-qubit register: %w",
			start, end, reg.numQubits, ErrQubitIndexOutOfRange,
		)
	}
	return nil
}

// qftGates lists the circuit for the forward transform over [start, end).
func qftGates(start, end int) []GateSpec {
	var gates []GateSpec

	for i := start; i < end; i++ {
		gates = append(gates, Hadamard(i))
		for j := i + 1; j < end; j++ {
			gates = append(gates, ControlledPhase(i, j, 2*math.Pi/math.Exp2(float64(j-i+1))))
		}
	}

	for k := 0; k < (end-start)/2; k++ {
		gates = append(gates, Swap(start+k, end-1-k))
	}

	return gates
}

// inverseQFTGates is the forward circuit reversed with every phase negated.
func inverseQFTGates(start, end int) []GateSpec {
	var gates []GateSpec

	for k := 0; k < (end-start)/2; k++ {
		gates = append(gates, Swap(start+k, end-1-k))
	}

	for i := end - 1; i >= start; i-- {
		for j := end - 1; j > i; j-- {
			gates = append(gates, ControlledPhase(i, j, -2*math.Pi/math.Exp2(float64(j-i+1))))
		}
		gates = append(gates, Hadamard(i))
	}

	return gates
}

/*
QFT applies the quantum Fourier transform to qubits [start, end). Each qubit
in ascending order gets a Hadamard followed by controlled phases
2π/2^(j-i+1) to every later qubit j, and the range is then reversed with
swaps. Qubit start is the most significant bit of the transformed range.
*/
func (reg *Register) QFT(start, end int) error {
	if err := reg.checkRange(start, end); err != nil {
		return err
	}
	return reg.ApplyAll(qftGates(start, end)...)
}

// InverseQFT undoes QFT over the same range.
func (reg *Register) InverseQFT(start, end int) error {
	if err := reg.checkRange(start, end); err != nil {
		return err
	}
	return reg.ApplyAll(inverseQFTGates(start, end)...)
}

/*
PhaseEstimation estimates the eigenphase φ of unitary, where U|ψ⟩ = e^{2πiφ}|ψ⟩,
to precision bits.

Qubits [0, precision) are the ancillas and are expected in |0⟩. The unitary
is a d × d matrix with d = 2^m acting on qubits [precision, precision+m),
qubit precision being its least significant bit; that block should already
hold the eigenstate. Ancilla a is put in superposition and controls
U^(2^(precision-1-a)), the inverse QFT over the ancillas unwinds the phase
kicks, and the most probable ancilla pattern b₀b₁…b_{p-1} (ancilla 0 first)
is read as the binary fraction 0.b₀b₁….

Every check runs before the register is modified.
*/
func (reg *Register) PhaseEstimation(unitary []complex128, precision int) (float64, error) {
	m := log2Dim(len(unitary))
	if m < 1 {
		return 0, fmt.Errorf(
			"unitary with %d entries is not a 2^m × 2^m matrix: %w",
			len(unitary), ErrDimensionMismatch,
		)
	}
	if precision < 1 || precision+m > reg.numQubits {
		return 0, fmt.Errorf(
			"%d ancillas plus %d target qubits on a %d-qubit register: %w",
			precision, m, reg.numQubits, ErrInsufficientQubits,
		)
	}

	k := 1 << m
	if !isUnitary(unitary, k, reg.tolerance) {
		return 0, fmt.Errorf("phase estimation: %w", ErrNonUnitary)
	}

	errnie.Info("PhaseEstimation - precision %d, target qubits %d", precision, m)

	// Control first, then the target block from its most significant qubit down.
	targets := make([]int, m+1)
	for t := 0; t < m; t++ {
		targets[m-t] = precision + t
	}

	gates := make([]GateSpec, 0, 2*precision)
	for a := 0; a < precision; a++ {
		gates = append(gates, Hadamard(a))

		targets[0] = a
		power := matPow2(unitary, k, precision-1-a)
		gates = append(gates, GateSpec{
			Name:    "controlled-unitary",
			Matrix:  controlled(power, k),
			Targets: append([]int(nil), targets...),
		})
	}
	gates = append(gates, inverseQFTGates(0, precision)...)

	// Powers of the checked unitary go in without a second unitarity check.
	for _, gate := range gates {
		reg.data = reg.conjugate(gate.Targets, gate.Matrix)
	}

	return reg.readPhase(precision), nil
}

// readPhase returns the most probable ancilla pattern as a binary fraction.
func (reg *Register) readPhase(precision int) float64 {
	weights := make([]float64, 1<<precision)

	for i, p := range reg.Probabilities() {
		value := 0
		for a := 0; a < precision; a++ {
			value |= ((i >> a) & 1) << (precision - 1 - a)
		}
		weights[value] += p
	}

	best := 0
	for v, w := range weights {
		if w > weights[best] {
			best = v
		}
	}

	return float64(best) / float64(len(weights))
}
