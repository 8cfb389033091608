package qsim

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/davecgh/go-spew/spew"
	"github.com/theapemachine/errnie"
)

/*
Register is the state store of the simulator: the density matrix of an
n-qubit register, held as a row-major dim × dim buffer of complex amplitudes
with dim = 2^n. Qubit k is bit k of a basis index.

A Register has a single owner. Nothing in this package locks it; callers that
want to share one across goroutines synchronise externally, or Clone it.
*/
type Register struct {
	numQubits int
	dim       int
	data      []complex128
	tolerance float64
}

type registerOptions struct {
	maxQubits int
	tolerance float64
}

// RegisterOption configures a new register.
type RegisterOption func(*registerOptions)

// WithMaxQubits raises or lowers the qubit cap. It is clamped to HardMaxQubits.
func WithMaxQubits(n int) RegisterOption {
	return func(o *registerOptions) {
		o.maxQubits = min(n, HardMaxQubits)
	}
}

// WithTolerance sets the tolerance used by trace and unitarity checks.
func WithTolerance(tol float64) RegisterOption {
	return func(o *registerOptions) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}

func resolveOptions(opts []RegisterOption) registerOptions {
	o := registerOptions{
		maxQubits: DefaultMaxQubits,
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRegister allocates a register in the all-zero basis state |0…0⟩⟨0…0|.
func NewRegister(numQubits int, opts ...RegisterOption) (*Register, error) {
	o := resolveOptions(opts)

	if numQubits < 1 || numQubits > o.maxQubits {
		return nil, fmt.Errorf(
			"%d qubits requested, supported range is [1, %d]: %w",
			numQubits, o.maxQubits, ErrInvalidDimension,
		)
	}

	dim := 1 << numQubits
	reg := &Register{
		numQubits: numQubits,
		dim:       dim,
		data:      make([]complex128, dim*dim),
		tolerance: o.tolerance,
	}
	reg.data[0] = 1

	errnie.Info("NewRegister - qubits %d, dimension %d", numQubits, dim)
	return reg, nil
}

/*
RestoreRegister rebuilds a register from a full amplitude buffer, as produced
by Amplitudes or a decoded snapshot. The buffer must be dim × dim with unit
trace.
*/
func RestoreRegister(numQubits int, amplitudes []complex128, opts ...RegisterOption) (*Register, error) {
	o := resolveOptions(opts)

	if numQubits < 1 || numQubits > o.maxQubits {
		return nil, fmt.Errorf(
			"%d qubits requested, supported range is [1, %d]: %w",
			numQubits, o.maxQubits, ErrInvalidDimension,
		)
	}

	dim := 1 << numQubits
	if len(amplitudes) != dim*dim {
		return nil, fmt.Errorf(
			"buffer holds %d amplitudes, %d qubits need %d: %w",
			len(amplitudes), numQubits, dim*dim, ErrDimensionMismatch,
		)
	}

	reg := &Register{
		numQubits: numQubits,
		dim:       dim,
		data:      make([]complex128, len(amplitudes)),
		tolerance: o.tolerance,
	}
	copy(reg.data, amplitudes)

	if tr := reg.Trace(); math.Abs(real(tr)-1) > reg.tolerance || math.Abs(imag(tr)) > reg.tolerance {
		return nil, fmt.Errorf("trace %v is not 1: %w", tr, ErrInvalidParameter)
	}

	return reg, nil
}

func (reg *Register) NumQubits() int {
	return reg.numQubits
}

// Dimension returns 2^NumQubits.
func (reg *Register) Dimension() int {
	return reg.dim
}

func (reg *Register) Tolerance() float64 {
	return reg.tolerance
}

// At returns ρ[i][j].
func (reg *Register) At(i, j int) complex128 {
	return reg.data[i*reg.dim+j]
}

// Amplitudes returns a copy of the row-major buffer.
func (reg *Register) Amplitudes() []complex128 {
	out := make([]complex128, len(reg.data))
	copy(out, reg.data)
	return out
}

// Clone is an explicit full-buffer copy. Registers never alias each other.
func (reg *Register) Clone() *Register {
	data := make([]complex128, len(reg.data))
	copy(data, reg.data)
	return &Register{
		numQubits: reg.numQubits,
		dim:       reg.dim,
		data:      data,
		tolerance: reg.tolerance,
	}
}

func (reg *Register) Trace() complex128 {
	var tr complex128
	for i := 0; i < reg.dim; i++ {
		tr += reg.data[i*reg.dim+i]
	}
	return tr
}

// Purity is Tr(ρ²): 1 for a pure state, 1/dim for the maximally mixed one.
func (reg *Register) Purity() float64 {
	var sum float64
	for _, amp := range reg.data {
		a := cmplx.Abs(amp)
		sum += a * a
	}
	return sum
}

// IsHermitian reports whether ρ equals its conjugate transpose within tolerance.
func (reg *Register) IsHermitian() bool {
	for i := 0; i < reg.dim; i++ {
		for j := i; j < reg.dim; j++ {
			if cmplx.Abs(reg.data[i*reg.dim+j]-cmplx.Conj(reg.data[j*reg.dim+i])) > reg.tolerance {
				return false
			}
		}
	}
	return true
}

// Dump renders the register for debugging.
func (reg *Register) Dump() string {
	return spew.Sdump(struct {
		NumQubits int
		Dimension int
		Trace     complex128
		Purity    float64
		Diagonal  []complex128
	}{
		NumQubits: reg.numQubits,
		Dimension: reg.dim,
		Trace:     reg.Trace(),
		Purity:    reg.Purity(),
		Diagonal:  reg.diagonal(),
	})
}

func (reg *Register) diagonal() []complex128 {
	out := make([]complex128, reg.dim)
	for i := range out {
		out[i] = reg.data[i*reg.dim+i]
	}
	return out
}

func (reg *Register) checkQubit(q int) error {
	if q < 0 || q >= reg.numQubits {
		return fmt.Errorf("qubit %d on a %d-qubit register: %w", q, reg.numQubits, ErrQubitIndexOutOfRange)
	}
	return nil
}
