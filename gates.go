package qsim

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

/*
GateSpec pairs a unitary with the qubits it acts on. Matrix is row-major,
k × k with k = 2^len(Targets); Targets[0] is the most significant bit of the
matrix index, so CNOT(c, t) carries the textbook 4×4 matrix with targets
[c, t].
*/
type GateSpec struct {
	Name    string
	Matrix  []complex128
	Targets []int
}

// Apply validates the gate and replaces ρ with U·ρ·U†.
func (reg *Register) Apply(gate GateSpec) error {
	if err := reg.validateGate(gate); err != nil {
		return err
	}
	reg.data = reg.conjugate(gate.Targets, gate.Matrix)
	return nil
}

// ApplyAll applies gates in order and stops at the first failure.
func (reg *Register) ApplyAll(gates ...GateSpec) error {
	for _, gate := range gates {
		if err := reg.Apply(gate); err != nil {
			return err
		}
	}
	return nil
}

func (reg *Register) validateGate(gate GateSpec) error {
	if err := reg.validateTargets(gate.Targets); err != nil {
		return fmt.Errorf("gate %s: %w", gate.Name, err)
	}
	if err := validateOperator(gate.Matrix, len(gate.Targets)); err != nil {
		return fmt.Errorf("gate %s: %w", gate.Name, err)
	}
	if !isUnitary(gate.Matrix, 1<<len(gate.Targets), reg.tolerance) {
		return fmt.Errorf("gate %s: %w", gate.Name, ErrNonUnitary)
	}
	return nil
}

// ApplyTo lets a GateSpec stand as a circuit operation.
func (gate GateSpec) ApplyTo(reg *Register) error {
	return reg.Apply(gate)
}

var invSqrt2 = complex(1/math.Sqrt2, 0)

// Hadamard is H = 1/√2 * [[1, 1], [1, -1]].
func Hadamard(q int) GateSpec {
	return GateSpec{
		Name:    "h",
		Matrix:  []complex128{invSqrt2, invSqrt2, invSqrt2, -invSqrt2},
		Targets: []int{q},
	}
}

func PauliX(q int) GateSpec {
	return GateSpec{Name: "x", Matrix: []complex128{0, 1, 1, 0}, Targets: []int{q}}
}

func PauliY(q int) GateSpec {
	return GateSpec{Name: "y", Matrix: []complex128{0, -1i, 1i, 0}, Targets: []int{q}}
}

func PauliZ(q int) GateSpec {
	return GateSpec{Name: "z", Matrix: []complex128{1, 0, 0, -1}, Targets: []int{q}}
}

// Phase is diag(1, e^{iθ}).
func Phase(q int, theta float64) GateSpec {
	return GateSpec{
		Name:    "phase",
		Matrix:  []complex128{1, 0, 0, cmplx.Exp(complex(0, theta))},
		Targets: []int{q},
	}
}

func S(q int) GateSpec {
	g := Phase(q, math.Pi/2)
	g.Name = "s"
	return g
}

func Sdg(q int) GateSpec {
	g := Phase(q, -math.Pi/2)
	g.Name = "sdg"
	return g
}

func T(q int) GateSpec {
	g := Phase(q, math.Pi/4)
	g.Name = "t"
	return g
}

func Tdg(q int) GateSpec {
	g := Phase(q, -math.Pi/4)
	g.Name = "tdg"
	return g
}

func RX(q int, theta float64) GateSpec {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return GateSpec{
		Name:    "rx",
		Matrix:  []complex128{complex(c, 0), complex(0, -s), complex(0, -s), complex(c, 0)},
		Targets: []int{q},
	}
}

func RY(q int, theta float64) GateSpec {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return GateSpec{
		Name:    "ry",
		Matrix:  []complex128{complex(c, 0), complex(-s, 0), complex(s, 0), complex(c, 0)},
		Targets: []int{q},
	}
}

func RZ(q int, theta float64) GateSpec {
	return GateSpec{
		Name: "rz",
		Matrix: []complex128{
			cmplx.Exp(complex(0, -theta/2)), 0,
			0, cmplx.Exp(complex(0, theta/2)),
		},
		Targets: []int{q},
	}
}

// CNOT flips target when control is 1.
func CNOT(control, target int) GateSpec {
	return GateSpec{
		Name: "cnot",
		Matrix: []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
			0, 0, 1, 0,
		},
		Targets: []int{control, target},
	}
}

func CZ(control, target int) GateSpec {
	g := ControlledPhase(control, target, math.Pi)
	g.Name = "cz"
	return g
}

// ControlledPhase is diag(1, 1, 1, e^{iθ}); it is symmetric in its qubits.
func ControlledPhase(control, target int, theta float64) GateSpec {
	return GateSpec{
		Name: "cphase",
		Matrix: []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, cmplx.Exp(complex(0, theta)),
		},
		Targets: []int{control, target},
	}
}

func Swap(a, b int) GateSpec {
	return GateSpec{
		Name: "swap",
		Matrix: []complex128{
			1, 0, 0, 0,
			0, 0, 1, 0,
			0, 1, 0, 0,
			0, 0, 0, 1,
		},
		Targets: []int{a, b},
	}
}

// Toffoli flips target when both controls are 1.
func Toffoli(c1, c2, target int) GateSpec {
	m := make([]complex128, 64)
	for i := 0; i < 6; i++ {
		m[i*8+i] = 1
	}
	m[6*8+7] = 1
	m[7*8+6] = 1
	return GateSpec{Name: "toffoli", Matrix: m, Targets: []int{c1, c2, target}}
}

// Unitary wraps an arbitrary matrix; Apply checks its shape and unitarity.
func Unitary(matrix []complex128, targets ...int) GateSpec {
	return GateSpec{Name: "unitary", Matrix: matrix, Targets: targets}
}

// controlled builds the block matrix diag(I, m) with the control as the
// most significant bit.
func controlled(m []complex128, k int) []complex128 {
	out := make([]complex128, 4*k*k)
	for i := 0; i < k; i++ {
		out[i*2*k+i] = 1
		for j := 0; j < k; j++ {
			out[(k+i)*2*k+k+j] = m[i*k+j]
		}
	}
	return out
}

// GateKind names the gates a host can request by string.
type GateKind string

const (
	GateH       GateKind = "h"
	GateX       GateKind = "x"
	GateY       GateKind = "y"
	GateZ       GateKind = "z"
	GateS       GateKind = "s"
	GateSdg     GateKind = "sdg"
	GateT       GateKind = "t"
	GateTdg     GateKind = "tdg"
	GatePhase   GateKind = "phase"
	GateRX      GateKind = "rx"
	GateRY      GateKind = "ry"
	GateRZ      GateKind = "rz"
	GateCNOT    GateKind = "cnot"
	GateCZ      GateKind = "cz"
	GateCPhase  GateKind = "cphase"
	GateSwap    GateKind = "swap"
	GateToffoli GateKind = "toffoli"
)

type gateBuilder struct {
	targets int
	params  int
	build   func(q []int, p []float64) GateSpec
}

var gateBuilders = map[GateKind]gateBuilder{
	GateH:       {1, 0, func(q []int, _ []float64) GateSpec { return Hadamard(q[0]) }},
	GateX:       {1, 0, func(q []int, _ []float64) GateSpec { return PauliX(q[0]) }},
	GateY:       {1, 0, func(q []int, _ []float64) GateSpec { return PauliY(q[0]) }},
	GateZ:       {1, 0, func(q []int, _ []float64) GateSpec { return PauliZ(q[0]) }},
	GateS:       {1, 0, func(q []int, _ []float64) GateSpec { return S(q[0]) }},
	GateSdg:     {1, 0, func(q []int, _ []float64) GateSpec { return Sdg(q[0]) }},
	GateT:       {1, 0, func(q []int, _ []float64) GateSpec { return T(q[0]) }},
	GateTdg:     {1, 0, func(q []int, _ []float64) GateSpec { return Tdg(q[0]) }},
	GatePhase:   {1, 1, func(q []int, p []float64) GateSpec { return Phase(q[0], p[0]) }},
	GateRX:      {1, 1, func(q []int, p []float64) GateSpec { return RX(q[0], p[0]) }},
	GateRY:      {1, 1, func(q []int, p []float64) GateSpec { return RY(q[0], p[0]) }},
	GateRZ:      {1, 1, func(q []int, p []float64) GateSpec { return RZ(q[0], p[0]) }},
	GateCNOT:    {2, 0, func(q []int, _ []float64) GateSpec { return CNOT(q[0], q[1]) }},
	GateCZ:      {2, 0, func(q []int, _ []float64) GateSpec { return CZ(q[0], q[1]) }},
	GateCPhase:  {2, 1, func(q []int, p []float64) GateSpec { return ControlledPhase(q[0], q[1], p[0]) }},
	GateSwap:    {2, 0, func(q []int, _ []float64) GateSpec { return Swap(q[0], q[1]) }},
	GateToffoli: {3, 0, func(q []int, _ []float64) GateSpec { return Toffoli(q[0], q[1], q[2]) }},
}

// BuildGate turns a host request into a GateSpec.
func BuildGate(kind GateKind, params []float64, targets []int) (GateSpec, error) {
	b, ok := gateBuilders[GateKind(strings.ToLower(string(kind)))]
	if !ok {
		return GateSpec{}, fmt.Errorf("%q: %w", kind, ErrUnknownGate)
	}
	if len(targets) != b.targets {
		return GateSpec{}, fmt.Errorf(
			"gate %s takes %d target(s), got %d: %w",
			kind, b.targets, len(targets), ErrDimensionMismatch,
		)
	}
	if len(params) != b.params {
		return GateSpec{}, fmt.Errorf(
			"gate %s takes %d parameter(s), got %d: %w",
			kind, b.params, len(params), ErrInvalidParameter,
		)
	}
	return b.build(targets, params), nil
}
