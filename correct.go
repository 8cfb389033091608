package qsim

import (
	"fmt"

	"github.com/theapemachine/errnie"
)

// Pauli names the single-qubit correction applied for a syndrome bit.
type Pauli int

const (
	PauliCorrectionX Pauli = iota
	PauliCorrectionY
	PauliCorrectionZ
)

func (p Pauli) String() string {
	switch p {
	case PauliCorrectionX:
		return "X"
	case PauliCorrectionY:
		return "Y"
	case PauliCorrectionZ:
		return "Z"
	default:
		return fmt.Sprintf("pauli(%d)", int(p))
	}
}

func (p Pauli) gate(q int) (GateSpec, error) {
	switch p {
	case PauliCorrectionX:
		return PauliX(q), nil
	case PauliCorrectionY:
		return PauliY(q), nil
	case PauliCorrectionZ:
		return PauliZ(q), nil
	default:
		return GateSpec{}, fmt.Errorf("%v: %w", p, ErrInvalidParameter)
	}
}

// Correction is one row of a syndrome table.
type Correction struct {
	Qubit int
	Pauli Pauli
}

/*
Code is a static syndrome table: bit k of a syndrome, when set, triggers
Table[k]. The table is configuration, never inferred from the register.
*/
type Code struct {
	Name  string
	Table []Correction
}

// TwoQubitCode maps a 4-bit syndrome to X and Z corrections on qubits 0 and 1.
var TwoQubitCode = Code{
	Name: "two-qubit",
	Table: []Correction{
		{Qubit: 0, Pauli: PauliCorrectionX},
		{Qubit: 0, Pauli: PauliCorrectionZ},
		{Qubit: 1, Pauli: PauliCorrectionX},
		{Qubit: 1, Pauli: PauliCorrectionZ},
	},
}

// BitFlipCode undoes a single X error on qubits 0, 1 or 2, one syndrome bit per qubit.
var BitFlipCode = Code{
	Name: "bit-flip",
	Table: []Correction{
		{Qubit: 0, Pauli: PauliCorrectionX},
		{Qubit: 1, Pauli: PauliCorrectionX},
		{Qubit: 2, Pauli: PauliCorrectionX},
	},
}

// PhaseFlipCode undoes a single Z error on qubits 0, 1 or 2.
var PhaseFlipCode = Code{
	Name: "phase-flip",
	Table: []Correction{
		{Qubit: 0, Pauli: PauliCorrectionZ},
		{Qubit: 1, Pauli: PauliCorrectionZ},
		{Qubit: 2, Pauli: PauliCorrectionZ},
	},
}

var codes = map[string]Code{
	TwoQubitCode.Name:  TwoQubitCode,
	BitFlipCode.Name:   BitFlipCode,
	PhaseFlipCode.Name: PhaseFlipCode,
}

// LookupCode returns a built-in code by name.
func LookupCode(name string) (Code, error) {
	code, ok := codes[name]
	if !ok {
		return Code{}, fmt.Errorf("code %q: %w", name, ErrInvalidParameter)
	}
	return code, nil
}

// Apply runs the corrections selected by syndrome, in syndrome-bit order.
func (code Code) Apply(reg *Register, syndrome []bool) error {
	if len(syndrome) != len(code.Table) {
		return fmt.Errorf(
			"code %s expects %d syndrome bits, got %d: %w",
			code.Name, len(code.Table), len(syndrome), ErrSyndromeLengthMismatch,
		)
	}

	gates := make([]GateSpec, 0, len(syndrome))
	for k, fired := range syndrome {
		c := code.Table[k]
		if err := reg.checkQubit(c.Qubit); err != nil {
			return fmt.Errorf("code %s, syndrome bit %d: %w", code.Name, k, err)
		}
		if !fired {
			continue
		}
		gate, err := c.Pauli.gate(c.Qubit)
		if err != nil {
			return fmt.Errorf("code %s, syndrome bit %d: %w", code.Name, k, err)
		}
		gates = append(gates, gate)
	}

	errnie.Info("Code.Apply - code %s, corrections %d", code.Name, len(gates))
	return reg.ApplyAll(gates...)
}

// Correct applies TwoQubitCode.
func (reg *Register) Correct(syndrome []bool) error {
	return TwoQubitCode.Apply(reg, syndrome)
}
