package qsim

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operation is anything a circuit can run against a register.
type Operation interface {
	ApplyTo(reg *Register) error
}

// FourierStep runs QFT or its inverse over [Start, End).
type FourierStep struct {
	Start   int
	End     int
	Inverse bool
}

func (step FourierStep) ApplyTo(reg *Register) error {
	if step.Inverse {
		return reg.InverseQFT(step.Start, step.End)
	}
	return reg.QFT(step.Start, step.End)
}

/*
Circuit is an ordered list of operations for a register of at least Qubits
qubits. Run executes it on a clone and only commits the result once every
operation succeeded, so a failing circuit leaves the register as it was.
*/
type Circuit struct {
	Qubits int
	Ops    []Operation
}

func NewCircuit(qubits int) *Circuit {
	return &Circuit{Qubits: qubits}
}

// Add appends operations and returns the circuit for chaining.
func (c *Circuit) Add(ops ...Operation) *Circuit {
	c.Ops = append(c.Ops, ops...)
	return c
}

func (c *Circuit) Run(reg *Register) error {
	if reg.numQubits < c.Qubits {
		return fmt.Errorf(
			"circuit needs %d qubits, register has %d: %w",
			c.Qubits, reg.numQubits, ErrInsufficientQubits,
		)
	}

	work := reg.Clone()
	for i, op := range c.Ops {
		if err := op.ApplyTo(work); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	reg.data = work.data
	return nil
}

// circuitFile is the YAML shape of a circuit.
type circuitFile struct {
	Qubits int        `yaml:"qubits"`
	Steps  []stepFile `yaml:"steps"`
}

type stepFile struct {
	Gate    string    `yaml:"gate,omitempty"`
	Channel string    `yaml:"channel,omitempty"`
	Targets []int     `yaml:"targets,omitempty"`
	Params  []float64 `yaml:"params,omitempty"`
	QFT     []int     `yaml:"qft,omitempty"`
	IQFT    []int     `yaml:"iqft,omitempty"`
}

// ParseCircuit reads a circuit from YAML.
func ParseCircuit(r io.Reader) (*Circuit, error) {
	var file circuitFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding circuit: %w", err)
	}

	if file.Qubits < 1 {
		return nil, fmt.Errorf("circuit declares %d qubits: %w", file.Qubits, ErrInvalidDimension)
	}

	c := NewCircuit(file.Qubits)
	for i, step := range file.Steps {
		op, err := step.operation()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		c.Add(op)
	}

	return c, nil
}

func (step stepFile) operation() (Operation, error) {
	set := 0
	for _, present := range []bool{step.Gate != "", step.Channel != "", step.QFT != nil, step.IQFT != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("a step sets exactly one of gate, channel, qft, iqft: %w", ErrInvalidParameter)
	}

	switch {
	case step.Gate != "":
		return BuildGate(GateKind(step.Gate), step.Params, step.Targets)
	case step.Channel != "":
		if len(step.Targets) != 1 || len(step.Params) != 1 {
			return nil, fmt.Errorf("channel %s takes one target and one parameter: %w", step.Channel, ErrInvalidParameter)
		}
		return BuildChannel(strings.ToLower(step.Channel), step.Targets[0], step.Params[0])
	case step.QFT != nil:
		return fourierStep(step.QFT, false)
	default:
		return fourierStep(step.IQFT, true)
	}
}

func fourierStep(bounds []int, inverse bool) (Operation, error) {
	if len(bounds) != 2 {
		return nil, fmt.Errorf("fourier range needs [start, end], got %v: %w", bounds, ErrInvalidParameter)
	}
	return FourierStep{Start: bounds[0], End: bounds[1], Inverse: inverse}, nil
}
