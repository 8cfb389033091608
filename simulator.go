package qsim

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/theapemachine/errnie"
)

// Handle identifies a register owned by a Simulator.
type Handle string

type slot struct {
	mu  sync.Mutex
	reg *Register
}

/*
Simulator is the host-facing surface: it owns registers and hands out
handles to them. The registers themselves stay lock-free; the Simulator
serialises calls per handle, so two callers using the same handle take turns
while different handles proceed in parallel.
*/
type Simulator struct {
	mu     sync.RWMutex
	slots  map[Handle]*slot
	config *Config
	nextID atomic.Uint64
}

func NewSimulator(config *Config) *Simulator {
	if config == nil {
		config = NewConfig()
	}
	return &Simulator{
		slots:  make(map[Handle]*slot),
		config: config,
	}
}

func (sim *Simulator) store(reg *Register) Handle {
	h := Handle(fmt.Sprintf("reg-%d", sim.nextID.Add(1)))

	sim.mu.Lock()
	sim.slots[h] = &slot{reg: reg}
	sim.mu.Unlock()

	return h
}

// with runs fn while holding the handle's lock.
func (sim *Simulator) with(h Handle, fn func(reg *Register) error) error {
	sim.mu.RLock()
	s, ok := sim.slots[h]
	sim.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", h, ErrUnknownHandle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reg == nil {
		return fmt.Errorf("%s released: %w", h, ErrUnknownHandle)
	}
	return fn(s.reg)
}

func (sim *Simulator) CreateRegister(numQubits int) (Handle, error) {
	reg, err := NewRegister(numQubits, sim.config.RegisterOptions()...)
	if err != nil {
		return "", err
	}

	h := sim.store(reg)
	errnie.Info("CreateRegister - handle %s, qubits %d", h, numQubits)
	return h, nil
}

func (sim *Simulator) ApplyGate(h Handle, kind GateKind, params []float64, targets []int) error {
	gate, err := BuildGate(kind, params, targets)
	if err != nil {
		return err
	}
	return sim.with(h, func(reg *Register) error {
		return reg.Apply(gate)
	})
}

func (sim *Simulator) Measure(h Handle, basis Basis) (probs []float64, err error) {
	err = sim.with(h, func(reg *Register) error {
		probs, err = reg.Measure(basis)
		return err
	})
	return probs, err
}

func (sim *Simulator) Entropy(h Handle) (entropy float64, err error) {
	err = sim.with(h, func(reg *Register) error {
		entropy = reg.Entropy()
		return nil
	})
	return entropy, err
}

// EntanglementEntropy is the von Neumann entropy of the kept qubits.
func (sim *Simulator) EntanglementEntropy(h Handle, keep ...int) (entropy float64, err error) {
	err = sim.with(h, func(reg *Register) error {
		entropy, err = reg.EntanglementEntropy(keep...)
		return err
	})
	return entropy, err
}

func (sim *Simulator) QuantumFourierTransform(h Handle, start, end int) error {
	return sim.with(h, func(reg *Register) error {
		return reg.QFT(start, end)
	})
}

func (sim *Simulator) PhaseEstimation(h Handle, unitary []complex128, precision int) (phase float64, err error) {
	err = sim.with(h, func(reg *Register) error {
		phase, err = reg.PhaseEstimation(unitary, precision)
		return err
	})
	return phase, err
}

func (sim *Simulator) CorrectErrors(h Handle, syndrome []bool) error {
	return sim.with(h, func(reg *Register) error {
		return reg.Correct(syndrome)
	})
}

// RunCircuit executes a circuit against the handle's register.
func (sim *Simulator) RunCircuit(h Handle, c *Circuit) error {
	return sim.with(h, func(reg *Register) error {
		return c.Run(reg)
	})
}

// Clone copies a register under a new handle.
func (sim *Simulator) Clone(h Handle) (Handle, error) {
	var clone *Register
	if err := sim.with(h, func(reg *Register) error {
		clone = reg.Clone()
		return nil
	}); err != nil {
		return "", err
	}
	return sim.store(clone), nil
}

// Snapshot encodes the register for transport.
func (sim *Simulator) Snapshot(h Handle) (data []byte, err error) {
	err = sim.with(h, func(reg *Register) error {
		data = EncodeSnapshot(reg)
		return nil
	})
	return data, err
}

// Restore decodes a snapshot into a new handle.
func (sim *Simulator) Restore(data []byte) (Handle, error) {
	reg, err := DecodeSnapshot(data, sim.config.RegisterOptions()...)
	if err != nil {
		return "", err
	}
	return sim.store(reg), nil
}

// Release drops the register; the handle is invalid afterwards.
func (sim *Simulator) Release(h Handle) error {
	sim.mu.Lock()
	s, ok := sim.slots[h]
	delete(sim.slots, h)
	sim.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", h, ErrUnknownHandle)
	}

	s.mu.Lock()
	s.reg = nil
	s.mu.Unlock()

	errnie.Info("Release - handle %s", h)
	return nil
}

// Len reports how many registers are live.
func (sim *Simulator) Len() int {
	sim.mu.RLock()
	defer sim.mu.RUnlock()
	return len(sim.slots)
}
