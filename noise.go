package qsim

import (
	"fmt"
	"math"
	"math/cmplx"
)

/*
Channel is a single-qubit noise process given by its Kraus operators:
ρ' = Σ K ρ K†. ApplyChannel only accepts trace-preserving sets, Σ K†K = I.
*/
type Channel struct {
	Name  string
	Qubit int
	Kraus [][]complex128
	Param float64
}

func checkProbability(name string, p float64) error {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return fmt.Errorf("%s parameter %g outside [0, 1]: %w", name, p, ErrInvalidParameter)
	}
	return nil
}

// AmplitudeDamping relaxes |1⟩ towards |0⟩ with probability gamma.
func AmplitudeDamping(q int, gamma float64) (Channel, error) {
	if err := checkProbability("amplitude damping", gamma); err != nil {
		return Channel{}, err
	}
	return Channel{
		Name:  "amplitude_damping",
		Qubit: q,
		Param: gamma,
		Kraus: [][]complex128{
			{1, 0, 0, complex(math.Sqrt(1-gamma), 0)},
			{0, complex(math.Sqrt(gamma), 0), 0, 0},
		},
	}, nil
}

// PhaseDamping erodes coherences without exchanging population.
func PhaseDamping(q int, lambda float64) (Channel, error) {
	if err := checkProbability("phase damping", lambda); err != nil {
		return Channel{}, err
	}
	return Channel{
		Name:  "phase_damping",
		Qubit: q,
		Param: lambda,
		Kraus: [][]complex128{
			{1, 0, 0, complex(math.Sqrt(1-lambda), 0)},
			{0, 0, 0, complex(math.Sqrt(lambda), 0)},
		},
	}, nil
}

// Depolarizing replaces the qubit with the maximally mixed state with probability p.
func Depolarizing(q int, p float64) (Channel, error) {
	if err := checkProbability("depolarizing", p); err != nil {
		return Channel{}, err
	}

	a := complex(math.Sqrt(1-3*p/4), 0)
	b := complex(math.Sqrt(p/4), 0)

	return Channel{
		Name:  "depolarizing",
		Qubit: q,
		Param: p,
		Kraus: [][]complex128{
			{a, 0, 0, a},
			{0, b, b, 0},
			{0, -1i * b, 1i * b, 0},
			{b, 0, 0, -b},
		},
	}, nil
}

// BuildChannel resolves a channel by name, as used in circuit files.
func BuildChannel(name string, q int, p float64) (Channel, error) {
	switch name {
	case "amplitude_damping":
		return AmplitudeDamping(q, p)
	case "phase_damping":
		return PhaseDamping(q, p)
	case "depolarizing":
		return Depolarizing(q, p)
	default:
		return Channel{}, fmt.Errorf("channel %q: %w", name, ErrInvalidParameter)
	}
}

// ApplyChannel replaces ρ with Σ K ρ K†.
func (reg *Register) ApplyChannel(ch Channel) error {
	if err := reg.checkQubit(ch.Qubit); err != nil {
		return fmt.Errorf("channel %s: %w", ch.Name, err)
	}
	for _, k := range ch.Kraus {
		if err := validateOperator(k, 1); err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name, err)
		}
	}
	if !isTracePreserving(ch.Kraus, reg.tolerance) {
		return fmt.Errorf("channel %s: Σ K†K is not the identity: %w", ch.Name, ErrInvalidParameter)
	}

	targets := []int{ch.Qubit}
	out := make([]complex128, len(reg.data))
	for _, k := range ch.Kraus {
		for i, v := range reg.conjugate(targets, k) {
			out[i] += v
		}
	}
	reg.data = out

	return nil
}

// isTracePreserving checks Σ K†K = I entrywise within tol.
func isTracePreserving(kraus [][]complex128, tol float64) bool {
	if len(kraus) == 0 {
		return false
	}

	var sum [4]complex128
	for _, k := range kraus {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				for s := 0; s < 2; s++ {
					sum[i*2+j] += cmplx.Conj(k[s*2+i]) * k[s*2+j]
				}
			}
		}
	}
	sum[0] -= 1
	sum[3] -= 1

	for _, v := range sum {
		if cmplx.Abs(v) > tol {
			return false
		}
	}
	return true
}

// ApplyTo lets a Channel stand as a circuit operation.
func (ch Channel) ApplyTo(reg *Register) error {
	return reg.ApplyChannel(ch)
}
