package qsim

import "math/cmplx"

const tolerance = 1e-9

func amplitudesClose(a, b []complex128) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if cmplx.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func mustRegister(n int) *Register {
	reg, err := NewRegister(n)
	if err != nil {
		panic(err)
	}
	return reg
}

// mixedState prepares a register that exercises phases and superposition.
func mixedState(n int) *Register {
	reg := mustRegister(n)
	gates := []GateSpec{Hadamard(0), T(0), RY(1, 0.3), CNOT(0, 1)}
	if n > 2 {
		gates = append(gates, PauliX(2), RX(2, 1.1), ControlledPhase(1, 2, 0.7))
	}
	if err := reg.ApplyAll(gates...); err != nil {
		panic(err)
	}
	return reg
}
