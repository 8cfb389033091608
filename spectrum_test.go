package qsim

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEigenvalues(t *testing.T) {
	Convey("Given a pure state with coherences", t, func() {
		reg := mixedState(3)

		Convey("The spectrum is one 1 and zeros", func() {
			eig := reg.Eigenvalues()
			So(len(eig), ShouldEqual, 8)
			So(eig[7], ShouldAlmostEqual, 1.0, 1e-9)
			for _, lambda := range eig[:7] {
				So(lambda, ShouldAlmostEqual, 0.0, 1e-9)
			}
		})
	})

	Convey("Given a partially depolarized qubit", t, func() {
		reg := mustRegister(1)
		So(reg.ApplyAll(Hadamard(0), S(0)), ShouldBeNil)
		So(reg.ApplyChannel(mustChannel(Depolarizing(0, 0.4))), ShouldBeNil)

		Convey("The eigenvalues are (1 ± (1-p))/2", func() {
			eig := reg.Eigenvalues()
			So(eig[0], ShouldAlmostEqual, 0.2, 1e-9)
			So(eig[1], ShouldAlmostEqual, 0.8, 1e-9)
		})
	})
}

func TestVonNeumannEntropy(t *testing.T) {
	Convey("Given |+⟩ on one qubit", t, func() {
		reg := mustRegister(1)
		So(reg.Apply(Hadamard(0)), ShouldBeNil)

		Convey("It is pure although its diagonal is spread", func() {
			So(reg.Entropy(), ShouldAlmostEqual, 1.0, tolerance)
			So(reg.VonNeumannEntropy(), ShouldAlmostEqual, 0.0, 1e-9)
		})
	})

	Convey("Given a mixed state with off-diagonal terms", t, func() {
		reg := mustRegister(1)
		So(reg.Apply(RY(0, math.Pi/3)), ShouldBeNil)
		So(reg.ApplyChannel(mustChannel(Depolarizing(0, 0.5))), ShouldBeNil)

		Convey("The entropy follows the spectrum, not the diagonal", func() {
			want := -(0.75*math.Log2(0.75) + 0.25*math.Log2(0.25))
			So(reg.VonNeumannEntropy(), ShouldAlmostEqual, want, 1e-9)
			So(reg.Entropy(), ShouldNotAlmostEqual, want, 1e-3)
		})
	})
}

func TestEntanglementEntropy(t *testing.T) {
	Convey("Given a Bell pair next to a rotated qubit", t, func() {
		reg := mustRegister(3)
		So(reg.ApplyAll(Hadamard(0), CNOT(0, 1), Hadamard(2)), ShouldBeNil)

		Convey("Either half of the pair carries one bit", func() {
			s, err := reg.EntanglementEntropy(0)
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 1.0, 1e-9)

			s, err = reg.EntanglementEntropy(1, 2)
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("The unentangled |+⟩ carries none", func() {
			s, err := reg.EntanglementEntropy(2)
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 0.0, 1e-9)
		})

		Convey("The whole register is pure", func() {
			s, err := reg.EntanglementEntropy(0, 1, 2)
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 0.0, 1e-9)
		})

		Convey("An out-of-range qubit is rejected", func() {
			_, err := reg.EntanglementEntropy(3)
			So(errors.Is(err, ErrQubitIndexOutOfRange), ShouldBeTrue)
		})
	})

	Convey("Given a simulator handle holding a Bell pair", t, func() {
		sim := NewSimulator(nil)
		h, err := sim.CreateRegister(2)
		So(err, ShouldBeNil)
		So(sim.ApplyGate(h, GateH, nil, []int{0}), ShouldBeNil)
		So(sim.ApplyGate(h, GateCNOT, nil, []int{0, 1}), ShouldBeNil)

		Convey("The entanglement entropy is one bit", func() {
			s, err := sim.EntanglementEntropy(h, 1)
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}
