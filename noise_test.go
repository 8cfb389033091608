package qsim

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func mustChannel(ch Channel, err error) Channel {
	if err != nil {
		panic(err)
	}
	return ch
}

func TestApplyChannel(t *testing.T) {
	Convey("Given a qubit in |1⟩", t, func() {
		reg := mustRegister(1)
		So(reg.Apply(PauliX(0)), ShouldBeNil)

		Convey("Full amplitude damping relaxes it to |0⟩", func() {
			So(reg.ApplyChannel(mustChannel(AmplitudeDamping(0, 1))), ShouldBeNil)
			So(reg.Probabilities()[0], ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("Partial amplitude damping moves gamma of the population", func() {
			So(reg.ApplyChannel(mustChannel(AmplitudeDamping(0, 0.3))), ShouldBeNil)
			So(reg.Probabilities()[0], ShouldAlmostEqual, 0.3, tolerance)
			So(real(reg.Trace()), ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("Phase damping leaves populations alone", func() {
			So(reg.ApplyChannel(mustChannel(PhaseDamping(0, 0.8))), ShouldBeNil)
			So(reg.Probabilities()[1], ShouldAlmostEqual, 1.0, tolerance)
		})
	})

	Convey("Given a qubit in |+⟩", t, func() {
		reg := mustRegister(1)
		So(reg.Apply(Hadamard(0)), ShouldBeNil)

		Convey("Phase damping shrinks the coherence by √(1-λ)", func() {
			So(reg.ApplyChannel(mustChannel(PhaseDamping(0, 0.75))), ShouldBeNil)
			So(real(reg.At(0, 1)), ShouldAlmostEqual, 0.25, tolerance)
			So(reg.Probabilities()[0], ShouldAlmostEqual, 0.5, tolerance)
		})

		Convey("Full depolarizing yields the maximally mixed state", func() {
			So(reg.ApplyChannel(mustChannel(Depolarizing(0, 1))), ShouldBeNil)
			So(reg.Purity(), ShouldAlmostEqual, 0.5, tolerance)
			So(real(reg.At(0, 1)), ShouldAlmostEqual, 0.0, tolerance)
		})
	})

	Convey("Given an entangled register", t, func() {
		reg := mixedState(3)

		Convey("Every channel keeps ρ Hermitian with unit trace", func() {
			channels := []Channel{
				mustChannel(AmplitudeDamping(0, 0.2)),
				mustChannel(PhaseDamping(1, 0.4)),
				mustChannel(Depolarizing(2, 0.6)),
			}
			for _, ch := range channels {
				So(ch.ApplyTo(reg), ShouldBeNil)
				So(reg.IsHermitian(), ShouldBeTrue)
				So(real(reg.Trace()), ShouldAlmostEqual, 1.0, tolerance)
			}
			So(reg.Purity(), ShouldBeLessThan, 1.0)
		})

		Convey("An out-of-range qubit is rejected", func() {
			err := reg.ApplyChannel(mustChannel(Depolarizing(3, 0.1)))
			So(errors.Is(err, ErrQubitIndexOutOfRange), ShouldBeTrue)
		})
	})

	Convey("Given a caller-built channel", t, func() {
		reg := mixedState(2)
		before := reg.Amplitudes()

		Convey("Kraus operators that scale the trace are rejected", func() {
			ch := Channel{Name: "amplify", Qubit: 0, Kraus: [][]complex128{{2, 0, 0, 2}}}
			err := reg.ApplyChannel(ch)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
			So(reg.Amplitudes(), ShouldResemble, before)
		})

		Convey("An empty Kraus set is rejected", func() {
			err := reg.ApplyChannel(Channel{Name: "void", Qubit: 1})
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
		})

		Convey("A circuit carrying it fails without committing", func() {
			c := NewCircuit(2).Add(
				PauliX(1),
				Channel{Name: "drain", Qubit: 0, Kraus: [][]complex128{{0, 0, 0, 0}}},
			)
			err := c.Run(reg)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
			So(reg.Amplitudes(), ShouldResemble, before)
			So(real(reg.Trace()), ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("A complete custom set is accepted", func() {
			flip := Channel{Name: "bit_flip", Qubit: 0, Kraus: [][]complex128{
				{complex(math.Sqrt(0.9), 0), 0, 0, complex(math.Sqrt(0.9), 0)},
				{0, complex(math.Sqrt(0.1), 0), complex(math.Sqrt(0.1), 0), 0},
			}}
			So(reg.ApplyChannel(flip), ShouldBeNil)
			So(real(reg.Trace()), ShouldAlmostEqual, 1.0, tolerance)
		})
	})

	Convey("Given channel parameters", t, func() {
		Convey("Probabilities outside [0, 1] are rejected", func() {
			for _, p := range []float64{-0.1, 1.5, math.NaN()} {
				_, err := Depolarizing(0, p)
				So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
			}
		})

		Convey("Channels resolve by name", func() {
			ch, err := BuildChannel("phase_damping", 1, 0.2)
			So(err, ShouldBeNil)
			So(ch.Qubit, ShouldEqual, 1)
			So(ch.Param, ShouldEqual, 0.2)

			_, err = BuildChannel("bit_rot", 0, 0.1)
			So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
		})
	})
}
