package qsim

import (
	"errors"
	"math"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulator(t *testing.T) {
	Convey("Given a simulator with one register", t, func() {
		sim := NewSimulator(nil)
		h, err := sim.CreateRegister(2)
		So(err, ShouldBeNil)
		So(sim.Len(), ShouldEqual, 1)

		Convey("Gates requested by name change the register", func() {
			So(sim.ApplyGate(h, GateH, nil, []int{0}), ShouldBeNil)
			So(sim.ApplyGate(h, GateCNOT, nil, []int{0, 1}), ShouldBeNil)

			probs, err := sim.Measure(h, BasisZ)
			So(err, ShouldBeNil)
			So(probs[0], ShouldAlmostEqual, 0.5, tolerance)
			So(probs[3], ShouldAlmostEqual, 0.5, tolerance)

			entropy, err := sim.Entropy(h)
			So(err, ShouldBeNil)
			So(entropy, ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("Oversized registers are refused", func() {
			_, err := sim.CreateRegister(DefaultMaxQubits + 1)
			So(errors.Is(err, ErrInvalidDimension), ShouldBeTrue)
			So(sim.Len(), ShouldEqual, 1)
		})

		Convey("QFT and error correction run through the handle", func() {
			So(sim.QuantumFourierTransform(h, 0, 2), ShouldBeNil)
			entropy, err := sim.Entropy(h)
			So(err, ShouldBeNil)
			So(entropy, ShouldAlmostEqual, 2.0, tolerance)

			So(sim.CorrectErrors(h, []bool{false, false, false, false}), ShouldBeNil)
			err = sim.CorrectErrors(h, []bool{true})
			So(errors.Is(err, ErrSyndromeLengthMismatch), ShouldBeTrue)
		})

		Convey("Phase estimation runs through the handle", func() {
			So(sim.ApplyGate(h, GateX, nil, []int{1}), ShouldBeNil)
			phase, err := sim.PhaseEstimation(h, phaseUnitary(0, 0.5), 1)
			So(err, ShouldBeNil)
			So(phase, ShouldAlmostEqual, 0.5, tolerance)
		})

		Convey("Circuits run against the handle", func() {
			c := NewCircuit(2).Add(PauliX(1))
			So(sim.RunCircuit(h, c), ShouldBeNil)
			probs, err := sim.Measure(h, BasisZ)
			So(err, ShouldBeNil)
			So(probs[2], ShouldAlmostEqual, 1.0, tolerance)
		})

		Convey("A clone is independent of its source", func() {
			clone, err := sim.Clone(h)
			So(err, ShouldBeNil)
			So(clone, ShouldNotEqual, h)
			So(sim.ApplyGate(clone, GateX, nil, []int{0}), ShouldBeNil)

			probs, err := sim.Measure(h, BasisZ)
			So(err, ShouldBeNil)
			So(probs[0], ShouldEqual, 1.0)
		})

		Convey("Snapshots restore under a fresh handle", func() {
			So(sim.ApplyGate(h, GateRY, []float64{0.7}, []int{1}), ShouldBeNil)
			data, err := sim.Snapshot(h)
			So(err, ShouldBeNil)

			restored, err := sim.Restore(data)
			So(err, ShouldBeNil)
			So(restored, ShouldNotEqual, h)

			want, _ := sim.Measure(h, BasisX)
			got, err := sim.Measure(restored, BasisX)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, want)
		})

		Convey("A released handle is unknown", func() {
			So(sim.Release(h), ShouldBeNil)
			So(sim.Len(), ShouldEqual, 0)

			_, err := sim.Measure(h, BasisZ)
			So(errors.Is(err, ErrUnknownHandle), ShouldBeTrue)
			So(errors.Is(sim.Release(h), ErrUnknownHandle), ShouldBeTrue)
		})

		Convey("A made-up handle is unknown", func() {
			err := sim.ApplyGate(Handle("reg-999"), GateH, nil, []int{0})
			So(errors.Is(err, ErrUnknownHandle), ShouldBeTrue)
		})

		Convey("Concurrent callers on one handle take turns", func() {
			var wg sync.WaitGroup
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range 25 {
						_ = sim.ApplyGate(h, GateRX, []float64{0.1}, []int{0})
						_, _ = sim.Measure(h, BasisY)
					}
				}()
			}
			wg.Wait()

			// 200 rotations of 0.1 rad about X.
			probs, err := sim.Measure(h, BasisZ)
			So(err, ShouldBeNil)
			So(sum(probs), ShouldAlmostEqual, 1.0, 1e-6)
			So(probs[1], ShouldAlmostEqual, math.Pow(math.Sin(10), 2), 1e-6)
		})
	})
}
