package qsim

import (
	"errors"
	"testing"

	"github.com/golang/snappy"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshot(t *testing.T) {
	Convey("Given an encoded register", t, func() {
		reg := mixedState(3)
		data := EncodeSnapshot(reg)

		Convey("Decoding restores every amplitude", func() {
			restored, err := DecodeSnapshot(data)
			So(err, ShouldBeNil)
			So(restored.NumQubits(), ShouldEqual, 3)
			So(restored.Amplitudes(), ShouldResemble, reg.Amplitudes())
		})

		Convey("A sparse register compresses below its raw size", func() {
			sparse := EncodeSnapshot(mustRegister(6))
			So(len(sparse), ShouldBeLessThan, snapshotHeader+64*64*16)
		})

		Convey("Bytes that are not snappy are rejected", func() {
			_, err := DecodeSnapshot([]byte("not a snapshot"))
			So(errors.Is(err, ErrCorruptSnapshot), ShouldBeTrue)
		})

		Convey("A wrong magic is rejected", func() {
			_, err := DecodeSnapshot(snappy.Encode(nil, []byte("QRAG\x01\x01")))
			So(errors.Is(err, ErrCorruptSnapshot), ShouldBeTrue)
		})

		Convey("An unknown version is rejected", func() {
			raw, _ := snappy.Decode(nil, data)
			raw[len(snapshotMagic)] = 9
			_, err := DecodeSnapshot(snappy.Encode(nil, raw))
			So(errors.Is(err, ErrCorruptSnapshot), ShouldBeTrue)
		})

		Convey("A truncated body is rejected", func() {
			raw, _ := snappy.Decode(nil, data)
			_, err := DecodeSnapshot(snappy.Encode(nil, raw[:len(raw)-16]))
			So(errors.Is(err, ErrCorruptSnapshot), ShouldBeTrue)
		})

		Convey("A snapshot larger than the configured cap is rejected", func() {
			_, err := DecodeSnapshot(data, WithMaxQubits(2))
			So(errors.Is(err, ErrInvalidDimension), ShouldBeTrue)
		})
	})
}
