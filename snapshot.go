package qsim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/golang/snappy"
)

const (
	snapshotMagic   = "QREG"
	snapshotVersion = 1
	snapshotHeader  = len(snapshotMagic) + 2
)

/*
EncodeSnapshot serialises the full amplitude buffer and its dimension:

	"QREG" | version (1 byte) | qubits (1 byte) | dim² × (re, im) float64 LE

and compresses the result with snappy. Density matrices of sparse circuits
are mostly zeros, which snappy folds away.
*/
func EncodeSnapshot(reg *Register) []byte {
	raw := make([]byte, snapshotHeader+len(reg.data)*16)

	copy(raw, snapshotMagic)
	raw[len(snapshotMagic)] = snapshotVersion
	raw[len(snapshotMagic)+1] = byte(reg.numQubits)

	body := raw[snapshotHeader:]
	for i, amp := range reg.data {
		binary.LittleEndian.PutUint64(body[i*16:], math.Float64bits(real(amp)))
		binary.LittleEndian.PutUint64(body[i*16+8:], math.Float64bits(imag(amp)))
	}

	return snappy.Encode(nil, raw)
}

// DecodeSnapshot restores a register written by EncodeSnapshot.
func DecodeSnapshot(data []byte, opts ...RegisterOption) (*Register, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %v: %w", err, ErrCorruptSnapshot)
	}

	if len(raw) < snapshotHeader || !bytes.Equal(raw[:len(snapshotMagic)], []byte(snapshotMagic)) {
		return nil, fmt.Errorf("missing %s header: %w", snapshotMagic, ErrCorruptSnapshot)
	}
	if v := raw[len(snapshotMagic)]; v != snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d: %w", v, ErrCorruptSnapshot)
	}

	numQubits := int(raw[len(snapshotMagic)+1])
	if numQubits < 1 || numQubits > HardMaxQubits {
		return nil, fmt.Errorf("snapshot claims %d qubits: %w", numQubits, ErrCorruptSnapshot)
	}

	dim := 1 << numQubits
	body := raw[snapshotHeader:]
	if len(body) != dim*dim*16 {
		return nil, fmt.Errorf(
			"snapshot body is %d bytes, %d qubits need %d: %w",
			len(body), numQubits, dim*dim*16, ErrCorruptSnapshot,
		)
	}

	amplitudes := make([]complex128, dim*dim)
	for i := range amplitudes {
		re := math.Float64frombits(binary.LittleEndian.Uint64(body[i*16:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(body[i*16+8:]))
		amplitudes[i] = complex(re, im)
	}

	return RestoreRegister(numQubits, amplitudes, opts...)
}
