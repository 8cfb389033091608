package qsim

import "errors"

// Validation failures. Every one of them is detected before a register is
// touched, so a failed call leaves the register exactly as it was.
var (
	ErrInvalidDimension       = errors.New("invalid register dimension")
	ErrQubitIndexOutOfRange   = errors.New("qubit index out of range")
	ErrDimensionMismatch      = errors.New("dimension mismatch")
	ErrInsufficientQubits     = errors.New("insufficient qubits")
	ErrSyndromeLengthMismatch = errors.New("syndrome length mismatch")
	ErrUnsupportedBasis       = errors.New("unsupported measurement basis")
	ErrNonUnitary             = errors.New("operator is not unitary")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrUnknownGate            = errors.New("unknown gate kind")
	ErrUnknownHandle          = errors.New("unknown register handle")
	ErrCorruptSnapshot        = errors.New("corrupt register snapshot")
)
