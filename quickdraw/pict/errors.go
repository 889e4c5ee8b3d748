package pict

import "github.com/pkg/errors"

// ErrUnsupportedOpcode is returned when the opcode stream contains a value
// outside the dispatcher's closed opcode set.
var ErrUnsupportedOpcode = errors.New("pict: unsupported opcode")

// UnsupportedOpcodeError carries the offending opcode value.
type UnsupportedOpcodeError struct {
	Opcode uint16
}

func (e *UnsupportedOpcodeError) Error() string {
	return errors.Wrapf(ErrUnsupportedOpcode, "opcode=0x%04X", e.Opcode).Error()
}

func (e *UnsupportedOpcodeError) Unwrap() error { return ErrUnsupportedOpcode }

// ErrUnsupportedPackType is returned when a direct_bits_rect names a
// pack_type outside {1 (absent), 2, 3, 4}.
var ErrUnsupportedPackType = errors.New("pict: unsupported pack type")

// UnsupportedPackTypeError carries the offending pack_type value.
type UnsupportedPackTypeError struct {
	PackType uint16
}

func (e *UnsupportedPackTypeError) Error() string {
	return errors.Wrapf(ErrUnsupportedPackType, "pack_type=%d", e.PackType).Error()
}

func (e *UnsupportedPackTypeError) Unwrap() error { return ErrUnsupportedPackType }
