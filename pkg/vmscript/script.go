// Package vmscript implements the immutable Script value, the smallest unit
// of loadable bytecode shared by the disassembler, the execution engine and
// the debug-map resolver.
package vmscript

import (
	"fmt"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

// ErrTruncated is returned when an instruction's inline operand runs past
// the end of the script.
var ErrTruncated = fmt.Errorf("truncated instruction operand")

// ErrInvalidOpcode is returned when a byte does not correspond to any known
// instruction.
var ErrInvalidOpcode = fmt.Errorf("invalid opcode")

// Script is an immutable byte sequence plus its cached instruction
// boundaries, so repeated stepping or disassembly doesn't re-walk the
// operand-length table for offsets already visited once.
type Script struct {
	raw     []byte
	bounds  map[int]int // instruction start offset -> byte length (opcode + operand)
}

// New parses b into a Script, validating that every instruction is
// well-formed and that the instruction byte-ranges tile [0, len(b)) exactly.
// This is what makes the disassembler deterministic (§8).
func New(b []byte) (*Script, error) {
	s := &Script{raw: b, bounds: make(map[int]int)}
	off := 0
	for off < len(b) {
		n, err := InstructionLen(b, off)
		if err != nil {
			return nil, err
		}
		s.bounds[off] = n
		off += n
	}
	return s, nil
}

// Bytes returns the raw script bytes. Callers must not modify the result.
func (s *Script) Bytes() []byte { return s.raw }

// Len returns the length of the script in bytes.
func (s *Script) Len() int { return len(s.raw) }

// InstructionLenAt returns the byte length of the instruction starting at
// off, or 0 if off is not an instruction boundary.
func (s *Script) InstructionLenAt(off int) int { return s.bounds[off] }

// IsInstructionStart reports whether off is the first byte of an
// instruction, as opposed to being inside an operand.
func (s *Script) IsInstructionStart(off int) bool {
	_, ok := s.bounds[off]
	return ok
}

// OpcodeAt returns the opcode at the given instruction-start offset.
func (s *Script) OpcodeAt(off int) opcode.Opcode {
	return opcode.Opcode(s.raw[off])
}

// OperandAt returns the operand bytes (if any) for the instruction at off.
func (s *Script) OperandAt(off int) []byte {
	n := s.bounds[off]
	op := opcode.Opcode(s.raw[off])
	hdr := headerLen(op, s.raw, off)
	if hdr >= n {
		return nil
	}
	return s.raw[off+hdr : off+n]
}

// headerLen returns 1 (the opcode byte) plus the length-prefix bytes that
// precede the operand payload itself, for PUSHDATA1/2/4 and for SYSCALL's
// one-byte name length.
func headerLen(op opcode.Opcode, b []byte, off int) int {
	switch op {
	case opcode.PUSHDATA1:
		return 2
	case opcode.PUSHDATA2:
		return 3
	case opcode.PUSHDATA4:
		return 5
	case opcode.SYSCALL:
		return 2
	default:
		return 1
	}
}

// InstructionLen computes the total byte length of the instruction at off,
// including its opcode byte and any inline operand.
func InstructionLen(b []byte, off int) (int, error) {
	if off >= len(b) {
		return 0, fmt.Errorf("%w: offset %d out of range", ErrInvalidOpcode, off)
	}
	op := opcode.Opcode(b[off])
	if !opcode.IsValid(op) {
		return 0, fmt.Errorf("%w: 0x%02x at offset %d", ErrInvalidOpcode, byte(op), off)
	}

	if op >= opcode.PUSHBYTES1 && op <= opcode.PUSHBYTES75 {
		n := 1 + int(op)
		if off+n > len(b) {
			return 0, fmt.Errorf("%w: PUSHBYTES at offset %d", ErrTruncated, off)
		}
		return n, nil
	}

	switch op {
	case opcode.PUSHDATA1:
		if off+2 > len(b) {
			return 0, fmt.Errorf("%w: PUSHDATA1 length byte at offset %d", ErrTruncated, off)
		}
		n := int(b[off+1])
		total := 2 + n
		if off+total > len(b) {
			return 0, fmt.Errorf("%w: PUSHDATA1 payload at offset %d", ErrTruncated, off)
		}
		return total, nil
	case opcode.PUSHDATA2:
		if off+3 > len(b) {
			return 0, fmt.Errorf("%w: PUSHDATA2 length bytes at offset %d", ErrTruncated, off)
		}
		n := int(b[off+1]) | int(b[off+2])<<8
		total := 3 + n
		if off+total > len(b) {
			return 0, fmt.Errorf("%w: PUSHDATA2 payload at offset %d", ErrTruncated, off)
		}
		return total, nil
	case opcode.PUSHDATA4:
		if off+5 > len(b) {
			return 0, fmt.Errorf("%w: PUSHDATA4 length bytes at offset %d", ErrTruncated, off)
		}
		n := int(b[off+1]) | int(b[off+2])<<8 | int(b[off+3])<<16 | int(b[off+4])<<24
		total := 5 + n
		if off+total > len(b) {
			return 0, fmt.Errorf("%w: PUSHDATA4 payload at offset %d", ErrTruncated, off)
		}
		return total, nil
	case opcode.JMP, opcode.JMPIF, opcode.JMPIFNOT, opcode.CALL:
		total := 1 + 2
		if off+total > len(b) {
			return 0, fmt.Errorf("%w: %s at offset %d", ErrTruncated, op, off)
		}
		return total, nil
	case opcode.APPCALL, opcode.TAILCALL:
		total := 1 + 20
		if off+total > len(b) {
			return 0, fmt.Errorf("%w: %s at offset %d", ErrTruncated, op, off)
		}
		return total, nil
	case opcode.SYSCALL:
		// Length-prefixed ASCII name: one length byte, then the name itself.
		if off+2 > len(b) {
			return 0, fmt.Errorf("%w: SYSCALL name length at offset %d", ErrTruncated, off)
		}
		n := int(b[off+1])
		if n > 252 {
			return 0, fmt.Errorf("%w: SYSCALL name too long at offset %d", ErrTruncated, off)
		}
		total := 2 + n
		if off+total > len(b) {
			return 0, fmt.Errorf("%w: SYSCALL name payload at offset %d", ErrTruncated, off)
		}
		return total, nil
	default:
		return 1, nil
	}
}
