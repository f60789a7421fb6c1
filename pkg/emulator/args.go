package emulator

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
)

// ArgKind tags the variant of an untyped argument tree, per the sum-type
// model the spec's §9 design note prescribes in place of a generic tagged
// tree.
type ArgKind int

const (
	ArgNull ArgKind = iota
	ArgBool
	ArgInt
	ArgBytes
	ArgString
	ArgList
)

// Arg is one node of an argument tree passed to Emulator.Reset.
type Arg struct {
	Kind  ArgKind
	Bool  bool
	Int   *big.Int
	Bytes []byte
	Str   string
	List  []Arg
}

// NullArg returns the null variant.
func NullArg() Arg { return Arg{Kind: ArgNull} }

// BoolArg wraps a boolean.
func BoolArg(b bool) Arg { return Arg{Kind: ArgBool, Bool: b} }

// IntArg wraps an integer.
func IntArg(n int64) Arg { return Arg{Kind: ArgInt, Int: big.NewInt(n)} }

// BigIntArg wraps an arbitrary-precision integer.
func BigIntArg(n *big.Int) Arg { return Arg{Kind: ArgInt, Int: n} }

// BytesArg wraps a raw byte-array.
func BytesArg(b []byte) Arg { return Arg{Kind: ArgBytes, Bytes: b} }

// StringArg wraps a UTF-8 string.
func StringArg(s string) Arg { return Arg{Kind: ArgString, Str: s} }

// ListArg wraps an ordered list of arguments.
func ListArg(items ...Arg) Arg { return Arg{Kind: ArgList, List: items} }

// BuildLoaderScript encodes args, in the given order, into bytecode that
// pushes each onto the evaluation stack in reverse (so the first argument
// ends up on top, matching the contract calling convention), per §4.3's
// argument-marshalling rule.
func BuildLoaderScript(args []Arg) ([]byte, error) {
	var out []byte
	for i := len(args) - 1; i >= 0; i-- {
		enc, err := encodeArg(args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, enc...)
	}
	return out, nil
}

func encodeArg(a Arg) ([]byte, error) {
	switch a.Kind {
	case ArgNull:
		return emitBytes(nil), nil
	case ArgBool:
		if a.Bool {
			return []byte{byte(opcode.PUSH1)}, nil
		}
		return []byte{byte(opcode.PUSH0)}, nil
	case ArgInt:
		return emitInt(a.Int), nil
	case ArgBytes:
		return emitByteArrayAsPackedInts(a.Bytes), nil
	case ArgString:
		return emitBytes([]byte(a.Str)), nil
	case ArgList:
		var out []byte
		for i := len(a.List) - 1; i >= 0; i-- {
			enc, err := encodeArg(a.List[i])
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		out = append(out, emitInt(big.NewInt(int64(len(a.List))))...)
		out = append(out, byte(opcode.PACK))
		return out, nil
	default:
		return nil, fmt.Errorf("unknown argument kind %d", a.Kind)
	}
}

// emitInt encodes n as the shortest push instruction available: the
// PUSHM1/PUSH1..16 shortcuts for -1..16, otherwise a minimal signed
// two's-complement little-endian PUSHDATA, per §4.3.
func emitInt(n *big.Int) []byte {
	if n.IsInt64() {
		v := n.Int64()
		if v == -1 {
			return []byte{byte(opcode.PUSHM1)}
		}
		if v >= 1 && v <= 16 {
			return []byte{byte(opcode.PUSH1) + byte(v-1)}
		}
		if v == 0 {
			return []byte{byte(opcode.PUSH0)}
		}
	}
	return emitBytes(stackitem.BigIntToBytes(n))
}

// emitByteArrayAsPackedInts encodes b the way the spec's §4.3 argument
// convention requires for raw byte-array arguments: each byte pushed as its
// own single-byte Integer, then PUSHed length, then PACKed into a NEO
// Array — the "byte-array detection" heuristic from §9 (a list whose
// children are all numeric 0..255) relies on exactly this shape.
func emitByteArrayAsPackedInts(b []byte) []byte {
	var out []byte
	for i := len(b) - 1; i >= 0; i-- {
		out = append(out, emitInt(big.NewInt(int64(b[i])))...)
	}
	out = append(out, emitInt(big.NewInt(int64(len(b))))...)
	out = append(out, byte(opcode.PACK))
	return out
}

// emitBytes encodes b as the shortest byte-array push instruction: inline
// PUSHBYTES1..75 for short payloads, PUSHDATA1/2/4 otherwise.
func emitBytes(b []byte) []byte {
	n := len(b)
	switch {
	case n == 0:
		return []byte{byte(opcode.PUSH0)}
	case n <= 75:
		out := make([]byte, 0, 1+n)
		out = append(out, byte(opcode.PUSHBYTES1)+byte(n-1))
		return append(out, b...)
	case n <= 255:
		out := []byte{byte(opcode.PUSHDATA1), byte(n)}
		return append(out, b...)
	case n <= 65535:
		out := make([]byte, 3, 3+n)
		out[0] = byte(opcode.PUSHDATA2)
		binary.LittleEndian.PutUint16(out[1:3], uint16(n))
		return append(out, b...)
	default:
		out := make([]byte, 5, 5+n)
		out[0] = byte(opcode.PUSHDATA4)
		binary.LittleEndian.PutUint32(out[1:5], uint32(n))
		return append(out, b...)
	}
}
