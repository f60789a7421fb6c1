package vmcore

import (
	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
)

// bitwiseOps handles byte-wise logic and generic equality.
var bitwiseOps = map[opcode.Opcode]func(*VM) error{
	opcode.INVERT: opInvert,
	opcode.AND:    opAnd,
	opcode.OR:     opOr,
	opcode.XOR:    opXor,
	opcode.EQUAL:  opEqual,
}

func opInvert(v *VM) error {
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	out := make([]byte, len(b))
	for i, x := range b {
		out[i] = ^x
	}
	v.estack.PushVal(out)
	return nil
}

func zipBytes(a, b []byte, f func(x, y byte) byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		var x, y byte
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = f(x, y)
	}
	return out
}

func opAnd(v *VM) error {
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	a, err := popBytes(v)
	if err != nil {
		return err
	}
	v.estack.PushVal(zipBytes(a, b, func(x, y byte) byte { return x & y }))
	return nil
}

func opOr(v *VM) error {
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	a, err := popBytes(v)
	if err != nil {
		return err
	}
	v.estack.PushVal(zipBytes(a, b, func(x, y byte) byte { return x | y }))
	return nil
}

func opXor(v *VM) error {
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	a, err := popBytes(v)
	if err != nil {
		return err
	}
	v.estack.PushVal(zipBytes(a, b, func(x, y byte) byte { return x ^ y }))
	return nil
}

// opEqual compares the two top items structurally, following each variant's
// own Equals rule (byte-array content, integer value, boolean value).
func opEqual(v *VM) error {
	b, err := v.estack.Pop()
	if err != nil {
		return err
	}
	a, err := v.estack.Pop()
	if err != nil {
		return err
	}
	v.estack.Push(stackitem.NewBool(equalItems(a, b)))
	return nil
}

func equalItems(a, b stackitem.Item) bool {
	if a.Equals(b) {
		return true
	}
	// Byte-array/integer/boolean are mutually comparable by coercing to
	// bytes, matching the classic VM's "compare as byte strings" fallback.
	ab, err1 := a.TryBytes()
	bb, err2 := b.TryBytes()
	if err1 != nil || err2 != nil {
		return false
	}
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}
