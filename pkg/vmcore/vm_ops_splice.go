package vmcore

import (
	"fmt"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

// spliceOps handles byte-array slicing/concatenation and SIZE.
var spliceOps = map[opcode.Opcode]func(*VM) error{
	opcode.CAT:    opCat,
	opcode.SUBSTR: opSubstr,
	opcode.LEFT:   opLeft,
	opcode.RIGHT:  opRight,
	opcode.SIZE:   opSize,
}

func popBytes(v *VM) ([]byte, error) {
	it, err := v.estack.Pop()
	if err != nil {
		return nil, err
	}
	b, err := it.TryBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: expected ByteArray", ErrInvalidCast)
	}
	return b, nil
}

func opCat(v *VM) error {
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	a, err := popBytes(v)
	if err != nil {
		return err
	}
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	v.estack.PushVal(out)
	return nil
}

func opSubstr(v *VM) error {
	count, err := popIndex(v)
	if err != nil {
		return err
	}
	start, err := popIndex(v)
	if err != nil {
		return err
	}
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	if start < 0 || count < 0 || start+count > len(b) {
		return fmt.Errorf("%w: SUBSTR range", ErrScriptBounds)
	}
	v.estack.PushVal(b[start : start+count])
	return nil
}

func opLeft(v *VM) error {
	count, err := popIndex(v)
	if err != nil {
		return err
	}
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	if count < 0 || count > len(b) {
		return fmt.Errorf("%w: LEFT range", ErrScriptBounds)
	}
	v.estack.PushVal(b[:count])
	return nil
}

func opRight(v *VM) error {
	count, err := popIndex(v)
	if err != nil {
		return err
	}
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	if count < 0 || count > len(b) {
		return fmt.Errorf("%w: RIGHT range", ErrScriptBounds)
	}
	v.estack.PushVal(b[len(b)-count:])
	return nil
}

func opSize(v *VM) error {
	b, err := popBytes(v)
	if err != nil {
		return err
	}
	v.estack.PushVal(len(b))
	return nil
}
