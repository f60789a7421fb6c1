package vmcore

import (
	"fmt"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

// stackOps handles instructions that rearrange items on the evaluation
// stack (and move items to/from the alt stack) without interpreting their
// values.
var stackOps = map[opcode.Opcode]func(*VM) error{
	opcode.TOALTSTACK:      opToAltStack,
	opcode.FROMALTSTACK:    opFromAltStack,
	opcode.DUPFROMALTSTACK: opDupFromAltStack,
	opcode.XDROP:           opXDrop,
	opcode.XSWAP:           opXSwap,
	opcode.XTUCK:           opXTuck,
	opcode.DEPTH:           opDepth,
	opcode.DROP:            opDrop,
	opcode.DUP:             opDup,
	opcode.NIP:             opNip,
	opcode.OVER:            opOver,
	opcode.PICK:            opPick,
	opcode.ROLL:            opRoll,
	opcode.ROT:             opRot,
	opcode.SWAP:            opSwap,
	opcode.TUCK:            opTuck,
}

func opToAltStack(v *VM) error {
	it, err := v.estack.Pop()
	if err != nil {
		return err
	}
	v.altstack.Push(it)
	return nil
}

func opFromAltStack(v *VM) error {
	it, err := v.altstack.Pop()
	if err != nil {
		return err
	}
	v.estack.Push(it)
	return nil
}

func opDupFromAltStack(v *VM) error {
	it, err := v.altstack.Top()
	if err != nil {
		return err
	}
	v.estack.Push(it.Dup())
	return nil
}

func popIndex(v *VM) (int, error) {
	it, err := v.estack.Pop()
	if err != nil {
		return 0, err
	}
	n, err := it.TryInteger()
	if err != nil {
		return 0, fmt.Errorf("%w: stack index", ErrInvalidCast)
	}
	return int(n.Int64()), nil
}

func opXDrop(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	_, err = v.estack.RemoveAt(n)
	return err
}

func opXSwap(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	a, err := v.estack.RemoveAt(n)
	if err != nil {
		return err
	}
	b, err := v.estack.Pop()
	if err != nil {
		return err
	}
	v.estack.Push(a)
	return v.estack.InsertAt(b, n)
}

func opXTuck(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	top, err := v.estack.Top()
	if err != nil {
		return err
	}
	return v.estack.InsertAt(top, n)
}

func opDepth(v *VM) error {
	v.estack.PushVal(v.estack.Len())
	return nil
}

func opDrop(v *VM) error {
	_, err := v.estack.Pop()
	return err
}

func opDup(v *VM) error {
	it, err := v.estack.Top()
	if err != nil {
		return err
	}
	v.estack.Push(it.Dup())
	return nil
}

func opNip(v *VM) error {
	_, err := v.estack.RemoveAt(1)
	return err
}

func opOver(v *VM) error {
	it, err := v.estack.Peek(1)
	if err != nil {
		return err
	}
	v.estack.Push(it.Dup())
	return nil
}

func opPick(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	it, err := v.estack.Peek(n)
	if err != nil {
		return err
	}
	v.estack.Push(it.Dup())
	return nil
}

func opRoll(v *VM) error {
	n, err := popIndex(v)
	if err != nil {
		return err
	}
	it, err := v.estack.RemoveAt(n)
	if err != nil {
		return err
	}
	v.estack.Push(it)
	return nil
}

func opRot(v *VM) error {
	it, err := v.estack.RemoveAt(2)
	if err != nil {
		return err
	}
	v.estack.Push(it)
	return nil
}

func opSwap(v *VM) error {
	a, err := v.estack.RemoveAt(1)
	if err != nil {
		return err
	}
	b, err := v.estack.Pop()
	if err != nil {
		return err
	}
	v.estack.Push(b)
	v.estack.Push(a)
	return nil
}

func opTuck(v *VM) error {
	top, err := v.estack.Top()
	if err != nil {
		return err
	}
	return v.estack.InsertAt(top.Dup(), 1)
}
