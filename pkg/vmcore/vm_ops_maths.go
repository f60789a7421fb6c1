package vmcore

import (
	"fmt"
	"math/big"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
)

// arithOps handles integer arithmetic, numeric comparisons and boolean
// combinators over the evaluation stack.
var arithOps = map[opcode.Opcode]func(*VM) error{
	opcode.INC:         unary(func(a *big.Int) *big.Int { return new(big.Int).Add(a, big.NewInt(1)) }),
	opcode.DEC:         unary(func(a *big.Int) *big.Int { return new(big.Int).Sub(a, big.NewInt(1)) }),
	opcode.SIGN:        opSign,
	opcode.NEGATE:      unary(func(a *big.Int) *big.Int { return new(big.Int).Neg(a) }),
	opcode.ABS:         unary(func(a *big.Int) *big.Int { return new(big.Int).Abs(a) }),
	opcode.NOT:         opNot,
	opcode.NZ:          opNz,
	opcode.ADD:         binaryOp(func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }),
	opcode.SUB:         binaryOp(func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }),
	opcode.MUL:         binaryOp(func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }),
	opcode.DIV:         opDiv,
	opcode.MOD:         opMod,
	opcode.SHL:         binaryOp(func(a, b *big.Int) *big.Int { return new(big.Int).Lsh(a, uint(b.Int64())) }),
	opcode.SHR:         binaryOp(func(a, b *big.Int) *big.Int { return new(big.Int).Rsh(a, uint(b.Int64())) }),
	opcode.BOOLAND:     opBoolAnd,
	opcode.BOOLOR:      opBoolOr,
	opcode.NUMEQUAL:    cmpBool(func(c int) bool { return c == 0 }),
	opcode.NUMNOTEQUAL: cmpBool(func(c int) bool { return c != 0 }),
	opcode.LT:          cmpBool(func(c int) bool { return c < 0 }),
	opcode.GT:          cmpBool(func(c int) bool { return c > 0 }),
	opcode.LTE:         cmpBool(func(c int) bool { return c <= 0 }),
	opcode.GTE:         cmpBool(func(c int) bool { return c >= 0 }),
	opcode.MIN:         opMin,
	opcode.MAX:         opMax,
	opcode.WITHIN:      opWithin,
}

func popInt(v *VM) (*big.Int, error) {
	it, err := v.estack.Pop()
	if err != nil {
		return nil, err
	}
	n, err := it.TryInteger()
	if err != nil {
		return nil, fmt.Errorf("%w: expected Integer", ErrInvalidCast)
	}
	if len(n.Bytes()) > MaxIntegerSizeBytes {
		return nil, ErrIntegerTooLarge
	}
	return n, nil
}

func unary(f func(*big.Int) *big.Int) func(*VM) error {
	return func(v *VM) error {
		a, err := popInt(v)
		if err != nil {
			return err
		}
		v.estack.Push(stackitem.NewBigInteger(f(a)))
		return nil
	}
}

func binaryOp(f func(a, b *big.Int) *big.Int) func(*VM) error {
	return func(v *VM) error {
		b, err := popInt(v)
		if err != nil {
			return err
		}
		a, err := popInt(v)
		if err != nil {
			return err
		}
		v.estack.Push(stackitem.NewBigInteger(f(a, b)))
		return nil
	}
}

func cmpBool(f func(cmp int) bool) func(*VM) error {
	return func(v *VM) error {
		b, err := popInt(v)
		if err != nil {
			return err
		}
		a, err := popInt(v)
		if err != nil {
			return err
		}
		v.estack.Push(stackitem.NewBool(f(a.Cmp(b))))
		return nil
	}
}

func opSign(v *VM) error {
	a, err := popInt(v)
	if err != nil {
		return err
	}
	v.estack.Push(stackitem.NewBigInteger(big.NewInt(int64(a.Sign()))))
	return nil
}

func opNot(v *VM) error {
	it, err := v.estack.Pop()
	if err != nil {
		return err
	}
	b, err := it.TryBool()
	if err != nil {
		return fmt.Errorf("%w: NOT operand", ErrInvalidCast)
	}
	v.estack.Push(stackitem.NewBool(!b))
	return nil
}

func opNz(v *VM) error {
	a, err := popInt(v)
	if err != nil {
		return err
	}
	v.estack.Push(stackitem.NewBool(a.Sign() != 0))
	return nil
}

func opDiv(v *VM) error {
	b, err := popInt(v)
	if err != nil {
		return err
	}
	a, err := popInt(v)
	if err != nil {
		return err
	}
	if b.Sign() == 0 {
		return ErrDivideByZero
	}
	v.estack.Push(stackitem.NewBigInteger(new(big.Int).Quo(a, b)))
	return nil
}

func opMod(v *VM) error {
	b, err := popInt(v)
	if err != nil {
		return err
	}
	a, err := popInt(v)
	if err != nil {
		return err
	}
	if b.Sign() == 0 {
		return ErrDivideByZero
	}
	v.estack.Push(stackitem.NewBigInteger(new(big.Int).Rem(a, b)))
	return nil
}

func popBool(v *VM) (bool, error) {
	it, err := v.estack.Pop()
	if err != nil {
		return false, err
	}
	b, err := it.TryBool()
	if err != nil {
		return false, fmt.Errorf("%w: expected Boolean", ErrInvalidCast)
	}
	return b, nil
}

func opBoolAnd(v *VM) error {
	b, err := popBool(v)
	if err != nil {
		return err
	}
	a, err := popBool(v)
	if err != nil {
		return err
	}
	v.estack.Push(stackitem.NewBool(a && b))
	return nil
}

func opBoolOr(v *VM) error {
	b, err := popBool(v)
	if err != nil {
		return err
	}
	a, err := popBool(v)
	if err != nil {
		return err
	}
	v.estack.Push(stackitem.NewBool(a || b))
	return nil
}

func opMin(v *VM) error {
	b, err := popInt(v)
	if err != nil {
		return err
	}
	a, err := popInt(v)
	if err != nil {
		return err
	}
	if a.Cmp(b) <= 0 {
		v.estack.Push(stackitem.NewBigInteger(a))
	} else {
		v.estack.Push(stackitem.NewBigInteger(b))
	}
	return nil
}

func opMax(v *VM) error {
	b, err := popInt(v)
	if err != nil {
		return err
	}
	a, err := popInt(v)
	if err != nil {
		return err
	}
	if a.Cmp(b) >= 0 {
		v.estack.Push(stackitem.NewBigInteger(a))
	} else {
		v.estack.Push(stackitem.NewBigInteger(b))
	}
	return nil
}

func opWithin(v *VM) error {
	max, err := popInt(v)
	if err != nil {
		return err
	}
	min, err := popInt(v)
	if err != nil {
		return err
	}
	x, err := popInt(v)
	if err != nil {
		return err
	}
	v.estack.Push(stackitem.NewBool(x.Cmp(min) >= 0 && x.Cmp(max) < 0))
	return nil
}
