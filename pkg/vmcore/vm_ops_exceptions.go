package vmcore

import (
	"fmt"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

// exceptionOps handles THROW and THROWIFNOT, the classic VM's only explicit
// fault-raising instructions.
var exceptionOps = map[opcode.Opcode]func(*VM) error{
	opcode.THROW:      opThrow,
	opcode.THROWIFNOT: opThrowIfNot,
}

// ErrThrown is the sentinel wrapped when a script executes THROW, so
// callers can distinguish an explicit fault from an engine-internal one.
var ErrThrown = fmt.Errorf("script threw an exception")

func opThrow(v *VM) error {
	return ErrThrown
}

func opThrowIfNot(v *VM) error {
	cond, err := popBool(v)
	if err != nil {
		return err
	}
	if !cond {
		return ErrThrown
	}
	return nil
}
