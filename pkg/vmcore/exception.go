package vmcore

import "errors"

// Fault sentinels. Any of these, surfaced through stepInto's error return,
// sets State |= FAULT with IP left at the faulting offset, per §4.1.
var (
	ErrInvalidOpcode    = errors.New("invalid opcode")
	ErrScriptBounds     = errors.New("script bounds violation")
	ErrDivideByZero     = errors.New("division by zero")
	ErrCallDepthLimit   = errors.New("call depth limit exceeded")
	ErrIntegerTooLarge  = errors.New("integer exceeds permitted size")
	ErrInvalidCast      = errors.New("invalid item conversion")
	ErrSyscallNotFound  = errors.New("syscall not found")
	ErrSyscallFailed    = errors.New("syscall returned failure")
)

// MaxCallDepth bounds the invocation-context stack.
const MaxCallDepth = 1024

// MaxIntegerSizeBytes bounds the size of a serialized integer operand.
const MaxIntegerSizeBytes = 32
