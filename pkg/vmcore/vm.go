// Package vmcore implements the ExecutionEngine: opcode dispatch,
// evaluation/alt stack, invocation-context stack, breakpoint checking and
// fault/halt/break state tracking, per §4.1 of the spec.
package vmcore

import (
	"fmt"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
	"github.com/phetter/neo-debugger-tools/pkg/vmscript"
)

// SyscallHandler is the function a named interop resolves to. It receives
// the engine as its context and reports success via its error return —
// a non-nil error means the syscall failed and the VM should fault.
type SyscallHandler func(*VM) error

// SyscallResolver resolves a SYSCALL name to its handler. Implemented by
// the interop package's Registry; kept as an interface here so vmcore
// doesn't depend on interop (interop depends on vmcore instead, avoiding
// a cycle).
type SyscallResolver interface {
	Resolve(name string) (SyscallHandler, bool)
}

// ContractResolver resolves a 20-byte script hash to deployed bytecode, for
// APPCALL/TAILCALL. Implemented by chainsim.Blockchain.
type ContractResolver interface {
	ResolveContract(scriptHash [20]byte) ([]byte, bool)
}

// NotificationEvent is one runtime notification or log line emitted by a
// syscall handler, appended to the VM's observable event list (§4.2).
type NotificationEvent struct {
	ScriptHash [20]byte
	Name       string
	State      stackitem.Item
}

// VM is the core opcode interpreter.
type VM struct {
	istack   []*Context
	estack   Stack
	altstack Stack

	state       State
	lastOpcode  opcode.Opcode
	lastSysCall string
	lastFault   error

	resolver    SyscallResolver
	contracts   ContractResolver

	// ScriptContainerHandle is the transaction-like object interop
	// handlers treat as "the signed message", passed by reference at
	// construction rather than via a back-pointer from the container
	// (design note in §9 of the spec).
	ScriptContainerHandle any

	Notifications []NotificationEvent
}

// New returns a VM with no script loaded.
func New() *VM {
	return &VM{state: NONE}
}

// SetInteropResolver wires the registry the VM consults on SYSCALL.
func (v *VM) SetInteropResolver(r SyscallResolver) { v.resolver = r }

// SetContractResolver wires the lookup the VM consults on APPCALL/TAILCALL.
func (v *VM) SetContractResolver(r ContractResolver) { v.contracts = r }

// LoadScript pushes a new invocation Context for the given raw bytecode,
// with the instruction pointer at 0.
func (v *VM) LoadScript(raw []byte, scriptHash [20]byte) error {
	if len(v.istack) >= MaxCallDepth {
		return ErrCallDepthLimit
	}
	script, err := vmscript.New(raw)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	v.istack = append(v.istack, NewContext(script, scriptHash))
	return nil
}

// CurrentContext returns the top invocation context, or nil if none is
// loaded.
func (v *VM) CurrentContext() *Context {
	if len(v.istack) == 0 {
		return nil
	}
	return v.istack[len(v.istack)-1]
}

// Depth returns the number of active invocation contexts.
func (v *VM) Depth() int { return len(v.istack) }

// Estack returns the evaluation stack.
func (v *VM) Estack() *Stack { return &v.estack }

// Altstack returns the alt stack.
func (v *VM) Altstack() *Stack { return &v.altstack }

// State returns the current bitflag state.
func (v *VM) State() State { return v.state }

// LastOpcode returns the opcode most recently executed by stepInto.
func (v *VM) LastOpcode() opcode.Opcode { return v.lastOpcode }

// LastSysCall returns the interop name most recently dispatched, or "" if
// the last step wasn't a SYSCALL.
func (v *VM) LastSysCall() string { return v.lastSysCall }

// LastFault returns the error that set the FAULT flag, if any.
func (v *VM) LastFault() error { return v.lastFault }

// AddBreakpoint arms a breakpoint at offset in the currently-top script.
func (v *VM) AddBreakpoint(offset int) {
	if ctx := v.CurrentContext(); ctx != nil {
		ctx.AddBreakpoint(offset)
	}
}

// RemoveBreakpoint disarms a breakpoint at offset in the currently-top
// script.
func (v *VM) RemoveBreakpoint(offset int) {
	if ctx := v.CurrentContext(); ctx != nil {
		ctx.RemoveBreakpoint(offset)
	}
}

// StepInto fetches the opcode at IP in the top context, executes one
// instruction (which may push/pop contexts), advances IP past the
// instruction and its inline operand, then — if the new IP is a
// breakpoint — sets BREAK. Faults leave IP at the faulting offset.
func (v *VM) StepInto() error {
	if v.state.Has(HALT) || v.state.Has(FAULT) {
		return nil
	}
	v.state &^= BREAK
	v.lastSysCall = ""

	ctx := v.CurrentContext()
	if ctx == nil {
		v.state |= HALT
		return nil
	}
	if ctx.AtEnd() {
		return v.doReturn()
	}

	op, operand := ctx.CurrentInstruction()
	v.lastOpcode = op

	startIP := ctx.IP()
	n := ctx.script.InstructionLenAt(startIP)
	if n == 0 {
		v.fault(fmt.Errorf("%w: offset %d", ErrScriptBounds, startIP))
		return v.lastFault
	}
	ctx.Jump(startIP + n)

	if err := v.execute(op, operand); err != nil {
		ctx.Jump(startIP)
		v.fault(err)
		return err
	}

	if newCtx := v.CurrentContext(); newCtx != nil && newCtx.AtBreakpoint() {
		v.state |= BREAK
	}
	if len(v.istack) == 0 {
		v.state |= HALT
	}
	return nil
}

// fault sets the FAULT flag and records err.
func (v *VM) fault(err error) {
	v.state |= FAULT
	v.lastFault = err
}

// doReturn pops the current context (an implicit RET when IP runs off the
// end of the script) and halts if that was the last one.
func (v *VM) doReturn() error {
	v.istack = v.istack[:len(v.istack)-1]
	if len(v.istack) == 0 {
		v.state |= HALT
	}
	return nil
}

// execute dispatches a single decoded instruction. It never advances IP
// itself except for control-flow instructions that explicitly jump.
func (v *VM) execute(op opcode.Opcode, operand []byte) error {
	switch {
	case op <= opcode.PUSH16:
		return v.execPush(op, operand)
	}

	if fn, ok := flowOps[op]; ok {
		return fn(v, operand)
	}
	if fn, ok := stackOps[op]; ok {
		return fn(v)
	}
	if fn, ok := spliceOps[op]; ok {
		return fn(v)
	}
	if fn, ok := bitwiseOps[op]; ok {
		return fn(v)
	}
	if fn, ok := arithOps[op]; ok {
		return fn(v)
	}
	if fn, ok := cryptoOps[op]; ok {
		return fn(v)
	}
	if fn, ok := compositeOps[op]; ok {
		return fn(v)
	}
	if fn, ok := exceptionOps[op]; ok {
		return fn(v)
	}
	return fmt.Errorf("%w: %s", ErrInvalidOpcode, op)
}
