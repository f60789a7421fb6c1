package vmcore

import (
	"encoding/binary"
	"fmt"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

// flowOps handles control-flow instructions: NOP, JMP family, CALL, RET,
// APPCALL, TAILCALL, SYSCALL. They take the raw operand bytes because the
// jump target/interop name lives there, not on the stack.
var flowOps = map[opcode.Opcode]func(*VM, []byte) error{
	opcode.NOP:      func(v *VM, _ []byte) error { return nil },
	opcode.JMP:      opJmp,
	opcode.JMPIF:    opJmpIf,
	opcode.JMPIFNOT: opJmpIfNot,
	opcode.CALL:     opCall,
	opcode.RET:      opRet,
	opcode.APPCALL:  opAppCall,
	opcode.TAILCALL: opTailCall,
	opcode.SYSCALL:  opSyscall,
}

// jumpTarget decodes a signed 16-bit relative offset and returns the
// absolute target, measured from the start of the JMP-family instruction
// (classic NEO VM convention).
func jumpTarget(startIP int, operand []byte) int {
	rel := int16(binary.LittleEndian.Uint16(operand))
	return startIP + int(rel)
}

func opJmp(v *VM, operand []byte) error {
	ctx := v.CurrentContext()
	target := jumpTarget(ctx.IP()-3, operand)
	if target < 0 || target > ctx.script.Len() {
		return fmt.Errorf("%w: JMP target %d", ErrScriptBounds, target)
	}
	ctx.Jump(target)
	return nil
}

func opJmpIf(v *VM, operand []byte) error {
	it, err := v.estack.Pop()
	if err != nil {
		return err
	}
	cond, err := it.TryBool()
	if err != nil {
		return fmt.Errorf("%w: JMPIF condition", ErrInvalidCast)
	}
	if cond {
		return opJmp(v, operand)
	}
	return nil
}

func opJmpIfNot(v *VM, operand []byte) error {
	it, err := v.estack.Pop()
	if err != nil {
		return err
	}
	cond, err := it.TryBool()
	if err != nil {
		return fmt.Errorf("%w: JMPIFNOT condition", ErrInvalidCast)
	}
	if !cond {
		return opJmp(v, operand)
	}
	return nil
}

func opCall(v *VM, operand []byte) error {
	ctx := v.CurrentContext()
	startIP := ctx.IP() - 3
	target := jumpTarget(startIP, operand)
	if target < 0 || target > ctx.script.Len() {
		return fmt.Errorf("%w: CALL target %d", ErrScriptBounds, target)
	}
	if len(v.istack) >= MaxCallDepth {
		return ErrCallDepthLimit
	}
	callee := NewContext(ctx.script, ctx.scriptHash)
	callee.Jump(target)
	v.istack = append(v.istack, callee)
	return nil
}

func opRet(v *VM, _ []byte) error {
	v.istack = v.istack[:len(v.istack)-1]
	return nil
}

// opAppCall pushes a new context for the contract whose script hash is the
// instruction's 20-byte operand, looked up via the ContractResolver. §9's
// design note applies here: the callee's own gas isn't billed separately
// against the caller, matching the historical behavior this core
// reproduces rather than production NEO semantics.
func opAppCall(v *VM, operand []byte) error {
	if v.contracts == nil {
		return fmt.Errorf("APPCALL: no contract registry configured")
	}
	var hash [20]byte
	copy(hash[:], operand)
	bytecode, ok := v.contracts.ResolveContract(hash)
	if !ok {
		return fmt.Errorf("APPCALL: unknown contract %x", hash)
	}
	return v.LoadScript(bytecode, hash)
}

// opTailCall behaves like APPCALL but replaces the current context instead
// of pushing a new one, so RET in the callee returns to the tail-caller's
// own caller.
func opTailCall(v *VM, operand []byte) error {
	v.istack = v.istack[:len(v.istack)-1]
	return opAppCall(v, operand)
}

// opSyscall reads the length-prefixed ASCII name already skipped over by
// the disassembler's operand accounting and dispatches to the resolver.
func opSyscall(v *VM, operand []byte) error {
	name := string(operand)
	if v.resolver == nil {
		return fmt.Errorf("%w: %s (no interop registry configured)", ErrSyscallNotFound, name)
	}
	handler, ok := v.resolver.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSyscallNotFound, name)
	}
	v.lastSysCall = name
	if err := handler(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSyscallFailed, name, err)
	}
	return nil
}
