package vmcore

import (
	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/vmscript"
)

// Context is one frame of the invocation stack: a script, its instruction
// pointer, the script's hash and its breakpoints. The evaluation stack is
// owned by the VM and shared by every context. APPCALL and
// CALL push a new Context; RET pops one, per §3 of the spec.
type Context struct {
	script     *vmscript.Script
	ip         int
	scriptHash [20]byte

	breakpoints map[int]bool
}

// NewContext creates a Context over script, with the instruction pointer
// at 0.
func NewContext(script *vmscript.Script, scriptHash [20]byte) *Context {
	return &Context{
		script:      script,
		scriptHash:  scriptHash,
		breakpoints: make(map[int]bool),
	}
}

// IP returns the current instruction pointer.
func (c *Context) IP() int { return c.ip }

// Jump unconditionally moves the instruction pointer to pos.
func (c *Context) Jump(pos int) { c.ip = pos }

// ScriptHash returns the hash of the script loaded into this context.
func (c *Context) ScriptHash() [20]byte { return c.scriptHash }

// Script returns the underlying script.
func (c *Context) Script() *vmscript.Script { return c.script }

// AtEnd reports whether the instruction pointer has run off the end of the
// script (an implicit RET, per the classic NEO VM convention).
func (c *Context) AtEnd() bool { return c.ip >= c.script.Len() }

// CurrentInstruction returns the opcode and operand at ip, assuming ip is a
// valid instruction boundary.
func (c *Context) CurrentInstruction() (opcode.Opcode, []byte) {
	return c.script.OpcodeAt(c.ip), c.script.OperandAt(c.ip)
}

// AddBreakpoint arms a breakpoint at the given offset in this context's
// script.
func (c *Context) AddBreakpoint(offset int) { c.breakpoints[offset] = true }

// RemoveBreakpoint disarms a breakpoint at the given offset.
func (c *Context) RemoveBreakpoint(offset int) { delete(c.breakpoints, offset) }

// AtBreakpoint reports whether the instruction pointer currently sits on an
// armed breakpoint.
func (c *Context) AtBreakpoint() bool { return c.breakpoints[c.ip] }

// Breakpoints returns the set of armed breakpoint offsets.
func (c *Context) Breakpoints() []int {
	out := make([]int, 0, len(c.breakpoints))
	for off := range c.breakpoints {
		out = append(out, off)
	}
	return out
}
