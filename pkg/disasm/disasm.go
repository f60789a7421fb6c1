// Package disasm turns raw bytecode into an ordered instruction listing and
// an offset<->assembly-line lookup table, for the Assembly view mode.
package disasm

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/vmscript"
)

// Instruction is one disassembled record: an absolute byte offset, its
// opcode, and the raw operand bytes (if any).
type Instruction struct {
	Offset  int
	Opcode  opcode.Opcode
	Operand []byte
}

// Disassembly is the ordered instruction sequence plus the bidirectional
// offset<->asm-line table the Assembly view uses for stepping.
type Disassembly struct {
	Instructions []Instruction
	Text         string

	offsetToLine map[int]int
	lineToOffset map[int]int
}

// Disassemble parses raw into an ordered instruction sequence. It is
// deterministic and the concatenated instruction byte-ranges tile
// [0, len(raw)) exactly, per §8 of the spec.
func Disassemble(raw []byte) (*Disassembly, error) {
	script, err := vmscript.New(raw)
	if err != nil {
		return nil, fmt.Errorf("disassemble: %w", err)
	}

	d := &Disassembly{
		offsetToLine: make(map[int]int),
		lineToOffset: make(map[int]int),
	}
	var sb strings.Builder
	line := 0
	off := 0
	for off < script.Len() {
		n := script.InstructionLenAt(off)
		op := script.OpcodeAt(off)
		operand := script.OperandAt(off)
		d.Instructions = append(d.Instructions, Instruction{Offset: off, Opcode: op, Operand: operand})

		fmt.Fprintf(&sb, "%04d %s", off, op)
		if len(operand) > 0 {
			fmt.Fprintf(&sb, " %s", hex.EncodeToString(operand))
		}
		sb.WriteByte('\n')

		d.offsetToLine[off] = line
		d.lineToOffset[line] = off
		line++
		off += n
	}
	d.Text = sb.String()
	return d, nil
}

// OffsetToLine resolves a byte offset to its assembly-view line number, or
// -1 if off is not an instruction boundary.
func (d *Disassembly) OffsetToLine(off int) int {
	if l, ok := d.offsetToLine[off]; ok {
		return l
	}
	return -1
}

// LineToOffset resolves an assembly-view line number to its byte offset, or
// -1 if there's no such line.
func (d *Disassembly) LineToOffset(line int) int {
	if off, ok := d.lineToOffset[line]; ok {
		return off
	}
	return -1
}
