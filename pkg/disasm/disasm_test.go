package disasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

func TestDisassembleTilesScriptExactly(t *testing.T) {
	raw := []byte{byte(opcode.PUSH5), byte(opcode.PUSH2), byte(opcode.ADD)}
	d, err := Disassemble(raw)
	require.NoError(t, err)
	require.Len(t, d.Instructions, 3)

	var end int
	for _, ins := range d.Instructions {
		require.Equal(t, end, ins.Offset)
		end = ins.Offset + 1 + len(ins.Operand)
	}
	require.Equal(t, len(raw), end)
}

func TestDisassembleHandlesOperands(t *testing.T) {
	raw := []byte{byte(opcode.PUSHBYTES1 + 1), 0xAB, 0xCD, byte(opcode.RET)}
	d, err := Disassemble(raw)
	require.NoError(t, err)
	require.Len(t, d.Instructions, 2)
	require.Equal(t, []byte{0xAB, 0xCD}, d.Instructions[0].Operand)
	require.Equal(t, 0, d.Instructions[0].Offset)
	require.Equal(t, 3, d.Instructions[1].Offset)
}

func TestOffsetToLineAndBack(t *testing.T) {
	raw := []byte{byte(opcode.PUSH5), byte(opcode.PUSH2), byte(opcode.ADD)}
	d, err := Disassemble(raw)
	require.NoError(t, err)

	require.Equal(t, 0, d.OffsetToLine(0))
	require.Equal(t, 1, d.OffsetToLine(1))
	require.Equal(t, 2, d.OffsetToLine(2))
	require.Equal(t, -1, d.OffsetToLine(99))

	require.Equal(t, 0, d.LineToOffset(0))
	require.Equal(t, 2, d.LineToOffset(2))
	require.Equal(t, -1, d.LineToOffset(99))
}

func TestDisassembleRejectsInvalidOpcode(t *testing.T) {
	_, err := Disassemble([]byte{0xFF})
	require.Error(t, err)
}
