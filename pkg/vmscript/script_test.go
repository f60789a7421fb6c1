package vmscript

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

func TestNewTilesScriptExactly(t *testing.T) {
	raw := []byte{byte(opcode.PUSHBYTES1 + 1), 0xAA, 0xBB, byte(opcode.RET)}
	s, err := New(raw)
	require.NoError(t, err)
	require.Equal(t, 3, s.InstructionLenAt(0))
	require.Equal(t, 1, s.InstructionLenAt(3))
	require.True(t, s.IsInstructionStart(0))
	require.False(t, s.IsInstructionStart(1))
	require.Equal(t, []byte{0xAA, 0xBB}, s.OperandAt(0))
}

func TestNewRejectsInvalidOpcode(t *testing.T) {
	_, err := New([]byte{0xF3})
	require.ErrorIs(t, err, ErrInvalidOpcode)
}

func TestNewRejectsTruncatedPushBytes(t *testing.T) {
	_, err := New([]byte{byte(opcode.PUSHBYTES1 + 1), 0xAA})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestSyscallOperandExcludesLengthByte(t *testing.T) {
	name := "Neo.Storage.Get"
	raw := append([]byte{byte(opcode.SYSCALL), byte(len(name))}, []byte(name)...)
	s, err := New(raw)
	require.NoError(t, err)
	require.Equal(t, []byte(name), s.OperandAt(0))
}

func TestJumpInstructionLengthIsThreeBytes(t *testing.T) {
	raw := []byte{byte(opcode.JMP), 0x05, 0x00}
	s, err := New(raw)
	require.NoError(t, err)
	require.Equal(t, 3, s.InstructionLenAt(0))
}

func TestAppcallInstructionLengthIsTwentyOneBytes(t *testing.T) {
	raw := append([]byte{byte(opcode.APPCALL)}, make([]byte, 20)...)
	s, err := New(raw)
	require.NoError(t, err)
	require.Equal(t, 21, s.InstructionLenAt(0))
}
