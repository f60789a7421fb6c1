package vmcore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

func runToHalt(t *testing.T, script []byte) *VM {
	t.Helper()
	v := New()
	require.NoError(t, v.LoadScript(script, [20]byte{}))
	for !v.State().Has(HALT) && !v.State().Has(FAULT) {
		require.NoError(t, v.StepInto())
	}
	return v
}

func TestAddPushesSum(t *testing.T) {
	script := []byte{byte(opcode.PUSH5), byte(opcode.PUSH2), byte(opcode.ADD)}
	v := runToHalt(t, script)
	require.True(t, v.State().Has(HALT))
	top, err := v.Estack().Top()
	require.NoError(t, err)
	n, err := top.TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(7), n.Int64())
}

func TestDivideByZeroFaults(t *testing.T) {
	script := []byte{byte(opcode.PUSH5), byte(opcode.PUSH0), byte(opcode.DIV)}
	v := New()
	require.NoError(t, v.LoadScript(script, [20]byte{}))
	for !v.State().Has(HALT) && !v.State().Has(FAULT) {
		if err := v.StepInto(); err != nil {
			break
		}
	}
	require.True(t, v.State().Has(FAULT))
	require.ErrorIs(t, v.LastFault(), ErrDivideByZero)
}

func TestThrowFaults(t *testing.T) {
	script := []byte{byte(opcode.PUSH1), byte(opcode.THROW)}
	v := New()
	require.NoError(t, v.LoadScript(script, [20]byte{}))
	for !v.State().Has(HALT) && !v.State().Has(FAULT) {
		if err := v.StepInto(); err != nil {
			break
		}
	}
	require.True(t, v.State().Has(FAULT))
	require.ErrorIs(t, v.LastFault(), ErrThrown)
}

func TestBreakpointStopsExecution(t *testing.T) {
	script := []byte{byte(opcode.PUSH5), byte(opcode.PUSH2), byte(opcode.ADD), byte(opcode.PUSH1)}
	v := New()
	require.NoError(t, v.LoadScript(script, [20]byte{}))
	v.AddBreakpoint(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, v.StepInto())
	}
	require.True(t, v.State().Has(BREAK))
}

func TestInvalidOpcodeFaults(t *testing.T) {
	script := []byte{0xFF}
	v := New()
	require.NoError(t, v.LoadScript(script, [20]byte{}))
	err := v.StepInto()
	require.Error(t, err)
	require.True(t, v.State().Has(FAULT))
}

func TestEqualCrossType(t *testing.T) {
	script := []byte{byte(opcode.PUSH1), byte(opcode.PUSHBYTES1), 0x01, byte(opcode.EQUAL)}
	v := runToHalt(t, script)
	top, err := v.Estack().Top()
	require.NoError(t, err)
	b, err := top.TryBool()
	require.NoError(t, err)
	require.True(t, b)
}

func TestArrayPackAndArraySize(t *testing.T) {
	// PUSH1 PUSH2 PUSH2 PACK -> Array[2,1], ARRAYSIZE -> 2
	script := []byte{
		byte(opcode.PUSH1), byte(opcode.PUSH2), byte(opcode.PUSH2), byte(opcode.PACK),
		byte(opcode.ARRAYSIZE),
	}
	v := runToHalt(t, script)
	top, err := v.Estack().Top()
	require.NoError(t, err)
	n, err := top.TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(2), n.Int64())
}
