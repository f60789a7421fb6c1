package emulator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/interop"
	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

func newEmulator(t *testing.T, bytecode []byte) (*Emulator, *chainsim.Address) {
	t.Helper()
	chain := chainsim.New()
	addr := chain.DeployContract("contract", bytecode)
	rt := &interop.Runtime{Chain: chain}
	registry := interop.NewRegistry(rt)
	interop.RegisterDefaults(registry)
	e := New(chain, registry, zap.NewNop())
	e.SetAddress(addr)
	return e, addr
}

func TestRunAddsTwoArgumentsOnLoaderScript(t *testing.T) {
	// Contract body: ADD (the loader script pushes the two args first).
	bytecode := []byte{byte(opcode.ADD)}
	e, _ := newEmulator(t, bytecode)

	require.NoError(t, e.Reset([]Arg{IntArg(5), IntArg(2)}))
	st := e.Run()
	require.Equal(t, Finished, st.Kind)

	top, err := e.VM().Estack().Top()
	require.NoError(t, err)
	n, err := top.TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(7), n.Int64())
}

func TestRunFaultsOnDivideByZero(t *testing.T) {
	bytecode := []byte{byte(opcode.PUSH0), byte(opcode.DIV)}
	e, _ := newEmulator(t, bytecode)

	require.NoError(t, e.Reset([]Arg{IntArg(5)}))
	st := e.Run()
	require.Equal(t, Exception, st.Kind)
	require.InDelta(t, 0.001, e.UsedGas, 1e-9)
}

func TestStorageGasScalesWithPayloadSize(t *testing.T) {
	// Calling Neo.Storage.Put costs 1.0 gas per 1024 bytes written; a
	// 2048-byte value should scale that to 2.0.
	name := "Neo.Storage.Put"
	script := []byte{byte(opcode.PUSHBYTES1), 0x01} // key
	script = append(script, byte(opcode.PUSHDATA2), 0x00, 0x08)
	script = append(script, make([]byte, 2048)...)
	script = append(script, byte(opcode.SYSCALL), byte(len(name)))
	script = append(script, []byte(name)...)

	e, _ := newEmulator(t, script)
	require.NoError(t, e.Reset(nil))
	st := e.Run()
	require.Equal(t, Finished, st.Kind)
	require.InDelta(t, 2.0, e.UsedGas, 1e-9)
}

func TestStepOverFinishesAtReturn(t *testing.T) {
	bytecode := []byte{byte(opcode.PUSH1), byte(opcode.RET)}
	e, _ := newEmulator(t, bytecode)
	require.NoError(t, e.Reset(nil))

	st := e.Step()
	require.Equal(t, Running, st.Kind)
	st = e.StepOver()
	require.Equal(t, Finished, st.Kind)
}
