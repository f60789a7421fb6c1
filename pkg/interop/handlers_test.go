package interop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/vmcore"
)

func newTestRuntime(t *testing.T) (*Runtime, *Registry) {
	t.Helper()
	chain := chainsim.New()
	addr := chain.DeployContract("contract", []byte{0x00})
	v := vmcore.New()
	require.NoError(t, v.LoadScript([]byte{0x00}, addr.ScriptHash))

	rt := &Runtime{VM: v, Address: addr, Chain: chain}
	reg := NewRegistry(rt)
	RegisterDefaults(reg)
	return rt, reg
}

func call(t *testing.T, reg *Registry, name string) {
	t.Helper()
	h, ok := reg.Resolve(name)
	require.True(t, ok, "handler %q not registered", name)
	require.NoError(t, h(reg.Runtime().VM))
}

func TestStoragePutThenGet(t *testing.T) {
	rt, reg := newTestRuntime(t)

	rt.VM.Estack().PushVal([]byte("key1"))
	rt.VM.Estack().PushVal([]byte("value1"))
	call(t, reg, "Neo.Storage.Put")
	require.Equal(t, len("value1"), rt.LastStorageBytes)

	rt.VM.Estack().PushVal([]byte("key1"))
	call(t, reg, "Neo.Storage.Get")

	top, err := rt.VM.Estack().Pop()
	require.NoError(t, err)
	b, err := top.TryBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("value1"), b)
}

func TestStorageGetMissingKeyReturnsEmpty(t *testing.T) {
	rt, reg := newTestRuntime(t)
	rt.VM.Estack().PushVal([]byte("missing"))
	call(t, reg, "Neo.Storage.Get")

	top, err := rt.VM.Estack().Pop()
	require.NoError(t, err)
	b, err := top.TryBytes()
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestStorageDelete(t *testing.T) {
	rt, reg := newTestRuntime(t)
	rt.Address.PutStorage([]byte("k"), []byte("v"))

	rt.VM.Estack().PushVal([]byte("k"))
	call(t, reg, "Neo.Storage.Delete")

	_, ok := rt.Address.GetStorage([]byte("k"))
	require.False(t, ok)
}

func TestCheckWitnessHonorsOverride(t *testing.T) {
	rt, reg := newTestRuntime(t)

	rt.Witness = WitnessAlwaysTrue
	rt.VM.Estack().PushVal([]byte{0x01, 0x02, 0x03})
	call(t, reg, "Neo.Runtime.CheckWitness")
	top, err := rt.VM.Estack().Pop()
	require.NoError(t, err)
	b, err := top.TryBool()
	require.NoError(t, err)
	require.True(t, b)

	rt.Witness = WitnessAlwaysFalse
	rt.VM.Estack().PushVal([]byte{0x01, 0x02, 0x03})
	call(t, reg, "Neo.Runtime.CheckWitness")
	top, err = rt.VM.Estack().Pop()
	require.NoError(t, err)
	b, err = top.TryBool()
	require.NoError(t, err)
	require.False(t, b)
}

func TestCheckWitnessDefaultMatchesOwnAddress(t *testing.T) {
	rt, reg := newTestRuntime(t)

	rt.VM.Estack().PushVal(rt.Address.ScriptHash[:])
	call(t, reg, "Neo.Runtime.CheckWitness")
	top, err := rt.VM.Estack().Pop()
	require.NoError(t, err)
	b, err := top.TryBool()
	require.NoError(t, err)
	require.True(t, b)
}

func TestRuntimeNotifyAppendsEvent(t *testing.T) {
	rt, reg := newTestRuntime(t)

	rt.VM.Estack().PushVal([]byte("transfer"))
	rt.VM.Estack().PushVal(42)
	call(t, reg, "Neo.Runtime.Notify")

	require.Len(t, rt.VM.Notifications, 1)
	require.Equal(t, "transfer", rt.VM.Notifications[0].Name)
	require.Equal(t, rt.Address.ScriptHash, rt.VM.Notifications[0].ScriptHash)
}

func TestRuntimeLogAppendsFixedNameEvent(t *testing.T) {
	rt, reg := newTestRuntime(t)

	rt.VM.Estack().PushVal([]byte("hello"))
	call(t, reg, "Neo.Runtime.Log")

	require.Len(t, rt.VM.Notifications, 1)
	require.Equal(t, "Runtime.Log", rt.VM.Notifications[0].Name)
}

func TestBlockchainGetHeight(t *testing.T) {
	rt, reg := newTestRuntime(t)
	call(t, reg, "Neo.Blockchain.GetHeight")

	top, err := rt.VM.Estack().Pop()
	require.NoError(t, err)
	n, err := top.TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(rt.Chain.CurrentHeight()), n.Int64())
}
