package debugger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/emulator"
	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

// PUSH5 PUSH2 ADD PUSH1 RET, five single-byte instructions at offsets 0..4.
var sampleBytecode = []byte{
	byte(opcode.PUSH5), byte(opcode.PUSH2), byte(opcode.ADD), byte(opcode.PUSH1), byte(opcode.RET),
}

const sampleDebugMap = `[
	{"start": 0, "end": 1, "url": "c.py", "line": 100},
	{"start": 1, "end": 2, "url": "c.py", "line": 101},
	{"start": 2, "end": 3, "url": "c.py", "line": 102},
	{"start": 3, "end": 4, "url": "c.py", "line": 103},
	{"start": 4, "end": 5, "url": "c.py", "line": 104}
]`

func writeAvm(t *testing.T, dir string, withDebugMap bool) string {
	t.Helper()
	path := filepath.Join(dir, "contract.avm")
	require.NoError(t, os.WriteFile(path, sampleBytecode, 0644))
	if withDebugMap {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "contract.debug.json"), []byte(sampleDebugMap), 0644))
	}
	return path
}

func TestLoadAvmFileWithoutSidecarsResolvesOnlyInAssemblyMode(t *testing.T) {
	dir := t.TempDir()
	path := writeAvm(t, dir, false)

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(path, "contract"))

	require.False(t, dm.AddBreakpoint(100)) // Source mode, no debug map loaded

	dm.ToggleDebugMode()
	require.True(t, dm.AddBreakpoint(2)) // Assembly mode, line == instruction index
}

func TestLoadAvmFileWithDebugMapStopsAtBreakpoint(t *testing.T) {
	dir := t.TempDir()
	path := writeAvm(t, dir, true)

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(path, "contract"))
	require.True(t, dm.AddBreakpoint(102))

	st, err := dm.Run()
	require.NoError(t, err)
	require.Equal(t, emulator.Break, st.Kind)
	require.Equal(t, 2, st.Offset)
	require.Equal(t, 102, st.CurrentLine)
}

func TestRunToCompletionWithoutBreakpoints(t *testing.T) {
	dir := t.TempDir()
	path := writeAvm(t, dir, true)

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(path, "contract"))

	st, err := dm.Run()
	require.NoError(t, err)
	require.Equal(t, emulator.Finished, st.Kind)

	top, err := dm.VM().Estack().Top()
	require.NoError(t, err)
	n, err := top.TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(1), n.Int64())
}

func TestSetDebugParametersForcesResetBeforeNextStep(t *testing.T) {
	dir := t.TempDir()
	path := writeAvm(t, dir, true)

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(path, "contract"))
	_, err := dm.Run()
	require.NoError(t, err)
	require.True(t, dm.CurrentState().ResetFlag)

	require.NoError(t, dm.SetDebugParameters(DebugParameters{}))
	st, err := dm.Step()
	require.NoError(t, err)
	require.False(t, st.ResetFlag)
}

func TestAddBreakpointUnmappedLineFails(t *testing.T) {
	dir := t.TempDir()
	path := writeAvm(t, dir, true)

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(path, "contract"))
	require.False(t, dm.AddBreakpoint(9999))
}

func TestLoadAvmFileRejectsLegacyNeomap(t *testing.T) {
	dir := t.TempDir()
	path := writeAvm(t, dir, false)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contract.neomap"), []byte("legacy"), 0644))

	dm := New(nil, nil)
	err := dm.LoadAvmFile(path, "contract")
	require.Error(t, err)
}

func TestSaveAndLoadChainRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeAvm(t, dir, true)

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(path, "contract"))

	chainPath := filepath.Join(dir, "session.chain")
	require.NoError(t, dm.SaveChain(chainPath))

	dm2 := New(nil, nil)
	require.NoError(t, dm2.LoadChain(chainPath))
}

func TestExceptionDoesNotOverwriteLastGoodChainSnapshot(t *testing.T) {
	dir := t.TempDir()

	name := "Neo.Storage.Put"
	script := []byte{byte(opcode.PUSHBYTES1), 'k', byte(opcode.PUSHBYTES1), 'v'}
	script = append(script, byte(opcode.SYSCALL), byte(len(name)))
	script = append(script, []byte(name)...)
	script = append(script, byte(opcode.PUSH5), byte(opcode.PUSH0), byte(opcode.DIV))

	avmPath := filepath.Join(dir, "contract.avm")
	require.NoError(t, os.WriteFile(avmPath, script, 0644))

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(avmPath, "contract"))

	chainPath := filepath.Join(dir, "session.chain")
	require.NoError(t, dm.SaveChain(chainPath))
	goodSnapshot, err := os.ReadFile(chainPath)
	require.NoError(t, err)

	st, err := dm.Run()
	require.NoError(t, err)
	require.Equal(t, emulator.Exception, st.Kind)

	faultedSnapshot, err := os.ReadFile(chainPath)
	require.NoError(t, err)
	require.Equal(t, goodSnapshot, faultedSnapshot)
}

func TestLoadChainRebindsEmulatorChain(t *testing.T) {
	dir := t.TempDir()

	other := chainsim.New()
	require.NoError(t, other.AddBlock(&chainsim.Block{Index: 1}))
	require.NoError(t, other.AddBlock(&chainsim.Block{Index: 2}))
	chainPath := filepath.Join(dir, "other.chain")
	require.NoError(t, chainsim.Save(other, chainPath))

	script := []byte{byte(opcode.SYSCALL), byte(len("Neo.Blockchain.GetHeight"))}
	script = append(script, []byte("Neo.Blockchain.GetHeight")...)
	avmPath := filepath.Join(dir, "contract.avm")
	require.NoError(t, os.WriteFile(avmPath, script, 0644))

	dm := New(nil, nil)
	require.NoError(t, dm.LoadAvmFile(avmPath, "contract"))
	require.NoError(t, dm.LoadChain(chainPath))

	st, err := dm.Run()
	require.NoError(t, err)
	require.Equal(t, emulator.Finished, st.Kind)

	top, err := dm.VM().Estack().Top()
	require.NoError(t, err)
	n, err := top.TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(2), n.Int64())
}
