package profiler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

func TestRecordAccumulatesByOpcodeAndLine(t *testing.T) {
	p := New()
	p.Record(opcode.ADD, 10, 0.001)
	p.Record(opcode.ADD, 10, 0.001)
	p.Record(opcode.PUSH1, 11, 0.0)

	require.Equal(t, 2, p.OpcodeCount(opcode.ADD))
	require.InDelta(t, 0.002, p.OpcodeCost(opcode.ADD), 1e-9)
	require.Equal(t, 1, p.OpcodeCount(opcode.PUSH1))
}

func TestRecordSkipsLineTallyForUnmappedLine(t *testing.T) {
	p := New()
	p.Record(opcode.NOP, -1, 0.0)

	var buf bytes.Buffer
	require.NoError(t, p.DumpCSV(&buf))
	require.Equal(t, "line,hits,cost\n", buf.String())
}

func TestResetClearsTallies(t *testing.T) {
	p := New()
	p.Record(opcode.ADD, 10, 1.0)
	p.Reset()
	require.Equal(t, 0, p.OpcodeCount(opcode.ADD))
}

func TestDumpCSVOrdersByLineNumber(t *testing.T) {
	p := New()
	p.Record(opcode.ADD, 20, 0.5)
	p.Record(opcode.PUSH1, 5, 0.25)

	var buf bytes.Buffer
	require.NoError(t, p.DumpCSV(&buf))
	require.Equal(t, "line,hits,cost\n5,1,0.250000\n20,1,0.500000\n", buf.String())
}
