package debugmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMap = `[
	{"start": 0, "end": 5, "url": "contract.py", "line": 10},
	{"start": 5, "end": 12, "url": "contract.py", "line": 11},
	{"start": 12, "end": 20, "url": "contract.py", "line": 13}
]`

func TestLoadSortsAndResolves(t *testing.T) {
	m, err := Load([]byte(sampleMap))
	require.NoError(t, err)

	require.Equal(t, 10, m.ResolveLine(0))
	require.Equal(t, 10, m.ResolveLine(4))
	require.Equal(t, 11, m.ResolveLine(5))
	require.Equal(t, 13, m.ResolveLine(19))
	require.Equal(t, -1, m.ResolveLine(20))
	require.Equal(t, -1, m.ResolveLine(-1))
}

func TestResolveURL(t *testing.T) {
	m, err := Load([]byte(sampleMap))
	require.NoError(t, err)
	require.Equal(t, "contract.py", m.ResolveURL(6))
	require.Equal(t, "", m.ResolveURL(20))
}

func TestResolveOffsetPicksSmallestStart(t *testing.T) {
	m, err := Load([]byte(sampleMap))
	require.NoError(t, err)
	require.Equal(t, 5, m.ResolveOffset(11))
	require.Equal(t, -1, m.ResolveOffset(999))
}

func TestFilesDistinctInFirstSeenOrder(t *testing.T) {
	raw := `[
		{"start": 0, "end": 2, "url": "b.py", "line": 1},
		{"start": 2, "end": 4, "url": "a.py", "line": 2},
		{"start": 4, "end": 6, "url": "b.py", "line": 3}
	]`
	m, err := Load([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, []string{"b.py", "a.py"}, m.Files())
}

func TestLoadRejectsOverlappingEntries(t *testing.T) {
	raw := `[
		{"start": 0, "end": 10, "url": "c.py", "line": 1},
		{"start": 5, "end": 15, "url": "c.py", "line": 2}
	]`
	_, err := Load([]byte(raw))
	require.Error(t, err)
}
