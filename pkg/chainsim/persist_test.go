package chainsim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainSaveLoadRoundTrip(t *testing.T) {
	bc := New()
	addr := bc.DeployContract("token", []byte{0x01, 0x02, 0x03})
	addr.PutStorage([]byte("a"), []byte("1"))
	addr.PutStorage([]byte("b"), []byte("2"))

	dir := t.TempDir()
	path := filepath.Join(dir, "test.chain")
	require.NoError(t, Save(bc, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, bc.CurrentHeight(), loaded.CurrentHeight())

	got := loaded.FindAddressByName("token")
	require.NotNil(t, got)
	require.Equal(t, addr.ScriptHash, got.ScriptHash)
	require.Equal(t, addr.ByteCode, got.ByteCode)

	v, ok := got.GetStorage([]byte("a"))
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)
}

func TestChainSaveIsByteIdenticalOnReSave(t *testing.T) {
	bc := New()
	bc.DeployContract("a", []byte{0xAA})
	bc.DeployContract("b", []byte{0xBB})

	first, err := Marshal(bc)
	require.NoError(t, err)

	loaded, err := Unmarshal(first)
	require.NoError(t, err)

	second, err := Marshal(loaded)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestLoadUnknownVersionFails(t *testing.T) {
	_, err := Unmarshal([]byte(`{"version": 99, "blocks": [], "addresses": []}`))
	require.ErrorIs(t, err, ErrUnknownVersion)
}
