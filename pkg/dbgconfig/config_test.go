package dbgconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phetter/neo-debugger-tools/pkg/interop"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadParsesYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte("gasOverrides:\n  Neo.Storage.Put: 5.0\ndefaultWitnessMode: AlwaysTrue\ndefaultTrigger: Verification\n")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5.0, cfg.GasOverrides["Neo.Storage.Put"])
	require.Equal(t, TriggerVerification, cfg.DefaultTrigger)
	require.Equal(t, interop.WitnessAlwaysTrue, cfg.WitnessMode())
}

func TestWitnessModeDefaultsWhenUnset(t *testing.T) {
	cfg := Default()
	require.Equal(t, interop.WitnessDefault, cfg.WitnessMode())
}
