package opcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidRecognizesPushBytesRange(t *testing.T) {
	require.True(t, IsValid(PUSHBYTES1))
	require.True(t, IsValid(PUSHBYTES75))
	require.True(t, IsValid(ADD))
	require.False(t, IsValid(Opcode(0xF3)))
}

func TestIsValidExcludesStorageSentinel(t *testing.T) {
	require.False(t, IsValid(Storage))
}

func TestIsPushCoversLiteralPushRange(t *testing.T) {
	require.True(t, IsPush(PUSH0))
	require.True(t, IsPush(PUSHBYTES1))
	require.True(t, IsPush(PUSH16))
	require.False(t, IsPush(ADD))
}

func TestStringReturnsKnownNames(t *testing.T) {
	require.Equal(t, "ADD", ADD.String())
	require.Equal(t, "NOP", NOP.String())
}
