package abi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleABI = `{
	"entrypoint": "Main",
	"functions": [
		{
			"name": "Main",
			"parameters": [
				{"name": "operation", "type": "String"},
				{"name": "args", "type": "Array"}
			],
			"returntype": "ByteArray"
		},
		{
			"name": "balanceOf",
			"parameters": [{"name": "account", "type": "Hash160"}],
			"returntype": "Integer"
		}
	]
}`

func TestLoadParsesFunctions(t *testing.T) {
	a, err := Load([]byte(sampleABI))
	require.NoError(t, err)
	require.Equal(t, "Main", a.Entrypoint)
	require.Len(t, a.Functions, 2)
}

func TestFindFunction(t *testing.T) {
	a, err := Load([]byte(sampleABI))
	require.NoError(t, err)

	fn := a.FindFunction("balanceOf")
	require.NotNil(t, fn)
	require.Equal(t, Integer, fn.ReturnType)
	require.Len(t, fn.Parameters, 1)
	require.Equal(t, Hash160, fn.Parameters[0].Type)

	require.Nil(t, a.FindFunction("nonexistent"))
}

func TestLoadRejectsUnknownReturnType(t *testing.T) {
	raw := `{"entrypoint": "Main", "functions": [
		{"name": "Main", "parameters": [], "returntype": "Bogus"}
	]}`
	_, err := Load([]byte(raw))
	require.Error(t, err)
}

func TestLoadRejectsUnknownParameterType(t *testing.T) {
	raw := `{"entrypoint": "Main", "functions": [
		{"name": "Main", "parameters": [{"name": "x", "type": "Bogus"}], "returntype": "Void"}
	]}`
	_, err := Load([]byte(raw))
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load([]byte(`{not json`))
	require.Error(t, err)
}
