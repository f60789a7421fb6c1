// Package abi parses the .abi.json artifact describing a contract's
// entrypoint and callable functions, per §6 of the spec.
package abi

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Type is a declared ABI parameter/return type.
type Type string

const (
	Void             Type = "Void"
	Boolean          Type = "Boolean"
	Integer          Type = "Integer"
	ByteArray        Type = "ByteArray"
	String           Type = "String"
	Array            Type = "Array"
	PublicKey        Type = "PublicKey"
	Signature        Type = "Signature"
	Hash160          Type = "Hash160"
	Hash256          Type = "Hash256"
	InteropInterface Type = "InteropInterface"
)

var validTypes = map[Type]bool{
	Void: true, Boolean: true, Integer: true, ByteArray: true, String: true,
	Array: true, PublicKey: true, Signature: true, Hash160: true, Hash256: true,
	InteropInterface: true,
}

// Parameter is one named, typed function parameter.
type Parameter struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Function is one declared contract entrypoint function.
type Function struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType Type        `json:"returntype"`
}

// ABI is the parsed contract interface.
type ABI struct {
	Entrypoint string     `json:"entrypoint"`
	Functions  []Function `json:"functions"`
}

// Load parses raw .abi.json bytes, validating that every declared type is
// recognized.
func Load(raw []byte) (*ABI, error) {
	var a ABI
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, errors.Wrap(err, "abi: parse")
	}
	for _, fn := range a.Functions {
		if !validTypes[fn.ReturnType] {
			return nil, fmt.Errorf("abi: function %q: unknown return type %q", fn.Name, fn.ReturnType)
		}
		for _, p := range fn.Parameters {
			if !validTypes[p.Type] {
				return nil, fmt.Errorf("abi: function %q: parameter %q: unknown type %q", fn.Name, p.Name, p.Type)
			}
		}
	}
	return &a, nil
}

// FindFunction returns the function named name, or nil if not declared.
func (a *ABI) FindFunction(name string) *Function {
	for i := range a.Functions {
		if a.Functions[i].Name == name {
			return &a.Functions[i]
		}
	}
	return nil
}
