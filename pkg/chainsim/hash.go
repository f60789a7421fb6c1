package chainsim

import "github.com/phetter/neo-debugger-tools/pkg/neohash"

// ScriptHash derives the 20-byte contract script hash used throughout this
// package: RIPEMD160(SHA256(bytecode)), per §4.6 of the spec.
func ScriptHash(bytecode []byte) [20]byte {
	var out [20]byte
	copy(out[:], neohash.Hash160(bytecode))
	return out
}
