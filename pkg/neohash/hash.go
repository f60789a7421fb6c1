// Package neohash collects the hashing primitives the NEO VM's crypto
// opcodes and the simulated blockchain's script-hash derivation share.
package neohash

import (
	"crypto/sha1" //nolint:gosec // SHA1 opcode is a VM primitive, not used for anything security-sensitive here
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for the NEO Hash160 algorithm
)

// SHA1 returns the SHA-1 digest of data, backing the SHA1 opcode.
func SHA1(data []byte) []byte {
	h := sha1.Sum(data)
	return h[:]
}

// SHA256 returns the SHA-256 digest of data, backing the SHA256 opcode.
func SHA256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// RIPEMD160 returns the RIPEMD-160 digest of data.
func RIPEMD160(data []byte) []byte {
	h := ripemd160.New()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// Hash160 returns RIPEMD160(SHA256(data)), used both by the HASH160 opcode
// and by contract script-hash derivation (§4.6).
func Hash160(data []byte) []byte {
	return RIPEMD160(SHA256(data))
}

// Hash256 returns SHA256(SHA256(data)), backing the HASH256 opcode.
func Hash256(data []byte) []byte {
	return SHA256(SHA256(data))
}
