package chainsim

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// addressVersion is the single-byte version prefix used when rendering a
// script hash as a base58check address string, following the NEO
// convention (not cryptographically meaningful here, purely cosmetic for
// the debugger's UI).
const addressVersion = 0x17

// KeyPair is an optional signing identity attached to an Address and saved
// with it in the .chain document (public key only). CHECKSIG/CHECKMULTISIG
// take their public keys from the evaluation stack and do not read it.
type KeyPair struct {
	PrivateKey []byte
	PublicKey  []byte
}

// Address is a simulated on-chain account: a named contract with bytecode
// and per-address key/value storage, per §3 of the spec.
type Address struct {
	Name       string
	ScriptHash [20]byte
	Key        *KeyPair
	ByteCode   []byte
	storage    map[string][]byte
	storageKeys []string // insertion order, for deterministic dumps/serialization
}

// NewAddress creates an Address for the given name and bytecode.
func NewAddress(name string, bytecode []byte) *Address {
	return &Address{
		Name:       name,
		ScriptHash: ScriptHash(bytecode),
		ByteCode:   bytecode,
		storage:    make(map[string][]byte),
	}
}

// String renders the script hash as a base58check address string.
func (a *Address) String() string {
	payload := make([]byte, 0, 21)
	payload = append(payload, addressVersion)
	payload = append(payload, a.ScriptHash[:]...)
	checksum := doubleSHA256(payload)
	payload = append(payload, checksum[:4]...)
	return base58.Encode(payload)
}

// GetStorage returns the value stored under key, and whether it exists.
func (a *Address) GetStorage(key []byte) ([]byte, bool) {
	v, ok := a.storage[string(key)]
	return v, ok
}

// PutStorage stores value under key, returning the number of bytes written
// (used by the Emulator to scale Storage.Put's gas cost).
func (a *Address) PutStorage(key, value []byte) int {
	k := string(key)
	if _, exists := a.storage[k]; !exists {
		a.storageKeys = append(a.storageKeys, k)
	}
	a.storage[k] = value
	return len(value)
}

// DeleteStorage removes key from storage, if present.
func (a *Address) DeleteStorage(key []byte) {
	k := string(key)
	if _, exists := a.storage[k]; exists {
		delete(a.storage, k)
		for i, kk := range a.storageKeys {
			if kk == k {
				a.storageKeys = append(a.storageKeys[:i], a.storageKeys[i+1:]...)
				break
			}
		}
	}
}

// StorageItems returns the stored key/value pairs in insertion order, for
// persistence to .chain.
func (a *Address) StorageItems() [][2][]byte {
	items := make([][2][]byte, 0, len(a.storageKeys))
	for _, k := range a.storageKeys {
		items = append(items, [2][]byte{[]byte(k), a.storage[k]})
	}
	return items
}

// SetStorageItems replaces storage wholesale, preserving the given order.
// Used when loading a .chain document.
func (a *Address) SetStorageItems(items [][2][]byte) {
	a.storage = make(map[string][]byte, len(items))
	a.storageKeys = make([]string, 0, len(items))
	for _, kv := range items {
		k := string(kv[0])
		a.storage[k] = kv[1]
		a.storageKeys = append(a.storageKeys, k)
	}
}

func doubleSHA256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}
