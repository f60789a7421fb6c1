// Package chainsim implements the simulated blockchain the debugger deploys
// contracts against: blocks, transactions, named addresses with bytecode
// and per-address storage, and persistence to a .chain document.
package chainsim

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownVersion is returned when a .chain document declares a version
// this build doesn't understand.
var ErrUnknownVersion = errors.New("unsupported .chain version")

// CurrentVersion is the .chain document version this package writes.
const CurrentVersion = 1

// Blockchain is a persistable collection of blocks and named addresses.
// Heights form a contiguous sequence starting at 0; CurrentHeight is the
// maximum block index present.
type Blockchain struct {
	blocks    []*Block
	addresses []*Address
}

// New returns an empty Blockchain with a synthesized genesis block at
// height 0, so CurrentBlock is always valid.
func New() *Blockchain {
	return &Blockchain{
		blocks: []*Block{{Index: 0, Timestamp: 0}},
	}
}

// CurrentHeight returns the height of the most recently added block.
func (bc *Blockchain) CurrentHeight() uint32 {
	return uint32(len(bc.blocks) - 1)
}

// CurrentBlock returns the block at CurrentHeight.
func (bc *Blockchain) CurrentBlock() *Block {
	return bc.blocks[len(bc.blocks)-1]
}

// GetBlock returns the block at the given height, or nil if out of range.
func (bc *Blockchain) GetBlock(height uint32) *Block {
	if int(height) >= len(bc.blocks) {
		return nil
	}
	return bc.blocks[height]
}

// AddBlock appends a new block at height CurrentHeight()+1. It returns an
// error if b.Index is not that height; AddBlock does not renumber b.
func (bc *Blockchain) AddBlock(b *Block) error {
	want := bc.CurrentHeight() + 1
	if b.Index != want {
		return fmt.Errorf("non-contiguous block height: got %d, want %d", b.Index, want)
	}
	bc.blocks = append(bc.blocks, b)
	return nil
}

// DeployContract derives the 20-byte script hash of bytecode and either
// creates a new Address under name or updates the bytecode of an existing
// one in place, per §4.6.
func (bc *Blockchain) DeployContract(name string, bytecode []byte) *Address {
	if addr := bc.FindAddressByName(name); addr != nil {
		addr.ByteCode = bytecode
		addr.ScriptHash = ScriptHash(bytecode)
		return addr
	}
	addr := NewAddress(name, bytecode)
	bc.addresses = append(bc.addresses, addr)
	return addr
}

// FindAddressByName performs a linear scan for the named address, per the
// spec's explicit statement that this lookup is O(n) — the simulated chain
// is expected to hold a handful of deployed contracts per debug session,
// not a production-scale address book.
func (bc *Blockchain) FindAddressByName(name string) *Address {
	for _, a := range bc.addresses {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Addresses returns all deployed addresses, in deployment order.
func (bc *Blockchain) Addresses() []*Address { return bc.addresses }

// ResolveContract implements vmcore.ContractResolver: it looks up the
// deployed address whose script hash matches and returns its bytecode, for
// APPCALL/TAILCALL dispatch.
func (bc *Blockchain) ResolveContract(scriptHash [20]byte) ([]byte, bool) {
	for _, a := range bc.addresses {
		if a.ScriptHash == scriptHash {
			return a.ByteCode, true
		}
	}
	return nil, false
}
