package chainsim

import "encoding/binary"

// Output is one transaction output: an asset transfer to a script hash.
type Output struct {
	AssetID    [32]byte
	Amount     int64
	ToScriptHash [20]byte
}

// Transaction is the simulated script container the VM considers "the
// signed message" for witness and hash queries, per §3 of the spec.
type Transaction struct {
	Inputs  []Input
	Outputs []Output
}

// Input references a previous transaction's output by hash and index.
type Input struct {
	PrevHash  [32]byte
	PrevIndex uint16
}

// Block is one block in the simulated chain.
type Block struct {
	Index        uint32
	Timestamp    uint32
	Transactions []*Transaction
}

// SignedData implements vmcore.SignedDataProvider: it returns the byte
// sequence CHECKSIG/CHECKMULTISIG verify a witness against, a deterministic
// encoding of every input and output so the same transaction always
// produces the same signed message.
func (t *Transaction) SignedData() []byte {
	buf := make([]byte, 0, 8+len(t.Inputs)*34+len(t.Outputs)*44)
	for _, in := range t.Inputs {
		buf = append(buf, in.PrevHash[:]...)
		var idx [2]byte
		binary.LittleEndian.PutUint16(idx[:], in.PrevIndex)
		buf = append(buf, idx[:]...)
	}
	for _, out := range t.Outputs {
		buf = append(buf, out.AssetID[:]...)
		var amt [8]byte
		binary.LittleEndian.PutUint64(amt[:], uint64(out.Amount))
		buf = append(buf, amt[:]...)
		buf = append(buf, out.ToScriptHash[:]...)
	}
	return buf
}
