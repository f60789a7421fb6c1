package chainsim

import (
	"encoding/hex"
	"fmt"
	"os"

	ojson "github.com/nspcc-dev/go-ordered-json"
	"github.com/pkg/errors"
)

// docTransaction/docOutput/docInput/docBlock/docAddress are the on-disk
// shapes for the .chain document, hex-encoding every binary field so the
// result is plain, order-preserving JSON (§10.4 of the expanded spec).
type docOutput struct {
	AssetID      string `json:"assetId"`
	Amount       int64  `json:"amount"`
	ToScriptHash string `json:"toScriptHash"`
}

type docInput struct {
	PrevHash  string `json:"prevHash"`
	PrevIndex uint16 `json:"prevIndex"`
}

type docTransaction struct {
	Inputs  []docInput  `json:"inputs"`
	Outputs []docOutput `json:"outputs"`
}

type docBlock struct {
	Index        uint32           `json:"index"`
	Timestamp    uint32           `json:"timestamp"`
	Transactions []docTransaction `json:"transactions"`
}

type docAddress struct {
	Name       string `json:"name"`
	ScriptHash string `json:"scriptHash"`
	PublicKey  string `json:"publicKey,omitempty"`
	ByteCode   string `json:"byteCode,omitempty"`
	// Storage preserves the write order of the key/value pairs (not
	// alphabetical) using an order-preserving JSON object, so a debugger
	// UI reviewing storage history sees writes in the order they happened.
	Storage *ojson.OrderedMap `json:"storage"`
}

type document struct {
	Version   int          `json:"version"`
	Blocks    []docBlock   `json:"blocks"`
	Addresses []docAddress `json:"addresses"`
}

// Save writes bc to path as a .chain document.
func Save(bc *Blockchain, path string) error {
	data, err := Marshal(bc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write .chain file")
	}
	return nil
}

// Marshal encodes bc as the .chain document bytes.
func Marshal(bc *Blockchain) ([]byte, error) {
	doc := document{Version: CurrentVersion}
	for _, b := range bc.blocks {
		db := docBlock{Index: b.Index, Timestamp: b.Timestamp}
		for _, tx := range b.Transactions {
			dtx := docTransaction{}
			for _, in := range tx.Inputs {
				dtx.Inputs = append(dtx.Inputs, docInput{
					PrevHash:  hex.EncodeToString(in.PrevHash[:]),
					PrevIndex: in.PrevIndex,
				})
			}
			for _, out := range tx.Outputs {
				dtx.Outputs = append(dtx.Outputs, docOutput{
					AssetID:      hex.EncodeToString(out.AssetID[:]),
					Amount:       out.Amount,
					ToScriptHash: hex.EncodeToString(out.ToScriptHash[:]),
				})
			}
			db.Transactions = append(db.Transactions, dtx)
		}
		doc.Blocks = append(doc.Blocks, db)
	}
	for _, a := range bc.addresses {
		storage := ojson.NewOrderedMap()
		for _, kv := range a.StorageItems() {
			storage.Set(hex.EncodeToString(kv[0]), hex.EncodeToString(kv[1]))
		}
		da := docAddress{
			Name:       a.Name,
			ScriptHash: hex.EncodeToString(a.ScriptHash[:]),
			ByteCode:   hex.EncodeToString(a.ByteCode),
			Storage:    storage,
		}
		if a.Key != nil {
			da.PublicKey = hex.EncodeToString(a.Key.PublicKey)
		}
		doc.Addresses = append(doc.Addresses, da)
	}
	return ojson.MarshalIndent(doc, "", "  ")
}

// Load reads the .chain document at path and reconstructs a Blockchain. An
// unrecognized version is a hard LoadError, per §6.
func Load(path string) (*Blockchain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read .chain file")
	}
	return Unmarshal(data)
}

// Unmarshal decodes .chain document bytes into a Blockchain.
func Unmarshal(data []byte) (*Blockchain, error) {
	var doc document
	if err := ojson.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse .chain document")
	}
	if doc.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnknownVersion, doc.Version, CurrentVersion)
	}

	bc := &Blockchain{}
	for _, db := range doc.Blocks {
		b := &Block{Index: db.Index, Timestamp: db.Timestamp}
		for _, dtx := range db.Transactions {
			tx := &Transaction{}
			for _, in := range dtx.Inputs {
				var input Input
				if err := decodeHash32(in.PrevHash, &input.PrevHash); err != nil {
					return nil, err
				}
				input.PrevIndex = in.PrevIndex
				tx.Inputs = append(tx.Inputs, input)
			}
			for _, out := range dtx.Outputs {
				var o Output
				if err := decodeHash32(out.AssetID, &o.AssetID); err != nil {
					return nil, err
				}
				if err := decodeHash20(out.ToScriptHash, &o.ToScriptHash); err != nil {
					return nil, err
				}
				o.Amount = out.Amount
				tx.Outputs = append(tx.Outputs, o)
			}
			b.Transactions = append(b.Transactions, tx)
		}
		bc.blocks = append(bc.blocks, b)
	}
	for _, da := range doc.Addresses {
		byteCode, err := hex.DecodeString(da.ByteCode)
		if err != nil {
			return nil, errors.Wrap(err, "decode address bytecode")
		}
		addr := &Address{Name: da.Name, ByteCode: byteCode}
		if err := decodeHash20(da.ScriptHash, &addr.ScriptHash); err != nil {
			return nil, err
		}
		if da.PublicKey != "" {
			pk, err := hex.DecodeString(da.PublicKey)
			if err != nil {
				return nil, errors.Wrap(err, "decode address public key")
			}
			addr.Key = &KeyPair{PublicKey: pk}
		}
		var items [][2][]byte
		if da.Storage != nil {
			for _, k := range da.Storage.Keys() {
				v, _ := da.Storage.Get(k)
				kb, err := hex.DecodeString(k)
				if err != nil {
					return nil, errors.Wrap(err, "decode storage key")
				}
				vb, err := hex.DecodeString(fmt.Sprint(v))
				if err != nil {
					return nil, errors.Wrap(err, "decode storage value")
				}
				items = append(items, [2][]byte{kb, vb})
			}
		}
		addr.SetStorageItems(items)
		bc.addresses = append(bc.addresses, addr)
	}
	return bc, nil
}

func decodeHash32(s string, out *[32]byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrap(err, "decode hash")
	}
	copy(out[:], b)
	return nil
}

func decodeHash20(s string, out *[20]byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrap(err, "decode hash")
	}
	copy(out[:], b)
	return nil
}
