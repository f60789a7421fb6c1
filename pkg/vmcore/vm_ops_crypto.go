package vmcore

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/phetter/neo-debugger-tools/pkg/neohash"
	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
)

// cryptoOps handles hashing and signature-verification instructions.
var cryptoOps = map[opcode.Opcode]func(*VM) error{
	opcode.SHA1:          hashOp(neohash.SHA1),
	opcode.SHA256:        hashOp(neohash.SHA256),
	opcode.HASH160:       hashOp(neohash.Hash160),
	opcode.HASH256:       hashOp(neohash.Hash256),
	opcode.CHECKSIG:      opCheckSig,
	opcode.VERIFY:        opVerify,
	opcode.CHECKMULTISIG: opCheckMultiSig,
}

func hashOp(f func([]byte) []byte) func(*VM) error {
	return func(v *VM) error {
		b, err := popBytes(v)
		if err != nil {
			return err
		}
		v.estack.PushVal(f(b))
		return nil
	}
}

// SignedDataProvider is implemented by whatever the VM's
// ScriptContainerHandle points at, so CHECKSIG/CHECKMULTISIG can obtain the bytes
// a witness signature was made over without the container needing a
// back-pointer into the VM (§9 design note).
type SignedDataProvider interface {
	SignedData() []byte
}

func (v *VM) signedData() ([]byte, error) {
	p, ok := v.ScriptContainerHandle.(SignedDataProvider)
	if !ok {
		return nil, fmt.Errorf("no signed-data-providing script container attached")
	}
	return p.SignedData(), nil
}

// verifySig reports whether sig (DER-encoded) is a valid secp256k1
// signature by pubkey (compressed, 33 bytes) over message. Malformed
// pubkeys or signatures are treated as a verification failure rather than
// a VM fault, matching the classic VM's witness-check behavior.
func verifySig(pubkey, sig, message []byte) bool {
	pk, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	s, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	digest := neohash.SHA256(message)
	return s.Verify(digest, pk)
}

func opCheckSig(v *VM) error {
	pubkey, err := popBytes(v)
	if err != nil {
		return err
	}
	sig, err := popBytes(v)
	if err != nil {
		return err
	}
	msg, err := v.signedData()
	if err != nil {
		v.estack.Push(stackitem.NewBool(false))
		return nil
	}
	v.estack.Push(stackitem.NewBool(verifySig(pubkey, sig, msg)))
	return nil
}

// opVerify is CHECKSIG's three-argument form: the message is taken from
// the stack instead of the script container.
func opVerify(v *VM) error {
	pubkey, err := popBytes(v)
	if err != nil {
		return err
	}
	sig, err := popBytes(v)
	if err != nil {
		return err
	}
	msg, err := popBytes(v)
	if err != nil {
		return err
	}
	v.estack.Push(stackitem.NewBool(verifySig(pubkey, sig, msg)))
	return nil
}

// opCheckMultiSig pops a pubkey array then a signature array and reports
// whether every signature matches a distinct pubkey, checked in order (the
// classic m-of-n witness rule: signatures must appear in the same relative
// order as their matching pubkeys).
func opCheckMultiSig(v *VM) error {
	pubsItem, err := v.estack.Pop()
	if err != nil {
		return err
	}
	sigsItem, err := v.estack.Pop()
	if err != nil {
		return err
	}
	pubs, err := itemsOf(pubsItem)
	if err != nil {
		return err
	}
	sigs, err := itemsOf(sigsItem)
	if err != nil {
		return err
	}
	msg, err := v.signedData()
	if err != nil {
		v.estack.Push(stackitem.NewBool(false))
		return nil
	}

	pi := 0
	for _, sigIt := range sigs {
		sig, err := sigIt.TryBytes()
		if err != nil {
			return fmt.Errorf("%w: CHECKMULTISIG signature", ErrInvalidCast)
		}
		matched := false
		for ; pi < len(pubs); pi++ {
			pub, err := pubs[pi].TryBytes()
			if err != nil {
				return fmt.Errorf("%w: CHECKMULTISIG pubkey", ErrInvalidCast)
			}
			if verifySig(pub, sig, msg) {
				matched = true
				pi++
				break
			}
		}
		if !matched {
			v.estack.Push(stackitem.NewBool(false))
			return nil
		}
	}
	v.estack.Push(stackitem.NewBool(true))
	return nil
}

func itemsOf(it stackitem.Item) ([]stackitem.Item, error) {
	arr, ok := it.Value().([]stackitem.Item)
	if !ok {
		return nil, fmt.Errorf("%w: expected Array", ErrInvalidCast)
	}
	return arr, nil
}
