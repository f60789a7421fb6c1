package interop

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/stackitem"
	"github.com/phetter/neo-debugger-tools/pkg/vmcore"
)

func popBytes(rt *Runtime) ([]byte, error) {
	it, err := rt.VM.Estack().Pop()
	if err != nil {
		return nil, err
	}
	return it.TryBytes()
}

// storageGet implements Neo.Storage.Get: pops a key, pushes the stored
// value or an empty ByteArray if the key is absent.
func storageGet(rt *Runtime) error {
	key, err := popBytes(rt)
	if err != nil {
		return err
	}
	val, ok := rt.Address.GetStorage(key)
	if !ok {
		val = nil
	}
	rt.VM.Estack().PushVal(val)
	return nil
}

// storagePut implements Neo.Storage.Put: pops value then key, writes it to
// the current address's storage. Records the written length in
// LastStorageBytes so the Emulator's gas table can apply the
// ceil(bytes/1024) multiplier described in §4.3.
func storagePut(rt *Runtime) error {
	val, err := popBytes(rt)
	if err != nil {
		return err
	}
	key, err := popBytes(rt)
	if err != nil {
		return err
	}
	rt.LastStorageBytes = rt.Address.PutStorage(key, val)
	rt.logger().Debug("storage put",
		zap.String("address", rt.Address.Name),
		zap.Int("key_len", len(key)),
		zap.Int("value_len", len(val)),
	)
	return nil
}

// storageDelete implements Neo.Storage.Delete: pops a key and removes it.
func storageDelete(rt *Runtime) error {
	key, err := popBytes(rt)
	if err != nil {
		return err
	}
	rt.Address.DeleteStorage(key)
	return nil
}

// runtimeNotify implements Neo.Runtime.Notify: pops a state item and an
// event-name ByteArray, appends a NotificationEvent to the VM's observable
// list.
func runtimeNotify(rt *Runtime) error {
	state, err := rt.VM.Estack().Pop()
	if err != nil {
		return err
	}
	nameB, err := popBytes(rt)
	if err != nil {
		return err
	}
	rt.VM.Notifications = append(rt.VM.Notifications, vmcore.NotificationEvent{
		ScriptHash: rt.Address.ScriptHash,
		Name:       string(nameB),
		State:      state,
	})
	rt.logger().Info("runtime notify",
		zap.String("address", rt.Address.Name),
		zap.String("event", string(nameB)),
	)
	return nil
}

// runtimeLog implements Neo.Runtime.Log: pops a message ByteArray and
// records it as a notification under the fixed name "Runtime.Log".
func runtimeLog(rt *Runtime) error {
	msg, err := popBytes(rt)
	if err != nil {
		return err
	}
	rt.VM.Notifications = append(rt.VM.Notifications, vmcore.NotificationEvent{
		ScriptHash: rt.Address.ScriptHash,
		Name:       "Runtime.Log",
		State:      stackitem.NewByteArray(msg),
	})
	rt.logger().Info("runtime log",
		zap.String("address", rt.Address.Name),
		zap.ByteString("message", msg),
	)
	return nil
}

// runtimeCheckWitness implements Neo.Runtime.CheckWitness: pops a script
// hash or public key and pushes whether it's satisfied, honoring the
// debugger's WitnessMode override before falling back to a same-address
// self-check (§4.3's "witness-mode override" and the glossary's
// "Witness mode" entry).
func runtimeCheckWitness(rt *Runtime) error {
	hashArg, err := popBytes(rt)
	if err != nil {
		return err
	}
	var result bool
	switch rt.Witness {
	case WitnessAlwaysTrue:
		result = true
	case WitnessAlwaysFalse:
		result = false
	default:
		result = bytes.Equal(hashArg, rt.Address.ScriptHash[:])
	}
	rt.VM.Estack().PushVal(result)
	return nil
}

// blockchainGetHeight implements Neo.Blockchain.GetHeight.
func blockchainGetHeight(rt *Runtime) error {
	rt.VM.Estack().PushVal(int(rt.Chain.CurrentHeight()))
	return nil
}

// blockchainGetHeader implements Neo.Blockchain.GetHeader: pops a height
// and pushes the block as an opaque InteropInterface handle, since header
// field accessors live outside the opcode set this core implements.
func blockchainGetHeader(rt *Runtime) error {
	it, err := rt.VM.Estack().Pop()
	if err != nil {
		return err
	}
	n, err := it.TryInteger()
	if err != nil {
		return fmt.Errorf("Blockchain.GetHeader: height argument: %w", err)
	}
	block := rt.Chain.GetBlock(uint32(n.Int64()))
	if block == nil {
		return fmt.Errorf("Blockchain.GetHeader: no block at height %d", n.Int64())
	}
	rt.VM.Estack().Push(stackitem.NewInterop(block))
	return nil
}
