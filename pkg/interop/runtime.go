// Package interop implements the InteropRegistry: named SYSCALL handlers
// with a registered base gas cost, dispatched against the currently
// executing address and the simulated blockchain, per §4.2 of the spec.
package interop

import (
	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/vmcore"
)

// WitnessMode overrides the result of CheckWitness syscalls, letting the
// debugger simulate a passing or failing witness without a real signature.
type WitnessMode int

const (
	WitnessDefault WitnessMode = iota
	WitnessAlwaysTrue
	WitnessAlwaysFalse
)

// Runtime is the context a handler executes against: the VM it was called
// from, the address whose storage it may touch, the chain it may query,
// and the witness-mode override currently in effect.
type Runtime struct {
	VM      *vmcore.VM
	Address *chainsim.Address
	Chain   *chainsim.Blockchain
	Witness WitnessMode
	Logger  *zap.Logger

	// Trigger is the execution context hint ("Application" or
	// "Verification") the façade last set via SetDebugParameters. No
	// built-in handler branches on it yet; it's exposed for custom
	// registrations that need to tell the two contexts apart.
	Trigger string

	// LastStorageBytes records the length of the value written by the most
	// recent Storage.Put, so the Emulator can scale that step's gas cost.
	LastStorageBytes int
}

func (rt *Runtime) logger() *zap.Logger {
	if rt.Logger == nil {
		return zap.NewNop()
	}
	return rt.Logger
}
