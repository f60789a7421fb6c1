package debugger

import (
	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/dbgconfig"
	"github.com/phetter/neo-debugger-tools/pkg/emulator"
	"github.com/phetter/neo-debugger-tools/pkg/interop"
)

// DebugParameters is the bundle SetDebugParameters applies before a Reset,
// per §4.4: witness mode, trigger, timestamp override, optional transaction
// outputs, and the argument list.
type DebugParameters struct {
	WitnessMode       interop.WitnessMode
	Trigger           dbgconfig.Trigger
	TimestampOverride uint32
	Outputs           []chainsim.Output
	Args              []emulator.Arg
}
