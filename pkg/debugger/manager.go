// Package debugger implements the DebugManager façade: it coordinates the
// Disassembler, DebugMap, Blockchain, Emulator and Profiler, translating
// UI-level requests into engine operations and exposing the observable
// DebuggerState, per §4.4 of the spec.
package debugger

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/abi"
	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/dbgconfig"
	"github.com/phetter/neo-debugger-tools/pkg/debugmap"
	"github.com/phetter/neo-debugger-tools/pkg/disasm"
	"github.com/phetter/neo-debugger-tools/pkg/emulator"
	"github.com/phetter/neo-debugger-tools/pkg/interop"
	"github.com/phetter/neo-debugger-tools/pkg/profiler"
)

// ViewMode selects which resolver AddBreakpoint/RemoveBreakpoint and line
// lookups use: the DebugMap (Source) or the Disassembler (Assembly). It
// belongs to the façade, not the engine, per §9's "Mode toggle state" note.
type ViewMode int

const (
	Source ViewMode = iota
	Assembly
)

// artifacts is the cached result of parsing one .avm's worth of bytecode,
// keyed by content hash so reloading the same file or toggling view mode
// during a session doesn't re-parse it.
type artifacts struct {
	disasm *disasm.Disassembly
	dmap   *debugmap.DebugMap
	abi    *abi.ABI
}

// FacadeState is the UI-facing state, extending emulator.DebuggerState with
// the resolved source line and the reset-required flag, per §3's
// DebuggerState definition.
type FacadeState struct {
	Kind        emulator.StateKind
	Offset      int
	CurrentLine int
	ResetFlag   bool
}

// DebugManager is one debugger session: one Blockchain, one InteropRegistry
// runtime, one Emulator, and the artifacts for the currently loaded
// contract.
type DebugManager struct {
	mu sync.Mutex

	sessionID uuid.UUID
	logger    *zap.Logger
	cfg       *dbgconfig.Config

	chain    *chainsim.Blockchain
	chainPath string
	registry *interop.Registry
	emulator *emulator.Emulator
	profiler *profiler.Profiler

	cache *lru.Cache

	current  *artifacts
	address  *chainsim.Address
	viewMode ViewMode
	resetFlag bool
	args      []emulator.Arg
	lastState FacadeState
}

// New returns a DebugManager backed by an empty Blockchain and the default
// interop surface. cfg may be nil, in which case dbgconfig.Default() applies.
func New(logger *zap.Logger, cfg *dbgconfig.Config) *DebugManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = dbgconfig.Default()
	}
	chain := chainsim.New()
	rt := &interop.Runtime{Chain: chain, Logger: logger}
	registry := interop.NewRegistry(rt)
	interop.RegisterDefaults(registry)
	for name, cost := range cfg.GasOverrides {
		registry.OverrideGasCost(name, cost)
	}
	cache, _ := lru.New(16)
	prof := profiler.New()

	dm := &DebugManager{
		sessionID: uuid.New(),
		logger:    logger,
		cfg:       cfg,
		chain:     chain,
		registry:  registry,
		profiler:  prof,
		cache:     cache,
		viewMode:  Source,
		resetFlag: true,
	}
	dm.logger = logger.With(zap.String("session", dm.sessionID.String()))
	dm.emulator = emulator.New(chain, registry, dm.logger)
	dm.emulator.SetProfiler(prof, dm.resolveLine)
	dm.emulator.SetWitnessMode(cfg.WitnessMode())
	return dm
}

// resolveLine translates a byte offset to the line number the current view
// mode shows, or -1 if unmapped. Source mode needs a loaded DebugMap;
// Assembly mode always resolves since the Disassembler maps every
// instruction boundary.
func (d *DebugManager) resolveLine(offset int) int {
	if d.current == nil {
		return -1
	}
	switch d.viewMode {
	case Source:
		if d.current.dmap == nil {
			return -1
		}
		return d.current.dmap.ResolveLine(offset)
	default:
		if d.current.disasm == nil {
			return -1
		}
		return d.current.disasm.OffsetToLine(offset)
	}
}
