// Package emulator implements the Emulator (stepper): it wraps the
// ExecutionEngine with gas accounting, reset/argument handling and
// per-step state translation, per §4.3 of the spec.
package emulator

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/interop"
	"github.com/phetter/neo-debugger-tools/pkg/opcode"
	"github.com/phetter/neo-debugger-tools/pkg/profiler"
	"github.com/phetter/neo-debugger-tools/pkg/vmcore"
)

// StateKind is the observable state the façade renders, per §3's
// DebuggerState definition.
type StateKind int

const (
	Invalid StateKind = iota
	Reset
	Running
	Finished
	Exception
	Break
)

func (k StateKind) String() string {
	switch k {
	case Reset:
		return "Reset"
	case Running:
		return "Running"
	case Finished:
		return "Finished"
	case Exception:
		return "Exception"
	case Break:
		return "Break"
	default:
		return "Invalid"
	}
}

// DebuggerState is the value a Step/Run call returns.
type DebuggerState struct {
	Kind   StateKind
	Offset int
}

// Emulator owns one ExecutionEngine, the address being debugged, the
// transaction acting as script container, the breakpoint set, gas
// counters, and the witness-mode override.
type Emulator struct {
	chain    *chainsim.Blockchain
	registry *interop.Registry
	logger   *zap.Logger

	vm      *vmcore.VM
	address *chainsim.Address
	tx      *chainsim.Transaction

	breakpoints map[int]bool

	state StateKind

	UsedGas         float64
	UsedOpcodeCount int

	profiler *profiler.Profiler
	// lineFunc resolves the offset a step executed at to a source line, for
	// profiler attribution. The façade owns view-mode-aware resolution
	// (§4.4); nil means "no line mapping available", and costs are
	// attributed to the opcode dimension only.
	lineFunc func(offset int) int
}

// New returns an Emulator bound to chain and registry. A nil logger is
// replaced with a no-op logger.
func New(chain *chainsim.Blockchain, registry *interop.Registry, logger *zap.Logger) *Emulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emulator{
		chain:       chain,
		registry:    registry,
		logger:      logger,
		breakpoints: make(map[int]bool),
		state:       Invalid,
	}
}

// SetAddress selects the contract to run. Must be called before Reset.
func (e *Emulator) SetAddress(addr *chainsim.Address) { e.address = addr }

// SetChain rebinds the blockchain the next Reset wires into the engine's
// contract resolver and the registry's Runtime — needed when the façade
// swaps in a freshly loaded .chain document after construction.
func (e *Emulator) SetChain(chain *chainsim.Blockchain) { e.chain = chain }

// SetTransaction attaches an explicit script container. If unset, Reset
// synthesizes a default one against the chain's current block.
func (e *Emulator) SetTransaction(tx *chainsim.Transaction) { e.tx = tx }

// SetWitnessMode controls CheckWitness's result, per §4.3.
func (e *Emulator) SetWitnessMode(mode interop.WitnessMode) {
	e.registry.Runtime().Witness = mode
}

// SetProfiler attaches a Profiler every Step forwards opcode/cost tallies
// to. lineFunc, if non-nil, resolves an instruction's offset to a source
// line for per-line attribution.
func (e *Emulator) SetProfiler(p *profiler.Profiler, lineFunc func(offset int) int) {
	e.profiler = p
	e.lineFunc = lineFunc
}

// Profiler returns the attached profiler, or nil if none was set.
func (e *Emulator) Profiler() *profiler.Profiler { return e.profiler }

// AddBreakpoint arms a byte-offset breakpoint. Re-armed on every Reset.
func (e *Emulator) AddBreakpoint(offset int) { e.breakpoints[offset] = true }

// RemoveBreakpoint disarms a byte-offset breakpoint.
func (e *Emulator) RemoveBreakpoint(offset int) { delete(e.breakpoints, offset) }

// VM exposes the underlying engine for observables (stack dumps, etc).
func (e *Emulator) VM() *vmcore.VM { return e.vm }

// State returns the last DebuggerState kind.
func (e *Emulator) State() StateKind { return e.state }

// Reset rebuilds the ExecutionEngine from scratch: synthesizes a
// transaction if none is set, loads the contract bytecode, builds and
// loads a loader script for args, and re-arms breakpoints, per §4.3.
func (e *Emulator) Reset(args []Arg) error {
	if e.address == nil {
		return fmt.Errorf("emulator: no address selected")
	}
	e.UsedGas = 0
	e.UsedOpcodeCount = 0
	if e.profiler != nil {
		e.profiler.Reset()
	}

	if e.tx == nil {
		e.tx = &chainsim.Transaction{}
	}

	e.vm = vmcore.New()
	e.vm.SetInteropResolver(e.registry)
	e.vm.SetContractResolver(e.chain)
	e.vm.ScriptContainerHandle = e.tx

	if err := e.vm.LoadScript(e.address.ByteCode, e.address.ScriptHash); err != nil {
		return fmt.Errorf("emulator: load contract: %w", err)
	}

	loader, err := BuildLoaderScript(args)
	if err != nil {
		return fmt.Errorf("emulator: build loader script: %w", err)
	}
	if len(loader) > 0 {
		if err := e.vm.LoadScript(loader, e.address.ScriptHash); err != nil {
			return fmt.Errorf("emulator: load loader script: %w", err)
		}
	}

	rt := e.registry.Runtime()
	rt.VM = e.vm
	rt.Address = e.address
	rt.Chain = e.chain
	rt.Logger = e.logger

	for off := range e.breakpoints {
		e.vm.AddBreakpoint(off)
	}

	e.state = Reset
	e.logger.Debug("emulator reset", zap.String("address", e.address.Name))
	// Clear the transaction so an auto-Reset with no intervening
	// SetTransaction/SetDebugParameters call synthesizes a fresh default
	// one, rather than reusing this run's attached outputs.
	e.tx = nil
	return nil
}

// Step advances the engine exactly one instruction and returns the
// translated DebuggerState, per §4.3's Step() contract.
func (e *Emulator) Step() DebuggerState {
	if e.state == Finished || e.state == Invalid {
		return e.snapshot()
	}

	op := e.vm.LastOpcode()
	startOff := 0
	if ctx := e.vm.CurrentContext(); ctx != nil && !ctx.AtEnd() {
		op = ctx.Script().OpcodeAt(ctx.IP())
		startOff = ctx.IP()
	}

	rt := e.registry.Runtime()
	rt.LastStorageBytes = 0

	if err := e.vm.StepInto(); err != nil {
		// The fault is also recorded on the VM itself (LastFault) and
		// surfaced through State() on the next translate() call; logging
		// here is just for visibility while stepping interactively.
		e.logger.Debug("step fault", zap.Error(err))
	}

	e.UsedOpcodeCount++
	cost := e.gasCost(op, e.vm.LastSysCall(), rt.LastStorageBytes)
	e.UsedGas += cost

	if e.profiler != nil {
		recordOp := op
		if rt.LastStorageBytes > 0 && strings.HasSuffix(e.vm.LastSysCall(), "Storage.Put") {
			recordOp = opcode.Storage
		}
		line := -1
		if e.lineFunc != nil {
			line = e.lineFunc(startOff)
		}
		e.profiler.Record(recordOp, line, cost)
	}

	return e.translate()
}

// StepOver runs until the invocation-stack depth returns to its pre-step
// depth (i.e. the call just issued returns) or a breakpoint/terminal state
// is hit, grounded on the teacher's `handleStepType` STEP_OVER handling
// (§10.3 of the expanded spec).
func (e *Emulator) StepOver() DebuggerState {
	startDepth := e.vm.Depth()
	for {
		st := e.Step()
		if st.Kind != Running {
			return st
		}
		if e.vm.Depth() <= startDepth {
			return st
		}
	}
}

// StepOut runs until the current invocation context pops (depth drops
// below its value at call time) or a breakpoint/terminal state is hit.
func (e *Emulator) StepOut() DebuggerState {
	startDepth := e.vm.Depth()
	for {
		st := e.Step()
		if st.Kind != Running {
			return st
		}
		if e.vm.Depth() < startDepth {
			return st
		}
	}
}

// Run repeatedly calls Step until the state is no longer Running.
func (e *Emulator) Run() DebuggerState {
	st := e.snapshot()
	for {
		st = e.Step()
		if st.Kind != Running {
			return st
		}
	}
}

func (e *Emulator) snapshot() DebuggerState {
	off := 0
	if ctx := e.vm.CurrentContext(); ctx != nil {
		off = ctx.IP()
	}
	return DebuggerState{Kind: e.state, Offset: off}
}

// translate converts engine state flags into a StateKind, per §4.3 step 6.
// It leaves BREAK set on the engine; VM.StepInto clears it at the start of
// the next step, so the next Step resumes.
func (e *Emulator) translate() DebuggerState {
	off := 0
	if ctx := e.vm.CurrentContext(); ctx != nil {
		off = ctx.IP()
	}

	st := e.vm.State()
	switch {
	case st.Has(vmcore.FAULT):
		e.state = Exception
	case st.Has(vmcore.BREAK):
		e.state = Break
	case st.Has(vmcore.HALT):
		e.state = Finished
	default:
		e.state = Running
	}
	return DebuggerState{Kind: e.state, Offset: off}
}

// gasCost implements §4.3 step 4's cost table.
func (e *Emulator) gasCost(op opcode.Opcode, syscallName string, storageBytes int) float64 {
	switch {
	case opcode.IsPush(op):
		return 0
	case op == opcode.CHECKSIG || op == opcode.CHECKMULTISIG:
		return 0.1
	case op == opcode.APPCALL || op == opcode.TAILCALL || op == opcode.SHA256 || op == opcode.SHA1:
		return 0.01
	case op == opcode.HASH256 || op == opcode.HASH160:
		return 0.02
	case op == opcode.NOP:
		return 0
	case op == opcode.SYSCALL:
		base := e.registry.BaseGasCost(syscallName)
		if strings.HasSuffix(syscallName, "Storage.Put") {
			mult := math.Ceil(float64(storageBytes) / 1024.0)
			if mult < 1 {
				mult = 1
			}
			return base * mult
		}
		return base
	default:
		return 0.001
	}
}
