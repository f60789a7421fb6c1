package debugger

import (
	"os"

	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/dbgconfig"
	"github.com/phetter/neo-debugger-tools/pkg/emulator"
	"github.com/phetter/neo-debugger-tools/pkg/profiler"
	"github.com/phetter/neo-debugger-tools/pkg/vmcore"
)

// VM exposes the underlying engine for stack/state inspection. It is nil
// until the first Reset (the first Step/StepOver/StepOut/Run call).
func (d *DebugManager) VM() *vmcore.VM {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.emulator.VM()
}

// UsedGas returns the cumulative gas charged this session.
func (d *DebugManager) UsedGas() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.emulator.UsedGas
}

// UsedOpcodeCount returns the cumulative instruction count this session.
func (d *DebugManager) UsedOpcodeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.emulator.UsedOpcodeCount
}

// Profiler exposes the session's per-opcode tallies, so a caller can wire
// profiler.NewCollector into a Prometheus registry alongside the CSV dump.
func (d *DebugManager) Profiler() *profiler.Profiler {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profiler
}

// CurrentState returns the last FacadeState observed by Step/Run/StepOver/
// StepOut, without advancing execution.
func (d *DebugManager) CurrentState() FacadeState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastState
}

// createProfilerDump truncates or creates the profiler CSV output file.
func createProfilerDump(path string) (*os.File, error) {
	return os.Create(path)
}

// AddBreakpoint resolves line in the current view mode to a byte offset and
// arms it on the Emulator. It returns false without effect if line isn't
// covered by the loaded artifacts (a MapResolveMiss, per §7) — e.g. a
// Source-mode line with no DebugMap loaded, or a line past the end of the
// disassembly.
func (d *DebugManager) AddBreakpoint(line int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	off := d.resolveOffset(line)
	if off < 0 {
		return false
	}
	d.emulator.AddBreakpoint(off)
	return true
}

// RemoveBreakpoint disarms the breakpoint at line, in the current view
// mode. Returns false if line doesn't resolve to a mapped offset.
func (d *DebugManager) RemoveBreakpoint(line int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	off := d.resolveOffset(line)
	if off < 0 {
		return false
	}
	d.emulator.RemoveBreakpoint(off)
	return true
}

// resolveOffset is resolveLine's inverse: view-mode-aware line -> offset.
func (d *DebugManager) resolveOffset(line int) int {
	if d.current == nil {
		return -1
	}
	switch d.viewMode {
	case Source:
		if d.current.dmap == nil {
			return -1
		}
		return d.current.dmap.ResolveOffset(line)
	default:
		if d.current.disasm == nil {
			return -1
		}
		return d.current.disasm.LineToOffset(line)
	}
}

// ToggleDebugMode swaps between Source and Assembly view. It only affects
// how AddBreakpoint/RemoveBreakpoint/UpdateState resolve lines; it never
// touches execution state.
func (d *DebugManager) ToggleDebugMode() ViewMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.viewMode == Source {
		d.viewMode = Assembly
	} else {
		d.viewMode = Source
	}
	return d.viewMode
}

// SetDebugParameters applies the witness mode, trigger, timestamp override,
// transaction outputs and argument list that the next Reset will run with,
// per §4.4. It marks the session as requiring a Reset before the next Step.
func (d *DebugManager) SetDebugParameters(params DebugParameters) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.emulator.SetWitnessMode(params.WitnessMode)
	d.registry.Runtime().Trigger = string(params.Trigger)
	if params.Trigger == "" {
		d.registry.Runtime().Trigger = string(dbgconfig.TriggerApplication)
	}

	d.emulator.SetTransaction(&chainsim.Transaction{Outputs: params.Outputs})

	if block := d.chain.CurrentBlock(); block != nil {
		block.Timestamp = params.TimestampOverride
	}

	d.args = params.Args
	d.resetFlag = true
	return nil
}

// ensureReset runs Reset with the last-applied arguments if the session is
// pending one, per the "ResetFlag" half of §4.4's contract: a Step/Run call
// that follows a load or a parameter change always starts from a fresh
// engine.
func (d *DebugManager) ensureReset() error {
	if !d.resetFlag {
		return nil
	}
	if err := d.emulator.Reset(d.args); err != nil {
		return err
	}
	d.resetFlag = false
	return nil
}

// Step advances the engine one instruction, resetting first if required.
func (d *DebugManager) Step() (FacadeState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureReset(); err != nil {
		return FacadeState{}, err
	}
	return d.updateState(d.emulator.Step()), nil
}

// StepOver advances past the current call without descending into it.
func (d *DebugManager) StepOver() (FacadeState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureReset(); err != nil {
		return FacadeState{}, err
	}
	return d.updateState(d.emulator.StepOver()), nil
}

// StepOut runs until the current invocation context returns.
func (d *DebugManager) StepOut() (FacadeState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureReset(); err != nil {
		return FacadeState{}, err
	}
	return d.updateState(d.emulator.StepOut()), nil
}

// Run executes until the engine halts, faults, or hits a breakpoint.
func (d *DebugManager) Run() (FacadeState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ensureReset(); err != nil {
		return FacadeState{}, err
	}
	return d.updateState(d.emulator.Run()), nil
}

// updateState resolves the current line for the observed engine state,
// writes the profiler CSV dump when a run finishes or faults, saves the
// .chain on Finished,
// and arms resetFlag once the run can't continue without one, per §4.4's
// UpdateState step.
func (d *DebugManager) updateState(st emulator.DebuggerState) FacadeState {
	line := d.resolveLine(st.Offset)

	switch st.Kind {
	case emulator.Finished, emulator.Exception:
		d.resetFlag = true
		if st.Kind == emulator.Finished && d.chainPath != "" {
			if err := chainsim.Save(d.chain, d.chainPath); err != nil {
				d.logger.Warn("auto-save .chain failed", zap.Error(err))
			}
		}
		if st.Kind == emulator.Exception {
			d.logger.Info("execution faulted", zap.Error(d.emulator.VM().LastFault()))
		}
		if d.cfg.ProfilerCSVPath != "" && d.profiler != nil {
			if f, err := createProfilerDump(d.cfg.ProfilerCSVPath); err == nil {
				defer f.Close()
				_ = d.profiler.DumpCSV(f)
			}
		}
	}

	fs := FacadeState{
		Kind:        st.Kind,
		Offset:      st.Offset,
		CurrentLine: line,
		ResetFlag:   d.resetFlag,
	}
	d.lastState = fs
	return fs
}
