package interop

import (
	"github.com/phetter/neo-debugger-tools/pkg/vmcore"
)

// Handler is the shape every registered interop implements: given the
// runtime context, perform a side effect (storage read/write, a
// notification, a blockchain query) and report success via the error
// return, matching the classic VM's boolean-success convention.
type Handler func(rt *Runtime) error

type entry struct {
	gasCost float64
	handler Handler
}

// Registry is a name -> {handler, baseGasCost} table, built by explicit
// registration at construction time rather than by the reflection-driven
// assembly scan the original debugger used (§9 design note).
type Registry struct {
	entries map[string]entry
	rt      *Runtime
}

// NewRegistry returns an empty Registry bound to rt. rt's fields (Address,
// Chain, VM) are expected to be updated in place by the Emulator across
// Reset calls, since the Registry itself is typically constructed once per
// debugger session.
func NewRegistry(rt *Runtime) *Registry {
	return &Registry{entries: make(map[string]entry), rt: rt}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, gasCost float64, h Handler) {
	r.entries[name] = entry{gasCost: gasCost, handler: h}
}

// BaseGasCost returns the registered cost for name, or 0 if unregistered.
func (r *Registry) BaseGasCost(name string) float64 {
	return r.entries[name].gasCost
}

// OverrideGasCost replaces the registered cost for an already-registered
// name, leaving its handler untouched. Used to apply dbgconfig gas-table
// overrides without re-registering every handler.
func (r *Registry) OverrideGasCost(name string, cost float64) {
	e, ok := r.entries[name]
	if !ok {
		return
	}
	e.gasCost = cost
	r.entries[name] = e
}

// Runtime returns the bound runtime context, so the Emulator can rebind
// VM/Address/Chain on Reset without replacing the Registry.
func (r *Registry) Runtime() *Runtime { return r.rt }

// Resolve implements vmcore.SyscallResolver: it looks up name and, if
// found, returns a closure over the bound Runtime that the VM can invoke
// with only itself as an argument.
func (r *Registry) Resolve(name string) (vmcore.SyscallHandler, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return func(v *vmcore.VM) error {
		r.rt.VM = v
		return e.handler(r.rt)
	}, true
}
