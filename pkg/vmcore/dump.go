package vmcore

import (
	"encoding/hex"
	"encoding/json"
)

// dumpItem is the JSON-friendly projection of one stack item, used by
// DumpEStack/DumpAltStack/DumpIStack for any UI built on this core (§4.1's
// "Observables" bullet), grounded on the teacher's Context.DumpStaticSlot.
type dumpItem struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func dumpStack(s *Stack) string {
	items := s.ToSlice()
	out := make([]dumpItem, len(items))
	for i, it := range items {
		out[i] = dumpItem{Type: it.String(), Value: it.Value()}
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	return string(b)
}

// DumpEStack returns a JSON-formatted snapshot of the evaluation stack,
// bottom first.
func (v *VM) DumpEStack() string { return dumpStack(&v.estack) }

// DumpAltStack returns a JSON-formatted snapshot of the alt stack.
func (v *VM) DumpAltStack() string { return dumpStack(&v.altstack) }

// dumpFrame is the JSON-friendly projection of one invocation context.
type dumpFrame struct {
	ScriptHash string `json:"scriptHash"`
	IP         int    `json:"ip"`
}

// DumpIStack returns a JSON-formatted snapshot of the invocation stack,
// outermost first.
func (v *VM) DumpIStack() string {
	out := make([]dumpFrame, len(v.istack))
	for i, ctx := range v.istack {
		sh := ctx.ScriptHash()
		out[i] = dumpFrame{ScriptHash: hex.EncodeToString(sh[:]), IP: ctx.IP()}
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	return string(b)
}
