package profiler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phetter/neo-debugger-tools/pkg/opcode"
)

// Collector mirrors a Profiler's per-opcode tallies as Prometheus metrics.
// It's purely additive observability — nothing in the spec requires it —
// and is only active once the caller registers it with a registry.
type Collector struct {
	p *Profiler

	opcodeCount *prometheus.Desc
	opcodeCost  *prometheus.Desc
}

// NewCollector returns a Collector mirroring p.
func NewCollector(p *Profiler) *Collector {
	return &Collector{
		p: p,
		opcodeCount: prometheus.NewDesc(
			"neodbg_opcode_executions_total",
			"Number of times an opcode has been executed in the current session.",
			[]string{"opcode"}, nil,
		),
		opcodeCost: prometheus.NewDesc(
			"neodbg_opcode_gas_total",
			"Accumulated gas cost attributed to an opcode in the current session.",
			[]string{"opcode"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.opcodeCount
	ch <- c.opcodeCost
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for op, t := range c.p.opcodes {
		name := opcode.Opcode(op).String()
		ch <- prometheus.MustNewConstMetric(c.opcodeCount, prometheus.CounterValue, float64(t.Count), name)
		ch <- prometheus.MustNewConstMetric(c.opcodeCost, prometheus.CounterValue, t.TotalCost, name)
	}
}
