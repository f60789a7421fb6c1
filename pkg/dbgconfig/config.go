// Package dbgconfig loads the debugger's optional YAML configuration file:
// gas table overrides, default witness mode/trigger, and the profiler CSV
// output path, per §10.1 of the expanded spec.
package dbgconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/phetter/neo-debugger-tools/pkg/interop"
)

// Trigger hints the execution context to an interop handler, per the
// glossary's "Trigger" entry.
type Trigger string

const (
	TriggerApplication  Trigger = "Application"
	TriggerVerification Trigger = "Verification"
)

// Config is the debugger's tunable defaults. Every field has a sane
// built-in default — no file is required to run.
type Config struct {
	// GasOverrides replaces the registered base cost of named syscalls,
	// keyed by the same name passed to interop.Registry.Register.
	GasOverrides map[string]float64 `yaml:"gasOverrides"`
	// DefaultWitnessMode is applied to a fresh Emulator unless the façade
	// overrides it via SetDebugParameters.
	DefaultWitnessMode string `yaml:"defaultWitnessMode"`
	DefaultTrigger     Trigger `yaml:"defaultTrigger"`
	// ProfilerCSVPath, if set, is where DebugManager writes the profiler
	// dump each time a run finishes or faults.
	ProfilerCSVPath string `yaml:"profilerCsvPath"`
}

// Default returns the built-in configuration: no gas overrides, witness
// mode Default, trigger Application, no CSV dump.
func Default() *Config {
	return &Config{
		GasOverrides:       map[string]float64{},
		DefaultWitnessMode: "Default",
		DefaultTrigger:     TriggerApplication,
	}
}

// Load reads and parses a YAML config file at path. A missing file is not
// an error — it returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "dbgconfig: read %s", path)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "dbgconfig: parse %s", path)
	}
	return cfg, nil
}

// WitnessMode translates the config's string field to an interop.WitnessMode.
func (c *Config) WitnessMode() interop.WitnessMode {
	switch c.DefaultWitnessMode {
	case "AlwaysTrue":
		return interop.WitnessAlwaysTrue
	case "AlwaysFalse":
		return interop.WitnessAlwaysFalse
	default:
		return interop.WitnessDefault
	}
}
