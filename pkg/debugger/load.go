package debugger

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/abi"
	"github.com/phetter/neo-debugger-tools/pkg/chainsim"
	"github.com/phetter/neo-debugger-tools/pkg/debugmap"
	"github.com/phetter/neo-debugger-tools/pkg/disasm"
	"github.com/phetter/neo-debugger-tools/pkg/neohash"
)

// errNoChainPath is returned by SaveChain when called with no path and no
// prior LoadChain/SaveChain to infer one from.
var errNoChainPath = errors.New("no .chain path to save to")

// LoadAvmFile loads a compiled contract, deploys it to the session's
// Blockchain under name, and parses whatever sibling artifacts are
// present, per §4.4:
//   - <path> (.avm bytes) -> Disassembler.
//   - <stem>.abi.json, if present -> ABI.
//   - <stem>.debug.json, if present -> DebugMap.
//   - <stem>.neomap, if present -> hard LoadError (legacy format).
func (d *DebugManager) LoadAvmFile(path, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := os.Stat(stem + ".neomap"); err == nil {
		return &LoadError{Artifact: stem + ".neomap", Err: &ErrLegacyDebugFormat{Path: stem + ".neomap"}}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Artifact: path, Err: err}
	}

	key := hex.EncodeToString(neohash.SHA256(raw))
	var art *artifacts
	if cached, ok := d.cache.Get(key); ok {
		art = cached.(*artifacts)
	} else {
		dis, err := disasm.Disassemble(raw)
		if err != nil {
			return &DisassembleError{Err: err}
		}
		art = &artifacts{disasm: dis}

		if abiRaw, err := os.ReadFile(stem + ".abi.json"); err == nil {
			a, err := abi.Load(abiRaw)
			if err != nil {
				return &LoadError{Artifact: stem + ".abi.json", Err: err}
			}
			art.abi = a
		}
		if mapRaw, err := os.ReadFile(stem + ".debug.json"); err == nil {
			dm, err := debugmap.Load(mapRaw)
			if err != nil {
				return &LoadError{Artifact: stem + ".debug.json", Err: err}
			}
			art.dmap = dm
		}
		d.cache.Add(key, art)
	}

	d.current = art
	d.address = d.chain.DeployContract(name, raw)
	d.emulator.SetAddress(d.address)
	d.resetFlag = true
	d.logger.Info("loaded contract",
		zap.String("name", name),
		zap.String("path", path),
		zap.Bool("has_abi", art.abi != nil),
		zap.Bool("has_debug_map", art.dmap != nil),
	)
	return nil
}

// LoadChain loads a .chain document as the session's Blockchain, replacing
// the in-memory one. The façade's selected Address is cleared; the Emulator
// keeps its selected contract and is rebound to the new chain and runtime.
func (d *DebugManager) LoadChain(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	bc, err := chainsim.Load(path)
	if err != nil {
		return &LoadError{Artifact: path, Err: err}
	}
	d.chain = bc
	d.chainPath = path
	d.registry.Runtime().Chain = bc
	d.emulator.SetChain(bc)
	d.address = nil
	d.resetFlag = true
	return nil
}

// SaveChain persists the session's Blockchain to path (or the path it was
// last loaded from, if path is empty).
func (d *DebugManager) SaveChain(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if path == "" {
		path = d.chainPath
	}
	if path == "" {
		return &LoadError{Artifact: "", Err: errNoChainPath}
	}
	if err := chainsim.Save(d.chain, path); err != nil {
		return &LoadError{Artifact: path, Err: err}
	}
	d.chainPath = path
	return nil
}
