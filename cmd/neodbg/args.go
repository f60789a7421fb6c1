package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/phetter/neo-debugger-tools/pkg/emulator"
)

// parseArg converts one "type:value" CLI token into an emulator.Arg, per
// the teacher's arg-typing convention: a bare token is sniffed as
// bool/int/string, while an explicit "bool:", "int:" or "string:" prefix
// forces the type.
func parseArg(tok string) (emulator.Arg, error) {
	typ, value, hasType := strings.Cut(tok, ":")
	if !hasType {
		switch typ {
		case "true", "false":
			return emulator.BoolArg(typ == "true"), nil
		}
		if n, ok := new(big.Int).SetString(typ, 10); ok {
			return emulator.BigIntArg(n), nil
		}
		return emulator.StringArg(typ), nil
	}

	switch typ {
	case "bool":
		switch value {
		case "true":
			return emulator.BoolArg(true), nil
		case "false":
			return emulator.BoolArg(false), nil
		default:
			return emulator.Arg{}, fmt.Errorf("invalid bool value %q", value)
		}
	case "int":
		n, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return emulator.Arg{}, fmt.Errorf("invalid integer value %q", value)
		}
		return emulator.BigIntArg(n), nil
	case "string":
		return emulator.StringArg(value), nil
	default:
		return emulator.Arg{}, fmt.Errorf("unknown argument type %q", typ)
	}
}

func parseArgs(toks []string) ([]emulator.Arg, error) {
	args := make([]emulator.Arg, len(toks))
	for i, t := range toks {
		a, err := parseArg(t)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}
