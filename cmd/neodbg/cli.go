package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/chzyer/readline"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/phetter/neo-debugger-tools/pkg/dbgconfig"
	"github.com/phetter/neo-debugger-tools/pkg/debugger"
)

// DebugCLI is the interactive front-end over a DebugManager session: a
// readline loop that splits each line into shell-style tokens and
// dispatches it through an urfave/cli.App, grounded on the teacher's VM
// REPL (cli/vm/cli.go).
type DebugCLI struct {
	dm    *debugger.DebugManager
	shell *cli.App
	out   io.Writer
}

// NewDebugCLI builds a DebugCLI backed by a fresh DebugManager session.
func NewDebugCLI(cfg *dbgconfig.Config, logger *zap.Logger) *DebugCLI {
	d := &DebugCLI{
		dm:  debugger.New(logger, cfg),
		out: os.Stdout,
	}

	app := cli.NewApp()
	app.Name = "neodbg"
	app.HelpName = ""
	app.UsageText = ""
	app.Usage = "NEO VM contract debugger"
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Writer = d.out
	app.ErrWriter = d.out
	app.Commands = d.commands()
	d.shell = app
	return d
}

func (d *DebugCLI) commands() []cli.Command {
	return []cli.Command{
		{Name: "load", Usage: "load <path.avm> <name>", Action: d.cmdLoad},
		{Name: "loadchain", Usage: "loadchain <path.chain>", Action: d.cmdLoadChain},
		{Name: "savechain", Usage: "savechain [path.chain]", Action: d.cmdSaveChain},
		{Name: "break", Usage: "break <line>", Action: d.cmdBreak},
		{Name: "clearbreak", Usage: "clearbreak <line>", Action: d.cmdClearBreak},
		{Name: "mode", Usage: "toggle Source/Assembly view", Action: d.cmdMode},
		{Name: "step", Usage: "step one instruction", Action: d.cmdStep},
		{Name: "over", Usage: "step over a call", Action: d.cmdStepOver},
		{Name: "out", Usage: "step out of the current call", Action: d.cmdStepOut},
		{Name: "run", Usage: "run until halt, fault or breakpoint", Action: d.cmdRun},
		{Name: "estack", Usage: "show the evaluation stack", Action: d.cmdEstack},
		{Name: "gas", Usage: "show gas and opcode counters", Action: d.cmdGas},
		{Name: "state", Usage: "show the current debugger state", Action: d.cmdState},
		{Name: "args", Usage: "args [arg...] — set invocation arguments for the next run", Action: d.cmdArgs},
		{Name: "exit", Usage: "exit neodbg", Action: d.cmdExit},
	}
}

func (d *DebugCLI) cmdLoad(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: load <path.avm> <name>")
	}
	if err := d.dm.LoadAvmFile(c.Args().Get(0), c.Args().Get(1)); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "loaded %s as %s\n", c.Args().Get(0), c.Args().Get(1))
	return nil
}

func (d *DebugCLI) cmdLoadChain(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: loadchain <path.chain>")
	}
	if err := d.dm.LoadChain(c.Args().Get(0)); err != nil {
		return err
	}
	fmt.Fprintln(d.out, "chain loaded")
	return nil
}

func (d *DebugCLI) cmdSaveChain(c *cli.Context) error {
	path := ""
	if c.NArg() > 0 {
		path = c.Args().Get(0)
	}
	if err := d.dm.SaveChain(path); err != nil {
		return err
	}
	fmt.Fprintln(d.out, "chain saved")
	return nil
}

func (d *DebugCLI) cmdBreak(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: break <line>")
	}
	line, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid line: %w", err)
	}
	if !d.dm.AddBreakpoint(line) {
		return fmt.Errorf("line %d doesn't resolve to an instruction in the current view", line)
	}
	fmt.Fprintf(d.out, "breakpoint set at line %d\n", line)
	return nil
}

func (d *DebugCLI) cmdClearBreak(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: clearbreak <line>")
	}
	line, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("invalid line: %w", err)
	}
	if !d.dm.RemoveBreakpoint(line) {
		return fmt.Errorf("line %d doesn't resolve to an instruction in the current view", line)
	}
	fmt.Fprintf(d.out, "breakpoint cleared at line %d\n", line)
	return nil
}

func (d *DebugCLI) cmdMode(c *cli.Context) error {
	mode := d.dm.ToggleDebugMode()
	fmt.Fprintf(d.out, "view mode: %s\n", viewModeName(mode))
	return nil
}

func (d *DebugCLI) cmdArgs(c *cli.Context) error {
	args, err := parseArgs(c.Args())
	if err != nil {
		return err
	}
	if err := d.dm.SetDebugParameters(debugger.DebugParameters{Args: args}); err != nil {
		return err
	}
	fmt.Fprintf(d.out, "%d argument(s) staged for next run\n", len(args))
	return nil
}

func (d *DebugCLI) cmdStep(c *cli.Context) error    { return d.runAndPrint(d.dm.Step) }
func (d *DebugCLI) cmdStepOver(c *cli.Context) error { return d.runAndPrint(d.dm.StepOver) }
func (d *DebugCLI) cmdStepOut(c *cli.Context) error  { return d.runAndPrint(d.dm.StepOut) }
func (d *DebugCLI) cmdRun(c *cli.Context) error      { return d.runAndPrint(d.dm.Run) }

func (d *DebugCLI) runAndPrint(fn func() (debugger.FacadeState, error)) error {
	st, err := fn()
	if err != nil {
		return err
	}
	d.printState(st)
	return nil
}

func (d *DebugCLI) printState(st debugger.FacadeState) {
	fmt.Fprintf(d.out, "%s at offset %d", st.Kind, st.Offset)
	if st.CurrentLine >= 0 {
		fmt.Fprintf(d.out, " (line %d)", st.CurrentLine)
	}
	fmt.Fprintln(d.out)
}

func (d *DebugCLI) cmdEstack(c *cli.Context) error {
	stack := d.dm.VM().Estack()
	w := tabwriter.NewWriter(d.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTYPE\tVALUE")
	items := stack.ToSlice()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		fmt.Fprintf(w, "%d\t%s\t%v\n", len(items)-1-i, it, it.Value())
	}
	return w.Flush()
}

func (d *DebugCLI) cmdGas(c *cli.Context) error {
	fmt.Fprintf(d.out, "opcodes: %d  gas: %.4f\n", d.dm.UsedOpcodeCount(), d.dm.UsedGas())
	return nil
}

func (d *DebugCLI) cmdState(c *cli.Context) error {
	d.printState(d.dm.CurrentState())
	return nil
}

func (d *DebugCLI) cmdExit(c *cli.Context) error {
	fmt.Fprintln(d.out, "bye")
	os.Exit(0)
	return nil
}

func viewModeName(m debugger.ViewMode) string {
	if m == debugger.Source {
		return "Source"
	}
	return "Assembly"
}

// Run starts the readline loop, splitting and dispatching each line until
// EOF or an interrupt.
func (d *DebugCLI) Run() error {
	printLogo(d.out)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "neodbg> ",
		HistoryFile:     "",
		AutoComplete:    completer(d.shell.Commands),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			continue
		}
		tokens, err := shellquote.Split(line)
		if err != nil {
			fmt.Fprintf(d.out, "parse error: %s\n", err)
			continue
		}
		if err := d.shell.Run(append([]string{"neodbg"}, tokens...)); err != nil {
			fmt.Fprintf(d.out, "error: %s\n", err)
		}
	}
}

func completer(cmds []cli.Command) *readline.PrefixCompleter {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	items := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, n := range names {
		items = append(items, readline.PcItem(n))
	}
	return readline.NewPrefixCompleter(items...)
}

const logo = `
 _ __   ___  ___   __| | | |__   __ _
| '_ \ / _ \/ _ \ / _' | | '_ \ / _' |
| | | |  __/ (_) | (_| | | |_) | (_| |
|_| |_|\___|\___/ \__,_| |_.__/ \__, |
                                 |___/
`

func printLogo(w io.Writer) {
	fmt.Fprint(w, logo)
	fmt.Fprintln(w)
}
