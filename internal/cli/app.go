// Package cli is the terminal front end of a bridge: parameter collection,
// result display and the interactive shell.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bridges/internal/logger"
	"bridges/internal/output"
	"bridges/pkg/bridge"
)

// App executes shell input lines against a bridge.
type App struct {
	bridge      *bridge.Bridge
	printer     *output.Printer
	display     *Display
	prompter    Prompter
	description string
	history     []string
}

// AppOption configures an App.
type AppOption func(*App)

// WithPrompter sets the prompter used for parameter collection. Without
// one the App never prompts.
func WithPrompter(p Prompter) AppOption {
	return func(a *App) { a.prompter = p }
}

// WithDescription sets the banner description.
func WithDescription(description string) AppOption {
	return func(a *App) { a.description = description }
}

// NewApp creates an App printing through the bridge printer.
func NewApp(b *bridge.Bridge, opts ...AppOption) *App {
	a := &App{
		bridge:  b,
		printer: b.Printer(),
	}
	a.display = NewDisplay(a.printer)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Bridge() *bridge.Bridge { return a.bridge }
func (a *App) Display() *Display      { return a.display }

// History returns the input lines executed so far, including the current one.
func (a *App) History() []string {
	return append([]string(nil), a.history...)
}

// Banner prints the banner and the usage hint.
func (a *App) Banner() {
	a.display.Banner(a.bridge.Name(), a.description)
	if len(a.bridge.Commands()) == 0 {
		a.printer.Warning("No functions registered.")
		return
	}
	a.printer.Println(a.printer.Style(output.SemanticMuted, "Type 'help' for available commands"))
}

// Execute handles one input line split into fields. It reports whether the
// user asked to exit.
func (a *App) Execute(ctx context.Context, fields []string) (exit bool, err error) {
	if len(fields) == 0 {
		return false, nil
	}
	a.history = append(a.history, strings.Join(fields, " "))

	name, args := fields[0], fields[1:]
	switch strings.ToLower(name) {
	case "help", "h":
		a.display.Help()
	case "list", "ls", "l":
		a.display.List(a.bridge)
	case "info", "i":
		if len(args) == 0 {
			a.printer.Error("Usage: info <function_name>")
			return false, nil
		}
		if err := a.display.Info(a.bridge, args[0]); err != nil {
			a.printer.Error(err.Error())
			return false, err
		}
	case "context", "ctx":
		a.display.Context(a.bridge)
	case "history":
		a.display.History(a.bridge)
	case "inputs":
		a.display.Inputs(a.History())
	case "restore":
		return false, a.restore(args)
	case "instances":
		a.display.Instances(a.bridge)
	case "quit", "exit", "q":
		return a.confirmExit(), nil
	default:
		return false, a.RunCommand(ctx, name, args)
	}
	return false, nil
}

// RunCommand collects the parameters of a command, invokes it and displays
// the result. Arguments are "key=value" pairs or positional values in
// parameter order.
func (a *App) RunCommand(ctx context.Context, name string, args []string) error {
	cmd, ok := findCommand(a.bridge, name)
	if !ok {
		a.printer.Error("Unknown command: " + name)
		a.printer.Println(a.printer.Style(output.SemanticMuted, "Type 'help' for available commands"))
		return fmt.Errorf("%w: %s", bridge.ErrUnknownCommand, name)
	}

	preset, err := presetArgs(cmd, args)
	if err != nil {
		a.printer.Error(err.Error())
		return err
	}

	if a.prompter != nil {
		a.printer.Println("")
		a.printer.Println(a.printer.Style(output.SemanticSuccess, "Executing: "+cmd.Name()))
	}
	params, err := NewCollector(a.printer, a.prompter).Collect(cmd, preset)
	if err != nil {
		if IsCancelled(err) {
			a.printer.Warning("Cancelled.")
			return nil
		}
		a.printer.Error(err.Error())
		return err
	}

	result, err := cmd.Invoke(ctx, params)
	if err != nil {
		logger.Debug("Command failed", "command", cmd.Name(), "error", err)
		var outErr *bridge.OutputError
		if errors.As(err, &outErr) {
			a.display.Result(result)
		}
		a.display.Error(err)
		return err
	}
	a.display.Result(result)
	return nil
}

// RunScript executes every line of r. Blank lines and lines starting with
// "#" are skipped. It stops at the first failing line or at exit.
func (a *App) RunScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exit, err := a.Execute(ctx, strings.Fields(line))
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if exit {
			return nil
		}
	}
	return scanner.Err()
}

// findCommand resolves name exactly, then case-insensitively.
func findCommand(b *bridge.Bridge, name string) (*bridge.Command, bool) {
	if cmd, ok := b.Command(name); ok {
		return cmd, true
	}
	for _, cmd := range b.Commands() {
		if strings.EqualFold(cmd.Name(), name) {
			return cmd, true
		}
	}
	return nil, false
}

func (a *App) restore(args []string) error {
	if len(args) == 0 {
		a.printer.Error("Usage: restore <index>")
		return nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		a.printer.Error("Please enter a number.")
		return nil
	}
	if err := a.bridge.RestoreContext(index); err != nil {
		a.printer.Error(err.Error())
		return err
	}
	a.printer.Success(fmt.Sprintf("Restored snapshot %d", index))
	return nil
}

func (a *App) confirmExit() bool {
	if a.prompter != nil {
		answer, err := a.prompter.ReadLine("Are you sure you want to exit? [y/n]: ")
		if err == nil {
			if yes, perr := parseBool(answer); perr != nil || !yes {
				return false
			}
		}
	}
	a.printer.Success("Goodbye!")
	return true
}

// presetArgs maps arguments to parameter names. Positional values fill the
// parameters not named explicitly, in order.
func presetArgs(cmd *bridge.Command, args []string) (map[string]string, error) {
	named, positional := ParseArgs(args)
	params := cmd.Params()
	for key := range named {
		if cmd.Source(key) == nil {
			return nil, fmt.Errorf("unknown parameter '%s' for %s", key, cmd.Name())
		}
	}

	i := 0
	for _, name := range params {
		if i == len(positional) {
			break
		}
		if _, ok := named[name]; ok {
			continue
		}
		named[name] = positional[i]
		i++
	}
	if i < len(positional) {
		return nil, fmt.Errorf("too many arguments for %s: expected at most %d", cmd.Name(), len(params))
	}
	return named, nil
}
