package bridge

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"bridges/internal/ctxstore"
	"bridges/internal/logger"
	"bridges/internal/output"
	"bridges/internal/schema"
	"bridges/internal/version"
)

// DefaultVersion is the version of a bridge created without WithVersion.
const DefaultVersion = "1.0.0"

// PreHook runs before defaults are resolved and may mutate the input.
type PreHook func(input map[string]any, cmd *Command) error

// PostHook runs after a successful call and output dispatch.
type PostHook func(result any, cmd *Command) error

// ErrorHook observes validation, execution and output failures. It cannot
// suppress them; a non-nil return replaces the reported error.
type ErrorHook func(err error, cmd *Command) error

// Bridge owns the registered commands, the shared context and the hooks.
type Bridge struct {
	name     string
	version  *semver.Version
	debug    bool
	commands map[string]*Command
	order    []string
	context  *ctxstore.Store
	// classes maps instance base keys to class names.
	classes map[string]string

	preHooks   []PreHook
	postHooks  []PostHook
	errorHooks []ErrorHook

	log     *log.Logger
	printer *output.Printer
}

type bridgeConfig struct {
	version   string
	debug     bool
	log       *log.Logger
	printer   *output.Printer
	storeOpts []ctxstore.Option
}

// BridgeOption configures New.
type BridgeOption func(*bridgeConfig)

// WithVersion sets the bridge version. It must be a valid semantic version.
func WithVersion(v string) BridgeOption {
	return func(c *bridgeConfig) { c.version = v }
}

// WithDebug makes pipeline entry of every command visible in the log.
func WithDebug(debug bool) BridgeOption {
	return func(c *bridgeConfig) { c.debug = debug }
}

// WithLogger sets the component logger.
func WithLogger(l *log.Logger) BridgeOption {
	return func(c *bridgeConfig) { c.log = l }
}

// WithPrinter sets the printer used by Display outputs.
func WithPrinter(p *output.Printer) BridgeOption {
	return func(c *bridgeConfig) { c.printer = p }
}

// WithOutput makes Display outputs print plain text to w.
func WithOutput(w io.Writer) BridgeOption {
	return func(c *bridgeConfig) { c.printer = output.NewPrinter(output.WithWriter(w), output.PlainText()) }
}

// WithContextOptions passes options to the context store, such as a
// deterministic snapshot ID generator.
func WithContextOptions(opts ...ctxstore.Option) BridgeOption {
	return func(c *bridgeConfig) { c.storeOpts = append(c.storeOpts, opts...) }
}

// New creates a bridge.
func New(name string, opts ...BridgeOption) (*Bridge, error) {
	cfg := bridgeConfig{version: DefaultVersion}
	for _, opt := range opts {
		opt(&cfg)
	}

	sv, err := version.Parse(cfg.version)
	if err != nil {
		return nil, fmt.Errorf("bridge %s: %w", name, err)
	}
	if cfg.log == nil {
		cfg.log = logger.NewStyledLogger("Bridge")
	}
	if cfg.printer == nil {
		cfg.printer = output.GetGlobalPrinter()
	}

	return &Bridge{
		name:     name,
		version:  sv,
		debug:    cfg.debug,
		commands: make(map[string]*Command),
		context:  ctxstore.New(cfg.storeOpts...),
		classes:  make(map[string]string),
		log:      cfg.log,
		printer:  cfg.printer,
	}, nil
}

// Name returns the bridge name.
func (b *Bridge) Name() string { return b.name }

// Version returns the bridge version.
func (b *Bridge) Version() *semver.Version { return b.version }

// Debug reports whether the bridge traces pipeline entry.
func (b *Bridge) Debug() bool { return b.debug }

// Printer returns the printer used by Display outputs.
func (b *Bridge) Printer() *output.Printer { return b.printer }

// Command returns a registered command by name.
func (b *Bridge) Command(name string) (*Command, bool) {
	c, ok := b.commands[name]
	return c, ok
}

// Commands returns all commands in registration order.
func (b *Bridge) Commands() []*Command {
	cmds := make([]*Command, 0, len(b.order))
	for _, name := range b.order {
		cmds = append(cmds, b.commands[name])
	}
	return cmds
}

// Invoke runs the named command.
func (b *Bridge) Invoke(ctx context.Context, name string, input map[string]any) (any, error) {
	cmd, ok := b.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.Invoke(ctx, input)
}

// AddPreHook appends a hook run before every command.
func (b *Bridge) AddPreHook(h PreHook) { b.preHooks = append(b.preHooks, h) }

// AddPostHook appends a hook run after every successful command.
func (b *Bridge) AddPostHook(h PostHook) { b.postHooks = append(b.postHooks, h) }

// AddErrorHook appends a hook run on every command failure.
func (b *Bridge) AddErrorHook(h ErrorHook) { b.errorHooks = append(b.errorHooks, h) }

type registration struct {
	name        string
	description string
	args        []string
	params      map[string]ParamSource
	meta        map[string]ParamMeta
	outputs     []OutputDestination
	debug       bool
}

// RegisterOption configures Register.
type RegisterOption func(*registration)

// Name sets the command name. It defaults to the function name in snake_case.
func Name(name string) RegisterOption {
	return func(r *registration) { r.name = name }
}

// Description sets the command description.
func Description(s string) RegisterOption {
	return func(r *registration) { r.description = s }
}

// Args names the parameters of a positional function, in order.
func Args(names ...string) RegisterOption {
	return func(r *registration) { r.args = names }
}

// Params sets explicit sources. They bypass resolution and are used as-is.
func Params(sources map[string]ParamSource) RegisterOption {
	return func(r *registration) {
		if r.params == nil {
			r.params = make(map[string]ParamSource, len(sources))
		}
		for k, v := range sources {
			r.params[k] = v
		}
	}
}

// Param sets the explicit source of one parameter.
func Param(name string, src ParamSource) RegisterOption {
	return Params(map[string]ParamSource{name: src})
}

// Meta attaches a description and validator to an auto-resolved parameter.
func Meta(name string, meta ParamMeta) RegisterOption {
	return func(r *registration) {
		if r.meta == nil {
			r.meta = make(map[string]ParamMeta)
		}
		r.meta[name] = meta
	}
}

// Outputs sets the output destinations.
func Outputs(dests ...OutputDestination) RegisterOption {
	return func(r *registration) { r.outputs = append(r.outputs[:0:0], dests...) }
}

// Debug traces pipeline entry of this command.
func Debug() RegisterOption {
	return func(r *registration) { r.debug = true }
}

// Register binds fn as a command. fn is a struct-input function or a
// positional function named with Args.
func (b *Bridge) Register(fn any, opts ...RegisterOption) (*Command, error) {
	reg := &registration{}
	for _, opt := range opts {
		opt(reg)
	}

	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, registrationError("%T is not a function", fn)
	}
	if reg.name == "" {
		reg.name = snakeCase(funcName(fv))
	}

	sig, err := inspect(fv.Type(), 0, reg.args)
	if err != nil {
		return nil, registrationError("%s: %v", reg.name, err)
	}

	cmd, err := b.build(sig, reg, func(ctx context.Context, values map[string]any) (any, error) {
		return sig.call(ctx, fv, values)
	})
	if err != nil {
		return nil, err
	}
	b.add(cmd)
	return cmd, nil
}

// build creates the command for sig: one schema field and one source per
// parameter.
func (b *Bridge) build(sig *signature, reg *registration, call func(context.Context, map[string]any) (any, error)) (*Command, error) {
	if reg.name == "" {
		return nil, registrationError("command name required")
	}
	for name := range reg.params {
		if !sig.has(name) {
			return nil, registrationError("%s: unknown parameter %q", reg.name, name)
		}
	}
	for name := range reg.meta {
		if !sig.has(name) {
			return nil, registrationError("%s: unknown parameter %q", reg.name, name)
		}
	}

	cmd := &Command{
		name:    reg.name,
		sources: make(map[string]ParamSource, len(sig.params)),
		outputs: reg.outputs,
		schema:  schema.New(reg.name),
		call:    call,
		bridge:  b,
		debug:   reg.debug,
	}

	for _, p := range sig.params {
		field, err := schema.NewField(p.name, p.typ)
		if err != nil {
			return nil, registrationError("%s: %v", reg.name, err)
		}
		if p.hasDefault {
			if err := field.SetDefault(p.rawDefault); err != nil {
				return nil, registrationError("%s: default: %v", reg.name, err)
			}
		}
		if implements(p.typ, enumType) {
			if err := field.SetAllowed((&Menu{Options: enumOptions(p.typ)}).Values()); err != nil {
				return nil, registrationError("%s: options: %v", reg.name, err)
			}
		}
		cmd.schema.Add(field)

		src, ok := reg.params[p.name]
		if !ok || src == nil {
			var def any
			if field.HasDefault {
				def = field.Default
			}
			src = resolveSource(p, def, reg.meta[p.name])
		}
		cmd.params = append(cmd.params, p.name)
		cmd.sources[p.name] = src
	}

	cmd.description = strings.TrimSpace(reg.description)
	if cmd.description == "" {
		cmd.description = sig.describe
	}
	if cmd.description == "" {
		cmd.description = "Execute " + reg.name
	}
	return cmd, nil
}

// add stores cmd. Re-registering a name overwrites the command in place.
func (b *Bridge) add(cmd *Command) {
	if _, exists := b.commands[cmd.name]; exists {
		b.log.Warn("Overwriting command", "command", cmd.name)
	} else {
		b.order = append(b.order, cmd.name)
	}
	b.commands[cmd.name] = cmd
	b.log.Debug("Registered command", "command", cmd.name, "params", len(cmd.params))
}
