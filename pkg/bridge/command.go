package bridge

import (
	"context"
	"errors"
	"maps"

	"bridges/internal/logger"
	"bridges/internal/schema"
)

// Command is a registered function together with its parameter sources,
// output destinations and validation schema.
type Command struct {
	name        string
	description string
	params      []string
	sources     map[string]ParamSource
	outputs     []OutputDestination
	schema      *schema.Schema
	call        func(ctx context.Context, values map[string]any) (any, error)
	bridge      *Bridge
	debug       bool
}

// ParamInfo describes one parameter for presentation layers.
type ParamInfo struct {
	Name     string
	Source   ParamSource
	Type     string
	Required bool
	Default  any
	// Computed is set when the default comes from a producer, which is
	// only called at invocation time.
	Computed bool
}

// Name returns the registered command name.
func (c *Command) Name() string { return c.name }

// Description returns the command help text.
func (c *Command) Description() string { return c.description }

// Bridge returns the bridge the command is registered on.
func (c *Command) Bridge() *Bridge { return c.bridge }

// Schema returns the generated validation schema.
func (c *Command) Schema() *schema.Schema { return c.schema }

// Params returns the parameter names in declaration order.
func (c *Command) Params() []string {
	return append([]string(nil), c.params...)
}

// Source returns the ParamSource of a parameter, or nil.
func (c *Command) Source(name string) ParamSource {
	return c.sources[name]
}

// Outputs returns the output destinations in declaration order.
func (c *Command) Outputs() []OutputDestination {
	return append([]OutputDestination(nil), c.outputs...)
}

// Parameters returns a description of every parameter in declaration order.
// Default producers are reported as Computed and not called.
func (c *Command) Parameters() []ParamInfo {
	infos := make([]ParamInfo, 0, len(c.params))
	for _, name := range c.params {
		info := ParamInfo{Name: name, Source: c.sources[name], Type: "any", Required: true}
		if f, ok := c.schema.Field(name); ok {
			info.Type = f.TypeName()
			info.Required = f.Required
			info.Default = f.Default
		}
		if base := info.Source.Common(); base.HasDefault() && info.Default == nil {
			info.Required = false
			if _, lazy := base.Default.(func() any); lazy {
				info.Computed = true
			} else {
				info.Default = base.Default
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// Invoke runs the execution pipeline with the given raw input. The input map
// is copied; pre-hooks see and may mutate the copy.
//
// Validation failures return a *ValidationError and errors from the function
// return an *ExecutionError; both run the error hooks first. An error returned
// by a hook aborts the pipeline and is returned unchanged. If an output
// destination fails, the result is returned together with an *OutputError.
func (c *Command) Invoke(ctx context.Context, input map[string]any) (any, error) {
	b := c.bridge
	values := make(map[string]any, len(input))
	maps.Copy(values, input)

	if c.debug || b.debug {
		b.log.Print("Executing command", "command", c.name, "params", values)
	}
	logger.CommandInvocation(c.name, values)

	for _, hook := range b.preHooks {
		if err := hook(values, c); err != nil {
			return nil, err
		}
	}

	c.resolveDefaults(values)

	if err := c.validate(values); err != nil {
		return nil, c.fail(err, err)
	}

	coerced, err := c.schema.Coerce(values)
	if err != nil {
		verr := &ValidationError{Command: c.name, Cause: err}
		var fe *schema.FieldError
		if errors.As(err, &fe) {
			verr.Param = fe.Field
			verr.Value = fe.Value
			verr.Cause = fe.Err
		}
		return nil, c.fail(verr, verr)
	}

	result, err := c.call(ctx, coerced)
	if err != nil {
		b.log.Debug("Command failed", "command", c.name, "error", err)
		return nil, c.fail(&ExecutionError{Command: c.name, Cause: err}, err)
	}

	if err := c.dispatch(result); err != nil {
		return result, c.fail(err, err)
	}

	for _, hook := range b.postHooks {
		if err := hook(result, c); err != nil {
			return result, err
		}
	}

	return result, nil
}

// resolveDefaults fills missing or nil values from the parameter sources.
// Context sources read the live context before their static default.
func (c *Command) resolveDefaults(values map[string]any) {
	for _, name := range c.params {
		if v, ok := values[name]; ok && v != nil {
			continue
		}
		src := c.sources[name]
		if fc, ok := src.(*FromContext); ok && fc.Key != "" {
			if v, ok := c.bridge.ContextValue(fc.Key); ok {
				values[name] = v
				continue
			}
		}
		if v, ok := src.Common().DefaultValue(); ok {
			values[name] = v
		}
	}
}

// validate runs the custom validators in declaration order. Absent values are
// left to the schema.
func (c *Command) validate(values map[string]any) error {
	for _, name := range c.params {
		validator := c.sources[name].Common().Validator
		if validator == nil {
			continue
		}
		v, ok := values[name]
		if !ok || v == nil {
			continue
		}
		if err := validator(v); err != nil {
			return &ValidationError{Command: c.name, Param: name, Value: v, Cause: err}
		}
	}
	return nil
}

func (c *Command) dispatch(result any) error {
	var errs []error
	for _, out := range c.outputs {
		if err := out.Send(result, c.bridge); err != nil {
			c.bridge.log.Warn("Output destination failed", "command", c.name, "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &OutputError{Command: c.name, Errs: errs}
	}
	return nil
}

// fail runs the error hooks with cause and returns reported, or the first
// hook error.
func (c *Command) fail(reported, cause error) error {
	for _, hook := range c.bridge.errorHooks {
		if err := hook(cause, c); err != nil {
			return err
		}
	}
	return reported
}
