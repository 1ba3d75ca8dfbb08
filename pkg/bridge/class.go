package bridge

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

const (
	// InstanceParam is the optional parameter added to constructor and method
	// commands of stateful classes.
	InstanceParam = "instance_name"
	// DefaultInstanceName is reported by ListAllInstances for an unnamed instance.
	DefaultInstanceName = "default"
	instanceSuffix      = "_instance"
)

// Method declares one method of a class to expose as a command. Name is the
// command-facing name; the Go method is Name with its first letter upper-cased.
type Method struct {
	Name        string
	Args        []string
	Params      map[string]ParamSource
	Outputs     []OutputDestination
	Description string
}

type classConfig struct {
	name        string
	description string
	args        []string
	params      map[string]ParamSource
	outputs     []OutputDestination
	stateless   bool
	contextKey  string
}

// ClassOption configures RegisterClass.
type ClassOption func(*classConfig)

// ClassName overrides the class name (default: the Go type name).
func ClassName(name string) ClassOption {
	return func(c *classConfig) { c.name = name }
}

// ClassDescription sets the constructor command description.
func ClassDescription(s string) ClassOption {
	return func(c *classConfig) { c.description = s }
}

// ClassArgs names the parameters of a positional constructor.
func ClassArgs(names ...string) ClassOption {
	return func(c *classConfig) { c.args = names }
}

// ClassParams sets explicit sources for constructor parameters.
func ClassParams(sources map[string]ParamSource) ClassOption {
	return func(c *classConfig) { c.params = sources }
}

// ClassOutputs sets the output destinations of the constructor command.
func ClassOutputs(dests ...OutputDestination) ClassOption {
	return func(c *classConfig) { c.outputs = dests }
}

// Stateless registers each method as an independent command invoked on the
// zero value of the type. No constructor command is created.
func Stateless() ClassOption {
	return func(c *classConfig) { c.stateless = true }
}

// ContextKey overrides the base context key of the instances.
func ContextKey(key string) ClassOption {
	return func(c *classConfig) { c.contextKey = key }
}

// RegisterClass exposes a type as commands. class is a constructor function
// returning the instance (optionally with an error); stateless classes may
// pass a value of the type instead.
//
// A stateful class gets a constructor command "create_<key>" that stores the
// new instance in the context under <key> or <key>:<instance_name>, and one
// command "<Class>.<method>" per method that runs on the stored instance.
// The default key is the lower-cased class name followed by "_instance".
func (b *Bridge) RegisterClass(class any, methods []Method, opts ...ClassOption) error {
	cfg := &classConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	cv := reflect.ValueOf(class)
	if !cv.IsValid() {
		return registrationError("nil class")
	}

	var ctor reflect.Value
	recvType := cv.Type()
	if cv.Kind() == reflect.Func {
		ctor = cv
		ft := cv.Type()
		if ft.NumOut() == 0 || ft.Out(0) == errorType {
			return registrationError("constructor %s must return the instance", ft)
		}
		recvType = ft.Out(0)
	}
	if recvType.Kind() != reflect.Pointer {
		recvType = reflect.PointerTo(recvType)
	}

	className := cfg.name
	if className == "" {
		className = recvType.Elem().Name()
	}
	if className == "" {
		return registrationError("class name required for unnamed type %s", recvType)
	}
	baseKey := cfg.contextKey
	if baseKey == "" {
		baseKey = strings.ToLower(className) + instanceSuffix
	}

	var cmds []*Command
	if !cfg.stateless {
		if !ctor.IsValid() {
			return registrationError("%s: stateful classes need a constructor function", className)
		}
		cmd, err := b.buildConstructor(ctor, className, baseKey, cfg)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	for _, m := range methods {
		cmd, err := b.buildMethod(recvType, className, baseKey, m, cfg.stateless)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	for _, cmd := range cmds {
		b.add(cmd)
	}
	if !cfg.stateless {
		b.classes[baseKey] = className
	}
	b.log.Debug("Registered class", "class", className, "key", baseKey, "commands", len(cmds))
	return nil
}

func (b *Bridge) buildConstructor(ctor reflect.Value, className, baseKey string, cfg *classConfig) (*Command, error) {
	name := "create_" + baseKey
	sig, err := inspect(ctor.Type(), 0, cfg.args)
	if err != nil {
		return nil, registrationError("%s: %v", name, err)
	}
	if !sig.hasValue {
		return nil, registrationError("%s: constructor must return the instance", name)
	}
	if err := addInstanceParam(sig); err != nil {
		return nil, registrationError("%s: %v", name, err)
	}

	description := cfg.description
	if description == "" {
		description = fmt.Sprintf("Create a new %s instance", className)
	}
	reg := &registration{
		name:        name,
		description: description,
		params:      cfg.params,
		outputs:     cfg.outputs,
	}

	return b.build(sig, reg, func(ctx context.Context, values map[string]any) (any, error) {
		obj, err := sig.call(ctx, ctor, values)
		if err != nil {
			return nil, err
		}
		ov := reflect.ValueOf(obj)
		if !ov.IsValid() || (ov.Kind() == reflect.Pointer && ov.IsNil()) {
			return nil, fmt.Errorf("constructor returned nil")
		}
		if ov.Kind() != reflect.Pointer {
			ptr := reflect.New(ov.Type())
			ptr.Elem().Set(ov)
			obj = ptr.Interface()
		}
		b.UpdateContext(instanceKey(baseKey, values[InstanceParam]), obj)
		return obj, nil
	})
}

func (b *Bridge) buildMethod(recvType reflect.Type, className, baseKey string, m Method, stateless bool) (*Command, error) {
	name := className + "." + m.Name
	goName := exportedName(m.Name)
	meth, ok := recvType.MethodByName(goName)
	if !ok {
		return nil, registrationError("%s: %s has no method %s", name, recvType, goName)
	}
	sig, err := inspect(meth.Type, 1, m.Args)
	if err != nil {
		return nil, registrationError("%s: %v", name, err)
	}

	reg := &registration{
		name:        name,
		description: m.Description,
		params:      m.Params,
		outputs:     m.Outputs,
	}

	if stateless {
		fn := reflect.New(recvType.Elem()).MethodByName(goName)
		return b.build(sig, reg, func(ctx context.Context, values map[string]any) (any, error) {
			return sig.call(ctx, fn, values)
		})
	}

	if err := addInstanceParam(sig); err != nil {
		return nil, registrationError("%s: %v", name, err)
	}
	return b.build(sig, reg, func(ctx context.Context, values map[string]any) (any, error) {
		key := instanceKey(baseKey, values[InstanceParam])
		inst, ok := b.ContextValue(key)
		if !ok || inst == nil {
			return nil, &MissingInstanceError{Key: key}
		}
		fn := reflect.ValueOf(inst).MethodByName(goName)
		if !fn.IsValid() {
			return nil, fmt.Errorf("instance %q (%T) has no method %s", key, inst, goName)
		}
		return sig.call(ctx, fn, values)
	})
}

func addInstanceParam(sig *signature) error {
	if sig.has(InstanceParam) {
		return fmt.Errorf("parameter %q is reserved", InstanceParam)
	}
	sig.params = append(sig.params, param{
		name:        InstanceParam,
		typ:         reflect.TypeOf(""),
		description: "Instance name (empty for the default instance)",
		rawDefault:  "",
		hasDefault:  true,
		field:       -1,
		synthetic:   true,
	})
	return nil
}

func instanceKey(baseKey string, name any) string {
	s, _ := name.(string)
	if s == "" {
		return baseKey
	}
	return baseKey + ":" + s
}

// ListAllInstances groups the instances stored in the context by class name.
// Instance names are sorted; an unnamed instance is reported as "default".
func (b *Bridge) ListAllInstances() map[string][]string {
	result := make(map[string][]string)
	for _, key := range b.ContextKeys() {
		base, name, _ := strings.Cut(key, ":")
		class, ok := b.classes[base]
		if !ok {
			if !strings.HasSuffix(base, instanceSuffix) {
				continue
			}
			class = strings.TrimSuffix(base, instanceSuffix)
		}
		if name == "" {
			name = DefaultInstanceName
		}
		result[class] = append(result[class], name)
	}
	for _, names := range result {
		sort.Strings(names)
	}
	return result
}
