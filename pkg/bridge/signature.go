package bridge

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
)

// Describer supplies a command description when none is given at
// registration. It is checked on the input struct of struct-input functions.
type Describer interface {
	Describe() string
}

var (
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	describerType = reflect.TypeOf((*Describer)(nil)).Elem()
)

// signature is the reflected shape of a registrable function.
type signature struct {
	// offset is the index of the first non-receiver input.
	offset   int
	hasCtx   bool
	structIn reflect.Type
	params   []param
	hasValue bool
	hasErr   bool
	describe string
}

// inspect reflects on a function type. offset skips leading inputs (the
// receiver of a method expression). args names positional parameters; without
// args a single struct input is treated as the parameter set.
func inspect(ft reflect.Type, offset int, args []string) (*signature, error) {
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("expected a function, got %s", ft)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("variadic functions are not supported")
	}

	sig := &signature{offset: offset}
	i := offset
	if i < ft.NumIn() && ft.In(i) == contextType {
		sig.hasCtx = true
		i++
	}
	remaining := ft.NumIn() - i

	switch {
	case len(args) == 0 && remaining == 1 && ft.In(i).Kind() == reflect.Struct:
		sig.structIn = ft.In(i)
		params, err := structParams(sig.structIn)
		if err != nil {
			return nil, err
		}
		sig.params = params
		if d, ok := zeroOf(sig.structIn, describerType).(Describer); ok {
			sig.describe = strings.TrimSpace(d.Describe())
		}
	case remaining != len(args):
		return nil, fmt.Errorf("function takes %d parameters but %d names were given", remaining, len(args))
	default:
		seen := make(map[string]bool, len(args))
		for j, name := range args {
			if name == "" || seen[name] {
				return nil, fmt.Errorf("invalid or duplicate parameter name %q", name)
			}
			seen[name] = true
			sig.params = append(sig.params, param{name: name, typ: ft.In(i + j), field: -1})
		}
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			sig.hasErr = true
		} else {
			sig.hasValue = true
		}
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("second return value must be error, got %s", ft.Out(1))
		}
		sig.hasValue = true
		sig.hasErr = true
	default:
		return nil, fmt.Errorf("functions may return at most a value and an error")
	}

	return sig, nil
}

func structParams(st reflect.Type) ([]param, error) {
	var params []param
	seen := map[string]bool{}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("bridge")
		if name == "-" {
			continue
		}
		if name == "" {
			name = snakeCase(f.Name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate parameter name %q in %s", name, st)
		}
		seen[name] = true

		p := param{
			name:        name,
			typ:         f.Type,
			description: f.Tag.Get("description"),
			field:       i,
		}
		if def, ok := f.Tag.Lookup("default"); ok {
			p.rawDefault = def
			p.hasDefault = true
		}
		params = append(params, p)
	}
	return params, nil
}

// has reports whether a parameter with the given name is declared.
func (s *signature) has(name string) bool {
	for _, p := range s.params {
		if p.name == name {
			return true
		}
	}
	return false
}

// call invokes fn with the coerced values. fn must not expect a receiver
// argument (bound methods and plain functions). A panic in fn is returned as
// an error.
func (s *signature) call(ctx context.Context, fn reflect.Value, values map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ft := fn.Type()
	in := make([]reflect.Value, 0, ft.NumIn())
	if s.hasCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
	}

	if s.structIn != nil {
		sv := reflect.New(s.structIn).Elem()
		for _, p := range s.params {
			if p.synthetic {
				continue
			}
			if err := assign(sv.Field(p.field), values[p.name]); err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.name, err)
			}
		}
		in = append(in, sv)
	} else {
		for _, p := range s.params {
			if p.synthetic {
				continue
			}
			av := reflect.New(p.typ).Elem()
			if err := assign(av, values[p.name]); err != nil {
				return nil, fmt.Errorf("parameter %q: %w", p.name, err)
			}
			in = append(in, av)
		}
	}

	out := fn.Call(in)

	if s.hasErr {
		if e, _ := out[len(out)-1].Interface().(error); e != nil {
			return nil, e
		}
	}
	if s.hasValue {
		return out[0].Interface(), nil
	}
	return nil, nil
}

func assign(dst reflect.Value, value any) error {
	if value == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case v.Type().ConvertibleTo(dst.Type()):
		dst.Set(v.Convert(dst.Type()))
	default:
		return fmt.Errorf("cannot use %T as %s", value, dst.Type())
	}
	return nil
}

// funcName returns the declared name of fn: the last element of its symbol.
func funcName(fn reflect.Value) string {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// snakeCase converts a Go identifier to snake_case: "InstanceName" becomes
// "instance_name" and "HTTPServer" becomes "http_server".
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// exportedName upper-cases the first rune: "increment" becomes "Increment".
func exportedName(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
