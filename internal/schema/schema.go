// Package schema builds the validation schema of a registered command and
// coerces raw parameter values into the Go types the command declares.
//
// Coercion goes through go-cty: a raw value is lifted into a cty.Value, converted
// to the field's implied cty type, and decoded back into the declared Go type.
package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrMissing is reported for a required field that has no value.
var ErrMissing = errors.New("field required")

// FieldError reports a value that does not fit a field.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissing) {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: invalid value %v: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Field describes one declared parameter.
type Field struct {
	Name   string
	GoType reflect.Type
	// Type is the cty type values are converted to. Passthrough fields use
	// cty.DynamicPseudoType.
	Type        cty.Type
	Required    bool
	Default     any
	HasDefault  bool
	Passthrough bool
	// Allowed, when set, restricts coerced values to this set.
	Allowed []any
}

// NewField creates a field for a parameter of type t. A nil t is an untyped
// parameter and accepts any value. Types without a cty mapping (channels,
// functions) are rejected.
func NewField(name string, t reflect.Type) (*Field, error) {
	f := &Field{Name: name, GoType: t, Required: true}
	if t == nil || t.Kind() == reflect.Interface {
		f.Type = cty.DynamicPseudoType
		f.Passthrough = true
		return f, nil
	}

	ty, err := gocty.ImpliedType(reflect.Zero(t).Interface())
	if err != nil {
		return nil, fmt.Errorf("parameter %q: unsupported type %s: %w", name, t, err)
	}
	f.Type = ty
	return f, nil
}

// SetDefault coerces raw to the field type and records it as the default.
// The field stops being required.
func (f *Field) SetDefault(raw any) error {
	v, err := f.coerce(raw)
	if err != nil {
		return &FieldError{Field: f.Name, Value: raw, Err: err}
	}
	f.Default = v
	f.HasDefault = true
	f.Required = false
	return nil
}

// SetAllowed restricts the field to the given values after coercion.
func (f *Field) SetAllowed(values []any) error {
	allowed := make([]any, 0, len(values))
	for _, raw := range values {
		v, err := f.coerce(raw)
		if err != nil {
			return &FieldError{Field: f.Name, Value: raw, Err: err}
		}
		allowed = append(allowed, v)
	}
	f.Allowed = allowed
	return nil
}

// TypeName returns a short name for display.
func (f *Field) TypeName() string {
	if f.GoType == nil || (f.GoType.Kind() == reflect.Interface && f.GoType.NumMethod() == 0) {
		return "any"
	}
	return f.GoType.String()
}

// Coerce converts value to the field's Go type.
func (f *Field) Coerce(value any) (any, error) {
	v, err := f.coerce(value)
	if err != nil {
		return nil, &FieldError{Field: f.Name, Value: value, Err: err}
	}
	if len(f.Allowed) > 0 && !f.allows(v) {
		return nil, &FieldError{Field: f.Name, Value: value, Err: fmt.Errorf("must be one of %v", f.Allowed)}
	}
	return v, nil
}

func (f *Field) allows(v any) bool {
	for _, a := range f.Allowed {
		if reflect.DeepEqual(a, v) {
			return true
		}
	}
	return false
}

func (f *Field) coerce(value any) (any, error) {
	if value == nil {
		if f.GoType == nil {
			return nil, nil
		}
		return reflect.Zero(f.GoType).Interface(), nil
	}

	if f.Passthrough {
		if f.GoType != nil && !reflect.TypeOf(value).AssignableTo(f.GoType) {
			return nil, fmt.Errorf("%T does not implement %s", value, f.GoType)
		}
		return value, nil
	}

	if reflect.TypeOf(value) == f.GoType {
		return value, nil
	}

	cv, err := ToValue(value)
	if err != nil {
		return nil, err
	}
	converted, err := convert.Convert(cv, f.Type)
	if err != nil {
		return nil, fmt.Errorf("expected %s: %w", f.Type.FriendlyName(), err)
	}

	target := reflect.New(f.GoType)
	if err := gocty.FromCtyValue(converted, target.Interface()); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}

// Schema mirrors a command's declared parameters in declaration order.
type Schema struct {
	Name   string
	Fields []*Field
}

// New creates an empty schema.
func New(name string) *Schema {
	return &Schema{Name: name}
}

// Add appends a field.
func (s *Schema) Add(f *Field) {
	s.Fields = append(s.Fields, f)
}

// Field returns the field with the given name.
func (s *Schema) Field(name string) (*Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Coerce validates input against the schema and returns the coerced values.
// Missing values take the field default. Keys that are not fields are dropped.
// The first failing field, in declaration order, is reported.
func (s *Schema) Coerce(input map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw, ok := input[f.Name]
		if !ok || raw == nil {
			switch {
			case f.HasDefault:
				out[f.Name] = f.Default
			case f.Required:
				return nil, &FieldError{Field: f.Name, Err: ErrMissing}
			default:
				out[f.Name] = nil
			}
			continue
		}

		v, err := f.Coerce(raw)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}
