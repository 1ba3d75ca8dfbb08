package bridge

import (
	"reflect"
)

// ParamMeta carries per-parameter metadata threaded into auto-resolved sources.
type ParamMeta struct {
	Description string
	Validator   Validator
}

// param is one declared parameter of a registered function.
type param struct {
	name        string
	typ         reflect.Type
	description string
	// rawDefault is the declared default before coercion (struct tag).
	rawDefault any
	hasDefault bool
	// field is the struct field index for struct-input functions, -1 otherwise.
	field int
	// synthetic parameters are not passed to the function.
	synthetic bool
}

// descriptor is one entry of the ordered variant registry used for resolution.
type descriptor struct {
	kind      SourceKind
	supports  func(t reflect.Type) bool
	fromParam func(t reflect.Type, base Base) ParamSource
}

var (
	enumType     = reflect.TypeOf((*Enum)(nil)).Elem()
	fileLikeType = reflect.TypeOf((*FileLike)(nil)).Elem()
	bytesType    = reflect.TypeOf([]byte(nil))
)

// descriptors is evaluated in order; the first match wins. Input matches
// everything and must stay last.
var descriptors = []descriptor{
	{
		kind:     KindMenu,
		supports: func(t reflect.Type) bool { return implements(t, enumType) },
		fromParam: func(t reflect.Type, base Base) ParamSource {
			return &Menu{Base: base, Options: enumOptions(t)}
		},
	},
	{
		kind: KindList,
		supports: func(t reflect.Type) bool {
			return t != nil && t.Kind() == reflect.Slice && t != bytesType
		},
		fromParam: func(t reflect.Type, base Base) ParamSource {
			return &List{Base: base, ElementType: t.Elem(), Separator: ","}
		},
	},
	{
		kind:     KindFile,
		supports: func(t reflect.Type) bool { return implements(t, fileLikeType) },
		fromParam: func(t reflect.Type, base Base) ParamSource {
			mode := "r"
			if fl, ok := zeroOf(t, fileLikeType).(FileLike); ok {
				mode = fl.FileMode()
			}
			return &File{Base: base, Mode: mode}
		},
	},
	{
		kind:     KindContext,
		supports: func(reflect.Type) bool { return false },
		fromParam: func(_ reflect.Type, base Base) ParamSource {
			return &FromContext{Base: base}
		},
	},
	{
		kind:     KindInput,
		supports: func(reflect.Type) bool { return true },
		fromParam: func(_ reflect.Type, base Base) ParamSource {
			return &Input{Base: base}
		},
	},
}

// resolveSource picks the source for a parameter with no explicit one.
// defaultValue is the coerced declared default, if any.
func resolveSource(p param, defaultValue any, meta ParamMeta) ParamSource {
	base := Base{
		Default:     defaultValue,
		Description: p.description,
		Validator:   meta.Validator,
	}
	if meta.Description != "" {
		base.Description = meta.Description
	}

	for _, d := range descriptors {
		if d.supports(p.typ) {
			return d.fromParam(p.typ, base)
		}
	}
	return &Input{Base: base}
}

func implements(t, iface reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

// zeroOf returns a zero value of t that carries t's full method set.
func zeroOf(t, iface reflect.Type) any {
	switch {
	case t.Kind() == reflect.Pointer:
		return reflect.New(t.Elem()).Interface()
	case t.Implements(iface):
		return reflect.Zero(t).Interface()
	default:
		return reflect.New(t).Interface()
	}
}

func enumOptions(t reflect.Type) []Option {
	if e, ok := zeroOf(t, enumType).(Enum); ok {
		return e.EnumOptions()
	}
	return nil
}
