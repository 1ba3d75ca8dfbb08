package schema

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ToValue lifts an arbitrary Go value into a cty.Value, inferring its type.
// Slices become tuples and string-keyed maps become objects so that mixed
// element types (as produced by JSON or YAML decoding) survive until
// conversion to the target type.
func ToValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	if cv, ok := v.(cty.Value); ok {
		return cv, nil
	}
	return toValue(reflect.ValueOf(v))
}

func toValue(rv reflect.Value) (cty.Value, error) {
	switch rv.Kind() {
	case reflect.String:
		return cty.StringVal(rv.String()), nil
	case reflect.Bool:
		return cty.BoolVal(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cty.NumberIntVal(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cty.NumberUIntVal(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cty.NumberFloatVal(rv.Float()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}
		return toValue(rv.Elem())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return cty.StringVal(string(rv.Bytes())), nil
		}
		if rv.Len() == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, rv.Len())
		for i := range elems {
			ev, err := toValue(rv.Index(i))
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.Len() == 0 {
			return cty.EmptyObjectVal, nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		attrs := make(map[string]cty.Value, len(keys))
		for _, k := range keys {
			av, err := toValue(rv.MapIndex(k))
			if err != nil {
				return cty.NilVal, fmt.Errorf("key %q: %w", k.String(), err)
			}
			attrs[k.String()] = av
		}
		return cty.ObjectVal(attrs), nil
	}

	gv := rv.Interface()
	ty, err := gocty.ImpliedType(gv)
	if err != nil {
		return cty.NilVal, err
	}
	return gocty.ToCtyValue(gv, ty)
}
