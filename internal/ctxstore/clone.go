package ctxstore

import "reflect"

// Clone returns a deep copy of v. Maps, slices, arrays, pointers and the
// exported fields of structs are copied recursively; unexported struct fields
// are copied shallowly. Funcs and channels are shared. Cycles through
// pointers, maps and slices are preserved in the copy.
func Clone(v any) any {
	if v == nil {
		return nil
	}
	c := cloner{seen: map[visit]reflect.Value{}}
	return c.clone(reflect.ValueOf(v)).Interface()
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

type cloner struct {
	seen map[visit]reflect.Value
}

func (c cloner) clone(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		key := visit{v.Pointer(), v.Type()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.New(v.Type().Elem())
		c.seen[key] = out
		out.Elem().Set(c.clone(v.Elem()))
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key := visit{v.Pointer(), v.Type()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		c.seen[key] = out
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), c.clone(iter.Value()))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		key := visit{v.Pointer(), v.Type()}
		if out, ok := c.seen[key]; ok && out.Len() == v.Len() {
			return out
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		c.seen[key] = out
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(c.clone(v.Field(i)))
			}
		}
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(c.clone(v.Elem()))
		return out

	default:
		return v
	}
}

// shareable reports whether v can be stored in several snapshots without
// copying: it holds no pointers, maps or slices that a caller could mutate.
func shareable(v any) bool {
	if v == nil {
		return true
	}
	return immutableType(reflect.TypeOf(v), map[reflect.Type]bool{})
}

func immutableType(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return true
	}
	seen[t] = true
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return false
	case reflect.Array:
		return immutableType(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !immutableType(t.Field(i).Type, seen) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
