// SPDX-License-Identifier: MIT
package rowtree

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type (
	// Accessor resolves a named field on a record.
	//
	// An unresolvable name must yield an error wrapping ErrFieldNotFound.
	Accessor func(record any, field string) (value any, err error)

	// Getter is implemented by records exposing their fields by name, e.g. schemaless rows.
	Getter interface {
		FieldValue(name string) (value any, ok bool)
	}

	planKind int

	// plan describes how a field is read from some record type.
	plan struct {
		kind planKind

		// index of the method for planMethod.
		index int
		// addressable marks methods with pointer receivers on non-pointer records.
		addressable bool
		// withErr marks methods returning (value, error).
		withErr bool

		// path of the struct field for planField.
		path []int
	}

	planKey struct {
		typ   reflect.Type
		field string
	}
)

const (
	planMissing planKind = iota
	planMethod
	planField
	planMapKey
)

const (
	getterPrefix      = "Get"
	nullLiteral       = "null"
	dtoSuffix         = "dto"
	defPlanCacheSize  = 1024
	genericTypeMarker = '['
)

// Field access errors.
var (
	ErrFieldNotFound       = errors.New("field not found")
	ErrMalformedLevelValue = errors.New("level value is not an integer")
)

var (
	errType = reflect.TypeOf((*error)(nil)).Elem()

	planCache atomic.Pointer[lru.Cache[planKey, plan]]
)

func init() {
	if err := SetAccessorCacheSize(defPlanCacheSize); err != nil {
		panic(err)
	}
}

// SetAccessorCacheSize replaces the cache holding the ReflectAccessor's per-type field lookups.
func SetAccessorCacheSize(size int) (err error) {
	cache, err := lru.New[planKey, plan](size)
	if err != nil {
		return fmt.Errorf("accessor cache: %w", err)
	}
	planCache.Store(cache)

	return
}

// ReflectAccessor is the default Accessor.
//
// The field is resolved on the record's dynamic type, in order, through: the Getter interface, a
// `Get<field>` method, a `<field>` method, an exported `<field>` struct field & a `<field>` map key.
// Methods may return a value or a (value, error) pair.
func ReflectAccessor(record any, field string) (value any, err error) {
	if g, ok := record.(Getter); ok {
		if value, ok = g.FieldValue(field); !ok {
			err = fmt.Errorf("%w: %s", ErrFieldNotFound, field)
		}

		return
	}

	if record == nil {
		err = fmt.Errorf("%w: %s on nil record", ErrFieldNotFound, field)
		return
	}

	v := reflect.ValueOf(record)
	p := lookupPlan(v.Type(), field)

	switch p.kind {
	case planMethod:
		if p.addressable {
			ptr := reflect.New(v.Type())
			ptr.Elem().Set(v)
			v = ptr
		}

		out := v.Method(p.index).Call(nil)
		if p.withErr && !out[1].IsNil() {
			err = fmt.Errorf("read %s: %w", field, out[1].Interface().(error))
			return
		}
		value = out[0].Interface()
	case planField:
		if v = indirect(v); !v.IsValid() {
			err = fmt.Errorf("%w: %s on nil record", ErrFieldNotFound, field)
			return
		}

		var fv reflect.Value
		if fv, err = v.FieldByIndexErr(p.path); err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrFieldNotFound, field, err)
			return
		}
		value = fv.Interface()
	case planMapKey:
		if v = indirect(v); !v.IsValid() || v.IsNil() {
			err = fmt.Errorf("%w: %s on nil record", ErrFieldNotFound, field)
			return
		}

		mv := v.MapIndex(reflect.ValueOf(field).Convert(v.Type().Key()))
		if !mv.IsValid() {
			err = fmt.Errorf("%w: %s", ErrFieldNotFound, field)
			return
		}
		value = mv.Interface()
	default:
		err = fmt.Errorf("%w: %s on %s", ErrFieldNotFound, field, v.Type())
	}

	return
}

func lookupPlan(typ reflect.Type, field string) (p plan) {
	cache := planCache.Load()

	key := planKey{typ: typ, field: field}
	if p, ok := cache.Get(key); ok {
		return p
	}

	p = newPlan(typ, field)
	cache.Add(key, p)

	return
}

func newPlan(typ reflect.Type, field string) plan {
	for _, name := range []string{getterPrefix + field, field} {
		if m, ok := typ.MethodByName(name); ok && isAccessorMethod(m) {
			return plan{kind: planMethod, index: m.Index, withErr: m.Type.NumOut() == 2}
		}

		if typ.Kind() == reflect.Pointer {
			continue
		}

		// Methods with pointer receivers are only reachable through a copy.
		if m, ok := reflect.PointerTo(typ).MethodByName(name); ok && isAccessorMethod(m) {
			return plan{kind: planMethod, index: m.Index, addressable: true, withErr: m.Type.NumOut() == 2}
		}
	}

	elem := typ
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Struct:
		if sf, ok := elem.FieldByName(field); ok && sf.IsExported() {
			return plan{kind: planField, path: sf.Index}
		}
	case reflect.Map:
		if elem.Key().Kind() == reflect.String {
			return plan{kind: planMapKey}
		}
	}

	return plan{kind: planMissing}
}

// isAccessorMethod checks for niladic methods returning a value or a (value, error) pair.
func isAccessorMethod(m reflect.Method) bool {
	// The receiver is the first input.
	if m.Type.NumIn() != 1 {
		return false
	}

	switch m.Type.NumOut() {
	case 1:
		return true
	case 2:
		return m.Type.Out(1) == errType
	default:
		return false
	}
}

// indirect follows pointers, returning the zero Value for nil pointers.
func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}

	return v
}

// stringify formats an identifier value for use in a composite key.
func stringify(value any) string {
	v := indirect(reflect.ValueOf(value))
	if !v.IsValid() {
		return nullLiteral
	}

	return fmt.Sprint(v.Interface())
}

// asInt64 reads integer values of any width, including named integer types.
func asInt64(value any) (n int64, ok bool) {
	v := indirect(reflect.ValueOf(value))
	if !v.IsValid() {
		return
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := v.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
	}

	return
}

// groupOf derives a node group from a record's type name.
//
// The name is lower-cased & stripped of a trailing "dto"; unnamed types use their kind.
func groupOf(record any) string {
	typ := reflect.TypeOf(record)
	if typ == nil {
		return ""
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	name := typ.Name()
	if index := strings.IndexRune(name, genericTypeMarker); index > -1 {
		name = name[:index]
	}
	if name == "" {
		name = typ.Kind().String()
	}

	return strings.TrimSuffix(strings.ToLower(name), dtoSuffix)
}
