// Package record turns live record instances into raw value maps without
// compile-time knowledge of the record's field set.
package record

import (
	"fmt"
	"reflect"
	"strings"
)

// RawValueMap is a field-name → raw-stored-value snapshot of one record
// instance. Built fresh per snapshot (before-image and after-image are
// independent maps) and never mutated once built.
type RawValueMap map[string]any

// FieldReader is the capability fast path: record types generated by the
// platform adapter can project their own key/value view and skip
// reflection entirely.
type FieldReader interface {
	Fields() map[string]any
}

// IntrospectionError reports that a record's accessor set could not be
// read. This is a host-runtime contract violation, not a data problem:
// extraction is all-or-nothing and the whole operation aborts.
type IntrospectionError struct {
	Type     string
	Accessor string
	Cause    error
}

func (e *IntrospectionError) Error() string {
	if e.Accessor != "" {
		return fmt.Sprintf("record: introspection of %s failed at accessor %s: %v", e.Type, e.Accessor, e.Cause)
	}
	return fmt.Sprintf("record: introspection of %s failed: %v", e.Type, e.Cause)
}

func (e *IntrospectionError) Unwrap() error { return e.Cause }

const accessorPrefix = "Get"

// Extract builds a RawValueMap from an arbitrary record instance.
//
// If the instance implements FieldReader its projection is copied as-is.
// Otherwise every exported zero-argument single-result method named
// Get<Field> is invoked and keyed by <Field>; exported struct fields are
// taken directly when no accessor shadows them. A panic inside any
// accessor fails the whole extraction.
func Extract(instance any) (RawValueMap, error) {
	if instance == nil {
		return nil, &IntrospectionError{Type: "<nil>", Cause: fmt.Errorf("nil record instance")}
	}

	if fr, ok := instance.(FieldReader); ok {
		return extractProjection(fr)
	}

	return extractReflective(instance)
}

func extractProjection(fr FieldReader) (values RawValueMap, err error) {
	typeName := reflect.TypeOf(fr).String()
	defer func() {
		if rec := recover(); rec != nil {
			values = nil
			err = &IntrospectionError{Type: typeName, Accessor: "Fields", Cause: fmt.Errorf("panic: %v", rec)}
		}
	}()

	src := fr.Fields()
	values = make(RawValueMap, len(src))
	for name, v := range src {
		values[name] = v
	}
	return values, nil
}

func extractReflective(instance any) (RawValueMap, error) {
	v := reflect.ValueOf(instance)
	typeName := v.Type().String()

	values := make(RawValueMap)

	// Struct fields first so a Get<Field> accessor takes precedence.
	elem := v
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, &IntrospectionError{Type: typeName, Cause: fmt.Errorf("nil record pointer")}
		}
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		t := elem.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Anonymous {
				continue
			}
			values[f.Name] = elem.Field(i).Interface()
		}
	}

	vt := v.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		name, ok := accessorFieldName(m)
		if !ok {
			continue
		}

		result, err := callAccessor(v.Method(i), typeName, m.Name)
		if err != nil {
			return nil, err
		}
		values[name] = result
	}

	if len(values) == 0 {
		return nil, &IntrospectionError{Type: typeName, Cause: fmt.Errorf("no readable accessors or fields")}
	}
	return values, nil
}

// accessorFieldName reports whether m looks like a record accessor and,
// if so, the field name it derives. Accessors take no arguments beyond
// the receiver and return exactly one value.
func accessorFieldName(m reflect.Method) (string, bool) {
	if !strings.HasPrefix(m.Name, accessorPrefix) || len(m.Name) == len(accessorPrefix) {
		return "", false
	}
	if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
		return "", false
	}
	return strings.TrimPrefix(m.Name, accessorPrefix), true
}

func callAccessor(fn reflect.Value, typeName, accessor string) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &IntrospectionError{Type: typeName, Accessor: accessor, Cause: fmt.Errorf("panic: %v", rec)}
		}
	}()

	out := fn.Call(nil)
	return out[0].Interface(), nil
}
