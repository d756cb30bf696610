// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// reflect.go — struct introspection helpers: Schema derivation from struct
// fields and `statepack` tags, value-map extraction, and population of a
// struct from decoded values.

package statepack

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

var uuidType = reflect.TypeOf(uuid.UUID{})

// packField describes one schema slot derived from a struct field.
type packField struct {
	name  string
	typ   Type
	index []int
}

// SchemaOf derives a Schema from model's struct fields in declaration order.
// model must be a non-nil pointer to a struct. Field names come from the
// `statepack` tag when present, snake_case of the Go name otherwise; a tag
// of "-" skips the field. Embedded structs flatten into the outer schema.
// Supported field types: string, bool, signed integers, float32, float64,
// and uuid.UUID. Anything else needs an explicit builder schema.
//
// The returned Schema's Kind is the model's struct reflect.Type, which
// Populate accepts back.
func SchemaOf(cookie string, model any) (Schema, error) {
	t, err := modelType(model)
	if err != nil {
		return Schema{}, err
	}
	fields, err := reflectFields(t, nil)
	if err != nil {
		return Schema{}, err
	}
	s := Schema{Cookie: cookie, Kind: t}
	for _, f := range fields {
		s.Fields = append(s.Fields, Field{Name: f.name, Type: f.typ})
	}
	return s, nil
}

// ValuesOf extracts a value map from model, keyed the way SchemaOf names
// fields.
func ValuesOf(model any) (map[string]any, error) {
	t, err := modelType(model)
	if err != nil {
		return nil, err
	}
	fields, err := reflectFields(t, nil)
	if err != nil {
		return nil, err
	}
	v := reflect.ValueOf(model).Elem()
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.name] = v.FieldByIndex(f.index).Interface()
	}
	return out, nil
}

// Populate writes decoded values into model's fields, converting integer
// and float widths as needed. Every derived field must be present in
// values.
func Populate(model any, values map[string]any) error {
	t, err := modelType(model)
	if err != nil {
		return err
	}
	fields, err := reflectFields(t, nil)
	if err != nil {
		return err
	}
	v := reflect.ValueOf(model).Elem()
	for _, f := range fields {
		val, ok := values[f.name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingField, f.name)
		}
		if err := setField(v.FieldByIndex(f.index), f.name, val); err != nil {
			return err
		}
	}
	return nil
}

func modelType(model any) (reflect.Type, error) {
	t := reflect.TypeOf(model)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidModel
	}
	if reflect.ValueOf(model).IsNil() {
		return nil, ErrInvalidModel
	}
	return t.Elem(), nil
}

func reflectFields(t reflect.Type, prefix []int) ([]packField, error) {
	var fields []packField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		index := append(append([]int(nil), prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			inner, err := reflectFields(f.Type, index)
			if err != nil {
				return nil, err
			}
			fields = append(fields, inner...)
			continue
		}
		tag := f.Tag.Get("statepack")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = toSnakeCase(f.Name)
		}
		desc, ok := descriptorFor(f.Type)
		if !ok {
			return nil, fmt.Errorf("%w: field %s has type %s", ErrUnsupportedField, f.Name, f.Type)
		}
		fields = append(fields, packField{name: name, typ: desc, index: index})
	}
	return fields, nil
}

// descriptorFor maps a Go field type to its built-in descriptor.
func descriptorFor(t reflect.Type) (Type, bool) {
	if t == uuidType {
		return UUID, true
	}
	switch t.Kind() {
	case reflect.String:
		return Str, true
	case reflect.Bool:
		return Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int, true
	case reflect.Float32, reflect.Float64:
		return Float, true
	default:
		return nil, false
	}
}

func setField(fv reflect.Value, name string, val any) error {
	switch x := val.(type) {
	case string:
		if fv.Kind() != reflect.String {
			return fmt.Errorf("%w: field %q: string into %s", ErrBadValue, name, fv.Type())
		}
		fv.SetString(x)
	case bool:
		if fv.Kind() != reflect.Bool {
			return fmt.Errorf("%w: field %q: bool into %s", ErrBadValue, name, fv.Type())
		}
		fv.SetBool(x)
	case int64:
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if fv.OverflowInt(x) {
				return fmt.Errorf("%w: field %q: %d overflows %s", ErrBadValue, name, x, fv.Type())
			}
			fv.SetInt(x)
		default:
			return fmt.Errorf("%w: field %q: int into %s", ErrBadValue, name, fv.Type())
		}
	case float64:
		switch fv.Kind() {
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(x)
		default:
			return fmt.Errorf("%w: field %q: float into %s", ErrBadValue, name, fv.Type())
		}
	case uuid.UUID:
		if fv.Type() != uuidType {
			return fmt.Errorf("%w: field %q: uuid into %s", ErrBadValue, name, fv.Type())
		}
		fv.Set(reflect.ValueOf(x))
	default:
		rv := reflect.ValueOf(val)
		if val == nil || !rv.Type().AssignableTo(fv.Type()) {
			return fmt.Errorf("%w: field %q: %T into %s", ErrBadValue, name, val, fv.Type())
		}
		fv.Set(rv)
	}
	return nil
}

// toSnakeCase converts CamelCase to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + 32)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
