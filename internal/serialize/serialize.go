// Package serialize converts resource property structs into
// CloudFormation-ready values.
package serialize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Resolvable is a deferred value that serialization pulls on demand.
// strata.Token implements it. Resolution happens before any other
// serialization rule: a Resolvable that resolves to nil is omitted, while
// any other result is kept verbatim, including an explicit empty list.
// This is how "never configured" and "configured but empty" stay
// distinguishable in the output.
type Resolvable interface {
	Resolve() (any, error)
}

// Properties serializes a property struct to a CloudFormation property
// map. It handles:
// - PascalCase field names, with json tags taking precedence
// - omitting nil/zero values
// - nested structs, slices and maps
// - Resolvable (Token) fields and elements, resolved on demand
// - json.Marshaler values (intrinsics), converted to their plain form
func Properties(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("properties must be a struct, got %T", v)
	}

	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		// Resolvable fields bypass the zero-value check: the resolved
		// value decides whether the field is omitted.
		if fieldVal.CanInterface() {
			if r, ok := fieldVal.Interface().(Resolvable); ok {
				if isNilPointer(fieldVal) {
					continue
				}
				resolved, err := resolve(r)
				if err != nil {
					return nil, err
				}
				if resolved != nil {
					result[name] = resolved
				}
				continue
			}
		}

		if isZeroValue(fieldVal) {
			continue
		}

		serialized, err := serializeValue(fieldVal)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if serialized != nil {
			result[name] = serialized
		}
	}

	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// Value serializes a single value with the same rules as Properties.
func Value(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return serializeValue(reflect.ValueOf(v))
}

// resolve pulls a Resolvable and serializes whatever it produced. The
// produced value may itself contain further Resolvables; resolution is
// transitive and cycles are reported by the Token implementation.
func resolve(r Resolvable) (any, error) {
	v, err := r.Resolve()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	serialized, err := serializeValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	if serialized == nil {
		// Keep resolved empties explicit: a configured-but-empty list
		// must survive as [] rather than disappear.
		if k := reflect.ValueOf(v).Kind(); k == reflect.Slice || k == reflect.Array {
			return []any{}, nil
		}
	}
	return serialized, nil
}

// fieldName returns the CloudFormation property name for a struct field.
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return field.Name
	}
	return name
}

// isNilPointer reports whether v holds a nil pointer or interface.
func isNilPointer(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// isZeroValue reports whether the value is the zero value for its type.
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if v.CanInterface() {
			if zeroer, ok := v.Interface().(interface{ IsZero() bool }); ok {
				return zeroer.IsZero()
			}
		}
		return false
	default:
		return false
	}
}

// serializeValue converts a reflect.Value to a JSON- and YAML-compatible
// value.
func serializeValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	// Deferred values resolve first, before pointer unwrapping, so a
	// *Token is pulled rather than dereferenced.
	if v.CanInterface() {
		if r, ok := v.Interface().(Resolvable); ok {
			if isNilPointer(v) {
				return nil, nil
			}
			return resolve(r)
		}
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		return serializeValue(v.Elem())
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		return serializeValue(v.Elem())
	}

	// Intrinsics carry their own wire format; round-trip through JSON to
	// get the plain map form so YAML output matches JSON output.
	if v.CanInterface() {
		if marshaler, ok := v.Interface().(json.Marshaler); ok {
			data, err := marshaler.MarshalJSON()
			if err != nil {
				return nil, err
			}
			var result any
			if err := json.Unmarshal(data, &result); err != nil {
				return nil, err
			}
			return result, nil
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		return Properties(v.Interface())

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := serializeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			result[i] = elem
		}
		return result, nil

	case reflect.Map:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make(map[string]any)
		iter := v.MapRange()
		for iter.Next() {
			val, err := serializeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			result[iter.Key().String()] = val
		}
		return result, nil

	case reflect.String:
		return v.String(), nil

	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return v.Float(), nil

	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return nil, err
		}
		var result any
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, err
		}
		return result, nil
	}
}
