package endpoint

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Constraint tags supported on shape fields: required, minLength,
// maxLength, pattern (strings), minimum, maximum (numbers), enum
// (strings), minItems, maxItems (slices). Checking stops at the first
// violation, in field declaration order — validation reports one failure
// per category, never a batch.

// checkParamConstraints checks constraint tags on fields bound by the
// given parameter tags. Fields are labelled by their wire name. Value
// constraints (length, range, pattern, enum) apply only to parameters
// that were actually supplied; an absent optional parameter is never a
// violation, only required fires on absence.
func checkParamConstraints(v any, supplied map[string]bool, tags ...string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		for _, tag := range tags {
			name := f.Tag.Get(tag)
			if name == "" {
				continue
			}
			if !supplied[name] {
				if f.Tag.Get("required") == "true" {
					return &ValidationError{Field: name, Message: "is required"}
				}
				break
			}
			if err := checkFieldConstraints(f, rv.Field(i), name); err != nil {
				return err
			}
			break
		}
	}

	return nil
}

// checkBodyConstraints walks a decoded body value and checks constraint
// tags, recursing into nested structs. Fields are labelled by their JSON
// name under the given prefix.
func checkBodyConstraints(rv reflect.Value, prefix string) error {
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if isParamField(f) || f.Type == reflect.TypeFor[RawRequest]() {
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		fv := rv.Field(i)
		if err := checkFieldConstraints(f, fv, path); err != nil {
			return err
		}
		if fv.Kind() == reflect.Struct {
			if err := checkBodyConstraints(fv, path); err != nil {
				return err
			}
		}
	}

	return nil
}

// isParamField reports whether the field carries any parameter binding tag.
func isParamField(f reflect.StructField) bool {
	for _, tag := range paramTags {
		if f.Tag.Get(tag) != "" {
			return true
		}
	}
	return false
}

// checkFieldConstraints returns the first constraint the value violates.
func checkFieldConstraints(f reflect.StructField, fv reflect.Value, path string) error {
	if f.Tag.Get("required") == "true" && fv.IsZero() {
		return &ValidationError{Field: path, Message: "is required"}
	}

	// minLength / maxLength / pattern / enum — strings.
	if fv.Kind() == reflect.String {
		val := fv.String()
		if tag := f.Tag.Get("minLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) < n {
				return &ValidationError{Field: path, Message: fmt.Sprintf("must be at least %d characters", n)}
			}
		}
		if tag := f.Tag.Get("maxLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) > n {
				return &ValidationError{Field: path, Message: fmt.Sprintf("must be at most %d characters", n)}
			}
		}
		if tag := f.Tag.Get("pattern"); tag != "" {
			if matched, err := regexp.MatchString(tag, val); err == nil && !matched {
				return &ValidationError{Field: path, Message: "must match pattern " + tag}
			}
		}
		if tag := f.Tag.Get("enum"); tag != "" {
			if !slices.Contains(strings.Split(tag, ","), val) {
				return &ValidationError{Field: path, Message: fmt.Sprintf("must be one of [%s]", tag)}
			}
		}
	}

	// minimum / maximum — numeric types.
	if isNumericKind(fv.Kind()) {
		floatVal := toFloat64(fv)
		if tag := f.Tag.Get("minimum"); tag != "" {
			if lower, err := strconv.ParseFloat(tag, 64); err == nil && floatVal < lower {
				return &ValidationError{Field: path, Message: "must be at least " + tag}
			}
		}
		if tag := f.Tag.Get("maximum"); tag != "" {
			if upper, err := strconv.ParseFloat(tag, 64); err == nil && floatVal > upper {
				return &ValidationError{Field: path, Message: "must be at most " + tag}
			}
		}
	}

	// minItems / maxItems — slices.
	if fv.Kind() == reflect.Slice {
		length := fv.Len()
		if tag := f.Tag.Get("minItems"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && length < n {
				return &ValidationError{Field: path, Message: fmt.Sprintf("must have at least %d items", n)}
			}
		}
		if tag := f.Tag.Get("maxItems"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && length > n {
				return &ValidationError{Field: path, Message: fmt.Sprintf("must have at most %d items", n)}
			}
		}
	}

	return nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default: // float32, float64
		return v.Float()
	}
}
