package endpoint

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// A request or response shape is an ordinary Go struct type. Binding tags
// (path, query, header, cookie) and an exported Body field declare where
// each input comes from; constraint tags declare what valid values look
// like. Shapes are immutable and shared across requests.

// paramTags are the struct tags used for binding request parameters.
var paramTags = []string{"path", "query", "header", "cookie"}

// hasTag reports whether the given type has any exported field carrying
// the given binding tag.
func hasTag(t reflect.Type, tag string) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get(tag) != "" {
			return true
		}
	}
	return false
}

// hasParamTags reports whether the given type has any fields with
// parameter binding tags (path, query, header, cookie).
func hasParamTags(t reflect.Type) bool {
	for _, tag := range paramTags {
		if hasTag(t, tag) {
			return true
		}
	}
	return false
}

// hasRawRequest reports whether the given type embeds a RawRequest field.
func hasRawRequest(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		if t.Field(i).Type == reflect.TypeFor[RawRequest]() {
			return true
		}
	}
	return false
}

// hasBodyField reports whether the given type has an exported "Body" field.
func hasBodyField(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	_, ok := t.FieldByName("Body")
	return ok
}

// isBodyOnly reports whether the entire struct is the body shape: no
// parameter tags, no Body field, no RawRequest.
func isBodyOnly(t reflect.Type) bool {
	return !hasParamTags(t) && !hasBodyField(t) && !hasRawRequest(t)
}

// jsonFieldName returns the field's wire name: the json tag name if present,
// otherwise the Go field name. Returns "-" for omitted fields.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

// castThrough re-encodes a value through the declared output shape: the
// value is marshalled to JSON and decoded into a fresh Out, so any field
// Out does not declare is dropped. A failure here means the handler
// returned data inconsistent with its declared contract — it is reported
// as an unstructured fault, never a client error.
func castThrough[Out any](v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("endpoint: cast to %T: %w", *new(Out), err)
	}
	out := new(Out)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("endpoint: cast to %T: %w", *out, err)
	}
	return out, nil
}
