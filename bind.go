package endpoint

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"time"
)

// queryTags are the binding tags validated together as the query category.
// Header and cookie values are request metadata and ride along with query
// parameters in the validation order.
var queryTags = []string{"query", "header", "cookie"}

// decodeRequest creates a new Req value and populates it from the HTTP
// request, validating the declared input categories in fixed order: path
// parameters, then query parameters, then body. The first category that
// fails short-circuits the remaining ones. Categories the shape does not
// declare are skipped and keep their zero values.
func decodeRequest[Req any](r *http.Request) (*Req, error) {
	req := new(Req)
	t := reflect.TypeFor[Req]()

	if t == reflect.TypeFor[Void]() {
		return req, nil
	}

	// RawRequest injection is plumbing, not a validated category.
	if hasRawRequest(t) {
		bindRawRequest(req, r)
	}

	if hasTag(t, "path") {
		supplied, err := bindParams(req, r, "path")
		if err != nil {
			return nil, err
		}
		if err := checkParamConstraints(req, supplied, "path"); err != nil {
			return nil, err
		}
	}

	if hasTag(t, "query") || hasTag(t, "header") || hasTag(t, "cookie") {
		supplied := make(map[string]bool)
		for _, tag := range queryTags {
			s, err := bindParams(req, r, tag)
			if err != nil {
				return nil, err
			}
			for name := range s {
				supplied[name] = true
			}
		}
		if err := checkParamConstraints(req, supplied, queryTags...); err != nil {
			return nil, err
		}
	}

	switch {
	case hasBodyField(t):
		bodyField := reflect.ValueOf(req).Elem().FieldByName("Body")
		if err := decodeBody(r, bodyField.Addr().Interface()); err != nil {
			return nil, &ValidationError{Field: "body", Message: err.Error()}
		}
		if err := checkBodyConstraints(bodyField, "body"); err != nil {
			return nil, err
		}
	case isBodyOnly(t):
		if err := decodeBody(r, req); err != nil {
			return nil, &ValidationError{Field: "body", Message: err.Error()}
		}
		if err := checkBodyConstraints(reflect.ValueOf(req).Elem(), ""); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// bindParams binds one tag category (path, query, header, or cookie) to
// the struct fields carrying that tag. A coercion failure is a validation
// failure of that category. The returned set holds the wire names that
// received a value, whether from the request or a default tag; constraint
// checking skips everything else except required.
func bindParams(target any, r *http.Request, tag string) (map[string]bool, error) {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	supplied := make(map[string]bool)
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Name == "Body" {
			continue
		}

		name := f.Tag.Get(tag)
		if name == "" {
			continue
		}

		val := lookupParam(r, tag, name)
		if val == "" {
			val = f.Tag.Get("default")
		}
		if val == "" {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return nil, &ValidationError{Field: name, Message: coerceMessage(f.Type)}
		}
		supplied[name] = true
	}

	return supplied, nil
}

// lookupParam fetches the raw value for a binding tag from the request.
func lookupParam(r *http.Request, tag, name string) string {
	switch tag {
	case "path":
		return r.PathValue(name)
	case "query":
		return r.URL.Query().Get(name)
	case "header":
		return r.Header.Get(name)
	case "cookie":
		if c, err := r.Cookie(name); err == nil {
			return c.Value
		}
	}
	return ""
}

// bindRawRequest injects the raw *http.Request into an embedded RawRequest field.
func bindRawRequest(target any, r *http.Request) {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()
	for i := range t.NumField() {
		if t.Field(i).Type == reflect.TypeFor[RawRequest]() {
			v.Field(i).Set(reflect.ValueOf(RawRequest{Request: r}))
		}
	}
}

// setFieldValue sets a reflect.Value from a string, supporting common types.
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float64:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return errors.New("unsupported type: " + field.Type().String())
	}
	return nil
}

// coerceMessage describes the expected value type for a coercion failure.
func coerceMessage(t reflect.Type) string {
	if t == reflect.TypeFor[time.Duration]() {
		return "must be a duration"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		return "must be an integer"
	case reflect.Float64:
		return "must be a number"
	case reflect.Bool:
		return "must be a boolean"
	default:
		return "is not valid"
	}
}

// decodeBody decodes the request body as JSON into target.
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
