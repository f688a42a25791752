package endpoint

import (
	"encoding/json"
	"errors"
	"net/http"
)

// CookieSetter is optionally implemented by response types to set cookies.
type CookieSetter interface {
	Cookies() []*http.Cookie
}

// HeaderSetter is optionally implemented by response types to set response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// writeResult encodes a structured Result verbatim: cookies, then headers,
// then status, then body. Encoding depends on nothing but the Result itself.
// Returns the Result's deferred construction error, if any, so the caller
// can route it to the fault boundary instead of writing a half response.
func writeResult(w http.ResponseWriter, res *Result) error {
	if res.err != nil {
		return res.err
	}

	for _, c := range res.Cookies {
		http.SetCookie(w, c)
	}
	for key, vals := range res.Header {
		for _, v := range vals {
			w.Header().Add(key, v)
		}
	}

	ct := res.ContentType
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)

	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(res.Body) > 0 {
		//nolint:errcheck,gosec // best-effort after WriteHeader
		w.Write(res.Body)
	}
	return nil
}

// encodeJSON writes an implicit success: the handler's plain return value as
// a JSON body. Cookies and headers are applied before the status is written.
func encodeJSON(w http.ResponseWriter, v any, status int) {
	if cs, ok := v.(CookieSetter); ok {
		for _, c := range cs.Cookies() {
			http.SetCookie(w, c)
		}
	}
	if hs, ok := v.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}
	if sc, ok := v.(StatusCoder); ok {
		status = sc.StatusCode()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(v)
}

// writeValidationError writes a validation failure as a plain-text response.
// Defaults to 400; a custom Validator may carry its own status code.
func writeValidationError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	var sc StatusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	http.Error(w, err.Error(), status)
}

// writeHTTPError writes a structured error exactly as declared.
func writeHTTPError(w http.ResponseWriter, e *HTTPError) {
	http.Error(w, e.Message, e.Status)
}
