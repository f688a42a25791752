package endpoint

import (
	"encoding/json"
	"net/http"
)

// Result is the explicit success outcome of an endpoint: a status code,
// a body, a MIME type, and optional headers and cookies. A Result is
// written verbatim — output-shape casting never applies to it, so the
// body can be anything, not just JSON.
//
// A handler produces a Result either as its response type or through the
// error return, which short-circuits the rest of the handler:
//
//	return nil, endpoint.HTMLResult("<h1>welcome</h1>")
type Result struct {
	Status      int
	ContentType string
	Body        []byte

	Header  http.Header
	Cookies []*http.Cookie

	// deferred construction failure (e.g. JSON marshal), surfaced as an
	// unstructured fault at encode time
	err error
}

// Error implements error so a fully formed Result can travel through a
// handler's or service factory's error return.
func (res *Result) Error() string { return "endpoint: result short-circuit" }

// ResultOption configures a Result at construction time.
type ResultOption func(*Result)

// Status sets the Result's HTTP status code (default 200).
func Status(code int) ResultOption {
	return func(res *Result) {
		res.Status = code
	}
}

// Header adds a response header to the Result.
func Header(key, value string) ResultOption {
	return func(res *Result) {
		if res.Header == nil {
			res.Header = make(http.Header)
		}
		res.Header.Add(key, value)
	}
}

// SetCookie adds a cookie to the Result.
func SetCookie(c *http.Cookie) ResultOption {
	return func(res *Result) {
		res.Cookies = append(res.Cookies, c)
	}
}

// JSONResult builds a success Result with a JSON body. A marshal failure is
// a programming error in the value; it surfaces as an unstructured fault
// when the Result is encoded.
func JSONResult(v any, opts ...ResultOption) *Result {
	res := &Result{Status: http.StatusOK, ContentType: "application/json"}
	b, err := json.Marshal(v)
	if err != nil {
		res.err = err
	} else {
		res.Body = b
	}
	return applyResultOptions(res, opts)
}

// HTMLResult builds a success Result with an HTML body.
func HTMLResult(body string, opts ...ResultOption) *Result {
	res := &Result{
		Status:      http.StatusOK,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(body),
	}
	return applyResultOptions(res, opts)
}

// TextResult builds a success Result with an arbitrary MIME type.
func TextResult(contentType, body string, opts ...ResultOption) *Result {
	res := &Result{
		Status:      http.StatusOK,
		ContentType: contentType,
		Body:        []byte(body),
	}
	return applyResultOptions(res, opts)
}

func applyResultOptions(res *Result, opts []ResultOption) *Result {
	for _, opt := range opts {
		opt(res)
	}
	return res
}
