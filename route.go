package endpoint

import (
	"net/http"
	"reflect"
)

// routeInfo holds the immutable declaration of one endpoint, fixed at
// registration time for the process lifetime.
type routeInfo struct {
	method  string
	pattern string
	status  int

	reqType  reflect.Type
	respType reflect.Type

	// cast re-encodes a plain handler return value through the declared
	// output shape. Nil means no output shape: the value passes through
	// unmodified.
	cast func(v any) (any, error)

	handler http.Handler
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithStatus sets the default HTTP status code for the response.
func WithStatus(code int) RouteOption {
	return func(ri *routeInfo) {
		ri.status = code
	}
}

// WithShape declares the route's output shape. The handler's plain return
// value is cast through Out before encoding — fields Out does not declare
// are dropped, so they can never leak to the client. Structured *Result
// responses bypass the shape entirely; their bodies are not always
// JSON-shaped.
func WithShape[Out any]() RouteOption {
	return func(ri *routeInfo) {
		ri.respType = reflect.TypeFor[Out]()
		ri.cast = castThrough[Out]
	}
}
