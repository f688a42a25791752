package endpoint

import (
	"errors"
	"net/http"
	"reflect"
)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
	getValidator() Validator
	getErrorHandler() ErrorHandler
	getServices() map[string]ServiceFunc
	routeMiddleware() []Middleware
}

func (r *Router) getValidator() Validator            { return r.validator }
func (r *Router) getErrorHandler() ErrorHandler      { return r.errorHandler }
func (r *Router) getServices() map[string]ServiceFunc { return r.services }
func (r *Router) routeMiddleware() []Middleware      { return nil }

// register is the internal generic registration function.
func register[Req, Resp any](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	ri := routeInfo{
		method:   method,
		pattern:  pattern,
		reqType:  reflect.TypeFor[Req](),
		respType: reflect.TypeFor[Resp](),
	}

	for _, opt := range opts {
		opt(&ri)
	}

	// Default status: Void response → 204, otherwise 200.
	if ri.status == 0 {
		if reflect.TypeFor[Resp]() == reflect.TypeFor[Void]() {
			ri.status = http.StatusNoContent
		} else {
			ri.status = http.StatusOK
		}
	}

	ri.handler = buildHandler(h, &ri, reg.getValidator(), reg.getErrorHandler(), reg.getServices())

	// Apply route-level middleware (from Group).
	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}

// buildHandler wraps a typed Handler into an http.Handler running the full
// request lifecycle: validate the declared input categories, build the
// request context with the lazy service container, execute the handler,
// classify the outcome, and encode it. Each request passes through exactly
// once; there is no retry or re-entry.
func buildHandler[Req, Resp any](h Handler[Req, Resp], ri *routeInfo, validator Validator, errHandler ErrorHandler, services map[string]ServiceFunc) http.Handler {
	defaultStatus := ri.status
	cast := ri.cast

	fail := func(w http.ResponseWriter, r *http.Request, err error) {
		if errHandler != nil {
			errHandler(w, r, err)
			return
		}
		defaultFaultHandler(w, r, err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Validating: path → query → body, all-or-nothing. A failure here
		// never reaches the handler and never reaches the fault boundary.
		req, err := decodeRequest[Req](r)
		if err != nil {
			writeValidationError(w, err)
			return
		}

		if sv, ok := any(req).(SelfValidator); ok {
			if err := sv.Validate(); err != nil {
				writeValidationError(w, err)
				return
			}
		}
		if validator != nil {
			if err := validator.Validate(req); err != nil {
				writeValidationError(w, err)
				return
			}
		}

		// Building-Context: validated inputs are already on req; the lazy
		// service container rides on the context.
		ctx := r.Context()
		if len(services) > 0 {
			ctx = withContainer(ctx, newContainer(services, w, r))
		}

		// Executing-Handler.
		resp, err := h(ctx, req)
		if err != nil {
			// Structured outcomes short-circuit through the error return.
			var res *Result
			if errors.As(err, &res) {
				if werr := writeResult(w, res); werr != nil {
					fail(w, r, werr)
				}
				return
			}
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				writeHTTPError(w, httpErr)
				return
			}
			// Unstructured fault: not ours to represent.
			fail(w, r, err)
			return
		}

		// Encoding.
		if resp == nil {
			w.WriteHeader(defaultStatus)
			return
		}
		if _, ok := any(resp).(*Void); ok {
			w.WriteHeader(defaultStatus)
			return
		}
		if res, ok := any(resp).(*Result); ok {
			if werr := writeResult(w, res); werr != nil {
				fail(w, r, werr)
			}
			return
		}

		v := any(resp)
		if cast != nil {
			cv, cerr := cast(v)
			if cerr != nil {
				// The handler returned data inconsistent with its own
				// declared contract — a fault, not a client error.
				fail(w, r, cerr)
				return
			}
			v = cv
		}
		encodeJSON(w, v, defaultStatus)
	})
}

// Get registers a GET handler.
func Get[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST handler.
func Post[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT handler.
func Put[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH handler.
func Patch[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE handler.
func Delete[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodDelete, pattern, h, opts...)
}

// Raw registers a raw http handler. It bypasses binding and encoding
// entirely but still receives the lazy service container on the request
// context.
func Raw(reg Registrar, method, pattern string, h RawHandler) {
	services := reg.getServices()

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(services) > 0 {
			r = r.WithContext(withContainer(r.Context(), newContainer(services, w, r)))
		}
		h(w, r)
	})

	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		handler = routeMW[i](handler)
	}

	reg.addRoute(routeInfo{
		method:  method,
		pattern: pattern,
		status:  http.StatusOK,
		handler: handler,
	})
}
