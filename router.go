package endpoint

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Router is the central type that holds routes, middleware, the service
// declaration, and configuration. It implements http.Handler. Everything
// on it is fixed after the registration phase; requests only ever read.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware

	services map[string]ServiceFunc

	validator    Validator
	errorHandler ErrorHandler

	mu sync.Mutex
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithService declares a named service factory. The declaration is
// process-wide and immutable once the router starts serving; the factory
// itself runs lazily, at most once per request, when a handler first
// reads the service.
func WithService(name string, fn ServiceFunc) RouterOption {
	return func(r *Router) {
		if r.services == nil {
			r.services = make(map[string]ServiceFunc)
		}
		r.services[name] = fn
	}
}

// WithValidator sets a global request validator, run after the declared
// categories have been bound and checked.
func WithValidator(v Validator) RouterOption {
	return func(r *Router) {
		r.validator = v
	}
}

// ErrorHandler is the fault boundary for unstructured errors — anything a
// handler or service factory returns that is neither an *HTTPError nor a
// *Result. Validation failures and structured outcomes never reach it.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithErrorHandler sets a custom fault handler for the router.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// defaultFaultHandler logs the fault and responds with a generic 500.
// Fault details stay on the server side.
func defaultFaultHandler(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("unhandled endpoint fault",
		"err", err,
		"method", r.Method,
		"path", r.URL.Path,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux: http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware to the router. Middleware is applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := http.Handler(r.mux)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// Static serves static files from the given filesystem under the URL path.
func (r *Router) Static(urlPath string, fsys fs.FS) {
	handler := http.StripPrefix(urlPath, http.FileServerFS(fsys))
	r.mux.Handle("GET "+urlPath+"/{path...}", handler)
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// addRoute registers a routeInfo with the router's mux. Global middleware
// is applied in ServeHTTP, not here — only group middleware is baked into
// ri.handler.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mux.Handle(ri.method+" "+ri.pattern, ri.handler)
}
