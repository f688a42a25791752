package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ServiceFunc builds a named, request-scoped auxiliary value — "the
// authenticated user", "the request locale". Factories see only the raw
// request/response pair, never the validated inputs, and are declared
// once per router with WithService.
//
// Returning a structured *HTTPError or *Result from a factory
// short-circuits the request exactly as if the handler had returned it.
// Any other error is an unstructured fault.
type ServiceFunc func(w http.ResponseWriter, r *http.Request) (any, error)

// container is the per-request lazy service cache: one cell per declared
// name, each computed at most once, on first read. Containers are built
// fresh for every request and never shared, so evaluation order is
// whatever order the handler reads services in.
type container struct {
	w         http.ResponseWriter
	r         *http.Request
	factories map[string]ServiceFunc
	cells     map[string]*serviceCell
}

type serviceCell struct {
	once sync.Once
	val  any
	err  error
}

func newContainer(factories map[string]ServiceFunc, w http.ResponseWriter, r *http.Request) *container {
	cells := make(map[string]*serviceCell, len(factories))
	for name := range factories {
		cells[name] = &serviceCell{}
	}
	return &container{w: w, r: r, factories: factories, cells: cells}
}

// get returns the cached value for name, invoking the factory on first read.
// Factory failures are cached too — a request observes one outcome per service.
func (c *container) get(name string) (any, error) {
	cell, ok := c.cells[name]
	if !ok {
		return nil, fmt.Errorf("endpoint: unknown service %q", name)
	}
	cell.once.Do(func() {
		cell.val, cell.err = c.factories[name](c.w, c.r)
	})
	return cell.val, cell.err
}

type containerKey struct{}

// withContainer places the request's service container on the context.
func withContainer(ctx context.Context, c *container) context.Context {
	return context.WithValue(ctx, containerKey{}, c)
}

// Service reads a named service from the request context, invoking its
// factory on first read and returning the cached value on every read
// after that. Reading an undeclared name, or asserting the wrong type,
// is a programming error reported as an unstructured fault when the
// handler returns it.
func Service[T any](ctx context.Context, name string) (T, error) {
	var zero T

	c, ok := ctx.Value(containerKey{}).(*container)
	if !ok {
		return zero, errors.New("endpoint: no services declared on this router")
	}

	v, err := c.get(name)
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("endpoint: service %q is %T, not %T", name, v, zero)
	}
	return t, nil
}
