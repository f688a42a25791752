package endpoint

import (
	"context"
	"net/http"
)

// Void is used as a type parameter when a request declares no inputs
// or a response has no body (results in 204 No Content).
type Void struct{}

// Handler is the core typed handler signature. The framework owns binding
// and serialization — handlers never see http.ResponseWriter or
// *http.Request unless they embed RawRequest or register via Raw.
type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

// RawHandler is an escape hatch for anything that needs direct access to
// the underlying http primitives. Raw handlers still get the lazy service
// container on the request context.
type RawHandler func(w http.ResponseWriter, r *http.Request)
