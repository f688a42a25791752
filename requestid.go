package endpoint

import (
	"net/http"

	"github.com/google/uuid"
)

// requestID is the distinct type under which the ID travels the context,
// via SetValue/GetValue.
type requestID string

// requestIDHeader is the header the request ID is read from and echoed on.
const requestIDHeader = "X-Request-ID"

// RequestID returns middleware that assigns a unique request ID to each
// request: taken from the inbound X-Request-ID header when present,
// otherwise a fresh UUID. The ID is stored on the context and set on the
// response header so logs on both sides correlate.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, SetValue(r, requestID(id)))
		})
	}
}

// GetRequestID extracts the request ID from the request context.
// Returns "" if the RequestID middleware is not installed.
func GetRequestID(r *http.Request) string {
	id, _ := GetValue[requestID](r.Context())
	return string(id)
}
