// Package endpoint is a declarative request-binding and response-encoding
// layer in front of net/http handlers. An endpoint declares the shape of its
// inputs (path parameters, query parameters, body) and optionally its output;
// the framework validates and converts raw request data into typed values,
// invokes the handler, and encodes the outcome — guaranteeing that fields
// not declared in the output shape never reach the client.
//
// The core handler signature removes http.ResponseWriter and *http.Request:
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// Routes are registered with package-level generic functions:
//
//	r := endpoint.New()
//	endpoint.Get[GetUserReq, UserResp](r, "/users/{id}", getUser)
//	endpoint.Post[CreateReq, UserResp](r, "/users", createUser, endpoint.WithStatus(http.StatusCreated))
//
// Request types use struct tags for parameter binding and a Body field for
// request bodies. Categories are validated in a fixed order — path, then
// query, then body — and the first failure short-circuits with a 400 before
// the handler ever runs:
//
//	type CreateReq struct {
//	    OrgID string `path:"org_id"`
//	    Dry   bool   `query:"dry_run"`
//	    Body  struct {
//	        Name string `json:"name" required:"true" minLength:"3"`
//	    }
//	}
//
// An output shape declared with WithShape casts the handler's return value
// through a second type before encoding, dropping any field the shape does
// not declare:
//
//	endpoint.Get(r, "/users/{id}", getUser, endpoint.WithShape[PublicUser]())
//
// Handlers may short-circuit with a structured outcome through the error
// return: an *HTTPError becomes that status and message, and a *Result (a
// fully formed success with its own status, MIME type, headers, and cookies)
// is written verbatim, bypassing output-shape casting. Any other error is an
// unstructured fault and is handed to the router's error handler untouched.
//
// Named services give handlers lazy, request-scoped auxiliary values.
// Factories are declared once on the router and run at most once per
// request, on first read:
//
//	r := endpoint.New(
//	    endpoint.WithService("sessionUser", lookupSessionUser),
//	)
//
//	func getProfile(ctx context.Context, _ *endpoint.Void) (*Profile, error) {
//	    user, err := endpoint.Service[*store.User](ctx, "sessionUser")
//	    if err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
//
// Middleware uses the standard func(http.Handler) http.Handler signature,
// so the entire Go middleware ecosystem works natively.
package endpoint
