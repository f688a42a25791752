// Command demo runs a small cookie-session login service built on the
// endpoint framework. It exercises body, path, and query shapes, output
// shapes that strip private fields, lazy per-request services, and
// explicit Results for cookie handling.
package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmallory/endpoint"
)

//go:embed seed.yaml
var defaultSeed []byte

//go:embed web
var webFS embed.FS

const sessionCookie = "session"

type app struct {
	users      *userStore
	sessions   *sessionStore
	sessionTTL time.Duration
}

type loginRequest struct {
	Username string `json:"username" required:"true"`
	Password string `json:"password" required:"true" minLength:"8"`
}

func (a *app) login(ctx context.Context, req *loginRequest) (*endpoint.Result, error) {
	u, err := a.users.authenticate(req.Username, req.Password)
	if err != nil {
		return nil, endpoint.Error(http.StatusUnauthorized, "invalid credentials")
	}

	token := a.sessions.create(u.ID)
	return endpoint.JSONResult(
		Profile{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email},
		endpoint.SetCookie(&http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(a.sessionTTL / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}),
	), nil
}

type logoutRequest struct {
	Token string `cookie:"session"`
}

func (a *app) logout(ctx context.Context, req *logoutRequest) (*endpoint.Result, error) {
	if req.Token != "" {
		a.sessions.destroy(req.Token)
	}
	return endpoint.TextResult("text/plain", "",
		endpoint.Status(http.StatusNoContent),
		endpoint.SetCookie(&http.Cookie{
			Name:     sessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		}),
	), nil
}

// me returns the authenticated user. The handler hands back the full
// stored record; the declared Profile shape strips the password hash.
func (a *app) me(ctx context.Context, _ *endpoint.Void) (*User, error) {
	u, err := endpoint.Service[*User](ctx, "sessionUser")
	if err != nil {
		return nil, err
	}
	return u, nil
}

type getUserRequest struct {
	ID string `path:"id" required:"true"`
}

func (a *app) getUser(ctx context.Context, req *getUserRequest) (*User, error) {
	u, ok := a.users.get(req.ID)
	if !ok {
		return nil, endpoint.Error(http.StatusNotFound, "user not found")
	}
	return u, nil
}

type searchRequest struct {
	Q     string `query:"q" required:"true" minLength:"2"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"100"`
}

type searchResult struct {
	Query string `json:"query"`
	Users []User `json:"users"`
}

type searchPage struct {
	Query string    `json:"query"`
	Users []Profile `json:"users"`
}

func (a *app) search(ctx context.Context, req *searchRequest) (*searchResult, error) {
	return &searchResult{
		Query: req.Q,
		Users: a.users.search(req.Q, req.Limit),
	}, nil
}

// sessionUser resolves the session cookie to a stored user. Declared as
// a lazy service: it runs at most once per request, and only when a
// handler actually reads it.
func (a *app) sessionUser(w http.ResponseWriter, r *http.Request) (any, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, endpoint.Error(http.StatusUnauthorized, "authentication required")
	}
	userID, err := a.sessions.lookup(c.Value)
	if err != nil {
		return nil, endpoint.Error(http.StatusUnauthorized, "authentication required")
	}
	u, ok := a.users.get(userID)
	if !ok {
		return nil, endpoint.Error(http.StatusUnauthorized, "authentication required")
	}
	return u, nil
}

func newRouter(a *app, logger *slog.Logger, cfg config) *endpoint.Router {
	r := endpoint.New(
		endpoint.WithService("sessionUser", a.sessionUser),
	)

	r.Use(
		endpoint.Recovery(),
		endpoint.RequestID(),
		endpoint.Logger(logger),
		endpoint.RateLimit(endpoint.RateLimitConfig{Rate: cfg.RateLimit, Burst: cfg.RateBurst}),
		endpoint.CORS(),
	)

	endpoint.Post(r, "/login", a.login)
	endpoint.Post(r, "/logout", a.logout)
	endpoint.Get(r, "/me", a.me, endpoint.WithShape[Profile]())
	endpoint.Get(r, "/users/{id}", a.getUser, endpoint.WithShape[Profile]())
	endpoint.Get(r, "/search", a.search, endpoint.WithShape[searchPage]())

	web, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	r.Static("/static", web)
	endpoint.Raw(r, http.MethodGet, "/{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusFound)
	})

	return r
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("startup", "err", err)
		os.Exit(1)
	}

	seeds, err := loadSeeds(cfg.SeedFile)
	if err != nil {
		logger.Error("startup", "err", err)
		os.Exit(1)
	}

	users, err := newUserStore(seeds)
	if err != nil {
		logger.Error("startup", "err", err)
		os.Exit(1)
	}

	a := &app{
		users:      users,
		sessions:   newSessionStore(cfg.SessionTTL),
		sessionTTL: cfg.SessionTTL,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("listening", "addr", cfg.Addr)
	if err := newRouter(a, logger, cfg).ListenAndServe(ctx, cfg.Addr); err != nil && err != http.ErrServerClosed {
		logger.Error("server", "err", err)
		os.Exit(1)
	}
}
