package endpoint_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmallory/endpoint"
)

func TestBind_param_sources(t *testing.T) {
	t.Parallel()

	type Req struct {
		ID      string        `path:"id"`
		Page    int           `query:"page"`
		Trace   string        `header:"X-Trace"`
		Session string        `cookie:"session"`
		Limit   int           `query:"limit" default:"25"`
		Wait    time.Duration `query:"wait"`
		Active  bool          `query:"active"`
		Score   float64       `query:"score"`
	}

	var got Req
	r := endpoint.New()
	endpoint.Get(r, "/things/{id}", func(_ context.Context, req *Req) (*endpoint.Void, error) {
		got = *req
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet,
		srv.URL+"/things/abc?page=2&wait=1500ms&active=true&score=9.5", nil)
	require.NoError(t, err)
	req.Header.Set("X-Trace", "trace-1")
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, "trace-1", got.Trace)
	assert.Equal(t, "tok", got.Session)
	assert.Equal(t, 25, got.Limit, "default applies when the parameter is absent")
	assert.Equal(t, 1500*time.Millisecond, got.Wait)
	assert.True(t, got.Active)
	assert.InDelta(t, 9.5, got.Score, 0.001)
}

func TestBind_coercion_failures(t *testing.T) {
	t.Parallel()

	type Req struct {
		Count int           `query:"count"`
		Ratio float64       `query:"ratio"`
		Flag  bool          `query:"flag"`
		Wait  time.Duration `query:"wait"`
	}

	r := endpoint.New()
	endpoint.Get(r, "/coerce", func(_ context.Context, _ *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	tests := map[string]struct {
		query    string
		wantText string
	}{
		"integer":  {query: "count=abc", wantText: "count must be an integer"},
		"float":    {query: "ratio=abc", wantText: "ratio must be a number"},
		"bool":     {query: "flag=perhaps", wantText: "flag must be a boolean"},
		"duration": {query: "wait=fast", wantText: "wait must be a duration"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, http.MethodGet, srv.URL+"/coerce?"+tc.query, "")
			defer func() { require.NoError(t, resp.Body.Close()) }()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.wantText, strings.TrimSpace(string(raw)))
		})
	}
}

func TestBind_body_field(t *testing.T) {
	t.Parallel()

	type Req struct {
		ID   string `path:"id"`
		Body struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}
	}
	type Resp struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	r := endpoint.New()
	endpoint.Post(r, "/things/{id}", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{ID: req.ID, Name: req.Body.Name, Count: req.Body.Count}, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/things/42", `{"name":"gizmo","count":7}`)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body Resp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, Resp{ID: "42", Name: "gizmo", Count: 7}, body)
}

func TestBind_body_only_struct(t *testing.T) {
	t.Parallel()

	type Req struct {
		Name string `json:"name"`
	}
	type Resp struct {
		Greeting string `json:"greeting"`
	}

	r := endpoint.New()
	endpoint.Post(r, "/greet", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{Greeting: "hello " + req.Name}, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/greet", `{"name":"ada"}`)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body Resp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "hello ada", body.Greeting)
}

func TestBind_malformed_body(t *testing.T) {
	t.Parallel()

	type Req struct {
		Name string `json:"name"`
	}

	r := endpoint.New()
	endpoint.Post(r, "/greet", func(_ context.Context, _ *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/greet", `{"name":`)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBind_empty_body_allowed(t *testing.T) {
	t.Parallel()

	type Req struct {
		Name string `json:"name"`
	}

	r := endpoint.New()
	endpoint.Post(r, "/greet", func(_ context.Context, req *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/greet", "")
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestBind_raw_request_injection(t *testing.T) {
	t.Parallel()

	type Req struct {
		endpoint.RawRequest

		ID string `path:"id"`
	}
	type Resp struct {
		UserAgent string `json:"user_agent"`
		ID        string `json:"id"`
	}

	r := endpoint.New()
	endpoint.Get(r, "/things/{id}", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{UserAgent: req.Request.UserAgent(), ID: req.ID}, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/things/9", nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "bind-test/1.0")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body Resp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bind-test/1.0", body.UserAgent)
	assert.Equal(t, "9", body.ID)
}

func TestBind_undeclared_categories_skipped(t *testing.T) {
	t.Parallel()

	type Req struct {
		Q string `query:"q"`
	}
	type Resp struct {
		Q string `json:"q"`
	}

	r := endpoint.New()
	endpoint.Post(r, "/search", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{Q: req.Q}, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	// A body is present but the shape declares no body; it is ignored,
	// not validated.
	resp := doRequest(t, http.MethodPost, srv.URL+"/search?q=go", `{"unexpected": true}`)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body Resp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "go", body.Q)
}
