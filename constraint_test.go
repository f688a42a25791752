package endpoint_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmallory/endpoint"
)

func TestConstraint_body_tags(t *testing.T) {
	t.Parallel()

	type Req struct {
		Name  string   `json:"name" required:"true" minLength:"3" maxLength:"10"`
		Email string   `json:"email" pattern:"^[^@]+@[^@]+$"`
		Role  string   `json:"role" enum:"admin,editor,viewer"`
		Age   int      `json:"age" minimum:"18" maximum:"130"`
		Tags  []string `json:"tags" minItems:"1" maxItems:"3"`
	}

	r := endpoint.New()
	endpoint.Post(r, "/users", func(_ context.Context, _ *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	valid := `{"name":"ada","email":"ada@example.com","role":"admin","age":30,"tags":["a"]}`

	tests := map[string]struct {
		body     string
		wantCode int
		wantText string
	}{
		"valid": {
			body:     valid,
			wantCode: http.StatusNoContent,
		},
		"required": {
			body:     `{"email":"a@b","role":"admin","age":30,"tags":["a"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "name is required",
		},
		"minLength": {
			body:     `{"name":"ab","email":"a@b","role":"admin","age":30,"tags":["a"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "name must be at least 3 characters",
		},
		"maxLength": {
			body:     `{"name":"abcdefghijk","email":"a@b","role":"admin","age":30,"tags":["a"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "name must be at most 10 characters",
		},
		"pattern": {
			body:     `{"name":"ada","email":"not-an-email","role":"admin","age":30,"tags":["a"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "email must match pattern ^[^@]+@[^@]+$",
		},
		"enum": {
			body:     `{"name":"ada","email":"a@b","role":"owner","age":30,"tags":["a"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "role must be one of [admin,editor,viewer]",
		},
		"minimum": {
			body:     `{"name":"ada","email":"a@b","role":"admin","age":12,"tags":["a"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "age must be at least 18",
		},
		"maximum": {
			body:     `{"name":"ada","email":"a@b","role":"admin","age":200,"tags":["a"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "age must be at most 130",
		},
		"minItems": {
			body:     `{"name":"ada","email":"a@b","role":"admin","age":30,"tags":[]}`,
			wantCode: http.StatusBadRequest,
			wantText: "tags must have at least 1 items",
		},
		"maxItems": {
			body:     `{"name":"ada","email":"a@b","role":"admin","age":30,"tags":["a","b","c","d"]}`,
			wantCode: http.StatusBadRequest,
			wantText: "tags must have at most 3 items",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, srv.URL+"/users", tc.body)
			defer func() { require.NoError(t, resp.Body.Close()) }()

			assert.Equal(t, tc.wantCode, resp.StatusCode)

			if tc.wantText != "" {
				raw, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tc.wantText, strings.TrimSpace(string(raw)))
			}
		})
	}
}

func TestConstraint_first_violation_only(t *testing.T) {
	t.Parallel()

	type Req struct {
		First  string `json:"first" required:"true"`
		Second string `json:"second" required:"true"`
	}

	r := endpoint.New()
	endpoint.Post(r, "/pair", func(_ context.Context, _ *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	// Both fields violate; only the first, in declaration order, is reported.
	resp := doRequest(t, http.MethodPost, srv.URL+"/pair", `{}`)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := strings.TrimSpace(string(raw))
	assert.Equal(t, "first is required", text)
	assert.NotContains(t, text, "second")
}

func TestConstraint_nested_body_path(t *testing.T) {
	t.Parallel()

	type Req struct {
		Body struct {
			Owner struct {
				Name string `json:"name" required:"true"`
			} `json:"owner"`
		}
	}

	r := endpoint.New()
	endpoint.Post(r, "/nested", func(_ context.Context, _ *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/nested", `{"owner":{}}`)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "body.owner.name is required", strings.TrimSpace(string(raw)))
}

func TestConstraint_optional_params_skip_value_checks_when_absent(t *testing.T) {
	t.Parallel()

	type Req struct {
		Page int    `query:"page" minimum:"1"`
		Sort string `query:"sort" enum:"asc,desc"`
		Tag  string `query:"tag" required:"true" minLength:"2"`
	}

	r := endpoint.New()
	endpoint.Get(r, "/list", func(_ context.Context, _ *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	tests := map[string]struct {
		query    string
		wantCode int
		wantText string
	}{
		"absent optionals are not violations": {
			query:    "tag=go",
			wantCode: http.StatusNoContent,
		},
		"supplied zero still checked": {
			query:    "tag=go&page=0",
			wantCode: http.StatusBadRequest,
			wantText: "page must be at least 1",
		},
		"supplied enum still checked": {
			query:    "tag=go&sort=sideways",
			wantCode: http.StatusBadRequest,
			wantText: "sort must be one of [asc,desc]",
		},
		"required fires on absence": {
			query:    "page=2",
			wantCode: http.StatusBadRequest,
			wantText: "tag is required",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, http.MethodGet, srv.URL+"/list?"+tc.query, "")
			defer func() { require.NoError(t, resp.Body.Close()) }()

			assert.Equal(t, tc.wantCode, resp.StatusCode)
			if tc.wantText != "" {
				raw, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tc.wantText, strings.TrimSpace(string(raw)))
			}
		})
	}
}

func TestConstraint_param_wire_names(t *testing.T) {
	t.Parallel()

	type Req struct {
		PageSize int `query:"page_size" minimum:"1" maximum:"100"`
	}

	r := endpoint.New()
	endpoint.Get(r, "/list", func(_ context.Context, _ *Req) (*endpoint.Void, error) {
		return nil, nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/list?page_size=500", "")
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "page_size must be at most 100", strings.TrimSpace(string(raw)))
}
