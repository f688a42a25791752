package endpoint_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmallory/endpoint"
)

func TestError_constructors(t *testing.T) {
	t.Parallel()

	err := endpoint.Error(http.StatusNotFound, "user not found")

	var httpErr *endpoint.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "user not found", httpErr.Message)
	assert.Equal(t, "user not found", err.Error())
}

func TestErrorf_formats(t *testing.T) {
	t.Parallel()

	err := endpoint.Errorf(http.StatusConflict, "user %q already exists", "ada")
	assert.Equal(t, `user "ada" already exists`, err.Error())
	assert.Equal(t, http.StatusConflict, endpoint.ErrorStatus(err))
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"http error":       {err: endpoint.Error(http.StatusForbidden, "no"), want: http.StatusForbidden},
		"wrapped":          {err: fmt.Errorf("outer: %w", endpoint.Error(http.StatusGone, "gone")), want: http.StatusGone},
		"validation error": {err: &endpoint.ValidationError{Field: "id", Message: "is required"}, want: http.StatusBadRequest},
		"plain error":      {err: errors.New("anything"), want: http.StatusInternalServerError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, endpoint.ErrorStatus(tc.err))
		})
	}
}

func TestValidationError_message(t *testing.T) {
	t.Parallel()

	withField := &endpoint.ValidationError{Field: "body.name", Message: "is required"}
	assert.Equal(t, "body.name is required", withField.Error())

	bare := &endpoint.ValidationError{Message: "malformed body"}
	assert.Equal(t, "malformed body", bare.Error())
}
