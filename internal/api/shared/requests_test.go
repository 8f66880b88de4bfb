package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Kind     string `json:"kind"`
		Progress int    `json:"progress"`
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"kind":"document","progress":50}`))

		var p payload
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, "document", p.Kind)
		assert.Equal(t, 50, p.Progress)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"kind":`))

		var p payload
		assert.Error(t, DecodeJSON(req, &p))
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(""))

		var p payload
		assert.ErrorContains(t, DecodeJSON(req, &p), "EOF")
	})
}

// selfValidating exercises the Validate-method branch of ValidateRequest.
type selfValidating struct {
	fail bool
}

func (s *selfValidating) Validate() error {
	if s.fail {
		return errors.New("custom validation failed")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("struct tags pass", func(t *testing.T) {
		t.Parallel()
		in := struct {
			Kind string `validate:"required"`
		}{Kind: "document"}
		assert.NoError(t, ValidateRequest(&in))
	})

	t.Run("struct tags fail", func(t *testing.T) {
		t.Parallel()
		in := struct {
			Kind string `validate:"required"`
		}{}
		assert.Error(t, ValidateRequest(&in))
	})

	t.Run("custom Validate preferred over tags", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateRequest(&selfValidating{}))
		assert.ErrorContains(t, ValidateRequest(&selfValidating{fail: true}), "custom validation failed")
	})
}
