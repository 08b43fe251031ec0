package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-laptop-shop/internal/fault"
)

func TestWriteErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fault.New(fault.CodeValidation, "bad input"), http.StatusBadRequest, "VALIDATION"},
		{fault.New(fault.CodeNotFound, "missing"), http.StatusNotFound, "NOT_FOUND"},
		{fault.New(fault.CodeForbidden, "nope"), http.StatusForbidden, "FORBIDDEN"},
		{fault.New(fault.CodeInsufficientStock, "short"), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{fault.New(fault.CodeInvalidTransition, "frozen"), http.StatusConflict, "INVALID_TRANSITION"},
		{errors.New("db exploded"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		writeError(rec, req, c.err)

		assert.Equal(t, c.status, rec.Code, c.code)
		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, fault.Code(c.code), body.Code)
		if c.code == "INTERNAL" {
			// Internals never leak the underlying error text.
			assert.Equal(t, "server error", body.Message)
		}
	}
}
