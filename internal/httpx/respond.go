package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ariefcatur/go-laptop-shop/internal/fault"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    fault.Code `json:"code"`
	Message string     `json:"message"`
}

// writeError maps the domain error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500 with a generic body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := fault.CodeOf(err)
	if !ok {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError,
			errorBody{Code: "INTERNAL", Message: "server error"})
		return
	}
	status := http.StatusInternalServerError
	switch code {
	case fault.CodeValidation:
		status = http.StatusBadRequest
	case fault.CodeNotFound:
		status = http.StatusNotFound
	case fault.CodeForbidden:
		status = http.StatusForbidden
	case fault.CodeInsufficientStock, fault.CodeInvalidTransition:
		status = http.StatusConflict
	}
	writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}
