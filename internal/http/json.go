package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
)

// WriteJSON writes v as JSON with the given status. Dashboard payloads are
// per-session, so responses are never cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteError writes a JSON error body. Server errors carry only the status
// text so backend details do not reach the client.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	body := errorBody{Error: p.ErrCode, Message: http.StatusText(p.Code)}
	var appErr *apperrors.AppError
	switch {
	case p.Code >= http.StatusInternalServerError:
	case errors.As(p.Err, &appErr):
		body.Message = appErr.Message
		body.Field = appErr.Field
	case p.Err != nil:
		body.Message = p.Err.Error()
	}
	WriteJSON(w, p.Code, body)
}
