package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
)

// ErrorOpts contains all options needed to render an error response.
// The struct keeps RenderError within the ≤3 parameters guideline.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is the error that occurred.
	Err error
	// Message overrides the user-facing message derived from Err.
	Message string
	// Renderer renders the browser error page; plain text is used when nil.
	Renderer *TemplateRenderer
}

// DetermineErrorStatus maps an application error to its HTTP status code.
// Errors without an AppError in the chain are internal errors.
func DetermineErrorStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.Canceled):
		// nginx convention for a client that went away.
		return 499
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotAuthenticated, apperrors.ErrCodeNoSession:
		return http.StatusUnauthorized
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeUnknownSection:
		return http.StatusNotFound
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeFetchFailed, apperrors.ErrCodeMutationFailed:
		return http.StatusBadGateway
	case apperrors.ErrCodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the JSON error code for err.
func errorCode(err error) string {
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return string(apperrors.ErrCodeInternal)
}

// userMessage returns a displayable message: the explicit override, the
// AppError message, or a generic French message.
func userMessage(err error, override string) string {
	if m := strings.TrimSpace(override); m != "" {
		return m
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Une erreur est survenue. Veuillez réessayer."
}

// RenderError writes an error using the response style the client expects:
// htmx requests get an error toast and no swap, browsers get the error page,
// API clients get a JSON body.
func RenderError(opts ErrorOpts) {
	status := DetermineErrorStatus(opts.Err)
	msg := userMessage(opts.Err, opts.Message)

	if IsHTMX(opts.R) {
		triggerToast(opts.W, msg, "error")
		HTMX(opts.W).NoSwap()
		return
	}

	if !IsBrowserRequest(opts.R) {
		WriteError(opts.W, ErrorParams{Code: status, ErrCode: errorCode(opts.Err), Err: errors.New(msg)})
		return
	}

	if opts.Renderer == nil {
		http.Error(opts.W, msg, status)
		return
	}
	data := ErrorPageData{
		Title:   "Erreur - " + appName,
		Code:    status,
		Message: msg,
	}
	if err := opts.Renderer.RenderError(opts.W, opts.R, data); err != nil {
		http.Error(opts.W, msg, status)
	}
}

// ErrorPageData is the data of the error-layout template.
type ErrorPageData struct {
	Title   string
	Code    int
	Message string
}

// triggerToast queues a single toast on the response.
func triggerToast(w http.ResponseWriter, message, level string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger(EventShowToast, []map[string]any{{
		"message":  message,
		"level":    strings.TrimSpace(level),
		"blocking": level == "error",
	}})
}
