// Package errors derives low-cardinality error classes for metric tags.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
)

// Classify returns a short error class for tagging metrics and logs.
// Context errors map to "canceled" / "timeout", network errors to "network",
// AppErrors to their innermost code. Anything else is named after its
// innermost concrete type in snake case.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network"
	}
	if code := innermostCode(err); code != "" {
		return string(code)
	}
	return typeName(innermost(err))
}

// innermostCode walks the chain and returns the last AppError code seen.
func innermostCode(err error) apperrors.ErrorCode {
	var code apperrors.ErrorCode
	for e := err; e != nil; e = goerrors.Unwrap(e) {
		if ae, ok := e.(*apperrors.AppError); ok && ae.Code != "" {
			code = ae.Code
		}
	}
	return code
}

func innermost(err error) error {
	for {
		next := goerrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.String() == "" {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
}
