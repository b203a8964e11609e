package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "canceled", err: fmt.Errorf("load: %w", context.Canceled), want: "canceled"},
		{name: "deadline", err: context.DeadlineExceeded, want: "timeout"},
		{name: "net timeout", err: fmt.Errorf("get: %w", timeoutErr{}), want: "timeout"},
		{name: "dial error", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: "network"},
		{name: "app error", err: apperrors.Forbidden("read only"), want: "forbidden"},
		{
			name: "nested app errors use innermost code",
			err:  apperrors.MutationFailed(apperrors.NoSession("missing"), "delete-user"),
			want: "no_session",
		},
		{name: "plain", err: errors.New("boom"), want: "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
