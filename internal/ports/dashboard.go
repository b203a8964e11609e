package ports

import (
	"context"
	"encoding/json"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
)

// Mutation is a write request against the backend admin API.
type Mutation struct {
	Op      dashboard.MutationOp
	Payload any
}

// ResourceAPI is the remote backend holding every dashboard record.
// token is the bearer credential of the current session.
type ResourceAPI interface {
	Fetch(ctx context.Context, kind dashboard.ResourceKind, token string) (json.RawMessage, error)
	Mutate(ctx context.Context, m Mutation, token string) error
}
