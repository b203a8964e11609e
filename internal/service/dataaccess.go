package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/metrics"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/statsd"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
)

// DataAccessSupport carries the optional collaborators of DataAccess.
type DataAccessSupport struct {
	Extractor *Extractor
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// DataAccessOptions groups dependencies for DataAccess.
type DataAccessOptions struct {
	API      ports.ResourceAPI
	Sessions ports.SessionProvider
	Support  DataAccessSupport
}

// DataAccess reads dashboard resources from the backend on behalf of a
// session. Reads never fail: any error degrades to the fixed fallback
// dataset. Writes have no fallback.
type DataAccess struct {
	api       ports.ResourceAPI
	sessions  ports.SessionProvider
	extractor *Extractor
	metrics   statsd.Sink
	logger    *slog.Logger
}

// NewDataAccess constructs a DataAccess.
func NewDataAccess(opts DataAccessOptions) *DataAccess {
	if opts.API == nil || opts.Sessions == nil {
		panic("service: DataAccess requires a resource API and a session provider")
	}
	logger := opts.Support.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DataAccess{
		api:       opts.API,
		sessions:  opts.Sessions,
		extractor: opts.Support.Extractor,
		metrics:   opts.Support.Metrics,
		logger:    logger.With("component", "data_access"),
	}
}

// LoadResult is the outcome of one resource read. Data is always set; Err
// holds the cause when Data is the fallback.
type LoadResult struct {
	Kind dashboard.ResourceKind
	Data any
	Live bool
	Err  error
}

// Load reads kind for sessionID, falling back on any failure.
func (d *DataAccess) Load(ctx context.Context, sessionID string, kind dashboard.ResourceKind) LoadResult {
	start := time.Now()
	data, err := d.fetch(ctx, sessionID, kind)
	res := LoadResult{Kind: kind, Data: data, Live: err == nil}
	outcome := metrics.OutcomeLive
	if err != nil {
		res.Data = dashboard.Fallback(kind)
		res.Err = err
		outcome = metrics.OutcomeFallback
		if ctx.Err() != nil {
			d.logger.DebugContext(ctx, "resource fetch abandoned", "resource", string(kind), "error", err)
		} else {
			d.logger.WarnContext(ctx, "resource fetch failed, using fallback data", "resource", string(kind), "error", err)
		}
	}
	metrics.EmitFetch(d.metrics, metrics.FetchMetric{
		Resource: string(kind),
		Outcome:  outcome,
		Duration: time.Since(start),
		Err:      err,
	})
	return res
}

func (d *DataAccess) fetch(ctx context.Context, sessionID string, kind dashboard.ResourceKind) (any, error) {
	token, err := d.token(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	raw, err := d.api.Fetch(ctx, kind, token)
	if err != nil {
		return nil, apperrors.FetchFailed(err, string(kind))
	}
	raw, err = d.extractor.Apply(kind, raw)
	if err != nil {
		return nil, apperrors.FetchFailed(err, string(kind))
	}
	data, err := dashboard.Decode(kind, raw)
	if err != nil {
		return nil, apperrors.FetchFailed(err, string(kind))
	}
	return data, nil
}

// token resolves the bearer credential of the session, failing fast with NoSession.
func (d *DataAccess) token(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", apperrors.NoSession("no session")
	}
	sess, err := d.sessions.CurrentSession(ctx, sessionID)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeNoSession, "resolve session")
	}
	return sess.AccessToken, nil
}

// Mutate sends m with the session's credential. Any failure is MutationFailed.
func (d *DataAccess) Mutate(ctx context.Context, sessionID string, m ports.Mutation) error {
	token, err := d.token(ctx, sessionID)
	if err != nil {
		return apperrors.MutationFailed(err, string(m.Op))
	}
	if err := d.api.Mutate(ctx, m, token); err != nil {
		return apperrors.MutationFailed(err, string(m.Op))
	}
	return nil
}

func loadAs[T any](ctx context.Context, d *DataAccess, sessionID string, kind dashboard.ResourceKind) T {
	if v, ok := d.Load(ctx, sessionID, kind).Data.(T); ok {
		return v
	}
	v, _ := dashboard.Fallback(kind).(T)
	return v
}

func (d *DataAccess) LoadStats(ctx context.Context, sessionID string) dashboard.Stats {
	return loadAs[dashboard.Stats](ctx, d, sessionID, dashboard.ResourceStats)
}

func (d *DataAccess) LoadUsers(ctx context.Context, sessionID string) []dashboard.User {
	return loadAs[[]dashboard.User](ctx, d, sessionID, dashboard.ResourceUsers)
}

func (d *DataAccess) LoadCoaches(ctx context.Context, sessionID string) []dashboard.Coach {
	return loadAs[[]dashboard.Coach](ctx, d, sessionID, dashboard.ResourceCoaches)
}

func (d *DataAccess) LoadAnalyses(ctx context.Context, sessionID string) []dashboard.Analysis {
	return loadAs[[]dashboard.Analysis](ctx, d, sessionID, dashboard.ResourceAnalyses)
}

func (d *DataAccess) LoadAnalytics(ctx context.Context, sessionID string) dashboard.Analytics {
	return loadAs[dashboard.Analytics](ctx, d, sessionID, dashboard.ResourceAnalytics)
}

func (d *DataAccess) LoadPricingB2C(ctx context.Context, sessionID string) dashboard.PricingB2C {
	return loadAs[dashboard.PricingB2C](ctx, d, sessionID, dashboard.ResourcePricingB2C)
}

func (d *DataAccess) LoadPricingCoach(ctx context.Context, sessionID string) dashboard.PricingCoach {
	return loadAs[dashboard.PricingCoach](ctx, d, sessionID, dashboard.ResourcePricingCoach)
}

func (d *DataAccess) LoadRevenue(ctx context.Context, sessionID string) dashboard.Revenue {
	return loadAs[dashboard.Revenue](ctx, d, sessionID, dashboard.ResourceRevenue)
}

func (d *DataAccess) LoadSupport(ctx context.Context, sessionID string) dashboard.Support {
	return loadAs[dashboard.Support](ctx, d, sessionID, dashboard.ResourceSupport)
}

func (d *DataAccess) LoadGDPR(ctx context.Context, sessionID string) dashboard.GDPR {
	return loadAs[dashboard.GDPR](ctx, d, sessionID, dashboard.ResourceGDPR)
}

func (d *DataAccess) LoadAudit(ctx context.Context, sessionID string) dashboard.Audit {
	return loadAs[dashboard.Audit](ctx, d, sessionID, dashboard.ResourceAudit)
}

func (d *DataAccess) LoadSettings(ctx context.Context, sessionID string) dashboard.Settings {
	return loadAs[dashboard.Settings](ctx, d, sessionID, dashboard.ResourceSettings)
}

func (d *DataAccess) LoadRoles(ctx context.Context, sessionID string) dashboard.Roles {
	return loadAs[dashboard.Roles](ctx, d, sessionID, dashboard.ResourceRoles)
}
