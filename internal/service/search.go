package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
)

// SearchLimit caps the matches returned per record type.
const SearchLimit = 10

// SearchResults groups the records matching a query.
type SearchResults struct {
	Query    string
	Users    []dashboard.User
	Coaches  []dashboard.Coach
	Analyses []dashboard.Analysis
	Tickets  []dashboard.Ticket
}

// Total returns the number of matches across all groups.
func (s SearchResults) Total() int {
	return len(s.Users) + len(s.Coaches) + len(s.Analyses) + len(s.Tickets)
}

var searchKinds = []dashboard.ResourceKind{
	dashboard.ResourceUsers,
	dashboard.ResourceCoaches,
	dashboard.ResourceAnalyses,
	dashboard.ResourceSupport,
}

// Search matches q against the cached users, coaches, analyses and tickets,
// ignoring case. Resources not cached yet are loaded first. An empty query
// matches nothing.
func Search(ctx context.Context, r *Router, q string) SearchResults {
	res := SearchResults{Query: strings.TrimSpace(q)}
	if res.Query == "" {
		return res
	}

	payloads := make([]any, len(searchKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range searchKinds {
		g.Go(func() error {
			payloads[i] = r.Resource(gctx, kind)
			return nil
		})
	}
	_ = g.Wait()

	users, _ := payloads[0].([]dashboard.User)
	coaches, _ := payloads[1].([]dashboard.Coach)
	analyses, _ := payloads[2].([]dashboard.Analysis)
	support, _ := payloads[3].(dashboard.Support)

	res.Users = matching(users, func(u dashboard.User) bool {
		return render.ContainsFold(res.Query, u.Name, u.Email, u.Role)
	})
	res.Coaches = matching(coaches, func(c dashboard.Coach) bool {
		return render.ContainsFold(res.Query, c.Name, c.Email, c.Plan)
	})
	res.Analyses = matching(analyses, func(a dashboard.Analysis) bool {
		return render.ContainsFold(res.Query, a.ID.String(), a.UserName, a.Type, a.Status)
	})
	res.Tickets = matching(support.Tickets, func(t dashboard.Ticket) bool {
		return render.ContainsFold(res.Query, t.ID.String(), t.User, t.Subject)
	})
	return res
}

func matching[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
			if len(out) == SearchLimit {
				break
			}
		}
	}
	return out
}

// ViewUser renders the detail panel of a cached user.
func ViewUser(ctx context.Context, r *Router, id dashboard.RecordID) (render.Detail, error) {
	users, _ := r.Resource(ctx, dashboard.ResourceUsers).([]dashboard.User)
	for _, u := range users {
		if u.ID.Equal(id) {
			return render.UserDetail(u), nil
		}
	}
	return render.Detail{}, apperrors.NotFound(MsgUserNotFound)
}

// ViewAnalysis renders the detail panel of a cached analysis.
func ViewAnalysis(ctx context.Context, r *Router, id dashboard.RecordID) (render.Detail, error) {
	analyses, _ := r.Resource(ctx, dashboard.ResourceAnalyses).([]dashboard.Analysis)
	for _, a := range analyses {
		if a.ID.Equal(id) {
			return render.AnalysisDetail(a), nil
		}
	}
	return render.Detail{}, apperrors.NotFound(MsgAnalysisNotFound)
}
