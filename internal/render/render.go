package render

import (
	"fmt"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	apperrors "github.com/ai-ikigai/admin-dashboard/internal/errors"
)

// Data holds the payloads a section renders from, keyed by resource kind.
type Data map[dashboard.ResourceKind]any

func pick[T any](data Data, kind dashboard.ResourceKind) (T, error) {
	v, ok := data[kind].(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("render: payload for %s is %T, want %T", kind, data[kind], zero)
	}
	return v, nil
}

// Section renders id from data. It fails when a payload the section needs
// is missing or has the wrong type.
func Section(id dashboard.SectionID, data Data, f Filter) (View, error) {
	switch id {
	case dashboard.SectionOverview:
		stats, err := pick[dashboard.Stats](data, dashboard.ResourceStats)
		if err != nil {
			return View{}, err
		}
		analyses, err := pick[[]dashboard.Analysis](data, dashboard.ResourceAnalyses)
		if err != nil {
			return View{}, err
		}
		return Overview(stats, analyses), nil
	case dashboard.SectionUsers:
		return apply(data, dashboard.ResourceUsers, func(v []dashboard.User) View { return Users(v, f) })
	case dashboard.SectionCoaches:
		coaches, err := pick[[]dashboard.Coach](data, dashboard.ResourceCoaches)
		if err != nil {
			return View{}, err
		}
		// The plan list only feeds prompts; a missing catalogue is not fatal.
		plans, _ := data[dashboard.ResourcePricingCoach].(dashboard.Pricing)
		return Coaches(coaches, plans), nil
	case dashboard.SectionAnalyses:
		return apply(data, dashboard.ResourceAnalyses, func(v []dashboard.Analysis) View { return Analyses(v, f) })
	case dashboard.SectionAnalytics:
		return apply(data, dashboard.ResourceAnalytics, Analytics)
	case dashboard.SectionPricingB2C:
		return apply(data, dashboard.ResourcePricingB2C, PricingB2C)
	case dashboard.SectionPricingCoach:
		return apply(data, dashboard.ResourcePricingCoach, PricingCoach)
	case dashboard.SectionRevenue:
		return apply(data, dashboard.ResourceRevenue, Revenue)
	case dashboard.SectionSupport:
		return apply(data, dashboard.ResourceSupport, func(v dashboard.Support) View { return Support(v, f) })
	case dashboard.SectionGDPR:
		return apply(data, dashboard.ResourceGDPR, GDPR)
	case dashboard.SectionAudit:
		return apply(data, dashboard.ResourceAudit, func(v dashboard.Audit) View { return Audit(v, f) })
	case dashboard.SectionSettings:
		return apply(data, dashboard.ResourceSettings, Settings)
	case dashboard.SectionRoles:
		return apply(data, dashboard.ResourceRoles, Roles)
	default:
		return View{}, apperrors.UnknownSection(string(id))
	}
}

func apply[T any](data Data, kind dashboard.ResourceKind, fn func(T) View) (View, error) {
	v, err := pick[T](data, kind)
	if err != nil {
		return View{}, err
	}
	return fn(v), nil
}
