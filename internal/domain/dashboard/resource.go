package dashboard

import "strings"

// ResourceKind names a backend resource read by the dashboard.
type ResourceKind string

const (
	ResourceStats        ResourceKind = "stats"
	ResourceUsers        ResourceKind = "users"
	ResourceCoaches      ResourceKind = "coaches"
	ResourceAnalyses     ResourceKind = "analyses"
	ResourceAnalytics    ResourceKind = "analytics"
	ResourcePricingB2C   ResourceKind = "pricing-b2c"
	ResourcePricingCoach ResourceKind = "pricing-coach"
	ResourceRevenue      ResourceKind = "revenue"
	ResourceSupport      ResourceKind = "support"
	ResourceGDPR         ResourceKind = "gdpr"
	ResourceAudit        ResourceKind = "audit"
	ResourceSettings     ResourceKind = "settings"
	ResourceRoles        ResourceKind = "roles"
)

// APIPrefix is the path prefix of every admin endpoint on the backend.
const APIPrefix = "/api/admin"

var resourcePaths = map[ResourceKind]string{
	ResourceStats:        APIPrefix + "/stats",
	ResourceUsers:        APIPrefix + "/users",
	ResourceCoaches:      APIPrefix + "/coaches",
	ResourceAnalyses:     APIPrefix + "/analyses",
	ResourceAnalytics:    APIPrefix + "/analytics",
	ResourcePricingB2C:   APIPrefix + "/pricing/b2c",
	ResourcePricingCoach: APIPrefix + "/pricing/coach",
	ResourceRevenue:      APIPrefix + "/revenue",
	ResourceSupport:      APIPrefix + "/support",
	ResourceGDPR:         APIPrefix + "/gdpr",
	ResourceAudit:        APIPrefix + "/audit",
	ResourceSettings:     APIPrefix + "/settings",
	ResourceRoles:        APIPrefix + "/roles",
}

// Resources returns every resource kind in a stable order.
func Resources() []ResourceKind {
	return []ResourceKind{
		ResourceStats,
		ResourceUsers,
		ResourceCoaches,
		ResourceAnalyses,
		ResourceAnalytics,
		ResourcePricingB2C,
		ResourcePricingCoach,
		ResourceRevenue,
		ResourceSupport,
		ResourceGDPR,
		ResourceAudit,
		ResourceSettings,
		ResourceRoles,
	}
}

// ParseResource resolves a raw kind name, ignoring case and surrounding space.
func ParseResource(raw string) (ResourceKind, bool) {
	k := ResourceKind(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := resourcePaths[k]; !ok {
		return "", false
	}
	return k, true
}

// DefaultPath is the backend path of the resource, or "" when unknown.
func (k ResourceKind) DefaultPath() string { return resourcePaths[k] }

func (k ResourceKind) String() string { return string(k) }

// MutationOp names a write operation on the backend.
type MutationOp string

const (
	OpToggleAdmin   MutationOp = "toggle-admin"
	OpDeleteUser    MutationOp = "delete-user"
	OpManageCredits MutationOp = "manage-credits"
	OpChangePlan    MutationOp = "change-plan"
	OpWhiteLabel    MutationOp = "white-label"
	OpReportAnomaly MutationOp = "report-anomaly"
)

var mutationPaths = map[MutationOp]string{
	OpToggleAdmin:   APIPrefix + "/users/toggle-admin",
	OpDeleteUser:    APIPrefix + "/users/delete",
	OpManageCredits: APIPrefix + "/coaches/credits",
	OpChangePlan:    APIPrefix + "/coaches/plan",
	OpWhiteLabel:    APIPrefix + "/coaches/white-label",
	OpReportAnomaly: APIPrefix + "/analyses/report",
}

// Path is the backend path the operation posts to, or "" when unknown.
func (op MutationOp) Path() string { return mutationPaths[op] }

func (op MutationOp) String() string { return string(op) }
