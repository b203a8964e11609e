package dashboard

import "strings"

// SectionID names a dashboard section.
type SectionID string

const (
	SectionOverview     SectionID = "overview"
	SectionUsers        SectionID = "users"
	SectionCoaches      SectionID = "coaches"
	SectionAnalyses     SectionID = "ikigai-analyses"
	SectionPricingB2C   SectionID = "pricing-b2c"
	SectionPricingCoach SectionID = "pricing-coach"
	SectionAnalytics    SectionID = "analytics"
	SectionRevenue      SectionID = "revenue"
	SectionSupport      SectionID = "support"
	SectionGDPR         SectionID = "gdpr"
	SectionAudit        SectionID = "audit"
	SectionSettings     SectionID = "settings"
	SectionRoles        SectionID = "roles"
)

const (
	// DefaultSection is active when a dashboard state is created.
	DefaultSection = SectionOverview
	// DefaultTitle is used for any identifier without a title.
	DefaultTitle = "Admin Dashboard"
)

// sectionOrder is the sidebar order.
var sectionOrder = []SectionID{
	SectionOverview,
	SectionAnalytics,
	SectionUsers,
	SectionCoaches,
	SectionAnalyses,
	SectionPricingB2C,
	SectionPricingCoach,
	SectionRevenue,
	SectionSupport,
	SectionGDPR,
	SectionAudit,
	SectionSettings,
	SectionRoles,
}

var sectionTitles = map[SectionID]string{
	SectionOverview:     "Vue d'ensemble",
	SectionAnalytics:    "Analytique Business",
	SectionUsers:        "Gestion des Utilisateurs",
	SectionCoaches:      "Gestion des Coaches",
	SectionAnalyses:     "Analyses Ikigai",
	SectionPricingB2C:   "Tarification B2C",
	SectionPricingCoach: "Tarification Coach",
	SectionRevenue:      "Revenus",
	SectionSupport:      "Support Client",
	SectionGDPR:         "GDPR",
	SectionAudit:        "Logs d'Audit",
	SectionSettings:     "Paramètres",
	SectionRoles:        "Rôles & Permissions",
}

var sectionResources = map[SectionID][]ResourceKind{
	SectionOverview:     {ResourceStats, ResourceAnalyses},
	SectionAnalytics:    {ResourceAnalytics},
	SectionUsers:        {ResourceUsers},
	SectionCoaches:      {ResourceCoaches, ResourcePricingCoach},
	SectionAnalyses:     {ResourceAnalyses},
	SectionPricingB2C:   {ResourcePricingB2C},
	SectionPricingCoach: {ResourcePricingCoach},
	SectionRevenue:      {ResourceRevenue},
	SectionSupport:      {ResourceSupport},
	SectionGDPR:         {ResourceGDPR},
	SectionAudit:        {ResourceAudit},
	SectionSettings:     {ResourceSettings},
	SectionRoles:        {ResourceRoles},
}

// Sections returns every registered section in sidebar order.
func Sections() []SectionID {
	out := make([]SectionID, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// ParseSection resolves a raw identifier. The second result is false for unknown ids.
func ParseSection(raw string) (SectionID, bool) {
	id := SectionID(strings.TrimSpace(raw))
	if _, ok := sectionTitles[id]; !ok {
		return "", false
	}
	return id, true
}

// Valid reports whether s is a registered section.
func (s SectionID) Valid() bool {
	_, ok := sectionTitles[s]
	return ok
}

// Title returns the page title of the section, or DefaultTitle when unknown.
func (s SectionID) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return DefaultTitle
}

// Resources lists the resource kinds a section reads.
func (s SectionID) Resources() []ResourceKind {
	kinds := sectionResources[s]
	out := make([]ResourceKind, len(kinds))
	copy(out, kinds)
	return out
}

// ContainerID is the DOM id of the section container.
func (s SectionID) ContainerID() string { return "section-" + string(s) }

func (s SectionID) String() string { return string(s) }
