package viewmodel

import (
	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
)

// IdentityView is the signed-in admin shown in the header.
type IdentityView struct {
	Name      string
	Email     string
	Role      string
	RoleLabel string
	Initials  string
	ReadOnly  bool
}

// NewIdentityView projects a session into its header presentation.
func NewIdentityView(s domainauth.Session) IdentityView {
	return IdentityView{
		Name:      s.Identity().DisplayName(),
		Email:     s.Email,
		Role:      string(s.Role),
		RoleLabel: s.Role.Label(),
		Initials:  domainauth.Initials(s.Name, s.Email),
		ReadOnly:  !s.Role.CanMutate(),
	}
}

// NavItem is one sidebar link.
type NavItem struct {
	ID     string
	Title  string
	Icon   string
	URL    string
	Active bool
}

// navIcons are the sidebar icons of each section.
//
//nolint:gochecknoglobals // static read-only lookup
var navIcons = map[dashboard.SectionID]string{
	dashboard.SectionOverview:     "📊",
	dashboard.SectionAnalytics:    "📈",
	dashboard.SectionUsers:        "👥",
	dashboard.SectionCoaches:      "🎓",
	dashboard.SectionAnalyses:     "🎯",
	dashboard.SectionPricingB2C:   "💰",
	dashboard.SectionPricingCoach: "💼",
	dashboard.SectionRevenue:      "💶",
	dashboard.SectionSupport:      "🎧",
	dashboard.SectionGDPR:         "🔒",
	dashboard.SectionAudit:        "📋",
	dashboard.SectionSettings:     "⚙️",
	dashboard.SectionRoles:        "🛡️",
}

// Navigation returns the sidebar in registry order with current marked active.
func Navigation(current dashboard.SectionID) []NavItem {
	ids := dashboard.Sections()
	items := make([]NavItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, NavItem{
			ID:     id.String(),
			Title:  id.Title(),
			Icon:   navIcons[id],
			URL:    "/dashboard/" + id.String(),
			Active: id == current,
		})
	}
	return items
}

// Layout captures shared chrome metadata (titles, navigation state, identity).
type Layout struct {
	Title          string
	PageTitle      string
	CurrentSection string
	CSRFToken      string
	User           *IdentityView
	Nav            []NavItem
	// Toasts is the JSON list of notifications shown once the page loads.
	Toasts string
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
