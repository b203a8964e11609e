package render

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
)

// RecentAnalysesLimit is the number of analyses listed on the overview.
const RecentAnalysesLimit = 5

const dashboardPath = "/dashboard"

func recordURL(collection string, id dashboard.RecordID, suffix string) string {
	u := dashboardPath + "/" + collection + "/" + url.PathEscape(id.String())
	if suffix != "" {
		u += "/" + suffix
	}
	return u
}

func newView(id dashboard.SectionID, icon string) View {
	return View{Section: id, Title: id.Title(), CardTitle: id.Title(), Icon: icon, ScrollTop: true}
}

func text(s string) Cell { return Cell{Text: s} }

func strong(s string) Cell { return Cell{Text: s, Strong: true} }

func badge(b *Badge) Cell { return Cell{Text: b.Label, Badge: b} }

func itoa(n int) string { return strconv.Itoa(n) }

// Overview renders the KPI tiles and the most recent analyses.
func Overview(stats dashboard.Stats, analyses []dashboard.Analysis) View {
	v := newView(dashboard.SectionOverview, "📊")
	v.Stats = []StatCard{
		{ID: "stat-users", Icon: "👥", Value: itoa(stats.TotalUsers), Label: "Utilisateurs Totaux"},
		{ID: "stat-analyses", Icon: "🎯", Value: itoa(stats.TotalAnalyses), Label: "Analyses Réalisées"},
		{ID: "stat-revenue", Icon: "💰", Value: FormatCurrency(stats.MonthlyRevenue), Label: "Revenus Mensuels"},
		{ID: "stat-conversion", Icon: "📈", Value: FormatPercent(stats.ConversionRate), Label: "Taux de Conversion"},
	}
	recent := RecentAnalyses(analyses, RecentAnalysesLimit)
	v.Tables = []Table{analysesTable("Analyses Récentes", recent)}
	return v
}

// RecentAnalyses returns up to limit analyses, newest first. Undated
// analyses sort last in their original order.
func RecentAnalyses(analyses []dashboard.Analysis, limit int) []dashboard.Analysis {
	out := slices.Clone(analyses)
	slices.SortStableFunc(out, func(a, b dashboard.Analysis) int {
		ta, okA := ParseDate(a.CreatedAt)
		tb, okB := ParseDate(b.CreatedAt)
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterUsers applies the search and status filters.
func FilterUsers(users []dashboard.User, f Filter) []dashboard.User {
	out := make([]dashboard.User, 0, len(users))
	for _, u := range users {
		if !ContainsFold(f.Search, u.Name, u.Email) {
			continue
		}
		if !matchChoice(userStatusChoices, f.Status, u.Status) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// ToggleAdminPrompt is the confirmation shown before changing a user's admin role.
func ToggleAdminPrompt(u dashboard.User) string {
	verb := "donner"
	if u.IsAdmin() {
		verb = "retirer"
	}
	return fmt.Sprintf("Voulez-vous %s les droits admin à %s ?", verb, u.Email)
}

// DeleteUserPrompt is the confirmation shown before deleting a user.
const DeleteUserPrompt = "⚠️ Êtes-vous sûr de vouloir supprimer cet utilisateur ?"

// LogoutPrompt is the confirmation shown before signing out.
const LogoutPrompt = "Voulez-vous vraiment vous déconnecter ?"

func userActions(u dashboard.User) []Action {
	return []Action{
		{Name: "view-user", Icon: "👁️", Label: "Voir", Method: MethodGet, URL: recordURL("users", u.ID, "")},
		{
			Name: dashboard.OpToggleAdmin.String(), Icon: "✏️", Label: "Éditer", Method: MethodPost,
			URL: recordURL("users", u.ID, "toggle-admin"), Confirm: ToggleAdminPrompt(u), Mutating: true,
		},
		{
			Name: dashboard.OpDeleteUser.String(), Icon: "🗑️", Label: "Supprimer", Method: MethodPost,
			URL: recordURL("users", u.ID, "delete"), Confirm: DeleteUserPrompt, Mutating: true,
		},
	}
}

// Users renders the user management table.
func Users(users []dashboard.User, f Filter) View {
	v := newView(dashboard.SectionUsers, "👥")
	v.HeaderActions = []Action{{
		Name: "export-users", Icon: "📥", Label: "Exporter", Method: MethodGet,
		URL: dashboardPath + "/users/export.csv", Download: true,
	}}
	v.Filters = []FilterDef{
		searchDef(f.Search),
		selectDef(ParamStatus, "Tous les statuts", f.Status, userStatusChoices),
	}
	rows := make([]Row, 0, len(users))
	for _, u := range FilterUsers(users, f) {
		rows = append(rows, Row{
			ID: u.ID.String(),
			Cells: []Cell{
				text(u.Name),
				text(u.Email),
				text(u.Role),
				text(itoa(u.AnalysesCount)),
				text(FormatDate(u.CreatedAt)),
				badge(StatusBadge(u.Status, true)),
			},
			Actions: userActions(u),
		})
	}
	v.Tables = []Table{{
		Headers: []string{"Utilisateur", "Email", "Rôle", "Analyses", "Inscription", "Statut", "Actions"},
		Rows:    rows,
		Empty:   "Aucun utilisateur",
	}}
	return v
}

// WhiteLabelPrompt is the confirmation shown before switching white label.
func WhiteLabelPrompt(c dashboard.Coach) string {
	if c.WhiteLabel {
		return fmt.Sprintf("Désactiver la marque blanche pour %s ?", c.Name)
	}
	return fmt.Sprintf("Activer la marque blanche pour %s ?", c.Name)
}

func coachActions(c dashboard.Coach, plans dashboard.Pricing) []Action {
	planPrompt := fmt.Sprintf("Nouveau plan pour %s", c.Name)
	if names := plans.PlanNames(); len(names) > 0 {
		planPrompt += " (" + strings.Join(names, ", ") + ")"
	}
	return []Action{
		{
			Name: dashboard.OpManageCredits.String(), Icon: "⚡", Label: "Gérer crédits", Method: MethodPost,
			URL:    recordURL("coaches", c.ID, "credits"),
			Prompt: fmt.Sprintf("Nombre de crédits à ajouter pour %s", c.Name), Mutating: true,
		},
		{
			Name: dashboard.OpChangePlan.String(), Icon: "💳", Label: "Changer plan", Method: MethodPost,
			URL: recordURL("coaches", c.ID, "plan"), Prompt: planPrompt, Mutating: true,
		},
		{
			Name: dashboard.OpWhiteLabel.String(), Icon: "🎨", Label: "Marque blanche", Method: MethodPost,
			URL: recordURL("coaches", c.ID, "white-label"), Confirm: WhiteLabelPrompt(c),
			Values: map[string]string{"enabled": strconv.FormatBool(!c.WhiteLabel)}, Mutating: true,
		},
	}
}

// Coaches renders the coach management table. plans feeds the change plan prompt.
func Coaches(coaches []dashboard.Coach, plans dashboard.Pricing) View {
	v := newView(dashboard.SectionCoaches, "🎓")
	rows := make([]Row, 0, len(coaches))
	for _, c := range coaches {
		rows = append(rows, Row{
			ID: c.ID.String(),
			Cells: []Cell{
				text(c.Name),
				text(itoa(c.ClientsCount)),
				text(itoa(c.CreditsUsed) + " / " + itoa(c.CreditsTotal)),
				text(itoa(c.CreditsRemaining)),
				badge(&Badge{Class: BadgeActive, Label: CoachPlan(c.Plan)}),
				text(FormatDate(c.RenewalDate)),
			},
			Actions: coachActions(c, plans),
		})
	}
	v.Tables = []Table{{
		Headers: []string{"Coach", "Clients", "Analyses", "Crédits", "Plan", "Renouvellement", "Actions"},
		Rows:    rows,
		Empty:   "Aucun coach",
	}}
	return v
}

// FilterAnalyses applies the period, type and status filters.
func FilterAnalyses(analyses []dashboard.Analysis, f Filter) []dashboard.Analysis {
	out := make([]dashboard.Analysis, 0, len(analyses))
	for _, a := range analyses {
		if !matchPeriod(f.Period, a.CreatedAt, f.Now) ||
			!matchChoice(analysisTypeChoices, f.Type, a.Type) ||
			!matchChoice(analysisStatusChoices, f.Status, a.Status) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ReportAnomalyPrompt is the confirmation shown before reporting an analysis.
func ReportAnomalyPrompt(a dashboard.Analysis) string {
	return fmt.Sprintf("⚠️ Signaler une anomalie pour l'analyse #%s ?", a.ID)
}

func analysisActions(a dashboard.Analysis) []Action {
	actions := []Action{
		{Name: "view-analysis", Icon: "👁️", Label: "Voir détails", Method: MethodGet, URL: recordURL("analyses", a.ID, "")},
	}
	if a.HasError {
		actions = append(actions, Action{
			Name: dashboard.OpReportAnomaly.String(), Icon: "⚠️", Label: "Signaler", Method: MethodPost,
			URL: recordURL("analyses", a.ID, "report"), Confirm: ReportAnomalyPrompt(a), Mutating: true,
		})
	}
	return actions
}

func analysesTable(title string, analyses []dashboard.Analysis) Table {
	rows := make([]Row, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, Row{
			ID: a.ID.String(),
			Cells: []Cell{
				text("#" + a.ID.String()),
				text(a.UserName),
				text(a.Type),
				text(FormatDate(a.CreatedAt)),
				text(FormatDuration(a.Duration)),
				badge(StatusBadge(a.Status, false)),
			},
			Actions: analysisActions(a),
		})
	}
	return Table{
		Title:   title,
		Headers: []string{"ID", "Utilisateur", "Type", "Date", "Durée", "Statut", "Actions"},
		Rows:    rows,
		Empty:   "Aucune analyse",
	}
}

// Analyses renders the ikigai analyses table.
func Analyses(analyses []dashboard.Analysis, f Filter) View {
	v := newView(dashboard.SectionAnalyses, "🎯")
	v.Filters = []FilterDef{
		selectDef(ParamPeriod, "Toutes les dates", f.Period, analysisPeriodChoices),
		selectDef(ParamType, "Tous les types", f.Type, analysisTypeChoices),
		selectDef(ParamStatus, "Tous les statuts", f.Status, analysisStatusChoices),
	}
	v.Tables = []Table{analysesTable("", FilterAnalyses(analyses, f))}
	return v
}

// Analytics renders the business analytics aggregates.
func Analytics(a dashboard.Analytics) View {
	v := newView(dashboard.SectionAnalytics, "📈")
	v.Stats = []StatCard{
		{Value: FormatCurrency(a.TotalRevenue), Label: "Revenus Totaux"},
		{Value: FormatCurrency(a.MRR), Label: "MRR"},
		{Value: itoa(a.ActiveUsers), Label: "Utilisateurs Actifs"},
		{Value: FormatPercent(a.ChurnRate), Label: "Taux de Churn"},
	}
	rows := make([]Row, 0, len(a.TopFeatures))
	for _, f := range a.TopFeatures {
		rows = append(rows, Row{Cells: []Cell{
			text(f.Name),
			text(itoa(f.Count)),
			{Text: FormatGrowth(f.Growth), Trend: true},
		}})
	}
	v.Tables = []Table{{Title: "Top Fonctionnalités", Headers: []string{"Fonctionnalité", "Utilisations", "Tendance"}, Rows: rows}}
	return v
}

func pricingView(id dashboard.SectionID, icon, quantityHeader string, p dashboard.Pricing, quantity func(dashboard.PricingPlan) string) View {
	v := newView(id, icon)
	rows := make([]Row, 0, len(p.Plans))
	for _, plan := range p.Plans {
		rows = append(rows, Row{
			ID: plan.Name,
			Cells: []Cell{
				strong(plan.Name),
				text(FormatMonthlyPrice(plan.Price)),
				text(quantity(plan)),
				text(strings.Join(plan.Features, ", ")),
				badge(PlanBadge(plan.Active)),
			},
		})
	}
	v.Tables = []Table{{Headers: []string{"Plan", "Prix", quantityHeader, "Fonctionnalités", "Statut"}, Rows: rows, Empty: "Aucun plan"}}
	return v
}

// PricingB2C renders the consumer plan catalogue.
func PricingB2C(p dashboard.PricingB2C) View {
	return pricingView(dashboard.SectionPricingB2C, "💳", "Analyses Incluses", p, func(plan dashboard.PricingPlan) string {
		return string(plan.Analyses)
	})
}

// PricingCoach renders the coach plan catalogue.
func PricingCoach(p dashboard.PricingCoach) View {
	return pricingView(dashboard.SectionPricingCoach, "💰", "Crédits/mois", p, func(plan dashboard.PricingPlan) string {
		return itoa(plan.Credits)
	})
}

// Revenue renders the revenue aggregates and recent transactions.
func Revenue(r dashboard.Revenue) View {
	v := newView(dashboard.SectionRevenue, "💵")
	v.Stats = []StatCard{
		{Value: FormatCurrency(r.TotalRevenue), Label: "Revenus Totaux"},
		{Value: FormatCurrency(r.MRR), Label: "MRR"},
		{Value: FormatCurrency(r.ThisMonth), Label: "Ce Mois"},
		{Value: FormatPercent(r.Growth), Label: "Croissance"},
	}
	rows := make([]Row, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		rows = append(rows, Row{Cells: []Cell{
			text(FormatDate(t.Date)),
			text(t.Type),
			text(t.Client),
			text(FormatCurrency(t.Amount)),
			badge(&Badge{Class: BadgeActive, Label: "Payé"}),
		}})
	}
	v.Tables = []Table{{Headers: []string{"Date", "Type", "Client", "Montant", "Statut"}, Rows: rows, Empty: "Aucune transaction"}}
	return v
}

// FilterTickets applies the status filter.
func FilterTickets(tickets []dashboard.Ticket, f Filter) []dashboard.Ticket {
	out := make([]dashboard.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if matchChoice(ticketStatusChoices, f.Status, t.Status) {
			out = append(out, t)
		}
	}
	return out
}

// Support renders the support ticket queue.
func Support(s dashboard.Support, f Filter) View {
	v := newView(dashboard.SectionSupport, "🎧")
	v.Filters = []FilterDef{selectDef(ParamStatus, "Tous les statuts", f.Status, ticketStatusChoices)}
	tickets := FilterTickets(s.Tickets, f)
	rows := make([]Row, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, Row{
			ID: t.ID.String(),
			Cells: []Cell{
				text("#" + t.ID.String()),
				text(t.User),
				text(t.Subject),
				badge(PriorityBadge(t.Priority)),
				badge(TicketStatusBadge(t.Status)),
				text(FormatDate(t.Date)),
			},
		})
	}
	v.Tables = []Table{{Headers: []string{"ID", "Utilisateur", "Sujet", "Priorité", "Statut", "Date"}, Rows: rows, Empty: "Aucun ticket"}}
	return v
}

// GDPR renders the data protection request counters and queue.
func GDPR(g dashboard.GDPR) View {
	v := newView(dashboard.SectionGDPR, "🔒")
	v.CardTitle = "GDPR - Conformité"
	v.Stats = []StatCard{
		{Value: itoa(g.TotalRequests), Label: "Demandes Totales"},
		{Value: itoa(g.PendingRequests), Label: "En Attente"},
		{Value: itoa(g.ProcessedRequests), Label: "Traitées"},
	}
	rows := make([]Row, 0, len(g.Requests))
	for _, r := range g.Requests {
		rows = append(rows, Row{Cells: []Cell{
			text(r.Type),
			text(r.User),
			text(FormatDate(r.Date)),
			badge(GDPRStatusBadge(r.Status)),
		}})
	}
	v.Tables = []Table{{Headers: []string{"Type", "Utilisateur", "Date Demande", "Statut"}, Rows: rows, Empty: "Aucune demande"}}
	return v
}

// FilterAudit applies the action and admin filters.
func FilterAudit(logs []dashboard.AuditLogEntry, f Filter) []dashboard.AuditLogEntry {
	out := make([]dashboard.AuditLogEntry, 0, len(logs))
	for _, l := range logs {
		if !matchAuditAction(f.Action, l.Action) {
			continue
		}
		if selected(f.Admin) && !strings.EqualFold(l.Admin, f.Admin) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Audit renders the admin audit trail.
func Audit(a dashboard.Audit, f Filter) View {
	v := newView(dashboard.SectionAudit, "📝")
	admins := make([]string, 0, len(a.Logs))
	for _, l := range a.Logs {
		admins = append(admins, l.Admin)
	}
	v.Filters = []FilterDef{
		selectDef(ParamAction, "Toutes les actions", f.Action, auditActionChoices),
		selectDef(ParamAdmin, "Tous les admins", f.Admin, adminChoices(admins)),
	}
	logs := FilterAudit(a.Logs, f)
	rows := make([]Row, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, Row{Cells: []Cell{
			text(FormatDate(l.Date)),
			text(l.Admin),
			badge(&Badge{Class: BadgeActive, Label: l.Action}),
			text(l.Target),
			text(l.IP),
		}})
	}
	v.Tables = []Table{{Headers: []string{"Date/Heure", "Admin", "Action", "Cible", "IP"}, Rows: rows, Empty: "Aucune entrée"}}
	return v
}

// Settings renders the application settings as read-only form groups.
func Settings(s dashboard.Settings) View {
	v := newView(dashboard.SectionSettings, "⚙️")
	v.Forms = []FieldGroup{
		{Title: "Configuration Générale", Fields: []Field{
			{Name: "appName", Label: "Nom de l'Application", Type: "text", Value: s.AppName},
			{Name: "contactEmail", Label: "Email de Contact", Type: "email", Value: s.ContactEmail},
			{Name: "siteUrl", Label: "URL du Site", Type: "url", Value: s.SiteURL},
		}},
		{Title: "Intégrations", Fields: []Field{
			{Name: "stripeKey", Label: "Clé API Stripe", Type: "password", Value: s.StripeKey},
			{Name: "claudeKey", Label: "Clé API Claude", Type: "password", Value: s.ClaudeKey},
		}},
	}
	return v
}

// Roles renders the role catalogue.
func Roles(r dashboard.Roles) View {
	v := newView(dashboard.SectionRoles, "🔑")
	rows := make([]Row, 0, len(r.Roles))
	for _, role := range r.Roles {
		rows = append(rows, Row{
			ID:    role.Name,
			Cells: []Cell{strong(role.Name), text(itoa(role.UserCount)), text(strings.Join(role.Permissions, ", "))},
		})
	}
	v.Tables = []Table{{Headers: []string{"Rôle", "Utilisateurs", "Permissions"}, Rows: rows, Empty: "Aucun rôle"}}
	return v
}

// UserDetail renders the detail panel of a user.
func UserDetail(u dashboard.User) Detail {
	return Detail{
		Title: cmp.Or(u.Name, u.Email),
		Entries: []DetailEntry{
			{Label: "ID", Value: u.ID.String()},
			{Label: "Email", Value: u.Email},
			{Label: "Rôle", Value: u.Role},
			{Label: "Analyses", Value: itoa(u.AnalysesCount)},
			{Label: "Inscription", Value: FormatDate(u.CreatedAt)},
			{Label: "Statut", Value: u.Status, Badge: StatusBadge(u.Status, true)},
		},
		Actions: userActions(u)[1:],
	}
}

// AnalysisDetail renders the detail panel of an analysis.
func AnalysisDetail(a dashboard.Analysis) Detail {
	entries := []DetailEntry{
		{Label: "ID", Value: "#" + a.ID.String()},
		{Label: "Utilisateur", Value: a.UserName},
		{Label: "Type", Value: a.Type},
		{Label: "Date", Value: FormatDate(a.CreatedAt)},
		{Label: "Durée", Value: FormatDuration(a.Duration)},
		{Label: "Statut", Value: a.Status, Badge: StatusBadge(a.Status, false)},
	}
	if a.HasError {
		entries = append(entries, DetailEntry{Label: "Anomalie", Value: "Erreur détectée", Badge: &Badge{Class: BadgeFailed, Label: "Erreur"}})
	}
	return Detail{
		Title:   "Analyse #" + a.ID.String(),
		Entries: entries,
		Actions: analysisActions(a)[1:],
	}
}
