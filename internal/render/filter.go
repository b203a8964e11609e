package render

import (
	"net/url"
	"slices"
	"strings"
	"time"
)

// FilterAll selects every record.
const FilterAll = "all"

// Filter holds the filters bar selection. Empty fields mean FilterAll.
// Now anchors the analyses period filter.
type Filter struct {
	Search string
	Status string
	Period string
	Type   string
	Action string
	Admin  string
	Now    time.Time
}

// Query parameter names of the filters bar.
const (
	ParamSearch = "q"
	ParamStatus = "status"
	ParamPeriod = "period"
	ParamType   = "type"
	ParamAction = "action"
	ParamAdmin  = "admin"
)

// FilterFromQuery reads a Filter from request query values.
func FilterFromQuery(q url.Values, now time.Time) Filter {
	return Filter{
		Search: strings.TrimSpace(q.Get(ParamSearch)),
		Status: normalizeChoice(q.Get(ParamStatus)),
		Period: normalizeChoice(q.Get(ParamPeriod)),
		Type:   normalizeChoice(q.Get(ParamType)),
		Action: normalizeChoice(q.Get(ParamAction)),
		Admin:  strings.TrimSpace(q.Get(ParamAdmin)),
		Now:    now,
	}
}

func normalizeChoice(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func selected(v string) bool { return v != "" && v != FilterAll }

// choice pairs a select value with its label and the record values it matches.
type choice struct {
	value   string
	label   string
	matches []string
}

func (c choice) accepts(raw string) bool {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, c.value) {
		return true
	}
	for _, m := range c.matches {
		if strings.EqualFold(raw, m) {
			return true
		}
	}
	return false
}

var (
	userStatusChoices = []choice{
		{value: "active", label: "Actifs"},
		{value: "inactive", label: "Inactifs"},
		{value: "suspended", label: "Suspendus"},
	}
	analysisPeriodChoices = []choice{
		{value: "today", label: "Aujourd'hui"},
		{value: "week", label: "Cette semaine"},
		{value: "month", label: "Ce mois"},
	}
	analysisTypeChoices = []choice{
		{value: "b2c", label: "B2C"},
		{value: "coach", label: "Coach"},
		{value: "enterprise", label: "Entreprise", matches: []string{"Entreprise"}},
	}
	analysisStatusChoices = []choice{
		{value: "completed", label: "Complété"},
		{value: "pending", label: "En cours"},
		{value: "failed", label: "Échoué"},
	}
	ticketStatusChoices = []choice{
		{value: "open", label: "Ouvert", matches: []string{"Ouvert"}},
		{value: "in-progress", label: "En cours", matches: []string{"En cours"}},
		{value: "resolved", label: "Résolu", matches: []string{"Résolu"}},
	}
	auditActionChoices = []choice{
		{value: "create", label: "Création"},
		{value: "update", label: "Modification"},
		{value: "delete", label: "Suppression"},
	}
)

func findChoice(choices []choice, value string) (choice, bool) {
	for _, c := range choices {
		if c.value == value {
			return c, true
		}
	}
	return choice{}, false
}

// matchChoice reports whether raw passes the selected value. Unknown
// selections match nothing.
func matchChoice(choices []choice, value, raw string) bool {
	if !selected(value) {
		return true
	}
	c, ok := findChoice(choices, value)
	return ok && c.accepts(raw)
}

// matchAuditAction matches the leading verb of entries like "Création plan".
func matchAuditAction(value, action string) bool {
	if !selected(value) {
		return true
	}
	c, ok := findChoice(auditActionChoices, value)
	if !ok {
		return false
	}
	lower := strings.ToLower(action)
	return strings.HasPrefix(lower, strings.ToLower(c.label)) || strings.Contains(lower, c.value)
}

// matchPeriod reports whether raw falls in the selected period relative to now.
func matchPeriod(value, raw string, now time.Time) bool {
	if !selected(value) {
		return true
	}
	t, ok := ParseDate(raw)
	if !ok || now.IsZero() {
		return false
	}
	now = now.UTC()
	switch value {
	case "today":
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case "week":
		return !t.After(now) && now.Sub(t) < 7*24*time.Hour
	case "month":
		return t.Year() == now.Year() && t.Month() == now.Month()
	default:
		return false
	}
}

// ContainsFold reports whether any of fields contains q, ignoring case.
func ContainsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func selectDef(name, allLabel, value string, choices []choice) FilterDef {
	if !selected(value) {
		value = FilterAll
	}
	opts := make([]FilterOption, 0, len(choices)+1)
	opts = append(opts, FilterOption{Value: FilterAll, Label: allLabel, Selected: value == FilterAll})
	for _, c := range choices {
		opts = append(opts, FilterOption{Value: c.value, Label: c.label, Selected: c.value == value})
	}
	return FilterDef{Name: name, Kind: FilterSelect, Value: value, Options: opts}
}

func searchDef(value string) FilterDef {
	return FilterDef{Name: ParamSearch, Kind: FilterSearch, Placeholder: "Rechercher...", Value: value}
}

// adminChoices builds one option per distinct admin, sorted.
func adminChoices(admins []string) []choice {
	distinct := make([]string, 0, len(admins))
	for _, a := range admins {
		if a != "" && !slices.Contains(distinct, a) {
			distinct = append(distinct, a)
		}
	}
	slices.Sort(distinct)
	out := make([]choice, 0, len(distinct))
	for _, a := range distinct {
		out = append(out, choice{value: a, label: a})
	}
	return out
}
