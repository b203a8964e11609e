package render

import (
	"strconv"
	"strings"
	"time"
)

var frenchMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate parses the date formats the backend emits. Zone-less values are UTC.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw as "15 déc. 2024", or "-" when empty or unparseable.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return "-"
	}
	return t.Format("02") + " " + frenchMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// FormatNumber renders v without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatCurrency renders an amount in euros: 87400€.
func FormatCurrency(v float64) string { return FormatNumber(v) + "€" }

// FormatMonthlyPrice renders a plan price: 19€/mois.
func FormatMonthlyPrice(v float64) string { return FormatCurrency(v) + "/mois" }

// FormatPercent renders a rate: 68.2%.
func FormatPercent(v float64) string { return FormatNumber(v) + "%" }

// FormatDuration renders seconds as "12s", or "-s" when unknown.
func FormatDuration(seconds *int) string {
	if seconds == nil || *seconds == 0 {
		return "-s"
	}
	return strconv.Itoa(*seconds) + "s"
}

// FormatGrowth renders a trend: ↑ 24%.
func FormatGrowth(v float64) string { return "↑ " + FormatPercent(v) }

// PriorityBadge maps a ticket priority.
func PriorityBadge(priority string) *Badge {
	class := BadgePending
	if priority == "Haute" {
		class = BadgeSuspended
	}
	return &Badge{Class: class, Label: priority}
}

// TicketStatusBadge maps a ticket status.
func TicketStatusBadge(status string) *Badge {
	class := BadgeInactive
	switch status {
	case "Ouvert":
		class = BadgePending
	case "En cours":
		class = BadgeActive
	}
	return &Badge{Class: class, Label: status}
}

// GDPRStatusBadge maps a GDPR request status.
func GDPRStatusBadge(status string) *Badge {
	class := BadgeActive
	if status == "En attente" {
		class = BadgePending
	}
	return &Badge{Class: class, Label: status}
}

// PlanBadge maps a plan's active flag.
func PlanBadge(active bool) *Badge {
	if active {
		return &Badge{Class: BadgeActive, Label: "Actif"}
	}
	return &Badge{Class: BadgeInactive, Label: "Inactif"}
}

// StatusBadge renders a raw record status as its own class.
func StatusBadge(status string, dot bool) *Badge {
	return &Badge{Class: cssToken(status), Label: status, Dot: dot}
}

// CoachPlan returns the coach plan name, "Free" when unset.
func CoachPlan(plan string) string {
	if strings.TrimSpace(plan) == "" {
		return "Free"
	}
	return plan
}

// cssToken keeps a status usable as a class suffix.
func cssToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
