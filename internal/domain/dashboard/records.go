// Package dashboard holds the resource records, section identifiers and
// fallback datasets of the admin dashboard. It is pure and free of transport.
package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// RecordID identifies a backend record. The backend emits numeric ids for
// legacy rows and string ids for newer ones. A RecordID remembers the form it
// was decoded from and is encoded back in that form.
type RecordID struct {
	value   string
	numeric bool
}

// TextID returns the string id s.
func TextID(s string) RecordID { return RecordID{value: s} }

// NumericID returns the numeric id n.
func NumericID(n int64) RecordID {
	return RecordID{value: strconv.FormatInt(n, 10), numeric: true}
}

// UnmarshalJSON accepts a JSON string or number.
func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = RecordID{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TextID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("record id must be a string or a number")
	}
	*id = RecordID{value: n.String(), numeric: true}
	return nil
}

// MarshalJSON writes the id in the form it was decoded from.
func (id RecordID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// IsNumeric reports whether the id was a JSON number.
func (id RecordID) IsNumeric() bool { return id.numeric }

// IsZero reports whether the id is empty.
func (id RecordID) IsZero() bool { return id.value == "" }

// Equal compares ids by their text, so a path segment "1" matches the number 1.
func (id RecordID) Equal(other RecordID) bool { return id.value == other.value }

func (id RecordID) String() string { return id.value }

// Quantity is a plan allowance that is either a count or a label such as "Illimité".
type Quantity string

// UnmarshalJSON accepts a JSON string or number.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	var id RecordID
	if err := id.UnmarshalJSON(b); err != nil {
		return errors.New("quantity must be a string or a number")
	}
	*q = Quantity(id.value)
	return nil
}

// MarshalJSON writes canonical integers as numbers and everything else as a string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(q)); err == nil && strconv.Itoa(n) == string(q) {
		return []byte(q), nil
	}
	return json.Marshal(string(q))
}

// Stats are the overview KPIs.
type Stats struct {
	TotalUsers     int     `json:"totalUsers"`
	TotalAnalyses  int     `json:"totalAnalyses"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	ConversionRate float64 `json:"conversionRate"`
}

// User is an end-user account of the platform.
type User struct {
	ID            RecordID `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	AnalysesCount int      `json:"analysesCount"`
	CreatedAt     string   `json:"createdAt"`
	Status        string   `json:"status"`
}

// IsAdmin reports whether the user currently holds the admin role.
func (u User) IsAdmin() bool { return u.Role == "admin" }

// Coach is a professional account that buys analysis credits.
type Coach struct {
	ID               RecordID `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	ClientsCount     int      `json:"clientsCount"`
	CreditsUsed      int      `json:"creditsUsed"`
	CreditsTotal     int      `json:"creditsTotal"`
	CreditsRemaining int      `json:"creditsRemaining"`
	Plan             string   `json:"plan"`
	RenewalDate      string   `json:"renewalDate"`
	WhiteLabel       bool     `json:"whiteLabel,omitempty"`
}

// Analysis is one ikigai analysis run. Duration is nil while pending or after a failure.
type Analysis struct {
	ID        RecordID `json:"id"`
	UserName  string   `json:"userName"`
	Type      string   `json:"type"`
	CreatedAt string   `json:"createdAt"`
	Duration  *int     `json:"duration"`
	Status    string   `json:"status"`
	HasError  bool     `json:"hasError"`
}

// FeatureUsage is one row of the analytics top features table.
type FeatureUsage struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Growth float64 `json:"growth"`
}

// Analytics are the business analytics aggregates.
type Analytics struct {
	TotalRevenue float64        `json:"totalRevenue"`
	MRR          float64        `json:"mrr"`
	ActiveUsers  int            `json:"activeUsers"`
	ChurnRate    float64        `json:"churnRate"`
	TopFeatures  []FeatureUsage `json:"topFeatures"`
}

// PricingPlan is a B2C or coach subscription plan.
// B2C plans carry Analyses; coach plans carry Credits.
type PricingPlan struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Analyses Quantity `json:"analyses,omitempty"`
	Credits  int      `json:"credits,omitempty"`
	Features []string `json:"features"`
	Active   bool     `json:"active"`
}

// Pricing is a plan catalogue.
type Pricing struct {
	Plans []PricingPlan `json:"plans"`
}

// PlanNames returns the plan names in catalogue order.
func (p Pricing) PlanNames() []string {
	names := make([]string, 0, len(p.Plans))
	for _, plan := range p.Plans {
		names = append(names, plan.Name)
	}
	return names
}

// HasPlan reports whether name matches a plan, ignoring case.
func (p Pricing) HasPlan(name string) bool {
	for _, plan := range p.Plans {
		if strings.EqualFold(plan.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Ticket is a customer support ticket.
type Ticket struct {
	ID       RecordID `json:"id"`
	User     string   `json:"user"`
	Subject  string   `json:"subject"`
	Priority string   `json:"priority"`
	Status   string   `json:"status"`
	Date     string   `json:"date"`
}

// Support is the support ticket queue.
type Support struct {
	Tickets []Ticket `json:"tickets"`
}

// GDPRRequest is a data subject request.
type GDPRRequest struct {
	Type   string `json:"type"`
	User   string `json:"user"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// GDPR aggregates data subject requests.
type GDPR struct {
	TotalRequests     int           `json:"totalRequests"`
	PendingRequests   int           `json:"pendingRequests"`
	ProcessedRequests int           `json:"processedRequests"`
	Requests          []GDPRRequest `json:"requests"`
}

// AuditLogEntry records one administrative action.
type AuditLogEntry struct {
	Date   string `json:"date"`
	Admin  string `json:"admin"`
	Action string `json:"action"`
	Target string `json:"target"`
	IP     string `json:"ip"`
}

// Audit is the audit log.
type Audit struct {
	Logs []AuditLogEntry `json:"logs"`
}

// Transaction is one paid subscription event.
type Transaction struct {
	Date   string  `json:"date"`
	Type   string  `json:"type"`
	Client string  `json:"client"`
	Amount float64 `json:"amount"`
}

// Revenue aggregates revenue KPIs and recent transactions.
type Revenue struct {
	TotalRevenue float64       `json:"totalRevenue"`
	MRR          float64       `json:"mrr"`
	ThisMonth    float64       `json:"thisMonth"`
	Growth       float64       `json:"growth"`
	Transactions []Transaction `json:"transactions"`
}

// Settings are the platform settings. API keys arrive masked.
type Settings struct {
	AppName      string `json:"appName"`
	ContactEmail string `json:"contactEmail"`
	SiteURL      string `json:"siteUrl"`
	StripeKey    string `json:"stripeKey"`
	ClaudeKey    string `json:"claudeKey"`
}

// Role is a back-office role and its permissions.
type Role struct {
	Name        string   `json:"name"`
	UserCount   int      `json:"userCount"`
	Permissions []string `json:"permissions"`
}

// Roles is the role catalogue.
type Roles struct {
	Roles []Role `json:"roles"`
}

// PricingB2C and PricingCoach share the plan catalogue shape.
type (
	PricingB2C   = Pricing
	PricingCoach = Pricing
)
