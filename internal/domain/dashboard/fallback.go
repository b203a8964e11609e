package dashboard

// Fallback datasets are served whenever a backend read fails. Each call
// returns a fresh value so callers may mutate what they receive.

const (
	fallbackAdmin = "admin@ai-ikigai.com"
	fallbackIP    = "192.168.1.1"
)

func FallbackStats() Stats {
	return Stats{TotalUsers: 1247, TotalAnalyses: 3892, MonthlyRevenue: 87400, ConversionRate: 68.2}
}

func FallbackUsers() []User {
	return []User{
		{ID: NumericID(1), Name: "Marie Dupont", Email: "marie.dupont@email.com", Role: "client", AnalysesCount: 3, CreatedAt: "2024-11-15", Status: "active"},
		{ID: NumericID(2), Name: "Jean Martin", Email: "jean.martin@email.com", Role: "client", AnalysesCount: 1, CreatedAt: "2024-12-01", Status: "active"},
	}
}

func FallbackCoaches() []Coach {
	return []Coach{
		{
			ID:               NumericID(1),
			Name:             "Sophie Bernard",
			Email:            "sophie@coach.com",
			ClientsCount:     24,
			CreditsUsed:      53,
			CreditsTotal:     100,
			CreditsRemaining: 47,
			Plan:             "Pro",
			RenewalDate:      "2025-01-15",
		},
	}
}

func FallbackAnalyses() []Analysis {
	duration := 12
	return []Analysis{
		{ID: NumericID(1), UserName: "Marie Dupont", Type: "B2C", CreatedAt: "2024-12-15T10:30:00Z", Duration: &duration, Status: "completed"},
		{ID: NumericID(2), UserName: "Jean Martin", Type: "Coach", CreatedAt: "2024-12-15T09:15:00Z", Status: "failed", HasError: true},
	}
}

func FallbackAnalytics() Analytics {
	return Analytics{
		TotalRevenue: 87400,
		MRR:          12500,
		ActiveUsers:  1247,
		ChurnRate:    3.2,
		TopFeatures: []FeatureUsage{
			{Name: "Analyse Ikigai", Count: 3892, Growth: 24},
			{Name: "Upload CV", Count: 2156, Growth: 18},
			{Name: "Dashboard", Count: 1847, Growth: 12},
			{Name: "Profil", Count: 1234, Growth: 8},
		},
	}
}

func FallbackPricingB2C() PricingB2C {
	return PricingB2C{Plans: []PricingPlan{
		{Name: "Gratuit", Price: 0, Analyses: "1", Features: []string{"1 analyse", "Résultats basiques"}, Active: true},
		{Name: "Premium", Price: 19, Analyses: "5", Features: []string{"5 analyses", "Résultats détaillés", "Support email"}},
		{Name: "Pro", Price: 49, Analyses: "Illimité", Features: []string{"Analyses illimitées", "Résultats avancés", "Support prioritaire"}},
	}}
}

func FallbackPricingCoach() PricingCoach {
	return PricingCoach{Plans: []PricingPlan{
		{Name: "Starter", Price: 99, Credits: 50, Features: []string{"50 crédits/mois", "Dashboard coach", "Support email"}, Active: true},
		{Name: "Pro", Price: 249, Credits: 150, Features: []string{"150 crédits/mois", "Marque blanche", "Support prioritaire"}, Active: true},
		{Name: "Enterprise", Price: 499, Credits: 500, Features: []string{"500 crédits/mois", "API access", "Support dédié"}, Active: true},
	}}
}

func FallbackSupport() Support {
	return Support{Tickets: []Ticket{
		{ID: NumericID(1), User: "Marie Dupont", Subject: "Problème de paiement", Priority: "Haute", Status: "Ouvert", Date: "2024-12-15T10:30:00Z"},
		{ID: NumericID(2), User: "Jean Martin", Subject: "Question sur l'analyse", Priority: "Normale", Status: "En cours", Date: "2024-12-14T14:20:00Z"},
		{ID: NumericID(3), User: "Sophie Bernard", Subject: "Demande de remboursement", Priority: "Haute", Status: "Résolu", Date: "2024-12-13T09:15:00Z"},
	}}
}

func FallbackGDPR() GDPR {
	return GDPR{
		TotalRequests:     12,
		PendingRequests:   3,
		ProcessedRequests: 9,
		Requests: []GDPRRequest{
			{Type: "Export de données", User: "user@example.com", Date: "2024-12-15T10:00:00Z", Status: "En attente"},
			{Type: "Suppression de compte", User: "autre@example.com", Date: "2024-12-14T15:30:00Z", Status: "En attente"},
			{Type: "Export de données", User: "test@example.com", Date: "2024-12-13T11:20:00Z", Status: "Traité"},
		},
	}
}

func FallbackAudit() Audit {
	return Audit{Logs: []AuditLogEntry{
		{Date: "2024-12-15T10:30:00Z", Admin: fallbackAdmin, Action: "Modification utilisateur", Target: "user#1234", IP: fallbackIP},
		{Date: "2024-12-15T09:15:00Z", Admin: fallbackAdmin, Action: "Création plan", Target: "plan#premium", IP: fallbackIP},
		{Date: "2024-12-14T16:45:00Z", Admin: fallbackAdmin, Action: "Suppression ticket", Target: "ticket#567", IP: fallbackIP},
	}}
}

func FallbackRevenue() Revenue {
	return Revenue{
		TotalRevenue: 87400,
		MRR:          12500,
		ThisMonth:    15800,
		Growth:       32,
		Transactions: []Transaction{
			{Date: "2024-12-15T10:00:00Z", Type: "Abonnement Premium", Client: "Marie Dupont", Amount: 19},
			{Date: "2024-12-14T15:30:00Z", Type: "Abonnement Pro", Client: "Jean Martin", Amount: 49},
			{Date: "2024-12-13T11:20:00Z", Type: "Abonnement Coach Pro", Client: "Sophie Bernard", Amount: 249},
		},
	}
}

func FallbackSettings() Settings {
	return Settings{
		AppName:      "AI-Ikigai",
		ContactEmail: "contact@ai-ikigai.com",
		SiteURL:      "https://ai-ikigai.com",
		StripeKey:    "sk_test_*********************",
		ClaudeKey:    "sk-ant-*********************",
	}
}

func FallbackRoles() Roles {
	return Roles{Roles: []Role{
		{Name: "Super Admin", UserCount: 1, Permissions: []string{"Tout", "Gestion utilisateurs", "Gestion revenus", "Configuration"}},
		{Name: "Admin", UserCount: 3, Permissions: []string{"Gestion utilisateurs", "Support", "Analyses"}},
		{Name: "Support", UserCount: 5, Permissions: []string{"Support", "Lecture analyses"}},
	}}
}

// Fallback returns the fallback payload for kind, typed as the value
// Decode(kind) produces. Unknown kinds yield nil.
func Fallback(kind ResourceKind) any {
	switch kind {
	case ResourceStats:
		return FallbackStats()
	case ResourceUsers:
		return FallbackUsers()
	case ResourceCoaches:
		return FallbackCoaches()
	case ResourceAnalyses:
		return FallbackAnalyses()
	case ResourceAnalytics:
		return FallbackAnalytics()
	case ResourcePricingB2C:
		return FallbackPricingB2C()
	case ResourcePricingCoach:
		return FallbackPricingCoach()
	case ResourceRevenue:
		return FallbackRevenue()
	case ResourceSupport:
		return FallbackSupport()
	case ResourceGDPR:
		return FallbackGDPR()
	case ResourceAudit:
		return FallbackAudit()
	case ResourceSettings:
		return FallbackSettings()
	case ResourceRoles:
		return FallbackRoles()
	default:
		return nil
	}
}
