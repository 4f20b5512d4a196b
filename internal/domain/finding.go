package domain

// Severity represents the importance level of a finding or risk factor
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the known severity levels
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Finding represents a single issue discovered during due-diligence analysis
type Finding struct {
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Impact      string   `json:"impact,omitempty"`
	DataPoints  []string `json:"data_points,omitempty"`
	Source      string   `json:"source,omitempty"`
}

// IsDealBreaker returns true if the finding alone could block the deal
func (f *Finding) IsDealBreaker() bool {
	return f.Severity == SeverityCritical
}

// RiskFactor represents an identified risk with probability and impact
type RiskFactor struct {
	FactorID      string   `json:"factor_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Severity      Severity `json:"severity"`
	Probability   float64  `json:"probability"`
	ImpactScore   float64  `json:"impact_score"`
	IsDealBreaker bool     `json:"is_deal_breaker"`
	Mitigation    string   `json:"mitigation,omitempty"`
}

// RiskScore calculates the risk score as probability x impact
func (r *RiskFactor) RiskScore() float64 {
	return r.Probability * r.ImpactScore
}

// RiskFactorFromFinding derives a risk factor from a finding using the
// severity to probability/impact mapping shared by all domain agents.
func RiskFactorFromFinding(id string, f Finding) RiskFactor {
	var prob, impact float64
	switch f.Severity {
	case SeverityCritical:
		prob, impact = 0.9, 0.95
	case SeverityHigh:
		prob, impact = 0.7, 0.8
	case SeverityLow:
		prob, impact = 0.3, 0.3
	default:
		prob, impact = 0.5, 0.5
	}
	return RiskFactor{
		FactorID:      id,
		Name:          f.Title,
		Description:   f.Description,
		Severity:      f.Severity,
		Probability:   prob,
		ImpactScore:   impact,
		IsDealBreaker: f.IsDealBreaker(),
	}
}
