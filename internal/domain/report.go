package domain

import "time"

// Recommendation is the categorical go/no-go outcome of an analysis
type Recommendation string

const (
	RecommendGo          Recommendation = "GO"
	RecommendConditional Recommendation = "CONDITIONAL"
	RecommendCaution     Recommendation = "CAUTION"
	RecommendNoGo        Recommendation = "NO-GO"
)

// ScoringTableRow is one per-domain row of the executive scoring table
type ScoringTableRow struct {
	Domain      string   `json:"domain"`
	Agent       string   `json:"agent"`
	Score       int      `json:"score"`
	MaxScore    int      `json:"max_score"`
	RiskScore   float64  `json:"risk_score"`
	Status      string   `json:"status"`
	Color       string   `json:"color"`
	KeyFindings []string `json:"key_findings,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// OverallScore is the headline result consumed by the UI
type OverallScore struct {
	CompanyID           string         `json:"company_id"`
	CompanyName         string         `json:"company_name"`
	OverallHealthScore  int            `json:"overall_health_score"`
	OverallRiskScore    float64        `json:"overall_risk_score"`
	Recommendation      Recommendation `json:"recommendation"`
	RecommendationColor string         `json:"recommendation_color"`
	DomainsAnalyzed     int            `json:"domains_analyzed"`
}

// AggregatedRisk is the cross-domain risk assessment
type AggregatedRisk struct {
	OverallScore      float64            `json:"overall_score"`
	RiskLevel         RiskLevel          `json:"risk_level"`
	DealBreakers      []string           `json:"deal_breakers,omitempty"`
	KeyConcerns       []string           `json:"key_concerns,omitempty"`
	PositiveFactors   []string           `json:"positive_factors,omitempty"`
	DomainScores      map[string]float64 `json:"domain_scores"`
	HighestRiskDomain string             `json:"highest_risk_domain,omitempty"`
	LowestRiskDomain  string             `json:"lowest_risk_domain,omitempty"`
	PenaltyApplied    bool               `json:"deal_breaker_penalty_applied"`
	Confidence        float64            `json:"confidence"`
}

// DealReport is the complete output of one analysis run
type DealReport struct {
	Date    time.Time `json:"date"`
	Query   string    `json:"query"`
	Company Company   `json:"company"`

	Summary string                 `json:"summary"`
	Outputs map[string]AgentOutput `json:"agent_outputs"`

	ScoringTable []ScoringTableRow `json:"scoring_table"`
	Overall      OverallScore      `json:"overall"`
	Risk         AggregatedRisk    `json:"aggregated_risk"`

	NothingToNote bool   `json:"nothing_to_note,omitempty"`
	Model         string `json:"model,omitempty"`
}

// TotalFindings returns the number of findings across all domains
func (r *DealReport) TotalFindings() int {
	count := 0
	for _, out := range r.Outputs {
		count += len(out.Findings)
	}
	return count
}

// CriticalCount returns the number of critical findings across all domains
func (r *DealReport) CriticalCount() int {
	return r.countSeverity(SeverityCritical)
}

// HighCount returns the number of high severity findings across all domains
func (r *DealReport) HighCount() int {
	return r.countSeverity(SeverityHigh)
}

func (r *DealReport) countSeverity(s Severity) int {
	count := 0
	for _, out := range r.Outputs {
		for _, f := range out.Findings {
			if f.Severity == s {
				count++
			}
		}
	}
	return count
}

// HasDealBreakers returns true if any deal breaker was identified
func (r *DealReport) HasDealBreakers() bool {
	return len(r.Risk.DealBreakers) > 0
}

// HasFindings returns true if any domain reported findings
func (r *DealReport) HasFindings() bool {
	return r.TotalFindings() > 0
}
