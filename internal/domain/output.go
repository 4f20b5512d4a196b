package domain

import "time"

// RiskLevel classifies a numeric risk score
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevelForScore converts a 0-1 risk score into a risk level
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score < 0.3:
		return RiskLow
	case score < 0.5:
		return RiskMedium
	case score < 0.7:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// DataQuality tags how reliable the underlying documents were
type DataQuality string

const (
	DataQualityHigh   DataQuality = "high"
	DataQualityMedium DataQuality = "medium"
	DataQualityLow    DataQuality = "low"
)

// AgentOutput is the structured result produced by one domain agent
type AgentOutput struct {
	AgentName string `json:"agent_name"`
	Domain    string `json:"domain"`

	Summary     string    `json:"summary"`
	Findings    []Finding `json:"findings,omitempty"`
	KeyFindings []string  `json:"key_findings,omitempty"`

	RiskScore   float64      `json:"risk_score"`
	RiskLevel   RiskLevel    `json:"risk_level"`
	RiskFactors []RiskFactor `json:"risk_factors,omitempty"`

	Recommendations []string `json:"recommendations,omitempty"`
	RedFlags        []string `json:"red_flags,omitempty"`
	PositiveFactors []string `json:"positive_factors,omitempty"`

	Confidence        float64     `json:"confidence"`
	DataQuality       DataQuality `json:"data_quality"`
	DocumentsAnalyzed []string    `json:"documents_analyzed,omitempty"`
	Timestamp         time.Time   `json:"timestamp"`
}

// HealthScore converts the 0-1 risk score into a 0-100 health score
func (o *AgentOutput) HealthScore() int {
	return int((1 - o.RiskScore) * 100)
}

// DealBreakers returns the names of risks that could block the deal
func (o *AgentOutput) DealBreakers() []string {
	var out []string
	for _, rf := range o.RiskFactors {
		if rf.IsDealBreaker {
			out = append(out, rf.Name)
		}
	}
	return out
}

// NeutralOutput builds a placeholder output for an agent that produced no
// usable result, so aggregation can continue with degraded confidence.
func NeutralOutput(agentName, dom, summary string) AgentOutput {
	return AgentOutput{
		AgentName:   agentName,
		Domain:      dom,
		Summary:     summary,
		RiskScore:   0.5,
		RiskLevel:   RiskMedium,
		Confidence:  0.5,
		DataQuality: DataQualityLow,
		Timestamp:   time.Now(),
	}
}
