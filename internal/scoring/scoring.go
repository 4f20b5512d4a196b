// Package scoring turns per-domain agent outputs into a weighted overall
// risk score, a scoring table, and a categorical deal recommendation.
// All calculations are deterministic; nothing here calls an LLM.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
)

// DomainWeights is the contribution of each domain to the overall score
var DomainWeights = map[string]float64{
	"finance": 0.40,
	"legal":   0.35,
	"hr":      0.25,
}

// DefaultWeight applies to domains without an explicit weight entry
const DefaultWeight = 0.20

// DealBreakerPenalty is added to the overall risk when deal breakers exist
const DealBreakerPenalty = 0.25

// domainLabels maps domain keys to display names in the scoring table
var domainLabels = map[string]string{
	"finance":   "Financial",
	"legal":     "Legal",
	"hr":        "HR",
	"strategic": "Strategic",
}

// tableOrder fixes row ordering so reports render consistently
var tableOrder = []string{"finance", "legal", "hr", "strategic"}

// Aggregate computes the cross-domain risk assessment from agent outputs,
// keyed by domain. Missing domains simply drop out of the weighted average.
func Aggregate(outputs map[string]domain.AgentOutput) domain.AggregatedRisk {
	if len(outputs) == 0 {
		return domain.AggregatedRisk{
			OverallScore: 0.5,
			RiskLevel:    domain.RiskMedium,
			Confidence:   0.5,
			DomainScores: map[string]float64{},
		}
	}

	var weightedSum, totalWeight float64
	domainScores := make(map[string]float64, len(outputs))
	var keyConcerns, positiveFactors []string

	for _, dom := range sortedDomains(outputs) {
		out := outputs[dom]
		weight, ok := DomainWeights[dom]
		if !ok {
			weight = DefaultWeight
		}
		weightedSum += out.RiskScore * weight
		totalWeight += weight
		domainScores[dom] = out.RiskScore

		if out.RiskScore > 0.7 {
			keyConcerns = append(keyConcerns, fmt.Sprintf("%s: High risk score (%.2f)", title(dom), out.RiskScore))
		} else if out.RiskScore < 0.3 {
			positiveFactors = append(positiveFactors, fmt.Sprintf("%s: Low risk (%.2f)", title(dom), out.RiskScore))
		}
	}

	overall := weightedSum / totalWeight

	risk := domain.AggregatedRisk{
		OverallScore:    overall,
		RiskLevel:       domain.RiskLevelForScore(overall),
		DomainScores:    domainScores,
		KeyConcerns:     keyConcerns,
		PositiveFactors: positiveFactors,
		Confidence:      averageConfidence(outputs),
	}
	risk.HighestRiskDomain, risk.LowestRiskDomain = extremeDomains(domainScores)

	if breakers := DealBreakers(outputs); len(breakers) > 0 {
		risk.DealBreakers = breakers
		risk.PenaltyApplied = true
		risk.OverallScore = min(risk.OverallScore+DealBreakerPenalty, 1.0)
		risk.RiskLevel = domain.RiskLevelForScore(risk.OverallScore)
	}

	return risk
}

// DealBreakers collects deal-breaking items across all agent outputs:
// flagged risk factors plus red flags that name a critical issue.
func DealBreakers(outputs map[string]domain.AgentOutput) []string {
	var breakers []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			breakers = append(breakers, name)
		}
	}
	for _, dom := range sortedDomains(outputs) {
		out := outputs[dom]
		for _, rf := range out.RiskFactors {
			if rf.IsDealBreaker {
				add(rf.Name)
			}
		}
		for _, f := range out.Findings {
			if f.IsDealBreaker() {
				add(f.Title)
			}
		}
	}
	return breakers
}

// Recommend maps an overall risk score to the four-bucket recommendation:
// health >=80 GO, 60-79 CONDITIONAL, 40-59 CAUTION, below 40 NO-GO.
// Deal breakers force NO-GO regardless of the score.
func Recommend(overallRisk float64, hasDealBreakers bool) domain.Recommendation {
	if hasDealBreakers {
		return domain.RecommendNoGo
	}
	switch {
	case overallRisk <= 0.2:
		return domain.RecommendGo
	case overallRisk <= 0.4:
		return domain.RecommendConditional
	case overallRisk <= 0.6:
		return domain.RecommendCaution
	default:
		return domain.RecommendNoGo
	}
}

// RecommendationColor returns the UI color for a recommendation
func RecommendationColor(rec domain.Recommendation) string {
	switch rec {
	case domain.RecommendGo:
		return "green"
	case domain.RecommendConditional:
		return "yellow"
	case domain.RecommendCaution:
		return "orange"
	default:
		return "red"
	}
}

// RiskColor maps a risk score to the table color coding; lower risk = green
func RiskColor(riskScore float64) string {
	switch {
	case riskScore <= 0.3:
		return "green"
	case riskScore <= 0.5:
		return "yellow"
	case riskScore <= 0.7:
		return "orange"
	default:
		return "red"
	}
}

// StatusLabel maps a risk level to the table status text
func StatusLabel(level domain.RiskLevel) string {
	switch level {
	case domain.RiskLow:
		return "LOW RISK"
	case domain.RiskMedium:
		return "MODERATE"
	case domain.RiskHigh:
		return "HIGH RISK"
	case domain.RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ScoringTable builds the per-domain executive table from agent outputs
func ScoringTable(outputs map[string]domain.AgentOutput) []domain.ScoringTableRow {
	var table []domain.ScoringTableRow
	for _, dom := range tableOrder {
		out, ok := outputs[dom]
		if !ok {
			continue
		}
		table = append(table, rowFor(dom, out))
	}
	// Domains outside the fixed order still get rows, appended alphabetically.
	for _, dom := range sortedDomains(outputs) {
		if contains(tableOrder, dom) {
			continue
		}
		table = append(table, rowFor(dom, outputs[dom]))
	}
	return table
}

func rowFor(dom string, out domain.AgentOutput) domain.ScoringTableRow {
	key := out.KeyFindings
	if len(key) > 3 {
		key = key[:3]
	}
	return domain.ScoringTableRow{
		Domain:      title(dom),
		Agent:       out.AgentName,
		Score:       out.HealthScore(),
		MaxScore:    100,
		RiskScore:   round2(out.RiskScore),
		Status:      StatusLabel(out.RiskLevel),
		Color:       RiskColor(out.RiskScore),
		KeyFindings: key,
		Confidence:  out.Confidence,
	}
}

// Overall computes the headline score block for a company
func Overall(company domain.Company, risk domain.AggregatedRisk) domain.OverallScore {
	rec := Recommend(risk.OverallScore, len(risk.DealBreakers) > 0)
	return domain.OverallScore{
		CompanyID:           company.ID,
		CompanyName:         company.Name,
		OverallHealthScore:  int((1 - risk.OverallScore) * 100),
		OverallRiskScore:    round2(risk.OverallScore),
		Recommendation:      rec,
		RecommendationColor: RecommendationColor(rec),
		DomainsAnalyzed:     len(risk.DomainScores),
	}
}

func averageConfidence(outputs map[string]domain.AgentOutput) float64 {
	if len(outputs) == 0 {
		return 0.5
	}
	var sum float64
	for _, out := range outputs {
		sum += out.Confidence
	}
	return sum / float64(len(outputs))
}

func extremeDomains(scores map[string]float64) (highest, lowest string) {
	for _, dom := range sortedKeys(scores) {
		s := scores[dom]
		if highest == "" || s > scores[highest] {
			highest = dom
		}
		if lowest == "" || s < scores[lowest] {
			lowest = dom
		}
	}
	return highest, lowest
}

func sortedDomains(outputs map[string]domain.AgentOutput) []string {
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func title(dom string) string {
	if label, ok := domainLabels[dom]; ok {
		return label
	}
	if dom == "" {
		return dom
	}
	return strings.ToUpper(dom[:1]) + dom[1:]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
