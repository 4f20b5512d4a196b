package scoring

import (
	"github.com/dealsense/diligence/internal/domain"
)

// SeverityDeductions maps a finding severity to the points it removes
// from its category score.
var SeverityDeductions = map[domain.Severity]int{
	domain.SeverityCritical: 15,
	domain.SeverityHigh:     8,
	domain.SeverityMedium:   4,
	domain.SeverityLow:      2,
}

// LegalCategoryMax is the point budget per legal analysis category.
// The three categories sum to 100.
var LegalCategoryMax = map[string]int{
	"litigation": 35,
	"contracts":  35,
	"ip":         30,
}

// Deduction records one finding's contribution to a category score
type Deduction struct {
	FindingTitle   string          `json:"finding_title"`
	Severity       domain.Severity `json:"severity"`
	PointsDeducted int             `json:"points_deducted"`
}

// CategoryScore is the scored result for one analysis category
type CategoryScore struct {
	Category     string      `json:"category"`
	MaxPoints    int         `json:"max_points"`
	PointsEarned int         `json:"points_earned"`
	Deductions   []Deduction `json:"deductions,omitempty"`
}

// DeductionForSeverity returns the points removed for a severity level.
// Unknown severities deduct the low-severity amount.
func DeductionForSeverity(s domain.Severity) int {
	if pts, ok := SeverityDeductions[s]; ok {
		return pts
	}
	return SeverityDeductions[domain.SeverityLow]
}

// ScoreCategory scores a single category from the full finding list,
// considering only findings in that category. Scores floor at zero.
func ScoreCategory(category string, maxPoints int, findings []domain.Finding) CategoryScore {
	score := CategoryScore{Category: category, MaxPoints: maxPoints}
	total := 0
	for _, f := range findings {
		if f.Category != category {
			continue
		}
		pts := DeductionForSeverity(f.Severity)
		score.Deductions = append(score.Deductions, Deduction{
			FindingTitle:   f.Title,
			Severity:       f.Severity,
			PointsDeducted: pts,
		})
		total += pts
	}
	score.PointsEarned = maxPoints - total
	if score.PointsEarned < 0 {
		score.PointsEarned = 0
	}
	return score
}

// ScoreCategories scores every category in maxPoints and returns the
// per-category results plus the 0-100 total.
func ScoreCategories(maxPoints map[string]int, findings []domain.Finding) (map[string]CategoryScore, int) {
	scores := make(map[string]CategoryScore, len(maxPoints))
	total := 0
	for category, maxPts := range maxPoints {
		cs := ScoreCategory(category, maxPts, findings)
		scores[category] = cs
		total += cs.PointsEarned
	}
	return scores, total
}

// CategoryRiskLevel maps a 0-100 category total to the domain rubric levels
func CategoryRiskLevel(totalScore int) string {
	switch {
	case totalScore >= 85:
		return "LOW"
	case totalScore >= 70:
		return "MODERATE"
	case totalScore >= 50:
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// RiskScoreFromHealth inverts a 0-100 health score into a 0-1 risk score
func RiskScoreFromHealth(total int) float64 {
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return 1.0 - float64(total)/100.0
}
