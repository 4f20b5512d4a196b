package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsense/diligence/internal/domain"
)

func sampleReport() *domain.DealReport {
	return &domain.DealReport{
		Date:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Query:   "Run a full due diligence on BBD",
		Company: domain.Company{ID: "BBD", Name: "BBD Ltd"},
		Summary: "BBD Ltd (BBD): overall health 58/100, risk 0.42 (medium). Recommendation: CAUTION.",
		Outputs: map[string]domain.AgentOutput{
			"finance": {
				AgentName: "finance_agent",
				Domain:    "finance",
				Summary:   "Leverage above benchmark, revenue growing.",
				RiskScore: 0.4, RiskLevel: domain.RiskMedium, Confidence: 0.9,
				Findings: []domain.Finding{
					{Category: "leverage", Title: "Debt-to-equity 1.9", Severity: domain.SeverityHigh, Description: "Above the 1.5 benchmark"},
				},
				Recommendations:   []string{"Negotiate debt paydown before close"},
				DocumentsAnalyzed: []string{"Annual Report 2025"},
			},
			"hr": {
				AgentName: "hr_agent", Domain: "hr",
				Summary:   "Attrition within benchmark.",
				RiskScore: 0.3, RiskLevel: domain.RiskMedium, Confidence: 0.8,
			},
		},
		ScoringTable: []domain.ScoringTableRow{
			{Domain: "finance", Agent: "finance_agent", Score: 60, MaxScore: 100, RiskScore: 0.4, Status: "MODERATE", Color: "yellow", Confidence: 0.9},
			{Domain: "hr", Agent: "hr_agent", Score: 70, MaxScore: 100, RiskScore: 0.3, Status: "MODERATE", Color: "yellow", Confidence: 0.8},
		},
		Overall: domain.OverallScore{
			CompanyID: "BBD", CompanyName: "BBD Ltd",
			OverallHealthScore: 58, OverallRiskScore: 0.42,
			Recommendation: domain.RecommendCaution, RecommendationColor: "orange",
			DomainsAnalyzed: 2,
		},
		Risk: domain.AggregatedRisk{
			OverallScore: 0.42, RiskLevel: domain.RiskMedium,
			KeyConcerns:     []string{"finance: elevated leverage"},
			PositiveFactors: []string{"hr shows low risk"},
			DomainScores:    map[string]float64{"finance": 0.4, "hr": 0.3},
		},
		Model: "openai/test-model",
	}
}

func TestToMarkdown(t *testing.T) {
	f := NewFormatter("")
	md := f.ToMarkdown(sampleReport())

	assert.Contains(t, md, "# Due Diligence Report - March 14, 2026")
	assert.Contains(t, md, "**Target:** BBD Ltd (BBD)")
	assert.Contains(t, md, "| Health Score | 58/100 |")
	assert.Contains(t, md, "| Recommendation | **CAUTION** |")
	assert.Contains(t, md, "| finance | 60/100 | 0.40 | MODERATE | 90% |")
	assert.Contains(t, md, "## Finance Analysis")
	assert.Contains(t, md, "## HR Analysis")
	assert.Contains(t, md, "**[HIGH] Debt-to-equity 1.9** (leverage)")
	assert.Contains(t, md, "- Negotiate debt paydown before close")
	assert.Contains(t, md, "Documents analyzed: Annual Report 2025")
	assert.Contains(t, md, "## Key Concerns")
	assert.Contains(t, md, "Generated with openai/test-model")
}

func TestToMarkdownNothingToNote(t *testing.T) {
	f := NewFormatter("")
	rpt := &domain.DealReport{
		Date:          time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Summary:       "Hello! Ask me to run due diligence on a registered company.",
		NothingToNote: true,
	}

	md := f.ToMarkdown(rpt)

	assert.Contains(t, md, "## Executive Summary")
	assert.NotContains(t, md, "## Overall Assessment")
	assert.NotContains(t, md, "## Scoring Table")
}

func TestWriteCreatesDateStampedFile(t *testing.T) {
	dir := t.TempDir()
	f := NewFormatter(dir)

	path, err := f.Write(sampleReport())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "diligence-bbd-2026-03-14-093000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Due Diligence Report")
}

func TestToHTMLEscapesContent(t *testing.T) {
	f := NewFormatter("")
	rpt := sampleReport()
	rpt.Risk.DealBreakers = []string{"Fraud & <misstatement>"}

	htmlOut := f.ToHTML(rpt)

	assert.Contains(t, htmlOut, "<h2>Deal Breakers</h2>")
	assert.Contains(t, htmlOut, "Fraud &amp; &lt;misstatement&gt;")
	assert.Contains(t, htmlOut, "CAUTION")
	assert.Contains(t, htmlOut, "#ef6c00")
	assert.NotContains(t, htmlOut, "<misstatement>")
}

func TestToJSONRoundTrips(t *testing.T) {
	f := NewFormatter("")

	data, err := f.ToJSON(sampleReport())

	require.NoError(t, err)
	var decoded domain.DealReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "BBD", decoded.Overall.CompanyID)
	assert.Equal(t, domain.RecommendCaution, decoded.Overall.Recommendation)
	assert.Len(t, decoded.ScoringTable, 2)
}

func TestRecommendationHex(t *testing.T) {
	assert.Equal(t, "#2e7d32", recommendationHex("green"))
	assert.Equal(t, "#c62828", recommendationHex("red"))
	assert.Equal(t, "#607d8b", recommendationHex("unknown"))
}
