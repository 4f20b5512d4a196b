package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/rag"
)

// Request carries what a domain agent needs to analyze one company
type Request struct {
	Company domain.Company
	Query   string

	// PriorOutputs holds earlier-phase results, keyed by domain. Only the
	// analyst agent reads them.
	PriorOutputs map[string]domain.AgentOutput
}

// Agent is one analysis domain: a prompt strategy plus retrieval and
// post-processing for that domain.
type Agent interface {
	Name() string
	Domain() string
	Analyze(ctx context.Context, req Request) (domain.AgentOutput, error)
}

// retrievalTopK bounds how many chunks ground each agent prompt
const retrievalTopK = 6

// reply is the JSON shape every domain agent asks the LLM to produce
type reply struct {
	Summary         string           `json:"summary"`
	HealthScore     *int             `json:"health_score"`
	Findings        []domain.Finding `json:"findings"`
	Recommendations []string         `json:"recommendations"`
	RedFlags        []string         `json:"red_flags"`
	PositiveFactors []string         `json:"positive_factors"`
	Confidence      float64          `json:"confidence"`
}

// outputFromReply converts a parsed reply into the standard AgentOutput.
// healthScore is the post-processed 0-100 score; callers compute it from
// their domain rubric before handing over.
func outputFromReply(agentName, dom string, r reply, healthScore int, docs []string) domain.AgentOutput {
	findings := sanitizeFindings(r.Findings)

	riskFactors := make([]domain.RiskFactor, 0, len(findings))
	for i, f := range findings {
		riskFactors = append(riskFactors, domain.RiskFactorFromFinding(fmt.Sprintf("%s_%d", dom, i+1), f))
	}

	keyFindings := make([]string, 0, min(len(findings), 5))
	for _, f := range findings[:min(len(findings), 5)] {
		keyFindings = append(keyFindings, fmt.Sprintf("[%s] %s", strings.ToUpper(string(f.Severity)), f.Title))
	}

	redFlags := r.RedFlags
	for _, f := range findings {
		if f.Severity == domain.SeverityCritical || f.Severity == domain.SeverityHigh {
			if !containsString(redFlags, f.Title) {
				redFlags = append(redFlags, f.Title)
			}
		}
	}

	riskScore := clamp01(1.0 - float64(healthScore)/100.0)
	confidence := r.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.8
	}

	quality := domain.DataQualityHigh
	if len(docs) == 0 {
		quality = domain.DataQualityLow
	}

	return domain.AgentOutput{
		AgentName:         agentName,
		Domain:            dom,
		Summary:           r.Summary,
		Findings:          findings,
		KeyFindings:       keyFindings,
		RiskScore:         riskScore,
		RiskLevel:         domain.RiskLevelForScore(riskScore),
		RiskFactors:       riskFactors,
		Recommendations:   r.Recommendations,
		RedFlags:          redFlags,
		PositiveFactors:   r.PositiveFactors,
		Confidence:        confidence,
		DataQuality:       quality,
		DocumentsAnalyzed: docs,
		Timestamp:         time.Now(),
	}
}

// sanitizeFindings drops unusable entries and defaults unknown severities
// to medium so scoring stays well defined.
func sanitizeFindings(findings []domain.Finding) []domain.Finding {
	out := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		if strings.TrimSpace(f.Title) == "" {
			continue
		}
		f.Severity = domain.Severity(strings.ToLower(string(f.Severity)))
		if !f.Severity.Valid() {
			f.Severity = domain.SeverityMedium
		}
		out = append(out, f)
	}
	return out
}

// retrieve fetches grounding chunks and the distinct titles they came from
func retrieve(store *rag.Store, query string, category domain.DocumentCategory, companyID string) ([]domain.Chunk, []string) {
	chunks := store.Search(query, rag.SearchOptions{
		Category:  category,
		CompanyID: companyID,
		TopK:      retrievalTopK,
	})
	seen := make(map[string]bool)
	var titles []string
	for _, c := range chunks {
		if !seen[c.Title] {
			seen[c.Title] = true
			titles = append(titles, c.Title)
		}
	}
	return chunks, titles
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const outputInstructions = `
## Required Output Format

Respond with a JSON object in this exact format:

{
  "summary": "Two or three sentence executive summary of your analysis",
  "health_score": 72,
  "findings": [
    {
      "category": "category name",
      "title": "Brief finding title",
      "description": "What was found and why it matters for the deal",
      "severity": "low|medium|high|critical",
      "impact": "Potential impact on the transaction",
      "data_points": ["supporting data point"],
      "source": "source document title"
    }
  ],
  "recommendations": ["specific recommendation"],
  "red_flags": ["critical red flag"],
  "positive_factors": ["positive aspect found"],
  "confidence": 0.8
}

health_score is 0-100 where 100 means no risk to the deal. Only report
findings supported by the provided documents. If the documents do not
cover an area, say so in the summary instead of inventing figures.

Respond ONLY with the JSON object, no additional text.`
