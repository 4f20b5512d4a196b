package agent

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/rag"
)

// Analyst is the strategic synthesis agent. It runs after the domain
// agents and reasons over their outputs plus market documents to assess
// strategic fit and integration complexity.
type Analyst struct {
	llm    Generator
	store  *rag.Store
	logger *log.Logger
}

// NewAnalyst creates the analyst agent
func NewAnalyst(llm Generator, store *rag.Store, logger *log.Logger) *Analyst {
	return &Analyst{llm: llm, store: store, logger: logger}
}

func (a *Analyst) Name() string   { return "analyst_agent" }
func (a *Analyst) Domain() string { return "strategic" }

// Analyze synthesizes domain outputs into a strategic assessment
func (a *Analyst) Analyze(ctx context.Context, req Request) (domain.AgentOutput, error) {
	query := fmt.Sprintf("%s market position competitors growth synergies strategy", req.Company.Name)
	chunks, docs := retrieve(a.store, query, domain.CategoryMarket, req.Company.ID)

	prompt := a.buildPrompt(req, chunks)
	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return domain.AgentOutput{}, fmt.Errorf("strategic analysis: %w", err)
	}

	var r reply
	if err := decodeJSON(answer, &r); err != nil {
		return domain.AgentOutput{}, fmt.Errorf("strategic analysis: %w", err)
	}

	score := 50
	if r.HealthScore != nil {
		score = clampScore(*r.HealthScore)
	}
	return outputFromReply(a.Name(), a.Domain(), r, score, docs), nil
}

func (a *Analyst) buildPrompt(req Request, chunks []domain.Chunk) string {
	var sb strings.Builder
	sb.WriteString(analystPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "## Target Company\n\n%s (%s)\n\n", req.Company.Name, req.Company.ID)

	if len(req.PriorOutputs) > 0 {
		sb.WriteString("## Domain Analysis Results\n\n")
		sb.WriteString(formatPriorOutputs(req.PriorOutputs))
		sb.WriteString("\n")
	}

	sb.WriteString("## Market Documents\n\n")
	sb.WriteString(rag.ContextBlock(chunks))
	sb.WriteString("\n")
	sb.WriteString(outputInstructions)
	return sb.String()
}

// formatPriorOutputs renders earlier agent results in a compact block the
// analyst can reason over without blowing the context window.
func formatPriorOutputs(outputs map[string]domain.AgentOutput) string {
	domains := make([]string, 0, len(outputs))
	for d := range outputs {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	var sb strings.Builder
	for _, d := range domains {
		out := outputs[d]
		fmt.Fprintf(&sb, "### %s (risk %.2f, %s)\n", strings.ToUpper(d), out.RiskScore, out.RiskLevel)
		if len(out.KeyFindings) > 0 {
			for _, kf := range out.KeyFindings {
				fmt.Fprintf(&sb, "- %s\n", kf)
			}
		} else if out.Summary != "" {
			fmt.Fprintf(&sb, "%s\n", firstLine(out.Summary))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.Index(s, "\n"); i >= 0 {
		return s[:i]
	}
	return s
}

const analystPrompt = `You are a strategy partner synthesizing M&A due diligence into a strategic assessment. You are given the domain analysis results and market documents for the target.

## What to Assess

- **Strategic fit**: market position, product adjacency, customer overlap
- **Synergies**: realistic revenue and cost synergies with rough sizing
- **Integration complexity**: people, systems, and contract obstacles surfaced by the domain analyses
- **Cross-domain patterns**: risks that compound across finance, legal, and HR findings

## Scoring Guidance

Health score reflects strategic attractiveness net of integration risk,
not a repeat of the domain scores. A target with clean financials but no
strategic rationale scores low.

Categorize findings as one of: fit, synergies, integration, market.`
