package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/rag"
)

// HR analyzes workforce risk: attrition, key-person dependency, culture
// and policy compatibility with the acquirer's baseline.
type HR struct {
	llm    Generator
	store  *rag.Store
	logger *log.Logger
}

// NewHR creates the HR agent
func NewHR(llm Generator, store *rag.Store, logger *log.Logger) *HR {
	return &HR{llm: llm, store: store, logger: logger}
}

func (a *HR) Name() string   { return "hr_agent" }
func (a *HR) Domain() string { return "hr" }

// Analyze runs HR due diligence for the requested company
func (a *HR) Analyze(ctx context.Context, req Request) (domain.AgentOutput, error) {
	query := fmt.Sprintf("%s employees attrition retention compensation benefits workforce policies culture", req.Company.Name)
	chunks, docs := retrieve(a.store, query, domain.CategoryHR, req.Company.ID)

	prompt := a.buildPrompt(req.Company, chunks)
	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return domain.AgentOutput{}, fmt.Errorf("hr analysis: %w", err)
	}

	var r reply
	if err := decodeJSON(answer, &r); err != nil {
		return domain.AgentOutput{}, fmt.Errorf("hr analysis: %w", err)
	}

	score := 50
	if r.HealthScore != nil {
		score = clampScore(*r.HealthScore)
	}
	return outputFromReply(a.Name(), a.Domain(), r, score, docs), nil
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func (a *HR) buildPrompt(company domain.Company, chunks []domain.Chunk) string {
	var sb strings.Builder
	sb.WriteString(hrPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "## Target Company\n\n%s (%s)\n\n", company.Name, company.ID)
	sb.WriteString("## HR Documents\n\n")
	sb.WriteString(rag.ContextBlock(chunks))
	sb.WriteString("\n")
	sb.WriteString(outputInstructions)
	return sb.String()
}

const hrPrompt = `You are an HR due-diligence specialist assessing workforce risk for an acquisition. Compare the target company's policies and metrics against standard acquirer baselines.

## What to Assess

- **Attrition & retention**: annual attrition vs the 14% industry benchmark, key-person departures, retention plans
- **Compensation & benefits**: pay competitiveness, pension and severance obligations, equity overhang
- **Policy compatibility**: working hours, leave, remote work, code of conduct gaps against a large-enterprise baseline
- **Labor relations**: union presence, pending grievances, compliance with labor law

## Scoring Guidance

Health score 80-100 means policies harmonize with minimal effort; 60-79
means harmonization is needed over 3-6 months; 40-59 means material gaps
with retention risk; below 40 means the workforce position threatens deal
value.

Categorize findings as one of: attrition, compensation, policy, labor.`
