package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/rag"
	"github.com/dealsense/diligence/internal/scoring"
)

// Legal analyzes litigation, contracts, and IP. Unlike the other agents
// its health score is not taken from the model: it is computed
// deterministically from finding severities per category.
type Legal struct {
	llm    Generator
	store  *rag.Store
	logger *log.Logger
}

// NewLegal creates the legal agent
func NewLegal(llm Generator, store *rag.Store, logger *log.Logger) *Legal {
	return &Legal{llm: llm, store: store, logger: logger}
}

func (a *Legal) Name() string   { return "legal_agent" }
func (a *Legal) Domain() string { return "legal" }

// Analyze runs legal due diligence for the requested company
func (a *Legal) Analyze(ctx context.Context, req Request) (domain.AgentOutput, error) {
	query := fmt.Sprintf("%s litigation lawsuits contracts agreements intellectual property patents regulatory compliance", req.Company.Name)
	chunks, docs := retrieve(a.store, query, domain.CategoryLegal, req.Company.ID)

	prompt := a.buildPrompt(req.Company, chunks)
	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return domain.AgentOutput{}, fmt.Errorf("legal analysis: %w", err)
	}

	var r reply
	if err := decodeJSON(answer, &r); err != nil {
		return domain.AgentOutput{}, fmt.Errorf("legal analysis: %w", err)
	}
	r.Findings = normalizeLegalCategories(r.Findings)

	categoryScores, total := scoring.ScoreCategories(scoring.LegalCategoryMax, sanitizeFindings(r.Findings))
	out := outputFromReply(a.Name(), a.Domain(), r, total, docs)
	out.Summary = legalSummary(total, categoryScores, out)
	return out, nil
}

// normalizeLegalCategories folds model category variants into the three
// scored buckets so every finding deducts from a real budget.
func normalizeLegalCategories(findings []domain.Finding) []domain.Finding {
	for i, f := range findings {
		switch c := strings.ToLower(f.Category); {
		case strings.Contains(c, "litig"), strings.Contains(c, "lawsuit"), strings.Contains(c, "dispute"), strings.Contains(c, "regulat"), strings.Contains(c, "complian"):
			findings[i].Category = "litigation"
		case strings.Contains(c, "ip"), strings.Contains(c, "patent"), strings.Contains(c, "trademark"), strings.Contains(c, "intellectual"):
			findings[i].Category = "ip"
		default:
			findings[i].Category = "contracts"
		}
	}
	return findings
}

func legalSummary(total int, categoryScores map[string]scoring.CategoryScore, out domain.AgentOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Legal Due Diligence Score: %d/100 (%s)\n\n", total, scoring.CategoryRiskLevel(total))
	sb.WriteString("Category Scores:\n")
	fmt.Fprintf(&sb, "- Litigation: %d/%d\n", categoryScores["litigation"].PointsEarned, scoring.LegalCategoryMax["litigation"])
	fmt.Fprintf(&sb, "- Contracts: %d/%d\n", categoryScores["contracts"].PointsEarned, scoring.LegalCategoryMax["contracts"])
	fmt.Fprintf(&sb, "- IP Portfolio: %d/%d\n", categoryScores["ip"].PointsEarned, scoring.LegalCategoryMax["ip"])
	fmt.Fprintf(&sb, "\nTotal Findings: %d\nDeal Breakers: %d", len(out.Findings), len(out.DealBreakers()))
	if out.Summary != "" {
		sb.WriteString("\n\n")
		sb.WriteString(out.Summary)
	}
	return sb.String()
}

func (a *Legal) buildPrompt(company domain.Company, chunks []domain.Chunk) string {
	var sb strings.Builder
	sb.WriteString(legalPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "## Target Company\n\n%s (%s)\n\n", company.Name, company.ID)
	sb.WriteString("## Legal Documents\n\n")
	sb.WriteString(rag.ContextBlock(chunks))
	sb.WriteString("\n")
	sb.WriteString(outputInstructions)
	return sb.String()
}

const legalPrompt = `You are an M&A attorney performing legal due diligence. Review the target company's legal position from the documents provided.

## What to Assess

- **Litigation**: pending and threatened suits, regulatory actions, settlement history and exposure
- **Contracts**: change-of-control clauses, exclusivity, auto-renewals, key customer and supplier terms
- **IP**: patent and trademark ownership, license scope, infringement exposure, trade secret hygiene

## Severity Guidance

- critical: could block or materially reprice the deal (active class action, core IP not owned)
- high: significant exposure requiring deal terms to address
- medium: manageable issue needing integration attention
- low: housekeeping item

Categorize each finding as exactly one of: litigation, contracts, ip.
Leave health_score null; it is computed from your findings.`
