package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/rag"
)

// Finance analyzes financial health: ratios, liquidity, leverage, and
// red flags, scored against M&A benchmarks.
type Finance struct {
	llm    Generator
	store  *rag.Store
	logger *log.Logger
}

// NewFinance creates the finance agent
func NewFinance(llm Generator, store *rag.Store, logger *log.Logger) *Finance {
	return &Finance{llm: llm, store: store, logger: logger}
}

func (a *Finance) Name() string   { return "finance_agent" }
func (a *Finance) Domain() string { return "finance" }

// dealBreakerPatterns are red-flag phrases that zero the financial score
var dealBreakerPatterns = []string{
	"going concern",
	"fraud",
	"material misstatement",
	"negative equity",
	"audit opinion withdrawn",
	"insolvency",
}

// Analyze runs financial due diligence for the requested company
func (a *Finance) Analyze(ctx context.Context, req Request) (domain.AgentOutput, error) {
	query := fmt.Sprintf("%s financial statements revenue profitability liquidity leverage debt cash flow", req.Company.Name)
	chunks, docs := retrieve(a.store, query, domain.CategoryFinancial, req.Company.ID)

	prompt := a.buildPrompt(req.Company, chunks)
	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return domain.AgentOutput{}, fmt.Errorf("finance analysis: %w", err)
	}

	var r reply
	if err := decodeJSON(answer, &r); err != nil {
		return domain.AgentOutput{}, fmt.Errorf("finance analysis: %w", err)
	}

	score := scoreFinance(r)
	out := outputFromReply(a.Name(), a.Domain(), r, score, docs)
	return out, nil
}

// scoreFinance applies red-flag penalties to the model's health score.
// A deal-breaker pattern in any red flag zeroes the score outright.
func scoreFinance(r reply) int {
	score := 50
	if r.HealthScore != nil {
		score = *r.HealthScore
	}

	penalty := 0
	for _, flag := range r.RedFlags {
		lower := strings.ToLower(flag)
		for _, pattern := range dealBreakerPatterns {
			if strings.Contains(lower, pattern) {
				return 0
			}
		}
		if strings.Contains(lower, "critical") {
			penalty += 10
		} else if strings.Contains(lower, "high") {
			penalty += 5
		} else {
			penalty += 2
		}
	}

	score -= penalty
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func (a *Finance) buildPrompt(company domain.Company, chunks []domain.Chunk) string {
	var sb strings.Builder
	sb.WriteString(financePrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "## Target Company\n\n%s (%s)\n\n", company.Name, company.ID)
	sb.WriteString("## Financial Documents\n\n")
	sb.WriteString(rag.ContextBlock(chunks))
	sb.WriteString("\n")
	sb.WriteString(outputInstructions)
	return sb.String()
}

const financePrompt = `You are a senior financial analyst performing M&A financial due diligence. Analyze the target company's financial health from the documents provided.

## What to Assess

- **Profitability**: margins, EBITDA, earnings quality and trend
- **Liquidity**: current ratio, cash position, working capital
- **Leverage**: debt-to-equity, maturities, covenant pressure
- **Growth**: revenue trajectory, customer concentration
- **Red flags**: going concern doubts, restatements, aggressive recognition, related-party transactions

## Scoring Guidance

Benchmark targets: current ratio above 1.2, debt-to-equity below 1.5,
EBITDA margin above 15%, positive operating cash flow. Meeting a benchmark
earns full credit for that area, being within half of it earns partial
credit, worse earns none. Start from those category scores when setting
health_score.

Categorize findings as one of: profitability, liquidity, leverage, growth, reporting.`
