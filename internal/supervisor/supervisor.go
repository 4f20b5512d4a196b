// Package supervisor orchestrates an analysis run: classify the query,
// build a plan, execute agent phases, aggregate scores, and assemble the
// deal report.
package supervisor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dealsense/diligence/internal/agent"
	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/intent"
	"github.com/dealsense/diligence/internal/planner"
	"github.com/dealsense/diligence/internal/scoring"
)

// Supervisor routes queries to domain agents and aggregates their results
type Supervisor struct {
	classifier *intent.Classifier
	agents     map[string]agent.Agent
	logger     *log.Logger
	verbose    bool
	modelID    string
}

// New creates a Supervisor over the given agents, keyed by agent name
func New(classifier *intent.Classifier, agents map[string]agent.Agent, logger *log.Logger, verbose bool, modelID string) *Supervisor {
	return &Supervisor{
		classifier: classifier,
		agents:     agents,
		logger:     logger,
		verbose:    verbose,
		modelID:    modelID,
	}
}

// Run executes the full pipeline for one query
func (s *Supervisor) Run(ctx context.Context, query string) (*domain.DealReport, error) {
	startTime := time.Now()

	// Step 1: Classify intent
	res := s.classifier.Classify(query)
	s.log("Intent: %s (scope=%s, confidence=%.2f)", res.Intent, res.Scope, res.Confidence)

	if !res.ShouldRunChain {
		return s.directReply(query, res), nil
	}

	// Step 2: Build the execution plan
	plan := planner.BuildPlan(res.Scope)
	s.log("Plan %s: agents=%v mode=%s", plan.ID, plan.Agents(), plan.Mode)

	// Step 3: Execute agent phases
	outputs := s.executePlan(ctx, plan, res.Target, query)
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no agents produced output for plan %s", plan.ID)
	}

	// Step 4: Aggregate risk and build the report
	risk := scoring.Aggregate(outputs)
	report := &domain.DealReport{
		Date:         time.Now(),
		Query:        query,
		Company:      res.Target,
		Outputs:      outputs,
		ScoringTable: scoring.ScoringTable(outputs),
		Overall:      scoring.Overall(res.Target, risk),
		Risk:         risk,
		Model:        s.modelID,
	}
	report.Summary = executiveSummary(report)

	s.log("Analysis complete in %s: %s (health %d)", time.Since(startTime).Round(time.Millisecond),
		report.Overall.Recommendation, report.Overall.OverallHealthScore)
	return report, nil
}

// executePlan runs each phase, agents within a phase concurrently.
// A failing agent degrades to a neutral output so one bad LLM reply does
// not sink the whole run.
func (s *Supervisor) executePlan(ctx context.Context, plan planner.Plan, company domain.Company, query string) map[string]domain.AgentOutput {
	outputs := make(map[string]domain.AgentOutput)
	var mu sync.Mutex

	for _, phase := range plan.AgentOrder {
		var wg sync.WaitGroup
		for _, name := range phase {
			ag, ok := s.agents[name]
			if !ok {
				s.log("Warning: no agent registered for %s, skipping", name)
				continue
			}

			// Later phases see a snapshot of earlier results.
			prior := make(map[string]domain.AgentOutput, len(outputs))
			mu.Lock()
			for k, v := range outputs {
				prior[k] = v
			}
			mu.Unlock()

			wg.Add(1)
			go func(ag agent.Agent) {
				defer wg.Done()
				s.log("Running %s...", ag.Name())
				out, err := ag.Analyze(ctx, agent.Request{
					Company:      company,
					Query:        query,
					PriorOutputs: prior,
				})
				if err != nil {
					s.log("Warning: %s failed: %v", ag.Name(), err)
					out = domain.NeutralOutput(ag.Name(), ag.Domain(),
						fmt.Sprintf("%s analysis did not complete; treating domain as unknown risk.", capitalize(ag.Domain())))
				}
				mu.Lock()
				outputs[ag.Domain()] = out
				mu.Unlock()
			}(ag)
		}
		wg.Wait()
	}
	return outputs
}

// directReply answers greeting/help/off-topic queries without running agents
func (s *Supervisor) directReply(query string, res intent.Result) *domain.DealReport {
	var summary string
	switch res.Intent {
	case intent.TypeGreeting:
		summary = "Hello! Ask me to run due diligence on a registered company, for example: \"Run a full due diligence on BBD\"."
	case intent.TypeHelp:
		summary = "I run M&A due diligence: financial, legal, and HR analysis of a target company, aggregated into a weighted risk score and a GO/CONDITIONAL/CAUTION/NO-GO recommendation. Mention a registered company to start."
	case intent.TypeMAQuestion:
		summary = "I can answer that in the context of a specific target. Name a registered company and I will run the relevant analysis."
	default:
		summary = "I could not map that query to a due-diligence task. Ask about a registered company's financial, legal, or HR position."
	}
	return &domain.DealReport{
		Date:          time.Now(),
		Query:         query,
		Summary:       summary,
		NothingToNote: true,
	}
}

// executiveSummary builds the headline paragraph deterministically from
// the aggregated numbers.
func executiveSummary(r *domain.DealReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s): overall health %d/100, risk %.2f (%s). Recommendation: %s.",
		r.Company.Name, r.Company.ID,
		r.Overall.OverallHealthScore, r.Overall.OverallRiskScore,
		r.Risk.RiskLevel, r.Overall.Recommendation)

	if len(r.Risk.DealBreakers) > 0 {
		fmt.Fprintf(&sb, " Deal breakers identified: %s.", strings.Join(r.Risk.DealBreakers, "; "))
	}
	if r.Risk.HighestRiskDomain != "" && len(r.Risk.DomainScores) > 1 {
		fmt.Fprintf(&sb, " Highest risk domain: %s.", r.Risk.HighestRiskDomain)
	}
	if len(r.Risk.PositiveFactors) > 0 {
		fmt.Fprintf(&sb, " %s", strings.Join(r.Risk.PositiveFactors, ". ")+".")
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *Supervisor) log(format string, args ...interface{}) {
	if s.verbose {
		s.logger.Printf(format, args...)
	}
}
