// Package planner turns a classified analysis scope into an execution
// plan: which agents run, in which phases, and with what dependencies.
package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dealsense/diligence/internal/intent"
)

// Agent names used across the pipeline
const (
	FinanceAgent = "finance_agent"
	LegalAgent   = "legal_agent"
	HRAgent      = "hr_agent"
	AnalystAgent = "analyst_agent"
)

// DomainToAgent maps analysis domains to the agent that covers them.
// Compliance is handled by the legal agent.
var DomainToAgent = map[string]string{
	"finance":    FinanceAgent,
	"legal":      LegalAgent,
	"hr":         HRAgent,
	"compliance": LegalAgent,
	"strategic":  AnalystAgent,
}

// ExecutionMode controls phase scheduling
type ExecutionMode string

const (
	ModeSequential ExecutionMode = "sequential"
	ModeParallel   ExecutionMode = "parallel"
	ModeHybrid     ExecutionMode = "hybrid"
)

// ReportFormat selects how much of the report the run produces
type ReportFormat string

const (
	FormatFull      ReportFormat = "full"
	FormatSummary   ReportFormat = "summary"
	FormatExecutive ReportFormat = "executive"
)

// Plan is the execution plan for one analysis run
type Plan struct {
	ID    string
	Scope intent.Scope

	RequiredAgents []string
	OptionalAgents []string

	Mode         ExecutionMode
	AgentOrder   [][]string
	Dependencies map[string][]string

	RequireRecommendation bool
	Format                ReportFormat

	CreatedAt time.Time
}

// Agents returns every agent the plan will run, in phase order
func (p *Plan) Agents() []string {
	var agents []string
	for _, phase := range p.AgentOrder {
		agents = append(agents, phase...)
	}
	return agents
}

type template struct {
	required  []string
	optional  []string
	mode      ExecutionMode
	order     [][]string
	recommend bool
	format    ReportFormat
}

// Domain agents fetch their own grounding documents, so phases within a
// template have no data dependencies on each other. The analyst agent runs
// after the domain phase because it synthesizes their outputs.
var scopeTemplates = map[intent.Scope]template{
	intent.ScopeFull: {
		required:  []string{FinanceAgent, LegalAgent, HRAgent},
		optional:  []string{AnalystAgent},
		mode:      ModeHybrid,
		order:     [][]string{{FinanceAgent, LegalAgent, HRAgent}, {AnalystAgent}},
		recommend: true,
		format:    FormatFull,
	},
	intent.ScopeFinancialOnly: {
		required: []string{FinanceAgent},
		mode:     ModeSequential,
		order:    [][]string{{FinanceAgent}},
		format:   FormatSummary,
	},
	intent.ScopeLegalOnly: {
		required: []string{LegalAgent},
		mode:     ModeSequential,
		order:    [][]string{{LegalAgent}},
		format:   FormatSummary,
	},
	intent.ScopeHROnly: {
		required: []string{HRAgent},
		mode:     ModeSequential,
		order:    [][]string{{HRAgent}},
		format:   FormatSummary,
	},
	intent.ScopeComplianceOnly: {
		required: []string{LegalAgent},
		mode:     ModeSequential,
		order:    [][]string{{LegalAgent}},
		format:   FormatSummary,
	},
	intent.ScopeStrategicOnly: {
		required:  []string{AnalystAgent},
		mode:      ModeSequential,
		order:     [][]string{{AnalystAgent}},
		recommend: true,
		format:    FormatSummary,
	},
	intent.ScopeRiskAssessment: {
		required:  []string{FinanceAgent, LegalAgent, HRAgent},
		mode:      ModeParallel,
		order:     [][]string{{FinanceAgent, LegalAgent, HRAgent}},
		recommend: true,
		format:    FormatSummary,
	},
	intent.ScopeQuickOverview: {
		required: []string{FinanceAgent, LegalAgent},
		optional: []string{HRAgent},
		mode:     ModeParallel,
		order:    [][]string{{FinanceAgent, LegalAgent}},
		format:   FormatExecutive,
	},
}

// BuildPlan creates an execution plan for the given scope. Unknown scopes
// fall back to the full due-diligence template.
func BuildPlan(scope intent.Scope) Plan {
	tmpl, ok := scopeTemplates[scope]
	if !ok {
		scope = intent.ScopeFull
		tmpl = scopeTemplates[intent.ScopeFull]
	}
	return Plan{
		ID:                    newPlanID(),
		Scope:                 scope,
		RequiredAgents:        tmpl.required,
		OptionalAgents:        tmpl.optional,
		Mode:                  tmpl.mode,
		AgentOrder:            tmpl.order,
		Dependencies:          buildDependencies(tmpl.order),
		RequireRecommendation: tmpl.recommend,
		Format:                tmpl.format,
		CreatedAt:             time.Now(),
	}
}

// buildDependencies derives the dependency map from phase order: each
// agent depends on every agent from earlier phases.
func buildDependencies(order [][]string) map[string][]string {
	deps := make(map[string][]string)
	var previous []string
	for _, phase := range order {
		for _, agent := range phase {
			deps[agent] = append([]string(nil), previous...)
		}
		previous = append(previous, phase...)
	}
	return deps
}

func newPlanID() string {
	return fmt.Sprintf("plan_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}
