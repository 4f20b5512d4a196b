package supervisor

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsense/diligence/internal/agent"
	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/intent"
)

// fakeAgent returns a fixed output and records invocations
type fakeAgent struct {
	name   string
	dom    string
	output domain.AgentOutput
	err    error

	mu    sync.Mutex
	calls []agent.Request
}

func (f *fakeAgent) Name() string   { return f.name }
func (f *fakeAgent) Domain() string { return f.dom }

func (f *fakeAgent) Analyze(_ context.Context, req agent.Request) (domain.AgentOutput, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.err != nil {
		return domain.AgentOutput{}, f.err
	}
	return f.output, nil
}

func fixedOutput(name, dom string, risk float64) domain.AgentOutput {
	return domain.AgentOutput{
		AgentName:  name,
		Domain:     dom,
		Summary:    dom + " summary",
		RiskScore:  risk,
		RiskLevel:  domain.RiskLevelForScore(risk),
		Confidence: 0.9,
		Timestamp:  time.Now(),
	}
}

func newSupervisor(agents ...*fakeAgent) (*Supervisor, map[string]*fakeAgent) {
	byName := make(map[string]agent.Agent)
	fakes := make(map[string]*fakeAgent)
	for _, a := range agents {
		byName[a.name] = a
		fakes[a.name] = a
	}
	classifier := intent.New(domain.NewRegistry(domain.DefaultCompanies))
	logger := log.New(io.Discard, "", 0)
	return New(classifier, byName, logger, false, "openai/test-model"), fakes
}

func defaultAgents() []*fakeAgent {
	return []*fakeAgent{
		{name: "finance_agent", dom: "finance", output: fixedOutput("finance_agent", "finance", 0.2)},
		{name: "legal_agent", dom: "legal", output: fixedOutput("legal_agent", "legal", 0.4)},
		{name: "hr_agent", dom: "hr", output: fixedOutput("hr_agent", "hr", 0.6)},
		{name: "analyst_agent", dom: "strategic", output: fixedOutput("analyst_agent", "strategic", 0.3)},
	}
}

func TestRunFullDueDiligence(t *testing.T) {
	sup, fakes := newSupervisor(defaultAgents()...)

	report, err := sup.Run(context.Background(), "Run a full due diligence on BBD for the acquisition")

	require.NoError(t, err)
	assert.Equal(t, "BBD", report.Company.ID)
	assert.Len(t, report.Outputs, 4)
	assert.Len(t, report.ScoringTable, 4)
	assert.NotEmpty(t, report.Summary)
	assert.Equal(t, "openai/test-model", report.Model)
	assert.False(t, report.NothingToNote)

	// Every planned agent ran exactly once.
	for _, name := range []string{"finance_agent", "legal_agent", "hr_agent", "analyst_agent"} {
		assert.Len(t, fakes[name].calls, 1, name)
	}
}

func TestRunAnalystSeesDomainOutputs(t *testing.T) {
	sup, fakes := newSupervisor(defaultAgents()...)

	_, err := sup.Run(context.Background(), "Full due diligence on SUPERNOVA please")

	require.NoError(t, err)
	analyst := fakes["analyst_agent"]
	require.Len(t, analyst.calls, 1)
	prior := analyst.calls[0].PriorOutputs
	assert.Len(t, prior, 3, "analyst runs after the three domain agents")
	assert.Contains(t, prior, "finance")
	assert.Contains(t, prior, "legal")
	assert.Contains(t, prior, "hr")
}

func TestRunSingleDomainScope(t *testing.T) {
	sup, fakes := newSupervisor(defaultAgents()...)

	report, err := sup.Run(context.Background(), "What is the financial health of XYZ?")

	require.NoError(t, err)
	assert.Len(t, report.Outputs, 1)
	assert.Contains(t, report.Outputs, "finance")
	assert.Len(t, fakes["legal_agent"].calls, 0)
	assert.Len(t, fakes["hr_agent"].calls, 0)
}

func TestRunDegradesOnAgentFailure(t *testing.T) {
	agents := defaultAgents()
	agents[1].err = errors.New("model timeout")
	sup, _ := newSupervisor(agents...)

	report, err := sup.Run(context.Background(), "Run a full due diligence on BBD for the acquisition")

	require.NoError(t, err)
	legal, ok := report.Outputs["legal"]
	require.True(t, ok)
	assert.InDelta(t, 0.5, legal.RiskScore, 1e-9)
	assert.Equal(t, domain.DataQualityLow, legal.DataQuality)
	assert.Contains(t, legal.Summary, "did not complete")
}

func TestRunGreetingSkipsAgents(t *testing.T) {
	sup, fakes := newSupervisor(defaultAgents()...)

	report, err := sup.Run(context.Background(), "hello")

	require.NoError(t, err)
	assert.True(t, report.NothingToNote)
	assert.Contains(t, report.Summary, "Hello")
	for _, f := range fakes {
		assert.Empty(t, f.calls)
	}
}

func TestRunUnknownQuery(t *testing.T) {
	sup, _ := newSupervisor(defaultAgents()...)

	report, err := sup.Run(context.Background(), "What's the weather like today?")

	require.NoError(t, err)
	assert.True(t, report.NothingToNote)
}

func TestRunRecommendationFlow(t *testing.T) {
	agents := []*fakeAgent{
		{name: "finance_agent", dom: "finance", output: fixedOutput("finance_agent", "finance", 0.1)},
		{name: "legal_agent", dom: "legal", output: fixedOutput("legal_agent", "legal", 0.2)},
		{name: "hr_agent", dom: "hr", output: fixedOutput("hr_agent", "hr", 0.2)},
		{name: "analyst_agent", dom: "strategic", output: fixedOutput("analyst_agent", "strategic", 0.2)},
	}
	sup, _ := newSupervisor(agents...)

	report, err := sup.Run(context.Background(), "Run a full due diligence on TECHNOBOX for the merger")

	require.NoError(t, err)
	assert.Equal(t, domain.RecommendGo, report.Overall.Recommendation)
	assert.Contains(t, report.Summary, "Recommendation: GO")
}

func TestRunDealBreakerForcesNoGo(t *testing.T) {
	agents := defaultAgents()
	out := agents[1].output
	out.RiskFactors = []domain.RiskFactor{{
		FactorID: "legal_1", Name: "Fraud investigation",
		Severity: domain.SeverityCritical, IsDealBreaker: true,
	}}
	agents[1].output = out
	sup, _ := newSupervisor(agents...)

	report, err := sup.Run(context.Background(), "Run a full due diligence on BBD for the acquisition")

	require.NoError(t, err)
	assert.Equal(t, domain.RecommendNoGo, report.Overall.Recommendation)
	assert.Contains(t, report.Risk.DealBreakers, "Fraud investigation")
	assert.Contains(t, report.Summary, "Deal breakers identified")
}
