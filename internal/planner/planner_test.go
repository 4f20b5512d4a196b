package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsense/diligence/internal/intent"
)

func TestBuildPlanFullDueDiligence(t *testing.T) {
	plan := BuildPlan(intent.ScopeFull)

	assert.Equal(t, intent.ScopeFull, plan.Scope)
	assert.Equal(t, ModeHybrid, plan.Mode)
	assert.Equal(t, []string{FinanceAgent, LegalAgent, HRAgent}, plan.RequiredAgents)
	require.Len(t, plan.AgentOrder, 2)
	assert.Equal(t, []string{AnalystAgent}, plan.AgentOrder[1])
	assert.True(t, plan.RequireRecommendation)
	assert.Equal(t, FormatFull, plan.Format)
}

func TestBuildPlanSingleDomain(t *testing.T) {
	tests := []struct {
		scope intent.Scope
		agent string
	}{
		{intent.ScopeFinancialOnly, FinanceAgent},
		{intent.ScopeLegalOnly, LegalAgent},
		{intent.ScopeHROnly, HRAgent},
		{intent.ScopeComplianceOnly, LegalAgent},
		{intent.ScopeStrategicOnly, AnalystAgent},
	}
	for _, tc := range tests {
		t.Run(string(tc.scope), func(t *testing.T) {
			plan := BuildPlan(tc.scope)
			assert.Equal(t, []string{tc.agent}, plan.RequiredAgents)
			assert.Equal(t, ModeSequential, plan.Mode)
			require.Len(t, plan.AgentOrder, 1)
		})
	}
}

func TestBuildPlanUnknownScopeFallsBackToFull(t *testing.T) {
	plan := BuildPlan(intent.Scope("SOMETHING_ELSE"))
	assert.Equal(t, intent.ScopeFull, plan.Scope)
}

func TestBuildDependenciesFromPhases(t *testing.T) {
	plan := BuildPlan(intent.ScopeFull)

	assert.Empty(t, plan.Dependencies[FinanceAgent])
	assert.Empty(t, plan.Dependencies[LegalAgent])
	assert.ElementsMatch(t,
		[]string{FinanceAgent, LegalAgent, HRAgent},
		plan.Dependencies[AnalystAgent])
}

func TestPlanAgentsFlattensPhases(t *testing.T) {
	plan := BuildPlan(intent.ScopeFull)
	assert.Equal(t, []string{FinanceAgent, LegalAgent, HRAgent, AnalystAgent}, plan.Agents())
}

func TestPlanIDFormat(t *testing.T) {
	plan := BuildPlan(intent.ScopeQuickOverview)

	assert.True(t, strings.HasPrefix(plan.ID, "plan_"))
	parts := strings.Split(plan.ID, "_")
	require.Len(t, parts, 4)
	assert.Len(t, parts[3], 8)

	other := BuildPlan(intent.ScopeQuickOverview)
	assert.NotEqual(t, plan.ID, other.ID)
}
