// Package intent classifies user queries before any agent runs. The
// analysis chain only activates for due-diligence intent with a resolvable
// target company; everything else is answered directly.
package intent

import (
	"sort"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
)

// Type is the coarse classification of a user query
type Type string

const (
	TypeDueDiligence Type = "MA_DUE_DILIGENCE"
	TypeMAQuestion   Type = "MA_QUESTION"
	TypeGreeting     Type = "GREETING"
	TypeHelp         Type = "HELP"
	TypeUnknown      Type = "UNKNOWN"
)

// Scope narrows the analysis to the domains the query actually asks about
type Scope string

const (
	ScopeFull           Scope = "FULL_DUE_DILIGENCE"
	ScopeFinancialOnly  Scope = "FINANCIAL_ONLY"
	ScopeLegalOnly      Scope = "LEGAL_ONLY"
	ScopeHROnly         Scope = "HR_ONLY"
	ScopeComplianceOnly Scope = "COMPLIANCE_ONLY"
	ScopeStrategicOnly  Scope = "STRATEGIC_ONLY"
	ScopeRiskAssessment Scope = "RISK_ASSESSMENT"
	ScopeQuickOverview  Scope = "QUICK_OVERVIEW"
)

// Result is the classification outcome for a single query
type Result struct {
	Intent          Type
	Scope           Scope
	Confidence      float64
	Target          domain.Company
	RequiredDomains []string
	ShouldRunChain  bool
	Reasoning       string
}

// Classifier resolves query intent using keyword heuristics and the
// configured company registry. It never calls the LLM.
type Classifier struct {
	registry *domain.Registry
}

// New creates a Classifier backed by the given company registry
func New(registry *domain.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify inspects a query and decides whether the agent chain should run
func (c *Classifier) Classify(query string) Result {
	trimmed := strings.TrimSpace(query)
	lower := strings.ToLower(trimmed)

	if matchesPhrase(lower, greetingPhrases) {
		return Result{Intent: TypeGreeting, Confidence: 1.0, Reasoning: "greeting fast path"}
	}
	if matchesPhrase(lower, helpPhrases) {
		return Result{Intent: TypeHelp, Confidence: 1.0, Reasoning: "help fast path"}
	}

	hasMA := containsAny(lower, maKeywords)
	domains := detectDomains(lower)
	risky := containsAny(lower, riskKeywords)
	target, hasTarget := c.registry.Find(trimmed)

	if !hasTarget {
		if hasMA || risky || len(domains) > 0 {
			return Result{
				Intent:     TypeMAQuestion,
				Confidence: 0.7,
				Reasoning:  "M&A intent but no registered company mentioned",
			}
		}
		return Result{Intent: TypeUnknown, Confidence: 0.3, Reasoning: "no M&A signal"}
	}

	// A domain or risk question about a known company is due diligence even
	// without explicit M&A vocabulary.
	confidence := 0.85
	reasoning := "due-diligence intent with resolvable target"
	if !hasMA && len(domains) == 0 && !risky {
		confidence = 0.6
		reasoning = "company mentioned without domain keywords"
	}

	scope := resolveScope(lower, domains)
	return Result{
		Intent:          TypeDueDiligence,
		Scope:           scope,
		Confidence:      confidence,
		Target:          target,
		RequiredDomains: domainsForScope(scope, domains),
		ShouldRunChain:  true,
		Reasoning:       reasoning,
	}
}

// detectDomains returns the analysis domains whose keywords appear in the
// query, sorted for stable downstream behavior.
func detectDomains(lower string) []string {
	var found []string
	for dom, words := range domainKeywords {
		if containsAny(lower, words) {
			found = append(found, dom)
		}
	}
	sort.Strings(found)
	return found
}

func resolveScope(lower string, domains []string) Scope {
	if containsAny(lower, overviewKeywords) {
		return ScopeQuickOverview
	}
	if len(domains) == 1 {
		switch domains[0] {
		case "finance":
			return ScopeFinancialOnly
		case "legal":
			return ScopeLegalOnly
		case "hr":
			return ScopeHROnly
		case "compliance":
			return ScopeComplianceOnly
		case "strategic":
			return ScopeStrategicOnly
		}
	}
	if containsAny(lower, riskKeywords) {
		return ScopeRiskAssessment
	}
	return ScopeFull
}

func domainsForScope(scope Scope, detected []string) []string {
	switch scope {
	case ScopeFinancialOnly:
		return []string{"finance"}
	case ScopeLegalOnly, ScopeComplianceOnly:
		return []string{"legal"}
	case ScopeHROnly:
		return []string{"hr"}
	case ScopeStrategicOnly:
		return []string{"strategic"}
	case ScopeQuickOverview:
		return []string{"finance", "legal"}
	default:
		if len(detected) > 1 {
			return detected
		}
		return []string{"finance", "legal", "hr"}
	}
}

// matchesPhrase requires the whole query to be a short phrase match, so
// "hi" triggers the fast path but "hiring freeze at BBD" does not.
func matchesPhrase(lower string, phrases []string) bool {
	cleaned := strings.Trim(lower, " !?.,")
	for _, p := range phrases {
		if cleaned == p {
			return true
		}
	}
	return false
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if containsWord(lower, w) {
			return true
		}
	}
	return false
}

// containsWord matches w against lower on word boundaries to keep short
// keywords like "hr" or "sue" from firing inside longer words.
func containsWord(lower, w string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], w)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(w)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
