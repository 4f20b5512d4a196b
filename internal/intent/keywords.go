package intent

// Phrase lists used by the keyword fast paths. Greeting and help queries
// are answered without touching the LLM or the knowledge base.

var greetingPhrases = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	"howdy", "greetings", "what's up", "whats up", "sup", "yo",
	"hi there", "hello there", "hey there", "hola", "namaste",
}

var helpPhrases = []string{
	"help", "what can you do", "what do you do", "how can you help",
	"what are your capabilities", "what services", "tell me about yourself",
	"who are you", "what is this", "how does this work", "capabilities",
}

// maKeywords suggest, but do not confirm, M&A intent
var maKeywords = []string{
	"merger", "acquisition", "acquire", "acquiring", "merge", "merging",
	"due diligence", "takeover", "buyout", "m&a", "deal", "transaction",
	"target company", "acquirer", "bidder", "consolidation",
}

// domainKeywords steer the analysis scope toward specific domains
var domainKeywords = map[string][]string{
	"finance": {
		"financial", "revenue", "profit", "cash flow", "debt", "valuation",
		"balance sheet", "income statement", "ebitda", "margins", "liquidity",
		"solvency", "financial health", "earnings", "assets", "liabilities",
		"profitability", "fiscal", "audit", "budget",
		"expense", "income", "investment", "capital", "equity",
		"financial risk", "financial analysis", "financial due diligence",
	},
	"legal": {
		"legal", "litigation", "lawsuit", "contract", "patent",
		"trademark", "court", "dispute", "sue", "sued",
		"intellectual property", "license", "agreement", "legal risk",
		"attorney", "lawyer", "jurisdiction", "liability", "indemnification",
		"legal due diligence", "legal analysis", "legal review", "contracts",
	},
	"hr": {
		"hr", "human resources", "employee", "attrition", "retention",
		"workforce", "talent", "culture", "headcount", "key person",
		"compensation", "benefits", "union", "labor", "staff", "hiring",
		"termination", "severance", "pension", "payroll", "hr risk",
		"hr due diligence", "hr analysis", "organizational",
	},
	"compliance": {
		"compliance", "regulatory", "sox", "gdpr", "hipaa",
		"environmental", "safety", "osha", "fda", "sec", "violations",
		"non-compliance", "regulation", "governance", "ethics",
		"compliance risk", "compliance review", "regulatory risk",
	},
	"strategic": {
		"synergy", "strategic", "market share", "competitive", "growth",
		"integration", "value creation", "positioning", "expansion",
		"strategy", "competitive advantage", "market position", "synergies",
		"strategic fit", "strategic analysis", "strategic review",
	},
}

// riskKeywords shift a multi-domain query toward a risk-focused scope
var riskKeywords = []string{
	"risk", "risks", "risk assessment", "red flags", "deal breakers",
	"exposure", "concerns",
}

// overviewKeywords request a high-level pass rather than a full analysis
var overviewKeywords = []string{
	"quick overview", "high level", "high-level", "at a glance", "summary",
	"briefly", "snapshot", "tl;dr",
}
