// Package report renders a deal report as markdown for the archive, HTML
// for email, and JSON for the UI.
package report

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
)

// Formatter renders and persists deal reports
type Formatter struct {
	outputDir string
}

// NewFormatter creates a Formatter writing to the given directory
func NewFormatter(outputDir string) *Formatter {
	return &Formatter{outputDir: outputDir}
}

// Write renders the report as markdown and saves it to the output
// directory with a date-stamped filename. Returns the file path.
func (f *Formatter) Write(rpt *domain.DealReport) (string, error) {
	if err := os.MkdirAll(f.outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	name := fmt.Sprintf("diligence-%s.md", rpt.Date.Format("2006-01-02-150405"))
	if rpt.Company.ID != "" {
		name = fmt.Sprintf("diligence-%s-%s.md", strings.ToLower(rpt.Company.ID), rpt.Date.Format("2006-01-02-150405"))
	}
	path := filepath.Join(f.outputDir, name)

	if err := os.WriteFile(path, []byte(f.ToMarkdown(rpt)), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// ToMarkdown renders the full report as markdown
func (f *Formatter) ToMarkdown(rpt *domain.DealReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Due Diligence Report - %s\n\n", rpt.Date.Format("January 2, 2006"))
	if rpt.Company.Name != "" {
		fmt.Fprintf(&sb, "**Target:** %s (%s)\n\n", rpt.Company.Name, rpt.Company.ID)
	}
	if rpt.Query != "" {
		fmt.Fprintf(&sb, "**Query:** %s\n\n", rpt.Query)
	}

	fmt.Fprintf(&sb, "## Executive Summary\n\n%s\n\n", rpt.Summary)

	if rpt.NothingToNote {
		return sb.String()
	}

	fmt.Fprintf(&sb, "## Overall Assessment\n\n")
	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Health Score | %d/100 |\n", rpt.Overall.OverallHealthScore)
	fmt.Fprintf(&sb, "| Risk Score | %.2f |\n", rpt.Overall.OverallRiskScore)
	fmt.Fprintf(&sb, "| Risk Level | %s |\n", strings.ToUpper(string(rpt.Risk.RiskLevel)))
	fmt.Fprintf(&sb, "| Recommendation | **%s** |\n", rpt.Overall.Recommendation)
	fmt.Fprintf(&sb, "| Domains Analyzed | %d |\n\n", rpt.Overall.DomainsAnalyzed)

	if len(rpt.ScoringTable) > 0 {
		sb.WriteString("## Scoring Table\n\n")
		sb.WriteString("| Domain | Score | Risk | Status | Confidence |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, row := range rpt.ScoringTable {
			fmt.Fprintf(&sb, "| %s | %d/%d | %.2f | %s | %.0f%% |\n",
				row.Domain, row.Score, row.MaxScore, row.RiskScore, row.Status, row.Confidence*100)
		}
		sb.WriteString("\n")
	}

	if len(rpt.Risk.DealBreakers) > 0 {
		sb.WriteString("## Deal Breakers\n\n")
		for _, db := range rpt.Risk.DealBreakers {
			fmt.Fprintf(&sb, "- %s\n", db)
		}
		sb.WriteString("\n")
	}

	if len(rpt.Risk.KeyConcerns) > 0 {
		sb.WriteString("## Key Concerns\n\n")
		for _, kc := range rpt.Risk.KeyConcerns {
			fmt.Fprintf(&sb, "- %s\n", kc)
		}
		sb.WriteString("\n")
	}

	for _, dom := range sortedDomains(rpt.Outputs) {
		out := rpt.Outputs[dom]
		fmt.Fprintf(&sb, "## %s Analysis\n\n", titleCase(dom))
		fmt.Fprintf(&sb, "%s\n\n", out.Summary)
		fmt.Fprintf(&sb, "Risk: %.2f (%s), confidence %.0f%%\n\n",
			out.RiskScore, out.RiskLevel, out.Confidence*100)

		if len(out.Findings) > 0 {
			sb.WriteString("### Findings\n\n")
			for _, fd := range out.Findings {
				fmt.Fprintf(&sb, "- **[%s] %s** (%s)", strings.ToUpper(string(fd.Severity)), fd.Title, fd.Category)
				if fd.Description != "" {
					fmt.Fprintf(&sb, ": %s", fd.Description)
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}

		if len(out.Recommendations) > 0 {
			sb.WriteString("### Recommendations\n\n")
			for _, rec := range out.Recommendations {
				fmt.Fprintf(&sb, "- %s\n", rec)
			}
			sb.WriteString("\n")
		}

		if len(out.DocumentsAnalyzed) > 0 {
			fmt.Fprintf(&sb, "Documents analyzed: %s\n\n", strings.Join(out.DocumentsAnalyzed, ", "))
		}
	}

	if len(rpt.Risk.PositiveFactors) > 0 {
		sb.WriteString("## Positive Factors\n\n")
		for _, pf := range rpt.Risk.PositiveFactors {
			fmt.Fprintf(&sb, "- %s\n", pf)
		}
		sb.WriteString("\n")
	}

	if rpt.Model != "" {
		fmt.Fprintf(&sb, "---\n\nGenerated with %s\n", rpt.Model)
	}
	return sb.String()
}

// ToHTML renders the report as a simple styled HTML document for email
func (f *Formatter) ToHTML(rpt *domain.DealReport) string {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>")
	sb.WriteString("body{font-family:Arial,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#222}")
	sb.WriteString("table{border-collapse:collapse;width:100%;margin:12px 0}")
	sb.WriteString("th,td{border:1px solid #ddd;padding:8px;text-align:left}")
	sb.WriteString("th{background:#f4f4f4}")
	sb.WriteString(".rec{font-size:1.2em;font-weight:bold;padding:10px;border-radius:4px;display:inline-block}")
	sb.WriteString("</style></head><body>")

	fmt.Fprintf(&sb, "<h1>Due Diligence Report - %s</h1>", rpt.Date.Format("January 2, 2006"))
	if rpt.Company.Name != "" {
		fmt.Fprintf(&sb, "<p><strong>Target:</strong> %s (%s)</p>",
			html.EscapeString(rpt.Company.Name), html.EscapeString(rpt.Company.ID))
	}

	fmt.Fprintf(&sb, "<h2>Executive Summary</h2><p>%s</p>", html.EscapeString(rpt.Summary))

	if !rpt.NothingToNote {
		fmt.Fprintf(&sb, "<p><span class=\"rec\" style=\"background:%s;color:#fff\">%s</span> health %d/100, risk %.2f</p>",
			recommendationHex(rpt.Overall.RecommendationColor), rpt.Overall.Recommendation,
			rpt.Overall.OverallHealthScore, rpt.Overall.OverallRiskScore)

		if len(rpt.ScoringTable) > 0 {
			sb.WriteString("<h2>Scoring Table</h2><table><tr><th>Domain</th><th>Score</th><th>Risk</th><th>Status</th></tr>")
			for _, row := range rpt.ScoringTable {
				fmt.Fprintf(&sb, "<tr><td>%s</td><td>%d/%d</td><td>%.2f</td><td>%s</td></tr>",
					html.EscapeString(row.Domain), row.Score, row.MaxScore, row.RiskScore, html.EscapeString(row.Status))
			}
			sb.WriteString("</table>")
		}

		if len(rpt.Risk.DealBreakers) > 0 {
			sb.WriteString("<h2>Deal Breakers</h2><ul>")
			for _, db := range rpt.Risk.DealBreakers {
				fmt.Fprintf(&sb, "<li>%s</li>", html.EscapeString(db))
			}
			sb.WriteString("</ul>")
		}

		if len(rpt.Risk.KeyConcerns) > 0 {
			sb.WriteString("<h2>Key Concerns</h2><ul>")
			for _, kc := range rpt.Risk.KeyConcerns {
				fmt.Fprintf(&sb, "<li>%s</li>", html.EscapeString(kc))
			}
			sb.WriteString("</ul>")
		}
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

// ToJSON encodes the report in the consolidated schema consumed by the UI
func (f *Formatter) ToJSON(rpt *domain.DealReport) ([]byte, error) {
	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return data, nil
}

// recommendationHex maps the scoring color names onto email-safe hex codes
func recommendationHex(color string) string {
	switch color {
	case "green":
		return "#2e7d32"
	case "yellow":
		return "#f9a825"
	case "orange":
		return "#ef6c00"
	case "red":
		return "#c62828"
	default:
		return "#607d8b"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s == "hr" {
		return "HR"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedDomains(outputs map[string]domain.AgentOutput) []string {
	domains := make([]string, 0, len(outputs))
	for d := range outputs {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
