package domain

import "strings"

// Company identifies an analysis target in the knowledge base
type Company struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Registry holds the companies known to the knowledge base
type Registry struct {
	companies []Company
}

// NewRegistry creates a registry from a company list
func NewRegistry(companies []Company) *Registry {
	return &Registry{companies: companies}
}

// All returns every registered company
func (r *Registry) All() []Company {
	return r.companies
}

// Lookup resolves a company by id or name, case-insensitively
func (r *Registry) Lookup(s string) (Company, bool) {
	s = strings.TrimSpace(s)
	for _, c := range r.companies {
		if strings.EqualFold(c.ID, s) || strings.EqualFold(c.Name, s) {
			return c, true
		}
	}
	return Company{}, false
}

// Find scans free text for a mention of any registered company.
// IDs are matched as whole uppercase tokens, names as substrings.
func (r *Registry) Find(text string) (Company, bool) {
	lower := strings.ToLower(text)
	for _, c := range r.companies {
		if c.Name != "" && strings.Contains(lower, strings.ToLower(c.Name)) {
			return c, true
		}
	}
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		for _, c := range r.companies {
			if strings.EqualFold(c.ID, tok) {
				return c, true
			}
		}
	}
	return Company{}, false
}

// DefaultCompanies is the demo company set used when no registry is configured
var DefaultCompanies = []Company{
	{ID: "BBD", Name: "BBD Ltd"},
	{ID: "XYZ", Name: "XYZ Ltd"},
	{ID: "SUPERNOVA", Name: "Supernova Inc"},
	{ID: "RASPUTIN", Name: "Rasputin Petroleum Ltd"},
	{ID: "TECHNOBOX", Name: "Techno Box Inc"},
}
