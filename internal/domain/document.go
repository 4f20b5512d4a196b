package domain

// DocumentCategory groups knowledge-base documents by analysis domain
type DocumentCategory string

const (
	CategoryFinancial DocumentCategory = "financial"
	CategoryLegal     DocumentCategory = "legal"
	CategoryHR        DocumentCategory = "hr"
	CategoryMarket    DocumentCategory = "market"
)

// Categories lists every document category in display order
var Categories = []DocumentCategory{
	CategoryFinancial,
	CategoryLegal,
	CategoryHR,
	CategoryMarket,
}

// Document is a knowledge-base document before chunking
type Document struct {
	Path      string           `json:"path"`
	Title     string           `json:"title"`
	CompanyID string           `json:"company_id,omitempty"`
	Category  DocumentCategory `json:"category"`
	DocType   string           `json:"doc_type,omitempty"`
	Content   string           `json:"-"`
}

// Chunk is a retrievable slice of a document
type Chunk struct {
	ID        string           `json:"id"`
	Text      string           `json:"text"`
	Source    string           `json:"source"`
	Title     string           `json:"title"`
	CompanyID string           `json:"company_id,omitempty"`
	Category  DocumentCategory `json:"category"`
	DocType   string           `json:"doc_type,omitempty"`
	Score     float64          `json:"score,omitempty"`
}
