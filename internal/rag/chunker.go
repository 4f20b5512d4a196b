package rag

import (
	"fmt"
	"strings"

	"github.com/dealsense/diligence/internal/domain"
)

// Chunker splits documents into retrievable pieces along paragraph
// boundaries, merging small paragraphs and splitting oversized ones.
type Chunker struct {
	MaxChars int
	Overlap  int
}

// DefaultChunker uses sizes tuned for prompt context windows
func DefaultChunker() *Chunker {
	return &Chunker{MaxChars: 1600, Overlap: 200}
}

// Chunk splits a document's content and carries its metadata onto every chunk
func (c *Chunker) Chunk(doc domain.Document) []domain.Chunk {
	pieces := c.split(doc.Content)
	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, text := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:        fmt.Sprintf("%s#%d", doc.Path, i),
			Text:      text,
			Source:    doc.Path,
			Title:     doc.Title,
			CompanyID: doc.CompanyID,
			Category:  doc.Category,
			DocType:   doc.DocType,
		})
	}
	return chunks
}

func (c *Chunker) split(content string) []string {
	paragraphs := strings.Split(content, "\n\n")

	var out []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, s)
		}
		current.Reset()
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(p) > c.MaxChars {
			flush()
			out = append(out, c.hardSplit(p)...)
			continue
		}
		if current.Len() > 0 && current.Len()+len(p)+2 > c.MaxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	flush()
	return out
}

// hardSplit cuts an oversized paragraph at sentence boundaries where
// possible, with overlap so no statement is stranded at a cut point.
func (c *Chunker) hardSplit(text string) []string {
	var out []string
	for len(text) > c.MaxChars {
		cut := c.MaxChars
		if i := strings.LastIndexAny(text[:cut], ".!?\n"); i > c.MaxChars/2 {
			cut = i + 1
		}
		out = append(out, strings.TrimSpace(text[:cut]))
		next := cut - c.Overlap
		if next <= 0 || next >= cut {
			next = cut
		}
		text = text[next:]
	}
	if s := strings.TrimSpace(text); s != "" {
		out = append(out, s)
	}
	return out
}
