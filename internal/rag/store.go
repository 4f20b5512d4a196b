package rag

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/dealsense/diligence/internal/domain"
)

// Store is the in-process retrieval index over the knowledge base.
// Ingest happens once at startup; queries are concurrent-safe after that.
type Store struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
	index  *bm25Index
	dedup  *Deduplicator
	logger *log.Logger
}

// IngestStats summarizes one ingest pass
type IngestStats struct {
	Documents  int
	Chunks     int
	Duplicates int
}

// NewStore creates an empty Store
func NewStore(logger *log.Logger) *Store {
	return &Store{
		index:  newBM25Index(),
		dedup:  NewDeduplicator(),
		logger: logger,
	}
}

// IngestDir loads, chunks, deduplicates, and indexes every document under root
func (s *Store) IngestDir(root string) (IngestStats, error) {
	docs, err := NewLoader(s.logger).LoadDir(root)
	if err != nil {
		return IngestStats{}, err
	}
	return s.Ingest(docs), nil
}

// Ingest chunks and indexes the given documents
func (s *Store) Ingest(docs []domain.Document) IngestStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunker := DefaultChunker()
	stats := IngestStats{Documents: len(docs)}
	for _, doc := range docs {
		for _, chunk := range chunker.Chunk(doc) {
			if !s.dedup.Add(chunk.Text) {
				stats.Duplicates++
				continue
			}
			s.chunks = append(s.chunks, chunk)
			s.index.add(chunk.Text)
			stats.Chunks++
		}
	}
	return stats
}

// SearchOptions filter and bound a retrieval query
type SearchOptions struct {
	Category  domain.DocumentCategory
	CompanyID string
	TopK      int
}

// Search returns the top matching chunks for a query, most relevant first
func (s *Store) Search(query string, opts SearchOptions) []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topK := opts.TopK
	if topK <= 0 {
		topK = 5
	}

	candidates := make([]int, 0, len(s.chunks))
	for i, c := range s.chunks {
		if opts.Category != "" && c.Category != opts.Category {
			continue
		}
		if opts.CompanyID != "" && !strings.EqualFold(c.CompanyID, opts.CompanyID) {
			continue
		}
		candidates = append(candidates, i)
	}

	ranked := s.index.rank(query, candidates)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]domain.Chunk, 0, len(ranked))
	for _, r := range ranked {
		chunk := s.chunks[r.index]
		chunk.Score = r.score
		out = append(out, chunk)
	}
	return out
}

// Documents returns the distinct source titles currently indexed, filtered
// the same way Search is.
func (s *Store) Documents(opts SearchOptions) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, c := range s.chunks {
		if opts.Category != "" && c.Category != opts.Category {
			continue
		}
		if opts.CompanyID != "" && !strings.EqualFold(c.CompanyID, opts.CompanyID) {
			continue
		}
		if !seen[c.Title] {
			seen[c.Title] = true
			out = append(out, c.Title)
		}
	}
	return out
}

// Size returns the number of indexed chunks
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// ContextBlock formats retrieved chunks for inclusion in an agent prompt
func ContextBlock(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return "No relevant documents found in the knowledge base."
	}
	var sb strings.Builder
	for i, c := range chunks {
		fmt.Fprintf(&sb, "### Source %d: %s", i+1, c.Title)
		if c.CompanyID != "" {
			fmt.Fprintf(&sb, " (%s)", c.CompanyID)
		}
		sb.WriteString("\n")
		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}
