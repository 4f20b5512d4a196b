package rag

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsense/diligence/internal/domain"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(testLogger())
	stats, err := store.IngestDir("testdata/knowledge")
	require.NoError(t, err)
	require.Equal(t, 3, stats.Documents)
	require.Greater(t, stats.Chunks, 0)
	return store
}

func TestIngestDirMetadata(t *testing.T) {
	store := testStore(t)

	results := store.Search("class action litigation exposure", SearchOptions{TopK: 1})
	require.Len(t, results, 1)
	assert.Equal(t, "BBD Litigation Summary", results[0].Title)
	assert.Equal(t, "BBD", results[0].CompanyID)
	assert.Equal(t, domain.CategoryLegal, results[0].Category)
	assert.Equal(t, "litigation", results[0].DocType)
}

func TestMetadataFromDirectoryLayout(t *testing.T) {
	// The attrition report has no front matter; category and company come
	// from the hr/SUPERNOVA path segments.
	store := testStore(t)

	results := store.Search("attrition benchmark", SearchOptions{CompanyID: "SUPERNOVA", TopK: 3})
	require.NotEmpty(t, results)
	assert.Equal(t, domain.CategoryHR, results[0].Category)
	assert.Equal(t, "SUPERNOVA", results[0].CompanyID)
}

func TestSearchCategoryFilter(t *testing.T) {
	store := testStore(t)

	results := store.Search("BBD revenue debt", SearchOptions{Category: domain.CategoryLegal, TopK: 5})
	for _, c := range results {
		assert.Equal(t, domain.CategoryLegal, c.Category)
	}
}

func TestSearchCompanyFilter(t *testing.T) {
	store := testStore(t)

	results := store.Search("report", SearchOptions{CompanyID: "BBD", TopK: 10})
	for _, c := range results {
		assert.Equal(t, "BBD", c.CompanyID)
	}
}

func TestSearchRanksRelevantFirst(t *testing.T) {
	store := testStore(t)

	results := store.Search("debt-to-equity ratio maturities", SearchOptions{TopK: 3})
	require.NotEmpty(t, results)
	assert.Equal(t, "BBD Annual Report FY2025", results[0].Title)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestSearchNoMatches(t *testing.T) {
	store := testStore(t)
	assert.Empty(t, store.Search("zebra migration patterns", SearchOptions{TopK: 5}))
}

func TestDocumentsListing(t *testing.T) {
	store := testStore(t)

	docs := store.Documents(SearchOptions{CompanyID: "BBD"})
	assert.ElementsMatch(t, []string{"BBD Annual Report FY2025", "BBD Litigation Summary"}, docs)
}

func TestIngestDeduplicates(t *testing.T) {
	store := NewStore(testLogger())
	doc := domain.Document{
		Path:     "a.md",
		Title:    "A",
		Category: domain.CategoryMarket,
		Content:  "Identical paragraph about market share.",
	}
	dup := doc
	dup.Path = "b.md"

	stats := store.Ingest([]domain.Document{doc, dup})

	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, store.Size())
}

func TestContextBlock(t *testing.T) {
	chunks := []domain.Chunk{
		{Title: "Doc One", CompanyID: "BBD", Text: "First text."},
		{Title: "Doc Two", Text: "Second text."},
	}

	block := ContextBlock(chunks)

	assert.Contains(t, block, "### Source 1: Doc One (BBD)")
	assert.Contains(t, block, "### Source 2: Doc Two")
	assert.Contains(t, block, "Second text.")
}

func TestContextBlockEmpty(t *testing.T) {
	assert.Contains(t, ContextBlock(nil), "No relevant documents")
}

func TestChunkerSplitsLongDocuments(t *testing.T) {
	chunker := &Chunker{MaxChars: 120, Overlap: 20}
	para := strings.Repeat("Sentence about recurring revenue quality. ", 12)
	doc := domain.Document{Path: "x.md", Title: "X", Content: para}

	chunks := chunker.Chunk(doc)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 120)
		assert.Equal(t, "x.md", c.Source)
	}
}

func TestChunkerMergesShortParagraphs(t *testing.T) {
	chunker := DefaultChunker()
	doc := domain.Document{Path: "y.md", Title: "Y", Content: "One.\n\nTwo.\n\nThree."}

	chunks := chunker.Chunk(doc)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "Two.")
}

func TestDeduplicatorNormalizes(t *testing.T) {
	d := NewDeduplicator()

	assert.True(t, d.Add("Revenue grew 12%  this year"))
	assert.False(t, d.Add("revenue GREW 12% this year"))
	assert.Equal(t, 1, d.TotalUnique())
}

func TestTokenizeDropsStopwordsAndShortTokens(t *testing.T) {
	terms := tokenize("The revenue of BBD is at an all-time high!")
	assert.NotContains(t, terms, "the")
	assert.NotContains(t, terms, "of")
	assert.Contains(t, terms, "revenue")
	assert.Contains(t, terms, "bbd")
}
