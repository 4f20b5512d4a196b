package rag

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// BM25 free parameters; the usual defaults.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Index scores chunks against a query by term frequency and inverse
// document frequency. It is rebuilt wholesale on ingest; queries only read.
type bm25Index struct {
	docTerms  []map[string]int // term frequencies per chunk
	docLens   []int
	avgDocLen float64
	docFreq   map[string]int // chunks containing each term
}

func newBM25Index() *bm25Index {
	return &bm25Index{docFreq: make(map[string]int)}
}

// add indexes one chunk's text; order must match the store's chunk slice
func (idx *bm25Index) add(text string) {
	terms := tokenize(text)
	freq := make(map[string]int, len(terms))
	for _, t := range terms {
		freq[t]++
	}
	for t := range freq {
		idx.docFreq[t]++
	}
	idx.docTerms = append(idx.docTerms, freq)
	idx.docLens = append(idx.docLens, len(terms))

	total := 0
	for _, l := range idx.docLens {
		total += l
	}
	idx.avgDocLen = float64(total) / float64(len(idx.docLens))
}

// score returns the BM25 score of the query against chunk i
func (idx *bm25Index) score(queryTerms []string, i int) float64 {
	if i >= len(idx.docTerms) || idx.avgDocLen == 0 {
		return 0
	}
	n := float64(len(idx.docTerms))
	docLen := float64(idx.docLens[i])
	var score float64
	for _, t := range queryTerms {
		tf := float64(idx.docTerms[i][t])
		if tf == 0 {
			continue
		}
		df := float64(idx.docFreq[t])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		score += idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*docLen/idx.avgDocLen))
	}
	return score
}

// rank returns candidate indices ordered by descending score, dropping
// zero-score candidates.
func (idx *bm25Index) rank(query string, candidates []int) []scored {
	terms := tokenize(query)
	var out []scored
	for _, i := range candidates {
		if s := idx.score(terms, i); s > 0 {
			out = append(out, scored{index: i, score: s})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].score > out[b].score })
	return out
}

type scored struct {
	index int
	score float64
}

// stopwords excluded from indexing and queries
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "was": true,
	"were": true, "will": true, "with": true,
}

// tokenize lowercases, splits on non-alphanumerics, and drops stopwords
// and single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 && !stopwords[f] {
			out = append(out, f)
		}
	}
	return out
}
