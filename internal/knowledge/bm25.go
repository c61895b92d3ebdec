package knowledge

import (
	"math"
	"sort"
	"strings"

	"github.com/kendrickl1675/Lecture-Agent/internal/entities"
)

// Default BM25 parameters.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// Hit is a scored chunk. Score is normalized to [0, 1).
type Hit struct {
	Chunk entities.Chunk
	Score float64
}

// Scorer ranks chunks against a query with BM25. Statistics are computed
// over the chunk set passed to Rank.
type Scorer struct {
	K1 float64
	B  float64
}

func NewScorer() Scorer {
	return Scorer{K1: DefaultK1, B: DefaultB}
}

// IDF computes the inverse document frequency of a term.
//
//	IDF(q) = ln(1 + (N - n(q) + 0.5) / (n(q) + 0.5))
func (s Scorer) IDF(docFreq, docCount int) float64 {
	n := float64(docFreq)
	N := float64(docCount)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}

// Rank scores every chunk and returns at most k hits whose normalized score
// is at least minScore, best first.
//
// A raw BM25 score is divided by the sum of IDF(q)*(k1+1) over the distinct
// query terms, the value it approaches as every term frequency grows. That
// keeps scores comparable across queries so a fixed threshold makes sense.
func (s Scorer) Rank(query string, chunks []entities.Chunk, k int, minScore float64) []Hit {
	queryTerms := distinct(Analyze(query))
	if len(queryTerms) == 0 || len(chunks) == 0 || k <= 0 {
		return nil
	}

	docs := make([]map[string]int, len(chunks))
	totalLen := 0
	docFreq := make(map[string]int, len(queryTerms))
	for i, c := range chunks {
		tf := make(map[string]int)
		for _, term := range strings.Fields(c.Terms) {
			tf[term]++
		}
		docs[i] = tf
		totalLen += docLength(c)
		for _, q := range queryTerms {
			if tf[q] > 0 {
				docFreq[q]++
			}
		}
	}

	avgLen := float64(totalLen) / float64(len(chunks))
	if avgLen == 0 {
		avgLen = 1
	}

	idf := make(map[string]float64, len(queryTerms))
	var bound float64
	for _, q := range queryTerms {
		idf[q] = s.IDF(docFreq[q], len(chunks))
		bound += idf[q] * (s.K1 + 1)
	}
	if bound == 0 {
		return nil
	}

	var hits []Hit
	for i, c := range chunks {
		dl := float64(docLength(c))
		var score float64
		for _, q := range queryTerms {
			tf := float64(docs[i][q])
			if tf == 0 {
				continue
			}
			score += idf[q] * tf * (s.K1 + 1) / (tf + s.K1*(1-s.B+s.B*dl/avgLen))
		}
		if score == 0 {
			continue
		}
		if normalized := score / bound; normalized >= minScore {
			hits = append(hits, Hit{Chunk: c, Score: normalized})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func docLength(c entities.Chunk) int {
	if c.Length > 0 {
		return c.Length
	}
	return len(strings.Fields(c.Terms))
}

func distinct(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
