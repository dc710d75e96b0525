// Package retrieval ranks guide snippets against a query using BM25.
// Scoring is pure and deterministic: fixed inputs always produce the same
// ordering, ties keep the original corpus order, and a query that matches
// nothing degrades to corpus order instead of failing the run.
package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"aramcoach/internal/types"
)

// BM25 free parameters. These match the rank_bm25 defaults the scoring was
// calibrated against.
const (
	k1 = 1.5
	b  = 0.75
)

// Rank scores corpus snippets against query and returns the top k by
// descending score. The corpus is never mutated; returned snippets are
// copies with Score populated. An empty corpus yields an empty result.
func Rank(query string, corpus []types.Snippet, k int) []types.Snippet {
	if len(corpus) == 0 || k <= 0 {
		return nil
	}

	docs := make([][]string, len(corpus))
	totalLen := 0
	for i, s := range corpus {
		docs[i] = Tokenize(s.Champion + " " + s.Text)
		totalLen += len(docs[i])
	}
	avgLen := float64(totalLen) / float64(len(corpus))
	if avgLen == 0 {
		avgLen = 1
	}

	// Document frequency per term.
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := float64(len(corpus))
	terms := Tokenize(query)

	ranked := make([]types.Snippet, len(corpus))
	for i, s := range corpus {
		tf := make(map[string]int, len(docs[i]))
		for _, t := range docs[i] {
			tf[t]++
		}

		var score float64
		for _, term := range terms {
			f := float64(tf[term])
			if f == 0 {
				continue
			}
			idf := math.Log(1 + (n-float64(df[term])+0.5)/(float64(df[term])+0.5))
			norm := 1 - b + b*float64(len(docs[i]))/avgLen
			score += idf * f * (k1 + 1) / (f + k1*norm)
		}

		ranked[i] = s
		ranked[i].Score = score
	}

	// Stable sort keeps corpus order on ties, which also covers the
	// no-matching-terms case: all scores zero, original order preserved.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Tokenize lowercases text and splits it on anything that is not a letter
// or digit. Apostrophes are dropped so "Cho'Gath" tokenizes as "chogath".
func Tokenize(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "'", ""))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
