package knowledge

import (
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// vectorizer is a TF-IDF model over unigrams and bigrams with English stop
// words removed, smoothed idf and l2-normalized rows.
type vectorizer struct {
	idf map[string]float64
}

func analyze(text string) []string {
	var words []string
	for _, w := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[w] {
			words = append(words, w)
		}
	}
	terms := append([]string(nil), words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

func fitVectorizer(docs []string) *vectorizer {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, t := range analyze(d) {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, c := range df {
		idf[t] = math.Log((1+n)/(1+float64(c))) + 1
	}
	return &vectorizer{idf: idf}
}

// transform returns the normalized vector of text. Terms outside the
// fitted vocabulary are ignored.
func (v *vectorizer) transform(text string) map[string]float64 {
	vec := make(map[string]float64)
	for _, t := range analyze(text) {
		if w, ok := v.idf[t]; ok {
			vec[t] += w
		}
	}
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}
