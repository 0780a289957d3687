package knowledge

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// directConfidence is reported for keyword hits.
const directConfidence = 0.8

// minSimilarity is the cosine score a TF-IDF hit must exceed.
const minSimilarity = 0.1

// Keywords are checked in this order; the first substring hit decides the category.
var directKeywords = []struct {
	word     string
	category domain.Category
}{
	{"disease", domain.CategoryDiseases},
	{"diseased", domain.CategoryDiseases},
	{"sick", domain.CategoryDiseases},
	{"infection", domain.CategoryDiseases},
	{"fungus", domain.CategoryDiseases},
	{"blight", domain.CategoryDiseases},
	{"rot", domain.CategoryDiseases},
	{"pest", domain.CategoryPests},
	{"insect", domain.CategoryPests},
	{"bug", domain.CategoryPests},
	{"aphid", domain.CategoryPests},
	{"worm", domain.CategoryPests},
	{"fertilizer", domain.CategoryFertilizers},
	{"manure", domain.CategoryFertilizers},
	{"compost", domain.CategoryFertilizers},
	{"water", domain.CategoryWatering},
	{"watering", domain.CategoryWatering},
	{"irrigation", domain.CategoryWatering},
	{"plant", domain.CategoryPlanting},
	{"seed", domain.CategoryPlanting},
	{"sow", domain.CategoryPlanting},
	{"maize", domain.CategoryPlanting},
	{"corn", domain.CategoryPlanting},
}

// Base is an immutable, concurrency-safe knowledge base.
type Base struct {
	entries map[domain.Category][]Entry
	vec     *vectorizer
	docs    []indexedEntry
}

type indexedEntry struct {
	entry Entry
	vec   map[string]float64
}

// Load builds the knowledge base from the embedded seed plus, when
// extraPath is non-empty and exists, a JSON array of items typed "disease"
// or "pest". A malformed extra file is logged and skipped.
func Load(extraPath string, logger *slog.Logger) (*Base, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var seed map[string][]Entry
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge seed: %w", err)
	}

	entries := make(map[domain.Category][]Entry, len(domain.Categories))
	if extraPath != "" {
		extra, err := loadExtra(extraPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Debug("knowledge extra data file not found", slog.String("path", extraPath))
		case err != nil:
			logger.Warn("failed to load knowledge extra data", slog.String("path", extraPath), slog.String("error", err.Error()))
		default:
			for _, item := range extra {
				switch item.Type {
				case "disease":
					entries[domain.CategoryDiseases] = append(entries[domain.CategoryDiseases], item)
				case "pest":
					entries[domain.CategoryPests] = append(entries[domain.CategoryPests], item)
				}
			}
		}
	}

	for _, c := range domain.Categories {
		entries[c] = append(entries[c], seed[string(c)]...)
	}

	return newBase(entries), nil
}

func loadExtra(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []Entry
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid extra data: %w", err)
	}
	return items, nil
}

func newBase(entries map[domain.Category][]Entry) *Base {
	b := &Base{entries: entries}

	var corpus []string
	for _, c := range domain.Categories {
		for i := range entries[c] {
			entries[c][i].Category = c
			corpus = append(corpus, entries[c][i].fields()...)
		}
	}
	b.vec = fitVectorizer(corpus)

	for _, c := range domain.Categories {
		for _, e := range entries[c] {
			b.docs = append(b.docs, indexedEntry{entry: e, vec: b.vec.transform(e.Text())})
		}
	}
	return b
}

// Entries returns the entries of a category.
func (b *Base) Entries(c domain.Category) []Entry {
	return append([]Entry(nil), b.entries[c]...)
}

// FindSolution returns the most relevant entry for an English query: a
// direct keyword hit first, then the best TF-IDF match above the threshold.
func (b *Base) FindSolution(query string) (Match, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Match{}, false
	}
	if m, ok := b.directMatch(q); ok {
		return m, true
	}
	return b.similarityMatch(q)
}

func (b *Base) directMatch(q string) (Match, bool) {
	for _, k := range directKeywords {
		if !strings.Contains(q, k.word) {
			continue
		}
		if items := b.entries[k.category]; len(items) > 0 {
			return Match{Category: k.category, Entry: items[0], Confidence: directConfidence}, true
		}
	}
	return Match{}, false
}

func (b *Base) similarityMatch(q string) (Match, bool) {
	qv := b.vec.transform(q)
	var best Match
	found := false
	for _, d := range b.docs {
		score := cosine(qv, d.vec)
		if score > minSimilarity && score > best.Confidence {
			best = Match{Category: d.entry.Category, Entry: d.entry, Confidence: score}
			found = true
		}
	}
	return best, found
}

// Search ranks every entry by TF-IDF similarity to query and returns up to
// limit hits above the threshold.
func (b *Base) Search(query string, limit int) []Match {
	qv := b.vec.transform(strings.ToLower(query))
	var out []Match
	for _, d := range b.docs {
		if score := cosine(qv, d.vec); score > minSimilarity {
			out = append(out, Match{Category: d.entry.Category, Entry: d.entry, Confidence: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Disease looks up a disease or pest by case-insensitive name.
func (b *Base) Disease(name string) (domain.Disease, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range []domain.Category{domain.CategoryDiseases, domain.CategoryPests} {
		for _, e := range b.entries[c] {
			if strings.ToLower(e.Name) == name {
				return e.Disease(), true
			}
		}
	}
	return domain.Disease{}, false
}

// DiseaseNames lists the known diseases and pests, used to prompt the image classifier.
func (b *Base) DiseaseNames() []string {
	var names []string
	for _, c := range []domain.Category{domain.CategoryDiseases, domain.CategoryPests} {
		for _, e := range b.entries[c] {
			names = append(names, e.Name)
		}
	}
	return names
}
