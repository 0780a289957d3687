package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/knowledge"
)

// Knowledge search page sizes.
const (
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

// KnowledgeSearcher ranks knowledge base entries for a free-text query.
type KnowledgeSearcher interface {
	Search(query string, limit int) []knowledge.Match
}

// KnowledgeHandler exposes knowledge base search.
type KnowledgeHandler struct {
	kb KnowledgeSearcher
}

// NewKnowledgeHandler creates a new KnowledgeHandler.
func NewKnowledgeHandler(kb KnowledgeSearcher) *KnowledgeHandler {
	return &KnowledgeHandler{kb: kb}
}

// Search handles GET /api/knowledge/search?q=..&limit=..
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		HandleAPIError(w, r, fmt.Errorf("%w: q is required", domain.ErrValidation), "")
		return
	}
	limit, err := queryInt(r, "limit", defaultSearchLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if limit < 1 || limit > maxSearchLimit {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Limit must be between 1 and %d", maxSearchLimit))
		return
	}

	results := make([]KnowledgeSearchResult, 0, limit)
	for _, m := range h.kb.Search(q, limit) {
		results = append(results, KnowledgeSearchResult{
			Category:   m.Category,
			Title:      m.Entry.Title(),
			Text:       m.Entry.Text(),
			Confidence: m.Confidence,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, KnowledgeSearchResponse{Query: q, Results: results})
}
