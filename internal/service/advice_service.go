package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/knowledge"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/speech"
)

// Confidence reported for advice that did not come from a scored match.
const (
	generatedConfidence = 0.5
	keywordConfidence   = 0.6
	defaultConfidence   = 0.3
	// minGeneratedLength is the shortest generated text accepted as a fallback answer.
	minGeneratedLength = 20
)

// KnowledgeBase is the lookup side of the knowledge base.
type KnowledgeBase interface {
	FindSolution(query string) (knowledge.Match, bool)
}

// AdviceGenerator produces general tips when nothing specific matches.
type AdviceGenerator interface {
	Generate(query string) (string, domain.Category)
}

// AdviceService turns a farmer's question into agricultural advice.
type AdviceService interface {
	// Advise answers question. english is its English translation, which
	// may be empty or a translation fallback when translation failed; the
	// original question is then matched against the isiZulu keyword table.
	Advise(ctx context.Context, question, english string) domain.AgriculturalAdvice
}

// AdviceServiceImpl implements AdviceService
type AdviceServiceImpl struct {
	kb        KnowledgeBase
	generator AdviceGenerator
	logger    *slog.Logger
}

var _ AdviceService = (*AdviceServiceImpl)(nil)

// NewAdviceService creates a new AdviceService
func NewAdviceService(kb KnowledgeBase, generator AdviceGenerator, logger *slog.Logger) *AdviceServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdviceServiceImpl{
		kb:        kb,
		generator: generator,
		logger:    logger.With("component", "advice_service"),
	}
}

// Advise implements AdviceService.
func (s *AdviceServiceImpl) Advise(ctx context.Context, question, english string) domain.AgriculturalAdvice {
	log := logger.FromContextOrDefault(ctx, s.logger)

	english = strings.TrimSpace(english)
	if english == "" || speech.IsUntranslated(english) || s.kb == nil {
		log.Debug("no usable translation, using keyword advice")
		return s.fallback(question, english)
	}

	if m, ok := s.kb.FindSolution(english); ok {
		if text, ok := knowledge.FormatSolution(m); ok {
			log.Debug("knowledge base match",
				"category", m.Category,
				"confidence", m.Confidence)
			return domain.AgriculturalAdvice{
				Category:   m.Category,
				Text:       text,
				Source:     domain.SourceKnowledgeBase,
				Confidence: m.Confidence,
			}
		}
	}

	if s.generator == nil {
		return s.fallback(question, english)
	}
	text, category := s.generator.Generate(english)
	return domain.AgriculturalAdvice{
		Category:   category,
		Text:       text,
		Source:     domain.SourceGenerated,
		Confidence: generatedConfidence,
	}
}

// fallback answers from the isiZulu keyword table, then from generated
// tips, then from the fixed default answers.
func (s *AdviceServiceImpl) fallback(question, english string) domain.AgriculturalAdvice {
	lower := strings.ToLower(question)

	if k, ok := knowledge.MatchKeyword(lower); ok {
		return domain.AgriculturalAdvice{
			Category:   k.Category,
			Text:       k.English,
			TextZulu:   k.Zulu,
			Source:     domain.SourceKeyword,
			Confidence: keywordConfidence,
		}
	}

	if s.generator != nil {
		input := english
		if input == "" || speech.IsUntranslated(input) {
			input = lower
		}
		if text, category := s.generator.Generate(input); len(strings.TrimSpace(text)) > minGeneratedLength {
			return domain.AgriculturalAdvice{
				Category:   category,
				Text:       text,
				Source:     domain.SourceGenerated,
				Confidence: generatedConfidence,
			}
		}
	}

	return domain.AgriculturalAdvice{
		Category:   domain.CategoryGeneral,
		Text:       knowledge.DefaultAdvice(lower),
		Source:     domain.SourceDefault,
		Confidence: defaultConfidence,
	}
}
