// Package speech is the voice recognition service: transcription,
// translation and speech synthesis behind circuit breakers, with degraded
// answers when the upstream APIs are unavailable.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agrinathi/agrinathi-api/internal/audio"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/resilience"
)

// Fallback messages.
const (
	UnavailableTranscript = "Speech-to-Text API is not available. Please enable Google Cloud Speech-to-Text API."
	untranslatedPrefix    = "[Translation not available] "
)

// Limits on audio and text.
const (
	// MaxSynthesisChars bounds text sent for synthesis.
	MaxSynthesisChars = 5000
	// MinAudioBytes is the smallest plausible synthesized clip.
	MinAudioBytes = 100
)

// Recognizer transcribes audio in one locale.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, locale string) (transcript string, confidence float64, err error)
}

// Translator translates text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Synthesizer renders text as audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, locale string, gender domain.VoiceGender) ([]byte, error)
}

// Guards groups the breakers for each upstream.
type Guards struct {
	Speech    *resilience.Guard
	Translate *resilience.Guard
	TTS       *resilience.Guard
}

// Service implements the voice recognition use cases. Any of the upstream
// clients may be nil, in which case the fallback is always used.
type Service struct {
	recognizer  Recognizer
	translator  Translator
	synthesizer Synthesizer
	guards      Guards
	logger      *slog.Logger
}

// NewService wires a Service.
func NewService(r Recognizer, t Translator, s Synthesizer, g Guards, l *slog.Logger) *Service {
	if l == nil {
		l = slog.Default()
	}
	return &Service{recognizer: r, translator: t, synthesizer: s, guards: g, logger: l.With(slog.String("component", "speech"))}
}

var errNotConfigured = errors.New("client not configured")

type recognition struct {
	transcript string
	confidence float64
	err        error
}

// Transcribe recognizes audio both as English and as locale and keeps the
// better result. An empty string means nothing was said.
func (s *Service) Transcribe(ctx context.Context, audio []byte, locale string) string {
	if locale == "" {
		locale = domain.LocaleZulu
	}
	transcript, _ := resilience.WithFallback(ctx, s.guards.Speech,
		func(ctx context.Context) (string, error) {
			if s.recognizer == nil {
				return "", resilience.Permanent(errNotConfigured)
			}
			return s.transcribeBoth(ctx, audio, locale)
		},
		func(error) string { return UnavailableTranscript },
	)
	return transcript
}

func (s *Service) transcribeBoth(ctx context.Context, audio []byte, locale string) (string, error) {
	var en, local recognition
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		en.transcript, en.confidence, en.err = s.recognizer.Recognize(ctx, audio, domain.LocaleEnglishUS)
	}()
	go func() {
		defer wg.Done()
		local.transcript, local.confidence, local.err = s.recognizer.Recognize(ctx, audio, locale)
	}()
	wg.Wait()

	if en.err != nil && local.err != nil {
		return "", errors.Join(en.err, local.err)
	}

	switch {
	case en.transcript != "" && en.confidence > local.confidence:
		return en.transcript, nil
	case local.transcript != "":
		return local.transcript, nil
	default:
		return en.transcript, nil
	}
}

// Translate converts text between languages. Blank input yields "".
func (s *Service) Translate(ctx context.Context, text string, source, target domain.Language) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	out, _ := resilience.WithFallback(ctx, s.guards.Translate,
		func(ctx context.Context) (string, error) {
			if s.translator == nil {
				return "", resilience.Permanent(errNotConfigured)
			}
			return s.translator.Translate(ctx, text, string(source), string(target))
		},
		func(error) string { return untranslatedPrefix + text },
	)
	return out
}

// Synthesize renders text as speech. Blank input yields nil. When the
// upstream fails or returns an implausibly small clip, a placeholder tone
// of matching length is returned instead.
func (s *Service) Synthesize(ctx context.Context, text, locale string, gender domain.VoiceGender) []byte {
	text = TruncateForSynthesis(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	out, _ := resilience.WithFallback(ctx, s.guards.TTS,
		func(ctx context.Context) ([]byte, error) {
			if s.synthesizer == nil {
				return nil, resilience.Permanent(errNotConfigured)
			}
			b, err := s.synthesizer.Synthesize(ctx, text, locale, gender)
			if err != nil {
				return nil, err
			}
			if len(b) < MinAudioBytes {
				return nil, resilience.Permanent(fmt.Errorf("synthesized audio too small: %d bytes", len(b)))
			}
			return b, nil
		},
		func(error) []byte { return audio.PlaceholderWAV(text) },
	)
	return out
}

// IsUntranslated reports whether text is the translation fallback rather
// than a real translation.
func IsUntranslated(text string) bool {
	return strings.HasPrefix(text, untranslatedPrefix)
}

// TruncateForSynthesis cuts text to MaxSynthesisChars characters.
func TruncateForSynthesis(text string) string {
	if utf8.RuneCountInString(text) <= MaxSynthesisChars {
		return text
	}
	r := []rune(text)
	return string(r[:MaxSynthesisChars])
}
