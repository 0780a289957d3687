package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/events"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/speech"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/google/uuid"
)

// Fixed answers of the voice pipeline.
const (
	NoSpeechMessage  = "Speech not detected. Please try speaking louder and clearer."
	MicAdvice        = "Please speak clearly and ensure your microphone is working properly."
	MicAdviceZulu    = "Sicela ukhulume ngokusobala futhi uqinisekise ukuthi imakrofoni yakho iyasebenza kahle."
	RetryAdvice      = "Please try recording again. If the problem persists, contact support."
	RetryAdviceZulu  = "Sicela uzame ukurekhoda futhi. Uma inkinga iqhubeka, xhumana nosizo."
	generalAdviceAsk = "general farming advice"
)

// History page sizes.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ErrAudioTooSmall is returned for decoded audio under speech.MinAudioBytes.
var ErrAudioTooSmall = errors.New("audio data too small, likely corrupted")

// Speech is the voice recognition service as used by the pipeline.
type Speech interface {
	Transcribe(ctx context.Context, audio []byte, locale string) string
	Translate(ctx context.Context, text string, source, target domain.Language) string
	Synthesize(ctx context.Context, text, locale string, gender domain.VoiceGender) []byte
}

// QueryObserver records pipeline outcomes, typically as metrics.
type QueryObserver interface {
	ObserveQuery(channel string, success bool, d time.Duration)
}

// VoiceResult is the answer to one spoken or typed question.
type VoiceResult struct {
	Success        bool                `json:"success"`
	Error          string              `json:"error,omitempty"`
	QueryID        *uuid.UUID          `json:"query_id,omitempty"`
	Transcript     string              `json:"transcript"`
	Translation    string              `json:"translation"`
	Advice         string              `json:"advice"`
	AdviceZulu     string              `json:"advice_zulu"`
	Category       domain.Category     `json:"category,omitempty"`
	Source         domain.AdviceSource `json:"source,omitempty"`
	Confidence     float64             `json:"confidence"`
	Audio          *string             `json:"audio"`
	EnglishAudio   *string             `json:"english_audio"`
	ProcessingTime float64             `json:"processing_time"`
	Timestamp      time.Time           `json:"timestamp"`
}

// GeneralAdvice is a spoken general farming tip.
type GeneralAdvice struct {
	Advice     string  `json:"advice"`
	AdviceZulu string  `json:"advice_zulu"`
	Audio      *string `json:"audio"`
}

// VoiceService is the voice assistant: spoken and typed questions,
// speech synthesis and question history.
type VoiceService interface {
	// ProcessAudio runs base64 audio through transcription, translation,
	// advice and synthesis. Failures are reported in the result with
	// Success=false rather than as an error.
	ProcessAudio(ctx context.Context, farmerID uuid.UUID, audioBase64 string) *VoiceResult

	// ProcessText answers a typed question in language. Audio is only
	// synthesized when withAudio is set.
	ProcessText(ctx context.Context, farmerID uuid.UUID, text string, language domain.Language, withAudio bool) (*VoiceResult, error)

	// GeneralAdviceAudio returns a generated tip with isiZulu audio.
	GeneralAdviceAudio(ctx context.Context) *GeneralAdvice

	// TextToSpeech synthesizes text. It returns ErrSynthesisFailed when
	// the audio is implausibly small.
	TextToSpeech(ctx context.Context, text, locale string, gender domain.VoiceGender) ([]byte, error)

	// History lists the farmer's recent queries, newest first. A zero
	// limit means DefaultHistoryLimit.
	History(ctx context.Context, farmerID uuid.UUID, limit int) ([]*domain.Query, error)
}

// VoiceServiceImpl implements VoiceService
type VoiceServiceImpl struct {
	speech    Speech
	advice    AdviceService
	generator AdviceGenerator
	queries   store.QueryStore
	emitter   events.EventEmitter
	observer  QueryObserver
	logger    *slog.Logger
	now       func() time.Time
}

var _ VoiceService = (*VoiceServiceImpl)(nil)

// NewVoiceService creates a new VoiceService. emitter and observer may be nil.
func NewVoiceService(
	sp Speech,
	advice AdviceService,
	generator AdviceGenerator,
	queries store.QueryStore,
	emitter events.EventEmitter,
	observer QueryObserver,
	logger *slog.Logger,
) *VoiceServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoiceServiceImpl{
		speech:    sp,
		advice:    advice,
		generator: generator,
		queries:   queries,
		emitter:   emitter,
		observer:  observer,
		logger:    logger.With("component", "voice_service"),
		now:       time.Now,
	}
}

// decodeAudio accepts plain base64 or a data URL.
func decodeAudio(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 audio: %w", err)
	}
	return b, nil
}

// ProcessAudio implements VoiceService.
func (s *VoiceServiceImpl) ProcessAudio(ctx context.Context, farmerID uuid.UUID, audioBase64 string) *VoiceResult {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := s.now()

	raw, err := decodeAudio(audioBase64)
	if err == nil && len(raw) < speech.MinAudioBytes {
		err = ErrAudioTooSmall
	}
	if err != nil {
		log.Warn("rejecting voice query", "farmer_id", farmerID, "error", err)
		return s.failure(ctx, farmerID, domain.ChannelVoice, start, err)
	}

	log.Info("processing voice query", "farmer_id", farmerID, "audio_bytes", len(raw))

	res := &VoiceResult{Success: true}
	res.Transcript = strings.TrimSpace(s.speech.Transcribe(ctx, raw, domain.LocaleZulu))

	switch res.Transcript {
	case "":
		res.Transcript = NoSpeechMessage
		res.Translation = NoSpeechMessage
		res.Advice, res.AdviceZulu = MicAdvice, MicAdviceZulu
		res.Category, res.Source = domain.CategoryGeneral, domain.SourceFallback
	case speech.UnavailableTranscript:
		// The message is not a question; answer with retry advice instead.
		res.Translation = res.Transcript
		res.Advice, res.AdviceZulu = RetryAdvice, RetryAdviceZulu
		res.Category, res.Source = domain.CategoryGeneral, domain.SourceFallback
	default:
		res.Translation = s.speech.Translate(ctx, res.Transcript, domain.LanguageZulu, domain.LanguageEnglish)
		s.answer(ctx, res, res.Transcript, res.Translation)
	}

	s.synthesize(ctx, res)
	s.complete(ctx, farmerID, domain.ChannelVoice, domain.LanguageZulu, start, res)
	return res
}

// ProcessText implements VoiceService.
func (s *VoiceServiceImpl) ProcessText(
	ctx context.Context,
	farmerID uuid.UUID,
	text string,
	language domain.Language,
	withAudio bool,
) (*VoiceResult, error) {
	start := s.now()
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuestion
	}
	if language == "" {
		language = domain.LanguageZulu
	}
	if language != domain.LanguageZulu && language != domain.LanguageEnglish {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	res := &VoiceResult{Success: true, Transcript: text}
	if language == domain.LanguageEnglish {
		res.Translation = text
	} else {
		res.Translation = s.speech.Translate(ctx, text, domain.LanguageZulu, domain.LanguageEnglish)
	}
	s.answer(ctx, res, text, res.Translation)

	if withAudio {
		s.synthesize(ctx, res)
	}
	s.complete(ctx, farmerID, domain.ChannelText, language, start, res)
	return res, nil
}

// answer fills advice fields of res.
func (s *VoiceServiceImpl) answer(ctx context.Context, res *VoiceResult, question, english string) {
	adv := s.advice.Advise(ctx, question, english)
	res.Advice = adv.Text
	res.AdviceZulu = adv.TextZulu
	if res.AdviceZulu == "" {
		res.AdviceZulu = s.speech.Translate(ctx, adv.Text, domain.LanguageEnglish, domain.LanguageZulu)
	}
	res.Category = adv.Category
	res.Source = adv.Source
	res.Confidence = adv.Confidence
}

// synthesize adds isiZulu and English audio. An untranslated isiZulu
// answer is not voiced with the isiZulu voice.
func (s *VoiceServiceImpl) synthesize(ctx context.Context, res *VoiceResult) {
	if !speech.IsUntranslated(res.AdviceZulu) {
		res.Audio = encodeAudio(s.speech.Synthesize(ctx, res.AdviceZulu, domain.LocaleZulu, domain.VoiceNeutral))
	}
	res.EnglishAudio = encodeAudio(s.speech.Synthesize(ctx, res.Advice, domain.LocaleEnglishUS, domain.VoiceNeutral))
}

func encodeAudio(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	enc := base64.StdEncoding.EncodeToString(b)
	return &enc
}

func (s *VoiceServiceImpl) failure(
	ctx context.Context,
	farmerID uuid.UUID,
	channel domain.QueryChannel,
	start time.Time,
	err error,
) *VoiceResult {
	end := s.now()
	d := end.Sub(start)
	if s.observer != nil {
		s.observer.ObserveQuery(string(channel), false, d)
	}
	return &VoiceResult{
		Success:        false,
		Error:          "Failed to process audio: " + err.Error(),
		Advice:         RetryAdvice,
		AdviceZulu:     RetryAdviceZulu,
		ProcessingTime: d.Seconds(),
		Timestamp:      end.UTC(),
	}
}

// complete stamps timing on res, persists the query, emits
// query.completed and records metrics. Persistence and event failures are
// logged; the farmer still gets the answer.
func (s *VoiceServiceImpl) complete(
	ctx context.Context,
	farmerID uuid.UUID,
	channel domain.QueryChannel,
	language domain.Language,
	start time.Time,
	res *VoiceResult,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	end := s.now()
	d := end.Sub(start)
	res.ProcessingTime = d.Seconds()
	res.Timestamp = end.UTC()

	if s.observer != nil {
		s.observer.ObserveQuery(string(channel), res.Success, d)
	}

	q, err := domain.NewQuery(farmerID, channel, language)
	if err != nil {
		log.Error("failed to build query record", "error", err, "farmer_id", farmerID)
		return
	}
	q.Transcript = res.Transcript
	q.Translation = res.Translation
	q.Advice = res.Advice
	q.AdviceZulu = res.AdviceZulu
	q.Category = res.Category
	q.Source = res.Source
	q.Confidence = res.Confidence
	q.Success = res.Success
	q.ProcessingTime = d
	q.CreatedAt = end.UTC()

	if err := s.queries.Create(ctx, q); err != nil {
		log.Error("failed to save query", "error", err, "farmer_id", farmerID)
	} else {
		id := q.ID
		res.QueryID = &id
	}

	if s.emitter == nil {
		return
	}
	ev, err := events.NewEvent(events.TypeQueryCompleted, events.QueryCompleted{
		QueryID:          q.ID,
		FarmerID:         farmerID,
		Channel:          string(channel),
		Language:         string(language),
		Category:         string(q.Category),
		Source:           string(q.Source),
		Confidence:       q.Confidence,
		Success:          q.Success,
		ProcessingMillis: d.Milliseconds(),
		Question:         q.Translation,
		Advice:           q.Advice,
		CreatedAt:        q.CreatedAt,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, ev)
	}
	if err != nil {
		log.Warn("failed to emit query event", "error", err, "query_id", q.ID)
	}
}

// GeneralAdviceAudio implements VoiceService.
func (s *VoiceServiceImpl) GeneralAdviceAudio(ctx context.Context) *GeneralAdvice {
	text := generalAdviceAsk
	if s.generator != nil {
		text, _ = s.generator.Generate(generalAdviceAsk)
	}
	zulu := s.speech.Translate(ctx, text, domain.LanguageEnglish, domain.LanguageZulu)
	out := &GeneralAdvice{Advice: text, AdviceZulu: zulu}
	if !speech.IsUntranslated(zulu) {
		out.Audio = encodeAudio(s.speech.Synthesize(ctx, zulu, domain.LocaleZulu, domain.VoiceNeutral))
	}
	return out
}

// TextToSpeech implements VoiceService.
func (s *VoiceServiceImpl) TextToSpeech(ctx context.Context, text, locale string, gender domain.VoiceGender) ([]byte, error) {
	audio := s.speech.Synthesize(ctx, text, locale, gender)
	if len(audio) < speech.MinAudioBytes {
		logger.FromContextOrDefault(ctx, s.logger).Error("synthesized audio too small",
			"bytes", len(audio),
			"locale", locale)
		return nil, ErrSynthesisFailed
	}
	return audio, nil
}

// History implements VoiceService.
func (s *VoiceServiceImpl) History(ctx context.Context, farmerID uuid.UUID, limit int) ([]*domain.Query, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxHistoryLimit)
	}
	qs, err := s.queries.ListByFarmer(ctx, farmerID, limit)
	if err != nil {
		return nil, NewServiceError("voice", "history", err)
	}
	return qs, nil
}
