package api

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/service"
	"github.com/go-playground/validator/v10"
)

// MaxSpeechTextLength bounds text sent to speech synthesis.
const MaxSpeechTextLength = 5000

// VoiceHandler serves the voice assistant endpoints.
type VoiceHandler struct {
	voice     service.VoiceService
	validator *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(voice service.VoiceService, logger *slog.Logger) *VoiceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoiceHandler{
		voice:     voice,
		validator: validator.New(),
		logger:    logger.With("component", "voice_handler"),
		now:       time.Now,
	}
}

// VoiceQuery handles POST /api/voice-query. A failed pipeline run still
// returns the result body, with status 500.
func (h *VoiceHandler) VoiceQuery(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	farmerID, ok := requireFarmerID(w, r, log)
	if !ok {
		return
	}

	var req *VoiceQueryRequest
	if err := shared.DecodeJSON(r, &req); err != nil || req == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid JSON data")
		return
	}
	if req.Audio == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No audio data provided")
		return
	}
	if strings.TrimSpace(*req.Audio) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Empty audio data")
		return
	}

	log.Debug("processing voice query", "audio_length", len(*req.Audio))
	res := h.voice.ProcessAudio(r.Context(), farmerID, *req.Audio)

	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
		log.Warn("voice query failed", "error", res.Error)
	}
	shared.RespondWithJSON(w, r, status, res)
}

// TextQuery handles POST /api/text-query.
func (h *VoiceHandler) TextQuery(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	farmerID, ok := requireFarmerID(w, r, log)
	if !ok {
		return
	}

	var req TextQueryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid JSON data")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	lang := domain.Language(req.Language)
	if lang == "" {
		lang = domain.LanguageZulu
	}

	res, err := h.voice.ProcessText(r.Context(), farmerID, req.Text, lang, req.IncludeAudio)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to answer question")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// TestVoice handles GET /api/test-voice.
func (h *VoiceHandler) TestVoice(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Voice recognition system is active and ready.",
	})
}

// GeneralAdviceAudio handles GET /api/general-advice-audio.
func (h *VoiceHandler) GeneralAdviceAudio(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.voice.GeneralAdviceAudio(r.Context()))
}

// TextToSpeech handles POST /api/text-to-speech.
func (h *VoiceHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	start := h.now()

	var req *TextToSpeechRequest
	if err := shared.DecodeJSON(r, &req); err != nil || req == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid JSON data")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No text provided")
		return
	}
	if len([]rune(text)) > MaxSpeechTextLength {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Text too long (maximum %d characters)", MaxSpeechTextLength))
		return
	}

	locale := req.LanguageCode
	if locale == "" {
		locale = domain.LocaleZulu
	}
	if !domain.IsSupportedLocale(locale) {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Unsupported language. Supported: "+strings.Join(domain.SupportedLocales, ", "))
		return
	}

	gender := domain.VoiceNeutral
	if req.VoiceGender != "" {
		g, ok := domain.ParseVoiceGender(req.VoiceGender)
		if !ok {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Unsupported voice gender. Supported: MALE, FEMALE, NEUTRAL")
			return
		}
		gender = g
	}

	audio, err := h.voice.TextToSpeech(r.Context(), text, locale, gender)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Generated audio is invalid or too small", err)
		return
	}

	end := h.now()
	log.Debug("speech synthesized", "bytes", len(audio), "locale", locale)
	shared.RespondWithJSON(w, r, http.StatusOK, TextToSpeechResponse{
		Success:        true,
		AudioContent:   base64.StdEncoding.EncodeToString(audio),
		Text:           text,
		LanguageCode:   locale,
		VoiceGender:    string(gender),
		AudioSize:      len(audio),
		ProcessingTime: end.Sub(start).Seconds(),
		Timestamp:      end.UTC(),
	})
}

// QueryHistory handles GET /api/queries.
func (h *VoiceHandler) QueryHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	farmerID, ok := requireFarmerID(w, r, log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", service.DefaultHistoryLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if limit == 0 {
		HandleAPIError(w, r, service.ErrInvalidLimit, "")
		return
	}

	queries, err := h.voice.History(r.Context(), farmerID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load query history")
		return
	}
	if queries == nil {
		queries = []*domain.Query{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, QueryHistoryResponse{Queries: queries, Count: len(queries)})
}
