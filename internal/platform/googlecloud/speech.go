package googlecloud

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/speech/v1"
)

// Browser recordings arrive as WebM/Opus at 48 kHz.
const (
	recognitionEncoding   = "WEBM_OPUS"
	recognitionSampleRate = 48000
)

// SpeechToText transcribes short recordings.
type SpeechToText struct {
	svc *speech.Service
}

// NewSpeechToText creates a client. endpoint may be empty.
func NewSpeechToText(ctx context.Context, apiKey, endpoint string) (*SpeechToText, error) {
	opts, err := clientOptions(apiKey, endpoint)
	if err != nil {
		return nil, err
	}
	svc, err := speech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &SpeechToText{svc: svc}, nil
}

// Recognize returns the best transcript for audio in locale and its
// confidence. No speech yields an empty transcript and no error.
func (s *SpeechToText) Recognize(ctx context.Context, audio []byte, locale string) (string, float64, error) {
	req := &speech.RecognizeRequest{
		Audio: &speech.RecognitionAudio{Content: base64.StdEncoding.EncodeToString(audio)},
		Config: &speech.RecognitionConfig{
			Encoding:                   recognitionEncoding,
			SampleRateHertz:            recognitionSampleRate,
			LanguageCode:               locale,
			EnableAutomaticPunctuation: true,
		},
	}

	resp, err := s.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", 0, classify(fmt.Errorf("recognize %s: %w", locale, err))
	}

	var parts []string
	var confidence float64
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if t := strings.TrimSpace(alt.Transcript); t != "" {
			parts = append(parts, t)
			confidence += alt.Confidence
		}
	}
	if len(parts) == 0 {
		return "", 0, nil
	}
	return strings.Join(parts, " "), confidence / float64(len(parts)), nil
}
