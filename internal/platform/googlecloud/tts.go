package googlecloud

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"google.golang.org/api/texttospeech/v1"
)

// Synthesis settings tuned for clarity on phone speakers.
const (
	synthesisEncoding   = "LINEAR16"
	synthesisRate       = 0.9
	synthesisSampleRate = 22050
)

// TextToSpeech synthesizes speech audio.
type TextToSpeech struct {
	svc *texttospeech.Service
}

// NewTextToSpeech creates a client. endpoint may be empty.
func NewTextToSpeech(ctx context.Context, apiKey, endpoint string) (*TextToSpeech, error) {
	opts, err := clientOptions(apiKey, endpoint)
	if err != nil {
		return nil, err
	}
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return &TextToSpeech{svc: svc}, nil
}

// VoiceName picks a standard voice: isiZulu has a single voice, English
// voices vary with gender.
func VoiceName(locale string, gender domain.VoiceGender) string {
	switch {
	case locale == domain.LocaleZulu:
		return locale + "-Standard-A"
	case strings.HasPrefix(locale, "en-"):
		switch gender {
		case domain.VoiceFemale:
			return locale + "-Standard-C"
		case domain.VoiceMale:
			return locale + "-Standard-D"
		default:
			return locale + "-Standard-A"
		}
	}
	return ""
}

// Synthesize returns LINEAR16 audio for text.
func (t *TextToSpeech) Synthesize(ctx context.Context, text, locale string, gender domain.VoiceGender) ([]byte, error) {
	if gender == "" {
		gender = domain.VoiceNeutral
	}
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: locale,
			Name:         VoiceName(locale, gender),
			SsmlGender:   string(gender),
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding:   synthesisEncoding,
			SpeakingRate:    synthesisRate,
			SampleRateHertz: synthesisSampleRate,
		},
	}

	resp, err := t.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, classify(fmt.Errorf("synthesize %s: %w", locale, err))
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: invalid audio content: %w", locale, err)
	}
	return audio, nil
}
