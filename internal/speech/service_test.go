package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	mu      sync.Mutex
	results map[string]recognition
	locales []string
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte, locale string) (string, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locales = append(f.locales, locale)
	r := f.results[locale]
	return r.transcript, r.confidence, r.err
}

type fakeTranslator struct {
	out string
	err error
}

func (f fakeTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeSynthesizer struct {
	audio []byte
	err   error
	got   string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text, _ string, _ domain.VoiceGender) ([]byte, error) {
	f.got = text
	return f.audio, f.err
}

func testGuards() Guards {
	mk := func(name string) *resilience.Guard {
		return resilience.NewGuard(resilience.Settings{
			Name:                 name,
			FailureThreshold:     100,
			RetryInitialInterval: time.Millisecond,
			RetryMaxElapsed:      50 * time.Millisecond,
		}, nil, nil)
	}
	return Guards{Speech: mk("speech"), Translate: mk("translate"), TTS: mk("tts")}
}

func TestTranscribeChoosesBestLanguage(t *testing.T) {
	tests := []struct {
		name string
		en   recognition
		zu   recognition
		want string
	}{
		{
			name: "english more confident",
			en:   recognition{transcript: "my maize is sick", confidence: 0.9},
			zu:   recognition{transcript: "mai maize", confidence: 0.4},
			want: "my maize is sick",
		},
		{
			name: "zulu preferred on tie",
			en:   recognition{transcript: "so bona", confidence: 0.6},
			zu:   recognition{transcript: "Sawubona", confidence: 0.6},
			want: "Sawubona",
		},
		{
			name: "english when zulu empty",
			en:   recognition{transcript: "hello", confidence: 0.2},
			zu:   recognition{},
			want: "hello",
		},
		{
			name: "nothing said",
			want: "",
		},
		{
			name: "one language failed",
			en:   recognition{err: errors.New("boom")},
			zu:   recognition{transcript: "izitshalo", confidence: 0.5},
			want: "izitshalo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{results: map[string]recognition{"en-US": tt.en, "zu-ZA": tt.zu}}
			svc := NewService(rec, nil, nil, testGuards(), nil)

			got := svc.Transcribe(context.Background(), []byte("audio"), "")
			assert.Equal(t, tt.want, got)
			assert.ElementsMatch(t, []string{"en-US", "zu-ZA"}, rec.locales)
		})
	}
}

func TestTranscribeFallback(t *testing.T) {
	rec := &fakeRecognizer{results: map[string]recognition{
		"en-US": {err: errors.New("down")},
		"zu-ZA": {err: errors.New("down")},
	}}
	svc := NewService(rec, nil, nil, testGuards(), nil)
	assert.Equal(t, UnavailableTranscript, svc.Transcribe(context.Background(), []byte("audio"), "zu-ZA"))

	svc = NewService(nil, nil, nil, testGuards(), nil)
	assert.Equal(t, UnavailableTranscript, svc.Transcribe(context.Background(), []byte("audio"), "zu-ZA"))
}

func TestTranslate(t *testing.T) {
	svc := NewService(nil, fakeTranslator{out: "Hello"}, nil, testGuards(), nil)
	assert.Equal(t, "Hello", svc.Translate(context.Background(), "Sawubona", domain.LanguageZulu, domain.LanguageEnglish))
	assert.Equal(t, "", svc.Translate(context.Background(), "   ", domain.LanguageZulu, domain.LanguageEnglish))

	svc = NewService(nil, fakeTranslator{err: errors.New("quota")}, nil, testGuards(), nil)
	out := svc.Translate(context.Background(), "Sawubona", domain.LanguageZulu, domain.LanguageEnglish)
	assert.Equal(t, "[Translation not available] Sawubona", out)
	assert.True(t, IsUntranslated(out))
	assert.False(t, IsUntranslated("Hello"))
}

func TestSynthesize(t *testing.T) {
	live := make([]byte, 500)
	synth := &fakeSynthesizer{audio: live}
	svc := NewService(nil, nil, synth, testGuards(), nil)

	assert.Equal(t, live, svc.Synthesize(context.Background(), "  Sawubona  ", "zu-ZA", domain.VoiceNeutral))
	assert.Equal(t, "Sawubona", synth.got)
	assert.Nil(t, svc.Synthesize(context.Background(), " ", "zu-ZA", domain.VoiceNeutral))

	long := strings.Repeat("a", MaxSynthesisChars+10)
	svc.Synthesize(context.Background(), long, "en-US", domain.VoiceFemale)
	assert.Len(t, synth.got, MaxSynthesisChars)
}

func TestSynthesizeFallsBackToPlaceholder(t *testing.T) {
	for name, synth := range map[string]*fakeSynthesizer{
		"error":     {err: errors.New("403 SERVICE_DISABLED")},
		"too small": {audio: []byte("tiny")},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(nil, nil, synth, testGuards(), nil)
			out := svc.Synthesize(context.Background(), "Sawubona", "zu-ZA", domain.VoiceNeutral)
			require.Greater(t, len(out), MinAudioBytes)
			assert.Equal(t, "RIFF", string(out[:4]))
		})
	}
}

func TestTruncateForSynthesisCountsRunes(t *testing.T) {
	s := strings.Repeat("é", MaxSynthesisChars+1)
	assert.Equal(t, MaxSynthesisChars, len([]rune(TruncateForSynthesis(s))))
	assert.Equal(t, "short", TruncateForSynthesis("short"))
}
