package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/diagnosis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, cfg
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
	}}}
}

var jpeg = []byte{0xff, 0xd8, 0xff, 0xe0}

func TestNewDiagnoser_InvalidConfig(t *testing.T) {
	_, err := NewDiagnoser(context.Background(), config.LLMConfig{ModelName: "gemini-2.0-flash"}, nil)
	assert.ErrorIs(t, err, diagnosis.ErrInvalidConfig)

	_, err = NewDiagnoser(context.Background(), config.LLMConfig{GeminiAPIKey: "k"}, nil)
	assert.ErrorIs(t, err, diagnosis.ErrInvalidConfig)
}

func TestDiagnose_SendsImageAndPrompt(t *testing.T) {
	fake := &fakeModels{resp: textResponse(
		`{"healthy":false,"disease":"Northern Corn Leaf Blight","confidence":0.91,"notes":"Long grey lesions.","symptoms":["cigar-shaped lesions"]}`)}
	d := newDiagnoser(fake, "gemini-2.0-flash", nil)

	res, err := d.Diagnose(context.Background(), diagnosis.Request{
		Image:         jpeg,
		MIMEType:      "image/jpeg",
		KnownDiseases: []string{"Northern Corn Leaf Blight", "Maize Streak Virus"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Northern Corn Leaf Blight", res.Disease)
	assert.InDelta(t, 0.91, res.Confidence, 1e-9)
	assert.Equal(t, []string{"cigar-shaped lesions"}, res.Symptoms)

	assert.Equal(t, "gemini-2.0-flash", fake.model)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	require.Len(t, fake.contents, 1)
	parts := fake.contents[0].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "- Maize Streak Virus")
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, jpeg, parts[1].InlineData.Data)
}

func TestDiagnose_ResponseHandling(t *testing.T) {
	blocked := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		FinishReason: genai.FinishReasonSafety,
	}}}

	tests := []struct {
		name        string
		resp        *genai.GenerateContentResponse
		wantErr     error
		wantHealthy bool
		wantConf    float64
	}{
		{"fenced json", textResponse("```json\n{\"healthy\":true,\"disease\":\"none\",\"confidence\":0.7}\n```"), nil, true, 0.7},
		{"confidence clamped", textResponse(`{"healthy":false,"disease":"Rust","confidence":3}`), nil, false, 1},
		{"no candidates", &genai.GenerateContentResponse{}, diagnosis.ErrInvalidResponse, false, 0},
		{"safety block", blocked, diagnosis.ErrContentBlocked, false, 0},
		{"not json", textResponse("The plant looks fine."), diagnosis.ErrInvalidResponse, false, 0},
		{"sick without a name", textResponse(`{"healthy":false,"disease":" "}`), diagnosis.ErrInvalidResponse, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDiagnoser(&fakeModels{resp: tt.resp}, "m", nil)
			res, err := d.Diagnose(context.Background(), diagnosis.Request{Image: jpeg, MIMEType: "image/jpeg"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsPermanent(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHealthy, res.Healthy)
			assert.InDelta(t, tt.wantConf, res.Confidence, 1e-9)
			if res.Healthy {
				assert.Empty(t, res.Disease)
			}
		})
	}
}

func TestDiagnose_TransportErrorIsRetryable(t *testing.T) {
	d := newDiagnoser(&fakeModels{err: errors.New("503 unavailable")}, "m", nil)
	_, err := d.Diagnose(context.Background(), diagnosis.Request{Image: jpeg, MIMEType: "image/png"})
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
}

func TestDiagnose_EmptyImage(t *testing.T) {
	d := newDiagnoser(&fakeModels{}, "m", nil)
	_, err := d.Diagnose(context.Background(), diagnosis.Request{})
	assert.ErrorIs(t, err, diagnosis.ErrEmptyImage)
}

func TestBuildPrompt_WithoutKnownDiseases(t *testing.T) {
	p, err := buildPrompt(nil)
	require.NoError(t, err)
	assert.NotContains(t, p, "known diseases")
	assert.Contains(t, p, `"confidence"`)
}
