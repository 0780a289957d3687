package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/diagnosis"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/resilience"
	"google.golang.org/genai"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("diagnosis").Parse(promptSource))

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Diagnoser implements diagnosis.Diagnoser using Gemini.
type Diagnoser struct {
	models contentGenerator
	model  string
	logger *slog.Logger
}

var _ diagnosis.Diagnoser = (*Diagnoser)(nil)

// NewDiagnoser creates a Diagnoser from the LLM configuration.
//
// Parameters:
//   - ctx: Context for client initialization
//   - cfg: LLM configuration holding the API key and model name
//   - l: Logger for request logging
//
// Returns:
//   - A ready Diagnoser, or an error wrapping diagnosis.ErrInvalidConfig
func NewDiagnoser(ctx context.Context, cfg config.LLMConfig, l *slog.Logger) (*Diagnoser, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", diagnosis.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", diagnosis.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", diagnosis.ErrInvalidConfig, err)
	}

	return newDiagnoser(client.Models, cfg.ModelName, l), nil
}

func newDiagnoser(models contentGenerator, model string, l *slog.Logger) *Diagnoser {
	if l == nil {
		l = slog.Default()
	}
	return &Diagnoser{
		models: models,
		model:  model,
		logger: l.With(slog.String("component", "gemini_diagnoser")),
	}
}

// buildPrompt renders the diagnosis prompt for the known disease names.
func buildPrompt(knownDiseases []string) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, struct{ KnownDiseases []string }{knownDiseases}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// Diagnose implements diagnosis.Diagnoser.
func (d *Diagnoser) Diagnose(ctx context.Context, req diagnosis.Request) (*diagnosis.Result, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	if len(req.Image) == 0 {
		return nil, resilience.Permanent(diagnosis.ErrEmptyImage)
	}

	prompt, err := buildPrompt(req.KnownDiseases)
	if err != nil {
		return nil, resilience.Permanent(err)
	}

	temperature := float32(0.2)
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Image}},
		},
	}}

	log.Debug("calling Gemini for plant diagnosis",
		slog.String("model", d.model),
		slog.Int("image_bytes", len(req.Image)))

	resp, err := d.models.GenerateContent(ctx, d.model, contents, &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	result, err := parseResponse(resp)
	if err != nil {
		log.Warn("unusable Gemini answer", slog.String("error", err.Error()))
		return nil, resilience.Permanent(err)
	}

	log.Info("plant diagnosis complete",
		slog.Bool("healthy", result.Healthy),
		slog.String("disease", result.Disease),
		slog.Float64("confidence", result.Confidence))
	return result, nil
}

func parseResponse(resp *genai.GenerateContentResponse) (*diagnosis.Result, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", diagnosis.ErrInvalidResponse)
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return nil, diagnosis.ErrContentBlocked
	}
	if cand.Content == nil {
		return nil, fmt.Errorf("%w: empty content", diagnosis.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, p := range cand.Content.Parts {
		if p != nil {
			text.WriteString(p.Text)
		}
	}

	raw := stripCodeFence(text.String())
	if raw == "" {
		return nil, fmt.Errorf("%w: empty text", diagnosis.ErrInvalidResponse)
	}

	var result diagnosis.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", diagnosis.ErrInvalidResponse, err)
	}
	if !result.Healthy && strings.TrimSpace(result.Disease) == "" {
		return nil, fmt.Errorf("%w: unhealthy plant without a disease name", diagnosis.ErrInvalidResponse)
	}
	if result.Healthy {
		result.Disease = ""
	}
	result.Disease = strings.TrimSpace(result.Disease)
	result.Confidence = clamp01(result.Confidence)
	return &result, nil
}

// stripCodeFence removes a Markdown ``` wrapper the model sometimes adds.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// IsPermanent reports whether err is a diagnosis failure that retrying cannot fix.
func IsPermanent(err error) bool {
	return errors.Is(err, diagnosis.ErrInvalidResponse) ||
		errors.Is(err, diagnosis.ErrContentBlocked) ||
		errors.Is(err, diagnosis.ErrEmptyImage)
}
