package googlecloud

import (
	"context"
	"errors"
	"fmt"
	"html"

	"google.golang.org/api/translate/v2"
)

// Translator translates text between language codes.
type Translator struct {
	svc *translate.Service
}

// NewTranslator creates a client. endpoint may be empty.
func NewTranslator(ctx context.Context, apiKey, endpoint string) (*Translator, error) {
	opts, err := clientOptions(apiKey, endpoint)
	if err != nil {
		return nil, err
	}
	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create translate client: %w", err)
	}
	return &Translator{svc: svc}, nil
}

// Translate converts text from source to target.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := t.svc.Translations.List([]string{text}, target).
		Source(source).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(fmt.Errorf("translate %s->%s: %w", source, target, err))
	}
	if len(resp.Translations) == 0 {
		return "", errors.New("translate: empty response")
	}
	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}
