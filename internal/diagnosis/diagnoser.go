package diagnosis

import (
	"context"
)

// Request is one photo to analyse.
type Request struct {
	Image    []byte
	MIMEType string
	// KnownDiseases are names the model should prefer when one matches.
	KnownDiseases []string
}

// Result is the model's reading of a photo. Treatments are not part of it;
// they come from the knowledge base.
type Result struct {
	Healthy    bool     `json:"healthy"`
	Disease    string   `json:"disease"`
	Confidence float64  `json:"confidence"`
	Notes      string   `json:"notes"`
	Symptoms   []string `json:"symptoms"`
}

// Diagnoser defines the interface for detecting plant disease in a photo.
type Diagnoser interface {
	// Diagnose analyses the photo in req.
	//
	// Returns ErrEmptyImage for an empty request, ErrInvalidResponse or
	// ErrContentBlocked when the model answer is unusable, or a transport
	// error otherwise.
	Diagnose(ctx context.Context, req Request) (*Result, error)
}
