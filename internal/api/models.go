package api

import (
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/google/uuid"
)

// RegisterRequest defines the payload for the registration endpoint. Field
// names follow the web form.
type RegisterRequest struct {
	FirstName       string `json:"firstName"       validate:"required"`
	LastName        string `json:"lastName"        validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Phone           string `json:"phone"           validate:"required"`
	Location        string `json:"location"        validate:"required"`
	FarmSize        string `json:"farmSize"`
}

// RegisterResponse confirms a registration. It carries no token; the
// farmer logs in separately.
type RegisterResponse struct {
	Message string         `json:"message"`
	Farmer  *domain.Farmer `json:"farmer"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for login.
type AuthResponse struct {
	Farmer *domain.Farmer `json:"farmer"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"token"`

	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 time the access token expires.
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// VoiceQueryRequest carries a base64 recording, optionally as a data URL.
type VoiceQueryRequest struct {
	Audio *string `json:"audio"`
}

// TextQueryRequest is a typed question.
type TextQueryRequest struct {
	Text         string `json:"text"          validate:"required,max=5000"`
	Language     string `json:"language"      validate:"omitempty,oneof=zu en"`
	IncludeAudio bool   `json:"include_audio"`
}

// TextToSpeechRequest asks for synthesized speech.
type TextToSpeechRequest struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
	VoiceGender  string `json:"voice_gender"`
}

// TextToSpeechResponse returns synthesized audio as base64.
type TextToSpeechResponse struct {
	Success        bool      `json:"success"`
	AudioContent   string    `json:"audio_content"`
	Text           string    `json:"text"`
	LanguageCode   string    `json:"language_code"`
	VoiceGender    string    `json:"voice_gender"`
	AudioSize      int       `json:"audio_size"`
	ProcessingTime float64   `json:"processing_time"`
	Timestamp      time.Time `json:"timestamp"`
}

// UpdateRoleRequest changes a farmer's role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// QueryHistoryResponse lists the caller's recent questions.
type QueryHistoryResponse struct {
	Queries []*domain.Query `json:"queries"`
	Count   int             `json:"count"`
}

// KnowledgeSearchResult is one knowledge base hit.
type KnowledgeSearchResult struct {
	Category   domain.Category `json:"category"`
	Title      string          `json:"title"`
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
}

// KnowledgeSearchResponse lists knowledge base hits for a query.
type KnowledgeSearchResponse struct {
	Query   string                  `json:"query"`
	Results []KnowledgeSearchResult `json:"results"`
}

// ScanAcceptedResponse acknowledges a plant photo queued for analysis.
type ScanAcceptedResponse struct {
	ID     uuid.UUID         `json:"id"`
	Status domain.ScanStatus `json:"status"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
