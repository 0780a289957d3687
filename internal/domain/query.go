package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// QueryChannel is how a question reached the service.
type QueryChannel string

// Supported channels.
const (
	ChannelVoice QueryChannel = "voice"
	ChannelText  QueryChannel = "text"
)

// Query validation errors.
var (
	ErrEmptyQueryID       = errors.New("query ID cannot be empty")
	ErrEmptyQueryFarmerID = errors.New("query farmer ID cannot be empty")
	ErrInvalidChannel     = errors.New("invalid query channel")
)

// Query is one question a farmer asked and the advice they received.
type Query struct {
	ID             uuid.UUID     `json:"id"`
	FarmerID       uuid.UUID     `json:"farmer_id"`
	Channel        QueryChannel  `json:"channel"`
	Language       Language      `json:"language"`
	Transcript     string        `json:"transcript"`
	Translation    string        `json:"translation"`
	Advice         string        `json:"advice"`
	AdviceZulu     string        `json:"advice_zulu"`
	Category       Category      `json:"category"`
	Source         AdviceSource  `json:"source"`
	Confidence     float64       `json:"confidence"`
	Success        bool          `json:"success"`
	ProcessingTime time.Duration `json:"-"`
	CreatedAt      time.Time     `json:"created_at"`
}

// NewQuery creates a query record for a farmer.
func NewQuery(farmerID uuid.UUID, channel QueryChannel, language Language) (*Query, error) {
	q := &Query{
		ID:        uuid.New(),
		FarmerID:  farmerID,
		Channel:   channel,
		Language:  language,
		CreatedAt: time.Now().UTC(),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks if the Query has valid data.
func (q *Query) Validate() error {
	if q.ID == uuid.Nil {
		return ErrEmptyQueryID
	}
	if q.FarmerID == uuid.Nil {
		return ErrEmptyQueryFarmerID
	}
	if q.Channel != ChannelVoice && q.Channel != ChannelText {
		return ErrInvalidChannel
	}
	return nil
}
