package store

import (
	"context"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/google/uuid"
)

// QueryStore persists answered farmer questions.
type QueryStore interface {
	// Create validates and saves a query.
	Create(ctx context.Context, q *domain.Query) error

	// ListByFarmer returns the farmer's most recent queries, newest first.
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit int) ([]*domain.Query, error)

	// Count returns the total number of stored queries.
	Count(ctx context.Context) (int, error)

	// CountByChannel returns query totals keyed by channel.
	CountByChannel(ctx context.Context) (map[domain.QueryChannel]int, error)
}

// QueryTrend is the number of answered queries of one category on one day.
type QueryTrend struct {
	Day      string `json:"day"` // YYYY-MM-DD, UTC
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TrendStore records query analytics as a time series.
type TrendStore interface {
	// QueryTrends returns daily per-category counts for the last `days`
	// days, oldest first.
	QueryTrends(ctx context.Context, days int) ([]QueryTrend, error)
}
