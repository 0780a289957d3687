package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/google/uuid"
)

// PostgresQueryStore implements store.QueryStore.
type PostgresQueryStore struct {
	db store.DBTX
}

var _ store.QueryStore = (*PostgresQueryStore)(nil)

// NewPostgresQueryStore creates a query store.
func NewPostgresQueryStore(db store.DBTX) *PostgresQueryStore {
	return &PostgresQueryStore{db: db}
}

// Create implements store.QueryStore.
func (s *PostgresQueryStore) Create(ctx context.Context, q *domain.Query) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queries (id, farmer_id, channel, language, transcript, translation, advice,
			advice_zulu, category, source, confidence, success, processing_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		q.ID, q.FarmerID, string(q.Channel), string(q.Language), q.Transcript, q.Translation, q.Advice,
		q.AdviceZulu, string(q.Category), string(q.Source), q.Confidence, q.Success,
		q.ProcessingTime.Milliseconds(), q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create query: %w", MapError(err))
	}
	return nil
}

// ListByFarmer implements store.QueryStore.
func (s *PostgresQueryStore) ListByFarmer(ctx context.Context, farmerID uuid.UUID, limit int) ([]*domain.Query, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, farmer_id, channel, language, transcript, translation, advice, advice_zulu,
			category, source, confidence, success, processing_ms, created_at
		FROM queries
		WHERE farmer_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, farmerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Query
	for rows.Next() {
		var (
			q                                   domain.Query
			channel, language, category, source string
			ms                                  int64
		)
		if err := rows.Scan(&q.ID, &q.FarmerID, &channel, &language, &q.Transcript, &q.Translation,
			&q.Advice, &q.AdviceZulu, &category, &source, &q.Confidence, &q.Success, &ms, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query row: %w", err)
		}
		q.Channel = domain.QueryChannel(channel)
		q.Language = domain.Language(language)
		q.Category = domain.Category(category)
		q.Source = domain.AdviceSource(source)
		q.ProcessingTime = time.Duration(ms) * time.Millisecond
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating query rows: %w", err)
	}
	return out, nil
}

// Count implements store.QueryStore.
func (s *PostgresQueryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queries: %w", MapError(err))
	}
	return n, nil
}

// CountByChannel implements store.QueryStore.
func (s *PostgresQueryStore) CountByChannel(ctx context.Context) (map[domain.QueryChannel]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT channel, COUNT(*) FROM queries GROUP BY channel`)
	if err != nil {
		return nil, fmt.Errorf("failed to count queries by channel: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	out := make(map[domain.QueryChannel]int)
	for rows.Next() {
		var (
			channel string
			n       int
		)
		if err := rows.Scan(&channel, &n); err != nil {
			return nil, fmt.Errorf("failed to scan channel count: %w", err)
		}
		out[domain.QueryChannel(channel)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel counts: %w", err)
	}
	return out, nil
}
