package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/google/uuid"
)

// PostgresScanStore implements store.ScanStore. Diagnoses are kept as JSONB.
type PostgresScanStore struct {
	db store.DBTX
}

var _ store.ScanStore = (*PostgresScanStore)(nil)

// NewPostgresScanStore creates a plant scan store.
func NewPostgresScanStore(db store.DBTX) *PostgresScanStore {
	return &PostgresScanStore{db: db}
}

func encodeDiagnosis(d *domain.Diagnosis) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Create implements store.ScanStore.
func (s *PostgresScanStore) Create(ctx context.Context, scan *domain.PlantScan) error {
	if err := scan.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	diagnosis, err := encodeDiagnosis(scan.Diagnosis)
	if err != nil {
		return fmt.Errorf("failed to encode diagnosis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plant_scans (id, farmer_id, mime_type, image, status, diagnosis, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		scan.ID, scan.FarmerID, scan.MIMEType, scan.Image, string(scan.Status), diagnosis,
		scan.Error, scan.CreatedAt, scan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create plant scan: %w", MapError(err))
	}
	return nil
}

// GetByID implements store.ScanStore.
func (s *PostgresScanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PlantScan, error) {
	var (
		scan      domain.PlantScan
		status    string
		diagnosis []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, farmer_id, mime_type, image, status, diagnosis, error, created_at, updated_at
		FROM plant_scans WHERE id = $1`, id).
		Scan(&scan.ID, &scan.FarmerID, &scan.MIMEType, &scan.Image, &status, &diagnosis,
			&scan.Error, &scan.CreatedAt, &scan.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScanNotFound
		}
		return nil, fmt.Errorf("failed to get plant scan: %w", MapError(err))
	}
	scan.Status = domain.ScanStatus(status)
	if len(diagnosis) > 0 {
		var d domain.Diagnosis
		if err := json.Unmarshal(diagnosis, &d); err != nil {
			return nil, fmt.Errorf("failed to decode diagnosis: %w", err)
		}
		scan.Diagnosis = &d
	}
	return &scan, nil
}

// UpdateResult implements store.ScanStore.
func (s *PostgresScanStore) UpdateResult(ctx context.Context, scan *domain.PlantScan) error {
	if !scan.Status.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidScanStatus)
	}
	diagnosis, err := encodeDiagnosis(scan.Diagnosis)
	if err != nil {
		return fmt.Errorf("failed to encode diagnosis: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE plant_scans SET status = $1, diagnosis = $2, error = $3, updated_at = $4
		WHERE id = $5`,
		string(scan.Status), diagnosis, scan.Error, scan.UpdatedAt, scan.ID)
	if err != nil {
		return fmt.Errorf("failed to update plant scan: %w", MapError(err))
	}
	return CheckRowsAffected(res, store.ErrScanNotFound)
}

// Count implements store.ScanStore.
func (s *PostgresScanStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plant_scans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plant scans: %w", MapError(err))
	}
	return n, nil
}
