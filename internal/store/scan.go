package store

import (
	"context"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/google/uuid"
)

// ScanStore persists plant scans and their diagnoses.
type ScanStore interface {
	// Create validates and saves a new scan including its image bytes.
	Create(ctx context.Context, scan *domain.PlantScan) error

	// GetByID returns ErrScanNotFound if no such scan exists.
	// The image bytes are loaded as well.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PlantScan, error)

	// UpdateResult writes status, diagnosis and error of the scan.
	// Returns ErrScanNotFound if no such scan exists.
	UpdateResult(ctx context.Context, scan *domain.PlantScan) error

	// Count returns the total number of scans.
	Count(ctx context.Context) (int, error)
}
