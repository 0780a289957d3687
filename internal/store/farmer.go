package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/google/uuid"
)

// FarmerStore defines the interface for farmer account persistence.
type FarmerStore interface {
	// Create saves a new farmer. If Password is set it is hashed before
	// storage and cleared from the struct afterwards.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, farmer *domain.Farmer) error

	// GetByID returns ErrFarmerNotFound if no such farmer exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Farmer, error)

	// GetByEmail matches the email case-insensitively.
	// Returns ErrFarmerNotFound if no such farmer exists.
	GetByEmail(ctx context.Context, email string) (*domain.Farmer, error)

	// List returns all farmers ordered by registration date, newest first.
	List(ctx context.Context) ([]*domain.Farmer, error)

	// UpdateRole returns ErrFarmerNotFound if no such farmer exists.
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error

	// RecordLogin stamps the farmer's last login time.
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes the farmer together with their queries and scans.
	// Returns ErrFarmerNotFound if no such farmer exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats aggregates account counts for the admin dashboard.
	Stats(ctx context.Context, since time.Time) (FarmerStats, error)

	// RegistrationsByMonth counts registrations per calendar month, oldest
	// month first, covering at most the last `months` months.
	RegistrationsByMonth(ctx context.Context, months int) ([]MonthlyCount, error)

	// WithTx returns a FarmerStore bound to the given transaction.
	WithTx(tx *sql.Tx) FarmerStore
}

// FarmerStats holds account counters.
type FarmerStats struct {
	Total              int `json:"total_users"`
	Active             int `json:"active_users"`
	RecentRegistration int `json:"recent_registrations"`
}

// MonthlyCount is a single bucket of a per-month series. Month is "YYYY-MM".
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
