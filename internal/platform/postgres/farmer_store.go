package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PostgresFarmerStore implements store.FarmerStore.
type PostgresFarmerStore struct {
	db         store.DBTX
	bcryptCost int
}

var _ store.FarmerStore = (*PostgresFarmerStore)(nil)

// NewPostgresFarmerStore creates a farmer store; bcryptCost is used to hash
// passwords on Create.
func NewPostgresFarmerStore(db store.DBTX, bcryptCost int) *PostgresFarmerStore {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PostgresFarmerStore{db: db, bcryptCost: bcryptCost}
}

// WithTx implements store.FarmerStore.
func (s *PostgresFarmerStore) WithTx(tx *sql.Tx) store.FarmerStore {
	return &PostgresFarmerStore{db: tx, bcryptCost: s.bcryptCost}
}

const farmerColumns = `id, first_name, last_name, email, phone, location, farm_size, role,
	hashed_password, registered_at, last_login_at, updated_at`

// Create implements store.FarmerStore.
func (s *PostgresFarmerStore) Create(ctx context.Context, f *domain.Farmer) error {
	log := logger.FromContextOrDefault(ctx, nil)

	f.Email = domain.NormalizeEmail(f.Email)
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if f.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		f.HashedPassword = string(hash)
		f.Password = ""
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO farmers (`+farmerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		f.ID, f.FirstName, f.LastName, f.Email, f.Phone, f.Location, f.FarmSize, string(f.Role),
		f.HashedPassword, f.RegisteredAt, f.LastLoginAt, f.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to insert farmer", "error", err, "farmer_id", f.ID)
		return fmt.Errorf("failed to create farmer: %w", MapError(err))
	}
	return nil
}

func scanFarmer(row interface{ Scan(dest ...any) error }) (*domain.Farmer, error) {
	var (
		f         domain.Farmer
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&f.ID, &f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.Location, &f.FarmSize,
		&role, &f.HashedPassword, &f.RegisteredAt, &lastLogin, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.Role = domain.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		f.LastLoginAt = &t
	}
	return &f, nil
}

func (s *PostgresFarmerStore) getOne(ctx context.Context, where string, arg any) (*domain.Farmer, error) {
	f, err := scanFarmer(s.db.QueryRowContext(ctx,
		`SELECT `+farmerColumns+` FROM farmers WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("failed to get farmer: %w", MapError(err))
	}
	return f, nil
}

// GetByID implements store.FarmerStore.
func (s *PostgresFarmerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Farmer, error) {
	return s.getOne(ctx, "id = $1", id)
}

// GetByEmail implements store.FarmerStore.
func (s *PostgresFarmerStore) GetByEmail(ctx context.Context, email string) (*domain.Farmer, error) {
	return s.getOne(ctx, "email = $1", domain.NormalizeEmail(email))
}

// List implements store.FarmerStore.
func (s *PostgresFarmerStore) List(ctx context.Context) ([]*domain.Farmer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+farmerColumns+` FROM farmers ORDER BY registered_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var farmers []*domain.Farmer
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan farmer row: %w", err)
		}
		farmers = append(farmers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating farmer rows: %w", err)
	}
	return farmers, nil
}

// UpdateRole implements store.FarmerStore.
func (s *PostgresFarmerStore) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidRole)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE farmers SET role = $1, updated_at = $2 WHERE id = $3`,
		string(role), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update farmer role: %w", MapError(err))
	}
	return CheckRowsAffected(res, store.ErrFarmerNotFound)
}

// RecordLogin implements store.FarmerStore.
func (s *PostgresFarmerStore) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE farmers SET last_login_at = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", MapError(err))
	}
	return CheckRowsAffected(res, store.ErrFarmerNotFound)
}

// Delete implements store.FarmerStore. Queries and scans go with the farmer
// through ON DELETE CASCADE.
func (s *PostgresFarmerStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM farmers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete farmer: %w", MapError(err))
	}
	return CheckRowsAffected(res, store.ErrFarmerNotFound)
}

// Stats implements store.FarmerStore.
func (s *PostgresFarmerStore) Stats(ctx context.Context, since time.Time) (store.FarmerStats, error) {
	var st store.FarmerStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE last_login_at IS NOT NULL),
		       COUNT(*) FILTER (WHERE registered_at >= $1)
		FROM farmers`, since.UTC()).Scan(&st.Total, &st.Active, &st.RecentRegistration)
	if err != nil {
		return store.FarmerStats{}, fmt.Errorf("failed to count farmers: %w", MapError(err))
	}
	return st, nil
}

// RegistrationsByMonth implements store.FarmerStore.
func (s *PostgresFarmerStore) RegistrationsByMonth(ctx context.Context, months int) ([]store.MonthlyCount, error) {
	if months <= 0 {
		months = 12
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(date_trunc('month', registered_at), 'YYYY-MM') AS month, COUNT(*)
		FROM farmers
		WHERE registered_at >= date_trunc('month', NOW()) - make_interval(months => $1)
		GROUP BY month
		ORDER BY month`, months-1)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var out []store.MonthlyCount
	for rows.Next() {
		var mc store.MonthlyCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		out = append(out, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return out, nil
}
