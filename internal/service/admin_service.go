package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Analytics windows.
const (
	recentRegistrationWindow = 30 * 24 * time.Hour
	userGrowthMonths         = 12
	queryTrendDays           = 30
)

// Feature names reported in PopularFeatures.
const (
	FeatureVoice     = "voice_recognition"
	FeatureText      = "text_questions"
	FeaturePlantScan = "plant_scan"
)

// AdminStats is the dashboard summary.
type AdminStats struct {
	store.FarmerStats
	TotalQueries int `json:"total_queries"`
	TotalScans   int `json:"total_scans"`
}

// FeatureUsage counts uses of one feature.
type FeatureUsage struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

// Analytics is the admin analytics report.
type Analytics struct {
	TotalUsers      int                  `json:"total_users"`
	UserGrowth      []store.MonthlyCount `json:"user_growth"`
	QueryTrends     []store.QueryTrend   `json:"query_trends"`
	PopularFeatures []FeatureUsage       `json:"popular_features"`
}

// Settings are the read-only application settings shown to admins.
type Settings struct {
	AppName            string   `json:"app_name"`
	MaxUploadSize      string   `json:"max_upload_size"`
	MaxUploadBytes     int64    `json:"max_upload_bytes"`
	SupportedLanguages []string `json:"supported_languages"`
	SupportedLocales   []string `json:"supported_locales"`
}

// AdminService provides the administration use cases.
type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context) ([]*domain.Farmer, error)
	// DeleteUser removes targetID. An admin cannot delete their own account.
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
	UpdateRole(ctx context.Context, targetID uuid.UUID, role domain.Role) error
	Analytics(ctx context.Context) (*Analytics, error)
	Settings() Settings
	// ExportUsers renders all farmers as an XLSX workbook.
	ExportUsers(ctx context.Context) ([]byte, error)
}

// AdminServiceImpl implements AdminService
type AdminServiceImpl struct {
	farmers       store.FarmerStore
	queries       store.QueryStore
	scans         store.ScanStore
	trends        store.TrendStore
	db            *sql.DB
	maxUploadSize int64
	logger        *slog.Logger
	now           func() time.Time
}

var _ AdminService = (*AdminServiceImpl)(nil)

// NewAdminService creates a new AdminService. trends may be nil when no
// time series database is configured; query trends are then empty.
func NewAdminService(
	farmers store.FarmerStore,
	queries store.QueryStore,
	scans store.ScanStore,
	trends store.TrendStore,
	db *sql.DB,
	maxUploadSize int64,
	logger *slog.Logger,
) *AdminServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminServiceImpl{
		farmers:       farmers,
		queries:       queries,
		scans:         scans,
		trends:        trends,
		db:            db,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("component", "admin_service"),
		now:           time.Now,
	}
}

// Stats implements AdminService.
func (s *AdminServiceImpl) Stats(ctx context.Context) (*AdminStats, error) {
	fs, err := s.farmers.Stats(ctx, s.now().Add(-recentRegistrationWindow))
	if err != nil {
		return nil, NewServiceError("admin", "stats", err)
	}
	queries, err := s.queries.Count(ctx)
	if err != nil {
		return nil, NewServiceError("admin", "stats", err)
	}
	scans, err := s.scans.Count(ctx)
	if err != nil {
		return nil, NewServiceError("admin", "stats", err)
	}
	return &AdminStats{FarmerStats: fs, TotalQueries: queries, TotalScans: scans}, nil
}

// ListUsers implements AdminService.
func (s *AdminServiceImpl) ListUsers(ctx context.Context) ([]*domain.Farmer, error) {
	farmers, err := s.farmers.List(ctx)
	if err != nil {
		return nil, NewServiceError("admin", "list_users", err)
	}
	return farmers, nil
}

// DeleteUser implements AdminService.
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.farmers.WithTx(tx)

		// Existence is checked first so an unknown id is a 404 even when it
		// equals the caller's own id.
		if _, err := txStore.GetByID(ctx, targetID); err != nil {
			return err
		}
		if actorID == targetID {
			return domain.ErrCannotDeleteSelf
		}
		if err := txStore.Delete(ctx, targetID); err != nil {
			log.Error("failed to delete farmer", "error", err, "farmer_id", targetID)
			return err
		}
		log.Info("farmer deleted", "farmer_id", targetID, "deleted_by", actorID)
		return nil
	})
}

// UpdateRole implements AdminService.
func (s *AdminServiceImpl) UpdateRole(ctx context.Context, targetID uuid.UUID, role domain.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	if err := s.farmers.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("farmer role updated",
		"farmer_id", targetID,
		"role", role)
	return nil
}

// Analytics implements AdminService.
func (s *AdminServiceImpl) Analytics(ctx context.Context) (*Analytics, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fs, err := s.farmers.Stats(ctx, s.now().Add(-recentRegistrationWindow))
	if err != nil {
		return nil, NewServiceError("admin", "analytics", err)
	}
	growth, err := s.farmers.RegistrationsByMonth(ctx, userGrowthMonths)
	if err != nil {
		return nil, NewServiceError("admin", "analytics", err)
	}
	byChannel, err := s.queries.CountByChannel(ctx)
	if err != nil {
		return nil, NewServiceError("admin", "analytics", err)
	}
	scans, err := s.scans.Count(ctx)
	if err != nil {
		return nil, NewServiceError("admin", "analytics", err)
	}

	trends := []store.QueryTrend{}
	if s.trends != nil {
		t, err := s.trends.QueryTrends(ctx, queryTrendDays)
		if err != nil {
			// Trends are optional; the rest of the report is still useful.
			log.Warn("failed to read query trends", "error", err)
		} else if t != nil {
			trends = t
		}
	}

	features := []FeatureUsage{
		{Feature: FeatureVoice, Count: byChannel[domain.ChannelVoice]},
		{Feature: FeatureText, Count: byChannel[domain.ChannelText]},
		{Feature: FeaturePlantScan, Count: scans},
	}
	sort.SliceStable(features, func(i, j int) bool { return features[i].Count > features[j].Count })

	if growth == nil {
		growth = []store.MonthlyCount{}
	}
	return &Analytics{
		TotalUsers:      fs.Total,
		UserGrowth:      growth,
		QueryTrends:     trends,
		PopularFeatures: features,
	}, nil
}

// Settings implements AdminService.
func (s *AdminServiceImpl) Settings() Settings {
	return Settings{
		AppName:            "AgriNathi",
		MaxUploadSize:      fmt.Sprintf("%dMB", s.maxUploadSize>>20),
		MaxUploadBytes:     s.maxUploadSize,
		SupportedLanguages: []string{string(domain.LanguageEnglish), string(domain.LanguageZulu)},
		SupportedLocales:   domain.SupportedLocales,
	}
}

var exportHeader = []interface{}{
	"ID", "First Name", "Last Name", "Email", "Phone", "Location", "Farm Size", "Role", "Registered", "Last Login",
}

// ExportUsers implements AdminService.
func (s *AdminServiceImpl) ExportUsers(ctx context.Context) ([]byte, error) {
	farmers, err := s.farmers.List(ctx)
	if err != nil {
		return nil, NewServiceError("admin", "export_users", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	const sheet = "Farmers"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "J1", bold)
	}
	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "J", 18)

	for i, fm := range farmers {
		lastLogin := ""
		if fm.LastLoginAt != nil {
			lastLogin = fm.LastLoginAt.UTC().Format(time.RFC3339)
		}
		row := []interface{}{
			fm.ID.String(), fm.FirstName, fm.LastName, fm.Email, fm.Phone, fm.Location, fm.FarmSize,
			string(fm.Role), fm.RegisteredAt.UTC().Format(time.RFC3339), lastLogin,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("exported farmers", "count", len(farmers))
	return buf.Bytes(), nil
}
