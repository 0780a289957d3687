package mocks

import (
	"context"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockVoiceService is a testify mock of service.VoiceService.
type MockVoiceService struct {
	mock.Mock
}

var _ service.VoiceService = (*MockVoiceService)(nil)

// ProcessAudio is a mock implementation of service.VoiceService.ProcessAudio
func (m *MockVoiceService) ProcessAudio(ctx context.Context, farmerID uuid.UUID, audio string) *service.VoiceResult {
	res, _ := m.Called(ctx, farmerID, audio).Get(0).(*service.VoiceResult)
	return res
}

// ProcessText is a mock implementation of service.VoiceService.ProcessText
func (m *MockVoiceService) ProcessText(
	ctx context.Context,
	farmerID uuid.UUID,
	text string,
	language domain.Language,
	withAudio bool,
) (*service.VoiceResult, error) {
	args := m.Called(ctx, farmerID, text, language, withAudio)
	res, _ := args.Get(0).(*service.VoiceResult)
	return res, args.Error(1)
}

// GeneralAdviceAudio is a mock implementation of service.VoiceService.GeneralAdviceAudio
func (m *MockVoiceService) GeneralAdviceAudio(ctx context.Context) *service.GeneralAdvice {
	res, _ := m.Called(ctx).Get(0).(*service.GeneralAdvice)
	return res
}

// TextToSpeech is a mock implementation of service.VoiceService.TextToSpeech
func (m *MockVoiceService) TextToSpeech(
	ctx context.Context,
	text, locale string,
	gender domain.VoiceGender,
) ([]byte, error) {
	args := m.Called(ctx, text, locale, gender)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

// History is a mock implementation of service.VoiceService.History
func (m *MockVoiceService) History(ctx context.Context, farmerID uuid.UUID, limit int) ([]*domain.Query, error) {
	args := m.Called(ctx, farmerID, limit)
	qs, _ := args.Get(0).([]*domain.Query)
	return qs, args.Error(1)
}

// MockScanService is a testify mock of service.ScanService.
type MockScanService struct {
	mock.Mock
}

var _ service.ScanService = (*MockScanService)(nil)

// Upload is a mock implementation of service.ScanService.Upload
func (m *MockScanService) Upload(
	ctx context.Context,
	farmerID uuid.UUID,
	mimeType string,
	image []byte,
) (*domain.PlantScan, error) {
	args := m.Called(ctx, farmerID, mimeType, image)
	s, _ := args.Get(0).(*domain.PlantScan)
	return s, args.Error(1)
}

// Get is a mock implementation of service.ScanService.Get
func (m *MockScanService) Get(ctx context.Context, farmerID, scanID uuid.UUID) (*domain.PlantScan, error) {
	args := m.Called(ctx, farmerID, scanID)
	s, _ := args.Get(0).(*domain.PlantScan)
	return s, args.Error(1)
}

// ProcessScan is a mock implementation of service.ScanService.ProcessScan
func (m *MockScanService) ProcessScan(ctx context.Context, scanID uuid.UUID) error {
	return m.Called(ctx, scanID).Error(0)
}

// MockAdminService is a testify mock of service.AdminService.
type MockAdminService struct {
	mock.Mock
}

var _ service.AdminService = (*MockAdminService)(nil)

// Stats is a mock implementation of service.AdminService.Stats
func (m *MockAdminService) Stats(ctx context.Context) (*service.AdminStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*service.AdminStats)
	return s, args.Error(1)
}

// ListUsers is a mock implementation of service.AdminService.ListUsers
func (m *MockAdminService) ListUsers(ctx context.Context) ([]*domain.Farmer, error) {
	args := m.Called(ctx)
	fs, _ := args.Get(0).([]*domain.Farmer)
	return fs, args.Error(1)
}

// DeleteUser is a mock implementation of service.AdminService.DeleteUser
func (m *MockAdminService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	return m.Called(ctx, actorID, targetID).Error(0)
}

// UpdateRole is a mock implementation of service.AdminService.UpdateRole
func (m *MockAdminService) UpdateRole(ctx context.Context, targetID uuid.UUID, role domain.Role) error {
	return m.Called(ctx, targetID, role).Error(0)
}

// Analytics is a mock implementation of service.AdminService.Analytics
func (m *MockAdminService) Analytics(ctx context.Context) (*service.Analytics, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).(*service.Analytics)
	return a, args.Error(1)
}

// Settings is a mock implementation of service.AdminService.Settings
func (m *MockAdminService) Settings() service.Settings {
	s, _ := m.Called().Get(0).(service.Settings)
	return s
}

// ExportUsers is a mock implementation of service.AdminService.ExportUsers
func (m *MockAdminService) ExportUsers(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

// MockWeatherService is a testify mock of the weather lookups used by the
// HTTP layer.
type MockWeatherService struct {
	mock.Mock
}

// Current is a mock of the current-conditions lookup.
func (m *MockWeatherService) Current(ctx context.Context, loc domain.Location) (*domain.WeatherData, error) {
	args := m.Called(ctx, loc)
	w, _ := args.Get(0).(*domain.WeatherData)
	return w, args.Error(1)
}

// Forecast is a mock of the forecast lookup.
func (m *MockWeatherService) Forecast(ctx context.Context, loc domain.Location) (*domain.Forecast, error) {
	args := m.Called(ctx, loc)
	f, _ := args.Get(0).(*domain.Forecast)
	return f, args.Error(1)
}
