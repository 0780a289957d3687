package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFarmerStore is a testify mock of store.FarmerStore.
type MockFarmerStore struct {
	mock.Mock
}

var _ store.FarmerStore = (*MockFarmerStore)(nil)

func farmerOrNil(v interface{}) *domain.Farmer {
	f, _ := v.(*domain.Farmer)
	return f
}

// Create is a mock implementation of store.FarmerStore.Create
func (m *MockFarmerStore) Create(ctx context.Context, f *domain.Farmer) error {
	return m.Called(ctx, f).Error(0)
}

// GetByID is a mock implementation of store.FarmerStore.GetByID
func (m *MockFarmerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Farmer, error) {
	args := m.Called(ctx, id)
	return farmerOrNil(args.Get(0)), args.Error(1)
}

// GetByEmail is a mock implementation of store.FarmerStore.GetByEmail
func (m *MockFarmerStore) GetByEmail(ctx context.Context, email string) (*domain.Farmer, error) {
	args := m.Called(ctx, email)
	return farmerOrNil(args.Get(0)), args.Error(1)
}

// List is a mock implementation of store.FarmerStore.List
func (m *MockFarmerStore) List(ctx context.Context) ([]*domain.Farmer, error) {
	args := m.Called(ctx)
	fs, _ := args.Get(0).([]*domain.Farmer)
	return fs, args.Error(1)
}

// UpdateRole is a mock implementation of store.FarmerStore.UpdateRole
func (m *MockFarmerStore) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

// RecordLogin is a mock implementation of store.FarmerStore.RecordLogin
func (m *MockFarmerStore) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

// Delete is a mock implementation of store.FarmerStore.Delete
func (m *MockFarmerStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// Stats is a mock implementation of store.FarmerStore.Stats
func (m *MockFarmerStore) Stats(ctx context.Context, since time.Time) (store.FarmerStats, error) {
	args := m.Called(ctx, since)
	st, _ := args.Get(0).(store.FarmerStats)
	return st, args.Error(1)
}

// RegistrationsByMonth is a mock implementation of store.FarmerStore.RegistrationsByMonth
func (m *MockFarmerStore) RegistrationsByMonth(ctx context.Context, months int) ([]store.MonthlyCount, error) {
	args := m.Called(ctx, months)
	mc, _ := args.Get(0).([]store.MonthlyCount)
	return mc, args.Error(1)
}

// WithTx returns the same mock; transactions are not modelled.
func (m *MockFarmerStore) WithTx(*sql.Tx) store.FarmerStore {
	return m
}
