package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/diagnosis"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/events"
	"github.com/agrinathi/agrinathi-api/internal/knowledge"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockSpeech mocks the Speech interface
type mockSpeech struct {
	mock.Mock
}

func (m *mockSpeech) Transcribe(ctx context.Context, audio []byte, locale string) string {
	return m.Called(ctx, audio, locale).String(0)
}

func (m *mockSpeech) Translate(ctx context.Context, text string, source, target domain.Language) string {
	return m.Called(ctx, text, source, target).String(0)
}

func (m *mockSpeech) Synthesize(ctx context.Context, text, locale string, gender domain.VoiceGender) []byte {
	args := m.Called(ctx, text, locale, gender)
	if b := args.Get(0); b != nil {
		return b.([]byte)
	}
	return nil
}

// stubKB answers FindSolution from a fixed map.
type stubKB map[string]knowledge.Match

func (s stubKB) FindSolution(q string) (knowledge.Match, bool) {
	m, ok := s[q]
	return m, ok
}

// stubGenerator always returns the same text.
type stubGenerator struct {
	text     string
	category domain.Category
	calls    []string
}

func (g *stubGenerator) Generate(q string) (string, domain.Category) {
	g.calls = append(g.calls, q)
	return g.text, g.category
}

// stubAdvice returns fixed advice and records its inputs.
type stubAdvice struct {
	advice   domain.AgriculturalAdvice
	question string
	english  string
}

func (s *stubAdvice) Advise(_ context.Context, question, english string) domain.AgriculturalAdvice {
	s.question, s.english = question, english
	return s.advice
}

// memQueryStore is an in-memory store.QueryStore.
type memQueryStore struct {
	mu      sync.Mutex
	queries []*domain.Query
	err     error
}

func (s *memQueryStore) Create(_ context.Context, q *domain.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.queries = append(s.queries, q)
	return nil
}

func (s *memQueryStore) ListByFarmer(_ context.Context, farmerID uuid.UUID, limit int) ([]*domain.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.Query
	for i := len(s.queries) - 1; i >= 0 && len(out) < limit; i-- {
		if s.queries[i].FarmerID == farmerID {
			out = append(out, s.queries[i])
		}
	}
	return out, nil
}

func (s *memQueryStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries), s.err
}

func (s *memQueryStore) CountByChannel(context.Context) (map[domain.QueryChannel]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[domain.QueryChannel]int{}
	for _, q := range s.queries {
		out[q.Channel]++
	}
	return out, s.err
}

// memScanStore is an in-memory store.ScanStore that keeps a history of
// every status written.
type memScanStore struct {
	mu       sync.Mutex
	scans    map[uuid.UUID]domain.PlantScan
	statuses []domain.ScanStatus
}

func newMemScanStore() *memScanStore {
	return &memScanStore{scans: map[uuid.UUID]domain.PlantScan{}}
}

func (s *memScanStore) Create(_ context.Context, scan *domain.PlantScan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans[scan.ID] = *scan
	return nil
}

func (s *memScanStore) GetByID(_ context.Context, id uuid.UUID) (*domain.PlantScan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[id]
	if !ok {
		return nil, store.ErrScanNotFound
	}
	return &scan, nil
}

func (s *memScanStore) UpdateResult(_ context.Context, scan *domain.PlantScan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scans[scan.ID]; !ok {
		return store.ErrScanNotFound
	}
	s.scans[scan.ID] = *scan
	s.statuses = append(s.statuses, scan.Status)
	return nil
}

func (s *memScanStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scans), nil
}

// memFarmerStore is an in-memory store.FarmerStore.
type memFarmerStore struct {
	mu      sync.Mutex
	farmers []*domain.Farmer
	stats   store.FarmerStats
	growth  []store.MonthlyCount
}

func (s *memFarmerStore) Create(_ context.Context, f *domain.Farmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.farmers {
		if x.Email == f.Email {
			return store.ErrEmailExists
		}
	}
	s.farmers = append(s.farmers, f)
	return nil
}

func (s *memFarmerStore) find(id uuid.UUID) (int, bool) {
	for i, f := range s.farmers {
		if f.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *memFarmerStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.find(id); ok {
		return s.farmers[i], nil
	}
	return nil, store.ErrFarmerNotFound
}

func (s *memFarmerStore) GetByEmail(_ context.Context, email string) (*domain.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.farmers {
		if f.Email == domain.NormalizeEmail(email) {
			return f, nil
		}
	}
	return nil, store.ErrFarmerNotFound
}

func (s *memFarmerStore) List(context.Context) ([]*domain.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Farmer(nil), s.farmers...), nil
}

func (s *memFarmerStore) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return store.ErrFarmerNotFound
	}
	s.farmers[i].Role = role
	return nil
}

func (s *memFarmerStore) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return store.ErrFarmerNotFound
	}
	s.farmers[i].LastLoginAt = &at
	return nil
}

func (s *memFarmerStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(id)
	if !ok {
		return store.ErrFarmerNotFound
	}
	s.farmers = append(s.farmers[:i], s.farmers[i+1:]...)
	return nil
}

func (s *memFarmerStore) Stats(context.Context, time.Time) (store.FarmerStats, error) {
	return s.stats, nil
}

func (s *memFarmerStore) RegistrationsByMonth(context.Context, int) ([]store.MonthlyCount, error) {
	return s.growth, nil
}

func (s *memFarmerStore) WithTx(*sql.Tx) store.FarmerStore {
	return s
}

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, ev *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return e.err
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

// recordingObserver captures metrics calls.
type recordingObserver struct {
	mu      sync.Mutex
	queries []bool
	scans   []string
}

func (o *recordingObserver) ObserveQuery(_ string, success bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries = append(o.queries, success)
}

func (o *recordingObserver) ObserveScan(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scans = append(o.scans, status)
}

// funcDiagnoser adapts a function to diagnosis.Diagnoser.
type funcDiagnoser func(ctx context.Context, req diagnosis.Request) (*diagnosis.Result, error)

func (f funcDiagnoser) Diagnose(ctx context.Context, req diagnosis.Request) (*diagnosis.Result, error) {
	return f(ctx, req)
}

// stubCatalog is a DiseaseCatalog with one disease.
type stubCatalog struct {
	disease domain.Disease
}

func (c stubCatalog) Disease(name string) (domain.Disease, bool) {
	if strings.EqualFold(name, c.disease.Name) {
		return c.disease, true
	}
	return domain.Disease{}, false
}

func (c stubCatalog) DiseaseNames() []string {
	return []string{c.disease.Name}
}
