//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/postgres"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/agrinathi/agrinathi-api/internal/task"
	"github.com/agrinathi/agrinathi-api/internal/testdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createFarmer(t *testing.T, s store.FarmerStore, email string) *domain.Farmer {
	t.Helper()
	f, err := domain.NewFarmer(domain.NewFarmerParams{
		FirstName: "Nomsa",
		LastName:  "Zulu",
		Email:     email,
		Password:  "umbila123",
		Phone:     "0729876543",
		Location:  "Ulundi",
	})
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), f))
	return f
}

func TestFarmerStore_Integration(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresFarmerStore(tx, bcrypt.MinCost)

		f := createFarmer(t, s, "nomsa@example.com")

		got, err := s.GetByEmail(ctx, "NOMSA@example.com")
		require.NoError(t, err)
		assert.Equal(t, f.ID, got.ID)
		assert.Nil(t, got.LastLoginAt)

		dup, err := domain.NewFarmer(domain.NewFarmerParams{
			FirstName: "Other", LastName: "Person", Email: "nomsa@example.com",
			Password: "another1", Phone: "0710000000", Location: "Durban",
		})
		require.NoError(t, err)
		assert.ErrorIs(t, s.Create(ctx, dup), store.ErrEmailExists)

		require.NoError(t, s.RecordLogin(ctx, f.ID, time.Now()))
		require.NoError(t, s.UpdateRole(ctx, f.ID, domain.RoleAdmin))

		st, err := s.Stats(ctx, time.Now().AddDate(0, 0, -30))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, st.Active, 1)
		assert.GreaterOrEqual(t, st.RecentRegistration, 1)

		require.NoError(t, s.Delete(ctx, f.ID))
		_, err = s.GetByID(ctx, f.ID)
		assert.ErrorIs(t, err, store.ErrFarmerNotFound)
	})
}

func TestQueryAndScanStores_Integration(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		f := createFarmer(t, postgres.NewPostgresFarmerStore(tx, bcrypt.MinCost), "scan@example.com")

		queries := postgres.NewPostgresQueryStore(tx)
		q, err := domain.NewQuery(f.ID, domain.ChannelText, domain.LanguageEnglish)
		require.NoError(t, err)
		q.Advice = "Water early in the morning."
		q.Category = domain.CategoryWatering
		require.NoError(t, queries.Create(ctx, q))

		list, err := queries.ListByFarmer(ctx, f.ID, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.CategoryWatering, list[0].Category)

		scans := postgres.NewPostgresScanStore(tx)
		scan, err := domain.NewPlantScan(f.ID, "image/jpeg", []byte{0xff, 0xd8, 0xff})
		require.NoError(t, err)
		require.NoError(t, scans.Create(ctx, scan))

		scan.Complete(domain.Diagnosis{Disease: "Root Rot", Confidence: 0.7})
		require.NoError(t, scans.UpdateResult(ctx, scan))

		got, err := scans.GetByID(ctx, scan.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ScanStatusCompleted, got.Status)
		assert.Equal(t, "Root Rot", got.Diagnosis.Disease)
		assert.Equal(t, []byte{0xff, 0xd8, 0xff}, got.Image)
	})
}

func TestTaskStore_Integration(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTaskStore(tx)

		tk, err := task.NewPlantDiagnosisTask(uuid.New(), noopProcessor{})
		require.NoError(t, err)
		require.NoError(t, s.SaveTask(ctx, tk))

		pending, err := s.GetPendingTasks(ctx)
		require.NoError(t, err)
		assert.Contains(t, taskIDs(pending), tk.ID())

		require.NoError(t, s.UpdateTaskStatus(ctx, tk.ID(), task.TaskStatusProcessing, ""))
		processing, err := s.GetProcessingTasks(ctx, 0)
		require.NoError(t, err)
		assert.Contains(t, taskIDs(processing), tk.ID())
	})
}

type noopProcessor struct{}

func (noopProcessor) ProcessScan(context.Context, uuid.UUID) error { return nil }

func taskIDs(recs []task.Record) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return ids
}
