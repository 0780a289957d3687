package testdb

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/platform/postgres"
	"github.com/agrinathi/agrinathi-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// URLEnv names the variable holding the integration database URL.
const URLEnv = "AGRINATHI_TEST_DATABASE_URL"

// fallbackURLEnvs are consulted, in order, when URLEnv is unset.
var fallbackURLEnvs = []string{"AGRINATHI_DATABASE_URL", "DATABASE_URL"}

// ciEnvs mark a continuous integration run.
var ciEnvs = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

var migrateOnce sync.Once

// IsCI reports whether the tests run under a CI provider.
func IsCI() bool {
	for _, e := range ciEnvs {
		if os.Getenv(e) != "" {
			return true
		}
	}
	return false
}

// DatabaseURL returns the integration database URL, or "". A fallback
// variable is used with a warning naming the preferred one.
func DatabaseURL(logger *slog.Logger) string {
	if v := os.Getenv(URLEnv); v != "" {
		return v
	}
	for _, e := range fallbackURLEnvs {
		if v := os.Getenv(e); v != "" {
			if logger != nil {
				logger.Warn("using fallback database url variable",
					"used_var", e,
					"preferred_var", URLEnv,
					"value", redact.String(v))
			}
			return v
		}
	}
	return ""
}

// Open connects to the integration database, applying migrations once per
// test binary. Without a URL the test is skipped locally and fails in CI.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	url := DatabaseURL(slog.Default())
	if url == "" {
		if IsCI() {
			t.Fatalf("%s must be set in CI", URLEnv)
		}
		t.Skipf("%s not set, skipping integration test", URLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, url)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	var migrateErr error
	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, postgres.MigrateUp, slog.Default())
	})
	require.NoError(t, migrateErr, "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
