package auth

import (
	"context"
	"testing"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/config"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BCryptCost:                  bcrypt.MinCost,
	}
}

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(testSecret), func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	_, err := NewJWTService(testAuthConfig("too-short"))
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, fixed)
	farmerID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), farmerID, domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, farmerID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Errors(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	farmerID := uuid.New()

	issuer := newTestService(t, fixed)
	access, err := issuer.GenerateToken(context.Background(), farmerID, domain.RoleUser)
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(context.Background(), farmerID)
	require.NoError(t, err)

	other, err := newHMACJWTService(testAuthConfig("wrong-secret-that-is-long-enough-for-testing"),
		func() time.Time { return fixed })
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     *hmacJWTService
		token   string
		wantErr error
	}{
		{"expired", newTestService(t, fixed.Add(2*time.Hour)), access, ErrExpiredToken},
		{"within clock skew", newTestService(t, fixed.Add(61*time.Minute)), access, nil},
		{"wrong signature", other, access, ErrInvalidToken},
		{"malformed", issuer, "not.a.jwt", ErrInvalidToken},
		{"refresh token used as access token", issuer, refresh, ErrWrongTokenType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, fixed)
	farmerID := uuid.New()

	refresh, err := svc.GenerateRefreshToken(context.Background(), farmerID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, farmerID, claims.UserID)
	assert.Empty(t, claims.Role)

	_, err = newTestService(t, fixed.Add(25*time.Hour)).ValidateRefreshToken(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)

	access, err := svc.GenerateToken(context.Background(), farmerID, domain.RoleUser)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateRefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("umbila123"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier()
	assert.NoError(t, v.Compare(string(hash), "umbila123"))
	assert.Error(t, v.Compare(string(hash), "wrong"))
}
