package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/mocks"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	farmerID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedRole   domain.Role
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: farmerID, Role: domain.RoleAdmin},
			expectedStatus: http.StatusOK,
			expectedRole:   domain.RoleAdmin,
		},
		{
			name:           "lower-case scheme",
			authHeader:     "bearer valid-token",
			claims:         &auth.Claims{UserID: farmerID, Role: domain.RoleUser},
			expectedStatus: http.StatusOK,
			expectedRole:   domain.RoleUser,
		},
		{name: "missing auth header", expectedStatus: http.StatusUnauthorized},
		{name: "invalid auth format", authHeader: "InvalidFormat", expectedStatus: http.StatusUnauthorized},
		{name: "empty token", authHeader: "Bearer ", expectedStatus: http.StatusUnauthorized},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "refresh token used",
			authHeader:     "Bearer refresh-token",
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer some-token",
			validateErr:    errors.New("key store unavailable"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{ValidateErr: tt.validateErr, Claims: tt.claims}
			mw := NewAuthMiddleware(jwtService)

			var gotID uuid.UUID
			var gotRole domain.Role
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetUserID(r)
				gotRole = shared.Role(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/queries", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, farmerID, gotID)
				assert.Equal(t, tt.expectedRole, gotRole)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name string
		ctx  context.Context
		want int
	}{
		{"unauthenticated", context.Background(), http.StatusUnauthorized},
		{"farmer", shared.WithFarmer(context.Background(), uuid.New(), domain.RoleUser), http.StatusForbidden},
		{"admin", shared.WithFarmer(context.Background(), uuid.New(), domain.RoleAdmin), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil).WithContext(tt.ctx)
			rr := httptest.NewRecorder()

			RequireAdmin(ok).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	buf, l := logger.NewTestLogger(t)

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContextOrDefault(r.Context(), nil).Info("inside handler")
	})

	rr := httptest.NewRecorder()
	TraceMiddleware(l)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Len(t, traceID, 32)
	assert.Equal(t, traceID, rr.Header().Get("X-Trace-ID"))
	assert.Contains(t, buf.String(), `"trace_id":"`+traceID+`"`)
}

func TestTraceMiddleware_PropagatesCallerID(t *testing.T) {
	_, l := logger.NewTestLogger(t)
	const callerID = "0123456789abcdef0123456789abcdef"

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = shared.GetTraceID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(shared.TraceHeader, callerID)
	rr := httptest.NewRecorder()
	TraceMiddleware(l)(next).ServeHTTP(rr, req)
	assert.Equal(t, callerID, got)
	assert.Equal(t, callerID, rr.Header().Get(shared.TraceHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(shared.TraceHeader, "<script>")
	rr = httptest.NewRecorder()
	TraceMiddleware(l)(next).ServeHTTP(rr, req)
	assert.NotEqual(t, "<script>", got)
	assert.Len(t, got, 32)
}
