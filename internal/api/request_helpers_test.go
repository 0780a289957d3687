package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		value   string
		want    uuid.UUID
		wantErr error
	}{
		{"valid", id.String(), id, nil},
		{"missing", "", uuid.Nil, domain.ErrValidation},
		{"malformed", "not-a-uuid", uuid.Nil, domain.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.value)
			got, err := getPathUUID(req, "id")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleFarmerIDAndPathUUID(t *testing.T) {
	farmerID := uuid.New()
	pathID := uuid.New()

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(shared.WithFarmer(req.Context(), farmerID, domain.RoleUser))
		req = withURLParam(req, "id", pathID.String())
		rr := httptest.NewRecorder()

		gotFarmer, gotPath, ok := handleFarmerIDAndPathUUID(rr, req, "id", nil)

		assert.True(t, ok)
		assert.Equal(t, farmerID, gotFarmer)
		assert.Equal(t, pathID, gotPath)
	})

	t.Run("no farmer in context", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", pathID.String())
		rr := httptest.NewRecorder()

		_, _, ok := handleFarmerIDAndPathUUID(rr, req, "id", nil)

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("bad path id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(shared.WithFarmer(req.Context(), farmerID, domain.RoleUser))
		req = withURLParam(req, "id", "12345")
		rr := httptest.NewRecorder()

		_, _, ok := handleFarmerIDAndPathUUID(rr, req, "id", nil)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=7&lat=-29.61&bad=x", nil)

	n, err := queryInt(req, "limit", 20)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = queryInt(req, "missing", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, err = queryInt(req, "bad", 20)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	f, err := queryFloat(req, "lat")
	require.NoError(t, err)
	assert.InDelta(t, -29.61, f, 1e-9)

	_, err = queryFloat(req, "lon")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
