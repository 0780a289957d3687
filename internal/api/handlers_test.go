package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/agrinathi/agrinathi-api/internal/api"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/knowledge"
	"github.com/agrinathi/agrinathi-api/internal/mocks"
	"github.com/agrinathi/agrinathi-api/internal/service"
	"github.com/agrinathi/agrinathi-api/internal/store"
	"github.com/agrinathi/agrinathi-api/internal/weather"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestWeatherHandler(t *testing.T) {
	farmerID := uuid.New()
	pmb := domain.Location{Latitude: -29.6, Longitude: 30.38}

	t.Run("current", func(t *testing.T) {
		ws := &mocks.MockWeatherService{}
		ws.On("Current", mock.Anything, pmb).Return(&domain.WeatherData{Location: pmb, Temperature: 21.5}, nil)
		h := api.NewWeatherHandler(ws, nil)

		rr := httptest.NewRecorder()
		h.Current(rr, authedRequest(http.MethodGet, "/api/weather/current?lat=-29.6&lon=30.38", nil, farmerID, domain.RoleUser))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"temperature_c":21.5`)
	})

	t.Run("forecast with advisories", func(t *testing.T) {
		ws := &mocks.MockWeatherService{}
		ws.On("Forecast", mock.Anything, pmb).Return(&domain.Forecast{
			Location:   pmb,
			Advisories: []domain.Advisory{{Kind: domain.AdvisoryFrost, Message: "Frost expected"}},
		}, nil)
		h := api.NewWeatherHandler(ws, nil)

		rr := httptest.NewRecorder()
		h.Forecast(rr, authedRequest(http.MethodGet, "/api/weather/forecast?lat=-29.6&lon=30.38", nil, farmerID, domain.RoleUser))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"kind":"frost"`)
	})

	t.Run("unavailable", func(t *testing.T) {
		ws := &mocks.MockWeatherService{}
		ws.On("Current", mock.Anything, pmb).Return(nil, weather.ErrUnavailable)
		h := api.NewWeatherHandler(ws, nil)

		rr := httptest.NewRecorder()
		h.Current(rr, authedRequest(http.MethodGet, "/api/weather/current?lat=-29.6&lon=30.38", nil, farmerID, domain.RoleUser))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	for _, q := range []string{"lon=30", "lat=abc&lon=30", "lat=95&lon=30", "lat=-29&lon=181"} {
		t.Run("rejects "+q, func(t *testing.T) {
			h := api.NewWeatherHandler(&mocks.MockWeatherService{}, nil)
			rr := httptest.NewRecorder()
			h.Current(rr, authedRequest(http.MethodGet, "/api/weather/current?"+q, nil, farmerID, domain.RoleUser))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

type stubSearcher struct {
	matches []knowledge.Match
	limit   int
}

func (s *stubSearcher) Search(_ string, limit int) []knowledge.Match {
	s.limit = limit
	return s.matches
}

func TestKnowledgeSearch(t *testing.T) {
	kb := &stubSearcher{matches: []knowledge.Match{{
		Category:   domain.CategoryPests,
		Entry:      knowledge.Entry{Category: domain.CategoryPests, Name: "Aphids", Solutions: []string{"Neem oil"}},
		Confidence: 0.8,
	}}}
	h := api.NewKnowledgeHandler(kb)

	rr := httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodGet, "/api/knowledge/search?q=aphids+on+cabbage", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.KnowledgeSearchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Aphids", resp.Results[0].Title)
	assert.Equal(t, "aphids on cabbage", resp.Query)
	assert.Equal(t, 5, kb.limit)

	for _, q := range []string{"", "q=aphids&limit=0", "q=aphids&limit=21"} {
		rr := httptest.NewRecorder()
		h.Search(rr, httptest.NewRequest(http.MethodGet, "/api/knowledge/search?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func multipartImage(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="leaf.jpg"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestScanHandler(t *testing.T) {
	farmerID := uuid.New()
	jpeg := append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0}, 64)...)

	t.Run("upload accepted", func(t *testing.T) {
		scan := &domain.PlantScan{ID: uuid.New(), FarmerID: farmerID, Status: domain.ScanStatusPending}
		scans := &mocks.MockScanService{}
		scans.On("Upload", mock.Anything, farmerID, "image/jpeg", jpeg).Return(scan, nil)
		h := api.NewScanHandler(scans, 0, nil)

		body, ct := multipartImage(t, "image", "image/jpeg", jpeg)
		req := authedRequest(http.MethodPost, "/api/plant-scans", body, farmerID, domain.RoleUser)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		require.Equal(t, http.StatusAccepted, rr.Code)
		var resp api.ScanAcceptedResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, scan.ID, resp.ID)
		assert.Equal(t, domain.ScanStatusPending, resp.Status)
	})

	t.Run("content type sniffed when missing", func(t *testing.T) {
		scans := &mocks.MockScanService{}
		scans.On("Upload", mock.Anything, farmerID, "image/jpeg", jpeg).
			Return(&domain.PlantScan{ID: uuid.New(), Status: domain.ScanStatusPending}, nil)
		h := api.NewScanHandler(scans, 0, nil)

		body, ct := multipartImage(t, "image", "", jpeg)
		req := authedRequest(http.MethodPost, "/api/plant-scans", body, farmerID, domain.RoleUser)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		scans.AssertExpectations(t)
	})

	t.Run("oversized image", func(t *testing.T) {
		h := api.NewScanHandler(&mocks.MockScanService{}, 32, nil)

		body, ct := multipartImage(t, "image", "image/jpeg", jpeg)
		req := authedRequest(http.MethodPost, "/api/plant-scans", body, farmerID, domain.RoleUser)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("missing image field", func(t *testing.T) {
		h := api.NewScanHandler(&mocks.MockScanService{}, 0, nil)

		body, ct := multipartImage(t, "photo", "image/jpeg", jpeg)
		req := authedRequest(http.MethodPost, "/api/plant-scans", body, farmerID, domain.RoleUser)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "No image provided")
	})

	t.Run("unsupported type from service", func(t *testing.T) {
		scans := &mocks.MockScanService{}
		scans.On("Upload", mock.Anything, farmerID, "image/gif", mock.Anything).
			Return(nil, domain.ErrUnsupportedImageType)
		h := api.NewScanHandler(scans, 0, nil)

		body, ct := multipartImage(t, "image", "image/gif", []byte("GIF89a"))
		req := authedRequest(http.MethodPost, "/api/plant-scans", body, farmerID, domain.RoleUser)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("get own scan", func(t *testing.T) {
		scanID := uuid.New()
		scans := &mocks.MockScanService{}
		scans.On("Get", mock.Anything, farmerID, scanID).Return(&domain.PlantScan{
			ID: scanID, FarmerID: farmerID, Status: domain.ScanStatusCompleted,
			Diagnosis: &domain.Diagnosis{Disease: "Early Blight", Confidence: 0.82},
		}, nil)
		h := api.NewScanHandler(scans, 0, nil)

		req := withParam(authedRequest(http.MethodGet, "/api/plant-scans/"+scanID.String(), nil, farmerID, domain.RoleUser),
			"id", scanID.String())
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Early Blight")
	})

	t.Run("get someone else's scan", func(t *testing.T) {
		scanID := uuid.New()
		scans := &mocks.MockScanService{}
		scans.On("Get", mock.Anything, farmerID, scanID).Return(nil, service.ErrNotOwned)
		h := api.NewScanHandler(scans, 0, nil)

		req := withParam(authedRequest(http.MethodGet, "/", nil, farmerID, domain.RoleUser), "id", scanID.String())
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAdminHandler(t *testing.T) {
	adminID := uuid.New()
	targetID := uuid.New()

	t.Run("stats", func(t *testing.T) {
		admin := &mocks.MockAdminService{}
		admin.On("Stats", mock.Anything).Return(&service.AdminStats{
			FarmerStats:  store.FarmerStats{Total: 12, Active: 7, RecentRegistration: 3},
			TotalQueries: 40,
		}, nil)
		h := api.NewAdminHandler(admin, nil)

		rr := httptest.NewRecorder()
		h.Stats(rr, authedRequest(http.MethodGet, "/api/admin/stats", nil, adminID, domain.RoleAdmin))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total_users":12`)
		assert.Contains(t, rr.Body.String(), `"recent_registrations":3`)
	})

	t.Run("list users hides password hashes", func(t *testing.T) {
		admin := &mocks.MockAdminService{}
		admin.On("ListUsers", mock.Anything).Return([]*domain.Farmer{{
			ID: targetID, Email: "thandi@example.com", HashedPassword: "$2a$10$secret",
		}}, nil)
		h := api.NewAdminHandler(admin, nil)

		rr := httptest.NewRecorder()
		h.ListUsers(rr, authedRequest(http.MethodGet, "/api/admin/users", nil, adminID, domain.RoleAdmin))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "thandi@example.com")
		assert.NotContains(t, rr.Body.String(), "$2a$10$secret")
	})

	t.Run("export", func(t *testing.T) {
		admin := &mocks.MockAdminService{}
		admin.On("ExportUsers", mock.Anything).Return([]byte("PK\x03\x04xlsx"), nil)
		h := api.NewAdminHandler(admin, nil)

		rr := httptest.NewRecorder()
		h.ExportUsers(rr, authedRequest(http.MethodGet, "/api/admin/users/export", nil, adminID, domain.RoleAdmin))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), ".xlsx")
		assert.Equal(t, "PK\x03\x04xlsx", rr.Body.String())
	})

	deleteTests := []struct {
		name string
		err  error
		want int
	}{
		{"deleted", nil, http.StatusOK},
		{"self", domain.ErrCannotDeleteSelf, http.StatusBadRequest},
		{"unknown", store.ErrFarmerNotFound, http.StatusNotFound},
	}
	for _, tt := range deleteTests {
		t.Run("delete "+tt.name, func(t *testing.T) {
			admin := &mocks.MockAdminService{}
			admin.On("DeleteUser", mock.Anything, adminID, targetID).Return(tt.err)
			h := api.NewAdminHandler(admin, nil)

			req := withParam(authedRequest(http.MethodDelete, "/", nil, adminID, domain.RoleAdmin), "id", targetID.String())
			rr := httptest.NewRecorder()
			h.DeleteUser(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}

	t.Run("update role", func(t *testing.T) {
		admin := &mocks.MockAdminService{}
		admin.On("UpdateRole", mock.Anything, targetID, domain.RoleAdmin).Return(nil)
		admin.On("UpdateRole", mock.Anything, targetID, domain.Role("root")).Return(domain.ErrInvalidRole)
		h := api.NewAdminHandler(admin, nil)

		req := withParam(authedRequest(http.MethodPost, "/", bytes.NewBufferString(`{"role":"admin"}`), adminID, domain.RoleAdmin),
			"id", targetID.String())
		rr := httptest.NewRecorder()
		h.UpdateRole(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		req = withParam(authedRequest(http.MethodPost, "/", bytes.NewBufferString(`{"role":"root"}`), adminID, domain.RoleAdmin),
			"id", targetID.String())
		rr = httptest.NewRecorder()
		h.UpdateRole(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid role")
	})

	t.Run("analytics and settings", func(t *testing.T) {
		admin := &mocks.MockAdminService{}
		admin.On("Analytics", mock.Anything).Return(&service.Analytics{
			TotalUsers:      4,
			UserGrowth:      []store.MonthlyCount{{Month: "2025-02", Count: 4}},
			QueryTrends:     []store.QueryTrend{},
			PopularFeatures: []service.FeatureUsage{{Feature: service.FeatureVoice, Count: 9}},
		}, nil)
		admin.On("Settings").Return(service.Settings{AppName: "AgriNathi", MaxUploadSize: "10MB"})
		h := api.NewAdminHandler(admin, nil)

		rr := httptest.NewRecorder()
		h.Analytics(rr, authedRequest(http.MethodGet, "/api/admin/analytics", nil, adminID, domain.RoleAdmin))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "voice_recognition")

		rr = httptest.NewRecorder()
		h.Settings(rr, authedRequest(http.MethodGet, "/api/admin/settings", nil, adminID, domain.RoleAdmin))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "AgriNathi")
	})
}
