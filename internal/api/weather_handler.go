package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/agrinathi/agrinathi-api/internal/api/shared"
	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
)

// WeatherService is the weather lookup used by WeatherHandler.
type WeatherService interface {
	Current(ctx context.Context, loc domain.Location) (*domain.WeatherData, error)
	Forecast(ctx context.Context, loc domain.Location) (*domain.Forecast, error)
}

// WeatherHandler serves current conditions and forecasts with farming
// advisories.
type WeatherHandler struct {
	weather WeatherService
	logger  *slog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(weather WeatherService, logger *slog.Logger) *WeatherHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherHandler{weather: weather, logger: logger.With("component", "weather_handler")}
}

// Current handles GET /api/weather/current?lat=..&lon=..
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.location(w, r)
	if !ok {
		return
	}
	data, err := h.weather.Current(r.Context(), loc)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch weather")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, data)
}

// Forecast handles GET /api/weather/forecast?lat=..&lon=..
func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.location(w, r)
	if !ok {
		return
	}
	fc, err := h.weather.Forecast(r.Context(), loc)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch forecast")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, fc)
}

func (h *WeatherHandler) location(w http.ResponseWriter, r *http.Request) (domain.Location, bool) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return domain.Location{}, false
	}
	lon, err := queryFloat(r, "lon")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return domain.Location{}, false
	}
	loc := domain.Location{Name: r.URL.Query().Get("name"), Latitude: lat, Longitude: lon}
	if err := loc.Validate(); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("rejected coordinates",
			"lat", lat, "lon", lon)
		HandleAPIError(w, r, err, "")
		return domain.Location{}, false
	}
	return loc, true
}
