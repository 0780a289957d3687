package domain

import "time"

// WeatherData is an observation of current conditions.
type WeatherData struct {
	Location    Location  `json:"location"`
	ObservedAt  time.Time `json:"observed_at"`
	Temperature float64   `json:"temperature_c"`
	TempMin     float64   `json:"temp_min_c"`
	TempMax     float64   `json:"temp_max_c"`
	Humidity    float64   `json:"humidity_pct"`
	WindSpeed   float64   `json:"wind_speed_ms"`
	RainMM      float64   `json:"rain_mm"`
	Description string    `json:"description"`
}

// DailyForecast summarizes one forecast day.
type DailyForecast struct {
	Date        time.Time `json:"date"`
	TempMin     float64   `json:"temp_min_c"`
	TempMax     float64   `json:"temp_max_c"`
	RainMM      float64   `json:"rain_mm"`
	Humidity    float64   `json:"humidity_pct"`
	Description string    `json:"description"`
	ET0         float64   `json:"et0_mm"`
}

// AdvisoryKind names a farming weather warning.
type AdvisoryKind string

// Advisory kinds.
const (
	AdvisoryFrost     AdvisoryKind = "frost"
	AdvisoryHeavyRain AdvisoryKind = "heavy_rain"
	AdvisoryHeat      AdvisoryKind = "heat"
	AdvisoryDrySpell  AdvisoryKind = "dry_spell"
)

// Advisory is a warning derived from a forecast.
type Advisory struct {
	Kind    AdvisoryKind `json:"kind"`
	Date    *time.Time   `json:"date,omitempty"`
	Message string       `json:"message"`
}

// Forecast is an ordered list of daily summaries with derived advisories.
type Forecast struct {
	Location   Location        `json:"location"`
	Days       []DailyForecast `json:"days"`
	Advisories []Advisory      `json:"advisories"`
	FetchedAt  time.Time       `json:"fetched_at"`
}
