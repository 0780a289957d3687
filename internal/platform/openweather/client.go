// Package openweather fetches current conditions and 5-day forecasts from
// the OpenWeatherMap REST API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/resilience"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// ErrNoAPIKey is returned when the client is used without a key.
var ErrNoAPIKey = errors.New("openweather api key not configured")

// Client talks to OpenWeatherMap.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL and a
// nil httpClient gets a 10 second timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type owmMain struct {
	Temp     float64 `json:"temp"`
	TempMin  float64 `json:"temp_min"`
	TempMax  float64 `json:"temp_max"`
	Humidity float64 `json:"humidity"`
}

type owmWeather struct {
	Description string `json:"description"`
}

type owmRain struct {
	OneHour   float64 `json:"1h"`
	ThreeHour float64 `json:"3h"`
}

type currentResponse struct {
	Name    string       `json:"name"`
	Dt      int64        `json:"dt"`
	Main    owmMain      `json:"main"`
	Weather []owmWeather `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain *owmRain `json:"rain"`
}

type forecastResponse struct {
	List []struct {
		Dt      int64        `json:"dt"`
		Main    owmMain      `json:"main"`
		Weather []owmWeather `json:"weather"`
		Rain    *owmRain     `json:"rain"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

func (c *Client) get(ctx context.Context, path string, loc domain.Location, out any) error {
	if c.apiKey == "" {
		return resilience.Permanent(ErrNoAPIKey)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return resilience.Permanent(fmt.Errorf("failed to build openweather request: %w", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("openweather request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		err := fmt.Errorf("openweather %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
		// 429 is worth retrying; other client errors are not.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return resilience.Permanent(err)
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resilience.Permanent(fmt.Errorf("failed to decode openweather %s response: %w", path, err))
	}
	return nil
}

// Current returns the observed conditions at loc.
func (c *Client) Current(ctx context.Context, loc domain.Location) (*domain.WeatherData, error) {
	var body currentResponse
	if err := c.get(ctx, "/weather", loc, &body); err != nil {
		return nil, err
	}

	w := &domain.WeatherData{
		Location:    loc,
		ObservedAt:  time.Unix(body.Dt, 0).UTC(),
		Temperature: body.Main.Temp,
		TempMin:     body.Main.TempMin,
		TempMax:     body.Main.TempMax,
		Humidity:    body.Main.Humidity,
		WindSpeed:   body.Wind.Speed,
		Description: firstDescription(body.Weather),
	}
	if w.Location.Name == "" {
		w.Location.Name = body.Name
	}
	if body.Rain != nil {
		w.RainMM = body.Rain.OneHour
	}
	return w, nil
}

// Forecast returns up to five daily summaries built from the 3-hourly
// forecast, grouped by the location's local calendar day.
func (c *Client) Forecast(ctx context.Context, loc domain.Location) ([]domain.DailyForecast, error) {
	var body forecastResponse
	if err := c.get(ctx, "/forecast", loc, &body); err != nil {
		return nil, err
	}

	zone := time.FixedZone("local", body.City.Timezone)
	type acc struct {
		day         domain.DailyForecast
		humiditySum float64
		n           int
		descCount   map[string]int
	}
	days := map[string]*acc{}

	for _, e := range body.List {
		local := time.Unix(e.Dt, 0).In(zone)
		key := local.Format("2006-01-02")
		a, ok := days[key]
		if !ok {
			date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
			a = &acc{
				day:       domain.DailyForecast{Date: date, TempMin: e.Main.TempMin, TempMax: e.Main.TempMax},
				descCount: map[string]int{},
			}
			days[key] = a
		}
		if e.Main.TempMin < a.day.TempMin {
			a.day.TempMin = e.Main.TempMin
		}
		if e.Main.TempMax > a.day.TempMax {
			a.day.TempMax = e.Main.TempMax
		}
		if e.Rain != nil {
			a.day.RainMM += e.Rain.ThreeHour
		}
		a.humiditySum += e.Main.Humidity
		a.n++
		if d := firstDescription(e.Weather); d != "" {
			a.descCount[d]++
		}
	}

	out := make([]domain.DailyForecast, 0, len(days))
	for _, a := range days {
		a.day.Humidity = a.humiditySum / float64(a.n)
		a.day.Description = mostCommon(a.descCount)
		out = append(out, a.day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if len(out) > 5 {
		out = out[:5]
	}
	return out, nil
}

func firstDescription(ws []owmWeather) string {
	if len(ws) == 0 {
		return ""
	}
	return ws[0].Description
}

func mostCommon(counts map[string]int) string {
	best, bestN := "", 0
	for d, n := range counts {
		if n > bestN || (n == bestN && d < best) {
			best, bestN = d, n
		}
	}
	return best
}
