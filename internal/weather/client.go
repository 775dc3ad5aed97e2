package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrCityNotFound means the geocoder had no match for the city name.
var ErrCityNotFound = errors.New("city not found")

// Report is the current weather for a resolved city.
type Report struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temp"`
	Unit        string  `json:"unit"`
	Description string  `json:"desc"`
}

// Client fetches current weather from the Open-Meteo public API, first
// geocoding the city name and then querying the forecast endpoint.
type Client struct {
	geocodeURL  string
	forecastURL string
	http        *http.Client
}

// New builds a client against the given Open-Meteo endpoints.
func New(geocodeURL, forecastURL string) *Client {
	return &Client{
		geocodeURL:  geocodeURL,
		forecastURL: forecastURL,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	CurrentUnits struct {
		Temperature string `json:"temperature_2m"`
	} `json:"current_units"`
}

// Current returns the current weather for a city.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	geoURL := fmt.Sprintf("%s?name=%s&count=1&language=en&format=json",
		c.geocodeURL, url.QueryEscape(city))

	var geo geocodeResponse
	if err := c.getJSON(ctx, geoURL, &geo); err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	if len(geo.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}
	loc := geo.Results[0]

	fcURL := fmt.Sprintf("%s?latitude=%v&longitude=%v&current=temperature_2m,weather_code",
		c.forecastURL, loc.Latitude, loc.Longitude)

	var fc forecastResponse
	if err := c.getJSON(ctx, fcURL, &fc); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	return &Report{
		City:        loc.Name,
		Temperature: fc.Current.Temperature,
		Unit:        fc.CurrentUnits.Temperature,
		Description: describeCode(fc.Current.WeatherCode),
	}, nil
}

// String renders the report the way it is shown to users.
func (r *Report) String() string {
	return fmt.Sprintf("Current weather in %s: %v%s, %s", r.City, r.Temperature, r.Unit, r.Description)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// describeCode maps WMO weather codes to a short human description.
func describeCode(code int) string {
	switch {
	case code >= 1 && code <= 3:
		return "Partly cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80:
		return "Showers/Thunderstorm"
	default:
		return "Clear sky"
	}
}
