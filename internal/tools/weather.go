package tools

import (
	"context"
	"errors"

	"github.com/todoevolve/server/internal/weather"
)

// weatherHandler wraps the Open-Meteo client. Upstream failures degrade to
// an error Result so the conversation continues instead of aborting.
func weatherHandler(wc *weather.Client) Handler {
	return func(ctx context.Context, userID string, args Args) Result {
		city := args.String("city")
		if city == "" {
			return Errorf("City name is required.")
		}

		report, err := wc.Current(ctx, city)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				return Errorf("City '%s' not found.", city)
			}
			return Errorf("Failed to fetch weather: %v", err)
		}

		return Success(report.String()).With("data", map[string]any{
			"temp": report.Temperature,
			"desc": report.Description,
		})
	}
}
