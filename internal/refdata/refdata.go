// internal/refdata/refdata.go
package refdata

import (
	"context"

	"aq-insight/internal/models"
)

// Observation is one observed annual PM2.5 mean for a country.
type Observation struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	PM25    float64 `json:"pm25"`
}

// Provider serves the reference datasets the engines depend on:
// observed PM2.5 history and baseline cause-specific mortality.
type Provider interface {
	// History returns the observed series for a country, sorted by
	// year ascending. Returns ErrCountryNotFound for unknown names.
	History(ctx context.Context, country string) ([]Observation, error)

	// Countries lists every country with observed history, sorted by name.
	Countries(ctx context.Context) ([]models.CountryInfo, error)

	// Baseline returns annual baseline deaths per disease for a country.
	Baseline(ctx context.Context, country string) (map[string]float64, error)

	// Canonical resolves a case-insensitive country name to its stored
	// form. The second return is false when the country is unknown.
	Canonical(name string) (string, bool)

	// AgeShares returns the population share per age group for a
	// country. The second return is false when no age detail is
	// available; callers fall back to the default multipliers.
	AgeShares(ctx context.Context, country string) (map[string]float64, bool)
}
