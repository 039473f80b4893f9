// internal/refdata/postgres_store.go
package refdata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/models"
)

// PostgresStore serves reference data from a Postgres mirror of the
// bundled datasets. Country name lookups are resolved per call against
// the pm25_history table.
type PostgresStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewPostgresStore opens a connection pool against the given URL.
func NewPostgresStore(url string, log logger.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresStore{db: db, log: log}, nil
}

// NewPostgresStoreFromDB wraps an existing connection, used by tests.
func NewPostgresStoreFromDB(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, country string) ([]Observation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT country, year, pm25 FROM pm25_history WHERE country = $1 ORDER BY year ASC`,
		country)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var series []Observation
	for rows.Next() {
		var obs Observation
		if err := rows.Scan(&obs.Country, &obs.Year, &obs.PM25); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		series = append(series, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	if len(series) == 0 {
		return nil, ErrCountryNotFound
	}
	return series, nil
}

func (s *PostgresStore) Countries(ctx context.Context) ([]models.CountryInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT country, MIN(year), MAX(year), COUNT(*) FROM pm25_history GROUP BY country ORDER BY country ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying countries: %w", err)
	}
	defer rows.Close()

	var infos []models.CountryInfo
	for rows.Next() {
		var info models.CountryInfo
		if err := rows.Scan(&info.Name, &info.StartYear, &info.EndYear, &info.DataPoints); err != nil {
			return nil, fmt.Errorf("scanning country row: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating country rows: %w", err)
	}
	return infos, nil
}

func (s *PostgresStore) Baseline(ctx context.Context, country string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT disease, deaths FROM disease_baseline WHERE country = $1`,
		country)
	if err != nil {
		return nil, fmt.Errorf("querying baseline: %w", err)
	}
	defer rows.Close()

	baseline := make(map[string]float64)
	for rows.Next() {
		var disease string
		var deaths float64
		if err := rows.Scan(&disease, &deaths); err != nil {
			return nil, fmt.Errorf("scanning baseline row: %w", err)
		}
		baseline[disease] = deaths
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baseline rows: %w", err)
	}
	if len(baseline) == 0 {
		return nil, ErrCountryNotFound
	}
	return baseline, nil
}

func (s *PostgresStore) Canonical(name string) (string, bool) {
	var stored string
	err := s.db.QueryRow(
		`SELECT country FROM pm25_history WHERE LOWER(country) = $1 LIMIT 1`,
		strings.ToLower(strings.TrimSpace(name))).Scan(&stored)
	if err != nil {
		return "", false
	}
	return stored, true
}

func (s *PostgresStore) AgeShares(ctx context.Context, country string) (map[string]float64, bool) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT age_group, share FROM age_detail WHERE country = $1`,
		country)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	shares := make(map[string]float64)
	for rows.Next() {
		var group string
		var share float64
		if err := rows.Scan(&group, &share); err != nil {
			return nil, false
		}
		shares[group] = share
	}
	if rows.Err() != nil || len(shares) == 0 {
		return nil, false
	}
	return shares, true
}
