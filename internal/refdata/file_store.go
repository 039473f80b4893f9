// internal/refdata/file_store.go
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"aq-insight/internal/common/errors"
	"aq-insight/internal/common/logger"
	"aq-insight/internal/models"
)

// ErrCountryNotFound is returned when a country has no observed history.
var ErrCountryNotFound = fmt.Errorf("country not found")

type historyDocument struct {
	Unit      string                        `json:"unit"`
	Countries map[string]map[string]float64 `json:"countries"`
}

type baselineDocument struct {
	Year      int                           `json:"year"`
	Countries map[string]map[string]float64 `json:"countries"`
}

type ageDocument struct {
	Countries map[string]map[string]float64 `json:"countries"`
}

// FileStore serves reference data from the bundled JSON files. All
// lookups are in-memory after Load; the store is safe for concurrent
// reads.
type FileStore struct {
	history   map[string][]Observation
	baseline  map[string]map[string]float64
	ageShares map[string]map[string]float64
	canonical map[string]string // lower-cased name -> stored name
	log       logger.Logger
}

// FileStoreOptions locates the datasets on disk. AgeDetailPath and
// SchemaDir are optional.
type FileStoreOptions struct {
	HistoryPath   string
	BaselinePath  string
	AgeDetailPath string
	SchemaDir     string
	Validate      bool
}

// NewFileStore loads and indexes the reference datasets.
func NewFileStore(opts FileStoreOptions, log logger.Logger) (*FileStore, error) {
	s := &FileStore{
		history:   make(map[string][]Observation),
		baseline:  make(map[string]map[string]float64),
		ageShares: make(map[string]map[string]float64),
		canonical: make(map[string]string),
		log:       log,
	}

	historyRaw, err := os.ReadFile(opts.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("reading history data: %w", err)
	}
	baselineRaw, err := os.ReadFile(opts.BaselinePath)
	if err != nil {
		return nil, fmt.Errorf("reading baseline data: %w", err)
	}

	if opts.Validate && opts.SchemaDir != "" {
		if err := validateDocument(opts.SchemaDir, "pm25_history.schema.json", historyRaw); err != nil {
			return nil, errors.NewRefdataCorrupt(opts.HistoryPath, err)
		}
		if err := validateDocument(opts.SchemaDir, "disease_baseline.schema.json", baselineRaw); err != nil {
			return nil, errors.NewRefdataCorrupt(opts.BaselinePath, err)
		}
	}

	var hist historyDocument
	if err := json.Unmarshal(historyRaw, &hist); err != nil {
		return nil, errors.NewRefdataCorrupt(opts.HistoryPath, err)
	}
	for country, years := range hist.Countries {
		series := make([]Observation, 0, len(years))
		for yearStr, pm25 := range years {
			year, err := strconv.Atoi(yearStr)
			if err != nil {
				return nil, errors.NewRefdataCorrupt(opts.HistoryPath,
					fmt.Errorf("non-numeric year %q for %s", yearStr, country))
			}
			series = append(series, Observation{Country: country, Year: year, PM25: pm25})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
		s.history[country] = series
		s.canonical[strings.ToLower(country)] = country
	}

	var base baselineDocument
	if err := json.Unmarshal(baselineRaw, &base); err != nil {
		return nil, errors.NewRefdataCorrupt(opts.BaselinePath, err)
	}
	for country, diseases := range base.Countries {
		s.baseline[country] = diseases
		if _, ok := s.canonical[strings.ToLower(country)]; !ok {
			s.canonical[strings.ToLower(country)] = country
		}
	}

	// Age detail is an optional dataset; absence is not an error.
	if opts.AgeDetailPath != "" {
		ageRaw, err := os.ReadFile(opts.AgeDetailPath)
		if err != nil {
			log.Warn("age detail unavailable, using default multipliers", map[string]interface{}{
				"path":  opts.AgeDetailPath,
				"error": err.Error(),
			})
		} else {
			var ages ageDocument
			if err := json.Unmarshal(ageRaw, &ages); err != nil {
				log.Warn("age detail unreadable, using default multipliers", map[string]interface{}{
					"path":  opts.AgeDetailPath,
					"error": err.Error(),
				})
			} else {
				s.ageShares = ages.Countries
			}
		}
	}

	log.Info("reference data loaded", map[string]interface{}{
		"countries":        len(s.history),
		"baseline_entries": len(s.baseline),
		"age_entries":      len(s.ageShares),
	})
	return s, nil
}

func (s *FileStore) History(_ context.Context, country string) ([]Observation, error) {
	series, ok := s.history[country]
	if !ok {
		return nil, ErrCountryNotFound
	}
	out := make([]Observation, len(series))
	copy(out, series)
	return out, nil
}

func (s *FileStore) Countries(_ context.Context) ([]models.CountryInfo, error) {
	infos := make([]models.CountryInfo, 0, len(s.history))
	for name, series := range s.history {
		infos = append(infos, models.CountryInfo{
			Name:       name,
			StartYear:  series[0].Year,
			EndYear:    series[len(series)-1].Year,
			DataPoints: len(series),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (s *FileStore) Baseline(_ context.Context, country string) (map[string]float64, error) {
	diseases, ok := s.baseline[country]
	if !ok {
		return nil, ErrCountryNotFound
	}
	out := make(map[string]float64, len(diseases))
	for k, v := range diseases {
		out[k] = v
	}
	return out, nil
}

func (s *FileStore) Canonical(name string) (string, bool) {
	stored, ok := s.canonical[strings.ToLower(strings.TrimSpace(name))]
	return stored, ok
}

func (s *FileStore) AgeShares(_ context.Context, country string) (map[string]float64, bool) {
	shares, ok := s.ageShares[country]
	return shares, ok
}
