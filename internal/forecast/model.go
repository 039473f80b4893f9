// internal/forecast/model.go
package forecast

import (
	"encoding/json"
	"fmt"
	"os"
)

// featureCount is the fixed width of the regression input:
// lag_1y, lag_3y, yoy_change, yoy_pct_change, rolling_mean_3y,
// rolling_mean_5y, year.
const featureCount = 7

// Model is a linear regression over the lag features, loaded from a
// weights file exported by the training pipeline.
type Model struct {
	Name        string    `json:"name"`
	Features    []string  `json:"features"`
	Intercept   float64   `json:"intercept"`
	Weights     []float64 `json:"weights"`
	Importances []float64 `json:"importances"`
}

// LoadModel reads and validates a weights file.
func LoadModel(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing model file: %w", err)
	}
	if len(m.Weights) != featureCount {
		return nil, fmt.Errorf("model has %d weights, want %d", len(m.Weights), featureCount)
	}
	if len(m.Features) != featureCount {
		return nil, fmt.Errorf("model has %d feature names, want %d", len(m.Features), featureCount)
	}
	return &m, nil
}

// Predict evaluates the regression for one feature vector.
func (m *Model) Predict(features [featureCount]float64) float64 {
	sum := m.Intercept
	for i, w := range m.Weights {
		sum += w * features[i]
	}
	return sum
}

// FeatureImportances pairs feature names with their importance scores,
// sorted descending. Falls back to absolute weights when the training
// pipeline did not export importances.
func (m *Model) FeatureImportances() []FeatureImportance {
	scores := m.Importances
	if len(scores) != featureCount {
		scores = make([]float64, featureCount)
		for i, w := range m.Weights {
			if w < 0 {
				w = -w
			}
			scores[i] = w
		}
	}
	out := make([]FeatureImportance, featureCount)
	for i := range out {
		out[i] = FeatureImportance{Feature: m.Features[i], Importance: scores[i]}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Importance > out[i].Importance {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// Importance looks up the score for one named feature, falling back
// to the absolute weight when no importances were exported.
func (m *Model) Importance(name string) float64 {
	for i, f := range m.Features {
		if f != name {
			continue
		}
		if len(m.Importances) == featureCount {
			return m.Importances[i]
		}
		w := m.Weights[i]
		if w < 0 {
			w = -w
		}
		return w
	}
	return 0
}

// FeatureImportance is one named importance score.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}
