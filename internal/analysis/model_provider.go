package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// linearModel is an exported regression bundle: a weight per feature, a bias,
// and an output clamp. Bundles are trained offline and shipped as JSON.
type linearModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	OutMin  float64   `json:"out_min"`
	OutMax  float64   `json:"out_max"`
}

func (m *linearModel) Predict(features []float64) ([]float64, error) {
	if len(features) != len(m.Weights) {
		return nil, fmt.Errorf("analysis: feature count %d does not match model width %d", len(features), len(m.Weights))
	}
	out := m.Bias
	for i, f := range features {
		out += f * m.Weights[i]
	}
	if out < m.OutMin {
		out = m.OutMin
	}
	if out > m.OutMax {
		out = m.OutMax
	}
	return []float64{out}, nil
}

// dirModelProvider loads model bundles from <dir>/<id>.json.
type dirModelProvider struct {
	dir string
}

// NewDirModelProvider returns a provider backed by a directory of exported
// model bundles. Missing bundles report ErrModelUnavailable so dual-path
// analyzers fall back to their rule paths.
func NewDirModelProvider(dir string) ModelProvider {
	return &dirModelProvider{dir: dir}
}

func (p *dirModelProvider) LoadModel(id string) (Model, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrModelUnavailable
		}
		return nil, fmt.Errorf("analysis: failed to read model %s: %w", id, err)
	}
	var m linearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("analysis: failed to parse model %s: %w", id, err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("analysis: model %s has no weights", id)
	}
	return &m, nil
}
