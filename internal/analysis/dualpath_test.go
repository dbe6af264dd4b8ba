package analysis

import (
	"errors"
	"testing"
)

type stubModel struct {
	outputs  []float64
	err      error
	lastSeen []float64
}

func (m *stubModel) Predict(features []float64) ([]float64, error) {
	m.lastSeen = append([]float64(nil), features...)
	if m.err != nil {
		return nil, m.err
	}
	return m.outputs, nil
}

type stubProvider struct {
	model Model
	err   error
	loads int
}

func (p *stubProvider) LoadModel(string) (Model, error) {
	p.loads++
	if p.err != nil {
		return nil, p.err
	}
	return p.model, nil
}

func newTestDualPath(provider ModelProvider, enabled bool) *DualPath[float64, string] {
	return &DualPath[float64, string]{
		Name:     "test",
		Provider: provider,
		ModelID:  "test-v1",
		Enabled:  enabled,
		Encode:   func(in float64) ([]float64, error) { return []float64{in}, nil },
		Decode:   func(_ float64, out []float64) (string, error) { return "inferred", nil },
		Rules:    func(in float64) string { return "rules" },
	}
}

func TestDualPathDisabledUsesRules(t *testing.T) {
	p := &stubProvider{model: &stubModel{outputs: []float64{1}}}
	d := newTestDualPath(p, false)
	if got := d.Run(1); got != "rules" {
		t.Errorf("Run = %q, want rules when disabled", got)
	}
	if p.loads != 0 {
		t.Errorf("provider consulted %d times while disabled, want 0", p.loads)
	}
}

func TestDualPathMissingModelFallsBack(t *testing.T) {
	p := &stubProvider{err: ErrModelUnavailable}
	d := newTestDualPath(p, true)

	if got := d.Run(1); got != "rules" {
		t.Errorf("Run = %q, want rules when model is unavailable", got)
	}
	// load failure is remembered, not retried per call
	d.Run(2)
	if p.loads != 1 {
		t.Errorf("provider consulted %d times, want 1", p.loads)
	}
}

func TestDualPathInferenceWins(t *testing.T) {
	p := &stubProvider{model: &stubModel{outputs: []float64{42}}}
	d := newTestDualPath(p, true)
	if got := d.Run(1); got != "inferred" {
		t.Errorf("Run = %q, want inferred", got)
	}
	if p.loads != 1 {
		t.Errorf("provider consulted %d times, want 1 (cached afterwards)", p.loads)
	}
	d.Run(2)
	if p.loads != 1 {
		t.Errorf("model reloaded on second call; loads = %d", p.loads)
	}
}

func TestDualPathPredictErrorFallsBack(t *testing.T) {
	p := &stubProvider{model: &stubModel{err: errors.New("boom")}}
	d := newTestDualPath(p, true)
	if got := d.Run(1); got != "rules" {
		t.Errorf("Run = %q, want rules on prediction failure", got)
	}
}

func TestDualPathMergeFoldsRuleFields(t *testing.T) {
	p := &stubProvider{model: &stubModel{outputs: []float64{42}}}
	d := newTestDualPath(p, true)
	d.Merge = func(ruleOut, inferred string) string { return inferred + "+" + ruleOut }
	if got := d.Run(1); got != "inferred+rules" {
		t.Errorf("Run = %q, want merged result", got)
	}
}

func TestFallRiskDualPathSentinelEncoding(t *testing.T) {
	// Prediction fails on purpose so the rule result comes back, but the
	// model still sees the encoded feature vector.
	model := &stubModel{err: errors.New("no runtime")}
	p := &stubProvider{model: model}
	d := NewFallRiskDualPath(p, true, nil)

	rule := AnalyzeFallRisk(FallRiskInputs{WalkingSpeed: fp(0.55)})
	got := d.Run(FallRiskInputs{WalkingSpeed: fp(0.55)})

	if got.Score != rule.Score || got.Level != rule.Level {
		t.Errorf("fallback result %+v differs from rule result %+v", got, rule)
	}
	if len(model.lastSeen) != 8 {
		t.Fatalf("feature vector length = %d, want 8", len(model.lastSeen))
	}
	if model.lastSeen[0] != 0.55 {
		t.Errorf("walking speed feature = %v, want 0.55", model.lastSeen[0])
	}
	for i, f := range model.lastSeen[1:] {
		if f != FeatureSentinel {
			t.Errorf("absent feature %d = %v, want sentinel %v", i+1, f, FeatureSentinel)
		}
	}
}
