package analysis

import (
	"errors"

	"go.uber.org/zap"
)

// FeatureSentinel encodes an absent optional input in inference feature
// vectors. It must match the training-data convention exactly or inference
// becomes silently miscalibrated; optional values stay *float64 everywhere
// else and convert only at this boundary.
const FeatureSentinel = -1.0

// SentinelValue converts an optional measurement to its feature encoding.
func SentinelValue(p *float64) float64 {
	if p == nil {
		return FeatureSentinel
	}
	return *p
}

// Model is a loaded inference model.
type Model interface {
	Predict(features []float64) ([]float64, error)
}

// ModelProvider loads compiled models by identifier.
type ModelProvider interface {
	LoadModel(id string) (Model, error)
}

// ErrModelUnavailable is the provider error for models that are not present
// on this device.
var ErrModelUnavailable = errors.New("analysis: model unavailable")

// noModelProvider is the default provider on devices without compiled models.
type noModelProvider struct{}

func (noModelProvider) LoadModel(string) (Model, error) {
	return nil, ErrModelUnavailable
}

// NoModelProvider returns a provider with no models; every dual-path
// analyzer using it runs its rule-based path.
func NoModelProvider() ModelProvider {
	return noModelProvider{}
}

// DualPath wraps one analyzer capability with the infer-or-fallback
// contract: if inference is enabled, the model loads, feature encoding
// succeeds, and prediction does not fail, the inference result is used —
// otherwise the rule-based result is, silently. The caller always gets a
// result, never an absence.
type DualPath[I, O any] struct {
	Name     string
	Provider ModelProvider
	ModelID  string
	Enabled  bool
	Logger   *zap.Logger

	// Encode builds the model feature vector; absent optionals become
	// FeatureSentinel here and nowhere earlier.
	Encode func(I) ([]float64, error)
	// Decode turns raw model outputs into the result type.
	Decode func(I, []float64) (O, error)
	// Rules is the rule-based equivalent, always available.
	Rules func(I) O
	// Merge, when set, folds explainability-only fields (contributing-factor
	// lists and the like) from the rule-based result into the inference one.
	Merge func(ruleOut, inferred O) O

	model       Model
	loadFailed  bool
	loadChecked bool
}

// Run evaluates one input. Any inference failure falls back to the
// rule-based path and is logged, never surfaced.
func (d *DualPath[I, O]) Run(in I) O {
	ruleOut := d.Rules(in)
	if !d.Enabled || d.Provider == nil {
		return ruleOut
	}

	if !d.loadChecked {
		d.loadChecked = true
		m, err := d.Provider.LoadModel(d.ModelID)
		if err != nil {
			d.loadFailed = true
			d.log("model load failed, using rule-based path", err)
		} else {
			d.model = m
		}
	}
	if d.loadFailed {
		return ruleOut
	}

	features, err := d.Encode(in)
	if err != nil {
		d.log("feature encoding failed, using rule-based path", err)
		return ruleOut
	}
	outputs, err := d.model.Predict(features)
	if err != nil {
		d.log("inference failed, using rule-based path", err)
		return ruleOut
	}
	decoded, err := d.Decode(in, outputs)
	if err != nil {
		d.log("output decoding failed, using rule-based path", err)
		return ruleOut
	}

	if d.Merge != nil {
		return d.Merge(ruleOut, decoded)
	}
	return decoded
}

func (d *DualPath[I, O]) log(msg string, err error) {
	if d.Logger != nil {
		d.Logger.Warn(msg, zap.String("analyzer", d.Name), zap.String("model", d.ModelID), zap.Error(err))
	}
}
