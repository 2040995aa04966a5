package model

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Artifacts is the exported classifier bundle: class list, feature layout,
// scaler statistics, categorical vocabularies and dense layer parameters.
// The bundle is produced offline by the training pipeline; this package only
// ever reads it.
type Artifacts struct {
	ModelVersion    string        `json:"model_version"`
	ClassNames      []string      `json:"class_names"`
	NumericFeatures []string      `json:"numeric_features"`
	Scaler          Scaler        `json:"scaler"`
	Categorical     []Categorical `json:"categorical"`
	Layers          []Layer       `json:"layers"`
}

// Scaler holds per-numeric-feature standardization statistics, aligned to
// NumericFeatures.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Categorical is one one-hot encoded column with its fitted vocabulary.
// Values outside the vocabulary encode as all zeros.
type Categorical struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Layer is one dense layer. Weights is row-major [out][in].
type Layer struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// LoadArtifacts reads and validates the bundle. Every dimension is checked up
// front so Predict never has to.
func LoadArtifacts(path string) (*Artifacts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifacts: %w", err)
	}

	var art Artifacts
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse artifacts: %w", err)
	}

	if err := art.validate(); err != nil {
		return nil, fmt.Errorf("validate artifacts: %w", err)
	}

	return &art, nil
}

func (a *Artifacts) validate() error {
	if len(a.ClassNames) == 0 {
		return fmt.Errorf("no class names")
	}

	if len(a.Scaler.Mean) != len(a.NumericFeatures) || len(a.Scaler.Scale) != len(a.NumericFeatures) {
		return fmt.Errorf("scaler statistics do not match %d numeric features", len(a.NumericFeatures))
	}

	if len(a.Layers) == 0 {
		return fmt.Errorf("no layers")
	}

	inDim := a.InputDim()

	for i, layer := range a.Layers {
		if len(layer.Weights) == 0 || len(layer.Weights) != len(layer.Biases) {
			return fmt.Errorf("layer %d: %d weight rows, %d biases", i, len(layer.Weights), len(layer.Biases))
		}

		for _, row := range layer.Weights {
			if len(row) != inDim {
				return fmt.Errorf("layer %d: weight row of width %d, want %d", i, len(row), inDim)
			}
		}

		inDim = len(layer.Biases)
	}

	if inDim != len(a.ClassNames) {
		return fmt.Errorf("output width %d does not match %d classes", inDim, len(a.ClassNames))
	}

	return nil
}

// InputDim is the width of the encoded feature vector: scaled numerics plus
// all one-hot columns.
func (a *Artifacts) InputDim() int {
	dim := len(a.NumericFeatures)
	for _, cat := range a.Categorical {
		dim += len(cat.Values)
	}

	return dim
}
