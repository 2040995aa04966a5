package model

import "context"

// Classifier serves predictions from a loaded artifact bundle. All state is
// read-only after construction, so it is safe for concurrent use.
type Classifier struct {
	artifacts *Artifacts
}

func NewClassifier(artifacts *Artifacts) *Classifier {
	return &Classifier{artifacts: artifacts}
}

// Load is a convenience constructor from an artifact file path.
func Load(path string) (*Classifier, error) {
	artifacts, err := LoadArtifacts(path)
	if err != nil {
		return nil, err
	}

	return NewClassifier(artifacts), nil
}

func (c *Classifier) Classes() []string {
	return c.artifacts.ClassNames
}

func (c *Classifier) Version() string {
	return c.artifacts.ModelVersion
}

// Predict runs the forward pass and returns class probabilities aligned to
// Classes(). The pass is in-memory and fast, so the context is accepted for
// interface symmetry only.
func (c *Classifier) Predict(_ context.Context, features []float64) ([]float64, error) {
	return softmax(forward(c.artifacts.Layers, features)), nil
}
