package occupation

import "strings"

// PlaceholderLabel is the dataset's neutral occupation placeholder, used for
// empty, retired, student or otherwise unmapped roles.
const PlaceholderLabel = "_______"

// Config holds the two lookup tables as injected configuration so a
// deployment can retune them without touching the resolution algorithm.
type Config struct {
	// CoarseToLabel maps form-side coarse categories to dataset labels.
	CoarseToLabel map[string]string
	// RiskWeights maps dataset labels to bounded risk weights.
	RiskWeights map[string]float64
}

// DefaultConfig mirrors the weights the classifier was trained against.
func DefaultConfig() Config {
	return Config{
		CoarseToLabel: map[string]string{
			"professional":   "Engineer",
			"management":     "Manager",
			"sales":          "Entrepreneur",
			"administrative": "Accountant",
			"service":        "Mechanic",
			"manufacturing":  "Mechanic",
			"healthcare":     "Doctor",
			"education":      "Teacher",
			"government":     "Lawyer",
			"self-employed":  "Entrepreneur",
			"retired":        PlaceholderLabel,
			"student":        PlaceholderLabel,
			"other":          "Writer",
		},
		RiskWeights: map[string]float64{
			PlaceholderLabel: 0.10,
			"Engineer":       0.05,
			"Developer":      0.05,
			"Scientist":      0.05,
			"Accountant":     0.08,
			"Teacher":        0.07,
			"Doctor":         0.04,
			"Lawyer":         0.07,
			"Architect":      0.06,
			"Manager":        0.08,
			"Entrepreneur":   0.12,
			"Journalist":     0.10,
			"Musician":       0.14,
			"Writer":         0.10,
			"Mechanic":       0.11,
			"Media_Manager":  0.09,
		},
	}
}

// Mapper resolves a free-text or coarse role label to a bounded risk weight
// via two stages: coarse category -> dataset label -> weight. The two-stage
// indirection bridges the vocabulary gap between the user-facing form and the
// dataset the classifier was trained on. Unknown input is never an error; it
// resolves to the neutral placeholder.
type Mapper struct {
	cfg Config
}

func NewMapper(cfg Config) *Mapper {
	return &Mapper{cfg: cfg}
}

// CanonicalLabel performs stage one.
func (m *Mapper) CanonicalLabel(role string) string {
	if label, ok := m.cfg.CoarseToLabel[strings.ToLower(strings.TrimSpace(role))]; ok {
		return label
	}

	return PlaceholderLabel
}

// Weight performs stage two: weight lookup with the placeholder's weight as
// the default for unknown labels.
func (m *Mapper) Weight(label string) float64 {
	if w, ok := m.cfg.RiskWeights[strings.TrimSpace(label)]; ok {
		return w
	}

	return m.cfg.RiskWeights[PlaceholderLabel]
}

// RiskWeight resolves a raw role through both stages.
func (m *Mapper) RiskWeight(role string) float64 {
	return m.Weight(m.CanonicalLabel(role))
}
