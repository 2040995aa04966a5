package entity

// Classifier class names, order-stable: the probability vector returned by
// the model aligns to this list.
const (
	ClassPoor     = "Poor"
	ClassStandard = "Standard"
	ClassGood     = "Good"
)

// Band is the named risk tier derived from score thresholds.
type Band string

const (
	BandPoor      Band = "Poor"      // < 580
	BandFair      Band = "Fair"      // < 670
	BandGood      Band = "Good"      // < 740
	BandVeryGood  Band = "Very Good" // < 800
	BandExcellent Band = "Excellent" // >= 800
)

func (b Band) String() string {
	return string(b)
}

// Adverse reports whether the band gates reason generation.
func (b Band) Adverse() bool {
	return b == BandPoor || b == BandFair
}

// Decision is the user-facing categorical outcome.
type Decision string

const (
	DecisionPoor     Decision = "Poor"
	DecisionStandard Decision = "Standard"
	DecisionGood     Decision = "Good"
)

func (d Decision) String() string {
	return string(d)
}

// RiskSignal is one interpretable contribution to the rule-based risk
// estimate. Weight is always clamped to [0,1].
type RiskSignal struct {
	Weight float64
	Label  string
}

// FusedOutcome combines the classifier and rule probabilities into the final
// score, band and decision. Constructed once per request, never mutated.
type FusedOutcome struct {
	RuleProbability    float64
	ModelProbability   float64
	BlendedProbability float64
	CreditScore        int
	Band               Band
	Decision           Decision
}

// Evaluation is the full response payload of a scoring request.
type Evaluation struct {
	Decision        Decision
	Confidence      float64 // top class probability, 0-100, one decimal
	Probabilities   map[string]float64
	RiskProbability float64 // blended, six decimals
	CreditScore     int
	Band            Band
	Message         string
	Reasons         []string
}
