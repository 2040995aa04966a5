package fusion

import (
	"math"

	"creditdesk/internal/domain/entity"
)

// Mode selects the blending formula.
type Mode string

const (
	// ModeProbabilisticOR treats both probabilities as independent evidence
	// of the same adverse event: p + q - p*q. A single strong signal from
	// either source dominates instead of being averaged away.
	ModeProbabilisticOR Mode = "or"
	// ModeLinear is the fixed-weight blend retained for deployments that
	// still run the older formula.
	ModeLinear Mode = "linear"
)

const (
	ScoreMin = 300
	ScoreMax = 850

	defaultAlpha = 0.6
)

type Config struct {
	Mode Mode
	// Alpha is the model weight in linear mode.
	Alpha float64
}

func DefaultConfig() Config {
	return Config{
		Mode:  ModeProbabilisticOR,
		Alpha: defaultAlpha,
	}
}

// Mapper fuses the classifier's adverse-class probability with the rule
// scorer's probability and maps the result onto the score axis.
type Mapper struct {
	cfg Config
}

func NewMapper(cfg Config) Mapper {
	if cfg.Mode == "" {
		cfg.Mode = ModeProbabilisticOR
	}

	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = defaultAlpha
	}

	return Mapper{cfg: cfg}
}

// Fuse produces the full outcome. topClass is the classifier's own top
// predicted class name: the most favorable decision label requires agreement
// between the blended band and the raw classifier output.
func (m Mapper) Fuse(modelProbability, ruleProbability float64, topClass string) entity.FusedOutcome {
	modelProbability = clamp01(modelProbability)
	ruleProbability = clamp01(ruleProbability)

	blended := m.blend(modelProbability, ruleProbability)

	score := Score(blended)
	band := BandFor(score)

	return entity.FusedOutcome{
		RuleProbability:    ruleProbability,
		ModelProbability:   modelProbability,
		BlendedProbability: blended,
		CreditScore:        int(math.Round(score)),
		Band:               band,
		Decision:           decide(band, topClass),
	}
}

func (m Mapper) blend(modelProbability, ruleProbability float64) float64 {
	var blended float64

	switch m.cfg.Mode {
	case ModeLinear:
		blended = m.cfg.Alpha*modelProbability + (1-m.cfg.Alpha)*ruleProbability
	case ModeProbabilisticOR:
		fallthrough
	default:
		blended = modelProbability + ruleProbability - modelProbability*ruleProbability
	}

	return clamp01(blended)
}

// Score maps a blended probability onto the 300-850 axis: a strictly
// decreasing affine function, 0 risk -> 850, certainty of adverse -> 300.
func Score(blended float64) float64 {
	score := ScoreMax - (ScoreMax-ScoreMin)*clamp01(blended)

	return math.Min(math.Max(score, ScoreMin), ScoreMax)
}

// BandFor partitions the score axis into non-overlapping named tiers.
func BandFor(score float64) entity.Band {
	switch {
	case score < 580:
		return entity.BandPoor
	case score < 670:
		return entity.BandFair
	case score < 740:
		return entity.BandGood
	case score < 800:
		return entity.BandVeryGood
	default:
		return entity.BandExcellent
	}
}

func decide(band entity.Band, topClass string) entity.Decision {
	switch band {
	case entity.BandPoor:
		return entity.DecisionPoor
	case entity.BandFair:
		return entity.DecisionStandard
	case entity.BandGood, entity.BandVeryGood, entity.BandExcellent:
		if topClass == entity.ClassGood && (band == entity.BandVeryGood || band == entity.BandExcellent) {
			return entity.DecisionGood
		}

		return entity.DecisionStandard
	default:
		return entity.DecisionStandard
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
