package config

import "time"

type Engine struct {
	// FusionMode selects how the classifier and rule risks combine:
	// "or" (probabilistic union) or "linear" (alpha-weighted average).
	FusionMode  string  `env:"ENGINE_FUSION_MODE" envDefault:"or"`
	FusionAlpha float64 `env:"ENGINE_FUSION_ALPHA" envDefault:"0.6"`

	OccupationMultiplier float64 `env:"ENGINE_OCCUPATION_MULTIPLIER" envDefault:"0.9"`
	DebtNormalizer       float64 `env:"ENGINE_DEBT_NORMALIZER" envDefault:"15000"`

	// Fuzzy loan-type matching on top of the regex table.
	FuzzyLoanMatching   bool    `env:"ENGINE_FUZZY_LOAN_MATCHING" envDefault:"true"`
	SimilarityThreshold float64 `env:"ENGINE_SIMILARITY_THRESHOLD" envDefault:"0.85"`

	TopKReasons int `env:"ENGINE_TOP_K_REASONS" envDefault:"4"`

	// Model-attribution reasons as a secondary source. Off by default: the
	// rule battery alone reproduces the documented behavior.
	AttributionReasons bool `env:"ENGINE_ATTRIBUTION_REASONS" envDefault:"false"`

	ResponseCacheTTL time.Duration `env:"ENGINE_RESPONSE_CACHE_TTL" envDefault:"5m"`
}
