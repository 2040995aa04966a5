package loantype

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"creditdesk/internal/domain/entity"
)

// Similarity is the pluggable approximate-matching capability used when no
// pattern matched a token. The normalizer behaves identically, just less
// permissively, with the exact-only implementation.
type Similarity interface {
	BestMatch(token string, choices []entity.LoanCategory) (entity.LoanCategory, bool)
}

// ExactOnly disables approximate matching.
type ExactOnly struct{}

func (ExactOnly) BestMatch(string, []entity.LoanCategory) (entity.LoanCategory, bool) {
	return "", false
}

const defaultSimilarityThreshold = 0.85

// JaroWinkler accepts the nearest canonical category when its similarity to
// the token clears the threshold.
type JaroWinkler struct {
	threshold float64
	metric    *metrics.JaroWinkler
}

func NewJaroWinkler(threshold float64) JaroWinkler {
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}

	return JaroWinkler{
		threshold: threshold,
		metric:    metrics.NewJaroWinkler(),
	}
}

func (j JaroWinkler) BestMatch(token string, choices []entity.LoanCategory) (entity.LoanCategory, bool) {
	var (
		best      entity.LoanCategory
		bestScore float64
	)

	low := strings.ToLower(token)

	for _, choice := range choices {
		score := strutil.Similarity(low, strings.ToLower(choice.String()), j.metric)
		if score > bestScore {
			best, bestScore = choice, score
		}
	}

	if bestScore < j.threshold {
		return "", false
	}

	return best, true
}
