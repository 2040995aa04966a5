package reasons

import (
	"sort"

	"creditdesk/internal/domain/entity"
)

const (
	defaultTopK = 4
	// minAdverseReasons is a hard contract with the UI: an adverse outcome
	// always carries at least this many reasons, even on minimal input.
	minAdverseReasons = 3

	adverseProbabilityGate = 0.5
)

// Generic fallbacks emitted when the whole pool is exhausted.
//
//nolint:gochecknoglobals
var genericReasons = []string{
	"Unfavorable income-to-expense balance.",
	"Insufficient verified credit history.",
	"Additional documentation required to assess affordability.",
}

// Ranker scores, orders, de-duplicates and pads explanation candidates.
type Ranker struct {
	primary   Source
	secondary Source // optional model-attribution source; may be nil
	topK      int
}

func NewRanker(primary Source, topK int) *Ranker {
	if topK <= 0 {
		topK = defaultTopK
	}

	return &Ranker{primary: primary, topK: topK}
}

// WithSecondarySource plugs an additional candidate source (e.g. classifier
// attribution) into the same ranking path. The rule battery remains the
// canonical source: secondary candidates only join the pool.
func (r *Ranker) WithSecondarySource(secondary Source) *Ranker {
	r.secondary = secondary
	return r
}

// Reasons returns the ranked explanation list for an outcome. Non-adverse
// outcomes get an empty list; adverse outcomes get between minAdverseReasons
// and topK distinct texts.
func (r *Ranker) Reasons(view entity.ApplicantView, outcome entity.FusedOutcome) []string {
	if !outcome.Band.Adverse() && outcome.BlendedProbability < adverseProbabilityGate {
		return nil
	}

	pool := r.primary.Candidates(view)
	if r.secondary != nil {
		pool = append(pool, r.secondary.Candidates(view)...)
	}

	// Stable sort: on equal severity the earlier check wins.
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Severity > pool[j].Severity
	})

	seen := make(map[string]struct{}, r.topK)
	out := make([]string, 0, r.topK)

	take := func(text string) {
		if _, ok := seen[text]; !ok {
			seen[text] = struct{}{}
			out = append(out, text)
		}
	}

	for _, c := range pool {
		if len(out) >= r.topK {
			break
		}

		take(c.Text)
	}

	// Pad from the remaining pool, then from the generic fallbacks, until the
	// minimum is met.
	if len(out) < minAdverseReasons {
		for _, c := range pool {
			if len(out) >= minAdverseReasons {
				break
			}

			take(c.Text)
		}
	}

	for _, text := range genericReasons {
		if len(out) >= minAdverseReasons {
			break
		}

		take(text)
	}

	return out
}
