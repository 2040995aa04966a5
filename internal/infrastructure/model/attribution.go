package model

import (
	"context"
	"sort"
	"strings"

	"creditdesk/internal/domain/entity"
	"creditdesk/internal/domain/service/reasons"
)

// Attribution phrasing per numeric feature. Texts deliberately match the
// rule battery where both describe the same signal, so the ranker merges
// them instead of listing near-duplicates.
var attributionTexts = map[string]string{ //nolint:gochecknoglobals
	"eng_burden":               "High monthly payment burden relative to income (EMI/income).",
	"eng_dti_monthly":          "High combined obligations (EMI + investments) relative to income.",
	"eng_cash_flow":            "Negative monthly cash flow (expenses exceed income).",
	"eng_utilization":          "High credit utilization ratio.",
	"Credit_Utilization_Ratio": "High credit utilization ratio.",
	"Outstanding_Debt":         "Large outstanding debt relative to typical profiles.",
	"Num_Credit_Card":          "High number of active credit cards.",
	"Num_of_Loan":              "High number of open loan accounts.",
	"Num_Bank_Accounts":        "Unusual number of bank accounts.",
	"eng_occ_risk":             "Occupation profile associated with elevated income volatility.",
}

const attributionSeverityCeiling = 0.6

// AttributionSource derives secondary reason candidates from the classifier
// itself: each numeric feature is zeroed in turn and the drop in the adverse
// class probability is read as that feature's contribution. It is a cheap
// finite-difference stand-in for gradient attribution, good enough to rank
// which inputs the model is reacting to.
type AttributionSource struct {
	classifier *Classifier
}

func NewAttributionSource(classifier *Classifier) *AttributionSource {
	return &AttributionSource{classifier: classifier}
}

func (s *AttributionSource) Candidates(view entity.ApplicantView) []reasons.Candidate {
	features := s.classifier.Encode(view)

	base := s.adverseProbability(features)

	type contribution struct {
		name  string
		delta float64
	}

	var contributions []contribution

	for i, name := range s.classifier.artifacts.NumericFeatures {
		saved := features[i]
		features[i] = 0

		delta := base - s.adverseProbability(features)

		features[i] = saved

		if delta > 1e-6 {
			contributions = append(contributions, contribution{name: name, delta: delta})
		}
	}

	if len(contributions) == 0 {
		return nil
	}

	sort.Slice(contributions, func(i, j int) bool {
		return contributions[i].delta > contributions[j].delta
	})

	top := contributions[0].delta

	candidates := make([]reasons.Candidate, 0, len(contributions))

	for _, c := range contributions {
		text, ok := attributionTexts[c.name]
		if !ok {
			if category, found := strings.CutPrefix(c.name, loanFlagPrefix); found {
				text = "Loan portfolio includes higher-risk products: " + category + "."
			} else {
				continue
			}
		}

		candidates = append(candidates, reasons.Candidate{
			Severity: attributionSeverityCeiling * (c.delta / top),
			Text:     text,
		})
	}

	return candidates
}

func (s *AttributionSource) adverseProbability(features []float64) float64 {
	probs, _ := s.classifier.Predict(context.Background(), features)

	for i, class := range s.classifier.Classes() {
		if class == entity.ClassPoor {
			return probs[i]
		}
	}

	return 0
}
