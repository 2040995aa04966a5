package engine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"creditdesk/internal/domain"
	"creditdesk/internal/domain/entity"
	"creditdesk/internal/domain/service/fusion"
	"creditdesk/internal/domain/service/loantype"
	"creditdesk/internal/domain/service/occupation"
	"creditdesk/internal/domain/service/reasons"
	"creditdesk/internal/domain/service/rulerisk"
	"creditdesk/pkg/errcodes"
)

// Classifier is the frozen external model. The engine hands it a fixed-order
// numeric feature vector and receives a probability vector aligned to
// Classes(); it does not know or care how either side is produced. The
// implementation must be safe for unsynchronized concurrent reads.
type Classifier interface {
	Classes() []string
	Encode(view entity.ApplicantView) []float64
	Predict(ctx context.Context, features []float64) ([]float64, error)
}

// Engine is the deterministic scoring pipeline: normalize, rule-score, fuse
// with the classifier, explain. It holds no per-request state; every request
// builds its own view and intermediates, so concurrent use needs no locking.
type Engine struct {
	normalizer  *loantype.Normalizer
	occupations *occupation.Mapper
	rules       *rulerisk.Scorer
	fusion      fusion.Mapper
	ranker      *reasons.Ranker
	classifier  Classifier
	metrics     *Metrics
}

func New(
	normalizer *loantype.Normalizer,
	occupations *occupation.Mapper,
	rules *rulerisk.Scorer,
	fusionMapper fusion.Mapper,
	ranker *reasons.Ranker,
	classifier Classifier,
) *Engine {
	return &Engine{
		normalizer:  normalizer,
		occupations: occupations,
		rules:       rules,
		fusion:      fusionMapper,
		ranker:      ranker,
		classifier:  classifier,
	}
}

// WithMetrics attaches decision counters; nil metrics are skipped.
func (e *Engine) WithMetrics(m *Metrics) *Engine {
	e.metrics = m
	return e
}

// Evaluate runs the full pipeline over one applicant record. It is a pure
// function of the record plus the frozen classifier state: identical input
// yields identical output.
func (e *Engine) Evaluate(ctx context.Context, rec entity.ApplicantRecord) (entity.Evaluation, error) {
	start := time.Now()

	view := e.BuildView(rec)

	features := e.classifier.Encode(view)

	probs, err := e.classifier.Predict(ctx, features)
	if err != nil {
		return entity.Evaluation{}, domain.WrapError(err, errcodes.ClassifierUnavailable, "classifier unavailable")
	}

	classes := e.classifier.Classes()
	if len(probs) != len(classes) {
		return entity.Evaluation{}, domain.NewError(errcodes.ClassifierUnavailable,
			fmt.Sprintf("classifier returned %d probabilities for %d classes", len(probs), len(classes)))
	}

	topIdx, poorIdx := 0, -1

	for i, class := range classes {
		if probs[i] > probs[topIdx] {
			topIdx = i
		}

		if class == entity.ClassPoor {
			poorIdx = i
		}
	}

	if poorIdx < 0 {
		return entity.Evaluation{}, domain.NewError(errcodes.ClassifierUnavailable,
			"classifier has no adverse class")
	}

	ruleProbability, _ := e.rules.Score(view)

	outcome := e.fusion.Fuse(probs[poorIdx], ruleProbability, classes[topIdx])

	confidence := round(probs[topIdx]*100, 1)

	probabilities := make(map[string]float64, len(classes))
	for i, class := range classes {
		probabilities[class] = probs[i]
	}

	evaluation := entity.Evaluation{
		Decision:        outcome.Decision,
		Confidence:      confidence,
		Probabilities:   probabilities,
		RiskProbability: round(outcome.BlendedProbability, 6),
		CreditScore:     outcome.CreditScore,
		Band:            outcome.Band,
		Message: fmt.Sprintf("%s Score %d (%s). Confidence %.1f%%.",
			bandIcon(outcome.Band), outcome.CreditScore, outcome.Band, confidence),
		Reasons: e.ranker.Reasons(view, outcome),
	}

	e.metrics.observe(outcome.Band, outcome.Decision, time.Since(start))

	return evaluation, nil
}

// BuildView derives the normalized applicant view: canonical loans, mapped
// occupation, normalized credit mix. The view is request-scoped.
func (e *Engine) BuildView(rec entity.ApplicantRecord) entity.ApplicantView {
	label := e.occupations.CanonicalLabel(rec.EmploymentRole)

	month := rec.ApplicationMonth
	if month == "" {
		month = time.Now().UTC().Month().String()
	}

	return entity.ApplicantView{
		Income:          rec.MonthlyIncome,
		EMI:             rec.EMI(),
		Invested:        rec.InvestedMonthly,
		Debt:            rec.OutstandingDebt,
		Utilization:     rec.Utilization,
		Age:             rec.Age,
		Occupation:      label,
		OccupationRisk:  e.occupations.Weight(label),
		Month:           month,
		CreditMix:       normalizeCreditMix(rec.StatusHint),
		Behaviour:       rec.SpendingHint,
		Loans:           e.normalizer.Normalize(rec.LoanDescriptions...),
		NumBankAccounts: rec.NumBankAccounts,
		NumCreditCards:  rec.NumCreditCards,
		NumLoans:        rec.NumLoans,
	}
}

// normalizeCreditMix folds reported status synonyms onto the dataset's
// Poor/Standard/Good vocabulary. Empty stays empty: an absent hint is
// unknown, not Standard.
func normalizeCreditMix(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}

	switch strings.ToLower(status) {
	case "poor", "bad":
		return entity.ClassPoor
	case "good":
		return entity.ClassGood
	case "standard", "average":
		return entity.ClassStandard
	default:
		return entity.ClassStandard
	}
}

func bandIcon(band entity.Band) string {
	switch band {
	case entity.BandPoor, entity.BandFair:
		return "⚠️"
	case entity.BandVeryGood, entity.BandExcellent:
		return "✅"
	default:
		return "⚖️"
	}
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
