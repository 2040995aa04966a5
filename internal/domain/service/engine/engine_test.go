package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"creditdesk/internal/domain"
	"creditdesk/internal/domain/entity"
	"creditdesk/internal/domain/service/engine"
	"creditdesk/internal/domain/service/fusion"
	"creditdesk/internal/domain/service/loantype"
	"creditdesk/internal/domain/service/occupation"
	"creditdesk/internal/domain/service/reasons"
	"creditdesk/internal/domain/service/rulerisk"
	"creditdesk/pkg/errcodes"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

type stubClassifier struct {
	classes []string
	probs   []float64
	err     error
}

func (s stubClassifier) Classes() []string { return s.classes }

func (s stubClassifier) Encode(entity.ApplicantView) []float64 { return nil }

func (s stubClassifier) Predict(context.Context, []float64) ([]float64, error) {
	return s.probs, s.err
}

func newEngine(classifier engine.Classifier) *engine.Engine {
	return engine.New(
		loantype.NewNormalizer(nil),
		occupation.NewMapper(occupation.DefaultConfig()),
		rulerisk.NewScorer(rulerisk.DefaultConfig()),
		fusion.NewMapper(fusion.DefaultConfig()),
		reasons.NewRanker(reasons.RuleSource{}, 4),
		classifier,
	)
}

func TestEvaluateAdverseApplicant(t *testing.T) {
	rq := require.New(t)

	eng := newEngine(stubClassifier{
		classes: []string{entity.ClassPoor, entity.ClassStandard, entity.ClassGood},
		probs:   []float64{0.613, 0.3, 0.087},
	})

	evaluation, err := eng.Evaluate(context.Background(), entity.ApplicantRecord{
		MonthlyIncome:    fp(2500),
		HousingCost:      fp(1300),
		OtherExpenses:    fp(700),
		InvestedMonthly:  fp(0),
		EmploymentRole:   "Retail Clerk",
		LoanDescriptions: []string{"Payday Loan", "Personal Loan"},
		SpendingHint:     "High_spent_Large_value_payments",
		StatusHint:       "Poor",
	})
	rq.NoError(err)

	rq.Equal(entity.BandPoor, evaluation.Band)
	rq.Equal(entity.DecisionPoor, evaluation.Decision)
	rq.GreaterOrEqual(len(evaluation.Reasons), 3)
	rq.InDelta(61.3, evaluation.Confidence, 1e-9)
	rq.GreaterOrEqual(evaluation.CreditScore, fusion.ScoreMin)
	rq.Less(evaluation.CreditScore, 580)
	rq.Greater(evaluation.RiskProbability, 0.6)
	rq.True(strings.HasPrefix(evaluation.Message, "⚠️"))
	rq.InDelta(0.613, evaluation.Probabilities[entity.ClassPoor], 1e-9)
}

func TestEvaluateStrongApplicant(t *testing.T) {
	rq := require.New(t)

	eng := newEngine(stubClassifier{
		classes: []string{entity.ClassPoor, entity.ClassStandard, entity.ClassGood},
		probs:   []float64{0.05, 0.25, 0.70},
	})

	evaluation, err := eng.Evaluate(context.Background(), entity.ApplicantRecord{
		MonthlyIncome:    fp(8200),
		HousingCost:      fp(1800),
		OtherExpenses:    fp(500),
		InvestedMonthly:  fp(400),
		EmploymentRole:   "Software Engineer",
		LoanDescriptions: []string{"Auto Loan", "Home Loan", "Credit Card"},
		StatusHint:       "Good",
		NumBankAccounts:  ip(2),
		NumCreditCards:   ip(2),
		NumLoans:         ip(2),
	})
	rq.NoError(err)

	rq.Contains([]entity.Band{entity.BandGood, entity.BandVeryGood, entity.BandExcellent}, evaluation.Band)
	rq.GreaterOrEqual(evaluation.CreditScore, 700)
	rq.Empty(evaluation.Reasons)
	rq.InDelta(70.0, evaluation.Confidence, 1e-9)
}

func TestEvaluateClassifierFailure(t *testing.T) {
	rq := require.New(t)

	eng := newEngine(stubClassifier{
		classes: []string{entity.ClassPoor, entity.ClassStandard, entity.ClassGood},
		err:     errors.New("artifact corrupted"),
	})

	_, err := eng.Evaluate(context.Background(), entity.ApplicantRecord{})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.ClassifierUnavailable, code)
}

func TestEvaluateProbabilityMismatch(t *testing.T) {
	rq := require.New(t)

	eng := newEngine(stubClassifier{
		classes: []string{entity.ClassPoor, entity.ClassStandard, entity.ClassGood},
		probs:   []float64{0.5, 0.5},
	})

	_, err := eng.Evaluate(context.Background(), entity.ApplicantRecord{})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.ClassifierUnavailable, code)
}

func TestBuildView(t *testing.T) {
	rq := require.New(t)

	eng := newEngine(stubClassifier{classes: []string{entity.ClassPoor}})

	view := eng.BuildView(entity.ApplicantRecord{
		MonthlyIncome:    fp(3000),
		HousingCost:      fp(900),
		OtherExpenses:    fp(100),
		EmploymentRole:   "healthcare",
		ApplicationMonth: "March",
		LoanDescriptions: []string{"Student Loan"},
		StatusHint:       "Bad",
	})

	rq.InDelta(1000, *view.EMI, 1e-9)
	rq.Equal("Doctor", view.Occupation)
	rq.InDelta(0.04, view.OccupationRisk, 1e-9)
	rq.Equal("March", view.Month)
	rq.Equal(entity.ClassPoor, view.CreditMix) // "Bad" folds onto the dataset vocabulary
	rq.Equal([]entity.LoanCategory{entity.LoanStudent}, view.Loans.Matched)
}

func TestBuildViewDefaults(t *testing.T) {
	rq := require.New(t)

	eng := newEngine(stubClassifier{classes: []string{entity.ClassPoor}})

	view := eng.BuildView(entity.ApplicantRecord{})

	rq.Nil(view.EMI)
	rq.Equal(occupation.PlaceholderLabel, view.Occupation)
	rq.NotEmpty(view.Month) // defaults to the current month
	rq.Empty(view.CreditMix)
	rq.True(view.Loans.Empty())
}
