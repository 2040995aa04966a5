package rulerisk

import (
	"math"
	"sort"
	"strings"

	"creditdesk/internal/domain/entity"
)

// Per-category loan penalties. Categories absent from the table (future
// canonical additions) cost the unknown-canonical default.
//
//nolint:gochecknoglobals // frozen penalty table
var loanPenalties = map[entity.LoanCategory]float64{
	entity.LoanPayday:            0.50,
	entity.LoanDebtConsolidation: 0.25,
	entity.LoanPersonal:          0.15,
	entity.LoanStudent:           0.10,
	entity.LoanAuto:              0.05,
	entity.LoanHomeEquity:        0.04,
	entity.LoanMortgage:          0.03,
	entity.LoanCreditBuilder:     0.00,
}

const (
	unknownCategoryPenalty = 0.05
	missingIncomeBurden    = 0.7 // absence of income data reads as risk, not neutrality
	neutralRisk            = 0.3
	loanRiskCap            = 0.7
	diversityBonusCap      = 0.25
	diversityBonusScale    = 0.15
)

// Config exposes the tunable knobs of the scorer.
type Config struct {
	// OccupationMultiplier scales the occupation weight's rule-layer impact.
	OccupationMultiplier float64
	// DebtNormalizer is the outstanding-debt amount that saturates the debt
	// signal at 1.0.
	DebtNormalizer float64
}

func DefaultConfig() Config {
	return Config{
		OccupationMultiplier: 0.9,
		DebtNormalizer:       15000,
	}
}

// Scorer computes an interpretable risk probability in [0,1] from a battery
// of affordability, utilization, loan-mix, behavioral and count signals.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score evaluates the signal battery against the view and aggregates the
// fired signals with worst-half averaging. The returned signals are the
// fired, clamped contributions in evaluation order.
func (s *Scorer) Score(view entity.ApplicantView) (float64, []entity.RiskSignal) {
	var signals []entity.RiskSignal

	add := func(weight float64, label string) {
		signals = append(signals, entity.RiskSignal{Weight: clamp01(weight), Label: label})
	}

	if pen := s.cfg.OccupationMultiplier * view.OccupationRisk; pen > 0 {
		add(pen, "occupation")
	}

	if view.Income != nil && *view.Income > 0 && view.EMI != nil {
		burden := *view.EMI / *view.Income
		add(clamp01((burden-0.3)/0.6), "payment_burden")
	} else {
		add(missingIncomeBurden, "payment_burden")
	}

	if view.Income != nil && view.EMI != nil && view.Invested != nil && *view.Income > 0 {
		dti := (*view.EMI + *view.Invested) / *view.Income
		add(clamp01((dti-0.3)/0.6), "debt_to_income")
	}

	if view.Income != nil && view.EMI != nil && view.Invested != nil {
		switch cashFlow := *view.Income - (*view.EMI + *view.Invested); {
		case cashFlow < 0:
			add(0.9, "cash_flow")
		case cashFlow < 300:
			add(0.6, "cash_flow")
		default:
			add(0.1, "cash_flow")
		}
	}

	if view.Utilization != nil {
		add(clamp01((*view.Utilization-0.3)/0.5), "utilization")
	}

	if loanRisk := LoanMixRisk(view.Loans); loanRisk > 0 {
		add(loanRisk, "loan_mix")
	}

	if behaviourIsHighSpend(view.Behaviour) {
		add(0.6, "spending_behaviour")
	}

	if mix := strings.ToLower(strings.TrimSpace(view.CreditMix)); mix == "bad" || mix == "poor" {
		add(0.7, "credit_mix")
	}

	if view.Debt != nil {
		add(clamp01(*view.Debt/s.cfg.DebtNormalizer), "outstanding_debt")
	}

	if view.NumBankAccounts != nil {
		switch n := *view.NumBankAccounts; {
		case n <= 0:
			add(0.2, "bank_accounts")
		case n >= 9:
			add(0.15, "bank_accounts")
		}
	}

	if view.NumCreditCards != nil {
		switch n := *view.NumCreditCards; {
		case n >= 8:
			add(0.35, "credit_cards")
		case n >= 5:
			add(0.2, "credit_cards")
		case n == 0:
			add(0.1, "credit_cards")
		}
	}

	if view.NumLoans != nil {
		switch n := *view.NumLoans; {
		case n >= 6:
			add(0.5, "open_loans")
		case n >= 4:
			add(0.3, "open_loans")
		case n == 0:
			add(0.05, "open_loans")
		}
	}

	return worstHalf(signals), signals
}

// LoanMixRisk sums per-category penalties over the matched set, subtracts a
// diversity bonus when more than one type is present (diversification is
// mildly protective), then floors at 0 and soft-caps at 0.7.
func LoanMixRisk(loans entity.CanonicalLoanSet) float64 {
	var risk float64
	for _, category := range loans.Matched {
		if pen, ok := loanPenalties[category]; ok {
			risk += pen
		} else {
			risk += unknownCategoryPenalty
		}
	}

	if n := len(loans.Matched); n > 1 {
		risk -= math.Min(diversityBonusScale*math.Log1p(float64(n)), diversityBonusCap)
	}

	return math.Min(math.Max(risk, 0), loanRiskCap)
}

// worstHalf averages the higher half of the sorted signal weights. A plain
// mean would let many weak signals dilute one severe signal; a max would
// over-react to a single borderline one.
func worstHalf(signals []entity.RiskSignal) float64 {
	if len(signals) == 0 {
		return neutralRisk
	}

	values := make([]float64, len(signals))
	for i, sig := range signals {
		values[i] = sig.Weight
	}

	sort.Float64s(values)

	k := len(values) / 2
	if k == 0 {
		k = 1
	}

	worst := values[len(values)-k:]

	var sum float64
	for _, v := range worst {
		sum += v
	}

	return sum / float64(len(worst))
}

func behaviourIsHighSpend(behaviour string) bool {
	low := strings.ToLower(behaviour)
	return strings.Contains(low, "high_spent") || strings.Contains(low, "high spend")
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
