package reasons

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"creditdesk/internal/domain/entity"
)

// Candidate is one scored explanation produced by a source. Severity is in
// [0,1]; candidates with zero severity are not emitted.
type Candidate struct {
	Severity float64
	Text     string
}

// Source yields candidate explanations for an applicant view. Sources feed
// the same ranking path regardless of where the candidates come from (rule
// battery or model attribution).
type Source interface {
	Candidates(view entity.ApplicantView) []Candidate
}

// Reason-side loan penalties are softer than the rule scorer's: here they
// only rank the explanation, they do not move the score.
//
//nolint:gochecknoglobals // frozen penalty table
var reasonLoanPenalties = map[entity.LoanCategory]float64{
	entity.LoanPayday:            0.35,
	entity.LoanDebtConsolidation: 0.15,
	entity.LoanPersonal:          0.08,
	entity.LoanStudent:           0.05,
	entity.LoanAuto:              0.04,
	entity.LoanHomeEquity:        0.03,
	entity.LoanMortgage:          0.02,
	entity.LoanCreditBuilder:     0.00,
}

const reasonUnknownLoanPenalty = 0.05

// RuleSource is the canonical check battery. Each check yields a scored text
// only when its severity is positive.
type RuleSource struct{}

//nolint:funlen,gocognit // the battery is one flat checklist on purpose
func (RuleSource) Candidates(view entity.ApplicantView) []Candidate {
	var out []Candidate

	add := func(severity float64, text string) {
		if severity = clamp01(severity); severity > 0 {
			out = append(out, Candidate{Severity: severity, Text: text})
		}
	}

	if view.Income != nil && *view.Income > 0 && view.EMI != nil {
		burden := *view.EMI / *view.Income
		add((burden-0.3)/0.6,
			"High monthly payment burden relative to income (EMI/income).")
	} else {
		add(0.7, "Income information is missing/zero, increasing uncertainty and risk.")
	}

	if view.Income != nil && view.EMI != nil && view.Invested != nil && *view.Income > 0 {
		dti := (*view.EMI + *view.Invested) / *view.Income
		add((dti-0.3)/0.6, "Elevated monthly debt-to-income ratio.")
	}

	if view.Income != nil && view.EMI != nil && view.Invested != nil {
		cashFlow := *view.Income - (*view.EMI + *view.Invested)

		var severity float64

		switch {
		case cashFlow < 0:
			severity = 0.9
		case cashFlow < 300:
			severity = 0.6
		}

		add(severity, "Weak monthly cash flow after obligations.")
	}

	if view.Utilization != nil {
		add((*view.Utilization-0.3)/0.5, "High credit utilization ratio.")
	}

	if !view.Loans.Empty() {
		add(loanReasonSeverity(view.Loans),
			fmt.Sprintf("Loan portfolio includes higher-risk products: %s.",
				strings.Join(riskiestFirst(view.Loans), ", ")))
	}

	if low := strings.ToLower(view.Behaviour); strings.Contains(low, "high_spent") || strings.Contains(low, "high spend") {
		add(0.6, "Spending pattern indicates high outflows relative to income.")
	}

	if mix := strings.ToLower(strings.TrimSpace(view.CreditMix)); mix == "bad" || mix == "poor" {
		add(0.7, "Reported credit mix is unfavorable.")
	}

	if view.Debt != nil {
		add(*view.Debt/15000, "High outstanding debt relative to heuristic threshold.")
	}

	if view.NumBankAccounts != nil {
		switch n := *view.NumBankAccounts; {
		case n <= 0:
			add(0.3, "Very thin banking profile (no bank accounts).")
		case n >= 9:
			add(0.2, "Many bank accounts may add complexity to obligations.")
		}
	}

	if view.NumCreditCards != nil {
		switch n := *view.NumCreditCards; {
		case n >= 8:
			add(0.45, "Many credit cards may indicate elevated revolving exposure.")
		case n >= 5:
			add(0.30, "Several credit cards increase potential utilization/inquiries.")
		case n == 0:
			add(0.15, "No credit cards: thin revolving history.")
		}
	}

	if view.NumLoans != nil {
		switch n := *view.NumLoans; {
		case n >= 6:
			add(0.65, "Many concurrent loans increase affordability pressure.")
		case n >= 4:
			add(0.40, "Multiple concurrent loans increase affordability pressure.")
		case n == 0:
			add(0.08, "No active loans: limited installment credit history.")
		}
	}

	return out
}

func loanReasonSeverity(loans entity.CanonicalLoanSet) float64 {
	var risk float64
	for _, category := range loans.Matched {
		if pen, ok := reasonLoanPenalties[category]; ok {
			risk += pen
		} else {
			risk += reasonUnknownLoanPenalty
		}
	}

	return math.Min(risk, 0.5)
}

// riskiestFirst names the matched types ordered by descending penalty so the
// reason text leads with the products that drove the severity.
func riskiestFirst(loans entity.CanonicalLoanSet) []string {
	sorted := make([]entity.LoanCategory, len(loans.Matched))
	copy(sorted, loans.Matched)

	sort.SliceStable(sorted, func(i, j int) bool {
		return penaltyOf(sorted[i]) > penaltyOf(sorted[j])
	})

	names := make([]string, len(sorted))
	for i, category := range sorted {
		names[i] = category.String()
	}

	return names
}

func penaltyOf(category entity.LoanCategory) float64 {
	if pen, ok := reasonLoanPenalties[category]; ok {
		return pen
	}

	return reasonUnknownLoanPenalty
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
