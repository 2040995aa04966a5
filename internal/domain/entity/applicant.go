package entity

// ApplicantRecord is the raw self-reported financial profile as submitted by
// the borrower form. Absent numeric fields stay nil and are treated as
// unknown, never as zero: unknown values propagate elevated-uncertainty risk
// downstream instead of silently contributing nothing.
type ApplicantRecord struct {
	MonthlyIncome    *float64
	HousingCost      *float64
	OtherExpenses    *float64
	InvestedMonthly  *float64
	OutstandingDebt  *float64
	Utilization      *float64
	Age              *float64
	EmploymentRole   string
	ApplicationMonth string
	LoanDescriptions []string

	// Optional hints mapped onto the training vocabulary.
	SpendingHint string // e.g. "High_spent_Large_value_payments"
	StatusHint   string // reported credit mix: Good / Standard / Poor

	NumBankAccounts *int
	NumCreditCards  *int
	NumLoans        *int
}

// EMI returns the total monthly installment obligation (housing plus other
// recurring expenses). Known when at least one component is known.
func (r ApplicantRecord) EMI() *float64 {
	if r.HousingCost == nil && r.OtherExpenses == nil {
		return nil
	}

	var emi float64
	if r.HousingCost != nil {
		emi += *r.HousingCost
	}

	if r.OtherExpenses != nil {
		emi += *r.OtherExpenses
	}

	return &emi
}

// ApplicantView is the normalized, request-scoped projection of an
// ApplicantRecord that the rule scorer, the reason ranker and the feature
// encoder consume. It is derived once per request and never cached.
type ApplicantView struct {
	Income      *float64
	EMI         *float64
	Invested    *float64
	Debt        *float64
	Utilization *float64
	Age         *float64

	Occupation     string // dataset label after two-stage mapping
	OccupationRisk float64
	Month          string
	CreditMix      string // normalized: Poor / Standard / Good / ""
	Behaviour      string

	Loans CanonicalLoanSet

	NumBankAccounts *int
	NumCreditCards  *int
	NumLoans        *int
}
