package entity

// LoanCategory is one of the fixed canonical loan types the normalizer
// resolves free-text descriptions into. The names match the training dataset
// vocabulary verbatim.
type LoanCategory string

const (
	LoanMortgage          LoanCategory = "Mortgage Loan"
	LoanHomeEquity        LoanCategory = "Home Equity Loan"
	LoanAuto              LoanCategory = "Auto Loan"
	LoanStudent           LoanCategory = "Student Loan"
	LoanPersonal          LoanCategory = "Personal Loan"
	LoanDebtConsolidation LoanCategory = "Debt Consolidation Loan"
	LoanPayday            LoanCategory = "Payday Loan"
	LoanCreditBuilder     LoanCategory = "Credit-Builder Loan"
)

func (c LoanCategory) String() string {
	return string(c)
}

// CanonicalLoanSet is the result of normalizing loan descriptions: the set of
// recognized categories plus whatever tokens matched nothing. Recomputed on
// every request, never shared between requests.
type CanonicalLoanSet struct {
	Matched   []LoanCategory
	Unmatched []string
}

func (s CanonicalLoanSet) Contains(category LoanCategory) bool {
	for _, c := range s.Matched {
		if c == category {
			return true
		}
	}

	return false
}

// Empty reports "no specified loans"; a valid outcome, not an error.
func (s CanonicalLoanSet) Empty() bool {
	return len(s.Matched) == 0
}
