package entity

import "time"

// RequestStatus tracks a loan request through the lender workflow.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied:
		return true
	default:
		return false
	}
}

// RequestStats is the aggregate view over all stored loan requests.
type RequestStats struct {
	Total          int
	Pending        int
	Approved       int
	Denied         int
	TotalAmount    float64
	AvgCreditScore int
}

// LoanRequest is a borrower's stored application together with the engine's
// decision snapshot at submission time.
type LoanRequest struct {
	ID            string // LR-<xid>
	BorrowerName  string
	BorrowerEmail string
	LoanType      string
	LoanAmount    float64
	LoanTerm      int // months
	LoanPurpose   string
	CreditScore   *int
	CreditBand    string
	Reasons       []string
	Status        RequestStatus
	RequestDate   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
