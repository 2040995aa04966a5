package rest

// ScoreRequest is the applicant form accepted by POST /v1/score. Required
// numeric fields are pointers so a legitimate zero survives validation.
type ScoreRequest struct {
	IncomeMonthly        *float64 `json:"income_monthly" validate:"required,gte=0"`
	HousingCostMonthly   *float64 `json:"housing_cost_monthly" validate:"required,gte=0"`
	OtherExpensesMonthly *float64 `json:"other_expenses_monthly" validate:"omitempty,gte=0"`
	EmploymentRole       string   `json:"employment_role" validate:"required"`
	Loans                []string `json:"loans"`
	Age                  *float64 `json:"age" validate:"required,gte=0"`
	ApplicationMonth     string   `json:"application_month" validate:"omitempty"`
	NumCreditCards       *int     `json:"num_credit_cards" validate:"required,gte=0"`
	NumBankAccounts      *int     `json:"num_bank_accounts" validate:"required,gte=0"`
	NumLoans             *int     `json:"num_loans" validate:"required,gte=0"`
	Invested             *float64 `json:"invested" validate:"required,gte=0"`
	Obligations          *float64 `json:"obligations" validate:"omitempty,gte=0"`
	CreditUtilization    *float64 `json:"credit_utilization" validate:"omitempty,gte=0"`

	// Optional hints, safe defaults when omitted.
	SpendingPatternHint string `json:"spending_pattern_hint" validate:"omitempty"`
	StatusHint          string `json:"status_hint" validate:"omitempty"`
}

// ScoreResponse is the engine's decision payload.
type ScoreResponse struct {
	Decision        string             `json:"decision"`
	Confidence      float64            `json:"confidence"`
	Probabilities   map[string]float64 `json:"probabilities"`
	RiskProbability float64            `json:"risk_probability"`
	CreditScore     int                `json:"credit_score"`
	Band            string             `json:"band"`
	Message         string             `json:"message"`
	Reasons         []string           `json:"reasons,omitempty"`
}

// LoanRequest is the stored application as exposed over the API.
type LoanRequest struct {
	ID           string   `json:"id"`
	BorrowerName string   `json:"borrowerName"`
	Email        string   `json:"email"`
	LoanType     string   `json:"loanType"`
	LoanAmount   float64  `json:"loanAmount"`
	LoanTerm     int      `json:"loanTerm"`
	LoanPurpose  string   `json:"loanPurpose"`
	CreditScore  *int     `json:"creditScore"`
	CreditBand   string   `json:"creditBand"`
	Reasons      []string `json:"reasons"`
	RequestDate  string   `json:"requestDate"` // yyyy-mm-dd
	Status       string   `json:"status"`
}

// CreateLoanRequest is the body of POST /v1/requests.
type CreateLoanRequest struct {
	BorrowerEmail string   `json:"borrowerEmail" validate:"required,email"`
	BorrowerName  string   `json:"borrowerName" validate:"required"`
	LoanType      string   `json:"loanType" validate:"required"`
	LoanAmount    *float64 `json:"loanAmount" validate:"required,gt=0"`
	LoanTerm      *int     `json:"loanTerm" validate:"required,gt=0"`
	LoanPurpose   string   `json:"loanPurpose" validate:"omitempty"`
	CreditScore   *int     `json:"creditScore" validate:"omitempty,gte=300,lte=850"`
	CreditBand    string   `json:"creditBand" validate:"omitempty"`
	Reasons       []string `json:"reasons"`
}

// CreateLoanRequestResponse echoes the generated identifier.
type CreateLoanRequestResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// LoanRequestList is the body of GET /v1/requests.
type LoanRequestList struct {
	Success  bool          `json:"success"`
	Requests []LoanRequest `json:"requests"`
}

// LoanRequestItem is the body of GET /v1/requests/{requestId}.
type LoanRequestItem struct {
	Success bool        `json:"success"`
	Request LoanRequest `json:"request"`
}

// UpdateStatusRequest is the body of PATCH /v1/requests/{requestId}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved denied"`
}

// UpdateStatusResponse confirms the transition.
type UpdateStatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// LoanRequestStats is the body of GET /v1/requests/stats/summary.
type LoanRequestStats struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Approved       int     `json:"approved"`
	Denied         int     `json:"denied"`
	TotalAmount    float64 `json:"totalAmount"`
	AvgCreditScore int     `json:"avgCreditScore"`
}

// AnchorRequest is the body of POST /v1/anchors: an already-computed decision
// digest to commit on the demo chain.
type AnchorRequest struct {
	DecisionHash string `json:"decision_hash" validate:"required"`
	ModelVersion string `json:"model_version" validate:"omitempty"`
}

// Block is one chain entry as exposed over the API.
type Block struct {
	Index     int               `json:"index"`
	Timestamp float64           `json:"timestamp"`
	PrevHash  string            `json:"prev_hash"`
	Data      map[string]string `json:"data"`
	Nonce     int               `json:"nonce"`
	Hash      string            `json:"hash"`
}

// ChainResponse is the body of GET /v1/chain.
type ChainResponse struct {
	Length int     `json:"length"`
	Blocks []Block `json:"blocks"`
}

// VerifyResponse is the body of GET /v1/chain/verify.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// Error is the wire error model.
type Error struct {
	Code ErrorCode `json:"code"`

	// Message is safe to surface in a UI.
	Message string `json:"message"`

	// SupportID correlates the response with server logs.
	SupportID string `json:"supportId,omitempty"`
}

// ErrorCode is the machine-readable error discriminator.
type ErrorCode string
