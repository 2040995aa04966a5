package persistence

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"creditdesk/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// loanRequestSchema maps one loan_requests row.
type loanRequestSchema struct {
	ID            string    `db:"id"`
	BorrowerName  string    `db:"borrower_name"`
	BorrowerEmail string    `db:"borrower_email"`
	LoanType      string    `db:"loan_type"`
	LoanAmount    float64   `db:"loan_amount"`
	LoanTerm      int       `db:"loan_term"`
	LoanPurpose   string    `db:"loan_purpose"`
	CreditScore   *int      `db:"credit_score"`
	CreditBand    string    `db:"credit_band"`
	Reasons       []byte    `db:"reasons"`
	Status        string    `db:"status"`
	RequestDate   time.Time `db:"request_date"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (s *loanRequestSchema) toDomain() (*entity.LoanRequest, error) {
	var reasons []string
	if len(s.Reasons) > 0 {
		if err := json.Unmarshal(s.Reasons, &reasons); err != nil {
			return nil, err
		}
	}

	return &entity.LoanRequest{
		ID:            s.ID,
		BorrowerName:  s.BorrowerName,
		BorrowerEmail: s.BorrowerEmail,
		LoanType:      s.LoanType,
		LoanAmount:    s.LoanAmount,
		LoanTerm:      s.LoanTerm,
		LoanPurpose:   s.LoanPurpose,
		CreditScore:   s.CreditScore,
		CreditBand:    s.CreditBand,
		Reasons:       reasons,
		Status:        entity.RequestStatus(s.Status),
		RequestDate:   s.RequestDate,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}, nil
}
