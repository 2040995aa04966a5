package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"creditdesk/internal/domain"
	"creditdesk/internal/domain/entity"
	"creditdesk/pkg/errcodes"
)

const defaultListLimit = 50

type LoanRequestRepository struct {
	db *sqlx.DB
}

func NewLoanRequestRepository(db *sqlx.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

// withTx runs fn inside a transaction.
func (r *LoanRequestRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create stores a new loan request.
func (r *LoanRequestRepository) Create(ctx context.Context, request *entity.LoanRequest) error {
	reasonsBytes, err := json.Marshal(request.Reasons)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal reasons")
	}

	now := time.Now()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	if request.UpdatedAt.IsZero() {
		request.UpdatedAt = now
	}
	if request.RequestDate.IsZero() {
		request.RequestDate = now
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO loan_requests (
				id, borrower_name, borrower_email, loan_type, loan_amount, loan_term,
				loan_purpose, credit_score, credit_band, reasons, status,
				request_date, created_at, updated_at
			) VALUES (
				:id, :borrower_name, :borrower_email, :loan_type, :loan_amount, :loan_term,
				:loan_purpose, :credit_score, :credit_band, :reasons, :status,
				:request_date, :created_at, :updated_at
			)`

		params := map[string]any{
			"id":             request.ID,
			"borrower_name":  request.BorrowerName,
			"borrower_email": request.BorrowerEmail,
			"loan_type":      request.LoanType,
			"loan_amount":    request.LoanAmount,
			"loan_term":      request.LoanTerm,
			"loan_purpose":   request.LoanPurpose,
			"credit_score":   request.CreditScore,
			"credit_band":    request.CreditBand,
			"reasons":        reasonsBytes,
			"status":         request.Status.String(),
			"request_date":   request.RequestDate,
			"created_at":     request.CreatedAt,
			"updated_at":     request.UpdatedAt,
		}

		if _, err := tx.NamedExecContext(ctx, query, params); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert loan request")
		}

		return nil
	})
}

// GetByID returns a loan request by its public identifier.
func (r *LoanRequestRepository) GetByID(ctx context.Context, id string) (*entity.LoanRequest, error) {
	query := `
		SELECT id, borrower_name, borrower_email, loan_type, loan_amount, loan_term,
		       loan_purpose, credit_score, credit_band, reasons, status,
		       request_date, created_at, updated_at
		FROM loan_requests
		WHERE id = $1`

	var schema loanRequestSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.LoanRequestNotFound, "loan request not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get loan request")
	}

	return schema.toDomain()
}

// List returns loan requests newest first, optionally filtered by status.
// A non-positive limit falls back to the default page size.
func (r *LoanRequestRepository) List(
	ctx context.Context,
	status entity.RequestStatus,
	limit, offset int,
) ([]*entity.LoanRequest, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, borrower_name, borrower_email, loan_type, loan_amount, loan_term,
		       loan_purpose, credit_score, credit_band, reasons, status,
		       request_date, created_at, updated_at
		FROM loan_requests`

	args := []any{}

	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status.String())
	}

	query += fmt.Sprintf(` ORDER BY request_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var schemas []loanRequestSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list loan requests")
	}

	requests := make([]*entity.LoanRequest, 0, len(schemas))
	for _, s := range schemas {
		request, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert loan request")
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// Stats aggregates counts and totals over all loan requests.
func (r *LoanRequestRepository) Stats(ctx context.Context) (entity.RequestStats, error) {
	query := `
		SELECT COUNT(*)                                              AS total,
		       COUNT(*) FILTER (WHERE status = 'pending')            AS pending,
		       COUNT(*) FILTER (WHERE status = 'approved')           AS approved,
		       COUNT(*) FILTER (WHERE status = 'denied')             AS denied,
		       COALESCE(SUM(loan_amount), 0)                         AS total_amount,
		       COALESCE(ROUND(AVG(credit_score)), 0)::int            AS avg_credit_score
		FROM loan_requests`

	var row struct {
		Total          int     `db:"total"`
		Pending        int     `db:"pending"`
		Approved       int     `db:"approved"`
		Denied         int     `db:"denied"`
		TotalAmount    float64 `db:"total_amount"`
		AvgCreditScore int     `db:"avg_credit_score"`
	}

	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return entity.RequestStats{}, domain.WrapError(err, errcodes.InternalServerError, "failed to aggregate stats")
	}

	return entity.RequestStats{
		Total:          row.Total,
		Pending:        row.Pending,
		Approved:       row.Approved,
		Denied:         row.Denied,
		TotalAmount:    row.TotalAmount,
		AvgCreditScore: row.AvgCreditScore,
	}, nil
}

// UpdateStatus moves a loan request through the workflow.
func (r *LoanRequestRepository) UpdateStatus(ctx context.Context, id string, status entity.RequestStatus) error {
	if !status.Valid() {
		return domain.NewError(errcodes.InvalidRequestStatus, "invalid request status")
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE loan_requests
			SET status = $1, updated_at = $2
			WHERE id = $3`

		res, err := tx.ExecContext(ctx, query, status.String(), time.Now(), id)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to update status")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.LoanRequestNotFound, "loan request not found")
		}

		return nil
	})
}

// Delete removes a loan request.
func (r *LoanRequestRepository) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM loan_requests WHERE id = $1`, id)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete loan request")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.LoanRequestNotFound, "loan request not found")
		}

		return nil
	})
}
