package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"creditdesk/internal/domain"
	"creditdesk/internal/domain/entity"
	"creditdesk/internal/infrastructure/persistence"
	"creditdesk/pkg/dbtest"
	"creditdesk/pkg/errcodes"
)

// newTestRepository connects to the database named by TEST_POSTGRES_DSN and
// applies the schema. Without the variable the test is skipped, so the unit
// suite stays runnable without infrastructure.
func newTestRepository(t *testing.T) *persistence.LoanRequestRepository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	err = dbtest.MigrateFromFile(db, "../../../migrations/0001_loan_requests.sql")
	require.NoError(t, err)

	return persistence.NewLoanRequestRepository(db)
}

func newLoanRequest(status entity.RequestStatus, amount float64, score int) *entity.LoanRequest {
	return &entity.LoanRequest{
		ID:            "LR-" + xid.New().String(),
		BorrowerName:  "Dana Smith",
		BorrowerEmail: "dana@example.com",
		LoanType:      "Personal Loan",
		LoanAmount:    amount,
		LoanTerm:      24,
		LoanPurpose:   "debt consolidation",
		CreditScore:   &score,
		CreditBand:    "Fair",
		Reasons:       []string{"High credit utilization ratio."},
		Status:        status,
		RequestDate:   time.Now().UTC(),
	}
}

func TestLoanRequestRoundTrip(t *testing.T) {
	rq := require.New(t)

	repository := newTestRepository(t)
	ctx := context.Background()

	created := newLoanRequest(entity.StatusPending, 5000, 640)
	rq.NoError(repository.Create(ctx, created))

	loaded, err := repository.GetByID(ctx, created.ID)
	rq.NoError(err)
	rq.Equal(created.ID, loaded.ID)
	rq.Equal(created.BorrowerEmail, loaded.BorrowerEmail)
	rq.Equal(created.LoanAmount, loaded.LoanAmount)
	rq.Equal(created.Reasons, loaded.Reasons)
	rq.Equal(entity.StatusPending, loaded.Status)
	rq.NotNil(loaded.CreditScore)
	rq.Equal(640, *loaded.CreditScore)

	rq.NoError(repository.UpdateStatus(ctx, created.ID, entity.StatusApproved))

	loaded, err = repository.GetByID(ctx, created.ID)
	rq.NoError(err)
	rq.Equal(entity.StatusApproved, loaded.Status)

	rq.NoError(repository.Delete(ctx, created.ID))

	_, err = repository.GetByID(ctx, created.ID)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.LoanRequestNotFound, code)
}

func TestLoanRequestList(t *testing.T) {
	rq := require.New(t)

	repository := newTestRepository(t)
	ctx := context.Background()

	pending := newLoanRequest(entity.StatusPending, 5000, 640)
	denied := newLoanRequest(entity.StatusDenied, 12000, 540)

	rq.NoError(repository.Create(ctx, pending))
	rq.NoError(repository.Create(ctx, denied))

	t.Cleanup(func() {
		_ = repository.Delete(ctx, pending.ID)
		_ = repository.Delete(ctx, denied.ID)
	})

	all, err := repository.List(ctx, "", 0, 0)
	rq.NoError(err)
	rq.GreaterOrEqual(len(all), 2)

	filtered, err := repository.List(ctx, entity.StatusDenied, 10, 0)
	rq.NoError(err)
	rq.NotEmpty(filtered)

	for _, request := range filtered {
		rq.Equal(entity.StatusDenied, request.Status)
	}
}

func TestLoanRequestStats(t *testing.T) {
	rq := require.New(t)

	repository := newTestRepository(t)
	ctx := context.Background()

	created := newLoanRequest(entity.StatusPending, 5000, 640)
	rq.NoError(repository.Create(ctx, created))

	t.Cleanup(func() { _ = repository.Delete(ctx, created.ID) })

	stats, err := repository.Stats(ctx)
	rq.NoError(err)
	rq.GreaterOrEqual(stats.Total, 1)
	rq.GreaterOrEqual(stats.Pending, 1)
	rq.GreaterOrEqual(stats.TotalAmount, 5000.0)
	rq.Greater(stats.AvgCreditScore, 0)
}

func TestUpdateStatusInvalid(t *testing.T) {
	rq := require.New(t)

	repository := newTestRepository(t)

	err := repository.UpdateStatus(context.Background(), "LR-any", "archived")
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidRequestStatus, code)
}
