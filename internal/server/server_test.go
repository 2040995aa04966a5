package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"

	"creditdesk/internal/domain"
	"creditdesk/internal/domain/entity"
	"creditdesk/internal/infrastructure/anchor"
	"creditdesk/internal/server"
	"creditdesk/internal/worker"
	"creditdesk/pkg/errcodes"
	"creditdesk/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type stubEngine struct {
	evaluation entity.Evaluation
	err        error
	calls      int
}

func (s *stubEngine) Evaluate(_ context.Context, _ entity.ApplicantRecord) (entity.Evaluation, error) {
	s.calls++

	return s.evaluation, s.err
}

type stubEnqueuer struct {
	tasks []*asynq.Task
}

func (s *stubEnqueuer) EnqueueContext(
	_ context.Context, task *asynq.Task, _ ...asynq.Option,
) (*asynq.TaskInfo, error) {
	s.tasks = append(s.tasks, task)

	return &asynq.TaskInfo{}, nil
}

type stubRepository struct {
	byID       map[string]*entity.LoanRequest
	listed     []*entity.LoanRequest
	stats      entity.RequestStats
	lastStatus entity.RequestStatus
	lastLimit  int
}

func newStubRepository() *stubRepository {
	return &stubRepository{byID: map[string]*entity.LoanRequest{}}
}

func (s *stubRepository) Create(_ context.Context, request *entity.LoanRequest) error {
	s.byID[request.ID] = request

	return nil
}

func (s *stubRepository) GetByID(_ context.Context, id string) (*entity.LoanRequest, error) {
	request, ok := s.byID[id]
	if !ok {
		return nil, domain.NewError(errcodes.LoanRequestNotFound, "loan request not found")
	}

	return request, nil
}

func (s *stubRepository) List(
	_ context.Context, status entity.RequestStatus, limit, _ int,
) ([]*entity.LoanRequest, error) {
	s.lastStatus = status
	s.lastLimit = limit

	return s.listed, nil
}

func (s *stubRepository) UpdateStatus(_ context.Context, id string, status entity.RequestStatus) error {
	request, ok := s.byID[id]
	if !ok {
		return domain.NewError(errcodes.LoanRequestNotFound, "loan request not found")
	}

	request.Status = status

	return nil
}

func (s *stubRepository) Delete(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return domain.NewError(errcodes.LoanRequestNotFound, "loan request not found")
	}

	delete(s.byID, id)

	return nil
}

func (s *stubRepository) Stats(_ context.Context) (entity.RequestStats, error) {
	return s.stats, nil
}

type serverOptions struct {
	engine     *stubEngine
	enqueuer   *stubEnqueuer
	cache      *gocache.Cache
	repository *stubRepository
	chain      *anchor.Chain
}

func newTestRouter(opts serverOptions) *chi.Mux {
	if opts.engine == nil {
		opts.engine = &stubEngine{}
	}

	if opts.repository == nil {
		opts.repository = newStubRepository()
	}

	if opts.chain == nil {
		opts.chain = anchor.NewChain()
	}

	scoreServer := server.NewScoreServer(opts.engine, opts.cache, nil, "v1")
	if opts.enqueuer != nil {
		scoreServer = server.NewScoreServer(opts.engine, opts.cache, opts.enqueuer, "v1")
	}

	srv := server.NewServer(
		scoreServer,
		server.NewRequestServer(opts.repository),
		server.NewAnchorServer(opts.chain, "v1"),
	)

	router := chi.NewRouter()
	srv.RegisterRoutes(router)

	return router
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

const validScoreBody = `{
	"income_monthly": 2500,
	"housing_cost_monthly": 1300,
	"other_expenses_monthly": 700,
	"employment_role": "Retail Clerk",
	"loans": ["Payday Loan", "Personal Loan"],
	"age": 29,
	"num_credit_cards": 4,
	"num_bank_accounts": 2,
	"num_loans": 2,
	"invested": 0,
	"obligations": 1800,
	"credit_utilization": 41,
	"spending_pattern_hint": "High_spent_Small_value_payments",
	"status_hint": "Bad"
}`

func TestPostScore(t *testing.T) {
	rq := require.New(t)

	engine := &stubEngine{
		evaluation: entity.Evaluation{
			Decision:        entity.DecisionPoor,
			Confidence:      61.3,
			Probabilities:   map[string]float64{"Poor": 0.613, "Standard": 0.29, "Good": 0.097},
			RiskProbability: 0.918246,
			CreditScore:     345,
			Band:            entity.BandPoor,
			Message:         "⚠️ Score 345 (Poor). Confidence 61.3%.",
			Reasons:         []string{"High credit utilization ratio."},
		},
	}
	enqueuer := &stubEnqueuer{}

	router := newTestRouter(serverOptions{engine: engine, enqueuer: enqueuer})

	recorder := doJSON(t, router, http.MethodPost, "/v1/score", validScoreBody)
	rq.Equal(http.StatusOK, recorder.Code)

	var response rest.ScoreResponse
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.Equal("Poor", response.Decision)
	rq.Equal(345, response.CreditScore)
	rq.Equal("Poor", response.Band)
	rq.InDelta(0.918246, response.RiskProbability, 1e-9)
	rq.NotEmpty(response.Reasons)

	rq.Equal(1, engine.calls)
	rq.Len(enqueuer.tasks, 1)
	rq.Equal(worker.TypeAnchorDecision, enqueuer.tasks[0].Type())
}

func TestPostScoreValidation(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"income_monthly":`},
		{name: "missing income", body: `{"housing_cost_monthly": 100, "employment_role": "Clerk", "age": 30, "num_credit_cards": 1, "num_bank_accounts": 1, "num_loans": 0, "invested": 0}`},
		{name: "negative age", body: strings.Replace(validScoreBody, `"age": 29`, `"age": -1`, 1)},
	}

	engine := &stubEngine{}
	router := newTestRouter(serverOptions{engine: engine})

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			recorder := doJSON(t, router, http.MethodPost, "/v1/score", tc.body)
			rq.Equal(http.StatusBadRequest, recorder.Code)
		})
	}

	rq.Zero(engine.calls)
}

func TestPostScoreCached(t *testing.T) {
	rq := require.New(t)

	engine := &stubEngine{
		evaluation: entity.Evaluation{
			Decision:    entity.DecisionGood,
			CreditScore: 775,
			Band:        entity.BandVeryGood,
		},
	}

	router := newTestRouter(serverOptions{
		engine: engine,
		cache:  gocache.New(time.Minute, time.Minute),
	})

	first := doJSON(t, router, http.MethodPost, "/v1/score", validScoreBody)
	rq.Equal(http.StatusOK, first.Code)

	second := doJSON(t, router, http.MethodPost, "/v1/score", validScoreBody)
	rq.Equal(http.StatusOK, second.Code)
	rq.JSONEq(first.Body.String(), second.Body.String())

	rq.Equal(1, engine.calls, "identical payloads must be served from cache")
}

func TestPostScoreEngineFailure(t *testing.T) {
	rq := require.New(t)

	router := newTestRouter(serverOptions{
		engine: &stubEngine{
			err: domain.NewError(errcodes.ClassifierUnavailable, "classifier unavailable"),
		},
	})

	recorder := doJSON(t, router, http.MethodPost, "/v1/score", validScoreBody)
	rq.Equal(http.StatusInternalServerError, recorder.Code)

	var response rest.Error
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.Equal(rest.ErrorCode(errcodes.ClassifierUnavailable), response.Code)
}

func TestGetRequests(t *testing.T) {
	rq := require.New(t)

	repository := newStubRepository()
	repository.listed = []*entity.LoanRequest{
		{
			ID:            "LR-1",
			BorrowerName:  "Dana Smith",
			BorrowerEmail: "dana@example.com",
			LoanType:      "Personal Loan",
			LoanAmount:    5000,
			LoanTerm:      24,
			Status:        entity.StatusPending,
			RequestDate:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}

	router := newTestRouter(serverOptions{repository: repository})

	recorder := doJSON(t, router, http.MethodGet, "/v1/requests?status=all&limit=10", "")
	rq.Equal(http.StatusOK, recorder.Code)

	var response rest.LoanRequestList
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.True(response.Success)
	rq.Len(response.Requests, 1)
	rq.Equal("LR-1", response.Requests[0].ID)
	rq.Equal("2026-08-30", response.Requests[0].RequestDate)
	rq.NotNil(response.Requests[0].Reasons)

	// "all" must not reach the repository as a literal filter.
	rq.Equal(entity.RequestStatus(""), repository.lastStatus)
	rq.Equal(10, repository.lastLimit)
}

func TestGetRequestsInvalidStatus(t *testing.T) {
	rq := require.New(t)

	router := newTestRouter(serverOptions{})

	recorder := doJSON(t, router, http.MethodGet, "/v1/requests?status=archived", "")
	rq.Equal(http.StatusBadRequest, recorder.Code)

	var response rest.Error
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.Equal(rest.ErrorCode(errcodes.InvalidRequestStatus), response.Code)
}

func TestPostRequests(t *testing.T) {
	rq := require.New(t)

	repository := newStubRepository()
	router := newTestRouter(serverOptions{repository: repository})

	recorder := doJSON(t, router, http.MethodPost, "/v1/requests", `{
		"borrowerEmail": "dana@example.com",
		"borrowerName": "Dana Smith",
		"loanType": "Personal Loan",
		"loanAmount": 5000,
		"loanTerm": 24,
		"loanPurpose": "debt consolidation",
		"creditScore": 640,
		"creditBand": "Fair",
		"reasons": ["High credit utilization ratio."]
	}`)
	rq.Equal(http.StatusCreated, recorder.Code)

	var response rest.CreateLoanRequestResponse
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.True(response.Success)
	rq.True(strings.HasPrefix(response.RequestID, "LR-"))

	stored, ok := repository.byID[response.RequestID]
	rq.True(ok)
	rq.Equal(entity.StatusPending, stored.Status)
	rq.Equal("Dana Smith", stored.BorrowerName)
	rq.False(stored.RequestDate.IsZero())
}

func TestPostRequestsValidation(t *testing.T) {
	rq := require.New(t)

	router := newTestRouter(serverOptions{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/requests",
		`{"borrowerEmail": "not-an-email", "borrowerName": "Dana", "loanType": "Personal Loan", "loanAmount": 5000, "loanTerm": 24}`)
	rq.Equal(http.StatusBadRequest, recorder.Code)
}

func TestGetRequestNotFound(t *testing.T) {
	rq := require.New(t)

	router := newTestRouter(serverOptions{})

	recorder := doJSON(t, router, http.MethodGet, "/v1/requests/LR-missing", "")
	rq.Equal(http.StatusNotFound, recorder.Code)

	var response rest.Error
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.Equal(rest.ErrorCode(errcodes.LoanRequestNotFound), response.Code)
}

func TestPatchRequestStatus(t *testing.T) {
	rq := require.New(t)

	repository := newStubRepository()
	repository.byID["LR-1"] = &entity.LoanRequest{ID: "LR-1", Status: entity.StatusPending}

	router := newTestRouter(serverOptions{repository: repository})

	recorder := doJSON(t, router, http.MethodPatch, "/v1/requests/LR-1/status", `{"status": "approved"}`)
	rq.Equal(http.StatusOK, recorder.Code)

	var response rest.UpdateStatusResponse
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.True(response.Success)
	rq.Equal("approved", response.Status)
	rq.Equal(entity.StatusApproved, repository.byID["LR-1"].Status)
}

func TestPatchRequestStatusInvalid(t *testing.T) {
	rq := require.New(t)

	router := newTestRouter(serverOptions{})

	recorder := doJSON(t, router, http.MethodPatch, "/v1/requests/LR-1/status", `{"status": "archived"}`)
	rq.Equal(http.StatusBadRequest, recorder.Code)
}

func TestDeleteRequest(t *testing.T) {
	rq := require.New(t)

	repository := newStubRepository()
	repository.byID["LR-1"] = &entity.LoanRequest{ID: "LR-1"}

	router := newTestRouter(serverOptions{repository: repository})

	recorder := doJSON(t, router, http.MethodDelete, "/v1/requests/LR-1", "")
	rq.Equal(http.StatusOK, recorder.Code)
	rq.Empty(repository.byID)
}

func TestGetRequestsStats(t *testing.T) {
	rq := require.New(t)

	repository := newStubRepository()
	repository.stats = entity.RequestStats{
		Total:          4,
		Pending:        2,
		Approved:       1,
		Denied:         1,
		TotalAmount:    20000,
		AvgCreditScore: 655,
	}

	router := newTestRouter(serverOptions{repository: repository})

	recorder := doJSON(t, router, http.MethodGet, "/v1/requests/stats/summary", "")
	rq.Equal(http.StatusOK, recorder.Code)

	var response rest.LoanRequestStats
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	rq.True(response.Success)
	rq.Equal(4, response.Stats.Total)
	rq.Equal(655, response.Stats.AvgCreditScore)
}

func TestAnchorEndpoints(t *testing.T) {
	rq := require.New(t)

	chain := anchor.NewChain()
	router := newTestRouter(serverOptions{chain: chain})

	recorder := doJSON(t, router, http.MethodPost, "/v1/anchors", `{"decision_hash": "abc123"}`)
	rq.Equal(http.StatusCreated, recorder.Code)

	var block rest.Block
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &block))
	rq.Equal(1, block.Index)
	rq.Equal("abc123", block.Data["decision_hash"])
	rq.Equal("v1", block.Data["model_version"])

	recorder = doJSON(t, router, http.MethodGet, "/v1/chain", "")
	rq.Equal(http.StatusOK, recorder.Code)

	var chainResponse rest.ChainResponse
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &chainResponse))
	rq.Equal(2, chainResponse.Length)
	rq.Len(chainResponse.Blocks, 2)

	recorder = doJSON(t, router, http.MethodGet, "/v1/chain/verify", "")
	rq.Equal(http.StatusOK, recorder.Code)

	var verifyResponse rest.VerifyResponse
	rq.NoError(json.Unmarshal(recorder.Body.Bytes(), &verifyResponse))
	rq.True(verifyResponse.Valid)
}

func TestPostAnchorsEmptyHash(t *testing.T) {
	rq := require.New(t)

	router := newTestRouter(serverOptions{})

	recorder := doJSON(t, router, http.MethodPost, "/v1/anchors", `{"decision_hash": ""}`)
	rq.Equal(http.StatusBadRequest, recorder.Code)
}
