package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"creditdesk/internal/domain"
	"creditdesk/internal/domain/entity"
	"creditdesk/pkg/contextx"
	"creditdesk/pkg/errcodes"
	"creditdesk/pkg/httpx/reply"
	"creditdesk/pkg/httpx/req"
	"creditdesk/pkg/logx"
	"creditdesk/pkg/lox"
	"creditdesk/pkg/rest"
)

type loanRequestRepository interface {
	Create(ctx context.Context, request *entity.LoanRequest) error
	GetByID(ctx context.Context, id string) (*entity.LoanRequest, error)
	List(ctx context.Context, status entity.RequestStatus, limit, offset int) ([]*entity.LoanRequest, error)
	UpdateStatus(ctx context.Context, id string, status entity.RequestStatus) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (entity.RequestStats, error)
}

type RequestServer struct {
	requests loanRequestRepository
}

func NewRequestServer(requests loanRequestRepository) RequestServer {
	return RequestServer{requests: requests}
}

func (s RequestServer) getV1Requests(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	status := entity.RequestStatus(r.URL.Query().Get("status"))
	if status == "all" {
		status = ""
	}

	if status != "" && !status.Valid() {
		return domain.NewError(errcodes.InvalidRequestStatus, "invalid status filter")
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	requests, err := s.requests.List(ctx, status, limit, offset)
	if err != nil {
		return fmt.Errorf("requests.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.LoanRequestList{
		Success:  true,
		Requests: lox.Map(requests, newRESTLoanRequest),
	})

	return nil
}

func (s RequestServer) getV1Request(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := chi.URLParam(r, "requestId")
	if id == "" {
		return domain.NewError(errcodes.InvalidLoanRequestID, "empty request id")
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("requests.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.LoanRequestItem{
		Success: true,
		Request: newRESTLoanRequest(request),
	})

	return nil
}

func (s RequestServer) postV1Requests(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateLoanRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	loanRequest := newDomainLoanRequest(request)
	loanRequest.ID = "LR-" + xid.New().String()
	loanRequest.Status = entity.StatusPending
	loanRequest.RequestDate = time.Now()

	if err := s.requests.Create(ctx, loanRequest); err != nil {
		return fmt.Errorf("requests.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, rest.CreateLoanRequestResponse{
		Success:   true,
		Message:   "Loan request created successfully",
		RequestID: loanRequest.ID,
	})

	return nil
}

func (s RequestServer) patchV1RequestStatus(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := chi.URLParam(r, "requestId")
	if id == "" {
		return domain.NewError(errcodes.InvalidLoanRequestID, "empty request id")
	}

	var request rest.UpdateStatusRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	status := entity.RequestStatus(request.Status)
	ctx = contextx.WithLoanRequestID(ctx, contextx.LoanRequestID(id))

	if err := s.requests.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("requests.UpdateStatus: %w", err)
	}

	contextx.LoggerFromContextOrDefault(ctx).Info("loan request status updated",
		slog.String(logx.FieldLoanRequestID, id),
		slog.String("status", status.String()),
	)

	reply.JSON(ctx, w, http.StatusOK, rest.UpdateStatusResponse{
		Success: true,
		Message: "Status updated successfully",
		Status:  status.String(),
	})

	return nil
}

func (s RequestServer) deleteV1Request(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := chi.URLParam(r, "requestId")
	if id == "" {
		return domain.NewError(errcodes.InvalidLoanRequestID, "empty request id")
	}

	ctx = contextx.WithLoanRequestID(ctx, contextx.LoanRequestID(id))

	if err := s.requests.Delete(ctx, id); err != nil {
		return fmt.Errorf("requests.Delete: %w", err)
	}

	contextx.LoggerFromContextOrDefault(ctx).Info("loan request deleted",
		slog.String(logx.FieldLoanRequestID, id),
	)

	reply.OK(w)

	return nil
}

func (s RequestServer) getV1RequestsStats(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	stats, err := s.requests.Stats(ctx)
	if err != nil {
		return fmt.Errorf("requests.Stats: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.LoanRequestStats{
		Success: true,
		Stats: rest.Stats{
			Total:          stats.Total,
			Pending:        stats.Pending,
			Approved:       stats.Approved,
			Denied:         stats.Denied,
			TotalAmount:    stats.TotalAmount,
			AvgCreditScore: stats.AvgCreditScore,
		},
	})

	return nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
