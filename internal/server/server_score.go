package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	gocache "github.com/patrickmn/go-cache"

	"creditdesk/internal/domain/entity"
	"creditdesk/internal/infrastructure/anchor"
	"creditdesk/internal/worker"
	"creditdesk/pkg/contextx"
	"creditdesk/pkg/httpx/reply"
	"creditdesk/pkg/httpx/req"
	"creditdesk/pkg/logx"
	"creditdesk/pkg/rest"
)

type scoringEngine interface {
	Evaluate(ctx context.Context, rec entity.ApplicantRecord) (entity.Evaluation, error)
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ScoreServer struct {
	engine       scoringEngine
	cache        *gocache.Cache
	enqueuer     taskEnqueuer
	modelVersion string
}

// NewScoreServer wires the scoring endpoint. The cache may be nil to disable
// response caching; the enqueuer may be nil to disable anchoring.
func NewScoreServer(
	engine scoringEngine,
	responseCache *gocache.Cache,
	enqueuer taskEnqueuer,
	modelVersion string,
) ScoreServer {
	return ScoreServer{
		engine:       engine,
		cache:        responseCache,
		enqueuer:     enqueuer,
		modelVersion: modelVersion,
	}
}

func (s ScoreServer) postV1Score(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ScoreRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	// The pipeline is deterministic, so identical payloads can be served
	// from cache without re-running the model.
	cacheKey, err := anchor.HashDecision(request)
	if err != nil {
		return fmt.Errorf("anchor.HashDecision: %w", err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			reply.JSON(ctx, w, http.StatusOK, cached)

			return nil
		}
	}

	evaluation, err := s.engine.Evaluate(ctx, newDomainApplicant(request))
	if err != nil {
		return fmt.Errorf("engine.Evaluate: %w", err)
	}

	response := newRESTEvaluation(evaluation)

	s.anchorDecision(ctx, response)

	if s.cache != nil {
		s.cache.Set(cacheKey, response, gocache.DefaultExpiration)
	}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}

// anchorDecision enqueues the decision digest for background anchoring.
// Failures are logged, never surfaced: anchoring is an audit aid and must not
// fail a scoring request.
func (s ScoreServer) anchorDecision(ctx context.Context, response rest.ScoreResponse) {
	if s.enqueuer == nil {
		return
	}

	decisionHash, err := anchor.HashDecision(response)
	if err != nil {
		contextx.LoggerFromContextOrDefault(ctx).Warn("hash decision", logx.Error(err))

		return
	}

	task, err := worker.NewAnchorTask(decisionHash, s.modelVersion)
	if err != nil {
		contextx.LoggerFromContextOrDefault(ctx).Warn("build anchor task", logx.Error(err))

		return
	}

	if _, err := s.enqueuer.EnqueueContext(ctx, task, asynq.Timeout(time.Minute)); err != nil {
		contextx.LoggerFromContextOrDefault(ctx).Warn("enqueue anchor task",
			slog.String("decision-hash", decisionHash), logx.Error(err))
	}
}
