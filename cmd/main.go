package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/lmittmann/tint"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"creditdesk/internal/config"
	"creditdesk/internal/domain/service/engine"
	"creditdesk/internal/domain/service/fusion"
	"creditdesk/internal/domain/service/loantype"
	"creditdesk/internal/domain/service/occupation"
	"creditdesk/internal/domain/service/reasons"
	"creditdesk/internal/domain/service/rulerisk"
	"creditdesk/internal/infrastructure/anchor"
	"creditdesk/internal/infrastructure/model"
	"creditdesk/internal/infrastructure/persistence"
	"creditdesk/internal/server"
	"creditdesk/internal/worker"
	"creditdesk/pkg/application/connectors"
	"creditdesk/pkg/application/modules"
	"creditdesk/pkg/contextx"
	"creditdesk/pkg/logx"
	"creditdesk/pkg/middlewarex"
)

const (
	serviceName    = "creditdesk"
	serviceVersion = "1.0"

	logFieldMaxLen = 2048
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, log); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	// Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	// Redis: fail fast before the asynq server starts polling it.
	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	rd.Client(ctx)
	defer rd.Close(ctx)

	// Repositories
	requestRepo := persistence.NewLoanRequestRepository(db)

	// Classifier artifacts
	classifier, err := model.Load(cfg.Model.ArtifactsPath)
	if err != nil {
		return fmt.Errorf("model.Load: %w", err)
	}

	log.Info("classifier loaded",
		slog.String("path", cfg.Model.ArtifactsPath),
		slog.String("version", classifier.Version()),
	)

	// Scoring pipeline
	var similarity loantype.Similarity
	if cfg.Engine.FuzzyLoanMatching {
		similarity = loantype.NewJaroWinkler(cfg.Engine.SimilarityThreshold)
	}

	ranker := reasons.NewRanker(reasons.RuleSource{}, cfg.Engine.TopKReasons)
	if cfg.Engine.AttributionReasons {
		ranker = ranker.WithSecondarySource(model.NewAttributionSource(classifier))
	}

	eng := engine.New(
		loantype.NewNormalizer(similarity),
		occupation.NewMapper(occupation.DefaultConfig()),
		rulerisk.NewScorer(rulerisk.Config{
			OccupationMultiplier: cfg.Engine.OccupationMultiplier,
			DebtNormalizer:       cfg.Engine.DebtNormalizer,
		}),
		fusion.NewMapper(fusion.Config{
			Mode:  fusion.Mode(cfg.Engine.FusionMode),
			Alpha: cfg.Engine.FusionAlpha,
		}),
		ranker,
		classifier,
	).WithMetrics(engine.NewMetrics(prometheus.DefaultRegisterer))

	// Anchoring
	chain := anchor.NewChain()
	anchorer := worker.NewAnchorer(chain)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	})
	defer asynqClient.Close()

	// HTTP
	responseCache := gocache.New(cfg.Engine.ResponseCacheTTL, 2*cfg.Engine.ResponseCacheTTL)

	srv := server.NewServer(
		server.NewScoreServer(eng, responseCache, asynqClient, cfg.Model.Version),
		server.NewRequestServer(requestRepo),
		server.NewAnchorServer(chain, cfg.Model.Version),
	)

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
		middlewarex.Recovery,
	)
	srv.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          serviceName,
		Version:       serviceVersion,
		ListenAddress: cfg.Probe.ListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Metrics.ListenAddress}.Run(ctx, g)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{"default": 1},
		modules.AsynqHandler{
			Pattern: worker.TypeAnchorDecision,
			Handle:  anchorer.HandleAnchorDecision,
		},
	)

	return g.Wait()
}
