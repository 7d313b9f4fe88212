// Package api implements app.Runner for the API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apphttp "github.com/agentmint/launchpad/pkg/app/http"
	"github.com/agentmint/launchpad/pkg/config"
	"github.com/agentmint/launchpad/pkg/deployer"
	"github.com/agentmint/launchpad/pkg/fees"
	"github.com/agentmint/launchpad/pkg/identity"
	"github.com/agentmint/launchpad/pkg/launchapi"
	"github.com/agentmint/launchpad/pkg/launcher"
	"github.com/agentmint/launchpad/pkg/pgutil"
	"github.com/agentmint/launchpad/pkg/ratelimit"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting launchpad API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	store := tokenstore.NewStore(db)

	deployClient := deployer.NewClient(&cfg.Deployer, logger)
	feeClient := fees.NewClient(&cfg.Deployer)
	verifier := identity.NewVerifier(&cfg.Identity, logger)
	limiter := ratelimit.NewChecker(store, cfg.Platform.Cooldown)

	launchService := launcher.NewService(
		store, deployClient, limiter, verifier, cfg.Platform, cfg.Deployer,
	)

	platformAddr := common.HexToAddress(cfg.Platform.FeeRecipient)
	pairedAddr := common.HexToAddress(cfg.Deployer.PairedAsset)

	ceiling, err := decimal.NewFromString(cfg.Fees.SanityCeiling)
	if err != nil {
		return fmt.Errorf("invalid fee sanity ceiling %q: %w", cfg.Fees.SanityCeiling, err)
	}

	engine := fees.NewEngine(store, feeClient, feeClient, platformAddr, pairedAddr, logger)
	aggregate := fees.NewAggregateCache(
		store, feeClient, platformAddr, pairedAddr,
		cfg.Fees.AggregateTTL, cfg.Fees.AggregateBatch, ceiling, logger,
	)

	scheduler := fees.NewScheduler(engine, aggregate, cfg.Fees.ClaimInterval, cfg.Fees.ClaimInitialDelay, logger)
	scheduler.Start()
	defer scheduler.Stop()

	router := s.setupRouter(launcher.NewLog(launchService, logger), store, engine, aggregate, logger)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	// Stop background claims before the deferred DB close kicks in.
	scheduler.Stop()

	return err
}

func (s *Server) setupRouter(
	launchService launcher.Service,
	store tokenstore.Store,
	engine *fees.Engine,
	aggregate *fees.AggregateCache,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	launchapi.RegisterRoutes(r, launchService, store, engine, aggregate, logger)

	return r
}
