package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/config"
	"github.com/kailas-cloud/laptopmatch/internal/db"
	dbBadger "github.com/kailas-cloud/laptopmatch/internal/db/badger"
	dbRedis "github.com/kailas-cloud/laptopmatch/internal/db/redis"
	"github.com/kailas-cloud/laptopmatch/internal/domain"
	logpkg "github.com/kailas-cloud/laptopmatch/internal/logger"
	"github.com/kailas-cloud/laptopmatch/internal/metrics"
	budgetrepo "github.com/kailas-cloud/laptopmatch/internal/repository/budget"
	catalogrepo "github.com/kailas-cloud/laptopmatch/internal/repository/catalog"
	"github.com/kailas-cloud/laptopmatch/internal/repository/gencache"
	shortlistrepo "github.com/kailas-cloud/laptopmatch/internal/repository/shortlist"
	chiTransport "github.com/kailas-cloud/laptopmatch/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/laptopmatch/internal/transport/openai"
	"github.com/kailas-cloud/laptopmatch/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/laptopmatch/internal/usecase/health"
	narrativeuc "github.com/kailas-cloud/laptopmatch/internal/usecase/narrative"
	recommenduc "github.com/kailas-cloud/laptopmatch/internal/usecase/recommend"
	shortlistuc "github.com/kailas-cloud/laptopmatch/internal/usecase/shortlist"
	usageuc "github.com/kailas-cloud/laptopmatch/internal/usecase/usage"
	"github.com/kailas-cloud/laptopmatch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting laptopmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("catalog", cfg.Catalog.Path),
	)

	store, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterRecommendMetrics()
	metrics.RegisterGenerationMetrics()

	catalogRepo := catalogrepo.New(cfg.Catalog.Path, metrics.CatalogObserver{}, logger)
	n, err := catalogRepo.Reload(ctx)
	if err != nil {
		logger.Fatal("Failed to load laptop catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("laptops", n))

	recSvc := recommenduc.New(catalogRepo, metrics.SearchRecorder{})

	// Nil interfaces (not typed nil pointers) when generation is disabled.
	var (
		gen          domain.TextGenerator
		synth        domain.SpeechSynthesizer
		genHealth    healthuc.GenerationChecker
		budgetReader usageuc.BudgetReader
	)
	if cfg.Generation.Enabled() {
		chain := buildGeneration(ctx, cfg.Generation, store, logger)
		gen, synth, genHealth = chain.text, chain.breaker, chain.breaker
		if chain.budget != nil {
			budgetReader = chain.budget
		}
		logger.Info("Generation provider configured",
			zap.String("provider", cfg.Generation.Provider),
			zap.String("model", cfg.Generation.Model),
			zap.String("speech_model", cfg.Generation.SpeechModel),
		)
	} else {
		logger.Warn("Generation disabled: narrative endpoints will return not_implemented")
	}

	narrativeSvc := narrativeuc.New(recSvc, gen, synth)
	shortlistSvc := shortlistuc.New(
		shortlistrepo.New(store, time.Duration(cfg.Storage.SessionTTLSec)*time.Second),
		recSvc,
	)
	usageSvc := usageuc.New(budgetReader)
	healthSvc := healthuc.New(store, catalogRepo, genHealth)

	server := chiTransport.NewServer(recSvc, narrativeSvc, shortlistSvc, usageSvc, healthSvc, catalogRepo)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:             cfg.Auth.APIKeys,
		AllowedOrigins:      cfg.CORS.AllowedOrigins,
		GenerationPerMinute: cfg.RateLimit.GenerationPerMinute,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			n, err := catalogRepo.Reload(ctx)
			if err != nil {
				logger.Error("Catalog reload failed, keeping previous snapshot", zap.Error(err))
				continue
			}
			logger.Info("Catalog reloaded", zap.Int("laptops", n))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	signal.Stop(hup)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverValkey, config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		return s, nil
	case config.DriverBadger:
		s, err := dbBadger.NewStore(dbBadger.Config{
			Path:   cfg.Path,
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create badger store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

type generationChain struct {
	text    domain.TextGenerator
	breaker *generation.Breaker
	budget  *generation.BudgetTracker
}

// buildGeneration assembles the decorator chains:
// text: OpenAI -> Cached -> Instrumented -> Breaker -> Instruction
// speech: OpenAI -> Instrumented -> Breaker
func buildGeneration(
	ctx context.Context,
	cfg config.GenerationConfig,
	store db.Store,
	logger *zap.Logger,
) generationChain {
	client := openaiTransport.NewClient(&openaiTransport.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		SpeechModel: cfg.SpeechModel,
		Voice:       cfg.Voice,
		Provider:    cfg.Provider,
		Logger:      logger,
	})

	var budget *generation.BudgetTracker
	if cfg.Budget.DailyTokenLimit > 0 || cfg.Budget.MonthlyTokenLimit > 0 {
		action := generation.BudgetActionWarn
		if cfg.Budget.Action == "reject" {
			action = generation.BudgetActionReject
		}
		budget = generation.NewBudgetTracker(
			cfg.Provider, cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, logger,
		)
		budget.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
	}

	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var checker generation.BudgetChecker
	if budget != nil {
		checker = budget
	}

	var text domain.TextGenerator = client
	if cfg.CacheTTLSec > 0 {
		text = gencache.New(client, store, time.Duration(cfg.CacheTTLSec)*time.Second, metrics.GenerationCacheTotal, logger)
	}
	text = generation.NewInstrumentedGenerator(text, cfg.Provider, cfg.Model, checker, logger)
	speech := generation.NewInstrumentedSynthesizer(client, cfg.Provider, checker, logger)

	breaker := generation.NewBreaker(text, speech, generation.BreakerSettings{
		Name:        cfg.Provider,
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: time.Duration(cfg.Breaker.OpenSec) * time.Second,
	}, logger).WithProviderCheck(client)

	// Instruction prefix is outermost so the cache key includes it.
	text = breaker
	if cfg.Instruction != "" {
		text = domain.NewInstructionGenerator(breaker, cfg.Instruction)
	}

	return generationChain{text: text, breaker: breaker, budget: budget}
}
