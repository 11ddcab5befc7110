package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/application/services"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/guard"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/blockchain"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/cache/redis"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/discord"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/ethos"
	memoryguard "github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/guard/memory"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/guard/redisguard"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/sessiontoken"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/infrastructure/twitter"
	httpiface "github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/interfaces/http/handlers"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/privacy"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/statetoken"
)

const shutdownTimeout = 30 * time.Second

// stateTokenIssuer names this service in OAuth state token claims.
const stateTokenIssuer = "ethos-anonymous-reviews"

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, auditWriter, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()
	logger.SetDefault(log)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if auditWriter != nil {
		auditWriter.StartCleanupJob(rootCtx)
		defer auditWriter.Close()
	}

	csrf, nonces, limiter, redisClient, err := buildGuards(cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	chain, err := blockchain.NewClient(&cfg.Blockchain, log)
	if err != nil {
		return fmt.Errorf("failed to build blockchain client: %w", err)
	}
	defer chain.Close()

	anonymizer := privacy.NewAnonymizer(cfg.Security.AnonymizationSalt, cfg.Security.AnonymizeUserIDs)
	oracle := ethos.NewClient(&cfg.Ethos)
	idp := twitter.NewClient(&cfg.Twitter)
	notifier := discord.NewNotifier(&cfg.Discord, log)
	states := statetoken.NewManager(cfg.Session.Secret, stateTokenIssuer, 10*time.Minute)
	codec := sessiontoken.NewCodec(cfg.Session.Secret)

	authSvc := services.NewAuthService(idp, states, codec, cfg.Session.TTL, anonymizer, log)
	repSvc := services.NewReputationService(oracle, log)
	reviewSvc := services.NewReviewService(csrf, nonces, limiter, repSvc, oracle, chain, notifier, anonymizer, &cfg.Security, log)
	slashSvc := services.NewSlashService(csrf, nonces, limiter, repSvc, notifier, anonymizer, &cfg.Security, log)

	checkers := map[string]handlers.HealthChecker{"blockchain": chain}
	if redisClient != nil {
		checkers["redis"] = redisClient
	}

	router := httpiface.NewRouter(cfg, authSvc, httpiface.Handlers{
		Auth:       handlers.NewAuthHandler(authSvc, &cfg.Session, log),
		Guard:      handlers.NewGuardHandler(csrf, log),
		Reputation: handlers.NewReputationHandler(repSvc, log),
		Review:     handlers.NewReviewHandler(reviewSvc, log),
		Slash:      handlers.NewSlashHandler(slashSvc, log),
		Discord:    handlers.NewDiscordHandler(notifier, log),
		Health:     handlers.NewHealthHandler(checkers, log),
	}, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			logger.String("addr", server.Addr),
			logger.String("network", cfg.Blockchain.Network),
			logger.String("guard_backend", cfg.Guard.Backend),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-rootCtx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// buildLogger assembles the zap logger, with the SQLite audit sink attached
// when retention is configured.
func buildLogger(cfg *config.Config) (logger.Logger, *logger.SQLiteWriter, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Environment = cfg.Logging.Environment
	logCfg.EnableAudit = cfg.Logging.AuditEnabled
	logCfg.AuditDBPath = cfg.Logging.AuditDBPath
	logCfg.RetentionDays = cfg.Logging.RetentionDays
	logCfg.AsyncBufferSize = cfg.Logging.BufferSize

	var writer *logger.SQLiteWriter
	if logCfg.EnableAudit && logCfg.RetentionDays > 0 {
		w, err := logger.NewSQLiteWriter(logCfg)
		if err != nil {
			return nil, nil, err
		}
		writer = w
	}

	log, err := logger.New(logCfg, writerOrNil(writer))
	if err != nil {
		if writer != nil {
			writer.Close()
		}
		return nil, nil, err
	}
	return log, writer, nil
}

// writerOrNil keeps a typed-nil *SQLiteWriter from leaking into the LogWriter
// interface.
func writerOrNil(w *logger.SQLiteWriter) logger.LogWriter {
	if w == nil {
		return nil
	}
	return w
}

// buildGuards selects the guard backend. Memory is the default for a single
// instance; redis shares guard state across replicas.
func buildGuards(cfg *config.Config, log logger.Logger) (guard.CSRFStore, guard.NonceStore, guard.RateLimiter, *redis.Client, error) {
	if cfg.Guard.Backend == "redis" {
		client, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisguard.NewCSRFStore(client, cfg.Guard.TokenTTL),
			redisguard.NewNonceStore(client, cfg.Guard.TokenTTL),
			redisguard.NewRateLimiter(client),
			client, nil
	}

	log.Info("using in-memory guard stores")
	return memoryguard.NewCSRFStore(cfg.Guard.TokenTTL),
		memoryguard.NewNonceStore(cfg.Guard.TokenTTL),
		memoryguard.NewRateLimiter(),
		nil, nil
}
