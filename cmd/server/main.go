package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	adminHandler "spearow/internal/admin/handler"
	adminService "spearow/internal/admin/service"
	"spearow/internal/audit"
	jwttoken "spearow/internal/jwt_token"
	"spearow/internal/notify"
	"spearow/internal/platform/config"
	"spearow/internal/platform/httpserver"
	"spearow/internal/platform/logger"
	platformredis "spearow/internal/platform/redis"
	reportHandler "spearow/internal/report/handler"
	"spearow/internal/report/hibp"
	reportMetrics "spearow/internal/report/metrics"
	reportService "spearow/internal/report/service"
	reportStore "spearow/internal/report/store"
	httptransport "spearow/internal/transport/http"
	userHandler "spearow/internal/user/handler"
	userService "spearow/internal/user/service"
	userStore "spearow/internal/user/store"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal services.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Report cache store: Redis when configured, in-memory otherwise.
	var cache reportStore.Store
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = reportStore.NewRedisStore(redisClient.Client)
		log.Info("using redis report cache")
	} else {
		cache = reportStore.NewInMemoryStore()
		log.Info("using in-memory report cache")
	}

	// User directory: PostgreSQL when configured, in-memory otherwise.
	var users userStore.Store
	if cfg.Database.DSN != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
		if err != nil {
			log.Error("parse database dsn failed", "error", err)
			os.Exit(1)
		}
		poolCfg.MaxConns = cfg.Database.MaxConns
		poolCfg.MinConns = cfg.Database.MinConns
		poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			log.Error("database connect failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		users = userStore.NewPostgres(pool)
		log.Info("using postgres user store")
	} else {
		users = userStore.NewMemoryStore()
		log.Info("using in-memory user store")
	}

	// Audit sink: Kafka when brokers are configured, in-process otherwise.
	var auditPublisher audit.Publisher
	if len(cfg.Audit.KafkaBrokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		auditPublisher = kafkaPublisher
		log.Info("publishing audit events to kafka", "topic", cfg.Audit.KafkaTopic)
	} else {
		auditPublisher = audit.NewStorePublisher(audit.NewInMemoryStore())
	}

	policy, err := reportStore.PolicyFromConfig(cfg.Cache.StalenessMode, cfg.Cache.TTL)
	if err != nil {
		log.Error("invalid cache policy", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, "spearow")
	verifier := jwttoken.NewJWTServiceAdapter(jwtService)

	userSvc := userService.NewService(users, userService.WithLogger(log))

	remote := hibp.New(cfg.Provider.BaseURL, cfg.Provider.APIKey)
	reportSvc := reportService.NewService(cache, remote,
		reportService.WithLogger(log),
		reportService.WithMetrics(reportMetrics.New()),
		reportService.WithAudit(auditPublisher),
		reportService.WithUserDirectory(userSvc),
		reportService.WithStalenessPolicy(policy),
		reportService.WithTracer(otel.Tracer("report")),
	)

	adminSvc := adminService.NewService(userSvc, reportSvc,
		adminService.WithLogger(log),
		adminService.WithNotifier(notify.Noop{}),
		adminService.WithAudit(auditPublisher),
	)

	router := httptransport.NewRouter(log,
		userHandler.New(userSvc, log, verifier),
		reportHandler.New(reportSvc, log, verifier),
		adminHandler.New(adminSvc, log, verifier),
	)

	apiServer := httpserver.New(cfg.Server, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := httpserver.NewMetrics(cfg.Server.MetricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting api server", "addr", cfg.Server.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting metrics server", "addr", cfg.Server.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Error("api server shutdown failed", "error", err)
		}
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
