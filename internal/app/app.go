package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/msoohome/storefront/internal/cart"
	"github.com/msoohome/storefront/internal/catalog"
	"github.com/msoohome/storefront/internal/checkout"
	"github.com/msoohome/storefront/internal/credentials"
	"github.com/msoohome/storefront/internal/describe"
	healthcheck "github.com/msoohome/storefront/internal/health"
	"github.com/msoohome/storefront/internal/messaging/kafka"
	"github.com/msoohome/storefront/internal/metrics"
	idemworker "github.com/msoohome/storefront/internal/service/idempotency"
	"github.com/msoohome/storefront/internal/service/outbox"
	"github.com/msoohome/storefront/internal/service/payment"
	"github.com/msoohome/storefront/internal/session"
	transport "github.com/msoohome/storefront/internal/transport/http"
	"github.com/msoohome/storefront/internal/version"
)

// Run assembles the storefront and serves it until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	cat := catalog.New(deps.Products, logger.WithField("component", "catalog"))
	if _, err := cat.LoadOrSeed(ctx); err != nil {
		return err
	}

	creds := credentials.NewService(deps.Users, credentials.Config{
		AdminEmails:      cfg.AdminEmails,
		AdminSetupSecret: cfg.AdminSetupSecret,
	}, logger.WithField("component", "credentials"))
	gate := session.NewGate(creds)
	carts := cart.NewManager(deps.Snapshots, cart.DefaultSnapshotKey, logger.WithField("component", "cart"))

	payments := payment.NewSimulator(cfg.PaymentDelay, logger.WithField("component", "payment"))

	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	var pipeline *checkout.Pipeline
	if kafkaProducer != nil {
		pipeline = checkout.NewPipelineWithKafka(
			deps.Orders, deps.Outbox, deps.Timeline, deps.Idempotency,
			payments, kafkaProducer, logger.WithField("component", "checkout"),
		)
	} else {
		pipeline = checkout.NewPipeline(
			deps.Orders, deps.Outbox, deps.Timeline, deps.Idempotency,
			payments, logger.WithField("component", "checkout"),
		)
	}
	pipeline.SetConfirmDelay(cfg.ConfirmDelay)

	// Background workers. The outbox worker only runs with a broker to
	// publish to; pending records simply accumulate without one.
	if kafkaProducer != nil {
		publisher := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents)
		worker := outbox.NewWorker(deps.Outbox, publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")))
		go worker.Run(ctx)
	}
	cleaner := idemworker.NewCleanupWorker(deps.Idempotency,
		idemworker.WithLogger(logger.WithField("component", "idempotency-cleanup")))
	go cleaner.Run(ctx)

	var describer describe.Generator = describe.NewHTTPGenerator(
		cfg.DescribeEndpoint, cfg.DescribeAPIKey, logger.WithField("component", "describe"))

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	if pg := deps.PostgresStore(); pg != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return pg.Ping(context.Background())
		}))
	}
	if rc := deps.RedisClient(); rc != nil {
		healthHandler.RegisterChecker("redis", healthcheck.NewSimpleChecker("redis", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return rc.Ping(pingCtx).Err()
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	srv := transport.NewServer(transport.Deps{
		Catalog:     cat,
		Carts:       carts,
		Credentials: creds,
		Gate:        gate,
		Checkout:    pipeline,
		Orders:      deps.Orders,
		Users:       deps.Users,
		Timeline:    deps.Timeline,
		Describer:   describer,
		Logger:      logger.WithField("component", "http"),
	})
	apiSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(metrics.NewHTTPMetrics()),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("storefront API listening on %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping API server")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer serves /metrics plus the health endpoints on a
// separate listener.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("metrics available at %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
