package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	authhandler "carehub/internal/auth/handler"
	authmetrics "carehub/internal/auth/metrics"
	"carehub/internal/auth/password"
	authservice "carehub/internal/auth/service"
	jwttoken "carehub/internal/jwt_token"
	medhandler "carehub/internal/medication/handler"
	medservice "carehub/internal/medication/service"
	"carehub/internal/platform/config"
	"carehub/internal/platform/health"
	"carehub/internal/platform/logger"
	"carehub/internal/platform/metrics"
	"carehub/internal/platform/tracer"
	httptransport "carehub/internal/transport/http"
	"carehub/pkg/platform/middleware/auth"
	"carehub/pkg/platform/middleware/request"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "listen address (overrides ADDR/PORT)")
	cmd.Flags().String("store", "", "store backend: memory, postgres or mongo (overrides STORE_BACKEND)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := buildServer(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		return err
	}
	defer cleanup()

	log.Info("starting http server",
		"addr", cfg.Addr,
		"store", cfg.StoreBackend,
		"environment", cfg.Environment,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return oops.In("server").Wrapf(err, "listen and serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Server, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Server{}, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.StoreBackend = v
	}
	if err := cfg.Validate(); err != nil {
		return config.Server{}, err
	}
	return cfg, nil
}

// buildServer wires stores, services and handlers into an *http.Server.
func buildServer(ctx context.Context, cfg config.Server, log *slog.Logger) (*http.Server, func(), error) {
	reg := metrics.NewRegistry()
	platformMetrics := metrics.New(reg)
	authMetrics := authmetrics.New(reg)
	t := tracer.NewOTel()

	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	codec := jwttoken.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	authSvc, err := authservice.New(stores.users, password.NewHasher(cfg.BcryptCost), codec,
		authservice.WithLogger(log),
		authservice.WithMetrics(authMetrics),
		authservice.WithTracer(t),
	)
	if err != nil {
		stores.close()
		return nil, nil, err
	}
	medSvc, err := medservice.New(stores.medications,
		medservice.WithLogger(log),
		medservice.WithMetrics(platformMetrics),
		medservice.WithTracer(t),
	)
	if err != nil {
		stores.close()
		return nil, nil, err
	}

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("store", func(ctx context.Context) error {
		err := stores.health(ctx)
		platformMetrics.SetStoreHealthy(cfg.StoreBackend, err == nil)
		return err
	})

	router := httptransport.NewRouter(httptransport.Routes{
		Auth: authhandler.New(authSvc, log, authhandler.CookieConfig{
			Name:   cfg.CookieName,
			Secure: cfg.CookieSecure,
			TTL:    cfg.TokenTTL,
		}, cfg.ExposePasswordHash),
		Medications: medhandler.New(medSvc, log),
		Gate:        auth.NewGate(codec, cfg.CookieName, log, authMetrics),
		Health:      healthHandler,
		Latency:     request.NewMetrics(reg),
		Gatherer:    reg,
	}, httptransport.Options{
		CORSOrigins:    cfg.CORSOrigins,
		BodyLimitBytes: cfg.BodyLimitBytes,
		RequestTimeout: cfg.RequestTimeout,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return srv, stores.close, nil
}
