package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yakoovad/golf-fundraiser/internal/api"
	"github.com/yakoovad/golf-fundraiser/internal/auth"
	"github.com/yakoovad/golf-fundraiser/internal/config"
	"github.com/yakoovad/golf-fundraiser/internal/db"
	"github.com/yakoovad/golf-fundraiser/internal/payment"
	"github.com/yakoovad/golf-fundraiser/internal/repository"
	"github.com/yakoovad/golf-fundraiser/internal/service"
	"github.com/yakoovad/golf-fundraiser/pkg/logger"
	"go.uber.org/zap"
)

func serveCmd(configPath *string) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, autoMigrate)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func runServe(ctx context.Context, configPath string, autoMigrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	l, err := logger.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	defer l.Sync()

	l.Info("starting application", zap.String("env", cfg.AppEnv), zap.String("version", Version))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Error("failed to connect to database", zap.Error(err))
		return err
	}
	defer pool.Close()

	l.Info("database connection established")

	if autoMigrate {
		if err = db.Migrate(ctx, pool, db.MigrateUp); err != nil {
			l.Error("failed to apply migrations", zap.Error(err))
			return err
		}
	}

	provider, err := payment.NewProvider(cfg.Payment)
	if err != nil {
		return err
	}
	if cfg.Payment.WebhookSecret == "" {
		l.Warn("payment webhook secret is empty, webhooks will be rejected")
	}

	checker, err := api.NewHealthChecker(Version, api.PostgresCheck(pool))
	if err != nil {
		return err
	}

	transactor := db.NewPgxTransactor(pool)

	teamRepo := repository.NewPgxTeamRepository(pool)
	registrationRepo := repository.NewPgxRegistrationRepository(pool)
	sponsorRepo := repository.NewPgxSponsorRepository(pool)
	sponsorshipRepo := repository.NewPgxSponsorshipRepository(pool)

	team := service.NewTeamService(transactor).WithTeamRepo(teamRepo).WithRegistrationRepo(registrationRepo)
	registration := service.NewRegistrationService(transactor).WithRegistrationRepo(registrationRepo)
	sponsor := service.NewSponsorService().WithSponsorRepo(sponsorRepo)
	checkout := service.NewCheckoutService(provider).WithRegistrationRepo(registrationRepo)
	payments := service.NewPaymentService(transactor).WithRegistrationRepo(registrationRepo).WithSponsorshipRepo(sponsorshipRepo)

	e := echo.New()
	e.HideBanner = true

	handler := api.NewHandler(l).
		WithHealthChecker(checker).
		WithTeamService(team).
		WithRegistrationService(registration).
		WithSponsorService(sponsor).
		WithCheckoutService(checkout).
		WithPaymentService(payments).
		WithPaymentProvider(provider).
		WithTokenManager(auth.NewTokenManager(cfg.AuthTokenSecret))

	handler.RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		l.Info("server starting", zap.String("addr", cfg.HTTPAddr), zap.String("payment_provider", provider.Name()))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			l.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		l.Error("graceful shutdown failed", zap.Error(err))
		return err
	}

	return nil
}
