package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salonsuite/salon-api/internal/config"
	"github.com/salonsuite/salon-api/internal/email"
	"github.com/salonsuite/salon-api/internal/notify"
	"github.com/salonsuite/salon-api/internal/payment"
	"github.com/salonsuite/salon-api/internal/repository/postgres"
	"github.com/salonsuite/salon-api/internal/scheduler"
	"github.com/salonsuite/salon-api/internal/whatsapp"
	"github.com/salonsuite/salon-api/pkg/logger"
	"github.com/salonsuite/salon-api/pkg/messaging"
	redisbroker "github.com/salonsuite/salon-api/pkg/messaging/redis"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// options are the process-level overrides of the standalone scheduler,
// read from SCHEDULER_* environment variables.
type options struct {
	Port             int  `envconfig:"PORT" default:"9090"`
	DisableReminders bool `envconfig:"DISABLE_REMINDERS"`
	DisableDigest    bool `envconfig:"DISABLE_DIGEST"`
	DisableBilling   bool `envconfig:"DISABLE_BILLING"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var opts options
	if err := envconfig.Process("scheduler", &opts); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse environment: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}).
		With().Str("service", "scheduler").Logger()

	db, err := postgres.Connect(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	m := metrics.New("salon_scheduler")

	tenantRepo := postgres.NewTenantRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)

	var broker messaging.Broker = messaging.NopBroker{}
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
	}
	defer broker.Close()

	settings := notify.NewSettingsStore(cfg.App.SettingsFile, log)
	mailer := email.NewSender(cfg.Email, log)
	messenger := whatsapp.NewClient(cfg.WhatsApp, log)
	gateway := payment.NewGateway(cfg.Payment, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc := cfg.Scheduler.Location()
	runner := scheduler.NewRunner(loc, m, log)

	if !opts.DisableReminders {
		runner.Every(ctx,
			scheduler.NewReminderDispatcher(appointmentRepo, settings, mailer, messenger, broker, m, loc, log),
			cfg.Scheduler.ReminderInterval, cfg.Scheduler.ReminderDelay)
	}
	if !opts.DisableDigest {
		runner.DailyAt(ctx,
			scheduler.NewDigestDispatcher(appointmentRepo, settings, mailer, loc, log),
			cfg.Scheduler.DigestHour, cfg.Scheduler.DigestMinute)
	}
	if !opts.DisableBilling {
		runner.DailyAt(ctx,
			scheduler.NewBillingDispatcher(tenantRepo, invoiceRepo, gateway, mailer, messenger, broker, m, loc, log),
			cfg.Scheduler.BillingHour, cfg.Scheduler.BillingMinute)
	}
	runner.MonthlyFirstAt(ctx, scheduler.NewCounterResetJob(tenantRepo, log), 0, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", opts.Port), Handler: mux}
	go func() {
		log.Info().Int("port", opts.Port).Msg("scheduler listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("scheduler server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	runner.Wait()
	log.Info().Msg("stopped")
}
