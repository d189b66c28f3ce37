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

	"github.com/salonsuite/salon-api/internal/config"
	"github.com/salonsuite/salon-api/internal/email"
	"github.com/salonsuite/salon-api/internal/handler"
	"github.com/salonsuite/salon-api/internal/notify"
	"github.com/salonsuite/salon-api/internal/payment"
	"github.com/salonsuite/salon-api/internal/repository/postgres"
	"github.com/salonsuite/salon-api/internal/scheduler"
	apptsvc "github.com/salonsuite/salon-api/internal/service/appointment"
	authsvc "github.com/salonsuite/salon-api/internal/service/auth"
	billingsvc "github.com/salonsuite/salon-api/internal/service/billing"
	tenantsvc "github.com/salonsuite/salon-api/internal/service/tenant"
	"github.com/salonsuite/salon-api/internal/tenancy"
	"github.com/salonsuite/salon-api/internal/whatsapp"
	"github.com/salonsuite/salon-api/pkg/auth"
	"github.com/salonsuite/salon-api/pkg/logger"
	"github.com/salonsuite/salon-api/pkg/messaging"
	redisbroker "github.com/salonsuite/salon-api/pkg/messaging/redis"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}).
		With().Str("service", "api").Logger()

	db, err := postgres.Connect(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	m := metrics.New("salon_api")

	tenantRepo := postgres.NewTenantRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	userRepo := postgres.NewUserRepository(db)

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

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	resolver := tenancy.NewResolver(tenantRepo, cfg.App.RootDomain, log)

	tenantService := tenantsvc.NewService(tenantRepo, log)
	authService := authsvc.NewService(userRepo, tenantRepo, jwtService, log)
	appointmentService := apptsvc.NewService(appointmentRepo, clientRepo, serviceRepo, tenantService, log)
	billingService := billingsvc.NewService(invoiceRepo, log)

	router := handler.NewRouter(cfg, handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Tenants:      handler.NewTenantHandler(tenantService),
		Clients:      handler.NewClientHandler(clientRepo),
		Catalog:      handler.NewCatalogHandler(serviceRepo),
		Appointments: handler.NewAppointmentHandler(appointmentService),
		Invoices:     handler.NewInvoiceHandler(billingService),
		Settings:     handler.NewSettingsHandler(settings),
		Health:       handler.NewHealthHandler(db),
	}, resolver, jwtService, m, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The dispatchers can run inside the API process for single-node
	// deployments; larger setups run cmd/scheduler instead.
	var runner *scheduler.Runner
	if cfg.Scheduler.Enabled {
		loc := cfg.Scheduler.Location()
		runner = scheduler.NewRunner(loc, m, log)
		runner.Every(ctx,
			scheduler.NewReminderDispatcher(appointmentRepo, settings, mailer, messenger, broker, m, loc, log),
			cfg.Scheduler.ReminderInterval, cfg.Scheduler.ReminderDelay)
		runner.DailyAt(ctx,
			scheduler.NewDigestDispatcher(appointmentRepo, settings, mailer, loc, log),
			cfg.Scheduler.DigestHour, cfg.Scheduler.DigestMinute)
		runner.DailyAt(ctx,
			scheduler.NewBillingDispatcher(tenantRepo, invoiceRepo, gateway, mailer, messenger, broker, m, loc, log),
			cfg.Scheduler.BillingHour, cfg.Scheduler.BillingMinute)
		runner.MonthlyFirstAt(ctx,
			scheduler.NewCounterResetJob(tenantRepo, log),
			0, 1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if runner != nil {
		runner.Wait()
	}
	log.Info().Msg("stopped")
}
