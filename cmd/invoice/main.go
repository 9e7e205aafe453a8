// Command invoice creates and manages invoices from recorded timesheets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appinvoice "github.com/timebill/backend/internal/application/invoice"
	"github.com/timebill/backend/internal/infrastructure/cache"
	"github.com/timebill/backend/internal/infrastructure/config"
	"github.com/timebill/backend/internal/infrastructure/event"
	"github.com/timebill/backend/internal/infrastructure/logger"
	"github.com/timebill/backend/internal/infrastructure/persistence"
	"github.com/timebill/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to start", zap.Error(err))
	}

	runErr := a.run(ctx, args, os.Stdout)
	a.close()
	if runErr != nil {
		a.logger.Error("Command failed", zap.String("command", args[0]), zap.Error(runErr))
		_ = a.logger.Sync()
		os.Exit(1)
	}
	_ = a.logger.Sync()
}

// app holds the wired components of one invocation
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *persistence.Database
	service   *appinvoice.InvoiceService
	metrics   *telemetry.InvoiceMetrics
	providers *telemetry.Providers
	bus       *event.InMemoryEventBus
	closers   []func() error
}

func newApp(ctx context.Context, cfg *config.Config, baseLog *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: baseLog}

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}, baseLog)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	a.providers = providers
	a.logger = providers.Logs.Bridge(baseLog, zapcore.InfoLevel)
	log := a.logger

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		a.close()
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	tracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	if cfg.Database.Driver == "sqlite" {
		tracing.DBSystem = "sqlite"
		if err := db.AutoMigrate(); err != nil {
			a.close()
			return nil, err
		}
	}
	if err := telemetry.RegisterDBTracing(db.DB, tracing, log); err != nil {
		a.close()
		return nil, fmt.Errorf("database tracing: %w", err)
	}

	reservations, closeStore, err := cache.NewReservationStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		a.close()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	metrics, err := telemetry.NewInvoiceMetrics(telemetry.InvoiceMetricsConfig{
		Meter:   providers.Meter.Meter("timebill/invoice"),
		Logger:  log,
		Overdue: invoiceRepo,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("invoice metrics: %w", err)
	}
	a.metrics = metrics

	var busOpts []event.BusOption
	if cfg.Event.Async {
		busOpts = append(busOpts, event.WithAsync(cfg.Event.Workers, cfg.Event.BufferSize))
	}
	a.bus = event.NewInMemoryEventBus(log, busOpts...)
	a.bus.Subscribe(appinvoice.NewInvoiceStatusLogger(metrics, log))
	if err := a.bus.Start(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("event bus: %w", err)
	}

	a.service = appinvoice.NewInvoiceService(
		persistence.NewGormCustomerRepository(db.DB),
		persistence.NewGormUserRepository(db.DB),
		persistence.NewGormInvoiceTemplateRepository(db.DB),
		invoiceRepo,
		persistence.NewGormTimesheetRepository(db.DB),
		persistence.NewGormTransactionScope(db.DB),
		log,
		appinvoice.WithServiceConfig(appinvoice.ServiceConfig{
			NumberGenerator:   cfg.Invoice.NumberGenerator,
			NumberPrefix:      cfg.Invoice.NumberPrefix,
			MaxNumberAttempts: cfg.Invoice.MaxNumberAttempts,
			ReservationTTL:    cfg.Invoice.ReservationTTL,
		}),
		appinvoice.WithReservationStore(reservations),
		appinvoice.WithEventPublisher(a.bus),
		appinvoice.WithMetrics(metrics),
	)

	log.Debug("Invoice service ready",
		zap.String("env", cfg.App.Env),
		zap.String("driver", cfg.Database.Driver),
		zap.String("number_generator", cfg.Invoice.NumberGenerator),
	)
	return a, nil
}

// close drains the event bus before the stores it writes through go away
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.bus != nil {
		if err := a.bus.Stop(ctx); err != nil {
			a.logger.Warn("Error stopping event bus", zap.Error(err))
		}
	}
	if a.metrics != nil {
		a.metrics.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Error releasing resource", zap.Error(err))
		}
	}
	if a.providers != nil {
		if err := a.providers.Shutdown(ctx); err != nil {
			a.logger.Warn("Error shutting down telemetry", zap.Error(err))
		}
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: invoice <command> [flags]

Commands:
  create    Bill the selected timesheet entries
  preview   Show the invoice create would produce without saving it
  status    Move an invoice to new, pending, paid or canceled
  show      Print one invoice
  list      List invoices of a tenant
  overdue   List open invoices past their due date

Every command takes -tenant <uuid>. Run "invoice <command> -h" for its flags.
Configuration is read from config.toml and TIMEBILL_* environment variables.
`)
}
