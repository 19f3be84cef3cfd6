package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"DraftFlow/internal/config"
	"DraftFlow/internal/infrastructure/alimtalk"
	"DraftFlow/internal/infrastructure/llm"
	"DraftFlow/internal/infrastructure/scheduler"
	"DraftFlow/internal/infrastructure/storage"
	"DraftFlow/internal/logging"
	"DraftFlow/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	db        *sql.DB
	logger    *slog.Logger
	generator *usecase.Generator
	notifier  *usecase.Notifier
	resolver  *usecase.Resolver
	router    *usecase.DailyRouter
}

// New validates configuration, connects storage, and builds every component.
// A validation or connection failure here is fatal; nothing has been
// processed yet.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}

	customers := storage.NewCustomerRepository(db)
	drafts := storage.NewDraftRepository(db)
	confirmations := storage.NewConfirmationRepository(db)
	logs := storage.NewNotificationLogRepository(db)
	usedTopics := storage.NewUsedTopicRepository(db)

	tracker := usecase.NewTracker(customers, drafts, confirmations,
		baseLogger.With("component", "tracker"))

	generator := usecase.NewGenerator(usecase.GeneratorDeps{
		Customers:  customers,
		Drafts:     drafts,
		UsedTopics: usedTopics,
		Generator:  llm.NewOpenAIClient(cfg.OpenAI),
		DraftCount: cfg.OpenAI.DraftCount,
		Logger:     baseLogger.With("component", "generator"),
	})

	notifier := usecase.NewNotifier(usecase.NotifierDeps{
		Customers:  customers,
		Drafts:     drafts,
		Tracker:    tracker,
		Logs:       logs,
		Sender:     alimtalk.NewSender(cfg.Alimtalk),
		ServiceURL: cfg.Service.BaseURL,
		Logger:     baseLogger.With("component", "notifier"),
	})

	resolver := usecase.NewResolver(usecase.ResolverDeps{
		Tracker:       tracker,
		Drafts:        drafts,
		Confirmations: confirmations,
		Logs:          logs,
		Logger:        baseLogger.With("component", "resolver"),
	})

	router := usecase.NewDailyRouter(notifier, resolver,
		baseLogger.With("component", "daily"))

	return &Application{
		cfg:       cfg,
		db:        db,
		logger:    baseLogger,
		generator: generator,
		notifier:  notifier,
		resolver:  resolver,
		router:    router,
	}, nil
}

// Close releases the storage connection.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *Application) now() time.Time {
	return time.Now().In(a.cfg.Scheduler.Location())
}

// RunCheck executes the day-based router once.
func (a *Application) RunCheck(ctx context.Context) error {
	return a.router.Run(ctx, a.now())
}

// RunReminder forces a reminder pass regardless of weekday.
func (a *Application) RunReminder(ctx context.Context) error {
	return a.notifier.SendReminders(ctx, a.now())
}

// RunAutoConfirm forces an auto-confirm pass regardless of weekday.
func (a *Application) RunAutoConfirm(ctx context.Context) error {
	return a.resolver.Run(ctx, a.now())
}

// RunSend dispatches the initial weekly alimtalk to customers with drafts.
func (a *Application) RunSend(ctx context.Context) error {
	return a.notifier.SendInitial(ctx, a.now())
}

// RunGenerate creates this week's draft batches for all active customers.
func (a *Application) RunGenerate(ctx context.Context) error {
	return a.generator.GenerateForAll(ctx, a.now())
}

// RunGenerateCustomer creates this week's batch for one customer.
func (a *Application) RunGenerateCustomer(ctx context.Context, customerID string) error {
	written, err := a.generator.GenerateForCustomerID(ctx, customerID, a.now())
	if err != nil {
		return err
	}
	a.logger.Info("generation done", "customer_id", customerID, "drafts", written)
	return nil
}

// RunRegenerate purges all pending drafts and generates fresh batches.
func (a *Application) RunRegenerate(ctx context.Context) error {
	return a.generator.RegenerateAll(ctx, a.now())
}

// RunDaemon schedules the daily check via cron and blocks until ctx ends.
func (a *Application) RunDaemon(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())

	job := func(trigger time.Time) {
		if err := a.router.Run(ctx, trigger); err != nil {
			a.logger.Error("daily check failed", "error", err)
		}
	}

	if err := driver.Start(ctx, job); err != nil {
		return err
	}
	a.logger.Info("daemon started", "cron", a.cfg.Scheduler.CronExpression, "timezone", a.cfg.Scheduler.Location().String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return driver.Stop(stopCtx)
}
