package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"DraftFlow/internal/app"
	"DraftFlow/internal/config"
	"DraftFlow/internal/logging"
)

func main() {
	var (
		check            = flag.Bool("check", false, "run the day-based router (default action)")
		reminder         = flag.Bool("reminder", false, "force a reminder pass")
		autoConfirm      = flag.Bool("auto-confirm", false, "force an auto-confirm pass")
		send             = flag.Bool("send", false, "send the initial weekly alimtalk")
		generate         = flag.Bool("generate", false, "generate draft batches for all active customers")
		generateCustomer = flag.String("generate-customer", "", "generate a draft batch for one customer id")
		regenerate       = flag.Bool("regenerate", false, "purge pending drafts and regenerate all batches")
		daemon           = flag.Bool("daemon", false, "run the daily check on a cron schedule")
	)
	flag.Parse()

	// Optional; credentials usually come from the real environment in prod.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *reminder:
		err = application.RunReminder(ctx)
	case *autoConfirm:
		err = application.RunAutoConfirm(ctx)
	case *send:
		err = application.RunSend(ctx)
	case *generate:
		err = application.RunGenerate(ctx)
	case *generateCustomer != "":
		err = application.RunGenerateCustomer(ctx, *generateCustomer)
	case *regenerate:
		err = application.RunRegenerate(ctx)
	case *daemon:
		err = application.RunDaemon(ctx)
	case *check:
		err = application.RunCheck(ctx)
	default:
		err = application.RunCheck(ctx)
	}

	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
