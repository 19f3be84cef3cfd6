package usecase

import (
	"context"
	"log/slog"
	"time"

	"DraftFlow/internal/week"
)

// DailyRouter maps the day of the confirmation week onto the action due that
// day. Monday and Tuesday are quiet (generation and the initial send run as
// their own passes), Wednesday reminds, and Thursday onward auto-confirms.
// Late-week re-runs are safe because the resolver is a no-op for customers
// already confirmed.
type DailyRouter struct {
	notifier *Notifier
	resolver *Resolver
	logger   *slog.Logger
}

// NewDailyRouter constructs the day-based dispatch.
func NewDailyRouter(notifier *Notifier, resolver *Resolver, logger *slog.Logger) *DailyRouter {
	return &DailyRouter{notifier: notifier, resolver: resolver, logger: logger}
}

// Run executes the action scheduled for now's weekday.
func (d *DailyRouter) Run(ctx context.Context, now time.Time) error {
	elapsed := week.ElapsedDays(now)
	d.info("daily check", "date", week.DayKey(now), "week", week.Key(now), "elapsed_days", elapsed)

	switch {
	case elapsed == 2:
		return d.notifier.SendReminders(ctx, now)
	case elapsed >= 3:
		return d.resolver.Run(ctx, now)
	default:
		d.info("nothing scheduled today", "elapsed_days", elapsed)
		return nil
	}
}

func (d *DailyRouter) info(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}
