package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
	"DraftFlow/internal/week"
)

const autoConfirmMemo = "auto-confirmed"

// ResolverDeps wires all collaborators into the auto-confirm resolver.
type ResolverDeps struct {
	Tracker       *Tracker
	Drafts        ports.DraftRepository
	Confirmations ports.ConfirmationRepository
	Logs          ports.NotificationLogRepository
	Logger        *slog.Logger
}

// Resolver closes out undecided weeks by confirming the first pending draft.
// Re-running it is safe: once a confirmation row exists the tracker stops
// returning that customer.
type Resolver struct {
	tracker       *Tracker
	drafts        ports.DraftRepository
	confirmations ports.ConfirmationRepository
	logs          ports.NotificationLogRepository
	logger        *slog.Logger
}

// NewResolver constructs the auto-confirm component.
func NewResolver(deps ResolverDeps) *Resolver {
	return &Resolver{
		tracker:       deps.Tracker,
		drafts:        deps.Drafts,
		confirmations: deps.Confirmations,
		logs:          deps.Logs,
		logger:        deps.Logger,
	}
}

// Run auto-confirms every customer still unconfirmed. Each customer is
// processed independently; one failure never blocks the rest.
func (r *Resolver) Run(ctx context.Context, now time.Time) error {
	unconfirmed, err := r.tracker.UnconfirmedCustomers(ctx, now)
	if err != nil {
		return fmt.Errorf("classify customers: %w", err)
	}

	r.info("auto-confirm pass", "unconfirmed", len(unconfirmed))

	confirmed, failed := 0, 0
	for _, uc := range unconfirmed {
		if err := r.resolveCustomer(ctx, uc, now); err != nil {
			failed++
			r.error("auto-confirm failed", "customer", uc.Customer.Name, "error", err)
			continue
		}
		confirmed++
	}

	r.info("auto-confirm pass done", "confirmed", confirmed, "failed", failed)
	return nil
}

// resolveCustomer selects the first pending draft as the week's winner,
// records the confirmation, and settles the sibling statuses. Selection
// order is the drafts' creation order, so the choice is deterministic.
func (r *Resolver) resolveCustomer(ctx context.Context, uc domain.UnconfirmedCustomer, now time.Time) error {
	if len(uc.PendingDrafts) == 0 {
		return nil
	}
	winner := uc.PendingDrafts[0]

	r.info("auto-confirming", "customer", uc.Customer.Name, "draft", winner.Title)

	err := r.confirmations.InsertConfirmation(ctx, domain.Confirmation{
		ID:         uuid.NewString(),
		CustomerID: uc.Customer.ID,
		DraftID:    winner.ID,
		WeekOf:     week.DayKey(now),
		Memo:       autoConfirmMemo,
	})
	if err != nil {
		return fmt.Errorf("insert confirmation: %w", err)
	}

	if err := r.drafts.UpdateStatus(ctx, winner.ID, domain.DraftSelected); err != nil {
		return fmt.Errorf("select draft %s: %w", winner.ID, err)
	}
	for _, draft := range uc.PendingDrafts[1:] {
		if err := r.drafts.UpdateStatus(ctx, draft.ID, domain.DraftRejected); err != nil {
			return fmt.Errorf("reject draft %s: %w", draft.ID, err)
		}
	}

	if err := r.logs.Append(ctx, domain.NotificationLog{
		CustomerID: uc.Customer.ID,
		WeekOf:     week.DayKey(now),
		Type:       domain.NotificationAutoConfirm,
		Status:     domain.NotificationSent,
	}); err != nil {
		r.error("notification log failed", "customer", uc.Customer.Name, "error", err)
	}

	return nil
}

func (r *Resolver) info(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *Resolver) error(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}
