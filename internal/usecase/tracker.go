package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
	"DraftFlow/internal/week"
)

// Tracker classifies active customers by their weekly confirmation state.
// It is the single gate consulted by both the reminder and auto-confirm
// paths; neither re-derives the classification on its own.
type Tracker struct {
	customers     ports.CustomerRepository
	drafts        ports.DraftRepository
	confirmations ports.ConfirmationRepository
	logger        *slog.Logger
}

// NewTracker constructs the classification component.
func NewTracker(customers ports.CustomerRepository, drafts ports.DraftRepository, confirmations ports.ConfirmationRepository, logger *slog.Logger) *Tracker {
	return &Tracker{
		customers:     customers,
		drafts:        drafts,
		confirmations: confirmations,
		logger:        logger,
	}
}

// UnconfirmedCustomers returns every active customer that has at least one
// pending draft this week and no confirmation yet. Both existence checks use
// the same week boundary so the classification cannot skew. Pending drafts
// are attached in creation order for use by callers.
func (t *Tracker) UnconfirmedCustomers(ctx context.Context, now time.Time) ([]domain.UnconfirmedCustomer, error) {
	weekKey := week.Key(now)

	customers, err := t.customers.ActiveCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active customers: %w", err)
	}

	var unconfirmed []domain.UnconfirmedCustomer
	for _, customer := range customers {
		pending, err := t.drafts.PendingDrafts(ctx, customer.ID, weekKey)
		if err != nil {
			return nil, fmt.Errorf("load pending drafts for %s: %w", customer.ID, err)
		}
		if len(pending) == 0 {
			continue
		}

		confirmed, err := t.confirmations.HasConfirmationForWeek(ctx, customer.ID, weekKey)
		if err != nil {
			return nil, fmt.Errorf("check confirmation for %s: %w", customer.ID, err)
		}
		if confirmed {
			continue
		}

		unconfirmed = append(unconfirmed, domain.UnconfirmedCustomer{
			Customer:      customer,
			PendingDrafts: pending,
		})
	}

	t.debug("classification done", "week", weekKey, "active", len(customers), "unconfirmed", len(unconfirmed))
	return unconfirmed, nil
}

func (t *Tracker) debug(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}
