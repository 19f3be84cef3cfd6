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

// NotifierDeps wires all collaborators into the notifier.
type NotifierDeps struct {
	Customers  ports.CustomerRepository
	Drafts     ports.DraftRepository
	Tracker    *Tracker
	Logs       ports.NotificationLogRepository
	Sender     ports.MessageSender
	ServiceURL string
	Logger     *slog.Logger
}

// Notifier delivers the weekly "drafts ready" message and the mid-week
// reminder. It does not enforce per-day idempotency itself; the daily router
// invokes each path at most once per day.
type Notifier struct {
	customers  ports.CustomerRepository
	drafts     ports.DraftRepository
	tracker    *Tracker
	logs       ports.NotificationLogRepository
	sender     ports.MessageSender
	serviceURL string
	logger     *slog.Logger
}

// NewNotifier constructs the notification component.
func NewNotifier(deps NotifierDeps) *Notifier {
	return &Notifier{
		customers:  deps.Customers,
		drafts:     deps.Drafts,
		tracker:    deps.Tracker,
		logs:       deps.Logs,
		sender:     deps.Sender,
		serviceURL: deps.ServiceURL,
		logger:     deps.Logger,
	}
}

// SendInitial notifies every active customer that has pending drafts this
// week, regardless of confirmation state. Used by the Monday send pass.
func (n *Notifier) SendInitial(ctx context.Context, now time.Time) error {
	weekKey := week.Key(now)

	customers, err := n.customers.ActiveCustomers(ctx)
	if err != nil {
		return fmt.Errorf("load active customers: %w", err)
	}

	sent, failed, skipped := 0, 0, 0
	for _, customer := range customers {
		pending, err := n.drafts.PendingDrafts(ctx, customer.ID, weekKey)
		if err != nil {
			failed++
			n.error("load pending drafts failed", "customer", customer.Name, "error", err)
			continue
		}
		if len(pending) == 0 {
			skipped++
			continue
		}

		if n.dispatch(ctx, customer, now, domain.NotificationInitial, initialBody(customer.Name, n.confirmLink(customer))) {
			sent++
		} else {
			failed++
		}
	}

	n.info("initial pass done", "sent", sent, "failed", failed, "skipped", skipped)
	return nil
}

// SendReminders nudges every customer the tracker still classifies as
// unconfirmed. Used on day 2 of the week.
func (n *Notifier) SendReminders(ctx context.Context, now time.Time) error {
	unconfirmed, err := n.tracker.UnconfirmedCustomers(ctx, now)
	if err != nil {
		return fmt.Errorf("classify customers: %w", err)
	}

	n.info("reminder pass", "unconfirmed", len(unconfirmed))

	sent, failed := 0, 0
	for _, uc := range unconfirmed {
		if n.dispatch(ctx, uc.Customer, now, domain.NotificationReminder, reminderBody(uc.Customer.Name, n.confirmLink(uc.Customer))) {
			sent++
		} else {
			failed++
		}
	}

	n.info("reminder pass done", "sent", sent, "failed", failed)
	return nil
}

// dispatch sends one message and appends exactly one audit row with the
// delivery outcome. Delivery and logging failures are isolated per customer.
func (n *Notifier) dispatch(ctx context.Context, customer domain.Customer, now time.Time, kind domain.NotificationType, body string) bool {
	err := n.sender.Send(ctx, ports.Message{
		Phone:        customer.Phone,
		CustomerName: customer.Name,
		Body:         body,
		LinkName:     "Review drafts",
		Link:         n.confirmLink(customer),
	})
	status := domain.NotificationSent
	if err != nil {
		status = domain.NotificationFailed
		n.error("delivery failed", "customer", customer.Name, "type", kind, "error", err)
	}

	if logErr := n.logs.Append(ctx, domain.NotificationLog{
		CustomerID: customer.ID,
		WeekOf:     week.DayKey(now),
		Type:       kind,
		Status:     status,
	}); logErr != nil {
		n.error("notification log failed", "customer", customer.Name, "error", logErr)
	}

	return err == nil
}

func (n *Notifier) confirmLink(customer domain.Customer) string {
	return fmt.Sprintf("%s/confirm/%s", n.serviceURL, customer.ConfirmToken)
}

func initialBody(name, link string) string {
	return fmt.Sprintf("Hello %s!\nThis week's blog drafts are ready.\n\nReview them and pick one at the link below.\n%s\n\nIf no draft is chosen within 3 days, the first one is published automatically.", name, link)
}

func reminderBody(name, link string) string {
	return fmt.Sprintf("Hello %s!\nThis week's blog drafts are still waiting for your pick.\n\nChoose one at the link below.\n%s\n\nIf no draft is chosen by tomorrow, the first one is published automatically.", name, link)
}

func (n *Notifier) info(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Info(msg, args...)
	}
}

func (n *Notifier) error(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Error(msg, args...)
	}
}
