package ports

import (
	"context"
	"time"

	"DraftFlow/internal/domain"
)

// DraftGenerator produces candidate drafts for a customer, avoiding the
// topics listed in usedTitles. Returning zero drafts is a soft failure.
type DraftGenerator interface {
	Generate(ctx context.Context, customer domain.Customer, usedTitles []string, count int) ([]domain.GeneratedDraft, error)
}

// CustomerRepository reads the customer roster maintained by the admin flow.
type CustomerRepository interface {
	ActiveCustomers(ctx context.Context) ([]domain.Customer, error)
	CustomerByID(ctx context.Context, id string) (domain.Customer, error)
}

// DraftRepository persists weekly draft batches and their status transitions.
type DraftRepository interface {
	HasDraftsForWeek(ctx context.Context, customerID, weekKey string) (bool, error)
	PendingDrafts(ctx context.Context, customerID, weekKey string) ([]domain.Draft, error)
	InsertDraft(ctx context.Context, draft domain.Draft) error
	UpdateStatus(ctx context.Context, draftID string, status domain.DraftStatus) error
	DeleteAllPending(ctx context.Context) error
}

// ConfirmationRepository stores the single weekly confirmation per customer.
type ConfirmationRepository interface {
	HasConfirmationForWeek(ctx context.Context, customerID, weekKey string) (bool, error)
	InsertConfirmation(ctx context.Context, confirmation domain.Confirmation) error
}

// NotificationLogRepository appends delivery audit rows.
type NotificationLogRepository interface {
	Append(ctx context.Context, entry domain.NotificationLog) error
}

// UsedTopicRepository lists previously published titles for topic exclusion.
type UsedTopicRepository interface {
	RecentTitles(ctx context.Context, customerID string, since time.Time) ([]string, error)
}

// Message is a rendered alimtalk ready for dispatch.
type Message struct {
	Phone        string
	CustomerName string
	Body         string
	LinkName     string
	Link         string
}

// MessageSender delivers one message to one recipient.
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}

// Scheduler drives recurring daemon-mode runs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
