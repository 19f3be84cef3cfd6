package domain

import "time"

// Customer is a managed blog account with its content-generation profile.
// Customers are created and deactivated by an external admin flow; this
// service only reads them.
type Customer struct {
	ID                   string
	Name                 string
	Phone                string
	BusinessType         string
	Keywords             []string
	Tone                 string
	ConfirmToken         string
	IsActive             bool
	Specialty            string
	TargetAudience       string
	BrandConcept         string
	MainServices         []string
	PriceRange           string
	LocationInfo         string
	PreferredExpressions []string
	AvoidedExpressions   []string
	CreatedAt            time.Time
}

// DraftStatus enumerates the lifecycle of a single draft within its weekly batch.
type DraftStatus string

const (
	DraftPending  DraftStatus = "pending"
	DraftSelected DraftStatus = "selected"
	DraftRejected DraftStatus = "rejected"
)

// Draft is one candidate blog post generated for a customer in one week.
// All drafts sharing a customer and week_of form that week's batch; at most
// one draft per batch may end up selected.
type Draft struct {
	ID         string
	CustomerID string
	WeekOf     string
	Title      string
	Content    string
	Status     DraftStatus
	CreatedAt  time.Time
}

// Confirmation records which draft was chosen for a customer's week, either
// by the customer or by the auto-confirm fallback. One row per (customer, week).
type Confirmation struct {
	ID          string
	CustomerID  string
	DraftID     string
	WeekOf      string
	Memo        string
	ConfirmedAt time.Time
}

// NotificationType labels the reason an alimtalk was dispatched.
type NotificationType string

const (
	NotificationInitial     NotificationType = "initial"
	NotificationReminder    NotificationType = "reminder"
	NotificationAutoConfirm NotificationType = "auto_confirm"
)

// NotificationStatus is the delivery outcome recorded for audit.
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// NotificationLog is an append-only audit row; the lifecycle logic never reads it back.
type NotificationLog struct {
	CustomerID string
	WeekOf     string
	Type       NotificationType
	Status     NotificationStatus
}

// GeneratedDraft is the raw output of the generation collaborator before persistence.
type GeneratedDraft struct {
	Title       string
	Content     string
	MainKeyword string
}

// UnconfirmedCustomer pairs a customer with their pending drafts for the
// current week, in creation order. Produced by the confirmation tracker and
// consumed by both the reminder and auto-confirm paths.
type UnconfirmedCustomer struct {
	Customer      Customer
	PendingDrafts []Draft
}
