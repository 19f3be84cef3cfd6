package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"DraftFlow/internal/domain"
)

func newNotifier(customers *fakeCustomers, drafts *fakeDrafts, confirmations *fakeConfirmations, logs *fakeLogs, sender *fakeSender) *Notifier {
	return NewNotifier(NotifierDeps{
		Customers:  customers,
		Drafts:     drafts,
		Tracker:    NewTracker(customers, drafts, confirmations, nil),
		Logs:       logs,
		Sender:     sender,
		ServiceURL: "https://example.com",
	})
}

func TestSendRemindersTargetsUnconfirmedOnly(t *testing.T) {
	t.Parallel()

	customers := &fakeCustomers{active: []domain.Customer{
		activeCustomer("c1", "undecided"),
		activeCustomer("c2", "already confirmed"),
	}}
	drafts := &fakeDrafts{drafts: []domain.Draft{
		pendingDraft("d1", "c1", "2024-06-03", wednesday),
		pendingDraft("d2", "c2", "2024-06-03", wednesday),
	}}
	confirmations := &fakeConfirmations{rows: []domain.Confirmation{
		{CustomerID: "c2", WeekOf: "2024-06-04"},
	}}
	logs := &fakeLogs{}
	sender := &fakeSender{}

	n := newNotifier(customers, drafts, confirmations, logs, sender)
	require.NoError(t, n.SendReminders(context.Background(), wednesday))

	require.Len(t, sender.sent, 1)
	require.Equal(t, "010-0000-c1", sender.sent[0].Phone)
	require.Equal(t, "https://example.com/confirm/token-c1", sender.sent[0].Link)

	require.Len(t, logs.entries, 1)
	require.Equal(t, domain.NotificationReminder, logs.entries[0].Type)
	require.Equal(t, domain.NotificationSent, logs.entries[0].Status)
	require.Equal(t, "2024-06-05", logs.entries[0].WeekOf)
}

func TestSendRemindersLogsFailureAndContinues(t *testing.T) {
	t.Parallel()

	customers := &fakeCustomers{active: []domain.Customer{
		activeCustomer("c1", "unreachable"),
		activeCustomer("c2", "fine"),
	}}
	drafts := &fakeDrafts{drafts: []domain.Draft{
		pendingDraft("d1", "c1", "2024-06-03", wednesday),
		pendingDraft("d2", "c2", "2024-06-03", wednesday),
	}}
	logs := &fakeLogs{}
	sender := &fakeSender{errFor: map[string]error{"010-0000-c1": errors.New("gateway down")}}

	n := newNotifier(customers, drafts, &fakeConfirmations{}, logs, sender)
	require.NoError(t, n.SendReminders(context.Background(), wednesday))

	// One audit row per customer, first failed, second sent.
	require.Len(t, logs.entries, 2)
	require.Equal(t, domain.NotificationFailed, logs.entries[0].Status)
	require.Equal(t, domain.NotificationSent, logs.entries[1].Status)
	require.Len(t, sender.sent, 1)
	require.Equal(t, "010-0000-c2", sender.sent[0].Phone)
}

func TestSendInitialSkipsCustomersWithoutDrafts(t *testing.T) {
	t.Parallel()

	customers := &fakeCustomers{active: []domain.Customer{
		activeCustomer("c1", "has drafts"),
		activeCustomer("c2", "no drafts"),
	}}
	drafts := &fakeDrafts{drafts: []domain.Draft{
		pendingDraft("d1", "c1", "2024-06-03", wednesday),
	}}
	logs := &fakeLogs{}
	sender := &fakeSender{}

	n := newNotifier(customers, drafts, &fakeConfirmations{}, logs, sender)
	require.NoError(t, n.SendInitial(context.Background(), wednesday))

	require.Len(t, sender.sent, 1)
	require.Len(t, logs.entries, 1)
	require.Equal(t, domain.NotificationInitial, logs.entries[0].Type)
	require.Equal(t, "c1", logs.entries[0].CustomerID)
}

func TestSendInitialReachesConfirmedCustomersToo(t *testing.T) {
	t.Parallel()

	// The initial pass announces the batch; confirmation state is irrelevant.
	customers := &fakeCustomers{active: []domain.Customer{activeCustomer("c1", "confirmed early")}}
	drafts := &fakeDrafts{drafts: []domain.Draft{
		pendingDraft("d1", "c1", "2024-06-03", wednesday),
	}}
	confirmations := &fakeConfirmations{rows: []domain.Confirmation{
		{CustomerID: "c1", WeekOf: "2024-06-03"},
	}}
	sender := &fakeSender{}

	n := newNotifier(customers, drafts, confirmations, &fakeLogs{}, sender)
	require.NoError(t, n.SendInitial(context.Background(), time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)))

	require.Len(t, sender.sent, 1)
}
