package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"DraftFlow/internal/domain"
)

// dayFixture builds a router over one undecided customer and exposes the
// observable side effects of each path.
type dayFixture struct {
	router        *DailyRouter
	sender        *fakeSender
	confirmations *fakeConfirmations
}

func newDayFixture() *dayFixture {
	customers := &fakeCustomers{active: []domain.Customer{activeCustomer("c1", "X")}}
	drafts := &fakeDrafts{drafts: []domain.Draft{
		pendingDraft("d1", "c1", "2024-06-03", time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)),
		pendingDraft("d2", "c1", "2024-06-03", time.Date(2024, time.June, 3, 9, 0, 1, 0, time.UTC)),
	}}
	confirmations := &fakeConfirmations{}
	tracker := NewTracker(customers, drafts, confirmations, nil)
	sender := &fakeSender{}

	notifier := NewNotifier(NotifierDeps{
		Customers:  customers,
		Drafts:     drafts,
		Tracker:    tracker,
		Logs:       &fakeLogs{},
		Sender:     sender,
		ServiceURL: "https://example.com",
	})
	resolver := NewResolver(ResolverDeps{
		Tracker:       tracker,
		Drafts:        drafts,
		Confirmations: confirmations,
		Logs:          &fakeLogs{},
	})

	return &dayFixture{
		router:        NewDailyRouter(notifier, resolver, nil),
		sender:        sender,
		confirmations: confirmations,
	}
}

func TestDailyRouterDayMapping(t *testing.T) {
	t.Parallel()

	weekStart := time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed       int
		wantReminders int
		wantConfirms  int
	}{
		{elapsed: 0, wantReminders: 0, wantConfirms: 0},
		{elapsed: 1, wantReminders: 0, wantConfirms: 0},
		{elapsed: 2, wantReminders: 1, wantConfirms: 0},
		{elapsed: 3, wantReminders: 0, wantConfirms: 1},
		{elapsed: 4, wantReminders: 0, wantConfirms: 1},
		{elapsed: 5, wantReminders: 0, wantConfirms: 1},
		{elapsed: 6, wantReminders: 0, wantConfirms: 1},
	}

	for _, tc := range cases {
		f := newDayFixture()
		now := weekStart.AddDate(0, 0, tc.elapsed)

		require.NoError(t, f.router.Run(context.Background(), now), "elapsed=%d", tc.elapsed)
		require.Len(t, f.sender.sent, tc.wantReminders, "reminders on elapsed=%d", tc.elapsed)
		require.Len(t, f.confirmations.rows, tc.wantConfirms, "confirmations on elapsed=%d", tc.elapsed)
	}
}
