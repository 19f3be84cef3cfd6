package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
)

// In-memory collaborators mirroring the storage semantics the use cases rely
// on: string-sortable week_of comparisons and creation-order draft listings.

type fakeCustomers struct {
	active []domain.Customer
	err    error
}

func (f *fakeCustomers) ActiveCustomers(ctx context.Context) ([]domain.Customer, error) {
	return f.active, f.err
}

func (f *fakeCustomers) CustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	for _, c := range f.active {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Customer{}, fmt.Errorf("customer %s not found", id)
}

type fakeDrafts struct {
	drafts    []domain.Draft
	insertErr error
	updateErr map[string]error
}

func (f *fakeDrafts) HasDraftsForWeek(ctx context.Context, customerID, weekKey string) (bool, error) {
	for _, d := range f.drafts {
		if d.CustomerID == customerID && d.WeekOf >= weekKey {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDrafts) PendingDrafts(ctx context.Context, customerID, weekKey string) ([]domain.Draft, error) {
	var pending []domain.Draft
	for _, d := range f.drafts {
		if d.CustomerID == customerID && d.WeekOf >= weekKey && d.Status == domain.DraftPending {
			pending = append(pending, d)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (f *fakeDrafts) InsertDraft(ctx context.Context, draft domain.Draft) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	draft.CreatedAt = time.Now().Add(time.Duration(len(f.drafts)) * time.Millisecond)
	f.drafts = append(f.drafts, draft)
	return nil
}

func (f *fakeDrafts) UpdateStatus(ctx context.Context, draftID string, status domain.DraftStatus) error {
	if err := f.updateErr[draftID]; err != nil {
		return err
	}
	for i := range f.drafts {
		if f.drafts[i].ID == draftID {
			f.drafts[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("draft %s not found", draftID)
}

func (f *fakeDrafts) DeleteAllPending(ctx context.Context) error {
	var kept []domain.Draft
	for _, d := range f.drafts {
		if d.Status != domain.DraftPending {
			kept = append(kept, d)
		}
	}
	f.drafts = kept
	return nil
}

func (f *fakeDrafts) byID(id string) domain.Draft {
	for _, d := range f.drafts {
		if d.ID == id {
			return d
		}
	}
	return domain.Draft{}
}

type fakeConfirmations struct {
	rows      []domain.Confirmation
	insertErr map[string]error
}

func (f *fakeConfirmations) HasConfirmationForWeek(ctx context.Context, customerID, weekKey string) (bool, error) {
	for _, c := range f.rows {
		if c.CustomerID == customerID && c.WeekOf >= weekKey {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConfirmations) InsertConfirmation(ctx context.Context, confirmation domain.Confirmation) error {
	if err := f.insertErr[confirmation.CustomerID]; err != nil {
		return err
	}
	f.rows = append(f.rows, confirmation)
	return nil
}

type fakeLogs struct {
	entries []domain.NotificationLog
}

func (f *fakeLogs) Append(ctx context.Context, entry domain.NotificationLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeTopics struct {
	titles []string
}

func (f *fakeTopics) RecentTitles(ctx context.Context, customerID string, since time.Time) ([]string, error) {
	return f.titles, nil
}

type fakeGenerator struct {
	drafts []domain.GeneratedDraft
	errFor map[string]error
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, customer domain.Customer, usedTitles []string, count int) ([]domain.GeneratedDraft, error) {
	f.calls++
	if err := f.errFor[customer.ID]; err != nil {
		return nil, err
	}
	return f.drafts, nil
}

type fakeSender struct {
	sent   []ports.Message
	errFor map[string]error
}

func (f *fakeSender) Send(ctx context.Context, msg ports.Message) error {
	if err := f.errFor[msg.Phone]; err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func pendingDraft(id, customerID, weekOf string, createdAt time.Time) domain.Draft {
	return domain.Draft{
		ID:         id,
		CustomerID: customerID,
		WeekOf:     weekOf,
		Title:      "title " + id,
		Content:    "content " + id,
		Status:     domain.DraftPending,
		CreatedAt:  createdAt,
	}
}
