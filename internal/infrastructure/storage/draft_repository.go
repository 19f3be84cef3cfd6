package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
)

// DraftRepository persists weekly draft batches in Postgres.
type DraftRepository struct {
	db *sql.DB
}

var _ ports.DraftRepository = (*DraftRepository)(nil)

// NewDraftRepository wires a sql.DB implementation.
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// HasDraftsForWeek reports whether any draft, in any status, exists for the
// customer on or after the given week boundary. Batch existence is defined by
// the presence of any such row.
func (r *DraftRepository) HasDraftsForWeek(ctx context.Context, customerID, weekKey string) (bool, error) {
	query, args, err := builder.
		Select("1").
		From("drafts").
		Where(sq.Eq{"customer_id": customerID}).
		Where(sq.GtOrEq{"week_of": weekKey}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build draft existence query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query draft existence: %w", err)
	}
	return true, nil
}

// PendingDrafts returns the customer's pending drafts for the week, in the
// order they were created. The auto-confirm winner is always the first entry.
func (r *DraftRepository) PendingDrafts(ctx context.Context, customerID, weekKey string) ([]domain.Draft, error) {
	query, args, err := builder.
		Select("id", "customer_id", "week_of", "title", "content", "status", "created_at").
		From("drafts").
		Where(sq.Eq{"customer_id": customerID, "status": domain.DraftPending}).
		Where(sq.GtOrEq{"week_of": weekKey}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending drafts query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft
	for rows.Next() {
		var d domain.Draft
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.WeekOf, &d.Title, &d.Content, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}

	return drafts, nil
}

// InsertDraft persists one freshly generated draft.
func (r *DraftRepository) InsertDraft(ctx context.Context, draft domain.Draft) error {
	query, args, err := builder.
		Insert("drafts").
		Columns("id", "customer_id", "week_of", "title", "content", "status").
		Values(draft.ID, draft.CustomerID, draft.WeekOf, draft.Title, draft.Content, draft.Status).
		ToSql()
	if err != nil {
		return fmt.Errorf("build draft insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

// UpdateStatus moves a single draft to selected or rejected.
func (r *DraftRepository) UpdateStatus(ctx context.Context, draftID string, status domain.DraftStatus) error {
	query, args, err := builder.
		Update("drafts").
		Set("status", status).
		Where(sq.Eq{"id": draftID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build draft status update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update draft %s status: %w", draftID, err)
	}
	return nil
}

// DeleteAllPending purges every pending draft system-wide. Used only by the
// explicit regenerate-all reset.
func (r *DraftRepository) DeleteAllPending(ctx context.Context) error {
	query, args, err := builder.
		Delete("drafts").
		Where(sq.Eq{"status": domain.DraftPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build pending purge: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("purge pending drafts: %w", err)
	}
	return nil
}
