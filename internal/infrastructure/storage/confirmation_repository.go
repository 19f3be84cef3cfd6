package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"DraftFlow/internal/domain"
	"DraftFlow/internal/ports"
)

// ConfirmationRepository stores weekly confirmations in Postgres.
type ConfirmationRepository struct {
	db *sql.DB
}

var _ ports.ConfirmationRepository = (*ConfirmationRepository)(nil)

// NewConfirmationRepository wires a sql.DB implementation.
func NewConfirmationRepository(db *sql.DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

// HasConfirmationForWeek reports whether the customer already confirmed a
// draft on or after the week boundary, manually or automatically.
func (r *ConfirmationRepository) HasConfirmationForWeek(ctx context.Context, customerID, weekKey string) (bool, error) {
	query, args, err := builder.
		Select("1").
		From("confirmations").
		Where(sq.Eq{"customer_id": customerID}).
		Where(sq.GtOrEq{"week_of": weekKey}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build confirmation existence query: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query confirmation existence: %w", err)
	}
	return true, nil
}

// InsertConfirmation records the chosen draft for the week.
func (r *ConfirmationRepository) InsertConfirmation(ctx context.Context, confirmation domain.Confirmation) error {
	query, args, err := builder.
		Insert("confirmations").
		Columns("id", "customer_id", "draft_id", "week_of", "memo").
		Values(confirmation.ID, confirmation.CustomerID, confirmation.DraftID, confirmation.WeekOf, confirmation.Memo).
		ToSql()
	if err != nil {
		return fmt.Errorf("build confirmation insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert confirmation: %w", err)
	}
	return nil
}

// NotificationLogRepository appends alimtalk delivery audit rows.
type NotificationLogRepository struct {
	db *sql.DB
}

var _ ports.NotificationLogRepository = (*NotificationLogRepository)(nil)

// NewNotificationLogRepository wires a sql.DB implementation.
func NewNotificationLogRepository(db *sql.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// Append writes one audit row; the lifecycle logic never reads these back.
func (r *NotificationLogRepository) Append(ctx context.Context, entry domain.NotificationLog) error {
	query, args, err := builder.
		Insert("notifications").
		Columns("customer_id", "week_of", "type", "status").
		Values(entry.CustomerID, entry.WeekOf, entry.Type, entry.Status).
		ToSql()
	if err != nil {
		return fmt.Errorf("build notification insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}

// UsedTopicRepository lists historical titles for topic exclusion.
type UsedTopicRepository struct {
	db *sql.DB
}

var _ ports.UsedTopicRepository = (*UsedTopicRepository)(nil)

// NewUsedTopicRepository wires a sql.DB implementation.
func NewUsedTopicRepository(db *sql.DB) *UsedTopicRepository {
	return &UsedTopicRepository{db: db}
}

// RecentTitles returns titles published on or after since, oldest first.
func (r *UsedTopicRepository) RecentTitles(ctx context.Context, customerID string, since time.Time) ([]string, error) {
	query, args, err := builder.
		Select("title").
		From("used_topics").
		Where(sq.Eq{"customer_id": customerID}).
		Where(sq.GtOrEq{"published_at": since.Format("2006-01-02")}).
		OrderBy("published_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build used topics query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query used topics: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan used topic: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate used topics: %w", err)
	}

	return titles, nil
}
