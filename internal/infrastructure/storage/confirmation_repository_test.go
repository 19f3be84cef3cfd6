package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"DraftFlow/internal/domain"
)

func TestHasConfirmationForWeekUsesWeekBoundary(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT 1 FROM confirmations WHERE customer_id = \$1 AND week_of >= \$2`).
		WithArgs("c1", "2024-06-03").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	repo := NewConfirmationRepository(db)
	confirmed, err := repo.HasConfirmationForWeek(context.Background(), "c1", "2024-06-03")
	if err != nil {
		t.Fatalf("HasConfirmationForWeek: %v", err)
	}
	if !confirmed {
		t.Fatal("expected confirmation to be found")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertConfirmation(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO confirmations").
		WithArgs("conf-1", "c1", "d1", "2024-06-06", "auto-confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewConfirmationRepository(db)
	err = repo.InsertConfirmation(context.Background(), domain.Confirmation{
		ID:         "conf-1",
		CustomerID: "c1",
		DraftID:    "d1",
		WeekOf:     "2024-06-06",
		Memo:       "auto-confirmed",
	})
	if err != nil {
		t.Fatalf("InsertConfirmation: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAppendNotificationLog(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs("c1", "2024-06-05", "reminder", "sent").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewNotificationLogRepository(db)
	err = repo.Append(context.Background(), domain.NotificationLog{
		CustomerID: "c1",
		WeekOf:     "2024-06-05",
		Type:       domain.NotificationReminder,
		Status:     domain.NotificationSent,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecentTitles(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"title"}).
		AddRow("old topic").
		AddRow("newer topic")

	mock.ExpectQuery("SELECT title FROM used_topics").
		WithArgs("c1", "2023-12-05").
		WillReturnRows(rows)

	repo := NewUsedTopicRepository(db)
	titles, err := repo.RecentTitles(context.Background(), "c1", mustDate(t, "2023-12-05"))
	if err != nil {
		t.Fatalf("RecentTitles: %v", err)
	}

	if len(titles) != 2 || titles[1] != "newer topic" {
		t.Fatalf("unexpected titles: %v", titles)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
