// Package week maps wall-clock time onto the weekly confirmation cycle.
// Every component that needs a week boundary must take it from here so the
// draft, confirmation, and notification queries all agree on the same Monday.
package week

import "time"

const keyLayout = "2006-01-02"

// StartOf returns midnight of the Monday on or before now, in now's location.
func StartOf(now time.Time) time.Time {
	days := int(now.Weekday()) - int(time.Monday)
	if days < 0 {
		days += 7
	}
	monday := now.AddDate(0, 0, -days)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
}

// Key formats the week start as the string-sortable ISO date used for
// week_of comparisons in storage.
func Key(now time.Time) string {
	return StartOf(now).Format(keyLayout)
}

// DayKey formats now itself as an ISO date, used when stamping new rows.
func DayKey(now time.Time) string {
	return now.Format(keyLayout)
}

// ElapsedDays returns how many whole days have passed since the week start:
// 0 for Monday through 6 for Sunday.
func ElapsedDays(now time.Time) int {
	days := int(now.Weekday()) - int(time.Monday)
	if days < 0 {
		days += 7
	}
	return days
}
