// Package stats aggregates donation figures from a product's applications.
//
// Every function is pure: callers fetch the applications once and pass them in.
package stats

import (
	"time"

	"github.com/inovacc/pollo/internal/model"
)

// LastDonationLayout is the layout returned by LastDonationDate.
const LastDonationLayout = "2006-01-02 15:04"

const (
	WeekDays  = 7
	MonthDays = 30
)

// CountByStatus counts applications in the given status, all time.
func CountByStatus(apps []model.Application, status model.ApplicationStatus) int {
	n := 0

	for i := range apps {
		if apps[i].Status == status {
			n++
		}
	}

	return n
}

// CountByStatusSince counts applications in the given status whose last
// modification falls within the last sinceDays days. A sinceDays of zero or
// less means all time and is answered by CountByStatus.
func CountByStatusSince(apps []model.Application, status model.ApplicationStatus, sinceDays int) int {
	return CountByStatusSinceAt(apps, status, sinceDays, time.Now())
}

// CountByStatusSinceAt is CountByStatusSince evaluated at now.
func CountByStatusSinceAt(apps []model.Application, status model.ApplicationStatus, sinceDays int, now time.Time) int {
	if sinceDays <= 0 {
		return CountByStatus(apps, status)
	}

	cutoff := now.Add(-time.Duration(sinceDays) * 24 * time.Hour)
	n := 0

	for i := range apps {
		if apps[i].Status != status {
			continue
		}

		if !apps[i].LastModified.Before(cutoff) {
			n++
		}
	}

	return n
}

// LastDonationDate returns the most recent donation among Pending and
// Completed applications, formatted with LastDonationLayout. It reports false
// when there is none or the latest timestamp was never set.
func LastDonationDate(apps []model.Application) (string, bool) {
	var latest time.Time

	found := false

	for i := range apps {
		if !apps[i].Status.HoldsDonation() {
			continue
		}

		if !found || apps[i].DateOfDonation.After(latest) {
			latest = apps[i].DateOfDonation
			found = true
		}
	}

	if !found || latest.IsZero() {
		return "", false
	}

	return latest.Format(LastDonationLayout), true
}

// Summary is the per-product donation overview shown with product views.
type Summary struct {
	CompletedLastWeek  int    `json:"completed_last_week"`
	CompletedLastMonth int    `json:"completed_last_month"`
	CompletedAllTime   int    `json:"completed_all_time"`
	PendingLastWeek    int    `json:"pending_last_week"`
	PendingLastMonth   int    `json:"pending_last_month"`
	PendingAllTime     int    `json:"pending_all_time"`
	Open               int    `json:"open"`
	Closed             int    `json:"closed"`
	LastDonation       string `json:"last_donation,omitempty"`
}

// Summarize computes a Summary at now.
func Summarize(apps []model.Application, now time.Time) Summary {
	s := Summary{
		CompletedLastWeek:  CountByStatusSinceAt(apps, model.StatusCompleted, WeekDays, now),
		CompletedLastMonth: CountByStatusSinceAt(apps, model.StatusCompleted, MonthDays, now),
		CompletedAllTime:   CountByStatus(apps, model.StatusCompleted),
		PendingLastWeek:    CountByStatusSinceAt(apps, model.StatusPending, WeekDays, now),
		PendingLastMonth:   CountByStatusSinceAt(apps, model.StatusPending, MonthDays, now),
		PendingAllTime:     CountByStatus(apps, model.StatusPending),
		Open:               CountByStatus(apps, model.StatusOpen),
		Closed:             CountByStatus(apps, model.StatusUnavailable),
	}

	if last, ok := LastDonationDate(apps); ok {
		s.LastDonation = last
	}

	return s
}
