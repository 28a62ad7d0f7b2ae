// Package report selects reporting periods and renders the notification
// messages sent to the athlete.
package report

import (
	"strings"
	"time"
)

const (
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Bounds returns the index range covering every record in the window. The
// lower bound is the bare start date, which sorts before both day ids and
// timestamps of that day.
func (w Window) Bounds() (string, string) {
	return w.Start.Format("2006-01-02"), w.End.Format("2006-01-02") + "T23:59:59"
}

// Period is the window to report on plus an optional comparison window.
type Period struct {
	Kind     string
	Current  Window
	Previous *Window
}

// Title is the capitalized period name used in headings.
func (p Period) Title() string {
	if p.Kind == "" {
		return ""
	}
	return strings.ToUpper(p.Kind[:1]) + p.Kind[1:]
}

// SelectPeriod picks what to report on for a run at now: the previous month
// on the 1st, the previous Monday-to-Sunday week (compared with the week
// before it) on Mondays, and nothing on other days.
func SelectPeriod(now time.Time) (Period, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if today.Day() == 1 {
		lastDay := today.AddDate(0, 0, -1)
		return Period{
			Kind:    PeriodMonthly,
			Current: Window{Start: lastDay.AddDate(0, 0, 1-lastDay.Day()), End: lastDay},
		}, true
	}

	if today.Weekday() == time.Monday {
		start := today.AddDate(0, 0, -7)
		prev := Window{Start: start.AddDate(0, 0, -7), End: start.AddDate(0, 0, -1)}
		return Period{
			Kind:     PeriodWeekly,
			Current:  Window{Start: start, End: start.AddDate(0, 0, 6)},
			Previous: &prev,
		}, true
	}

	return Period{}, false
}
