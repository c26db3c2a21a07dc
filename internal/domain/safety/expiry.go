package safety

import "time"

// DefaultLookaheadDays is the width of the expiring-soon window.
const DefaultLookaheadDays = 30

// RecordKind names one of the three record types that carry an expiry date.
type RecordKind string

const (
	KindTraining RecordKind = "training"
	KindExam     RecordKind = "exam"
	KindLicense  RecordKind = "license"
)

// RecordKinds is the fixed order used by the dashboard.
func RecordKinds() []RecordKind {
	return []RecordKind{KindTraining, KindExam, KindLicense}
}

type Status string

const (
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusValid        Status = "valid"
	StatusNone         Status = "none"
)

// Window is a date range over expiry dates. A zero From is unbounded below.
// To is inclusive unless ToExclusive is set.
type Window struct {
	From        time.Time
	To          time.Time
	ToExclusive bool
}

// ExpiredWindow matches every date strictly before today.
func ExpiredWindow(today time.Time) Window {
	return Window{To: DateOf(today), ToExclusive: true}
}

// ExpiringSoonWindow matches [today, today+days] inclusive.
func ExpiringSoonWindow(today time.Time, days int) Window {
	start := DateOf(today)
	return Window{From: start, To: start.AddDate(0, 0, days)}
}

func (w Window) Contains(d time.Time) bool {
	day := DateOf(d)
	if !w.From.IsZero() && day.Before(w.From) {
		return false
	}
	if w.ToExclusive {
		return day.Before(w.To)
	}
	return !day.After(w.To)
}

// Classify places an expiry date in exactly one bucket relative to today.
func Classify(expiry *time.Time, today time.Time, lookaheadDays int) Status {
	if expiry == nil {
		return StatusNone
	}
	if ExpiredWindow(today).Contains(*expiry) {
		return StatusExpired
	}
	if ExpiringSoonWindow(today, lookaheadDays).Contains(*expiry) {
		return StatusExpiringSoon
	}
	return StatusValid
}

// DaysUntil is negative for dates in the past.
func DaysUntil(d time.Time, today time.Time) int {
	return int(DateOf(d).Sub(DateOf(today)).Hours() / 24)
}
