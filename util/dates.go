package util

import (
	"errors"
	"time"
)

const Layout = "2006-01-02"

// Trading days and calendar days per year used to annualise.
const (
	TradingDays  = 252
	CalendarDays = 365
)

// NYSE full-day closures.
var NYSE = []string{
	"2024-01-01", "2024-01-15", "2024-02-19", "2024-03-29", "2024-05-27", "2024-06-19", "2024-07-04", "2024-09-02", "2024-11-28", "2024-12-25",
	"2025-01-01", "2025-01-20", "2025-02-17", "2025-04-18", "2025-05-26", "2025-06-19", "2025-07-04", "2025-09-01", "2025-11-27", "2025-12-25",
	"2026-01-01", "2026-01-19", "2026-02-16", "2026-04-03", "2026-05-25", "2026-06-19", "2026-07-03", "2026-09-07", "2026-11-26", "2026-12-25",
	"2027-01-01", "2027-01-18", "2027-02-15", "2027-03-26", "2027-05-31", "2027-06-18", "2027-07-05", "2027-09-06", "2027-11-25", "2027-12-24",
}

var ErrDateOrder = errors.New("end date must be later than start date")

// Hols parses holiday dates in Layout format.
func Hols(s []string) ([]time.Time, error) {
	h := make([]time.Time, len(s))
	for i, v := range s {
		d, err := time.Parse(Layout, v)
		if err != nil {
			return nil, err
		}
		h[i] = d
	}
	return h, nil
}

func IsHol(d time.Time, hols []time.Time) bool {
	for _, v := range hols {
		if d.Equal(v) {
			return true
		}
	}
	return false
}

func IsWeekday(d time.Time) bool {
	return d.Weekday() > time.Sunday && d.Weekday() < time.Saturday
}

// AdjustFollowing rolls d forward to the next business day.
func AdjustFollowing(d time.Time, hols []time.Time) time.Time {
	for IsHol(d, hols) || !IsWeekday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// ListBusinessDates returns the business days after start up to and
// including end.
func ListBusinessDates(start, end time.Time, hols []time.Time) ([]time.Time, error) {
	if end.Before(start) {
		return nil, ErrDateOrder
	}
	var out []time.Time
	for {
		start = AdjustFollowing(start.AddDate(0, 0, 1), hols)
		if start.After(end) {
			return out, nil
		}
		out = append(out, start)
	}
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// YearFraction is the ACT/365 time between two dates, in years. It is
// negative when expiry precedes asof.
func YearFraction(asof, expiry time.Time) float64 {
	days := truncate(expiry).Sub(truncate(asof)).Hours() / 24
	return days / CalendarDays
}

// BusinessYearFraction counts NYSE business days to expiry over 252.
func BusinessYearFraction(asof, expiry time.Time) (float64, error) {
	hols, err := Hols(NYSE)
	if err != nil {
		return 0, err
	}
	days, err := ListBusinessDates(truncate(asof), truncate(expiry), hols)
	if err != nil {
		return 0, err
	}
	return float64(len(days)) / TradingDays, nil
}

// DaysToYears converts calendar days to years.
func DaysToYears(days float64) float64 {
	return days / CalendarDays
}
