package utils

import (
	"time"
)

// ET is the US Eastern time zone used by NYSE/NASDAQ sessions.
var ET *time.Location

func init() {
	var err error
	ET, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: fixed zone if the tz database is not available.
		ET = time.FixedZone("ET", -5*60*60)
	}
}

// NowET returns the current time in US Eastern time.
func NowET() time.Time {
	return time.Now().In(ET)
}

// MarketOpenTime returns the regular-session open (9:30 AM ET) for a given date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(ET)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 30, 0, 0, ET)
}

// MarketCloseTime returns the regular-session close (4:00 PM ET) for a given date.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(ET)
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 0, 0, 0, ET)
}

// IsMarketOpenAt checks whether the regular session would be open at t.
// Weekends are closed; exchange holidays are not modeled.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(ET)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	open := MarketOpenTime(t)
	close := MarketCloseTime(t)
	return !t.Before(open) && !t.After(close)
}

// MarketStatus returns a human-readable session status string.
func MarketStatus() string {
	if IsMarketOpenAt(NowET()) {
		return "OPEN"
	}
	return "CLOSED"
}

// PrevWeekday returns the most recent weekday strictly before the given date.
func PrevWeekday(from time.Time) time.Time {
	prev := from.AddDate(0, 0, -1)
	for prev.Weekday() == time.Saturday || prev.Weekday() == time.Sunday {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// CalendarQuarter returns the calendar quarter (1-4) for a month.
func CalendarQuarter(m time.Month) int {
	return (int(m)-1)/3 + 1
}
