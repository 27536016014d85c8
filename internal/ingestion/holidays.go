package ingestion

import (
	"time"
	_ "time/tzdata" // the exchange calendar must not depend on the host zoneinfo
)

// nyseCloseHour is the regular session close, New York time.
const nyseCloseHour = 16

var newYork = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}()

// LastNBusinessDays returns the last n NYSE trading days up to from (most recent first).
// It excludes Saturdays, Sundays, and the exchange's full-day holidays.
func LastNBusinessDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from)

	for len(out) < n {
		if IsTradingDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// LastBusinessDay returns the most recent trading day on or before from.
func LastBusinessDay(from time.Time) time.Time {
	return LastNBusinessDays(1, from)[0]
}

// LastClosedSession returns the most recent trading day whose regular session
// had closed at now. A trading day counts only from 16:00 New York time.
func LastClosedSession(now time.Time) time.Time {
	local := now.In(newYork)
	day := truncateToDate(local)
	if IsTradingDay(day) && local.Hour() < nyseCloseHour {
		day = day.AddDate(0, 0, -1)
	}
	return LastBusinessDay(day)
}

// TradingDaysBetween counts the trading days after from, up to and including to.
func TradingDaysBetween(from, to time.Time) int {
	n := 0
	start := truncateToDate(from)
	for d := truncateToDate(to); d.After(start); d = d.AddDate(0, 0, -1) {
		if IsTradingDay(d) {
			n++
		}
	}
	return n
}

// truncateToDate keeps the calendar date of t, as a UTC midnight.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsTradingDay reports whether the NYSE is open on the calendar date of d.
func IsTradingDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := nyseHolidays(d.Year())[truncateToDate(d)]
	return !holiday
}

func nyseHolidays(year int) map[time.Time]struct{} {
	days := []time.Time{
		nthWeekday(year, time.January, time.Monday, 3),    // Martin Luther King Jr. Day
		nthWeekday(year, time.February, time.Monday, 3),   // Washington's Birthday
		easterSunday(year).AddDate(0, 0, -2),              // Good Friday
		lastWeekday(year, time.May, time.Monday),          // Memorial Day
		observed(date(year, time.July, 4)),                // Independence Day
		nthWeekday(year, time.September, time.Monday, 1),  // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
		observed(date(year, time.December, 25)),           // Christmas
	}
	// New Year's Day falling on a Saturday is not moved to the previous Friday.
	if ny := date(year, time.January, 1); ny.Weekday() != time.Saturday {
		days = append(days, observed(ny))
	}
	if year >= 2022 {
		days = append(days, observed(date(year, time.June, 19))) // Juneteenth
	}

	out := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		out[d] = struct{}{}
	}
	return out
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// observed moves a Saturday holiday to Friday and a Sunday holiday to Monday.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	d := date(year, month, 1)
	offset := (int(wd) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+7*(n-1))
}

func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	d := date(year, month+1, 1).AddDate(0, 0, -1)
	offset := (int(d.Weekday()) - int(wd) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return date(year, time.Month(month), day)
}
