package addressbook

import (
	"time"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// DefaultWindowDays is the look-ahead used by "birthdays" without an argument.
const DefaultWindowDays = 7

// UpcomingBirthday is one entry of the upcoming birthdays listing.
type UpcomingBirthday struct {
	Name model.Name `json:"name"`

	// Date is the congratulation date: the birthday in the current or next
	// year, moved to Monday when it falls on a weekend.
	Date time.Time `json:"-"`
}

// DateString formats Date as DD.MM.YYYY.
func (u UpcomingBirthday) DateString() string {
	return u.Date.Format(model.BirthdayLayout)
}

// UpcomingBirthdays lists contacts whose congratulation date lies between
// today and today+days inclusive. Only the calendar date of today is used.
//
// A birthday that already passed this year is considered for next year.
// Weekend dates move forward to Monday, which can push them past the
// window; those are left out. The result follows book order.
func (b *Book) UpcomingBirthdays(today time.Time, days int) []UpcomingBirthday {
	today = truncateDay(today)
	var out []UpcomingBirthday

	for _, r := range b.Records() {
		if r.Birthday.IsZero() {
			continue
		}
		// Step 1: the birthday in the current year, or next year if it
		// has already passed.
		date := anniversary(r.Birthday, today.Year())
		if date.Before(today) {
			date = anniversary(r.Birthday, today.Year()+1)
		}
		// Step 2: congratulations are not sent on weekends.
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			date = NextWeekday(date, time.Monday)
		}

		// Step 3: keep it when it falls inside the window, both ends
		// included.
		diff := daysBetween(today, date)
		if diff >= 0 && diff <= days {
			out = append(out, UpcomingBirthday{Name: r.Name, Date: date})
		}
	}
	return out
}

// NextWeekday returns the first date strictly after d that falls on
// weekday. If d is already that weekday the result is one week later.
func NextWeekday(d time.Time, weekday time.Weekday) time.Time {
	ahead := int(weekday) - int(d.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return d.AddDate(0, 0, ahead)
}

// anniversary places the birthday's month and day in year. time.Date
// normalizes 29 February to 1 March in non-leap years.
func anniversary(b model.Birthday, year int) time.Time {
	d := b.Date()
	return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// truncateDay drops the time of day and the location, keeping the
// calendar date as seen in t's own location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b; both are UTC midnights so
// there is no DST drift.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
