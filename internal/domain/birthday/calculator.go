// Package birthday holds the calendar arithmetic behind every friend read:
// age, next occurrence, countdown and the reminder flag.
//
// All functions take the reference date ("today") as a parameter. Dates are
// compared as calendar days in UTC; callers convert the wall clock of their
// chosen location with Today before calling in.
package birthday

import (
	"time"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

// DefaultReminderThreshold is the number of days before a birthday during
// which a reminder is due.
const DefaultReminderThreshold = 2

// DateLayout is the ISO calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Facts are the derived values for one date of birth on one reference date.
type Facts struct {
	Age           int
	NextBirthday  time.Time
	DaysUntil     int
	IsReminderDue bool
}

// Calculator computes Facts. The zero value uses DefaultReminderThreshold.
type Calculator struct {
	reminderThreshold int
	configured        bool
}

// NewCalculator returns a Calculator with the given reminder threshold.
// Negative thresholds fall back to DefaultReminderThreshold.
func NewCalculator(reminderThreshold int) Calculator {
	if reminderThreshold < 0 {
		reminderThreshold = DefaultReminderThreshold
	}
	return Calculator{reminderThreshold: reminderThreshold, configured: true}
}

// ReminderThreshold returns the active threshold in days.
func (c Calculator) ReminderThreshold() int {
	if !c.configured {
		return DefaultReminderThreshold
	}
	return c.reminderThreshold
}

// Date truncates t to its calendar date, expressed at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Date(t), nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsLeapYear reports whether year has a 29 February.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Age returns completed years on today, counting a birthday as reached on
// its calendar anniversary.
func Age(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// Anniversary returns the birthday celebrated in year. A 29 February birth is
// celebrated on 28 February when year is not a leap year.
func Anniversary(dob time.Time, year int) time.Time {
	month, day := dob.Month(), dob.Day()
	if month == time.February && day == 29 && !IsLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextBirthday returns the first anniversary on or after today.
func NextBirthday(dob, today time.Time) time.Time {
	today = Date(today)
	next := Anniversary(dob, today.Year())
	if next.Before(today) {
		next = Anniversary(dob, today.Year()+1)
	}
	return next
}

// DaysUntil returns the number of calendar days from today to next.
func DaysUntil(next, today time.Time) int {
	return int(Date(next).Sub(Date(today)).Hours() / 24)
}

// IsReminderDue reports whether days falls inside [0, threshold].
func (c Calculator) IsReminderDue(days int) bool {
	return days >= 0 && days <= c.ReminderThreshold()
}

// Compute derives all facts for dob on today.
func (c Calculator) Compute(dob, today time.Time) Facts {
	dob, today = Date(dob), Date(today)
	next := NextBirthday(dob, today)
	days := DaysUntil(next, today)
	return Facts{
		Age:           Age(dob, today),
		NextBirthday:  next,
		DaysUntil:     days,
		IsReminderDue: c.IsReminderDue(days),
	}
}

// FactsFor is Compute for an ISO date string. Callers are expected to have
// validated dob already; a parse failure is returned as-is.
func (c Calculator) FactsFor(dob string, today time.Time) (Facts, error) {
	d, err := ParseDate(dob)
	if err != nil {
		return Facts{}, err
	}
	return c.Compute(d, today), nil
}

// Enrich merges f with its facts on today. f is taken by value and is not
// modified.
func (c Calculator) Enrich(f entity.Friend, today time.Time) entity.FriendWithFacts {
	facts := c.Compute(f.DateOfBirth, today)
	return entity.FriendWithFacts{
		ID:                f.ID,
		UserID:            f.UserID,
		Name:              f.Name,
		DateOfBirth:       FormatDate(f.DateOfBirth),
		Notes:             f.Notes,
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
		Age:               facts.Age,
		NextBirthday:      FormatDate(facts.NextBirthday),
		DaysUntilBirthday: facts.DaysUntil,
		IsReminderDue:     facts.IsReminderDue,
	}
}
