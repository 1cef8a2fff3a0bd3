package entity

import (
	"time"
)

// Friend is the aggregate root for the friends domain.
// UserID is the owning account; every read and write is scoped by it.
// DateOfBirth carries a calendar date at midnight UTC.
type Friend struct {
	ID          string
	UserID      string
	Name        string
	DateOfBirth time.Time
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FriendPatch lists the fields an update may change. Nil means "leave as is".
// A non-nil empty Notes clears the stored notes.
type FriendPatch struct {
	Name        *string
	DateOfBirth *time.Time
	Notes       *string
}

// Empty reports whether the patch changes nothing but the timestamp.
func (p FriendPatch) Empty() bool {
	return p.Name == nil && p.DateOfBirth == nil && p.Notes == nil
}

// FriendWithFacts is a Friend merged with its derived birthday facts.
// It is the shape returned by the API and is never persisted.
type FriendWithFacts struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	DateOfBirth       string    `json:"date_of_birth"`
	Notes             *string   `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Age               int       `json:"age"`
	NextBirthday      string    `json:"next_birthday"`
	DaysUntilBirthday int       `json:"days_until_birthday"`
	IsReminderDue     bool      `json:"is_reminder_due"`
}
