package entity

import "time"

// ReminderRecipient is where an account's birthday reminder emails go.
type ReminderRecipient struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
