package mailer

// ReminderJob is the JSON payload put on the RabbitMQ queue for one upcoming
// birthday. The worker renders Template with the job itself as data.
type ReminderJob struct {
	To           string  `json:"to"`
	Template     string  `json:"template"`
	UserID       string  `json:"user_id"`
	FriendID     string  `json:"friend_id"`
	FriendName   string  `json:"friend_name"`
	TurningAge   int     `json:"turning_age"`
	NextBirthday string  `json:"next_birthday"` // YYYY-MM-DD
	DaysUntil    int     `json:"days_until"`
	Notes        *string `json:"notes,omitempty"`
}
