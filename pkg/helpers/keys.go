package helpers

// Redis key helpers

// KeySuggestions is the cache key for generated suggestions of one kind for a friend.
func KeySuggestions(friendID, kind string) string {
	return "suggestions:" + friendID + ":" + kind
}

// KeyReminderSent marks that a reminder job was queued for one occurrence of
// a friend's birthday.
func KeyReminderSent(friendID, nextBirthday string) string {
	return "reminder:sent:" + friendID + ":" + nextBirthday
}

// KeyRateLimit is the fixed-window counter key for a caller.
func KeyRateLimit(subject string) string {
	return "ratelimit:" + subject
}
