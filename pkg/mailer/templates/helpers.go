package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/mailer"
)

// Option pattern
type Option func(*ReminderData)

func WithAppName(name string) Option { return func(d *ReminderData) { d.AppName = name } }
func WithAppURL(url string) Option   { return func(d *ReminderData) { d.AppURL = url } }

// NewReminderData fills template fields from a queued job, then applies opts.
func NewReminderData(job mailer.ReminderJob, opts ...Option) ReminderData {
	d := ReminderData{
		RecipientEmail: job.To,
		FriendName:     job.FriendName,
		TurningAge:     job.TurningAge,
		NextBirthday:   job.NextBirthday,
		DaysUntil:      job.DaysUntil,
		DaysUntilText:  helpers.DaysUntilText(job.DaysUntil),
	}
	if t, err := time.Parse("2006-01-02", job.NextBirthday); err == nil {
		d.NextBirthdayText = helpers.LongDate(t)
	} else {
		d.NextBirthdayText = job.NextBirthday
	}
	if job.Notes != nil {
		d.Notes = strings.TrimSpace(*job.Notes)
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
