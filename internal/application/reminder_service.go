package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	repo "github.com/oksasatya/birthday-reminder-api/internal/domain/repository"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
	"github.com/oksasatya/birthday-reminder-api/pkg/mailer"
	mailtpl "github.com/oksasatya/birthday-reminder-api/pkg/mailer/templates"
	"github.com/oksasatya/birthday-reminder-api/pkg/metrics"
	"github.com/oksasatya/birthday-reminder-api/pkg/validation"
)

const defaultDedupTTL = 72 * time.Hour

type ReminderService struct {
	Recipients repo.RecipientRepository
	Friends    repo.FriendRepository
	Calc       birthday.Calculator
	Clock      birthday.Clock
	Location   *time.Location
	Publisher  JobPublisher    // required by Dispatch only
	Guard      OccurrenceGuard // optional
	DedupTTL   time.Duration
	Metrics    *metrics.Metrics
	Logger     *logrus.Logger
}

// DispatchReport counts what one scheduler pass did.
type DispatchReport struct {
	Recipients int
	Due        int
	Published  int
	Duplicates int
	Failed     int
}

func (s *ReminderService) GetRecipient(ctx context.Context, userID string) (*entity.ReminderRecipient, error) {
	rec, err := s.Recipients.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	return rec, nil
}

// SetRecipient stores the reminder address. enabled defaults to true.
func (s *ReminderService) SetRecipient(ctx context.Context, userID, email string, enabled *bool) (*entity.ReminderRecipient, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	rec := &entity.ReminderRecipient{
		UserID:  userID,
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Enabled: enabled == nil || *enabled,
	}
	if err := s.Recipients.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Dispatch queues one job for every friend whose reminder is due today, for
// every account with reminders enabled. A failing account is logged and
// skipped so the others still get their reminders.
func (s *ReminderService) Dispatch(ctx context.Context) (DispatchReport, error) {
	var report DispatchReport
	if s.Publisher == nil {
		return report, errors.New("reminder publisher not configured")
	}
	recipients, err := s.Recipients.ListEnabled(ctx)
	if err != nil {
		return report, err
	}
	today := birthday.Today(s.clock(), s.Location)

	for _, rec := range recipients {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Recipients++

		friends, err := s.Friends.ListByOwner(ctx, rec.UserID)
		if err != nil {
			report.Failed++
			s.logWarn(err, "list friends for reminders failed", logrus.Fields{"user_id": rec.UserID})
			continue
		}
		for _, f := range friends {
			enriched := s.Calc.Enrich(f, today)
			if !enriched.IsReminderDue {
				continue
			}
			report.Due++
			s.publish(ctx, rec, enriched, &report)
		}
	}
	return report, nil
}

func (s *ReminderService) publish(ctx context.Context, rec entity.ReminderRecipient, f entity.FriendWithFacts, report *DispatchReport) {
	key := helpers.KeyReminderSent(f.ID, f.NextBirthday)
	if s.Guard != nil {
		ok, err := s.Guard.Claim(ctx, key, s.dedupTTL())
		if err != nil {
			// Fail open: publish even when the claim cannot be recorded.
			s.logWarn(err, "reminder dedup claim failed", logrus.Fields{"friend_id": f.ID})
		} else if !ok {
			report.Duplicates++
			return
		}
	}

	job := mailer.ReminderJob{
		To:           rec.Email,
		Template:     mailtpl.BirthdayReminder,
		UserID:       rec.UserID,
		FriendID:     f.ID,
		FriendName:   f.Name,
		TurningAge:   turningAge(f),
		NextBirthday: f.NextBirthday,
		DaysUntil:    f.DaysUntilBirthday,
		Notes:        f.Notes,
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		report.Failed++
		s.logWarn(err, "publish reminder failed", logrus.Fields{"friend_id": f.ID})
		if s.Guard != nil {
			_ = s.Guard.Release(ctx, key)
		}
		return
	}
	report.Published++
	s.Metrics.IncrementRemindersQueued()
}

// turningAge is the age reached on the next birthday. On the day itself the
// age has already ticked over.
func turningAge(f entity.FriendWithFacts) int {
	if f.DaysUntilBirthday == 0 {
		return f.Age
	}
	return f.Age + 1
}

func (s *ReminderService) clock() birthday.Clock {
	if s.Clock == nil {
		return birthday.SystemClock{}
	}
	return s.Clock
}

func (s *ReminderService) dedupTTL() time.Duration {
	if s.DedupTTL <= 0 {
		return defaultDedupTTL
	}
	return s.DedupTTL
}

func (s *ReminderService) logWarn(err error, msg string, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	helpers.LogWarn(s.Logger, msg, err, fields)
}
