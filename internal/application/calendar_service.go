package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
)

const (
	calendarProductID = "-//Birthday Reminder//API//EN"
	calendarName      = "Birthdays"
	calendarUIDDomain = "birthday-reminder"
	calendarMediaType = "text/calendar; charset=utf-8"
)

// emptyCalendar is served when there is nothing to schedule; the encoder
// refuses a VCALENDAR without components.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + calendarProductID + "\r\nEND:VCALENDAR\r\n"

type CalendarService struct {
	Friends *FriendService
	Store   ObjectStore // optional; required by Publish
}

// Export writes an iCalendar document with one all-day event per friend on
// the friend's next birthday and a display alarm at the reminder threshold.
func (s *CalendarService) Export(ctx context.Context, userID string, w io.Writer) error {
	friends, err := s.Friends.List(ctx, userID, ListFilter{})
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		_, err := io.WriteString(w, emptyCalendar)
		return err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")
	cal.Props.SetText("X-WR-CALNAME", calendarName)

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(s.Friends.Clock.Now().UTC())

	trigger := "-P" + strconv.Itoa(s.Friends.Calc.ReminderThreshold()) + "D"
	for _, f := range friends {
		ev, err := birthdayEvent(f, trigger)
		if err != nil {
			return err
		}
		ev.Props.Set(stamp)
		cal.Children = append(cal.Children, ev.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func birthdayEvent(f entity.FriendWithFacts, trigger string) (*ical.Event, error) {
	next, err := birthday.ParseDate(f.NextBirthday)
	if err != nil {
		return nil, fmt.Errorf("friend %s next birthday: %w", f.ID, err)
	}
	summary := fmt.Sprintf("%s's birthday (turns %d)", f.Name, turningAge(f))

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%d@%s", f.ID, next.Year(), calendarUIDDomain))
	ev.Props.SetText(ical.PropSummary, summary)
	if f.Notes != nil && *f.Notes != "" {
		ev.Props.SetText(ical.PropDescription, *f.Notes)
	}
	ev.Props.SetText(ical.PropTransparency, "TRANSPARENT")

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(next)
	ev.Props.Set(start)
	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDate(next.AddDate(0, 0, 1))
	ev.Props.Set(end)

	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, summary)
	// Set the raw value so the trigger is not tagged VALUE=TEXT.
	tp := ical.NewProp(ical.PropTrigger)
	tp.Value = trigger
	alarm.Props.Set(tp)
	ev.Children = append(ev.Children, alarm)

	return ev, nil
}

// Publish uploads the caller's calendar to object storage under a fresh,
// unguessable name and returns its URL.
func (s *CalendarService) Publish(ctx context.Context, userID string) (string, error) {
	if s.Store == nil {
		return "", ErrStorageNotConfigured
	}
	var buf bytes.Buffer
	if err := s.Export(ctx, userID, &buf); err != nil {
		return "", err
	}
	objectPath := path.Join("calendars", userID, uuid.NewString()+".ics")
	return s.Store.Put(ctx, objectPath, calendarMediaType, &buf)
}
