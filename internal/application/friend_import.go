package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/entity"
	"github.com/oksasatya/birthday-reminder-api/pkg/validation"
)

const maxImportCards = 1000

// ImportResult summarises a vCard import.
type ImportResult struct {
	Imported int                      `json:"imported"`
	Skipped  int                      `json:"skipped"`
	Errors   []string                 `json:"errors,omitempty"`
	Friends  []entity.FriendWithFacts `json:"friends"`
}

// vCard BDAY layouts carrying a year. Year-less dates ("--0102") are skipped
// because age cannot be derived from them.
var bdayLayouts = []string{
	birthday.DateLayout,
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

// readErrReader remembers the first read failure other than EOF so a broken
// body can be told apart from a malformed card.
type readErrReader struct {
	r   io.Reader
	err error
}

func (t *readErrReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

// Import creates a friend for every card that has a name and a full birthday.
// Cards that fail the create rules are skipped and reported. A body that
// cannot be read, and persistence failures, abort the import.
func (s *FriendService) Import(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	body := &readErrReader{r: r}
	dec := vcard.NewDecoder(body)
	res := &ImportResult{Friends: []entity.FriendWithFacts{}}
	decoded := 0
	var lastErr string

	for i := 0; i < maxImportCards; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		card, err := dec.Decode()
		if body.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImport, body.err)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if decoded == 0 && res.Skipped == 0 {
				return nil, ErrInvalidImport
			}
			// The decoder made no progress.
			if err.Error() == lastErr {
				break
			}
			lastErr = err.Error()
			res.Skipped++
			res.Errors = append(res.Errors, "unreadable card: "+err.Error())
			continue
		}
		lastErr = ""
		decoded++

		name := cardName(card)
		dob, ok := cardBirthday(card)
		if !ok {
			res.Skipped++
			res.Errors = append(res.Errors, labelFor(name)+": no birthday with a year")
			continue
		}
		in := validation.FriendInput{Name: &name, DateOfBirth: &dob}
		if note := strings.TrimSpace(card.PreferredValue(vcard.FieldNote)); note != "" {
			in.Notes = &note
		}

		f, err := s.Create(ctx, userID, in)
		if err != nil {
			var fe *validation.FieldError
			if errors.As(err, &fe) {
				res.Skipped++
				res.Errors = append(res.Errors, labelFor(name)+": "+fe.Message)
				continue
			}
			return nil, err
		}
		res.Imported++
		res.Friends = append(res.Friends, *f)
	}

	if decoded == 0 && res.Skipped == 0 {
		return nil, ErrInvalidImport
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).WithField("imported", res.Imported).WithField("skipped", res.Skipped).Info("vcard import finished")
	}
	return res, nil
}

// cardName prefers FN and falls back to the structured N field.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(strings.Join(nonEmpty(n.GivenName, n.AdditionalName, n.FamilyName), " "))
	}
	return ""
}

func cardBirthday(card vcard.Card) (string, bool) {
	raw := strings.TrimSpace(card.PreferredValue(vcard.FieldBirthday))
	if raw == "" {
		return "", false
	}
	for _, layout := range bdayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return birthday.FormatDate(t), true
		}
	}
	return "", false
}

func labelFor(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
