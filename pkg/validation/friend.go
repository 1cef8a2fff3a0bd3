package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxNameLength  = 255
	MaxNotesLength = 5000
	MinBirthYear   = 1900
	dateLayout     = "2006-01-02"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FieldError is the first failing field of an input, with a message meant
// for the end user.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// FriendInput is the writable part of a friend. A nil field was not sent,
// or was sent as null; NullName and NullDateOfBirth record the latter.
type FriendInput struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"date_of_birth"`
	Notes       *string `json:"notes"`

	NullName        bool `json:"-"`
	NullDateOfBirth bool `json:"-"`
}

// UnmarshalJSON decodes like the plain struct and also notes which required
// fields were present as an explicit null.
func (in *FriendInput) UnmarshalJSON(b []byte) error {
	type plain FriendInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*in = FriendInput(p)
	for k, v := range raw {
		if !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		switch strings.ToLower(k) {
		case "name":
			in.NullName = true
		case "date_of_birth":
			in.NullDateOfBirth = true
		}
	}
	return nil
}

// ValidateFriend checks name, date_of_birth and notes in that order and stops
// at the first failure. On create (partial=false) name and date_of_birth must
// be present; on update every field is optional but name and date_of_birth
// may not be null. today bounds date_of_birth.
func ValidateFriend(in FriendInput, partial bool, today time.Time) error {
	if in.NullName || (!partial && in.Name == nil) {
		return &FieldError{Field: "name", Message: "Name is required"}
	}
	if in.NullDateOfBirth || (!partial && in.DateOfBirth == nil) {
		return &FieldError{Field: "date_of_birth", Message: "Date of birth is required"}
	}

	if in.Name != nil {
		if err := ozzo.Validate(*in.Name,
			ozzo.Required.Error("Name is required"),
			ozzo.By(notBlank("Name cannot be empty or just whitespace")),
		); err != nil {
			return &FieldError{Field: "name", Message: err.Error()}
		}
		if err := ozzo.Validate(strings.TrimSpace(*in.Name),
			ozzo.RuneLength(0, MaxNameLength).Error("Name must be 255 characters or less"),
		); err != nil {
			return &FieldError{Field: "name", Message: err.Error()}
		}
	}

	if in.DateOfBirth != nil {
		if err := ozzo.Validate(*in.DateOfBirth,
			ozzo.Required.Error("Date of birth is required"),
			ozzo.Match(isoDate).Error("Date must be in YYYY-MM-DD format"),
			ozzo.Date(dateLayout).Error("Invalid date (e.g., 2023-02-30 is not valid)"),
			ozzo.By(birthDateInRange(today)),
		); err != nil {
			return &FieldError{Field: "date_of_birth", Message: err.Error()}
		}
	}

	if in.Notes != nil {
		if err := ozzo.Validate(*in.Notes,
			ozzo.RuneLength(0, MaxNotesLength).Error("Notes must be 5000 characters or less"),
		); err != nil {
			return &FieldError{Field: "notes", Message: err.Error()}
		}
	}
	return nil
}

// ValidateEmail checks a reminder recipient address.
func ValidateEmail(email string) error {
	if err := ozzo.Validate(strings.TrimSpace(email),
		ozzo.Required.Error("Email is required"),
		is.EmailFormat.Error("Email must be a valid email address"),
	); err != nil {
		return &FieldError{Field: "email", Message: err.Error()}
	}
	return nil
}

func notBlank(msg string) ozzo.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func birthDateInRange(today time.Time) ozzo.RuleFunc {
	y, m, d := today.Date()
	limit := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return func(value interface{}) error {
		s, _ := value.(string)
		dob, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil
		}
		if dob.After(limit) {
			return errors.New("Date of birth cannot be in the future")
		}
		if dob.Year() < MinBirthYear {
			return errors.New("Date of birth must be after 1900")
		}
		return nil
	}
}
