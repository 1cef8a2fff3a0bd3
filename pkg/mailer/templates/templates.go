package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	"sync"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const BirthdayReminder = "birthday_reminder"

// ReminderData defines the fields available to reminder templates.
type ReminderData struct {
	AppName        string
	AppURL         string
	RecipientEmail string

	FriendName       string
	TurningAge       int
	NextBirthday     string
	NextBirthdayText string
	DaysUntil        int
	DaysUntilText    string
	Notes            string
}

// orDefault supports pipe usage: {{ .AppName | orDefault "Birthday Reminder" }}
func orDefault(fallback, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// plural picks the singular or plural noun for n: {{ plural .DaysUntil "day" "days" }}
func plural(n int, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}
	return many
}

func funcs() map[string]any {
	return map[string]any{
		"orDefault": orDefault,
		"plural":    plural,
	}
}

// The embedded set is parsed once; every file is addressable by its name.
var (
	parseOnce sync.Once
	textSet   *texttpl.Template
	htmlSet   *htmpl.Template
	parseErr  error
)

func parsed() error {
	parseOnce.Do(func() {
		textSet, parseErr = texttpl.New("text").Funcs(funcs()).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
		if parseErr != nil {
			parseErr = fmt.Errorf("parse text templates: %w", parseErr)
			return
		}
		htmlSet, parseErr = htmpl.New("html").Funcs(funcs()).ParseFS(FS, "*.html.tmpl")
		if parseErr != nil {
			parseErr = fmt.Errorf("parse html templates: %w", parseErr)
		}
	})
	return parseErr
}

func execText(file string, data any) (string, error) {
	if textSet.Lookup(file) == nil {
		return "", fmt.Errorf("template %q not found", file)
	}
	var buf bytes.Buffer
	if err := textSet.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

func execHTML(file string, data any) (string, error) {
	if htmlSet.Lookup(file) == nil {
		return "", fmt.Errorf("template %q not found", file)
	}
	var buf bytes.Buffer
	if err := htmlSet.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render produces the subject, plain-text and HTML bodies for name from
// <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data ReminderData) (subject, text, html string, err error) {
	if err = parsed(); err != nil {
		return "", "", "", err
	}
	if subject, err = execText(name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	subject = strings.TrimSpace(subject)
	if text, err = execText(name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execHTML(name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
