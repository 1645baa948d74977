// Package tools declares the callable tools offered to the model.
package tools

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ReminderName is the function name declared to the model.
const ReminderName = "setReminder"

// displayLayout renders reminder timestamps for humans.
const displayLayout = "Mon, 2 Jan 2006 at 3:04 PM"

// ReminderDeclaration describes the setReminder tool. The schema requires
// both fields; a structured call omitting either is a contract violation the
// caller propagates rather than repairs.
func ReminderDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        ReminderName,
		Description: "Sets a reminder for the user.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"task": {
					Type:        genai.TypeString,
					Description: `The task to be reminded of. e.g., "Call the doctor"`,
				},
				"datetime": {
					Type:        genai.TypeString,
					Description: `The date and time for the reminder in ISO 8601 format. e.g., "2024-08-15T10:00:00"`,
				},
			},
			Required: []string{"task", "datetime"},
		},
	}
}

// RenderReminder turns the model's structured setReminder call into the
// confirmation shown to the user. No scheduling happens anywhere; the
// datetime is display-only.
func RenderReminder(args map[string]any) (string, error) {
	task, err := stringArg(args, "task")
	if err != nil {
		return "", err
	}
	datetime, err := stringArg(args, "datetime")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OK! I've set a reminder for you to %q on %s.", task, humanTime(datetime)), nil
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s call missing %q", ReminderName, key)
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return "", fmt.Errorf("%s call has empty %q", ReminderName, key)
	}
	return s, nil
}

// humanTime renders an ISO-8601 timestamp for display. Zone-less values are
// taken as local time; anything unparsable is shown verbatim rather than
// failing the turn.
func humanTime(s string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(displayLayout)
		}
	}
	return s
}
