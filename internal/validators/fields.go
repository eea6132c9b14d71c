// Package validators turns decoded request bodies into cleaned field sets.
// Every validator collects all field errors before failing.
package validators

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"project-management-api/internal/apperr"
)

// stringField reads and trims data[key]. A nil value reads as "". Non-string
// values record an error and report ok=false.
func stringField(data map[string]any, key, label string, fe apperr.FieldErrors) (value string, present, ok bool) {
	raw, present := data[key]
	if !present || raw == nil {
		return "", present, true
	}
	s, isString := raw.(string)
	if !isString {
		fe.Add(key, label+" must be a string.")
		return "", true, false
	}
	return strings.TrimSpace(s), true, true
}

// requiredString records "<label> is required." when the trimmed value is blank
func requiredString(data map[string]any, key, label string, fe apperr.FieldErrors) string {
	s, _, ok := stringField(data, key, label, fe)
	if ok && s == "" {
		fe.Add(key, label+" is required.")
	}
	return s
}

// optionalString returns "" for absent fields
func optionalString(data map[string]any, key, label string, fe apperr.FieldErrors) string {
	s, _, _ := stringField(data, key, label, fe)
	return s
}

// patchString returns nil when the field is absent. When nonEmpty is set a
// blank value records "<label> cannot be empty.".
func patchString(data map[string]any, key, label string, nonEmpty bool, fe apperr.FieldErrors) *string {
	s, present, ok := stringField(data, key, label, fe)
	if !present || !ok {
		return nil
	}
	if nonEmpty && s == "" {
		fe.Add(key, label+" cannot be empty.")
		return nil
	}
	return &s
}

// coerceInt accepts JSON integers, integral floats and numeric strings
func coerceInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// requiredID validates a parent foreign key on create
func requiredID(data map[string]any, key, label string, fe apperr.FieldErrors) uint {
	raw, present := data[key]
	if !present || isBlank(raw) {
		fe.Add(key, label+" is required.")
		return 0
	}
	i, ok := coerceInt(raw)
	switch {
	case !ok || i < 0:
		fe.Add(key, label+" must be a valid integer.")
		return 0
	case i == 0:
		fe.Add(key, label+" is required.")
		return 0
	}
	return uint(i)
}

// patchID validates a parent foreign key on update
func patchID(data map[string]any, key, label string, fe apperr.FieldErrors) *uint {
	raw, present := data[key]
	if !present {
		return nil
	}
	i, ok := coerceInt(raw)
	if !ok || i < 0 {
		fe.Add(key, label+" must be a valid integer.")
		return nil
	}
	id := uint(i)
	return &id
}

// statusField checks value against the allowed list, recording errors under key
func statusField(value string, allowed []string, key string, emptyMsg string, fe apperr.FieldErrors) bool {
	if value == "" {
		fe.Add(key, emptyMsg)
		return false
	}
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	fe.Add(key, "Status must be one of: "+strings.Join(allowed, ", ")+".")
	return false
}

var dateLayouts = []string{
	"2006-01-02",  // ISO date
	time.RFC3339,  // full RFC3339, truncated to the date
	"2 Jan 2006",  // e.g., 30 Oct 2025
	"02 Jan 2006", // zero-padded day
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a calendar date and normalizes it to midnight UTC
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// dateField parses an optional due_date. Absent, null and "" yield nil.
func dateField(data map[string]any, key string, withTime bool, fe apperr.FieldErrors) *time.Time {
	raw, present := data[key]
	if !present || isBlank(raw) {
		return nil
	}
	msg := "Enter a valid date."
	parse := parseDate
	if withTime {
		msg = "Enter a valid date/time."
		parse = parseDateTime
	}
	s, ok := raw.(string)
	if !ok {
		fe.Add(key, msg)
		return nil
	}
	t, ok := parse(strings.TrimSpace(s))
	if !ok {
		fe.Add(key, msg)
		return nil
	}
	return &t
}
