package helpers

import (
	"strings"
	"time"

	"cayo/errs"
	"cayo/services/report"
)

const dateOnly = "2006-01-02"

// ParseWindow reads an inclusive from/to range. Each bound is RFC3339 or a
// bare date; a bare "to" date covers that whole day (UTC).
func ParseWindow(from, to string) (report.Window, error) {
	var w report.Window
	if s := strings.TrimSpace(from); s != "" {
		t, _, err := parseInstant(s)
		if err != nil {
			return report.Window{}, errs.NewValidation("INVALID_FROM_DATE")
		}
		w.From = t
	}
	if s := strings.TrimSpace(to); s != "" {
		t, bare, err := parseInstant(s)
		if err != nil {
			return report.Window{}, errs.NewValidation("INVALID_TO_DATE")
		}
		if bare {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		w.To = t
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.From.After(w.To) {
		return report.Window{}, errs.NewValidation("FROM_AFTER_TO")
	}
	return w, nil
}

func parseInstant(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateOnly, s)
	return t, true, err
}

// Matches reports whether q is empty or a case-insensitive substring of any
// of fields.
func Matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
