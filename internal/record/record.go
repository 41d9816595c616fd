package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical display layout for approval dates.
const DateLayout = "2006-01-02"

// Record represents a single tracker entry as stored in one sheet row.
type Record struct {
	ApprovalDate  string `json:"approval_date"`
	RequestNumber string `json:"request_number"`
	Description   string `json:"description"`
}

// IsBlank reports whether every field of the record is empty. Blank rows
// are skipped on read so stray empty spreadsheet rows never surface.
func (r Record) IsBlank() bool {
	return r.ApprovalDate == "" && r.RequestNumber == "" && r.Description == ""
}

// NormalizeDescription collapses multi-line free text into a single line.
// Line endings are unified, each line is trimmed, empty lines are dropped,
// and the survivors are joined with ", ".
func NormalizeDescription(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, ", ")
}

// ValidateDescription checks that a normalized description is non-empty.
func ValidateDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("description of work must not be empty")
	}
	return nil
}

// ParseDate parses free-text date input. It accepts YYYY-MM-DD and
// DD-MM-YYYY, with either "-" or "/" separators, falling back to common
// ISO-8601 layouts. Empty input yields today's date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	candidate := strings.ReplaceAll(s, "/", "-")
	if parts := strings.Split(candidate, "-"); len(parts) == 3 {
		if t, ok := dateFromParts(parts); ok {
			return t, nil
		}
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}

func dateFromParts(parts []string) (time.Time, bool) {
	var y, m, d int
	var err [3]error
	if len(parts[0]) == 4 { // YYYY-MM-DD
		y, err[0] = strconv.Atoi(parts[0])
		m, err[1] = strconv.Atoi(parts[1])
		d, err[2] = strconv.Atoi(parts[2])
	} else { // DD-MM-YYYY
		d, err[0] = strconv.Atoi(parts[0])
		m, err[1] = strconv.Atoi(parts[1])
		y, err[2] = strconv.Atoi(parts[2])
	}
	if err[0] != nil || err[1] != nil || err[2] != nil {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	// time.Date normalizes out-of-range components; reject anything that moved.
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// Preview returns a single-line preview of the description, truncated
// to at most maxLen runes.
func (r Record) Preview(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	desc := strings.ReplaceAll(r.Description, "\n", " ")
	runes := []rune(desc)
	if len(runes) <= maxLen {
		return desc
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
