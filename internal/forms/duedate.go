package forms

import (
	"fmt"
	"strings"
	"time"
)

// DueDateLayout is the dd/mm/yyyy input and display format.
const DueDateLayout = "02/01/2006"

// ParseDueDate parses a dd/mm/yyyy string into UTC midnight of that day.
// Only complete, real calendar dates are accepted.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != len(DueDateLayout) {
		return time.Time{}, fmt.Errorf("invalid due date %q: expected dd/mm/yyyy", s)
	}
	t, err := time.ParseInLocation(DueDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: expected dd/mm/yyyy", s)
	}
	return t, nil
}

// FormatDueDate renders a due date as dd/mm/yyyy in UTC.
func FormatDueDate(t time.Time) string {
	return t.UTC().Format(DueDateLayout)
}
