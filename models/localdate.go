package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const localDateLayout = "02/01/2006"

// LocalDate is a calendar date rendered as DD/MM/YYYY in JSON. The zero
// value means "no date" and is emitted as "".
type LocalDate time.Time

// NewLocalDate wraps an optional date.
func NewLocalDate(t *time.Time) LocalDate {
	if t == nil {
		return LocalDate{}
	}
	y, m, d := t.Date()
	return LocalDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Time returns the date as a pointer, nil when unset.
func (ld LocalDate) Time() *time.Time {
	if ld.IsZero() {
		return nil
	}
	t := time.Time(ld)
	return &t
}

func (ld LocalDate) IsZero() bool {
	return time.Time(ld).IsZero()
}

func (ld LocalDate) String() string {
	if ld.IsZero() {
		return ""
	}
	return time.Time(ld).Format(localDateLayout)
}

// MarshalJSON emits "DD/MM/YYYY" or "".
func (ld LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(ld.String())
}

// UnmarshalJSON accepts "DD/MM/YYYY", "YYYY-MM-DD", RFC3339 or "".
func (ld *LocalDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("LocalDate.UnmarshalJSON: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*ld = LocalDate{}
		return nil
	}

	for _, layout := range []string{localDateLayout, "2/1/2006", time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*ld = NewLocalDate(&t)
			return nil
		}
	}
	return fmt.Errorf("LocalDate.UnmarshalJSON: cannot parse %q", s)
}
