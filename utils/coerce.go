package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DateLayoutBR is the DD/MM/YYYY layout used by the schedule spreadsheets.
const DateLayoutBR = "02/01/2006"

// blank cell markers left behind by spreadsheet exports
var nullMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"nat":  true,
	"null": true,
}

// CleanText trims a cell value and returns "" with ok=false when the cell is
// empty or holds one of the null markers ("nan", "none", "nat").
func CleanText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return CleanText(float64(t))
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	case time.Time:
		if t.IsZero() {
			return "", false
		}
		s = t.Format(DateLayoutBR)
	default:
		return "", false
	}

	s = strings.TrimSpace(s)
	if nullMarkers[strings.ToLower(s)] {
		return "", false
	}
	return s, true
}

// TextOr returns the cleaned text of v or def when the cell is blank.
func TextOr(v any, def string) string {
	if s, ok := CleanText(v); ok {
		return s
	}
	return def
}

// ToNumber parses a numeric cell. Anything that is not a finite number
// yields def.
func ToNumber(v any, def float64) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		s, ok := CleanText(t)
		if !ok {
			return def
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			parsed, err = strconv.ParseFloat(normalizeDecimalComma(s), 64)
			if err != nil {
				return def
			}
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// ToInt truncates ToNumber(v, 0) to a non-negative integer.
func ToInt(v any) int {
	n := ToNumber(v, 0)
	if n < 0 {
		return 0
	}
	return int(n)
}

// ToCoordinate parses a latitude/longitude cell, accepting "," as the decimal
// separator. Values outside [-180, 180] are rejected.
func ToCoordinate(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64, float32, int, int64:
		f = ToNumber(t, math.NaN())
	case string:
		s, ok := CleanText(t)
		if !ok {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || f < -180 || f > 180 {
		return nil
	}
	return &f
}

// ToDate converts a cell into a civil date (UTC midnight). It accepts
// time.Time values, DD/MM/YYYY strings, YYYY-MM-DD strings with an optional
// time part, and spreadsheet serial day counts (1899-12-30 epoch).
func ToDate(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		d := DateOf(t)
		return &d
	case *time.Time:
		if t == nil {
			return nil
		}
		return ToDate(*t)
	case float64, float32, int, int64:
		return serialToDate(ToNumber(t, math.NaN()))
	case string:
		return parseDateString(t)
	}
	return nil
}

func parseDateString(raw string) *time.Time {
	s, ok := CleanText(raw)
	if !ok {
		return nil
	}

	if strings.Contains(s, "/") {
		if t, err := time.Parse("2/1/2006", s); err == nil {
			return &t
		}
		return nil
	}

	if strings.Contains(s, "-") {
		datePart := s
		if i := strings.IndexAny(s, " T"); i > 0 {
			datePart = s[:i]
		}
		if t, err := time.Parse(time.DateOnly, datePart); err == nil {
			return &t
		}
		return nil
	}

	// raw cell values from excelize come through as numeric strings
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToDate(f)
	}
	return nil
}

func serialToDate(f float64) *time.Time {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return nil
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return nil
	}
	d := DateOf(t)
	return &d
}

// FormatDateLocal renders d as DD/MM/YYYY, or "" when d is nil.
func FormatDateLocal(d *time.Time) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format(DateLayoutBR)
}

// DateOf drops the clock part of t, keeping its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the civil date of now in the server's local zone.
func Today(now time.Time) time.Time {
	return DateOf(now.Local())
}

// FoldAccents upper-cases s and strips diacritics so "Escavação" and
// "ESCAVACAO" compare equal.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(folded)
}

// ContainsAny reports whether the accent-folded text contains any of the
// given (already folded) keywords.
func ContainsAny(folded string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// normalizeDecimalComma rewrites a number with a decimal comma ("1.234,5")
// to Go syntax. When the comma comes before the last dot ("1,234.5") it is a
// thousands separator and is dropped.
func normalizeDecimalComma(s string) string {
	comma := strings.LastIndex(s, ",")
	if comma < 0 {
		return s
	}
	if comma < strings.LastIndex(s, ".") {
		return strings.ReplaceAll(s, ",", "")
	}
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", ".")
}
