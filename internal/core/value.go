// Package core implements the workbook filter-edit-reconcile pipeline.
// It has no UI or transport dependencies and can be driven by any shell.
package core

// value.go models spreadsheet cells as a closed scalar union.
//
// Cells arrive from the codec as display strings and carry the messy
// reality of user-maintained spreadsheets: mixed date formats, currency
// symbols and thousands separators in numbers, stray whitespace and
// Excel formula prefixes. Parsing is centralized here so every layer
// above works with typed values.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies which member of the scalar union a Value holds.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueText
	ValueNumber
	ValueDate
)

// numericRegex validates a numeric string after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot controls how 2-digit years are interpreted: parsed
// years more than this many years in the future are shifted back a
// century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// Value is one spreadsheet cell: text, number, date, or null.
type Value struct {
	kind ValueKind
	text string
	num  float64
	date time.Time
}

// Null is the absent-cell value.
var Null = Value{kind: ValueNull}

// Text returns a text Value. Empty or all-whitespace input is Null.
func Text(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null
	}
	return Value{kind: ValueText, text: s}
}

// Number returns a number Value.
func Number(f float64) Value {
	return Value{kind: ValueNumber, num: f}
}

// Date returns a date Value truncated to day precision in UTC.
func Date(t time.Time) Value {
	return Value{kind: ValueDate, date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Kind returns the member of the scalar union v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// Num returns the numeric payload; zero unless Kind is ValueNumber.
func (v Value) Num() float64 { return v.num }

// Time returns the date payload; the zero time unless Kind is ValueDate.
func (v Value) Time() time.Time { return v.date }

// String renders v in its canonical display form. Null renders as the
// empty string, dates as 2006-01-02, and numbers without a trailing
// fractional zero.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueDate:
		return v.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal reports whether two values are the same member of the union
// with the same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueText:
		return v.text == o.text
	case ValueNumber:
		return v.num == o.num
	case ValueDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// CleanCell removes common spreadsheet artifacts from a raw cell:
// surrounding whitespace, the Excel formula prefix (="..."), and
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// ParseDate parses a date from its display string. Supports multiple
// layouts and applies the pivot-year rule to 2-digit years. The second
// result is false when no layout matches.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseNumber parses a number from its display string. Handles currency
// symbols, thousands separators, and accounting-style negatives
// ("(123.45)"). The second result is false when the string is not
// numeric after cleanup.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
