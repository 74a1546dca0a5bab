package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Date-like CSV field: D/M or M/D with 2-4 digit year, slash or dash.
	dateFieldPattern = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)

	// Currency-like CSV field once parentheses are removed: optional sign,
	// optional $, thousands separators, optional decimals.
	amountFieldPattern = regexp.MustCompile(`^-?\$?[\d,]+\.?\d*$`)

	// Short statement date: M/D with no year, as purchase PDFs print it.
	shortDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)
)

// isDateField reports whether a CSV field looks like a transaction date.
func isDateField(field string) bool {
	return dateFieldPattern.MatchString(field)
}

// parseAmountField interprets a CSV field as a signed amount. Parentheses or
// a leading minus mean negative (expense); a bare number stays positive.
// Returns (0, false) for fields that are not amounts.
func parseAmountField(field string) (float64, bool) {
	stripped := strings.ReplaceAll(strings.ReplaceAll(field, "(", ""), ")", "")
	if !amountFieldPattern.MatchString(strings.TrimSpace(stripped)) {
		return 0, false
	}

	numStr := strings.TrimSpace(stripped)
	numStr = strings.ReplaceAll(numStr, "$", "")
	numStr = strings.ReplaceAll(numStr, ",", "")
	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, false
	}

	if strings.Contains(field, "(") || strings.Contains(field, "-") {
		if num > 0 {
			num = -num
		}
	}
	return num, true
}

// parseAmount converts a bare amount string like "1,234.56" or "$45.00" to a
// float64, preserving an explicit minus sign.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// InferYear resolves the calendar year for a statement month that carries no
// year of its own. Statements list recent history, so a month later than the
// reference date's month must belong to the previous year; anything else is
// the reference year. Statements spanning a year boundary make the December
// half land in the prior year, which is the intended reading.
func InferYear(month int, ref time.Time) int {
	if month > int(ref.Month()) {
		return ref.Year() - 1
	}
	return ref.Year()
}

// SplitDate breaks a stored date (M/D or MM/DD/YYYY) into its numeric parts.
// Year is 0 when the source carried none. ok is false for unusable dates.
func SplitDate(date string) (month, day, year int, ok bool) {
	parts := strings.Split(strings.ReplaceAll(date, "-", "/"), "/")
	if len(parts) < 2 {
		return 0, 0, 0, false
	}
	m, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, 0, 0, false
	}
	y := 0
	if len(parts) >= 3 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			y = v
			if y < 100 {
				y += 2000
			}
		}
	}
	return m, d, y, true
}
