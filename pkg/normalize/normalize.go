// Package normalize holds the key normalization primitives shared by every
// reconciliation path: free text is folded to a diacritic-free lowercase form
// and clock times are canonicalized to four digits.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text strips diacritics, lowercases, trims and collapses inner whitespace.
// "  Ána   SILVA " → "ana silva"
func Text(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) { // combining marks
			continue
		}
		buf = append(buf, r)
	}

	return strings.Join(strings.Fields(string(buf)), " ")
}

// Time canonicalizes a clock time to HHMM.
// Accepts "09:30", "9:30", "930", "0930", "9", "14h30", "09:30:00".
// Returns "" when the value cannot be read as a valid time of day.
func Time(s string) string {
	h, m, ok := parseClock(s)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d%02d", h, m)
}

// Clock canonicalizes a clock time to HH:MM, or "" when unparseable
func Clock(s string) string {
	h, m, ok := parseClock(s)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Minutes returns minutes since midnight for a clock time
func Minutes(s string) (int, bool) {
	h, m, ok := parseClock(s)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}

// Hour returns the hour component of a clock time
func Hour(s string) (int, bool) {
	h, _, ok := parseClock(s)
	return h, ok
}

// SortValue orders arbitrary time labels numerically by their digits.
// Labels without any digit sort after every label that has one.
func SortValue(s string) int {
	if mins, ok := Minutes(s); ok {
		return mins
	}
	digits := onlyDigits(s)
	if digits == "" {
		return int(^uint(0) >> 1)
	}
	if len(digits) > 6 {
		digits = digits[:6]
	}
	n, _ := strconv.Atoi(digits)
	return n
}

func parseClock(s string) (int, int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, 0, false
	}

	var hourPart, minPart string
	if i := strings.IndexAny(s, ":h"); i >= 0 {
		hourPart = s[:i]
		rest := s[i+1:]
		if j := strings.IndexByte(rest, ':'); j >= 0 {
			rest = rest[:j] // drop seconds
		}
		minPart = rest
		if minPart == "" {
			minPart = "0"
		}
	} else {
		digits := onlyDigits(s)
		if digits != s {
			return 0, 0, false
		}
		switch len(digits) {
		case 1, 2:
			hourPart, minPart = digits, "0"
		case 3:
			hourPart, minPart = digits[:1], digits[1:]
		case 4:
			hourPart, minPart = digits[:2], digits[2:]
		default:
			return 0, 0, false
		}
	}

	h, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(minPart))
	if err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
