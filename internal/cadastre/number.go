package cadastre

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberRe is the authoritative cadastral number format: region, district,
// quarter and parcel separated by colons.
var numberRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{6,7}:\d{1,4}$`)

// ValidNumber reports whether s is a well-formed cadastral number.
func ValidNumber(s string) bool {
	return numberRe.MatchString(s)
}

// FormatNumberInput normalizes free-form user input towards the
// XX:XX:XXXXXXX:XX shape: everything except digits and colons is dropped
// and the first two separators are inserted when the user omitted them.
func FormatNumberInput(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, value)

	formatted := cleaned
	if len(cleaned) >= 2 && !strings.Contains(cleaned, ":") {
		formatted = cleaned[:2] + ":" + cleaned[2:]
	}
	if len(cleaned) >= 5 && strings.Count(cleaned, ":") == 1 {
		head, tail, _ := strings.Cut(cleaned, ":")
		n := min(2, len(tail))
		formatted = head + ":" + tail[:n] + ":" + tail[n:]
	}

	return formatted
}

// FileStem turns a cadastral number into a file name fragment.
func FileStem(number string) string {
	if number == "" || number == NotFound {
		return "unknown"
	}
	return strings.ReplaceAll(number, ":", "_")
}

// parseLeadingFloat parses the longest numeric prefix of s after leading
// whitespace, the way lenient XML consumers read values such as "600\n055"
// or "12.5 m". Non-finite results are rejected.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		expDigits := exp
		for exp < len(s) && isDigit(s[exp]) {
			exp++
		}
		if exp > expDigits {
			end = exp
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
