package format

import "strings"

// Phone formats a Brazilian phone number as (XX) XXXXX-XXXX for mobiles
// or (XX) XXXX-XXXX for landlines. Non-digit input characters are
// discarded before formatting, so Phone(CleanPhone(v)) == Phone(v).
func Phone(value string) string {
	digits := CleanPhone(value)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("(")
	b.WriteString(substr(digits, 0, 2))

	if len(digits) > 2 {
		if len(digits) <= 10 {
			// Landline, or mobile without the leading 9.
			b.WriteString(") ")
			b.WriteString(substr(digits, 2, 6))
			if len(digits) > 6 {
				b.WriteString("-")
				b.WriteString(substr(digits, 6, 10))
			}
		} else {
			b.WriteString(") ")
			b.WriteString(substr(digits, 2, 7))
			if len(digits) > 7 {
				b.WriteString("-")
				b.WriteString(substr(digits, 7, 11))
			}
		}
	}

	return b.String()
}

// CleanPhone strips everything but digits.
func CleanPhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether the number has a DDD plus 8 or 9 digits.
func ValidPhone(value string) bool {
	n := len(CleanPhone(value))
	return n >= 10 && n <= 11
}

func substr(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
