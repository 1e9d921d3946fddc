package validate

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether the address looks deliverable.
func Email(email string) bool {
	return emailPattern.MatchString(email)
}

// Name reports whether the display name is long enough to be real.
func Name(name string) bool {
	return len(strings.TrimSpace(name)) >= 3
}
