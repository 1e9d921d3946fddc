package format

import (
	"fmt"
	"strings"
)

// Currency renders a value as Brazilian Real, e.g. 1234.5 -> "R$ 1.234,50".
func Currency(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	whole := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(whole, ".", 2)

	intPart := parts[0]
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "R$ " + strings.Join(groups, ".") + "," + parts[1]
	if negative {
		out = "-" + out
	}
	return out
}
