package calculator

import (
	"strconv"
	"strings"
)

// FormatNumber renders v in plain decimal notation without trailing
// fractional zeros: 6.2 prints as "6.2", 6.0 as "6".
func FormatNumber(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	if out == "" {
		return "0"
	}
	return out
}
