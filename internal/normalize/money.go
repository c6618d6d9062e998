package normalize

import (
	"strconv"
	"strings"
)

// Money parses a currency string to a float64 dollar amount. Dollar signs,
// thousands separators, and surrounding whitespace are tolerated. Blank,
// "NULL", and garbage values all yield 0; callers that need to count garbage
// use MoneyOK.
func Money(s string) float64 {
	v, _ := MoneyOK(s)
	return v
}

// MoneyOK parses like Money and additionally reports whether the input was
// interpretable. Blank and NULL are interpretable zeros; only non-numeric
// residue after stripping symbols returns ok=false.
func MoneyOK(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "nan") {
		return 0, true
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Accounting-style negatives: (12.34)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// Dollars formats an amount with two decimals for discrepancy strings and
// reports.
func Dollars(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
