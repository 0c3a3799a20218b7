package normalize

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyReplacer = strings.NewReplacer("$", "", ",", "", " ", "", " ", "", `"`, "")

// ParseCurrency converts "$1,234.56"-style strings into a decimal. Empty or
// unparseable input yields zero.
func ParseCurrency(raw string) decimal.Decimal {
	s := currencyReplacer.Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "US")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseInt reads a count column ("1,204", "3"). Fractional input is truncated.
func ParseInt(raw string, fallback int) int {
	s := strings.ReplaceAll(strings.TrimSpace(strings.Trim(raw, `"`)), ",", "")
	if s == "" {
		return fallback
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return fallback
}

// NonNegative clamps negative counts to zero.
func NonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
