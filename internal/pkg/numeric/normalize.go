// Package numeric converts raw chain-unit integer amounts into display and
// USD values. Raw amounts can exceed float64's safe-integer range (18-decimal
// tokens with large balances), so division by the decimal base happens on an
// arbitrary-precision path before any float conversion.
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize converts a raw integer amount string with the given decimal
// exponent into a human-readable float and its USD value at unitPriceUSD.
// Empty or malformed raw strings are treated as a zero amount rather than an
// error. A zero unit price short-circuits to a zero USD value.
func Normalize(raw string, decimals int32, unitPriceUSD float64) (amount, usdValue float64) {
	d := parseRaw(raw)
	if d.IsZero() {
		return 0, 0
	}
	human := d.Shift(-decimals)
	amount = human.InexactFloat64()
	if unitPriceUSD == 0 {
		return amount, 0
	}
	usdValue = human.Mul(decimal.NewFromFloat(unitPriceUSD)).InexactFloat64()
	return amount, usdValue
}

// FormatAmount renders a raw integer amount as a fixed-point string with up
// to places fractional digits, trailing zeros trimmed.
// Example: FormatAmount("12345000000", 10, 4) == "1.2345".
func FormatAmount(raw string, decimals int32, places int32) string {
	d := parseRaw(raw).Shift(-decimals)
	s := d.StringFixed(places)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func parseRaw(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
