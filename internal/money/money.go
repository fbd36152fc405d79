// Package money parses and formats amounts in the single locale the
// application supports: Brazilian Portuguese with Brazilian reais.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Symbol is the currency prefix used by Format. Intl pt-BR separates it
// from the amount with a no-break space.
const Symbol = "R$\u00a0"

// ErrInvalidAmount is returned when user input is not a number.
var ErrInvalidAmount = errors.New("valor inválido")

// Parse reads a localized monetary string such as "R$ 1.500,50".
// Currency symbol characters, whitespace and the thousands separator are
// removed and the first decimal comma becomes a decimal point.
func Parse(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == 'R' || r == '$' || r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return parseDecimal(raw, strings.Replace(cleaned, ",", ".", 1))
}

// ParseNumber reads a plain quantity such as "220", "1,5" or "2.5".
// Unlike Parse it keeps the dot, so it is not meant for amounts written
// with thousands separators.
func ParseNumber(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	return parseDecimal(raw, strings.Replace(cleaned, ",", ".", 1))
}

func parseDecimal(raw, cleaned string) (float64, error) {
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return f, nil
}

// Format renders v as currency, e.g. "R$ 1.500,50" or "-R$ 12,00".
func Format(v float64) string {
	s := FormatNumber(v)
	if strings.HasPrefix(s, "-") {
		return "-" + Symbol + s[1:]
	}
	return Symbol + s
}

// FormatNumber renders v with two fraction digits and pt-BR separators.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	fixed := decimal.NewFromFloat(v).Round(2).StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	out := groupThousands(intPart) + "," + fracPart
	if negative && strings.Trim(out, "0,.") != "" {
		return "-" + out
	}
	return out
}

// FormatQuantity renders v with as many fraction digits as needed and a
// decimal comma, e.g. "7" or "2,5".
func FormatQuantity(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := decimal.NewFromFloat(v).String()
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	out := groupThousands(intPart)
	if hasFrac {
		out += "," + fracPart
	}
	if negative {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
