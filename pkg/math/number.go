// Package math provides arbitrary-precision decimal vectors for mesh coordinates.
//
// Coordinates read from text are kept as decimals so that subtraction,
// averaging and mirroring re-emit exactly the digits an artist wrote.
package math

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Commonly used constants.
var (
	Zero = decimal.Zero
	One  = decimal.NewFromInt(1)
)

// ParseNumber parses a decimal token such as "1.000000", "-2" or "3e-5".
func ParseNumber(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}

// FromFloat converts f to a decimal rounded to the given number of
// significant digits.
func FromFloat(f float64, digits int) decimal.Decimal {
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'g', digits, 64))
	if err != nil {
		// NaN and Inf have no decimal form.
		return decimal.Zero
	}
	return d
}

// FormatNumber renders d the way decimal text is conventionally written:
// plain notation keeping trailing zeros while the exponent is not positive
// and the adjusted exponent is at least -6, scientific ("1E+2") otherwise.
func FormatNumber(d decimal.Decimal) string {
	coef := d.Coefficient()
	exp := int(d.Exponent())

	neg := coef.Sign() < 0
	digits := coef.Abs(coef).String()
	adjusted := exp + len(digits) - 1

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}

	if exp <= 0 && adjusted >= -6 {
		places := -exp
		switch {
		case places == 0:
			sb.WriteString(digits)
		case len(digits) <= places:
			sb.WriteString("0.")
			sb.WriteString(strings.Repeat("0", places-len(digits)))
			sb.WriteString(digits)
		default:
			sb.WriteString(digits[:len(digits)-places])
			sb.WriteByte('.')
			sb.WriteString(digits[len(digits)-places:])
		}
		return sb.String()
	}

	sb.WriteByte(digits[0])
	if len(digits) > 1 {
		sb.WriteByte('.')
		sb.WriteString(digits[1:])
	}
	sb.WriteByte('E')
	if adjusted >= 0 {
		sb.WriteByte('+')
	}
	sb.WriteString(strconv.Itoa(adjusted))
	return sb.String()
}

// key returns a canonical form of d: numerically equal decimals share a key.
func key(d decimal.Decimal) string {
	return d.String()
}
