package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxAmount mirrors a DECIMAL(10,2) column: 99,999,999.99.
const MaxAmount Amount = 9_999_999_999

var ErrInvalidAmount = errors.New("amount must be a non-negative number with at most two decimal places")

// Amount is a non-negative money value stored as integer cents.
type Amount int64

// ParseAmount parses a plain decimal string such as "3", "3.5" or "3.50".
// Signs, exponents and more than two fractional digits are rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && !hasDot {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if hasDot && (frac == "" || len(frac) > 2) {
		return 0, ErrInvalidAmount
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > int64(MaxAmount/100) {
		return 0, ErrInvalidAmount
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	a := Amount(units*100 + cents)
	if a > MaxAmount {
		return 0, ErrInvalidAmount
	}
	return a, nil
}

// Cents returns the amount in minor units.
func (a Amount) Cents() int64 {
	return int64(a)
}

func (a Amount) String() string {
	return fmt.Sprintf("%d.%02d", int64(a)/100, int64(a)%100)
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
