package backend

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrEmpty is returned when there is no number to reverse.
var ErrEmpty = errors.New("empty number")

// Reverse reverses the digits of s and returns the result as a canonical
// integer: leading zeros of the reversed text are dropped and a leading sign
// stays in front. Reverse("1200") is "21" and Reverse("-12") is "-21".
func Reverse(s string) (string, error) {
	sign, digits := splitSign(s)
	if digits == "" {
		return "", ErrEmpty
	}
	if err := checkDigits(digits); err != nil {
		return "", err
	}

	b := []byte(digits)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	out := strings.TrimLeft(string(b), "0")
	if out == "" {
		return "0", nil
	}
	if sign == "-" {
		out = "-" + out
	}
	return out, nil
}

// SumDigits adds each decimal digit of s. The empty string sums to zero.
func SumDigits(s string) (*big.Int, error) {
	if err := checkDigits(s); err != nil {
		return nil, err
	}
	var total int64
	for i := 0; i < len(s); i++ {
		total += int64(s[i] - '0')
	}
	return big.NewInt(total), nil
}

// SumValues adds integers given as decimal text.
func SumValues(values []string) (*big.Int, error) {
	total := new(big.Int)
	for i, v := range values {
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("element %d: %q is not an integer", i, v)
		}
		total.Add(total, n)
	}
	return total, nil
}

func splitSign(s string) (sign, digits string) {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		return s[:1], s[1:]
	}
	return "", s
}

func checkDigits(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("%q is not a digit string", s)
		}
	}
	return nil
}
