package widget

import (
	"strings"
	"time"
)

// State is the view state owned by one widget instance.
type State struct {
	// Input is the draft text exactly as it appears in the numeric field.
	Input string
	// Result is the value of the last successful response, or empty.
	Result string
	// Err is the failure of the last response to arrive, cleared by a success.
	Err error
	// Pending counts requests still in flight.
	Pending int
	// Latency is the round trip of the response that last set Result or Err.
	Latency time.Duration
}

// numericRunes are the characters a number input admits while typing.
const numericRunes = "0123456789+-.eE"

// IsNumericRune reports whether r can be typed into the numeric field.
func IsNumericRune(r rune) bool {
	return strings.ContainsRune(numericRunes, r)
}
