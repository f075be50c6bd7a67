package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Endpoint identifies one logical path served behind the origin.
type Endpoint struct {
	// Name is the widget-facing identifier ("reverser", "summation").
	Name string
	// Path is the logical path relative to the origin.
	Path string
}

var (
	// Reverser reverses the digits of a number.
	Reverser = Endpoint{Name: "reverser", Path: "/reverser"}
	// Summation sums the digits of a number, one addend per digit.
	Summation = Endpoint{Name: "summation", Path: "/summation"}
)

// ReverseRequest is the body posted to /reverser. Num carries the input exactly
// as typed, including the empty string.
type ReverseRequest struct {
	Num string `json:"num"`
}

// ReverseResponse is the body returned by /reverser.
type ReverseResponse struct {
	Num *Scalar `json:"num"`
}

// SumRequest is the body posted to /summation. Each decimal digit of Num is
// one addend.
type SumRequest struct {
	Num string `json:"num"`
}

// SumResponse is the body returned by /summation.
type SumResponse struct {
	Sum *Scalar `json:"sum"`
}

// Scalar is a JSON string or number kept as its textual form. Backends are free
// to answer {"num": 4321} or {"num": "4321"}; both display as 4321.
type Scalar string

// UnmarshalJSON accepts a JSON string or number and rejects everything else.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&num); err != nil {
			return err
		}
		*s = Scalar(num.String())
		return nil
	default:
		return fmt.Errorf("expected string or number, got %s", data)
	}
}

// String returns the textual value.
func (s Scalar) String() string { return string(s) }
