package backend

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestReverse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1234", "4321", false},
		{"1200", "21", false},
		{"0", "0", false},
		{"000", "0", false},
		{"7", "7", false},
		{"-12", "-21", false},
		{"+12", "21", false},
		{"-100", "-1", false},
		{"-0", "0", false},
		{"98765432109876543210", "1234567890123456789", false},
		{"", "", true},
		{"-", "", true},
		{"12.5", "", true},
		{"1e3", "", true},
		{"12-", "", true},
		{" 12", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Reverse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Reverse(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reverse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Reverse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSumDigits(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1234", "10", false},
		{"", "0", false},
		{"0000", "0", false},
		{"99999999999999999999", "180", false},
		{"-12", "", true},
		{"1.5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SumDigits(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SumDigits(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SumDigits(%q) error: %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("SumDigits(%q) = %v, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSumValues(t *testing.T) {
	got, err := SumValues([]string{"1", "22", "-3", "+4", "100000000000000000000"})
	if err != nil {
		t.Fatalf("SumValues error: %v", err)
	}
	if got.String() != "100000000000000000024" {
		t.Errorf("SumValues = %v", got)
	}

	if _, err := SumValues([]string{"1", "x"}); err == nil {
		t.Error("expected error for non-integer element")
	}
}

func TestDigits_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	digitString := gen.NumString()

	properties.Property("reversing twice restores a number without trailing zeros", prop.ForAll(
		func(s string) bool {
			n := strings.TrimRight(strings.TrimLeft(s, "0"), "0")
			if n == "" {
				return true
			}
			once, err := Reverse(n)
			if err != nil {
				return false
			}
			twice, err := Reverse(once)
			return err == nil && twice == n
		},
		digitString,
	))

	properties.Property("reverse never starts with zero unless it is zero", prop.ForAll(
		func(s string) bool {
			if s == "" {
				return true
			}
			out, err := Reverse(s)
			return err == nil && (out == "0" || out[0] != '0')
		},
		digitString,
	))

	properties.Property("digit sum is additive over concatenation", prop.ForAll(
		func(a, b string) bool {
			sa, err1 := SumDigits(a)
			sb, err2 := SumDigits(b)
			sab, err3 := SumDigits(a + b)
			if err1 != nil || err2 != nil || err3 != nil {
				return false
			}
			return sab.Cmp(sa.Add(sa, sb)) == 0
		},
		digitString, digitString,
	))

	properties.TestingRun(t)
}
