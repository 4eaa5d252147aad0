package valueobject

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "integer", input: "100", want: "100"},
		{name: "dot decimal", input: "12.5", want: "12.5"},
		{name: "comma decimal", input: "12,50", want: "12.5"},
		{name: "rounds half up", input: "0.125", want: "0.13"},
		{name: "rounds down", input: "0.124", want: "0.12"},
		{name: "zero is allowed", input: "0", want: "0"},
		{name: "surrounding spaces", input: "  7,25 ", want: "7.25"},
		{name: "brazilian thousands", input: "1.234,56", want: "1234.56"},
		{name: "english thousands", input: "1,234.56", want: "1234.56"},
		{name: "empty", input: "", wantErr: ErrAmountEmpty},
		{name: "blank", input: "   ", wantErr: ErrAmountEmpty},
		{name: "letters", input: "abc", wantErr: ErrAmountNotNumeric},
		{name: "trailing letters", input: "12abc", wantErr: ErrAmountNotNumeric},
		{name: "exponent", input: "1e3", wantErr: ErrAmountNotNumeric},
		{name: "only sign", input: "-", wantErr: ErrAmountNotNumeric},
		{name: "negative", input: "-5", wantErr: ErrAmountNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"100.00", "100", true},
		{" 42.10 ", "42.1", true},
		{"", "0", false},
		{"N/A", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CoerceAmount(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("CoerceAmount(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got.String() != tt.want {
				t.Errorf("CoerceAmount(%q) = %s, want %s", tt.raw, got.String(), tt.want)
			}
		})
	}
}
