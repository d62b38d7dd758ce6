package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		input       string
		want        string
		expectError bool
	}{
		{input: "10.1", want: "10.10"},
		{input: "150", want: "150.00"},
		{input: "2.345", want: "2.35"},
		{input: "2.344", want: "2.34"},
		{input: "0.005", want: "0.01"},
		{input: "0.004", expectError: true},
		{input: "0", expectError: true},
		{input: "-1.00", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeAmount(decimal.RequireFromString(tt.input))

			if tt.expectError {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if FormatMoney(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, FormatMoney(got))
			}
			if got.Exponent() != -MoneyScale {
				t.Errorf("expected scale %d, got exponent %d", MoneyScale, got.Exponent())
			}
		})
	}
}

func TestNormalizeInitialBalance(t *testing.T) {
	got, err := NormalizeInitialBalance(decimal.Zero)
	if err != nil {
		t.Fatalf("zero opening balance should be allowed, got %v", err)
	}
	if FormatMoney(got) != "0.00" {
		t.Errorf("expected 0.00, got %s", FormatMoney(got))
	}

	got, err = NormalizeInitialBalance(decimal.RequireFromString("-0.004"))
	if err != nil {
		t.Fatalf("-0.004 rounds to zero and should be allowed, got %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero, got %s", got)
	}

	if _, err := NormalizeInitialBalance(decimal.RequireFromString("-0.01")); !errors.Is(err, ErrNegativeInitialBalance) {
		t.Fatalf("expected ErrNegativeInitialBalance, got %v", err)
	}
}

func TestParseMoney(t *testing.T) {
	got, err := ParseMoney(" 150.00 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected 150, got %s", got)
	}

	if _, err := ParseMoney(""); !errors.Is(err, ErrAmountRequired) {
		t.Errorf("expected ErrAmountRequired, got %v", err)
	}

	for _, bad := range []string{"abc", "1,50", "12..3"} {
		_, err := ParseMoney(bad)
		if !errors.Is(err, ErrInvalidAmountFormat) || !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrInvalidAmountFormat for %q, got %v", bad, err)
		}
	}
}
