package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	t.Parallel()

	amount, ok, err := Parse("2500.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok for a populated value")
	}
	if amount.String() != "2500.5" {
		t.Fatalf("unexpected amount: %s", amount)
	}

	_, ok, err = Parse("  ")
	if err != nil {
		t.Fatalf("unexpected error for blank value: %v", err)
	}
	if ok {
		t.Fatal("blank value must report not-ok")
	}

	if _, _, err := Parse("1,000"); err == nil {
		t.Fatal("expected error for malformed value")
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	if got := String(decimal.NewFromFloat(4837.5)); got != "4837.50" {
		t.Fatalf("unexpected rendering: %s", got)
	}
}

func TestNonNegative(t *testing.T) {
	t.Parallel()

	if got := NonNegative(decimal.NewFromInt(-5)); !got.IsZero() {
		t.Fatalf("expected clamp to zero, got %s", got)
	}
	if got := NonNegative(decimal.NewFromInt(5)); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected passthrough, got %s", got)
	}
}
