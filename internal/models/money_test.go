package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyUnmarshalRejectsSubCent(t *testing.T) {
	for _, raw := range []string{`"99.995"`, `100.001`, `"0.005"`} {
		var m Money
		if err := json.Unmarshal([]byte(raw), &m); !errors.Is(err, ErrMoneyPrecision) {
			t.Fatalf("%s: expected precision error, got %v (value %s)", raw, err, m)
		}
	}
	for raw, want := range map[string]string{`"99.99"`: "99.99", `100`: "100.00", `"12.500"`: "12.50"} {
		var m Money
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("%s: unexpected error %v", raw, err)
		}
		if m.String() != want {
			t.Fatalf("%s: got %s want %s", raw, m, want)
		}
	}
}

func TestHasMoneyPrecision(t *testing.T) {
	if !HasMoneyPrecision(decimal.RequireFromString("150.10")) || !HasMoneyPrecision(decimal.RequireFromString("-3.5")) {
		t.Fatalf("two decimal places should be accepted")
	}
	if HasMoneyPrecision(decimal.RequireFromString("149.995")) {
		t.Fatalf("three significant decimal places should be rejected")
	}
}
