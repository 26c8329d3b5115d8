package models

import (
	"encoding/json"
	"testing"
)

func TestPriceDisplay(t *testing.T) {
	tests := []struct {
		name  string
		price Price
		want  string
	}{
		{"bare number", "5000", "$5000.-"},
		{"bare decimal", "4500.5", "$4500.5.-"},
		{"already rendered", "$5000.-", "$5000.-"},
		{"currency without suffix", "$12", "$12"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.price.Display()
			if got != tc.want {
				t.Errorf("Display() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPriceDisplayIdempotent(t *testing.T) {
	inputs := []Price{"5000", "$5000.-", "", "12.5"}
	for _, p := range inputs {
		once := p.Display()
		twice := Price(once).Display()
		if once != twice {
			t.Errorf("Display() not idempotent for %q: first %q, second %q", p, once, twice)
		}
	}
}

func TestPriceUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Price
	}{
		{"string", `"$5000.-"`, "$5000.-"},
		{"integer", `5000`, "5000"},
		{"float", `4500.5`, "4500.5"},
		{"empty string", `""`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p Price
			if err := json.Unmarshal([]byte(tc.raw), &p); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tc.raw, err)
			}
			if p != tc.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tc.raw, p, tc.want)
			}
		})
	}

	var p Price
	if err := json.Unmarshal([]byte(`true`), &p); err == nil {
		t.Error("Unmarshal(true) should fail")
	}
}

func TestPriceFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want Price
	}{
		{"nil", nil, ""},
		{"string", "$5000.-", "$5000.-"},
		{"float64", float64(5000), "5000"},
		{"int", 4500, "4500"},
		{"int64", int64(12), "12"},
		{"unsupported", []string{"x"}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PriceFromValue(tc.in)
			if got != tc.want {
				t.Errorf("PriceFromValue(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPriceIsZero(t *testing.T) {
	if !Price("").IsZero() {
		t.Error("empty price should be zero")
	}
	if !Price("  ").IsZero() {
		t.Error("whitespace price should be zero")
	}
	if Price("5000").IsZero() {
		t.Error("set price should not be zero")
	}
}
