package model

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"float", 5000.0, 5000, true},
		{"int", 1200, 1200, true},
		{"json number", json.Number("4500.5"), 4500.5, true},
		{"plain string", "5000", 5000, true},
		{"grouped rupees", "₹5,000", 5000, true},
		{"spaced symbol", "₹ 4500.50", 4500.5, true},
		{"unit suffix", "5000/month", 5000, true},
		{"empty string", "", 0, false},
		{"words", "on request", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseAmount(%v) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{5000, "5000"},
		{4500.5, "4500.50"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.input); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
