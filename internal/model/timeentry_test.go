package model

import (
	"errors"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2h", 2},
		{"1.5h", 1.5},
		{"90m", 1.5},
		{"45min", 0.75},
		{"0.25", 0.25},
		{" 3 ", 3},
		{"2H", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if err != nil {
				t.Fatalf("ParseDuration(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDurationRejects(t *testing.T) {
	for _, input := range []string{"", "0", "-1h", "0m", "abc", "h", "2hh"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDuration(input)
			var invalid *InvalidDurationError
			if !errors.As(err, &invalid) {
				t.Errorf("ParseDuration(%q) err = %v, want InvalidDurationError", input, err)
			}
		})
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{2, "2h"},
		{1.5, "1.5h"},
		{0.25, "0.25h"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.hours); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}
