package util

import (
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{name: "integer", v: 5, want: "5"},
		{name: "zero", v: 0, want: "0"},
		{name: "fraction", v: 0.25, want: "0.25"},
		{name: "tiny residual", v: 3.2e-12, want: "3.2e-12"},
		{name: "negative", v: -2, want: "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.v); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "milliseconds", d: 340 * time.Millisecond, want: "340ms"},
		{name: "seconds", d: 2400 * time.Millisecond, want: "2.4s"},
		{name: "minutes", d: 72 * time.Second, want: "1m12s"},
		{name: "negative", d: -time.Second, want: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
