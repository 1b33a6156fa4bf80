package repository

import "testing"

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"park", "%park%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`a\b`, `%a\\b%`},
		{"", "%%"},
	}
	for _, tt := range tests {
		if got := containsPattern(tt.in); got != tt.want {
			t.Errorf("containsPattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
