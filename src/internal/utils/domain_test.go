package utils

import "testing"

func TestMatchHostName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"macmini.local", "macmini", true},
		{"MacMini.local.", "macmini.local", true},
		{"macmini", "macmini2", false},
		{"", "", false},
		{"appletv.local", "macmini.local", false},
	}

	for _, tt := range tests {
		if got := MatchHostName(tt.a, tt.b); got != tt.want {
			t.Errorf("MatchHostName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFirstLabel(t *testing.T) {
	tests := map[string]string{
		"laptop.example.com": "laptop",
		"laptop":             "laptop",
		"":                   "",
	}

	for in, want := range tests {
		if got := FirstLabel(in); got != want {
			t.Errorf("FirstLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
