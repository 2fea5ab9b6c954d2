package utils

import "testing"

func TestBaseName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"logs/2026/app.log", "app.log"},
		{"app.log", "app.log"},
		{"logs/", "logs"},
		{"logs/2026/", "2026"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := BaseName(tt.key); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestParentPrefix(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"logs/2026/app.log", "logs/2026/"},
		{"logs/2026/", "logs/"},
		{"app.log", ""},
		{"logs/", ""},
	}

	for _, tt := range tests {
		if got := ParentPrefix(tt.key); got != tt.want {
			t.Errorf("ParentPrefix(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
