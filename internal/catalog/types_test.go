package catalog

import (
	"testing"
	"time"
)

func TestDetailFallsBackToUnknown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Unknown"},
		{"   ", "Unknown"},
		{"Human", "Human"},
	}
	for _, tt := range tests {
		if got := Detail(tt.in); got != tt.want {
			t.Errorf("Detail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsedCreated(t *testing.T) {
	e := Entry{Created: "2017-11-04T18:48:46.250Z"}
	got := e.ParsedCreated()
	if got.Year() != 2017 || got.Month() != time.November || got.Day() != 4 {
		t.Fatalf("ParsedCreated = %v, want 2017-11-04", got)
	}
	if !(Entry{Created: "yesterday"}).ParsedCreated().IsZero() {
		t.Fatalf("ParsedCreated should be zero for unparseable input")
	}
}
