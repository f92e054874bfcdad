package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(nope) = %q, want Nightfox", got)
	}
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate) = %q", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	seen := map[string]bool{}
	name := names[0]
	for range names {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != names[0] || len(seen) != len(names) {
		t.Fatalf("NextTheme did not cycle through %v", names)
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestStatusStyle_CaseInsensitive(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()

	tests := []struct {
		status string
		want   string
	}{
		{"Alive", th.StatusColors["alive"]},
		{" DEAD ", th.StatusColors["dead"]},
		{"unknown", th.StatusColors["unknown"]},
		{"zombie", th.Muted},
	}
	for _, tt := range tests {
		got := styles.StatusStyle(tt.status).GetBackground()
		if got != lipgloss.Color(tt.want) {
			t.Fatalf("StatusStyle(%q) background = %v, want %v", tt.status, got, tt.want)
		}
	}
}
