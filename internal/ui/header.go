package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dossier/internal/browse"
	"github.com/five82/dossier/internal/catalog"
)

// renderMain renders the header, search bar, list and footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")

	b.WriteString(m.renderList())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the logo and the view tabs.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{styles.Logo.Render("dossier")}
	for _, view := range []View{ViewBrowse, ViewFavorites} {
		label := fmt.Sprintf("%d %s", int(view)+1, view)
		if view == ViewFavorites {
			label = fmt.Sprintf("%s (%d)", label, m.panes[ViewFavorites].favs.Snapshot().Len())
		}
		if view == m.active {
			parts = append(parts, styles.Selected.Render(" "+label+" "))
		} else {
			parts = append(parts, bg.Render(" "+label+" ", styles.MutedText))
		}
	}

	right := bg.Render(m.theme.Name, styles.FaintText)
	left := bg.Join(parts, "  ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

func (m Model) renderSearchBar() string {
	p := m.current()
	styles := m.theme.Styles()
	if p.input.Focused() || p.input.Value() != "" {
		line := p.input.View()
		if p.debounce.Pending() {
			line += styles.FaintText.Render("  …")
		}
		return line
	}
	return styles.FaintText.Render("/ Search by name")
}

// renderFooter renders the list status and the short help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	status := m.notice
	if status == "" {
		status = m.statusLine()
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		hints = append(hints, h.Key+" "+strings.ToLower(h.Desc))
	}

	line := bg.Render(status, styles.MutedText)
	help := strings.Join(hints, " · ")
	if lipgloss.Width(status)+lipgloss.Width(help)+5 <= m.width {
		line += bg.Spaces(3) + bg.Render(help, styles.FaintText)
	}
	return styles.Footer.Width(m.width).Render(line)
}

// statusLine summarises what the current list shows.
func (m Model) statusLine() string {
	p := m.current()
	count := len(p.entries())

	if err := p.err(); err != nil {
		return "Error: " + describeError(err) + " (r to retry)"
	}
	if p.loading() {
		return m.spinner.View() + " Loading"
	}
	if term := p.term(); term != "" {
		return fmt.Sprintf("%d matching %q", count, term)
	}
	if p.browse == nil {
		return fmt.Sprintf("%d favorites", count)
	}

	state := p.browse.View()
	switch state.Phase {
	case browse.Exhausted:
		return fmt.Sprintf("All %d characters loaded", count)
	default:
		if state.Total > 0 {
			return fmt.Sprintf("%d of %d characters", count, state.Total)
		}
		return fmt.Sprintf("%d characters", count)
	}
}

// describeError turns a catalog or storage failure into a short message.
func describeError(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNetwork):
		return "catalog unreachable"
	case errors.Is(err, catalog.ErrDecode):
		return "unexpected catalog response"
	case errors.Is(err, catalog.ErrNotFound):
		return "not found"
	default:
		return err.Error()
	}
}
