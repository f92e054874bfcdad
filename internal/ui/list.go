package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dossier/internal/catalog"
)

const (
	heartFull  = "♥"
	heartEmpty = "♡"
)

// renderList renders the visible window of the current view's list, or the
// empty-state message.
func (m Model) renderList() string {
	p := m.current()
	rows := m.listRows()
	entries := p.entries()
	styles := m.theme.Styles()

	if len(entries) == 0 {
		return lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(m.emptyMessage(p)))
	}

	start := clamp(p.offset, 0, len(entries)-1)
	end := start + rows
	if end > len(entries) {
		end = len(entries)
	}

	lines := make([]string, 0, rows)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(p, entries[i], i == p.cursor))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) emptyMessage(p *pane) string {
	switch {
	case p.loading():
		return m.spinner.View() + " Loading characters"
	case p.err() != nil:
		return "Nothing to show: " + describeError(p.err())
	case p.term() != "":
		return fmt.Sprintf("No characters match %q", p.term())
	case p.kind == ViewFavorites:
		return "No liked characters yet"
	default:
		return "No characters"
	}
}

// renderRow renders one list line: cursor, favorite marker, name, status
// badge and species.
func (m Model) renderRow(p *pane, entry catalog.Entry, selected bool) string {
	styles := m.theme.Styles()

	marker := "  "
	if selected {
		marker = styles.AccentText.Render("▸ ")
	}

	heart := m.heart(p, entry.ID)

	nameWidth := 32
	if m.width < LayoutCompactWidth {
		nameWidth = m.width - 8
	}
	name := padRight(truncate(entry.Name, nameWidth), nameWidth)
	if selected {
		name = styles.Selected.Render(name)
	} else {
		name = styles.Text.Render(name)
	}

	line := marker + heart + " " + name
	if m.width >= LayoutCompactWidth {
		status := catalog.Detail(entry.Status)
		line += " " + styles.StatusStyle(status).Render(padRight(status, 7))
		line += " " + styles.MutedText.Render(truncate(catalog.Detail(entry.Species), 20))
	}
	return line
}

// heart renders the favorite marker. A favorite this view cannot clear is
// drawn dimmed.
func (m Model) heart(p *pane, id int) string {
	styles := m.theme.Styles()
	if !p.favs.IsFavorite(id) {
		return styles.FaintText.Render(heartEmpty)
	}
	if !p.caps.AllowUnfavorite {
		return styles.HeartDisabled.Render(heartFull)
	}
	return styles.Heart.Render(heartFull)
}
