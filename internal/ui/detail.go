package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dossier/internal/catalog"
	"github.com/five82/dossier/internal/overlay"
)

// layoutDetail sizes the detail viewport for the current window.
func (m *Model) layoutDetail() {
	width := DetailPanelWidth
	if m.width-6 < width {
		width = m.width - 6
	}
	if width < 20 {
		width = 20
	}
	height := m.height - 6
	if height < 3 {
		height = 3
	}
	m.detail.Width = width
	m.detail.Height = height
}

// setDetailContent fills the detail viewport for entry.
func (m *Model) setDetailContent(entry catalog.Entry) {
	m.detail.SetContent(m.detailBody(m.current(), entry))
	m.detail.GotoTop()
}

// detailBody renders the fields of entry. Blank fields show "Unknown".
func (m Model) detailBody(p *pane, entry catalog.Entry) string {
	styles := m.theme.Styles()
	label := func(s string) string {
		return styles.MutedText.Render(padRight(s, 10))
	}

	var b strings.Builder
	b.WriteString(m.heart(p, entry.ID))
	b.WriteString(" ")
	b.WriteString(styles.Text.Bold(true).Render(catalog.Detail(entry.Name)))
	b.WriteString("\n\n")

	status := catalog.Detail(entry.Status)
	rows := [][2]string{
		{"Species", catalog.Detail(entry.Species)},
		{"Type", catalog.Detail(entry.Type)},
		{"Gender", catalog.Detail(entry.Gender)},
		{"Origin", catalog.Detail(entry.Origin.Name)},
		{"Location", catalog.Detail(entry.Location.Name)},
		{"Episodes", fmt.Sprintf("%d", entry.EpisodeCount())},
	}
	b.WriteString(label("Status"))
	b.WriteString(styles.StatusStyle(status).Render(status))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(label(row[0]))
		b.WriteString(styles.Text.Render(row[1]))
		b.WriteString("\n")
	}
	if created := entry.ParsedCreated(); !created.IsZero() {
		b.WriteString(label("Created"))
		b.WriteString(styles.Text.Render(created.Format("2006-01-02")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case !p.favs.IsFavorite(entry.ID):
		b.WriteString(styles.FaintText.Render("f add to favorites · esc close"))
	case p.caps.AllowUnfavorite:
		b.WriteString(styles.FaintText.Render("f remove from favorites · esc close"))
	default:
		b.WriteString(styles.FaintText.Render("favorite · esc close"))
	}
	return b.String()
}

// renderDetail renders the detail panel centred over the screen. The border
// is muted while the panel animates in or out.
func (m Model) renderDetail() string {
	p := m.current()
	state := p.overlay.State()
	styles := m.theme.Styles()

	panel := styles.Panel
	if state.Status == overlay.Hiding || state.Phase == overlay.Entering {
		panel = styles.PanelMuted
	}

	content := panel.Width(m.detail.Width + 2).Render(m.detail.View())
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
