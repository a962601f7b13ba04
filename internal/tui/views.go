package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cinemax/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return styles.SpinnerStyle.Render(m.spinner.View()) + " Loading..."
	}

	if m.ShowHelp {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTabs(),
			m.renderHelp(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.renderBody(),
		m.renderFooter(),
	)
}

func (m Model) renderBody() string {
	list := m.activeList()
	if !m.ShowDetails {
		return list.View()
	}
	if m.Width < MinSplitWidth {
		return m.Inspector.View()
	}
	list.SetFocused(false)
	defer list.SetFocused(true)
	return lipgloss.JoinHorizontal(lipgloss.Top, list.View(), m.Inspector.View())
}

// renderTabs renders the category bar, scrolled so the active tab is visible
func (m Model) renderTabs() string {
	rendered := make([]string, len(m.categories))
	for i, cat := range m.categories {
		style := styles.TabStyle
		if i == m.active {
			style = styles.ActiveTabStyle
		}
		rendered[i] = style.Render(cat.Title())
	}

	// Drop tabs from the left until the active one fits
	start := 0
	for start < m.active && lipgloss.Width(strings.Join(rendered[start:m.active+1], "")) > m.Width {
		start++
	}
	line := strings.Join(rendered[start:], "")
	if m.Width > 0 && lipgloss.Width(line) > m.Width {
		line = lipgloss.NewStyle().MaxWidth(m.Width).Render(line)
	}
	return line
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return style.Render(styles.Truncate(m.StatusMsg, m.Width))
	}
	return m.help.ShortHelpView(Keys.ShortHelp())
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, group := range Keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(styles.HelpKeyStyle.Render(styles.Truncate(h.Key, 10)))
			b.WriteString(strings.Repeat(" ", max(12-lipgloss.Width(h.Key), 1)))
			b.WriteString(styles.HelpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render("Lists load more pages as you scroll. Press ? to close."))
	return styles.InactiveBorder.Padding(1, 2).Render(b.String())
}
