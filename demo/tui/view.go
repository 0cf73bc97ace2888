package tui

import (
	"fmt"
	"strings"

	"vidcheck/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("🔍 VidCheck Analysis Demo"))
	b.WriteString("\n\n")

	// Video under analysis
	b.WriteString(InfoStyle.Render(fmt.Sprintf("🎬 Video: %s", m.Request.VideoID)))
	if m.Request.Title != "" {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("  (%s)", m.Request.Title)))
	}
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	if m.RunID != "" {
		b.WriteString(InfoStyle.Render("🏷️  Run: " + m.RunID))
		b.WriteString("\n\n")
	}

	// Server-side logs
	if m.Record != nil && len(m.Record.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		logs := m.Record.Logs
		if len(logs) > 8 {
			logs = logs[len(logs)-8:]
		}
		for _, entry := range logs {
			b.WriteString(InfoStyle.Render("   " + entry.Message))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Verdict
	if m.state() == types.RunDone && m.Record.Verdict != nil {
		b.WriteString(BoxStyle.Render(m.formatVerdict()))
		b.WriteString("\n\n")
	}

	// Help text
	if !m.Started {
		b.WriteString(InfoStyle.Render("Press 'a' to start analysis | Press 'q' or Ctrl+C to quit"))
	} else if !m.state().Terminal() {
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	} else {
		b.WriteString(HighlightStyle.Render("Press 'q' or Ctrl+C to exit"))
	}

	return b.String()
}
