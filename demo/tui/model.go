package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"vidcheck/types"
)

// Model represents the TUI client state (thin polling client)
type Model struct {
	Client  *AnalysisClient
	Request types.AnalysisRequest

	// Local UI state (synced from the server)
	RunID  string
	Record *types.RunRecord
	Err    error

	Connected bool
	Started   bool
}

// NewModel creates a new TUI model
func NewModel(serverURL string, req types.AnalysisRequest) Model {
	return Model{
		Client:  NewAnalysisClient(serverURL),
		Request: req,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// state returns the synced run state, or pending before the first poll
func (m Model) state() types.RunState {
	if m.Record == nil {
		return types.RunPending
	}
	return m.Record.State
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	if m.Err != nil {
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", m.Err))
	}
	if !m.Started {
		return HighlightStyle.Render("👋 Ready to analyze!") + "\n\n" +
			InfoStyle.Render("Press 'a' to start the analysis")
	}

	switch m.state() {
	case types.RunPending:
		return StatusStyle.Render("⏳ Waiting for the run to start...")
	case types.RunTextStage:
		return StatusStyle.Render("📋 Extracting and verifying claims...")
	case types.RunMediaStage:
		return StatusStyle.Render("🎞️  Analyzing frames and audio...")
	case types.RunAggregating:
		return StatusStyle.Render("⚖️  Aggregating module results...")
	case types.RunDone:
		return HighlightStyle.Render("✅ ANALYSIS COMPLETE")
	case types.RunFailed:
		msg := "analysis failed"
		if m.Record != nil && m.Record.Error != "" {
			msg = m.Record.Error
		}
		return ErrorStyle.Render("❌ " + msg)
	default:
		return ""
	}
}

// formatVerdict formats the final verdict for display
func (m Model) formatVerdict() string {
	verdict := m.Record.Verdict
	var b strings.Builder

	b.WriteString(HighlightStyle.Render("Final Verdict"))
	b.WriteString("\n\n")

	if verdict.IsFakeNews {
		b.WriteString(ErrorStyle.Render("🚨 FAKE NEWS SIGNALS DETECTED"))
	} else {
		b.WriteString(StatusStyle.Render("✅ No fake news signals"))
	}
	b.WriteString(fmt.Sprintf("\nConfidence: %s\n\n", strings.ToUpper(verdict.ConfidenceLevel)))

	b.WriteString(fmt.Sprintf("Reasoning: %s\n\n", verdict.OverallReasoning))
	b.WriteString(fmt.Sprintf("Text:  %s\n", verdict.TextSummary))
	b.WriteString(fmt.Sprintf("Image: %s\n", verdict.ImageSummary))
	b.WriteString(fmt.Sprintf("Audio: %s\n", verdict.AudioSummary))

	if len(verdict.KeyEvidence) > 0 {
		b.WriteString("\nKey evidence:\n")
		for _, ev := range verdict.KeyEvidence {
			line := ev
			if len(line) > 120 {
				line = line[:120] + "..."
			}
			b.WriteString("  • " + line + "\n")
		}
	}
	if verdict.Recommendation != "" {
		b.WriteString("\n" + WarningStyle.Render(verdict.Recommendation) + "\n")
	}

	return b.String()
}
