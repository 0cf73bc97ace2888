package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vidcheck/types"
)

// startAnalysis creates a command to kick off the analysis run
func startAnalysis(client *AnalysisClient, req types.AnalysisRequest) tea.Cmd {
	return func() tea.Msg {
		runID, err := client.Start(req)
		return RunStartedMsg{RunID: runID, Err: err}
	}
}

// pollRun creates a command to poll the run record
func pollRun(client *AnalysisClient, runID string) tea.Cmd {
	return func() tea.Msg {
		record, err := client.GetRun(runID)
		return RunUpdateMsg{Record: record, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for polling
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
