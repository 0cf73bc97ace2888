package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case RunStartedMsg:
		return m.handleRunStarted(msg)
	case RunUpdateMsg:
		return m.handleRunUpdate(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a", "A":
		if !m.Started {
			m.Started = true
			return m, startAnalysis(m.Client, m.Request)
		}
	}
	return m, nil
}

// handleRunStarted processes the start acknowledgement
func (m Model) handleRunStarted(msg RunStartedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.RunID = msg.RunID
	m.Connected = true
	return m, pollRun(m.Client, m.RunID)
}

// handleRunUpdate processes a polled run record
func (m Model) handleRunUpdate(msg RunUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		return m, nil
	}
	m.Connected = true
	m.Record = msg.Record
	return m, nil
}

// handleTick polls the run while it is in flight
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.RunID == "" || m.state().Terminal() {
		return m, tickCmd()
	}
	return m, tea.Batch(pollRun(m.Client, m.RunID), tickCmd())
}
