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
	case RunStatusMsg:
		return m.handleRunStatus(msg)
	case RunCancelledMsg:
		return m.handleRunCancelled(msg)
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
	case "s", "S":
		if m.State == StateIdle || m.State == StateComplete || m.State == StateCancelled || m.State == StateError {
			m.State = StateStarting
			m.Status = nil
			m.Err = nil
			m = m.AddLog("Starting production...")
			return m, startProduction(m.Client, m.Spec.Brief, m.Spec.Age, m.Spec.MovieMode, m.Spec.SceneCount)
		}
	case "c", "C":
		if m.State == StateProducing && m.RunID != "" {
			m = m.AddLog("Cancelling run...")
			return m, cancelRun(m.Client, m.RunID)
		}
	}
	return m, nil
}

// handleRunStarted processes the production launch response
func (m Model) handleRunStarted(msg RunStartedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.RunID = msg.RunID
	m.State = StateProducing
	m.Connected = true
	m = m.AddLog("Run accepted: " + msg.RunID)
	return m, pollRun(m.Client, m.RunID)
}

// handleRunStatus syncs local state from the studio
func (m Model) handleRunStatus(msg RunStatusMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		return m, nil
	}
	m.Connected = true

	prev := ""
	if m.Status != nil {
		prev = m.Status.Progress.Message
	}
	m.Status = msg.Status
	if msg.Status.Progress.Message != "" && msg.Status.Progress.Message != prev {
		m = m.AddLog(msg.Status.Progress.Message)
	}

	switch msg.Status.State {
	case "completed":
		m.State = StateComplete
		m = m.AddLog("Production complete!")
	case "failed":
		m.State = StateError
	case "cancelled":
		m.State = StateCancelled
	}
	return m, nil
}

// handleRunCancelled processes the cancel response
func (m Model) handleRunCancelled(msg RunCancelledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m = m.AddLog("Cancel failed: " + msg.Err.Error())
		return m, nil
	}
	m.State = StateCancelled
	m = m.AddLog("Run cancelled")
	return m, nil
}

// handleTick polls while a run is in flight
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.State == StateProducing && m.RunID != "" {
		return m, tea.Batch(pollRun(m.Client, m.RunID), tickCmd())
	}
	return m, tickCmd()
}
