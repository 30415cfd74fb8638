package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// startProduction creates a command that launches the production run
func startProduction(client *StudioClient, brief string, age int, movieMode bool, sceneCount int) tea.Cmd {
	return func() tea.Msg {
		runID, err := client.StartProduction(brief, age, movieMode, sceneCount)
		return RunStartedMsg{RunID: runID, Err: err}
	}
}

// pollRun creates a command to poll the run status
func pollRun(client *StudioClient, runID string) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetRun(runID)
		return RunStatusMsg{Status: status, Err: err}
	}
}

// cancelRun creates a command that aborts the run
func cancelRun(client *StudioClient, runID string) tea.Cmd {
	return func() tea.Msg {
		return RunCancelledMsg{Err: client.CancelRun(runID)}
	}
}

// tickCmd creates a command that ticks every 500ms for polling
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
