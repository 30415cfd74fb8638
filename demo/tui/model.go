package tui

import (
	"time"

	"tooncraft/types"

	tea "github.com/charmbracelet/bubbletea"
)

// State represents the TUI state machine
type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateProducing State = "producing"
	StateComplete  State = "complete"
	StateCancelled State = "cancelled"
	StateError     State = "error"
)

// RunStatus is the JSON response from the production status endpoint
type RunStatus struct {
	RunID             string                   `json:"runId"`
	State             string                   `json:"state"`
	Progress          types.GenerationProgress `json:"progress"`
	VideoAccessDenied bool                     `json:"videoAccessDenied,omitempty"`
	Script            *types.Script            `json:"script,omitempty"`
	Error             string                   `json:"error,omitempty"`
}

// ProductionSpec is what the demo will ask the studio to produce
type ProductionSpec struct {
	Brief      string
	Age        int
	MovieMode  bool
	SceneCount int
}

// Model represents the TUI client state (thin client)
type Model struct {
	Client *StudioClient
	Spec   ProductionSpec

	State  State
	RunID  string
	Status *RunStatus
	Logs   []string
	Err    error

	// Connection status
	Connected bool
}

// NewModel creates a new TUI model
func NewModel(studioURL string, spec ProductionSpec) Model {
	return Model{
		Client: NewStudioClient(studioURL),
		Spec:   spec,
		State:  StateIdle,
		Logs:   make([]string, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// AddLog appends a timestamped line to the activity log, keeping the last 8
func (m Model) AddLog(message string) Model {
	entry := time.Now().Format("15:04:05") + "  " + message
	m.Logs = append(m.Logs, entry)
	if len(m.Logs) > 8 {
		m.Logs = m.Logs[len(m.Logs)-8:]
	}
	return m
}
