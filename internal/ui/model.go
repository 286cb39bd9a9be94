// Package ui provides the Bubbletea terminal user interface for atmosplit
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/processor"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

// StageStatus is the display state of one pipeline stage
type StageStatus int

const (
	StatusPending StageStatus = iota
	StatusActive
	StatusComplete
	StatusError
)

// StageProgress tracks one stage of the run
type StageProgress struct {
	Stage   processor.State
	Status  StageStatus
	Update  progress.Update
	Elapsed time.Duration
	Seen    bool // at least one progress update arrived
}

// stages are the pipeline stages shown in the UI, in run order
var stages = []processor.State{
	processor.StateMetadataReady,
	processor.StateDecoding,
	processor.StateTranscoding,
}

// Model is the Bubbletea model for a single run
type Model struct {
	Input    string
	Layout   string
	Stages   []StageProgress
	Metadata *audio.Metadata
	Warnings []string

	// Final state, set by DoneMsg
	Done   bool
	Result *processor.RunState
	Err    error

	// Cancelling is set once the user asked to stop; the model waits for
	// the run to wind down and report DoneMsg
	Cancelling bool
	cancel     context.CancelFunc

	StartTime time.Time

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a model for a run over input. cancel stops the run.
func NewModel(input, layout string, cancel context.CancelFunc) Model {
	m := Model{
		Input:     input,
		Layout:    layout,
		Stages:    make([]StageProgress, len(stages)),
		cancel:    cancel,
		StartTime: time.Now(),
	}
	for i, s := range stages {
		m.Stages[i] = StageProgress{Stage: s}
	}
	// Metadata resolution starts as soon as the run does
	m.Stages[0].Status = StatusActive
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.Done {
				return m, tea.Quit
			}
			if !m.Cancelling && m.cancel != nil {
				m.Cancelling = true
				m.cancel()
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TransitionMsg:
		m = m.transition(msg.State)

	case MetadataMsg:
		m.Metadata = msg.Metadata

	case ProgressMsg:
		if sp := m.stage(msg.Stage); sp != nil {
			sp.Update = msg.Update
			sp.Elapsed = msg.Elapsed
			sp.Seen = true
		}

	case WarningMsg:
		m.Warnings = append(m.Warnings, msg.Message)

	case DoneMsg:
		m.Done = true
		m.Result = msg.State
		m.Err = msg.Err
		if msg.Err != nil {
			m = m.transition(processor.StateFailed)
		}
		return m, tea.Quit
	}

	return m, nil
}

// transition marks the stages before to as complete and to as active. On
// failure the active stage is marked as failed.
func (m Model) transition(to processor.State) Model {
	for i := range m.Stages {
		sp := &m.Stages[i]
		switch {
		case to == processor.StateFailed:
			if sp.Status == StatusActive {
				sp.Status = StatusError
			}
		case sp.Stage < to:
			sp.Status = StatusComplete
		case sp.Stage == to && to != processor.StateMetadataReady:
			sp.Status = StatusActive
		}
	}
	// Metadata has no running phase; it completes on arrival
	if to == processor.StateMetadataReady {
		m.Stages[0].Status = StatusComplete
	}
	return m
}

func (m *Model) stage(s processor.State) *StageProgress {
	for i := range m.Stages {
		if m.Stages[i].Stage == s {
			return &m.Stages[i]
		}
	}
	return nil
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return renderCompletionView(m)
	}
	return renderProcessingView(m)
}
