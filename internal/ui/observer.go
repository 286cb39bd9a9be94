package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/processor"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

// ProgramObserver forwards processor events to a running Bubbletea program.
type ProgramObserver struct {
	send func(tea.Msg)
}

// NewProgramObserver returns an observer that sends to p.
func NewProgramObserver(p *tea.Program) *ProgramObserver {
	return &ProgramObserver{send: p.Send}
}

// Transition sends a TransitionMsg.
func (o *ProgramObserver) Transition(to processor.State) {
	o.send(TransitionMsg{State: to})
}

// Metadata sends a MetadataMsg.
func (o *ProgramObserver) Metadata(md *audio.Metadata) {
	o.send(MetadataMsg{Metadata: md})
}

// Progress sends a ProgressMsg.
func (o *ProgramObserver) Progress(stage processor.State, elapsed time.Duration, u progress.Update) {
	o.send(ProgressMsg{Stage: stage, Elapsed: elapsed, Update: u})
}

// Warning sends a WarningMsg.
func (o *ProgramObserver) Warning(msg string) {
	o.send(WarningMsg{Message: msg})
}

// ConsoleObserver writes progress as plain text for terminals without a TUI
// and for redirected output. Each stage rewrites one line with '\r'.
type ConsoleObserver struct {
	mu      sync.Mutex
	w       io.Writer
	inLine  bool
	current processor.State
}

// NewConsoleObserver returns an observer writing to w.
func NewConsoleObserver(w io.Writer) *ConsoleObserver {
	return &ConsoleObserver{w: w}
}

// Transition ends any open progress line and titles the decode and
// transcode stages.
func (o *ConsoleObserver) Transition(to processor.State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.endLine()
	o.current = to
	switch to {
	case processor.StateDecoding, processor.StateTranscoding:
		fmt.Fprintf(o.w, "%s\n", stageTitle(to))
	}
}

// Metadata prints a one-line source summary.
func (o *ConsoleObserver) Metadata(md *audio.Metadata) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.endLine()
	fmt.Fprintf(o.w, "Source: %s\n", md.Summary())
}

// Progress redraws the progress line. Updates from a stage other than the
// current one are dropped.
func (o *ConsoleObserver) Progress(stage processor.State, elapsed time.Duration, u progress.Update) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if stage != o.current {
		return
	}
	fmt.Fprintf(o.w, "\r%s", progress.Render(elapsed, u))
	o.inLine = true
}

// Warning prints msg on its own line.
func (o *ConsoleObserver) Warning(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.endLine()
	fmt.Fprintf(o.w, "Warning: %s\n", msg)
}

// Close terminates a progress line left open by the last update.
func (o *ConsoleObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.endLine()
}

func (o *ConsoleObserver) endLine() {
	if o.inLine {
		fmt.Fprintln(o.w)
		o.inLine = false
	}
}
