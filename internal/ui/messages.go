package ui

import (
	"time"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/processor"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

// TransitionMsg reports that the run entered a new state
type TransitionMsg struct {
	State processor.State
}

// MetadataMsg carries the resolved or cached stream metadata
type MetadataMsg struct {
	Metadata *audio.Metadata
}

// ProgressMsg is a progress update for the decode or transcode stage
type ProgressMsg struct {
	Stage   processor.State
	Elapsed time.Duration
	Update  progress.Update
}

// WarningMsg carries an advisory message that does not stop the run
type WarningMsg struct {
	Message string
}

// DoneMsg indicates the run has finished, successfully or not
type DoneMsg struct {
	State *processor.RunState
	Err   error
}
