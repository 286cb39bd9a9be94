package processor

import (
	"time"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

// State is a step of a run.
type State int

const (
	StateInit State = iota
	StateMetadataReady
	StateDecoding
	StateTranscoding
	StateCleanup
	StateSuccess
	StateFailed
)

var stateNames = [...]string{
	StateInit:          "init",
	StateMetadataReady: "metadata ready",
	StateDecoding:      "decoding",
	StateTranscoding:   "transcoding",
	StateCleanup:       "cleanup",
	StateSuccess:       "success",
	StateFailed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Observer receives run events. Calls are never concurrent but may come from
// a goroutine other than the caller's; they must not block for long.
type Observer interface {
	Transition(to State)
	Metadata(md *audio.Metadata)
	Progress(stage State, elapsed time.Duration, u progress.Update)
	Warning(msg string)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Transition(State) {}

func (NopObserver) Metadata(*audio.Metadata) {}

func (NopObserver) Progress(State, time.Duration, progress.Update) {}

func (NopObserver) Warning(string) {}

// StageTiming records how long a stage ran.
type StageTiming struct {
	Stage    State
	Duration time.Duration
}

// RunState is the working record of one run.
type RunState struct {
	RunID string
	State State

	Metadata *audio.Metadata
	Layout   audio.Layout
	Channels []audio.Channel

	// Derived run parameters
	Delay    int     // samples, after decoder compensation
	Volume   int     // dB
	Duration float64 // seconds, 0 when unknown

	RawPath     string
	SidecarPath string
	Outputs     []string

	Cached   bool // metadata came from the sidecar
	Resumed  bool // decode skipped because the raw file existed
	Timings  []StageTiming
	Warnings []string
}
