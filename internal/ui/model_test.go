package ui

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/processor"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func update(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func statuses(m Model) []StageStatus {
	out := make([]StageStatus, len(m.Stages))
	for i, sp := range m.Stages {
		out[i] = sp.Status
	}
	return out
}

func TestModelStages(t *testing.T) {
	m := NewModel("/media/movie.thd", "9.1.6", nil)
	assert.Equal(t, []StageStatus{StatusActive, StatusPending, StatusPending}, statuses(m))

	m, _ = update(t, m, TransitionMsg{State: processor.StateMetadataReady})
	assert.Equal(t, []StageStatus{StatusComplete, StatusPending, StatusPending}, statuses(m))

	m, _ = update(t, m,
		TransitionMsg{State: processor.StateDecoding},
		ProgressMsg{Stage: processor.StateDecoding, Elapsed: time.Second, Update: progress.FromSeconds(5, 10)},
	)
	assert.Equal(t, []StageStatus{StatusComplete, StatusActive, StatusPending}, statuses(m))
	assert.True(t, m.Stages[1].Seen)
	assert.Equal(t, 50.0, m.Stages[1].Update.Percent)

	m, _ = update(t, m, TransitionMsg{State: processor.StateTranscoding})
	assert.Equal(t, []StageStatus{StatusComplete, StatusComplete, StatusActive}, statuses(m))

	m, _ = update(t, m, TransitionMsg{State: processor.StateCleanup})
	assert.Equal(t, []StageStatus{StatusComplete, StatusComplete, StatusComplete}, statuses(m))
}

func TestModelFailureMarksActiveStage(t *testing.T) {
	m := NewModel("movie.thd", "5.1", nil)
	m, cmd := update(t, m,
		TransitionMsg{State: processor.StateMetadataReady},
		TransitionMsg{State: processor.StateDecoding},
		DoneMsg{Err: processor.ErrDecodeFailed},
	)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Done)
	assert.Equal(t, []StageStatus{StatusComplete, StatusError, StatusPending}, statuses(m))
	assert.Contains(t, plain(m.View()), "✗ Split failed")
}

func TestModelCancel(t *testing.T) {
	cancelled := 0
	m := NewModel("movie.thd", "5.1", func() { cancelled++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "the model waits for the run to finish")
	assert.True(t, m.Cancelling)
	assert.Contains(t, plain(m.View()), "Cancelling")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, 1, cancelled)

	m, cmd = update(t, m, DoneMsg{Err: processor.ErrInterrupted.WithCause(errors.New("context canceled"))})
	require.NotNil(t, cmd)
	assert.Contains(t, plain(m.View()), "✗ Split interrupted")
}

func TestModelView(t *testing.T) {
	m := NewModel("/media/movie.thd", "9.1.6", nil)
	m, _ = update(t, m,
		MetadataMsg{Metadata: &audio.Metadata{Format: audio.FormatTrueHD, Channels: "7.1", Analyzer: audio.AnalyzerEac3to}},
		TransitionMsg{State: processor.StateMetadataReady},
		TransitionMsg{State: processor.StateDecoding},
		ProgressMsg{Stage: processor.StateDecoding, Elapsed: 90 * time.Second, Update: progress.FromSeconds(60, 600)},
		WarningMsg{Message: "failed to read the dialnorm level"},
	)

	view := plain(m.View())
	assert.Contains(t, view, "movie.thd → 9.1.6 layout")
	assert.Contains(t, view, "TRUEHD 7.1 via eac3to")
	assert.Contains(t, view, "✓ Reading metadata")
	assert.Contains(t, view, "⚙ Decoding")
	assert.Contains(t, view, "00:01:30 >> ")
	assert.Contains(t, view, "time=00:01:00 total=00:10:00")
	assert.Contains(t, view, "○ Splitting channels")
	assert.Contains(t, view, "⚠ failed to read the dialnorm level")
	assert.Contains(t, view, "ctrl+c to cancel")
}

func TestRenderSummary(t *testing.T) {
	dir := t.TempDir()
	st := &processor.RunState{}
	for _, name := range []string{"movie.01_L.wav", "movie.02_R.wav"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, make([]byte, 3000), 0o644))
		st.Outputs = append(st.Outputs, path)
	}

	out := plain(RenderSummary(st, nil))
	assert.Contains(t, out, "Split complete: 2 channel(s)")
	assert.Contains(t, out, "movie.01_L.wav  3.0 kB")
	assert.Contains(t, out, "Total 6.0 kB in "+dir)

	assert.Empty(t, RenderSummary(nil, nil))
}
