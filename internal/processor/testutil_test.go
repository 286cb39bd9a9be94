package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/config"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

// gstScript writes a raw file to the filesink location and reports progress.
const gstScript = `echo "$@" >> %[1]q/gst.calls
out=""
for a in "$@"; do case "$a" in location=*) out="${a#location=}";; esac; done
out="${out#\"}"; out="${out%%\"}"
echo "Setting pipeline to PAUSED ..."
echo "Pipeline is PREROLLING ..."
echo "progressreport0 (00:00:01): 5 / 10 seconds (50,0 %%)"
printf 'RAW' > "$out"
echo "progressreport0 (00:00:02): 10 / 10 seconds (100,0 %%)"
echo "Setting pipeline to NULL ..."`

const soxScript = `echo "$@" > %[1]q/sox.args
printf 'PCM'`

// ffmpegScript drains stdin, creates every "-y" output and reports a
// position short of the end of the stream.
const ffmpegScript = `echo "$@" > %[1]q/ffmpeg.args
cat > /dev/null
prev=""
for a in "$@"; do
	if [ "$prev" = "-y" ]; then printf 'WAV' > "$a"; fi
	prev="$a"
done
printf 'size=N/A time=00:00:05.00 bitrate=N/A speed=1x\r' >&2`

type fixture struct {
	dir   string
	input string
	tools config.Tools
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not supported on windows")
	}

	dir := t.TempDir()
	f := &fixture{dir: dir, input: filepath.Join(dir, "movie.thd")}

	header := make([]byte, 4*audio.HeaderSize)
	copy(header, []byte{0xF8, 0x72, 0x6F, 0xBA})
	require.NoError(t, os.WriteFile(f.input, header, 0o644))

	f.tools = config.DefaultTools()
	f.tools.GstPluginPath = filepath.Join(dir, "gst-plugins")
	f.tools.GstLaunch = f.script(t, "gst-launch-1.0", gstScript)
	f.tools.Sox = f.script(t, "sox", soxScript)
	f.tools.FFmpeg = f.script(t, "ffmpeg", ffmpegScript)
	return f
}

// script writes an executable shell script. A body that refers to %[1]
// is a format string whose argument is the fixture directory.
func (f *fixture) script(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	if strings.Contains(body, "%[1]") {
		body = fmt.Sprintf(body, f.dir)
	}
	content := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(f.path(name))
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func (f *fixture) request() config.Request {
	return config.Request{
		Input:  f.input,
		Bits:   24,
		Layout: audio.DefaultLayout,
	}
}

func (f *fixture) processor(r MetadataResolver, obs Observer) *Processor {
	return New(f.tools,
		WithResolver(r),
		WithObserver(obs),
		WithWaitDelay(time.Second),
	)
}

// stubResolver returns a copy of md on every call.
type stubResolver struct {
	md    *audio.Metadata
	err   error
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, _ string, _ audio.Format) (*audio.Metadata, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	md := *s.md
	return &md, nil
}

func trueHDMetadata() *audio.Metadata {
	return &audio.Metadata{
		Format:     audio.FormatTrueHD,
		Duration:   audio.Ptr(10.0),
		Channels:   "7.1",
		SampleRate: audio.Ptr(48000),
		Dialnorm:   audio.Ptr(-27),
		Analyzer:   audio.AnalyzerEac3to,
	}
}

// recorder collects observer events.
type recorder struct {
	mu          sync.Mutex
	transitions []State
	updates     map[State][]progress.Update
	warnings    []string
	metadata    *audio.Metadata
	onProgress  func(State, progress.Update)
}

func newRecorder() *recorder {
	return &recorder{updates: make(map[State][]progress.Update)}
}

func (r *recorder) Transition(to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, to)
}

func (r *recorder) Metadata(md *audio.Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata = md
}

func (r *recorder) Progress(stage State, _ time.Duration, u progress.Update) {
	r.mu.Lock()
	r.updates[stage] = append(r.updates[stage], u)
	cb := r.onProgress
	r.mu.Unlock()
	if cb != nil {
		cb(stage, u)
	}
}

func (r *recorder) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *recorder) last(stage State) (progress.Update, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	us := r.updates[stage]
	if len(us) == 0 {
		return progress.Update{}, false
	}
	return us[len(us)-1], true
}
