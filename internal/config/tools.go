// Package config holds the run configuration: external tool locations and
// the processing request.
package config

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

// Tools locates the external executables driven by a run.
type Tools struct {
	GstLaunch     string
	GstPluginPath string // empty means <gst-launch dir>/gst-plugins
	Sox           string
	FFmpeg        string
	MediaInfo     string
	Eac3to        string

	// Priority orders the analyzers tried for each source format.
	Priority map[audio.Format][]audio.Analyzer
}

// DefaultTools expects every executable on PATH.
func DefaultTools() Tools {
	return Tools{
		GstLaunch: "gst-launch-1.0",
		Sox:       "sox",
		FFmpeg:    "ffmpeg",
		MediaInfo: "mediainfo",
		Eac3to:    "eac3to",
		Priority:  DefaultPriority(),
	}
}

// DefaultPriority returns the analyzer order per format.
// Only eac3to reports TrueHD dialnorm, so it leads wherever it can.
func DefaultPriority() map[audio.Format][]audio.Analyzer {
	return map[audio.Format][]audio.Analyzer{
		audio.FormatTrueHD: {audio.AnalyzerEac3to},
		audio.FormatEAC3:   {audio.AnalyzerEac3to, audio.AnalyzerMediaInfo},
		audio.FormatAC3:    {audio.AnalyzerMediaInfo, audio.AnalyzerEac3to},
		audio.FormatDTS:    {audio.AnalyzerEac3to},
		audio.FormatWAV:    {audio.AnalyzerMediaInfo},
	}
}

// Analyzers maps each analyzer to its executable.
func (t Tools) Analyzers() map[audio.Analyzer]string {
	return map[audio.Analyzer]string{
		audio.AnalyzerMediaInfo: t.MediaInfo,
		audio.AnalyzerEac3to:    t.Eac3to,
	}
}

// PluginPath returns the GStreamer plugin directory. A bare gst-launch name
// is resolved on PATH first so the directory sits beside the real binary.
func (t Tools) PluginPath() string {
	if t.GstPluginPath != "" {
		return t.GstPluginPath
	}

	bin := t.GstLaunch
	if !strings.ContainsAny(bin, `/\`) {
		if resolved, err := exec.LookPath(bin); err == nil {
			bin = resolved
		}
	}
	if abs, err := filepath.Abs(bin); err == nil {
		bin = abs
	}
	return filepath.Join(filepath.Dir(bin), "gst-plugins")
}
