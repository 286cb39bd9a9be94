package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3000", 3000, false},
		{"-1500", -1500, false},
		{"1.5s", 72000, false},
		{"-3s", -144000, false},
		{"0.00001s", 0, false},
		{" 2s ", 96000, false},
		{"1.5", 0, true},
		{"s", 0, true},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVolume(t *testing.T) {
	v, err := ParseVolume("auto")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseVolume(" AUTO ")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseVolume("-4")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, -4, *v)

	_, err = ParseVolume("4.5")
	assert.Error(t, err)
}

func TestParseChannelsFilter(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{" , ", nil},
		{"Ls,Rs", []string{"Ls", "Rs"}},
		{",L, R ,", []string{"L", "R"}},
		{"LFE", []string{"LFE"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseChannelsFilter(tt.input), "input %q", tt.input)
	}
}

func validRequest() Request {
	return Request{
		Input:  "/media/movie.thd",
		Bits:   24,
		Layout: audio.DefaultLayout,
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Request)
		field  string
	}{
		{"valid", func(*Request) {}, ""},
		{"missing_input", func(r *Request) { r.Input = "" }, "Input"},
		{"bad_bits", func(r *Request) { r.Bits = 20 }, "Bits"},
		{"negative_duration", func(r *Request) { r.Duration = -1 }, "Duration"},
		{"unknown_layout", func(r *Request) { r.Layout = "6.1" }, "Layout"},
		{"empty_filter_entry", func(r *Request) { r.ChannelsFilter = []string{"L", ""} }, "ChannelsFilter[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(&req)

			err := req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tt.field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestRequestPaths(t *testing.T) {
	req := Request{Input: filepath.Join("media", "movie.thd")}
	assert.Equal(t, filepath.Join("media", "movie.wav"), req.OutputBase())
	assert.Equal(t, filepath.Join("media", "movie.raw"), req.RawPath())
	assert.Equal(t, filepath.Join("media", "movie.txt"), req.SidecarPath())

	req.Output = filepath.Join("out", "mix")
	assert.Equal(t, filepath.Join("out", "mix.wav"), req.OutputBase())
	assert.Equal(t, filepath.Join("out", "mix.raw"), req.RawPath())
}

func TestToolsPluginPath(t *testing.T) {
	tools := DefaultTools()
	tools.GstLaunch = filepath.Join(t.TempDir(), "gst", "gst-launch-1.0")
	assert.Equal(t, filepath.Join(filepath.Dir(tools.GstLaunch), "gst-plugins"), tools.PluginPath())

	tools.GstPluginPath = "/opt/plugins"
	assert.Equal(t, "/opt/plugins", tools.PluginPath())
}

func TestToolsAnalyzers(t *testing.T) {
	tools := DefaultTools()
	got := tools.Analyzers()
	assert.Equal(t, "mediainfo", got[audio.AnalyzerMediaInfo])
	assert.Equal(t, "eac3to", got[audio.AnalyzerEac3to])

	assert.Equal(t, []audio.Analyzer{audio.AnalyzerEac3to}, tools.Priority[audio.FormatTrueHD])
	assert.Empty(t, tools.Priority[audio.FormatAAC])
}
