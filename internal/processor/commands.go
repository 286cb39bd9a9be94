package processor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/config"
)

// sampleEncoding describes one output bit depth on both sides of the pipe.
type sampleEncoding struct {
	soxType     string // sox -t
	soxEncoding string // sox -e
	rawFormat   string // ffmpeg -f for the piped stream
	codec       string // ffmpeg -c:a for each WAV
}

var encodings = map[int]sampleEncoding{
	16: {soxType: "s16", soxEncoding: "signed-integer", rawFormat: "s16le", codec: "pcm_s16le"},
	24: {soxType: "s24", soxEncoding: "signed-integer", rawFormat: "s24le", codec: "pcm_s24le"},
	32: {soxType: "f32", soxEncoding: "floating-point", rawFormat: "f32le", codec: "pcm_f32le"},
}

func encodingFor(bits int) sampleEncoding {
	if enc, ok := encodings[bits]; ok {
		return enc
	}
	return encodings[24]
}

// decodeArgs builds the gst-launch pipeline that decodes input to raw
// interleaved F32LE at the decode rate.
//
// TrueHD: dlbtruehdparse → dlbaudiodecbin with the 16 channel presentation.
// AC-3 / E-AC-3: dlbac3parse → dlbaudiodecbin with DRC suppressed and the
// decoder delay dropped.
//
// progressreport emits "<done> / <total> seconds (<pct> %)" once a second at
// debug level 5, which is why --gst-debug is raised for that element only.
func decodeArgs(tools config.Tools, format audio.Format, input, raw string, layout audio.Layout) ([]string, error) {
	args := []string{
		"--gst-plugin-path", tools.PluginPath(),
		"--gst-debug=progressreport:5",
		"filesrc", quoteLocation(input),
	}

	switch format {
	case audio.FormatTrueHD:
		args = append(args,
			"!", "dlbtruehdparse", "align-major-sync=false",
			"!", "dlbaudiodecbin", "truehddec-presentation=16",
			fmt.Sprintf("out-ch-config=%d", layout.ConfigID))
	case audio.FormatAC3, audio.FormatEAC3:
		args = append(args,
			"!", "dlbac3parse",
			"!", "dlbaudiodecbin", "ac3dec-drc-suppress=true", "ac3dec-drop-delay=true",
			fmt.Sprintf("out-ch-config=%d", layout.ConfigID))
	default:
		return nil, fmt.Errorf("no decode pipeline for %s", format)
	}

	return append(args,
		"!", fmt.Sprintf("audio/x-raw,format=F32LE,rate=%d,channels=%d", audio.DecodeRate, layout.Count()),
		"!", "progressreport", "update-freq=1", "silent=false",
		"!", "filesink", quoteLocation(raw),
	), nil
}

// quoteLocation quotes a path for gst-launch, which re-parses its arguments
// as a pipeline description.
func quoteLocation(path string) string {
	return `location="` + strings.ReplaceAll(path, `"`, `\"`) + `"`
}

// soxArgs reads the raw decode and writes the requested bit depth to stdout.
// A positive delay pads the start with silence, a negative one trims it.
// Gain is omitted at 0 dB.
func soxArgs(raw string, channels, bits, delay, volume int) []string {
	enc := encodingFor(bits)
	args := []string{
		"-V1",
		"-t", "f32", "-r", strconv.Itoa(audio.DecodeRate), "-c", strconv.Itoa(channels),
		"--ignore-length", raw,
		"-t", enc.soxType, "-e", enc.soxEncoding,
		"-D", "-",
	}

	switch {
	case delay > 0:
		args = append(args, "pad", fmt.Sprintf("%ds", delay))
	case delay < 0:
		args = append(args, "trim", fmt.Sprintf("%ds", -delay))
	}
	if volume != 0 {
		args = append(args, "gain", strconv.Itoa(volume))
	}
	return args
}

// ffmpegArgs reads the piped stream and writes one mono WAV per selected
// channel. Each channel is extracted with channelmap and mapped to its own
// output; outputs are returned in the same order.
func ffmpegArgs(bits, channels int, duration float64, selected []audio.Channel, base string, numbered bool) ([]string, []string) {
	enc := encodingFor(bits)
	args := []string{
		"-hide_banner", "-loglevel", "error", "-stats",
		"-f", enc.rawFormat,
		"-ar", strconv.Itoa(audio.DecodeRate),
		"-ac", strconv.Itoa(channels),
	}
	if duration > 0 {
		args = append(args, "-t", strconv.FormatFloat(duration, 'f', -1, 64))
	}
	args = append(args, "-i", "-")

	graph := make([]string, 0, len(selected))
	for _, ch := range selected {
		graph = append(graph, fmt.Sprintf("[0:a]channelmap=%d[%s]", ch.Index, ch.Name))
	}
	args = append(args, "-filter_complex", strings.Join(graph, ";"))

	outputs := make([]string, 0, len(selected))
	for _, ch := range selected {
		out := ch.OutputPath(base, numbered)
		outputs = append(outputs, out)
		args = append(args, "-map", "["+ch.Name+"]", "-c:a", enc.codec, "-y", out)
	}
	return args, outputs
}
