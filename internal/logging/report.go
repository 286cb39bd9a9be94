// Package logging provides the structured logger and the run report written
// next to the split channel files.

package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/thlib/go-timezone-local/tzlocal"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/config"
	"github.com/linuxmatters/atmosplit/internal/processor"
)

// ReportData contains everything needed to write a run report.
type ReportData struct {
	Version   string
	Request   config.Request
	State     *processor.RunState
	Err       error
	StartTime time.Time
	EndTime   time.Time
}

// ReportPath returns the report location for an output base:
// movie.wav → movie.log
func ReportPath(outputBase string) string {
	return strings.TrimSuffix(outputBase, filepath.Ext(outputBase)) + ".log"
}

// GenerateReport writes the run report beside the outputs and returns its path.
func GenerateReport(data ReportData) (string, error) {
	path := ReportPath(data.Request.OutputBase())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	if err := WriteReport(f, data); err != nil {
		return "", err
	}
	return path, f.Close()
}

// WriteReport renders the report to w.
//
// Report structure:
// 1. Header - run id, input, timestamps with the local zone
// 2. Source Metadata - resolved or cached stream properties
// 3. Parameters - derived delay, volume, duration and bit depth
// 4. Processing Summary - stage timings
// 5. Output Files - produced files and their sizes
// 6. Warnings and the failure, if any
func WriteReport(w io.Writer, data ReportData) error {
	rw := &reportWriter{w: w}
	st := data.State
	if st == nil {
		st = &processor.RunState{}
	}

	writeReportHeader(rw, data, st)
	writeMetadata(rw, st)
	writeParameters(rw, data.Request, st)
	writeProcessingSummary(rw, data, st)
	writeOutputs(rw, st)
	writeWarnings(rw, st)
	writeFailure(rw, data.Err)
	return rw.err
}

// reportWriter remembers the first write error so sections need not check.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

func (rw *reportWriter) println(s string) {
	rw.printf("%s\n", s)
}

// section writes a title with a dashed underline of the same length.
func (rw *reportWriter) section(title string) {
	rw.println(title)
	rw.println(strings.Repeat("-", len(title)))
}

func writeReportHeader(rw *reportWriter, data ReportData, st *processor.RunState) {
	title := "Atmosplit Run Report"
	if data.Version != "" {
		title += " " + data.Version
	}
	rw.println(title)
	rw.println(strings.Repeat("=", len(title)))
	rw.printf("Run:       %s\n", st.RunID)
	rw.printf("Input:     %s\n", data.Request.Input)
	rw.printf("Started:   %s\n", data.StartTime.Format("2006-01-02 15:04:05 MST"))
	rw.printf("Finished:  %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	rw.printf("Time zone: %s\n", localZone())
	rw.printf("Result:    %s\n", st.State)
	rw.println("")
}

// localZone names the IANA zone of this machine, falling back to the
// abbreviation of the process location.
func localZone() string {
	if tz, err := tzlocal.RuntimeTZ(); err == nil && tz != "" {
		return tz
	}
	name, _ := time.Now().Zone()
	return name
}

func writeMetadata(rw *reportWriter, st *processor.RunState) {
	rw.section("Source Metadata")

	md := st.Metadata
	if md == nil {
		rw.println("Not resolved")
		rw.println("")
		return
	}

	source := "analyzer " + string(md.Analyzer)
	if st.Cached {
		source = "sidecar " + filepath.Base(st.SidecarPath)
	}

	table := NewTable("")
	table.AddRow("Format", []string{md.Format.String()}, "", "")
	table.AddRow("Channels", []string{md.Channels}, "", "")
	table.AddRow("Duration", []string{clockOrMissing(md.Duration)}, "", "")
	table.AddRow("Bitrate", []string{intOrMissing(md.Bitrate)}, "kbps", "")
	table.AddRow("Sample rate", []string{intOrMissing(md.SampleRate)}, "Hz", "")
	table.AddRow("Dialnorm", []string{intOrMissing(md.Dialnorm)}, "dB", "")
	table.AddRow("Source", []string{source}, "", "")
	rw.printf("%s", table.String())
	rw.println("")
}

func writeParameters(rw *reportWriter, req config.Request, st *processor.RunState) {
	rw.section("Parameters")

	names := make([]string, 0, len(st.Channels))
	for _, ch := range st.Channels {
		names = append(names, ch.Name)
	}

	duration := "full length"
	if st.Duration > 0 {
		duration = audio.FormatClock(st.Duration, true)
	}

	table := NewTable("")
	table.AddRow("Layout", []string{st.Layout.Name}, "", "")
	table.AddRow("Channels", []string{strings.Join(names, ",")}, "", "")
	table.AddRow("Bit depth", []string{strconv.Itoa(req.Bits)}, "bit", "")
	table.AddRow("Delay", []string{fmt.Sprintf("%+d", st.Delay)}, "samples", delayNote(st.Delay))
	table.AddRow("Gain", []string{fmt.Sprintf("%+d", st.Volume)}, "dB", "")
	table.AddRow("Duration", []string{duration}, "", "")
	rw.printf("%s", table.String())
	rw.println("")
}

func delayNote(delay int) string {
	switch {
	case delay > 0:
		return "silence padded at start"
	case delay < 0:
		return "trimmed from start"
	default:
		return ""
	}
}

func writeProcessingSummary(rw *reportWriter, data ReportData, st *processor.RunState) {
	rw.section("Processing Summary")

	for _, timing := range st.Timings {
		note := ""
		switch {
		case timing.Stage == processor.StateMetadataReady && st.Cached:
			note = " (cached)"
		case timing.Stage == processor.StateDecoding && st.Resumed:
			note = " (resumed)"
		}
		rw.printf("%-14s %s%s\n", stageLabel(timing.Stage)+":", FormatDuration(timing.Duration), note)
	}

	total := data.EndTime.Sub(data.StartTime)
	rw.printf("%-14s %s", "Total:", FormatDuration(total))
	if st.Duration > 0 && total > 0 {
		media := time.Duration(st.Duration * float64(time.Second))
		rw.printf(" (%.0fx real-time)", float64(media)/float64(total))
	}
	rw.println("")
	rw.println("")
}

func stageLabel(s processor.State) string {
	switch s {
	case processor.StateMetadataReady:
		return "Metadata"
	case processor.StateDecoding:
		return "Decode"
	case processor.StateTranscoding:
		return "Transcode"
	default:
		return s.String()
	}
}

func writeOutputs(rw *reportWriter, st *processor.RunState) {
	rw.section("Output Files")
	if len(st.Outputs) == 0 {
		rw.println("None")
		rw.println("")
		return
	}

	table := NewTable("Size")
	var total uint64
	for _, path := range st.Outputs {
		size := MissingValue
		if info, err := os.Stat(path); err == nil {
			total += uint64(info.Size())
			size = humanize.Bytes(uint64(info.Size()))
		}
		table.AddRow(filepath.Base(path), []string{size}, "", "")
	}
	table.AddRow("Total", []string{humanize.Bytes(total)}, "", "")
	rw.printf("%s", table.String())
	rw.println("")
}

func writeWarnings(rw *reportWriter, st *processor.RunState) {
	if len(st.Warnings) == 0 {
		return
	}
	rw.section("Warnings")
	for _, w := range st.Warnings {
		rw.printf("- %s\n", w)
	}
	rw.println("")
}

func writeFailure(rw *reportWriter, err error) {
	if err == nil {
		return
	}
	rw.section("Failure")

	var perr *processor.Error
	if !errors.As(err, &perr) {
		rw.println(err.Error())
		return
	}
	rw.printf("Code:    %s\n", perr.Code)
	rw.printf("Message: %s\n", perr.Error())
	if perr.Diagnostics != "" {
		rw.println("")
		rw.println("Tool output:")
		for _, line := range strings.Split(perr.Diagnostics, "\n") {
			rw.printf("  %s\n", line)
		}
	}
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

func clockOrMissing(v *float64) string {
	if v == nil {
		return MissingValue
	}
	return audio.FormatClock(*v, true)
}

func intOrMissing(v *int) string {
	if v == nil {
		return MissingValue
	}
	return strconv.Itoa(*v)
}
