package audio

import (
	"fmt"
	"strings"
)

// Analyzer identifies one of the interchangeable external metadata tools.
type Analyzer string

const (
	// AnalyzerMediaInfo emits a structured JSON document.
	AnalyzerMediaInfo Analyzer = "mediainfo"
	// AnalyzerEac3to emits free-form text.
	AnalyzerEac3to Analyzer = "eac3to"
)

// Analyzers lists every known analyzer.
var Analyzers = []Analyzer{AnalyzerMediaInfo, AnalyzerEac3to}

// ParseAnalyzer maps a stored analyzer name back to its kind.
func ParseAnalyzer(s string) Analyzer {
	switch Analyzer(strings.ToLower(strings.TrimSpace(s))) {
	case AnalyzerMediaInfo:
		return AnalyzerMediaInfo
	case AnalyzerEac3to:
		return AnalyzerEac3to
	}
	return ""
}

// Metadata is the normalised description of a source stream.
// Every field is optional; a nil pointer or empty string means "unknown".
type Metadata struct {
	Format     Format
	Duration   *float64 // seconds
	Channels   string   // canonical layout, e.g. "5.1"
	Bitrate    *int     // kbps
	SampleRate *int     // 44100 or 48000 only
	Dialnorm   *int     // dB
	Analyzer   Analyzer
}

// IsEmpty reports whether no stream property is known.
// The analyzer that produced the record is not a stream property.
func (m *Metadata) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.Format == "" &&
		m.Duration == nil &&
		m.Channels == "" &&
		m.Bitrate == nil &&
		m.SampleRate == nil &&
		m.Dialnorm == nil
}

// Summary renders the one-line description shown once metadata is ready.
func (m *Metadata) Summary() string {
	if m == nil {
		return "no metadata"
	}

	var b strings.Builder
	b.WriteString(m.Format.String())
	if m.Channels != "" {
		b.WriteString(" " + m.Channels)
	}
	if m.Analyzer != "" {
		b.WriteString(" via " + string(m.Analyzer))
	}
	if m.Duration != nil {
		b.WriteString(" duration=" + FormatClock(*m.Duration, false))
	}
	if m.Dialnorm != nil {
		b.WriteString(fmt.Sprintf(" dialnorm=%d", *m.Dialnorm))
	}
	if m.SampleRate != nil {
		b.WriteString(fmt.Sprintf(" freq=%g kHz", float64(*m.SampleRate)/1000))
	}
	if m.Bitrate != nil {
		b.WriteString(fmt.Sprintf(" bitrate=%d kbps", *m.Bitrate))
	}
	return b.String()
}
