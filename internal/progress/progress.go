// Package progress parses the progress output of the decoder and encoder
// and renders it as a fixed-width bar.
package progress

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Update is one progress observation from a running stage.
// Total is zero when the stage length is unknown.
type Update struct {
	Percent float64
	Seconds float64
	Total   float64
}

// Complete returns an update at 100% of total.
func Complete(total float64) Update {
	return Update{Percent: 100, Seconds: total, Total: total}
}

// FromSeconds converts a position into an update against total.
// Without a known total the percentage stays at zero.
func FromSeconds(seconds, total float64) Update {
	u := Update{Seconds: seconds, Total: total}
	if total > 0 {
		u.Percent = seconds / total * 100
	}
	return u
}

var (
	decodePattern  = regexp.MustCompile(`(\d+)\s*/\s*(\d+)\s*seconds\s*\(\s*([\d,\.]+)\s*%\)`)
	encoderPattern = regexp.MustCompile(`time=(\d+):(\d+):(\d+\.\d+)`)
)

// decoderChatter marks GStreamer pipeline state lines.
var decoderChatter = []string{"Setting pipeline", "PREROLLING", "PREROLLED", "PLAYING", "New clock"}

// IsDecoderChatter reports whether line is a pipeline state message.
func IsDecoderChatter(line string) bool {
	for _, marker := range decoderChatter {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// ParseDecodeLine reads a progressreport line such as
// "progressreport0 (00:00:10): 10 / 600 seconds ( 1.7 %)".
// The percentage may use a comma as decimal separator.
func ParseDecodeLine(line string) (Update, bool) {
	if IsDecoderChatter(line) || !strings.Contains(line, "progressreport") {
		return Update{}, false
	}
	m := decodePattern.FindStringSubmatch(line)
	if m == nil {
		return Update{}, false
	}

	done, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Update{}, false
	}
	total, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Update{}, false
	}
	percent, err := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", "."), 64)
	if err != nil {
		return Update{}, false
	}
	return Update{Percent: percent, Seconds: done, Total: total}, true
}

// ParseEncoderTime extracts the elapsed media time from an encoder stats
// line containing "time=HH:MM:SS.ss".
func ParseEncoderTime(line string) (float64, bool) {
	m := encoderPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	s, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	return float64(h*3600+mins*60) + s, true
}

// ScanLines is a bufio.SplitFunc that ends a line at '\r' or '\n'.
// Encoders rewrite their stats line in place with a bare carriage return.
// Empty lines are dropped.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && (data[start] == '\r' || data[start] == '\n') {
		start++
	}
	if atEOF && start == len(data) {
		return len(data), nil, nil
	}
	if i := bytes.IndexAny(data[start:], "\r\n"); i >= 0 {
		return start + i + 1, data[start : start+i], nil
	}
	if atEOF {
		return len(data), data[start:], nil
	}
	// Request more data, skipping any separators already consumed
	return start, nil, nil
}

// Tracker anchors elapsed time for one stage.
type Tracker struct {
	start time.Time
	last  Update
	seen  bool
}

// NewTracker starts the elapsed clock.
func NewTracker() *Tracker {
	return &Tracker{start: time.Now()}
}

// Observe records u as the most recent update.
func (t *Tracker) Observe(u Update) {
	t.last = u
	t.seen = true
}

// Last returns the most recent update and whether any was observed.
func (t *Tracker) Last() (Update, bool) {
	return t.last, t.seen
}

// Elapsed returns the wall-clock time since the tracker started.
func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.start)
}
