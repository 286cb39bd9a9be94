package processor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/linuxmatters/atmosplit/internal/progress"
)

const (
	// maxDiagnosticLines caps how much child output is kept for error reports.
	maxDiagnosticLines = 200

	// maxLineBytes is the longest child output line that is parsed.
	maxLineBytes = 1024 * 1024
)

// diagnostics keeps the most recent non-progress lines of a child process.
// It is an io.Writer so it can also take a child's stderr directly.
type diagnostics struct {
	mu      sync.Mutex
	lines   []string
	partial string
	dropped int
}

func (d *diagnostics) add(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addLocked(line)
}

func (d *diagnostics) addLocked(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	if len(d.lines) == maxDiagnosticLines {
		d.lines = d.lines[1:]
		d.dropped++
	}
	d.lines = append(d.lines, line)
}

func (d *diagnostics) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	text := d.partial + string(p)
	parts := strings.Split(text, "\n")
	d.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		d.addLocked(line)
	}
	return len(p), nil
}

// String returns the kept lines, noting how many earlier lines were dropped.
func (d *diagnostics) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines := d.lines
	if d.partial != "" {
		lines = append(lines[:len(lines):len(lines)], d.partial)
	}
	out := strings.Join(lines, "\n")
	if d.dropped > 0 {
		out = fmt.Sprintf("... %d earlier lines omitted\n%s", d.dropped, out)
	}
	return out
}

// scanOutput passes each CR or LF terminated line of r to handle. If a line
// cannot be read the failure is kept in diag and the rest of r is discarded,
// so the child never blocks writing to a pipe nobody reads.
func scanOutput(r io.Reader, diag *diagnostics, handle func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(progress.ScanLines)
	for scanner.Scan() {
		handle(scanner.Text())
	}

	err := scanner.Err()
	if err == nil {
		return nil
	}
	diag.add(fmt.Sprintf("output discarded after read error: %v", err))
	_, _ = io.Copy(io.Discard, r)
	return err
}
