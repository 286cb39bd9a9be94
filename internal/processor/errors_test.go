package processor

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesByCode(t *testing.T) {
	cause := errors.New("exit status 1")
	err := ErrDecodeFailed.WithCause(cause).WithDiagnostics("no element")

	assert.ErrorIs(t, err, ErrDecodeFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTranscodeFailed)
	assert.Equal(t, "decode failed: exit status 1", err.Error())
	assert.Equal(t, "no element", err.Diagnostics)

	wrapped := fmt.Errorf("run: %w", newError(CodeInterrupted, "stopped after %d s", 3))
	assert.ErrorIs(t, wrapped, ErrInterrupted)

	var perr *Error
	assert.True(t, errors.As(wrapped, &perr))
	assert.Equal(t, CodeInterrupted, perr.Code)
	assert.Equal(t, "stopped after 3 s", perr.Error())

	// Sentinels are never modified
	assert.Empty(t, ErrDecodeFailed.Diagnostics)
	assert.NoError(t, ErrDecodeFailed.Unwrap())
}

func TestDiagnostics(t *testing.T) {
	d := &diagnostics{}
	_, _ = d.Write([]byte("first line\nsecond "))
	_, _ = d.Write([]byte("line\n\n"))
	d.add("third line\r")
	_, _ = d.Write([]byte("tail"))

	assert.Equal(t, "first line\nsecond line\nthird line\ntail", d.String())
}

func TestDiagnosticsKeepsRecentLines(t *testing.T) {
	d := &diagnostics{}
	for i := range maxDiagnosticLines + 5 {
		d.add(fmt.Sprintf("line %d", i))
	}

	out := d.String()
	assert.True(t, strings.HasPrefix(out, "... 5 earlier lines omitted\nline 5\n"), out[:40])
	assert.True(t, strings.HasSuffix(out, fmt.Sprintf("line %d", maxDiagnosticLines+4)))
}

func TestScanOutput(t *testing.T) {
	d := &diagnostics{}
	var got []string
	err := scanOutput(strings.NewReader("one\rtwo\n"), d, func(line string) { got = append(got, line) })
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
	assert.Empty(t, d.String())
}

func TestScanOutputDrainsAfterLongLine(t *testing.T) {
	r := strings.NewReader("first\n" + strings.Repeat("x", maxLineBytes+10) + "\nlast\n")
	d := &diagnostics{}
	var got []string

	err := scanOutput(r, d, func(line string) { got = append(got, line) })
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Equal(t, []string{"first"}, got)
	assert.Zero(t, r.Len())
	assert.Contains(t, d.String(), "token too long")
}
