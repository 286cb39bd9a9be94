// Package audio describes source formats, normalised metadata, channel layouts
// and the sidecar file that caches metadata next to an intermediate decode.
package audio

import (
	"bytes"
	"io"
	"os"
)

// Format is the coarse source format assigned from file header bytes.
// The zero value means the format is unknown.
type Format string

const (
	FormatAC3    Format = "AC3"
	FormatEAC3   Format = "EAC3"
	FormatTrueHD Format = "TRUEHD"
	FormatDTS    Format = "DTS"
	FormatAAC    Format = "AAC"
	FormatWAV    Format = "WAV"
	FormatW64    Format = "W64"
)

// HeaderSize is the number of leading bytes inspected by Classify.
const HeaderSize = 32

var (
	syncAC3    = []byte{0x0B, 0x77}
	syncTrueHD = []byte{0xF8, 0x72, 0x6F, 0xBA}
	syncDTS    = []byte{0x7F, 0xFE, 0x80, 0x01}
	syncADTS   = [][]byte{{0xFF, 0xF1}, {0xFF, 0xF9}}
	magicW64   = []byte{
		0x01, 0xB7, 0x44, 0x0E, 0xB6, 0x7D, 0x11, 0xD1,
		0xA1, 0xC0, 0x00, 0xC0, 0x4F, 0xC3, 0x5D, 0xE0,
	}
)

// Known reports whether f is one of the recognised formats.
func (f Format) Known() bool {
	switch f {
	case FormatAC3, FormatEAC3, FormatTrueHD, FormatDTS, FormatAAC, FormatWAV, FormatW64:
		return true
	}
	return false
}

// String returns the canonical tag, or "unknown" for the zero value.
func (f Format) String() string {
	if f == "" {
		return "unknown"
	}
	return string(f)
}

// Classify matches a file header against the known sync words and magic values.
// Checks run in a fixed order and the first match wins. Headers shorter than
// HeaderSize never match.
func Classify(header []byte) Format {
	if len(header) < HeaderSize {
		return ""
	}

	switch {
	case bytes.HasPrefix(header, syncAC3):
		// AC-3 and E-AC-3 share a sync word; the analyzer tells them apart
		return FormatAC3
	case bytes.HasPrefix(header, syncTrueHD):
		return FormatTrueHD
	case bytes.HasPrefix(header, syncDTS):
		return FormatDTS
	case bytes.HasPrefix(header, syncADTS[0]), bytes.HasPrefix(header, syncADTS[1]):
		return FormatAAC
	case bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(header, magicW64):
		return FormatW64
	}
	return ""
}

// DetectFile reads the header of path and classifies it.
// A missing or unreadable file yields the unknown format, never an error.
func DetectFile(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && n < HeaderSize {
		return ""
	}
	return Classify(header[:n])
}
