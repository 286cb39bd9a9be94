package audio

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Sidecar keys, written in this order.
const (
	keyFormat     = "format"
	keyDuration   = "duration"
	keyChannels   = "channels"
	keyBitrate    = "bitrate"
	keyFrequency  = "freq"
	keyDialnorm   = "dialnorm"
	keyParserUsed = "parser_used"
)

// LoadSidecar reads a key=value metadata file.
// A missing file returns (nil, nil). Unknown keys and lines without '=' are ignored.
// Every value is normalised exactly as analyzer output is.
func LoadSidecar(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open sidecar: %w", err)
	}
	defer f.Close()

	md := &Metadata{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimRight(scanner.Text(), "\r\n"), "=")
		if !ok {
			continue
		}

		switch clean(key) {
		case keyFormat:
			md.Format = NormaliseFormat(value)
		case keyDuration:
			md.Duration = ParseFloat(value)
		case keyChannels:
			md.Channels = NormaliseChannels(value)
		case keyBitrate:
			md.Bitrate = ParseInt(value)
		case keyFrequency:
			md.SampleRate = NormaliseSampleRate(value)
		case keyDialnorm:
			md.Dialnorm = ParseInt(value)
		case keyParserUsed:
			md.Analyzer = ParseAnalyzer(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	return md, nil
}

// SaveSidecar overwrites path with every field of md, one key=value per line.
// Unknown fields are written with an empty value so readers can tell
// "computed as unknown" from "never computed".
func SaveSidecar(path string, md *Metadata) error {
	if md == nil {
		md = &Metadata{}
	}

	var b strings.Builder
	writeLine := func(key, value string) {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteByte('\n')
	}

	writeLine(keyFormat, string(md.Format))
	writeLine(keyDuration, formatFloat(md.Duration))
	writeLine(keyChannels, md.Channels)
	writeLine(keyBitrate, formatInt(md.Bitrate))
	writeLine(keyFrequency, formatInt(md.SampleRate))
	writeLine(keyDialnorm, formatInt(md.Dialnorm))
	writeLine(keyParserUsed, string(md.Analyzer))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
