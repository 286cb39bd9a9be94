package audio

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// formatNames merges the vocabularies of both analyzers into canonical tags.
var formatNames = map[string]Format{
	// mediainfo
	"AC-3":    FormatAC3,
	"E-AC-3":  FormatEAC3,
	"MLP FBA": FormatTrueHD,
	"PCM":     FormatWAV,
	// eac3to
	"AC3":                FormatAC3,
	"E-AC3":              FormatEAC3,
	"TrueHD (Atmos)":     FormatTrueHD,
	"TrueHD":             FormatTrueHD,
	"TrueHD/AC3":         FormatTrueHD,
	"TrueHD/AC3 (Atmos)": FormatTrueHD,
	"DTS Master Audio":   FormatDTS,
	"WAV":                FormatWAV,
	// canonical tags, as written to the sidecar
	"EAC3":   FormatEAC3,
	"TRUEHD": FormatTrueHD,
	"DTS":    FormatDTS,
	"AAC":    FormatAAC,
	"W64":    FormatW64,
}

var (
	controlChars     = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	frequencyPattern = regexp.MustCompile(`(?i)^(\d{1,6}(?:\.\d{1,3})?)\s*(k)?(?:hz)?$`)
)

// clean strips control characters and surrounding whitespace.
func clean(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(s, ""))
}

// NormaliseFormat maps an analyzer format name to its canonical tag.
// Unrecognised names map to the unknown format rather than a guess.
func NormaliseFormat(name string) Format {
	return formatNames[clean(name)]
}

// NormaliseChannels canonicalises numeric channel counts ("6" → "5.1", "8" → "7.1").
// Anything else passes through after cleaning.
func NormaliseChannels(s string) string {
	switch v := clean(s); v {
	case "6":
		return "5.1"
	case "8":
		return "7.1"
	default:
		return v
	}
}

// NormaliseSampleRate parses frequencies such as "48kHz", "44.1k", "48000" or "48 hz".
// Values below 1000 without a unit are read as kHz. Only 44100 and 48000 are
// accepted; any other result is treated as noise and discarded.
func NormaliseSampleRate(s string) *int {
	m := frequencyPattern.FindStringSubmatch(clean(s))
	if m == nil {
		return nil
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	if m[2] != "" || v < 1000 {
		v *= 1000
	}

	hz := int(math.Round(v))
	if hz != 44100 && hz != 48000 {
		return nil
	}
	return &hz
}

// ParseInt reads an integer, truncating any fractional part.
func ParseInt(s string) *int {
	f := ParseFloat(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// ParseFloat reads a float, flushing values within 1e-9 of zero to zero.
func ParseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(clean(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if math.Abs(v) <= 1e-9 {
		v = 0
	}
	return &v
}

// ParseClock converts "H:MM:SS" (optionally with fractional seconds) to seconds.
func ParseClock(s string) *float64 {
	parts := strings.Split(clean(s), ":")
	if len(parts) != 3 {
		return nil
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil
	}

	total := float64(h*3600+m*60) + sec
	return &total
}

// FormatClock renders seconds as HH:MM:SS, optionally with milliseconds.
func FormatClock(seconds float64, millis bool) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int64(seconds)
	hh := whole / 3600
	mm := (whole % 3600) / 60
	ss := whole % 60

	if millis {
		ms := int64(math.Round((seconds-float64(whole))*1000)) % 1000
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hh, mm, ss, ms)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
