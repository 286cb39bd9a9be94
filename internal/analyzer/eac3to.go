package analyzer

import (
	"regexp"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

// eac3toPattern matches the stream summary eac3to prints, for example
// "TrueHD/AC3 (Atmos), 7.1 channels, 1:23:45, 4123kbps, 48kHz, dialnorm: -27dB".
// Everything after the channel count is optional and may appear anywhere later.
var eac3toPattern = regexp.MustCompile(`(?is)^(?P<format>[^,]+?),\s*` +
	`(?P<channels>[\d\.]+)\s*channels\b` +
	`(?:.*?(?P<duration>\d+:\d+:\d+))?` +
	`(?:.*?(?P<bitrate>\d+)kbps\b)?` +
	`(?:.*?(?P<freq>\d+\s*(?:k?hz|hz))\b)?` +
	`(?:.*?dialnorm:\s*(?P<dialnorm>-?\d+)dB\b)?`)

// ParseEac3to extracts metadata from eac3to's text output.
// Output that does not match leaves every field unknown.
func ParseEac3to(out []byte) *audio.Metadata {
	md := &audio.Metadata{}

	m := eac3toPattern.FindSubmatch(out)
	if m == nil {
		return md
	}
	group := func(name string) string {
		return string(m[eac3toPattern.SubexpIndex(name)])
	}

	md.Format = audio.NormaliseFormat(group("format"))
	md.Channels = audio.NormaliseChannels(group("channels"))
	md.Duration = audio.ParseClock(group("duration"))
	md.Bitrate = audio.ParseInt(group("bitrate"))
	md.SampleRate = audio.NormaliseSampleRate(group("freq"))
	md.Dialnorm = audio.ParseInt(group("dialnorm"))
	return md
}
