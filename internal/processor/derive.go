package processor

import (
	"github.com/linuxmatters/atmosplit/internal/audio"
)

// Decoder sample offsets. The Dolby decoder inserts 32 samples at the start
// of a TrueHD stream and drops 224 from an AC-3/E-AC-3 stream.
const (
	trueHDCompensation = 32
	ac3Compensation    = -224
)

// dialnormReference is the dialnorm that maps to unity gain.
const dialnormReference = 31

// Decodable reports whether the decoder has a pipeline for f.
func Decodable(f audio.Format) bool {
	switch f {
	case audio.FormatTrueHD, audio.FormatAC3, audio.FormatEAC3:
		return true
	}
	return false
}

// Compensation returns the decoder's sample offset for f.
func Compensation(f audio.Format) int {
	switch f {
	case audio.FormatTrueHD:
		return trueHDCompensation
	case audio.FormatAC3, audio.FormatEAC3:
		return ac3Compensation
	}
	return 0
}

// EffectiveDelay removes the decoder offset from the requested delay.
// Positive results pad the start with silence; negative results trim it.
func EffectiveDelay(requested int, f audio.Format) int {
	return requested - Compensation(f)
}

// EffectiveVolume returns the override when set, otherwise the gain that
// brings dialnorm to the reference level, otherwise 0.
func EffectiveVolume(override, dialnorm *int) int {
	switch {
	case override != nil:
		return *override
	case dialnorm != nil:
		return dialnormReference + *dialnorm
	default:
		return 0
	}
}

// EffectiveDuration returns the shorter of a requested cap and the measured
// length. Zero means neither is known.
func EffectiveDuration(requested float64, measured *float64) float64 {
	switch {
	case measured == nil || *measured <= 0:
		return max(requested, 0)
	case requested > 0 && requested < *measured:
		return requested
	default:
		return *measured
	}
}

// DialnormWarning explains why the gain will not be adjusted, or returns ""
// when a gain can be derived or was given.
func DialnormWarning(override *int, md *audio.Metadata) string {
	if override != nil || md == nil || md.Dialnorm != nil {
		return ""
	}
	if md.Format == audio.FormatTrueHD && md.Analyzer != audio.AnalyzerEac3to {
		return "the dialnorm level of TrueHD audio can only be read with eac3to; the volume will not be adjusted"
	}
	return "failed to read the dialnorm level; the volume will not be adjusted"
}
