package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

// ParseDelay reads a delay as samples ("3000", "-1500") or as seconds with
// an "s" suffix ("1.5s", "-3s") converted at the decode rate.
func ParseDelay(s string) (int, error) {
	v := strings.TrimSpace(s)
	if secs, ok := strings.CutSuffix(v, "s"); ok {
		f, err := strconv.ParseFloat(secs, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("invalid delay %q", s)
		}
		return int(math.Round(f * audio.DecodeRate)), nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q", s)
	}
	return n, nil
}

// ParseVolume reads a gain in dB. "auto" returns nil so the gain is
// derived from the stream's dialnorm.
func ParseVolume(s string) (*int, error) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, "auto") || v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid volume %q", s)
	}
	return &n, nil
}

// ParseChannelsFilter splits a comma separated channel list, trimming
// surrounding spaces and commas. An empty string selects nothing to filter.
func ParseChannelsFilter(s string) []string {
	trimmed := strings.Trim(s, " ,")
	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
