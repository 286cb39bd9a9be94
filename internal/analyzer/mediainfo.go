package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

// mediainfoOutput mirrors the parts of `mediainfo --Output=JSON` we read.
type mediainfoOutput struct {
	Media struct {
		Track []mediainfoTrack `json:"track"`
	} `json:"media"`
}

type mediainfoTrack struct {
	Type         string     `json:"@type"`
	Format       flexString `json:"Format"`
	Duration     flexString `json:"Duration"`
	BitRate      flexString `json:"BitRate"`
	Channels     flexString `json:"Channels"`
	SamplingRate flexString `json:"SamplingRate"`
	Extra        struct {
		Dialnorm flexString `json:"dialnorm"`
	} `json:"extra"`
}

// flexString accepts both JSON strings and numbers.
// Different mediainfo releases disagree on which they emit.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// ParseMediaInfo reads the first audio track of a mediainfo JSON document.
// A document without an audio track yields an empty record.
func ParseMediaInfo(data []byte) (*audio.Metadata, error) {
	var out mediainfoOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse mediainfo output: %w", err)
	}

	md := &audio.Metadata{}
	for _, track := range out.Media.Track {
		if track.Type != "Audio" {
			continue
		}

		md.Format = audio.NormaliseFormat(string(track.Format))
		md.Duration = audio.ParseFloat(string(track.Duration))
		if bps := audio.ParseFloat(string(track.BitRate)); bps != nil {
			md.Bitrate = audio.Ptr(int(*bps / 1000))
		}
		md.Channels = audio.NormaliseChannels(string(track.Channels))
		md.SampleRate = audio.NormaliseSampleRate(string(track.SamplingRate))
		md.Dialnorm = audio.ParseInt(string(track.Extra.Dialnorm))
		break
	}
	return md, nil
}
