package cli

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/linuxmatters/atmosplit/internal/config"
)

// Delay is a flag value in samples, given as samples or as seconds with an
// "s" suffix.
type Delay int

// Decode implements kong.MapperValue.
func (d *Delay) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("delay", &s); err != nil {
		return err
	}
	v, err := config.ParseDelay(s)
	if err != nil {
		return err
	}
	*d = Delay(v)
	return nil
}

// Volume is a gain flag in dB. "auto" leaves it unset.
type Volume struct {
	DB *int
}

// Decode implements kong.MapperValue.
func (v *Volume) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("volume", &s); err != nil {
		return err
	}
	db, err := config.ParseVolume(s)
	if err != nil {
		return err
	}
	v.DB = db
	return nil
}

func (v Volume) String() string {
	if v.DB == nil {
		return "auto"
	}
	return strconv.Itoa(*v.DB)
}

// Channels is a comma separated channel name list.
type Channels []string

// Decode implements kong.MapperValue.
func (c *Channels) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("channels", &s); err != nil {
		return err
	}
	*c = config.ParseChannelsFilter(s)
	return nil
}
