package audio

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultLayout is the channel configuration used when none is requested.
const DefaultLayout = "9.1.6"

// DecodeRate is the sample rate of the decoded intermediate stream.
const DecodeRate = 48000

// Layout is a named, ordered set of discrete channel roles.
// ConfigID is the decoder's output channel configuration number.
type Layout struct {
	Name     string
	ConfigID int
	Channels []string
}

// Channel is one member of a layout selected for output.
type Channel struct {
	Index int // zero-based position within the layout
	Name  string
}

var layouts = map[string]Layout{
	"2.0":   {Name: "2.0", ConfigID: 0, Channels: []string{"L", "R"}},
	"3.1":   {Name: "3.1", ConfigID: 3, Channels: []string{"L", "R", "C", "LFE"}},
	"5.1":   {Name: "5.1", ConfigID: 7, Channels: []string{"L", "R", "C", "LFE", "Ls", "Rs"}},
	"7.1":   {Name: "7.1", ConfigID: 11, Channels: []string{"L", "R", "C", "LFE", "Ls", "Rs", "Lrs", "Rrs"}},
	"9.1":   {Name: "9.1", ConfigID: 12, Channels: []string{"L", "R", "C", "LFE", "Ls", "Rs", "Lrs", "Rrs", "Lw", "Rw"}},
	"9.1.6": {Name: "9.1.6", ConfigID: 20, Channels: []string{"L", "R", "C", "LFE", "Ls", "Rs", "Lrs", "Rrs", "Lw", "Rw", "Ltf", "Rtf", "Ltm", "Rtm", "Ltr", "Rtr"}},
}

// LookupLayout returns the layout registered under name.
func LookupLayout(name string) (Layout, bool) {
	l, ok := layouts[name]
	return l, ok
}

// LayoutNames returns the registered layout names ordered by configuration id.
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return layouts[a].ConfigID - layouts[b].ConfigID
	})
	return names
}

// Count returns the number of channels in the layout.
func (l Layout) Count() int {
	return len(l.Channels)
}

// Select returns the layout channels that appear in filter, in layout order.
// An empty filter selects every channel.
func (l Layout) Select(filter []string) []Channel {
	selected := make([]Channel, 0, len(l.Channels))
	for i, name := range l.Channels {
		if len(filter) == 0 || slices.Contains(filter, name) {
			selected = append(selected, Channel{Index: i, Name: name})
		}
	}
	return selected
}

// OutputPath names the mono file for ch next to base.
// The numbered form is <stem>.<NN>_<name>.wav, otherwise <stem>.<name>.wav.
func (ch Channel) OutputPath(base string, numbered bool) string {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if numbered {
		return fmt.Sprintf("%s.%02d_%s.wav", stem, ch.Index+1, ch.Name)
	}
	return fmt.Sprintf("%s.%s.wav", stem, ch.Name)
}
