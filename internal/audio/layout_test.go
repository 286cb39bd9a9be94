package audio

import (
	"testing"
)

func TestLookupLayout(t *testing.T) {
	tests := []struct {
		name     string
		configID int
		count    int
	}{
		{"2.0", 0, 2},
		{"3.1", 3, 4},
		{"5.1", 7, 6},
		{"7.1", 11, 8},
		{"9.1", 12, 10},
		{"9.1.6", 20, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := LookupLayout(tt.name)
			if !ok {
				t.Fatalf("LookupLayout(%q) not found", tt.name)
			}
			if l.ConfigID != tt.configID {
				t.Errorf("ConfigID = %d, want %d", l.ConfigID, tt.configID)
			}
			if l.Count() != tt.count {
				t.Errorf("Count() = %d, want %d", l.Count(), tt.count)
			}
		})
	}

	if _, ok := LookupLayout("6.1"); ok {
		t.Error("LookupLayout(6.1) should not exist")
	}
}

func TestLayoutNamesOrderedByConfigID(t *testing.T) {
	want := []string{"2.0", "3.1", "5.1", "7.1", "9.1", "9.1.6"}
	got := LayoutNames()
	if len(got) != len(want) {
		t.Fatalf("LayoutNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LayoutNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLayoutSelect(t *testing.T) {
	l, _ := LookupLayout("5.1")

	all := l.Select(nil)
	if len(all) != 6 {
		t.Fatalf("Select(nil) returned %d channels, want 6", len(all))
	}
	for i, ch := range all {
		if ch.Index != i {
			t.Errorf("all[%d].Index = %d", i, ch.Index)
		}
	}

	// Filter order does not matter; layout order is kept
	got := l.Select([]string{"LFE", "L", "Lw"})
	if len(got) != 2 {
		t.Fatalf("Select() returned %d channels, want 2", len(got))
	}
	if got[0] != (Channel{Index: 0, Name: "L"}) || got[1] != (Channel{Index: 3, Name: "LFE"}) {
		t.Errorf("Select() = %+v", got)
	}

	if none := l.Select([]string{"Ltf"}); len(none) != 0 {
		t.Errorf("Select(Ltf) on 5.1 = %+v, want none", none)
	}
}

func TestChannelOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		channel  Channel
		numbered bool
		want     string
	}{
		{"numbered", "/out/movie.wav", Channel{Index: 0, Name: "L"}, true, "/out/movie.01_L.wav"},
		{"numbered_two_digits", "/out/movie.wav", Channel{Index: 15, Name: "Rtr"}, true, "/out/movie.16_Rtr.wav"},
		{"plain", "/out/movie.wav", Channel{Index: 3, Name: "LFE"}, false, "/out/movie.LFE.wav"},
		{"no_extension", "/out/movie", Channel{Index: 1, Name: "R"}, true, "/out/movie.02_R.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.channel.OutputPath(tt.base, tt.numbered); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
