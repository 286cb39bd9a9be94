package audio

import (
	"os"
	"path/filepath"
	"testing"
)

// header pads prefix with zeros to a full header.
func header(prefix ...byte) []byte {
	h := make([]byte, HeaderSize)
	copy(h, prefix)
	return h
}

func TestClassify(t *testing.T) {
	riff := header('R', 'I', 'F', 'F', 0x24, 0x08, 0x00, 0x00, 'W', 'A', 'V', 'E')

	tests := []struct {
		name   string
		header []byte
		want   Format
	}{
		{"ac3", header(0x0B, 0x77, 0x12, 0x34), FormatAC3},
		{"truehd", header(0xF8, 0x72, 0x6F, 0xBA), FormatTrueHD},
		{"dts", header(0x7F, 0xFE, 0x80, 0x01), FormatDTS},
		{"adts_mpeg4", header(0xFF, 0xF1), FormatAAC},
		{"adts_mpeg2", header(0xFF, 0xF9), FormatAAC},
		{"wav", riff, FormatWAV},
		{"w64", header(magicW64...), FormatW64},
		{"riff_not_wave", header('R', 'I', 'F', 'F', 0, 0, 0, 0, 'A', 'V', 'I', ' '), ""},
		{"zeros", header(), ""},
		{"truncated_ac3", []byte{0x0B, 0x77}, ""},
		{"truncated_wav", riff[:12], ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.header); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// An AC-3 sync word followed by TrueHD bytes is still AC-3
	h := header(0x0B, 0x77, 0xF8, 0x72, 0x6F, 0xBA)
	if got := Classify(h); got != FormatAC3 {
		t.Errorf("Classify() = %q, want %q", got, FormatAC3)
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()

	ac3 := filepath.Join(dir, "source.ac3")
	if err := os.WriteFile(ac3, header(0x0B, 0x77), 0o644); err != nil {
		t.Fatal(err)
	}
	short := filepath.Join(dir, "short.bin")
	if err := os.WriteFile(short, []byte{0x0B, 0x77}, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want Format
	}{
		{"readable", ac3, FormatAC3},
		{"short_file", short, ""},
		{"missing", filepath.Join(dir, "missing.thd"), ""},
		{"directory", dir, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFile(tt.path); got != tt.want {
				t.Errorf("DetectFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatKnown(t *testing.T) {
	for _, f := range []Format{FormatAC3, FormatEAC3, FormatTrueHD, FormatDTS, FormatAAC, FormatWAV, FormatW64} {
		if !f.Known() {
			t.Errorf("%q.Known() = false", f)
		}
	}
	if Format("").Known() || Format("MP3").Known() {
		t.Error("unexpected Known() for unrecognised format")
	}
	if Format("").String() != "unknown" {
		t.Errorf("zero Format.String() = %q", Format("").String())
	}
}
