package cli

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/atmosplit/internal/processor"
)

type valueFlags struct {
	Delay    Delay    `default:"0"`
	Volume   Volume   `default:"auto"`
	Channels Channels `name:"channels-filter"`
}

func parseFlags(t *testing.T, args ...string) (valueFlags, error) {
	t.Helper()
	var flags valueFlags
	parser, err := kong.New(&flags, kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	return flags, err
}

func TestValueFlags(t *testing.T) {
	flags, err := parseFlags(t, "--delay=1.5s", "--volume=-3", "--channels-filter= Ls, Rs,")
	require.NoError(t, err)
	assert.Equal(t, Delay(72000), flags.Delay)
	require.NotNil(t, flags.Volume.DB)
	assert.Equal(t, -3, *flags.Volume.DB)
	assert.Equal(t, "-3", flags.Volume.String())
	assert.Equal(t, Channels{"Ls", "Rs"}, flags.Channels)

	flags, err = parseFlags(t, "--delay=-1500")
	require.NoError(t, err)
	assert.Equal(t, Delay(-1500), flags.Delay)
	assert.Nil(t, flags.Volume.DB)
	assert.Equal(t, "auto", flags.Volume.String())
	assert.Empty(t, flags.Channels)
}

func TestValueFlagsRejectGarbage(t *testing.T) {
	_, err := parseFlags(t, "--delay=soon")
	assert.Error(t, err)

	_, err = parseFlags(t, "--volume=loud")
	assert.Error(t, err)
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestPrintRunError(t *testing.T) {
	var buf bytes.Buffer
	err := processor.ErrTranscodeFailed.WithCause(errors.New("exit status 1")).WithDiagnostics("first\nsecond")
	PrintRunError(&buf, err)

	assert.Equal(t,
		"Error: transcode failed: exit status 1 (TRANSCODE_FAILED)\n  first\n  second\n",
		ansi.ReplaceAllString(buf.String(), ""))

	buf.Reset()
	PrintRunError(&buf, errors.New("plain"))
	assert.Equal(t, "Error: plain\n", ansi.ReplaceAllString(buf.String(), ""))
}

type helpFlags struct {
	Input string `arg:"" optional:"" help:"Source file"`
	Bits  int    `short:"b" default:"24" help:"Output bit depth"`
	Logs  bool   `group:"logging" help:"Save a run report"`
	Sox   string `group:"tools" default:"sox" env:"ATMOSPLIT_SOX" help:"sox executable"`
}

func TestStyledHelpPrinterGroupsFlags(t *testing.T) {
	var buf bytes.Buffer
	parser, err := kong.New(&helpFlags{},
		kong.Name("atmosplit"),
		kong.ExplicitGroups(Groups),
		kong.Help(StyledHelpPrinter(kong.HelpOptions{})),
		kong.Writers(&buf, &buf),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)
	_, _ = parser.Parse([]string{"--help"})

	out := ansi.ReplaceAllString(buf.String(), "")
	order := []string{"Usage:", "Arguments:", "Flags:", "Logging:", "External tools:", "Examples:"}
	last := -1
	for _, heading := range order {
		i := strings.Index(out, heading)
		require.Greater(t, i, last, "%q out of order in\n%s", heading, out)
		last = i
	}

	assert.Regexp(t, `(?m)^  -b, --bits\s+Output bit depth \(default: 24\)$`, out)
	assert.Regexp(t, `(?m)^  --sox\s+sox executable \(\$ATMOSPLIT_SOX\) \(default: sox\)$`, out)

	// Descriptions share one column across sections
	bits := regexp.MustCompile(`(?m)^  -b, --bits\s+`).FindString(out)
	sox := regexp.MustCompile(`(?m)^  --sox\s+`).FindString(out)
	assert.Equal(t, len(bits), len(sox))
}
