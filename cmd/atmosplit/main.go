package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/cli"
	"github.com/linuxmatters/atmosplit/internal/config"
	"github.com/linuxmatters/atmosplit/internal/logging"
	"github.com/linuxmatters/atmosplit/internal/processor"
	"github.com/linuxmatters/atmosplit/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool `short:"v" help:"Show version information"`

	Input            string       `arg:"" name:"input" type:"path" help:"TrueHD, AC-3 or E-AC-3 source file" optional:""`
	Output           string       `short:"o" type:"path" help:"Base path for the channel files (defaults to the input path)"`
	Bits             int          `short:"b" default:"24" enum:"16,24,32" help:"Output bit depth"`
	Layout           string       `short:"l" default:"${default_layout}" help:"Decoder channel layout: ${layouts}"`
	ChannelsFilter   cli.Channels `short:"c" name:"channels-filter" placeholder:"L,R,..." help:"Only write these channels"`
	Delay            cli.Delay    `short:"d" default:"0" help:"Delay in samples, or seconds with an s suffix"`
	Volume           cli.Volume   `short:"g" default:"auto" help:"Gain in dB, or auto to derive it from dialnorm"`
	Duration         float64      `short:"t" default:"0" help:"Stop after this many seconds (0 for the full length)"`
	KeepIntermediate bool         `short:"k" help:"Keep the raw decode and metadata sidecar for later runs"`
	NoNumbering      bool         `help:"Name channel files without their position number"`

	Logs      bool   `group:"logging" help:"Save a run report next to the channel files"`
	LogLevel  string `group:"logging" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `group:"logging" default:"pretty" enum:"pretty,json" help:"Log format"`
	DebugLog  string `group:"logging" type:"path" help:"Write logs to this file while the interactive display is active"`
	Plain     bool   `help:"Plain progress output even on a terminal"`

	Gst           string `group:"tools" default:"gst-launch-1.0" env:"ATMOSPLIT_GST" help:"gst-launch executable"`
	GstPluginPath string `group:"tools" type:"path" env:"ATMOSPLIT_GST_PLUGINS" help:"GStreamer plugin directory (defaults to gst-plugins beside gst-launch)"`
	Sox           string `group:"tools" default:"sox" env:"ATMOSPLIT_SOX" help:"sox executable"`
	FFmpeg        string `group:"tools" name:"ffmpeg" default:"ffmpeg" env:"ATMOSPLIT_FFMPEG" help:"ffmpeg executable"`
	MediaInfo     string `group:"tools" name:"mediainfo" default:"mediainfo" env:"ATMOSPLIT_MEDIAINFO" help:"mediainfo executable"`
	Eac3to        string `group:"tools" name:"eac3to" default:"eac3to" env:"ATMOSPLIT_EAC3TO" help:"eac3to executable"`
}

func main() {
	cliArgs := &CLI{}
	kctx := kong.Parse(cliArgs,
		kong.Name("atmosplit"),
		kong.Description("Split immersive audio into one WAV file per channel"),
		kong.UsageOnError(),
		kong.ExplicitGroups(cli.Groups),
		kong.Vars{
			"version":        version,
			"default_layout": audio.DefaultLayout,
			"layouts":        strings.Join(audio.LayoutNames(), ", "),
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if cliArgs.Input == "" {
		cli.PrintError("No input file specified")
		_ = kctx.PrintUsage(false)
		os.Exit(1)
	}

	os.Exit(run(cliArgs))
}

func run(cliArgs *CLI) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tools := config.DefaultTools()
	tools.GstLaunch = cliArgs.Gst
	tools.GstPluginPath = cliArgs.GstPluginPath
	tools.Sox = cliArgs.Sox
	tools.FFmpeg = cliArgs.FFmpeg
	tools.MediaInfo = cliArgs.MediaInfo
	tools.Eac3to = cliArgs.Eac3to

	req := config.Request{
		Input:            cliArgs.Input,
		Output:           cliArgs.Output,
		Bits:             cliArgs.Bits,
		Delay:            int(cliArgs.Delay),
		Volume:           cliArgs.Volume.DB,
		Duration:         cliArgs.Duration,
		Layout:           cliArgs.Layout,
		ChannelsFilter:   cliArgs.ChannelsFilter,
		KeepIntermediate: cliArgs.KeepIntermediate,
		NoNumbering:      cliArgs.NoNumbering,
	}

	interactive := !cliArgs.Plain &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	logger, closeLog, err := newLogger(cliArgs, interactive)
	if err != nil {
		cli.PrintError(err.Error())
		return 1
	}
	defer closeLog()

	start := time.Now()
	var (
		st     *processor.RunState
		runErr error
	)
	if interactive {
		st, runErr = runInteractive(ctx, tools, req, logger)
	} else {
		st, runErr = runPlain(ctx, tools, req, logger)
	}

	if cliArgs.Logs {
		path, err := logging.GenerateReport(logging.ReportData{
			Version:   version,
			Request:   req,
			State:     st,
			Err:       runErr,
			StartTime: start,
			EndTime:   time.Now(),
		})
		if err != nil {
			logger.Warn("could not write run report", "error", err)
		} else {
			logger.Info("run report written", "path", path)
		}
	}

	if runErr != nil {
		cli.PrintRunError(os.Stderr, runErr)
		return 1
	}
	return 0
}

// newLogger logs to stderr, or to --debug-log while the interactive display
// owns the terminal. With no debug log the interactive run logs nothing.
func newLogger(cliArgs *CLI, interactive bool) (*slog.Logger, func(), error) {
	cfg := logging.Config{
		Format: cliArgs.LogFormat,
		Level:  logging.ParseLevel(cliArgs.LogLevel),
	}

	if cliArgs.DebugLog != "" {
		f, err := os.OpenFile(cliArgs.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
		}
		cfg.Writer = f
		return logging.New(cfg), func() { f.Close() }, nil
	}
	if interactive {
		return logging.Discard(), func() {}, nil
	}

	cfg.Writer = os.Stderr
	cfg.Color = isatty.IsTerminal(os.Stderr.Fd())
	return logging.New(cfg), func() {}, nil
}

type result struct {
	st  *processor.RunState
	err error
}

func runInteractive(ctx context.Context, tools config.Tools, req config.Request, logger *slog.Logger) (*processor.RunState, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(req.Input, req.Layout, cancel)
	p := tea.NewProgram(model)

	proc := processor.New(tools,
		processor.WithLogger(logger),
		processor.WithObserver(ui.NewProgramObserver(p)),
	)

	done := make(chan result, 1)
	go func() {
		st, err := proc.Execute(ctx, req)
		done <- result{st, err}
		p.Send(ui.DoneMsg{State: st, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		logger.Error("display failed", "error", err)
		cancel()
	}

	res := <-done
	return res.st, res.err
}

func runPlain(ctx context.Context, tools config.Tools, req config.Request, logger *slog.Logger) (*processor.RunState, error) {
	obs := ui.NewConsoleObserver(os.Stdout)
	proc := processor.New(tools,
		processor.WithLogger(logger),
		processor.WithObserver(obs),
	)

	st, err := proc.Execute(ctx, req)
	obs.Close()
	if err == nil {
		fmt.Print(ui.RenderSummary(st, nil))
	}
	return st, err
}
