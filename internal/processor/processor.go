// Package processor drives a run from a compressed immersive audio source to
// one mono WAV file per channel: metadata preparation, decode to a raw
// intermediate, then a sox | ffmpeg transcode that splits the channels.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linuxmatters/atmosplit/internal/analyzer"
	"github.com/linuxmatters/atmosplit/internal/audio"
	"github.com/linuxmatters/atmosplit/internal/config"
)

// defaultWaitDelay bounds how long a terminated child may take to exit
// before it is killed.
const defaultWaitDelay = 5 * time.Second

// MetadataResolver resolves stream metadata for a classified source.
type MetadataResolver interface {
	Resolve(ctx context.Context, path string, format audio.Format) (*audio.Metadata, error)
}

// Processor runs the pipeline. It holds no per-run state and may be reused.
type Processor struct {
	tools     config.Tools
	resolver  MetadataResolver
	observer  Observer
	logger    *slog.Logger
	waitDelay time.Duration
}

// Option configures a Processor.
type Option func(*Processor)

// WithResolver replaces the analyzer-backed metadata resolver.
func WithResolver(r MetadataResolver) Option {
	return func(p *Processor) { p.resolver = r }
}

// WithObserver receives stage, metadata, progress and warning events. A nil
// observer keeps the default, which ignores them.
func WithObserver(o Observer) Option {
	return func(p *Processor) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithWaitDelay sets how long a terminated child may take to exit.
func WithWaitDelay(d time.Duration) Option {
	return func(p *Processor) { p.waitDelay = d }
}

// New creates a processor over the given tools.
func New(tools config.Tools, opts ...Option) *Processor {
	p := &Processor{
		tools:     tools,
		observer:  NopObserver{},
		logger:    slog.Default(),
		waitDelay: defaultWaitDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = analyzer.NewResolver(tools.Analyzers(), tools.Priority, analyzer.WithLogger(p.logger))
	}
	return p
}

// Run executes req and returns the process exit status: 0 on success,
// 1 on any failure.
func (p *Processor) Run(ctx context.Context, req config.Request) int {
	if _, err := p.Execute(ctx, req); err != nil {
		return 1
	}
	return 0
}

// Execute runs req to completion. The returned state is populated as far as
// the run got, even on failure. Failures are *Error values.
func (p *Processor) Execute(ctx context.Context, req config.Request) (*RunState, error) {
	st := &RunState{
		RunID:       uuid.NewString(),
		State:       StateInit,
		RawPath:     req.RawPath(),
		SidecarPath: req.SidecarPath(),
	}
	log := p.logger.With("run", st.RunID)

	err := p.execute(ctx, req, st, log)
	if err != nil {
		var perr *Error
		if !errors.As(err, &perr) && ctx.Err() != nil {
			err = ErrInterrupted.WithCause(err)
		}
		p.transition(st, log, StateFailed)
		log.Error("run failed", "error", err)
		return st, err
	}

	p.transition(st, log, StateSuccess)
	return st, nil
}

func (p *Processor) execute(ctx context.Context, req config.Request, st *RunState, log *slog.Logger) error {
	if err := req.Validate(); err != nil {
		return ErrInvalidRequest.WithCause(err)
	}

	layout, _ := audio.LookupLayout(req.Layout)
	st.Layout = layout
	st.Channels = layout.Select(req.ChannelsFilter)
	if len(st.Channels) == 0 {
		return newError(CodeNoChannelsSelected, "channels %s are not part of the %s layout",
			strings.Join(req.ChannelsFilter, ","), layout.Name)
	}

	if !exists(req.Input) && !exists(st.RawPath) {
		return ErrInputNotFound.WithCause(fmt.Errorf("%s", req.Input))
	}

	if err := p.timed(st, StateMetadataReady, func() error {
		return p.prepareMetadata(ctx, req, st, log)
	}); err != nil {
		return err
	}
	p.transition(st, log, StateMetadataReady)

	p.transition(st, log, StateDecoding)
	if err := p.timed(st, StateDecoding, func() error {
		return p.decode(ctx, req, st, log)
	}); err != nil {
		return err
	}

	p.transition(st, log, StateTranscoding)
	if err := p.timed(st, StateTranscoding, func() error {
		return p.transcode(ctx, req, st, log)
	}); err != nil {
		return err
	}

	p.transition(st, log, StateCleanup)
	if !req.KeepIntermediate {
		log.Info("removing intermediate files", "raw", st.RawPath)
		removeFiles(log, st.RawPath, st.SidecarPath)
	}
	return nil
}

// prepareMetadata loads the sidecar when resuming from an existing raw
// decode, otherwise resolves metadata from the source and saves it.
func (p *Processor) prepareMetadata(ctx context.Context, req config.Request, st *RunState, log *slog.Logger) error {
	if exists(st.RawPath) {
		md, err := audio.LoadSidecar(st.SidecarPath)
		if err != nil {
			log.Warn("ignoring unreadable sidecar", "path", st.SidecarPath, "error", err)
		}
		if md != nil && md.Format != "" {
			st.Metadata = md
			st.Cached = true
			log.Info("using cached metadata", "path", st.SidecarPath)
		}
	}

	if st.Metadata == nil {
		format := audio.DetectFile(req.Input)
		log.Debug("classified source", "path", req.Input, "format", format)

		md, err := p.resolver.Resolve(ctx, req.Input, format)
		switch {
		case ctx.Err() != nil:
			return ErrInterrupted.WithCause(ctx.Err())
		case errors.Is(err, analyzer.ErrUnsupportedFormat):
			return ErrUnrecognizedSource.WithCause(err)
		case errors.Is(err, analyzer.ErrNoAnalyzerAvailable):
			return ErrNoAnalyzerAvailable.WithCause(err)
		case err != nil:
			return ErrUnrecognizedSource.WithCause(err)
		}
		if md.IsEmpty() || md.Format == "" {
			return newError(CodeUnrecognizedSource, "%s reported no usable format for %s", md.Analyzer, req.Input)
		}
		st.Metadata = md
		p.saveSidecar(st, log)
	}

	if !Decodable(st.Metadata.Format) {
		return newError(CodeUnsupportedFormat, "%s sources cannot be decoded", st.Metadata.Format)
	}

	if msg := DialnormWarning(req.Volume, st.Metadata); msg != "" {
		p.warn(st, log, msg)
	}
	p.observer.Metadata(st.Metadata)
	log.Info("metadata ready", "summary", st.Metadata.Summary())
	return nil
}

func (p *Processor) saveSidecar(st *RunState, log *slog.Logger) {
	if err := audio.SaveSidecar(st.SidecarPath, st.Metadata); err != nil {
		log.Warn("could not write metadata sidecar", "path", st.SidecarPath, "error", err)
	}
}

func (p *Processor) transition(st *RunState, log *slog.Logger, to State) {
	st.State = to
	p.observer.Transition(to)
	log.Info("stage", "state", to.String())
}

func (p *Processor) warn(st *RunState, log *slog.Logger, msg string) {
	st.Warnings = append(st.Warnings, msg)
	p.observer.Warning(msg)
	log.Warn(msg)
}

func (p *Processor) timed(st *RunState, stage State, fn func() error) error {
	start := time.Now()
	err := fn()
	st.Timings = append(st.Timings, StageTiming{Stage: stage, Duration: time.Since(start)})
	return err
}

// command prepares a child that is terminated, then killed after the wait
// delay, when ctx is cancelled.
func (p *Processor) command(ctx context.Context, log *slog.Logger, bin string, args ...string) *exec.Cmd {
	log.Debug("exec", "cmd", bin, "args", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Cancel = func() error { return terminate(cmd.Process) }
	cmd.WaitDelay = p.waitDelay
	return cmd
}

// failure classifies a child process failure as an interrupt or as code.
func failure(ctx context.Context, code *Error, err error, diag *diagnostics) *Error {
	if ctx.Err() != nil {
		return ErrInterrupted.WithCause(ctx.Err()).WithDiagnostics(diag.String())
	}
	return code.WithCause(err).WithDiagnostics(diag.String())
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// removeFiles deletes paths, ignoring ones that do not exist.
func removeFiles(log *slog.Logger, paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("could not remove file", "path", path, "error", err)
		}
	}
}
