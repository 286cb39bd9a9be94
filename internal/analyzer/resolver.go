// Package analyzer resolves stream metadata by running one of the external
// metadata tools and normalising its output.
package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

var (
	// ErrUnsupportedFormat is returned when the source format is unknown.
	ErrUnsupportedFormat = errors.New("unsupported source format")
	// ErrNoAnalyzerAvailable is returned when no analyzer for the format can be run.
	ErrNoAnalyzerAvailable = errors.New("no metadata analyzer available")
)

// probeTimeout bounds the liveness check of an analyzer executable.
const probeTimeout = 10 * time.Second

// ProbeFunc reports whether an executable can be run.
type ProbeFunc func(ctx context.Context, bin string) bool

// Resolver picks an analyzer for a source format and parses its output.
type Resolver struct {
	tools    map[audio.Analyzer]string
	priority map[audio.Format][]audio.Analyzer
	probe    ProbeFunc
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProbe replaces the executable liveness check.
func WithProbe(probe ProbeFunc) Option {
	return func(r *Resolver) {
		r.probe = probe
	}
}

// WithLogger sets the logger used for analyzer invocations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver over the given executables and per-format priority lists.
func NewResolver(tools map[audio.Analyzer]string, priority map[audio.Format][]audio.Analyzer, opts ...Option) *Resolver {
	r := &Resolver{
		tools:    tools,
		priority: priority,
		probe:    Available,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Select returns the first analyzer in the format's priority list whose
// executable is available, along with that executable.
func (r *Resolver) Select(ctx context.Context, format audio.Format) (audio.Analyzer, string, error) {
	if format == "" {
		return "", "", ErrUnsupportedFormat
	}

	for _, kind := range r.priority[format] {
		bin := r.tools[kind]
		if bin == "" {
			continue
		}
		if r.probe(ctx, bin) {
			return kind, bin, nil
		}
		r.logger.Debug("analyzer unavailable", "analyzer", kind, "bin", bin)
	}
	return "", "", fmt.Errorf("%w for %s", ErrNoAnalyzerAvailable, format)
}

// Resolve runs exactly one analyzer against path. A failed invocation or
// unparseable output yields a record with only the analyzer set; resolve
// never falls back to a lower priority analyzer on its own.
func (r *Resolver) Resolve(ctx context.Context, path string, format audio.Format) (*audio.Metadata, error) {
	kind, bin, err := r.Select(ctx, format)
	if err != nil {
		return nil, err
	}

	md, err := r.run(ctx, kind, bin, path)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		r.logger.Warn("analyzer produced no data", "analyzer", kind, "error", err)
		md = &audio.Metadata{}
	}
	md.Analyzer = kind
	return md, nil
}

func (r *Resolver) run(ctx context.Context, kind audio.Analyzer, bin, path string) (*audio.Metadata, error) {
	switch kind {
	case audio.AnalyzerMediaInfo:
		out, err := r.output(ctx, bin, path, "--Output=JSON")
		if err != nil {
			return nil, err
		}
		return ParseMediaInfo(out)
	case audio.AnalyzerEac3to:
		out, err := r.output(ctx, bin, path)
		if err != nil {
			return nil, err
		}
		return ParseEac3to(out), nil
	default:
		return nil, fmt.Errorf("unknown analyzer %q", kind)
	}
}

func (r *Resolver) output(ctx context.Context, bin string, args ...string) ([]byte, error) {
	r.logger.Debug("running analyzer", "bin", bin, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s failed: %w: %s", bin, err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, fmt.Errorf("%s failed: %w", bin, err)
	}
	return out, nil
}

// Available reports whether bin resolves to an executable that starts and
// exits when asked for its version. A non-zero exit still counts as alive;
// some tools print usage with a failure status.
func Available(ctx context.Context, bin string) bool {
	if bin == "" {
		return false
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err = exec.CommandContext(ctx, path, "--version").Run()
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && ctx.Err() == nil
}
