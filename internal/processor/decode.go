package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/linuxmatters/atmosplit/internal/config"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

// decode runs gst-launch into the raw intermediate. An existing raw file is
// taken as a finished decode. On failure or interrupt the raw file and its
// sidecar are removed.
func (p *Processor) decode(ctx context.Context, req config.Request, st *RunState, log *slog.Logger) error {
	md := st.Metadata
	total := 0.0
	if md.Duration != nil {
		total = *md.Duration
	}

	if exists(st.RawPath) {
		st.Resumed = true
		log.Info("raw decode exists, skipping decoder", "path", st.RawPath)
		p.observer.Progress(StateDecoding, 0, progress.Complete(total))
		return nil
	}

	args, err := decodeArgs(p.tools, md.Format, req.Input, st.RawPath, st.Layout)
	if err != nil {
		return ErrUnsupportedFormat.WithCause(err)
	}

	reported, err := p.runDecoder(ctx, log, args, total)
	if err != nil {
		removeFiles(log, st.RawPath, st.SidecarPath)
		return err
	}

	// Keep the decoder's length for the transcode progress when no analyzer reported one
	if md.Duration == nil && reported > 0 {
		md.Duration = &reported
		p.saveSidecar(st, log)
	}
	return nil
}

// runDecoder drives the decoder to completion, reading its merged stdout and
// stderr line by line. It returns the total length the decoder reported.
func (p *Processor) runDecoder(ctx context.Context, log *slog.Logger, args []string, total float64) (float64, error) {
	diag := &diagnostics{}

	pr, pw, err := os.Pipe()
	if err != nil {
		return 0, ErrDecodeFailed.WithCause(err)
	}
	defer pr.Close()

	cmd := p.command(ctx, log, p.tools.GstLaunch, args...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pw.Close()
		return 0, failure(ctx, ErrDecodeFailed, fmt.Errorf("start %s: %w", p.tools.GstLaunch, err), diag)
	}
	// The child holds its own copy; ours must go so EOF arrives when it exits
	pw.Close()

	tracker := progress.NewTracker()
	var reported float64

	err = scanOutput(pr, diag, func(line string) {
		if u, ok := progress.ParseDecodeLine(line); ok {
			reported = u.Total
			if total > 0 {
				u.Total = total
			}
			tracker.Observe(u)
			p.observer.Progress(StateDecoding, tracker.Elapsed(), u)
			return
		}
		if progress.IsDecoderChatter(line) {
			return
		}
		diag.add(line)
	})
	if err != nil {
		log.Warn("decoder output read failed", "error", err)
	}

	if err := cmd.Wait(); err != nil {
		return 0, failure(ctx, ErrDecodeFailed, err, diag)
	}
	if ctx.Err() != nil {
		return 0, failure(ctx, ErrDecodeFailed, nil, diag)
	}
	return reported, nil
}
