package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/atmosplit/internal/config"
	"github.com/linuxmatters/atmosplit/internal/progress"
)

// transcode pipes sox into ffmpeg through an OS pipe, so audio never passes
// through this process, and follows ffmpeg's stats on stderr. On failure or
// interrupt every output of the run is removed; the raw decode is kept so
// the run can resume.
func (p *Processor) transcode(ctx context.Context, req config.Request, st *RunState, log *slog.Logger) error {
	md := st.Metadata
	st.Delay = EffectiveDelay(req.Delay, md.Format)
	st.Volume = EffectiveVolume(req.Volume, md.Dialnorm)
	st.Duration = EffectiveDuration(req.Duration, md.Duration)
	log.Info("transcode parameters",
		"delay", st.Delay, "volume", st.Volume, "duration", st.Duration,
		"bits", req.Bits, "channels", len(st.Channels))

	channels := st.Layout.Count()
	soxArgv := soxArgs(st.RawPath, channels, req.Bits, st.Delay, st.Volume)
	ffArgv, outputs := ffmpegArgs(req.Bits, channels, st.Duration, st.Channels, req.OutputBase(), !req.NoNumbering)

	if err := p.runTranscoder(ctx, log, soxArgv, ffArgv, st.Duration); err != nil {
		removeFiles(log, outputs...)
		return err
	}
	st.Outputs = outputs
	return nil
}

func (p *Processor) runTranscoder(ctx context.Context, log *slog.Logger, soxArgv, ffArgv []string, total float64) error {
	diag := &diagnostics{}

	pr, pw, err := os.Pipe()
	if err != nil {
		return ErrTranscodeFailed.WithCause(err)
	}

	sox := p.command(ctx, log, p.tools.Sox, soxArgv...)
	sox.Stdout = pw
	sox.Stderr = diag

	ffmpeg := p.command(ctx, log, p.tools.FFmpeg, ffArgv...)
	ffmpeg.Stdin = pr
	stderr, err := ffmpeg.StderrPipe()
	if err != nil {
		pr.Close()
		pw.Close()
		return ErrTranscodeFailed.WithCause(err)
	}

	if err := sox.Start(); err != nil {
		pr.Close()
		pw.Close()
		return failure(ctx, ErrTranscodeFailed, fmt.Errorf("start %s: %w", p.tools.Sox, err), diag)
	}
	if err := ffmpeg.Start(); err != nil {
		pr.Close()
		pw.Close()
		_ = terminate(sox.Process)
		_ = sox.Wait()
		return failure(ctx, ErrTranscodeFailed, fmt.Errorf("start %s: %w", p.tools.FFmpeg, err), diag)
	}
	// Both ends now belong to the children
	pr.Close()
	pw.Close()

	tracker := progress.NewTracker()
	var g errgroup.Group

	g.Go(func() error {
		if err := sox.Wait(); err != nil {
			return fmt.Errorf("%s: %w", p.tools.Sox, err)
		}
		return nil
	})

	g.Go(func() error {
		err := scanOutput(stderr, diag, func(line string) {
			if secs, ok := progress.ParseEncoderTime(line); ok {
				u := progress.FromSeconds(secs, total)
				tracker.Observe(u)
				p.observer.Progress(StateTranscoding, tracker.Elapsed(), u)
				return
			}
			diag.add(line)
		})
		if err != nil {
			log.Warn("encoder output read failed", "error", err)
		}
		if err := ffmpeg.Wait(); err != nil {
			return fmt.Errorf("%s: %w", p.tools.FFmpeg, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return failure(ctx, ErrTranscodeFailed, err, diag)
	}
	if ctx.Err() != nil {
		return failure(ctx, ErrTranscodeFailed, nil, diag)
	}

	// ffmpeg's timer can stop short of the end of the stream
	if last, ok := tracker.Last(); total > 0 && (!ok || last.Seconds < total) {
		p.observer.Progress(StateTranscoding, tracker.Elapsed(), progress.Complete(total))
	}
	return nil
}
