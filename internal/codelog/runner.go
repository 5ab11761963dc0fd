package codelog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tansive/commitproof/internal/common/logtrace"
	"github.com/tansive/commitproof/internal/otp"
)

// DefaultInterval matches a once-a-minute cron entry.
const DefaultInterval = time.Minute

// Runner derives a code from a freshly read seed on every run.
type Runner struct {
	Source   otp.SeedSource
	Sink     Sink
	Deriver  *otp.Deriver     // nil uses the RFC defaults
	Interval time.Duration    // zero uses DefaultInterval
	Now      func() time.Time // nil uses time.Now
	Metrics  *Metrics         // optional
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logger(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}

// RunOnce performs a single derivation and reports its outcome. It never
// panics on a bad seed and never returns a partial line.
func (r *Runner) RunOnce(ctx context.Context) Result {
	res := r.runOnce(ctx)
	r.Metrics.observe(res.Class)

	l := r.logger(ctx)
	switch res.Class {
	case ClassSkipped:
		l.Warn().Err(res.Err).Msg("seed unavailable, skipping code for this interval")
	case ClassFailed:
		l.Error().Err(res.Err).Msg("code generation failed")
	default:
		l.Debug().Msg("code written")
	}
	return res
}

func (r *Runner) runOnce(ctx context.Context) Result {
	if r.Source == nil || r.Sink == nil {
		return Result{Class: ClassFailed, Err: errors.New("code runner requires a seed source and a sink")}
	}

	seed, err := r.Source.ReadSeed(ctx)
	if err != nil {
		return Result{Class: Classify(err), Err: err}
	}
	r.logger(ctx).Trace().Str("seed", logtrace.Redact(seed)).Msg("seed read")

	at := r.now()
	var code otp.OneTimeCode
	if r.Deriver != nil {
		code, err = r.Deriver.Derive(seed, at)
	} else {
		code, err = otp.DeriveCode(seed, at)
	}
	if err != nil {
		return Result{Class: Classify(err), Err: err}
	}

	line := FormatLine(at, code.Code)
	if err := r.Sink.WriteLine(line); err != nil {
		return Result{Class: ClassFailed, Err: err}
	}
	return Result{Line: line, Class: ClassOK}
}

// Run calls RunOnce immediately and then once per Interval until ctx is done.
// Per-run failures are logged and counted, never returned.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	r.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}
