package runstream

import (
	"context"
	"errors"
	"io"
)

// Scheduler is the coalescing boundary between transcript mutations and the
// caller's render callback. Schedule records a snapshot for asynchronous
// delivery; Flush delivers the pending snapshot synchronously.
// render.Scheduler is the standard implementation.
type Scheduler interface {
	Schedule(blocks []ContentBlock)
	Flush()
}

// Runner drives one run: it drains a Source, folds each event into the
// Transcript, and schedules a render after every mutation.
type Runner struct {
	transcript *Transcript
	scheduler  Scheduler
}

// NewRunner creates a Runner mutating transcript and rendering through
// scheduler.
func NewRunner(transcript *Transcript, scheduler Scheduler) *Runner {
	return &Runner{transcript: transcript, scheduler: scheduler}
}

// Run consumes src until normal completion, transport error, or ctx
// cancellation. The source is closed and a final snapshot is flushed on
// every exit path, so the caller always observes the terminal state (a
// non-empty snapshot even for an empty run).
func (r *Runner) Run(ctx context.Context, src Source) (err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = cerr
		}
		r.scheduler.Schedule(r.transcript.Snapshot())
		r.scheduler.Flush()
	}()

	for {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		evt, nerr := src.Next()
		if errors.Is(nerr, io.EOF) {
			return nil
		}
		if nerr != nil {
			return nerr
		}
		if evt == nil {
			continue
		}
		r.transcript.Apply(evt)
		r.scheduler.Schedule(r.transcript.Snapshot())
	}
}
