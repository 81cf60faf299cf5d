package export

import (
	"context"
	"fmt"
)

// FrameSource produces encoded frames in presentation order. The render
// compositor implements it; tests substitute their own.
type FrameSource interface {
	TotalFrames() int
	RenderFrame(ctx context.Context, i int) ([]byte, error)
}

// EncoderSession is the streaming surface the orchestrator drives. The
// concrete Session wraps an encoder process.
type EncoderSession interface {
	Start() error
	SendFrame(frame []byte) error
	FinishStream() error
	Abort()
	Wait(ctx context.Context) error
}

// ProgressFunc observes progress after each streamed frame. current is
// the 1-based count of frames already handed to the encoder.
type ProgressFunc func(current, total int)

// Run drives a full export: start the encoder, push every frame in
// order, finish the stream, and wait for the process to settle. Frame
// n+1 is never rendered before frame n has been accepted, so encoder
// backpressure paces the rendering loop.
//
// Cancelling ctx aborts the encoder and yields ResultCancelled. Any
// failure also aborts, so no half-written process outlives the job.
func Run(ctx context.Context, session EncoderSession, frames FrameSource, progress ProgressFunc) Outcome {
	if err := session.Start(); err != nil {
		return Outcome{Result: ResultFailed, Err: err}
	}

	total := frames.TotalFrames()
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			session.Abort()
			return Outcome{Result: ResultCancelled}
		}

		frame, err := frames.RenderFrame(ctx, i)
		if err != nil {
			session.Abort()
			if ctx.Err() != nil {
				return Outcome{Result: ResultCancelled}
			}
			return Outcome{Result: ResultFailed, Err: fmt.Errorf("render frame %d: %w", i, err)}
		}
		if err := session.SendFrame(frame); err != nil {
			session.Abort()
			if ctx.Err() != nil {
				return Outcome{Result: ResultCancelled}
			}
			return Outcome{Result: ResultFailed, Err: err}
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	if err := session.FinishStream(); err != nil {
		session.Abort()
		return Outcome{Result: ResultFailed, Err: err}
	}
	if err := session.Wait(ctx); err != nil {
		session.Abort()
		if ctx.Err() != nil {
			return Outcome{Result: ResultCancelled}
		}
		return Outcome{Result: ResultFailed, Err: err}
	}
	return Outcome{Result: ResultCompleted}
}
