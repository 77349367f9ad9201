// Package capture renders a range of timeline frames and hands each one to a
// set of sinks.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/engine"
	"github.com/specialistvlad/fxgraph/internal/render"
)

// ErrEmptyFrame is returned when the output node produced no texture.
var ErrEmptyFrame = errors.New("output node produced no texture")

// Sink receives captured frames. The image is only valid during the call.
type Sink interface {
	WriteFrame(ctx context.Context, frame int, img *image.RGBA) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, frame int, img *image.RGBA) error

func (f SinkFunc) WriteFrame(ctx context.Context, frame int, img *image.RGBA) error {
	return f(ctx, frame, img)
}

// Options select the frames to capture. End below zero means the last frame
// of the timeline. Step defaults to one.
type Options struct {
	Start int
	End   int
	Step  int
}

// Report summarizes a finished capture.
type Report struct {
	Frames  int
	Elapsed time.Duration
}

// Run renders every selected frame in order and writes it to each sink.
// Cancellation is checked between frames. The timeline is put back at the
// time it had before the capture, on every return path.
func Run(ctx context.Context, eng *engine.Engine, opts Options, sinks ...Sink) (rep Report, err error) {
	logger := ctxlog.FromContext(ctx)
	tl := eng.Timeline()
	start, end, step, err := frameRange(opts, tl.TotalFrames())
	if err != nil {
		return rep, err
	}

	saved := tl.CurrentTime()
	began := time.Now()
	var staging *render.Texture
	defer func() {
		if staging != nil {
			eng.Backend().Release(staging)
		}
		tl.SetTime(saved)
		rep.Elapsed = time.Since(began)
	}()

	logger.Info("Capture started.", "start", start, "end", end, "step", step, "sinks", len(sinks))
	for frame := start; frame <= end; frame += step {
		if err := ctx.Err(); err != nil {
			logger.Warn("Capture cancelled.", "frame", frame, "captured", rep.Frames)
			return rep, err
		}
		tex, err := eng.RenderFrame(ctx, frame)
		if err != nil {
			return rep, err
		}
		if tex == nil {
			return rep, fmt.Errorf("frame %d: %w", frame, ErrEmptyFrame)
		}
		if staging == nil {
			staging = eng.Backend().NewTexture(tex.Width(), tex.Height())
		}
		staging.CopyTexture(tex)
		for _, s := range sinks {
			if err := s.WriteFrame(ctx, frame, staging.Image()); err != nil {
				return rep, fmt.Errorf("frame %d: %w", frame, err)
			}
		}
		rep.Frames++
		logger.Debug("Frame captured.", "frame", frame)
	}
	logger.Info("Capture finished.", "frames", rep.Frames)
	return rep, nil
}

func frameRange(opts Options, total int) (start, end, step int, err error) {
	start, end, step = opts.Start, opts.End, opts.Step
	if end < 0 || end > total {
		end = total
	}
	if step <= 0 {
		step = 1
	}
	if start < 0 || start > end {
		return 0, 0, 0, fmt.Errorf("invalid frame range %d..%d", opts.Start, end)
	}
	return start, end, step, nil
}
