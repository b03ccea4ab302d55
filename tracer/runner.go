package tracer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

type RunnerOption func(*Runner)

// Use a custom block scheduler. The default is the perfect scheduler.
func WithScheduler(scheduler BlockScheduler) RunnerOption {
	return func(r *Runner) {
		r.scheduler = scheduler
	}
}

// Use a custom logger.
func WithLogger(logger log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Per-tracer statistics for the last traced pass.
type TracerStat struct {
	// The tracer id.
	ID string `json:"id"`

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32  `json:"block_h"`
	FramePercent float32 `json:"frame_percent"`

	// Trace time for assigned block
	BlockTime time.Duration `json:"block_time"`
}

// The outcome of a Run.
type Result struct {
	Frame *Frame `json:"-"`

	// Number of traced rays and how many of them were occluded.
	Rays     uint64 `json:"rays"`
	Occluded uint64 `json:"occluded"`

	// Average transmittance of the unoccluded rays.
	MeanTransmittance types.Spectrum `json:"mean_transmittance"`

	// Individual tracer stats.
	Tracers []TracerStat `json:"tracers"`

	// Total trace time for all passes.
	Elapsed time.Duration `json:"elapsed"`
}

// Casts a grid of camera rays through a scene using a pool of
// tracers. A Runner is not safe for concurrent use.
type Runner struct {
	logger log.Logger

	opts      Options
	sc        *scene.Scene
	scheduler BlockScheduler
	tracers   []Tracer
	frame     *Frame
}

// Create a new runner for the given scene.
func New(sc *scene.Scene, opts Options, runnerOpts ...RunnerOption) (*Runner, error) {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameSize
	}
	if opts.Axis < 0 || opts.Axis > 2 {
		return nil, ErrInvalidAxis
	}

	bounds := sc.WorldBound()
	if bounds.IsEmpty() {
		return nil, ErrEmptyScene
	}
	if opts.Passes == 0 {
		opts.Passes = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	// Each tracer needs at least one row.
	if opts.Workers > int(opts.FrameH) {
		opts.Workers = int(opts.FrameH)
	}

	r := &Runner{
		logger:    log.New("tracer"),
		opts:      opts,
		sc:        sc,
		scheduler: PerfectScheduler(),
		frame:     newFrame(opts.FrameW, opts.FrameH),
	}
	for _, opt := range runnerOpts {
		opt(r)
	}

	camera, err := newCamera(bounds, opts)
	if err != nil {
		return nil, err
	}
	if pc, ok := camera.(*perspectiveCamera); ok {
		r.logger.Debugf("perspective camera at %v\n%s", pc.eye, pc.frustum)
	}
	for i := 0; i < opts.Workers; i++ {
		r.tracers = append(r.tracers, newCPUTracer(fmt.Sprintf("cpu-%d", i), sc, camera, r.frame))
	}

	r.logger.Infof("attached %d tracers for a %dx%d frame", len(r.tracers), opts.FrameW, opts.FrameH)
	return r, nil
}

// Shutdown all attached tracers.
func (r *Runner) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get the accumulated frame.
func (r *Runner) Frame() *Frame {
	return r.frame
}

// Trace all passes. The context is checked between passes and by the
// tracers before each row.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	start := time.Now()
	var stats []TracerStat
	for pass := uint32(0); pass < r.opts.Passes; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, err)
		}

		var err error
		stats, err = r.tracePass(ctx, pass)
		if err != nil {
			return nil, err
		}
		r.frame.Passes++
	}

	res := r.summarize()
	res.Tracers = stats
	res.Elapsed = time.Since(start)

	r.logger.Noticef(
		"traced %d rays in %s: %d occluded, mean transmittance %s",
		res.Rays, res.Elapsed, res.Occluded, res.MeanTransmittance,
	)
	return res, nil
}

// Split the frame between the tracers and wait for all blocks to complete.
func (r *Runner) tracePass(ctx context.Context, pass uint32) ([]TracerStat, error) {
	blockAssignment := r.scheduler.Schedule(r.tracers, r.opts.FrameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32 = 0
	pending := 0
	for idx, tr := range r.tracers {
		if blockAssignment[idx] == 0 {
			continue
		}
		tr.Enqueue(BlockRequest{
			BlockY:   blockY,
			BlockH:   blockAssignment[idx],
			Pass:     pass,
			Seed:     r.opts.Seed,
			Abort:    ctx.Done(),
			DoneChan: doneChan,
			ErrChan:  errChan,
		})
		blockY += blockAssignment[idx]
		pending++
	}

	// Wait for all tracers even after an error so that no tracer is still
	// writing to the frame when we return.
	var firstErr error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	stats := make([]TracerStat, 0, len(r.tracers))
	for idx, tr := range r.tracers {
		stat := TracerStat{
			ID:           tr.ID(),
			BlockH:       blockAssignment[idx],
			FramePercent: 100.0 * float32(blockAssignment[idx]) / float32(r.opts.FrameH),
		}
		if stat.BlockH != 0 {
			stat.BlockTime = tr.Stats().BlockTime
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

func (r *Runner) summarize() *Result {
	res := &Result{
		Frame: r.frame,
		Rays:  uint64(len(r.frame.Hits)) * uint64(r.frame.Passes),
	}

	var sum types.Spectrum
	for idx, hits := range r.frame.Hits {
		res.Occluded += uint64(hits)
		sum = sum.Add(r.frame.Transmittance[idx])
	}
	if unoccluded := res.Rays - res.Occluded; unoccluded > 0 {
		res.MeanTransmittance = sum.Scale(1 / float32(unoccluded))
	}
	return res
}
