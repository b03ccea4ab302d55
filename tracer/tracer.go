// Package tracer casts orthographic grids of rays through a scene using a
// pool of parallel tracers.
package tracer

import "time"

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The frame pass this block belongs to.
	Pass uint32

	// Base seed for the per-row samplers.
	Seed int64

	// Tracers stop processing rows once this channel is closed.
	Abort <-chan struct{}

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The traced block height
	BlockH uint32

	// The time for tracing this block
	BlockTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	ID() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracer's computation speed estimate compared to a
	// baseline implementation.
	SpeedEstimate() float32

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats
}
