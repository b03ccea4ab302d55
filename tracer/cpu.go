package tracer

import (
	"fmt"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/sampler"
)

// A tracer that runs scene queries on a dedicated goroutine.
type cpuTracer struct {
	logger log.Logger

	id string

	sc     *scene.Scene
	camera Camera
	frame  *Frame

	// Block requests are processed by the worker goroutine.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// The sampler is only accessed by the worker goroutine.
	sampler *sampler.Random

	stats *Stats
}

// Create a new cpu tracer and start its worker.
func newCPUTracer(id string, sc *scene.Scene, camera Camera, frame *Frame) *cpuTracer {
	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		sc:           sc,
		camera:       camera,
		frame:        frame,
		blockReqChan: make(chan BlockRequest, 1),
		closeChan:    make(chan struct{}),
		sampler:      sampler.NewRandom(0),
		stats:        &Stats{},
	}
	tr.startWorker()
	return tr
}

// Get tracer id.
func (tr *cpuTracer) ID() string {
	return tr.id
}

// All cpu tracers share the same baseline speed.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.blockReqChan <- blockReq
}

// Shutdown the worker and wait for it to exit.
func (tr *cpuTracer) Close() {
	if tr.closeChan == nil {
		return
	}
	tr.closeChan <- struct{}{}
	<-tr.closeChan
	close(tr.closeChan)
	tr.closeChan = nil
}

func (tr *cpuTracer) startWorker() {
	go func() {
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				if err := tr.process(blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}
				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()
}

// Trace the rows of a block request. Every row reseeds the sampler so
// results do not depend on how rows are split between tracers.
func (tr *cpuTracer) process(blockReq BlockRequest) error {
	start := time.Now()
	var isect scene.SurfaceInteraction

	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		select {
		case <-blockReq.Abort:
			return ErrInterrupted
		default:
		}

		tr.sampler.Seed(blockReq.Seed + int64(blockReq.Pass)*int64(tr.frame.H) + int64(y))
		rowOffset := y * tr.frame.W
		for x := uint32(0); x < tr.frame.W; x++ {
			ray := tr.camera.Ray(x, y, tr.sampler.Get2D())
			hit, transmittance := tr.sc.IntersectTr(ray, tr.sampler, &isect)
			if hit {
				tr.frame.Hits[rowOffset+x]++
				continue
			}
			tr.frame.Transmittance[rowOffset+x] = tr.frame.Transmittance[rowOffset+x].Add(transmittance)
		}
	}

	tr.stats.BlockH = blockReq.BlockH
	tr.stats.BlockTime = time.Since(start)
	tr.logger.Debugf("traced rows [%d, %d) of pass %d in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, blockReq.Pass, tr.stats.BlockTime)
	return nil
}
