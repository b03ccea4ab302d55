package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous passes.
	//
	// This function returns the block height assignment for each tracer
	// in the input list.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits the frame using the tracers' speed estimates.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

// Split frame into blocks proportional to each tracer's speed estimate.
func (naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	assignment := make([]uint32, len(tracers))
	if len(tracers) == 0 {
		return assignment
	}

	var total float64 = 0.0
	for _, tr := range tracers {
		total += float64(tr.SpeedEstimate())
	}

	scaler := float64(frameH) / total
	for idx, tr := range tracers {
		assignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.SpeedEstimate())*scaler)))
	}

	return balance(assignment, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent passes is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split frame into blocks of variable height and assign to the pool
// of tracers using feedback collected from previous passes.
//
// This function returns the block height assignment for each tracer in the
// input list. When previous pass information is available the scheduler
// uses the following formula for estimating the workload for tracer w and pass i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = NaiveScheduler().Schedule(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last pass statistics
	var total float64 = 0.0
	rates := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		// Avoid division by zero for blocks that completed instantly
		blockTime := math.Max(1.0, float64(stats.BlockTime))
		rates[idx] = float64(stats.BlockH) / blockTime
		total += rates[idx]
	}

	// Without any feedback fall back to the speed estimates.
	if total == 0 {
		sch.blockAssignment = NaiveScheduler().Schedule(tracers, frameH)
		return sch.blockAssignment
	}

	scaler := float64(frameH) / total
	for idx := range tracers {
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(rates[idx]*scaler)))
	}

	sch.blockAssignment = balance(sch.blockAssignment, frameH)
	return sch.blockAssignment
}

// Adjust a block assignment so that it covers exactly frameH rows. Missing
// rows are appended to the first tracer; excess rows are removed from the
// largest blocks.
func balance(assignment []uint32, frameH uint32) []uint32 {
	var scheduledRows uint32 = 0
	for _, rows := range assignment {
		scheduledRows += rows
	}

	if scheduledRows <= frameH {
		assignment[0] += frameH - scheduledRows
		return assignment
	}

	for excess := scheduledRows - frameH; excess > 0; excess-- {
		largest := 0
		for idx, rows := range assignment {
			if rows > assignment[largest] {
				largest = idx
			}
		}
		assignment[largest]--
	}
	return assignment
}
