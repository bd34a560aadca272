package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// True if this is the primary tracer
	IsPrimary bool

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Traced primary rays and the rays that hit a primitive.
	Rays uint64
	Hits uint64
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration

	// Totals over all tracers.
	Rays uint64
	Hits uint64
}

// The percentage of rays that hit a primitive.
func (fs FrameStats) HitPercent() float32 {
	if fs.Rays == 0 {
		return 0
	}
	return 100 * float32(fs.Hits) / float32(fs.Rays)
}
