package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of attached cpu tracers and the goroutines used by each one.
	// A non-positive worker count selects one worker per cpu.
	NumTracers       int
	WorkersPerTracer int

	// Max rows per block request. Cancellation is checked between blocks.
	BlockRows uint32

	// Max primitives per bvh leaf.
	LeafCapacity int
}

const defaultBlockRows uint32 = 16
