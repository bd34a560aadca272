package tracer

import (
	"errors"

	"github.com/achilleasa/flatbvh/bvh"
)

var (
	ErrIndexNotDefined  = errors.New("tracer: no index defined")
	ErrCameraNotDefined = errors.New("tracer: no camera defined")
	ErrNotSetup         = errors.New("tracer: frame buffers not setup")
	ErrBlockOutOfBounds = errors.New("tracer: block exceeds frame bounds")
)

type ChangeType uint8

const (
	// Replace the bvh index; payload is a *bvh.Index.
	SetIndex ChangeType = iota

	// Replace the camera; payload is a *scene.Camera.
	UpdateCamera
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The frame this block belongs to. Tracer stats are reset whenever a
	// request for a new frame is received.
	FrameCount uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics for the last frame.
type Stats struct {
	// The traced block height
	BlockH uint32

	// The time for tracing this block (in nanoseconds)
	BlockTime int64

	// Number of traced primary rays and the number of rays that hit a primitive.
	Rays uint64
	Hits uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline single-core implementation.
	SpeedEstimate() float32

	// Setup the tracer. Traced blocks write their intersections to the
	// matching rows of hitBuffer which must hold frameW * frameH entries.
	Setup(frameW, frameH uint32, hitBuffer []bvh.Intersection) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer.
	AppendChange(ChangeType, interface{})

	// Apply all pending changes from the update buffer.
	ApplyPendingChanges() error

	// Retrieve last frame statistics.
	Stats() *Stats
}
