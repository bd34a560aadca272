package tracer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/log"
	"github.com/achilleasa/flatbvh/scene"
)

// A tracer that casts primary rays on the cpu. Rows of each block are striped
// across a fixed number of worker goroutines that query the bvh index
// concurrently.
type cpuTracer struct {
	logger log.Logger

	sync.Mutex

	// The tracer id.
	id string

	// Number of goroutines used for tracing a block.
	workers int

	// Frame dims and the shared intersection buffer.
	frameW    uint32
	frameH    uint32
	hitBuffer []bvh.Intersection

	// The index and camera used for tracing.
	index  *bvh.Index
	camera *scene.Camera

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[ChangeType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Closed when the worker shuts down to release pending Enqueue calls.
	stopChan chan struct{}

	// Statistics for last traced frame.
	stats     *Stats
	lastFrame uint32
}

// Create a new cpu tracer. If workers is not positive then one worker per
// available cpu is used.
func NewCPUTracer(id string, workers int) Tracer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		workers:      workers,
		updateBuffer: make(map[ChangeType]interface{}),
		blockReqChan: make(chan BlockRequest),
		stats:        &Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Each worker counts as one baseline unit.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return float32(tr.workers)
}

// Setup the tracer and start the block worker.
func (tr *cpuTracer) Setup(frameW, frameH uint32, hitBuffer []bvh.Intersection) error {
	tr.Lock()
	defer tr.Unlock()

	if frameW == 0 || frameH == 0 {
		return fmt.Errorf("tracer: invalid frame dimensions %dx%d", frameW, frameH)
	}
	if need := int(frameW) * int(frameH); len(hitBuffer) < need {
		return fmt.Errorf("tracer: hit buffer holds %d entries; need %d", len(hitBuffer), need)
	}

	tr.frameW = frameW
	tr.frameH = frameH
	tr.hitBuffer = hitBuffer

	if tr.closeChan == nil {
		tr.startWorker()
	}

	tr.logger.Debugf("setup for %dx%d frames using %d workers", frameW, frameH, tr.workers)
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan, stopChan := tr.closeChan, tr.stopChan
	tr.closeChan, tr.stopChan = nil, nil
	tr.Unlock()

	// If the worker is running shut it down. The lock is not held here as
	// the worker needs it for processing any block it has already accepted.
	if closeChan != nil {
		close(stopChan)
		closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-closeChan
		close(closeChan)
	}

	tr.Lock()
	defer tr.Unlock()
	tr.hitBuffer = nil
	tr.index = nil
	tr.camera = nil
}

// Enqueue block request. The call blocks until the worker accepts the
// request; if the tracer is not setup or gets closed while waiting the
// request fails with ErrNotSetup.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	tr.Lock()
	stopChan := tr.stopChan
	tr.Unlock()

	if stopChan == nil {
		blockReq.ErrChan <- ErrNotSetup
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	case <-stopChan:
		blockReq.ErrChan <- ErrNotSetup
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) AppendChange(changeType ChangeType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()

	tr.updateBuffer[changeType] = data
}

// Apply all pending changes from the update buffer.
func (tr *cpuTracer) ApplyPendingChanges() error {
	tr.Lock()
	defer tr.Unlock()

	for changeType, data := range tr.updateBuffer {
		switch changeType {
		case SetIndex:
			index, ok := data.(*bvh.Index)
			if !ok || index == nil {
				return ErrIndexNotDefined
			}
			tr.index = index
		case UpdateCamera:
			camera, ok := data.(*scene.Camera)
			if !ok || camera == nil {
				return ErrCameraNotDefined
			}
			tr.camera = camera
		default:
			return fmt.Errorf("tracer: unsupported change type %d", changeType)
		}
	}

	tr.updateBuffer = make(map[ChangeType]interface{})
	return nil
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Start the block worker. This method is meant to be called while holding tr.Lock().
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	tr.stopChan = make(chan struct{})
	readyChan := make(chan struct{})

	go func(closeChan chan struct{}) {
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				tr.process(blockReq)
			case <-closeChan:
				closeChan <- struct{}{}
				return
			}
		}
	}(tr.closeChan)

	<-readyChan
}

// Trace the rows of a block request and signal completion.
func (tr *cpuTracer) process(blockReq BlockRequest) {
	tr.Lock()
	index, camera := tr.index, tr.camera
	frameW, frameH, hitBuffer := tr.frameW, tr.frameH, tr.hitBuffer
	tr.Unlock()

	switch {
	case index == nil:
		blockReq.ErrChan <- ErrIndexNotDefined
		return
	case camera == nil:
		blockReq.ErrChan <- ErrCameraNotDefined
		return
	case blockReq.BlockY+blockReq.BlockH > frameH:
		blockReq.ErrChan <- ErrBlockOutOfBounds
		return
	}

	if blockReq.FrameCount != tr.lastFrame {
		*tr.stats = Stats{}
		tr.lastFrame = blockReq.FrameCount
	}

	start := time.Now()
	var hits uint64
	var wg sync.WaitGroup
	for w := 0; w < tr.workers; w++ {
		wg.Add(1)
		go func(firstRow uint32) {
			defer wg.Done()
			var workerHits uint64
			endRow := blockReq.BlockY + blockReq.BlockH
			for y := firstRow; y < endRow; y += uint32(tr.workers) {
				row := hitBuffer[y*frameW : (y+1)*frameW]
				for x := uint32(0); x < frameW; x++ {
					row[x] = index.NearestHit(camera.PixelRay(x, y, frameW, frameH))
					if row[x].Hit() {
						workerHits++
					}
				}
			}
			atomic.AddUint64(&hits, workerHits)
		}(blockReq.BlockY + uint32(w))
	}
	wg.Wait()

	elapsed := time.Since(start)
	tr.stats.BlockH += blockReq.BlockH
	tr.stats.BlockTime += elapsed.Nanoseconds()
	tr.stats.Rays += uint64(blockReq.BlockH) * uint64(frameW)
	tr.stats.Hits += hits

	tr.logger.Debugf("traced rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, elapsed)
	blockReq.DoneChan <- blockReq.BlockH
}
