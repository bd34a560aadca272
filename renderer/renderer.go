package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/log"
	"github.com/achilleasa/flatbvh/scene"
	"github.com/achilleasa/flatbvh/tracer"
	"golang.org/x/sync/errgroup"
)

type Renderer interface {
	// Cast a primary ray for each frame pixel and store the nearest
	// intersections. Cancelling ctx stops the frame between blocks.
	Render(ctx context.Context) error

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats

	// Get the per-pixel intersections of the last rendered frame in row
	// major order. The buffer is reused by the next call to Render.
	Intersections() []bvh.Intersection

	// Get the rendered world. Shapes must not be modified while a frame
	// is being rendered.
	World() *scene.World

	// Get the scene camera.
	Camera() *scene.Camera
}

// A renderer that splits each frame into row blocks and traces them using a
// pool of cpu tracers.
type defaultRenderer struct {
	logger log.Logger

	options Options

	world  *scene.World
	camera *scene.Camera

	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler

	hitBuffer  []bvh.Intersection
	frameCount uint32
	stats      FrameStats
}

// Create a renderer for a set of shapes seen through camera. The renderer
// builds its own world using opts.LeafCapacity.
func NewDefault(shapes []scene.Shape, camera *scene.Camera, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrame
	}
	if opts.NumTracers <= 0 {
		return nil, ErrNoTracers
	}
	if opts.BlockRows == 0 {
		opts.BlockRows = defaultBlockRows
	}
	if opts.LeafCapacity <= 0 {
		opts.LeafCapacity = bvh.DefaultLeafCapacity
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		options:   opts,
		world:     scene.NewWorld(opts.LeafCapacity),
		camera:    camera,
		scheduler: scheduler,
		hitBuffer: make([]bvh.Intersection, int(opts.FrameW)*int(opts.FrameH)),
	}

	if err := r.world.AddShapes(shapes...); err != nil {
		return nil, err
	}
	r.logger.Noticef("indexed %d shapes\n%s", len(shapes), r.world.Index().Stats().Table())

	camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	for i := 0; i < opts.NumTracers; i++ {
		tr := tracer.NewCPUTracer(fmt.Sprintf("cpu-%d", i), opts.WorkersPerTracer)
		if err := tr.Setup(opts.FrameW, opts.FrameH, r.hitBuffer); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}

	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

func (r *defaultRenderer) Intersections() []bvh.Intersection {
	return r.hitBuffer
}

func (r *defaultRenderer) World() *scene.World {
	return r.world
}

func (r *defaultRenderer) Camera() *scene.Camera {
	return r.camera
}

// Render a frame. Each tracer is driven by its own goroutine; the first
// tracer error cancels the remaining tracers.
func (r *defaultRenderer) Render(ctx context.Context) error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	r.frameCount++
	start := time.Now()

	// Sync world state with the tracers
	for _, tr := range r.tracers {
		tr.AppendChange(tracer.SetIndex, r.world.Index())
		tr.AppendChange(tracer.UpdateCamera, r.camera)
		if err := tr.ApplyPendingChanges(); err != nil {
			return err
		}
	}

	blockAssignment := r.scheduler.Schedule(r.tracers, r.options.FrameH)

	g, gctx := errgroup.WithContext(ctx)
	var nextRow uint32
	for idx, tr := range r.tracers {
		tr, blockY, blockH := tr, nextRow, blockAssignment[idx]
		if blockH > 0 {
			g.Go(func() error {
				return r.traceBlock(gctx, tr, blockY, blockH)
			})
		}
		nextRow += blockH
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		}
		return err
	}

	r.updateStats(blockAssignment, time.Since(start))
	r.logger.Infof("rendered frame %d in %s (%d/%d hits)", r.frameCount, r.stats.RenderTime, r.stats.Hits, r.stats.Rays)
	return nil
}

// Trace a tracer's rows in chunks of options.BlockRows. Blocks that were
// already enqueued always complete so the hit buffer is never written to
// after Render returns.
func (r *defaultRenderer) traceBlock(ctx context.Context, tr tracer.Tracer, blockY, blockH uint32) error {
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)

	for y := blockY; y < blockY+blockH; y += r.options.BlockRows {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows := r.options.BlockRows
		if y+rows > blockY+blockH {
			rows = blockY + blockH - y
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:     y,
			BlockH:     rows,
			FrameCount: r.frameCount,
			DoneChan:   doneChan,
			ErrChan:    errChan,
		})

		select {
		case <-doneChan:
		case err := <-errChan:
			return fmt.Errorf("renderer: tracer %s: %w", tr.Id(), err)
		}
	}
	return nil
}

func (r *defaultRenderer) updateStats(blockAssignment []uint32, renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		stats := tr.Stats()
		blockH := blockAssignment[idx]
		if blockH == 0 {
			// Idle tracers keep the stats of an older frame
			stats = &tracer.Stats{}
		}

		r.stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockH:       blockH,
			FramePercent: 100 * float32(blockH) / float32(r.options.FrameH),
			RenderTime:   time.Duration(stats.BlockTime),
			Rays:         stats.Rays,
			Hits:         stats.Hits,
		}
		r.stats.Rays += stats.Rays
		r.stats.Hits += stats.Hits
	}
}
