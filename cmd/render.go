package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"time"

	"github.com/achilleasa/flatbvh/renderer"
	"github.com/achilleasa/flatbvh/scene/reader"
	"github.com/achilleasa/flatbvh/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame and save its depth image.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts := renderer.Options{
		FrameW:           uint32(ctx.Int("width")),
		FrameH:           uint32(ctx.Int("height")),
		NumTracers:       ctx.Int("tracers"),
		WorkersPerTracer: ctx.Int("workers"),
		BlockRows:        uint32(ctx.Int("block-rows")),
		LeafCapacity:     ctx.Int("leaf-size"),
	}

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	def, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}
	shapes, camera, err := def.Instanciate()
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewDefault(shapes, camera, tracer.NaiveScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Stop rendering on interrupt
	renderCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = r.Render(renderCtx); err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	// Export PNG
	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, renderer.DepthImage(r.Intersections(), opts.FrameW, opts.FrameH)); err != nil {
		return fmt.Errorf("error encoding png file: %w", err)
	}
	logger.Noticef("wrote depth image to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Primary", "Block height", "% of frame", "Rays", "Hits", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%d", stat.Hits),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%d", stats.Rays), fmt.Sprintf("%d (%02.1f %%)", stats.Hits, stats.HitPercent()), stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
