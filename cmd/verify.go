package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// The outcome of comparing the bvh index against a brute force scan.
type verifyReport struct {
	Rays       int
	Hits       uint64
	IndexTime  time.Duration
	BruteTime  time.Duration
	IndexStats bvh.Stats
}

// Check that bvh queries match a brute force scan for a random scene.
func VerifyIndex(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	primCount := ctx.Int("primitives")
	rayCount := ctx.Int("rays")
	if primCount <= 0 || rayCount <= 0 {
		return errors.New("primitive and ray counts must be positive")
	}

	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	shapes := scene.RandomShapes(rng, primCount/2, primCount-primCount/2, float32(ctx.Float64("radius")))

	report, err := verify(shapes, rng, rayCount, ctx.Int("leaf-size"))
	if err != nil {
		return err
	}

	logger.Noticef("bvh information:\n%s", report.IndexStats.Table())
	logger.Noticef("verification report\n%s", report.Table())
	return nil
}

func verify(shapes []scene.Shape, rng *rand.Rand, rayCount, leafCapacity int) (*verifyReport, error) {
	prims := make([]bvh.Primitive, len(shapes))
	for i, shape := range shapes {
		prims[i] = shape
	}

	index, err := bvh.Build(prims, leafCapacity)
	if err != nil {
		return nil, err
	}

	// Cast rays from points around the world bounds
	bbox := index.BBox()
	radius := bbox.Extent().Len()
	rays := make([]bvh.Ray, rayCount)
	for i := range rays {
		origin := scene.RandomPointInSphere(rng, bbox.Centroid(), radius)
		rays[i] = bvh.NewRay(origin, scene.RandomDirection(rng))
	}

	report := &verifyReport{Rays: rayCount, IndexStats: index.Stats()}
	indexHits := make([]bvh.Intersection, rayCount)
	bruteHits := make([]bvh.Intersection, rayCount)

	start := time.Now()
	forEachChunk(rayCount, func(from, to int) error {
		for i := from; i < to; i++ {
			indexHits[i] = index.NearestHit(rays[i])
		}
		return nil
	})
	report.IndexTime = time.Since(start)

	start = time.Now()
	forEachChunk(rayCount, func(from, to int) error {
		for i := from; i < to; i++ {
			bruteHits[i] = bvh.BruteForce(prims, rays[i])
		}
		return nil
	})
	report.BruteTime = time.Since(start)

	err = forEachChunk(rayCount, func(from, to int) error {
		var hits uint64
		for i := from; i < to; i++ {
			if !sameHit(indexHits[i], bruteHits[i]) {
				return fmt.Errorf("verify: ray %d: index reported hit at %f; brute force reported %f", i, indexHits[i].Distance, bruteHits[i].Distance)
			}
			if indexHits[i].Hit() {
				hits++
			}
		}
		atomic.AddUint64(&report.Hits, hits)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Compare two query results by distance. Primitives hit at exactly the same
// distance may be reported in a different order by the index and the scan.
func sameHit(a, b bvh.Intersection) bool {
	if a.Hit() != b.Hit() {
		return false
	}
	return !a.Hit() || a.Distance == b.Distance
}

// Split [0, count) into one chunk per cpu and process them concurrently.
func forEachChunk(count int, fn func(from, to int) error) error {
	chunks := runtime.NumCPU()
	chunkSize := (count + chunks - 1) / chunks

	var g errgroup.Group
	for from := 0; from < count; from += chunkSize {
		from, to := from, from+chunkSize
		if to > count {
			to = count
		}
		g.Go(func() error {
			return fn(from, to)
		})
	}
	return g.Wait()
}

func (r *verifyReport) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Method", "Rays", "Hits", "Time", "Time / ray"})
	table.Append([]string{"bvh", fmt.Sprintf("%d", r.Rays), fmt.Sprintf("%d", r.Hits), r.IndexTime.String(), (r.IndexTime / time.Duration(r.Rays)).String()})
	table.Append([]string{"brute force", fmt.Sprintf("%d", r.Rays), fmt.Sprintf("%d", r.Hits), r.BruteTime.String(), (r.BruteTime / time.Duration(r.Rays)).String()})

	speedup := "-"
	if r.IndexTime > 0 {
		speedup = fmt.Sprintf("%.1fx", float64(r.BruteTime)/float64(r.IndexTime))
	}
	table.SetFooter([]string{"", "", "", "SPEEDUP", speedup})
	table.Render()
	return buf.String()
}
