package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/achilleasa/flatbvh/asset"
	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/scene"
	"github.com/achilleasa/flatbvh/scene/reader"
	"github.com/achilleasa/flatbvh/scene/writer"
	"github.com/achilleasa/flatbvh/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display scene info and the stats of its bvh index.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

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

	world := scene.NewWorld(ctx.Int("leaf-size"))
	if err = world.AddShapes(shapes...); err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sceneInfo(world, camera))
	logger.Noticef("bvh information:\n%s", world.Index().Stats().Table())
	return nil
}

func sceneInfo(world *scene.World, camera *scene.Camera) string {
	counts := make(map[scene.ShapeType]int)
	for _, shape := range world.Shapes() {
		counts[shape.Type()]++
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Spheres", fmt.Sprintf("%d", counts[scene.SphereShape])})
	table.Append([]string{"Cuboids", fmt.Sprintf("%d", counts[scene.CuboidShape])})
	table.Append([]string{"Bounds", world.Index().BBox().String()})
	table.Append([]string{"Camera position", fmt.Sprintf("%v", camera.Position)})
	table.Append([]string{"Camera look at", fmt.Sprintf("%v", camera.LookAt)})
	table.Append([]string{"Camera fov", fmt.Sprintf("%3.1f", camera.FOV)})
	table.Render()
	return buf.String()
}

// Generate a random scene and write it to a file.
func GenerateScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	radius := float32(ctx.Float64("radius"))
	if radius <= 0 {
		return errors.New("world radius must be positive")
	}

	seed := ctx.Int64("seed")
	rng := rand.New(rand.NewSource(seed))
	shapes := scene.RandomShapes(rng, ctx.Int("spheres"), ctx.Int("cuboids"), radius)

	// Place the camera outside the world sphere looking at its center
	camera := scene.NewCamera(float32(ctx.Float64("fov")))
	camera.Position = types.XYZ(0, 0, radius*2.5)
	camera.LookAt = types.Vec3{}
	camera.Update()

	def, err := scene.NewDefinition(shapes, camera)
	if err != nil {
		return err
	}

	sceneFile := ctx.String("out")
	if err = writer.WriteScene(def, sceneFile); err != nil {
		return err
	}
	logger.Noticef("generated %d shapes (seed %d) in %s", len(shapes), seed, sceneFile)
	return nil
}

// Convert scene files to another codec. The output file name is generated by
// replacing the input codec suffix.
func CompressScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var suffix string
	switch ctx.String("codec") {
	case asset.Zstd.String():
		suffix = ".zst"
	case asset.Snappy.String():
		suffix = ".sz"
	case asset.Plain.String():
	default:
		return fmt.Errorf("unsupported codec %q", ctx.String("codec"))
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		baseName := strings.TrimSuffix(strings.TrimSuffix(sceneFile, ".zst"), ".sz")
		if !strings.HasSuffix(baseName, ".json") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		outFile := baseName + suffix
		if outFile == sceneFile {
			logger.Warningf("skipping %s; already using the %s codec", sceneFile, ctx.String("codec"))
			continue
		}

		def, err := reader.ReadScene(sceneFile)
		if err != nil {
			return err
		}
		if err = writer.WriteScene(def, outFile); err != nil {
			return err
		}
	}

	return nil
}

// Build the bvh index for a scene and dump its nodes.
func DebugIndex(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	def, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}
	shapes, _, err := def.Instanciate()
	if err != nil {
		return err
	}

	world := scene.NewWorld(ctx.Int("leaf-size"))
	if err = world.AddShapes(shapes...); err != nil {
		return err
	}

	logger.Noticef("bvh nodes:\n%s", nodeTable(world.Index(), ctx.Int("max-nodes")))
	return nil
}

func nodeTable(index *bvh.Index, maxNodes int) string {
	nodes := index.Nodes()
	if maxNodes > 0 && maxNodes < len(nodes) {
		nodes = nodes[:maxNodes]
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Node", "Type", "Start", "Count", "Right child", "BBox"})
	for idx, node := range nodes {
		nodeType, rightChild := "leaf", "-"
		if !node.IsLeaf() {
			nodeType = "internal"
			rightChild = fmt.Sprintf("%d", idx+int(node.RightOffset))
		}
		table.Append([]string{
			fmt.Sprintf("%d", idx),
			nodeType,
			fmt.Sprintf("%d", node.Start),
			fmt.Sprintf("%d", node.Count),
			rightChild,
			node.BBox.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", fmt.Sprintf("%d nodes", len(index.Nodes()))})
	table.Render()
	return buf.String()
}
