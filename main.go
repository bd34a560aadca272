package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	leafSizeFlag := cli.IntFlag{
		Name:  "leaf-size",
		Value: bvh.DefaultLeafCapacity,
		Usage: "max primitives per bvh leaf",
	}

	app := cli.NewApp()
	app.Name = "flatbvh"
	app.Usage = "accelerate ray queries using a flat bounding volume hierarchy"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "cast a primary ray for each pixel and save a depth image",
			Description: `
Load a scene definition, build a BVH index over its shapes and find the nearest
intersection for each frame pixel using a pool of cpu tracers.

Scene files may be plain json (.json) or compressed with zstd (.json.zst) or
snappy (.json.sz). Remote scenes can be loaded via http(s) URLs.`,
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "tracers",
					Value: 1,
					Usage: "number of cpu tracers",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "goroutines per tracer (0 = one per cpu)",
				},
				cli.IntFlag{
					Name:  "block-rows",
					Value: 16,
					Usage: "max rows per tracer block request",
				},
				leafSizeFlag,
				cli.StringFlag{
					Name:  "out, o",
					Value: "depth.png",
					Usage: "image filename for the depth image",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:  "scene",
			Usage: "scene tools",
			Subcommands: []cli.Command{
				{
					Name:      "info",
					Usage:     "display scene and bvh information",
					ArgsUsage: "scene_file",
					Flags:     []cli.Flag{leafSizeFlag},
					Action:    cmd.ShowSceneInfo,
				},
				{
					Name:  "generate",
					Usage: "generate a scene with randomly placed spheres and cuboids",
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "spheres",
							Value: 500,
							Usage: "number of spheres",
						},
						cli.IntFlag{
							Name:  "cuboids",
							Value: 500,
							Usage: "number of cuboids",
						},
						cli.Float64Flag{
							Name:  "radius",
							Value: 50,
							Usage: "radius of the sphere containing the shape centers",
						},
						cli.Float64Flag{
							Name:  "fov",
							Value: 45,
							Usage: "camera vertical field of view in degrees",
						},
						cli.Int64Flag{
							Name:  "seed",
							Value: 1,
							Usage: "random generator seed",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "scene.json",
							Usage: "scene filename; use a .zst or .sz suffix for compression",
						},
					},
					Action: cmd.GenerateScene,
				},
				{
					Name:  "compress",
					Usage: "convert scene files to another codec",
					Description: `
Read each scene file and write it next to the original using the selected codec.
The output name is generated by replacing the codec suffix of the input.`,
					ArgsUsage: "scene_file1 scene_file2 ...",
					Flags: []cli.Flag{
						cli.StringFlag{
							Name:  "codec, c",
							Value: "zstd",
							Usage: "output codec (plain, zstd, snappy)",
						},
					},
					Action: cmd.CompressScene,
				},
			},
		},
		{
			Name:  "verify",
			Usage: "compare bvh queries against a brute force scan for a random scene",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "primitives",
					Value: 1000,
					Usage: "number of random shapes",
				},
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of random rays",
				},
				cli.Float64Flag{
					Name:  "radius",
					Value: 50,
					Usage: "radius of the sphere containing the shape centers",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random generator seed",
				},
				leafSizeFlag,
			},
			Action: cmd.VerifyIndex,
		},
		{
			Name:      "debug",
			Usage:     "dump the bvh nodes built for a scene",
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				leafSizeFlag,
				cli.IntFlag{
					Name:  "max-nodes",
					Value: 64,
					Usage: "max nodes to display (0 = all)",
				},
			},
			Action: cmd.DebugIndex,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
