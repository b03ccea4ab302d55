package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/lumen/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	bvhFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "min-leaf-items",
			Value: 4,
			Usage: "stop splitting bvh nodes with fewer primitives than this value",
		},
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "query ray intersections and visibility in scenes"
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
	}
	app.Commands = []cli.Command{
		{
			Name:        "info",
			Usage:       "display scene information",
			Description: `Parse a scene definition from a wavefront obj file, build a BVH tree and display scene statistics.`,
			ArgsUsage:   "scene_file.obj",
			Flags:       bvhFlags,
			Action:      cmd.ShowSceneInfo,
		},
		{
			Name:  "probe",
			Usage: "check that the scene bound encloses every polygon",
			Description: `
Cast a probe ray from the vertices of every polygon in the scene and verify
that it crosses the bounding box of the scene aggregate. The command exits
with a non-zero status if any probe fails.`,
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "axis",
					Value: "z",
					Usage: "probe direction as x, y, z, -x, -y, -z or a comma separated vector",
				},
				cli.BoolFlag{
					Name:  "all-vertices",
					Usage: "probe from every polygon vertex instead of the first one",
				},
				cli.Float64Flag{
					Name:  "epsilon",
					Usage: "tolerance for on-bound checks relative to the scene size",
				},
				cli.BoolFlag{
					Name:  "show-all",
					Usage: "list successful probes in table output",
				},
				cli.StringFlag{
					Name:  "format, f",
					Value: "table",
					Usage: "output format (table or json)",
				},
			}, bvhFlags...),
			Action: cmd.ProbeScene,
		},
		{
			Name:  "trace",
			Usage: "trace a grid of rays through the scene",
			Description: `
Cast a grid of rays along one of the coordinate axes through the scene bound
using a pool of parallel tracers. Rays are either parallel (ortho camera) or
fan out from an eye that orbits the scene center (perspective camera). Each
ray reports whether it was occluded and the transmittance of the participating
media it crossed.`,
			ArgsUsage: "scene_file.obj",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 256,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 256,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of parallel tracers (0 uses one tracer per CPU)",
				},
				cli.IntFlag{
					Name:  "passes",
					Value: 1,
					Usage: "number of jittered passes over the frame",
				},
				cli.StringFlag{
					Name:  "axis",
					Value: "z",
					Usage: "axis that rays travel along (x, y or z)",
				},
				cli.StringFlag{
					Name:  "camera",
					Value: "ortho",
					Usage: "camera type (ortho or perspective)",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 60,
					Usage: "perspective camera field of view in degrees",
				},
				cli.Float64Flag{
					Name:  "yaw",
					Usage: "perspective camera orbit angle around the vertical axis in degrees",
				},
				cli.Float64Flag{
					Name:  "pitch",
					Usage: "perspective camera orbit angle around the horizontal axis in degrees",
				},
				cli.Float64Flag{
					Name:  "sigma-a",
					Usage: "absorption coefficient of the medium surrounding the rays",
				},
				cli.Float64Flag{
					Name:  "sigma-s",
					Usage: "scattering coefficient of the medium surrounding the rays",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "seed for the ray samplers",
				},
				cli.IntFlag{
					Name:  "max-hops",
					Usage: "max materialless surfaces crossed by a transmittance query (0 disables the limit)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "bmp image filename for the per-pixel visibility",
				},
				cli.StringFlag{
					Name:  "metrics-out",
					Usage: "write query metrics in the prometheus text format to this file",
				},
			}, bvhFlags...),
			Action: cmd.TraceScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
