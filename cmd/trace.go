package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/achilleasa/lumen/asset/reader"
	"github.com/achilleasa/lumen/metrics"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/medium"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/types"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
	"golang.org/x/image/bmp"
)

// Trace a grid of camera rays through a scene.
func TraceScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	axis, err := axisIndex(ctx.String("axis"))
	if err != nil {
		return err
	}
	camera, err := cameraType(ctx.String("camera"))
	if err != nil {
		return err
	}
	frameW, frameH, err := frameSize(ctx.Int("width"), ctx.Int("height"))
	if err != nil {
		return err
	}
	if ctx.Int("passes") < 0 {
		return errors.New("pass count must be non-negative")
	}

	opts := tracer.Options{
		FrameW:  frameW,
		FrameH:  frameH,
		Workers: ctx.Int("workers"),
		Passes:  uint32(ctx.Int("passes")),
		Seed:    ctx.Int64("seed"),
		Axis:    axis,
		Camera:  camera,
		FOV:     float32(ctx.Float64("fov")),
		Yaw:     float32(ctx.Float64("yaw")),
		Pitch:   float32(ctx.Float64("pitch")),
	}

	sigmaA, sigmaS := float32(ctx.Float64("sigma-a")), float32(ctx.Float64("sigma-s"))
	if sigmaA < 0 || sigmaS < 0 {
		return errors.New("medium coefficients must be non-negative")
	}
	if sigmaA > 0 || sigmaS > 0 {
		opts.Medium = medium.NewHomogeneous("surrounding", types.ConstSpectrum(sigmaA), types.ConstSpectrum(sigmaS))
		logger.Infof("rays start inside a homogeneous medium with sigma_a=%g, sigma_s=%g", sigmaA, sigmaS)
	}

	counters := metrics.NewCounters()
	sceneOpts := []scene.Option{scene.WithCounters(counters)}
	if ctx.IsSet("max-hops") {
		sceneOpts = append(sceneOpts, scene.WithMaxTransparentHops(ctx.Int("max-hops")))
	}

	sc, err := reader.ReadScene(ctx.Args().First(), bvhOptions(ctx), sceneOpts...)
	if err != nil {
		return err
	}

	r, err := tracer.New(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Abort on interrupt
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := r.Run(runCtx)
	if err != nil {
		return err
	}

	// Display stats
	var buf bytes.Buffer
	res.SummaryTable(&buf)
	logger.Noticef("ray statistics\n%s", buf.String())
	buf.Reset()
	res.Table(&buf)
	logger.Noticef("tracer statistics\n%s", buf.String())
	displayCounters(counters.Snapshot())

	if out := ctx.String("out"); out != "" {
		if err = writeVisibilityImage(res.Frame, out); err != nil {
			return err
		}
		logger.Noticef("wrote visibility image to %s", out)
	}

	if out := ctx.String("metrics-out"); out != "" {
		registry := prometheus.NewRegistry()
		if err = registry.Register(metrics.NewCollector(counters, sc.ID().String())); err != nil {
			return err
		}
		if err = prometheus.WriteToTextfile(out, registry); err != nil {
			return err
		}
		logger.Noticef("wrote query metrics to %s", out)
	}

	return nil
}

func displayCounters(snapshot metrics.Snapshot) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Intersection tests", "Shadow tests", "Transmittance hops", "Degenerate chains"})
	table.Append([]string{
		fmt.Sprint(snapshot.IntersectionTests),
		fmt.Sprint(snapshot.ShadowTests),
		fmt.Sprint(snapshot.TransmittanceHops),
		fmt.Sprint(snapshot.DegenerateChains),
	})
	table.Render()
	logger.Noticef("query statistics\n%s", buf.String())
}

func writeVisibilityImage(frame *tracer.Frame, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err = bmp.Encode(f, frame.Image()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Map an axis name to its index.
func axisIndex(name string) (int, error) {
	switch name {
	case "x", "X":
		return 0, nil
	case "y", "Y":
		return 1, nil
	case "z", "Z":
		return 2, nil
	}
	return -1, fmt.Errorf("invalid axis %q; expected one of x, y or z", name)
}

// Map a camera name to its type.
func cameraType(name string) (tracer.CameraType, error) {
	switch strings.ToLower(name) {
	case "ortho":
		return tracer.OrthoCamera, nil
	case "perspective":
		return tracer.PerspectiveCamera, nil
	}
	return 0, fmt.Errorf("invalid camera %q; expected ortho or perspective", name)
}

// Validate the frame dims before they are narrowed to the tracer's unsigned
// types.
func frameSize(w, h int) (uint32, uint32, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("frame dimensions must be positive; got %dx%d", w, h)
	}
	if uint64(w)*uint64(h) > math.MaxUint32 {
		return 0, 0, fmt.Errorf("frame dimensions %dx%d are too large", w, h)
	}
	return uint32(w), uint32(h), nil
}
