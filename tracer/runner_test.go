package tracer

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/bvh"
	"github.com/achilleasa/lumen/scene/medium"
	"github.com/achilleasa/lumen/scene/shape"
	"github.com/achilleasa/lumen/types"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Silence()
}

var gray = scene.NewDiffuseMaterial("gray", types.ConstSpectrum(0.5))

// A square in the z=z0 plane spanning [-1, 1] on X and Y with its normal
// pointing along +Z.
func quadAt(z0 float32, mat *scene.Material, mi *scene.MediumInterface) []scene.Primitive {
	mesh, err := shape.NewTriangleMesh(
		[]types.Vec3{
			types.XYZ(-1, -1, z0),
			types.XYZ(1, -1, z0),
			types.XYZ(1, 1, z0),
			types.XYZ(-1, 1, z0),
		},
		nil,
		[]int32{0, 1, 2, 0, 2, 3},
	)
	if err != nil {
		panic(err)
	}

	var prims []scene.Primitive
	for _, tri := range mesh.Triangles() {
		prims = append(prims, scene.NewGeometricPrimitive(tri, mat, scene.WithMediumInterface(mi)))
	}
	return prims
}

// Two materialless quads at z=0 and z=1 bounding a slab of the given medium.
func slabScene(m scene.Medium) *scene.Scene {
	prims := append(
		quadAt(0, nil, scene.NewMediumInterface(nil, m)),
		quadAt(1, nil, scene.NewMediumInterface(m, nil))...,
	)
	return scene.New(bvh.New(prims), nil)
}

func TestRunOpaqueQuad(t *testing.T) {
	sc := scene.New(bvh.New(quadAt(0, gray, nil)), nil)

	r, err := New(sc, Options{FrameW: 8, FrameH: 8, Workers: 3, Passes: 2, Axis: 2})
	require.NoError(t, err)
	defer r.Close()

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(128), res.Rays)
	require.Equal(t, uint64(128), res.Occluded)
	require.Equal(t, types.Spectrum{}, res.MeanTransmittance)
	require.Len(t, res.Tracers, 3)

	var rows uint32
	for _, stat := range res.Tracers {
		rows += stat.BlockH
	}
	require.Equal(t, uint32(8), rows, "expected blocks to cover the frame")

	for _, hits := range res.Frame.Hits {
		require.Equal(t, uint32(2), hits)
	}
	require.Zero(t, res.Frame.Visibility(4, 4))
}

func TestRunThroughMediumSlab(t *testing.T) {
	sc := slabScene(medium.NewHomogeneous("fog", types.ConstSpectrum(0.5), types.ConstSpectrum(0)))

	r, err := New(sc, Options{FrameW: 4, FrameH: 4, Workers: 2, Axis: 2})
	require.NoError(t, err)
	defer r.Close()

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(16), res.Rays)
	require.Zero(t, res.Occluded)

	exp := float32(math.Exp(-0.5))
	for i := 0; i < types.SpectrumChannels; i++ {
		require.InDelta(t, exp, res.MeanTransmittance[i], 1e-4)
	}
	require.InDelta(t, exp, res.Frame.Visibility(1, 2), 1e-4)

	img := res.Frame.Image()
	require.Equal(t, 4, img.Bounds().Dx())
	require.InDelta(t, exp*255, float32(img.GrayAt(0, 0).Y), 1)
}

func TestRunInsideSurroundingMedium(t *testing.T) {
	sc := scene.New(bvh.New(quadAt(0, nil, nil)), nil)
	fog := medium.NewHomogeneous("fog", types.ConstSpectrum(1), types.ConstSpectrum(0))

	r, err := New(sc, Options{FrameW: 2, FrameH: 2, Workers: 1, Axis: 2, Medium: fog})
	require.NoError(t, err)
	defer r.Close()

	// Rays never leave the medium so nothing reaches the far side
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, res.Occluded)
	require.InDelta(t, 0, res.MeanTransmittance.Average(), 1e-6)
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	grid, err := medium.NewGrid(
		"smoke", 1, 1,
		types.Bounds3{Min: types.XYZ(-1, -1, 0), Max: types.XYZ(1, 1, 1)},
		2, 2, 2,
		[]float32{0.1, 0.9, 0.3, 0.7, 0.5, 0.2, 0.8, 0.4},
	)
	require.NoError(t, err)
	sc := slabScene(grid)

	trace := func(workers int) *Frame {
		r, err := New(sc, Options{FrameW: 6, FrameH: 6, Workers: workers, Passes: 3, Seed: 42, Axis: 2})
		require.NoError(t, err)
		defer r.Close()

		res, err := r.Run(context.Background())
		require.NoError(t, err)
		return res.Frame
	}

	single, multi := trace(1), trace(4)
	require.Equal(t, single.Hits, multi.Hits)
	require.Equal(t, single.Transmittance, multi.Transmittance)
}

func TestRunAlongOtherAxes(t *testing.T) {
	sc := scene.New(bvh.New([]scene.Primitive{
		scene.NewGeometricPrimitive(shape.NewSphere(types.XYZ(0, 0, 0), 1), gray),
	}), nil)

	for axis := 0; axis < 3; axis++ {
		r, err := New(sc, Options{FrameW: 16, FrameH: 16, Workers: 2, Axis: axis})
		require.NoError(t, err)

		res, err := r.Run(context.Background())
		r.Close()
		require.NoError(t, err)

		// The sphere covers pi/4 of its bounding square
		frac := float64(res.Occluded) / float64(res.Rays)
		require.InDelta(t, math.Pi/4, frac, 0.1, "axis %d", axis)
		require.Equal(t, uint32(1), res.Frame.Hits[8*16+8], "expected the center ray to hit along axis %d", axis)
	}
}

func TestRunPerspectiveCamera(t *testing.T) {
	type spec struct {
		prims      []scene.Primitive
		yaw, pitch float32
	}

	sphere := []scene.Primitive{scene.NewGeometricPrimitive(shape.NewSphere(types.XYZ(0, 0, 0), 1), gray)}
	specs := []spec{
		{prims: quadAt(0, gray, nil)},
		// Orbiting to the far side still looks at the scene center.
		{prims: quadAt(0, gray, nil), yaw: 180},
		{prims: sphere, yaw: 90, pitch: 30},
		{prims: sphere, yaw: -45, pitch: -60},
	}

	for specIndex, s := range specs {
		sc := scene.New(bvh.New(s.prims), nil)
		r, err := New(sc, Options{
			FrameW:  9,
			FrameH:  9,
			Workers: 2,
			Axis:    2,
			Camera:  PerspectiveCamera,
			Yaw:     s.yaw,
			Pitch:   s.pitch,
		})
		require.NoError(t, err)

		res, err := r.Run(context.Background())
		r.Close()
		require.NoError(t, err)

		require.Equal(t, uint32(1), res.Frame.Hits[4*9+4], "[spec %d] expected the center ray to hit", specIndex)
		for _, corner := range []uint32{0, 8, 8 * 9, 9*9 - 1} {
			require.Zero(t, res.Frame.Hits[corner], "[spec %d] expected corner pixel %d to miss", specIndex, corner)
		}
	}
}

func TestPerspectiveCameraRays(t *testing.T) {
	bounds := types.Bounds3{Min: types.XYZ(-1, -1, -1), Max: types.XYZ(1, 1, 1)}
	fog := medium.NewHomogeneous("fog", types.ConstSpectrum(1), types.ConstSpectrum(0))
	cam := newPerspectiveCamera(bounds, 2, 90, 0, 0, 4, 2, fog)

	center := cam.Ray(2, 1, types.XY(0, 0))
	require.InDelta(t, 1, center.Dir[2], 1e-5)
	require.InDelta(t, 0, center.Dir[0], 1e-5)
	require.Less(t, center.Origin[2], bounds.Min[2])
	require.Equal(t, scene.Medium(fog), center.Medium)

	// Row 0 maps to the top of the frame and column 0 to its left edge.
	tl := cam.Ray(0, 0, types.XY(0, 0))
	require.InDelta(t, 1, tl.Dir.Len(), 1e-5)
	require.Less(t, tl.Dir[0], float32(0))
	require.Greater(t, tl.Dir[1], float32(0))
	require.Contains(t, cam.frustum.String(), "TL :")
}

func TestRunCancelled(t *testing.T) {
	sc := scene.New(bvh.New(quadAt(0, gray, nil)), nil)

	r, err := New(sc, Options{FrameW: 4, FrameH: 4, Workers: 2})
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx)
	require.ErrorIs(t, err, ErrInterrupted)
}

func TestRunAfterClose(t *testing.T) {
	sc := scene.New(bvh.New(quadAt(0, gray, nil)), nil)

	r, err := New(sc, Options{FrameW: 4, FrameH: 4, Workers: 2})
	require.NoError(t, err)
	r.Close()

	_, err = r.Run(context.Background())
	require.ErrorIs(t, err, ErrNoTracers)
}

func TestNewValidatesOptions(t *testing.T) {
	sc := scene.New(bvh.New(quadAt(0, gray, nil)), nil)

	_, err := New(sc, Options{FrameW: 0, FrameH: 4})
	require.ErrorIs(t, err, ErrInvalidFrameSize)

	_, err = New(sc, Options{FrameW: 4, FrameH: 4, Axis: 3})
	require.ErrorIs(t, err, ErrInvalidAxis)

	_, err = New(scene.New(bvh.New(nil), nil), Options{FrameW: 4, FrameH: 4})
	require.ErrorIs(t, err, ErrEmptyScene)

	_, err = New(sc, Options{FrameW: 4, FrameH: 4, Camera: CameraType(7)})
	require.ErrorIs(t, err, ErrInvalidCamera)

	for _, fov := range []float32{-10, 180, 270} {
		_, err = New(sc, Options{FrameW: 4, FrameH: 4, Camera: PerspectiveCamera, FOV: fov})
		require.ErrorIs(t, err, ErrInvalidFOV, "fov %v", fov)
	}

	r, err := New(sc, Options{FrameW: 4, FrameH: 2, Workers: 8})
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.tracers, 2, "expected worker count to be capped by the frame height")
}

func TestResultTables(t *testing.T) {
	sc := scene.New(bvh.New(quadAt(0, gray, nil)), nil)

	r, err := New(sc, Options{FrameW: 4, FrameH: 4, Workers: 2, Axis: 2}, WithScheduler(NaiveScheduler()))
	require.NoError(t, err)
	defer r.Close()

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	res.Table(&buf)
	require.Contains(t, buf.String(), "cpu-0")
	require.Contains(t, buf.String(), "cpu-1")
	require.Contains(t, buf.String(), "50.0 %")

	buf.Reset()
	res.SummaryTable(&buf)
	require.Contains(t, buf.String(), "Mean transmittance")
	require.Contains(t, buf.String(), "16")
}
