package tracer

import (
	"fmt"
	"math"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// The default perspective camera field of view in degrees.
const defaultFOV = 60

// Selects how primary rays are generated.
type CameraType uint8

const (
	// Parallel rays covering the scene bounds.
	OrthoCamera CameraType = iota

	// Rays fanning out from a single eye position.
	PerspectiveCamera
)

func (c CameraType) String() string {
	switch c {
	case OrthoCamera:
		return "ortho"
	case PerspectiveCamera:
		return "perspective"
	}
	return fmt.Sprintf("CameraType(%d)", uint8(c))
}

// A camera generates the primary ray for each frame pixel. Cameras are
// immutable and shared by all tracers.
type Camera interface {
	// Generate the ray for pixel (x, y) offset by jitter within the pixel.
	Ray(x, y uint32, jitter types.Vec2) scene.Ray
}

// Create the camera selected by opts for a scene with the given bounds.
func newCamera(bounds types.Bounds3, opts Options) (Camera, error) {
	switch opts.Camera {
	case OrthoCamera:
		return newOrthoCamera(bounds, opts.Axis, opts.FrameW, opts.FrameH, opts.Medium), nil
	case PerspectiveCamera:
		fov := opts.FOV
		if fov == 0 {
			fov = defaultFOV
		}
		if fov < 0 || fov >= 180 {
			return nil, ErrInvalidFOV
		}
		return newPerspectiveCamera(bounds, opts.Axis, fov, opts.Yaw, opts.Pitch, opts.FrameW, opts.FrameH, opts.Medium), nil
	}
	return nil, ErrInvalidCamera
}

// An orthographic camera that covers a bounding box with a grid of parallel
// rays travelling along one of the coordinate axes. Row 0 maps to the
// maximum of the vertical axis.
type orthoCamera struct {
	axis   int
	uAxis  int
	vAxis  int
	bounds types.Bounds3

	// Ray origins are placed on a plane outside the box.
	originPlane float32

	frameW float32
	frameH float32

	medium scene.Medium
}

// Create a camera for the given bounds, axis and frame dims.
func newOrthoCamera(bounds types.Bounds3, axis int, frameW, frameH uint32, medium scene.Medium) *orthoCamera {
	diag := bounds.Diagonal()
	margin := 1e-3 * max(1, diag.MaxComponent())

	return &orthoCamera{
		axis:        axis,
		uAxis:       (axis + 1) % 3,
		vAxis:       (axis + 2) % 3,
		bounds:      bounds,
		originPlane: bounds.Min[axis] - margin,
		frameW:      float32(frameW),
		frameH:      float32(frameH),
		medium:      medium,
	}
}

// Ray implements Camera.
func (c *orthoCamera) Ray(x, y uint32, jitter types.Vec2) scene.Ray {
	var origin, dir types.Vec3

	u := (float32(x) + jitter[0]) / c.frameW
	v := (float32(y) + jitter[1]) / c.frameH

	origin[c.axis] = c.originPlane
	origin[c.uAxis] = c.bounds.Min[c.uAxis] + u*(c.bounds.Max[c.uAxis]-c.bounds.Min[c.uAxis])
	origin[c.vAxis] = c.bounds.Max[c.vAxis] - v*(c.bounds.Max[c.vAxis]-c.bounds.Min[c.vAxis])
	dir[c.axis] = 1

	ray := scene.NewRay(origin, dir)
	ray.Medium = c.medium
	return ray
}

// Stores the ray directions at the four corners of the camera frustum in
// TL, TR, BL, BR order. Per pixel rays are generated by interpolating the
// corner rays.
type frustum [4]types.Vec3

func (fr frustum) String() string {
	return fmt.Sprintf(
		"Frustum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// A pinhole camera that orbits the scene bounds. With zero yaw and pitch it
// looks along the projection axis and frames the bounding sphere of the
// scene.
type perspectiveCamera struct {
	eye     types.Vec3
	frustum frustum
	frameW  float32
	frameH  float32
	medium  scene.Medium
}

// Create a perspective camera. The field of view and the yaw/pitch angles
// are specified in degrees.
func newPerspectiveCamera(bounds types.Bounds3, axis int, fov, yaw, pitch float32, frameW, frameH uint32, medium scene.Medium) *perspectiveCamera {
	var dir, right, up types.Vec3
	dir[axis] = 1
	right[(axis+1)%3] = 1
	up[(axis+2)%3] = 1

	pitchQuat := types.QuatFromAxisAngle(dir.Cross(up), degToRad(pitch))
	yawQuat := types.QuatFromAxisAngle(up, degToRad(yaw))
	orientQuat := pitchQuat.Mul(yawQuat).Normalize()
	dir = orientQuat.Rotate(dir).Normalize()
	right = orientQuat.Rotate(right).Normalize()
	up = orientQuat.Rotate(up).Normalize()

	aspect := float32(frameW) / float32(frameH)
	tanHalf := float32(math.Tan(float64(degToRad(fov * 0.5))))

	// Back off until the bounding sphere fits the narrower half-angle.
	radius := max(bounds.Diagonal().Len()*0.5, 1e-3)
	halfAngle := math.Atan(float64(min(tanHalf, tanHalf*aspect)))
	dist := radius / float32(math.Sin(halfAngle))

	h := up.Mul(tanHalf)
	w := right.Mul(tanHalf * aspect)
	fr := frustum{
		dir.Sub(w).Add(h),
		dir.Add(w).Add(h),
		dir.Sub(w).Sub(h),
		dir.Add(w).Sub(h),
	}

	return &perspectiveCamera{
		eye:     bounds.Center().Sub(dir.Mul(dist)),
		frustum: fr,
		frameW:  float32(frameW),
		frameH:  float32(frameH),
		medium:  medium,
	}
}

// Ray implements Camera.
func (c *perspectiveCamera) Ray(x, y uint32, jitter types.Vec2) scene.Ray {
	u := (float32(x) + jitter[0]) / c.frameW
	v := (float32(y) + jitter[1]) / c.frameH

	top := c.frustum[0].Add(c.frustum[1].Sub(c.frustum[0]).Mul(u))
	bottom := c.frustum[2].Add(c.frustum[3].Sub(c.frustum[2]).Mul(u))
	dir := top.Add(bottom.Sub(top).Mul(v)).Normalize()

	ray := scene.NewRay(c.eye, dir)
	ray.Medium = c.medium
	return ray
}

func degToRad(deg float32) float32 {
	return deg * math.Pi / 180
}
