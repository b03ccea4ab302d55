package tracer

import "github.com/achilleasa/lumen/scene"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of parallel tracers. Values <= 0 select one tracer per CPU.
	Workers int

	// Number of jittered passes over the frame.
	Passes uint32

	// Seed for the per-row samplers.
	Seed int64

	// The axis that rays travel along (0: X, 1: Y, 2: Z). Perspective
	// cameras look along it before yaw and pitch are applied.
	Axis int

	// The camera used for generating primary rays.
	Camera CameraType

	// Perspective camera field of view in degrees. Zero selects 60.
	FOV float32

	// Perspective camera orbit angles around the scene center in degrees.
	Yaw   float32
	Pitch float32

	// The medium that rays start in. Nil selects vacuum.
	Medium scene.Medium
}
