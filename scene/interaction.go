package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// The shading frame of a surface interaction.
type ShadingFrame struct {
	N    types.Vec3
	Dpdu types.Vec3
	Dpdv types.Vec3
}

// A ray-surface hit record. Its contents are only defined after a query that
// reported a hit.
type SurfaceInteraction struct {
	// Hit point and geometric normal.
	P types.Vec3
	N types.Vec3

	// Conservative per-axis bound for the floating point error in P.
	PError types.Vec3

	// Surface parametrization.
	UV   types.Vec2
	Dpdu types.Vec3
	Dpdv types.Vec3

	Shading ShadingFrame

	// Outgoing direction (towards the ray origin, normalized).
	Wo types.Vec3

	// Parametric distance of the hit along the query ray.
	T float32

	// The primitive that was hit. The reference is only valid for as long as
	// the scene that produced it.
	Primitive Primitive

	// Set when the hit primitive separates two different media.
	MediumInterface *MediumInterface

	// The medium of the query ray when the hit surface is not a transition.
	rayMedium Medium
}

// Get the material of the hit primitive or nil if the surface is materialless.
func (si *SurfaceInteraction) Material() *Material {
	if si.Primitive == nil {
		return nil
	}
	return si.Primitive.Material()
}

// Get the medium a ray leaving the surface in direction w travels through.
func (si *SurfaceInteraction) GetMedium(w types.Vec3) Medium {
	if si.MediumInterface == nil {
		return si.rayMedium
	}
	if w.Dot(si.N) > 0 {
		return si.MediumInterface.Outside
	}
	return si.MediumInterface.Inside
}

// Spawn a ray leaving the surface in direction d. The origin is pushed off the
// surface along the normal towards d, just past the error bounds of P.
func (si *SurfaceInteraction) SpawnRay(d types.Vec3) Ray {
	r := NewRay(si.offsetOrigin(d), d)
	r.Medium = si.GetMedium(d)
	return r
}

// Attach the medium information of a primitive to the hit record.
func (si *SurfaceInteraction) setMediumInterface(mi *MediumInterface, rayMedium Medium) {
	if mi.IsTransition() {
		si.MediumInterface = mi
		si.rayMedium = nil
		return
	}
	si.MediumInterface = nil
	si.rayMedium = rayMedium
}

func (si *SurfaceInteraction) offsetOrigin(w types.Vec3) types.Vec3 {
	d := si.N.Abs().Dot(si.PError)
	offset := si.N.Mul(d)
	if w.Dot(si.N) < 0 {
		offset = offset.Neg()
	}
	po := si.P.Add(offset)

	// Round away from P so the offset survives the addition.
	for i := 0; i < 3; i++ {
		switch {
		case offset[i] > 0:
			po[i] = math.Nextafter32(po[i], float32(math.Inf(1)))
		case offset[i] < 0:
			po[i] = math.Nextafter32(po[i], float32(math.Inf(-1)))
		}
	}
	return po
}
