package scene

import "github.com/achilleasa/lumen/types"

// Places a shared primitive in the world using a static transform. This is
// how mesh instances reuse a single acceleration structure.
type TransformedPrimitive struct {
	prim        Primitive
	primToWorld types.Mat4
	worldToPrim types.Mat4
	bound       types.Bounds3
}

// Create a new transformed primitive. The transform must be an invertible
// affine matrix.
func NewTransformedPrimitive(prim Primitive, primToWorld types.Mat4) (*TransformedPrimitive, error) {
	worldToPrim, ok := primToWorld.InvAffine()
	if !ok {
		return nil, ErrSingularTransform
	}

	return &TransformedPrimitive{
		prim:        prim,
		primToWorld: primToWorld,
		worldToPrim: worldToPrim,
		bound:       primToWorld.MulBounds(prim.WorldBound()),
	}, nil
}

// Kind implements Primitive.
func (tp *TransformedPrimitive) Kind() PrimitiveKind {
	return TransformedKind
}

// Get the wrapped primitive.
func (tp *TransformedPrimitive) Primitive() Primitive {
	return tp.prim
}

// Get the primitive to world transform.
func (tp *TransformedPrimitive) Transform() types.Mat4 {
	return tp.primToWorld
}

// Material implements Primitive. Materials live on the wrapped geometric
// primitives and are reported through the hit record instead.
func (tp *TransformedPrimitive) Material() *Material {
	return nil
}

// WorldBound implements Primitive.
func (tp *TransformedPrimitive) WorldBound() types.Bounds3 {
	return tp.bound
}

// Intersect implements Primitive.
func (tp *TransformedPrimitive) Intersect(ray Ray, isect *SurfaceInteraction) bool {
	// The direction is not renormalized so parametric distances are the same
	// in both spaces.
	if !tp.prim.Intersect(tp.toPrimSpace(ray), isect) {
		return false
	}

	isect.P, isect.PError = tp.primToWorld.MulPointError(isect.P, isect.PError)
	isect.N = tp.worldToPrim.MulNormal(isect.N).Normalize()
	isect.Dpdu = tp.primToWorld.MulVector(isect.Dpdu)
	isect.Dpdv = tp.primToWorld.MulVector(isect.Dpdv)
	isect.Shading.N = tp.worldToPrim.MulNormal(isect.Shading.N).Normalize().FaceForward(isect.N)
	isect.Shading.Dpdu = tp.primToWorld.MulVector(isect.Shading.Dpdu)
	isect.Shading.Dpdv = tp.primToWorld.MulVector(isect.Shading.Dpdv)
	isect.Wo = ray.Dir.Neg().Normalize()
	return true
}

// IntersectP implements Primitive.
func (tp *TransformedPrimitive) IntersectP(ray Ray) bool {
	return tp.prim.IntersectP(tp.toPrimSpace(ray))
}

func (tp *TransformedPrimitive) toPrimSpace(ray Ray) Ray {
	return Ray{
		Origin: tp.worldToPrim.MulPoint(ray.Origin),
		Dir:    tp.worldToPrim.MulVector(ray.Dir),
		TMax:   ray.TMax,
		Medium: ray.Medium,
	}
}
