package scene

import "github.com/achilleasa/lumen/types"

// An alpha mask decides whether a hit on a surface counts. Hits where the
// mask evaluates to zero are ignored.
type AlphaMask interface {
	Evaluate(isect *SurfaceInteraction) float32
}

// Adapter for using plain functions as alpha masks.
type AlphaMaskFunc func(isect *SurfaceInteraction) float32

// Evaluate implements AlphaMask.
func (f AlphaMaskFunc) Evaluate(isect *SurfaceInteraction) float32 {
	return f(isect)
}

type GeometricOption func(*GeometricPrimitive)

// Attach a medium interface to the primitive.
func WithMediumInterface(mi *MediumInterface) GeometricOption {
	return func(gp *GeometricPrimitive) {
		gp.mediumInterface = mi
	}
}

// Attach an alpha mask to the primitive.
func WithAlphaMask(mask AlphaMask) GeometricOption {
	return func(gp *GeometricPrimitive) {
		gp.alphaMask = mask
	}
}

// Pairs a shape with an optional material, medium interface and alpha mask.
type GeometricPrimitive struct {
	shape           Shape
	material        *Material
	mediumInterface *MediumInterface
	alphaMask       AlphaMask
}

// Create a new geometric primitive. A nil material makes the surface
// materialless.
func NewGeometricPrimitive(shape Shape, material *Material, opts ...GeometricOption) *GeometricPrimitive {
	gp := &GeometricPrimitive{
		shape:    shape,
		material: material,
	}
	for _, opt := range opts {
		opt(gp)
	}
	return gp
}

// Kind implements Primitive.
func (gp *GeometricPrimitive) Kind() PrimitiveKind {
	return GeometricKind
}

// Get the primitive shape.
func (gp *GeometricPrimitive) Shape() Shape {
	return gp.shape
}

// Material implements Primitive.
func (gp *GeometricPrimitive) Material() *Material {
	return gp.material
}

// Get the attached medium interface or nil.
func (gp *GeometricPrimitive) MediumInterface() *MediumInterface {
	return gp.mediumInterface
}

// WorldBound implements Primitive.
func (gp *GeometricPrimitive) WorldBound() types.Bounds3 {
	return gp.shape.WorldBound()
}

// Intersect implements Primitive.
func (gp *GeometricPrimitive) Intersect(ray Ray, isect *SurfaceInteraction) bool {
	if gp.alphaMask == nil {
		if _, hit := gp.shape.Intersect(ray, isect); !hit {
			return false
		}
		gp.finalize(ray, isect)
		return true
	}

	// Masked hits must not clobber a hit recorded earlier by the caller.
	var (
		tmp    SurfaceInteraction
		tBase  float32
		segRay = ray
	)
	for {
		tHit, hit := gp.shape.Intersect(segRay, &tmp)
		if !hit {
			return false
		}
		if gp.alphaMask.Evaluate(&tmp) != 0 {
			tmp.T = tBase + tHit
			break
		}

		// Keep looking past the masked hit within the remaining extent.
		tBase += tHit
		segRay = Ray{
			Origin: tmp.offsetOrigin(ray.Dir),
			Dir:    ray.Dir,
			TMax:   ray.TMax - tBase,
			Medium: ray.Medium,
		}
		if segRay.TMax <= 0 {
			return false
		}
	}

	*isect = tmp
	gp.finalize(ray, isect)
	return true
}

func (gp *GeometricPrimitive) finalize(ray Ray, isect *SurfaceInteraction) {
	isect.Primitive = gp
	isect.setMediumInterface(gp.mediumInterface, ray.Medium)
}

// IntersectP implements Primitive.
func (gp *GeometricPrimitive) IntersectP(ray Ray) bool {
	if gp.alphaMask != nil {
		var isect SurfaceInteraction
		return gp.Intersect(ray, &isect)
	}
	return gp.shape.IntersectP(ray)
}
