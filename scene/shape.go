package scene

import "github.com/achilleasa/lumen/types"

type ShapeKind uint8

const (
	TriangleShape ShapeKind = iota
	SphereShape
)

// Returns true if shapes of this kind are explicit polygons.
func (k ShapeKind) IsPolygon() bool {
	return k == TriangleShape
}

func (k ShapeKind) String() string {
	switch k {
	case TriangleShape:
		return "triangle"
	case SphereShape:
		return "sphere"
	default:
		return "unknown"
	}
}

// The geometric part of a primitive. Shape geometry is immutable once
// constructed.
type Shape interface {
	// The shape kind. It is set when the shape is created and never changes.
	Kind() ShapeKind

	WorldBound() types.Bounds3

	// Find the nearest hit in (0, ray.TMax). On a hit, isect receives the
	// hit geometry, including the error bounds of the hit point, and the
	// parametric hit distance is returned.
	Intersect(ray Ray, isect *SurfaceInteraction) (float32, bool)

	// Returns true if the ray hits the shape in (0, ray.TMax).
	IntersectP(ray Ray) bool

	Area() float32
}

// A shape with explicit vertices.
type Polygon interface {
	Shape

	NumVertices() int
	Vertex(i int) types.Vec3
}

// Narrow a shape to a Polygon if its kind tag says it is one.
func AsPolygon(s Shape) (Polygon, bool) {
	if s == nil || !s.Kind().IsPolygon() {
		return nil, false
	}
	p, ok := s.(Polygon)
	return p, ok
}
