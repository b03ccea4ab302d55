package scene

import "github.com/achilleasa/lumen/types"

type PrimitiveKind uint8

const (
	GeometricKind PrimitiveKind = iota
	TransformedKind
	AggregateKind
)

func (k PrimitiveKind) String() string {
	switch k {
	case GeometricKind:
		return "geometric"
	case TransformedKind:
		return "transformed"
	case AggregateKind:
		return "aggregate"
	default:
		return "unknown"
	}
}

// A traceable scene object. Primitives are immutable once constructed and
// safe for concurrent queries.
type Primitive interface {
	// The primitive kind. It is set when the primitive is created and never
	// changes.
	Kind() PrimitiveKind

	WorldBound() types.Bounds3

	// Find the nearest hit in (0, ray.TMax) and populate isect. The contents
	// of isect are undefined if no hit is reported.
	Intersect(ray Ray, isect *SurfaceInteraction) bool

	// Returns true if there is any hit in (0, ray.TMax).
	IntersectP(ray Ray) bool

	// The surface material or nil. Only geometric primitives carry materials.
	Material() *Material
}

// A spatial index over a set of primitives.
type Aggregate interface {
	Primitive

	// Get a read-only view of the leaf primitives in leaf order.
	Leaves() PrimitiveView
}

// An ordered, indexable, read-only view over a primitive arena. The view does
// not own the primitives and must not outlive the aggregate it came from.
type PrimitiveView struct {
	prims []Primitive
}

// Wrap a primitive slice in a view.
func NewPrimitiveView(prims []Primitive) PrimitiveView {
	return PrimitiveView{prims: prims}
}

// The number of primitives in the view.
func (v PrimitiveView) Len() int {
	return len(v.prims)
}

// Get the i-th primitive.
func (v PrimitiveView) At(i int) Primitive {
	return v.prims[i]
}

// Narrow a primitive to a GeometricPrimitive if its kind tag says it is one.
func AsGeometric(p Primitive) (*GeometricPrimitive, bool) {
	if p == nil || p.Kind() != GeometricKind {
		return nil, false
	}
	gp, ok := p.(*GeometricPrimitive)
	return gp, ok
}

// Narrow a primitive to a TransformedPrimitive if its kind tag says it is one.
func AsTransformed(p Primitive) (*TransformedPrimitive, bool) {
	if p == nil || p.Kind() != TransformedKind {
		return nil, false
	}
	tp, ok := p.(*TransformedPrimitive)
	return tp, ok
}

// Narrow a primitive to an Aggregate if its kind tag says it is one.
func AsAggregate(p Primitive) (Aggregate, bool) {
	if p == nil || p.Kind() != AggregateKind {
		return nil, false
	}
	agg, ok := p.(Aggregate)
	return agg, ok
}
