package shape

import (
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// A single triangle of a TriangleMesh.
type Triangle struct {
	mesh  *TriangleMesh
	index int32
}

// Create a standalone triangle backed by its own single-triangle mesh.
func NewTriangle(v0, v1, v2 types.Vec3) *Triangle {
	mesh := &TriangleMesh{
		Vertices: []types.Vec3{v0, v1, v2},
		Indices:  []int32{0, 1, 2},
	}
	return &Triangle{mesh: mesh}
}

// Narrow a shape to a Triangle if its kind tag says it is one.
func AsTriangle(s scene.Shape) (*Triangle, bool) {
	if s == nil || s.Kind() != scene.TriangleShape {
		return nil, false
	}
	t, ok := s.(*Triangle)
	return t, ok
}

// Kind implements scene.Shape.
func (t *Triangle) Kind() scene.ShapeKind {
	return scene.TriangleShape
}

// Get the mesh the triangle belongs to.
func (t *Triangle) Mesh() *TriangleMesh {
	return t.mesh
}

// NumVertices implements scene.Polygon.
func (t *Triangle) NumVertices() int {
	return 3
}

// Vertex implements scene.Polygon. It panics if i is not a valid vertex index.
func (t *Triangle) Vertex(i int) types.Vec3 {
	if i < 0 || i >= t.NumVertices() {
		panic(ErrVertexIndex)
	}
	return t.mesh.Vertices[t.mesh.Indices[3*int(t.index)+i]]
}

func (t *Triangle) vertices() (types.Vec3, types.Vec3, types.Vec3) {
	base := 3 * int(t.index)
	idx := t.mesh.Indices[base : base+3]
	return t.mesh.Vertices[idx[0]], t.mesh.Vertices[idx[1]], t.mesh.Vertices[idx[2]]
}

// WorldBound implements scene.Shape.
func (t *Triangle) WorldBound() types.Bounds3 {
	v0, v1, v2 := t.vertices()
	return types.BoundsFromPoints(v0, v1, v2)
}

// Area implements scene.Shape.
func (t *Triangle) Area() float32 {
	v0, v1, v2 := t.vertices()
	return 0.5 * v1.Sub(v0).Cross(v2.Sub(v0)).Len()
}

// Watertight ray-triangle test. Returns the hit distance and the barycentric
// coordinates of the hit point.
func (t *Triangle) hit(ray scene.Ray) (tHit, b0, b1, b2 float32, ok bool) {
	v0, v1, v2 := t.vertices()

	// Move the ray origin to (0,0,0) and make z the dominant ray axis.
	kz := ray.Dir.Abs().MaxDimension()
	kx := (kz + 1) % 3
	ky := (kx + 1) % 3
	d := permute(ray.Dir, kx, ky, kz)
	if d[2] == 0 {
		return 0, 0, 0, 0, false
	}
	p0t := permute(v0.Sub(ray.Origin), kx, ky, kz)
	p1t := permute(v1.Sub(ray.Origin), kx, ky, kz)
	p2t := permute(v2.Sub(ray.Origin), kx, ky, kz)

	// Shear so that the ray points along +z.
	sx, sy, sz := -d[0]/d[2], -d[1]/d[2], 1/d[2]
	p0t[0] += sx * p0t[2]
	p0t[1] += sy * p0t[2]
	p1t[0] += sx * p1t[2]
	p1t[1] += sy * p1t[2]
	p2t[0] += sx * p2t[2]
	p2t[1] += sy * p2t[2]

	e0 := p1t[0]*p2t[1] - p1t[1]*p2t[0]
	e1 := p2t[0]*p0t[1] - p2t[1]*p0t[0]
	e2 := p0t[0]*p1t[1] - p0t[1]*p1t[0]
	if e0 == 0 || e1 == 0 || e2 == 0 {
		e0 = edgeFunc64(p1t, p2t)
		e1 = edgeFunc64(p2t, p0t)
		e2 = edgeFunc64(p0t, p1t)
	}
	if (e0 < 0 || e1 < 0 || e2 < 0) && (e0 > 0 || e1 > 0 || e2 > 0) {
		return 0, 0, 0, 0, false
	}
	det := e0 + e1 + e2
	if det == 0 {
		return 0, 0, 0, 0, false
	}

	p0t[2] *= sz
	p1t[2] *= sz
	p2t[2] *= sz
	tScaled := e0*p0t[2] + e1*p1t[2] + e2*p2t[2]
	if det < 0 && (tScaled >= 0 || tScaled <= ray.TMax*det) {
		return 0, 0, 0, 0, false
	}
	if det > 0 && (tScaled <= 0 || tScaled >= ray.TMax*det) {
		return 0, 0, 0, 0, false
	}

	invDet := 1 / det
	b0, b1, b2 = e0*invDet, e1*invDet, e2*invDet
	tHit = tScaled * invDet
	if tHit >= ray.TMax {
		return 0, 0, 0, 0, false
	}

	// Reject hits that cannot be told apart from the ray origin.
	maxZt := types.XYZ(p0t[2], p1t[2], p2t[2]).Abs().MaxComponent()
	maxXt := types.XYZ(p0t[0], p1t[0], p2t[0]).Abs().MaxComponent()
	maxYt := types.XYZ(p0t[1], p1t[1], p2t[1]).Abs().MaxComponent()
	maxE := types.XYZ(e0, e1, e2).Abs().MaxComponent()
	deltaZ := types.Gamma(3) * maxZt
	deltaX := types.Gamma(5) * (maxXt + maxZt)
	deltaY := types.Gamma(5) * (maxYt + maxZt)
	deltaE := 2 * (types.Gamma(2)*maxXt*maxYt + deltaY*maxXt + deltaX*maxYt)
	deltaT := 3 * (types.Gamma(3)*maxE*maxZt + deltaE*maxZt + deltaZ*maxE) * abs32(invDet)
	if tHit <= deltaT {
		return 0, 0, 0, 0, false
	}
	return tHit, b0, b1, b2, true
}

func permute(v types.Vec3, x, y, z int) types.Vec3 {
	return types.Vec3{v[x], v[y], v[z]}
}

func edgeFunc64(a, b types.Vec3) float32 {
	return float32(float64(a[0])*float64(b[1]) - float64(a[1])*float64(b[0]))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// IntersectP implements scene.Shape.
func (t *Triangle) IntersectP(ray scene.Ray) bool {
	_, _, _, _, ok := t.hit(ray)
	return ok
}

// Intersect implements scene.Shape.
func (t *Triangle) Intersect(ray scene.Ray, isect *scene.SurfaceInteraction) (float32, bool) {
	tHit, b0, b1, b2, ok := t.hit(ray)
	if !ok {
		return 0, false
	}

	v0, v1, v2 := t.vertices()
	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

	// Default parametrization: uv (0,0), (1,0), (1,1).
	dpdu := v1.Sub(v0)
	dpdv := v2.Sub(v1)

	isect.P = v0.Mul(b0).Add(v1.Mul(b1)).Add(v2.Mul(b2))
	isect.PError = v0.Mul(b0).Abs().
		Add(v1.Mul(b1).Abs()).
		Add(v2.Mul(b2).Abs()).
		Mul(types.Gamma(7))
	isect.N = n
	isect.UV = types.XY(b1+b2, b2)
	isect.Dpdu = dpdu
	isect.Dpdv = dpdv
	isect.Wo = ray.Dir.Neg().Normalize()
	isect.T = tHit

	isect.Shading.N = n
	isect.Shading.Dpdu = dpdu
	isect.Shading.Dpdv = dpdv
	if len(t.mesh.Normals) != 0 {
		base := 3 * int(t.index)
		idx := t.mesh.Indices[base : base+3]
		ns := t.mesh.Normals[idx[0]].Mul(b0).
			Add(t.mesh.Normals[idx[1]].Mul(b1)).
			Add(t.mesh.Normals[idx[2]].Mul(b2)).
			Normalize()
		if !ns.IsZero() {
			isect.Shading.N = ns
			// Keep the geometric normal on the same side as the shading normal.
			isect.N = n.FaceForward(ns)
		}
	}
	return tHit, true
}
