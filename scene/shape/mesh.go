// Package shape provides the triangle and sphere shapes.
package shape

import (
	"errors"
	"fmt"

	"github.com/achilleasa/lumen/types"
)

var (
	ErrBadIndexCount   = errors.New("shape: mesh index count must be a multiple of 3")
	ErrIndexOutOfRange = errors.New("shape: mesh index out of range")
	ErrNormalCount     = errors.New("shape: mesh normal count must match vertex count")
	ErrVertexIndex     = errors.New("shape: polygon vertex index out of range")
)

// A triangle mesh stores shared vertex data for all of its triangles. Mesh
// data is immutable once the mesh is created.
type TriangleMesh struct {
	// Vertex positions and optional per-vertex normals.
	Vertices []types.Vec3
	Normals  []types.Vec3

	// Three indices per triangle.
	Indices []int32
}

// Create a new triangle mesh. The normals slice may be empty.
func NewTriangleMesh(vertices, normals []types.Vec3, indices []int32) (*TriangleMesh, error) {
	if len(indices)%3 != 0 {
		return nil, ErrBadIndexCount
	}
	if len(normals) != 0 && len(normals) != len(vertices) {
		return nil, ErrNormalCount
	}
	for i, idx := range indices {
		if idx < 0 || int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: index %d at position %d (%d vertices)", ErrIndexOutOfRange, idx, i, len(vertices))
		}
	}

	return &TriangleMesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// The number of triangles in the mesh.
func (m *TriangleMesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// Create a shape for each mesh triangle.
func (m *TriangleMesh) Triangles() []*Triangle {
	tris := make([]*Triangle, m.NumTriangles())
	for i := range tris {
		tris[i] = &Triangle{mesh: m, index: int32(i)}
	}
	return tris
}

// Get the mesh bounds.
func (m *TriangleMesh) Bounds() types.Bounds3 {
	return types.BoundsFromPoints(m.Vertices...)
}
