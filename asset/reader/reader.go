// Package reader loads scenes from Wavefront OBJ files extended with
// participating media, spheres and mesh instances.
package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/bvh"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*Parsed, error)
}

// A named group of primitives.
type Mesh struct {
	Name       string
	Primitives []scene.Primitive
}

// The contents of a parsed scene file.
type Parsed struct {
	Meshes    []*Mesh
	Instances []*scene.TransformedPrimitive
	Materials map[string]*scene.Material
	Media     map[string]scene.Medium
}

// Get the top-level primitives of the scene. If the scene defines mesh
// instances then only the instances are returned; otherwise the primitives
// of all meshes are returned.
func (p *Parsed) Primitives() []scene.Primitive {
	var prims []scene.Primitive
	if len(p.Instances) != 0 {
		for _, inst := range p.Instances {
			prims = append(prims, inst)
		}
		return prims
	}

	for _, mesh := range p.Meshes {
		prims = append(prims, mesh.Primitives...)
	}
	return prims
}

// Read a scene file and return its parsed contents.
func ReadFile(filename string) (*Parsed, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	var r Reader
	switch {
	case strings.HasSuffix(filename, ".obj"):
		r = newWavefrontReader()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	return r.Read(res)
}

// Read a scene file and build a queryable scene from its top-level
// primitives.
func ReadScene(filename string, bvhOpts []bvh.Option, sceneOpts ...scene.Option) (*scene.Scene, error) {
	parsed, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Build(parsed, bvhOpts, sceneOpts...)
}

// Build a scene from parsed scene contents.
func Build(parsed *Parsed, bvhOpts []bvh.Option, sceneOpts ...scene.Option) (*scene.Scene, error) {
	prims := parsed.Primitives()
	if len(prims) == 0 {
		return nil, ErrEmptyScene
	}
	return scene.New(bvh.New(prims, bvhOpts...), nil, sceneOpts...), nil
}
