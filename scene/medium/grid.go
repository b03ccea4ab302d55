package medium

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

var (
	ErrGridSize       = errors.New("medium: density grid dimensions must be positive")
	ErrDensityCount   = errors.New("medium: density value count does not match grid dimensions")
	ErrGridBounds     = errors.New("medium: grid bounds must be non-empty")
	ErrZeroExtinction = errors.New("medium: grid extinction coefficient must be positive")
)

// A heterogeneous medium whose density is given by a voxel grid spanning an
// axis-aligned box. Outside the box the density is zero.
type Grid struct {
	Name   string
	SigmaA float32
	SigmaS float32

	bounds     types.Bounds3
	nx, ny, nz int
	density    []float32

	sigmaT        float32
	invMaxDensity float32
}

// Create a new grid medium. Density values are stored x-major:
// density[(z*ny+y)*nx+x].
func NewGrid(name string, sigmaA, sigmaS float32, bounds types.Bounds3, nx, ny, nz int, density []float32) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, ErrGridSize
	}
	if len(density) != nx*ny*nz {
		return nil, fmt.Errorf("%w: got %d values for a %dx%dx%d grid", ErrDensityCount, len(density), nx, ny, nz)
	}
	if bounds.IsEmpty() {
		return nil, ErrGridBounds
	}
	if sigmaA+sigmaS <= 0 {
		return nil, ErrZeroExtinction
	}

	var maxDensity float32
	for _, d := range density {
		if d > maxDensity {
			maxDensity = d
		}
	}

	g := &Grid{
		Name:    name,
		SigmaA:  sigmaA,
		SigmaS:  sigmaS,
		bounds:  bounds,
		nx:      nx,
		ny:      ny,
		nz:      nz,
		density: density,
		sigmaT:  sigmaA + sigmaS,
	}
	if maxDensity > 0 {
		g.invMaxDensity = 1 / maxDensity
	}
	return g, nil
}

// Get the grid bounds.
func (g *Grid) Bounds() types.Bounds3 {
	return g.bounds
}

func (g *Grid) d(x, y, z int) float32 {
	if x < 0 || y < 0 || z < 0 || x >= g.nx || y >= g.ny || z >= g.nz {
		return 0
	}
	return g.density[(z*g.ny+y)*g.nx+x]
}

// Get the trilinearly interpolated density at a world-space point.
func (g *Grid) Density(p types.Vec3) float32 {
	ext := g.bounds.Diagonal()
	rel := p.Sub(g.bounds.Min)

	// Sample positions are at voxel centers.
	sx := rel[0]/ext[0]*float32(g.nx) - 0.5
	sy := rel[1]/ext[1]*float32(g.ny) - 0.5
	sz := rel[2]/ext[2]*float32(g.nz) - 0.5

	fx, fy, fz := math.Floor(float64(sx)), math.Floor(float64(sy)), math.Floor(float64(sz))
	ix, iy, iz := int(fx), int(fy), int(fz)
	dx, dy, dz := sx-float32(fx), sy-float32(fy), sz-float32(fz)

	d00 := lerp(dx, g.d(ix, iy, iz), g.d(ix+1, iy, iz))
	d10 := lerp(dx, g.d(ix, iy+1, iz), g.d(ix+1, iy+1, iz))
	d01 := lerp(dx, g.d(ix, iy, iz+1), g.d(ix+1, iy, iz+1))
	d11 := lerp(dx, g.d(ix, iy+1, iz+1), g.d(ix+1, iy+1, iz+1))
	d0 := lerp(dy, d00, d10)
	d1 := lerp(dy, d01, d11)
	return lerp(dz, d0, d1)
}

// Tr implements scene.Medium using ratio tracking against the maximum grid
// density. The estimate is unbiased and each returned channel lies in [0, 1].
func (g *Grid) Tr(ray scene.Ray, sampler scene.Sampler) types.Spectrum {
	if g.invMaxDensity == 0 {
		return types.OneSpectrum()
	}

	// Track along a unit direction so distances are world-space lengths.
	dirLen := ray.Dir.Len()
	dir := ray.Dir.Mul(1 / dirLen)
	tMax := ray.TMax * dirLen

	tMin, tFar, ok := g.bounds.IntersectP(ray.Origin, dir, tMax)
	if !ok {
		return types.OneSpectrum()
	}

	var tr float32 = 1
	t := tMin
	for {
		u := sampler.Get1D()
		t -= float32(math.Log(1-float64(u))) * g.invMaxDensity / g.sigmaT
		if t >= tFar {
			break
		}
		density := g.Density(ray.Origin.Add(dir.Mul(t)))
		tr *= 1 - max(0, density*g.invMaxDensity)
		if tr <= 0 {
			return types.Spectrum{}
		}
	}
	return types.ConstSpectrum(tr)
}

func lerp(t, a, b float32) float32 {
	return (1-t)*a + t*b
}
