package types

import "math"

// Half of the float32 machine epsilon.
const machineEpsilon = float32(5.960464477539063e-08)

// Conservative bound for the rounding error of n consecutive float32
// operations.
func Gamma(n int) float32 {
	return (float32(n) * machineEpsilon) / (1 - float32(n)*machineEpsilon)
}

// An axis-aligned bounding box.
type Bounds3 struct {
	Min Vec3
	Max Vec3
}

// Create an inverted (empty) bounding box that acts as the identity for Union.
func EmptyBounds3() Bounds3 {
	return Bounds3{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Create the bounding box enclosing a set of points.
func BoundsFromPoints(points ...Vec3) Bounds3 {
	b := EmptyBounds3()
	for _, p := range points {
		b = b.UnionPoint(p)
	}
	return b
}

// Returns true if the box encloses no volume (or area) at all.
func (b Bounds3) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Return the box enclosing both b and b2.
func (b Bounds3) Union(b2 Bounds3) Bounds3 {
	return Bounds3{Min: MinVec3(b.Min, b2.Min), Max: MaxVec3(b.Max, b2.Max)}
}

// Return the box enclosing both b and p.
func (b Bounds3) UnionPoint(p Vec3) Bounds3 {
	return Bounds3{Min: MinVec3(b.Min, p), Max: MaxVec3(b.Max, p)}
}

// Box center.
func (b Bounds3) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Vector from the min to the max corner.
func (b Bounds3) Diagonal() Vec3 {
	return b.Max.Sub(b.Min)
}

// Total surface area.
func (b Bounds3) SurfaceArea() float32 {
	d := b.Diagonal()
	return 2 * (d[0]*d[1] + d[0]*d[2] + d[1]*d[2])
}

// Index of the axis with the largest extent.
func (b Bounds3) MaximumExtent() int {
	return b.Diagonal().MaxDimension()
}

// Return one of the 8 box corners; bit i of corner selects min/max along axis i.
func (b Bounds3) Corner(corner int) Vec3 {
	var p Vec3
	for axis := 0; axis < 3; axis++ {
		if corner&(1<<axis) == 0 {
			p[axis] = b.Min[axis]
		} else {
			p[axis] = b.Max[axis]
		}
	}
	return p
}

// Returns true if p lies inside the box or on its surface.
func (b Bounds3) Inside(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Return the box grown by delta along every direction.
func (b Bounds3) Expand(delta float32) Bounds3 {
	d := Vec3{delta, delta, delta}
	return Bounds3{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Distance from p to the closest face of the box. Points outside the box
// that do not project onto a face yield the distance to the box itself.
func (b Bounds3) DistanceToSurface(p Vec3) float32 {
	if !b.Inside(p) {
		var dSq float32
		for axis := 0; axis < 3; axis++ {
			switch {
			case p[axis] < b.Min[axis]:
				dSq += (b.Min[axis] - p[axis]) * (b.Min[axis] - p[axis])
			case p[axis] > b.Max[axis]:
				dSq += (p[axis] - b.Max[axis]) * (p[axis] - b.Max[axis])
			}
		}
		return float32(math.Sqrt(float64(dSq)))
	}

	dist := float32(math.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		dist = min(dist, p[axis]-b.Min[axis], b.Max[axis]-p[axis])
	}
	return dist
}

// Intersect the ray segment o + t*d, t in [0, tMax] with the box using the
// slab method. On success it returns the parametric entry and exit distances.
// When the origin lies inside the box the entry distance is 0.
func (b Bounds3) IntersectP(o, d Vec3, tMax float32) (t0, t1 float32, ok bool) {
	t0, t1 = 0, tMax
	for axis := 0; axis < 3; axis++ {
		// A zero direction component yields +/-Inf (or NaN when the origin lies
		// on the slab plane); NaNs fail both comparisons below and leave the
		// interval untouched.
		invDir := 1 / d[axis]
		tNear := (b.Min[axis] - o[axis]) * invDir
		tFar := (b.Max[axis] - o[axis]) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}

		tFar *= 1 + 2*Gamma(3)
		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// A faster slab test for traversal loops that reuse the reciprocal ray
// direction and direction signs across many boxes.
func (b Bounds3) IntersectPInv(o, invDir Vec3, dirIsNeg [3]int, tMax float32) bool {
	bounds := [2]Vec3{b.Min, b.Max}

	txMin := (bounds[dirIsNeg[0]][0] - o[0]) * invDir[0]
	txMax := (bounds[1-dirIsNeg[0]][0] - o[0]) * invDir[0]
	tyMin := (bounds[dirIsNeg[1]][1] - o[1]) * invDir[1]
	tyMax := (bounds[1-dirIsNeg[1]][1] - o[1]) * invDir[1]

	txMax *= 1 + 2*Gamma(3)
	tyMax *= 1 + 2*Gamma(3)
	if txMin > tyMax || tyMin > txMax {
		return false
	}
	if tyMin > txMin {
		txMin = tyMin
	}
	if tyMax < txMax {
		txMax = tyMax
	}

	tzMin := (bounds[dirIsNeg[2]][2] - o[2]) * invDir[2]
	tzMax := (bounds[1-dirIsNeg[2]][2] - o[2]) * invDir[2]
	tzMax *= 1 + 2*Gamma(3)
	if txMin > tzMax || tzMin > txMax {
		return false
	}
	if tzMin > txMin {
		txMin = tzMin
	}
	if tzMax < txMax {
		txMax = tzMax
	}

	return txMin < tMax && txMax > 0
}
