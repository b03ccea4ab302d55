package types

import (
	"math"

	"golang.org/x/image/math/f32"
)

const floatCmpEpsilon = 1e-6

type Vec2 f32.Vec2
type Vec3 f32.Vec3
type Vec4 f32.Vec4

// Define a 2 component vector.
func XY(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Define a 4 component vector.
func XYZW(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// Expand a 3 component vector to a Vec4.
func (v Vec3) Vec4(w float32) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Component-wise multiplication of two vectors.
func (v Vec3) MulVec(v2 Vec3) Vec3 {
	return Vec3{v[0] * v2[0], v[1] * v2[1], v[2] * v2[2]}
}

// Negate vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Component-wise absolute value.
func (v Vec3) Abs() Vec3 {
	return Vec3{abs32(v[0]), abs32(v[1]), abs32(v[2])}
}

// Get 3 component vector length.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

// Get squared vector length.
func (v Vec3) LenSq() float32 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize 3 component vector. Zero-length vectors are returned unchanged;
// any other length, however short, yields a unit vector.
func (v Vec3) Normalize() Vec3 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return Vec3{}
	}
	inv := 1.0 / l
	return Vec3{float32(x * inv), float32(y * inv), float32(z * inv)}
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float32 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Return the largest vector component.
func (v Vec3) MaxComponent() float32 {
	return max(v[0], v[1], v[2])
}

// Return the index of the largest vector component.
func (v Vec3) MaxDimension() int {
	switch {
	case v[0] > v[1] && v[0] > v[2]:
		return 0
	case v[1] > v[2]:
		return 1
	default:
		return 2
	}
}

// Returns true if all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Returns true if any component is NaN.
func (v Vec3) HasNaN() bool {
	return v[0] != v[0] || v[1] != v[1] || v[2] != v[2]
}

// Flip v so that it lies in the same hemisphere as ref.
func (v Vec3) FaceForward(ref Vec3) Vec3 {
	if v.Dot(ref) < 0 {
		return v.Neg()
	}
	return v
}

// Reduce a 4 component vector to a Vec3.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Multiply 4 component vector with scalar.
func (v Vec4) Mul(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// Subtract a vector.
func (v Vec2) Sub(v2 Vec2) Vec2 {
	return Vec2{v[0] - v2[0], v[1] - v2[1]}
}

// Add a vector.
func (v Vec2) Add(v2 Vec2) Vec2 {
	return Vec2{v[0] + v2[0], v[1] + v2[1]}
}

// Multiply a 2 component vector with a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	return Vec3{min(v1[0], v2[0]), min(v1[1], v2[1]), min(v1[2], v2[2])}
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	return Vec3{max(v1[0], v2[0]), max(v1[1], v2[1]), max(v1[2], v2[2])}
}

// Build an orthonormal basis around v (which must be normalized).
func CoordinateSystem(v Vec3) (Vec3, Vec3) {
	var v2 Vec3
	if abs32(v[0]) > abs32(v[1]) {
		v2 = Vec3{-v[2], 0, v[0]}.Mul(1.0 / float32(math.Sqrt(float64(v[0]*v[0]+v[2]*v[2]))))
	} else {
		v2 = Vec3{0, v[2], -v[1]}.Mul(1.0 / float32(math.Sqrt(float64(v[1]*v[1]+v[2]*v[2]))))
	}
	return v2, v.Cross(v2)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
