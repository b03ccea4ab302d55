package types

import "math"

// A rotation quaternion; used for building instance transforms.
type Quat struct {
	V Vec3
	W float32
}

// Create identity quaternion.
func QuatIdent() Quat {
	return Quat{W: 1.0}
}

// Create a quaternion from an axis vector and an angle in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	sin := float32(math.Sin(float64(angle * 0.5)))
	cos := float32(math.Cos(float64(angle * 0.5)))
	return Quat{
		V: axis.Normalize().Mul(sin),
		W: cos,
	}
}

// Create a quaternion that applies a rotation around X (yaw), then Y (pitch)
// and finally Z (roll). Angles are specified in radians.
func QuatFromEuler(yaw, pitch, roll float32) Quat {
	yawQuat := QuatFromAxisAngle(Vec3{1, 0, 0}, yaw)
	pitchQuat := QuatFromAxisAngle(Vec3{0, 1, 0}, pitch)
	rollQuat := QuatFromAxisAngle(Vec3{0, 0, 1}, roll)
	return rollQuat.Mul(pitchQuat.Mul(yawQuat)).Normalize()
}

// Rotate a vector by the rotation this quaternion represents.
func (q1 Quat) Rotate(v Vec3) Vec3 {
	cross := q1.V.Cross(v)
	// v + 2q_w * (q_v x v) + 2q_v x (q_v x v)
	return v.Add(cross.Mul(2 * q1.W)).Add(q1.V.Mul(2).Cross(cross))
}

// Multiply two quaternions. q1.Mul(q2) applies q2 first.
func (q1 Quat) Mul(q2 Quat) Quat {
	return Quat{
		q1.V.Cross(q2.V).Add(q2.V.Mul(q1.W)).Add(q1.V.Mul(q2.W)),
		q1.W*q2.W - q1.V.Dot(q2.V),
	}
}

// Quaternion norm.
func (q1 Quat) Len() float32 {
	return float32(math.Sqrt(float64(q1.W*q1.W + q1.V.LenSq())))
}

// Normalize the quaternion, returning its versor.
func (q1 Quat) Normalize() Quat {
	length := q1.Len()
	if abs32(1-length) < floatCmpEpsilon {
		return q1
	}
	if length == 0 {
		return QuatIdent()
	}
	return Quat{q1.V.Mul(1 / length), q1.W / length}
}

// Return the homogeneous 3D rotation matrix for the quaternion.
func (q1 Quat) Mat4() Mat4 {
	w, x, y, z := q1.W, q1.V[0], q1.V[1], q1.V[2]
	return Mat4{
		1 - 2*y*y - 2*z*z, 2*x*y + 2*w*z, 2*x*z - 2*w*y, 0,
		2*x*y - 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z + 2*w*x, 0,
		2*x*z + 2*w*y, 2*y*z - 2*w*x, 1 - 2*x*x - 2*y*y, 0,
		0, 0, 0, 1,
	}
}
