package types

import "golang.org/x/image/math/f32"

// A 4x4 matrix stored in column-major order; element (row, col) lives at
// index col*4+row.
type Mat4 f32.Mat4

// Create identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a translation matrix.
func Translate4(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		t[0], t[1], t[2], 1,
	}
}

// Create a scale matrix.
func Scale4(s Vec3) Mat4 {
	return Mat4{
		s[0], 0, 0, 0,
		0, s[1], 0, 0,
		0, 0, s[2], 0,
		0, 0, 0, 1,
	}
}

// Get element at (row, col).
func (m Mat4) At(row, col int) float32 {
	return m[col*4+row]
}

// Multiply two 4x4 matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * m2[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Multiply matrix with a 4 component column vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Transform a point (w = 1).
func (m Mat4) MulPoint(p Vec3) Vec3 {
	out := m.Mul4x1(p.Vec4(1))
	if out[3] == 1 || out[3] == 0 {
		return out.Vec3()
	}
	return out.Vec3().Mul(1.0 / out[3])
}

// Transform a point (w = 1) together with its absolute error bound. The
// receiver must be affine. Returns the transformed point and the bound for the
// error accumulated by both the input and the transformation.
func (m Mat4) MulPointError(p, pErr Vec3) (Vec3, Vec3) {
	var outErr Vec3
	g3 := Gamma(3)
	for row := 0; row < 3; row++ {
		a0, a1, a2 := abs32(m[row]), abs32(m[4+row]), abs32(m[8+row])
		outErr[row] = (g3+1)*(a0*pErr[0]+a1*pErr[1]+a2*pErr[2]) +
			g3*(a0*abs32(p[0])+a1*abs32(p[1])+a2*abs32(p[2])+abs32(m[12+row]))
	}
	return m.MulPoint(p), outErr
}

// Transform a direction vector (w = 0).
func (m Mat4) MulVector(v Vec3) Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// Transform a surface normal. The receiver must be the inverse of the
// matrix that transforms points.
func (m Mat4) MulNormal(n Vec3) Vec3 {
	// Multiply with the transpose of the receiver.
	return Vec3{
		m[0]*n[0] + m[1]*n[1] + m[2]*n[2],
		m[4]*n[0] + m[5]*n[1] + m[6]*n[2],
		m[8]*n[0] + m[9]*n[1] + m[10]*n[2],
	}
}

// Transform the corners of an AABB and return the AABB that encloses them.
func (m Mat4) MulBounds(b Bounds3) Bounds3 {
	out := EmptyBounds3()
	for corner := 0; corner < 8; corner++ {
		out = out.UnionPoint(m.MulPoint(b.Corner(corner)))
	}
	return out
}

// Invert an affine transformation matrix. The bottom row of the receiver is
// assumed to be (0, 0, 0, 1). The second return value is false if the
// matrix is singular.
func (m Mat4) InvAffine() (Mat4, bool) {
	a, b, c := m[0], m[4], m[8]
	d, e, f := m[1], m[5], m[9]
	g, h, i := m[2], m[6], m[10]

	c00 := e*i - f*h
	c01 := -(d*i - f*g)
	c02 := d*h - e*g
	det := a*c00 + b*c01 + c*c02
	if abs32(det) < 1e-12 {
		return Mat4{}, false
	}
	invDet := 1.0 / det

	// Inverse 3x3 as (row, col) entries.
	r00, r01, r02 := c00*invDet, -(b*i-c*h)*invDet, (b*f-c*e)*invDet
	r10, r11, r12 := c01*invDet, (a*i-c*g)*invDet, -(a*f-c*d)*invDet
	r20, r21, r22 := c02*invDet, -(a*h-b*g)*invDet, (a*e-b*d)*invDet

	tx, ty, tz := m[12], m[13], m[14]
	return Mat4{
		r00, r10, r20, 0,
		r01, r11, r21, 0,
		r02, r12, r22, 0,
		-(r00*tx + r01*ty + r02*tz),
		-(r10*tx + r11*ty + r12*tz),
		-(r20*tx + r21*ty + r22*tz),
		1,
	}, true
}
