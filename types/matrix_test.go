package types

import (
	"math"
	"testing"
)

func vecAlmostEqual(v1, v2 Vec3) bool {
	return v1.Sub(v2).Len() < 1e-4
}

func TestMatrixPointAndVectorTransforms(t *testing.T) {
	m := Translate4(Vec3{1, 2, 3}).Mul4(Scale4(Vec3{2, 2, 2}))

	if p := m.MulPoint(Vec3{1, 1, 1}); !vecAlmostEqual(p, Vec3{3, 4, 5}) {
		t.Fatalf("expected transformed point to be [3 4 5]; got %v", p)
	}

	if v := m.MulVector(Vec3{1, 0, 0}); !vecAlmostEqual(v, Vec3{2, 0, 0}) {
		t.Fatalf("expected transformed vector to be [2 0 0]; got %v", v)
	}
}

func TestMatrixInvAffine(t *testing.T) {
	specs := []Mat4{
		Ident4(),
		Translate4(Vec3{-4, 5, 0.5}),
		Scale4(Vec3{2, 0.5, 3}),
		Translate4(Vec3{1, 2, 3}).Mul4(QuatFromEuler(0.3, -1.2, 0.7).Mat4()).Mul4(Scale4(Vec3{1, 2, 3})),
	}

	points := []Vec3{{0, 0, 0}, {1, -2, 3}, {-7, 0.25, 9}}
	for index, m := range specs {
		inv, ok := m.InvAffine()
		if !ok {
			t.Fatalf("[spec %d] expected matrix to be invertible", index)
		}

		for _, p := range points {
			if got := inv.MulPoint(m.MulPoint(p)); !vecAlmostEqual(got, p) {
				t.Fatalf("[spec %d] expected inverse to map point back to %v; got %v", index, p, got)
			}
		}
	}

	if _, ok := Scale4(Vec3{1, 0, 1}).InvAffine(); ok {
		t.Fatal("expected singular matrix inversion to fail")
	}
}

func TestMatrixNormalTransform(t *testing.T) {
	// A non-uniform scale must keep normals perpendicular to surface tangents.
	m := Scale4(Vec3{4, 1, 1})
	inv, _ := m.InvAffine()

	tangent := Vec3{1, 1, 0}
	normal := Vec3{1, -1, 0}

	tTangent := m.MulVector(tangent)
	tNormal := inv.MulNormal(normal)
	if dot := tTangent.Dot(tNormal); math.Abs(float64(dot)) > 1e-5 {
		t.Fatalf("expected transformed normal to be perpendicular to tangent; dot = %f", dot)
	}
}

func TestMatrixBoundsTransform(t *testing.T) {
	b := Bounds3{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	m := QuatFromAxisAngle(Vec3{0, 0, 1}, math.Pi/4).Mat4()

	out := m.MulBounds(b)
	expExtent := float32(math.Sqrt2)
	if abs32(out.Max[0]-expExtent) > 1e-4 || abs32(out.Min[1]+expExtent) > 1e-4 {
		t.Fatalf("expected rotated box to extend to +/-%f along X/Y; got %v", expExtent, out)
	}
	if abs32(out.Max[2]-1) > 1e-4 {
		t.Fatalf("expected rotated box Z extent to remain 1; got %f", out.Max[2])
	}
}

func TestMatrixPointErrorBound(t *testing.T) {
	m := Translate4(Vec3{100, 0, 0}).Mul4(Scale4(Vec3{2, 2, 2}))

	p, pErr := m.MulPointError(Vec3{1, 1, 1}, Vec3{})
	if !vecAlmostEqual(p, Vec3{102, 2, 2}) {
		t.Fatalf("expected transformed point to be [102 2 2]; got %v", p)
	}

	// The translation dominates the x error; y and z only see the scaled input.
	if pErr[0] <= pErr[1] || pErr[1] <= 0 || pErr[1] != pErr[2] {
		t.Fatalf("expected error bound with x > y = z > 0; got %v", pErr)
	}
	if exp := Gamma(3) * 102; math.Abs(float64(pErr[0]-exp)) > 1e-9 {
		t.Fatalf("expected x error bound %v; got %v", exp, pErr[0])
	}

	// Input error is carried through the linear part.
	_, pErr2 := m.MulPointError(Vec3{1, 1, 1}, Vec3{1e-3, 0, 0})
	if pErr2[0] < 2e-3 {
		t.Fatalf("expected input error to be scaled by the transform; got %v", pErr2)
	}
}
