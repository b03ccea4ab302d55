package types

import "testing"

func TestVectorNormalize(t *testing.T) {
	specs := []struct {
		in  Vec3
		exp Vec3
	}{
		{Vec3{0, 0, 3}, Vec3{0, 0, 1}},
		{Vec3{3, 4, 0}, Vec3{0.6, 0.8, 0}},
		// Cross product of two 0.5mm edges.
		{Vec3{0, 0, 2.5e-7}, Vec3{0, 0, 1}},
		{Vec3{1e-20, 0, 0}, Vec3{1, 0, 0}},
		{Vec3{}, Vec3{}},
	}

	for specIndex, spec := range specs {
		if got := spec.in.Normalize(); !vecAlmostEqual(got, spec.exp) {
			t.Fatalf("[spec %d] expected %v.Normalize() to be %v; got %v", specIndex, spec.in, spec.exp, got)
		}
	}
}
