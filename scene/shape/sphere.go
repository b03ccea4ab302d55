package shape

import (
	"math"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// A world-space sphere.
type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Create a new sphere.
func NewSphere(center types.Vec3, radius float32) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Narrow a shape to a Sphere if its kind tag says it is one.
func AsSphere(s scene.Shape) (*Sphere, bool) {
	if s == nil || s.Kind() != scene.SphereShape {
		return nil, false
	}
	sp, ok := s.(*Sphere)
	return sp, ok
}

// Kind implements scene.Shape.
func (s *Sphere) Kind() scene.ShapeKind {
	return scene.SphereShape
}

// WorldBound implements scene.Shape.
func (s *Sphere) WorldBound() types.Bounds3 {
	r := types.XYZ(s.Radius, s.Radius, s.Radius)
	return types.Bounds3{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Area implements scene.Shape.
func (s *Sphere) Area() float32 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// Rounding error bound for n consecutive float64 operations.
func gamma64(n int) float64 {
	const eps = 1.1102230246251565e-16
	return float64(n) * eps / (1 - float64(n)*eps)
}

// The quadratic is solved in float64; roots that fall within the solution's
// own error bound of the origin are rejected.
func (s *Sphere) hit(ray scene.Ray) (float32, bool) {
	var oc, d [3]float64
	for i := 0; i < 3; i++ {
		oc[i] = float64(ray.Origin[i]) - float64(s.Center[i])
		d[i] = float64(ray.Dir[i])
	}
	r := float64(s.Radius)

	// Solve a*t^2 + 2*halfB*t + c = 0
	a := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
	halfB := oc[0]*d[0] + oc[1]*d[1] + oc[2]*d[2]
	ocLenSq := oc[0]*oc[0] + oc[1]*oc[1] + oc[2]*oc[2]
	c := ocLenSq - r*r
	if a == 0 {
		return 0, false
	}

	discriminant := halfB*halfB - a*c
	if discriminant <= 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	absHalfB := math.Abs(oc[0]*d[0]) + math.Abs(oc[1]*d[1]) + math.Abs(oc[2]*d[2])
	errA := gamma64(3) * a
	errHalfB := gamma64(3) * absHalfB
	errC := gamma64(3) * (ocLenSq + r*r)
	tMax := float64(ray.TMax)
	accept := func(t float64) bool {
		tErr := (errC + 2*errHalfB*math.Abs(t) + errA*t*t) / (2 * sqrtD)
		return t > tErr && t < tMax
	}

	root := (-halfB - sqrtD) / a
	if !accept(root) {
		root = (-halfB + sqrtD) / a
		if !accept(root) {
			return 0, false
		}
	}
	t := float32(root)
	if t <= 0 || t >= ray.TMax {
		return 0, false
	}
	return t, true
}

// IntersectP implements scene.Shape.
func (s *Sphere) IntersectP(ray scene.Ray) bool {
	_, ok := s.hit(ray)
	return ok
}

// Intersect implements scene.Shape.
func (s *Sphere) Intersect(ray scene.Ray, isect *scene.SurfaceInteraction) (float32, bool) {
	tHit, ok := s.hit(ray)
	if !ok {
		return 0, false
	}

	// Reproject the hit point onto the surface to tighten its error bound.
	pLocal := ray.At(tHit).Sub(s.Center)
	if l := pLocal.Len(); l > 0 {
		pLocal = pLocal.Mul(s.Radius / l)
	}
	p := s.Center.Add(pLocal)
	n := pLocal.Mul(1 / s.Radius)

	// Spherical parametrization around the +Y axis.
	phi := float32(math.Atan2(float64(n[2]), float64(n[0])))
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := float32(math.Acos(float64(clamp(n[1], -1, 1))))

	dpdu := types.XYZ(-n[2], 0, n[0]).Mul(2 * math.Pi * s.Radius)
	if dpdu.IsZero() {
		// Pole; pick any tangent.
		dpdu, _ = types.CoordinateSystem(n)
	}
	dpdv := n.Cross(dpdu).Normalize().Mul(math.Pi * s.Radius)

	isect.P = p
	isect.PError = pLocal.Abs().Mul(types.Gamma(5)).
		Add(s.Center.Abs().Add(p.Abs()).Mul(types.Gamma(2)))
	isect.N = n
	isect.UV = types.XY(phi/(2*math.Pi), theta/math.Pi)
	isect.Dpdu = dpdu
	isect.Dpdv = dpdv
	isect.Shading = scene.ShadingFrame{N: n, Dpdu: dpdu, Dpdv: dpdv}
	isect.Wo = ray.Dir.Neg().Normalize()
	isect.T = tHit
	return tHit, true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
