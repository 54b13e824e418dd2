package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// RayEpsilon is the smallest ray parameter accepted as a hit.
	// Anything closer is treated as the ray starting on the surface.
	RayEpsilon = 1e-9

	// parallelEpsilon rejects rays (almost) parallel to the triangle plane,
	// and triangles with no area. It is relative to the edge and direction
	// lengths, so the test does not depend on the mesh scale.
	parallelEpsilon = 1e-12
)

// Ray is a half-line Origin + t*Direction, t > 0.
// Direction does not need to be normalized.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point of the ray at parameter t
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Collision is the contact between a ray and a mesh face
type Collision struct {
	Point      mgl64.Vec3 // Hit position
	Normal     mgl64.Vec3 // Interpolated vertex normal, unit length
	FaceNormal mgl64.Vec3 // Geometric normal of the face
	Face       int        // Index of the face that was hit
	U, V       float64    // Barycentric weights of the 2nd and 3rd vertex
	T          float64    // Ray parameter
	Distance   float64    // T * |Direction|
}

// Closer reports whether c should replace other as the closest hit.
// Equal distances are resolved by the lowest face index, so the result does
// not depend on the order faces are tested in.
func (c Collision) Closer(other Collision) bool {
	if c.T != other.T {
		return c.T < other.T
	}
	return c.Face < other.Face
}

// IntersectTriangle runs the Möller–Trumbore test of the ray against the
// triangle (a, b, c). It returns the ray parameter and the barycentric
// weights u (of b) and v (of c). Rays parallel to the triangle and triangles
// without area never hit.
func IntersectTriangle(ray Ray, a, b, c mgl64.Vec3) (t, u, v float64, ok bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	if math.Abs(det) <= parallelEpsilon*edge1.Len()*edge2.Len()*ray.Direction.Len() {
		return 0, 0, 0, false
	}

	f := 1.0 / det
	s := ray.Origin.Sub(a)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if t <= RayEpsilon {
		// Line intersection behind the origin, not a ray intersection
		return 0, 0, 0, false
	}

	return t, u, v, true
}
