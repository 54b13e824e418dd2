// Package geometry holds the primitives shared by the model spaces: bounding
// boxes, triangle faces, rays and collision results.
package geometry

import "github.com/go-gl/mathgl/mgl64"

// DegenerateEpsilon is the squared cross-product length under which a triangle
// is considered to have no area.
const DegenerateEpsilon = 1e-20

// Face is a triangle given by three indices into a vertex slice
type Face [3]int

// Vertices returns the three corners of the face
func (f Face) Vertices(vertices []mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	return vertices[f[0]], vertices[f[1]], vertices[f[2]]
}

// Centroid returns the mean of the three corners
func (f Face) Centroid(vertices []mgl64.Vec3) mgl64.Vec3 {
	a, b, c := f.Vertices(vertices)
	return a.Add(b).Add(c).Mul(1.0 / 3.0)
}

// Bounds returns the box of the three corners
func (f Face) Bounds(vertices []mgl64.Vec3) AABB {
	return AABBFromVertices(vertices, f[0], f[1], f[2])
}

// Cross returns the unnormalized normal of the face (right-hand rule,
// counter-clockwise winding points outward)
func (f Face) Cross(vertices []mgl64.Vec3) mgl64.Vec3 {
	a, b, c := f.Vertices(vertices)
	return b.Sub(a).Cross(c.Sub(a))
}

// IsDegenerate reports whether the face has (nearly) zero area:
// coincident or collinear corners.
func (f Face) IsDegenerate(vertices []mgl64.Vec3) bool {
	return f.Cross(vertices).LenSqr() < DegenerateEpsilon
}
