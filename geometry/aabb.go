package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns a box containing nothing. Extending it with a point
// yields the degenerate box around that point.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// AABBFromVertices computes the box of the given vertex subset.
// With no indices, every vertex is used.
func AABBFromVertices(vertices []mgl64.Vec3, indices ...int) AABB {
	box := EmptyAABB()
	if len(indices) == 0 {
		for _, v := range vertices {
			box = box.Extend(v)
		}
		return box
	}

	for _, i := range indices {
		box = box.Extend(vertices[i])
	}
	return box
}

// IsEmpty reports whether the box has been extended by no point
func (a AABB) IsEmpty() bool {
	return a.Min.X() > a.Max.X() || a.Min.Y() > a.Max.Y() || a.Min.Z() > a.Max.Z()
}

// Extend returns the box grown to include point
func (a AABB) Extend(point mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], point[i])
		a.Max[i] = math.Max(a.Max[i], point[i])
	}
	return a
}

// Volume returns the volume of the box, 0 for an empty box
func (a AABB) Volume() float64 {
	if a.IsEmpty() {
		return 0
	}
	size := a.Max.Sub(a.Min)
	return size.X() * size.Y() * size.Z()
}

// Center returns the middle point of the box
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// IntersectRay clips the ray against the box with the slab method.
// It returns the parametric interval [tNear, tFar] of the ray inside the box,
// restricted to [tMin, tMax], and false if that interval is empty.
func (a AABB) IntersectRay(ray Ray, tMin, tMax float64) (float64, float64, bool) {
	if a.IsEmpty() {
		return 0, 0, false
	}

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin[axis]
		direction := ray.Direction[axis]

		// Parallel to the slab: inside or never
		if direction == 0 {
			if origin < a.Min[axis] || origin > a.Max[axis] {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (a.Min[axis] - origin) * invDirection
		t2 := (a.Max[axis] - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}

	return tMin, tMax, true
}
