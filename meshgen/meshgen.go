// Package meshgen produces indexed triangle meshes for the model spaces:
// an analytic cube, and solids from the sdfx SDF library tessellated with
// marching cubes.
package meshgen

import (
	"fmt"

	"github.com/akmonengine/modelspace/geometry"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is an indexed triangle mesh
type Mesh struct {
	Vertices []mgl64.Vec3
	Faces    []geometry.Face
}

// Bounds returns the box of every vertex
func (m Mesh) Bounds() geometry.AABB {
	return geometry.AABBFromVertices(m.Vertices)
}

// Cube returns an axis-aligned cube of 8 vertices and 12 triangles,
// counter-clockwise seen from outside so face normals point outward.
func Cube(center mgl64.Vec3, halfExtent float64) Mesh {
	h := halfExtent
	corners := [8]mgl64.Vec3{
		{-h, -h, -h},
		{+h, -h, -h},
		{+h, +h, -h},
		{-h, +h, -h},
		{-h, -h, +h},
		{+h, -h, +h},
		{+h, +h, +h},
		{-h, +h, +h},
	}

	vertices := make([]mgl64.Vec3, len(corners))
	for i, c := range corners {
		vertices[i] = c.Add(center)
	}

	return Mesh{
		Vertices: vertices,
		Faces: []geometry.Face{
			{4, 5, 6}, {4, 6, 7}, // +Z
			{0, 2, 1}, {0, 3, 2}, // -Z
			{0, 1, 5}, {0, 5, 4}, // -Y
			{3, 7, 6}, {3, 6, 2}, // +Y
			{0, 4, 7}, {0, 7, 3}, // -X
			{1, 2, 6}, {1, 6, 5}, // +X
		},
	}
}

// Sphere tessellates a sphere of the given radius centered on the origin.
// cells is the marching cubes resolution along the longest axis.
func Sphere(radius float64, cells int) (Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return Mesh{}, fmt.Errorf("meshgen: sphere: %w", err)
	}
	return FromSDF(s, cells), nil
}

// Box tessellates a box of the given size centered on the origin
func Box(size mgl64.Vec3, round float64, cells int) (Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X(), Y: size.Y(), Z: size.Z()}, round)
	if err != nil {
		return Mesh{}, fmt.Errorf("meshgen: box: %w", err)
	}
	return FromSDF(s, cells), nil
}

// Cylinder tessellates a cylinder along Z centered on the origin
func Cylinder(height, radius float64, cells int) (Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return Mesh{}, fmt.Errorf("meshgen: cylinder: %w", err)
	}
	return FromSDF(s, cells), nil
}

// FromSDF runs marching cubes over the solid and welds the result
func FromSDF(s sdf.SDF3, cells int) Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	return FromTriangles(render.ToTriangles(s, renderer))
}

// FromTriangles welds a triangle soup into an indexed mesh: corners with
// identical coordinates share one vertex.
func FromTriangles(triangles []*sdf.Triangle3) Mesh {
	mesh := Mesh{
		Vertices: make([]mgl64.Vec3, 0, len(triangles)/2),
		Faces:    make([]geometry.Face, 0, len(triangles)),
	}
	index := make(map[v3.Vec]int, len(triangles)/2)

	for _, tri := range triangles {
		var face geometry.Face
		for j := 0; j < 3; j++ {
			v := tri[j]
			i, ok := index[v]
			if !ok {
				i = len(mesh.Vertices)
				index[v] = i
				mesh.Vertices = append(mesh.Vertices, mgl64.Vec3{v.X, v.Y, v.Z})
			}
			face[j] = i
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	return mesh
}
