package modelspace

import (
	"github.com/akmonengine/modelspace/geometry"
	"github.com/akmonengine/modelspace/normals"
	"github.com/go-gl/mathgl/mgl64"
)

// shadedMesh is the loaded mesh with its precomputed normals, shared by the
// strategies for the narrow phase (ray against one face).
type shadedMesh struct {
	vertices      []mgl64.Vec3
	faces         []geometry.Face
	vertexNormals []mgl64.Vec3
	faceNormals   []mgl64.Vec3
	degenerate    []bool
	bounds        geometry.AABB
}

func newShadedMesh(vertices []mgl64.Vec3, faces []geometry.Face) shadedMesh {
	vertexNormals, faceNormals := normals.Average(vertices, faces)

	// Same test as the normals: a face without a normal is never hit
	degenerate := make([]bool, len(faces))
	for i, face := range faces {
		degenerate[i] = face.IsDegenerate(vertices)
	}

	return shadedMesh{
		vertices:      vertices,
		faces:         faces,
		vertexNormals: vertexNormals,
		faceNormals:   faceNormals,
		degenerate:    degenerate,
		bounds:        geometry.AABBFromVertices(vertices),
	}
}

// hitFace tests the ray against one face and replaces best when the face is
// hit closer. Degenerate faces never hit.
func (m *shadedMesh) hitFace(ray geometry.Ray, index int, best *geometry.Collision, found bool) bool {
	if m.degenerate[index] {
		return found
	}
	face := m.faces[index]
	a, b, c := face.Vertices(m.vertices)

	t, u, v, ok := geometry.IntersectTriangle(ray, a, b, c)
	if !ok {
		return found
	}

	candidate := geometry.Collision{Face: index, T: t, U: u, V: v}
	if found && !candidate.Closer(*best) {
		return found
	}

	candidate.Point = ray.At(t)
	candidate.Distance = t * ray.Direction.Len()
	candidate.FaceNormal = m.faceNormals[index]
	candidate.Normal = m.interpolateNormal(face, u, v, candidate.FaceNormal)
	*best = candidate
	return true
}

// interpolateNormal blends the vertex normals with the barycentric weights.
// A blend that cancels out falls back to the face normal.
func (m *shadedMesh) interpolateNormal(face geometry.Face, u, v float64, fallback mgl64.Vec3) mgl64.Vec3 {
	n := m.vertexNormals[face[0]].Mul(1 - u - v).
		Add(m.vertexNormals[face[1]].Mul(u)).
		Add(m.vertexNormals[face[2]].Mul(v))

	if n.LenSqr() < geometry.DegenerateEpsilon {
		return fallback
	}
	return n.Normalize()
}
