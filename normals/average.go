// Package normals precomputes shading normals for a triangle mesh.
//
// Face normals come from the cross product of the first two edges. Vertex
// normals are the average of the normals of the faces sharing the vertex,
// so smooth surfaces get interpolated shading while flat regions keep their
// face normal.
package normals

import (
	"github.com/akmonengine/modelspace/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// averageEpsilon is the squared length under which an averaged vertex normal
// is left unnormalized (opposite faces cancelling out).
const averageEpsilon = 0.0001

// Average returns one normal per vertex and one per face.
//
// Degenerate faces (no area) keep a zero normal and do not contribute to the
// vertices they reference. Vertices used by no valid face keep a zero normal.
func Average(vertices []mgl64.Vec3, faces []geometry.Face) (vertexNormals, faceNormals []mgl64.Vec3) {
	vertexNormals = make([]mgl64.Vec3, len(vertices))
	faceNormals = make([]mgl64.Vec3, len(faces))
	counts := make([]int, len(vertices))

	for i, face := range faces {
		normal, ok := FaceNormal(vertices, face)
		if !ok {
			continue
		}
		faceNormals[i] = normal

		// Accumulate onto every corner of the face
		for _, v := range face {
			vertexNormals[v] = vertexNormals[v].Add(normal)
			counts[v]++
		}
	}

	for i, count := range counts {
		if count == 0 {
			continue
		}
		avg := vertexNormals[i].Mul(1.0 / float64(count))
		if avg.LenSqr() > averageEpsilon {
			avg = avg.Normalize()
		}
		vertexNormals[i] = avg
	}

	return vertexNormals, faceNormals
}

// FaceNormal returns the unit normal of the face, and false when the face is
// degenerate.
func FaceNormal(vertices []mgl64.Vec3, face geometry.Face) (mgl64.Vec3, bool) {
	if face.IsDegenerate(vertices) {
		return mgl64.Vec3{}, false
	}
	return face.Cross(vertices).Normalize(), true
}
