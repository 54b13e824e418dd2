package modelspace

import (
	"github.com/akmonengine/modelspace/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Compile-time interface check.
var _ ModelSpace = (*BruteForce)(nil)

// BruteForce is the model space without acceleration: every query tests
// every face, in face order. It is the reference the KD-tree must agree with,
// and the cheapest choice for small meshes.
type BruteForce struct {
	mesh shadedMesh
}

// NewBruteForce creates an empty brute-force model space
func NewBruteForce() *BruteForce {
	return &BruteForce{mesh: shadedMesh{bounds: geometry.EmptyAABB()}}
}

func (bf *BruteForce) Load(vertices []mgl64.Vec3, faces []geometry.Face) {
	bf.mesh = newShadedMesh(vertices, faces)
}

func (bf *BruteForce) Intersect(ray geometry.Ray) (geometry.Collision, bool) {
	var best geometry.Collision
	found := false

	for i := range bf.mesh.faces {
		found = bf.mesh.hitFace(ray, i, &best, found)
	}

	return best, found
}

func (bf *BruteForce) Bounds() geometry.AABB {
	return bf.mesh.bounds
}
