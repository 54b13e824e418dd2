package modelspace

import (
	"github.com/akmonengine/modelspace/geometry"
	"github.com/akmonengine/modelspace/kdtree"
	"github.com/go-gl/mathgl/mgl64"
)

// Compile-time interface check.
var _ ModelSpace = (*KDSpace)(nil)

// KDSpace is the model space accelerated by a KD-tree. A ray only tests the
// faces of the leaves it crosses, nearest leaves first, and stops as soon as
// a hit lies inside the leaf being visited.
type KDSpace struct {
	mesh shadedMesh
	tree *kdtree.Tree
}

// NewKDSpace creates an empty KD-tree model space
func NewKDSpace() *KDSpace {
	return &KDSpace{
		mesh: shadedMesh{bounds: geometry.EmptyAABB()},
		tree: kdtree.New(),
	}
}

func (ks *KDSpace) Load(vertices []mgl64.Vec3, faces []geometry.Face) {
	ks.mesh = newShadedMesh(vertices, faces)
	ks.tree.Build(vertices, faces)
}

func (ks *KDSpace) Intersect(ray geometry.Ray) (geometry.Collision, bool) {
	var best geometry.Collision
	found := false

	ks.tree.Traverse(ray, func(leaf *kdtree.Node, tNear, tFar float64) bool {
		for _, face := range leaf.Faces {
			found = ks.mesh.hitFace(ray, face, &best, found)
		}
		// Every later leaf starts beyond tFar: a hit before it is final
		return !found || best.T > tFar
	})

	return best, found
}

func (ks *KDSpace) Bounds() geometry.AABB {
	return ks.mesh.bounds
}

// Tree exposes the underlying index for point queries and statistics
func (ks *KDSpace) Tree() *kdtree.Tree {
	return ks.tree
}
