// Package kdtree implements a KD-tree over the faces of a static triangle mesh.
//
// The tree is built once by median splits on face centroids, cycling the
// splitting axis with depth. A face whose box straddles a split plane is
// listed in both children, so every leaf lists every face overlapping its
// box: queries walking the leaves along a ray never miss a face that was
// assigned to "the other side".
//
// A built tree is read-only. Any number of goroutines may query it
// concurrently as long as none of them rebuilds or releases it.
package kdtree

import (
	"github.com/akmonengine/modelspace/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// FaceData caches the per-face values the build needs
type FaceData struct {
	Centroid mgl64.Vec3
	Bounds   geometry.AABB
}

// Node is a binary node of the tree.
// A leaf has no children and lists its faces. An interior node has exactly
// two children splitting its box at Split along Axis.
type Node struct {
	Bounds geometry.AABB
	Axis   int
	Split  float64
	Left   *Node
	Right  *Node
	Faces  []int
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return n.Left == nil
}
