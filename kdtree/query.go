package kdtree

import (
	"math"

	"github.com/akmonengine/modelspace/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// FindLeaf returns the leaf whose box contains point, or nil when the point
// lies outside the root box.
//
// A point lying exactly on a split plane descends to the right child. That
// child's box starts one ulp above the split, so the returned leaf does not
// contain such a point.
func (t *Tree) FindLeaf(point mgl64.Vec3) *Node {
	if t.root == nil || !t.root.Bounds.ContainsPoint(point) {
		return nil
	}

	node := t.root
	for !node.IsLeaf() {
		node = node.child(point)
	}
	return node
}

// PathTo returns the nodes visited from the root down to the leaf
// containing point, nil when the point lies outside the root box.
func (t *Tree) PathTo(point mgl64.Vec3) []*Node {
	if t.root == nil || !t.root.Bounds.ContainsPoint(point) {
		return nil
	}

	path := []*Node{t.root}
	node := t.root
	for !node.IsLeaf() {
		node = node.child(point)
		path = append(path, node)
	}
	return path
}

// child picks the side of the split plane point falls on
func (n *Node) child(point mgl64.Vec3) *Node {
	if n.Split > point[n.Axis] {
		return n.Left
	}
	return n.Right
}

// LeafVisitor receives the leaves crossed by a ray with the parametric
// interval [tNear, tFar] of the ray inside the leaf box.
// Returning false stops the traversal.
type LeafVisitor func(leaf *Node, tNear, tFar float64) bool

type traversalEntry struct {
	node        *Node
	tNear, tFar float64
}

// Traverse visits the leaves crossed by the ray in increasing distance order.
// A ray missing the root box visits nothing.
func (t *Tree) Traverse(ray geometry.Ray, visit LeafVisitor) {
	if t.root == nil {
		return
	}
	tNear, tFar, ok := t.root.Bounds.IntersectRay(ray, 0, math.Inf(1))
	if !ok {
		return
	}

	// Far children are pushed, near children are followed first
	stack := make([]traversalEntry, 0, MaxDepth+1)
	stack = append(stack, traversalEntry{node: t.root, tNear: tNear, tFar: tFar})

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, tNear, tFar := entry.node, entry.tNear, entry.tFar

		for !node.IsLeaf() {
			origin := ray.Origin[node.Axis]
			direction := ray.Direction[node.Axis]

			near, far := node.Left, node.Right
			if origin > node.Split || (origin == node.Split && direction > 0) {
				near, far = far, near
			}

			// Parallel to the plane: the ray never changes side
			if direction == 0 {
				node = near
				continue
			}

			tSplit := (node.Split - origin) / direction
			switch {
			case tSplit > tFar || tSplit <= 0:
				node = near
			case tSplit < tNear:
				node = far
			default:
				stack = append(stack, traversalEntry{node: far, tNear: tSplit, tFar: tFar})
				node = near
				tFar = tSplit
			}
		}

		if !visit(node, tNear, tFar) {
			return
		}
	}
}

// Leaves returns every leaf, left subtrees first
func (t *Tree) Leaves() []*Node {
	if t.root == nil {
		return nil
	}

	var leaves []*Node
	nodes := []*Node{t.root}
	for len(nodes) > 0 {
		top := nodes[len(nodes)-1]
		nodes = nodes[:len(nodes)-1]

		if top.IsLeaf() {
			leaves = append(leaves, top)
			continue
		}
		nodes = append(nodes, top.Right, top.Left)
	}
	return leaves
}
