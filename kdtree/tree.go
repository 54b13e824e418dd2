package kdtree

import (
	"math"
	"sort"

	"github.com/akmonengine/modelspace/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxDepth bounds the recursion: a node at this depth is always a leaf.
	MaxDepth = 24

	// MinVolume is the box volume under which a node is not split
	// (flat or coplanar geometry).
	MinVolume = 1e-7

	// minFaces is the smallest face count worth splitting
	minFaces = 2
)

// Tree is a KD-tree over the faces of one mesh.
// The zero value is an empty tree, ready for Build.
type Tree struct {
	root     *Node
	faceData []FaceData
}

// New creates an empty tree
func New() *Tree {
	return &Tree{}
}

// Root returns the root node, nil for a tree never built or released
func (t *Tree) Root() *Node {
	return t.root
}

// FaceData returns the cached centroid and bounds of every face
func (t *Tree) FaceData() []FaceData {
	return t.faceData
}

// Build partitions the faces of the mesh. The mesh is read, never retained
// nor modified. Building an already built tree releases it first.
func (t *Tree) Build(vertices []mgl64.Vec3, faces []geometry.Face) {
	t.Release()

	// ========== DONNÉES PAR FACE ==========
	// Centroid and bounds are computed once, before the recursion
	t.faceData = make([]FaceData, len(faces))
	for i, face := range faces {
		t.faceData[i] = FaceData{
			Centroid: face.Centroid(vertices),
			Bounds:   face.Bounds(vertices),
		}
	}

	root := &Node{
		Bounds: geometry.AABBFromVertices(vertices),
		Faces:  make([]int, len(faces)),
	}
	for i := range root.Faces {
		root.Faces[i] = i
	}

	t.root = root
	t.build(root, 0, 0)
}

// build splits node on axis, then recurses into the children on the next axis
func (t *Tree) build(node *Node, axis int, depth int) {
	node.Axis = axis

	// Conditions d'arrêt
	if len(node.Faces) < minFaces || node.Bounds.Volume() < MinVolume || depth >= MaxDepth {
		return
	}

	// ========== SPLIT PAR LA MÉDIANE ==========
	// Stable sort keeps the build deterministic when centroids are equal
	sort.SliceStable(node.Faces, func(i, j int) bool {
		return t.faceData[node.Faces[i]].Centroid[axis] < t.faceData[node.Faces[j]].Centroid[axis]
	})
	median := t.faceData[node.Faces[len(node.Faces)/2]]
	split := median.Centroid[axis]

	// Straddling faces go to both sides
	left := make([]int, 0, len(node.Faces)/2+1)
	right := make([]int, 0, len(node.Faces)/2+1)
	for _, face := range node.Faces {
		bounds := t.faceData[face].Bounds
		if bounds.Min[axis] <= split {
			left = append(left, face)
		}
		if bounds.Max[axis] >= split {
			right = append(right, face)
		}
	}

	// No separation: splitting again would only produce the same node
	if len(left) == len(node.Faces) || len(right) == len(node.Faces) {
		return
	}

	leftBounds := node.Bounds
	rightBounds := node.Bounds
	leftBounds.Max[axis] = split
	rightBounds.Min[axis] = math.Nextafter(split, math.Inf(1))

	node.Split = split
	node.Left = &Node{Bounds: leftBounds, Faces: left}
	node.Right = &Node{Bounds: rightBounds, Faces: right}
	// The partition now lives in the children
	node.Faces = nil

	next := (axis + 1) % 3
	t.build(node.Left, next, depth+1)
	t.build(node.Right, next, depth+1)
}

// Release unlinks every node of the tree, leaving it empty and ready for a
// new Build. It must not run while queries are in flight.
func (t *Tree) Release() {
	if t.root == nil {
		return
	}

	nodes := []*Node{t.root}
	for len(nodes) > 0 {
		top := nodes[len(nodes)-1]
		nodes = nodes[:len(nodes)-1]

		if !top.IsLeaf() {
			nodes = append(nodes, top.Left, top.Right)
		}
		top.Left = nil
		top.Right = nil
		top.Faces = nil
	}

	t.root = nil
	t.faceData = nil
}
