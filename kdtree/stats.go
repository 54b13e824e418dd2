package kdtree

import "fmt"

// Stats summarizes the shape of a built tree
type Stats struct {
	MaxDepth        int
	NodeCount       int
	LeafCount       int
	MaxFaces        int     // Largest face count in a leaf
	AverageFaces    float64 // Mean face count per leaf
	DuplicatedFaces int     // Face entries beyond one per face, from straddling faces
}

func (s Stats) String() string {
	return fmt.Sprintf("max depth: %d, nodes: %d, leaves: %d, max faces in a leaf: %d, average faces in a leaf: %.2f, duplicated: %d",
		s.MaxDepth, s.NodeCount, s.LeafCount, s.MaxFaces, s.AverageFaces, s.DuplicatedFaces)
}

// Stats walks the tree and collects its statistics
func (t *Tree) Stats() Stats {
	var stats Stats
	if t.root == nil {
		return stats
	}

	type entry struct {
		node  *Node
		depth int
	}

	total := 0
	nodes := []entry{{node: t.root}}
	for len(nodes) > 0 {
		top := nodes[len(nodes)-1]
		nodes = nodes[:len(nodes)-1]

		stats.NodeCount++
		stats.MaxDepth = max(stats.MaxDepth, top.depth)

		if top.node.IsLeaf() {
			stats.LeafCount++
			stats.MaxFaces = max(stats.MaxFaces, len(top.node.Faces))
			total += len(top.node.Faces)
			continue
		}
		nodes = append(nodes,
			entry{node: top.node.Left, depth: top.depth + 1},
			entry{node: top.node.Right, depth: top.depth + 1},
		)
	}

	stats.AverageFaces = float64(total) / float64(stats.LeafCount)
	stats.DuplicatedFaces = total - len(t.faceData)
	return stats
}
