// Package modelspace answers ray queries against a static triangle mesh.
//
// A ModelSpace is loaded once with a mesh and then intersected with any number
// of rays. Two strategies implement it: BruteForce tests every face, KDSpace
// walks a KD-tree and only tests the faces of the leaves the ray crosses.
// Both report the same closest hit for the same mesh and ray.
package modelspace

import (
	"errors"
	"fmt"

	"github.com/akmonengine/modelspace/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnknownStrategy is returned when selecting a strategy that does not exist
var ErrUnknownStrategy = errors.New("unknown model space strategy")

// ModelSpace is the collision query contract over a loaded mesh
type ModelSpace interface {
	// Load ingests the mesh and builds whatever the strategy needs.
	// The slices are retained, not copied: they must outlive the model space
	// and must not be modified.
	Load(vertices []mgl64.Vec3, faces []geometry.Face)
	// Intersect returns the closest face hit by the ray, if any
	Intersect(ray geometry.Ray) (geometry.Collision, bool)
	// Bounds returns the box of the whole loaded mesh
	Bounds() geometry.AABB
}

// Strategy selects a ModelSpace implementation
type Strategy int

const (
	StrategyBruteForce Strategy = iota
	StrategyKDTree
)

func (s Strategy) String() string {
	switch s {
	case StrategyBruteForce:
		return "bruteforce"
	case StrategyKDTree:
		return "kdtree"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the strategy with the given name
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "bruteforce":
		return StrategyBruteForce, nil
	case "kdtree":
		return StrategyKDTree, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// New creates an empty model space backed by the given strategy
func New(strategy Strategy) (ModelSpace, error) {
	switch strategy {
	case StrategyBruteForce:
		return NewBruteForce(), nil
	case StrategyKDTree:
		return NewKDSpace(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
}
