package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/akmonengine/modelspace"
	"github.com/akmonengine/modelspace/geometry"
	"github.com/akmonengine/modelspace/meshgen"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	shape    = flag.String("shape", "sphere", "mesh to load: sphere, box, cylinder or cube")
	strategy = flag.String("strategy", "kdtree", "model space strategy: bruteforce or kdtree")
	size     = flag.Float64("size", 1.0, "radius (sphere, cylinder) or half extent (box, cube)")
	cells    = flag.Int("cells", 48, "marching cubes resolution")
	grid     = flag.Int("grid", 64, "rays per side of the ray grid")
	workers  = flag.Int("workers", 4, "goroutines firing the rays")
	compare  = flag.Bool("compare", true, "check the hits against the brute force strategy")
)

// SetupMesh tessellates the requested shape
func SetupMesh(shape string, size float64, cells int) (meshgen.Mesh, error) {
	switch shape {
	case "sphere":
		return meshgen.Sphere(size, cells)
	case "box":
		return meshgen.Box(mgl64.Vec3{2 * size, 2 * size, 2 * size}, 0.1*size, cells)
	case "cylinder":
		return meshgen.Cylinder(2*size, size, cells)
	case "cube":
		return meshgen.Cube(mgl64.Vec3{0, 0, 0}, size), nil
	}
	return meshgen.Mesh{}, fmt.Errorf("unknown shape %q", shape)
}

// RayGrid fires a square grid of parallel rays along -Z covering the bounds,
// slightly enlarged so that the border rays miss.
func RayGrid(bounds geometry.AABB, side int) []geometry.Ray {
	center := bounds.Center()
	half := bounds.Max.Sub(bounds.Min).Mul(0.6)
	lo := center.Sub(half)
	hi := center.Add(half)

	rays := make([]geometry.Ray, 0, side*side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			x := lo.X() + (hi.X()-lo.X())*(float64(i)+0.5)/float64(side)
			y := lo.Y() + (hi.Y()-lo.Y())*(float64(j)+0.5)/float64(side)
			rays = append(rays, geometry.Ray{
				Origin:    mgl64.Vec3{x, y, hi.Z() + 1},
				Direction: mgl64.Vec3{0, 0, -1},
			})
		}
	}
	return rays
}

func main() {
	flag.Parse()

	s, err := modelspace.ParseStrategy(*strategy)
	if err != nil {
		log.Fatal(err)
	}
	mesh, err := SetupMesh(*shape, *size, *cells)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("🧪 Raycast: model space")
	fmt.Println("==================================================")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Shape: %s (size %.3f, %d cells)\n", *shape, *size, *cells)
	fmt.Printf("  Mesh: %d vertices, %d faces\n", len(mesh.Vertices), len(mesh.Faces))
	fmt.Printf("  Strategy: %v, %d workers\n", s, *workers)
	fmt.Println()

	space, err := modelspace.New(s)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	space.Load(mesh.Vertices, mesh.Faces)
	fmt.Printf("⚙️  Load: %v\n", time.Since(start))
	fmt.Printf("   Bounds: %v -> %v\n", space.Bounds().Min, space.Bounds().Max)

	if kd, ok := space.(*modelspace.KDSpace); ok {
		fmt.Printf("   Tree: %v\n", kd.Tree().Stats())
	}

	rays := RayGrid(space.Bounds(), *grid)
	start = time.Now()
	results := modelspace.IntersectAll(space, rays, *workers)
	elapsed := time.Since(start)

	hits := 0
	nearest := math.Inf(1)
	for _, result := range results {
		if result.Hit {
			hits++
			nearest = math.Min(nearest, result.Collision.Distance)
		}
	}
	fmt.Printf("🎯 Rays: %d, hits: %d, nearest hit: %.6f\n", len(rays), hits, nearest)
	fmt.Printf("   Time: %v (%.0f rays/s)\n", elapsed, float64(len(rays))/elapsed.Seconds())

	if !*compare || s == modelspace.StrategyBruteForce {
		return
	}

	// Vérification contre la force brute
	reference := modelspace.NewBruteForce()
	reference.Load(mesh.Vertices, mesh.Faces)
	expected := modelspace.IntersectAll(reference, rays, *workers)

	mismatches := 0
	for i := range results {
		if results[i].Hit != expected[i].Hit || results[i].Collision.Face != expected[i].Collision.Face {
			mismatches++
			log.Printf("ray %d: got hit=%v face=%d, want hit=%v face=%d", i,
				results[i].Hit, results[i].Collision.Face, expected[i].Hit, expected[i].Collision.Face)
		}
	}
	if mismatches > 0 {
		log.Fatalf("%d rays disagree with the brute force strategy", mismatches)
	}
	fmt.Println("🔍 Brute force agrees on every ray")
}
