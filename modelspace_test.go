package modelspace

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/akmonengine/modelspace/geometry"
	"github.com/akmonengine/modelspace/meshgen"
	"github.com/go-gl/mathgl/mgl64"
)

// Test helper functions

func vec3ApproxEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return math.Abs(a.X()-b.X()) < epsilon &&
		math.Abs(a.Y()-b.Y()) < epsilon &&
		math.Abs(a.Z()-b.Z()) < epsilon
}

func hasNaN(v mgl64.Vec3) bool {
	return math.IsNaN(v.X()) || math.IsNaN(v.Y()) || math.IsNaN(v.Z())
}

// strategies returns one fresh model space per strategy
func strategies() map[string]ModelSpace {
	return map[string]ModelSpace{
		"bruteforce": NewBruteForce(),
		"kdtree":     NewKDSpace(),
	}
}

func sphereMesh(t testing.TB) meshgen.Mesh {
	t.Helper()
	mesh, err := meshgen.Sphere(1.0, 24)
	if err != nil {
		t.Fatalf("meshgen.Sphere: %v", err)
	}
	return mesh
}

// randomRays aims rays from a shell around the origin at points near it,
// some of them missing the unit sphere.
func randomRays(rng *rand.Rand, count int) []geometry.Ray {
	rays := make([]geometry.Ray, count)
	for i := range rays {
		origin := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Normalize().Mul(3)
		target := mgl64.Vec3{rng.Float64()*2.4 - 1.2, rng.Float64()*2.4 - 1.2, rng.Float64()*2.4 - 1.2}
		rays[i] = geometry.Ray{Origin: origin, Direction: target.Sub(origin)}
	}
	return rays
}

// =============================================================================
// Strategy selection
// =============================================================================

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"bruteforce", StrategyBruteForce, false},
		{"kdtree", StrategyKDTree, false},
		{"octree", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStrategy) {
					t.Errorf("ParseStrategy(%q) error = %v, want ErrUnknownStrategy", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrategy(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestNew(t *testing.T) {
	space, err := New(StrategyBruteForce)
	if err != nil {
		t.Fatalf("New(bruteforce): %v", err)
	}
	if _, ok := space.(*BruteForce); !ok {
		t.Errorf("New(bruteforce) = %T, want *BruteForce", space)
	}

	space, err = New(StrategyKDTree)
	if err != nil {
		t.Fatalf("New(kdtree): %v", err)
	}
	if _, ok := space.(*KDSpace); !ok {
		t.Errorf("New(kdtree) = %T, want *KDSpace", space)
	}

	if _, err := New(Strategy(42)); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("New(42) error = %v, want ErrUnknownStrategy", err)
	}
}

// =============================================================================
// Intersect
// =============================================================================

func TestIntersect_Cube(t *testing.T) {
	mesh := meshgen.Cube(mgl64.Vec3{0, 0, 0}, 0.5)
	ray := geometry.Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(mesh.Vertices, mesh.Faces)

			collision, hit := space.Intersect(ray)
			if !hit {
				t.Fatal("Ray should hit the top of the cube")
			}
			if math.Abs(collision.T-4.5) > 1e-9 {
				t.Errorf("T = %v, want 4.5", collision.T)
			}
			if math.Abs(collision.Distance-4.5) > 1e-9 {
				t.Errorf("Distance = %v, want 4.5", collision.Distance)
			}
			if !vec3ApproxEqual(collision.Point, mgl64.Vec3{0, 0, 0.5}, 1e-9) {
				t.Errorf("Point = %v, want (0, 0, 0.5)", collision.Point)
			}
			// The hit lies on the diagonal shared by faces 0 and 1
			if collision.Face != 0 {
				t.Errorf("Face = %d, want 0 (lowest index on a tie)", collision.Face)
			}
			if !vec3ApproxEqual(collision.FaceNormal, mgl64.Vec3{0, 0, 1}, 1e-9) {
				t.Errorf("FaceNormal = %v, want (0, 0, 1)", collision.FaceNormal)
			}
			if math.Abs(collision.Normal.Len()-1) > 1e-9 {
				t.Errorf("Normal %v should be unit length", collision.Normal)
			}
			if collision.Normal.Z() < 0.9 {
				t.Errorf("Normal = %v, should point mostly up", collision.Normal)
			}
		})
	}
}

func TestIntersect_Miss(t *testing.T) {
	mesh := meshgen.Cube(mgl64.Vec3{0, 0, 0}, 0.5)

	rays := []geometry.Ray{
		// Passes beside the cube
		{Origin: mgl64.Vec3{2, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}},
		// Points away
		{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, 1}},
		// Zero direction
		{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, 0}},
	}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(mesh.Vertices, mesh.Faces)
			for _, ray := range rays {
				if collision, hit := space.Intersect(ray); hit {
					t.Errorf("Ray %v should miss, hit face %d", ray, collision.Face)
				}
			}
		})
	}
}

func TestIntersect_FromInside(t *testing.T) {
	mesh := meshgen.Cube(mgl64.Vec3{0, 0, 0}, 0.5)
	ray := geometry.Ray{Origin: mgl64.Vec3{0.1, 0.2, 0}, Direction: mgl64.Vec3{1, 0, 0}}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(mesh.Vertices, mesh.Faces)

			collision, hit := space.Intersect(ray)
			if !hit {
				t.Fatal("Ray from inside should hit the +X side")
			}
			if math.Abs(collision.T-0.4) > 1e-9 {
				t.Errorf("T = %v, want 0.4", collision.T)
			}
			if !vec3ApproxEqual(collision.FaceNormal, mgl64.Vec3{1, 0, 0}, 1e-9) {
				t.Errorf("FaceNormal = %v, want (1, 0, 0)", collision.FaceNormal)
			}
		})
	}
}

func TestIntersect_DegenerateTriangle(t *testing.T) {
	vertices := []mgl64.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	faces := []geometry.Face{{0, 1, 2}}

	rays := []geometry.Ray{
		{Origin: mgl64.Vec3{1, 1, 5}, Direction: mgl64.Vec3{0, 0, -1}},
		{Origin: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{1, 1, 1}},
		{Origin: mgl64.Vec3{-3, 1, 1}, Direction: mgl64.Vec3{1, 0, 0}},
	}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(vertices, faces)
			for _, ray := range rays {
				collision, hit := space.Intersect(ray)
				if hit {
					t.Errorf("Degenerate face should never be hit by %v", ray)
				}
				if hasNaN(collision.Point) || hasNaN(collision.Normal) {
					t.Errorf("Collision holds NaN: %+v", collision)
				}
			}
		})
	}
}

func TestIntersect_DegenerateFaceIgnored(t *testing.T) {
	vertices := []mgl64.Vec3{
		{-1, -1, 0}, {1, -1, 0}, {0, 1, 0},
		// Collinear corners crossing the ray path in front of the valid face
		{0, 0, 1}, {0, 0, 2}, {0, 0, 3},
	}
	faces := []geometry.Face{{3, 4, 5}, {0, 1, 2}}
	ray := geometry.Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(vertices, faces)

			collision, hit := space.Intersect(ray)
			if !hit {
				t.Fatal("Ray should hit the valid face")
			}
			if collision.Face != 1 {
				t.Errorf("Face = %d, want 1", collision.Face)
			}
			if hasNaN(collision.Normal) {
				t.Errorf("Normal holds NaN: %v", collision.Normal)
			}
			if !vec3ApproxEqual(collision.Normal, mgl64.Vec3{0, 0, 1}, 1e-9) {
				t.Errorf("Normal = %v, want (0, 0, 1)", collision.Normal)
			}
		})
	}
}

func TestIntersect_SliverFace(t *testing.T) {
	// Area small enough to be degenerate, yet not flat for the ray test alone
	vertices := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 5e-11, 0}}
	faces := []geometry.Face{{0, 1, 2}}
	ray := geometry.Ray{Origin: mgl64.Vec3{0.1, 1e-12, 1}, Direction: mgl64.Vec3{0, 0, -1}}

	if !faces[0].IsDegenerate(vertices) {
		t.Fatal("Sliver should be degenerate")
	}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(vertices, faces)

			collision, hit := space.Intersect(ray)
			if hit {
				t.Errorf("Degenerate sliver should never be hit, got normal %v", collision.Normal)
			}
		})
	}
}

func TestIntersect_SliverNextToValidFace(t *testing.T) {
	vertices := []mgl64.Vec3{
		// Sliver above the valid face
		{0, 0, 1}, {1, 0, 1}, {0, 5e-11, 1},
		{-1, -1, 0}, {2, -1, 0}, {0, 2, 0},
	}
	faces := []geometry.Face{{0, 1, 2}, {3, 4, 5}}
	ray := geometry.Ray{Origin: mgl64.Vec3{0.1, 1e-12, 3}, Direction: mgl64.Vec3{0, 0, -1}}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(vertices, faces)

			collision, hit := space.Intersect(ray)
			if !hit {
				t.Fatal("Ray should reach the valid face under the sliver")
			}
			if collision.Face != 1 {
				t.Errorf("Face = %d, want 1", collision.Face)
			}
			if math.Abs(collision.Normal.Len()-1) > 1e-9 || math.Abs(collision.FaceNormal.Len()-1) > 1e-9 {
				t.Errorf("Normals %v, %v should be unit length", collision.Normal, collision.FaceNormal)
			}
		})
	}
}

func TestIntersect_NotLoaded(t *testing.T) {
	ray := geometry.Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			if _, hit := space.Intersect(ray); hit {
				t.Error("An empty model space should not be hit")
			}
			if !space.Bounds().IsEmpty() {
				t.Errorf("Bounds of an empty model space = %v, want empty", space.Bounds())
			}
		})
	}
}

func TestIntersect_Sphere(t *testing.T) {
	mesh := sphereMesh(t)

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(mesh.Vertices, mesh.Faces)

			ray := geometry.Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -2}}
			collision, hit := space.Intersect(ray)
			if !hit {
				t.Fatal("Ray aimed at the center should hit the sphere")
			}
			if math.Abs(collision.Distance-4) > 0.15 {
				t.Errorf("Distance = %v, want about 4", collision.Distance)
			}
			if math.Abs(collision.Distance-2*collision.T) > 1e-9 {
				t.Errorf("Distance %v should be T %v times the direction length", collision.Distance, collision.T)
			}

			rng := rand.New(rand.NewSource(11))
			for _, ray := range randomRays(rng, 200) {
				collision, hit := space.Intersect(ray)
				if !hit {
					continue
				}
				if r := collision.Point.Len(); r < 0.85 || r > 1.05 {
					t.Fatalf("Hit %v is %v away from the center", collision.Point, r)
				}
				if !vec3ApproxEqual(collision.Point, ray.At(collision.T), 1e-9) {
					t.Fatalf("Hit %v is not on the ray", collision.Point)
				}
				if math.Abs(collision.Normal.Len()-1) > 1e-9 {
					t.Fatalf("Normal %v should be unit length", collision.Normal)
				}
			}
		})
	}
}

func TestBounds(t *testing.T) {
	mesh := meshgen.Cube(mgl64.Vec3{1, 2, 3}, 0.5)
	want := geometry.AABB{Min: mgl64.Vec3{0.5, 1.5, 2.5}, Max: mgl64.Vec3{1.5, 2.5, 3.5}}

	for name, space := range strategies() {
		t.Run(name, func(t *testing.T) {
			space.Load(mesh.Vertices, mesh.Faces)
			if got := space.Bounds(); !vec3ApproxEqual(got.Min, want.Min, 1e-12) || !vec3ApproxEqual(got.Max, want.Max, 1e-12) {
				t.Errorf("Bounds() = %v, want %v", got, want)
			}
		})
	}
}

// =============================================================================
// Strategy agreement
// =============================================================================

func TestStrategiesAgree(t *testing.T) {
	meshes := map[string]meshgen.Mesh{
		"sphere": sphereMesh(t),
		"cube":   meshgen.Cube(mgl64.Vec3{0.1, -0.2, 0.05}, 0.7),
	}
	box, err := meshgen.Box(mgl64.Vec3{1.6, 1.2, 0.8}, 0.1, 20)
	if err != nil {
		t.Fatalf("meshgen.Box: %v", err)
	}
	meshes["rounded box"] = box

	rng := rand.New(rand.NewSource(2024))
	rays := randomRays(rng, 400)
	// Rays starting inside the meshes
	for i := 0; i < 100; i++ {
		origin := mgl64.Vec3{rng.Float64()*0.6 - 0.3, rng.Float64()*0.6 - 0.3, rng.Float64()*0.6 - 0.3}
		direction := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		rays = append(rays, geometry.Ray{Origin: origin, Direction: direction})
	}
	// Axis aligned rays
	for i := 0; i < 50; i++ {
		origin := mgl64.Vec3{rng.Float64()*1.6 - 0.8, rng.Float64()*1.6 - 0.8, -4}
		rays = append(rays, geometry.Ray{Origin: origin, Direction: mgl64.Vec3{0, 0, 1}})
	}

	for name, mesh := range meshes {
		t.Run(name, func(t *testing.T) {
			bf := NewBruteForce()
			kd := NewKDSpace()
			bf.Load(mesh.Vertices, mesh.Faces)
			kd.Load(mesh.Vertices, mesh.Faces)

			hits := 0
			for i, ray := range rays {
				want, wantHit := bf.Intersect(ray)
				got, gotHit := kd.Intersect(ray)

				if gotHit != wantHit {
					t.Fatalf("Ray %d: kdtree hit = %v, bruteforce hit = %v", i, gotHit, wantHit)
				}
				if !wantHit {
					continue
				}
				hits++
				if got.Face != want.Face {
					t.Errorf("Ray %d: kdtree face = %d, bruteforce face = %d", i, got.Face, want.Face)
				}
				if math.Abs(got.T-want.T) > 1e-12 {
					t.Errorf("Ray %d: kdtree T = %v, bruteforce T = %v", i, got.T, want.T)
				}
				if !vec3ApproxEqual(got.Point, want.Point, 1e-12) {
					t.Errorf("Ray %d: kdtree point = %v, bruteforce point = %v", i, got.Point, want.Point)
				}
				if !vec3ApproxEqual(got.Normal, want.Normal, 1e-12) {
					t.Errorf("Ray %d: kdtree normal = %v, bruteforce normal = %v", i, got.Normal, want.Normal)
				}
			}

			if hits == 0 {
				t.Error("No ray hit the mesh, the comparison proves nothing")
			}
		})
	}
}

func TestKDSpace_Reload(t *testing.T) {
	sphere := sphereMesh(t)
	kd := NewKDSpace()
	kd.Load(sphere.Vertices, sphere.Faces)

	cube := meshgen.Cube(mgl64.Vec3{0, 0, 0}, 0.5)
	kd.Load(cube.Vertices, cube.Faces)

	if len(kd.Tree().FaceData()) != len(cube.Faces) {
		t.Errorf("Tree indexes %d faces after reload, want %d", len(kd.Tree().FaceData()), len(cube.Faces))
	}

	ray := geometry.Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}
	collision, hit := kd.Intersect(ray)
	if !hit || math.Abs(collision.T-4.5) > 1e-9 {
		t.Errorf("Reloaded space hit = %v at T = %v, want T = 4.5", hit, collision.T)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func benchmarkIntersect(b *testing.B, space ModelSpace) {
	mesh := sphereMesh(b)
	space.Load(mesh.Vertices, mesh.Faces)
	rays := randomRays(rand.New(rand.NewSource(1)), 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		space.Intersect(rays[i%len(rays)])
	}
}

func BenchmarkIntersect_BruteForce(b *testing.B) {
	benchmarkIntersect(b, NewBruteForce())
}

func BenchmarkIntersect_KDTree(b *testing.B) {
	benchmarkIntersect(b, NewKDSpace())
}
