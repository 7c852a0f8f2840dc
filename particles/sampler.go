// Package particles turns mesh surfaces into point sets for the point renderer.
package particles

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"particle-morph/scene"
)

// DefaultCount is the number of points sampled per mesh when unconfigured.
const DefaultCount = 20000

var (
	// ErrDegenerateMesh is returned when a mesh has no triangles, a zero total
	// surface area, or triangles referencing missing vertices.
	ErrDegenerateMesh = errors.New("degenerate mesh")
	// ErrInvalidCount is returned for non-positive sample counts.
	ErrInvalidCount = errors.New("sample count must be positive")
)

// Point is one sampled surface position plus its per-particle jitter vector.
type Point struct {
	Position   mgl32.Vec3
	Randomness mgl32.Vec3 // each component in [-1, 1]
}

// Set is an ordered particle set.
type Set []Point

// Sample draws count points uniformly over the surface area of mesh.
// Triangles are chosen through a cumulative area table so that density is
// per unit area, not per triangle. A nil rng uses a time-seeded source.
func Sample(mesh *scene.Mesh, count int, rng *rand.Rand) (Set, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sample %q: %d: %w", mesh.Name, count, ErrInvalidCount)
	}
	cdf, tris, err := areaTable(mesh)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	total := cdf[len(cdf)-1]
	set := make(Set, count)
	for i := range set {
		r := rng.Float64() * total
		// First triangle whose running area exceeds r; zero-area triangles
		// never satisfy this strictly.
		t := sort.Search(len(cdf), func(j int) bool { return cdf[j] > r })
		if t == len(cdf) {
			t = len(cdf) - 1
		}
		tri := tris[t]

		u, v := rng.Float32(), rng.Float32()
		if u+v > 1 {
			u, v = 1-u, 1-v
		}
		set[i] = Point{
			Position:   pointInTriangle(tri, u, v),
			Randomness: mgl32.Vec3{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1},
		}
	}
	return set, nil
}

type triangle [3]mgl32.Vec3

func pointInTriangle(tri triangle, u, v float32) mgl32.Vec3 {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	return tri[0].Add(e1.Mul(u)).Add(e2.Mul(v))
}

// areaTable returns the running sum of triangle areas and the triangles in
// the same order.
func areaTable(mesh *scene.Mesh) ([]float64, []triangle, error) {
	n := mesh.TriangleCount()
	if n == 0 {
		return nil, nil, fmt.Errorf("sample %q: no triangles: %w", mesh.Name, ErrDegenerateMesh)
	}
	cdf := make([]float64, n)
	tris := make([]triangle, n)
	var sum float64
	for i := 0; i < n; i++ {
		a, b, c, err := mesh.Triangle(i)
		if err != nil {
			return nil, nil, fmt.Errorf("sample %q: %v: %w", mesh.Name, err, ErrDegenerateMesh)
		}
		tris[i] = triangle{a, b, c}
		sum += float64(TriangleArea(a, b, c))
		cdf[i] = sum
	}
	if !(sum > 0) {
		return nil, nil, fmt.Errorf("sample %q: %d triangles with zero total area: %w", mesh.Name, n, ErrDegenerateMesh)
	}
	return cdf, tris, nil
}

// TriangleArea returns the area of triangle abc.
func TriangleArea(a, b, c mgl32.Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Len() / 2
}

// SurfaceArea returns the total triangle area of mesh.
func SurfaceArea(mesh *scene.Mesh) (float32, error) {
	cdf, _, err := areaTable(mesh)
	if err != nil {
		return 0, err
	}
	return float32(cdf[len(cdf)-1]), nil
}
