package particles

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"particle-morph/scene"
)

// inTriangle reports whether p lies on triangle abc within eps.
func inTriangle(p, a, b, c mgl32.Vec3, eps float32) bool {
	v0, v1, v2 := b.Sub(a), c.Sub(a), p.Sub(a)
	n := v0.Cross(v1)
	if n.Len() == 0 {
		return false
	}
	if d := v2.Dot(n.Normalize()); d > eps || d < -eps {
		return false
	}
	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	denom := d00*d11 - d01*d01
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	u := 1 - v - w
	return u >= -eps && v >= -eps && w >= -eps
}

func TestSampleReturnsExactCountOnSurface(t *testing.T) {
	for _, mesh := range []*scene.Mesh{
		scene.CreateTriangle(),
		scene.CreateCube(2),
		scene.CreateTorus(1, 0.3, 16, 8),
	} {
		t.Run(mesh.Name, func(t *testing.T) {
			set, err := Sample(mesh, 2000, rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			require.Len(t, set, 2000)

			for i, p := range set {
				found := false
				for tri := 0; tri < mesh.TriangleCount() && !found; tri++ {
					a, b, c, err := mesh.Triangle(tri)
					require.NoError(t, err)
					found = inTriangle(p.Position, a, b, c, 1e-4)
				}
				require.Truef(t, found, "point %d %v is not on any triangle", i, p.Position)
			}
		})
	}
}

func TestSampleRandomnessInRange(t *testing.T) {
	set, err := Sample(scene.CreateQuad(), 5000, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	for _, p := range set {
		for axis := 0; axis < 3; axis++ {
			assert.GreaterOrEqual(t, p.Randomness[axis], float32(-1))
			assert.LessOrEqual(t, p.Randomness[axis], float32(1))
		}
	}
}

func TestSampleIsAreaWeighted(t *testing.T) {
	// Large triangle has area 2, small one (offset along X) has area 0.5.
	positions := []mgl32.Vec3{
		{0, 0, 0}, {2, 0, 0}, {0, 2, 0},
		{10, 0, 0}, {11, 0, 0}, {10, 1, 0},
	}
	mesh := scene.CreateMeshFromData("pair", positions, []uint32{0, 1, 2, 3, 4, 5})

	const n = 50000
	set, err := Sample(mesh, n, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	large := 0
	for _, p := range set {
		if p.Position.X() < 5 {
			large++
		}
	}
	assert.InDelta(t, 0.8, float64(large)/n, 0.01)
}

func TestSampleSkipsZeroAreaTriangles(t *testing.T) {
	positions := []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, // collinear
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
	}
	mesh := scene.CreateMeshFromData("mixed", positions, nil)
	set, err := Sample(mesh, 1000, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	for _, p := range set {
		assert.InDelta(t, 1, p.Position.Z(), 1e-6)
	}
}

func TestSampleDegenerateMesh(t *testing.T) {
	cases := map[string]*scene.Mesh{
		"empty":     scene.CreateMeshFromData("empty", nil, nil),
		"collinear": scene.CreateMeshFromData("line", []mgl32.Vec3{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}, []uint32{0, 1, 2}),
		"point":     scene.CreateMeshFromData("point", []mgl32.Vec3{{1, 1, 1}}, []uint32{0, 0, 0}),
		"bad index": scene.CreateMeshFromData("bad", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}, []uint32{0, 1, 5}),
	}
	for name, mesh := range cases {
		t.Run(name, func(t *testing.T) {
			set, err := Sample(mesh, 10, rand.New(rand.NewSource(1)))
			require.ErrorIs(t, err, ErrDegenerateMesh)
			assert.Contains(t, err.Error(), mesh.Name)
			assert.Nil(t, set)
		})
	}
}

func TestSampleInvalidCount(t *testing.T) {
	_, err := Sample(scene.CreateQuad(), 0, nil)
	require.ErrorIs(t, err, ErrInvalidCount)
}

func TestSampleSeededIsDeterministic(t *testing.T) {
	a, err := Sample(scene.CreateCube(1), 100, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	b, err := Sample(scene.CreateCube(1), 100, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSurfaceArea(t *testing.T) {
	area, err := SurfaceArea(scene.CreateCube(2))
	require.NoError(t, err)
	assert.InDelta(t, 24, area, 1e-4)
}

func TestBuildAlignsBuffers(t *testing.T) {
	set, err := Sample(scene.CreateSphere(1, 12, 8), 321, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	b := Build(set)
	require.Len(t, b.Positions, 3*len(set))
	require.Len(t, b.Randomness, 3*len(set))
	assert.Equal(t, len(set), b.Count())

	for i, p := range set {
		assert.Equal(t, p.Position[:], b.Positions[i*3:i*3+3])
		assert.Equal(t, p.Randomness[:], b.Randomness[i*3:i*3+3])
	}
}

func TestBuildEmptySet(t *testing.T) {
	b := Build(nil)
	assert.Empty(t, b.Positions)
	assert.Empty(t, b.Randomness)
}
