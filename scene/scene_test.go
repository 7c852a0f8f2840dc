package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleOutOfRange(t *testing.T) {
	m := CreateMeshFromData("bad", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}, []uint32{0, 1, 5})
	_, _, _, err := m.Triangle(0)
	assert.Error(t, err)
}

func TestMergeRebasesIndices(t *testing.T) {
	tri := CreateMeshFromData("a", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil)
	quad := CreateQuad()
	m := Merge("ab", tri, quad)

	assert.Equal(t, len(tri.Positions)+len(quad.Positions), len(m.Positions))
	assert.Equal(t, 1+quad.TriangleCount(), m.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices[:3])
	for _, idx := range m.Indices[3:] {
		assert.GreaterOrEqual(t, idx, uint32(3))
	}
}

func TestTransformed(t *testing.T) {
	m := CreateMeshFromData("a", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil)
	moved := m.Transformed(mgl32.Translate3D(0, 0, 2))
	assert.Equal(t, mgl32.Vec3{1, 0, 2}, moved.Positions[1])
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Positions[1], "source must not change")
	assert.Equal(t, mgl32.Vec3{0, 0, 2}, moved.LocalAABB.Min)
}

func TestSceneContainsAndVisibleNodes(t *testing.T) {
	s := NewScene()
	n := NewNode("cloud")
	n.Points = NewPointCloud("cloud", make([]float32, 6), make([]float32, 6), PointMaterial{})
	empty := NewNode("empty")

	assert.False(t, s.Contains(n))
	s.AddNode(n)
	s.AddNode(empty)
	assert.True(t, s.Contains(n))
	assert.Equal(t, []*Node{n}, s.GetVisibleNodes())

	n.Visible = false
	assert.Empty(t, s.GetVisibleNodes())

	s.RemoveNode(n)
	assert.False(t, s.Contains(n))
	assert.NotEqual(t, n.ID, empty.ID)
}

func TestNewPointCloudPanicsOnMisalignedBuffers(t *testing.T) {
	assert.Panics(t, func() {
		NewPointCloud("bad", make([]float32, 6), make([]float32, 3), PointMaterial{})
	})
	pc := NewPointCloud("ok", make([]float32, 9), make([]float32, 9), PointMaterial{})
	assert.Equal(t, 3, pc.Count())
}

func TestCameraAspect(t *testing.T) {
	c := NewCamera(mgl32.DegToRad(45), 1, 0.1, 100)
	c.UpdateAspectRatio(1920, 1080)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, 1e-6)
	c.UpdateAspectRatio(800, 0)
	assert.InDelta(t, 16.0/9.0, c.AspectRatio, 1e-6)
}

func TestOrbitCameraDisabled(t *testing.T) {
	c := NewOrbitCamera(mgl32.Vec3{}, 5, mgl32.DegToRad(45), 1)
	require.InDelta(t, 5, c.Position.Len(), 1e-5)

	c.Enabled = false
	start := c.Position
	c.Orbit(1, 0.5)
	c.Zoom(-2)
	assert.Equal(t, start, c.Position)

	c.Enabled = true
	c.Zoom(-2)
	assert.InDelta(t, 3, c.Position.Len(), 1e-5)
	c.Pitch = 0
	c.Orbit(0, 10)
	assert.InDelta(t, 1.5, c.Pitch, 1e-6, "pitch is clamped")
}

func TestOrbitCameraPlaceAt(t *testing.T) {
	c := NewOrbitCamera(mgl32.Vec3{}, 5, mgl32.DegToRad(50), 1)
	c.PlaceAt(mgl32.Vec3{0, 1, 5})
	assert.InDelta(t, 0, c.Position.X(), 1e-5)
	assert.InDelta(t, 1, c.Position.Y(), 1e-5)
	assert.InDelta(t, 5, c.Position.Z(), 1e-5)
	assert.InDelta(t, math32.Sqrt(26), c.Distance, 1e-5)

	// Orbiting continues from the placed angles.
	c.Orbit(0, 0)
	assert.InDelta(t, 1, c.Position.Y(), 1e-5)

	c.PlaceAt(c.Target)
	assert.InDelta(t, math32.Sqrt(26), c.Distance, 1e-5)
}

func TestPrimitivesHaveArea(t *testing.T) {
	for name, create := range builtinMeshes {
		m := create()
		assert.Positive(t, m.TriangleCount(), name)
		for i := 0; i < m.TriangleCount(); i++ {
			_, _, _, err := m.Triangle(i)
			require.NoError(t, err, name)
		}
	}
}
