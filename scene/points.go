package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"particle-morph/core"
)

// PointMaterial holds the uniform values of the shaded point program.
type PointMaterial struct {
	Color1 core.Color
	Color2 core.Color
	Time   float32 // seconds, fed to uTime
	Scale  float32 // 0 = collapsed, 1 = full size, fed to uScale
	Size   float32 // base point size in pixels
}

// PointCloud is a renderable particle buffer. Positions and Randomness are
// flat xyz triples of equal length and are never mutated after creation.
type PointCloud struct {
	Name       string
	Positions  []float32
	Randomness []float32
	Material   PointMaterial

	// Bounds is the local-space box of Positions.
	Bounds AABB

	// GPUData is set by the renderer backend on first draw.
	GPUData interface{}
}

// NewPointCloud wraps packed buffers. It panics if the buffers are not
// index-aligned xyz triples, which would corrupt the vertex layout.
func NewPointCloud(name string, positions, randomness []float32, mat PointMaterial) *PointCloud {
	if len(positions) != len(randomness) || len(positions)%3 != 0 {
		panic("scene: point cloud buffers must be equal-length xyz triples")
	}
	pc := &PointCloud{
		Name:       name,
		Positions:  positions,
		Randomness: randomness,
		Material:   mat,
	}
	if n := len(positions) / 3; n > 0 {
		pts := make([]mgl32.Vec3, n)
		for i := range pts {
			pts[i] = mgl32.Vec3{positions[3*i], positions[3*i+1], positions[3*i+2]}
		}
		pc.Bounds = computeLocalAABB(pts)
	}
	return pc
}

// Count returns the number of points.
func (pc *PointCloud) Count() int {
	return len(pc.Positions) / 3
}
