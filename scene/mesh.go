package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds triangulated CPU-side geometry used as a sampling source.
// A mesh is never mutated after a loader returns it.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3 // optional, same length as Positions when present
	Indices   []uint32     // triangle list; empty means consecutive triples

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box on each axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, positions []mgl32.Vec3, indices []uint32) *Mesh {
	m := &Mesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
	}
	if len(positions) > 0 {
		m.LocalAABB = computeLocalAABB(positions)
		m.HasLocalAABB = true
	}
	return m
}

// computeLocalAABB returns the tight AABB of the given vertex positions.
func computeLocalAABB(positions []mgl32.Vec3) AABB {
	min := positions[0]
	max := positions[0]
	for _, p := range positions[1:] {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < min[axis] {
				min[axis] = p[axis]
			}
			if p[axis] > max[axis] {
				max[axis] = p[axis]
			}
		}
	}
	return AABB{Min: min, Max: max}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Triangle returns the three corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3, err error) {
	if len(m.Indices) == 0 {
		base := i * 3
		return m.Positions[base], m.Positions[base+1], m.Positions[base+2], nil
	}
	i0, i1, i2 := m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
	n := uint32(len(m.Positions))
	if i0 >= n || i1 >= n || i2 >= n {
		return a, b, c, fmt.Errorf("triangle %d references vertex out of range (%d vertices)", i, n)
	}
	return m.Positions[i0], m.Positions[i1], m.Positions[i2], nil
}

// Merge concatenates meshes into one, rebasing indices. Non-indexed inputs
// are expanded to explicit indices so the result is always indexed.
func Merge(name string, meshes ...*Mesh) *Mesh {
	var positions []mgl32.Vec3
	var normals []mgl32.Vec3
	var indices []uint32
	withNormals := true
	for _, m := range meshes {
		if len(m.Normals) != len(m.Positions) {
			withNormals = false
		}
	}
	for _, m := range meshes {
		base := uint32(len(positions))
		positions = append(positions, m.Positions...)
		if withNormals {
			normals = append(normals, m.Normals...)
		}
		if len(m.Indices) == 0 {
			for i := range m.Positions[:len(m.Positions)/3*3] {
				indices = append(indices, base+uint32(i))
			}
			continue
		}
		for _, idx := range m.Indices {
			indices = append(indices, base+idx)
		}
	}
	out := CreateMeshFromData(name, positions, indices)
	out.Normals = normals
	return out
}

// Transformed returns a copy of the mesh with every position multiplied by mat.
func (m *Mesh) Transformed(mat mgl32.Mat4) *Mesh {
	out := CreateMeshFromData(m.Name, transformPoints(m.Positions, mat), m.Indices)
	if len(m.Normals) > 0 {
		normalMat := mat.Mat3().Inv().Transpose()
		out.Normals = make([]mgl32.Vec3, len(m.Normals))
		for i, n := range m.Normals {
			out.Normals[i] = normalMat.Mul3x1(n).Normalize()
		}
	}
	return out
}
