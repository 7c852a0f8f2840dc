package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CreateTriangle returns a single triangle in the XY plane.
func CreateTriangle() *Mesh {
	positions := []mgl32.Vec3{
		{0, -0.5, 0},
		{0.5, 0.5, 0},
		{-0.5, 0.5, 0},
	}
	return CreateMeshFromData("Triangle", positions, []uint32{0, 1, 2})
}

// CreateQuad returns a unit quad in the XY plane made of two triangles.
func CreateQuad() *Mesh {
	positions := []mgl32.Vec3{
		{-0.5, -0.5, 0},
		{0.5, -0.5, 0},
		{0.5, 0.5, 0},
		{-0.5, 0.5, 0},
	}
	return CreateMeshFromData("Quad", positions, []uint32{0, 1, 2, 2, 3, 0})
}

func CreateCube(size float32) *Mesh {
	s := size / 2
	positions := []mgl32.Vec3{
		{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s}, // front
		{-s, -s, -s}, {s, -s, -s}, {s, s, -s}, {-s, s, -s}, // back
	}
	indices := []uint32{
		0, 1, 2, 2, 3, 0, // front
		5, 4, 7, 7, 6, 5, // back
		3, 2, 6, 6, 7, 3, // top
		4, 5, 1, 1, 0, 4, // bottom
		1, 5, 6, 6, 2, 1, // right
		4, 0, 3, 3, 7, 4, // left
	}
	return CreateMeshFromData("Cube", positions, indices)
}

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var positions, normals []mgl32.Vec3
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			positions = append(positions, normal.Mul(radius))
			normals = append(normals, normal)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	m := CreateMeshFromData("Sphere", positions, indices)
	m.Normals = normals
	return m
}

// CreateTorus generates a torus mesh
func CreateTorus(majorRadius, minorRadius float32, majorSegments, minorSegments int) *Mesh {
	if majorSegments < 3 {
		majorSegments = 3
	}
	if minorSegments < 3 {
		minorSegments = 3
	}

	var positions, normals []mgl32.Vec3
	var indices []uint32

	for i := 0; i <= majorSegments; i++ {
		theta := float32(i) * 2 * math32.Pi / float32(majorSegments)
		sinTheta, cosTheta := math32.Sincos(theta)

		for j := 0; j <= minorSegments; j++ {
			phi := float32(j) * 2 * math32.Pi / float32(minorSegments)
			sinPhi, cosPhi := math32.Sincos(phi)

			positions = append(positions, mgl32.Vec3{
				(majorRadius + minorRadius*cosPhi) * cosTheta,
				minorRadius * sinPhi,
				(majorRadius + minorRadius*cosPhi) * sinTheta,
			})
			normals = append(normals, mgl32.Vec3{cosPhi * cosTheta, sinPhi, cosPhi * sinTheta}.Normalize())
		}
	}

	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			current := uint32(i*(minorSegments+1) + j)
			next := uint32((i+1)*(minorSegments+1) + j)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	m := CreateMeshFromData("Torus", positions, indices)
	m.Normals = normals
	return m
}

// CreatePlane generates a flat plane mesh
func CreatePlane(width, depth float32, subdivisions int) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var positions []mgl32.Vec3
	var indices []uint32

	halfW := width / 2
	halfD := depth / 2

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			positions = append(positions, mgl32.Vec3{-halfW + u*width, 0, -halfD + v*depth})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return CreateMeshFromData("Plane", positions, indices)
}

// builtinMeshes backs the "builtin:<name>" asset paths.
var builtinMeshes = map[string]func() *Mesh{
	"triangle": CreateTriangle,
	"quad":     CreateQuad,
	"cube":     func() *Mesh { return CreateCube(1.5) },
	"sphere":   func() *Mesh { return CreateSphere(1, 48, 32) },
	"torus":    func() *Mesh { return CreateTorus(1, 0.35, 64, 24) },
	"plane":    func() *Mesh { return CreatePlane(2, 2, 8) },
}
