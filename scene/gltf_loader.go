package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrCompressedGeometry is returned for glTF files whose primitives are stored
// with a compression extension this build cannot decode.
var ErrCompressedGeometry = errors.New("compressed geometry not supported")

// LoadGLTF opens a .glb or .gltf file and flattens every triangle primitive
// reachable from the default scene into one world-space Mesh. Draco
// compressed primitives are decoded, with decoded geometry cached under
// decoderPath when it is set.
func LoadGLTF(path, decoderPath string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	for _, ext := range doc.ExtensionsRequired {
		if unsupportedCompression(ext) {
			return nil, fmt.Errorf("gltf %q requires %s: %w", path, ext, ErrCompressedGeometry)
		}
	}

	// meshes[i] is the merged primitive set of doc.Meshes[i] in mesh space.
	meshes := make([]*Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		var prims []*Mesh
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			for ext := range prim.Extensions {
				if unsupportedCompression(ext) {
					return nil, fmt.Errorf("gltf %q mesh %d uses %s: %w", path, mi, ext, ErrCompressedGeometry)
				}
			}
			var m *Mesh
			if ext, ok := prim.Extensions[dracoExtensionName].(*dracoExtension); ok {
				m, err = loadDracoPrimitive(doc, primitiveName(gm.Name, pi), ext, decoderPath)
			} else {
				m, err = loadGLTFPrimitive(doc, gm.Name, pi, prim)
			}
			if err != nil {
				return nil, fmt.Errorf("gltf %q mesh %d prim %d: %w", path, mi, pi, err)
			}
			prims = append(prims, m)
		}
		if len(prims) > 0 {
			meshes[mi] = Merge(gm.Name, prims...)
		}
	}

	var parts []*Mesh
	var visit func(idx int, parent mgl32.Mat4)
	visit = func(idx int, parent mgl32.Mat4) {
		if idx < 0 || idx >= len(doc.Nodes) {
			return
		}
		gn := doc.Nodes[idx]
		world := parent.Mul4(nodeMatrix(gn))
		if gn.Mesh != nil && *gn.Mesh < len(meshes) && meshes[*gn.Mesh] != nil {
			parts = append(parts, meshes[*gn.Mesh].Transformed(world))
		}
		for _, child := range gn.Children {
			visit(child, world)
		}
	}
	for _, root := range gltfRoots(doc) {
		visit(root, mgl32.Ident4())
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("no triangle geometry found in %q", path)
	}
	return Merge(baseName(path), parts...), nil
}

// gltfRoots returns the root node indices of the default scene, or every
// parentless node when the document declares no scene.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeMatrix returns the local transform of a glTF node, preferring an
// explicit matrix over TRS.
func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	m := gn.MatrixOrDefault()
	var mat mgl32.Mat4
	for i := range m {
		mat[i] = float32(m[i])
	}
	if mat != mgl32.Ident4() {
		return mat
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	rot := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func primitiveName(meshName string, primIdx int) string {
	if meshName == "" {
		return fmt.Sprintf("prim_%d", primIdx)
	}
	return fmt.Sprintf("%s_p%d", meshName, primIdx)
}

// loadGLTFPrimitive converts one glTF mesh primitive into a Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := primitiveName(meshName, primIdx)

	// Positions are required
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = mgl32.Vec3(p)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	m := CreateMeshFromData(name, positions, indices)
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil); err == nil && len(normals) == len(positions) {
			m.Normals = make([]mgl32.Vec3, len(normals))
			for i, n := range normals {
				m.Normals[i] = mgl32.Vec3(n)
			}
		}
	}
	return m, nil
}
