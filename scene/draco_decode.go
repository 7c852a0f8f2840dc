//go:build cgo && amd64 && (linux || darwin || windows)

package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/draco-go/draco"
	"github.com/qmuntal/gltf"
)

// dracoAvailable is false on builds without the native Draco library.
const dracoAvailable = true

// decodeDraco decodes a Draco triangle mesh. attrs maps glTF attribute
// names to Draco unique ids; POSITION is required, NORMAL is optional.
func decodeDraco(name string, data []byte, attrs map[string]uint32) (*Mesh, error) {
	if len(data) == 0 {
		return nil, errors.New("draco: empty buffer")
	}
	if draco.GetEncodedGeometryType(data) != draco.EGT_TRIANGULAR_MESH {
		return nil, errors.New("draco: buffer is not a triangle mesh")
	}
	dm := draco.NewMesh()
	if err := draco.NewDecoder().DecodeMesh(dm, data); err != nil {
		return nil, fmt.Errorf("draco decode: %w", err)
	}

	id, ok := attrs[gltf.POSITION]
	if !ok {
		return nil, errors.New("draco: no POSITION attribute")
	}
	positions, err := dracoVec3(dm, id)
	if err != nil {
		return nil, fmt.Errorf("draco positions: %w", err)
	}

	faces := dm.NumFaces()
	if faces == 0 {
		return nil, errors.New("draco: mesh has no faces")
	}
	// Faces fills three indices per face into the buffer it is given.
	indices := make([]uint32, faces*3)
	dm.Faces(indices)
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("draco: index %d out of range", i)
		}
	}

	m := CreateMeshFromData(name, positions, indices)
	if id, ok := attrs[gltf.NORMAL]; ok {
		if normals, err := dracoVec3(dm, id); err == nil {
			m.Normals = normals
		}
	}
	return m, nil
}

func dracoVec3(dm *draco.Mesh, id uint32) ([]mgl32.Vec3, error) {
	attr := dm.AttrByUniqueID(id)
	if attr == nil {
		return nil, fmt.Errorf("attribute %d not found", id)
	}
	if n := attr.NumComponents(); n != 3 {
		return nil, fmt.Errorf("attribute %d has %d components, want 3", id, n)
	}
	n := int(dm.NumPoints())
	raw, ok := dm.AttrData(attr, make([]float32, n*3))
	if !ok {
		return nil, fmt.Errorf("attribute %d: read failed", id)
	}
	flat := raw.([]float32)
	out := make([]mgl32.Vec3, n)
	for i := range out {
		out[i] = mgl32.Vec3{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return out, nil
}
