package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	dracoExtensionName   = "KHR_draco_mesh_compression"
	meshoptExtensionName = "EXT_meshopt_compression"
)

// dracoExtension is the KHR_draco_mesh_compression payload of a primitive.
// Attributes maps glTF attribute names to Draco attribute unique ids.
type dracoExtension struct {
	BufferView int               `json:"bufferView"`
	Attributes map[string]uint32 `json:"attributes"`
}

func init() {
	gltf.RegisterExtension(dracoExtensionName, func(data []byte) (any, error) {
		ext := new(dracoExtension)
		err := json.Unmarshal(data, ext)
		return ext, err
	})
}

// unsupportedCompression reports whether ext stores geometry this build
// cannot decode.
func unsupportedCompression(ext string) bool {
	switch ext {
	case meshoptExtensionName:
		return true
	case dracoExtensionName:
		return !dracoAvailable
	}
	return false
}

// loadDracoPrimitive decodes a Draco compressed primitive. When cacheDir is
// set, decoded geometry is kept there as a plain .glb named after the
// compressed bytes, and later loads of the same data skip the decoder.
func loadDracoPrimitive(doc *gltf.Document, name string, ext *dracoExtension, cacheDir string) (*Mesh, error) {
	if ext.BufferView < 0 || ext.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("draco buffer view %d out of range", ext.BufferView)
	}
	data, err := modeler.ReadBufferView(doc, doc.BufferViews[ext.BufferView])
	if err != nil {
		return nil, fmt.Errorf("draco buffer view: %w", err)
	}

	cache := dracoCache(cacheDir)
	if m, ok := cache.load(data, name); ok {
		return m, nil
	}
	m, err := decodeDraco(name, data, ext.Attributes)
	if err != nil {
		return nil, err
	}
	// A failed store only costs a decode on the next load.
	_ = cache.store(data, m)
	return m, nil
}

// dracoCache is a directory of decoded Draco meshes. The zero value
// disables caching.
type dracoCache string

func (c dracoCache) path(data []byte) string {
	return filepath.Join(string(c), uuid.NewSHA1(uuid.NameSpaceOID, data).String()+".glb")
}

func (c dracoCache) load(data []byte, name string) (*Mesh, bool) {
	if c == "" {
		return nil, false
	}
	doc, err := gltf.Open(c.path(data))
	if err != nil || len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, false
	}
	m, err := loadGLTFPrimitive(doc, "", 0, doc.Meshes[0].Primitives[0])
	if err != nil {
		return nil, false
	}
	m.Name = name
	return m, true
}

func (c dracoCache) store(data []byte, m *Mesh) error {
	if c == "" {
		return nil
	}
	if err := os.MkdirAll(string(c), 0o755); err != nil {
		return err
	}

	doc := gltf.NewDocument()
	positions := make([][3]float32, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = p
	}
	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: modeler.WritePosition(doc, positions)},
	}
	if len(m.Indices) > 0 {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, m.Indices))
	}
	if len(m.Normals) == len(m.Positions) {
		normals := make([][3]float32, len(m.Normals))
		for i, n := range m.Normals {
			normals[i] = n
		}
		prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}
	doc.Meshes = []*gltf.Mesh{{Name: m.Name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}

	// Concurrent loads of the same asset race on the final name, so each
	// writes its own file first.
	final := c.path(data)
	tmp := filepath.Join(string(c), uuid.NewString()+".tmp")
	if err := gltf.SaveBinary(doc, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, final)
}
