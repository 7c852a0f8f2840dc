//go:build !cgo || !amd64 || !(linux || darwin || windows)

package scene

// The Draco bindings ship prebuilt libraries for amd64 only and need cgo.
const dracoAvailable = false

func decodeDraco(string, []byte, map[string]uint32) (*Mesh, error) {
	return nil, ErrCompressedGeometry
}
