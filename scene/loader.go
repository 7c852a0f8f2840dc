package scene

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for asset paths no loader recognises.
var ErrUnsupportedFormat = errors.New("unsupported asset format")

// BuiltinPrefix selects a procedural mesh instead of a file, e.g. "builtin:torus".
const BuiltinPrefix = "builtin:"

// AssetLoader decodes mesh files by extension.
type AssetLoader struct {
	// DecoderPath is the directory decoded Draco geometry is cached in.
	// Empty disables the cache.
	DecoderPath string
}

// Load reads the asset at path. Decoding is not interruptible; ctx is
// checked before and after.
func (l AssetLoader) Load(ctx context.Context, path string) (*Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := l.load(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (l AssetLoader) load(path string) (*Mesh, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		create, ok := builtinMeshes[name]
		if !ok {
			return nil, fmt.Errorf("builtin mesh %q: %w", name, ErrUnsupportedFormat)
		}
		return create(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return LoadGLTF(path, l.DecoderPath)
	case ".obj":
		return LoadOBJ(path)
	}
	return nil, fmt.Errorf("asset %q: %w", path, ErrUnsupportedFormat)
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
