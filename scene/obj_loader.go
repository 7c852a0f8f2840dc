package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// LoadOBJ parses a Wavefront .obj file into a single Mesh. Every object and
// group is merged; materials and texture coordinates are ignored.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	m, err := ParseOBJ(baseName(path), f)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return m, nil
}

// ParseOBJ reads OBJ text from r. Polygons are fan-triangulated and
// negative (relative) indices are resolved against the vertices seen so far.
func ParseOBJ(name string, r io.Reader) (*Mesh, error) {
	var positions []mgl32.Vec3
	var indices []uint32

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var p mgl32.Vec3
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				p[i] = float32(v)
			}
			positions = append(positions, p)

		case "f":
			if len(fields) < 4 {
				continue
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := parseFaceVertex(tok, len(positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				face = append(face, idx)
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(face); i++ {
				indices = append(indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no faces found")
	}
	return CreateMeshFromData(name, positions, indices), nil
}

// parseFaceVertex resolves the position part of "v", "v/vt", "v//vn" or
// "v/vt/vn" to a 0-based index. OBJ is 1-based.
func parseFaceVertex(tok string, seen int) (uint32, error) {
	pos, _, _ := strings.Cut(tok, "/")
	n, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("face vertex %q: %w", tok, err)
	}
	switch {
	case n > 0 && n <= seen:
		return uint32(n - 1), nil
	case n < 0 && -n <= seen:
		return uint32(seen + n), nil
	}
	return 0, fmt.Errorf("face vertex %q out of range (%d vertices)", tok, seen)
}
