package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// objRef is one face corner: 0-based position, UV and normal indices, -1
// when absent.
type objRef struct{ v, vt, vn int }

// loadOBJ parses a Wavefront .obj file into a single Mesh. Polygons are fan
// triangulated and corners sharing the same references are deduplicated.
// Materials are ignored. Without vn records, normals are computed from the
// faces.
func loadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	var positions, normals []mgl32.Vec3
	var uvs []mgl32.Vec2
	var corners []objRef

	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v", "vn":
			vec, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			if fields[0] == "v" {
				positions = append(positions, mgl32.Vec3{vec[0], vec[1], vec[2]})
			} else {
				normals = append(normals, mgl32.Vec3{vec[0], vec[1], vec[2]})
			}
		case "vt":
			vec, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			uvs = append(uvs, mgl32.Vec2{vec[0], vec[1]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 vertices", path, lineNo)
			}
			refs := make([]objRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				r, err := parseObjRef(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				refs = append(refs, r)
			}
			for i := 1; i+1 < len(refs); i++ {
				corners = append(corners, refs[0], refs[i], refs[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(corners) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	m := &Mesh{Name: filepath.Base(path)}
	seen := make(map[objRef]uint32)
	for _, r := range corners {
		if idx, ok := seen[r]; ok {
			m.Indices = append(m.Indices, idx)
			continue
		}
		v := Vertex{Position: positions[r.v], Normal: mgl32.Vec3{0, 1, 0}}
		if r.vt >= 0 {
			v.UV = uvs[r.vt]
		}
		if r.vn >= 0 {
			v.Normal = normals[r.vn]
		}
		idx := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, v)
		seen[r] = idx
		m.Indices = append(m.Indices, idx)
	}
	if len(normals) == 0 {
		ComputeNormals(m)
	}
	return m, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseObjRef parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices are
// 1-based; negative ones count back from the last element read so far.
func parseObjRef(tok string, nv, nvt, nvn int) (objRef, error) {
	parts := strings.Split(tok, "/")
	r := objRef{v: -1, vt: -1, vn: -1}
	resolve := func(s string, n int, dst *int, required bool) error {
		if s == "" {
			if required {
				return fmt.Errorf("face vertex %q has no position", tok)
			}
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("face vertex %q: %w", tok, err)
		}
		switch {
		case i > 0:
			i--
		case i < 0:
			i += n
		default:
			return fmt.Errorf("face vertex %q: index 0", tok)
		}
		if i < 0 || i >= n {
			return fmt.Errorf("face vertex %q out of range", tok)
		}
		*dst = i
		return nil
	}
	if err := resolve(parts[0], nv, &r.v, true); err != nil {
		return r, err
	}
	if len(parts) > 1 {
		if err := resolve(parts[1], nvt, &r.vt, false); err != nil {
			return r, err
		}
	}
	if len(parts) > 2 {
		if err := resolve(parts[2], nvn, &r.vn, false); err != nil {
			return r, err
		}
	}
	return r, nil
}

// ComputeNormals replaces vertex normals with the area-weighted average of
// the adjacent face normals.
func ComputeNormals(m *Mesh) {
	accum := make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Vertices[i0].Position
		n := m.Vertices[i1].Position.Sub(p0).Cross(m.Vertices[i2].Position.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i, n := range accum {
		if n.Len() > 0 {
			m.Vertices[i].Normal = n.Normalize()
		}
	}
}
