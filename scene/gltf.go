package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"render-sandbox/internal/logging"
)

// ErrNoGeometry is returned when a model has no triangle primitive with
// positions.
var ErrNoGeometry = errors.New("model has no triangle geometry")

// LoadModel reads a model file into a single Mesh. Wavefront .obj files are
// parsed directly; anything else is read as glTF.
func LoadModel(path string) (*Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return loadOBJ(path)
	}
	return loadGLTF(path)
}

// loadGLTF reads a .gltf or .glb file and merges the triangle geometry of
// every mesh. Node transforms are not applied. Vertices without a normal get
// +Y, and primitives without indices are drawn in vertex order.
func loadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	out := &Mesh{Name: filepath.Base(path)}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logging.Logger().Warn("skipping non-triangle primitive", "path", path, "mesh", mi, "primitive", pi)
				continue
			}
			if err := appendPrimitive(out, doc, prim); err != nil {
				logging.Logger().Warn("skipping primitive", "path", path, "mesh", mi, "primitive", pi, "err", err)
			}
		}
	}
	if len(out.Indices) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}
	logging.Logger().Debug("model loaded", "path", path,
		"vertices", len(out.Vertices), "triangles", len(out.Indices)/3)
	return out, nil
}

func appendPrimitive(m *Mesh, doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
		}
	}

	base := uint32(len(m.Vertices))
	for i, p := range positions {
		v := Vertex{
			Position: mgl32.Vec3(p),
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2(uvs[i])
		}
		m.Vertices = append(m.Vertices, v)
	}
	for _, idx := range indices {
		m.Indices = append(m.Indices, base+idx)
	}
	return nil
}
