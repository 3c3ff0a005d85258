// Package export turns a frozen 3-D puzzle's stickers into triangle
// meshes for rendering hosts: one mesh per piece in a flat
// positions/normals/indices layout, plus an STL writer for the whole
// sticker surface.
package export

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/deadsy/sdfx/render"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hypercut/pkg/num"
	"github.com/chazu/hypercut/pkg/puzzle"
)

// ErrNot3D indicates an export of a puzzle whose ambient dimension is
// not 3; only 3-D puzzles have a direct triangle-mesh form.
var ErrNot3D = errors.New("export: puzzle is not 3-dimensional")

// Mesh is the flat-array mesh layout consumed by rendering frontends.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
	Piece    int
	Color    string
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// StickerMeshes produces one mesh per sticker-bearing piece,
// fan-triangulating each sticker polygon; pieces without stickers get no
// mesh. Each mesh takes the color-table entry of the piece's first
// sticker; the piece's other stickers are not colored separately.
func StickerMeshes(pz *puzzle.Puzzle) ([]*Mesh, error) {
	if pz.Ndim != 3 {
		return nil, ErrNot3D
	}
	var out []*Mesh
	for _, p := range pz.Pieces {
		if len(p.Stickers) == 0 {
			continue
		}
		mesh := &Mesh{Piece: p.ID, Color: pz.Colors[pz.Stickers[p.Stickers[0]].Color].Hex}
		for _, sid := range p.Stickers {
			tris, err := stickerTriangles(pz, pz.Stickers[sid])
			if err != nil {
				return nil, err
			}
			for _, tri := range tris {
				n := tri.Normal()
				for j := 0; j < 3; j++ {
					idx := uint32(mesh.VertexCount())
					mesh.Vertices = append(mesh.Vertices,
						float32(tri[j].X), float32(tri[j].Y), float32(tri[j].Z))
					mesh.Normals = append(mesh.Normals,
						float32(n.X), float32(n.Y), float32(n.Z))
					mesh.Indices = append(mesh.Indices, idx)
				}
			}
		}
		out = append(out, mesh)
	}
	return out, nil
}

// Triangles returns the whole sticker surface as one triangle soup.
func Triangles(pz *puzzle.Puzzle) ([]render.Triangle3, error) {
	if pz.Ndim != 3 {
		return nil, ErrNot3D
	}
	var out []render.Triangle3
	for _, st := range pz.Stickers {
		tris, err := stickerTriangles(pz, st)
		if err != nil {
			return nil, err
		}
		out = append(out, tris...)
	}
	return out, nil
}

// stickerTriangles fans one convex sticker polygon, winding the
// triangles so their normals match the facet's outward normal.
func stickerTriangles(pz *puzzle.Puzzle, st puzzle.Sticker) ([]render.Triangle3, error) {
	cx := pz.Complex()
	cycle := cx.PolygonCycle(st.Face)
	if len(cycle) < 3 {
		return nil, errors.New("export: degenerate sticker polygon")
	}
	pts := make([]num.Vector, len(cycle))
	for i, v := range cycle {
		pts[i] = cx.Face(v).Point
	}
	outward := cx.Face(st.Face).Plane.Normal
	// Flip the walk if it winds against the outward normal.
	e1 := pts[1].Sub(pts[0])
	e2 := pts[2].Sub(pts[0])
	if e1.Cross(e2).Dot(outward) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	var out []render.Triangle3
	for i := 1; i < len(pts)-1; i++ {
		out = append(out, render.Triangle3{
			toV3(pts[0]), toV3(pts[i]), toV3(pts[i+1]),
		})
	}
	return out, nil
}

func toV3(v num.Vector) v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// WriteSTL writes the triangles as binary STL.
func WriteSTL(w io.Writer, tris []render.Triangle3) error {
	var header [80]byte
	copy(header[:], "hypercut sticker export")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(tris))); err != nil {
		return err
	}
	for _, tri := range tris {
		n := tri.Normal()
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
			n = v3.Vec{}
		}
		data := [12]float32{
			float32(n.X), float32(n.Y), float32(n.Z),
			float32(tri[0].X), float32(tri[0].Y), float32(tri[0].Z),
			float32(tri[1].X), float32(tri[1].Y), float32(tri[1].Z),
			float32(tri[2].X), float32(tri[2].Y), float32(tri[2].Z),
		}
		if err := binary.Write(w, binary.LittleEndian, data); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return nil
}
