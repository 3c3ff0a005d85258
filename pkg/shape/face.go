package shape

import (
	"sort"

	"github.com/chazu/hypercut/pkg/cga"
	"github.com/chazu/hypercut/pkg/num"
)

// FaceID indexes a face in the complex's arena. Faces are allocated once
// and identified by index; cells hold child id lists, and parent
// relations are reconstructed on demand by grade.
type FaceID int

// NoFace marks an absent face reference.
const NoFace FaceID = -1

// NoFacet marks a face that does not lie on a carved facet.
const NoFacet = -1

// Face is one element of the graded lattice. A vertex (grade 0) carries
// its point; a ridge-level face (grade N-1) carries its supporting
// hyperplane, oriented outward for the cell it was created bounding, and
// the id of the carved facet it lies on, if any.
type Face struct {
	Grade    int
	Children []FaceID // grade-1 boundary faces, sorted; nil for vertices
	Verts    []FaceID // vertex closure, sorted; {self} for vertices
	Point    num.Vector
	Plane    cga.Hyperplane
	HasPlane bool
	FacetID  int
}

// arena owns every face of a complex.
type arena struct {
	faces []Face
}

func (a *arena) face(id FaceID) *Face { return &a.faces[id] }

func (a *arena) addVertex(p num.Vector) FaceID {
	id := FaceID(len(a.faces))
	a.faces = append(a.faces, Face{
		Grade:   0,
		Point:   p,
		Verts:   []FaceID{id},
		FacetID: NoFacet,
	})
	return id
}

// addFace allocates a face of the given grade with the given children,
// computing the vertex closure from them.
func (a *arena) addFace(grade int, children []FaceID) FaceID {
	id := FaceID(len(a.faces))
	sorted := append([]FaceID(nil), children...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	a.faces = append(a.faces, Face{
		Grade:    grade,
		Children: sorted,
		Verts:    a.vertexClosure(sorted),
		FacetID:  NoFacet,
	})
	return id
}

func (a *arena) vertexClosure(children []FaceID) []FaceID {
	set := map[FaceID]struct{}{}
	for _, c := range children {
		for _, v := range a.faces[c].Verts {
			set[v] = struct{}{}
		}
	}
	out := make([]FaceID, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// points returns the coordinates of a vertex id list.
func (a *arena) points(verts []FaceID) []num.Vector {
	out := make([]num.Vector, len(verts))
	for i, v := range verts {
		out[i] = a.faces[v].Point
	}
	return out
}

// clone deep-copies the arena for staged operations.
func (a *arena) clone() *arena {
	out := &arena{faces: make([]Face, len(a.faces))}
	for i, f := range a.faces {
		g := f
		g.Children = append([]FaceID(nil), f.Children...)
		g.Verts = append([]FaceID(nil), f.Verts...)
		if f.Point != nil {
			g.Point = f.Point.Clone()
		}
		out.faces[i] = g
	}
	return out
}
