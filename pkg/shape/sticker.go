package shape

// Sticker is an (N-1)-face of a piece lying on a carved facet. Color
// assignment is by facet id.
type Sticker struct {
	Piece   FaceID
	Face    FaceID
	FacetID int
}

// Stickers enumerates, for every piece in stable order, the
// (N-1)-faces whose supporting hyperplane is a carved facet. Cut faces
// introduced by Slice carry no facet id and are never stickers.
func (c *Complex) Stickers() []Sticker {
	var out []Sticker
	for _, cell := range c.cells {
		out = append(out, c.PieceStickers(cell)...)
	}
	return out
}

// PieceStickers returns the stickers of a single piece.
func (c *Complex) PieceStickers(cell FaceID) []Sticker {
	var out []Sticker
	for _, child := range c.ar.face(cell).Children {
		f := c.ar.face(child)
		if f.FacetID != NoFacet {
			out = append(out, Sticker{Piece: cell, Face: child, FacetID: f.FacetID})
		}
	}
	return out
}

// PolygonCycle returns the vertices of a grade-2 face in boundary-walk
// order, starting from its lowest vertex id. It returns nil when the
// face is not a polygon.
func (c *Complex) PolygonCycle(face FaceID) []FaceID {
	f := c.ar.face(face)
	if f.Grade != 2 {
		return nil
	}
	// Adjacency from the edge children.
	adj := map[FaceID][]FaceID{}
	for _, e := range f.Children {
		vs := c.ar.face(e).Verts
		if len(vs) != 2 {
			return nil
		}
		adj[vs[0]] = append(adj[vs[0]], vs[1])
		adj[vs[1]] = append(adj[vs[1]], vs[0])
	}
	start := f.Verts[0]
	cycle := []FaceID{start}
	prev, cur := NoFace, start
	for len(cycle) <= len(f.Verts) {
		next := NoFace
		for _, n := range adj[cur] {
			if n != prev {
				next = n
				break
			}
		}
		if next == NoFace || next == start {
			break
		}
		cycle = append(cycle, next)
		prev, cur = cur, next
	}
	return cycle
}
