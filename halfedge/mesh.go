// Package halfedge implements an indexed half-edge data structure for
// triangle meshes. Vertices, edges and faces are referenced by index into
// internal slices; deleted elements are flagged and reclaimed by
// GarbageCollection.
package halfedge

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is an index-based vertex handle.
type Vertex int

// Halfedge is an index-based half-edge handle. The two half-edges of edge e
// are 2*e and 2*e+1, so the opposite half-edge is h^1.
type Halfedge int

// Edge is an index-based edge handle.
type Edge int

// Face is an index-based face handle.
type Face int

// InvalidIndex marks an unset handle of any element type.
const InvalidIndex = -1

// IsValid reports whether the handle refers to an element.
func (v Vertex) IsValid() bool { return v >= 0 }

// IsValid reports whether the handle refers to an element.
func (h Halfedge) IsValid() bool { return h >= 0 }

// IsValid reports whether the handle refers to an element.
func (e Edge) IsValid() bool { return e >= 0 }

// IsValid reports whether the handle refers to an element.
func (f Face) IsValid() bool { return f >= 0 }

// EdgeOf returns the edge the half-edge belongs to.
func (h Halfedge) EdgeOf() Edge {
	if !h.IsValid() {
		return InvalidIndex
	}
	return Edge(h >> 1)
}

type halfedgeConn struct {
	face   Face   // incident face, invalid if boundary
	vertex Vertex // vertex the half-edge points to
	next   Halfedge
	prev   Halfedge
}

// Mesh is a triangle mesh with full half-edge connectivity.
type Mesh struct {
	points []mgl64.Vec3

	vconn []Halfedge     // outgoing half-edge per vertex (boundary one if any)
	hconn []halfedgeConn // two per edge
	fconn []Halfedge     // one half-edge of each face

	vdeleted []bool
	edeleted []bool
	fdeleted []bool

	deletedVertices int
	deletedEdges    int
	deletedFaces    int
	hasGarbage      bool
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// VertexCount returns the number of live vertices.
func (m *Mesh) VertexCount() int { return len(m.points) - m.deletedVertices }

// EdgeCount returns the number of live edges.
func (m *Mesh) EdgeCount() int { return len(m.hconn)/2 - m.deletedEdges }

// FaceCount returns the number of live faces.
func (m *Mesh) FaceCount() int { return len(m.fconn) - m.deletedFaces }

// VerticesSize returns the vertex slice capacity including deleted entries.
// Side tables indexed by Vertex must be sized by this, not by VertexCount.
func (m *Mesh) VerticesSize() int { return len(m.points) }

// EdgesSize returns the edge slice capacity including deleted entries.
func (m *Mesh) EdgesSize() int { return len(m.hconn) / 2 }

// FacesSize returns the face slice capacity including deleted entries.
func (m *Mesh) FacesSize() int { return len(m.fconn) }

// Position returns the position of v.
func (m *Mesh) Position(v Vertex) mgl64.Vec3 { return m.points[v] }

// SetPosition moves v to p.
func (m *Mesh) SetPosition(v Vertex, p mgl64.Vec3) { m.points[v] = p }

// AddVertex appends a new isolated vertex at p.
func (m *Mesh) AddVertex(p mgl64.Vec3) Vertex {
	m.points = append(m.points, p)
	m.vconn = append(m.vconn, InvalidIndex)
	m.vdeleted = append(m.vdeleted, false)
	return Vertex(len(m.points) - 1)
}

// HalfedgeOf returns an outgoing half-edge of v, invalid if v is isolated.
func (m *Mesh) HalfedgeOf(v Vertex) Halfedge { return m.vconn[v] }

// FaceHalfedge returns a half-edge of face f.
func (m *Mesh) FaceHalfedge(f Face) Halfedge { return m.fconn[f] }

// ToVertex returns the vertex h points to.
func (m *Mesh) ToVertex(h Halfedge) Vertex { return m.hconn[h].vertex }

// FromVertex returns the vertex h starts from.
func (m *Mesh) FromVertex(h Halfedge) Vertex { return m.hconn[h.Opposite()].vertex }

// FaceOf returns the face incident to h, invalid if h is a boundary half-edge.
func (m *Mesh) FaceOf(h Halfedge) Face { return m.hconn[h].face }

// Next returns the next half-edge within the incident face (or boundary loop).
func (m *Mesh) Next(h Halfedge) Halfedge { return m.hconn[h].next }

// Prev returns the previous half-edge within the incident face.
func (m *Mesh) Prev(h Halfedge) Halfedge { return m.hconn[h].prev }

// Opposite returns the oppositely directed half-edge.
func (h Halfedge) Opposite() Halfedge { return h ^ 1 }

// Opposite returns the oppositely directed half-edge of h.
func (m *Mesh) Opposite(h Halfedge) Halfedge { return h.Opposite() }

// CCWRotated returns the next outgoing half-edge of FromVertex(h),
// rotating counter-clockwise.
func (m *Mesh) CCWRotated(h Halfedge) Halfedge { return m.Prev(h).Opposite() }

// CWRotated returns the next outgoing half-edge of FromVertex(h),
// rotating clockwise.
func (m *Mesh) CWRotated(h Halfedge) Halfedge { return m.Next(h.Opposite()) }

// EdgeHalfedge returns half-edge i (0 or 1) of edge e.
func (m *Mesh) EdgeHalfedge(e Edge, i int) Halfedge { return Halfedge(int(e)*2 + i) }

// IsDeletedVertex reports whether v has been deleted.
func (m *Mesh) IsDeletedVertex(v Vertex) bool { return m.vdeleted[v] }

// IsDeletedEdge reports whether e has been deleted.
func (m *Mesh) IsDeletedEdge(e Edge) bool { return m.edeleted[e] }

// IsDeletedFace reports whether f has been deleted.
func (m *Mesh) IsDeletedFace(f Face) bool { return m.fdeleted[f] }

// IsIsolated reports whether v has no incident edges.
func (m *Mesh) IsIsolated(v Vertex) bool { return !m.vconn[v].IsValid() }

// IsBoundaryVertex reports whether v lies on a boundary. Relies on the
// invariant that the stored outgoing half-edge of a boundary vertex is a
// boundary half-edge.
func (m *Mesh) IsBoundaryVertex(v Vertex) bool {
	h := m.vconn[v]
	return !h.IsValid() || !m.hconn[h].face.IsValid()
}

// IsBoundaryHalfedge reports whether h has no incident face.
func (m *Mesh) IsBoundaryHalfedge(h Halfedge) bool { return !m.hconn[h].face.IsValid() }

// IsBoundaryEdge reports whether either half-edge of e is on the boundary.
func (m *Mesh) IsBoundaryEdge(e Edge) bool {
	return m.IsBoundaryHalfedge(m.EdgeHalfedge(e, 0)) || m.IsBoundaryHalfedge(m.EdgeHalfedge(e, 1))
}

// Valence returns the number of one-ring neighbors of v.
func (m *Mesh) Valence(v Vertex) int {
	n := 0
	start := m.vconn[v]
	if !start.IsValid() {
		return 0
	}
	h := start
	for {
		n++
		h = m.CCWRotated(h)
		if h == start {
			break
		}
	}
	return n
}

// FaceValence returns the number of vertices of f.
func (m *Mesh) FaceValence(f Face) int {
	n := 0
	start := m.fconn[f]
	h := start
	for {
		n++
		h = m.Next(h)
		if h == start {
			break
		}
	}
	return n
}

// IsTriangleMesh reports whether every live face is a triangle.
func (m *Mesh) IsTriangleMesh() bool {
	for f := range m.fconn {
		if m.fdeleted[f] {
			continue
		}
		if m.FaceValence(Face(f)) != 3 {
			return false
		}
	}
	return true
}

// OutgoingHalfedges returns all outgoing half-edges of v in CCW order.
func (m *Mesh) OutgoingHalfedges(v Vertex) []Halfedge {
	start := m.vconn[v]
	if !start.IsValid() {
		return nil
	}
	var hs []Halfedge
	h := start
	for {
		hs = append(hs, h)
		h = m.CCWRotated(h)
		if h == start {
			break
		}
	}
	return hs
}

// VertexRing returns the one-ring neighbors of v in CCW order.
func (m *Mesh) VertexRing(v Vertex) []Vertex {
	hs := m.OutgoingHalfedges(v)
	ring := make([]Vertex, len(hs))
	for i, h := range hs {
		ring[i] = m.ToVertex(h)
	}
	return ring
}

// FaceFan returns the faces incident to v (boundary gaps skipped).
func (m *Mesh) FaceFan(v Vertex) []Face {
	var fan []Face
	for _, h := range m.OutgoingHalfedges(v) {
		if f := m.FaceOf(h); f.IsValid() {
			fan = append(fan, f)
		}
	}
	return fan
}

// FaceVertices returns the vertices of f in CCW order.
func (m *Mesh) FaceVertices(f Face) []Vertex {
	var vs []Vertex
	start := m.fconn[f]
	h := start
	for {
		vs = append(vs, m.ToVertex(h))
		h = m.Next(h)
		if h == start {
			break
		}
	}
	return vs
}

// FindHalfedge returns the half-edge from v0 to v1, invalid if the two
// vertices are not connected.
func (m *Mesh) FindHalfedge(v0, v1 Vertex) Halfedge {
	start := m.vconn[v0]
	if !start.IsValid() {
		return InvalidIndex
	}
	h := start
	for {
		if m.ToVertex(h) == v1 {
			return h
		}
		h = m.CCWRotated(h)
		if h == start {
			break
		}
	}
	return InvalidIndex
}

func (m *Mesh) setVertexHalfedge(v Vertex, h Halfedge) { m.vconn[v] = h }

func (m *Mesh) setFaceHalfedge(f Face, h Halfedge) { m.fconn[f] = h }

func (m *Mesh) setToVertex(h Halfedge, v Vertex) { m.hconn[h].vertex = v }

func (m *Mesh) setFace(h Halfedge, f Face) { m.hconn[h].face = f }

// setNext links h -> n and keeps the prev pointer consistent.
func (m *Mesh) setNext(h, n Halfedge) {
	m.hconn[h].next = n
	m.hconn[n].prev = h
}

// adjustOutgoingHalfedge restores the invariant that a boundary vertex
// stores an outgoing boundary half-edge.
func (m *Mesh) adjustOutgoingHalfedge(v Vertex) {
	start := m.vconn[v]
	if !start.IsValid() {
		return
	}
	h := start
	for {
		if m.IsBoundaryHalfedge(h) {
			m.vconn[v] = h
			return
		}
		h = m.CCWRotated(h)
		if h == start {
			return
		}
	}
}

// newEdge allocates the half-edge pair v0->v1 / v1->v0 and returns v0->v1.
func (m *Mesh) newEdge(v0, v1 Vertex) Halfedge {
	h := Halfedge(len(m.hconn))
	m.hconn = append(m.hconn,
		halfedgeConn{face: InvalidIndex, vertex: v1, next: InvalidIndex, prev: InvalidIndex},
		halfedgeConn{face: InvalidIndex, vertex: v0, next: InvalidIndex, prev: InvalidIndex},
	)
	m.edeleted = append(m.edeleted, false)
	return h
}

func (m *Mesh) newFace() Face {
	m.fconn = append(m.fconn, InvalidIndex)
	m.fdeleted = append(m.fdeleted, false)
	return Face(len(m.fconn) - 1)
}
