package halfedge

// IsCollapseOK reports whether collapsing half-edge v0v1 (merging its
// from-vertex into its to-vertex) keeps the mesh manifold.
func (m *Mesh) IsCollapseOK(v0v1 Halfedge) bool {
	v1v0 := v0v1.Opposite()
	v0 := m.ToVertex(v1v0)
	v1 := m.ToVertex(v0v1)

	vl := Vertex(InvalidIndex)
	vr := Vertex(InvalidIndex)

	// The edges v1->vl and vl->v0 must not both be boundary edges.
	if !m.IsBoundaryHalfedge(v0v1) {
		h1 := m.Next(v0v1)
		h2 := m.Next(h1)
		vl = m.ToVertex(h1)
		if m.IsBoundaryHalfedge(h1.Opposite()) && m.IsBoundaryHalfedge(h2.Opposite()) {
			return false
		}
	}

	// The edges v0->vr and vr->v1 must not both be boundary edges.
	if !m.IsBoundaryHalfedge(v1v0) {
		h1 := m.Next(v1v0)
		h2 := m.Next(h1)
		vr = m.ToVertex(h1)
		if m.IsBoundaryHalfedge(h1.Opposite()) && m.IsBoundaryHalfedge(h2.Opposite()) {
			return false
		}
	}

	// vl == vr would pinch the mesh into a non-manifold configuration.
	// This also rejects a wire edge, where both sides are invalid.
	if vl == vr {
		return false
	}

	// An edge between two boundary vertices must itself be a boundary edge.
	if m.IsBoundaryVertex(v0) && m.IsBoundaryVertex(v1) &&
		!m.IsBoundaryHalfedge(v0v1) && !m.IsBoundaryHalfedge(v1v0) {
		return false
	}

	// The one-rings of v0 and v1 may only intersect in vl and vr.
	for _, vv := range m.VertexRing(v0) {
		if vv != v1 && vv != vl && vv != vr {
			if m.FindHalfedge(vv, v1).IsValid() {
				return false
			}
		}
	}

	return true
}

// Collapse merges the from-vertex of h into its to-vertex, removing the
// edge and its up to two incident faces. The caller must have verified
// IsCollapseOK; collapsing an illegal half-edge corrupts connectivity.
func (m *Mesh) Collapse(h Halfedge) {
	h0 := h
	h1 := m.Prev(h0)
	o0 := h0.Opposite()
	o1 := m.Next(o0)

	m.removeEdge(h0)

	// Remove the two-edge loops left behind by the deleted faces.
	if m.Next(m.Next(h1)) == h1 {
		m.removeLoop(h1)
	}
	if m.Next(m.Next(o1)) == o1 {
		m.removeLoop(o1)
	}
}

// removeEdge unlinks the edge of h and deletes its from-vertex.
func (m *Mesh) removeEdge(h Halfedge) {
	hn := m.Next(h)
	hp := m.Prev(h)
	o := h.Opposite()
	on := m.Next(o)
	op := m.Prev(o)
	fh := m.FaceOf(h)
	fo := m.FaceOf(o)
	vh := m.ToVertex(h)
	vo := m.ToVertex(o)

	// Re-point all incoming half-edges of vo to vh.
	for _, out := range m.OutgoingHalfedges(vo) {
		m.setToVertex(out.Opposite(), vh)
	}

	m.setNext(hp, hn)
	m.setNext(op, on)

	if fh.IsValid() {
		m.setFaceHalfedge(fh, hn)
	}
	if fo.IsValid() {
		m.setFaceHalfedge(fo, on)
	}

	if m.vconn[vh] == o {
		m.setVertexHalfedge(vh, hn)
	}
	m.adjustOutgoingHalfedge(vh)
	m.setVertexHalfedge(vo, InvalidIndex)

	m.vdeleted[vo] = true
	m.deletedVertices++
	m.edeleted[h.EdgeOf()] = true
	m.deletedEdges++
	m.hasGarbage = true
}

// removeLoop collapses a degenerate two-edge face loop into a single edge.
func (m *Mesh) removeLoop(h Halfedge) {
	h0 := h
	h1 := m.Next(h0)
	o0 := h0.Opposite()
	o1 := h1.Opposite()
	v0 := m.ToVertex(h0)
	v1 := m.ToVertex(h1)
	fh := m.FaceOf(h0)
	fo := m.FaceOf(o0)

	m.setNext(h1, m.Next(o0))
	m.setNext(m.Prev(o0), h1)

	m.setFace(h1, fo)

	m.setVertexHalfedge(v0, h1)
	m.adjustOutgoingHalfedge(v0)
	m.setVertexHalfedge(v1, o1)
	m.adjustOutgoingHalfedge(v1)

	if fo.IsValid() && m.fconn[fo] == o0 {
		m.setFaceHalfedge(fo, h1)
	}

	if fh.IsValid() {
		m.fdeleted[fh] = true
		m.deletedFaces++
	}
	m.edeleted[h0.EdgeOf()] = true
	m.deletedEdges++
	m.hasGarbage = true
}

// GarbageCollection compacts the element slices, dropping deleted vertices,
// edges and faces and remapping all connectivity. Handles held by the caller
// are invalidated.
func (m *Mesh) GarbageCollection() {
	if !m.hasGarbage {
		return
	}

	vmap := make([]Vertex, len(m.points))
	hmap := make([]Halfedge, len(m.hconn))
	fmap := make([]Face, len(m.fconn))

	points := m.points[:0]
	vconn := m.vconn[:0]
	vdeleted := m.vdeleted[:0]
	for v := range m.points {
		if m.vdeleted[v] {
			vmap[v] = InvalidIndex
			continue
		}
		vmap[v] = Vertex(len(points))
		points = append(points, m.points[v])
		vconn = append(vconn, m.vconn[v])
		vdeleted = append(vdeleted, false)
	}

	hconn := m.hconn[:0]
	edeleted := m.edeleted[:0]
	for e := 0; e < len(m.hconn)/2; e++ {
		if m.edeleted[e] {
			hmap[2*e] = InvalidIndex
			hmap[2*e+1] = InvalidIndex
			continue
		}
		hmap[2*e] = Halfedge(len(hconn))
		hmap[2*e+1] = Halfedge(len(hconn) + 1)
		hconn = append(hconn, m.hconn[2*e], m.hconn[2*e+1])
		edeleted = append(edeleted, false)
	}

	fconn := m.fconn[:0]
	fdeleted := m.fdeleted[:0]
	for f := range m.fconn {
		if m.fdeleted[f] {
			fmap[f] = InvalidIndex
			continue
		}
		fmap[f] = Face(len(fconn))
		fconn = append(fconn, m.fconn[f])
		fdeleted = append(fdeleted, false)
	}

	remapH := func(h Halfedge) Halfedge {
		if !h.IsValid() {
			return InvalidIndex
		}
		return hmap[h]
	}
	remapV := func(v Vertex) Vertex {
		if !v.IsValid() {
			return InvalidIndex
		}
		return vmap[v]
	}
	remapF := func(f Face) Face {
		if !f.IsValid() {
			return InvalidIndex
		}
		return fmap[f]
	}

	for i := range vconn {
		vconn[i] = remapH(vconn[i])
	}
	for i := range hconn {
		hconn[i].vertex = remapV(hconn[i].vertex)
		hconn[i].face = remapF(hconn[i].face)
		hconn[i].next = remapH(hconn[i].next)
		hconn[i].prev = remapH(hconn[i].prev)
	}
	for i := range fconn {
		fconn[i] = remapH(fconn[i])
	}

	m.points = points
	m.vconn = vconn
	m.vdeleted = vdeleted
	m.hconn = hconn
	m.edeleted = edeleted
	m.fconn = fconn
	m.fdeleted = fdeleted
	m.deletedVertices = 0
	m.deletedEdges = 0
	m.deletedFaces = 0
	m.hasGarbage = false
}
