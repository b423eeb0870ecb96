package halfedge

import "github.com/go-gl/mathgl/mgl64"

type nextLink struct {
	a, b Halfedge
}

// AddTriangle adds a triangular face over the three vertices.
func (m *Mesh) AddTriangle(v0, v1, v2 Vertex) Face {
	return m.AddFace([]Vertex{v0, v1, v2})
}

// AddFace inserts a face over the given vertex loop. It returns an invalid
// face when the insertion would create non-manifold connectivity (a complex
// vertex or a complex edge) or when the boundary patches around an existing
// vertex cannot be re-linked.
func (m *Mesh) AddFace(vertices []Vertex) Face {
	n := len(vertices)
	if n < 3 {
		return InvalidIndex
	}

	halfedges := make([]Halfedge, n)
	isNew := make([]bool, n)
	needsAdjust := make([]bool, n)
	var links []nextLink

	// Find existing half-edges and reject topological errors.
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		if !m.IsBoundaryVertex(vertices[i]) {
			// complex vertex
			return InvalidIndex
		}
		halfedges[i] = m.FindHalfedge(vertices[i], vertices[ii])
		isNew[i] = !halfedges[i].IsValid()
		if !isNew[i] && !m.IsBoundaryHalfedge(halfedges[i]) {
			// complex edge
			return InvalidIndex
		}
	}

	// Re-link boundary patches where two consecutive half-edges already
	// exist but are not yet connected.
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		if isNew[i] || isNew[ii] {
			continue
		}
		innerPrev := halfedges[i]
		innerNext := halfedges[ii]
		if m.Next(innerPrev) == innerNext {
			continue
		}

		// Search a free boundary gap that can take the patch between
		// innerPrev and innerNext.
		outerPrev := innerNext.Opposite()
		boundaryPrev := outerPrev
		for {
			boundaryPrev = m.Next(boundaryPrev).Opposite()
			if m.IsBoundaryHalfedge(boundaryPrev) && boundaryPrev != innerPrev {
				break
			}
		}
		boundaryNext := m.Next(boundaryPrev)
		if boundaryNext == innerNext {
			// patch re-linking failed
			return InvalidIndex
		}

		patchStart := m.Next(innerPrev)
		patchEnd := m.Prev(innerNext)
		links = append(links,
			nextLink{boundaryPrev, patchStart},
			nextLink{patchEnd, boundaryNext},
			nextLink{innerPrev, innerNext},
		)
	}

	// Create missing edges.
	for i := 0; i < n; i++ {
		if isNew[i] {
			halfedges[i] = m.newEdge(vertices[i], vertices[(i+1)%n])
		}
	}

	f := m.newFace()
	m.setFaceHalfedge(f, halfedges[n-1])

	// Set up half-edge connectivity around the new face.
	for i := 0; i < n; i++ {
		ii := (i + 1) % n
		v := vertices[ii]
		innerPrev := halfedges[i]
		innerNext := halfedges[ii]

		id := 0
		if isNew[i] {
			id |= 1
		}
		if isNew[ii] {
			id |= 2
		}
		if id != 0 {
			outerPrev := innerNext.Opposite()
			outerNext := innerPrev.Opposite()

			switch id {
			case 1: // prev is new, next is old
				boundaryPrev := m.Prev(innerNext)
				links = append(links, nextLink{boundaryPrev, outerNext})
				m.setVertexHalfedge(v, outerNext)
			case 2: // prev is old, next is new
				boundaryNext := m.Next(innerPrev)
				links = append(links, nextLink{outerPrev, boundaryNext})
				m.setVertexHalfedge(v, boundaryNext)
			case 3: // both are new
				if !m.vconn[v].IsValid() {
					m.setVertexHalfedge(v, outerNext)
					links = append(links, nextLink{outerPrev, outerNext})
				} else {
					boundaryNext := m.vconn[v]
					boundaryPrev := m.Prev(boundaryNext)
					links = append(links,
						nextLink{boundaryPrev, outerNext},
						nextLink{outerPrev, boundaryNext},
					)
				}
			}
			links = append(links, nextLink{innerPrev, innerNext})
		} else {
			needsAdjust[ii] = m.vconn[v] == innerNext
		}

		m.setFace(halfedges[i], f)
	}

	for _, l := range links {
		m.setNext(l.a, l.b)
	}

	for i := 0; i < n; i++ {
		if needsAdjust[i] {
			m.adjustOutgoingHalfedge(vertices[i])
		}
	}

	return f
}

// FromIndexedFaces builds a mesh from a position list and triangle index
// triples. Faces that would create non-manifold connectivity are skipped;
// the returned count is the number of skipped faces.
func FromIndexedFaces(positions []mgl64.Vec3, faces [][3]int) (*Mesh, int) {
	m := New()
	for _, p := range positions {
		m.AddVertex(p)
	}
	skipped := 0
	for _, f := range faces {
		if !m.AddTriangle(Vertex(f[0]), Vertex(f[1]), Vertex(f[2])).IsValid() {
			skipped++
		}
	}
	return m, skipped
}
