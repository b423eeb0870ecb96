package halfedge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIsCollapseOKSingleTriangle(t *testing.T) {
	m := New()
	v0 := m.AddVertex(mgl64.Vec3{0, 0, 0})
	v1 := m.AddVertex(mgl64.Vec3{1, 0, 0})
	v2 := m.AddVertex(mgl64.Vec3{0, 1, 0})
	m.AddTriangle(v0, v1, v2)

	// Collapsing any edge of a lone triangle would leave a degenerate
	// two-edge patch.
	for _, pair := range [][2]Vertex{{0, 1}, {1, 2}, {2, 0}} {
		h := m.FindHalfedge(pair[0], pair[1])
		if m.IsCollapseOK(h) {
			t.Errorf("collapse %d->%d on a single triangle reported legal", pair[0], pair[1])
		}
	}
}

func TestIsCollapseOKWireEdge(t *testing.T) {
	m := New()
	v0 := m.AddVertex(mgl64.Vec3{0, 0, 0})
	v1 := m.AddVertex(mgl64.Vec3{1, 0, 0})

	// An edge with no face on either side cannot be collapsed.
	h := m.newEdge(v0, v1)
	if m.IsCollapseOK(h) {
		t.Error("collapsing a wire edge reported legal")
	}
	if m.IsCollapseOK(h.Opposite()) {
		t.Error("collapsing a reversed wire edge reported legal")
	}
}

func TestIsCollapseOKQuadDiagonal(t *testing.T) {
	m := buildQuad()

	// Both side triangles of the diagonal have two boundary edges, so
	// collapsing the diagonal degenerates the patch.
	diag := m.FindHalfedge(1, 2)
	if m.IsCollapseOK(diag) {
		t.Error("collapsing the quad diagonal reported legal")
	}
	if m.IsCollapseOK(diag.Opposite()) {
		t.Error("collapsing the reversed quad diagonal reported legal")
	}
}

func TestIsCollapseOKInteriorBoundaryRule(t *testing.T) {
	m, center := buildFan()

	// Rim vertices 1 and 2 are both on the boundary but their connecting
	// edge is a boundary edge: legal by the boundary rule.
	h := m.FindHalfedge(1, 2)
	if !m.IsCollapseOK(h) {
		t.Error("boundary rim edge collapse reported illegal")
	}

	// Collapsing the center into a rim vertex is interior and legal.
	spoke := m.FindHalfedge(center, 1)
	if !m.IsCollapseOK(spoke) {
		t.Error("center-to-rim collapse reported illegal")
	}
}

func TestCollapseFanCenter(t *testing.T) {
	m, center := buildFan()
	h := m.FindHalfedge(center, 1)
	if !m.IsCollapseOK(h) {
		t.Fatal("expected center collapse to be legal")
	}

	m.Collapse(h)

	if m.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", m.VertexCount())
	}
	if m.FaceCount() != 4 {
		t.Errorf("FaceCount = %d, want 4", m.FaceCount())
	}
	if m.EdgeCount() != 9 {
		t.Errorf("EdgeCount = %d, want 9", m.EdgeCount())
	}
	if !m.IsDeletedVertex(center) {
		t.Error("collapsed vertex not flagged deleted")
	}
	if !m.IsTriangleMesh() {
		t.Error("mesh not triangular after collapse")
	}

	// The collapse target absorbs the center's connectivity.
	if got := m.Valence(1); got != 5 {
		t.Errorf("Valence(target) = %d, want 5", got)
	}
}

func TestCollapseOctahedronEdge(t *testing.T) {
	m := buildOctahedron()
	h := m.FindHalfedge(0, 2)
	if !m.IsCollapseOK(h) {
		t.Fatal("octahedron edge collapse should be legal")
	}

	m.Collapse(h)

	if m.VertexCount() != 5 {
		t.Errorf("VertexCount = %d, want 5", m.VertexCount())
	}
	if m.FaceCount() != 6 {
		t.Errorf("FaceCount = %d, want 6", m.FaceCount())
	}
	if m.EdgeCount() != 9 {
		t.Errorf("EdgeCount = %d, want 9", m.EdgeCount())
	}
	if !m.IsTriangleMesh() {
		t.Error("mesh not triangular after collapse")
	}

	// Still closed: no boundary vertices.
	for vi := 0; vi < m.VerticesSize(); vi++ {
		v := Vertex(vi)
		if m.IsDeletedVertex(v) {
			continue
		}
		if m.IsBoundaryVertex(v) {
			t.Errorf("vertex %d became a boundary vertex", v)
		}
	}
}

func TestGarbageCollection(t *testing.T) {
	m := buildOctahedron()
	m.Collapse(m.FindHalfedge(0, 2))

	if m.VerticesSize() != 6 {
		t.Fatalf("VerticesSize before GC = %d, want 6", m.VerticesSize())
	}

	m.GarbageCollection()

	if m.VerticesSize() != 5 || m.VertexCount() != 5 {
		t.Errorf("vertices after GC: size %d count %d, want 5 and 5", m.VerticesSize(), m.VertexCount())
	}
	if m.EdgesSize() != 9 || m.EdgeCount() != 9 {
		t.Errorf("edges after GC: size %d count %d, want 9 and 9", m.EdgesSize(), m.EdgeCount())
	}
	if m.FacesSize() != 6 || m.FaceCount() != 6 {
		t.Errorf("faces after GC: size %d count %d, want 6 and 6", m.FacesSize(), m.FaceCount())
	}

	// Connectivity must be fully remapped: every face has three distinct
	// live vertices, every vertex circulates cleanly.
	for fi := 0; fi < m.FacesSize(); fi++ {
		vs := m.FaceVertices(Face(fi))
		if len(vs) != 3 {
			t.Fatalf("face %d has %d vertices after GC", fi, len(vs))
		}
		for _, v := range vs {
			if int(v) < 0 || int(v) >= m.VerticesSize() {
				t.Fatalf("face %d references out-of-range vertex %d", fi, v)
			}
		}
	}
	for vi := 0; vi < m.VerticesSize(); vi++ {
		if m.Valence(Vertex(vi)) == 0 {
			t.Errorf("vertex %d isolated after GC", vi)
		}
	}

	// A second pass with no garbage is a no-op.
	m.GarbageCollection()
	if m.VerticesSize() != 5 {
		t.Error("idempotent GC changed the mesh")
	}
}
