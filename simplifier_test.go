package decimate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/taigrr/decimate/halfedge"
	"github.com/taigrr/decimate/pqueue"
)

// octahedron builds a closed triangle mesh with 6 vertices, 12 edges and
// 8 faces. Every vertex has valence 4.
func octahedron() *halfedge.Mesh {
	positions := []mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	faces := [][3]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	m, _ := halfedge.FromIndexedFaces(positions, faces)
	return m
}

// grid builds a flat triangulated n x n vertex grid in the z=0 plane.
func grid(n int) *halfedge.Mesh {
	var positions []mgl64.Vec3
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			positions = append(positions, mgl64.Vec3{float64(c), float64(r), 0})
		}
	}
	var faces [][3]int
	for r := 0; r < n-1; r++ {
		for c := 0; c < n-1; c++ {
			v := r*n + c
			faces = append(faces,
				[3]int{v, v + 1, v + n},
				[3]int{v + 1, v + n + 1, v + n},
			)
		}
	}
	m, _ := halfedge.FromIndexedFaces(positions, faces)
	return m
}

// livePositions collects the positions of all non-deleted vertices.
func livePositions(m *halfedge.Mesh) []mgl64.Vec3 {
	var ps []mgl64.Vec3
	for vi := 0; vi < m.VerticesSize(); vi++ {
		v := halfedge.Vertex(vi)
		if !m.IsDeletedVertex(v) {
			ps = append(ps, m.Position(v))
		}
	}
	return ps
}

func containsPosition(ps []mgl64.Vec3, p mgl64.Vec3) bool {
	for _, q := range ps {
		if q.Sub(p).Len() < 1e-12 {
			return true
		}
	}
	return false
}

func TestSimplifyOctahedronToTetrahedron(t *testing.T) {
	m := octahedron()
	s := NewSimplifier(m)
	s.Initialize(Criteria{})
	s.Simplify(4)

	if m.VertexCount() != 4 {
		t.Fatalf("VertexCount = %d, want 4", m.VertexCount())
	}
	// Simplify compacts the mesh, so sizes match counts.
	if m.VerticesSize() != 4 {
		t.Errorf("VerticesSize = %d, want 4 after compaction", m.VerticesSize())
	}
	if m.FaceCount() != 4 || m.EdgeCount() != 6 {
		t.Errorf("faces/edges = %d/%d, want 4/6", m.FaceCount(), m.EdgeCount())
	}
	if !m.IsTriangleMesh() {
		t.Error("result is not a triangle mesh")
	}
	for vi := 0; vi < m.VerticesSize(); vi++ {
		if m.IsBoundaryVertex(halfedge.Vertex(vi)) {
			t.Errorf("vertex %d became a boundary vertex", vi)
		}
	}
}

func TestSimplifyGrid(t *testing.T) {
	m := grid(5)
	if m.VertexCount() != 25 {
		t.Fatalf("grid has %d vertices, want 25", m.VertexCount())
	}

	s := NewSimplifier(m)
	s.Initialize(Criteria{})
	s.Simplify(12)

	if m.VertexCount() != 12 {
		t.Errorf("VertexCount = %d, want 12", m.VertexCount())
	}
	if !m.IsTriangleMesh() {
		t.Error("result is not a triangle mesh")
	}
	// Collapses never move vertices, so the plane is preserved exactly.
	for _, p := range livePositions(m) {
		if p.Z() != 0 {
			t.Errorf("vertex left the plane: %v", p)
		}
	}
}

func TestSimplifyGridPreservesBoundary(t *testing.T) {
	m := grid(5)

	boundaryBefore := make([]mgl64.Vec3, 0, 16)
	for vi := 0; vi < m.VerticesSize(); vi++ {
		if m.IsBoundaryVertex(halfedge.Vertex(vi)) {
			boundaryBefore = append(boundaryBefore, m.Position(halfedge.Vertex(vi)))
		}
	}

	s := NewSimplifier(m)
	s.Initialize(Criteria{})
	s.Simplify(12)

	// A boundary vertex may only collapse into another boundary vertex,
	// so the boundary loop never grows and never absorbs interior
	// vertices. Vertices never move, so positions identify them.
	boundaryAfter := 0
	for vi := 0; vi < m.VerticesSize(); vi++ {
		v := halfedge.Vertex(vi)
		if m.IsDeletedVertex(v) || !m.IsBoundaryVertex(v) {
			continue
		}
		boundaryAfter++
		if !containsPosition(boundaryBefore, m.Position(v)) {
			t.Errorf("interior vertex %v became a boundary vertex", m.Position(v))
		}
	}
	if boundaryAfter > len(boundaryBefore) {
		t.Errorf("boundary grew from %d to %d vertices", len(boundaryBefore), boundaryAfter)
	}
}

// firstCandidate seeds the scheduler the way Simplify does and returns the
// first vertex that would be popped, with its recorded target half-edge.
func firstCandidate(s *Simplifier) (halfedge.Vertex, halfedge.Halfedge) {
	size := s.mesh.VerticesSize()
	s.priority = make([]float64, size)
	s.heapPos = make([]int, size)
	s.target = make([]halfedge.Halfedge, size)
	s.queue = pqueue.New[halfedge.Vertex](heapInterface{s})
	s.queue.Reserve(s.mesh.VertexCount())
	for vi := 0; vi < size; vi++ {
		v := halfedge.Vertex(vi)
		s.queue.ResetPosition(v)
		if !s.mesh.IsDeletedVertex(v) {
			s.enqueue(v)
		}
	}
	v := s.queue.PopFront()
	h := s.target[v]
	s.queue, s.priority, s.heapPos, s.target = nil, nil, nil, nil
	return v, h
}

func TestInitializeIdempotent(t *testing.T) {
	m := octahedron()
	criteria := Criteria{NormalDeviation: 180, MaxValence: 8}

	s := NewSimplifier(m)
	s.Initialize(criteria)
	quadrics := append([]Quadric(nil), s.vquadric...)
	v1, h1 := firstCandidate(s)

	s.Initialize(criteria)
	for vi := range s.vquadric {
		if s.vquadric[vi] != quadrics[vi] {
			t.Errorf("vertex %d quadric changed on re-initialization", vi)
		}
	}
	if v2, h2 := firstCandidate(s); v2 != v1 || h2 != h1 {
		t.Errorf("first candidate changed: (%d, %d) vs (%d, %d)", v2, h2, v1, h1)
	}
}

func TestReinitializeAfterSimplify(t *testing.T) {
	m := octahedron()
	s := NewSimplifier(m)
	s.Initialize(Criteria{})
	s.Simplify(5)

	// Simplify compacts the mesh, remapping every face index. A fresh
	// initialization must match one computed from scratch on the
	// compacted mesh.
	s.Initialize(Criteria{})

	fresh := NewSimplifier(m)
	fresh.Initialize(Criteria{})
	if len(s.vquadric) != len(fresh.vquadric) {
		t.Fatalf("quadric table sized %d, want %d", len(s.vquadric), len(fresh.vquadric))
	}
	for vi := range s.vquadric {
		if s.vquadric[vi] != fresh.vquadric[vi] {
			t.Errorf("vertex %d quadric accumulated from stale face normals", vi)
		}
	}
}

func TestSimplifyStopsWithoutLegalCollapses(t *testing.T) {
	// A single triangle has no legal collapse at all.
	m, _ := halfedge.FromIndexedFaces(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][3]int{{0, 1, 2}},
	)
	s := NewSimplifier(m)
	s.Initialize(Criteria{})
	s.Simplify(1)

	if m.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3 (nothing collapsible)", m.VertexCount())
	}
}

func TestSimplifySelection(t *testing.T) {
	m := octahedron()
	selected := make([]bool, m.VerticesSize())
	selected[0] = true

	s := NewSimplifier(m)
	s.Initialize(Criteria{Selected: selected})
	s.Simplify(4)

	// Only the selected vertex may be removed.
	if m.VertexCount() != 5 {
		t.Errorf("VertexCount = %d, want 5", m.VertexCount())
	}
	if containsPosition(livePositions(m), mgl64.Vec3{1, 0, 0}) {
		t.Error("selected vertex survived")
	}
}

func TestSimplifyFeatureVertexSurvives(t *testing.T) {
	m := octahedron()
	fv := make([]bool, m.VerticesSize())
	fe := make([]bool, m.EdgesSize())
	fv[0] = true // pin (1,0,0); no feature edges, so it cannot move at all

	s := NewSimplifier(m)
	s.Initialize(Criteria{FeatureVertex: fv, FeatureEdge: fe})
	s.Simplify(4)

	if m.VertexCount() != 4 {
		t.Fatalf("VertexCount = %d, want 4", m.VertexCount())
	}
	if !containsPosition(livePositions(m), mgl64.Vec3{1, 0, 0}) {
		t.Error("feature vertex was collapsed away")
	}
}

func TestFeatureEdgeBlocksSideWing(t *testing.T) {
	m := octahedron()
	fv := make([]bool, m.VerticesSize())
	fe := make([]bool, m.EdgesSize())
	fv[5] = true // activate feature mode away from the candidate

	s := NewSimplifier(m)
	s.Initialize(Criteria{FeatureVertex: fv, FeatureEdge: fe})

	h := m.FindHalfedge(0, 2)
	cd := newCollapseContext(m, h)
	if !s.isCollapseLegal(cd) {
		t.Fatal("collapse should be legal without feature edges")
	}

	// Tagging a side-wing edge of the collapse protects it from erosion.
	fe[cd.vlv0.EdgeOf()] = true
	if s.isCollapseLegal(cd) {
		t.Error("collapse should be rejected when the left wing is a feature edge")
	}
	fe[cd.vlv0.EdgeOf()] = false
	fe[cd.v0vr.EdgeOf()] = true
	if s.isCollapseLegal(cd) {
		t.Error("collapse should be rejected when the right wing is a feature edge")
	}
}

func TestSimplifyNormalDeviationBlocks(t *testing.T) {
	m := octahedron()
	s := NewSimplifier(m)
	s.Initialize(Criteria{NormalDeviation: 1}) // degrees
	s.Simplify(4)

	// Any collapse on an octahedron rotates face normals far beyond one
	// degree, so nothing may happen.
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", m.VertexCount())
	}
}

func TestSimplifyHausdorffBlocks(t *testing.T) {
	m := octahedron()
	s := NewSimplifier(m)
	s.Initialize(Criteria{HausdorffError: 1e-6})
	s.Simplify(4)

	// Removed vertices would sit far off the simplified surface.
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", m.VertexCount())
	}
}

func TestSimplifyValenceBlocks(t *testing.T) {
	m := octahedron()
	s := NewSimplifier(m)
	s.Initialize(Criteria{MaxValence: 3})
	s.Simplify(4)

	// Each collapse would create a valence-5 vertex, above the bound and
	// above both originals.
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", m.VertexCount())
	}
}

func TestSimplifyEdgeLengthBlocks(t *testing.T) {
	m := octahedron()
	s := NewSimplifier(m)
	s.Initialize(Criteria{EdgeLength: 0.5})
	s.Simplify(4)

	// Every collapse leaves the antipodal ring neighbor two units from
	// the kept vertex.
	if m.VertexCount() != 6 {
		t.Errorf("VertexCount = %d, want 6", m.VertexCount())
	}
}

func TestSimplifyAspectRatioBound(t *testing.T) {
	m := grid(5)
	s := NewSimplifier(m)
	s.Initialize(Criteria{AspectRatio: 10})
	s.Simplify(12)

	if !m.IsTriangleMesh() {
		t.Error("result is not a triangle mesh")
	}
	if m.VertexCount() > 25 || m.VertexCount() < 12 {
		t.Errorf("VertexCount = %d out of range", m.VertexCount())
	}
}

func TestSimplifyNonTriangleMeshIsNoop(t *testing.T) {
	m := halfedge.New()
	vs := []halfedge.Vertex{
		m.AddVertex(mgl64.Vec3{0, 0, 0}),
		m.AddVertex(mgl64.Vec3{1, 0, 0}),
		m.AddVertex(mgl64.Vec3{1, 1, 0}),
		m.AddVertex(mgl64.Vec3{0, 1, 0}),
	}
	m.AddFace(vs)

	s := NewSimplifier(m)
	s.Initialize(Criteria{})
	s.Simplify(2)

	if m.VertexCount() != 4 || m.FaceCount() != 1 {
		t.Error("non-triangle mesh was modified")
	}
}

func TestSimplifyWithoutInitialize(t *testing.T) {
	m := octahedron()
	s := NewSimplifier(m)
	// Simplify self-initializes with empty criteria.
	s.Simplify(4)

	if m.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", m.VertexCount())
	}
}

func TestCollapseContext(t *testing.T) {
	m := octahedron()
	h := m.FindHalfedge(0, 2)
	cd := newCollapseContext(m, h)

	if cd.v0 != 0 || cd.v1 != 2 {
		t.Fatalf("v0/v1 = %d/%d, want 0/2", cd.v0, cd.v1)
	}
	if !cd.fl.IsValid() || !cd.fr.IsValid() {
		t.Fatal("interior edge must have two incident faces")
	}
	// The apex vertices of the two incident faces are the shared
	// neighbors of v0 and v1: the poles (0,0,1) and (0,0,-1).
	apexes := map[halfedge.Vertex]bool{cd.vl: true, cd.vr: true}
	if !apexes[4] || !apexes[5] {
		t.Errorf("vl/vr = %d/%d, want {4, 5}", cd.vl, cd.vr)
	}
	// Wing halfedges frame the two faces.
	if m.ToVertex(cd.v1vl) != cd.vl || m.ToVertex(cd.vlv0) != cd.v0 {
		t.Error("left wing halfedges inconsistent")
	}
	if m.FromVertex(cd.vrv1) != cd.vr || m.ToVertex(cd.v0vr) != cd.vr {
		t.Error("right wing halfedges inconsistent")
	}
}

func TestCollapsePriorityMonotone(t *testing.T) {
	// A vertex on a sharp crease is more expensive to remove than a
	// vertex in a flat region.
	flat := NewQuadric(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 0})
	flat.Add(NewQuadric(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}))

	crease := NewQuadric(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 0})
	crease.Add(NewQuadric(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 0}))

	p := mgl64.Vec3{0.5, 0.5, 0.5}
	if flat.Eval(p) >= crease.Eval(p)+0.25 {
		t.Errorf("flat error %g should be below crease error %g", flat.Eval(p), crease.Eval(p))
	}
	if math.Abs(flat.Eval(mgl64.Vec3{7, 3, 0})) > 1e-12 {
		t.Error("in-plane point must have zero flat error")
	}
}
