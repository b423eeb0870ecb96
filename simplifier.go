package decimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/taigrr/decimate/halfedge"
	"github.com/taigrr/decimate/pqueue"
)

// Criteria configures which collapse restrictions are active. A zero value
// disables the corresponding criterion.
type Criteria struct {
	// AspectRatio rejects collapses whose worst retained triangle exceeds
	// this squared-longest-edge / area ratio without improving on the
	// pre-collapse worst ratio.
	AspectRatio float64
	// EdgeLength rejects collapses that would leave a one-ring neighbor
	// farther than this from the kept vertex.
	EdgeLength float64
	// MaxValence bounds the combined valence after a collapse, with an
	// escape hatch for vertices already above the bound.
	MaxValence int
	// NormalDeviation, in degrees, bounds the accumulated normal-cone
	// spread of retained faces. When zero, a plain normal-flip test is
	// used instead.
	NormalDeviation float64
	// HausdorffError bounds the distance of every tracked surface sample
	// point to the simplified surface.
	HausdorffError float64

	// Selected restricts removal to tagged vertices when any entry is
	// true. Indexed by vertex.
	Selected []bool
	// FeatureVertex and FeatureEdge protect feature curves: a
	// feature-tagged vertex may only slide along feature edges, and
	// collapses whose side-wing edges are features are rejected. Both
	// must be present, with at least one vertex tag set, to take effect.
	FeatureVertex []bool
	FeatureEdge   []bool
}

// Simplifier decimates a triangle mesh by greedy half-edge collapses,
// cheapest quadric error first.
type Simplifier struct {
	mesh   *halfedge.Mesh
	logger *zap.Logger

	initialized bool

	aspectRatio     float64
	edgeLength      float64
	maxValence      int
	normalDeviation float64 // radians
	hausdorffError  float64

	selected      []bool
	featureVertex []bool
	featureEdge   []bool
	hasSelection  bool
	hasFeatures   bool

	// Engine-owned side tables, indexed by element.
	faceNormals []mgl64.Vec3
	vquadric    []Quadric
	normalCone  []NormalCone
	facePoints  [][]mgl64.Vec3

	// Run-scoped scheduler storage, allocated in Simplify.
	priority []float64
	heapPos  []int
	target   []halfedge.Halfedge
	queue    *pqueue.Heap[halfedge.Vertex]
}

// noTarget marks a vertex with no legal collapse; it holds no heap slot
// until a later re-enqueue finds one.
const noTarget = -1.0

// NewSimplifier prepares a simplifier for the given mesh.
func NewSimplifier(mesh *halfedge.Mesh) *Simplifier {
	return &Simplifier{
		mesh:   mesh,
		logger: zap.NewNop(),
	}
}

// SetLogger routes the simplifier's progress output to logger.
func (s *Simplifier) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.logger = logger
}

// Initialize stores the criteria and builds the per-vertex quadrics and,
// depending on the active criteria, per-face normal cones and sample-point
// storage. It is a no-op on a non-triangular mesh.
func (s *Simplifier) Initialize(criteria Criteria) {
	if !s.mesh.IsTriangleMesh() {
		s.logger.Warn("mesh is not purely triangular, simplification disabled")
		return
	}

	s.aspectRatio = criteria.AspectRatio
	s.edgeLength = criteria.EdgeLength
	s.maxValence = criteria.MaxValence
	s.normalDeviation = criteria.NormalDeviation / 180 * math.Pi
	s.hausdorffError = criteria.HausdorffError

	s.selected = criteria.Selected
	s.featureVertex = criteria.FeatureVertex
	s.featureEdge = criteria.FeatureEdge

	s.hasSelection = false
	for _, sel := range s.selected {
		if sel {
			s.hasSelection = true
			break
		}
	}

	s.hasFeatures = false
	if s.featureVertex != nil && s.featureEdge != nil {
		for _, ft := range s.featureVertex {
			if ft {
				s.hasFeatures = true
				break
			}
		}
	}

	// Reference face normals for the quadrics and the normal criteria.
	// Recaptured on every call: garbage collection remaps face indices,
	// so a table from an earlier run no longer lines up.
	s.faceNormals = make([]mgl64.Vec3, s.mesh.FacesSize())
	for fi := 0; fi < s.mesh.FacesSize(); fi++ {
		if !s.mesh.IsDeletedFace(halfedge.Face(fi)) {
			s.faceNormals[fi] = s.mesh.FaceNormal(halfedge.Face(fi))
		}
	}

	// Per-vertex quadrics: one plane contribution per incident face.
	s.vquadric = make([]Quadric, s.mesh.VerticesSize())
	for vi := 0; vi < s.mesh.VerticesSize(); vi++ {
		v := halfedge.Vertex(vi)
		if s.mesh.IsDeletedVertex(v) || s.mesh.IsIsolated(v) {
			continue
		}
		p := s.mesh.Position(v)
		for _, f := range s.mesh.FaceFan(v) {
			s.vquadric[vi].Add(NewQuadric(s.faceNormals[f], p))
		}
	}

	if s.normalDeviation > 0 {
		s.normalCone = make([]NormalCone, s.mesh.FacesSize())
		for fi := 0; fi < s.mesh.FacesSize(); fi++ {
			if !s.mesh.IsDeletedFace(halfedge.Face(fi)) {
				s.normalCone[fi] = NewNormalCone(s.faceNormals[fi])
			}
		}
	} else {
		s.normalCone = nil
	}

	if s.hausdorffError > 0 {
		s.facePoints = make([][]mgl64.Vec3, s.mesh.FacesSize())
	} else {
		s.facePoints = nil
	}

	s.initialized = true
}

// Simplify collapses edges until the live vertex count reaches
// targetVertices or no legal collapse remains, then compacts the mesh.
func (s *Simplifier) Simplify(targetVertices int) {
	if !s.mesh.IsTriangleMesh() {
		s.logger.Warn("mesh is not purely triangular, skipping simplification")
		return
	}

	if !s.initialized {
		s.Initialize(Criteria{})
	}

	nv := s.mesh.VertexCount()
	s.logger.Info("simplifying mesh",
		zap.Int("vertices", nv),
		zap.Int("target", targetVertices))

	// Scheduler storage lives for this run only.
	size := s.mesh.VerticesSize()
	s.priority = make([]float64, size)
	s.heapPos = make([]int, size)
	s.target = make([]halfedge.Halfedge, size)

	s.queue = pqueue.New[halfedge.Vertex](heapInterface{s})
	s.queue.Reserve(nv)
	for vi := 0; vi < size; vi++ {
		v := halfedge.Vertex(vi)
		s.queue.ResetPosition(v)
		if !s.mesh.IsDeletedVertex(v) {
			s.enqueue(v)
		}
	}

	collapses := 0
	oneRing := make([]halfedge.Vertex, 0, 16)

	for nv > targetVertices && !s.queue.Empty() {
		v := s.queue.PopFront()
		h := s.target[v]

		// Connectivity may have shifted since v was enqueued.
		if !h.IsValid() || s.mesh.IsDeletedEdge(h.EdgeOf()) || !s.mesh.IsCollapseOK(h) {
			continue
		}

		cd := newCollapseContext(s.mesh, h)

		// The one-ring of v0 is unrecoverable after the collapse.
		oneRing = append(oneRing[:0], s.mesh.VertexRing(cd.v0)...)

		s.mesh.Collapse(h)
		nv--
		collapses++
		if collapses%1000 == 0 {
			s.logger.Debug("collapse progress", zap.Int("vertices", nv))
		}

		s.postprocessCollapse(cd)

		for _, vv := range oneRing {
			s.enqueue(vv)
		}
	}

	s.queue = nil
	s.priority = nil
	s.heapPos = nil
	s.target = nil

	s.mesh.GarbageCollection()
	// Compaction remapped all element indices; the per-vertex and
	// per-face side tables no longer line up.
	s.initialized = false

	s.logger.Info("simplification done",
		zap.Int("vertices", s.mesh.VertexCount()),
		zap.Int("collapses", collapses))
}

// enqueue finds the cheapest legal outgoing collapse of v and inserts or
// updates v on the heap, or removes it when no legal collapse exists.
func (s *Simplifier) enqueue(v halfedge.Vertex) {
	minPrio := math.MaxFloat64
	minH := halfedge.Halfedge(halfedge.InvalidIndex)

	for _, h := range s.mesh.OutgoingHalfedges(v) {
		cd := newCollapseContext(s.mesh, h)
		if !s.isCollapseLegal(cd) {
			continue
		}
		if prio := s.collapsePriority(cd); prio < minPrio {
			minPrio = prio
			minH = h
		}
	}

	if minH.IsValid() {
		s.priority[v] = minPrio
		s.target[v] = minH
		if s.queue.IsStored(v) {
			s.queue.Update(v)
		} else {
			s.queue.Insert(v)
		}
	} else {
		if s.queue.IsStored(v) {
			s.queue.Remove(v)
		}
		s.priority[v] = noTarget
		s.target[v] = minH
	}
}

// collapsePriority is the quadric error of merging v0 into v1, evaluated
// at the kept vertex's position.
func (s *Simplifier) collapsePriority(cd collapseContext) float64 {
	q := s.vquadric[cd.v0].Sum(s.vquadric[cd.v1])
	return q.Eval(s.mesh.Position(cd.v1))
}

// heapInterface adapts the simplifier's side tables to the heap.
type heapInterface struct {
	s *Simplifier
}

func (hi heapInterface) Less(a, b halfedge.Vertex) bool {
	return hi.s.priority[a] < hi.s.priority[b]
}

func (hi heapInterface) Position(v halfedge.Vertex) int { return hi.s.heapPos[v] }

func (hi heapInterface) SetPosition(v halfedge.Vertex, pos int) { hi.s.heapPos[v] = pos }
