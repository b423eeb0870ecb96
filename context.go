package decimate

import "github.com/taigrr/decimate/halfedge"

// collapseContext captures the local topology of a candidate half-edge
// collapse:
//
//	       vl
//	       *
//	      / \
//	     /   \
//	    / fl  \
//	v0 *------>* v1
//	    \ fr  /
//	     \   /
//	      \ /
//	       *
//	       vr
//
// It is rebuilt from current connectivity for every evaluation and never
// cached across mesh mutations.
type collapseContext struct {
	v0v1 halfedge.Halfedge // half-edge to be collapsed
	v1v0 halfedge.Halfedge // reverse half-edge
	v0   halfedge.Vertex   // vertex to be removed
	v1   halfedge.Vertex   // remaining vertex
	fl   halfedge.Face     // left face (deleted by the collapse)
	fr   halfedge.Face     // right face (deleted by the collapse)
	vl   halfedge.Vertex   // left apex vertex
	vr   halfedge.Vertex   // right apex vertex

	v1vl halfedge.Halfedge
	vlv0 halfedge.Halfedge
	v0vr halfedge.Halfedge
	vrv1 halfedge.Halfedge
}

func newCollapseContext(m *halfedge.Mesh, h halfedge.Halfedge) collapseContext {
	cd := collapseContext{
		v0v1: h,
		v1v0: h.Opposite(),
		fl:   m.FaceOf(h),
		fr:   m.FaceOf(h.Opposite()),
		vl:   halfedge.InvalidIndex,
		vr:   halfedge.InvalidIndex,
		v1vl: halfedge.InvalidIndex,
		vlv0: halfedge.InvalidIndex,
		v0vr: halfedge.InvalidIndex,
		vrv1: halfedge.InvalidIndex,
	}
	cd.v0 = m.ToVertex(cd.v1v0)
	cd.v1 = m.ToVertex(cd.v0v1)

	if cd.fl.IsValid() {
		cd.v1vl = m.Next(cd.v0v1)
		cd.vlv0 = m.Next(cd.v1vl)
		cd.vl = m.ToVertex(cd.v1vl)
	}
	if cd.fr.IsValid() {
		cd.v0vr = m.Next(cd.v1v0)
		cd.vrv1 = m.Next(cd.v0vr)
		cd.vr = m.ToVertex(cd.v0vr)
	}

	return cd
}
