package decimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/taigrr/decimate/halfedge"
)

// isCollapseLegal runs the configured collapse restrictions in order; the
// first failing check rejects the candidate. Checks that probe the
// post-collapse geometry temporarily move the vertex to be removed onto
// the kept vertex and restore it on every exit path.
func (s *Simplifier) isCollapseLegal(cd collapseContext) bool {
	if s.hasSelection && !s.selected[cd.v0] {
		return false
	}

	if s.hasFeatures {
		// A feature vertex may only slide along a feature edge.
		if s.featureVertex[cd.v0] && !s.featureEdge[cd.v0v1.EdgeOf()] {
			return false
		}
		// Side-wing feature edges would be eroded by the collapse.
		if cd.vl.IsValid() && s.featureEdge[cd.vlv0.EdgeOf()] {
			return false
		}
		if cd.vr.IsValid() && s.featureEdge[cd.v0vr.EdgeOf()] {
			return false
		}
	}

	// Never collapse a boundary vertex into the interior.
	if s.mesh.IsBoundaryVertex(cd.v0) && !s.mesh.IsBoundaryVertex(cd.v1) {
		return false
	}

	// A fan of fewer than 2 faces is degenerate.
	if len(s.mesh.FaceFan(cd.v0)) < 2 {
		return false
	}

	if !s.mesh.IsCollapseOK(cd.v0v1) {
		return false
	}

	if s.maxValence > 0 && !s.checkValence(cd) {
		return false
	}

	if s.edgeLength > 0 && !s.checkEdgeLength(cd) {
		return false
	}

	if s.normalDeviation == 0 {
		if !s.checkNormalFlip(cd) {
			return false
		}
	} else {
		if !s.checkNormalCone(cd) {
			return false
		}
	}

	if s.aspectRatio > 0 && !s.checkAspectRatio(cd) {
		return false
	}

	if s.hausdorffError > 0 && !s.checkHausdorff(cd) {
		return false
	}

	return true
}

// checkValence bounds the combined valence after the collapse. A collapse
// that still improves on the larger of the two original valences is allowed
// through even when it exceeds the bound.
func (s *Simplifier) checkValence(cd collapseContext) bool {
	val0 := s.mesh.Valence(cd.v0)
	val1 := s.mesh.Valence(cd.v1)
	val := val0 + val1 - 1
	if cd.fl.IsValid() {
		val--
	}
	if cd.fr.IsValid() {
		val--
	}
	return val <= s.maxValence || val < max(val0, val1)
}

// checkEdgeLength rejects the collapse when a one-ring neighbor of v0,
// other than the kept vertex and the two apexes, would end up farther than
// the bound from the kept vertex.
func (s *Simplifier) checkEdgeLength(cd collapseContext) bool {
	p1 := s.mesh.Position(cd.v1)
	for _, v := range s.mesh.VertexRing(cd.v0) {
		if v == cd.v1 || v == cd.vl || v == cd.vr {
			continue
		}
		if s.mesh.Position(v).Sub(p1).Len() > s.edgeLength {
			return false
		}
	}
	return true
}

// checkNormalFlip rejects the collapse when moving v0 onto v1 flips the
// orientation of any retained fan face relative to its reference normal.
func (s *Simplifier) checkNormalFlip(cd collapseContext) bool {
	p0 := s.mesh.Position(cd.v0)
	s.mesh.SetPosition(cd.v0, s.mesh.Position(cd.v1))
	defer s.mesh.SetPosition(cd.v0, p0)

	for _, f := range s.mesh.FaceFan(cd.v0) {
		if f == cd.fl || f == cd.fr {
			continue
		}
		n0 := s.faceNormals[f]
		n1 := s.mesh.FaceNormal(f)
		if n0.Dot(n1) < 0 {
			return false
		}
	}
	return true
}

// checkNormalCone rejects the collapse when any retained fan face's merged
// normal cone, folding in the cones of deleted faces it inherits an edge
// from, spreads wider than half the configured deviation bound.
func (s *Simplifier) checkNormalCone(cd collapseContext) bool {
	p0 := s.mesh.Position(cd.v0)
	s.mesh.SetPosition(cd.v0, s.mesh.Position(cd.v1))
	defer s.mesh.SetPosition(cd.v0, p0)

	// Faces that will inherit the edges of the deleted faces.
	fll := halfedge.Face(halfedge.InvalidIndex)
	frr := halfedge.Face(halfedge.InvalidIndex)
	if cd.vl.IsValid() {
		fll = s.mesh.FaceOf(s.mesh.Prev(cd.v0v1).Opposite())
	}
	if cd.vr.IsValid() {
		frr = s.mesh.FaceOf(s.mesh.Next(cd.v1v0).Opposite())
	}

	for _, f := range s.mesh.FaceFan(cd.v0) {
		if f == cd.fl || f == cd.fr {
			continue
		}
		nc := s.normalCone[f]
		nc.MergeNormal(s.mesh.FaceNormal(f))

		if f == fll {
			nc.MergeCone(s.normalCone[cd.fl])
		}
		if f == frr {
			nc.MergeCone(s.normalCone[cd.fr])
		}

		if nc.Angle() > 0.5*s.normalDeviation {
			return false
		}
	}
	return true
}

// checkAspectRatio rejects the collapse when the worst aspect ratio among
// the retained fan faces exceeds the bound and does not improve on the
// pre-collapse worst ratio.
func (s *Simplifier) checkAspectRatio(cd collapseContext) bool {
	p0 := s.mesh.Position(cd.v0)
	p1 := s.mesh.Position(cd.v1)
	defer s.mesh.SetPosition(cd.v0, p0)

	var ar0, ar1 float64
	for _, f := range s.mesh.FaceFan(cd.v0) {
		if f == cd.fl || f == cd.fr {
			continue
		}
		s.mesh.SetPosition(cd.v0, p1)
		ar1 = math.Max(ar1, faceAspectRatio(s.mesh, f))
		s.mesh.SetPosition(cd.v0, p0)
		ar0 = math.Max(ar0, faceAspectRatio(s.mesh, f))
	}

	return !(ar1 > s.aspectRatio && ar1 > ar0)
}

// checkHausdorff rejects the collapse when any sample point owned by the
// fan of v0, or v0's own position, would end up farther than the bound
// from every retained fan face.
func (s *Simplifier) checkHausdorff(cd collapseContext) bool {
	var points []mgl64.Vec3
	for _, f := range s.mesh.FaceFan(cd.v0) {
		points = append(points, s.facePoints[f]...)
	}
	points = append(points, s.mesh.Position(cd.v0))

	p0 := s.mesh.Position(cd.v0)
	s.mesh.SetPosition(cd.v0, s.mesh.Position(cd.v1))
	defer s.mesh.SetPosition(cd.v0, p0)

	for _, point := range points {
		ok := false
		for _, f := range s.mesh.FaceFan(cd.v0) {
			if f == cd.fl || f == cd.fr {
				continue
			}
			if faceDistance(s.mesh, f, point) < s.hausdorffError {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
