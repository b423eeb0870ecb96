package decimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// postprocessCollapse re-establishes the error bookkeeping after a
// committed collapse: quadrics accumulate into the kept vertex, normal
// cones absorb the recomputed and inherited normals, and the sample points
// of the touched faces are redistributed over the kept vertex's fan.
func (s *Simplifier) postprocessCollapse(cd collapseContext) {
	s.vquadric[cd.v1].Add(s.vquadric[cd.v0])

	if s.normalDeviation > 0 {
		for _, f := range s.mesh.FaceFan(cd.v1) {
			s.normalCone[f].MergeNormal(s.mesh.FaceNormal(f))
		}

		// Faces inheriting an edge of a deleted face absorb its cone.
		if cd.vl.IsValid() {
			if f := s.mesh.FaceOf(cd.v1vl); f.IsValid() {
				s.normalCone[f].MergeCone(s.normalCone[cd.fl])
			}
		}
		if cd.vr.IsValid() {
			if f := s.mesh.FaceOf(cd.vrv1); f.IsValid() {
				s.normalCone[f].MergeCone(s.normalCone[cd.fr])
			}
		}
	}

	if s.hausdorffError > 0 {
		// Full local recollection: every sample point owned by the fan
		// of v1 and by the two removed faces, plus the removed vertex.
		var points []mgl64.Vec3
		for _, f := range s.mesh.FaceFan(cd.v1) {
			points = append(points, s.facePoints[f]...)
			s.facePoints[f] = s.facePoints[f][:0]
		}
		if cd.fl.IsValid() {
			points = append(points, s.facePoints[cd.fl]...)
			s.facePoints[cd.fl] = nil
		}
		if cd.fr.IsValid() {
			points = append(points, s.facePoints[cd.fr]...)
			s.facePoints[cd.fr] = nil
		}
		points = append(points, s.mesh.Position(cd.v0))

		fan := s.mesh.FaceFan(cd.v1)
		if len(fan) == 0 {
			return
		}
		for _, point := range points {
			best := fan[0]
			bestDist := math.MaxFloat64
			for _, f := range fan {
				if d := faceDistance(s.mesh, f, point); d < bestDist {
					best = f
					bestDist = d
				}
			}
			s.facePoints[best] = append(s.facePoints[best], point)
		}
	}
}
