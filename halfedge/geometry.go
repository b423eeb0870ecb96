package halfedge

import "github.com/go-gl/mathgl/mgl64"

// FaceNormal returns the unit normal of f, or the zero vector for a
// degenerate face.
func (m *Mesh) FaceNormal(f Face) mgl64.Vec3 {
	h := m.fconn[f]
	p0 := m.points[m.ToVertex(h)]
	h = m.Next(h)
	p1 := m.points[m.ToVertex(h)]
	h = m.Next(h)
	p2 := m.points[m.ToVertex(h)]

	n := p1.Sub(p0).Cross(p2.Sub(p0))
	l := n.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Mul(1 / l)
}

// TrianglePoints returns the three corner positions of triangle f.
func (m *Mesh) TrianglePoints(f Face) (p0, p1, p2 mgl64.Vec3) {
	h := m.fconn[f]
	p0 = m.points[m.ToVertex(h)]
	h = m.Next(h)
	p1 = m.points[m.ToVertex(h)]
	h = m.Next(h)
	p2 = m.points[m.ToVertex(h)]
	return p0, p1, p2
}
