package decimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/taigrr/decimate/halfedge"
)

// DistPointSegment returns the closest point on segment (a,b) to p and the
// distance to it.
func DistPointSegment(p, a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	ab := b.Sub(a)
	t := p.Sub(a).Dot(ab)
	if t <= 0 {
		return a, p.Sub(a).Len()
	}
	denom := ab.Dot(ab)
	if t >= denom {
		return b, p.Sub(b).Len()
	}
	nearest := a.Add(ab.Mul(t / denom))
	return nearest, p.Sub(nearest).Len()
}

// DistPointTriangle returns the closest point on triangle (a,b,c) to p and
// the exact distance to it.
func DistPointTriangle(p, a, b, c mgl64.Vec3) (mgl64.Vec3, float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, p.Sub(a).Len() // vertex region a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, p.Sub(b).Len() // vertex region b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		nearest := a.Add(ab.Mul(t)) // edge region ab
		return nearest, p.Sub(nearest).Len()
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, p.Sub(c).Len() // vertex region c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		nearest := a.Add(ac.Mul(t)) // edge region ac
		return nearest, p.Sub(nearest).Len()
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		nearest := b.Add(c.Sub(b).Mul(t)) // edge region bc
		return nearest, p.Sub(nearest).Len()
	}

	denom := va + vb + vc
	if denom <= 0 || math.IsNaN(denom) {
		// Degenerate triangle, fall back to the closest edge.
		n0, dist0 := DistPointSegment(p, a, b)
		n1, dist1 := DistPointSegment(p, b, c)
		n2, dist2 := DistPointSegment(p, c, a)
		nearest, dist := n0, dist0
		if dist1 < dist {
			nearest, dist = n1, dist1
		}
		if dist2 < dist {
			nearest, dist = n2, dist2
		}
		return nearest, dist
	}

	v := vb / denom
	w := vc / denom
	nearest := a.Add(ab.Mul(v)).Add(ac.Mul(w)) // face interior
	return nearest, p.Sub(nearest).Len()
}

// TriangleAspectRatio returns the squared length of the triangle's longest
// edge divided by the norm of the cross product of two edge vectors.
// Larger values mean thinner triangles; a degenerate triangle yields +Inf.
func TriangleAspectRatio(p0, p1, p2 mgl64.Vec3) float64 {
	d0 := p0.Sub(p1)
	d1 := p1.Sub(p2)
	d2 := p2.Sub(p0)

	l := math.Max(d0.Dot(d0), math.Max(d1.Dot(d1), d2.Dot(d2)))

	area := d0.Cross(d1).Len()
	if area == 0 {
		return math.Inf(1)
	}
	return l / area
}

// faceAspectRatio evaluates TriangleAspectRatio on face f at the mesh's
// current vertex positions.
func faceAspectRatio(m *halfedge.Mesh, f halfedge.Face) float64 {
	p0, p1, p2 := m.TrianglePoints(f)
	return TriangleAspectRatio(p0, p1, p2)
}

// faceDistance returns the exact distance from p to face f.
func faceDistance(m *halfedge.Mesh, f halfedge.Face, p mgl64.Vec3) float64 {
	p0, p1, p2 := m.TrianglePoints(f)
	_, dist := DistPointTriangle(p, p0, p1, p2)
	return dist
}
