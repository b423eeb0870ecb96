// Package decimate reduces the vertex count of a triangulated surface mesh
// by greedy, priority-ordered half-edge collapses while bounding geometric
// and structural degradation (quadric error, normal deviation, aspect
// ratio, valence, edge length, Hausdorff distance).
package decimate

import "github.com/go-gl/mathgl/mgl64"

// Quadric is a symmetric error form approximating the sum of squared
// distances to a set of planes. Quadrics only ever accumulate; evaluating
// one at a point yields a non-negative scalar (up to rounding).
type Quadric struct {
	m mgl64.Mat4
}

// NewQuadric returns the quadric of the plane through point with the given
// unit normal.
func NewQuadric(normal, point mgl64.Vec3) Quadric {
	a, b, c := normal.X(), normal.Y(), normal.Z()
	d := -normal.Dot(point)

	// Outer product of the plane coefficients (a,b,c,d).
	return Quadric{m: mgl64.Mat4{
		a * a, a * b, a * c, a * d,
		a * b, b * b, b * c, b * d,
		a * c, b * c, c * c, c * d,
		a * d, b * d, c * d, d * d,
	}}
}

// Add accumulates other into q.
func (q *Quadric) Add(other Quadric) {
	q.m = q.m.Add(other.m)
}

// Sum returns the accumulated quadric of q and other.
func (q Quadric) Sum(other Quadric) Quadric {
	return Quadric{m: q.m.Add(other.m)}
}

// Eval returns the squared-distance error of the quadric at p.
func (q Quadric) Eval(p mgl64.Vec3) float64 {
	v := mgl64.Vec4{p.X(), p.Y(), p.Z(), 1}
	return v.Dot(q.m.Mul4x1(v))
}
