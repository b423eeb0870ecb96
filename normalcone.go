package decimate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NormalCone bounds the angular spread of all face normals folded into a
// face through successive collapses. The half-angle is non-decreasing
// under merges.
type NormalCone struct {
	axis  mgl64.Vec3
	angle float64
}

// NewNormalCone returns a zero-angle cone around the given unit normal.
func NewNormalCone(normal mgl64.Vec3) NormalCone {
	return NormalCone{axis: normal}
}

// Axis returns the cone's center normal.
func (nc NormalCone) Axis() mgl64.Vec3 { return nc.axis }

// Angle returns the cone's half-angle in radians.
func (nc NormalCone) Angle() float64 { return nc.angle }

// MergeNormal widens the cone to enclose the given unit normal.
func (nc *NormalCone) MergeNormal(n mgl64.Vec3) {
	nc.MergeCone(NewNormalCone(n))
}

// MergeCone widens the cone to enclose other.
func (nc *NormalCone) MergeCone(other NormalCone) {
	a := angleBetween(nc.axis, other.axis)

	switch {
	case a+other.angle <= nc.angle:
		// other is already contained
	case a+nc.angle <= other.angle:
		*nc = other
	case a < 1e-12:
		// axes coincide, spans just widen
		nc.angle = math.Max(nc.angle, other.angle)
	default:
		minAngle := math.Min(-nc.angle, a-other.angle)
		maxAngle := math.Max(nc.angle, a+other.angle)
		nc.angle = 0.5 * (maxAngle - minAngle)

		// New axis by slerp within the plane of the two axes.
		axisAngle := 0.5 * (minAngle + maxAngle)
		nc.axis = nc.axis.Mul(math.Sin(a - axisAngle)).
			Add(other.axis.Mul(math.Sin(axisAngle))).
			Mul(1 / math.Sin(a))
	}
}

func angleBetween(a, b mgl64.Vec3) float64 {
	return math.Acos(mgl64.Clamp(a.Dot(b), -1, 1))
}
