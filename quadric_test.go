package decimate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestQuadricPlaneDistance(t *testing.T) {
	// Quadric of the z=1 plane: error is squared distance to the plane.
	q := NewQuadric(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1})

	tests := []struct {
		name string
		p    mgl64.Vec3
		want float64
	}{
		{"on plane", mgl64.Vec3{3, -2, 1}, 0},
		{"above", mgl64.Vec3{0, 0, 3}, 4},
		{"below", mgl64.Vec3{1, 1, -1}, 4},
		{"half unit", mgl64.Vec3{0, 5, 1.5}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := q.Eval(tt.p); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Eval(%v) = %g, want %g", tt.p, got, tt.want)
			}
		})
	}
}

func TestQuadricSum(t *testing.T) {
	// Two orthogonal planes through the origin: error is the sum of both
	// squared distances.
	qx := NewQuadric(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 0})
	qy := NewQuadric(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 0})

	sum := qx.Sum(qy)
	p := mgl64.Vec3{2, 3, 7}
	if got, want := sum.Eval(p), 4.0+9.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Sum.Eval = %g, want %g", got, want)
	}

	// Add accumulates in place with the same result.
	var acc Quadric
	acc.Add(qx)
	acc.Add(qy)
	if got := acc.Eval(p); math.Abs(got-sum.Eval(p)) > 1e-12 {
		t.Errorf("Add accumulation = %g, want %g", got, sum.Eval(p))
	}

	// The intersection line of both planes stays at zero error.
	if got := sum.Eval(mgl64.Vec3{0, 0, -5}); got > 1e-12 {
		t.Errorf("Eval on intersection line = %g, want 0", got)
	}
}

func TestQuadricZeroValue(t *testing.T) {
	var q Quadric
	if got := q.Eval(mgl64.Vec3{1, 2, 3}); got != 0 {
		t.Errorf("zero quadric Eval = %g, want 0", got)
	}
}
