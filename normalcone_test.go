package decimate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNormalConeSingleNormal(t *testing.T) {
	nc := NewNormalCone(mgl64.Vec3{0, 0, 1})
	if nc.Angle() != 0 {
		t.Errorf("fresh cone angle = %g, want 0", nc.Angle())
	}
	if nc.Axis() != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("axis = %v", nc.Axis())
	}
}

func TestNormalConeMergeNormal(t *testing.T) {
	// Merging two unit normals 90 degrees apart gives a cone of half
	// that opening around the bisector.
	nc := NewNormalCone(mgl64.Vec3{0, 0, 1})
	nc.MergeNormal(mgl64.Vec3{1, 0, 0})

	if got, want := nc.Angle(), math.Pi/4; math.Abs(got-want) > 1e-12 {
		t.Errorf("merged angle = %g, want %g", got, want)
	}
	bisector := mgl64.Vec3{1, 0, 1}.Normalize()
	if nc.Axis().Sub(bisector).Len() > 1e-12 {
		t.Errorf("merged axis = %v, want %v", nc.Axis(), bisector)
	}
}

func TestNormalConeMergeContained(t *testing.T) {
	// Merging a narrow cone into a wide cone around the same axis keeps
	// the wide cone unchanged.
	wide := NewNormalCone(mgl64.Vec3{0, 0, 1})
	wide.MergeNormal(mgl64.Vec3{1, 0, 1}.Normalize())
	wideAngle := wide.Angle()

	narrow := NewNormalCone(wide.Axis())
	wide.MergeCone(narrow)

	if math.Abs(wide.Angle()-wideAngle) > 1e-12 {
		t.Errorf("angle changed from %g to %g when absorbing contained cone", wideAngle, wide.Angle())
	}
}

func TestNormalConeMergeGrows(t *testing.T) {
	a := NewNormalCone(mgl64.Vec3{0, 0, 1})
	b := NewNormalCone(mgl64.Vec3{0, 1, 0})
	a.MergeCone(b)

	// Both source normals must lie inside the merged cone.
	for _, n := range []mgl64.Vec3{{0, 0, 1}, {0, 1, 0}} {
		if angleBetween(a.Axis(), n) > a.Angle()+1e-12 {
			t.Errorf("normal %v outside merged cone (axis %v, angle %g)", n, a.Axis(), a.Angle())
		}
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		want float64
	}{
		{"parallel", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}, 0},
		{"orthogonal", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, math.Pi / 2},
		{"opposite", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := angleBetween(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("angleBetween = %g, want %g", got, tt.want)
			}
		})
	}
}
