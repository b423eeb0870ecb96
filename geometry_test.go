package decimate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDistPointSegment(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 0, 0}

	tests := []struct {
		name      string
		p         mgl64.Vec3
		wantPoint mgl64.Vec3
		wantDist  float64
	}{
		{"interior projection", mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 0, 0}, 1},
		{"clamped to a", mgl64.Vec3{-1, 1, 0}, mgl64.Vec3{0, 0, 0}, math.Sqrt2},
		{"clamped to b", mgl64.Vec3{3, 0, 1}, mgl64.Vec3{2, 0, 0}, math.Sqrt2},
		{"on segment", mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0.5, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dist := DistPointSegment(tt.p, a, b)
			if got.Sub(tt.wantPoint).Len() > 1e-12 {
				t.Errorf("closest point = %v, want %v", got, tt.wantPoint)
			}
			if math.Abs(dist-tt.wantDist) > 1e-12 {
				t.Errorf("dist = %g, want %g", dist, tt.wantDist)
			}
		})
	}
}

func TestDistPointTriangle(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 0, 0}
	c := mgl64.Vec3{0, 2, 0}

	tests := []struct {
		name      string
		p         mgl64.Vec3
		wantPoint mgl64.Vec3
		wantDist  float64
	}{
		{"above interior", mgl64.Vec3{0.5, 0.5, 3}, mgl64.Vec3{0.5, 0.5, 0}, 3},
		{"vertex region", mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{0, 0, 0}, math.Sqrt2},
		{"edge ab region", mgl64.Vec3{1, -2, 0}, mgl64.Vec3{1, 0, 0}, 2},
		{"edge ac region", mgl64.Vec3{-3, 1, 0}, mgl64.Vec3{0, 1, 0}, 3},
		{"hypotenuse region", mgl64.Vec3{2, 2, 0}, mgl64.Vec3{1, 1, 0}, math.Sqrt2},
		{"inside", mgl64.Vec3{0.25, 0.25, 0}, mgl64.Vec3{0.25, 0.25, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dist := DistPointTriangle(tt.p, a, b, c)
			if got.Sub(tt.wantPoint).Len() > 1e-12 {
				t.Errorf("closest point = %v, want %v", got, tt.wantPoint)
			}
			if math.Abs(dist-tt.wantDist) > 1e-12 {
				t.Errorf("dist = %g, want %g", dist, tt.wantDist)
			}
		})
	}
}

func TestDistPointTriangleDegenerate(t *testing.T) {
	// Collinear "triangle" falls back to the closest edge.
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{1, 0, 0}
	c := mgl64.Vec3{2, 0, 0}

	_, dist := DistPointTriangle(mgl64.Vec3{1, 1, 0}, a, b, c)
	if math.Abs(dist-1) > 1e-12 {
		t.Errorf("dist to degenerate triangle = %g, want 1", dist)
	}
}

func TestTriangleAspectRatio(t *testing.T) {
	// Equilateral triangle with side 1: max squared edge 1 over
	// cross-product norm sin(60°).
	equilateral := TriangleAspectRatio(
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{0.5, math.Sqrt(3) / 2, 0},
	)
	want := 1 / (math.Sqrt(3) / 2)
	if math.Abs(equilateral-want) > 1e-12 {
		t.Errorf("equilateral aspect ratio = %g, want %g", equilateral, want)
	}

	// A sliver triangle has a much larger ratio.
	sliver := TriangleAspectRatio(
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{0.5, 0.001, 0},
	)
	if sliver < 100*equilateral {
		t.Errorf("sliver ratio %g not much larger than equilateral %g", sliver, equilateral)
	}

	// Zero-area triangles are infinitely bad.
	degenerate := TriangleAspectRatio(
		mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{2, 0, 0},
	)
	if !math.IsInf(degenerate, 1) {
		t.Errorf("degenerate aspect ratio = %g, want +Inf", degenerate)
	}
}
