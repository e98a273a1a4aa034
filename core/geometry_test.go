package core

import (
	"math"
	"testing"
)

func TestVec3_DistanceTo(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 6, Z: 3}
	if got := a.DistanceTo(b); got != 5 {
		t.Fatalf("DistanceTo = %v, want 5", got)
	}
	if got := a.DistanceTo(a); got != 0 {
		t.Fatalf("DistanceTo(self) = %v, want 0", got)
	}
}

func TestVec3_Lerp(t *testing.T) {
	a := Vec3{X: 0, Y: 10, Z: -4}
	b := Vec3{X: 10, Y: 20, Z: 4}

	if got := a.Lerp(b, 0); got != a {
		t.Fatalf("Lerp(0) = %+v, want start", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Fatalf("Lerp(1) = %+v, want end", got)
	}
	mid := a.Lerp(b, 0.5)
	want := Vec3{X: 5, Y: 15, Z: 0}
	if mid != want {
		t.Fatalf("Lerp(0.5) = %+v, want %+v", mid, want)
	}
}

func TestVec3_AddScaleNorm(t *testing.T) {
	v := Vec3{X: 3, Y: 0, Z: 4}
	if got := v.Norm(); got != 5 {
		t.Fatalf("Norm = %v, want 5", got)
	}
	if got := v.Scale(2); got != (Vec3{X: 6, Y: 0, Z: 8}) {
		t.Fatalf("Scale = %+v", got)
	}
	if got := v.Add(Vec3{X: -3, Y: 1, Z: -4}); got != (Vec3{Y: 1}) {
		t.Fatalf("Add = %+v", got)
	}
	if got := v.Dot(Vec3{X: 1, Y: 7, Z: 1}); math.Abs(got-7) > 1e-15 {
		t.Fatalf("Dot = %v, want 7", got)
	}
}
