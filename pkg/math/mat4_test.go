package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	// Should be a valid projection matrix (not identity)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestTRSOrder(t *testing.T) {
	// Scale first, then rotate 90 degrees about Y, then translate.
	m := TRS(Vec3{10, 0, 0}, QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2)), Vec3{2, 2, 2})
	// Placing (1,0,0) through m: (2,0,0) -> (0,0,-2) -> (10,0,-2).
	result := m.Mul(Translate(1, 0, 0)).Translation()
	if abs(result.X-10) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+2) > 0.001 {
		t.Errorf("TRS: got %v, want (10, 0, -2)", result)
	}
}

func TestTranslation(t *testing.T) {
	m := TRS(Vec3{1, 2, 3}, QuatFromEuler(0, 17, 0), Vec3{3, 3, 3})
	if got := m.Translation(); got != (Vec3{1, 2, 3}) {
		t.Errorf("Translation: got %v, want (1, 2, 3)", got)
	}
}

func TestInverse(t *testing.T) {
	m := TRS(Vec3{3, -1, 2}, QuatFromEuler(10, 20, 30), Vec3{1, 2, 0.5})
	result := m.Mul(m.Inverse())
	id := Identity()
	for i := 0; i < 16; i++ {
		if abs(result[i]-id[i]) > 0.0001 {
			t.Errorf("M * M^-1 element %d: got %f, want %f", i, result[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular inverse should be identity, got %v", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
