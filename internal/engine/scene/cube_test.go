package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/rendar/pkg/math"
)

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func TestCubeVertices(t *testing.T) {
	verts := CubeVertices()
	assert.Len(t, verts, 36)

	for i := 0; i < len(verts); i += 3 {
		a, b, c := vec(verts[i].Position), vec(verts[i+1].Position), vec(verts[i+2].Position)
		n := vec(verts[i].Normal)

		assert.InDelta(t, 1, n.Length(), 1e-6)
		// Counter-clockwise when seen from outside.
		face := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, face.Dot(n), float32(0), "triangle %d winding", i/3)

		for _, v := range verts[i : i+3] {
			for _, p := range v.Position {
				assert.InDelta(t, 0.5, abs(p), 1e-6)
			}
			for _, uv := range v.TexCoord {
				assert.True(t, uv == 0 || uv == 1)
			}
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
