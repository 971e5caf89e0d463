package app

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/rendar/internal/engine/scene"
)

func TestOrbitLight(t *testing.T) {
	l := scene.NewLight()
	o := OrbitLight{Light: l}

	o.Animate(0)
	assert.Equal(t, float32(1), l.Position.X)
	assert.Equal(t, float32(3), l.Position.Y)

	o.Animate(math32.Pi)
	assert.InDelta(t, 1, l.Position.X, 1e-5)
	assert.InDelta(t, 4, l.Position.Y, 1e-5)
	assert.Zero(t, l.Position.Z)

	o.Animate(math32.Pi / 2)
	assert.InDelta(t, 3, l.Position.X, 1e-5)
}

func TestSpinRate(t *testing.T) {
	fast := scene.NewObject()
	slow := scene.NewObject()

	Spin{Object: &fast, Rate: 10}.Animate(1)
	Spin{Object: &slow, Rate: 1}.Animate(10)

	assert.Equal(t, fast.Rotation, slow.Rotation)
}

func TestAnimatorFunc(t *testing.T) {
	var got float32
	var a Animator = AnimatorFunc(func(t float32) { got = t })
	a.Animate(1.5)
	assert.Equal(t, float32(1.5), got)
}
