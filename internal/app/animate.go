package app

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rendar/internal/engine/scene"
	"github.com/Faultbox/rendar/pkg/math"
)

// Animator moves scene objects as a function of elapsed seconds.
type Animator interface {
	Animate(elapsed float32)
}

// AnimatorFunc adapts a function to Animator.
type AnimatorFunc func(elapsed float32)

// Animate calls f.
func (f AnimatorFunc) Animate(elapsed float32) { f(elapsed) }

// OrbitLight swings a light on a fixed path:
// (1 + 2 sin t, 3 + sin(t/2), 0).
type OrbitLight struct {
	Light *scene.Light
}

// Animate implements Animator.
func (o OrbitLight) Animate(t float32) {
	o.Light.Position = math.Vec3{
		X: 1 + math32.Sin(t)*2,
		Y: math32.Sin(t/2) + 3,
		Z: 0,
	}
}

// Spin rotates an object about X at Rate degrees per second while holding a
// fixed 45 degree yaw, the Euler rotation (-t*Rate, 45, 0).
type Spin struct {
	Object *scene.Object
	Rate   float32
}

// Animate implements Animator.
func (s Spin) Animate(t float32) {
	s.Object.SetRotationEuler(-t*s.Rate, 45, 0)
}
