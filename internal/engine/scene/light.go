package scene

import (
	"github.com/Faultbox/rendar/pkg/math"
)

// Light is a point light. Only the first light added to a scene is used for
// shading; the others are kept but do not contribute.
type Light struct {
	Object
	Color math.Vec3
}

// NewLight creates a white light at the origin.
func NewLight() *Light {
	return &Light{
		Object: NewObject(),
		Color:  math.One(),
	}
}
