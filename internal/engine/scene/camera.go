package scene

import (
	"github.com/Faultbox/rendar/pkg/math"
)

// Camera is a node that provides the view and projection for a frame.
type Camera interface {
	Node
	ViewMatrix() math.Mat4
	ProjectionMatrix(aspect float32) math.Mat4
	// Eye returns the camera position in world space.
	Eye() math.Vec3
}

// PoseOverrider is implemented by cameras whose view is driven by an external
// tracker. The frame loop narrows the active camera to it with a type assertion.
type PoseOverrider interface {
	// SetExternalPose replaces the view matrix outright; no smoothing is applied.
	SetExternalPose(view math.Mat4)
}

// PerspectiveCamera is a camera whose view follows its own world transform.
// With an identity rotation it looks down -Z with +Y up.
type PerspectiveCamera struct {
	Object
	FOV  float32 // Vertical field of view, degrees
	Near float32
	Far  float32
}

// NewPerspectiveCamera creates a camera at position.
func NewPerspectiveCamera(position math.Vec3, fov, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Object: NewObject(),
		FOV:    fov,
		Near:   near,
		Far:    far,
	}
	c.Position = position
	return c
}

// ViewMatrix returns the inverse of the camera's world transform.
func (c *PerspectiveCamera) ViewMatrix() math.Mat4 {
	return c.WorldTransform().Inverse()
}

// ProjectionMatrix returns a perspective projection for the given aspect ratio.
func (c *PerspectiveCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.Radians(c.FOV), aspect, c.Near, c.Far)
}

// Eye returns the camera's world position.
func (c *PerspectiveCamera) Eye() math.Vec3 {
	return c.WorldPosition()
}

// ARCamera is a perspective camera slaved to a tracker. Once a pose has been
// supplied it is used verbatim as the view matrix and kept until the next one.
type ARCamera struct {
	PerspectiveCamera
	pose    math.Mat4
	hasPose bool
}

var _ PoseOverrider = (*ARCamera)(nil)

// NewARCamera creates a tracked camera. Until the first pose arrives it
// behaves like a PerspectiveCamera at position.
func NewARCamera(position math.Vec3, fov, near, far float32) *ARCamera {
	return &ARCamera{
		PerspectiveCamera: *NewPerspectiveCamera(position, fov, near, far),
	}
}

// SetExternalPose sets the world-to-camera matrix, in the renderer's
// column-major OpenGL convention (camera looks down -Z, +Y up).
func (c *ARCamera) SetExternalPose(view math.Mat4) {
	c.pose = view
	c.hasPose = true
}

// Pose returns the last external pose and whether one was ever set.
func (c *ARCamera) Pose() (math.Mat4, bool) {
	return c.pose, c.hasPose
}

// ViewMatrix returns the external pose if one was set.
func (c *ARCamera) ViewMatrix() math.Mat4 {
	if c.hasPose {
		return c.pose
	}
	return c.PerspectiveCamera.ViewMatrix()
}

// Eye returns the camera center implied by the current view.
func (c *ARCamera) Eye() math.Vec3 {
	if c.hasPose {
		return c.pose.Inverse().Translation()
	}
	return c.PerspectiveCamera.Eye()
}
