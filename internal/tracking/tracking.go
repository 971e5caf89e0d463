// Package tracking connects the renderer to an RGB-D image source and a
// camera tracking engine.
//
// Poses returned by an Engine are world-to-camera matrices, column-major,
// in the computer-vision camera frame: x right, y down, z forward. Convert
// them with Convention.View before handing them to an OpenGL camera.
package tracking

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/rendar/pkg/math"
)

var (
	// ErrNoDevice is returned when no image source is available at startup.
	ErrNoDevice = errors.New("tracking: image source device not found")
	// ErrExhausted is returned by GetImages after the last frame.
	ErrExhausted = errors.New("tracking: image stream exhausted")
)

// ImageSource delivers synchronized RGB and depth frames.
type ImageSource interface {
	// HasMoreImages reports whether GetImages would return a frame.
	HasMoreImages() bool
	// GetImages fills the caller's buffers with the next frame. The buffers
	// must have the sizes reported by RGBSize and DepthSize.
	GetImages(rgb *image.RGBA, depth *image.Gray16) error
	RGBSize() image.Point
	DepthSize() image.Point
	// Calibration is consumed once when the engine is built.
	Calibration() *Calibration
	Close() error
}

// Engine tracks the camera from consecutive frames.
type Engine interface {
	// ProcessFrame consumes one frame and blocks until tracking is done.
	ProcessFrame(rgb *image.RGBA, depth *image.Gray16) error
	// CurrentPose returns the latest world-to-camera estimate.
	CurrentPose() math.Mat4
	Close() error
}

// Convention names the camera frame a pose is expressed in.
type Convention string

const (
	// CV is the vision frame: y down, camera looks down +Z.
	CV Convention = "cv"
	// GL is the OpenGL frame: y up, camera looks down -Z.
	GL Convention = "gl"
)

// ParseConvention validates a configured convention name.
func ParseConvention(s string) (Convention, error) {
	switch c := Convention(s); c {
	case CV, GL:
		return c, nil
	default:
		return "", fmt.Errorf("tracking: unknown pose convention %q", s)
	}
}

// View converts a pose in convention c to an OpenGL view matrix.
func (c Convention) View(pose math.Mat4) math.Mat4 {
	if c == CV {
		return ToGLView(pose)
	}
	return pose
}

// ToGLView turns a vision-frame world-to-camera matrix into an OpenGL view
// matrix by negating the camera's Y and Z axes.
func ToGLView(pose math.Mat4) math.Mat4 {
	flip := math.Scale(1, -1, -1)
	return flip.Mul(pose)
}

// checkBuffers verifies caller buffers against the source sizes.
func checkBuffers(rgb *image.RGBA, depth *image.Gray16, rgbSize, depthSize image.Point) error {
	if rgb == nil || depth == nil {
		return errors.New("tracking: nil image buffer")
	}
	if got := rgb.Rect.Size(); got != rgbSize {
		return fmt.Errorf("tracking: rgb buffer is %v, want %v", got, rgbSize)
	}
	if got := depth.Rect.Size(); got != depthSize {
		return fmt.Errorf("tracking: depth buffer is %v, want %v", got, depthSize)
	}
	return nil
}
