package tracking

import (
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"
)

// Intrinsics are pinhole parameters of one sensor, in pixels.
type Intrinsics struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Fx     float32 `yaml:"fx"`
	Fy     float32 `yaml:"fy"`
	Cx     float32 `yaml:"cx"`
	Cy     float32 `yaml:"cy"`
}

// Size returns the image size the intrinsics were calibrated for.
func (in Intrinsics) Size() image.Point {
	return image.Pt(in.Width, in.Height)
}

// Calibration describes the RGB-D sensor pair.
type Calibration struct {
	RGB   Intrinsics `yaml:"rgb"`
	Depth Intrinsics `yaml:"depth"`
	// DepthScale converts raw depth units to meters.
	DepthScale float32 `yaml:"depth_scale"`
}

// DefaultCalibration returns parameters of a 640x480 structured-light sensor.
func DefaultCalibration() *Calibration {
	vga := Intrinsics{Width: 640, Height: 480, Fx: 525, Fy: 525, Cx: 319.5, Cy: 239.5}
	return &Calibration{
		RGB:        vga,
		Depth:      vga,
		DepthScale: 0.001,
	}
}

// LoadCalibration reads a calibration file. Missing fields keep their defaults.
func LoadCalibration(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultCalibration()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing calibration %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the calibration against the actual image sizes.
func (c *Calibration) Validate(rgbSize, depthSize image.Point) error {
	if c.RGB.Size() != rgbSize {
		return fmt.Errorf("calibration: rgb calibrated for %v, images are %v", c.RGB.Size(), rgbSize)
	}
	if c.Depth.Size() != depthSize {
		return fmt.Errorf("calibration: depth calibrated for %v, images are %v", c.Depth.Size(), depthSize)
	}
	for _, in := range []Intrinsics{c.RGB, c.Depth} {
		if in.Fx <= 0 || in.Fy <= 0 {
			return fmt.Errorf("calibration: focal length must be positive, got fx=%v fy=%v", in.Fx, in.Fy)
		}
	}
	if c.DepthScale <= 0 {
		return fmt.Errorf("calibration: depth scale must be positive, got %v", c.DepthScale)
	}
	return nil
}

// ScaledTo returns a copy with each sensor's intrinsics rescaled to the
// given image size.
func (c *Calibration) ScaledTo(rgbSize, depthSize image.Point) *Calibration {
	out := *c
	out.RGB = c.RGB.scaled(rgbSize)
	out.Depth = c.Depth.scaled(depthSize)
	return &out
}

func (in Intrinsics) scaled(size image.Point) Intrinsics {
	if in.Width <= 0 || in.Height <= 0 || size == in.Size() {
		return in
	}
	sx := float32(size.X) / float32(in.Width)
	sy := float32(size.Y) / float32(in.Height)
	return Intrinsics{
		Width:  size.X,
		Height: size.Y,
		Fx:     in.Fx * sx,
		Fy:     in.Fy * sy,
		Cx:     in.Cx * sx,
		Cy:     in.Cy * sy,
	}
}
