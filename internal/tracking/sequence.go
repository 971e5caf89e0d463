package tracking

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // PNG decoder registration
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration

	"github.com/Faultbox/rendar/internal/logger"
)

// SequenceConfig locates a recorded RGB-D sequence on disk.
type SequenceConfig struct {
	Dir          string
	RGBPattern   string // printf pattern with one integer verb, relative to Dir
	DepthPattern string
	// Calibration is a calibration file; empty uses the default sensor
	// parameters scaled to the image sizes.
	Calibration string
}

// SequenceSource replays numbered image files as if they came from a sensor.
// Frames are numbered from 0 and the sequence ends at the first gap.
type SequenceSource struct {
	cfg       SequenceConfig
	next      int
	rgbSize   image.Point
	depthSize image.Point
	calib     *Calibration
}

var _ ImageSource = (*SequenceSource)(nil)

// OpenSequence opens the sequence. It returns ErrNoDevice when frame 0 does
// not exist.
func OpenSequence(cfg SequenceConfig) (*SequenceSource, error) {
	s := &SequenceSource{cfg: cfg}
	if !s.exists(0) {
		return nil, fmt.Errorf("%w: no frame 0 in %s", ErrNoDevice, cfg.Dir)
	}

	var err error
	if s.rgbSize, err = decodeSize(s.path(cfg.RGBPattern, 0)); err != nil {
		return nil, err
	}
	if s.depthSize, err = decodeSize(s.path(cfg.DepthPattern, 0)); err != nil {
		return nil, err
	}

	if cfg.Calibration != "" {
		if s.calib, err = LoadCalibration(cfg.Calibration); err != nil {
			return nil, err
		}
	} else {
		s.calib = DefaultCalibration().ScaledTo(s.rgbSize, s.depthSize)
	}
	if err := s.calib.Validate(s.rgbSize, s.depthSize); err != nil {
		return nil, err
	}

	logger.Info("image sequence opened",
		zap.String("dir", cfg.Dir),
		zap.Stringer("rgb_size", s.rgbSize),
		zap.Stringer("depth_size", s.depthSize),
	)
	return s, nil
}

func (s *SequenceSource) path(pattern string, n int) string {
	return filepath.Join(s.cfg.Dir, fmt.Sprintf(pattern, n))
}

func (s *SequenceSource) exists(n int) bool {
	for _, pattern := range []string{s.cfg.RGBPattern, s.cfg.DepthPattern} {
		if _, err := os.Stat(s.path(pattern, n)); err != nil {
			return false
		}
	}
	return true
}

// HasMoreImages reports whether the next frame exists.
func (s *SequenceSource) HasMoreImages() bool {
	return s.exists(s.next)
}

// GetImages decodes the next frame into rgb and depth. Depth frames must be
// grayscale; 8-bit depth is widened to 16 bits. A frame that fails to decode
// is still consumed, and the buffers are left untouched.
func (s *SequenceSource) GetImages(rgb *image.RGBA, depth *image.Gray16) error {
	if err := checkBuffers(rgb, depth, s.rgbSize, s.depthSize); err != nil {
		return err
	}
	if !s.HasMoreImages() {
		return ErrExhausted
	}

	n := s.next
	s.next++

	frame, err := s.load(s.cfg.RGBPattern, n, s.rgbSize)
	if err != nil {
		return fmt.Errorf("frame %d: rgb: %w", n, err)
	}
	d, err := s.load(s.cfg.DepthPattern, n, s.depthSize)
	if err != nil {
		return fmt.Errorf("frame %d: depth: %w", n, err)
	}
	switch d.(type) {
	case *image.Gray16, *image.Gray:
	default:
		return fmt.Errorf("frame %d: depth must be grayscale, got %T", n, d)
	}

	draw.Draw(rgb, rgb.Rect, frame, frame.Bounds().Min, draw.Src)
	draw.Draw(depth, depth.Rect, d, d.Bounds().Min, draw.Src)
	return nil
}

func (s *SequenceSource) load(pattern string, n int, size image.Point) (image.Image, error) {
	img, err := decodeFile(s.path(pattern, n))
	if err != nil {
		return nil, err
	}
	if got := img.Bounds().Size(); got != size {
		return nil, fmt.Errorf("size changed to %v", got)
	}
	return img, nil
}

// RGBSize returns the color frame size.
func (s *SequenceSource) RGBSize() image.Point { return s.rgbSize }

// DepthSize returns the depth frame size.
func (s *SequenceSource) DepthSize() image.Point { return s.depthSize }

// Calibration returns the sensor calibration.
func (s *SequenceSource) Calibration() *Calibration { return s.calib }

// Close releases the source. Files are opened per frame, so there is nothing to free.
func (s *SequenceSource) Close() error { return nil }

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func decodeSize(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return image.Point{}, fmt.Errorf("%w: %s", ErrNoDevice, path)
		}
		return image.Point{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}
