package app

import (
	"errors"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/rendar/internal/tracking"
	"github.com/Faultbox/rendar/pkg/math"
)

var frameSize = image.Pt(8, 6)

// fakeSource reports availability from a per-frame script.
type fakeSource struct {
	available []bool
	checks    int
	gets      int
	failGet   bool
}

func (s *fakeSource) HasMoreImages() bool {
	i := s.checks
	s.checks++
	return i < len(s.available) && s.available[i]
}

func (s *fakeSource) GetImages(rgb *image.RGBA, depth *image.Gray16) error {
	if s.failGet {
		return errors.New("sensor hiccup")
	}
	s.gets++
	return nil
}

func (s *fakeSource) RGBSize() image.Point               { return frameSize }
func (s *fakeSource) DepthSize() image.Point             { return frameSize }
func (s *fakeSource) Calibration() *tracking.Calibration { return tracking.DefaultCalibration() }
func (s *fakeSource) Close() error                       { return nil }

// fakeEngine moves the camera one unit back per processed frame.
type fakeEngine struct {
	processed int
}

func (e *fakeEngine) ProcessFrame(*image.RGBA, *image.Gray16) error {
	e.processed++
	return nil
}

func (e *fakeEngine) CurrentPose() math.Mat4 {
	return math.Translate(0, 0, -float32(e.processed))
}

func (e *fakeEngine) Close() error { return nil }

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeWindow struct {
	swaps int
}

func (w *fakeWindow) SwapBuffers()             { w.swaps++ }
func (w *fakeWindow) DrawableSize() (int, int) { return 1600, 900 }

// fakeInput quits after a fixed number of frames.
type fakeInput struct {
	frames   int
	quitAt   int
	resizeAt int
	keyAt    map[int]sdl.Scancode
}

func (in *fakeInput) Update() bool {
	in.frames++
	return in.frames > in.quitAt
}

func (in *fakeInput) Resized() (int, int, bool) {
	return 1600, 900, in.frames == in.resizeAt
}

func (in *fakeInput) IsKeyPressed(code sdl.Scancode) bool {
	k, ok := in.keyAt[in.frames]
	return ok && k == code
}

type fakeRenderer struct {
	begins  int
	resizes [][2]int
	width   int
	height  int
}

func (r *fakeRenderer) Begin() { r.begins++ }

func (r *fakeRenderer) Resize(w, h int) {
	r.resizes = append(r.resizes, [2]int{w, h})
	r.width, r.height = w, h
}

func (r *fakeRenderer) Aspect() float32 { return 1 }

func (r *fakeRenderer) ReadPixels() ([]byte, int, int) {
	return make([]byte, 2*2*4), 2, 2
}
