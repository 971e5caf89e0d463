package app

import (
	"context"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/rendar/internal/engine/debug"
	"github.com/Faultbox/rendar/internal/logger"
)

// Window presents frames.
type Window interface {
	SwapBuffers()
	DrawableSize() (int, int)
}

// Input reports the events of one frame.
type Input interface {
	// Update polls events and reports whether the user asked to quit.
	Update() bool
	Resized() (width, height int, ok bool)
	IsKeyPressed(sdl.Scancode) bool
}

// Renderer prepares the framebuffer for each frame.
type Renderer interface {
	Begin()
	Resize(width, height int)
	Aspect() float32
	ReadPixels() (pixels []byte, width, height int)
}

// Loop drives State once per displayed frame.
type Loop struct {
	State    *State
	Window   Window
	Input    Input
	Renderer Renderer
	// Screenshots, when set, saves the framebuffer on F12.
	Screenshots *debug.ScreenshotCapture
}

// Run steps the state until the input requests a quit or ctx is done.
// Cancellation is checked between frames only. Frame errors are logged and
// the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	logger.Info("starting frame loop")

	frameCount := 0
	fpsTimer := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			logger.Info("frame loop cancelled")
			return nil
		}
		if l.Input.Update() {
			logger.Info("quit requested")
			return nil
		}
		if _, _, ok := l.Input.Resized(); ok {
			l.Renderer.Resize(l.Window.DrawableSize())
		}

		l.Renderer.Begin()
		if err := l.State.Step(l.Renderer.Aspect()); err != nil {
			logger.Error("frame failed", zap.Int("frame", l.State.Frames()), zap.Error(err))
		}

		if l.Screenshots != nil && l.Input.IsKeyPressed(sdl.SCANCODE_F12) {
			l.screenshot()
		}

		l.Window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("dt_ms", l.State.Delta()*1000),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

func (l *Loop) screenshot() {
	pixels, w, h := l.Renderer.ReadPixels()
	path, err := l.Screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
