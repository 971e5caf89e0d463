// Package app wires the tracker, the scene and the animations into the
// per-frame update.
package app

import (
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rendar/internal/engine/scene"
	"github.com/Faultbox/rendar/internal/logger"
	"github.com/Faultbox/rendar/internal/tracking"
)

// State is everything the frame loop mutates. It is built once at startup
// and only touched from the loop's goroutine.
type State struct {
	Scene      *scene.Scene
	Source     tracking.ImageSource
	Engine     tracking.Engine
	Convention tracking.Convention
	Animators  []Animator

	rgb   *image.RGBA
	depth *image.Gray16

	now     func() time.Time
	start   time.Time
	last    time.Time
	elapsed float32
	delta   float32
	frames  int

	closers []closer
}

type closer struct {
	name string
	fn   func() error
}

// NewState creates the frame state. Frame buffers are sized from source.
func NewState(s *scene.Scene, source tracking.ImageSource, engine tracking.Engine, conv tracking.Convention) *State {
	st := &State{
		Scene:      s,
		Source:     source,
		Engine:     engine,
		Convention: conv,
		rgb:        image.NewRGBA(image.Rectangle{Max: source.RGBSize()}),
		depth:      image.NewGray16(image.Rectangle{Max: source.DepthSize()}),
	}
	st.SetClock(time.Now)
	return st
}

// SetClock replaces the time source and restarts elapsed time from zero.
func (st *State) SetClock(now func() time.Time) {
	st.now = now
	st.start = now()
	st.last = st.start
}

// Elapsed returns the seconds since start as of the last Step.
func (st *State) Elapsed() float32 { return st.elapsed }

// Delta returns the duration of the last frame in seconds.
func (st *State) Delta() float32 { return st.delta }

// Frames returns the number of steps taken.
func (st *State) Frames() int { return st.frames }

// Step runs one frame: advance time, track the next image pair if there is
// one, animate, and render the scene. An exhausted source skips tracking
// and the camera keeps its last pose. Errors are per-frame; the state stays
// usable for the next Step.
func (st *State) Step(aspect float32) error {
	now := st.now()
	st.delta = float32(now.Sub(st.last).Seconds())
	st.elapsed = float32(now.Sub(st.start).Seconds())
	st.last = now
	st.frames++

	trackErr := st.track()

	for _, a := range st.Animators {
		a.Animate(st.elapsed)
	}

	return errors.Join(trackErr, st.Scene.Render(aspect))
}

func (st *State) track() error {
	if !st.Source.HasMoreImages() {
		logger.WarnOnce("source:exhausted", "image source exhausted, keeping last pose",
			zap.Int("frame", st.frames),
		)
		return nil
	}
	if err := st.Source.GetImages(st.rgb, st.depth); err != nil {
		return fmt.Errorf("reading images: %w", err)
	}
	if err := st.Engine.ProcessFrame(st.rgb, st.depth); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}

	po, ok := st.Scene.Camera().(scene.PoseOverrider)
	if !ok {
		logger.WarnOnce("camera:untracked", "active camera does not accept tracked poses")
		return nil
	}
	po.SetExternalPose(st.Convention.View(st.Engine.CurrentPose()))
	return nil
}

// Own registers a resource to release on Close. Resources are released in
// reverse registration order, so register them as they are acquired.
func (st *State) Own(name string, fn func() error) {
	st.closers = append(st.closers, closer{name: name, fn: fn})
}

// Close releases every owned resource, newest first, logging failures.
func (st *State) Close() error {
	var errs []error
	for i := len(st.closers) - 1; i >= 0; i-- {
		c := st.closers[i]
		logger.Debug("releasing", zap.String("resource", c.name))
		if err := c.fn(); err != nil {
			logger.Error("release failed", zap.String("resource", c.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	st.closers = nil
	return errors.Join(errs...)
}
