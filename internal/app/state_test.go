package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rendar/internal/engine/gpu/gputest"
	"github.com/Faultbox/rendar/internal/engine/scene"
	"github.com/Faultbox/rendar/internal/engine/shader"
	"github.com/Faultbox/rendar/internal/tracking"
	"github.com/Faultbox/rendar/pkg/math"
)

type fixture struct {
	state  *State
	camera *scene.ARCamera
	source *fakeSource
	engine *fakeEngine
	clock  *fakeClock
	rec    *gputest.Recorder
}

func newFixture(t *testing.T, available ...bool) *fixture {
	t.Helper()
	f := &fixture{
		source: &fakeSource{available: available},
		engine: &fakeEngine{},
		clock:  newFakeClock(),
		rec:    gputest.New(),
	}

	s := scene.New()
	f.camera = scene.NewARCamera(math.Vec3{Y: 3, Z: 3}, 45, 0.1, 100)
	_, err := s.SetCamera(f.camera)
	require.NoError(t, err)
	_, err = s.Add(scene.NewCube(f.rec, shader.NewProgram(f.rec, 1)))
	require.NoError(t, err)

	f.state = NewState(s, f.source, f.engine, tracking.GL)
	f.state.SetClock(f.clock.Now)
	return f
}

func TestStepSkipsTrackingWhenSourceExhausted(t *testing.T) {
	f := newFixture(t, true, true, false, true, true)

	want := []math.Mat4{
		math.Translate(0, 0, -1),
		math.Translate(0, 0, -2),
		math.Translate(0, 0, -2), // frame 3: no images, stale pose
		math.Translate(0, 0, -3),
		math.Translate(0, 0, -4),
	}
	for i, pose := range want {
		f.clock.Advance(16 * time.Millisecond)
		require.NoError(t, f.state.Step(1), "frame %d", i+1)

		got, ok := f.camera.Pose()
		require.True(t, ok)
		assert.Equal(t, pose, got, "frame %d", i+1)
	}

	assert.Equal(t, 4, f.engine.processed)
	assert.Equal(t, 4, f.source.gets)
	assert.Equal(t, 5, f.state.Frames())

	// Rendering went on every frame with the camera's pose as the view.
	require.Len(t, f.rec.Draws, 5)
	views := f.rec.UniformsNamed("view")
	require.Len(t, views, 5)
	for i, pose := range want {
		assert.Equal(t, [16]float32(pose), views[i].Value, "frame %d", i+1)
	}
}

func TestStepAppliesConvention(t *testing.T) {
	f := newFixture(t, true)
	f.state.Convention = tracking.CV

	require.NoError(t, f.state.Step(1))

	got, _ := f.camera.Pose()
	assert.Equal(t, tracking.ToGLView(math.Translate(0, 0, -1)), got)
}

func TestStepRotatingCube(t *testing.T) {
	f := newFixture(t)
	cube := scene.NewObject()
	f.state.Animators = []Animator{Spin{Object: &cube, Rate: 1}}

	f.clock.Advance(2500 * time.Millisecond)
	require.NoError(t, f.state.Step(1))

	assert.InDelta(t, 2.5, f.state.Elapsed(), 1e-6)
	want := math.QuatFromEuler(-2.5, 45, 0)
	assert.InDelta(t, want.X, cube.Rotation.X, 1e-6)
	assert.InDelta(t, want.Y, cube.Rotation.Y, 1e-6)
	assert.InDelta(t, want.Z, cube.Rotation.Z, 1e-6)
	assert.InDelta(t, want.W, cube.Rotation.W, 1e-6)

	f.clock.Advance(500 * time.Millisecond)
	require.NoError(t, f.state.Step(1))
	assert.InDelta(t, 0.5, f.state.Delta(), 1e-6)
	assert.Equal(t, math.QuatFromEuler(-3, 45, 0), cube.Rotation)
}

func TestStepTrackingErrorIsPerFrame(t *testing.T) {
	f := newFixture(t, true, true)
	f.source.failGet = true

	err := f.state.Step(1)
	require.Error(t, err)
	assert.Zero(t, f.engine.processed)
	_, ok := f.camera.Pose()
	assert.False(t, ok)
	assert.Len(t, f.rec.Draws, 1, "the scene still renders")

	f.source.failGet = false
	require.NoError(t, f.state.Step(1))
	assert.Equal(t, 1, f.engine.processed)
}

func TestStepWithoutTrackedCamera(t *testing.T) {
	f := newFixture(t, true)
	plain := scene.NewPerspectiveCamera(math.Vec3{}, 45, 0.1, 100)
	_, err := f.state.Scene.SetCamera(plain)
	require.NoError(t, err)

	require.NoError(t, f.state.Step(1))
	assert.Equal(t, 1, f.engine.processed)
	_, ok := f.camera.Pose()
	assert.False(t, ok)
}

func TestCloseReleasesInReverseOrder(t *testing.T) {
	f := newFixture(t)
	var order []string
	for _, name := range []string{"source", "engine", "window", "scene"} {
		f.state.Own(name, func() error {
			order = append(order, name)
			if name == "engine" {
				return errors.New("busy")
			}
			return nil
		})
	}

	err := f.state.Close()

	assert.Equal(t, []string{"scene", "window", "engine", "source"}, order)
	assert.ErrorContains(t, err, "engine: busy")
	assert.NoError(t, f.state.Close(), "second close is a no-op")
}
