package app

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/rendar/internal/engine/debug"
)

func TestLoopRunsUntilQuit(t *testing.T) {
	f := newFixture(t, true, true, true)
	win := &fakeWindow{}
	rend := &fakeRenderer{}
	loop := &Loop{
		State:    f.state,
		Window:   win,
		Input:    &fakeInput{quitAt: 3, resizeAt: 2},
		Renderer: rend,
	}

	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 3, f.state.Frames())
	assert.Equal(t, 3, rend.begins)
	assert.Equal(t, 3, win.swaps)
	assert.Equal(t, [][2]int{{1600, 900}}, rend.resizes)
}

func TestLoopStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop := &Loop{
		State:    f.state,
		Window:   &fakeWindow{},
		Input:    &fakeInput{quitAt: 100},
		Renderer: &fakeRenderer{},
	}
	require.NoError(t, loop.Run(ctx))
	assert.Zero(t, f.state.Frames())
}

func TestLoopContinuesAfterFrameError(t *testing.T) {
	f := newFixture(t, true, true)
	f.source.failGet = true

	loop := &Loop{
		State:    f.state,
		Window:   &fakeWindow{},
		Input:    &fakeInput{quitAt: 2},
		Renderer: &fakeRenderer{},
	}
	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 2, f.state.Frames())
	assert.Len(t, f.rec.Draws, 2)
}

func TestLoopScreenshotOnF12(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	loop := &Loop{
		State:       f.state,
		Window:      &fakeWindow{},
		Input:       &fakeInput{quitAt: 2, keyAt: map[int]sdl.Scancode{2: sdl.SCANCODE_F12}},
		Renderer:    &fakeRenderer{},
		Screenshots: debug.NewScreenshotCapture(dir, "rendar"),
	}
	require.NoError(t, loop.Run(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
