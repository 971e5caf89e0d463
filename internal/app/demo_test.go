package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rendar/internal/config"
	"github.com/Faultbox/rendar/internal/engine/gpu"
	"github.com/Faultbox/rendar/internal/engine/gpu/gputest"
	"github.com/Faultbox/rendar/internal/engine/scene"
	"github.com/Faultbox/rendar/internal/engine/shader"
	"github.com/Faultbox/rendar/pkg/math"
)

func buildTestDemo(t *testing.T, rec *gputest.Recorder, textures ...scene.Texture) *Demo {
	t.Helper()
	cfg := config.Default()
	progs := Programs{Lit: shader.NewProgram(rec, 1), Flat: shader.NewProgram(rec, 2)}
	d, err := BuildDemo(rec, progs, cfg.Camera, cfg.Scene, textures)
	require.NoError(t, err)
	return d
}

func TestBuildDemo(t *testing.T) {
	rec := gputest.New()
	d := buildTestDemo(t, rec)

	// camera, light, floor, two cubes, wire cube
	assert.Equal(t, 6, d.Scene.Len())
	assert.Equal(t, scene.Camera(d.Camera), d.Scene.Camera())
	assert.Equal(t, math.Vec3{X: 0, Y: 3, Z: 3}, d.Camera.Eye())
	require.Len(t, d.Scene.Lights(), 1)
	assert.Same(t, &d.Spinner.Object, d.WireCube.Parent())
	assert.Len(t, d.Animators, 2)

	require.NoError(t, d.Scene.Render(16.0/9.0))

	require.Len(t, rec.Draws, 4)
	wire := rec.Draws[3]
	assert.Equal(t, uint32(2), wire.Program)
	assert.Equal(t, gpu.Line, wire.Mode)
	assert.Equal(t, gpu.Fill, rec.Mode())
	for _, draw := range rec.Draws[:3] {
		assert.Equal(t, uint32(1), draw.Program)
		assert.Equal(t, gpu.Fill, draw.Mode)
	}
}

func TestBuildDemoFloorTexture(t *testing.T) {
	rec := gputest.New()
	d := buildTestDemo(t, rec, scene.Texture{ID: 42, Type: scene.Diffuse})
	require.NoError(t, d.Scene.Render(1))

	require.NotEmpty(t, rec.Draws)
	assert.Equal(t, uint32(42), rec.Draws[0].Textures[0])
	textured := rec.UniformsNamed("textured")
	require.Len(t, textured, 4)
	assert.Equal(t, int32(1), textured[0].Value)
	assert.Equal(t, int32(0), textured[1].Value)
}

func TestDemoWireCubeFollowsSpinner(t *testing.T) {
	d := buildTestDemo(t, gputest.New())
	before := d.WireCube.WorldPosition()

	for _, a := range d.Animators {
		a.Animate(1)
	}

	assert.NotEqual(t, before, d.WireCube.WorldPosition())
	assert.Equal(t, math.Vec3{X: -1, Y: 0.4, Z: -3}, d.WireCube.Position, "local transform untouched")
}

func TestBuildDemoFreesTexturesOnFailure(t *testing.T) {
	rec := gputest.New()
	id, err := rec.CreateTexture()
	require.NoError(t, err)

	cfg := config.Default()
	progs := Programs{Lit: shader.NewProgram(rec, 1)}
	_, err = BuildDemo(rec, progs, cfg.Camera, cfg.Scene, []scene.Texture{{ID: id, Type: scene.Diffuse}})

	require.Error(t, err)
	assert.Equal(t, []uint32{id}, rec.Deletions)
	assert.Empty(t, rec.Live)
}
