package app

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rendar/internal/config"
	"github.com/Faultbox/rendar/internal/engine/gpu"
	"github.com/Faultbox/rendar/internal/engine/scene"
	"github.com/Faultbox/rendar/internal/engine/shader"
	"github.com/Faultbox/rendar/pkg/math"
)

// Programs are the shading programs the demo scene draws with.
type Programs struct {
	Lit  *shader.Program
	Flat *shader.Program
}

// Demo is the default AR scene and handles to its animated parts.
type Demo struct {
	Scene     *scene.Scene
	Camera    *scene.ARCamera
	Light     *scene.Light
	Spinner   *scene.Mesh
	WireCube  *scene.Mesh
	Animators []Animator
}

// BuildDemo populates a scene with a floor, two cubes, a wireframe cube
// riding on the spinning one and an orbiting light. floorTextures may be nil;
// the demo owns them from the call on and frees them if building fails.
func BuildDemo(dev gpu.Device, progs Programs, cam config.CameraConfig, sc config.SceneConfig, floorTextures []scene.Texture) (_ *Demo, err error) {
	if progs.Lit == nil || progs.Flat == nil {
		for _, tex := range floorTextures {
			dev.DeleteTexture(tex.ID)
		}
		return nil, errors.New("demo needs both lit and flat programs")
	}

	d := &Demo{Scene: scene.New()}
	var meshes []*scene.Mesh
	defer func() {
		if err != nil {
			d.Scene.Close()
			for _, m := range meshes {
				m.Release()
			}
		}
	}()

	d.Camera = scene.NewARCamera(vec3(cam.Position), cam.FOV, cam.Near, cam.Far)
	d.Camera.Name = "camera"
	if _, err := d.Scene.SetCamera(d.Camera); err != nil {
		return nil, err
	}

	d.Light = scene.NewLight()
	d.Light.Name = "light"
	d.Light.Position = math.Vec3{X: 0, Y: 3, Z: -2}

	floor := scene.NewCube(dev, progs.Lit, floorTextures...)
	floor.Name = "floor"
	floor.Color = math.Vec3{X: 0.3, Y: 0.3, Z: 0.35}
	floor.Scale = math.Vec3{X: 20, Y: 0.2, Z: 20}
	floor.Position = math.Vec3{X: 0, Y: -3, Z: 0}

	still := scene.NewCube(dev, progs.Lit)
	still.Name = "cube"
	still.Position = math.Vec3{X: -1, Y: 1.5, Z: 2}
	still.Color = math.Vec3{X: 0.2, Y: 0.2, Z: 0.6}

	d.Spinner = scene.NewCube(dev, progs.Lit)
	d.Spinner.Name = "spinner"
	d.Spinner.Position = math.Vec3{X: -1.5, Y: 0, Z: -2}

	d.WireCube = scene.NewCube(dev, progs.Flat)
	d.WireCube.Name = "wire cube"
	d.WireCube.Position = math.Vec3{X: -1, Y: 0.4, Z: -3}
	d.WireCube.Color = math.Vec3{X: 0.9, Y: 0.1, Z: 0.45}
	d.WireCube.Wireframe = true
	meshes = []*scene.Mesh{floor, still, d.Spinner, d.WireCube}

	for _, n := range []scene.Node{floor, still, d.Light} {
		if _, err := d.Scene.Add(n); err != nil {
			return nil, err
		}
	}
	spinner, err := d.Scene.Add(d.Spinner)
	if err != nil {
		return nil, err
	}
	wire, err := d.Scene.Add(d.WireCube)
	if err != nil {
		return nil, err
	}
	if err := d.Scene.SetParent(wire, spinner); err != nil {
		return nil, fmt.Errorf("parenting wire cube: %w", err)
	}

	d.Animators = []Animator{
		OrbitLight{Light: d.Light},
		Spin{Object: &d.Spinner.Object, Rate: sc.SpinRate},
	}
	return d, nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
