package scene

import (
	"github.com/Faultbox/rendar/internal/engine/gpu"
	"github.com/Faultbox/rendar/internal/engine/shader"
)

// cubeFaces lists each face of the unit cube as its outward normal and the
// two in-plane axes (u, v) such that u x v = normal.
var cubeFaces = [6][3][3]float32{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},   // front
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}}, // back
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},  // right
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},  // left
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},  // top
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},  // bottom
}

// CubeVertices returns the 36 vertices of a unit cube centered on the origin,
// two counter-clockwise triangles per face, with face normals and 0..1 texcoords.
func CubeVertices() []Vertex {
	corners := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	order := [6]int{0, 1, 2, 2, 3, 0}

	vertices := make([]Vertex, 0, 36)
	for _, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		for _, c := range order {
			s, t := corners[c][0], corners[c][1]
			var p [3]float32
			for i := 0; i < 3; i++ {
				p[i] = 0.5*n[i] + (s-0.5)*u[i] + (t-0.5)*v[i]
			}
			vertices = append(vertices, Vertex{
				Position: p,
				Normal:   n,
				TexCoord: [2]float32{s, t},
			})
		}
	}
	return vertices
}

// NewCube creates a unit cube mesh drawn without an index buffer.
func NewCube(dev gpu.Device, program *shader.Program, textures ...Texture) *Mesh {
	m := NewMesh(dev, program, CubeVertices(), nil, textures)
	m.Name = "cube"
	return m
}
