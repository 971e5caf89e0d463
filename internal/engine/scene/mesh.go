package scene

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/rendar/internal/engine/gpu"
	"github.com/Faultbox/rendar/internal/engine/shader"
	"github.com/Faultbox/rendar/internal/logger"
	"github.com/Faultbox/rendar/pkg/math"
)

// Vertex is uploaded verbatim; field order and packing are the buffer layout.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Vertex attribute slots shared with the shaders.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
	AttribTexCoord uint32 = 2
)

// TextureType is the semantic role of a texture bound to a mesh.
type TextureType int

const (
	Diffuse TextureType = iota
	Specular
)

func (t TextureType) String() string {
	switch t {
	case Specular:
		return "specular"
	default:
		return "diffuse"
	}
}

// Texture is a GPU texture tagged with its role.
type Texture struct {
	ID   uint32
	Type TextureType
}

type meshState int

const (
	meshUninitialized meshState = iota
	meshInitialized
	meshFailed
	meshReleased
)

// Mesh is one drawable: geometry, textures, a program and a flat color.
// GPU buffers are created on the first Render and never re-uploaded; geometry
// cannot change afterwards. The mesh owns its buffers and textures.
type Mesh struct {
	Object
	Color     math.Vec3
	Wireframe bool

	dev      gpu.Device
	program  *shader.Program
	vertices []Vertex
	indices  []uint32
	textures []Texture

	state meshState
	err   error
	vao   uint32
	vbo   uint32
	ebo   uint32
}

// NewMesh creates a mesh. indices and textures may be nil.
func NewMesh(dev gpu.Device, program *shader.Program, vertices []Vertex, indices []uint32, textures []Texture) *Mesh {
	return &Mesh{
		Object:   NewObject(),
		Color:    math.One(),
		dev:      dev,
		program:  program,
		vertices: vertices,
		indices:  indices,
		textures: textures,
	}
}

// SetProgram replaces the shading program.
func (m *Mesh) SetProgram(p *shader.Program) {
	m.program = p
}

// Initialized reports whether the GPU buffers exist.
func (m *Mesh) Initialized() bool {
	return m.state == meshInitialized
}

// initBuffers creates the VAO, the vertex buffer and, only when the mesh is
// indexed, the element buffer. On failure everything created so far is freed
// and the mesh stays failed.
func (m *Mesh) initBuffers() error {
	var err error
	if m.vao, err = m.dev.CreateVertexArray(); err != nil {
		return m.fail("vertex array", err)
	}
	if m.vbo, err = m.dev.CreateBuffer(); err != nil {
		return m.fail("vertex buffer", err)
	}
	if len(m.indices) > 0 {
		if m.ebo, err = m.dev.CreateBuffer(); err != nil {
			return m.fail("index buffer", err)
		}
	}

	m.dev.BindVertexArray(m.vao)

	stride := int32(unsafe.Sizeof(Vertex{}))
	m.dev.BufferData(gpu.ArrayBuffer, m.vbo, len(m.vertices)*int(stride), unsafe.Pointer(&m.vertices[0]))
	if m.ebo != 0 {
		m.dev.BufferData(gpu.ElementArrayBuffer, m.ebo, len(m.indices)*4, unsafe.Pointer(&m.indices[0]))
	}

	m.dev.VertexAttrib(gpu.Attrib{Slot: AttribPosition, Size: 3, Stride: stride, Offset: unsafe.Offsetof(Vertex{}.Position)})
	m.dev.VertexAttrib(gpu.Attrib{Slot: AttribNormal, Size: 3, Stride: stride, Offset: unsafe.Offsetof(Vertex{}.Normal)})
	m.dev.VertexAttrib(gpu.Attrib{Slot: AttribTexCoord, Size: 2, Stride: stride, Offset: unsafe.Offsetof(Vertex{}.TexCoord)})

	m.dev.BindVertexArray(0)
	m.state = meshInitialized

	logger.Debug("mesh buffers created",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.vertices)),
		zap.Int("indices", len(m.indices)),
		zap.Uint32("vao", m.vao),
	)
	return nil
}

func (m *Mesh) fail(what string, err error) error {
	m.freeBuffers()
	m.state = meshFailed
	m.err = fmt.Errorf("mesh %q: creating %s: %w", m.Name, what, err)
	return m.err
}

// Render draws the mesh for one frame.
func (m *Mesh) Render(f *Frame) error {
	switch m.state {
	case meshFailed:
		return m.err
	case meshReleased:
		return fmt.Errorf("mesh %q: render after release", m.Name)
	}

	m.program.Use()

	if len(m.vertices) == 0 {
		return nil
	}
	if m.state == meshUninitialized {
		if err := m.initBuffers(); err != nil {
			return err
		}
	}

	// Only one point light is supported; with none the lighting uniforms
	// keep whatever the program last held.
	if f.Light != nil {
		m.program.SetVec3("lightColor", f.Light.Color)
		m.program.SetVec3("lightPos", f.Light.WorldPosition())
		m.program.SetVec3("viewPos", f.Eye)
	}

	m.program.SetVec3("objectColor", m.Color)

	m.program.SetMat4("model", m.WorldTransform())
	m.program.SetMat4("view", f.View)
	m.program.SetMat4("projection", f.Projection)

	m.bindTextures()

	if m.Wireframe {
		m.dev.SetPolygonMode(gpu.Line)
	}

	m.dev.BindVertexArray(m.vao)
	if len(m.indices) > 0 {
		m.dev.DrawElements(int32(len(m.indices)))
	} else {
		m.dev.DrawArrays(int32(len(m.vertices)))
	}
	m.dev.BindVertexArray(0)

	if m.Wireframe {
		m.dev.SetPolygonMode(gpu.Fill)
	}
	return nil
}

// bindTextures binds texture i to unit i and points material.<type><n> at it,
// n counting from 1 per type.
func (m *Mesh) bindTextures() {
	if len(m.textures) == 0 {
		m.dev.ActiveTexture(0)
		m.program.SetInt("textured", 0)
		return
	}

	counts := map[TextureType]int{}
	for i, tex := range m.textures {
		counts[tex.Type]++
		m.dev.ActiveTexture(uint32(i))
		m.program.SetInt(fmt.Sprintf("material.%s%d", tex.Type, counts[tex.Type]), int32(i))
		m.dev.BindTexture2D(tex.ID)
	}

	textured := int32(0)
	if counts[Diffuse] > 0 {
		textured = 1
	}
	m.program.SetInt("textured", textured)
}

func (m *Mesh) freeBuffers() {
	if m.vao != 0 {
		m.dev.DeleteVertexArray(m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		m.dev.DeleteBuffer(m.vbo)
		m.vbo = 0
	}
	if m.ebo != 0 {
		m.dev.DeleteBuffer(m.ebo)
		m.ebo = 0
	}
}

// Release frees the mesh's buffers and textures. Calling it again is a no-op.
func (m *Mesh) Release() {
	if m.state == meshReleased {
		return
	}
	m.freeBuffers()
	for _, tex := range m.textures {
		if tex.ID != 0 {
			m.dev.DeleteTexture(tex.ID)
		}
	}
	m.textures = nil
	m.state = meshReleased
}
