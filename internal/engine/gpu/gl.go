package gpu

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GL is the Device backed by the current OpenGL 4.1 core context.
// Must only be used after gl.Init on the thread owning the context.
type GL struct{}

// NewGL returns a Device for the current context.
func NewGL() *GL {
	return &GL{}
}

func (GL) CreateVertexArray() (uint32, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, ErrAllocation
	}
	return id, nil
}

func (GL) CreateBuffer() (uint32, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, ErrAllocation
	}
	return id, nil
}

func (GL) CreateTexture() (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, ErrAllocation
	}
	return id, nil
}

func (GL) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (GL) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (GL) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (GL) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

// BufferData binds id to target and uploads size bytes with STATIC_DRAW.
// The element buffer binding is recorded in the currently bound VAO.
func (GL) BufferData(target BufferTarget, id uint32, size int, data unsafe.Pointer) {
	t := uint32(gl.ARRAY_BUFFER)
	if target == ElementArrayBuffer {
		t = gl.ELEMENT_ARRAY_BUFFER
	}
	gl.BindBuffer(t, id)
	gl.BufferData(t, size, data, gl.STATIC_DRAW)
}

func (GL) VertexAttrib(a Attrib) {
	gl.EnableVertexAttribArray(a.Slot)
	gl.VertexAttribPointerWithOffset(a.Slot, a.Size, gl.FLOAT, false, a.Stride, a.Offset)
}

func (GL) TexImage2D(id uint32, width, height int32, rgba []byte) {
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
}

func (GL) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (GL) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (GL) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (GL) Uniform3f(loc int32, x, y, z float32) {
	gl.Uniform3f(loc, x, y, z)
}

func (GL) UniformMatrix4(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (GL) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (GL) BindTexture2D(id uint32) {
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (GL) SetPolygonMode(mode PolygonMode) {
	if mode == Line {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (GL) DrawArrays(count int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (GL) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}
