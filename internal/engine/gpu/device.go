// Package gpu defines the slice of OpenGL the scene layer talks to.
//
// Meshes, programs and textures never call gl directly; they go through a
// Device so the draw protocol can be exercised without a GL context.
package gpu

import (
	"errors"
	"unsafe"
)

// ErrAllocation is returned when the driver hands back a zero object name.
var ErrAllocation = errors.New("gpu: resource allocation failed")

// BufferTarget selects the binding point of a buffer upload.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// PolygonMode is the rasterization mode for front and back faces.
type PolygonMode int

const (
	Fill PolygonMode = iota
	Line
)

// Attrib describes one float vertex attribute in an interleaved buffer.
type Attrib struct {
	Slot   uint32
	Size   int32 // Component count
	Stride int32 // Bytes between consecutive vertices
	Offset uintptr
}

// Device is the GL surface used by the renderer core.
// Uniform locations of -1 are accepted everywhere and ignored, matching GL.
type Device interface {
	CreateVertexArray() (uint32, error)
	CreateBuffer() (uint32, error)
	CreateTexture() (uint32, error)
	DeleteVertexArray(id uint32)
	DeleteBuffer(id uint32)
	DeleteTexture(id uint32)

	BindVertexArray(id uint32)
	BufferData(target BufferTarget, id uint32, size int, data unsafe.Pointer)
	VertexAttrib(a Attrib)
	TexImage2D(id uint32, width, height int32, rgba []byte)

	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform3f(loc int32, x, y, z float32)
	UniformMatrix4(loc int32, m *[16]float32)

	ActiveTexture(unit uint32)
	BindTexture2D(id uint32)
	SetPolygonMode(mode PolygonMode)

	DrawArrays(count int32)
	DrawElements(count int32)
}
