// Package gputest provides a recording gpu.Device for tests that exercise
// the draw protocol without an OpenGL context.
package gputest

import (
	"fmt"
	"unsafe"

	"github.com/Faultbox/rendar/internal/engine/gpu"
)

// Draw is one recorded draw call with the state it was issued under.
type Draw struct {
	Program     uint32
	VertexArray uint32
	Indexed     bool
	Count       int32
	Mode        gpu.PolygonMode
	Textures    map[uint32]uint32 // unit -> texture bound at draw time
}

// Upload is one recorded buffer upload.
type Upload struct {
	Target gpu.BufferTarget
	ID     uint32
	Size   int
}

// UniformWrite is one recorded uniform assignment, resolved back to its name.
type UniformWrite struct {
	Program uint32
	Name    string
	Value   any // int32, [3]float32 or [16]float32
}

// Recorder implements gpu.Device by recording every call.
type Recorder struct {
	// FailAllocations makes every Create* call fail with gpu.ErrAllocation.
	FailAllocations bool
	// Missing lists uniform names reported as inactive (location -1).
	Missing map[string]bool

	Allocations int
	Live        map[uint32]string // object name -> kind, for objects not yet deleted
	Deletions   []uint32
	Uploads     []Upload
	Attribs     []gpu.Attrib
	Uniforms    []UniformWrite
	Draws       []Draw
	ModeChanges []gpu.PolygonMode

	next      uint32
	program   uint32
	vao       uint32
	unit      uint32
	mode      gpu.PolygonMode
	bound     map[uint32]uint32
	locations map[uint32][]string
}

var _ gpu.Device = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		Missing:   map[string]bool{},
		Live:      map[uint32]string{},
		bound:     map[uint32]uint32{},
		locations: map[uint32][]string{},
	}
}

func (r *Recorder) create(kind string) (uint32, error) {
	if r.FailAllocations {
		return 0, gpu.ErrAllocation
	}
	r.next++
	r.Allocations++
	r.Live[r.next] = kind
	return r.next, nil
}

func (r *Recorder) CreateVertexArray() (uint32, error) { return r.create("vao") }
func (r *Recorder) CreateBuffer() (uint32, error)      { return r.create("buffer") }
func (r *Recorder) CreateTexture() (uint32, error)     { return r.create("texture") }

func (r *Recorder) delete(id uint32) {
	delete(r.Live, id)
	r.Deletions = append(r.Deletions, id)
}

func (r *Recorder) DeleteVertexArray(id uint32) { r.delete(id) }
func (r *Recorder) DeleteBuffer(id uint32)      { r.delete(id) }
func (r *Recorder) DeleteTexture(id uint32)     { r.delete(id) }

func (r *Recorder) BindVertexArray(id uint32) { r.vao = id }

func (r *Recorder) BufferData(target gpu.BufferTarget, id uint32, size int, _ unsafe.Pointer) {
	r.Uploads = append(r.Uploads, Upload{Target: target, ID: id, Size: size})
}

func (r *Recorder) VertexAttrib(a gpu.Attrib) { r.Attribs = append(r.Attribs, a) }

func (r *Recorder) TexImage2D(id uint32, width, height int32, rgba []byte) {
	r.Uploads = append(r.Uploads, Upload{ID: id, Size: len(rgba)})
}

func (r *Recorder) UseProgram(program uint32) { r.program = program }

// DeleteProgram records program in Deletions like any other object.
func (r *Recorder) DeleteProgram(program uint32) { r.delete(program) }

// UniformLocation hands out stable per-program locations starting at 0.
func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	if r.Missing[name] {
		return -1
	}
	names := r.locations[program]
	for i, n := range names {
		if n == name {
			return int32(i)
		}
	}
	r.locations[program] = append(names, name)
	return int32(len(names))
}

func (r *Recorder) record(loc int32, v any) {
	if loc < 0 {
		return
	}
	names := r.locations[r.program]
	if int(loc) >= len(names) {
		panic(fmt.Sprintf("gputest: location %d not issued for program %d", loc, r.program))
	}
	r.Uniforms = append(r.Uniforms, UniformWrite{Program: r.program, Name: names[loc], Value: v})
}

func (r *Recorder) Uniform1i(loc int32, v int32)             { r.record(loc, v) }
func (r *Recorder) Uniform3f(loc int32, x, y, z float32)     { r.record(loc, [3]float32{x, y, z}) }
func (r *Recorder) UniformMatrix4(loc int32, m *[16]float32) { r.record(loc, *m) }

func (r *Recorder) ActiveTexture(unit uint32) { r.unit = unit }

func (r *Recorder) BindTexture2D(id uint32) { r.bound[r.unit] = id }

func (r *Recorder) SetPolygonMode(mode gpu.PolygonMode) {
	r.mode = mode
	r.ModeChanges = append(r.ModeChanges, mode)
}

func (r *Recorder) draw(indexed bool, count int32) {
	textures := make(map[uint32]uint32, len(r.bound))
	for unit, id := range r.bound {
		textures[unit] = id
	}
	r.Draws = append(r.Draws, Draw{
		Program:     r.program,
		VertexArray: r.vao,
		Indexed:     indexed,
		Count:       count,
		Mode:        r.mode,
		Textures:    textures,
	})
}

func (r *Recorder) DrawArrays(count int32)   { r.draw(false, count) }
func (r *Recorder) DrawElements(count int32) { r.draw(true, count) }

// Mode returns the current polygon mode.
func (r *Recorder) Mode() gpu.PolygonMode { return r.mode }

// UniformsNamed returns the recorded writes to name, in call order.
func (r *Recorder) UniformsNamed(name string) []UniformWrite {
	var out []UniformWrite
	for _, u := range r.Uniforms {
		if u.Name == name {
			out = append(out, u)
		}
	}
	return out
}

// Reset clears the recorded calls but keeps live objects and locations.
func (r *Recorder) Reset() {
	r.Uploads = nil
	r.Attribs = nil
	r.Uniforms = nil
	r.Draws = nil
	r.ModeChanges = nil
	r.Deletions = nil
}
