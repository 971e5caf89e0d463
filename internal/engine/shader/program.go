package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rendar/internal/engine/gpu"
	"github.com/Faultbox/rendar/internal/logger"
	"github.com/Faultbox/rendar/pkg/math"
)

// Program is a linked shader program with a cache of uniform locations.
// A uniform the program does not declare is reported once and then ignored.
type Program struct {
	dev       gpu.Device
	id        uint32
	locations map[string]int32
}

// NewProgram wraps an already linked program object.
func NewProgram(dev gpu.Device, id uint32) *Program {
	return &Program{
		dev:       dev,
		id:        id,
		locations: make(map[string]int32),
	}
}

// Load compiles and links the sources against the current GL context.
func Load(dev gpu.Device, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return NewProgram(dev, id), nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// Use makes the program current. Must precede any uniform write of a draw.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Location returns the cached location of name, -1 when inactive.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	if loc < 0 {
		logger.WarnOnce(fmt.Sprintf("uniform:%d:%s", p.id, name), "uniform not found",
			zap.Uint32("program", p.id),
			zap.String("name", name),
		)
	}
	return loc
}

// SetInt assigns an int (or sampler unit) uniform.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.Uniform1i(loc, v)
	}
}

// SetVec3 assigns a vec3 uniform.
func (p *Program) SetVec3(name string, v math.Vec3) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.Uniform3f(loc, v.X, v.Y, v.Z)
	}
}

// SetMat4 assigns a mat4 uniform.
func (p *Program) SetMat4(name string, m math.Mat4) {
	if loc := p.Location(name); loc >= 0 {
		arr := [16]float32(m)
		p.dev.UniformMatrix4(loc, &arr)
	}
}

// Delete frees the GL program. Later calls do nothing.
func (p *Program) Delete() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
	clear(p.locations)
}
