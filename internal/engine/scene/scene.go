// Package scene provides the object arena, meshes, lights and cameras that
// make up one rendered frame.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/rendar/internal/logger"
	"github.com/Faultbox/rendar/pkg/math"
)

var (
	// ErrStaleHandle is returned for handles whose object was removed.
	ErrStaleHandle = errors.New("scene: stale handle")
	// ErrForeignObject is returned when adding an object that already belongs to a scene.
	ErrForeignObject = errors.New("scene: object already belongs to a scene")
	// ErrParentCycle is returned when a parent link would make an object its own ancestor.
	ErrParentCycle = errors.New("scene: parent cycle")
	// ErrNoCamera is returned by Render when no camera was set.
	ErrNoCamera = errors.New("scene: no active camera")
)

// Frame carries the per-frame state a drawable needs: the active camera's
// matrices and eye, and the light used for shading.
type Frame struct {
	View       math.Mat4
	Projection math.Mat4
	Eye        math.Vec3
	// Light is the first light of the scene, nil when the scene has none.
	Light *Light
}

// Drawable is a node that issues draw calls.
type Drawable interface {
	Node
	Render(f *Frame) error
}

// Releaser is a node holding GPU resources that must be freed with it.
type Releaser interface {
	Release()
}

type slot struct {
	node Node
	gen  uint32
}

// Scene owns every object added to it. Objects are addressed by Handle;
// parent links are handles too, so removing an object can never leave a
// dangling parent. A Scene is not safe for concurrent use.
type Scene struct {
	slots []slot
	free  []uint32
	order []Handle // insertion order, used for teardown

	drawables []Handle
	lights    []Handle
	camera    Camera

	disabled map[Handle]bool
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		disabled: make(map[Handle]bool),
	}
}

// Add takes ownership of n and returns its handle. Drawables join the render
// list and lights the light list, both in insertion order.
func (s *Scene) Add(n Node) (Handle, error) {
	o := n.object()
	if o.scene != nil {
		return Handle{}, ErrForeignObject
	}

	var idx uint32
	if len(s.free) > 0 {
		idx = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
		s.slots[idx].node = n
	} else {
		s.slots = append(s.slots, slot{node: n})
		idx = uint32(len(s.slots) - 1)
	}

	h := Handle{index: idx + 1, gen: s.slots[idx].gen}
	o.handle = h
	o.scene = s
	s.order = append(s.order, h)

	if _, ok := n.(Drawable); ok {
		s.drawables = append(s.drawables, h)
	}
	if _, ok := n.(*Light); ok {
		s.lights = append(s.lights, h)
	}
	return h, nil
}

// Get returns the node addressed by h.
func (s *Scene) Get(h Handle) (Node, bool) {
	if !h.Valid() || int(h.index) > len(s.slots) {
		return nil, false
	}
	sl := s.slots[h.index-1]
	if sl.node == nil || sl.gen != h.gen {
		return nil, false
	}
	return sl.node, true
}

// SetParent links child under parent. A zero parent handle detaches the child.
func (s *Scene) SetParent(child, parent Handle) error {
	cn, ok := s.Get(child)
	if !ok {
		return fmt.Errorf("child: %w", ErrStaleHandle)
	}
	if !parent.Valid() {
		cn.object().parent = Handle{}
		return nil
	}
	if _, ok := s.Get(parent); !ok {
		return fmt.Errorf("parent: %w", ErrStaleHandle)
	}

	for h := parent; h.Valid(); {
		if h == child {
			return ErrParentCycle
		}
		n, ok := s.Get(h)
		if !ok {
			break
		}
		h = n.object().parent
	}

	cn.object().parent = parent
	return nil
}

// Remove releases the object addressed by h. Its children are detached and
// keep their local transforms. The handle and any copies of it go stale.
func (s *Scene) Remove(h Handle) error {
	n, ok := s.Get(h)
	if !ok {
		return ErrStaleHandle
	}

	for _, sl := range s.slots {
		if sl.node != nil && sl.node.object().parent == h {
			sl.node.object().parent = Handle{}
		}
	}

	s.drawables = without(s.drawables, h)
	s.lights = without(s.lights, h)
	s.order = without(s.order, h)
	delete(s.disabled, h)
	if cam, ok := n.(Camera); ok && cam == s.camera {
		s.camera = nil
	}

	s.release(n)

	idx := h.index - 1
	s.slots[idx] = slot{gen: s.slots[idx].gen + 1}
	s.free = append(s.free, idx)
	return nil
}

func (s *Scene) release(n Node) {
	if r, ok := n.(Releaser); ok {
		r.Release()
	}
	o := n.object()
	o.scene = nil
	o.handle = Handle{}
	o.parent = Handle{}
}

func without(hs []Handle, h Handle) []Handle {
	for i, x := range hs {
		if x == h {
			return append(hs[:i], hs[i+1:]...)
		}
	}
	return hs
}

// SetCamera makes c the active camera, adding it to the scene if needed.
func (s *Scene) SetCamera(c Camera) (Handle, error) {
	o := c.object()
	if o.scene != nil && o.scene != s {
		return Handle{}, ErrForeignObject
	}
	if o.scene == nil {
		if _, err := s.Add(c); err != nil {
			return Handle{}, err
		}
	}
	s.camera = c
	return o.handle, nil
}

// Camera returns the active camera, nil if none was set.
func (s *Scene) Camera() Camera {
	return s.camera
}

// Lights returns the scene lights in insertion order.
func (s *Scene) Lights() []*Light {
	lights := make([]*Light, 0, len(s.lights))
	for _, h := range s.lights {
		if n, ok := s.Get(h); ok {
			lights = append(lights, n.(*Light))
		}
	}
	return lights
}

// Len returns the number of objects in the scene.
func (s *Scene) Len() int {
	return len(s.order)
}

// Render draws every drawable with the active camera. Only the first light
// contributes to shading. A drawable that fails is logged, disabled for the
// rest of the scene's life, and its error returned joined with the others;
// the remaining drawables still render.
func (s *Scene) Render(aspect float32) error {
	if s.camera == nil {
		return ErrNoCamera
	}

	f := &Frame{
		View:       s.camera.ViewMatrix(),
		Projection: s.camera.ProjectionMatrix(aspect),
		Eye:        s.camera.Eye(),
	}
	if len(s.lights) > 0 {
		if n, ok := s.Get(s.lights[0]); ok {
			f.Light = n.(*Light)
		}
	}

	var errs []error
	for _, h := range s.drawables {
		if s.disabled[h] {
			continue
		}
		n, ok := s.Get(h)
		if !ok {
			continue
		}
		if err := n.(Drawable).Render(f); err != nil {
			s.disabled[h] = true
			logger.Error("drawable disabled",
				zap.String("name", n.object().Name),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every object in reverse insertion order.
func (s *Scene) Close() {
	for i := len(s.order) - 1; i >= 0; i-- {
		if n, ok := s.Get(s.order[i]); ok {
			s.release(n)
		}
	}
	s.slots = nil
	s.free = nil
	s.order = nil
	s.drawables = nil
	s.lights = nil
	s.camera = nil
	s.disabled = make(map[Handle]bool)
}
