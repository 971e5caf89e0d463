package scene

import (
	"github.com/Faultbox/rendar/pkg/math"
)

// Handle addresses an object inside a Scene. The zero Handle refers to nothing.
// A handle goes stale when its object is removed; lookups then fail instead
// of reaching whatever reuses the slot.
type Handle struct {
	index uint32 // slot + 1
	gen   uint32
}

// Valid reports whether h refers to a slot at all.
func (h Handle) Valid() bool {
	return h.index != 0
}

// Node is anything that can live in a Scene: meshes, lights and cameras all
// embed Object.
type Node interface {
	object() *Object
}

// Object holds the local transform shared by every scene node, plus a weak
// link to its parent. The parent is stored as a Handle so the Scene stays the
// only owner.
type Object struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	handle Handle
	parent Handle
	scene  *Scene
}

// NewObject returns an identity transform.
func NewObject() Object {
	return Object{
		Rotation: math.QuatIdentity(),
		Scale:    math.One(),
	}
}

func (o *Object) object() *Object {
	return o
}

// Handle returns the object's handle, or the zero Handle if it is not in a scene.
func (o *Object) Handle() Handle {
	return o.handle
}

// SetRotationEuler sets the rotation from Euler angles in degrees, applied X, Y, then Z.
func (o *Object) SetRotationEuler(x, y, z float32) {
	o.Rotation = math.QuatFromEuler(x, y, z)
}

// Parent returns the parent object, or nil for a root.
func (o *Object) Parent() *Object {
	if o.scene == nil || !o.parent.Valid() {
		return nil
	}
	n, ok := o.scene.Get(o.parent)
	if !ok {
		return nil
	}
	return n.object()
}

// LocalTransform returns T(position) * R(rotation) * S(scale).
func (o *Object) LocalTransform() math.Mat4 {
	return math.TRS(o.Position, o.Rotation, o.Scale)
}

// WorldTransform composes the local transform with every ancestor:
// parent.WorldTransform() * LocalTransform(). It is recomputed on each call.
func (o *Object) WorldTransform() math.Mat4 {
	local := o.LocalTransform()
	if p := o.Parent(); p != nil {
		return p.WorldTransform().Mul(local)
	}
	return local
}

// WorldPosition returns the translation of the world transform.
func (o *Object) WorldPosition() math.Vec3 {
	return o.WorldTransform().Translation()
}
