package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// ComponentId is the dense index assigned to a component type at registration.
// It doubles as the bit position in a Signature.
type ComponentId uint16

// ComponentRegistry assigns ComponentIds to component types. Build one at
// start-up, register every component type, then share it with each Registry
// that should understand those types.
type ComponentRegistry struct {
	ids       map[reflect.Type]ComponentId
	types     []reflect.Type
	factories []func() componentPool
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids: make(map[reflect.Type]ComponentId),
	}
}

// RegisterComponent assigns a ComponentId to T and returns it. Registering the
// same type again returns the existing id.
func RegisterComponent[T any](r *ComponentRegistry) ComponentId {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id
	}
	if len(r.types) >= MaxComponents {
		panic(eris.Wrapf(ErrTooManyComponents, "registering %s", t))
	}

	id := ComponentId(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	r.factories = append(r.factories, func() componentPool {
		return NewPool[T]()
	})
	return id
}

// ComponentIdOf returns the id registered for T.
func ComponentIdOf[T any](r *ComponentRegistry) (ComponentId, bool) {
	return r.Id(reflect.TypeFor[T]())
}

// Id returns the id registered for t.
func (r *ComponentRegistry) Id(t reflect.Type) (ComponentId, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// Type returns the component type registered under id, or nil.
func (r *ComponentRegistry) Type(id ComponentId) reflect.Type {
	if int(id) >= len(r.types) {
		return nil
	}
	return r.types[id]
}

// Len returns the number of registered component types.
func (r *ComponentRegistry) Len() int {
	return len(r.types)
}

func (r *ComponentRegistry) mustId(t reflect.Type) ComponentId {
	id, ok := r.ids[t]
	if !ok {
		panic(eris.Wrapf(ErrComponentNotRegistered, "%s", t))
	}
	return id
}

const (
	poolBlockSize = 64
)

// componentPool is the type-erased view of a Pool held by the Registry.
type componentPool interface {
	Len() int
	Remove(id EntityId)
	GetAny(id EntityId) any
	Type() reflect.Type
}

// Pool stores values of T indexed by EntityId. The pool grows in fixed blocks
// so a pointer returned by Set or Get stays valid while the pool grows.
//
// A Pool does not track presence: the owning entity's Signature is the
// source of truth, and a slot keeps its last value until overwritten.
type Pool[T any] struct {
	blocks []*[poolBlockSize]T
	size   int
}

// NewPool creates an empty pool.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Set writes value at id, growing the pool as needed, and returns a pointer
// to the stored value. Slots skipped by growth hold the zero value.
func (p *Pool[T]) Set(id EntityId, value T) *T {
	blockIdx := int(id) / poolBlockSize
	slotIdx := int(id) % poolBlockSize

	for blockIdx >= len(p.blocks) {
		p.blocks = append(p.blocks, new([poolBlockSize]T))
	}
	if int(id) >= p.size {
		p.size = int(id) + 1
	}

	slot := &p.blocks[blockIdx][slotIdx]
	*slot = value
	return slot
}

// Get returns a pointer to the value at id. It performs no presence check;
// it only returns nil when id lies beyond anything ever written.
func (p *Pool[T]) Get(id EntityId) *T {
	if int(id) >= p.size {
		return nil
	}
	return &p.blocks[int(id)/poolBlockSize][int(id)%poolBlockSize]
}

// GetAny is Get behind an interface, for reflective tooling.
func (p *Pool[T]) GetAny(id EntityId) any {
	v := p.Get(id)
	if v == nil {
		return nil
	}
	return v
}

// Remove is a logical no-op; clearing the signature bit is what removes a
// component. The stale value is overwritten by the next Set.
func (p *Pool[T]) Remove(id EntityId) {}

// Len returns one past the highest id ever written.
func (p *Pool[T]) Len() int {
	return p.size
}

// Cap returns the number of slots allocated.
func (p *Pool[T]) Cap() int {
	return len(p.blocks) * poolBlockSize
}

// Type returns the component type stored in the pool.
func (p *Pool[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}
