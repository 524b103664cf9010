package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// System is the base embedded by every registry-managed system. It records
// the component types the system requires and the entities whose signatures
// currently satisfy them.
//
//	type MovementSystem struct {
//		ecs.System
//	}
//
//	func NewMovementSystem() *MovementSystem {
//		s := &MovementSystem{}
//		ecs.Require[Transform](&s.System)
//		ecs.Require[RigidBody](&s.System)
//		return s
//	}
type System struct {
	required  []reflect.Type
	signature Signature
	entities  []Entity
	members   *intmap.Set[EntityId]
	frozen    bool
}

// AnySystem is implemented by any type that embeds System.
type AnySystem interface {
	base() *System
}

func (s *System) base() *System {
	return s
}

// Require adds T to the system's required component set. It must be called
// before the system is added to a registry.
func Require[T any](s *System) {
	s.RequireComponent(reflect.TypeFor[T]())
}

// RequireComponent adds t to the system's required component set.
func (s *System) RequireComponent(t reflect.Type) {
	if s.frozen {
		panic(eris.Wrapf(ErrSignatureFrozen, "requiring %s", t))
	}
	if slices.Contains(s.required, t) {
		return
	}
	s.required = append(s.required, t)
}

// Entities returns the entities currently matching the system, in the order
// they joined. The registry never mutates a returned slice in place, so it is
// safe to range over while the loop body adds or removes components.
func (s *System) Entities() []Entity {
	return s.entities
}

// Signature returns the resolved requirement bitset. It is empty until the
// system is added to a registry.
func (s *System) Signature() Signature {
	return s.signature
}

// RequiredTypes returns the declared component types in declaration order.
func (s *System) RequiredTypes() []reflect.Type {
	return s.required
}

// Has reports whether e is currently a member of the system.
func (s *System) Has(e Entity) bool {
	if !s.members.Has(e.Id) {
		return false
	}
	for _, m := range s.entities {
		if m.Id == e.Id {
			return m.Generation == e.Generation
		}
	}
	return false
}

func (s *System) freeze(components *ComponentRegistry) {
	s.signature.Reset()
	for _, t := range s.required {
		s.signature.Set(components.mustId(t))
	}
	s.members = intmap.NewSet[EntityId](64)
	s.entities = nil
	s.frozen = true
}

func (s *System) addEntity(e Entity) {
	if s.members.Has(e.Id) {
		return
	}
	s.members.Add(e.Id)
	s.entities = append(s.entities, e)
}

func (s *System) removeEntity(id EntityId) {
	if !s.members.Has(id) {
		return
	}
	s.members.Del(id)

	// Build a fresh slice so callers ranging over the previous one are unaffected.
	next := make([]Entity, 0, len(s.entities))
	for _, m := range s.entities {
		if m.Id != id {
			next = append(next, m)
		}
	}
	s.entities = next
}

// removeEntities drops every member in ids with a single copy.
func (s *System) removeEntities(ids *intmap.Set[EntityId]) {
	removed := 0
	for _, m := range s.entities {
		if ids.Has(m.Id) {
			s.members.Del(m.Id)
			removed++
		}
	}
	if removed == 0 {
		return
	}

	next := make([]Entity, 0, len(s.entities)-removed)
	for _, m := range s.entities {
		if !ids.Has(m.Id) {
			next = append(next, m)
		}
	}
	s.entities = next
}

func (s *System) reset() {
	s.members.Clear()
	s.entities = nil
}
