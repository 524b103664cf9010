package ecs

import "reflect"

// AddSingleton stores value as the registry-wide instance of T and returns a
// pointer to it. An existing instance is overwritten in place, so pointers
// handed out earlier observe the new value. Singletons are resources such as
// the camera that belong to no entity; their types need not be registered as
// components.
func AddSingleton[T any](r *Registry, value T) *T {
	if existing := GetSingleton[T](r); existing != nil {
		*existing = value
		return existing
	}
	ptr := &value
	r.singletons[reflect.TypeFor[T]()] = ptr
	return ptr
}

// GetSingleton returns the registry's T, or nil if none was added.
func GetSingleton[T any](r *Registry) *T {
	v, ok := r.singletons[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return v.(*T)
}

// SingletonTypes returns the names of every singleton type held by the registry.
func (r *Registry) SingletonTypes() []string {
	names := make([]string, 0, len(r.singletons))
	for t := range r.singletons {
		names = append(names, t.String())
	}
	return names
}

// Singleton caches access to a registry singleton. Declare one as an exported
// field of a system and it is bound when the system is registered:
//
//	type CameraSystem struct {
//		ecs.System
//		Camera ecs.Singleton[Camera]
//	}
type Singleton[T any] struct {
	registry *Registry
	ptr      *T
}

// NewSingleton returns an accessor for T on r. If T does not exist yet it is
// created from initializer, or the zero value.
func NewSingleton[T any](r *Registry, initializer ...T) *Singleton[T] {
	if GetSingleton[T](r) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		AddSingleton(r, value)
	}
	s := &Singleton[T]{}
	s.Init(r)
	return s
}

// Init binds the accessor to r.
func (s *Singleton[T]) Init(r *Registry) {
	s.registry = r
	s.ptr = GetSingleton[T](r)
}

// Get returns the singleton, or nil if it has not been added.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil && s.registry != nil {
		s.ptr = GetSingleton[T](s.registry)
	}
	return s.ptr
}

// Exists reports whether the singleton has been added.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
