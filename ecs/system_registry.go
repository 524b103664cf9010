package ecs

import (
	"reflect"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// AddSystem registers s, keyed by its dynamic type, and freezes its required
// signature. Live entities that already match are added immediately. Exported
// Singleton fields on s are bound to the registry.
//
// Adding a second system of the same type panics with ErrDuplicateSystem.
func (r *Registry) AddSystem(s AnySystem) {
	t := reflect.TypeOf(s)
	if _, ok := r.systems[t]; ok {
		panic(eris.Wrapf(ErrDuplicateSystem, "%s", t))
	}

	base := s.base()
	base.freeze(r.components)

	entry := &systemEntry{
		name:  systemName(t),
		typ:   t,
		value: s,
		base:  base,
	}
	r.systems[t] = entry
	r.systemOrder = append(r.systemOrder, entry)
	r.bindSingletons(s)

	for i, state := range r.states {
		if state != stateLive || r.killQueued[i] {
			continue
		}
		if r.signatures[i].Contains(base.signature) {
			base.addEntity(Entity{Id: EntityId(i), Generation: r.generations[i]})
		}
	}

	r.logger.Info("system registered",
		zap.String("system", entry.name),
		zap.Int("requires", len(base.required)),
		zap.Int("entities", len(base.entities)),
	)
}

// GetSystem returns the registered system of type *S. It panics with
// ErrSystemNotRegistered if none is registered.
func GetSystem[S any](r *Registry) *S {
	entry, ok := r.systems[reflect.TypeFor[*S]()]
	if !ok {
		panic(eris.Wrapf(ErrSystemNotRegistered, "%s", reflect.TypeFor[S]()))
	}
	return any(entry.value).(*S)
}

// HasSystem reports whether a system of type *S is registered.
func HasSystem[S any](r *Registry) bool {
	_, ok := r.systems[reflect.TypeFor[*S]()]
	return ok
}

// RemoveSystem unregisters the system of type *S. Removing an unregistered
// system does nothing.
func RemoveSystem[S any](r *Registry) {
	t := reflect.TypeFor[*S]()
	entry, ok := r.systems[t]
	if !ok {
		return
	}
	delete(r.systems, t)
	r.systemOrder = slices.DeleteFunc(r.systemOrder, func(e *systemEntry) bool {
		return e == entry
	})
	entry.base.reset()

	r.logger.Info("system removed", zap.String("system", entry.name))
}

// SystemInfo describes a registered system for diagnostics.
type SystemInfo struct {
	Name        string
	Required    []string
	EntityCount int
}

// Systems describes the registered systems in registration order.
func (r *Registry) Systems() []SystemInfo {
	infos := make([]SystemInfo, 0, len(r.systemOrder))
	for _, entry := range r.systemOrder {
		required := make([]string, len(entry.base.required))
		for i, t := range entry.base.required {
			required[i] = t.String()
		}
		infos = append(infos, SystemInfo{
			Name:        entry.name,
			Required:    required,
			EntityCount: len(entry.base.entities),
		})
	}
	return infos
}

func systemName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// singletonBinder is implemented by *Singleton[T].
type singletonBinder interface {
	Init(r *Registry)
}

// bindSingletons initializes exported Singleton fields of a struct system.
func (r *Registry) bindSingletons(system any) {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		if binder, ok := field.Addr().Interface().(singletonBinder); ok {
			binder.Init(r)
		}
	}
}
