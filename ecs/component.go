package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

func poolFor[T any](r *Registry) (*Pool[T], ComponentId) {
	id := r.components.mustId(reflect.TypeFor[T]())
	if int(id) >= len(r.pools) {
		grown := make([]componentPool, r.components.Len())
		copy(grown, r.pools)
		r.pools = grown
	}
	if r.pools[id] == nil {
		r.pools[id] = r.components.factories[id]()
	}
	return r.pools[id].(*Pool[T]), id
}

// AddComponent stores component on e, sets its signature bit and, if e is
// already live, immediately re-evaluates system membership. Adding a
// component e already has overwrites the value. The returned pointer stays
// valid for the life of the registry.
func AddComponent[T any](r *Registry, e Entity, component T) *T {
	r.mustBeAlive(e)
	pool, id := poolFor[T](r)

	ptr := pool.Set(e.Id, component)
	if !r.signatures[e.Id].Has(id) {
		r.signatures[e.Id].Set(id)
		r.refreshMembership(e)
	}
	return ptr
}

// RemoveComponent clears T from e's signature and re-evaluates membership if
// e is live. Removing an absent component does nothing.
func RemoveComponent[T any](r *Registry, e Entity) {
	r.mustBeAlive(e)
	pool, id := poolFor[T](r)

	if !r.signatures[e.Id].Has(id) {
		return
	}
	r.signatures[e.Id].Clear(id)
	pool.Remove(e.Id)
	r.refreshMembership(e)
}

// HasComponent reports whether e's signature includes T. Stale handles and
// unregistered types report false.
func HasComponent[T any](r *Registry, e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	id, ok := r.components.Id(reflect.TypeFor[T]())
	if !ok {
		return false
	}
	return r.signatures[e.Id].Has(id)
}

// GetComponent returns a pointer to e's T. It panics with
// ErrComponentNotFound when e does not have T.
func GetComponent[T any](r *Registry, e Entity) *T {
	ptr, ok := LookupComponent[T](r, e)
	if !ok {
		panic(eris.Wrapf(ErrComponentNotFound, "%s on entity %s", reflect.TypeFor[T](), e))
	}
	return ptr
}

// LookupComponent returns e's T if present. It still panics on stale
// handles and unregistered types.
func LookupComponent[T any](r *Registry, e Entity) (*T, bool) {
	r.mustBeAlive(e)
	pool, id := poolFor[T](r)
	if !r.signatures[e.Id].Has(id) {
		return nil, false
	}
	return pool.Get(e.Id), true
}

// ComponentsOf returns the types of every component e currently has, in
// ComponentId order.
func (r *Registry) ComponentsOf(e Entity) []reflect.Type {
	sig := r.Signature(e)
	types := make([]reflect.Type, 0, sig.Count())
	for id := range sig.Ids() {
		types = append(types, r.components.Type(id))
	}
	return types
}

// ComponentByType returns a pointer to e's component of type t, or nil when
// absent. It is meant for reflective tooling such as inspectors.
func (r *Registry) ComponentByType(e Entity, t reflect.Type) any {
	id, ok := r.components.Id(t)
	if !ok || !r.Signature(e).Has(id) {
		return nil
	}
	if int(id) >= len(r.pools) || r.pools[id] == nil {
		return nil
	}
	return r.pools[id].GetAny(e.Id)
}
