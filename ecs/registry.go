package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Registry owns entities, their component pools and the systems that match
// them. Entity creation and destruction are deferred until Update; component
// changes on live entities take effect immediately.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	components *ComponentRegistry
	logger     *zap.Logger

	numEntities uint32
	freeIds     []EntityId
	signatures  []Signature
	generations []uint32
	states      []entityState
	killQueued  []bool

	pools []componentPool

	systems     map[reflect.Type]*systemEntry
	systemOrder []*systemEntry

	pendingAdd  []Entity
	pendingKill []Entity

	tags   tagTable
	groups groupTable

	singletons map[reflect.Type]any
}

type systemEntry struct {
	name  string
	typ   reflect.Type
	value AnySystem
	base  *System
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry that understands the component types
// registered in components.
func NewRegistry(components *ComponentRegistry, opts ...Option) *Registry {
	r := &Registry{
		components: components,
		logger:     zap.NewNop(),
		pools:      make([]componentPool, components.Len()),
		systems:    make(map[reflect.Type]*systemEntry),
		tags:       newTagTable(),
		groups:     newGroupTable(),
		singletons: make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Components returns the component registry the registry was built with.
func (r *Registry) Components() *ComponentRegistry {
	return r.components
}

// CreateEntity allocates an entity, preferring the most recently released id.
// The entity joins systems at the next Update.
func (r *Registry) CreateEntity() Entity {
	var id EntityId
	if n := len(r.freeIds); n > 0 {
		id = r.freeIds[n-1]
		r.freeIds = r.freeIds[:n-1]
	} else {
		id = EntityId(r.numEntities)
		r.numEntities++
		r.signatures = append(r.signatures, Signature{})
		r.generations = append(r.generations, 0)
		r.states = append(r.states, stateFree)
		r.killQueued = append(r.killQueued, false)
	}

	r.states[id] = statePending
	e := Entity{Id: id, Generation: r.generations[id]}
	r.pendingAdd = append(r.pendingAdd, e)

	r.logger.Debug("entity created", zap.Uint32("id", uint32(id)), zap.Uint32("generation", e.Generation))
	return e
}

// KillEntity schedules e for destruction at the next Update. Killing an
// entity twice, or killing through a stale handle, does nothing.
func (r *Registry) KillEntity(e Entity) {
	if !r.IsAlive(e) || r.killQueued[e.Id] {
		return
	}
	r.killQueued[e.Id] = true
	r.pendingKill = append(r.pendingKill, e)
}

// IsAlive reports whether e refers to the current occupant of its id. An
// entity stays alive until the Update that processes its kill.
func (r *Registry) IsAlive(e Entity) bool {
	if int(e.Id) >= len(r.states) {
		return false
	}
	return r.states[e.Id] != stateFree && r.generations[e.Id] == e.Generation
}

// IsPendingKill reports whether e has been scheduled for destruction.
func (r *Registry) IsPendingKill(e Entity) bool {
	return r.IsAlive(e) && r.killQueued[e.Id]
}

// IsPending reports whether e was created but has not yet been through
// Update.
func (r *Registry) IsPending(e Entity) bool {
	return r.IsAlive(e) && r.states[e.Id] == statePending
}

// Update applies pending creations, then pending kills.
func (r *Registry) Update() {
	for _, e := range r.pendingAdd {
		if !r.IsAlive(e) || r.states[e.Id] != statePending {
			continue
		}
		r.states[e.Id] = stateLive
		if r.killQueued[e.Id] {
			continue
		}
		r.addToSystems(e)
	}
	r.pendingAdd = r.pendingAdd[:0]

	if len(r.pendingKill) == 0 {
		return
	}
	dead := intmap.NewSet[EntityId](len(r.pendingKill))
	for _, e := range r.pendingKill {
		if r.IsAlive(e) {
			dead.Add(e.Id)
		}
	}
	for _, entry := range r.systemOrder {
		entry.base.removeEntities(dead)
	}
	for _, e := range r.pendingKill {
		r.release(e)
	}
	r.pendingKill = r.pendingKill[:0]
}

// release frees e's id. System membership has already been dropped by Update.
func (r *Registry) release(e Entity) {
	if !r.IsAlive(e) {
		return
	}
	id := e.Id
	r.tags.removeEntity(id)
	r.groups.removeEntity(id)

	r.signatures[id].Reset()
	r.generations[id]++
	r.states[id] = stateFree
	r.killQueued[id] = false
	r.freeIds = append(r.freeIds, id)

	r.logger.Debug("entity killed", zap.Uint32("id", uint32(id)), zap.Uint32("generation", e.Generation))
}

func (r *Registry) addToSystems(e Entity) {
	sig := r.signatures[e.Id]
	for _, entry := range r.systemOrder {
		if sig.Contains(entry.base.signature) {
			entry.base.addEntity(e)
		}
	}
}

// refreshMembership re-evaluates every system for a live entity after its
// signature changed. An entity queued for kill can still leave systems but
// never joins new ones.
func (r *Registry) refreshMembership(e Entity) {
	if r.states[e.Id] != stateLive {
		return
	}
	dying := r.killQueued[e.Id]
	sig := r.signatures[e.Id]
	for _, entry := range r.systemOrder {
		if sig.Contains(entry.base.signature) {
			if !dying {
				entry.base.addEntity(e)
			}
		} else {
			entry.base.removeEntity(e.Id)
		}
	}
}

func (r *Registry) mustBeAlive(e Entity) {
	if !r.IsAlive(e) {
		panic(eris.Wrapf(ErrStaleEntity, "entity %s", e))
	}
}

// Signature returns the component bitset of e. Stale handles yield an empty
// signature.
func (r *Registry) Signature(e Entity) Signature {
	if !r.IsAlive(e) {
		return Signature{}
	}
	return r.signatures[e.Id]
}

// Entities yields every entity that has been created and not yet released,
// including those still waiting for Update.
func (r *Registry) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i, state := range r.states {
			if state == stateFree {
				continue
			}
			if !yield(Entity{Id: EntityId(i), Generation: r.generations[i]}) {
				return
			}
		}
	}
}

// EntityCount returns the number of entities that are live in systems.
func (r *Registry) EntityCount() int {
	n := 0
	for _, state := range r.states {
		if state == stateLive {
			n++
		}
	}
	return n
}

// EntityAt returns the current handle for id, if the id is occupied.
func (r *Registry) EntityAt(id EntityId) (Entity, bool) {
	if int(id) >= len(r.states) || r.states[id] == stateFree {
		return Entity{}, false
	}
	return Entity{Id: id, Generation: r.generations[id]}, true
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *zap.Logger {
	return r.logger
}
