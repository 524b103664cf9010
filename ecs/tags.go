package ecs

import (
	"cmp"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// tagTable is a one-to-one mapping between names and entities.
type tagTable struct {
	byName   map[string]EntityId
	byEntity *intmap.Map[EntityId, string]
}

func newTagTable() tagTable {
	return tagTable{
		byName:   make(map[string]EntityId),
		byEntity: intmap.New[EntityId, string](16),
	}
}

func (t *tagTable) removeEntity(id EntityId) {
	name, ok := t.byEntity.Get(id)
	if !ok {
		return
	}
	t.byEntity.Del(id)
	delete(t.byName, name)
}

// groupTable maps each entity to at most one group name.
type groupTable struct {
	members  map[string]*intmap.Set[EntityId]
	byEntity *intmap.Map[EntityId, string]
}

func newGroupTable() groupTable {
	return groupTable{
		members:  make(map[string]*intmap.Set[EntityId]),
		byEntity: intmap.New[EntityId, string](256),
	}
}

func (g *groupTable) removeEntity(id EntityId) {
	name, ok := g.byEntity.Get(id)
	if !ok {
		return
	}
	g.byEntity.Del(id)
	if set, ok := g.members[name]; ok {
		set.Del(id)
		if set.Len() == 0 {
			delete(g.members, name)
		}
	}
}

// Tag gives e the unique name tag. A tag held by a different entity is not
// taken over: ErrTagCollision is returned and both entities are unchanged.
// Re-tagging e with its current tag is a no-op; tagging it with a new name
// releases the old one.
func (r *Registry) Tag(e Entity, tag string) error {
	r.mustBeAlive(e)

	if holder, ok := r.tags.byName[tag]; ok {
		if holder == e.Id {
			return nil
		}
		return eris.Wrapf(ErrTagCollision, "tag %q held by entity %d", tag, holder)
	}

	r.tags.removeEntity(e.Id)
	r.tags.byName[tag] = e.Id
	r.tags.byEntity.Put(e.Id, tag)
	return nil
}

// HasTag reports whether e holds tag.
func (r *Registry) HasTag(e Entity, tag string) bool {
	if !r.IsAlive(e) {
		return false
	}
	holder, ok := r.tags.byName[tag]
	return ok && holder == e.Id
}

// TagOf returns the tag held by e.
func (r *Registry) TagOf(e Entity) (string, bool) {
	if !r.IsAlive(e) {
		return "", false
	}
	return r.tags.byEntity.Get(e.Id)
}

// GetEntityByTag returns the entity holding tag.
func (r *Registry) GetEntityByTag(tag string) (Entity, bool) {
	id, ok := r.tags.byName[tag]
	if !ok {
		return Entity{}, false
	}
	return Entity{Id: id, Generation: r.generations[id]}, true
}

// RemoveTag releases tag from whichever entity holds it.
func (r *Registry) RemoveTag(tag string) {
	if id, ok := r.tags.byName[tag]; ok {
		r.tags.removeEntity(id)
	}
}

// RemoveEntityTag releases the tag held by e, if any.
func (r *Registry) RemoveEntityTag(e Entity) {
	if r.IsAlive(e) {
		r.tags.removeEntity(e.Id)
	}
}

// GroupEntity places e in group, moving it out of any group it was in.
func (r *Registry) GroupEntity(e Entity, group string) {
	r.mustBeAlive(e)

	if current, ok := r.groups.byEntity.Get(e.Id); ok {
		if current == group {
			return
		}
		r.groups.removeEntity(e.Id)
	}

	set, ok := r.groups.members[group]
	if !ok {
		set = intmap.NewSet[EntityId](16)
		r.groups.members[group] = set
	}
	set.Add(e.Id)
	r.groups.byEntity.Put(e.Id, group)
}

// GetEntitiesByGroup returns the members of group ordered by id.
func (r *Registry) GetEntitiesByGroup(group string) []Entity {
	set, ok := r.groups.members[group]
	if !ok {
		return nil
	}
	entities := make([]Entity, 0, set.Len())
	for id := range set.All() {
		entities = append(entities, Entity{Id: id, Generation: r.generations[id]})
	}
	slices.SortFunc(entities, func(a, b Entity) int {
		return cmp.Compare(a.Id, b.Id)
	})
	return entities
}

// BelongsToGroup reports whether e is in group.
func (r *Registry) BelongsToGroup(e Entity, group string) bool {
	if !r.IsAlive(e) {
		return false
	}
	current, ok := r.groups.byEntity.Get(e.Id)
	return ok && current == group
}

// GroupOf returns the group e belongs to.
func (r *Registry) GroupOf(e Entity) (string, bool) {
	if !r.IsAlive(e) {
		return "", false
	}
	return r.groups.byEntity.Get(e.Id)
}

// RemoveEntityGroup takes e out of its group, if any.
func (r *Registry) RemoveEntityGroup(e Entity) {
	if r.IsAlive(e) {
		r.groups.removeEntity(e.Id)
	}
}
