package ecs

import "fmt"

// EntityId is the slot an entity occupies in the registry. Ids are recycled
// after the entity is killed.
type EntityId uint32

// Entity is a handle to an entity. The generation distinguishes successive
// occupants of the same id, so a handle kept past its entity's death is
// detected instead of silently aliasing a newer entity.
type Entity struct {
	Id         EntityId
	Generation uint32
}

func (e Entity) String() string {
	return fmt.Sprintf("%d#%d", e.Id, e.Generation)
}

type entityState uint8

const (
	stateFree entityState = iota
	statePending
	stateLive
)
