// Package events defines the messages systems exchange over the event bus.
package events

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/ecs"
)

// CollisionEvent is emitted once per overlapping collider pair per frame.
type CollisionEvent struct {
	A, B ecs.Entity
}

// KeyPressedEvent is emitted when a key goes down.
type KeyPressedEvent struct {
	Key ebiten.Key
}
