package systems

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/events"
)

// CollisionSystem tests every collider pair and emits a CollisionEvent for
// each overlap.
type CollisionSystem struct {
	ecs.System
}

func NewCollisionSystem() *CollisionSystem {
	s := &CollisionSystem{}
	ecs.Require[components.Transform](&s.System)
	ecs.Require[components.BoxCollider](&s.System)
	return s
}

// ColliderRect returns the world-space box of a collider.
func ColliderRect(t *components.Transform, c *components.BoxCollider) components.Rect {
	return components.Rect{
		X: t.Position.X + c.Offset.X,
		Y: t.Position.Y + c.Offset.Y,
		W: float64(c.Width) * t.Scale.X,
		H: float64(c.Height) * t.Scale.Y,
	}
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	r := frame.Registry
	entities := s.Entities()

	rects := make([]components.Rect, len(entities))
	colliders := make([]*components.BoxCollider, len(entities))
	for i, e := range entities {
		colliders[i] = ecs.GetComponent[components.BoxCollider](r, e)
		colliders[i].Colliding = false
		rects[i] = ColliderRect(ecs.GetComponent[components.Transform](r, e), colliders[i])
	}

	for i := range entities {
		for j := i + 1; j < len(entities); j++ {
			if !rects[i].Intersects(rects[j]) {
				continue
			}
			colliders[i].Colliding = true
			colliders[j].Colliding = true
			eventbus.Emit(frame.Events, events.CollisionEvent{A: entities[i], B: entities[j]})
		}
	}
}
