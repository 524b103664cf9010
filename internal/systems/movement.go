// Package systems implements the gameplay systems that update the world.
// Drawing lives in the render package.
package systems

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/events"
)

const (
	playerPaddingLeft   = 10
	playerPaddingTop    = 10
	playerPaddingRight  = 50
	playerPaddingBottom = 50

	// outOfBoundsMargin is how far past the map edge an entity may travel
	// before it is destroyed.
	outOfBoundsMargin = 100
)

// MovementSystem integrates velocity into position, keeps the player inside
// the map, destroys everything else that leaves it, and bounces enemies off
// obstacles.
type MovementSystem struct {
	ecs.System
	Bounds ecs.Singleton[components.MapBounds]

	registry *ecs.Registry
}

func NewMovementSystem(r *ecs.Registry) *MovementSystem {
	s := &MovementSystem{registry: r}
	ecs.Require[components.Transform](&s.System)
	ecs.Require[components.RigidBody](&s.System)
	return s
}

func (s *MovementSystem) SubscribeToEvents(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, s.onCollision)
}

func (s *MovementSystem) onCollision(ev *events.CollisionEvent) {
	r := s.registry
	if r.BelongsToGroup(ev.A, components.GroupEnemies) && r.BelongsToGroup(ev.B, components.GroupObstacles) {
		s.bounce(ev.A)
	}
	if r.BelongsToGroup(ev.A, components.GroupObstacles) && r.BelongsToGroup(ev.B, components.GroupEnemies) {
		s.bounce(ev.B)
	}
}

func (s *MovementSystem) bounce(enemy ecs.Entity) {
	rb, ok := ecs.LookupComponent[components.RigidBody](s.registry, enemy)
	if !ok {
		return
	}
	sprite, ok := ecs.LookupComponent[components.Sprite](s.registry, enemy)
	if !ok {
		return
	}

	if rb.Velocity.X != 0 {
		rb.Velocity.X = -rb.Velocity.X
		sprite.Flip = toggleFlip(sprite.Flip, components.FlipHorizontal)
	}
	if rb.Velocity.Y != 0 {
		rb.Velocity.Y = -rb.Velocity.Y
		sprite.Flip = toggleFlip(sprite.Flip, components.FlipVertical)
	}
}

func toggleFlip(current, flip components.Flip) components.Flip {
	if current == components.FlipNone {
		return flip
	}
	return components.FlipNone
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	r := frame.Registry
	bounds := s.Bounds.Get()

	for _, e := range s.Entities() {
		transform := ecs.GetComponent[components.Transform](r, e)
		rb := ecs.GetComponent[components.RigidBody](r, e)

		transform.Position = transform.Position.Add(rb.Velocity.Scale(frame.DeltaTime))

		if bounds == nil {
			continue
		}

		isPlayer := r.HasTag(e, components.TagPlayer)
		if isPlayer {
			transform.Position.X = clamp(transform.Position.X, playerPaddingLeft, bounds.Width-playerPaddingRight)
			transform.Position.Y = clamp(transform.Position.Y, playerPaddingTop, bounds.Height-playerPaddingBottom)
			continue
		}

		outside := transform.Position.X < -outOfBoundsMargin ||
			transform.Position.X > bounds.Width+outOfBoundsMargin ||
			transform.Position.Y < -outOfBoundsMargin ||
			transform.Position.Y > bounds.Height+outOfBoundsMargin
		if outside {
			r.KillEntity(e)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
