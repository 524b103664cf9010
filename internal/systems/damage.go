package systems

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/events"
	"go.uber.org/zap"
)

// DamageSystem applies projectile hits reported by collisions. Friendly
// projectiles hurt enemies, hostile ones hurt the player.
type DamageSystem struct {
	ecs.System

	registry *ecs.Registry
}

func NewDamageSystem(r *ecs.Registry) *DamageSystem {
	s := &DamageSystem{registry: r}
	ecs.Require[components.BoxCollider](&s.System)
	return s
}

func (s *DamageSystem) SubscribeToEvents(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, s.onCollision)
}

func (s *DamageSystem) onCollision(ev *events.CollisionEvent) {
	r := s.registry
	a, b := ev.A, ev.B

	if r.BelongsToGroup(a, components.GroupProjectiles) && r.HasTag(b, components.TagPlayer) {
		s.hit(a, b, false)
	}
	if r.BelongsToGroup(b, components.GroupProjectiles) && r.HasTag(a, components.TagPlayer) {
		s.hit(b, a, false)
	}
	if r.BelongsToGroup(a, components.GroupProjectiles) && r.BelongsToGroup(b, components.GroupEnemies) {
		s.hit(a, b, true)
	}
	if r.BelongsToGroup(b, components.GroupProjectiles) && r.BelongsToGroup(a, components.GroupEnemies) {
		s.hit(b, a, true)
	}
}

// hit applies projectile to target when the projectile's allegiance matches
// friendly. A projectile already spent this frame does nothing.
func (s *DamageSystem) hit(projectile, target ecs.Entity, friendly bool) {
	r := s.registry
	if r.IsPendingKill(projectile) {
		return
	}
	p, ok := ecs.LookupComponent[components.Projectile](r, projectile)
	if !ok || p.IsFriendly != friendly {
		return
	}

	if health, ok := ecs.LookupComponent[components.Health](r, target); ok {
		health.HealthPercentage -= p.HitPercentDamage
		if health.HealthPercentage <= 0 {
			r.Logger().Debug("entity destroyed by projectile",
				zap.Stringer("target", target),
				zap.Stringer("projectile", projectile),
			)
			r.KillEntity(target)
		}
	}
	r.KillEntity(projectile)
}

func (s *DamageSystem) Execute(*ecs.UpdateFrame) {}
