package systems

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/events"
	"go.uber.org/zap"
)

const (
	BulletAssetId = "bullet-texture"
	bulletSize    = 4
	bulletZIndex  = 4
)

// ProjectileEmitSystem fires projectiles from emitters: on the space bar for
// camera-followed entities, and periodically for emitters with a repeat
// frequency.
type ProjectileEmitSystem struct {
	ecs.System

	fireRequested bool
}

func NewProjectileEmitSystem() *ProjectileEmitSystem {
	s := &ProjectileEmitSystem{}
	ecs.Require[components.ProjectileEmitter](&s.System)
	ecs.Require[components.Transform](&s.System)
	return s
}

func (s *ProjectileEmitSystem) SubscribeToEvents(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, s.onKeyPressed)
}

func (s *ProjectileEmitSystem) onKeyPressed(ev *events.KeyPressedEvent) {
	if ev.Key == ebiten.KeySpace {
		s.fireRequested = true
	}
}

func (s *ProjectileEmitSystem) Execute(frame *ecs.UpdateFrame) {
	r := frame.Registry

	if s.fireRequested {
		s.fireRequested = false
		r.Logger().Debug("fire requested", zap.Int("emitters", len(s.Entities())))
		for _, e := range s.Entities() {
			if !ecs.HasComponent[components.CameraFollow](r, e) {
				continue
			}
			s.fireManual(r, e, frame.Elapsed)
		}
	}

	for _, e := range s.Entities() {
		emitter := ecs.GetComponent[components.ProjectileEmitter](r, e)
		if emitter.RepeatFrequency == 0 {
			continue
		}
		if frame.Elapsed-emitter.LastEmissionTime <= emitter.RepeatFrequency {
			continue
		}

		transform := ecs.GetComponent[components.Transform](r, e)
		pos := transform.Position
		if sprite, ok := ecs.LookupComponent[components.Sprite](r, e); ok {
			pos = spriteCenter(transform, sprite)
		}
		SpawnProjectile(r, pos, emitter.ProjectileVelocity, emitter, frame.Elapsed)
		emitter.LastEmissionTime = frame.Elapsed
	}
}

// fireManual shoots from e in the direction it is travelling.
func (s *ProjectileEmitSystem) fireManual(r *ecs.Registry, e ecs.Entity, now time.Duration) {
	emitter := ecs.GetComponent[components.ProjectileEmitter](r, e)
	transform := ecs.GetComponent[components.Transform](r, e)

	pos := transform.Position
	if r.HasTag(e, components.TagPlayer) {
		if sprite, ok := ecs.LookupComponent[components.Sprite](r, e); ok {
			pos = spriteCenter(transform, sprite)
		}
	}

	var direction components.Vec2
	if rb, ok := ecs.LookupComponent[components.RigidBody](r, e); ok {
		direction = rb.Velocity.Sign()
	}

	SpawnProjectile(r, pos, emitter.ProjectileVelocity.Mul(direction), emitter, now)
}

func spriteCenter(t *components.Transform, sprite *components.Sprite) components.Vec2 {
	return components.Vec2{
		X: t.Position.X + t.Scale.X*float64(sprite.Width)/2,
		Y: t.Position.Y + t.Scale.Y*float64(sprite.Height)/2,
	}
}

// SpawnProjectile creates a projectile entity in the projectiles group.
func SpawnProjectile(r *ecs.Registry, pos, velocity components.Vec2, emitter *components.ProjectileEmitter, now time.Duration) ecs.Entity {
	projectile := r.CreateEntity()
	r.GroupEntity(projectile, components.GroupProjectiles)

	transform := components.NewTransform(pos.X, pos.Y)
	ecs.AddComponent(r, projectile, transform)
	ecs.AddComponent(r, projectile, components.RigidBody{Velocity: velocity})
	ecs.AddComponent(r, projectile, components.NewSprite(BulletAssetId, bulletSize, bulletSize, bulletZIndex, false, 0, 0))
	ecs.AddComponent(r, projectile, components.BoxCollider{Width: bulletSize, Height: bulletSize})
	ecs.AddComponent(r, projectile, components.Projectile{
		IsFriendly:       emitter.IsFriendly,
		HitPercentDamage: emitter.HitPercentDamage,
		Duration:         emitter.ProjectileDuration,
		StartTime:        now,
	})
	return projectile
}

// ProjectileLifecycleSystem destroys projectiles that outlived their duration.
type ProjectileLifecycleSystem struct {
	ecs.System
}

func NewProjectileLifecycleSystem() *ProjectileLifecycleSystem {
	s := &ProjectileLifecycleSystem{}
	ecs.Require[components.Projectile](&s.System)
	return s
}

func (s *ProjectileLifecycleSystem) Execute(frame *ecs.UpdateFrame) {
	for _, e := range s.Entities() {
		p := ecs.GetComponent[components.Projectile](frame.Registry, e)
		if frame.Elapsed-p.StartTime > p.Duration {
			frame.Registry.KillEntity(e)
		}
	}
}
