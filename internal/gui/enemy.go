// Package gui holds the game's own debug windows: the enemy spawner and the
// map coordinate overlay.
package gui

import (
	"math"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
)

// EnemyForm is the editable state of the Spawn Enemies window. Angles are
// in degrees, times in seconds.
type EnemyForm struct {
	Texture string

	PositionX, PositionY int32
	ScaleX, ScaleY       int32
	Rotation             float32

	BodySpeed     int32
	BodyAngle     float32
	SyncBodyAngle bool

	ProjectileSpeed     int32
	ProjectileAngle     float32
	SyncProjectileAngle bool
	ProjectileRepeat    int32
	ProjectileDuration  int32
	ProjectileDamage    int32

	Health int32
}

const (
	maxScale = 10
	maxSpeed = 500

	enemySpriteSize = 32
	enemyZIndex     = 2
)

// DefaultEnemyForm returns the form's initial values for texture.
func DefaultEnemyForm(texture string) EnemyForm {
	return EnemyForm{
		Texture:             texture,
		ScaleX:              1,
		ScaleY:              1,
		SyncBodyAngle:       true,
		ProjectileSpeed:     100,
		SyncProjectileAngle: true,
		ProjectileRepeat:    10,
		ProjectileDuration:  10,
		ProjectileDamage:    10,
		Health:              100,
	}
}

// Normalize clamps every field into its widget range and applies the angle
// sync toggles.
func (f *EnemyForm) Normalize() {
	f.ScaleX = clamp(f.ScaleX, 1, maxScale)
	f.ScaleY = clamp(f.ScaleY, 1, maxScale)
	f.Rotation = float32(math.Mod(float64(f.Rotation), 360))
	if f.Rotation < 0 {
		f.Rotation += 360
	}
	f.BodySpeed = clamp(f.BodySpeed, 0, maxSpeed)
	f.ProjectileSpeed = clamp(f.ProjectileSpeed, 0, maxSpeed)
	f.ProjectileRepeat = max(f.ProjectileRepeat, 0)
	f.ProjectileDuration = max(f.ProjectileDuration, 0)
	f.ProjectileDamage = clamp(f.ProjectileDamage, 0, 100)
	f.Health = clamp(f.Health, 0, 100)

	if f.SyncBodyAngle {
		f.BodyAngle = f.Rotation
	}
	if f.SyncProjectileAngle {
		f.ProjectileAngle = f.Rotation
	}
}

// Spawn creates an enemy from the form. The enemy joins systems at the next
// registry update.
func (f EnemyForm) Spawn(r *ecs.Registry) ecs.Entity {
	f.Normalize()

	e := r.CreateEntity()
	r.GroupEntity(e, components.GroupEnemies)

	ecs.AddComponent(r, e, components.Transform{
		Position: components.Vec2{X: float64(f.PositionX), Y: float64(f.PositionY)},
		Scale:    components.Vec2{X: float64(f.ScaleX), Y: float64(f.ScaleY)},
		Rotation: float64(f.Rotation),
	})
	ecs.AddComponent(r, e, components.RigidBody{
		Velocity: polar(float64(f.BodySpeed), float64(f.BodyAngle)),
	})
	ecs.AddComponent(r, e, components.NewSprite(f.Texture, enemySpriteSize, enemySpriteSize, enemyZIndex, false, 0, 0))
	ecs.AddComponent(r, e, components.BoxCollider{
		Width:  25,
		Height: 20,
		Offset: components.Vec2{X: 5, Y: 5},
	})
	ecs.AddComponent(r, e, components.ProjectileEmitter{
		ProjectileVelocity: polar(float64(f.ProjectileSpeed), float64(f.ProjectileAngle)),
		RepeatFrequency:    time.Duration(f.ProjectileRepeat) * time.Second,
		ProjectileDuration: time.Duration(f.ProjectileDuration) * time.Second,
		HitPercentDamage:   int(f.ProjectileDamage),
	})
	ecs.AddComponent(r, e, components.Health{HealthPercentage: int(f.Health)})

	return e
}

func polar(speed, degrees float64) components.Vec2 {
	rad := degrees * math.Pi / 180
	return components.Vec2{X: speed * math.Cos(rad), Y: speed * math.Sin(rad)}
}

func clamp(v, lo, hi int32) int32 {
	return min(max(v, lo), hi)
}
