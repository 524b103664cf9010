// Package components holds the plain data attached to game entities.
package components

import (
	"image"
	"image/color"
	"time"

	"github.com/plus3/skirmish/ecs"
	lua "github.com/yuin/gopher-lua"
)

type Transform struct {
	Position Vec2
	Scale    Vec2
	Rotation float64 // degrees, clockwise
}

// NewTransform returns a transform with unit scale.
func NewTransform(x, y float64) Transform {
	return Transform{Position: Vec2{x, y}, Scale: Vec2{1, 1}}
}

type RigidBody struct {
	Velocity Vec2 // pixels per second
}

type Flip uint8

const (
	FlipNone Flip = iota
	FlipHorizontal
	FlipVertical
)

type Sprite struct {
	AssetId string
	Width   int
	Height  int
	ZIndex  int
	Flip    Flip
	IsFixed bool // drawn in screen space, ignoring the camera
	SrcRect image.Rectangle
}

// NewSprite returns a sprite whose source rectangle starts at (srcX, srcY)
// and spans width x height.
func NewSprite(assetId string, width, height, zIndex int, isFixed bool, srcX, srcY int) Sprite {
	return Sprite{
		AssetId: assetId,
		Width:   width,
		Height:  height,
		ZIndex:  zIndex,
		IsFixed: isFixed,
		SrcRect: image.Rect(srcX, srcY, srcX+width, srcY+height),
	}
}

type Animation struct {
	NumFrames      int
	CurrentFrame   int
	FrameSpeedRate int // frames per second
	IsLoop         bool
	StartTime      time.Duration
}

type BoxCollider struct {
	Width     int
	Height    int
	Offset    Vec2
	Colliding bool
}

type KeyboardControlled struct {
	UpVelocity    Vec2
	RightVelocity Vec2
	DownVelocity  Vec2
	LeftVelocity  Vec2
}

// CameraFollow marks the entity the camera centres on.
type CameraFollow struct{}

type Health struct {
	HealthPercentage int
}

type Projectile struct {
	IsFriendly       bool
	HitPercentDamage int
	Duration         time.Duration
	StartTime        time.Duration
}

type ProjectileEmitter struct {
	ProjectileVelocity Vec2
	RepeatFrequency    time.Duration // zero disables automatic emission
	ProjectileDuration time.Duration
	HitPercentDamage   int
	IsFriendly         bool
	LastEmissionTime   time.Duration
}

// NewProjectileEmitter fills in the defaults used when a level omits them.
func NewProjectileEmitter(velocity Vec2) ProjectileEmitter {
	return ProjectileEmitter{
		ProjectileVelocity: velocity,
		ProjectileDuration: 10 * time.Second,
		HitPercentDamage:   10,
	}
}

type TextLabel struct {
	Position Vec2
	Text     string
	AssetId  string
	Color    color.RGBA
	IsFixed  bool
}

// Script binds a Lua function called every frame as
// fn(entity, delta_time, elapsed_ms).
type Script struct {
	Func *lua.LFunction
}

// Camera is the world-space viewport, held as a registry singleton.
type Camera struct {
	X, Y          float64
	Width, Height int
}

// Rect returns the camera viewport in world coordinates.
func (c Camera) Rect() Rect {
	return Rect{X: c.X, Y: c.Y, W: float64(c.Width), H: float64(c.Height)}
}

// MapBounds is the size of the loaded tile map in pixels, held as a
// registry singleton.
type MapBounds struct {
	Width, Height float64
}

// Register adds every gameplay component type to r.
func Register(r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](r)
	ecs.RegisterComponent[RigidBody](r)
	ecs.RegisterComponent[Sprite](r)
	ecs.RegisterComponent[Animation](r)
	ecs.RegisterComponent[BoxCollider](r)
	ecs.RegisterComponent[KeyboardControlled](r)
	ecs.RegisterComponent[CameraFollow](r)
	ecs.RegisterComponent[Health](r)
	ecs.RegisterComponent[Projectile](r)
	ecs.RegisterComponent[ProjectileEmitter](r)
	ecs.RegisterComponent[TextLabel](r)
	ecs.RegisterComponent[Script](r)
}
