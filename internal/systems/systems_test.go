package systems_test

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/events"
	"github.com/plus3/skirmish/internal/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorld() (*ecs.Registry, *ecs.Scheduler) {
	comps := ecs.NewComponentRegistry()
	components.Register(comps)
	r := ecs.NewRegistry(comps)
	return r, ecs.NewScheduler(r, eventbus.New())
}

func spawn(r *ecs.Registry, x, y, vx, vy float64) ecs.Entity {
	e := r.CreateEntity()
	ecs.AddComponent(r, e, components.NewTransform(x, y))
	ecs.AddComponent(r, e, components.RigidBody{Velocity: components.Vec2{X: vx, Y: vy}})
	return e
}

func position(r *ecs.Registry, e ecs.Entity) components.Vec2 {
	return ecs.GetComponent[components.Transform](r, e).Position
}

func TestMovementIntegratesVelocity(t *testing.T) {
	r, sched := newWorld()
	sched.Register(ecs.PhaseUpdate, systems.NewMovementSystem(r))

	e := spawn(r, 10, 10, 20, -10)
	sched.Once(0.5)

	assert.Equal(t, components.Vec2{X: 20, Y: 5}, position(r, e))
}

func TestMovementRespectsMapBounds(t *testing.T) {
	r, sched := newWorld()
	ecs.AddSingleton(r, components.MapBounds{Width: 200, Height: 200})
	sched.Register(ecs.PhaseUpdate, systems.NewMovementSystem(r))

	player := spawn(r, 195, 5, 0, 0)
	require.NoError(t, r.Tag(player, components.TagPlayer))
	stray := spawn(r, 350, 0, 0, 0)
	inside := spawn(r, 250, 250, 0, 0)

	sched.Once(0.016)

	assert.Equal(t, components.Vec2{X: 150, Y: 10}, position(r, player), "player is clamped inside the padding")
	assert.True(t, r.IsPendingKill(stray))
	assert.False(t, r.IsPendingKill(inside), "within the margin")

	sched.Once(0.016)
	assert.False(t, r.IsAlive(stray))
}

func TestEnemiesBounceOffObstacles(t *testing.T) {
	r, sched := newWorld()
	sched.Register(ecs.PhaseUpdate, systems.NewCollisionSystem())
	sched.Register(ecs.PhaseUpdate, systems.NewMovementSystem(r))

	enemy := spawn(r, 0, 0, 10, 0)
	r.GroupEntity(enemy, components.GroupEnemies)
	ecs.AddComponent(r, enemy, components.NewSprite("tank", 16, 16, 1, false, 0, 0))
	ecs.AddComponent(r, enemy, components.BoxCollider{Width: 16, Height: 16})

	wall := r.CreateEntity()
	r.GroupEntity(wall, components.GroupObstacles)
	ecs.AddComponent(r, wall, components.NewTransform(8, 0))
	ecs.AddComponent(r, wall, components.BoxCollider{Width: 16, Height: 16})

	sched.Once(0.1)

	assert.Equal(t, components.Vec2{X: -10}, ecs.GetComponent[components.RigidBody](r, enemy).Velocity)
	assert.Equal(t, components.FlipHorizontal, ecs.GetComponent[components.Sprite](r, enemy).Flip)
	assert.True(t, ecs.GetComponent[components.BoxCollider](r, wall).Colliding)
}

func TestCollisionEvents(t *testing.T) {
	r, sched := newWorld()
	sched.Register(ecs.PhaseUpdate, systems.NewCollisionSystem())

	box := func(x float64) ecs.Entity {
		e := r.CreateEntity()
		ecs.AddComponent(r, e, components.NewTransform(x, 0))
		ecs.AddComponent(r, e, components.BoxCollider{Width: 10, Height: 10})
		return e
	}
	a, b, far := box(0), box(5), box(100)

	var got []events.CollisionEvent
	sched.Register(ecs.PhaseInput, &collisionRecorder{events: &got})
	sched.Once(0.016)

	require.Len(t, got, 1)
	assert.ElementsMatch(t, []ecs.Entity{a, b}, []ecs.Entity{got[0].A, got[0].B})
	assert.False(t, ecs.GetComponent[components.BoxCollider](r, far).Colliding)

	ecs.GetComponent[components.Transform](r, b).Position.X = 50
	got = got[:0]
	sched.Once(0.016)
	assert.Empty(t, got)
	assert.False(t, ecs.GetComponent[components.BoxCollider](r, a).Colliding, "flag is reset each frame")
}

type collisionRecorder struct {
	events *[]events.CollisionEvent
}

func (c *collisionRecorder) SubscribeToEvents(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, func(ev *events.CollisionEvent) {
		*c.events = append(*c.events, *ev)
	})
}

func (c *collisionRecorder) Execute(*ecs.UpdateFrame) {}

func TestCameraFollowsAndClamps(t *testing.T) {
	r, sched := newWorld()
	ecs.AddSingleton(r, components.MapBounds{Width: 400, Height: 400})
	camera := ecs.AddSingleton(r, components.Camera{Width: 100, Height: 100})
	sched.Register(ecs.PhaseUpdate, systems.NewCameraMovementSystem())

	target := spawn(r, 200, 250, 0, 0)
	ecs.AddComponent(r, target, components.CameraFollow{})

	sched.Once(0.016)
	assert.Equal(t, 150.0, camera.X)
	assert.Equal(t, 200.0, camera.Y)

	ecs.GetComponent[components.Transform](r, target).Position = components.Vec2{X: 10, Y: 390}
	sched.Once(0.016)
	assert.Equal(t, 0.0, camera.X)
	assert.Equal(t, 300.0, camera.Y)
}

func TestAnimationFrames(t *testing.T) {
	r, _ := newWorld()
	anim := systems.NewAnimationSystem()
	r.AddSystem(anim)

	looping := r.CreateEntity()
	ecs.AddComponent(r, looping, components.NewSprite("chopper", 16, 16, 1, false, 0, 32))
	ecs.AddComponent(r, looping, components.Animation{NumFrames: 4, FrameSpeedRate: 10, IsLoop: true})

	once := r.CreateEntity()
	ecs.AddComponent(r, once, components.NewSprite("boom", 16, 16, 1, false, 0, 0))
	ecs.AddComponent(r, once, components.Animation{NumFrames: 4, FrameSpeedRate: 10})
	r.Update()

	anim.Execute(&ecs.UpdateFrame{Registry: r, Elapsed: 250 * time.Millisecond})
	assert.Equal(t, 2, ecs.GetComponent[components.Animation](r, looping).CurrentFrame)
	sprite := ecs.GetComponent[components.Sprite](r, looping)
	assert.Equal(t, 32, sprite.SrcRect.Min.X)
	assert.Equal(t, 32, sprite.SrcRect.Min.Y, "row is preserved")

	anim.Execute(&ecs.UpdateFrame{Registry: r, Elapsed: time.Second})
	assert.Equal(t, 2, ecs.GetComponent[components.Animation](r, looping).CurrentFrame, "10 ticks wrap to frame 2")
	assert.Equal(t, 3, ecs.GetComponent[components.Animation](r, once).CurrentFrame, "non-looping holds the last frame")
}

func TestDamage(t *testing.T) {
	r, sched := newWorld()
	sched.Register(ecs.PhaseUpdate, systems.NewDamageSystem(r))

	enemy := r.CreateEntity()
	r.GroupEntity(enemy, components.GroupEnemies)
	ecs.AddComponent(r, enemy, components.Health{HealthPercentage: 15})
	ecs.AddComponent(r, enemy, components.BoxCollider{})

	player := r.CreateEntity()
	require.NoError(t, r.Tag(player, components.TagPlayer))
	ecs.AddComponent(r, player, components.Health{HealthPercentage: 100})
	ecs.AddComponent(r, player, components.BoxCollider{})

	bullet := func(friendly bool) ecs.Entity {
		e := r.CreateEntity()
		r.GroupEntity(e, components.GroupProjectiles)
		ecs.AddComponent(r, e, components.Projectile{IsFriendly: friendly, HitPercentDamage: 10})
		ecs.AddComponent(r, e, components.BoxCollider{})
		return e
	}
	friendly, hostile, second := bullet(true), bullet(false), bullet(true)
	sched.Once(0)
	bus := sched.Bus()

	eventbus.Emit(bus, events.CollisionEvent{A: friendly, B: enemy})
	eventbus.Emit(bus, events.CollisionEvent{A: enemy, B: friendly})
	assert.Equal(t, 5, ecs.GetComponent[components.Health](r, enemy).HealthPercentage, "a spent projectile hits once")
	assert.True(t, r.IsPendingKill(friendly))

	eventbus.Emit(bus, events.CollisionEvent{A: hostile, B: enemy})
	assert.Equal(t, 5, ecs.GetComponent[components.Health](r, enemy).HealthPercentage, "hostile fire ignores enemies")
	assert.False(t, r.IsPendingKill(hostile))

	eventbus.Emit(bus, events.CollisionEvent{A: player, B: hostile})
	assert.Equal(t, 90, ecs.GetComponent[components.Health](r, player).HealthPercentage)
	assert.True(t, r.IsPendingKill(hostile))

	eventbus.Emit(bus, events.CollisionEvent{A: second, B: enemy})
	assert.True(t, r.IsPendingKill(enemy))

	sched.Once(0)
	assert.False(t, r.IsAlive(enemy))
	assert.True(t, r.IsAlive(player))
}

func TestKeyboardControl(t *testing.T) {
	r, sched := newWorld()
	sched.Register(ecs.PhaseInput, systems.NewKeyboardControlSystem(r))

	e := spawn(r, 0, 0, 0, 0)
	ecs.AddComponent(r, e, components.NewSprite("chopper", 32, 32, 1, false, 32, 0))
	ecs.AddComponent(r, e, components.KeyboardControlled{
		UpVelocity:    components.Vec2{Y: -80},
		RightVelocity: components.Vec2{X: 80},
		DownVelocity:  components.Vec2{Y: 80},
		LeftVelocity:  components.Vec2{X: -80},
	})
	sched.Once(0)

	eventbus.Emit(sched.Bus(), events.KeyPressedEvent{Key: ebiten.KeyArrowDown})
	assert.Equal(t, components.Vec2{Y: 80}, ecs.GetComponent[components.RigidBody](r, e).Velocity)
	sprite := ecs.GetComponent[components.Sprite](r, e)
	assert.Equal(t, 64, sprite.SrcRect.Min.Y)
	assert.Equal(t, 32, sprite.SrcRect.Min.X)

	eventbus.Emit(sched.Bus(), events.KeyPressedEvent{Key: ebiten.KeyA})
	assert.Equal(t, components.Vec2{Y: 80}, ecs.GetComponent[components.RigidBody](r, e).Velocity, "other keys are ignored")
}

func TestProjectileEmission(t *testing.T) {
	t.Run("repeating emitter", func(t *testing.T) {
		r, _ := newWorld()
		emit := systems.NewProjectileEmitSystem()
		r.AddSystem(emit)

		turret := r.CreateEntity()
		ecs.AddComponent(r, turret, components.NewTransform(50, 50))
		emitter := components.NewProjectileEmitter(components.Vec2{Y: 100})
		emitter.RepeatFrequency = time.Second
		ecs.AddComponent(r, turret, emitter)
		r.Update()

		emit.Execute(&ecs.UpdateFrame{Registry: r, Elapsed: 1500 * time.Millisecond})
		emit.Execute(&ecs.UpdateFrame{Registry: r, Elapsed: 2 * time.Second})
		r.Update()

		shots := r.GetEntitiesByGroup(components.GroupProjectiles)
		require.Len(t, shots, 1)
		assert.Equal(t, components.Vec2{Y: 100}, ecs.GetComponent[components.RigidBody](r, shots[0]).Velocity)
		p := ecs.GetComponent[components.Projectile](r, shots[0])
		assert.Equal(t, 1500*time.Millisecond, p.StartTime)
		assert.Equal(t, 10*time.Second, p.Duration)
		assert.Equal(t, 1500*time.Millisecond, ecs.GetComponent[components.ProjectileEmitter](r, turret).LastEmissionTime)
	})

	t.Run("space fires along the direction of travel", func(t *testing.T) {
		r, sched := newWorld()
		sched.Register(ecs.PhaseUpdate, systems.NewProjectileEmitSystem())

		player := spawn(r, 100, 100, -20, 0)
		ecs.AddComponent(r, player, components.CameraFollow{})
		emitter := components.NewProjectileEmitter(components.Vec2{X: 150, Y: 150})
		emitter.IsFriendly = true
		ecs.AddComponent(r, player, emitter)
		sched.Once(0)
		require.Empty(t, r.GetEntitiesByGroup(components.GroupProjectiles))

		eventbus.Emit(sched.Bus(), events.KeyPressedEvent{Key: ebiten.KeySpace})
		sched.Once(0)
		sched.Once(0)

		shots := r.GetEntitiesByGroup(components.GroupProjectiles)
		require.Len(t, shots, 1)
		assert.Equal(t, components.Vec2{X: -150}, ecs.GetComponent[components.RigidBody](r, shots[0]).Velocity)
		assert.True(t, ecs.GetComponent[components.Projectile](r, shots[0]).IsFriendly)
	})
}

func TestProjectileLifecycle(t *testing.T) {
	r, _ := newWorld()
	lifecycle := systems.NewProjectileLifecycleSystem()
	r.AddSystem(lifecycle)

	e := r.CreateEntity()
	ecs.AddComponent(r, e, components.Projectile{Duration: time.Second})
	r.Update()

	lifecycle.Execute(&ecs.UpdateFrame{Registry: r, Elapsed: time.Second})
	assert.False(t, r.IsPendingKill(e))
	lifecycle.Execute(&ecs.UpdateFrame{Registry: r, Elapsed: 1001 * time.Millisecond})
	assert.True(t, r.IsPendingKill(e))
}

func TestInputSystem(t *testing.T) {
	r, sched := newWorld()
	pressed := []ebiten.Key{ebiten.KeySpace, ebiten.KeyArrowUp}
	sched.Register(ecs.PhaseInput, systems.NewInputSystem(func(keys []ebiten.Key) []ebiten.Key {
		return append(keys, pressed...)
	}))

	var got []ebiten.Key
	sched.Register(ecs.PhaseInput, &keyRecorder{keys: &got})
	sched.Once(0)
	assert.Equal(t, pressed, got)

	ecs.AddSingleton(r, debugui.ImguiInputState{WantCaptureKeyboard: true})
	got = nil
	sched.Once(0)
	assert.Empty(t, got, "keys are swallowed while the GUI has focus")
}

type keyRecorder struct {
	keys *[]ebiten.Key
}

func (k *keyRecorder) SubscribeToEvents(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, func(ev *events.KeyPressedEvent) {
		*k.keys = append(*k.keys, ev.Key)
	})
}

func (k *keyRecorder) Execute(*ecs.UpdateFrame) {}
