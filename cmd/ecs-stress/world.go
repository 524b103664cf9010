package main

import (
	"math/rand/v2"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/systems"
)

const mapSize = 4096

// Churn counts the structural operations applied during a run.
type Churn struct {
	Created int `json:"created"`
	Killed  int `json:"killed"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// world is a headless game world fed with random entities.
type world struct {
	registry  *ecs.Registry
	scheduler *ecs.Scheduler
	rng       *rand.Rand
	entities  []ecs.Entity
	churn     Churn
}

func newWorld(seed uint64, opts ...ecs.Option) *world {
	componentTypes := ecs.NewComponentRegistry()
	components.Register(componentTypes)

	r := ecs.NewRegistry(componentTypes, opts...)
	ecs.AddSingleton(r, components.MapBounds{Width: mapSize, Height: mapSize})

	s := ecs.NewScheduler(r, eventbus.New())
	s.Register(ecs.PhaseUpdate, systems.NewMovementSystem(r))
	s.Register(ecs.PhaseUpdate, systems.NewAnimationSystem())
	s.Register(ecs.PhaseUpdate, systems.NewDamageSystem(r))
	s.Register(ecs.PhaseUpdate, systems.NewProjectileEmitSystem())
	s.Register(ecs.PhaseUpdate, systems.NewProjectileLifecycleSystem())

	return &world{
		registry:  r,
		scheduler: s,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// populate creates n entities with one to five random components.
func (w *world) populate(n int) {
	for range n {
		w.spawn(w.rng.IntN(5) + 1)
	}
}

func (w *world) spawn(numComponents int) ecs.Entity {
	r := w.registry
	e := r.CreateEntity()
	w.churn.Created++

	t := components.NewTransform(w.rng.Float64()*mapSize, w.rng.Float64()*mapSize)
	ecs.AddComponent(r, e, t)
	for range numComponents - 1 {
		w.addRandom(e)
	}
	w.entities = append(w.entities, e)
	return e
}

func (w *world) addRandom(e ecs.Entity) {
	r := w.registry
	switch w.rng.IntN(5) {
	case 0:
		ecs.AddComponent(r, e, components.RigidBody{
			Velocity: components.Vec2{X: w.rng.Float64()*200 - 100, Y: w.rng.Float64()*200 - 100},
		})
	case 1:
		ecs.AddComponent(r, e, components.NewSprite("stress", 32, 32, 1, false, 0, 0))
		ecs.AddComponent(r, e, components.Animation{NumFrames: 4, FrameSpeedRate: 8, IsLoop: true})
	case 2:
		ecs.AddComponent(r, e, components.BoxCollider{Width: 32, Height: 32})
		ecs.AddComponent(r, e, components.Health{HealthPercentage: 100})
	case 3:
		emitter := components.NewProjectileEmitter(components.Vec2{X: 100})
		emitter.RepeatFrequency = time.Duration(w.rng.IntN(5)+1) * time.Second
		ecs.AddComponent(r, e, emitter)
	case 4:
		ecs.AddComponent(r, e, components.Projectile{Duration: time.Duration(w.rng.IntN(3)+1) * time.Second})
	}
	w.churn.Added++
}

func (w *world) removeRandom(e ecs.Entity) {
	r := w.registry
	switch w.rng.IntN(3) {
	case 0:
		ecs.RemoveComponent[components.RigidBody](r, e)
	case 1:
		ecs.RemoveComponent[components.ProjectileEmitter](r, e)
	case 2:
		ecs.RemoveComponent[components.Health](r, e)
	}
	w.churn.Removed++
}

// compact drops handles the registry has released.
func (w *world) compact() {
	live := w.entities[:0]
	for _, e := range w.entities {
		if w.registry.IsAlive(e) {
			live = append(live, e)
		}
	}
	w.entities = live
}

// mutate applies ops random create, kill, add and remove operations.
func (w *world) mutate(ops int) {
	w.compact()
	for range ops {
		if len(w.entities) == 0 {
			w.spawn(w.rng.IntN(5) + 1)
			continue
		}
		e := w.entities[w.rng.IntN(len(w.entities))]
		switch w.rng.IntN(4) {
		case 0:
			w.spawn(w.rng.IntN(5) + 1)
		case 1:
			if !w.registry.IsPendingKill(e) {
				w.registry.KillEntity(e)
				w.churn.Killed++
			}
		case 2:
			w.addRandom(e)
		case 3:
			w.removeRandom(e)
		}
	}
}

// frame mutates the world and runs one scheduler tick, returning how long
// the tick took.
func (w *world) frame(ops int, dt float64) time.Duration {
	w.mutate(ops)
	start := time.Now()
	w.scheduler.Once(dt)
	return time.Since(start)
}
