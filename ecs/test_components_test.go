package ecs_test

import "github.com/plus3/skirmish/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type Score int32

func newTestComponents() *ecs.ComponentRegistry {
	components := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](components)
	ecs.RegisterComponent[Velocity](components)
	ecs.RegisterComponent[Name](components)
	ecs.RegisterComponent[Health](components)
	ecs.RegisterComponent[PlayerController](components)
	ecs.RegisterComponent[Score](components)
	return components
}

func newTestRegistry() *ecs.Registry {
	return ecs.NewRegistry(newTestComponents())
}

// MovementSystem requires Position and Velocity.
type MovementSystem struct {
	ecs.System
	ExecuteCount int
}

func NewMovementSystem() *MovementSystem {
	s := &MovementSystem{}
	ecs.Require[Position](&s.System)
	ecs.Require[Velocity](&s.System)
	return s
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for _, e := range s.Entities() {
		pos := ecs.GetComponent[Position](frame.Registry, e)
		vel := ecs.GetComponent[Velocity](frame.Registry, e)
		pos.X += vel.DX * float32(frame.DeltaTime)
		pos.Y += vel.DY * float32(frame.DeltaTime)
	}
}

// HealthSystem requires Health.
type HealthSystem struct {
	ecs.System
	ExecuteCount int
	TotalHealth  int
}

func NewHealthSystem() *HealthSystem {
	s := &HealthSystem{}
	ecs.Require[Health](&s.System)
	return s
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for _, e := range s.Entities() {
		s.TotalHealth += ecs.GetComponent[Health](frame.Registry, e).Current
	}
}
