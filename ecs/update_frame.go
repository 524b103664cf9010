package ecs

import (
	"time"

	"github.com/plus3/skirmish/eventbus"
)

// UpdateFrame is passed to every system executed by a Scheduler.
type UpdateFrame struct {
	// DeltaTime is the seconds elapsed since the previous frame.
	DeltaTime float64
	// Elapsed is the simulated time since the scheduler started, including
	// this frame.
	Elapsed  time.Duration
	Registry *Registry
	Events   *eventbus.Bus
	Commands *Commands
}
