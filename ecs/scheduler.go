package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/plus3/skirmish/eventbus"
)

// Executor is a unit of per-frame behavior run by a Scheduler.
type Executor interface {
	Execute(frame *UpdateFrame)
}

// Subscriber is implemented by systems that listen on the event bus. The
// bus is reset at the start of every frame and SubscribeToEvents is called
// again, so subscriptions never outlive a frame.
type Subscriber interface {
	SubscribeToEvents(bus *eventbus.Bus)
}

// Phase selects when a system runs within a frame.
type Phase int

const (
	// PhaseInput runs before the registry flushes pending entities. Input
	// systems typically turn device state into events.
	PhaseInput Phase = iota
	// PhaseUpdate runs after the registry flush.
	PhaseUpdate
	// PhaseRender runs from Draw.
	PhaseRender

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	}
	return "unknown"
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Elapsed         time.Duration
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Phase          Phase
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type scheduledSystem struct {
	system         Executor
	name           string
	phase          Phase
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler drives the frame protocol: reset the event bus, let subscribers
// re-subscribe, run input systems, flush the registry, run update systems.
// Render systems run separately from Draw.
type Scheduler struct {
	registry    *Registry
	bus         *eventbus.Bus
	phases      [phaseCount][]*scheduledSystem
	ordered     []*scheduledSystem
	subscribers []Subscriber
	commands    *Commands
	elapsed     time.Duration
	lastDelta   float64
	frames      int64
}

// NewScheduler creates a scheduler for the given registry and bus.
func NewScheduler(registry *Registry, bus *eventbus.Bus) *Scheduler {
	return &Scheduler{
		registry: registry,
		bus:      bus,
		commands: newCommands(),
	}
}

// Register adds system to phase. Systems embedding System are added to the
// registry; other systems only get their Singleton fields bound.
func (s *Scheduler) Register(phase Phase, system Executor) {
	if handle, ok := system.(AnySystem); ok {
		s.registry.AddSystem(handle)
	} else {
		s.registry.bindSingletons(system)
	}
	if sub, ok := system.(Subscriber); ok {
		s.subscribers = append(s.subscribers, sub)
	}

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	entry := &scheduledSystem{
		system:      system,
		name:        systemType.Name(),
		phase:       phase,
		minDuration: time.Duration(1<<63 - 1),
	}
	s.phases[phase] = append(s.phases[phase], entry)
	s.ordered = append(s.ordered, entry)
}

// Registry returns the registry the scheduler drives.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Bus returns the scheduler's event bus.
func (s *Scheduler) Bus() *eventbus.Bus {
	return s.bus
}

// Elapsed returns the simulated time accumulated by Once.
func (s *Scheduler) Elapsed() time.Duration {
	return s.elapsed
}

// Once advances the simulation by dt seconds.
func (s *Scheduler) Once(dt float64) {
	s.elapsed += time.Duration(dt * float64(time.Second))
	s.lastDelta = dt
	s.frames++
	frame := s.newFrame(dt)

	s.bus.Reset()
	for _, sub := range s.subscribers {
		sub.SubscribeToEvents(s.bus)
	}

	s.runPhase(PhaseInput, frame)
	s.registry.Update()
	s.runPhase(PhaseUpdate, frame)

	s.commands.Flush()
}

// Draw runs the render phase using the most recent delta time.
func (s *Scheduler) Draw() {
	frame := s.newFrame(s.lastDelta)
	s.runPhase(PhaseRender, frame)
	s.commands.Flush()
}

func (s *Scheduler) newFrame(dt float64) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Elapsed:   s.elapsed,
		Registry:  s.registry,
		Events:    s.bus,
		Commands:  s.commands,
	}
}

func (s *Scheduler) runPhase(phase Phase, frame *UpdateFrame) {
	for _, entry := range s.phases[phase] {
		start := time.Now()
		entry.system.Execute(frame)
		duration := time.Since(start)

		entry.executionCount++
		entry.lastDuration = duration
		entry.totalDuration += duration

		if duration < entry.minDuration {
			entry.minDuration = duration
		}
		if duration > entry.maxDuration {
			entry.maxDuration = duration
		}
	}
}

// Run executes frames at the given interval until the context is cancelled.
// It never runs the render phase and is meant for headless simulation.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution in registration order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.ordered),
		Frames:      s.frames,
		Elapsed:     s.elapsed,
		Systems:     make([]SystemStats, len(s.ordered)),
	}

	var totalExecs int64
	for i, internal := range s.ordered {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			Phase:          internal.phase,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
