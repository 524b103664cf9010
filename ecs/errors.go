package ecs

import "github.com/rotisserie/eris"

var (
	// ErrComponentNotFound is raised when reading a component whose bit is not
	// set in the entity's signature.
	ErrComponentNotFound = eris.New("component not found")
	// ErrComponentNotRegistered is raised when a component type was never
	// passed to RegisterComponent.
	ErrComponentNotRegistered = eris.New("component type not registered")
	// ErrTooManyComponents is raised when registering more than MaxComponents types.
	ErrTooManyComponents = eris.New("too many component types")
	// ErrSystemNotRegistered is raised by GetSystem for an unknown system type.
	ErrSystemNotRegistered = eris.New("system not registered")
	// ErrDuplicateSystem is raised when a system type is added twice.
	ErrDuplicateSystem = eris.New("system already registered")
	// ErrSignatureFrozen is raised when a system declares a requirement after
	// it has been added to a registry.
	ErrSignatureFrozen = eris.New("system signature is frozen")
	// ErrStaleEntity is raised when a handle's generation no longer matches
	// the live occupant of its id.
	ErrStaleEntity = eris.New("stale entity handle")
	// ErrTagCollision is returned when a tag is already held by another entity.
	ErrTagCollision = eris.New("tag already in use")
)
