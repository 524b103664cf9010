package ecs_test

import (
	"testing"

	"github.com/plus3/skirmish/ecs"
	"github.com/stretchr/testify/assert"
)

func TestPool(t *testing.T) {
	pool := ecs.NewPool[Position]()
	assert.Equal(t, 0, pool.Len())
	assert.Nil(t, pool.Get(0))

	first := pool.Set(0, Position{X: 1})
	pool.Set(130, Position{X: 2})

	assert.Equal(t, 131, pool.Len())
	assert.GreaterOrEqual(t, pool.Cap(), 131)
	assert.Equal(t, Position{}, *pool.Get(64), "gaps hold the zero value")
	assert.Same(t, first, pool.Get(0), "growth keeps addresses stable")
	assert.Equal(t, float32(2), pool.Get(130).X)

	pool.Remove(130)
	assert.Equal(t, float32(2), pool.Get(130).X, "remove leaves the value in place")

	pool.Set(130, Position{X: 3})
	assert.Equal(t, float32(3), pool.Get(130).X)
}

func TestComponentRegistry(t *testing.T) {
	components := ecs.NewComponentRegistry()
	pos := ecs.RegisterComponent[Position](components)
	vel := ecs.RegisterComponent[Velocity](components)

	assert.Equal(t, ecs.ComponentId(0), pos)
	assert.Equal(t, ecs.ComponentId(1), vel)
	assert.Equal(t, pos, ecs.RegisterComponent[Position](components), "registration is idempotent")
	assert.Equal(t, 2, components.Len())

	id, ok := ecs.ComponentIdOf[Velocity](components)
	assert.True(t, ok)
	assert.Equal(t, vel, id)
	assert.Equal(t, "ecs_test.Velocity", components.Type(vel).String())

	_, ok = ecs.ComponentIdOf[Health](components)
	assert.False(t, ok)
	assert.Nil(t, components.Type(99))
}
