package ecs_test

import (
	"testing"

	"github.com/plus3/skirmish/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	t.Run("lookup by tag", func(t *testing.T) {
		r := newTestRegistry()
		player := r.CreateEntity()
		require.NoError(t, r.Tag(player, "player"))

		got, ok := r.GetEntityByTag("player")
		require.True(t, ok)
		assert.Equal(t, player, got)
		assert.True(t, r.HasTag(player, "player"))

		tag, ok := r.TagOf(player)
		assert.True(t, ok)
		assert.Equal(t, "player", tag)
	})

	t.Run("first writer wins", func(t *testing.T) {
		r := newTestRegistry()
		a := r.CreateEntity()
		b := r.CreateEntity()

		require.NoError(t, r.Tag(a, "player"))
		err := r.Tag(b, "player")
		assert.ErrorIs(t, err, ecs.ErrTagCollision)

		holder, _ := r.GetEntityByTag("player")
		assert.Equal(t, a, holder)
		assert.False(t, r.HasTag(b, "player"))
		_, ok := r.TagOf(b)
		assert.False(t, ok)
	})

	t.Run("retagging", func(t *testing.T) {
		r := newTestRegistry()
		e := r.CreateEntity()

		require.NoError(t, r.Tag(e, "player"))
		require.NoError(t, r.Tag(e, "player"))
		require.NoError(t, r.Tag(e, "boss"))

		_, ok := r.GetEntityByTag("player")
		assert.False(t, ok, "old tag is released")
		assert.True(t, r.HasTag(e, "boss"))
	})

	t.Run("remove", func(t *testing.T) {
		r := newTestRegistry()
		e := r.CreateEntity()
		require.NoError(t, r.Tag(e, "player"))

		r.RemoveTag("player")
		assert.False(t, r.HasTag(e, "player"))

		require.NoError(t, r.Tag(e, "player"))
		r.RemoveEntityTag(e)
		_, ok := r.GetEntityByTag("player")
		assert.False(t, ok)

		assert.NotPanics(t, func() { r.RemoveTag("missing") })
	})

	t.Run("tag released on kill", func(t *testing.T) {
		r := newTestRegistry()
		e := r.CreateEntity()
		require.NoError(t, r.Tag(e, "player"))
		r.Update()

		r.KillEntity(e)
		assert.True(t, r.HasTag(e, "player"), "kill is deferred")
		r.Update()

		_, ok := r.GetEntityByTag("player")
		assert.False(t, ok)

		other := r.CreateEntity()
		assert.NoError(t, r.Tag(other, "player"))
	})
}

func TestGroups(t *testing.T) {
	t.Run("members", func(t *testing.T) {
		r := newTestRegistry()
		a := r.CreateEntity()
		b := r.CreateEntity()
		c := r.CreateEntity()

		r.GroupEntity(a, "enemies")
		r.GroupEntity(b, "enemies")
		r.GroupEntity(c, "obstacles")

		assert.Equal(t, []ecs.Entity{a, b}, r.GetEntitiesByGroup("enemies"))
		assert.True(t, r.BelongsToGroup(a, "enemies"))
		assert.False(t, r.BelongsToGroup(c, "enemies"))
		assert.Nil(t, r.GetEntitiesByGroup("projectiles"))
	})

	t.Run("regrouping moves the entity", func(t *testing.T) {
		r := newTestRegistry()
		e := r.CreateEntity()

		r.GroupEntity(e, "enemies")
		r.GroupEntity(e, "obstacles")

		assert.Empty(t, r.GetEntitiesByGroup("enemies"))
		assert.Equal(t, []ecs.Entity{e}, r.GetEntitiesByGroup("obstacles"))
		group, ok := r.GroupOf(e)
		assert.True(t, ok)
		assert.Equal(t, "obstacles", group)
	})

	t.Run("kill removes from group", func(t *testing.T) {
		r := newTestRegistry()
		a := r.CreateEntity()
		b := r.CreateEntity()
		r.GroupEntity(a, "enemies")
		r.GroupEntity(b, "enemies")
		r.Update()

		r.KillEntity(a)
		r.Update()

		assert.Equal(t, []ecs.Entity{b}, r.GetEntitiesByGroup("enemies"))
	})

	t.Run("remove entity group", func(t *testing.T) {
		r := newTestRegistry()
		e := r.CreateEntity()
		r.GroupEntity(e, "enemies")
		r.RemoveEntityGroup(e)

		assert.False(t, r.BelongsToGroup(e, "enemies"))
		_, ok := r.GroupOf(e)
		assert.False(t, ok)
	})
}
