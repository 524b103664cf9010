package gui_test

import (
	"testing"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/gui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *ecs.Registry {
	c := ecs.NewComponentRegistry()
	components.Register(c)
	debugui.RegisterDebugUIComponents(c)
	return ecs.NewRegistry(c)
}

func TestEnemyFormSpawn(t *testing.T) {
	r := newRegistry()

	form := gui.DefaultEnemyForm("tank-image")
	form.PositionX, form.PositionY = 100, 200
	form.ScaleX = 40
	form.Rotation = 90
	form.BodySpeed = 50
	form.ProjectileRepeat = 2
	form.Health = 150

	e := form.Spawn(r)
	require.True(t, r.IsAlive(e))
	assert.True(t, r.BelongsToGroup(e, components.GroupEnemies))

	tr := ecs.GetComponent[components.Transform](r, e)
	assert.Equal(t, components.Vec2{X: 100, Y: 200}, tr.Position)
	assert.Equal(t, components.Vec2{X: 10, Y: 1}, tr.Scale, "scale is clamped")
	assert.Equal(t, 90.0, tr.Rotation)

	body := ecs.GetComponent[components.RigidBody](r, e)
	assert.InDelta(t, 0, body.Velocity.X, 1e-9)
	assert.InDelta(t, 50, body.Velocity.Y, 1e-9, "body angle follows rotation")

	emitter := ecs.GetComponent[components.ProjectileEmitter](r, e)
	assert.InDelta(t, 100, emitter.ProjectileVelocity.Y, 1e-9)
	assert.Equal(t, 2*time.Second, emitter.RepeatFrequency)
	assert.Equal(t, 10*time.Second, emitter.ProjectileDuration)
	assert.Equal(t, 10, emitter.HitPercentDamage)
	assert.False(t, emitter.IsFriendly)

	assert.Equal(t, 100, ecs.GetComponent[components.Health](r, e).HealthPercentage)
	assert.Equal(t, "tank-image", ecs.GetComponent[components.Sprite](r, e).AssetId)
	assert.Equal(t, 25, ecs.GetComponent[components.BoxCollider](r, e).Width)
}

func TestEnemyFormNormalize(t *testing.T) {
	form := gui.DefaultEnemyForm("")
	form.Rotation = -90
	form.SyncBodyAngle = false
	form.BodyAngle = 45
	form.ProjectileDamage = -5
	form.BodySpeed = 9000
	form.Normalize()

	assert.Equal(t, float32(270), form.Rotation)
	assert.Equal(t, float32(45), form.BodyAngle)
	assert.Equal(t, float32(270), form.ProjectileAngle)
	assert.Equal(t, int32(0), form.ProjectileDamage)
	assert.Equal(t, int32(500), form.BodySpeed)
}

func TestMapCoordinates(t *testing.T) {
	x, y := gui.MapCoordinates(&components.Camera{X: 100, Y: 50}, 10, 20)
	assert.Equal(t, 110.0, x)
	assert.Equal(t, 70.0, y)

	x, y = gui.MapCoordinates(nil, 3, 4)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestSpawnWindows(t *testing.T) {
	r := newRegistry()
	gui.Spawn(r, func() []string { return []string{"truck-image"} }, func() (int, int) { return 0, 0 })
	r.Update()

	items := 0
	for e := range r.Entities() {
		if ecs.HasComponent[debugui.ImguiItem](r, e) {
			items++
		}
	}
	assert.Equal(t, 2, items)

	w := gui.NewSpawnWindow(func() []string { return []string{"truck-image", "tank-image"} })
	assert.Equal(t, "truck-image", w.Form.Texture)
	assert.Equal(t, int32(100), w.Form.Health)
}
