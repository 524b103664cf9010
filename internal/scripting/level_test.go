package scripting_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/scripting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedAsset struct {
	kind, id, path string
	size           float64
}

type fakeAssets struct {
	added []recordedAsset
}

func (f *fakeAssets) AddTexture(id, path string) error {
	f.added = append(f.added, recordedAsset{kind: "texture", id: id, path: path})
	return nil
}

func (f *fakeAssets) AddFont(id, path string, size float64) error {
	f.added = append(f.added, recordedAsset{kind: "font", id: id, path: path, size: size})
	return nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const testLevel = `
Level = {
	assets = {
		[0] = { type = "texture", id = "tilemap-texture", file = "jungle.png" },
		{ type = "texture", id = "chopper-image", file = "chopper.png" },
		{ type = "font", id = "pico8-font-5", file = "pico8.ttf", font_size = 5 },
	},
	tilemap = {
		map_file = "jungle.map",
		texture_asset_id = "tilemap-texture",
		tile_size = 32,
		scale = 2.0,
	},
	entities = {
		[0] = {
			tag = "player",
			components = {
				transform = { position = { x = 240, y = 110 }, scale = { x = 1, y = 1 }, rotation = 0 },
				rigidbody = { velocity = { x = 0, y = 0 } },
				sprite = { texture_asset_id = "chopper-image", width = 32, height = 32, z_index = 4, src_rect_y = 32 },
				animation = { num_frames = 2, speed_rate = 10 },
				boxcollider = { width = 32, height = 25, offset = { x = 0, y = 5 } },
				health = { health_percentage = 100 },
				projectile_emitter = {
					projectile_velocity = { x = 200, y = 200 },
					projectile_duration = 1.5,
					hit_percentage_damage = 25,
					friendly = true,
				},
				keyboard_controller = {
					up_velocity = { x = 0, y = -50 },
					right_velocity = { x = 50, y = 0 },
					down_velocity = { x = 0, y = 50 },
					left_velocity = { x = -50, y = 0 },
				},
				camera_follow = { follow = true },
			},
		},
		{
			group = "enemies",
			components = {
				transform = { position = { x = 100, y = 100 } },
				projectile_emitter = { projectile_velocity = { x = 0, y = 100 }, repeat_frequency = 2 },
				on_update_script = {
					[0] = function(entity, delta_time, elapsed_ms)
						set_rotation(entity, elapsed_ms)
					end,
				},
			},
		},
		{
			components = {
				text_label = { position = { x = 10, y = 10 }, text = "SKIRMISH", font = "pico8-font-5", color = { r = 0, g = 255, b = 0 } },
			},
		},
	},
}
`

func TestLoadLevel(t *testing.T) {
	engine, r, _ := newEngine(t)
	dir := t.TempDir()
	writeFile(t, dir, "jungle.map", "21,00,01\n10,11,12\n")
	path := writeFile(t, dir, "level1.lua", testLevel)

	assets := &fakeAssets{}
	loader := scripting.NewLevelLoader(engine, assets)
	loader.Root = dir

	summary, err := loader.Load(path)
	require.NoError(t, err)
	r.Update()

	assert.Equal(t, 3, summary.Assets)
	assert.Equal(t, 6, summary.Tiles)
	assert.Equal(t, 3, summary.Entities)
	assert.Equal(t, components.MapBounds{Width: 192, Height: 128}, summary.Bounds)
	assert.Equal(t, summary.Bounds, *ecs.GetSingleton[components.MapBounds](r))

	require.Len(t, assets.added, 3)
	assert.Equal(t, recordedAsset{kind: "texture", id: "tilemap-texture", path: filepath.Join(dir, "jungle.png")}, assets.added[0])
	assert.Equal(t, recordedAsset{kind: "font", id: "pico8-font-5", path: filepath.Join(dir, "pico8.ttf"), size: 5}, assets.added[2])

	tiles := r.GetEntitiesByGroup(components.GroupTiles)
	require.Len(t, tiles, 6)
	first := ecs.GetComponent[components.Sprite](r, tiles[0])
	assert.Equal(t, 32, first.SrcRect.Min.X, "units digit selects the column")
	assert.Equal(t, 64, first.SrcRect.Min.Y, "tens digit selects the row")
	last := ecs.GetComponent[components.Transform](r, tiles[5])
	assert.Equal(t, components.Vec2{X: 128, Y: 64}, last.Position)
	assert.Equal(t, components.Vec2{X: 2, Y: 2}, last.Scale)

	player, ok := r.GetEntityByTag(components.TagPlayer)
	require.True(t, ok)
	assert.Equal(t, components.Vec2{X: 240, Y: 110}, ecs.GetComponent[components.Transform](r, player).Position)
	assert.Equal(t, 32, ecs.GetComponent[components.Sprite](r, player).SrcRect.Min.Y)
	assert.True(t, ecs.GetComponent[components.Animation](r, player).IsLoop)
	assert.Equal(t, components.Vec2{X: 0, Y: 5}, ecs.GetComponent[components.BoxCollider](r, player).Offset)
	assert.True(t, ecs.HasComponent[components.CameraFollow](r, player))
	assert.Equal(t, components.Vec2{X: -50}, ecs.GetComponent[components.KeyboardControlled](r, player).LeftVelocity)

	emitter := ecs.GetComponent[components.ProjectileEmitter](r, player)
	assert.Equal(t, 1500*time.Millisecond, emitter.ProjectileDuration)
	assert.Equal(t, 25, emitter.HitPercentDamage)
	assert.True(t, emitter.IsFriendly)
	assert.Zero(t, emitter.RepeatFrequency)

	enemies := r.GetEntitiesByGroup(components.GroupEnemies)
	require.Len(t, enemies, 1)
	enemyEmitter := ecs.GetComponent[components.ProjectileEmitter](r, enemies[0])
	assert.Equal(t, 2*time.Second, enemyEmitter.RepeatFrequency)
	assert.Equal(t, 10*time.Second, enemyEmitter.ProjectileDuration)
	assert.Equal(t, 10, enemyEmitter.HitPercentDamage)
	assert.NotNil(t, ecs.GetComponent[components.Script](r, enemies[0]).Func)

	system := scripting.NewScriptSystem(engine)
	r.AddSystem(system)
	system.Execute(&ecs.UpdateFrame{Elapsed: 45 * time.Millisecond, Registry: r})
	assert.Equal(t, 45.0, ecs.GetComponent[components.Transform](r, enemies[0]).Rotation)
}

func TestLoadLevelErrors(t *testing.T) {
	t.Run("missing Level table", func(t *testing.T) {
		engine, _, _ := newEngine(t)
		path := writeFile(t, t.TempDir(), "level.lua", `Other = {}`)
		_, err := scripting.NewLevelLoader(engine, &fakeAssets{}).Load(path)
		assert.ErrorContains(t, err, "does not define a Level table")
	})

	t.Run("syntax error", func(t *testing.T) {
		engine, _, _ := newEngine(t)
		path := writeFile(t, t.TempDir(), "level.lua", `Level = {`)
		_, err := scripting.NewLevelLoader(engine, &fakeAssets{}).Load(path)
		assert.Error(t, err)
	})

	t.Run("bad tile code", func(t *testing.T) {
		engine, _, _ := newEngine(t)
		dir := t.TempDir()
		writeFile(t, dir, "bad.map", "00,xx\n")
		path := writeFile(t, dir, "level.lua", `Level = { tilemap = { map_file = "bad.map" } }`)
		loader := scripting.NewLevelLoader(engine, &fakeAssets{})
		loader.Root = dir
		_, err := loader.Load(path)
		assert.ErrorContains(t, err, "bad tile code")
	})

	t.Run("duplicate tag", func(t *testing.T) {
		engine, _, _ := newEngine(t)
		path := writeFile(t, t.TempDir(), "level.lua", `
			Level = { entities = { { tag = "player" }, { tag = "player" } } }
		`)
		_, err := scripting.NewLevelLoader(engine, &fakeAssets{}).Load(path)
		assert.ErrorIs(t, err, ecs.ErrTagCollision)
	})

	t.Run("unknown asset type", func(t *testing.T) {
		engine, _, _ := newEngine(t)
		path := writeFile(t, t.TempDir(), "level.lua", `
			Level = { assets = { { type = "sound", id = "boom", file = "boom.wav" } } }
		`)
		_, err := scripting.NewLevelLoader(engine, &fakeAssets{}).Load(path)
		assert.ErrorContains(t, err, "unknown type")
	})
}

func TestLevelPath(t *testing.T) {
	assert.Equal(t, filepath.Join("assets", "scripts", "level2.lua"), scripting.LevelPath("assets/scripts", 2))
}

func TestSampleLevel(t *testing.T) {
	engine, r, logs := newEngine(t)
	assets := &fakeAssets{}
	loader := scripting.NewLevelLoader(engine, assets)
	loader.Root = filepath.Join("..", "..", "assets")

	summary, err := loader.Load(scripting.LevelPath(filepath.Join(loader.Root, "scripts"), 1))
	require.NoError(t, err)

	assert.Equal(t, 8, summary.Assets)
	assert.Equal(t, 25*20, summary.Tiles)
	assert.Equal(t, 9, summary.Entities)
	assert.Equal(t, components.MapBounds{Width: 1600, Height: 1280}, summary.Bounds)

	player, ok := r.GetEntityByTag(components.TagPlayer)
	require.True(t, ok)
	assert.True(t, ecs.HasComponent[components.CameraFollow](r, player))
	assert.Len(t, r.GetEntitiesByGroup(components.GroupEnemies), 4)

	system := scripting.NewScriptSystem(engine)
	r.AddSystem(system)
	r.Update()
	assert.Len(t, system.Entities(), 2)

	system.Execute(&ecs.UpdateFrame{DeltaTime: 1.0 / 60, Elapsed: time.Second, Registry: r})
	assert.Zero(t, logs.FilterMessage("update script failed").Len())
}
