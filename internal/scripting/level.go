package scripting

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
	"github.com/rotisserie/eris"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// AssetLoader receives the textures and fonts a level declares.
type AssetLoader interface {
	AddTexture(id, path string) error
	AddFont(id, path string, size float64) error
}

// LevelSummary describes what a level load produced.
type LevelSummary struct {
	Assets   int
	Tiles    int
	Entities int
	Bounds   components.MapBounds
}

// LevelPath returns the script for level n inside dir.
func LevelPath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("level%d.lua", n))
}

// LevelLoader populates a registry from a Lua level script. The script must
// assign a global table named Level with optional assets, tilemap and
// entities fields. File paths in the level are resolved against Root.
type LevelLoader struct {
	Root string

	engine *Engine
	assets AssetLoader
}

func NewLevelLoader(engine *Engine, assets AssetLoader) *LevelLoader {
	return &LevelLoader{engine: engine, assets: assets}
}

func (l *LevelLoader) resolve(path string) string {
	if l.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Root, path)
}

// Load runs the level script at path and creates its tiles and entities.
// Entities are created pending and become live on the next registry update.
func (l *LevelLoader) Load(path string) (LevelSummary, error) {
	var summary LevelSummary
	if err := l.engine.DoFile(path); err != nil {
		return summary, eris.Wrap(err, "load level")
	}

	level, ok := l.engine.vm.GetGlobal("Level").(*lua.LTable)
	if !ok {
		return summary, eris.Errorf("level %s does not define a Level table", path)
	}

	if assets, ok := level.RawGetString("assets").(*lua.LTable); ok {
		n, err := l.loadAssets(assets)
		if err != nil {
			return summary, err
		}
		summary.Assets = n
	}

	if tilemap, ok := level.RawGetString("tilemap").(*lua.LTable); ok {
		tiles, bounds, err := l.loadTilemap(tilemap)
		if err != nil {
			return summary, err
		}
		summary.Tiles = tiles
		summary.Bounds = bounds
	}

	if entities, ok := level.RawGetString("entities").(*lua.LTable); ok {
		n, err := l.loadEntities(entities)
		if err != nil {
			return summary, err
		}
		summary.Entities = n
	}

	l.engine.log.Info("level loaded",
		zap.String("path", path),
		zap.Int("assets", summary.Assets),
		zap.Int("tiles", summary.Tiles),
		zap.Int("entities", summary.Entities))
	return summary, nil
}

func (l *LevelLoader) loadAssets(tbl *lua.LTable) (int, error) {
	count := 0
	var err error
	eachElement(tbl, func(i int, v lua.LValue) bool {
		asset, ok := v.(*lua.LTable)
		if !ok {
			err = eris.Errorf("asset %d is not a table", i)
			return false
		}
		id := stringField(asset, "id", "")
		file := l.resolve(stringField(asset, "file", ""))

		switch kind := stringField(asset, "type", ""); kind {
		case "texture":
			err = l.assets.AddTexture(id, file)
		case "font":
			err = l.assets.AddFont(id, file, numberField(asset, "font_size", 12))
		default:
			err = eris.Errorf("asset %q has unknown type %q", id, kind)
		}
		if err != nil {
			return false
		}
		count++
		return true
	})
	return count, err
}

func (l *LevelLoader) loadTilemap(tbl *lua.LTable) (int, components.MapBounds, error) {
	mapFile := l.resolve(stringField(tbl, "map_file", ""))
	textureId := stringField(tbl, "texture_asset_id", "")
	tileSize := int(numberField(tbl, "tile_size", 32))
	scale := numberField(tbl, "scale", 1)

	codes, err := readTileCodes(mapFile)
	if err != nil {
		return 0, components.MapBounds{}, err
	}

	r := l.engine.registry
	step := float64(tileSize) * scale
	cols := 0
	tiles := 0
	for y, row := range codes {
		cols = max(cols, len(row))
		for x, code := range row {
			srcX := (code % 10) * tileSize
			srcY := (code / 10) * tileSize

			tile := r.CreateEntity()
			r.GroupEntity(tile, components.GroupTiles)
			ecs.AddComponent(r, tile, components.Transform{
				Position: components.Vec2{X: float64(x) * step, Y: float64(y) * step},
				Scale:    components.Vec2{X: scale, Y: scale},
			})
			ecs.AddComponent(r, tile, components.NewSprite(textureId, tileSize, tileSize, 0, false, srcX, srcY))
			tiles++
		}
	}

	bounds := components.MapBounds{Width: float64(cols) * step, Height: float64(len(codes)) * step}
	ecs.AddSingleton(r, bounds)
	return tiles, bounds, nil
}

// readTileCodes parses a comma separated grid of two digit tile codes. The
// tens digit selects the tileset row and the units digit the column.
func readTileCodes(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open tilemap %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "read tilemap %s", path)
	}

	codes := make([][]int, 0, len(records))
	for y, record := range records {
		row := make([]int, 0, len(record))
		for x, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			code, err := strconv.Atoi(field)
			if err != nil || code < 0 || code > 99 {
				return nil, eris.Errorf("tilemap %s: bad tile code %q at row %d column %d", path, field, y, x)
			}
			row = append(row, code)
		}
		if len(row) > 0 {
			codes = append(codes, row)
		}
	}
	return codes, nil
}

func (l *LevelLoader) loadEntities(tbl *lua.LTable) (int, error) {
	count := 0
	var err error
	eachElement(tbl, func(i int, v lua.LValue) bool {
		def, ok := v.(*lua.LTable)
		if !ok {
			err = eris.Errorf("entity %d is not a table", i)
			return false
		}
		if err = l.createEntity(def); err != nil {
			err = eris.Wrapf(err, "entity %d", i)
			return false
		}
		count++
		return true
	})
	return count, err
}

func (l *LevelLoader) createEntity(def *lua.LTable) error {
	r := l.engine.registry
	e := r.CreateEntity()

	if tag := stringField(def, "tag", ""); tag != "" {
		if err := r.Tag(e, tag); err != nil {
			return err
		}
	}
	if group := stringField(def, "group", ""); group != "" {
		r.GroupEntity(e, group)
	}

	comps, ok := def.RawGetString("components").(*lua.LTable)
	if !ok {
		return nil
	}

	if t := tableField(comps, "transform"); t != nil {
		ecs.AddComponent(r, e, components.Transform{
			Position: vecField(t, "position", components.Vec2{}),
			Scale:    vecField(t, "scale", components.Vec2{X: 1, Y: 1}),
			Rotation: numberField(t, "rotation", 0),
		})
	}

	if t := tableField(comps, "rigidbody"); t != nil {
		ecs.AddComponent(r, e, components.RigidBody{Velocity: vecField(t, "velocity", components.Vec2{})})
	}

	if t := tableField(comps, "sprite"); t != nil {
		ecs.AddComponent(r, e, components.NewSprite(
			stringField(t, "texture_asset_id", ""),
			int(numberField(t, "width", 0)),
			int(numberField(t, "height", 0)),
			int(numberField(t, "z_index", 1)),
			boolField(t, "fixed", false),
			int(numberField(t, "src_rect_x", 0)),
			int(numberField(t, "src_rect_y", 0)),
		))
	}

	if t := tableField(comps, "animation"); t != nil {
		ecs.AddComponent(r, e, components.Animation{
			NumFrames:      int(numberField(t, "num_frames", 1)),
			FrameSpeedRate: int(numberField(t, "speed_rate", 1)),
			IsLoop:         boolField(t, "is_loop", true),
		})
	}

	if t := tableField(comps, "boxcollider"); t != nil {
		ecs.AddComponent(r, e, components.BoxCollider{
			Width:  int(numberField(t, "width", 0)),
			Height: int(numberField(t, "height", 0)),
			Offset: vecField(t, "offset", components.Vec2{}),
		})
	}

	if t := tableField(comps, "health"); t != nil {
		ecs.AddComponent(r, e, components.Health{HealthPercentage: int(numberField(t, "health_percentage", 100))})
	}

	if t := tableField(comps, "projectile_emitter"); t != nil {
		emitter := components.NewProjectileEmitter(vecField(t, "projectile_velocity", components.Vec2{}))
		emitter.RepeatFrequency = seconds(numberField(t, "repeat_frequency", 0))
		emitter.ProjectileDuration = seconds(numberField(t, "projectile_duration", emitter.ProjectileDuration.Seconds()))
		emitter.HitPercentDamage = int(numberField(t, "hit_percentage_damage", float64(emitter.HitPercentDamage)))
		emitter.IsFriendly = boolField(t, "friendly", false)
		ecs.AddComponent(r, e, emitter)
	}

	if t := tableField(comps, "keyboard_controller"); t != nil {
		ecs.AddComponent(r, e, components.KeyboardControlled{
			UpVelocity:    vecField(t, "up_velocity", components.Vec2{}),
			RightVelocity: vecField(t, "right_velocity", components.Vec2{}),
			DownVelocity:  vecField(t, "down_velocity", components.Vec2{}),
			LeftVelocity:  vecField(t, "left_velocity", components.Vec2{}),
		})
	}

	if t := tableField(comps, "camera_follow"); t != nil && boolField(t, "follow", true) {
		ecs.AddComponent(r, e, components.CameraFollow{})
	}

	if t := tableField(comps, "text_label"); t != nil {
		ecs.AddComponent(r, e, components.TextLabel{
			Position: vecField(t, "position", components.Vec2{}),
			Text:     stringField(t, "text", ""),
			AssetId:  stringField(t, "font", ""),
			Color:    colorField(t, "color", color.RGBA{255, 255, 255, 255}),
			IsFixed:  boolField(t, "fixed", true),
		})
	}

	if fn := scriptField(comps, "on_update_script"); fn != nil {
		ecs.AddComponent(r, e, components.Script{Func: fn})
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// eachElement visits the array elements of tbl in order. Level files may
// index from 0 or 1.
func eachElement(tbl *lua.LTable, visit func(i int, v lua.LValue) bool) {
	i := 1
	if tbl.RawGet(lua.LNumber(0)) != lua.LNil {
		i = 0
	}
	for ; ; i++ {
		v := tbl.RawGet(lua.LNumber(i))
		if v == lua.LNil || !visit(i, v) {
			return
		}
	}
}

func tableField(tbl *lua.LTable, key string) *lua.LTable {
	t, _ := tbl.RawGetString(key).(*lua.LTable)
	return t
}

func stringField(tbl *lua.LTable, key, def string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return def
}

func numberField(tbl *lua.LTable, key string, def float64) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

func boolField(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

func vecField(tbl *lua.LTable, key string, def components.Vec2) components.Vec2 {
	t := tableField(tbl, key)
	if t == nil {
		return def
	}
	return components.Vec2{X: numberField(t, "x", def.X), Y: numberField(t, "y", def.Y)}
}

func colorField(tbl *lua.LTable, key string, def color.RGBA) color.RGBA {
	t := tableField(tbl, key)
	if t == nil {
		return def
	}
	channel := func(name string, d uint8) uint8 {
		return uint8(max(0, min(255, numberField(t, name, float64(d)))))
	}
	return color.RGBA{R: channel("r", def.R), G: channel("g", def.G), B: channel("b", def.B), A: channel("a", def.A)}
}

// scriptField accepts either a function or a table holding one as its first
// element.
func scriptField(tbl *lua.LTable, key string) *lua.LFunction {
	switch v := tbl.RawGetString(key).(type) {
	case *lua.LFunction:
		return v
	case *lua.LTable:
		var fn *lua.LFunction
		eachElement(v, func(_ int, el lua.LValue) bool {
			fn, _ = el.(*lua.LFunction)
			return false
		})
		return fn
	}
	return nil
}
