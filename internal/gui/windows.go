package gui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	"github.com/plus3/skirmish/internal/components"
	"go.uber.org/zap"
)

// SpawnWindow renders the Spawn Enemies form.
type SpawnWindow struct {
	Form     EnemyForm
	Textures func() []string
}

func NewSpawnWindow(textures func() []string) *SpawnWindow {
	w := &SpawnWindow{Textures: textures}
	w.Form = DefaultEnemyForm(w.firstTexture())
	return w
}

func (w *SpawnWindow) firstTexture() string {
	if w.Textures == nil {
		return ""
	}
	if ids := w.Textures(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

func (w *SpawnWindow) Render(r *ecs.Registry) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 60), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 520), imgui.CondOnce)
	if !imgui.BeginV("Spawn Enemies", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	f := &w.Form

	if imgui.TreeNodeStr("Sprite") {
		if w.Textures != nil {
			for _, id := range w.Textures() {
				if imgui.SelectableBoolV(id, f.Texture == id, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
					f.Texture = id
				}
			}
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Transform") {
		inputInt("position x", &f.PositionX)
		inputInt("position y", &f.PositionY)
		inputInt("scale x", &f.ScaleX)
		inputInt("scale y", &f.ScaleY)
		inputFloat("rotation (deg)", &f.Rotation)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Rigid Body") {
		inputInt("speed (px/sec)##body", &f.BodySpeed)
		inputFloat("angle (deg)##body", &f.BodyAngle)
		imgui.Checkbox("sync with rotation##body", &f.SyncBodyAngle)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Projectile Emitter") {
		inputInt("speed (px/sec)##projectile", &f.ProjectileSpeed)
		inputFloat("angle (deg)##projectile", &f.ProjectileAngle)
		imgui.Checkbox("sync with rotation##projectile", &f.SyncProjectileAngle)
		inputInt("repeat (sec)", &f.ProjectileRepeat)
		inputInt("duration (sec)", &f.ProjectileDuration)
		inputInt("damage %", &f.ProjectileDamage)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Health") {
		inputInt("health %", &f.Health)
		imgui.TreePop()
	}

	f.Normalize()

	imgui.Separator()
	if imgui.Button("Create new enemy") {
		e := f.Spawn(r)
		r.Logger().Info("enemy spawned", zap.Stringer("entity", e), zap.String("texture", f.Texture))
		w.Form = DefaultEnemyForm(f.Texture)
	}

	imgui.End()
}

func inputInt(label string, v *int32) {
	imgui.SetNextItemWidth(120)
	imgui.InputInt(label, v)
}

func inputFloat(label string, v *float32) {
	imgui.SetNextItemWidth(120)
	imgui.InputFloat(label, v)
}

// CursorSource returns the mouse position in screen pixels.
type CursorSource func() (int, int)

// MapCoordinates converts a screen position to world coordinates.
func MapCoordinates(camera *components.Camera, x, y int) (float64, float64) {
	wx, wy := float64(x), float64(y)
	if camera != nil {
		wx += camera.X
		wy += camera.Y
	}
	return wx, wy
}

// CoordinatesOverlay shows the world position under the mouse.
type CoordinatesOverlay struct {
	Camera ecs.Singleton[components.Camera]
	Cursor CursorSource
}

func (o *CoordinatesOverlay) Render() {
	if o.Cursor == nil {
		return
	}
	x, y := o.Cursor()
	wx, wy := MapCoordinates(o.Camera.Get(), x, y)

	const flags = imgui.WindowFlagsNoDecoration | imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoNav
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondAlways, imgui.NewVec2(0, 0))
	if imgui.BeginV("Map Coordinates", nil, flags) {
		imgui.Text(fmt.Sprintf("Map coordinates (x=%.1f, y=%.1f)", wx, wy))
	}
	imgui.End()
}

// Spawn adds the spawner and the coordinate overlay to r as ImguiItem
// entities.
func Spawn(r *ecs.Registry, textures func() []string, cursor CursorSource) {
	spawner := NewSpawnWindow(textures)
	e := r.CreateEntity()
	ecs.AddComponent(r, e, debugui.ImguiItem{
		Render: func() { spawner.Render(r) },
	})

	overlay := &CoordinatesOverlay{Cursor: cursor}
	overlay.Camera.Init(r)
	e = r.CreateEntity()
	ecs.AddComponent(r, e, debugui.ImguiItem{Render: overlay.Render})
}
