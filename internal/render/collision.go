package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/systems"
)

var (
	colliderIdle      = color.RGBA{255, 255, 0, 255}
	colliderColliding = color.RGBA{255, 0, 0, 255}
)

// ColliderSystem outlines box colliders while the debug overlay is visible,
// red for boxes that overlapped something this frame.
type ColliderSystem struct {
	ecs.System
	Screen  ecs.Singleton[Screen]
	Camera  ecs.Singleton[components.Camera]
	Overlay ecs.Singleton[debugui.Overlay]
}

func NewColliderSystem() *ColliderSystem {
	s := &ColliderSystem{}
	ecs.Require[components.Transform](&s.System)
	ecs.Require[components.BoxCollider](&s.System)
	return s
}

func (s *ColliderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	overlay := s.Overlay.Get()
	if screen == nil || screen.Image == nil || overlay == nil || !overlay.Visible {
		return
	}
	var camera components.Camera
	if c := s.Camera.Get(); c != nil {
		camera = *c
	}

	for _, e := range s.Entities() {
		t := ecs.GetComponent[components.Transform](frame.Registry, e)
		box := ecs.GetComponent[components.BoxCollider](frame.Registry, e)

		rect := systems.ColliderRect(t, box)
		clr := colliderIdle
		if box.Colliding {
			clr = colliderColliding
		}
		vector.StrokeRect(screen.Image,
			float32(rect.X-camera.X), float32(rect.Y-camera.Y),
			float32(rect.W), float32(rect.H),
			1, clr, false)
	}
}
