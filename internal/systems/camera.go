package systems

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
)

// CameraMovementSystem centres the camera on the followed entity, keeping
// the viewport inside the map.
type CameraMovementSystem struct {
	ecs.System
	Camera ecs.Singleton[components.Camera]
	Bounds ecs.Singleton[components.MapBounds]
}

func NewCameraMovementSystem() *CameraMovementSystem {
	s := &CameraMovementSystem{}
	ecs.Require[components.CameraFollow](&s.System)
	ecs.Require[components.Transform](&s.System)
	return s
}

func (s *CameraMovementSystem) Execute(frame *ecs.UpdateFrame) {
	camera := s.Camera.Get()
	bounds := s.Bounds.Get()
	if camera == nil || bounds == nil {
		return
	}

	for _, e := range s.Entities() {
		transform := ecs.GetComponent[components.Transform](frame.Registry, e)

		camera.X = transform.Position.X - float64(camera.Width)/2
		camera.Y = transform.Position.Y - float64(camera.Height)/2

		camera.X = clamp(camera.X, 0, max(0, bounds.Width-float64(camera.Width)))
		camera.Y = clamp(camera.Y, 0, max(0, bounds.Height-float64(camera.Height)))
	}
}
