package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
)

const defaultLabelSize = 12

// TextSystem draws text labels, offset by the camera unless fixed.
type TextSystem struct {
	ecs.System
	Screen ecs.Singleton[Screen]
	Camera ecs.Singleton[components.Camera]

	assets Assets
}

func NewTextSystem(assets Assets) *TextSystem {
	s := &TextSystem{assets: assets}
	ecs.Require[components.TextLabel](&s.System)
	return s
}

func (s *TextSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	var camera components.Camera
	if c := s.Camera.Get(); c != nil {
		camera = *c
	}

	for _, e := range s.Entities() {
		label := ecs.GetComponent[components.TextLabel](frame.Registry, e)
		x, y := label.Position.X, label.Position.Y
		if !label.IsFixed {
			x -= camera.X
			y -= camera.Y
		}
		drawText(screen.Image, label.Text, s.assets.FontOrDefault(label.AssetId, defaultLabelSize), x, y, label.Color)
	}
}

func drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
