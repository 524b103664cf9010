package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
)

var (
	healthGreen  = color.RGBA{0, 255, 0, 255}
	healthOrange = color.RGBA{255, 172, 28, 255}
	healthRed    = color.RGBA{255, 0, 0, 255}
	barOutline   = color.RGBA{152, 152, 152, 255}
)

const (
	enemyBarWidth  = 27
	enemyBarHeight = 5
	enemyFontId    = "pico8-font-5"
	enemyFontSize  = 5

	playerBarX      = 10
	playerBarY      = 10
	playerBarWidth  = 150
	playerBarHeight = 10
	playerFontId    = "pico8-font-8"
	playerFontSize  = 8
)

// HealthColor is green above 70%, orange above 30% and red otherwise.
func HealthColor(percentage int) color.RGBA {
	switch {
	case percentage > 70:
		return healthGreen
	case percentage > 30:
		return healthOrange
	}
	return healthRed
}

// HealthBar is the screen layout of one health indicator.
type HealthBar struct {
	Label          string
	LabelX, LabelY float64
	Outline        components.Rect
	Fill           components.Rect
	Color          color.RGBA
}

func fillWidth(percentage int, width float64) float64 {
	return max(0, min(width, float64(percentage)*width/100))
}

// EnemyHealthBar lays out the small label and bar drawn beside an enemy.
func EnemyHealthBar(t *components.Transform, s *components.Sprite, h *components.Health, camera components.Camera) HealthBar {
	x := t.Position.X + float64(s.Width)*t.Scale.X + 5
	y := t.Position.Y - 10
	if !s.IsFixed {
		x -= camera.X
		y -= camera.Y
	}
	return HealthBar{
		Label:   fmt.Sprintf("%d%%", h.HealthPercentage),
		LabelX:  x,
		LabelY:  y,
		Outline: components.Rect{X: x - 3, Y: y + 12, W: enemyBarWidth, H: enemyBarHeight},
		Fill:    components.Rect{X: x - 3, Y: y + 12, W: fillWidth(h.HealthPercentage, enemyBarWidth), H: enemyBarHeight},
		Color:   HealthColor(h.HealthPercentage),
	}
}

// PlayerHealthBar lays out the HUD bar in the top left corner.
func PlayerHealthBar(h *components.Health) HealthBar {
	return HealthBar{
		Label:   fmt.Sprintf("%d%%", h.HealthPercentage),
		LabelX:  playerBarX + playerBarWidth + 5,
		LabelY:  playerBarY,
		Outline: components.Rect{X: playerBarX, Y: playerBarY, W: playerBarWidth, H: playerBarHeight},
		Fill:    components.Rect{X: playerBarX, Y: playerBarY, W: fillWidth(h.HealthPercentage, playerBarWidth), H: playerBarHeight},
		Color:   HealthColor(h.HealthPercentage),
	}
}

// HealthBarSystem draws health for enemies beside their sprite and for the
// player as a HUD bar.
type HealthBarSystem struct {
	ecs.System
	Screen ecs.Singleton[Screen]
	Camera ecs.Singleton[components.Camera]

	assets Assets
}

func NewHealthBarSystem(assets Assets) *HealthBarSystem {
	s := &HealthBarSystem{assets: assets}
	ecs.Require[components.Transform](&s.System)
	ecs.Require[components.Sprite](&s.System)
	ecs.Require[components.Health](&s.System)
	return s
}

func (s *HealthBarSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	var camera components.Camera
	if c := s.Camera.Get(); c != nil {
		camera = *c
	}

	r := frame.Registry
	for _, e := range s.Entities() {
		h := ecs.GetComponent[components.Health](r, e)

		var bar HealthBar
		var fontId string
		var fontSize float64
		switch {
		case r.BelongsToGroup(e, components.GroupEnemies):
			bar = EnemyHealthBar(ecs.GetComponent[components.Transform](r, e), ecs.GetComponent[components.Sprite](r, e), h, camera)
			fontId, fontSize = enemyFontId, enemyFontSize
		case r.HasTag(e, components.TagPlayer):
			bar = PlayerHealthBar(h)
			fontId, fontSize = playerFontId, playerFontSize
		default:
			continue
		}

		drawText(screen.Image, bar.Label, s.assets.FontOrDefault(fontId, fontSize), bar.LabelX, bar.LabelY, bar.Color)
		o, f := bar.Outline, bar.Fill
		vector.StrokeRect(screen.Image, float32(o.X), float32(o.Y), float32(o.W), float32(o.H), 1, barOutline, false)
		if f.W > 0 {
			vector.DrawFilledRect(screen.Image, float32(f.X), float32(f.Y), float32(f.W), float32(f.H), bar.Color, false)
		}
	}
}
